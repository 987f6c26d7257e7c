// Package trendboard renders a threshold-coded dataset as two linked views:
// a table of the rows at the most recent x value and a multi-series line
// chart over time, with one shared selection.
//
// Usage:
//
//	import (
//	    "github.com/spektr-org/trendboard/draw"
//	    "github.com/spektr-org/trendboard/helpers"
//	    "github.com/spektr-org/trendboard/visual"
//	)
//
//	cat, _, err := helpers.Load(ctx, helpers.Source{Path: "readings.csv"}, nil)
//	v := visual.New(draw.SVGPresenter{W: os.Stdout})
//	err = v.Update(visual.NewUpdate(cat, settings.Default(), engine.Viewport{}))
//	err = v.Dispatch(draw.LineID(0), draw.EventClick)
//
// The engine package is pure: the same data, settings and selection always
// produce the same table and chart. The visual package owns the selection
// and re-renders on every update and click.
package trendboard
