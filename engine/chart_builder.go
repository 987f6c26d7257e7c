package engine

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spektr-org/trendboard/settings"
)

// ============================================================================
// CHART BUILDER — Produces ChartConfig from series + selection
// ============================================================================
// Layout mirrors a d3 margin-convention chart: a plot area inset by fixed
// margins, a band x-scale over the sorted distinct x values, a linear
// y-scale from zero, and a legend column to the right of the plot.
//
// Selection is applied in two steps: filter to the matching series (or
// keep all when nothing matches), then emphasis per series.
// ============================================================================

// Margins around the plot area, in pixels.
const (
	MarginTop    = 40.0
	MarginRight  = 40.0
	MarginBottom = 80.0
	MarginLeft   = 60.0
	LegendMargin = 175.0 // reserved right of the plot for legends

	legendOffset    = 50.0 // legend x, past the plot's right edge
	legendRowHeight = 25.0
	legendSwatchX   = 10.0 // threshold marker centre within a legend row
)

// ThresholdLegendTitle heads the threshold legend.
const ThresholdLegendTitle = "Threshold Mark"

// Tooltip timing and placement.
const (
	TooltipFadeIn  = 200 * time.Millisecond
	TooltipFadeOut = 500 * time.Millisecond
	TooltipOpacity = 0.9
	tooltipDX      = 10.0
	tooltipDY      = -10.0
)

// BuildChart lays out the line chart. series is the full grouping in
// first-seen order; it is not modified. Returns nil when the x- or y-axis
// role is unbound.
func BuildChart(cat *Categorical, res Resolver, series []Series, set settings.ChartCard, sel Selection, vp Viewport, coll *Collator) *ChartConfig {
	xCol, yCol := res.Column(RoleXAxis), res.Column(RoleYAxis)
	if xCol == nil || yCol == nil {
		return nil
	}
	legendCol := res.Column(RoleLineLegend)
	thresholdCol := res.Column(RoleThreshold)

	plot := Rect{
		Left:   MarginLeft,
		Top:    MarginTop,
		Width:  math.Max(1, vp.Width-MarginLeft-MarginRight-LegendMargin),
		Height: math.Max(1, vp.Height-MarginTop-MarginBottom),
	}

	// ── Scales ──────────────────────────────────────────────────────────
	domain := make([]string, len(xCol.Values))
	for i := range xCol.Values {
		domain[i] = xCol.String(i)
	}
	sort.SliceStable(domain, func(i, j int) bool { return coll.Less(domain[i], domain[j]) })
	xs := NewBandScale(domain, 0, plot.Width, bandPadding)

	ys := make([]float64, len(yCol.Values))
	for i := range yCol.Values {
		ys[i] = yCol.Float(i)
	}
	yScale := NewLinearScale(0, YDomainMax(ys), plot.Height, 0)

	chart := &ChartConfig{
		Width:  vp.Width,
		Height: vp.Height,
		Plot:   plot,
		XAxis:  buildXAxis(xCol, xs, plot.Width),
		YAxis:  buildYAxis(yCol, yScale),
	}

	// ── Lines ───────────────────────────────────────────────────────────
	visible := append([]Series(nil), ApplySelection(series, sel)...)
	SortSeries(visible, coll)

	chart.Legend = Legend{
		Title: set.LegendTitle,
		X:     plot.Width + legendOffset,
		Y:     0,
	}

	for i, s := range visible {
		color := PaletteColor(i)
		if legendCol != nil {
			color = LegendColor(s.Legend)
		}
		emph := sel.EmphasisFor(s.Legend)

		line := ChartLine{
			Legend:  s.Legend,
			Color:   color,
			Width:   set.LineWidth * emph.Width,
			Opacity: emph.Opacity,
			Click:   SeriesAction(s.Legend),
		}

		var path strings.Builder
		for _, p := range s.Points {
			if math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
				continue
			}
			px, _ := xs.Center(p.X)
			py := yScale.Scale(p.Y)
			if path.Len() == 0 {
				path.WriteString("M")
			} else {
				path.WriteString("L")
			}
			path.WriteString(fmtCoord(px) + "," + fmtCoord(py))

			if set.ShowPoints {
				line.Points = append(line.Points, buildPoint(p, px, py, set, emph, s.Legend, legendCol, yCol, thresholdCol))
			}
		}
		line.Path = path.String()
		chart.Lines = append(chart.Lines, line)

		chart.Legend.Entries = append(chart.Legend.Entries, LegendEntry{
			Label: s.Legend,
			Color: color,
			Y:     float64(i)*legendRowHeight + legendRowHeight,
			Click: SeriesAction(s.Legend),
		})
	}

	if thresholdCol != nil {
		chart.ThresholdLegend = buildThresholdLegend(cat, thresholdCol, set, plot.Width+legendOffset, float64(len(visible))*legendRowHeight+legendOffset)
	}
	return chart
}

func buildPoint(p Point, px, py float64, set settings.ChartCard, emph Emphasis, legend string, legendCol, yCol, thresholdCol *Column) ChartPoint {
	shape, color := ShapeCircle, ColorNoThreshold
	if thresholdCol != nil {
		label := thresholdCol.String(p.Index)
		shape, color = ThresholdShape(label), ThresholdColor(label)
	}
	size := set.PointSize * emph.Size

	var lines []string
	if legendCol != nil {
		lines = append(lines, legendCol.DisplayName+": "+legendCol.String(p.Index))
	}
	lines = append(lines, yCol.DisplayName+": "+formatNumber(p.Y))

	return ChartPoint{
		Point:   p,
		PX:      px,
		PY:      py,
		Shape:   shape,
		Path:    ShapePath(shape, px, py, size),
		Color:   color,
		Size:    size,
		Opacity: emph.Opacity,
		Click:   SeriesAction(legend),
		Tooltip: Tooltip{
			Lines:   lines,
			X:       px + tooltipDX,
			Y:       py + tooltipDY,
			Opacity: TooltipOpacity,
			FadeIn:  TooltipFadeIn,
			FadeOut: TooltipFadeOut,
		},
	}
}

// ============================================================================
// AXES
// ============================================================================

func buildXAxis(xCol *Column, xs *BandScale, width float64) Axis {
	count := len(xCol.Values)
	stride := TickStride(count, width)

	axis := Axis{Title: xCol.DisplayName, Rotate: RotateLabels(count)}
	for i, v := range xs.Domain() {
		pos, _ := xs.Center(v)
		axis.Ticks = append(axis.Ticks, Tick{
			Label:   v,
			Pos:     pos,
			Visible: i%stride == 0,
		})
	}
	return axis
}

func buildYAxis(yCol *Column, ys *LinearScale) Axis {
	axis := Axis{Title: yCol.DisplayName}
	for _, v := range ys.Ticks(defaultYTickCnt) {
		axis.Ticks = append(axis.Ticks, Tick{
			Label:   FormatTick(v),
			Pos:     ys.Scale(v),
			Visible: true,
		})
	}
	return axis
}

// ============================================================================
// THRESHOLD LEGEND
// ============================================================================

// buildThresholdLegend lists each threshold label present in the data, in
// fixed order, except Green. An entry's text is the threshold-mark value at
// the first row carrying that label, or the label itself when there is no
// threshold-mark column.
func buildThresholdLegend(cat *Categorical, thresholdCol *Column, set settings.ChartCard, x, y float64) *Legend {
	var mark *Column
	for i := range cat.Values {
		if cat.Values[i].DisplayName == set.ThresholdMarkColumn {
			mark = &cat.Values[i]
			break
		}
	}

	first := make(map[string]int)
	for i := range thresholdCol.Values {
		label := thresholdCol.String(i)
		if _, seen := first[label]; !seen {
			first[label] = i
		}
	}

	legend := &Legend{Title: ThresholdLegendTitle, X: x, Y: y}
	for _, label := range thresholdOrder {
		idx, ok := first[label]
		if !ok || label == ThresholdGreen {
			continue
		}
		text := label
		if mark != nil {
			text = mark.String(idx)
		}
		shape := ThresholdShape(label)
		legend.Entries = append(legend.Entries, LegendEntry{
			Label: text,
			Color: ThresholdColor(label),
			Shape: shape,
			Path:  ShapePath(shape, legendSwatchX, 0, set.PointSize),
			Y:     float64(len(legend.Entries))*legendRowHeight + legendRowHeight,
		})
	}
	return legend
}

func fmtCoord(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
