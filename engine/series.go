package engine

import (
	"sort"
)

// ============================================================================
// SERIES GROUPER
// ============================================================================
// Partitions (x, y) pairs into one series per legend value. Every source row
// lands in exactly one series. Series come out in first-seen legend order;
// display order is applied separately by SortSeries.
// ============================================================================

// GroupSeries builds series from the x, y and optional legend columns.
// Without a legend column the whole dataset is one unlabeled series.
// Points in each series are ordered by x using coll.
func GroupSeries(x, y, legend *Column, coll *Collator) []Series {
	if x == nil || y == nil {
		return nil
	}

	var series []Series
	if legend == nil {
		points := make([]Point, 0, len(x.Values))
		for i := range x.Values {
			points = append(points, Point{X: x.String(i), Y: y.Float(i), Index: i})
		}
		series = []Series{{Legend: "", Points: points}}
	} else {
		slot := make(map[string]int)
		for i := range x.Values {
			key := legend.String(i)
			pos, ok := slot[key]
			if !ok {
				pos = len(series)
				slot[key] = pos
				series = append(series, Series{Legend: key})
			}
			series[pos].Points = append(series[pos].Points, Point{X: x.String(i), Y: y.Float(i), Index: i})
		}
	}

	for i := range series {
		pts := series[i].Points
		sort.SliceStable(pts, func(a, b int) bool {
			return coll.Less(pts[a].X, pts[b].X)
		})
	}
	return series
}

// SortSeries orders series by legend value for display.
func SortSeries(series []Series, coll *Collator) {
	sort.SliceStable(series, func(i, j int) bool {
		return coll.Less(series[i].Legend, series[j].Legend)
	})
}
