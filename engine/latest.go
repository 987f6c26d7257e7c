package engine

import (
	"sort"
)

// ============================================================================
// LATEST-ROW SELECTOR
// ============================================================================
// "Latest" means the x-axis value that is lexically greatest across the whole
// dataset, not per filter group. Every row tied at that maximum is kept.
//
// Comparison is ordinal (byte order), so "9" > "10". Do not switch to
// numeric comparison without knowing the x-axis value format.
// ============================================================================

// ExcludedFilterValue is the table-filter value whose rows are never shown
// in the table. Such rows still feed the chart.
const ExcludedFilterValue = "00"

// LatestRow is one row selected as latest, carved out as its own
// single-row categorical.
type LatestRow struct {
	Index  int          // source row index
	Filter string       // table-filter value, "" without a filter column
	Row    *Categorical // every column, reduced to this row
}

// LatestIndices returns the indices of every row whose x value equals the
// dataset-wide maximum, in source order.
func LatestIndices(x *Column) []int {
	if x == nil {
		return nil
	}
	var (
		indices []int
		max     string
	)
	for i, v := range x.Values {
		s := FormatValue(v)
		switch {
		case len(indices) == 0 || s > max:
			indices = append(indices[:0], i)
			max = s
		case s == max:
			indices = append(indices, i)
		}
	}
	return indices
}

// SelectLatest picks the latest rows and orders them by table-filter value
// using locale-aware comparison. Ties keep source order.
// Returns nil when the x-axis role is unbound.
func SelectLatest(cat *Categorical, res Resolver, coll *Collator) []LatestRow {
	x := res.Column(RoleXAxis)
	if x == nil {
		return nil
	}
	filter := res.Column(RoleTableFilter)

	indices := LatestIndices(x)
	rows := make([]LatestRow, 0, len(indices))
	for _, idx := range indices {
		rows = append(rows, LatestRow{
			Index:  idx,
			Filter: filter.String(idx),
			Row:    cat.Subset([]int{idx}),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return coll.Less(rows[i].Filter, rows[j].Filter)
	})
	return rows
}
