package engine

import (
	"github.com/spektr-org/trendboard/settings"
)

// ============================================================================
// TABLE BUILDER — Produces TableData from the latest rows
// ============================================================================
// Headers come from the first latest row. Within a row, each display name
// is used once: table-filter columns first, then table-field columns, each
// in category-then-value order.
//
// Selection never filters the table. Every cell carries a cell toggle keyed
// by its row's table-filter value.
// ============================================================================

// StatusHeader is the first table column, the threshold indicator.
const StatusHeader = "Status"

// BuildTable produces a TableData from latest rows.
func BuildTable(latest []LatestRow, res Resolver, set settings.TableCard) *TableData {
	table := &TableData{
		FontSize:  set.FontSize,
		ShowIcons: set.ShowIcons,
		Headers:   []string{StatusHeader},
		Rows:      []TableRow{},
	}
	if len(latest) == 0 {
		return table
	}

	for _, col := range tableColumns(latest[0].Row) {
		table.Headers = append(table.Headers, col.DisplayName)
	}

	hasFilter := res.Has(RoleTableFilter)
	threshold := res.Column(RoleThreshold)

	for _, lr := range latest {
		if hasFilter && lr.Filter == ExcludedFilterValue {
			continue
		}

		label := threshold.String(lr.Index)
		row := TableRow{
			Index:     lr.Index,
			Filter:    lr.Filter,
			Threshold: label,
			Status:    StatusColor(label),
		}
		for _, col := range tableColumns(lr.Row) {
			row.Cells = append(row.Cells, TableCell{
				Column: col.DisplayName,
				Text:   col.String(0),
				Click:  CellAction(lr.Filter, col.DisplayName),
			})
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

// tableColumns picks the displayed columns of a single-row categorical.
func tableColumns(row *Categorical) []*Column {
	var (
		out  []*Column
		used = make(map[string]bool)
	)
	cols := row.Columns()
	for _, role := range []Role{RoleTableFilter, RoleTableField} {
		for _, col := range cols {
			if !col.Has(role) || used[col.DisplayName] {
				continue
			}
			used[col.DisplayName] = true
			out = append(out, col)
		}
	}
	return out
}
