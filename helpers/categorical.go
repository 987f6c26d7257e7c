package helpers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spektr-org/trendboard/engine"
	"github.com/spektr-org/trendboard/schema"
)

// ErrUnknownColumn is returned when a binding names a column the source
// does not have.
var ErrUnknownColumn = errors.New("bound column not in source")

// BuildCategorical turns raw rows into role-tagged columns: dimensions
// become category columns and measures become value columns, each in
// schema order. Short rows are padded so every column has one value per
// row. Measure cells that do not parse as numbers are stored as nil.
func BuildCategorical(headers []string, rows [][]string, sch schema.Config) (*engine.Categorical, error) {
	cat := &engine.Categorical{
		Categories: make([]engine.Column, 0, len(sch.Dimensions)),
		Values:     make([]engine.Column, 0, len(sch.Measures)),
	}

	for _, d := range sch.Dimensions {
		idx := headerIndex(headers, d.Matches)
		if idx < 0 {
			return nil, fmt.Errorf("%w: dimension %q", ErrUnknownColumn, d.Key)
		}
		values := make([]any, len(rows))
		for i, row := range rows {
			values[i] = cell(row, idx)
		}
		cat.Categories = append(cat.Categories, engine.Column{
			DisplayName: displayName(d.DisplayName, headers[idx]),
			Roles:       d.RoleSet(),
			Values:      values,
		})
	}

	for _, m := range sch.Measures {
		idx := headerIndex(headers, m.Matches)
		if idx < 0 {
			return nil, fmt.Errorf("%w: measure %q", ErrUnknownColumn, m.Key)
		}
		values := make([]any, len(rows))
		for i, row := range rows {
			if f, ok := schema.ParseNumber(cell(row, idx)); ok {
				values[i] = f
			}
		}
		cat.Values = append(cat.Values, engine.Column{
			DisplayName: displayName(m.DisplayName, headers[idx]),
			Roles:       m.RoleSet(),
			Values:      values,
		})
	}

	return cat, nil
}

func headerIndex(headers []string, match func(string) bool) int {
	for i, h := range headers {
		if match(h) {
			return i
		}
	}
	return -1
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func displayName(name, header string) string {
	if name != "" {
		return name
	}
	return strings.TrimSpace(header)
}
