package engine

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// ============================================================================
// VIEWS — Row subsets, typed adapters, value coercion
// ============================================================================
// Subset carves single-row (or any-row) categoricals out of a dataset, the
// shape the latest-row selector hands to the table builder.
//
// DomainAdapter lets Go callers bind typed structs to role-tagged columns
// without going through CSV or a host payload.
// ============================================================================

var nan = math.NaN()

// Subset returns a categorical holding only the given rows, in order.
// Out-of-range indices yield absent (nil) values.
func (c *Categorical) Subset(indices []int) *Categorical {
	pick := func(cols []Column) []Column {
		out := make([]Column, len(cols))
		for i, col := range cols {
			vals := make([]any, len(indices))
			for j, idx := range indices {
				if idx >= 0 && idx < len(col.Values) {
					vals[j] = col.Values[idx]
				}
			}
			out[i] = Column{DisplayName: col.DisplayName, Roles: col.Roles, Values: vals}
		}
		return out
	}
	return &Categorical{
		Categories: pick(c.Categories),
		Values:     pick(c.Values),
	}
}

// ============================================================================
// VALUE COERCION
// ============================================================================

// FormatValue renders a raw value the way the visual displays and compares
// it. Absent values format as "".
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return formatNumber(t)
	case float32:
		return formatNumber(float64(t))
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case uint:
		return strconv.FormatUint(uint64(t), 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return t.String()
	case time.Time:
		return t.Format(time.RFC3339)
	case []byte:
		return string(t)
	case interface{ String() string }:
		return t.String()
	}
	return ""
}

// ToFloat coerces a raw value to float64. Non-numeric values yield NaN.
func ToFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case int32:
		return float64(t)
	case uint:
		return float64(t)
	case uint64:
		return float64(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return nan
		}
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return nan
		}
		return f
	case []byte:
		return ToFloat(string(t))
	}
	return nan
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ============================================================================
// DOMAIN ADAPTER — typed structs → role-tagged columns
// ============================================================================
//
// Usage:
//
//	cat := engine.NewDomainAdapter[Reading]().
//	    Category("Month", func(r Reading) any { return r.Month }, engine.RoleXAxis).
//	    Category("Site", func(r Reading) any { return r.Site }, engine.RoleLineLegend, engine.RoleTableFilter).
//	    Measure("Level", func(r Reading) any { return r.Level }, engine.RoleYAxis, engine.RoleTableField).
//	    Bind(readings)
//
// ============================================================================

type accessor[T any] struct {
	name  string
	roles RoleSet
	fn    func(T) any
}

// DomainAdapter builds a Categorical from typed structs.
// Declare once, bind many times.
type DomainAdapter[T any] struct {
	categories []accessor[T]
	measures   []accessor[T]
}

// NewDomainAdapter creates a new adapter for type T.
func NewDomainAdapter[T any]() *DomainAdapter[T] {
	return &DomainAdapter[T]{}
}

// Category registers a category column.
func (a *DomainAdapter[T]) Category(name string, fn func(T) any, roles ...Role) *DomainAdapter[T] {
	a.categories = append(a.categories, accessor[T]{name: name, roles: NewRoleSet(roles...), fn: fn})
	return a
}

// Measure registers a value column.
func (a *DomainAdapter[T]) Measure(name string, fn func(T) any, roles ...Role) *DomainAdapter[T] {
	a.measures = append(a.measures, accessor[T]{name: name, roles: NewRoleSet(roles...), fn: fn})
	return a
}

// Bind evaluates every accessor over data.
func (a *DomainAdapter[T]) Bind(data []T) *Categorical {
	build := func(accs []accessor[T]) []Column {
		cols := make([]Column, len(accs))
		for i, acc := range accs {
			vals := make([]any, len(data))
			for j, d := range data {
				vals[j] = acc.fn(d)
			}
			cols[i] = Column{DisplayName: acc.name, Roles: acc.roles, Values: vals}
		}
		return cols
	}
	return &Categorical{
		Categories: build(a.categories),
		Values:     build(a.measures),
	}
}
