package engine

import (
	"encoding/json"
	"errors"
	"strings"
)

// ============================================================================
// ROLES — Semantic column tags + per-pass resolution
// ============================================================================
// Roles are resolved once per render pass into a Role → Column map instead
// of re-scanning the column set on every access.
// ============================================================================

// Role is a semantic tag on a dataset column.
type Role uint8

const (
	RoleXAxis Role = iota + 1
	RoleYAxis
	RoleLineLegend
	RoleThreshold
	RoleTableFilter
	RoleTableField
)

// AllRoles lists every role in declaration order.
var AllRoles = []Role{RoleXAxis, RoleYAxis, RoleLineLegend, RoleThreshold, RoleTableFilter, RoleTableField}

// ErrMissingRole is wrapped into skip reasons when a required role is absent.
var ErrMissingRole = errors.New("missing required role")

var roleNames = map[Role]string{
	RoleXAxis:       "xAxis",
	RoleYAxis:       "yAxis",
	RoleLineLegend:  "lineLegend",
	RoleThreshold:   "threshold",
	RoleTableFilter: "tableFilter",
	RoleTableField:  "tableField",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "unknown"
}

// ParseRole maps a role name ("xAxis", "tablefilter", ...) to a Role.
// Matching is case-insensitive.
func ParseRole(s string) (Role, bool) {
	s = strings.TrimSpace(s)
	for r, name := range roleNames {
		if strings.EqualFold(name, s) {
			return r, true
		}
	}
	return 0, false
}

// RoleSet is a set of roles. Roles are not mutually exclusive.
type RoleSet uint8

// NewRoleSet builds a set from roles.
func NewRoleSet(roles ...Role) RoleSet {
	var s RoleSet
	for _, r := range roles {
		s = s.With(r)
	}
	return s
}

func (s RoleSet) Has(r Role) bool     { return r != 0 && s&(1<<(r-1)) != 0 }
func (s RoleSet) With(r Role) RoleSet { return s | 1<<(r-1) }

// Roles returns the members in declaration order.
func (s RoleSet) Roles() []Role {
	var out []Role
	for _, r := range AllRoles {
		if s.Has(r) {
			out = append(out, r)
		}
	}
	return out
}

// MarshalJSON encodes the set as a list of role names.
func (s RoleSet) MarshalJSON() ([]byte, error) {
	names := make([]string, 0, 6)
	for _, r := range s.Roles() {
		names = append(names, r.String())
	}
	return json.Marshal(names)
}

// UnmarshalJSON decodes a list of role names. Unknown names are ignored.
func (s *RoleSet) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	*s = 0
	for _, n := range names {
		if r, ok := ParseRole(n); ok {
			*s = s.With(r)
		}
	}
	return nil
}

// ============================================================================
// RESOLVER
// ============================================================================

// Resolver maps each role to at most one column.
type Resolver struct {
	cols map[Role]*Column
}

// Resolve picks, for every role, the first column carrying it.
// Category columns are searched before value columns.
func Resolve(cat *Categorical) Resolver {
	res := Resolver{cols: make(map[Role]*Column, len(AllRoles))}
	for _, col := range cat.Columns() {
		for _, r := range col.Roles.Roles() {
			if _, taken := res.cols[r]; !taken {
				res.cols[r] = col
			}
		}
	}
	return res
}

// Column returns the column bound to r, or nil.
func (r Resolver) Column(role Role) *Column {
	return r.cols[role]
}

// Has reports whether role is bound.
func (r Resolver) Has(role Role) bool {
	return r.cols[role] != nil
}
