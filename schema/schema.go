package schema

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spektr-org/trendboard/engine"
)

// ============================================================================
// SCHEMA — Binds source columns to visual roles
// ============================================================================
// A dataset source (CSV, workbook sheet, SQL query) is just headers and
// rows. The schema says which of those columns become category columns,
// which become value columns, and which roles each one carries.
//
// Auto-discovered from the data (see discover.go) or written by hand as
// YAML/JSON and loaded with LoadFromPath.
// ============================================================================

// ErrInvalidSchema is wrapped by every validation failure.
var ErrInvalidSchema = errors.New("invalid schema")

// Config describes the complete binding of a dataset.
type Config struct {
	Name        string `json:"name" yaml:"name"`
	Version     string `json:"version,omitempty" yaml:"version,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	Dimensions []DimensionMeta `json:"dimensions" yaml:"dimensions"`
	Measures   []MeasureMeta   `json:"measures" yaml:"measures"`

	// Auto-discovery metadata
	DiscoveredFrom string `json:"discoveredFrom,omitempty" yaml:"discoveredFrom,omitempty"`
	DiscoveredAt   string `json:"discoveredAt,omitempty" yaml:"discoveredAt,omitempty"`

	// Columns skipped during auto-discovery
	SkippedColumns []SkippedColumn `json:"skippedColumns,omitempty" yaml:"skippedColumns,omitempty"`
}

// DimensionMeta describes a category column.
type DimensionMeta struct {
	Key             string   `json:"key" yaml:"key"`
	Column          string   `json:"column,omitempty" yaml:"column,omitempty"` // source header; matched by Key when empty
	DisplayName     string   `json:"displayName" yaml:"displayName"`
	Roles           []string `json:"roles,omitempty" yaml:"roles,omitempty"`
	SampleValues    []string `json:"sampleValues,omitempty" yaml:"sampleValues,omitempty"`
	IsTemporal      bool     `json:"isTemporal,omitempty" yaml:"isTemporal,omitempty"`
	TemporalFormat  string   `json:"temporalFormat,omitempty" yaml:"temporalFormat,omitempty"`
	IsThreshold     bool     `json:"isThreshold,omitempty" yaml:"isThreshold,omitempty"`
	CardinalityHint string   `json:"cardinalityHint,omitempty" yaml:"cardinalityHint,omitempty"` // "low", "medium", "high"
}

// MeasureMeta describes a numeric value column.
type MeasureMeta struct {
	Key         string   `json:"key" yaml:"key"`
	Column      string   `json:"column,omitempty" yaml:"column,omitempty"`
	DisplayName string   `json:"displayName" yaml:"displayName"`
	Roles       []string `json:"roles,omitempty" yaml:"roles,omitempty"`
	Unit        string   `json:"unit,omitempty" yaml:"unit,omitempty"`
}

// SkippedColumn records why a column was excluded during auto-discovery.
type SkippedColumn struct {
	Column      string `json:"column" yaml:"column"`
	Reason      string `json:"reason" yaml:"reason"`
	Recoverable bool   `json:"recoverable" yaml:"recoverable"` // Can be restored with DiscoverOptions.RecoverColumns
}

// DefaultDimension creates a DimensionMeta bound to roles.
func DefaultDimension(key, displayName string, roles ...engine.Role) DimensionMeta {
	return DimensionMeta{
		Key:         key,
		DisplayName: displayName,
		Roles:       roleNames(roles),
	}
}

// DefaultMeasure creates a MeasureMeta bound to roles.
func DefaultMeasure(key, displayName string, roles ...engine.Role) MeasureMeta {
	return MeasureMeta{
		Key:         key,
		DisplayName: displayName,
		Roles:       roleNames(roles),
	}
}

// RoleSet converts the dimension's role names. Unknown names are dropped;
// Validate reports them.
func (d DimensionMeta) RoleSet() engine.RoleSet { return parseRoles(d.Roles) }

// RoleSet converts the measure's role names.
func (m MeasureMeta) RoleSet() engine.RoleSet { return parseRoles(m.Roles) }

// Matches reports whether a source header feeds this dimension.
func (d DimensionMeta) Matches(header string) bool { return matches(d.Key, d.Column, header) }

// Matches reports whether a source header feeds this measure.
func (m MeasureMeta) Matches(header string) bool { return matches(m.Key, m.Column, header) }

// DimensionKeys returns all dimension keys.
func (c Config) DimensionKeys() []string {
	keys := make([]string, len(c.Dimensions))
	for i, d := range c.Dimensions {
		keys[i] = d.Key
	}
	return keys
}

// MeasureKeys returns all measure keys.
func (c Config) MeasureKeys() []string {
	keys := make([]string, len(c.Measures))
	for i, m := range c.Measures {
		keys[i] = m.Key
	}
	return keys
}

// Bound returns the key of the first column carrying role, dimensions
// first, or "" when nothing does. Mirrors the engine's resolution order.
func (c Config) Bound(role engine.Role) string {
	for _, d := range c.Dimensions {
		if d.RoleSet().Has(role) {
			return d.Key
		}
	}
	for _, m := range c.Measures {
		if m.RoleSet().Has(role) {
			return m.Key
		}
	}
	return ""
}

// ============================================================================
// LOAD / VALIDATE
// ============================================================================

// LoadFromPath reads a YAML or JSON binding file.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML (or JSON, which YAML accepts) and validates the result.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks keys are present and unique across dimensions and
// measures, and every role name is known.
func (c Config) Validate() error {
	var errs []error
	seen := make(map[string]bool)

	check := func(kind, key string, roles []string) {
		if strings.TrimSpace(key) == "" {
			errs = append(errs, fmt.Errorf("%w: %s with empty key", ErrInvalidSchema, kind))
			return
		}
		if seen[key] {
			errs = append(errs, fmt.Errorf("%w: duplicate key %q", ErrInvalidSchema, key))
		}
		seen[key] = true
		for _, r := range roles {
			if _, ok := engine.ParseRole(r); !ok {
				errs = append(errs, fmt.Errorf("%w: %s %q: unknown role %q", ErrInvalidSchema, kind, key, r))
			}
		}
	}

	for _, d := range c.Dimensions {
		check("dimension", d.Key, d.Roles)
	}
	for _, m := range c.Measures {
		check("measure", m.Key, m.Roles)
	}
	if len(c.Dimensions)+len(c.Measures) == 0 {
		errs = append(errs, fmt.Errorf("%w: no columns", ErrInvalidSchema))
	}
	return errors.Join(errs...)
}

// ============================================================================
// HELPERS
// ============================================================================

// Key derives the schema key for a source header.
func Key(header string) string { return toSnakeCase(strings.TrimSpace(header)) }

func matches(key, column, header string) bool {
	if column != "" {
		return strings.TrimSpace(header) == column
	}
	return Key(header) == key
}

func parseRoles(names []string) engine.RoleSet {
	var s engine.RoleSet
	for _, n := range names {
		if r, ok := engine.ParseRole(n); ok {
			s = s.With(r)
		}
	}
	return s
}

func roleNames(roles []engine.Role) []string {
	if len(roles) == 0 {
		return nil
	}
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = r.String()
	}
	return names
}
