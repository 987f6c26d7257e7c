package engine

import (
	"time"
)

// ============================================================================
// TRENDBOARD ENGINE TYPES — Role-Tagged Categorical Data
// ============================================================================
// The host hands the visual a categorical dataset: category columns and
// value (measure) columns sharing one row index space. Columns carry role
// tags that say what each column is for (x-axis, legend, table filter...).
//
// Everything below Result is derived on every render pass and never cached.
// ============================================================================

// ============================================================================
// COLUMN / CATEGORICAL — Input data
// ============================================================================

// Column is a role-tagged sequence of raw values, one per data row.
type Column struct {
	DisplayName string  `json:"displayName"`
	Roles       RoleSet `json:"roles"`
	Values      []any   `json:"values"`
}

// Has reports whether the column carries role r.
func (c *Column) Has(r Role) bool {
	return c != nil && c.Roles.Has(r)
}

// String returns the string form of the value at row i, or "" when i is
// out of range or the value is absent.
func (c *Column) String(i int) string {
	if c == nil || i < 0 || i >= len(c.Values) {
		return ""
	}
	return FormatValue(c.Values[i])
}

// Float returns the numeric value at row i, or NaN.
func (c *Column) Float(i int) float64 {
	if c == nil || i < 0 || i >= len(c.Values) {
		return nan
	}
	return ToFloat(c.Values[i])
}

// Categorical is the host's categorical data view.
// All columns share the same row index space.
type Categorical struct {
	Categories []Column `json:"categories"`
	Values     []Column `json:"values"`
}

// Len returns the row count, taken from the first column.
func (c *Categorical) Len() int {
	if c == nil {
		return 0
	}
	if len(c.Categories) > 0 {
		return len(c.Categories[0].Values)
	}
	if len(c.Values) > 0 {
		return len(c.Values[0].Values)
	}
	return 0
}

// Ragged reports whether any column length differs from Len.
func (c *Categorical) Ragged() bool {
	n := c.Len()
	for _, col := range c.Columns() {
		if len(col.Values) != n {
			return true
		}
	}
	return false
}

// Columns returns every column, categories first, then values.
func (c *Categorical) Columns() []*Column {
	if c == nil {
		return nil
	}
	cols := make([]*Column, 0, len(c.Categories)+len(c.Values))
	for i := range c.Categories {
		cols = append(cols, &c.Categories[i])
	}
	for i := range c.Values {
		cols = append(cols, &c.Values[i])
	}
	return cols
}

// ============================================================================
// RESULT — Render-ready output of one pass
// ============================================================================

// Result is the output of a single Render call.
// Table and Chart are nil when their sub-render was skipped.
type Result struct {
	Table     *TableData   `json:"table,omitempty"`
	Chart     *ChartConfig `json:"chart,omitempty"`
	Series    []Series     `json:"series,omitempty"`
	Selection Selection    `json:"selection"`
	Skipped   []string     `json:"skipped,omitempty"`
}

// ============================================================================
// TABLE TYPES
// ============================================================================

// TableData is the latest-row table.
type TableData struct {
	FontSize  float64    `json:"fontSize"`
	ShowIcons bool       `json:"showIcons"`
	Headers   []string   `json:"headers"`
	Rows      []TableRow `json:"rows"`
}

// TableRow is one latest row.
type TableRow struct {
	Index     int         `json:"index"`
	Filter    string      `json:"filter"`
	Threshold string      `json:"threshold,omitempty"`
	Status    string      `json:"status,omitempty"` // indicator color; "" is neutral
	Cells     []TableCell `json:"cells"`
}

// TableCell is a clickable table cell.
type TableCell struct {
	Column string `json:"column"`
	Text   string `json:"text"`
	Click  Action `json:"click"`
}

// ============================================================================
// SERIES TYPES
// ============================================================================

// Point is one (x, y) pair and the source row it came from.
type Point struct {
	X     string  `json:"x"`
	Y     float64 `json:"y"`
	Index int     `json:"index"`
}

// Series is the ordered points sharing one legend value.
type Series struct {
	Legend string  `json:"legend"`
	Points []Point `json:"points"`
}

// ============================================================================
// CHART TYPES
// ============================================================================

// Rect is a plot area in pixels.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ChartConfig is the laid-out line chart. All coordinates are relative to
// Plot's origin.
type ChartConfig struct {
	Width           float64     `json:"width"`
	Height          float64     `json:"height"`
	Plot            Rect        `json:"plot"`
	XAxis           Axis        `json:"xAxis"`
	YAxis           Axis        `json:"yAxis"`
	Lines           []ChartLine `json:"lines"`
	Legend          Legend      `json:"legend"`
	ThresholdLegend *Legend     `json:"thresholdLegend,omitempty"`
}

// Axis holds tick marks for one axis.
type Axis struct {
	Title  string `json:"title"`
	Ticks  []Tick `json:"ticks"`
	Rotate bool   `json:"rotate,omitempty"`
}

// Tick is one axis tick. Pos is in pixels along the axis.
type Tick struct {
	Label   string  `json:"label"`
	Pos     float64 `json:"pos"`
	Visible bool    `json:"visible"`
}

// ChartLine is one drawn series.
type ChartLine struct {
	Legend  string       `json:"legend"`
	Color   string       `json:"color"`
	Width   float64      `json:"width"`
	Opacity float64      `json:"opacity"`
	Path    string       `json:"path"`
	Points  []ChartPoint `json:"points,omitempty"`
	Click   Action       `json:"click"`
}

// ChartPoint is a point marker on a line.
type ChartPoint struct {
	Point
	PX      float64 `json:"px"`
	PY      float64 `json:"py"`
	Shape   Shape   `json:"shape"`
	Path    string  `json:"path"`
	Color   string  `json:"color"`
	Size    float64 `json:"size"`
	Opacity float64 `json:"opacity"`
	Click   Action  `json:"click"`
	Tooltip Tooltip `json:"tooltip"`
}

// Tooltip is the hover box for a point.
type Tooltip struct {
	Lines   []string      `json:"lines"`
	X       float64       `json:"x"`
	Y       float64       `json:"y"`
	Opacity float64       `json:"opacity"`
	FadeIn  time.Duration `json:"fadeIn"`
	FadeOut time.Duration `json:"fadeOut"`
}

// Legend is a titled column of swatches.
type Legend struct {
	Title   string        `json:"title"`
	X       float64       `json:"x"`
	Y       float64       `json:"y"`
	Entries []LegendEntry `json:"entries"`
}

// LegendEntry is one legend row. Y is relative to the legend origin.
type LegendEntry struct {
	Label string  `json:"label"`
	Color string  `json:"color"`
	Shape Shape   `json:"shape"`
	Path  string  `json:"path,omitempty"` // marker path for shaped entries
	Y     float64 `json:"y"`
	Click Action  `json:"click"`
}
