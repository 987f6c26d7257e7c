package settings

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Default returns the settings the format pane starts from.
func Default() Model {
	return Model{
		DataPoint: DataPointCard{
			ShowAllDataPoints: true,
			FontSize:          12,
		},
		Table: TableCard{
			ShowIcons: true,
			FontSize:  12,
		},
		Chart: ChartCard{
			ShowPoints:          true,
			LineWidth:           2,
			PointSize:           4,
			LegendTitle:         "Site",
			ThresholdMarkColumn: "Threshold Mark",
		},
	}
}

// ============================================================================
// POPULATE — host data-view objects → Model
// ============================================================================
// The host sends formatting state as card → property → value. Colors may
// arrive wrapped ({"solid": {"color": "#fff"}}). Unknown cards, unknown
// properties and values of the wrong type are ignored, and any value that
// would fail Validate falls back to its default.
// ============================================================================

// Populate overlays host objects onto the defaults.
func Populate(objects map[string]map[string]any) Model {
	m := Default()

	if card, ok := objects[CardDataPoint]; ok {
		setColor(card, "defaultColor", &m.DataPoint.DefaultColor)
		setBool(card, "showAllDataPoints", &m.DataPoint.ShowAllDataPoints)
		setColor(card, "fill", &m.DataPoint.Fill)
		setString(card, "fillRule", &m.DataPoint.FillRule)
		setNumber(card, "fontSize", &m.DataPoint.FontSize)
	}
	if card, ok := objects[CardTable]; ok {
		setBool(card, "showIcons", &m.Table.ShowIcons)
		setNumber(card, "fontSize", &m.Table.FontSize)
	}
	if card, ok := objects[CardChart]; ok {
		setBool(card, "showPoints", &m.Chart.ShowPoints)
		setNumber(card, "lineWidth", &m.Chart.LineWidth)
		setNumber(card, "pointSize", &m.Chart.PointSize)
		setString(card, "legendTitle", &m.Chart.LegendTitle)
		setString(card, "thresholdMarkColumn", &m.Chart.ThresholdMarkColumn)
	}

	return sanitize(m)
}

func sanitize(m Model) Model {
	def := Default()
	if m.Chart.LineWidth <= 0 {
		m.Chart.LineWidth = def.Chart.LineWidth
	}
	if m.Chart.PointSize <= 0 {
		m.Chart.PointSize = def.Chart.PointSize
	}
	if m.Table.FontSize < MinFontSize || m.Table.FontSize > MaxFontSize {
		m.Table.FontSize = def.Table.FontSize
	}
	if m.DataPoint.FontSize < MinFontSize || m.DataPoint.FontSize > MaxFontSize {
		m.DataPoint.FontSize = def.DataPoint.FontSize
	}
	return m
}

func setBool(card map[string]any, key string, dst *bool) {
	switch v := card[key].(type) {
	case bool:
		*dst = v
	case string:
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setNumber(card map[string]any, key string, dst *float64) {
	switch v := card[key].(type) {
	case float64:
		*dst = v
	case float32:
		*dst = float64(v)
	case int:
		*dst = float64(v)
	case int64:
		*dst = float64(v)
	case json.Number:
		if f, err := v.Float64(); err == nil {
			*dst = f
		}
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			*dst = f
		}
	}
}

func setString(card map[string]any, key string, dst *string) {
	if v, ok := card[key].(string); ok {
		*dst = v
	}
}

func setColor(card map[string]any, key string, dst *string) {
	switch v := card[key].(type) {
	case string:
		*dst = v
	case map[string]any:
		if solid, ok := v["solid"].(map[string]any); ok {
			if c, ok := solid["color"].(string); ok {
				*dst = c
			}
		}
	}
}
