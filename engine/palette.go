package engine

import (
	"strconv"
)

// ============================================================================
// COLOR & SHAPE POLICY
// ============================================================================
// Threshold labels drive both the table status indicator and the chart
// point marker. Legend codes drive line color. Unknown values fall through
// to defaults; nothing here fails.
// ============================================================================

// Threshold labels.
const (
	ThresholdGreen      = "Green"
	ThresholdHighYellow = "High Yellow"
	ThresholdLowYellow  = "Low Yellow"
	ThresholdHighRed    = "High Red"
	ThresholdLowRed     = "Low Red"
)

// Colors.
const (
	ColorGold        = "#FFD700"
	ColorRedOrange   = "#e75a48"
	ColorGreen       = "#4FC14F"
	ColorNoThreshold = "#1f77b4"
	ColorSlateBlue   = "#3e5266"
	ColorAmber       = "#ffc660"
	ColorPaleGreen   = "#d2e2aa"
	ColorTeal        = "#3599b8"
	ColorPurple      = "#9467bd"
	ColorGrid        = "#c8c6c4"
	ColorLegendText  = "#666"
)

// Palette is cycled by series position when no legend role is bound.
var Palette = []string{ColorSlateBlue, ColorAmber, ColorPaleGreen, ColorTeal, ColorPurple}

// thresholdOrder is the threshold legend's entry order.
var thresholdOrder = []string{
	ThresholdGreen,
	ThresholdHighYellow,
	ThresholdLowYellow,
	ThresholdHighRed,
	ThresholdLowRed,
}

// Shape is a point marker shape.
type Shape int

const (
	ShapeCircle Shape = iota
	ShapeTriangleUp
	ShapeTriangleDown
)

func (s Shape) String() string {
	switch s {
	case ShapeTriangleUp:
		return "triangle-up"
	case ShapeTriangleDown:
		return "triangle-down"
	}
	return "circle"
}

// MarshalText encodes the shape by name.
func (s Shape) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a shape name. Unknown names decode as a circle.
func (s *Shape) UnmarshalText(text []byte) error {
	switch string(text) {
	case "triangle-up":
		*s = ShapeTriangleUp
	case "triangle-down":
		*s = ShapeTriangleDown
	default:
		*s = ShapeCircle
	}
	return nil
}

// IsThresholdLabel reports whether s is one of the five threshold labels.
func IsThresholdLabel(s string) bool {
	for _, l := range thresholdOrder {
		if s == l {
			return true
		}
	}
	return false
}

// ThresholdColor is the point color for a threshold label.
// Green, unknown and absent labels get the default green.
func ThresholdColor(label string) string {
	switch label {
	case ThresholdHighYellow, ThresholdLowYellow:
		return ColorGold
	case ThresholdHighRed, ThresholdLowRed:
		return ColorRedOrange
	}
	return ColorGreen
}

// StatusColor is the table status indicator color. Green and unmapped
// labels return "" (neutral indicator).
func StatusColor(label string) string {
	switch label {
	case ThresholdHighYellow, ThresholdLowYellow:
		return ColorGold
	case ThresholdHighRed, ThresholdLowRed:
		return ColorRedOrange
	}
	return ""
}

// ThresholdShape is the point marker for a threshold label.
func ThresholdShape(label string) Shape {
	switch label {
	case ThresholdHighRed, ThresholdHighYellow:
		return ShapeTriangleUp
	case ThresholdLowRed, ThresholdLowYellow:
		return ShapeTriangleDown
	}
	return ShapeCircle
}

// LegendColor maps a legend code to its line color.
func LegendColor(legend string) string {
	switch legend {
	case "01", "0101":
		return ColorSlateBlue
	case "02", "0102":
		return ColorAmber
	case "03":
		return ColorPaleGreen
	}
	return ColorTeal
}

// PaletteColor cycles Palette by position.
func PaletteColor(i int) string {
	if i < 0 {
		i = -i
	}
	return Palette[i%len(Palette)]
}

// ShapePath returns the SVG path for a marker centered at (x, y).
func ShapePath(shape Shape, x, y, size float64) string {
	n := func(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
	switch shape {
	case ShapeTriangleUp:
		return "M " + n(x) + " " + n(y-size) +
			" L " + n(x-size) + " " + n(y+size) +
			" L " + n(x+size) + " " + n(y+size) + " Z"
	case ShapeTriangleDown:
		return "M " + n(x) + " " + n(y+size) +
			" L " + n(x-size) + " " + n(y-size) +
			" L " + n(x+size) + " " + n(y-size) + " Z"
	}
	return "M " + n(x+size) + " " + n(y) +
		" a " + n(size) + " " + n(size) + " 0 1,0 " + n(-size*2) + " 0" +
		" a " + n(size) + " " + n(size) + " 0 1,0 " + n(size*2) + " 0"
}
