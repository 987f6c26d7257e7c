// Package settings holds the formatting settings the host's format pane
// edits: table and chart styling. Nothing in the engine's logic depends on
// these values beyond passing them through to styling.
package settings

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Card names, as the host's data-view objects key them.
const (
	CardDataPoint = "dataPoint"
	CardTable     = "tableSettings"
	CardChart     = "chartSettings"
)

// Model is the full set of formatting cards.
type Model struct {
	DataPoint DataPointCard `yaml:"dataPoint" json:"dataPoint"`
	Table     TableCard     `yaml:"tableSettings" json:"tableSettings"`
	Chart     ChartCard     `yaml:"chartSettings" json:"chartSettings"`
}

// DataPointCard holds the generic data colors card.
type DataPointCard struct {
	DefaultColor      string  `yaml:"defaultColor" json:"defaultColor"`
	ShowAllDataPoints bool    `yaml:"showAllDataPoints" json:"showAllDataPoints"`
	Fill              string  `yaml:"fill" json:"fill"`
	FillRule          string  `yaml:"fillRule" json:"fillRule"`
	FontSize          float64 `yaml:"fontSize" json:"fontSize"`
}

// TableCard styles the latest-row table.
type TableCard struct {
	ShowIcons bool    `yaml:"showIcons" json:"showIcons"`
	FontSize  float64 `yaml:"fontSize" json:"fontSize"`
}

// ChartCard styles the line chart.
type ChartCard struct {
	ShowPoints          bool    `yaml:"showPoints" json:"showPoints"`
	LineWidth           float64 `yaml:"lineWidth" json:"lineWidth"`
	PointSize           float64 `yaml:"pointSize" json:"pointSize"`
	LegendTitle         string  `yaml:"legendTitle" json:"legendTitle"`
	ThresholdMarkColumn string  `yaml:"thresholdMarkColumn" json:"thresholdMarkColumn"`
}

// Font size bounds accepted by the format pane.
const (
	MinFontSize = 6
	MaxFontSize = 72
)

// ErrInvalidSettings is returned when validation fails.
var ErrInvalidSettings = errors.New("invalid settings")

// LoadFromPath reads settings from a YAML file. Fields the file omits keep
// their defaults. A missing file yields the defaults.
func LoadFromPath(path string) (Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Model{}, fmt.Errorf("reading settings file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML (or JSON, which YAML accepts) over the defaults and
// validates the result.
func Parse(data []byte) (Model, error) {
	m := Default()
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Model{}, fmt.Errorf("parsing settings: %w", err)
	}
	if err := Validate(m); err != nil {
		return Model{}, err
	}
	return m, nil
}

// Validate checks that sizes are usable.
func Validate(m Model) error {
	if m.Chart.LineWidth <= 0 {
		return fmt.Errorf("%w: chartSettings.lineWidth must be positive, got %g",
			ErrInvalidSettings, m.Chart.LineWidth)
	}
	if m.Chart.PointSize <= 0 {
		return fmt.Errorf("%w: chartSettings.pointSize must be positive, got %g",
			ErrInvalidSettings, m.Chart.PointSize)
	}
	if m.Table.FontSize < MinFontSize || m.Table.FontSize > MaxFontSize {
		return fmt.Errorf("%w: tableSettings.fontSize must be between %d and %d, got %g",
			ErrInvalidSettings, MinFontSize, MaxFontSize, m.Table.FontSize)
	}
	if m.DataPoint.FontSize < MinFontSize || m.DataPoint.FontSize > MaxFontSize {
		return fmt.Errorf("%w: dataPoint.fontSize must be between %d and %d, got %g",
			ErrInvalidSettings, MinFontSize, MaxFontSize, m.DataPoint.FontSize)
	}
	return nil
}

// Marshal encodes m as YAML.
func Marshal(m Model) ([]byte, error) {
	return yaml.Marshal(m)
}
