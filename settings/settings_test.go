package settings

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	m := Default()

	if m.Table.FontSize != 12 {
		t.Errorf("expected table fontSize 12, got %g", m.Table.FontSize)
	}
	if !m.Table.ShowIcons {
		t.Error("expected showIcons true")
	}
	if !m.Chart.ShowPoints {
		t.Error("expected showPoints true")
	}
	if m.Chart.LineWidth != 2 {
		t.Errorf("expected lineWidth 2, got %g", m.Chart.LineWidth)
	}
	if m.Chart.PointSize != 4 {
		t.Errorf("expected pointSize 4, got %g", m.Chart.PointSize)
	}
	if m.Chart.LegendTitle != "Site" {
		t.Errorf("expected legendTitle Site, got %q", m.Chart.LegendTitle)
	}
	if m.Chart.ThresholdMarkColumn != "Threshold Mark" {
		t.Errorf("expected thresholdMarkColumn %q, got %q", "Threshold Mark", m.Chart.ThresholdMarkColumn)
	}
	if err := Validate(m); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Model)
		wantErr bool
	}{
		{"defaults", func(m *Model) {}, false},
		{"zero line width", func(m *Model) { m.Chart.LineWidth = 0 }, true},
		{"negative point size", func(m *Model) { m.Chart.PointSize = -1 }, true},
		{"tiny table font", func(m *Model) { m.Table.FontSize = 2 }, true},
		{"huge data point font", func(m *Model) { m.DataPoint.FontSize = 200 }, true},
		{"font at bound", func(m *Model) { m.Table.FontSize = MaxFontSize }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Default()
			tt.modify(&m)
			err := Validate(m)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidSettings) {
				t.Errorf("expected ErrInvalidSettings, got %v", err)
			}
		})
	}
}

func TestLoadFromPath(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file yields defaults", func(t *testing.T) {
		m, err := LoadFromPath(filepath.Join(dir, "nope.yaml"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if m != Default() {
			t.Errorf("expected defaults, got %+v", m)
		}
	})

	t.Run("partial file keeps other defaults", func(t *testing.T) {
		path := filepath.Join(dir, "partial.yaml")
		content := "chartSettings:\n  lineWidth: 3\n  showPoints: false\ntableSettings:\n  fontSize: 14\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		m, err := LoadFromPath(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if m.Chart.LineWidth != 3 {
			t.Errorf("expected lineWidth 3, got %g", m.Chart.LineWidth)
		}
		if m.Chart.ShowPoints {
			t.Error("expected showPoints false")
		}
		if m.Table.FontSize != 14 {
			t.Errorf("expected fontSize 14, got %g", m.Table.FontSize)
		}
		if m.Chart.PointSize != 4 {
			t.Errorf("expected default pointSize 4, got %g", m.Chart.PointSize)
		}
		if !m.Table.ShowIcons {
			t.Error("expected default showIcons true")
		}
	})

	t.Run("invalid value rejected", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		if err := os.WriteFile(path, []byte("chartSettings:\n  pointSize: 0\n"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadFromPath(path); !errors.Is(err, ErrInvalidSettings) {
			t.Errorf("expected ErrInvalidSettings, got %v", err)
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(dir, "broken.yaml")
		if err := os.WriteFile(path, []byte("chartSettings: [\n"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadFromPath(path); err == nil {
			t.Error("expected parse error")
		}
	})
}

func TestPopulate(t *testing.T) {
	objects := map[string]map[string]any{
		CardTable: {
			"fontSize":  float64(16),
			"showIcons": false,
		},
		CardChart: {
			"lineWidth":   "5",
			"pointSize":   float64(0), // invalid, falls back
			"legendTitle": "Plant",
			"unknown":     true,
		},
		CardDataPoint: {
			"defaultColor": map[string]any{"solid": map[string]any{"color": "#123456"}},
		},
		"otherCard": {"x": 1},
	}

	m := Populate(objects)

	if m.Table.FontSize != 16 {
		t.Errorf("expected fontSize 16, got %g", m.Table.FontSize)
	}
	if m.Table.ShowIcons {
		t.Error("expected showIcons false")
	}
	if m.Chart.LineWidth != 5 {
		t.Errorf("expected lineWidth 5, got %g", m.Chart.LineWidth)
	}
	if m.Chart.PointSize != 4 {
		t.Errorf("expected pointSize to fall back to 4, got %g", m.Chart.PointSize)
	}
	if m.Chart.LegendTitle != "Plant" {
		t.Errorf("expected legendTitle Plant, got %q", m.Chart.LegendTitle)
	}
	if m.DataPoint.DefaultColor != "#123456" {
		t.Errorf("expected unwrapped color, got %q", m.DataPoint.DefaultColor)
	}
	if err := Validate(m); err != nil {
		t.Errorf("populated model should validate: %v", err)
	}
}

func TestPopulateNil(t *testing.T) {
	if m := Populate(nil); m != Default() {
		t.Errorf("expected defaults, got %+v", m)
	}
}

func TestDescribeRoundTrip(t *testing.T) {
	m := Default()
	m.Chart.LineWidth = 3
	m.Table.ShowIcons = false

	fm := Describe(m)
	if len(fm.Cards) != 3 {
		t.Fatalf("expected 3 cards, got %d", len(fm.Cards))
	}
	if fm.Cards[1].Name != CardTable {
		t.Errorf("expected second card %s, got %s", CardTable, fm.Cards[1].Name)
	}

	back := Populate(fm.Objects())
	if back != m {
		t.Errorf("Populate(Describe(m).Objects()) = %+v, want %+v", back, m)
	}
}
