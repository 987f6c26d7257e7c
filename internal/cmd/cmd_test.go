package cmd

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spektr-org/trendboard/engine"
	"github.com/spektr-org/trendboard/schema"
	"github.com/spektr-org/trendboard/settings"
)

var readingsCSV = []byte(`Month,Site,Status,Level,Threshold Mark
2024-01,01,Green,10,50
2024-01,02,Low Yellow,20,60
2024-02,01,High Red,15,70
2024-02,02,Green,25,80
2024-02,00,Green,5,90
`)

func writeReadings(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "readings.csv")
	if err := os.WriteFile(path, readingsCSV, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// execute runs the root command with args and returns what it wrote to
// stdout. Flag variables are package state, so they are reset first.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	verbose, locale = false, "en"
	renderSource, renderClicks, renderOutput = sourceFlags{}, nil, ""
	renderWidth, renderHeight = engine.DefaultWidth, engine.DefaultHeight
	inspectSource, inspectClicks, inspectTable = sourceFlags{}, nil, false
	inspectFormat.value = "json"
	discoverSource, discoverRecover, discoverSampleSize = sourceFlags{}, nil, 1000
	discoverFormat.value = "yaml"
	settingsFormat.value, settingsPane = "yaml", false
	serveListTools = false

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), err
}

func TestRenderCommand(t *testing.T) {
	path := writeReadings(t)

	out, err := execute(t, "render", path)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(out, "<svg") {
		t.Errorf("expected SVG on stdout, got %.80q", out)
	}

	svgPath := filepath.Join(t.TempDir(), "board.svg")
	out, err = execute(t, "render", path, "--click", "line-0", "--click", "legend-0", "-o", svgPath, "--width", "1000")
	if err != nil {
		t.Fatalf("render with clicks failed: %v", err)
	}
	if out != "" {
		t.Errorf("expected nothing on stdout with -o, got %.80q", out)
	}
	data, err := os.ReadFile(svgPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte("<svg")) {
		t.Error("expected SVG in the output file")
	}
}

func TestRenderCommandErrors(t *testing.T) {
	path := writeReadings(t)

	tests := []struct {
		name string
		args []string
	}{
		{"no data", []string{"render"}},
		{"missing file", []string{"render", filepath.Join(t.TempDir(), "missing.csv")}},
		{"unknown binding", []string{"render", path, "--click", "line-99"}},
		{"bad locale", []string{"render", path, "--locale", "not a locale!"}},
		{"unsupported source", []string{"render", filepath.Join(t.TempDir(), "data.parquet")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestInspectJSON(t *testing.T) {
	path := writeReadings(t)

	out, err := execute(t, "inspect", path, "--click", "line-0")
	if err != nil {
		t.Fatalf("inspect failed: %v", err)
	}
	var insp inspection
	if err := json.Unmarshal([]byte(out), &insp); err != nil {
		t.Fatalf("inspect output is not JSON: %v\n%s", err, out)
	}
	if !insp.Selection.Active() {
		t.Error("expected the click to select a series")
	}
	if len(insp.Series) != 3 {
		t.Errorf("expected 3 series, got %d", len(insp.Series))
	}
	if insp.Table == nil || len(insp.Table.Rows) != 2 {
		t.Errorf("expected 2 table rows, got %+v", insp.Table)
	}
	found := false
	for _, id := range insp.Bindings {
		if id == "cell-r0-c0" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected cell-r0-c0 among bindings %v", insp.Bindings)
	}
}

func TestInspectClickReplay(t *testing.T) {
	path := writeReadings(t)

	// After the first click only the selected series is drawn, so its legend
	// entry is legend-0 and clicking it clears the selection again.
	out, err := execute(t, "inspect", path, "--click", "line-1", "--click", "legend-0")
	if err != nil {
		t.Fatalf("inspect failed: %v", err)
	}
	var insp inspection
	if err := json.Unmarshal([]byte(out), &insp); err != nil {
		t.Fatalf("inspect output is not JSON: %v", err)
	}
	if insp.Selection.Active() {
		t.Errorf("expected the legend click to clear the selection, got %+v", insp.Selection)
	}

	if _, err := execute(t, "inspect", path, "--click", "line-0", "--click", "legend-1"); err == nil {
		t.Error("expected legend-1 to be unbound while one series is selected")
	}
}

func TestInspectSeriesCSV(t *testing.T) {
	path := writeReadings(t)

	out, err := execute(t, "inspect", path, "--format", "csv")
	if err != nil {
		t.Fatalf("inspect failed: %v", err)
	}
	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("output is not CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header and 2 rows, got %d: %v", len(records), records)
	}
	if records[0][0] != "Month" {
		t.Errorf("expected Month as the first header, got %q", records[0][0])
	}

	col := map[string]int{}
	for i, h := range records[0] {
		col[h] = i
	}
	want := map[string][2]string{
		"00": {"", "5"},
		"01": {"10", "15"},
		"02": {"20", "25"},
	}
	for legend, vals := range want {
		i, ok := col[legend]
		if !ok {
			t.Errorf("missing column for series %s", legend)
			continue
		}
		if records[1][i] != vals[0] || records[2][i] != vals[1] {
			t.Errorf("series %s = [%q %q], want %v", legend, records[1][i], records[2][i], vals)
		}
	}
	if records[1][0] != "2024-01" || records[2][0] != "2024-02" {
		t.Errorf("expected x rows in order, got %q, %q", records[1][0], records[2][0])
	}
}

func TestInspectTableCSV(t *testing.T) {
	path := writeReadings(t)

	out, err := execute(t, "inspect", path, "--format", "csv", "--table")
	if err != nil {
		t.Fatalf("inspect failed: %v", err)
	}
	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("output is not CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header and 2 rows, got %d", len(records))
	}
	if records[0][0] != engine.StatusHeader {
		t.Errorf("expected %s as the first header, got %v", engine.StatusHeader, records[0])
	}
	last := len(records[0]) - 1
	if records[0][last] != "Threshold" {
		t.Errorf("expected a trailing Threshold column, got %v", records[0])
	}

	// Each row lines up with the header: status color first, label last.
	wantStatus := map[string]string{"High Red": engine.ColorRedOrange, "Green": ""}
	for _, rec := range records[1:] {
		if len(rec) != len(records[0]) {
			t.Fatalf("row has %d fields, header has %d: %v", len(rec), len(records[0]), rec)
		}
		want, ok := wantStatus[rec[last]]
		if !ok {
			t.Errorf("unexpected threshold label %q", rec[last])
			continue
		}
		if rec[0] != want {
			t.Errorf("status for %s = %q, want %q", rec[last], rec[0], want)
		}
		delete(wantStatus, rec[last])
	}
	if len(wantStatus) != 0 {
		t.Errorf("missing latest-month rows for %v", wantStatus)
	}
}

func TestWriteTableCSVAlignsRows(t *testing.T) {
	table := &engine.TableData{
		Headers: []string{engine.StatusHeader, "Site", "Level"},
		Rows: []engine.TableRow{{
			Filter:    "01",
			Threshold: "High Red",
			Status:    engine.ColorRedOrange,
			Cells: []engine.TableCell{
				{Column: "Site", Text: "01"},
				{Column: "Level", Text: "15"},
			},
		}},
	}

	var buf bytes.Buffer
	if err := writeTableCSV(&buf, table); err != nil {
		t.Fatal(err)
	}
	want := "Status,Site,Level,Threshold\n#e75a48,01,15,High Red\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestInspectText(t *testing.T) {
	path := writeReadings(t)

	out, err := execute(t, "inspect", path, "--format", "text")
	if err != nil {
		t.Fatalf("inspect failed: %v", err)
	}
	if !strings.Contains(out, "2 latest rows") || !strings.Contains(out, "3 series") {
		t.Errorf("unexpected summary: %q", out)
	}
}

func TestInspectRejectsFormat(t *testing.T) {
	path := writeReadings(t)
	if _, err := execute(t, "inspect", path, "--format", "xml"); err == nil {
		t.Error("expected the format flag to reject xml")
	}
}

func TestDiscoverCommand(t *testing.T) {
	path := writeReadings(t)

	out, err := execute(t, "discover", path)
	if err != nil {
		t.Fatalf("discover failed: %v", err)
	}
	sch, err := schema.Parse([]byte(out))
	if err != nil {
		t.Fatalf("discover output does not parse back: %v\n%s", err, out)
	}
	if sch.Name != "readings" {
		t.Errorf("expected name readings, got %q", sch.Name)
	}
	if sch.DiscoveredFrom != "CSV" {
		t.Errorf("expected DiscoveredFrom CSV, got %q", sch.DiscoveredFrom)
	}
	if got := sch.Bound(engine.RoleXAxis); got != "month" {
		t.Errorf("x binding = %q, want month", got)
	}

	// The discovered bindings drive a render unchanged.
	bindings := filepath.Join(t.TempDir(), "bindings.yaml")
	if err := os.WriteFile(bindings, []byte(out), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "render", path, "--schema", bindings); err != nil {
		t.Errorf("render with discovered bindings failed: %v", err)
	}
}

func TestDiscoverJSON(t *testing.T) {
	path := writeReadings(t)

	out, err := execute(t, "discover", path, "--format", "json")
	if err != nil {
		t.Fatalf("discover failed: %v", err)
	}
	var sch schema.Config
	if err := json.Unmarshal([]byte(out), &sch); err != nil {
		t.Fatalf("discover output is not JSON: %v", err)
	}
	if len(sch.Measures) != 2 {
		t.Errorf("expected 2 measures, got %d", len(sch.Measures))
	}
}

func TestSettingsCommand(t *testing.T) {
	out, err := execute(t, "settings")
	if err != nil {
		t.Fatalf("settings failed: %v", err)
	}
	m, err := settings.Parse([]byte(out))
	if err != nil {
		t.Fatalf("settings output does not parse back: %v", err)
	}
	if m != settings.Default() {
		t.Errorf("expected the defaults, got %+v", m)
	}

	custom := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(custom, []byte("chartSettings:\n  pointSize: 9\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err = execute(t, "settings", custom, "--pane", "--format", "json")
	if err != nil {
		t.Fatalf("settings --pane failed: %v", err)
	}
	var pane settings.FormattingModel
	if err := json.Unmarshal([]byte(out), &pane); err != nil {
		t.Fatalf("pane is not JSON: %v", err)
	}
	if len(pane.Cards) != 3 {
		t.Fatalf("expected 3 cards, got %d", len(pane.Cards))
	}
	if got := pane.Objects()[settings.CardChart]["pointSize"]; got != float64(9) {
		t.Errorf("pointSize = %v, want 9", got)
	}
}

func TestServeListTools(t *testing.T) {
	out, err := execute(t, "serve", "--list-tools")
	if err != nil {
		t.Fatalf("serve --list-tools failed: %v", err)
	}
	if n := len(strings.Fields(out)); n != 4 {
		t.Errorf("expected 4 tools, got %d: %q", n, out)
	}
}

// ============================================================================
// WRITERS
// ============================================================================

func TestWriteSeriesCSVNoChart(t *testing.T) {
	res := &engine.Result{Series: []engine.Series{
		{Legend: "A", Points: []engine.Point{{X: "Q1", Y: 1.5}, {X: "Q2", Y: 2}}},
		{Legend: "B", Points: []engine.Point{{X: "Q2", Y: 3}, {X: "Q3", Y: 4}}},
	}}

	var buf bytes.Buffer
	if err := writeSeriesCSV(&buf, res); err != nil {
		t.Fatal(err)
	}
	want := "Label,A,B\nQ1,1.50,\nQ2,2,3\nQ3,,4\n"
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestWriteCSVNoData(t *testing.T) {
	var buf bytes.Buffer
	if err := writeSeriesCSV(&buf, &engine.Result{}); err != nil {
		t.Fatal(err)
	}
	if err := writeTableCSV(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "Result,No data\nResult,No data\n" {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestFmtNum(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{42, "42"},
		{-3, "-3"},
		{1.005, "1.00"},
		{2.5, "2.50"},
	}
	for _, tt := range tests {
		if got := fmtNum(tt.in); got != tt.want {
			t.Errorf("fmtNum(%g) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEnumFlag(t *testing.T) {
	f := newEnumFlag("json", "json", "csv")
	if err := f.Set("csv"); err != nil || f.String() != "csv" {
		t.Errorf("Set(csv) = %v, value %q", err, f.String())
	}
	if err := f.Set("xml"); err == nil {
		t.Error("expected Set(xml) to fail")
	}
	if f.String() != "csv" {
		t.Errorf("rejected value changed the flag to %q", f.String())
	}
}
