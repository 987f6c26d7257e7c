package engine

import (
	"encoding/json"
	"io"
	"log/slog"
	"reflect"
	"testing"

	"golang.org/x/text/language"
)

// ============================================================================
// FIXTURES
// ============================================================================

var (
	testCollator = NewCollator(language.English)
	quietLogger  = slog.New(slog.NewTextHandler(io.Discard, nil))
)

// siteReadings is a small monitoring dataset: two months, three sites, one
// of which ("00") is the aggregate row that never shows in the table.
func siteReadings() *Categorical {
	return &Categorical{
		Categories: []Column{
			{DisplayName: "Month", Roles: NewRoleSet(RoleXAxis), Values: []any{"2024-01", "2024-01", "2024-02", "2024-02", "2024-02"}},
			{DisplayName: "Site", Roles: NewRoleSet(RoleLineLegend, RoleTableFilter), Values: []any{"01", "02", "01", "02", "00"}},
			{DisplayName: "Status", Roles: NewRoleSet(RoleThreshold), Values: []any{"Green", "Low Yellow", "High Red", "Green", "Green"}},
		},
		Values: []Column{
			{DisplayName: "Level", Roles: NewRoleSet(RoleYAxis, RoleTableField), Values: []any{10.0, 20.0, 15.0, 25.0, 5.0}},
			{DisplayName: "Threshold Mark", Roles: NewRoleSet(RoleTableField), Values: []any{50.0, 60.0, 70.0, 80.0, 90.0}},
		},
	}
}

func assertEqual[T comparable](t *testing.T, got, want T, msg string) {
	t.Helper()
	if got != want {
		t.Errorf("%s: got %v, want %v", msg, got, want)
	}
}

func assertDeepEqual(t *testing.T, got, want any, msg string) {
	t.Helper()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("%s:\n got  %#v\n want %#v", msg, got, want)
	}
}

// ============================================================================
// ROLE RESOLVER
// ============================================================================

func TestResolveFirstColumnWins(t *testing.T) {
	cat := &Categorical{
		Categories: []Column{
			{DisplayName: "A", Roles: NewRoleSet(RoleTableFilter)},
			{DisplayName: "B", Roles: NewRoleSet(RoleTableFilter, RoleXAxis)},
		},
		Values: []Column{
			{DisplayName: "C", Roles: NewRoleSet(RoleXAxis, RoleYAxis)},
		},
	}
	res := Resolve(cat)

	assertEqual(t, res.Column(RoleTableFilter).DisplayName, "A", "tableFilter")
	assertEqual(t, res.Column(RoleXAxis).DisplayName, "B", "xAxis: categories searched before values")
	assertEqual(t, res.Column(RoleYAxis).DisplayName, "C", "yAxis")
	if res.Has(RoleThreshold) {
		t.Error("threshold should be unbound")
	}
	if res.Column(RoleLineLegend) != nil {
		t.Error("lineLegend should be nil")
	}
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
		ok   bool
	}{
		{"xAxis", RoleXAxis, true},
		{"XAXIS", RoleXAxis, true},
		{" tableFilter ", RoleTableFilter, true},
		{"lineLegend", RoleLineLegend, true},
		{"size", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseRole(tt.in)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ParseRole(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestRoleSetJSON(t *testing.T) {
	s := NewRoleSet(RoleYAxis, RoleTableField)
	data, err := s.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	assertEqual(t, string(data), `["yAxis","tableField"]`, "marshal")

	var back RoleSet
	if err := back.UnmarshalJSON([]byte(`["tableField","bogus","yaxis"]`)); err != nil {
		t.Fatal(err)
	}
	assertEqual(t, back, s, "unmarshal ignores unknown names")
}

func TestActionAndShapeJSON(t *testing.T) {
	in := ChartPoint{Shape: ShapeTriangleDown, Click: SeriesAction("02")}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}

	var out ChartPoint
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	assertEqual(t, out.Shape, ShapeTriangleDown, "shape")
	assertEqual(t, out.Click, in.Click, "click")
}

// ============================================================================
// LATEST-ROW SELECTOR
// ============================================================================

func TestLatestIndices(t *testing.T) {
	tests := []struct {
		name   string
		values []any
		want   []int
	}{
		{"single max", []any{"2024-01", "2024-01", "2024-02"}, []int{2}},
		{"ties all kept", []any{"2024-02", "2024-01", "2024-02"}, []int{0, 2}},
		{"ordinal not numeric", []any{"10", "9", "100"}, []int{1}},
		{"numbers compare by string form", []any{9.0, 10.0}, []int{0}},
		{"empty", []any{}, nil},
		{"absent values lose", []any{nil, "a", nil}, []int{1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LatestIndices(&Column{Values: tt.values})
			assertDeepEqual(t, got, tt.want, "indices")
		})
	}
}

func TestLatestIndicesOrderIndependent(t *testing.T) {
	values := []any{"b", "c", "a", "c", "b"}
	reversed := make([]any, len(values))
	for i, v := range values {
		reversed[len(values)-1-i] = v
	}

	pick := func(vals []any) map[any]int {
		out := make(map[any]int)
		for _, i := range LatestIndices(&Column{Values: vals}) {
			out[vals[i]]++
		}
		return out
	}
	assertDeepEqual(t, pick(reversed), pick(values), "selected values under reordering")
}

func TestSelectLatestScenario(t *testing.T) {
	cat := &Categorical{
		Categories: []Column{
			{DisplayName: "Month", Roles: NewRoleSet(RoleXAxis), Values: []any{"2024-01", "2024-01", "2024-02"}},
			{DisplayName: "Site", Roles: NewRoleSet(RoleTableFilter), Values: []any{"A", "B", "A"}},
		},
	}
	rows := SelectLatest(cat, Resolve(cat), testCollator)

	if len(rows) != 1 {
		t.Fatalf("expected 1 latest row, got %d", len(rows))
	}
	assertEqual(t, rows[0].Index, 2, "index")
	assertEqual(t, rows[0].Filter, "A", "filter")
	assertEqual(t, rows[0].Row.Len(), 1, "single-row categorical")
	assertEqual(t, rows[0].Row.Categories[0].String(0), "2024-02", "row value")
}

func TestSelectLatestSortedByFilter(t *testing.T) {
	cat := siteReadings()
	rows := SelectLatest(cat, Resolve(cat), testCollator)

	filters := make([]string, len(rows))
	for i, r := range rows {
		filters[i] = r.Filter
	}
	assertDeepEqual(t, filters, []string{"00", "01", "02"}, "filter order")
}

func TestSelectLatestWithoutXAxis(t *testing.T) {
	cat := &Categorical{Categories: []Column{{DisplayName: "Site", Roles: NewRoleSet(RoleTableFilter), Values: []any{"A"}}}}
	if rows := SelectLatest(cat, Resolve(cat), testCollator); rows != nil {
		t.Errorf("expected nil without x-axis, got %v", rows)
	}
}

// ============================================================================
// SERIES GROUPER
// ============================================================================

func TestGroupSeriesScenario(t *testing.T) {
	x := &Column{Values: []any{"x0", "x1", "x2"}}
	y := &Column{Values: []any{10.0, 20.0, 15.0}}
	legend := &Column{Values: []any{"01", "02", "01"}}

	series := GroupSeries(x, y, legend, testCollator)

	want := []Series{
		{Legend: "01", Points: []Point{{X: "x0", Y: 10, Index: 0}, {X: "x2", Y: 15, Index: 2}}},
		{Legend: "02", Points: []Point{{X: "x1", Y: 20, Index: 1}}},
	}
	assertDeepEqual(t, series, want, "series")
}

func TestGroupSeriesFirstSeenOrderAndXSort(t *testing.T) {
	x := &Column{Values: []any{"c", "a", "b", "a"}}
	y := &Column{Values: []any{1, 2, 3, 4}}
	legend := &Column{Values: []any{"z", "y", "z", "z"}}

	series := GroupSeries(x, y, legend, testCollator)
	if len(series) != 2 {
		t.Fatalf("expected 2 series, got %d", len(series))
	}
	assertEqual(t, series[0].Legend, "z", "first-seen legend first")

	xs := make([]string, 0)
	for _, p := range series[0].Points {
		xs = append(xs, p.X)
	}
	assertDeepEqual(t, xs, []string{"a", "b", "c"}, "points sorted by x")

	SortSeries(series, testCollator)
	assertEqual(t, series[0].Legend, "y", "display order")
}

func TestGroupSeriesPartition(t *testing.T) {
	cat := siteReadings()
	res := Resolve(cat)
	series := GroupSeries(res.Column(RoleXAxis), res.Column(RoleYAxis), res.Column(RoleLineLegend), testCollator)

	seen := make(map[int]int)
	for _, s := range series {
		for _, p := range s.Points {
			seen[p.Index]++
			if want := res.Column(RoleYAxis).Float(p.Index); p.Y != want {
				t.Errorf("point %d: y %v, want %v", p.Index, p.Y, want)
			}
		}
	}
	for i := 0; i < cat.Len(); i++ {
		if seen[i] != 1 {
			t.Errorf("row %d appears in %d series, want exactly 1", i, seen[i])
		}
	}
}

func TestGroupSeriesWithoutLegend(t *testing.T) {
	x := &Column{Values: []any{"b", "a"}}
	y := &Column{Values: []any{1.0, 2.0}}

	series := GroupSeries(x, y, nil, testCollator)
	if len(series) != 1 {
		t.Fatalf("expected one series, got %d", len(series))
	}
	assertEqual(t, series[0].Legend, "", "unlabeled")
	assertEqual(t, series[0].Points[0].X, "a", "sorted")
}

// ============================================================================
// SELECTION
// ============================================================================

func TestSelectionSeriesToggle(t *testing.T) {
	var sel Selection
	sel = sel.Apply(SeriesAction("02"))
	assertEqual(t, sel.Value, "02", "first click selects")

	sel = sel.Apply(SeriesAction("02"))
	assertEqual(t, sel, Selection{}, "second click clears")
}

func TestSelectionApply(t *testing.T) {
	tests := []struct {
		name   string
		start  Selection
		action Action
		want   Selection
	}{
		{"cell selects", Selection{}, CellAction("A", "Site"), Selection{Value: "A", Category: "Site"}},
		{"cell clears any selection", Selection{Value: "B", Category: "Level"}, CellAction("A", "Site"), Selection{}},
		{"cell clears even same value", Selection{Value: "A", Category: "Site"}, CellAction("A", "Site"), Selection{}},
		{"series keeps category", Selection{Value: "A", Category: "Site"}, SeriesAction("B"), Selection{Value: "B", Category: "Site"}},
		{"series toggle off keeps category", Selection{Value: "B", Category: "Site"}, SeriesAction("B"), Selection{Category: "Site"}},
		{"empty filter value stays inactive", Selection{}, CellAction("", "Site"), Selection{Category: "Site"}},
		{"none is a no-op", Selection{Value: "A"}, Action{}, Selection{Value: "A"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertEqual(t, tt.start.Apply(tt.action), tt.want, "selection")
		})
	}
}

func TestSelectionInvolution(t *testing.T) {
	for _, legend := range []string{"01", "02", "x"} {
		start := Selection{}
		got := start.Apply(SeriesAction(legend)).Apply(SeriesAction(legend))
		assertEqual(t, got, start, "double toggle of "+legend)
	}
}

func TestEmphasisFor(t *testing.T) {
	assertEqual(t, Selection{}.EmphasisFor("a"), Emphasis{Width: 1, Size: 1, Opacity: 1}, "inactive")
	sel := Selection{Value: "a"}
	assertEqual(t, sel.EmphasisFor("a"), Emphasis{Width: 2, Size: 1.5, Opacity: 1}, "selected")
	assertEqual(t, sel.EmphasisFor("b"), Emphasis{Width: 1, Size: 1, Opacity: 0.3}, "other")
}

func TestApplySelection(t *testing.T) {
	series := []Series{{Legend: "a"}, {Legend: "b"}}

	assertEqual(t, len(ApplySelection(series, Selection{})), 2, "inactive keeps all")

	got := ApplySelection(series, Selection{Value: "b"})
	if len(got) != 1 || got[0].Legend != "b" {
		t.Errorf("expected only b, got %v", got)
	}

	assertEqual(t, len(ApplySelection(series, Selection{Value: "zz"})), 2, "no match falls back to all")
}

// ============================================================================
// DOMAIN ADAPTER
// ============================================================================

type siteReading struct {
	Month  string
	Site   string
	Status string
	Level  float64
	Mark   float64
}

func readingAdapter() *DomainAdapter[siteReading] {
	return NewDomainAdapter[siteReading]().
		Category("Month", func(r siteReading) any { return r.Month }, RoleXAxis).
		Category("Site", func(r siteReading) any { return r.Site }, RoleLineLegend, RoleTableFilter).
		Category("Status", func(r siteReading) any { return r.Status }, RoleThreshold).
		Measure("Level", func(r siteReading) any { return r.Level }, RoleYAxis, RoleTableField).
		Measure("Threshold Mark", func(r siteReading) any { return r.Mark }, RoleTableField)
}

func TestDomainAdapterBind(t *testing.T) {
	readings := []siteReading{
		{"2024-01", "01", "Green", 10, 50},
		{"2024-01", "02", "Low Yellow", 20, 60},
		{"2024-02", "01", "High Red", 15, 70},
		{"2024-02", "02", "Green", 25, 80},
		{"2024-02", "00", "Green", 5, 90},
	}

	cat := readingAdapter().Bind(readings)
	assertDeepEqual(t, cat, siteReadings(), "bound categorical")
	assertEqual(t, cat.Len(), len(readings), "rows")

	got := render(t, cat, Selection{Value: "02"})
	want := render(t, siteReadings(), Selection{Value: "02"})
	assertDeepEqual(t, got.Table, want.Table, "table")
	if got.Chart == nil || len(got.Chart.Lines) != 1 || got.Chart.Lines[0].Legend != "02" {
		t.Errorf("expected the adapted data to chart only series 02, got %+v", got.Chart)
	}
}

func TestDomainAdapterEmpty(t *testing.T) {
	cat := readingAdapter().Bind(nil)
	assertEqual(t, len(cat.Categories), 3, "categories declared")
	assertEqual(t, cat.Len(), 0, "rows")
	for _, col := range cat.Values {
		assertEqual(t, len(col.Values), 0, col.DisplayName+" values")
	}
}
