package draw

import (
	"github.com/spektr-org/trendboard/engine"
)

// ============================================================================
// COMPOSE — Result → Frame
// ============================================================================
// The table is stacked above the chart. Table cells, lines, points and
// series legend entries are clickable; points also react to hover.
// ============================================================================

// Table layout.
const (
	rowHeightFactor = 2.0 // row height as a multiple of font size
	statusRadius    = 6.0 // 12px status indicator
	cellPadding     = 8.0
	legendSwatch    = 20.0
	legendTextX     = 25.0
	legendTextDY    = 4.0
	legendFontSize  = 12.0
	tickLength      = 6.0
	tickLabelGap    = 9.0
	gridOpacity     = 0.5
	headerFill      = "#f3f2f1"
	rowStroke       = "#e1dfdd"
	textFill        = "#252423"
)

// Compose builds the frame for res. width is used for the table when there
// is no chart to take it from.
func Compose(res *engine.Result, width float64) *Frame {
	f := &Frame{Width: width, Bindings: make(map[string]Binding)}
	if res == nil {
		return f
	}
	if res.Chart != nil {
		f.Width = res.Chart.Width
	}

	top := 0.0
	if res.Table != nil {
		top = f.composeTable(res.Table)
	}
	f.Height = top
	if res.Chart != nil {
		f.composeChart(res.Chart, top)
		f.Height = top + res.Chart.Height
	}
	return f
}

func (f *Frame) add(c Command) { f.Commands = append(f.Commands, c) }

func (f *Frame) bind(id string, action engine.Action, tip *engine.Tooltip, events ...Event) {
	f.Bindings[id] = Binding{ID: id, Events: events, Action: action, Tooltip: tip}
}

// ============================================================================
// TABLE
// ============================================================================

// composeTable draws the table at the top of the frame and returns its
// height.
func (f *Frame) composeTable(t *engine.TableData) float64 {
	rowH := t.FontSize * rowHeightFactor
	colW := f.Width / float64(max(1, len(t.Headers)))

	f.add(Command{Op: OpGroup, Class: "data-table"})
	for i, h := range t.Headers {
		x := float64(i) * colW
		f.add(Command{Op: OpRect, X: x, Y: 0, W: colW, H: rowH, Style: Style{Fill: headerFill, Stroke: rowStroke}})
		f.add(Command{Op: OpText, X: x + cellPadding, Y: rowH / 2, Text: h,
			Style: Style{Fill: textFill, FontSize: t.FontSize}})
	}

	for r, row := range t.Rows {
		y := float64(r+1) * rowH

		// Status column: neutral rows get an empty outline.
		f.add(Command{Op: OpRect, X: 0, Y: y, W: colW, H: rowH, Style: Style{Fill: "none", Stroke: rowStroke}})
		if t.ShowIcons {
			st := Style{Fill: row.Status}
			if row.Status == "" {
				st = Style{Fill: "none", Stroke: engine.ColorGrid}
			}
			f.add(Command{Op: OpCircle, Class: "status", X: cellPadding + statusRadius, Y: y + rowH/2, R: statusRadius, Style: st})
		}

		for c, cell := range row.Cells {
			id := CellID(r, c)
			x := float64(c+1) * colW
			f.add(Command{Op: OpRect, Binding: id, X: x, Y: y, W: colW, H: rowH,
				Style: Style{Fill: "none", Stroke: rowStroke, Cursor: "pointer"}})
			f.add(Command{Op: OpText, X: x + cellPadding, Y: y + rowH/2, Text: cell.Text,
				Style: Style{Fill: textFill, FontSize: t.FontSize}})
			f.bind(id, cell.Click, nil, EventClick)
		}
	}
	f.add(Command{Op: OpEnd})

	return float64(len(t.Rows)+1) * rowH
}

// ============================================================================
// CHART
// ============================================================================

func (f *Frame) composeChart(c *engine.ChartConfig, top float64) {
	p := c.Plot
	f.PlotX, f.PlotY = p.Left, top+p.Top

	f.add(Command{Op: OpGroup, Class: "chart", X: p.Left, Y: top + p.Top})

	// ── Axes & gridlines ────────────────────────────────────────────────
	f.add(Command{Op: OpGroup, Class: "x-axis", Y: p.Height})
	f.add(Command{Op: OpLine, X: 0, Y: 0, X2: p.Width, Y2: 0, Style: Style{Stroke: "currentColor"}})
	for _, tk := range c.XAxis.Ticks {
		f.add(Command{Op: OpLine, X: tk.Pos, Y: 0, X2: tk.Pos, Y2: tickLength, Style: Style{Stroke: "currentColor"}})
		f.add(Command{Op: OpLine, Class: "grid", X: tk.Pos, Y: 0, X2: tk.Pos, Y2: -p.Height,
			Style: Style{Stroke: engine.ColorGrid, StrokeOpacity: gridOpacity}})
		if !tk.Visible {
			continue
		}
		label := Command{Op: OpText, X: tk.Pos, Y: tickLabelGap, Text: tk.Label, Style: Style{Anchor: "middle"}}
		if c.XAxis.Rotate {
			label.Style.Anchor = "end"
			label.Rotate = -45
		}
		f.add(label)
	}
	f.add(Command{Op: OpEnd})

	f.add(Command{Op: OpGroup, Class: "y-axis"})
	f.add(Command{Op: OpLine, X: 0, Y: 0, X2: 0, Y2: p.Height, Style: Style{Stroke: "currentColor"}})
	for _, tk := range c.YAxis.Ticks {
		f.add(Command{Op: OpLine, X: -tickLength, Y: tk.Pos, X2: 0, Y2: tk.Pos, Style: Style{Stroke: "currentColor"}})
		f.add(Command{Op: OpLine, Class: "grid", X: 0, Y: tk.Pos, X2: p.Width, Y2: tk.Pos,
			Style: Style{Stroke: engine.ColorGrid, StrokeOpacity: gridOpacity}})
		f.add(Command{Op: OpText, X: -tickLabelGap, Y: tk.Pos, Text: tk.Label, Style: Style{Anchor: "end"}})
	}
	f.add(Command{Op: OpEnd})

	// ── Lines & points ──────────────────────────────────────────────────
	for i, line := range c.Lines {
		id := LineID(i)
		f.add(Command{Op: OpPath, Binding: id, D: line.Path, Style: Style{
			Fill:          "none",
			Stroke:        line.Color,
			StrokeWidth:   line.Width,
			StrokeOpacity: line.Opacity,
			Cursor:        "pointer",
		}})
		f.bind(id, line.Click, nil, EventClick)

		for j := range line.Points {
			pt := &line.Points[j]
			pid := PointID(i, j)
			f.add(Command{Op: OpPath, Binding: pid, Class: "point", D: pt.Path, Style: Style{
				Fill:        pt.Color,
				FillOpacity: pt.Opacity,
				Cursor:      "pointer",
			}})
			f.bind(pid, pt.Click, &pt.Tooltip, EventClick, EventMouseOver, EventMouseOut)
		}
	}

	// ── Legends ─────────────────────────────────────────────────────────
	f.composeLegend(c.Legend, "legend", true)
	if c.ThresholdLegend != nil {
		f.composeLegend(*c.ThresholdLegend, "threshold-legend", false)
	}

	f.add(Command{Op: OpEnd})
}

func (f *Frame) composeLegend(l engine.Legend, class string, clickable bool) {
	f.add(Command{Op: OpGroup, Class: class, X: l.X, Y: l.Y})
	f.add(Command{Op: OpText, Text: l.Title})
	for i, e := range l.Entries {
		f.add(Command{Op: OpGroup, Y: e.Y})
		id := ""
		if clickable {
			id = LegendID(i)
			f.bind(id, e.Click, nil, EventClick)
		}
		if e.Path == "" {
			f.add(Command{Op: OpLine, Binding: id, X: 0, Y: 0, X2: legendSwatch, Y2: 0,
				Style: Style{Stroke: e.Color, StrokeWidth: 2, Cursor: cursorFor(clickable)}})
		} else {
			f.add(Command{Op: OpPath, Binding: id, D: e.Path, Style: Style{Fill: e.Color}})
		}
		f.add(Command{Op: OpText, X: legendTextX, Y: legendTextDY, Text: e.Label,
			Style: Style{Fill: engine.ColorLegendText, FontSize: legendFontSize}})
		f.add(Command{Op: OpEnd})
	}
	f.add(Command{Op: OpEnd})
}

func cursorFor(clickable bool) string {
	if clickable {
		return "pointer"
	}
	return ""
}
