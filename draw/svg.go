package draw

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo"
)

// ============================================================================
// SVG OUTPUT
// ============================================================================
// Interactive elements carry data-binding and data-events attributes so a
// host page can route pointer events back to Visual.Dispatch.
// ============================================================================

const tooltipLineHeight = 16

// WriteSVG writes f as a standalone SVG document.
func WriteSVG(w io.Writer, f *Frame) error {
	ew := &errWriter{w: w}
	canvas := svg.New(ew)

	canvas.Start(px(f.Width), px(f.Height), `font-family="Segoe UI,Helvetica,Arial,sans-serif" font-size="10px"`)
	for _, c := range f.Commands {
		writeCommand(canvas, c, f.Bindings)
	}
	if f.Tooltip != nil && f.Tooltip.Visible {
		writeTooltip(canvas, f)
	}
	canvas.End()

	return ew.err
}

func writeCommand(canvas *svg.SVG, c Command, bindings map[string]Binding) {
	attrs := attributes(c, bindings)
	switch c.Op {
	case OpGroup:
		attrs = append(attrs, fmt.Sprintf(`transform="translate(%s,%s)"`, num(c.X), num(c.Y)))
		canvas.Group(attrs...)
	case OpEnd:
		canvas.Gend()
	case OpRect:
		canvas.Rect(px(c.X), px(c.Y), px(c.W), px(c.H), attrs...)
	case OpLine:
		canvas.Line(px(c.X), px(c.Y), px(c.X2), px(c.Y2), attrs...)
	case OpPath:
		canvas.Path(c.D, attrs...)
	case OpCircle:
		canvas.Circle(px(c.X), px(c.Y), px(c.R), attrs...)
	case OpText:
		if c.Rotate != 0 {
			attrs = append(attrs, fmt.Sprintf(`transform="rotate(%s %s %s)"`, num(c.Rotate), num(c.X), num(c.Y)))
		}
		attrs = append(attrs, `dy=".32em"`)
		canvas.Text(px(c.X), px(c.Y), c.Text, attrs...)
	}
}

// attributes renders style and binding attributes in svgo's convention:
// strings containing "=" are raw attributes, anything else is a style.
func attributes(c Command, bindings map[string]Binding) []string {
	var attrs []string
	if s := styleString(c.Style); s != "" {
		attrs = append(attrs, s)
	}
	if c.Class != "" {
		attrs = append(attrs, fmt.Sprintf(`class=%q`, c.Class))
	}
	if c.Style.Anchor != "" {
		attrs = append(attrs, fmt.Sprintf(`text-anchor=%q`, c.Style.Anchor))
	}
	if c.Binding != "" {
		attrs = append(attrs, fmt.Sprintf(`data-binding=%q`, c.Binding))
		if b, ok := bindings[c.Binding]; ok {
			events := make([]string, len(b.Events))
			for i, e := range b.Events {
				events[i] = string(e)
			}
			attrs = append(attrs, fmt.Sprintf(`data-events=%q`, strings.Join(events, " ")))
		}
	}
	return attrs
}

func styleString(s Style) string {
	var parts []string
	add := func(k, v string) { parts = append(parts, k+":"+v) }
	if s.Fill != "" {
		add("fill", s.Fill)
	}
	if s.Stroke != "" {
		add("stroke", s.Stroke)
	}
	if s.StrokeWidth != 0 {
		add("stroke-width", num(s.StrokeWidth))
	}
	if s.StrokeOpacity != 0 {
		add("stroke-opacity", num(s.StrokeOpacity))
	}
	if s.FillOpacity != 0 {
		add("fill-opacity", num(s.FillOpacity))
	}
	if s.FontSize != 0 {
		add("font-size", num(s.FontSize)+"px")
	}
	if s.Cursor != "" {
		add("cursor", s.Cursor)
	}
	return strings.Join(parts, ";")
}

func writeTooltip(canvas *svg.SVG, f *Frame) {
	tip := f.Tooltip
	x, y := f.PlotX+tip.X, f.PlotY+tip.Y

	width := 0
	for _, l := range tip.Lines {
		width = max(width, len(l)*7)
	}
	height := len(tip.Lines)*tooltipLineHeight + 8

	canvas.Group(`class="tooltip"`,
		fmt.Sprintf(`transform="translate(%s,%s)"`, num(x), num(y)),
		fmt.Sprintf(`opacity="%s"`, num(tip.Opacity)))
	canvas.Rect(0, 0, width+16, height, "fill:#fff;stroke:#c8c6c4")
	for i, l := range tip.Lines {
		canvas.Text(8, (i+1)*tooltipLineHeight, l, "fill:#252423;font-size:12px")
	}
	canvas.Gend()
}

func px(f float64) int {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(math.Round(f))
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// errWriter keeps the first write error; svgo itself discards them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}
