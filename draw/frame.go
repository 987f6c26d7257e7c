// Package draw turns a render Result into a flat list of draw commands and
// event bindings, and writes that list out as SVG. It holds no state: every
// Frame is built from scratch.
package draw

import (
	"fmt"
	"time"

	"github.com/spektr-org/trendboard/engine"
)

// ============================================================================
// DRAW COMMANDS
// ============================================================================

// Op is a drawing primitive.
type Op string

const (
	OpGroup  Op = "group" // opens a translated group; closed by OpEnd
	OpEnd    Op = "end"
	OpRect   Op = "rect"
	OpLine   Op = "line"
	OpPath   Op = "path"
	OpText   Op = "text"
	OpCircle Op = "circle"
)

// Style is the presentation of one command. Zero values are omitted.
type Style struct {
	Fill          string  `json:"fill,omitempty"`
	Stroke        string  `json:"stroke,omitempty"`
	StrokeWidth   float64 `json:"strokeWidth,omitempty"`
	StrokeOpacity float64 `json:"strokeOpacity,omitempty"`
	FillOpacity   float64 `json:"fillOpacity,omitempty"`
	FontSize      float64 `json:"fontSize,omitempty"`
	Anchor        string  `json:"anchor,omitempty"` // start | middle | end
	Cursor        string  `json:"cursor,omitempty"`
}

// Command is one drawing instruction. Coordinates are relative to the
// enclosing group.
type Command struct {
	Op      Op      `json:"op"`
	Binding string  `json:"binding,omitempty"` // event binding ID, "" when inert
	Class   string  `json:"class,omitempty"`
	X       float64 `json:"x,omitempty"`
	Y       float64 `json:"y,omitempty"`
	X2      float64 `json:"x2,omitempty"`
	Y2      float64 `json:"y2,omitempty"`
	W       float64 `json:"w,omitempty"`
	H       float64 `json:"h,omitempty"`
	R       float64 `json:"r,omitempty"`
	Rotate  float64 `json:"rotate,omitempty"` // degrees, about (X, Y)
	D       string  `json:"d,omitempty"`
	Text    string  `json:"text,omitempty"`
	Style   Style   `json:"style"`
}

// ============================================================================
// EVENT BINDINGS
// ============================================================================

// Event is a pointer event the presenter forwards back.
type Event string

const (
	EventClick     Event = "click"
	EventMouseOver Event = "mouseover"
	EventMouseOut  Event = "mouseout"
)

// ParseEvent maps an event name to an Event.
func ParseEvent(s string) (Event, error) {
	switch e := Event(s); e {
	case EventClick, EventMouseOver, EventMouseOut:
		return e, nil
	}
	return "", fmt.Errorf("unknown event %q", s)
}

// Binding ties a drawn element to what its events do.
type Binding struct {
	ID      string          `json:"id"`
	Events  []Event         `json:"events"`
	Action  engine.Action   `json:"action"`
	Tooltip *engine.Tooltip `json:"tooltip,omitempty"` // hover content, points only
}

// Handles reports whether b reacts to e.
func (b Binding) Handles(e Event) bool {
	for _, have := range b.Events {
		if have == e {
			return true
		}
	}
	return false
}

// Binding ID formats.
func CellID(row, col int) string  { return fmt.Sprintf("cell-r%d-c%d", row, col) }
func LineID(line int) string      { return fmt.Sprintf("line-%d", line) }
func PointID(line, pt int) string { return fmt.Sprintf("point-%d-%d", line, pt) }
func LegendID(entry int) string   { return fmt.Sprintf("legend-%d", entry) }

// ============================================================================
// FRAME
// ============================================================================

// TooltipState is the hover box overlay. Its position is relative to the
// chart's plot origin.
type TooltipState struct {
	Lines   []string      `json:"lines"`
	X       float64       `json:"x"`
	Y       float64       `json:"y"`
	Opacity float64       `json:"opacity"` // target opacity of the running fade
	Fade    time.Duration `json:"fade"`
	Visible bool          `json:"visible"`
}

// Frame is everything the presenter needs for one paint.
type Frame struct {
	Width    float64            `json:"width"`
	Height   float64            `json:"height"`
	Commands []Command          `json:"commands"`
	Bindings map[string]Binding `json:"bindings"`
	PlotX    float64            `json:"plotX"` // absolute plot origin, the tooltip anchor
	PlotY    float64            `json:"plotY"`
	Tooltip  *TooltipState      `json:"tooltip,omitempty"`
}

// Lookup returns the binding with the given ID.
func (f *Frame) Lookup(id string) (Binding, bool) {
	if f == nil {
		return Binding{}, false
	}
	b, ok := f.Bindings[id]
	return b, ok
}

// WithTooltip returns a shallow copy of f carrying tip.
func (f *Frame) WithTooltip(tip *TooltipState) *Frame {
	cp := *f
	cp.Tooltip = tip
	return &cp
}
