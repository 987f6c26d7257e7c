package engine

// ============================================================================
// SELECTION STATE — Toggle protocol shared by table and chart
// ============================================================================
// A Selection is a value. Renderers read it; only Apply produces a new one.
// The empty string means "absent": an empty legend or filter value can
// never become an active selection.
// ============================================================================

// ActionKind says which toggle rule a click follows.
type ActionKind int

const (
	ActionNone ActionKind = iota
	// ActionCell is a table cell click: any active selection clears,
	// otherwise the cell's filter value becomes selected.
	ActionCell
	// ActionSeries is a line, point or legend click: selecting the
	// already-selected legend clears it.
	ActionSeries
)

func (k ActionKind) String() string {
	switch k {
	case ActionCell:
		return "cell"
	case ActionSeries:
		return "series"
	}
	return "none"
}

// MarshalText encodes the kind by name.
func (k ActionKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name. Unknown names decode as ActionNone.
func (k *ActionKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "cell":
		*k = ActionCell
	case "series":
		*k = ActionSeries
	default:
		*k = ActionNone
	}
	return nil
}

// Action is what a click on a rendered element asks for.
type Action struct {
	Kind     ActionKind `json:"kind"`
	Value    string     `json:"value"`
	Category string     `json:"category,omitempty"`
}

// CellAction is bound to a table cell of column category whose row has
// filter value filterValue.
func CellAction(filterValue, category string) Action {
	return Action{Kind: ActionCell, Value: filterValue, Category: category}
}

// SeriesAction is bound to a chart line, point or legend entry.
func SeriesAction(legend string) Action {
	return Action{Kind: ActionSeries, Value: legend}
}

// Selection is the highlighted legend/category.
type Selection struct {
	Value    string `json:"selectedValue,omitempty"`
	Category string `json:"selectedCategory,omitempty"`
}

// Active reports whether a selection is in effect.
func (s Selection) Active() bool { return s.Value != "" }

// Matches reports whether legend is the selected value.
func (s Selection) Matches(legend string) bool {
	return s.Active() && s.Value == legend
}

// Apply returns the selection after a click.
func (s Selection) Apply(a Action) Selection {
	switch a.Kind {
	case ActionCell:
		if s.Active() {
			return Selection{}
		}
		return Selection{Value: a.Value, Category: a.Category}
	case ActionSeries:
		if s.Value == a.Value {
			s.Value = ""
			return s
		}
		// Category stays whatever the last cell click set.
		s.Value = a.Value
		return s
	}
	return s
}

// Emphasis scales a series' base styling.
type Emphasis struct {
	Width   float64 // line width multiplier
	Size    float64 // point radius multiplier
	Opacity float64
}

// EmphasisFor returns how the series with the given legend is styled
// under s.
func (s Selection) EmphasisFor(legend string) Emphasis {
	switch {
	case !s.Active():
		return Emphasis{Width: 1, Size: 1, Opacity: 1}
	case s.Value == legend:
		return Emphasis{Width: 2, Size: 1.5, Opacity: 1}
	}
	return Emphasis{Width: 1, Size: 1, Opacity: 0.3}
}
