package settings

// ============================================================================
// FORMATTING MODEL — describe entry point for the host's format pane
// ============================================================================

// Control types understood by the format pane.
const (
	ControlToggle = "ToggleSwitch"
	ControlNumber = "NumUpDown"
	ControlColor  = "ColorPicker"
	ControlText   = "TextInput"
)

// Slice is one editable property on a card.
type Slice struct {
	Name        string `json:"name" yaml:"name"`
	DisplayName string `json:"displayName" yaml:"displayName"`
	Control     string `json:"control" yaml:"control"`
	Value       any    `json:"value" yaml:"value"`
}

// Card is one collapsible group in the pane.
type Card struct {
	Name        string  `json:"name" yaml:"name"`
	DisplayName string  `json:"displayName" yaml:"displayName"`
	Slices      []Slice `json:"slices" yaml:"slices"`
}

// FormattingModel is the pane content for the current values.
type FormattingModel struct {
	Cards []Card `json:"cards" yaml:"cards"`
}

// Describe builds the pane content from m.
func Describe(m Model) FormattingModel {
	return FormattingModel{Cards: []Card{
		{
			Name:        CardDataPoint,
			DisplayName: "Data colors",
			Slices: []Slice{
				{Name: "defaultColor", DisplayName: "Default color", Control: ControlColor, Value: m.DataPoint.DefaultColor},
				{Name: "showAllDataPoints", DisplayName: "Show all", Control: ControlToggle, Value: m.DataPoint.ShowAllDataPoints},
				{Name: "fill", DisplayName: "Fill", Control: ControlColor, Value: m.DataPoint.Fill},
				{Name: "fillRule", DisplayName: "Color saturation", Control: ControlColor, Value: m.DataPoint.FillRule},
				{Name: "fontSize", DisplayName: "Text Size", Control: ControlNumber, Value: m.DataPoint.FontSize},
			},
		},
		{
			Name:        CardTable,
			DisplayName: "Table",
			Slices: []Slice{
				{Name: "showIcons", DisplayName: "Show status icons", Control: ControlToggle, Value: m.Table.ShowIcons},
				{Name: "fontSize", DisplayName: "Font size", Control: ControlNumber, Value: m.Table.FontSize},
			},
		},
		{
			Name:        CardChart,
			DisplayName: "Chart",
			Slices: []Slice{
				{Name: "showPoints", DisplayName: "Show points", Control: ControlToggle, Value: m.Chart.ShowPoints},
				{Name: "lineWidth", DisplayName: "Line width", Control: ControlNumber, Value: m.Chart.LineWidth},
				{Name: "pointSize", DisplayName: "Point size", Control: ControlNumber, Value: m.Chart.PointSize},
				{Name: "legendTitle", DisplayName: "Legend title", Control: ControlText, Value: m.Chart.LegendTitle},
				{Name: "thresholdMarkColumn", DisplayName: "Threshold mark column", Control: ControlText, Value: m.Chart.ThresholdMarkColumn},
			},
		},
	}}
}

// Objects is the inverse of Populate: the card → property → value form the
// host persists.
func (f FormattingModel) Objects() map[string]map[string]any {
	out := make(map[string]map[string]any, len(f.Cards))
	for _, c := range f.Cards {
		props := make(map[string]any, len(c.Slices))
		for _, s := range c.Slices {
			props[s.Name] = s.Value
		}
		out[c.Name] = props
	}
	return out
}
