package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spektr-org/trendboard/engine"
)

// inspectCmd represents the trendboard inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <data>",
	Short: "Print the computed table, series and bindings",
	Long: `Run the same pipeline as render and print what it computed instead of
drawing it.

Formats:
  json      Table, series, selection and binding IDs (default)
  pretty    Same as json, indented
  text      One-paragraph summary
  csv       Series as x rows by legend columns, or the table with --table
            (ready for Sheets/Excel)

Examples:
  trendboard inspect readings.csv --format pretty
  trendboard inspect readings.csv --format csv > series.csv
  trendboard inspect readings.csv --format csv --table --click cell-r0-c0`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

var (
	inspectSource sourceFlags
	inspectFormat = newEnumFlag("json", "json", "pretty", "text", "csv")
	inspectTable  bool
	inspectClicks []string
)

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectSource.register(inspectCmd.Flags())
	inspectCmd.Flags().VarP(inspectFormat, "format", "f", "Output format: json, pretty, text, csv")
	inspectCmd.Flags().BoolVar(&inspectTable, "table", false, "With --format csv, write the table instead of the series")
	inspectCmd.Flags().StringArrayVar(&inspectClicks, "click", nil, "Binding ID to click before inspecting (repeatable)")
}

// inspection is the JSON form of one computed state.
type inspection struct {
	Selection engine.Selection  `json:"selection"`
	Bindings  []string          `json:"bindings"`
	Skipped   []string          `json:"skipped,omitempty"`
	Table     *engine.TableData `json:"table,omitempty"`
	Series    []engine.Series   `json:"series,omitempty"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	log := newLogger(cmd.ErrOrStderr())

	cat, model, err := inspectSource.load(cmd.Context(), args[0], log)
	if err != nil {
		return err
	}
	sess, err := runSession(cat, model, engine.Viewport{}, inspectClicks, log)
	if err != nil {
		return err
	}

	res := sess.visual.Result()
	out := cmd.OutOrStdout()
	switch inspectFormat.String() {
	case "csv":
		if inspectTable {
			return writeTableCSV(out, res.Table)
		}
		return writeSeriesCSV(out, res)
	case "text":
		_, err := fmt.Fprintln(out, summarize(res))
		return err
	}

	insp := inspection{
		Selection: res.Selection,
		Skipped:   res.Skipped,
		Table:     res.Table,
		Series:    res.Series,
	}
	if f := sess.visual.Frame(); f != nil {
		for id := range f.Bindings {
			insp.Bindings = append(insp.Bindings, id)
		}
		sort.Strings(insp.Bindings)
	}
	return writeJSON(out, insp, inspectFormat.String())
}

// ============================================================================
// CSV OUTPUT
// ============================================================================

// writeSeriesCSV writes one row per x value and one column per series.
// An x value a series has no point at is left empty.
func writeSeriesCSV(w io.Writer, res *engine.Result) error {
	cw := csv.NewWriter(w)

	if res == nil || len(res.Series) == 0 {
		cw.Write([]string{"Result", "No data"})
		cw.Flush()
		return cw.Error()
	}

	xLabel := "Label"
	var domain []string
	if res.Chart != nil {
		if res.Chart.XAxis.Title != "" {
			xLabel = res.Chart.XAxis.Title
		}
		for _, t := range res.Chart.XAxis.Ticks {
			domain = append(domain, t.Label)
		}
	} else {
		domain = unionX(res.Series)
	}

	headers := []string{xLabel}
	values := make([]map[string]float64, len(res.Series))
	for i, s := range res.Series {
		headers = append(headers, s.Legend)
		values[i] = make(map[string]float64, len(s.Points))
		for _, p := range s.Points {
			values[i][p.X] = p.Y
		}
	}
	cw.Write(headers)

	for _, x := range domain {
		row := []string{x}
		for i := range res.Series {
			if y, ok := values[i][x]; ok {
				row = append(row, fmtNum(y))
			} else {
				row = append(row, "")
			}
		}
		cw.Write(row)
	}
	cw.Flush()
	return cw.Error()
}

func unionX(series []engine.Series) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range series {
		for _, p := range s.Points {
			if !seen[p.X] {
				seen[p.X] = true
				out = append(out, p.X)
			}
		}
	}
	return out
}

// writeTableCSV writes the latest-row table as displayed: the status
// indicator color under the Status header, the cells, then the threshold
// label of each row as a trailing column.
func writeTableCSV(w io.Writer, table *engine.TableData) error {
	cw := csv.NewWriter(w)

	if table == nil || len(table.Headers) == 0 {
		cw.Write([]string{"Result", "No data"})
		cw.Flush()
		return cw.Error()
	}

	cw.Write(append(append([]string{}, table.Headers...), "Threshold"))
	for _, row := range table.Rows {
		record := make([]string, 0, len(row.Cells)+2)
		record = append(record, row.Status)
		for _, c := range row.Cells {
			record = append(record, c.Text)
		}
		cw.Write(append(record, row.Threshold))
	}
	cw.Flush()
	return cw.Error()
}

// ============================================================================
// JSON / TEXT OUTPUT
// ============================================================================

func writeJSON(w io.Writer, v any, format string) error {
	var (
		out []byte
		err error
	)
	if format == "pretty" {
		out, err = json.MarshalIndent(v, "", "  ")
	} else {
		out, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func summarize(res *engine.Result) string {
	if res == nil {
		return "No result."
	}
	var parts []string
	if res.Table != nil {
		parts = append(parts, fmt.Sprintf("%d latest rows", len(res.Table.Rows)))
	}
	if len(res.Series) > 0 {
		legends := make([]string, len(res.Series))
		for i, s := range res.Series {
			legends[i] = s.Legend
		}
		parts = append(parts, fmt.Sprintf("%d series (%s)", len(res.Series), strings.Join(legends, ", ")))
	}
	if res.Selection.Active() {
		parts = append(parts, fmt.Sprintf("selected %s", res.Selection.Value))
	}
	for _, s := range res.Skipped {
		parts = append(parts, "skipped "+s)
	}
	if len(parts) == 0 {
		return "No data."
	}
	return strings.Join(parts, "; ") + "."
}

// fmtNum prints whole numbers without decimals and fractions with two.
func fmtNum(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
