package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/spektr-org/trendboard/draw"
	"github.com/spektr-org/trendboard/engine"
)

// renderCmd represents the trendboard render command
var renderCmd = &cobra.Command{
	Use:   "render <data>",
	Short: "Render the table and trend chart to SVG",
	Long: `Render a dataset as an SVG board: the latest-row table on top and the
trend chart below.

Clicks can be replayed with --click, given once per click in the order they
happen. Binding IDs are the ones 'trendboard inspect' lists:

  line-N        a series line
  point-N-M     point M of series N
  legend-N      legend entry N
  cell-rN-cM    table cell at row N, column M

Examples:
  # Render to stdout
  trendboard render readings.csv

  # Select the second series, then write to a file
  trendboard render readings.csv --click line-1 -o board.svg

  # Sheet of a workbook at a fixed size
  trendboard render plant.xlsx --sheet Levels --width 1200 --height 800`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

var (
	renderSource sourceFlags
	renderWidth  float64
	renderHeight float64
	renderClicks []string
	renderOutput string
)

func init() {
	rootCmd.AddCommand(renderCmd)

	renderSource.register(renderCmd.Flags())
	renderCmd.Flags().Float64Var(&renderWidth, "width", engine.DefaultWidth, "Viewport width in pixels")
	renderCmd.Flags().Float64Var(&renderHeight, "height", engine.DefaultHeight, "Viewport height in pixels")
	renderCmd.Flags().StringArrayVar(&renderClicks, "click", nil, "Binding ID to click (repeatable, applied in order)")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "Output file path (default: stdout)")
}

func runRender(cmd *cobra.Command, args []string) error {
	log := newLogger(cmd.ErrOrStderr())

	cat, model, err := renderSource.load(cmd.Context(), args[0], log)
	if err != nil {
		return err
	}
	vp := engine.Viewport{Width: renderWidth, Height: renderHeight}
	sess, err := runSession(cat, model, vp, renderClicks, log)
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if renderOutput != "" {
		f, err := os.Create(renderOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if err := draw.WriteSVG(w, sess.visual.Frame()); err != nil {
		return fmt.Errorf("writing SVG: %w", err)
	}
	log.Info("rendered",
		slog.Int("frames", sess.recorder.Count()),
		slog.String("selection", sess.visual.Selection().Value))
	if renderOutput != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "SVG written to %s\n", renderOutput)
	}
	return nil
}
