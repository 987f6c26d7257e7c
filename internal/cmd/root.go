// Package cmd contains all CLI commands for trendboard.
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version is the current version of trendboard
	Version = "0.3.0"

	// Global flags
	verbose bool
	locale  string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "trendboard",
	Short: "Latest-row table and trend chart for threshold-coded datasets",
	Long: `trendboard renders a dataset as two linked views: a table of the rows
at the most recent x value, and a multi-series line chart over time with
points colored by their threshold label (Red, Yellow, Green...).

Clicking a table cell, a line or a legend entry selects a series and the
other views dim around it. The CLI replays clicks with --click and writes
the final frame; the MCP server lets an agent click interactively.

Data Sources:
  .csv/.txt           Comma separated, first row is the header
  .xlsx/.xlsm         First sheet, or --sheet
  .db/.sqlite         --query, or --sheet naming a table

Column bindings are discovered from the data unless --schema names a
YAML/JSON binding file (see 'trendboard discover').

Examples:
  trendboard discover readings.csv > bindings.yaml
  trendboard render readings.csv -o board.svg
  trendboard render readings.csv --click line-1 -o selected.svg
  trendboard inspect readings.csv --format csv
  trendboard serve`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&locale, "locale", "en", "BCP 47 locale for legend and axis ordering")
}

// newLogger returns the CLI logger. Logs go to w so stdout stays clean for
// SVG, JSON and CSV output.
func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})).
		With(slog.String("module", "cli"))
}
