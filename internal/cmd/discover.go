package cmd

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/spektr-org/trendboard/helpers"
	"github.com/spektr-org/trendboard/schema"
)

// discoverCmd represents the trendboard discover command
var discoverCmd = &cobra.Command{
	Use:   "discover <data>",
	Short: "Propose column bindings for a dataset",
	Long: `Analyze the columns of a dataset and print the proposed bindings: which
column is the x-axis, the legend, the threshold label and the y value,
and which columns the table shows.

The output can be edited and passed back with --schema.

Examples:
  trendboard discover readings.csv > bindings.yaml
  trendboard discover plant.xlsx --sheet Levels --format json
  trendboard discover metrics.db --query "SELECT * FROM readings" --recover Notes`,
	Args: cobra.ExactArgs(1),
	RunE: runDiscover,
}

var (
	discoverSource     sourceFlags
	discoverFormat     = newEnumFlag("yaml", "yaml", "json", "pretty")
	discoverSampleSize int
	discoverRecover    []string
)

func init() {
	rootCmd.AddCommand(discoverCmd)

	discoverSource.register(discoverCmd.Flags())
	discoverCmd.Flags().VarP(discoverFormat, "format", "f", "Output format: yaml, json, pretty")
	discoverCmd.Flags().IntVar(&discoverSampleSize, "sample", 1000, "Rows to analyze")
	discoverCmd.Flags().StringSliceVar(&discoverRecover, "recover", nil, "Skipped columns to keep as dimensions")
}

func runDiscover(cmd *cobra.Command, args []string) error {
	log := newLogger(cmd.ErrOrStderr())
	path := args[0]

	src := discoverSource.source(path)
	headers, rows, err := helpers.ReadRows(cmd.Context(), src)
	if err != nil {
		return err
	}
	kind, _ := src.DetectKind()

	sch, err := schema.DiscoverFromRows(headers, rows, schema.DiscoverOptions{
		SampleSize:     discoverSampleSize,
		RecoverColumns: discoverRecover,
		Name:           strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Source:         strings.ToUpper(string(kind)),
	})
	if err != nil {
		return err
	}
	log.Info("discovered",
		slog.Int("dimensions", len(sch.Dimensions)),
		slog.Int("measures", len(sch.Measures)),
		slog.Int("skipped", len(sch.SkippedColumns)))

	if discoverFormat.String() != "yaml" {
		return writeJSON(cmd.OutOrStdout(), sch, discoverFormat.String())
	}
	out, err := yaml.Marshal(sch)
	if err != nil {
		return fmt.Errorf("failed to marshal bindings: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}
