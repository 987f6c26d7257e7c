package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/spektr-org/trendboard/settings"
)

// settingsCmd represents the trendboard settings command
var settingsCmd = &cobra.Command{
	Use:   "settings [file]",
	Short: "Print formatting settings or the format pane",
	Long: `Print the formatting settings in effect: the built-in defaults, or the
given settings file merged over them.

With --pane the output is the format pane description instead: every card
with its slices, control types and current values.

Examples:
  trendboard settings > settings.yaml
  trendboard settings my-settings.yaml --pane --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSettings,
}

var (
	settingsFormat = newEnumFlag("yaml", "yaml", "json", "pretty")
	settingsPane   bool
)

func init() {
	rootCmd.AddCommand(settingsCmd)

	settingsCmd.Flags().VarP(settingsFormat, "format", "f", "Output format: yaml, json, pretty")
	settingsCmd.Flags().BoolVar(&settingsPane, "pane", false, "Describe the format pane instead of the raw settings")
}

func runSettings(cmd *cobra.Command, args []string) error {
	model := settings.Default()
	if len(args) == 1 {
		loaded, err := settings.LoadFromPath(args[0])
		if err != nil {
			return err
		}
		model = loaded
	}

	var v any = model
	if settingsPane {
		v = settings.Describe(model)
	}

	if settingsFormat.String() != "yaml" {
		return writeJSON(cmd.OutOrStdout(), v, settingsFormat.String())
	}
	out, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}
