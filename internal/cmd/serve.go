package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/spektr-org/trendboard/mcpserver"
)

// serveCmd starts the MCP server
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an MCP server for AI agent integration",
	Long: `Start an MCP (Model Context Protocol) server on stdio.

An agent renders a dataset once, then clicks and hovers drawn elements by
binding ID and reads back the SVG or a JSON snapshot after every step. The
selection persists across tool calls and survives re-renders.

Available Tools:
  trendboard_render     Load a dataset and render it
  trendboard_click      Click a line, point, legend entry or table cell
  trendboard_hover      Show or hide a point tooltip
  trendboard_settings   Describe the format pane

Examples:
  trendboard serve
  trendboard serve --list-tools`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var serveListTools bool

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&serveListTools, "list-tools", false, "Print the available tools and exit")
}

func runServe(cmd *cobra.Command, args []string) error {
	tag, err := parseLocale(locale)
	if err != nil {
		return err
	}

	// stdout carries the protocol; logs go to stderr.
	log := newLogger(cmd.ErrOrStderr())
	srv := mcpserver.New(mcpserver.Config{Logger: log, Locale: tag})

	if serveListTools {
		for _, name := range srv.ListTools() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	}

	log.Info("starting MCP server", slog.Int("tools", len(srv.ListTools())))
	return srv.ServeStdio()
}
