// Package mcpserver exposes a trendboard Visual over MCP (Model Context
// Protocol). An agent loads a dataset, clicks and hovers drawn elements by
// binding ID, and reads back the SVG or a JSON snapshot after each step.
package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/text/language"

	"github.com/spektr-org/trendboard/draw"
	"github.com/spektr-org/trendboard/engine"
	"github.com/spektr-org/trendboard/helpers"
	"github.com/spektr-org/trendboard/schema"
	"github.com/spektr-org/trendboard/settings"
	"github.com/spektr-org/trendboard/visual"
)

// Output formats for tool results.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
)

// ErrNothingRendered is returned by tools that need a rendered frame.
var ErrNothingRendered = errors.New("nothing rendered yet: call trendboard_render first")

// AllTools lists every tool the server registers.
var AllTools = []string{"trendboard_render", "trendboard_click", "trendboard_hover", "trendboard_settings"}

// Config holds server configuration.
type Config struct {
	Logger *slog.Logger
	Locale language.Tag
}

// Server wraps the MCP server around one Visual. Tool calls may arrive
// concurrently; mu serializes them since a Visual is single-threaded.
type Server struct {
	mcpServer *server.MCPServer
	log       *slog.Logger

	mu       sync.Mutex
	recorder *draw.Recorder
	visual   *visual.Visual
}

// New creates the server and registers every tool.
func New(cfg Config) *Server {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("module", "mcpserver"))

	locale := cfg.Locale
	if locale == language.Und {
		locale = language.English
	}

	rec := &draw.Recorder{}
	s := &Server{
		mcpServer: server.NewMCPServer("trendboard", "1.0.0", server.WithToolCapabilities(false)),
		log:       log,
		recorder:  rec,
		visual:    visual.New(rec, visual.WithLogger(log), visual.WithLocale(locale)),
	}

	s.registerRenderTool()
	s.registerClickTool()
	s.registerHoverTool()
	s.registerSettingsTool()
	return s
}

// ServeStdio starts the server using stdio transport.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ListTools returns the registered tool names.
func (s *Server) ListTools() []string {
	return append([]string(nil), AllTools...)
}

// ============================================================================
// TOOL REGISTRATION
// ============================================================================

func (s *Server) registerRenderTool() {
	tool := mcp.NewTool("trendboard_render",
		mcp.WithDescription("Load a dataset (CSV, XLSX or sqlite) and render the latest-row table and trend chart. The current selection is kept."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the data file"),
		),
		mcp.WithString("schema",
			mcp.Description("Path to a YAML/JSON column binding file (default: auto-discover)"),
		),
		mcp.WithString("settings",
			mcp.Description("Path to a YAML formatting settings file (default: built-in defaults)"),
		),
		mcp.WithString("sheet",
			mcp.Description("Workbook sheet, or sqlite table to select from"),
		),
		mcp.WithString("query",
			mcp.Description("SQL query for sqlite sources"),
		),
		mcp.WithNumber("width",
			mcp.Description("Viewport width in pixels (default: 800)"),
		),
		mcp.WithNumber("height",
			mcp.Description("Viewport height in pixels (default: 600)"),
		),
		mcp.WithString("format",
			mcp.Description("Result format: svg (default) or json"),
		),
	)
	s.mcpServer.AddTool(tool, s.handleRender)
}

func (s *Server) registerClickTool() {
	tool := mcp.NewTool("trendboard_click",
		mcp.WithDescription("Click a drawn element by binding ID (line-N, point-N-M, legend-N, cell-rN-cM). Toggles the selection and re-renders."),
		mcp.WithString("binding",
			mcp.Required(),
			mcp.Description("Binding ID from the last render"),
		),
		mcp.WithString("format",
			mcp.Description("Result format: svg (default) or json"),
		),
	)
	s.mcpServer.AddTool(tool, s.handleClick)
}

func (s *Server) registerHoverTool() {
	tool := mcp.NewTool("trendboard_hover",
		mcp.WithDescription("Hover a point marker to show its tooltip, or leave it to hide the tooltip."),
		mcp.WithString("binding",
			mcp.Required(),
			mcp.Description("Point binding ID (point-N-M)"),
		),
		mcp.WithBoolean("leave",
			mcp.Description("Send mouseout instead of mouseover"),
		),
	)
	s.mcpServer.AddTool(tool, s.handleHover)
}

func (s *Server) registerSettingsTool() {
	tool := mcp.NewTool("trendboard_settings",
		mcp.WithDescription("Describe the formatting pane: cards, slices, control types and current values."),
	)
	s.mcpServer.AddTool(tool, s.handleSettings)
}

// ============================================================================
// TOOL HANDLERS
// ============================================================================

func (s *Server) handleRender(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	ra := RenderArgs{}
	ra.Path, _ = args["path"].(string)
	if ra.Path == "" {
		return mcp.NewToolResultError("path parameter is required"), nil
	}
	ra.Schema, _ = args["schema"].(string)
	ra.Settings, _ = args["settings"].(string)
	ra.Sheet, _ = args["sheet"].(string)
	ra.Query, _ = args["query"].(string)
	ra.Format, _ = args["format"].(string)
	if w, ok := args["width"].(float64); ok {
		ra.Width = w
	}
	if h, ok := args["height"].(float64); ok {
		ra.Height = h
	}

	result, err := s.Render(ctx, ra)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(result), nil
}

func (s *Server) handleClick(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	binding, _ := args["binding"].(string)
	if binding == "" {
		return mcp.NewToolResultError("binding parameter is required"), nil
	}
	format, _ := args["format"].(string)

	result, err := s.Click(binding, format)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(result), nil
}

func (s *Server) handleHover(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	binding, _ := args["binding"].(string)
	if binding == "" {
		return mcp.NewToolResultError("binding parameter is required"), nil
	}
	leave, _ := args["leave"].(bool)

	result, err := s.Hover(binding, leave)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(result), nil
}

func (s *Server) handleSettings(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.Settings()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(result), nil
}

// ============================================================================
// OPERATIONS
// ============================================================================

// RenderArgs are the inputs of a render call.
type RenderArgs struct {
	Path     string
	Schema   string
	Settings string
	Sheet    string
	Query    string
	Width    float64
	Height   float64
	Format   string
}

// Render loads the dataset and sends it to the Visual as a host update.
func (s *Server) Render(ctx context.Context, ra RenderArgs) (string, error) {
	if err := checkFormat(ra.Format); err != nil {
		return "", err
	}
	var sch *schema.Config
	if ra.Schema != "" {
		loaded, err := schema.LoadFromPath(ra.Schema)
		if err != nil {
			return "", err
		}
		sch = loaded
	}
	model := settings.Default()
	if ra.Settings != "" {
		loaded, err := settings.LoadFromPath(ra.Settings)
		if err != nil {
			return "", err
		}
		model = loaded
	}

	src := helpers.Source{Path: ra.Path, Sheet: ra.Sheet, Query: ra.Query}
	cat, _, err := helpers.Load(ctx, src, sch, helpers.WithLogger(s.log))
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	vp := engine.Viewport{Width: ra.Width, Height: ra.Height}
	if err := s.visual.Update(visual.NewUpdate(cat, model, vp)); err != nil {
		return "", err
	}
	s.log.Info("rendered", slog.String("path", ra.Path), slog.Int("rows", cat.Len()))
	return s.output(ra.Format)
}

// Click dispatches a click on binding. An unknown format is rejected before
// the selection changes.
func (s *Server) Click(binding, format string) (string, error) {
	if err := checkFormat(format); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.visual.Frame() == nil {
		return "", ErrNothingRendered
	}
	if err := s.visual.Dispatch(binding, draw.EventClick); err != nil {
		return "", err
	}
	return s.output(format)
}

// Hover shows or hides the tooltip of a point binding and returns the
// tooltip state as JSON.
func (s *Server) Hover(binding string, leave bool) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.visual.Frame() == nil {
		return "", ErrNothingRendered
	}
	e := draw.EventMouseOver
	if leave {
		e = draw.EventMouseOut
	}
	if err := s.visual.Dispatch(binding, e); err != nil {
		return "", err
	}

	tip := s.visual.Frame().Tooltip
	if tip == nil {
		tip = &draw.TooltipState{}
	}
	return marshal(tip)
}

// Settings describes the formatting pane for the settings in effect.
func (s *Server) Settings() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return marshal(s.visual.FormattingModel())
}

// Snapshot is the JSON form of the current state.
type Snapshot struct {
	Selection engine.Selection  `json:"selection"`
	Bindings  []string          `json:"bindings"`
	Skipped   []string          `json:"skipped,omitempty"`
	Table     *engine.TableData `json:"table,omitempty"`
	Lines     []LineSummary     `json:"lines,omitempty"`
	Frames    int               `json:"frames"`
}

// LineSummary is one drawn series without its geometry.
type LineSummary struct {
	Legend  string  `json:"legend"`
	Color   string  `json:"color"`
	Width   float64 `json:"width"`
	Opacity float64 `json:"opacity"`
	Points  int     `json:"points"`
}

func (s *Server) snapshot() Snapshot {
	snap := Snapshot{Selection: s.visual.Selection(), Frames: s.recorder.Count()}
	if f := s.visual.Frame(); f != nil {
		for id := range f.Bindings {
			snap.Bindings = append(snap.Bindings, id)
		}
		sort.Strings(snap.Bindings)
	}
	if res := s.visual.Result(); res != nil {
		snap.Skipped = res.Skipped
		snap.Table = res.Table
		if res.Chart != nil {
			for _, l := range res.Chart.Lines {
				snap.Lines = append(snap.Lines, LineSummary{
					Legend:  l.Legend,
					Color:   l.Color,
					Width:   l.Width,
					Opacity: l.Opacity,
					Points:  len(l.Points),
				})
			}
		}
	}
	return snap
}

func checkFormat(format string) error {
	switch format {
	case "", FormatSVG, FormatJSON:
		return nil
	}
	return fmt.Errorf("unknown format %q (use svg or json)", format)
}

func (s *Server) output(format string) (string, error) {
	switch format {
	case "", FormatSVG:
		var buf bytes.Buffer
		if err := draw.WriteSVG(&buf, s.visual.Frame()); err != nil {
			return "", err
		}
		return buf.String(), nil
	case FormatJSON:
		return marshal(s.snapshot())
	}
	return "", fmt.Errorf("unknown format %q (use svg or json)", format)
}

func marshal(v any) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
