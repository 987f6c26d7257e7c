package engine

import (
	"log/slog"

	"golang.org/x/text/language"
)

// ============================================================================
// ENGINE OPTIONS — Functional options for Render()
// ============================================================================

// Default viewport when the host does not supply one.
const (
	DefaultWidth  = 800.0
	DefaultHeight = 600.0
)

// Viewport is the pixel area the chart is laid out in.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Option configures engine behavior via functional options pattern.
type Option func(*config)

type config struct {
	Viewport Viewport
	Locale   language.Tag
	Collator *Collator // overrides Locale when set
	Logger   *slog.Logger
}

// WithViewport sets the chart area. Non-positive dimensions keep the default.
func WithViewport(v Viewport) Option {
	return func(c *config) {
		if v.Width > 0 {
			c.Viewport.Width = v.Width
		}
		if v.Height > 0 {
			c.Viewport.Height = v.Height
		}
	}
}

// WithLocale sets the locale used for display ordering.
func WithLocale(tag language.Tag) Option {
	return func(c *config) {
		c.Locale = tag
	}
}

// WithCollator reuses an existing collator across render passes.
func WithCollator(coll *Collator) Option {
	return func(c *config) {
		c.Collator = coll
	}
}

// WithLogger sets the logger for skip and diagnostic messages.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.Logger = l
		}
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		Viewport: Viewport{Width: DefaultWidth, Height: DefaultHeight},
		Locale:   language.English,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Collator == nil {
		cfg.Collator = NewCollator(cfg.Locale)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default().With(slog.String("module", "engine"))
	}
	return cfg
}
