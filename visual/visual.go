// Package visual is the event-driven shell around the pure renderer. It
// owns the selection and the last update the host sent, re-renders on every
// update and every click, and hands frames to a Presenter.
//
// A Visual is not safe for concurrent use; callers serialize Update and
// Dispatch the way a UI thread would.
package visual

import (
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/text/language"

	"github.com/spektr-org/trendboard/draw"
	"github.com/spektr-org/trendboard/engine"
	"github.com/spektr-org/trendboard/settings"
)

var (
	// ErrReentrantDispatch is returned when an event arrives while a
	// render is still being presented.
	ErrReentrantDispatch = errors.New("dispatch during render")

	// ErrUnknownBinding is returned for a binding ID the current frame
	// does not contain.
	ErrUnknownBinding = errors.New("unknown binding")
)

// DataView is one dataset the host supplies: the categorical view plus the
// formatting objects persisted for it.
type DataView struct {
	Categorical *engine.Categorical       `json:"categorical,omitempty"`
	Objects     map[string]map[string]any `json:"objects,omitempty"`
}

// UpdateOptions is what the host passes on every data or formatting change.
type UpdateOptions struct {
	DataViews []DataView      `json:"dataViews"`
	Viewport  engine.Viewport `json:"viewport"`
}

// NewUpdate wraps a dataset and a settings model the way a host would send
// them: one data view whose objects carry the formatting pane's values.
func NewUpdate(cat *engine.Categorical, m settings.Model, vp engine.Viewport) UpdateOptions {
	return UpdateOptions{
		DataViews: []DataView{{
			Categorical: cat,
			Objects:     settings.Describe(m).Objects(),
		}},
		Viewport: vp,
	}
}

// Option configures a Visual.
type Option func(*Visual)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(v *Visual) {
		if l != nil {
			v.log = l
		}
	}
}

// WithLocale sets the locale for display ordering.
func WithLocale(tag language.Tag) Option {
	return func(v *Visual) {
		v.coll = engine.NewCollator(tag)
	}
}

// Visual holds per-instance state between host calls.
type Visual struct {
	presenter draw.Presenter
	log       *slog.Logger
	coll      *engine.Collator

	selection engine.Selection
	options   *UpdateOptions
	settings  settings.Model
	result    *engine.Result
	frame     *draw.Frame
	tooltip   *draw.TooltipState
	rendering bool
}

// New creates a Visual that paints through p.
func New(p draw.Presenter, opts ...Option) *Visual {
	v := &Visual{
		presenter: p,
		log:       slog.Default().With(slog.String("module", "visual")),
		settings:  settings.Default(),
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.coll == nil {
		v.coll = engine.NewCollator(language.English)
	}
	return v
}

// Update is the host entry point. With no data views it does nothing.
// Otherwise it caches opts and re-renders. The selection survives updates.
func (v *Visual) Update(opts UpdateOptions) error {
	if len(opts.DataViews) == 0 {
		v.log.Debug("update without data views ignored")
		return nil
	}
	if v.rendering {
		return ErrReentrantDispatch
	}

	v.settings = settings.Populate(opts.DataViews[0].Objects)
	cached := opts
	v.options = &cached
	return v.render()
}

// Dispatch routes a pointer event on a drawn element. Clicks apply the
// element's action to the selection and re-render with the cached update;
// hover shows or hides the element's tooltip without recomputing.
func (v *Visual) Dispatch(bindingID string, e draw.Event) error {
	if v.rendering {
		return ErrReentrantDispatch
	}
	b, ok := v.frame.Lookup(bindingID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownBinding, bindingID)
	}
	if !b.Handles(e) {
		v.log.Debug("event not bound", slog.String("binding", bindingID), slog.String("event", string(e)))
		return nil
	}

	switch e {
	case draw.EventClick:
		before := v.selection
		v.selection = v.selection.Apply(b.Action)
		v.log.Debug("selection changed",
			slog.String("binding", bindingID),
			slog.String("from", before.Value),
			slog.String("to", v.selection.Value),
			slog.String("category", v.selection.Category))
		if v.options == nil {
			return nil
		}
		return v.render()

	case draw.EventMouseOver:
		if b.Tooltip == nil {
			return nil
		}
		v.tooltip = &draw.TooltipState{
			Lines:   b.Tooltip.Lines,
			X:       b.Tooltip.X,
			Y:       b.Tooltip.Y,
			Opacity: b.Tooltip.Opacity,
			Fade:    b.Tooltip.FadeIn,
			Visible: true,
		}
		return v.present(v.frame.WithTooltip(v.tooltip))

	case draw.EventMouseOut:
		if v.tooltip == nil {
			return nil
		}
		hidden := *v.tooltip
		hidden.Opacity = 0
		hidden.Fade = engine.TooltipFadeOut
		hidden.Visible = false
		v.tooltip = &hidden
		return v.present(v.frame.WithTooltip(v.tooltip))
	}
	return nil
}

// render recomputes everything from the cached update and presents it.
func (v *Visual) render() error {
	dv := v.options.DataViews[0]
	vp := v.options.Viewport
	if vp.Width <= 0 {
		vp.Width = engine.DefaultWidth
	}
	if vp.Height <= 0 {
		vp.Height = engine.DefaultHeight
	}

	if dv.Categorical == nil {
		v.log.Info("no categorical data")
	}
	v.result = engine.Render(dv.Categorical, v.settings, v.selection,
		engine.WithViewport(vp),
		engine.WithCollator(v.coll),
		engine.WithLogger(v.log))
	v.frame = draw.Compose(v.result, vp.Width)
	v.tooltip = nil

	return v.present(v.frame)
}

func (v *Visual) present(f *draw.Frame) error {
	v.rendering = true
	defer func() { v.rendering = false }()
	if err := v.presenter.Present(f); err != nil {
		return fmt.Errorf("presenting frame: %w", err)
	}
	return nil
}

// ============================================================================
// ACCESSORS
// ============================================================================

// Selection returns the current selection.
func (v *Visual) Selection() engine.Selection { return v.selection }

// Result returns the last render result, or nil before the first update.
func (v *Visual) Result() *engine.Result { return v.result }

// Frame returns the last presented frame, tooltip included.
func (v *Visual) Frame() *draw.Frame {
	if v.frame == nil || v.tooltip == nil {
		return v.frame
	}
	return v.frame.WithTooltip(v.tooltip)
}

// Settings returns the settings in effect.
func (v *Visual) Settings() settings.Model { return v.settings }

// FormattingModel describes the current settings for the format pane.
func (v *Visual) FormattingModel() settings.FormattingModel {
	return settings.Describe(v.settings)
}
