package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/text/language"

	"github.com/spektr-org/trendboard/draw"
	"github.com/spektr-org/trendboard/engine"
	"github.com/spektr-org/trendboard/helpers"
	"github.com/spektr-org/trendboard/schema"
	"github.com/spektr-org/trendboard/settings"
	"github.com/spektr-org/trendboard/visual"
)

// ============================================================================
// FLAG TYPES
// ============================================================================

// enumFlag is a string flag restricted to a fixed set of values. Bad values
// are rejected while flags are parsed, before any data is read.
type enumFlag struct {
	allowed []string
	value   string
}

var _ pflag.Value = (*enumFlag)(nil)

func newEnumFlag(def string, allowed ...string) *enumFlag {
	return &enumFlag{allowed: allowed, value: def}
}

func (e *enumFlag) String() string { return e.value }

func (e *enumFlag) Set(v string) error {
	for _, a := range e.allowed {
		if v == a {
			e.value = v
			return nil
		}
	}
	return fmt.Errorf("must be one of %s", strings.Join(e.allowed, "|"))
}

func (e *enumFlag) Type() string { return "string" }

// ============================================================================
// DATA SOURCE FLAGS
// ============================================================================

// sourceFlags are shared by every command that reads a dataset.
type sourceFlags struct {
	schema   string
	settings string
	sheet    string
	query    string
}

func (sf *sourceFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&sf.schema, "schema", "", "Column binding file, YAML or JSON (default: auto-discover)")
	fs.StringVar(&sf.settings, "settings", "", "Formatting settings file, YAML (default: built-in)")
	fs.StringVar(&sf.sheet, "sheet", "", "Workbook sheet, or sqlite table to select from")
	fs.StringVar(&sf.query, "query", "", "SQL query for sqlite sources")
}

func (sf *sourceFlags) source(path string) helpers.Source {
	return helpers.Source{Path: path, Sheet: sf.sheet, Query: sf.query}
}

// load reads the bindings, settings and dataset the flags point at.
func (sf *sourceFlags) load(ctx context.Context, path string, log *slog.Logger) (*engine.Categorical, settings.Model, error) {
	var sch *schema.Config
	if sf.schema != "" {
		loaded, err := schema.LoadFromPath(sf.schema)
		if err != nil {
			return nil, settings.Model{}, err
		}
		log.Debug("bindings loaded", slog.String("name", loaded.Name),
			slog.Int("dimensions", len(loaded.Dimensions)),
			slog.Int("measures", len(loaded.Measures)))
		sch = loaded
	}

	model := settings.Default()
	if sf.settings != "" {
		loaded, err := settings.LoadFromPath(sf.settings)
		if err != nil {
			return nil, settings.Model{}, err
		}
		model = loaded
	}

	cat, _, err := helpers.Load(ctx, sf.source(path), sch, helpers.WithLogger(log))
	if err != nil {
		return nil, settings.Model{}, err
	}
	return cat, model, nil
}

// ============================================================================
// SESSION
// ============================================================================

// session drives a Visual the way a host would: one update, then the
// requested clicks in order.
type session struct {
	visual   *visual.Visual
	recorder *draw.Recorder
}

func parseLocale(s string) (language.Tag, error) {
	tag, err := language.Parse(s)
	if err != nil {
		return language.Und, fmt.Errorf("invalid --locale %q: %w", s, err)
	}
	return tag, nil
}

func runSession(cat *engine.Categorical, model settings.Model, vp engine.Viewport, clicks []string, log *slog.Logger) (*session, error) {
	tag, err := parseLocale(locale)
	if err != nil {
		return nil, err
	}

	rec := &draw.Recorder{}
	v := visual.New(rec, visual.WithLogger(log), visual.WithLocale(tag))
	if err := v.Update(visual.NewUpdate(cat, model, vp)); err != nil {
		return nil, err
	}
	for _, id := range clicks {
		if err := v.Dispatch(id, draw.EventClick); err != nil {
			return nil, fmt.Errorf("click %s: %w", id, err)
		}
		log.Debug("clicked", slog.String("binding", id),
			slog.String("selection", v.Selection().Value))
	}
	return &session{visual: v, recorder: rec}, nil
}
