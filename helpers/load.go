// Package helpers reads datasets from CSV files, workbook sheets and sqlite
// queries and binds them to roles through a schema.Config.
package helpers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spektr-org/trendboard/engine"
	"github.com/spektr-org/trendboard/schema"
)

// ErrUnsupportedSource is returned for a source whose kind cannot be
// determined or is not handled.
var ErrUnsupportedSource = errors.New("unsupported source")

// LoadError reports which part of a source failed to load.
type LoadError struct {
	Source    string
	Component string // "file", "workbook", "sheet <name>", "database", "query", "scan", "bindings"
	Err       error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s (%s): %v", e.Source, e.Component, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Kind names a source format.
type Kind string

const (
	KindCSV    Kind = "csv"
	KindXLSX   Kind = "xlsx"
	KindSQLite Kind = "sqlite"
)

// Source locates a dataset. For workbooks Sheet picks the sheet; for
// sqlite either Query runs as given or Sheet names a table to select.
type Source struct {
	Kind  Kind
	Path  string
	Sheet string
	Query string
}

// DetectKind returns s.Kind, or infers it from the file extension.
func (s Source) DetectKind() (Kind, error) {
	if s.Kind != "" {
		switch s.Kind {
		case KindCSV, KindXLSX, KindSQLite:
			return s.Kind, nil
		}
		return "", fmt.Errorf("%w: kind %q", ErrUnsupportedSource, s.Kind)
	}
	switch strings.ToLower(filepath.Ext(s.Path)) {
	case ".csv", ".txt":
		return KindCSV, nil
	case ".xlsx", ".xlsm":
		return KindXLSX, nil
	case ".db", ".sqlite", ".sqlite3":
		return KindSQLite, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedSource, s.Path)
}

// Option configures Load.
type Option func(*loadConfig)

type loadConfig struct {
	logger *slog.Logger
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *loadConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// ReadRows reads the raw header and data rows of src.
func ReadRows(ctx context.Context, src Source) ([]string, [][]string, error) {
	kind, err := src.DetectKind()
	if err != nil {
		return nil, nil, err
	}

	switch kind {
	case KindXLSX:
		return ReadXLSX(src.Path, src.Sheet)

	case KindSQLite:
		query := src.Query
		if query == "" {
			if src.Sheet == "" {
				return nil, nil, &LoadError{Source: src.Path, Component: "query", Err: errors.New("a query or table name is required")}
			}
			query = "SELECT * FROM " + quoteIdent(src.Sheet)
		}
		return QuerySQLite(ctx, src.Path, query)

	default:
		f, err := os.Open(src.Path)
		if err != nil {
			return nil, nil, &LoadError{Source: src.Path, Component: "file", Err: err}
		}
		defer f.Close()
		headers, rows, err := ReadCSV(f)
		if err != nil {
			return nil, nil, &LoadError{Source: src.Path, Component: "file", Err: err}
		}
		return headers, rows, nil
	}
}

// Load reads src and binds it. With a nil sch the bindings are discovered
// from the rows. The bindings actually used are returned with the dataset.
func Load(ctx context.Context, src Source, sch *schema.Config, opts ...Option) (*engine.Categorical, *schema.Config, error) {
	cfg := loadConfig{logger: slog.Default().With(slog.String("module", "helpers"))}
	for _, opt := range opts {
		opt(&cfg)
	}

	headers, rows, err := ReadRows(ctx, src)
	if err != nil {
		return nil, nil, err
	}
	cfg.logger.Debug("source read",
		slog.String("path", src.Path),
		slog.Int("columns", len(headers)),
		slog.Int("rows", len(rows)))

	if sch == nil {
		kind, _ := src.DetectKind()
		sch, err = schema.DiscoverFromRows(headers, rows, schema.DiscoverOptions{
			Name:   strings.TrimSuffix(filepath.Base(src.Path), filepath.Ext(src.Path)),
			Source: strings.ToUpper(string(kind)),
		})
		if err != nil {
			return nil, nil, &LoadError{Source: src.Path, Component: "bindings", Err: err}
		}
		cfg.logger.Info("bindings discovered",
			slog.Int("dimensions", len(sch.Dimensions)),
			slog.Int("measures", len(sch.Measures)),
			slog.Int("skipped", len(sch.SkippedColumns)))
	}

	cat, err := BuildCategorical(headers, rows, *sch)
	if err != nil {
		return nil, nil, &LoadError{Source: src.Path, Component: "bindings", Err: err}
	}
	return cat, sch, nil
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
