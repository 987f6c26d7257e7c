package engine

import (
	"fmt"
	"log/slog"

	"github.com/spektr-org/trendboard/settings"
)

// ============================================================================
// EXECUTOR — Pure render pass
// ============================================================================
// Entry point: Render(cat, settings, selection, opts...)
//
// Pipeline:
//   1. Resolve roles → one column per role
//   2. Latest-row selector → table (skipped without an x-axis column)
//   3. Series grouper → chart (skipped without x- or y-axis columns)
//   4. Return Result
//
// Render never returns an error and never mutates its inputs. Missing roles
// are reported in Result.Skipped and logged; the affected part is omitted.
// Everything is recomputed from scratch on every call.
// ============================================================================

// Render builds the table and chart for one update.
//
// Options:
//   - WithViewport(v) sets the chart area
//   - WithLocale(tag) / WithCollator(c) set display ordering
//   - WithLogger(l) sets the logger
func Render(cat *Categorical, set settings.Model, sel Selection, opts ...Option) *Result {
	cfg := applyOptions(opts)
	log := cfg.Logger

	result := &Result{Selection: sel}
	if cat == nil {
		log.Debug("no categorical data, nothing to render")
		result.Skipped = append(result.Skipped, "no categorical data")
		return result
	}

	if cat.Ragged() {
		log.Warn("columns have unequal lengths", slog.Int("rows", cat.Len()))
	}

	res := Resolve(cat)
	skip := func(part string, role Role) {
		err := missingRole(part, role)
		log.Debug("skipping sub-render", slog.String("reason", err.Error()))
		result.Skipped = append(result.Skipped, err.Error())
	}

	// ── Table ───────────────────────────────────────────────────────────
	if res.Has(RoleXAxis) {
		latest := SelectLatest(cat, res, cfg.Collator)
		result.Table = BuildTable(latest, res, set.Table)
		log.Debug("table built",
			slog.Int("latest", len(latest)),
			slog.Int("rows", len(result.Table.Rows)))
	} else {
		skip("table", RoleXAxis)
	}

	// ── Chart ───────────────────────────────────────────────────────────
	switch {
	case !res.Has(RoleXAxis):
		skip("chart", RoleXAxis)
	case !res.Has(RoleYAxis):
		skip("chart", RoleYAxis)
	default:
		result.Series = GroupSeries(res.Column(RoleXAxis), res.Column(RoleYAxis), res.Column(RoleLineLegend), cfg.Collator)
		result.Chart = BuildChart(cat, res, result.Series, set.Chart, sel, cfg.Viewport, cfg.Collator)
		log.Debug("chart built",
			slog.Int("series", len(result.Series)),
			slog.Int("lines", len(result.Chart.Lines)),
			slog.String("selected", sel.Value))
	}

	return result
}

// missingRole is the skip reason for a sub-render whose role is unbound.
func missingRole(part string, role Role) error {
	return fmt.Errorf("%s: %w: %s", part, ErrMissingRole, role)
}
