package schema

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/spektr-org/trendboard/engine"
)

// ============================================================================
// AUTO-DISCOVERY — Heuristic Classification + Role Proposal
// ============================================================================
// Inspects raw rows and generates a binding Config automatically.
//
// Classification pipeline per column:
//   1. Sample values → detect type (numeric, date, bool, string)
//   2. Type + cardinality → classify (dimension, measure, skip)
//   3. Pattern matching → detect temporal and threshold-label columns
//
// Then roles are proposed across columns:
//   xAxis        first temporal dimension (else first plain dimension)
//   threshold    first dimension holding only threshold labels
//   lineLegend   first low/medium-cardinality dimension left over,
//                also bound as tableFilter
//   yAxis        first measure not named like a threshold mark
//   tableField   every measure
// ============================================================================

// DiscoverOptions controls discovery behavior.
type DiscoverOptions struct {
	SampleSize     int      // Max rows to inspect (0 = all). Default: 1000
	RecoverColumns []string // Force-include columns that were auto-skipped
	Name           string   // Dataset name override (otherwise inferred)
	Source         string   // Recorded in DiscoveredFrom
}

// DefaultDiscoverOptions returns sensible defaults.
func DefaultDiscoverOptions() DiscoverOptions {
	return DiscoverOptions{
		SampleSize: 1000,
	}
}

// DiscoverFromCSV generates a Config by inspecting CSV data.
func DiscoverFromCSV(data []byte, opts ...DiscoverOptions) (*Config, error) {
	opt := DefaultDiscoverOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}
	if opt.Source == "" {
		opt.Source = "CSV"
	}

	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}

	var rows [][]string
	limit := opt.SampleSize
	if limit <= 0 {
		limit = 100000 // safety cap
	}
	for len(rows) < limit {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // skip malformed rows
		}
		rows = append(rows, row)
	}

	return DiscoverFromRows(headers, rows, opt)
}

// DiscoverFromRows generates a Config from already-read headers and rows.
// Loaders for workbooks and SQL results funnel through here.
func DiscoverFromRows(headers []string, rows [][]string, opts ...DiscoverOptions) (*Config, error) {
	opt := DefaultDiscoverOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}

	if len(headers) == 0 {
		return nil, fmt.Errorf("%w: source has no columns", ErrInvalidSchema)
	}
	if opt.SampleSize > 0 && len(rows) > opt.SampleSize {
		rows = rows[:opt.SampleSize]
	}
	totalRows := len(rows)
	if totalRows == 0 {
		return nil, fmt.Errorf("%w: source has no data rows", ErrInvalidSchema)
	}

	columns := make([]columnAnalysis, len(headers))
	for i, header := range headers {
		columns[i] = analyzeColumn(header, i, rows, totalRows)
	}

	recoverSet := make(map[string]bool)
	for _, col := range opt.RecoverColumns {
		recoverSet[strings.ToLower(col)] = true
	}

	config := &Config{
		Name:    opt.Name,
		Version: "1.0",
	}
	if config.Name == "" {
		config.Name = "Auto-discovered Dataset"
	}

	var dimensions []DimensionMeta
	var measures []MeasureMeta
	var skipped []SkippedColumn

	for _, col := range columns {
		recovered := recoverSet[strings.ToLower(col.header)] || recoverSet[col.key]

		switch col.role {
		case roleDimension:
			dimensions = append(dimensions, col.toDimension())

		case roleMeasure:
			measures = append(measures, col.toMeasure())

		case roleSkipped:
			if recovered {
				dimensions = append(dimensions, col.toDimension())
			} else {
				skipped = append(skipped, SkippedColumn{
					Column:      col.header,
					Reason:      col.skipReason,
					Recoverable: col.recoverable,
				})
			}
		}
	}

	proposeRoles(dimensions, measures)

	config.Dimensions = dimensions
	config.Measures = measures
	config.SkippedColumns = skipped
	config.DiscoveredFrom = opt.Source
	config.DiscoveredAt = time.Now().Format(time.RFC3339)

	return config, nil
}

// ============================================================================
// COLUMN ANALYSIS
// ============================================================================

type columnRole int

const (
	roleDimension columnRole = iota
	roleMeasure
	roleSkipped
)

type columnType int

const (
	typeString columnType = iota
	typeNumeric
	typeDate
	typeBool
)

type columnAnalysis struct {
	header      string
	key         string
	index       int
	colType     columnType
	role        columnRole
	skipReason  string
	recoverable bool

	// Stats
	uniqueCount int
	totalCount  int
	nullCount   int
	sampleVals  []string

	// Special type detection
	isTemporal      bool
	temporalFormat  string
	isThreshold     bool
	hasDecimals     bool
	cardinalityHint string
}

// analyzeColumn inspects all values in a column and classifies it.
func analyzeColumn(header string, index int, rows [][]string, totalRows int) columnAnalysis {
	col := columnAnalysis{
		header:     header,
		key:        Key(header),
		index:      index,
		totalCount: totalRows,
	}

	values := make([]string, 0, len(rows))
	uniqueSet := make(map[string]bool)

	for _, row := range rows {
		if index >= len(row) {
			col.nullCount++
			continue
		}
		val := strings.TrimSpace(row[index])
		if val == "" || val == "null" || val == "NULL" || val == "N/A" || val == "n/a" {
			col.nullCount++
			continue
		}
		values = append(values, val)
		uniqueSet[val] = true
	}

	col.uniqueCount = len(uniqueSet)

	if len(values) == 0 {
		col.role = roleSkipped
		col.skipReason = "All values are empty/null"
		col.recoverable = false
		return col
	}

	col.sampleVals = collectSamples(uniqueSet, 10)

	// Step 1: Detect type
	col.colType = detectType(values)

	// Zero-padded numbers ("01", "007") are codes, not quantities
	if col.colType == typeNumeric && hasLeadingZeros(values) {
		col.colType = typeString
	}

	if col.colType == typeNumeric {
		for _, v := range values {
			if strings.Contains(v, ".") {
				col.hasDecimals = true
				break
			}
		}
	}

	// Step 2: Detect special patterns BEFORE role classification
	if col.colType == typeString {
		col.isTemporal, col.temporalFormat = detectTemporalPattern(col.sampleVals)
		col.isThreshold = detectThresholdLabels(col.sampleVals)
	}
	if col.colType == typeNumeric && allYears(values) {
		col.colType = typeDate
		col.temporalFormat = "yyyy"
	}
	if col.colType == typeDate {
		col.isTemporal = true
	}

	// Step 3: Classify role based on type + cardinality
	col.classifyRole(totalRows)

	switch {
	case col.uniqueCount <= 10:
		col.cardinalityHint = "low"
	case col.uniqueCount <= 100:
		col.cardinalityHint = "medium"
	default:
		col.cardinalityHint = "high"
	}

	return col
}

// classifyRole determines dimension vs measure vs skip.
func (col *columnAnalysis) classifyRole(totalRows int) {
	switch col.colType {

	case typeNumeric:
		if col.uniqueCount == totalRows && totalRows > 10 && !col.hasDecimals && col.looksLikeID() {
			col.role = roleSkipped
			col.skipReason = "Unique per row — likely an ID column"
			col.recoverable = false
			return
		}
		// Every numeric column is a candidate y value; coded numbers are
		// zero-padded and were already reclassified as strings.
		col.role = roleMeasure

	case typeDate:
		col.role = roleDimension
		col.isTemporal = true

	case typeBool:
		col.role = roleDimension

	case typeString:
		if col.isTemporal || col.isThreshold {
			col.role = roleDimension
			return
		}
		if col.uniqueCount == totalRows && totalRows > 10 {
			col.role = roleSkipped
			col.skipReason = "Unique per row — likely an identifier"
			col.recoverable = !col.looksLikeID()
			return
		}
		if col.uniqueCount > totalRows/2 && col.uniqueCount > 50 {
			col.role = roleSkipped
			col.skipReason = fmt.Sprintf("High cardinality (%d unique values) — not useful for grouping", col.uniqueCount)
			col.recoverable = true
			return
		}
		col.role = roleDimension
	}
}

// looksLikeID reports whether the header names an identifier.
func (col *columnAnalysis) looksLikeID() bool {
	k := col.key
	return k == "id" || strings.HasSuffix(k, "_id") || strings.HasSuffix(k, "_key") || strings.HasSuffix(k, "_no")
}

// ============================================================================
// TYPE DETECTION
// ============================================================================

// detectType inspects values to determine column type.
// Requires 80%+ of non-null values to match for numeric/date/bool.
func detectType(values []string) columnType {
	if len(values) == 0 {
		return typeString
	}

	numCount := 0
	dateCount := 0
	boolCount := 0

	for _, v := range values {
		if isNumeric(v) {
			numCount++
		}
		if isDate(v) {
			dateCount++
		}
		if isBool(v) {
			boolCount++
		}
	}

	threshold := max(1, int(float64(len(values))*0.8))

	if boolCount >= threshold {
		return typeBool
	}
	if dateCount >= threshold {
		return typeDate
	}
	if numCount >= threshold {
		return typeNumeric
	}
	return typeString
}

func isNumeric(s string) bool {
	_, ok := ParseNumber(s)
	return ok
}

// ParseNumber parses a measure cell, tolerating thousands separators and a
// leading currency symbol.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimPrefix(s, "€")
	s = strings.TrimPrefix(s, "£")
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		f = -f
	}
	return f, true
}

var leadingZero = regexp.MustCompile(`^0\d`)

func hasLeadingZeros(values []string) bool {
	for _, v := range values {
		if leadingZero.MatchString(v) {
			return true
		}
	}
	return false
}

var dateFormats = []string{
	"2006-01-02",
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"02/01/2006",
	"Jan-2006",
	"January 2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

func isDate(s string) bool {
	s = strings.TrimSpace(s)
	for _, layout := range dateFormats {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// allYears reports whether every value is a plausible four-digit year.
func allYears(values []string) bool {
	for _, v := range values {
		if len(v) != 4 {
			return false
		}
		y, err := strconv.Atoi(v)
		if err != nil || y < 1900 || y > 2100 {
			return false
		}
	}
	return true
}

func isBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "false" || s == "yes" || s == "no"
}

// ============================================================================
// SPECIAL PATTERN DETECTION
// ============================================================================

var monthPatterns = []struct {
	re     *regexp.Regexp
	format string
}{
	{regexp.MustCompile(`^[A-Z][a-z]{2}-\d{4}$`), "MMM-yyyy"}, // Jan-2026
	{regexp.MustCompile(`^\d{4}-\d{2}$`), "yyyy-MM"},          // 2026-01
	{regexp.MustCompile(`^Q[1-4]-\d{4}$`), "QN-yyyy"},         // Q1-2026
	{regexp.MustCompile(`^Q[1-4]\s+\d{4}$`), "QN yyyy"},       // Q1 2026
	{regexp.MustCompile(`^\d{4}$`), "yyyy"},                   // 2026
	{regexp.MustCompile(`^[A-Z][a-z]+ \d{4}$`), "MMMM yyyy"},  // January 2026
}

// detectTemporalPattern checks if values match known date/month/quarter patterns.
func detectTemporalPattern(samples []string) (bool, string) {
	if len(samples) == 0 {
		return false, ""
	}

	for _, pattern := range monthPatterns {
		matches := 0
		for _, s := range samples {
			if pattern.re.MatchString(strings.TrimSpace(s)) {
				matches++
			}
		}
		if float64(matches)/float64(len(samples)) >= 0.8 {
			return true, pattern.format
		}
	}

	return false, ""
}

// detectThresholdLabels reports whether every sample is a threshold label.
func detectThresholdLabels(samples []string) bool {
	if len(samples) == 0 {
		return false
	}
	for _, s := range samples {
		if !engine.IsThresholdLabel(strings.TrimSpace(s)) {
			return false
		}
	}
	return true
}

// ============================================================================
// ROLE PROPOSAL
// ============================================================================

// proposeRoles fills Roles on the discovered columns in place.
func proposeRoles(dims []DimensionMeta, measures []MeasureMeta) {
	x, threshold, legend := -1, -1, -1

	for i, d := range dims {
		if d.IsThreshold && threshold < 0 {
			threshold = i
		}
		if d.IsTemporal && x < 0 {
			x = i
		}
	}
	if x < 0 {
		for i := range dims {
			if i != threshold {
				x = i
				break
			}
		}
	}
	for i, d := range dims {
		if i == x || i == threshold || d.IsTemporal {
			continue
		}
		if d.CardinalityHint == "low" || d.CardinalityHint == "medium" {
			legend = i
			break
		}
	}

	if x >= 0 {
		dims[x].Roles = appendRole(dims[x].Roles, engine.RoleXAxis)
	}
	if threshold >= 0 {
		dims[threshold].Roles = appendRole(dims[threshold].Roles, engine.RoleThreshold)
	}
	if legend >= 0 {
		dims[legend].Roles = appendRole(dims[legend].Roles, engine.RoleLineLegend, engine.RoleTableFilter)
	}

	y := -1
	for i, m := range measures {
		if !strings.Contains(m.Key, "threshold") && !strings.Contains(m.Key, "mark") {
			y = i
			break
		}
	}
	if y < 0 && len(measures) > 0 {
		y = 0
	}
	for i := range measures {
		if i == y {
			measures[i].Roles = appendRole(measures[i].Roles, engine.RoleYAxis)
		}
		measures[i].Roles = appendRole(measures[i].Roles, engine.RoleTableField)
	}
}

func appendRole(names []string, roles ...engine.Role) []string {
	for _, r := range roles {
		names = append(names, r.String())
	}
	return names
}

// ============================================================================
// CONVERSION HELPERS
// ============================================================================

// toDimension converts a column analysis into DimensionMeta.
func (col *columnAnalysis) toDimension() DimensionMeta {
	return DimensionMeta{
		Key:             col.key,
		Column:          strings.TrimSpace(col.header),
		DisplayName:     toDisplayName(col.header),
		SampleValues:    col.sampleVals,
		IsTemporal:      col.isTemporal,
		TemporalFormat:  col.temporalFormat,
		IsThreshold:     col.isThreshold,
		CardinalityHint: col.cardinalityHint,
	}
}

// toMeasure converts a column analysis into MeasureMeta.
func (col *columnAnalysis) toMeasure() MeasureMeta {
	return MeasureMeta{
		Key:         col.key,
		Column:      strings.TrimSpace(col.header),
		DisplayName: toDisplayName(col.header),
		Unit:        detectUnit(col.key),
	}
}

// detectUnit guesses a unit from a parenthesised or suffixed header.
func detectUnit(key string) string {
	switch {
	case strings.Contains(key, "hours"), strings.HasSuffix(key, "_hrs"):
		return "hours"
	case strings.Contains(key, "percent"), strings.HasSuffix(key, "_pct"):
		return "percent"
	case strings.Contains(key, "points"):
		return "points"
	}
	return ""
}

// ============================================================================
// STRING UTILITIES
// ============================================================================

// toSnakeCase converts "Column Name" or "columnName" → "column_name".
func toSnakeCase(s string) string {
	// Handle camelCase: insert underscore before uppercase letters
	var result strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) && i > 0 {
			prev := rune(s[i-1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) {
				result.WriteRune('_')
			}
		}
		result.WriteRune(r)
	}

	s = result.String()
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "__", "_")
	s = strings.Trim(s, "_")
	return s
}

// toDisplayName cleans a header for human display.
// "story_points" → "Story Points", "assignee" → "Assignee"
func toDisplayName(s string) string {
	if strings.Contains(s, " ") {
		return strings.TrimSpace(s)
	}

	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")

	words := strings.Fields(s)
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// collectSamples picks up to maxSamples representative values.
func collectSamples(uniqueSet map[string]bool, maxSamples int) []string {
	samples := make([]string, 0, len(uniqueSet))
	for v := range uniqueSet {
		samples = append(samples, v)
	}

	sort.Strings(samples)

	if len(samples) > maxSamples {
		samples = samples[:maxSamples]
	}
	return samples
}
