package helpers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spektr-org/trendboard/engine"
	"github.com/spektr-org/trendboard/schema"
)

// ============================================================================
// CSV HELPER — Parses CSV data into an engine.Categorical
// ============================================================================
// Consumer reads the CSV from wherever it lives (file, stdin, HTTP body).
// This helper converts the raw bytes into role-tagged columns using the
// schema bindings.
// ============================================================================

// ParseCSV parses CSV bytes into a Categorical bound by sch.
func ParseCSV(data []byte, sch schema.Config) (*engine.Categorical, error) {
	headers, rows, err := ReadCSV(strings.NewReader(string(data)))
	if err != nil {
		return nil, err
	}
	return BuildCategorical(headers, rows, sch)
}

// ParseCSVAuto parses CSV without a pre-existing schema. The bindings are
// discovered from the data and returned alongside the dataset so the
// consumer can save and refine them.
func ParseCSVAuto(data []byte) (*engine.Categorical, *schema.Config, error) {
	headers, rows, err := ReadCSV(strings.NewReader(string(data)))
	if err != nil {
		return nil, nil, err
	}
	sch, err := schema.DiscoverFromRows(headers, rows, schema.DiscoverOptions{Source: "CSV"})
	if err != nil {
		return nil, nil, err
	}
	cat, err := BuildCategorical(headers, rows, *sch)
	if err != nil {
		return nil, nil, err
	}
	return cat, sch, nil
}

// ReadCSV reads a header row and every data row. Malformed rows are skipped.
func ReadCSV(r io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}
	for i, h := range headers {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			continue // skip malformed rows
		}
		rows = append(rows, row)
	}
	return headers, rows, nil
}
