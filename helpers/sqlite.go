package helpers

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"time"

	_ "modernc.org/sqlite"
)

// QuerySQLite runs query against the sqlite database at path and returns
// the result set as text. NULL becomes "".
func QuerySQLite(ctx context.Context, path, query string) ([]string, [][]string, error) {
	// sql.Open would create an empty database for a missing file.
	if _, err := os.Stat(path); err != nil {
		return nil, nil, &LoadError{Source: path, Component: "database", Err: err}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, nil, &LoadError{Source: path, Component: "database", Err: err}
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, &LoadError{Source: path, Component: "query", Err: err}
	}
	defer rows.Close()

	headers, err := rows.Columns()
	if err != nil {
		return nil, nil, &LoadError{Source: path, Component: "query", Err: err}
	}

	var data [][]string
	raw := make([]any, len(headers))
	ptrs := make([]any, len(headers))
	for i := range raw {
		ptrs[i] = &raw[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, &LoadError{Source: path, Component: "scan", Err: err}
		}
		row := make([]string, len(headers))
		for i, v := range raw {
			row[i] = sqlText(v)
		}
		data = append(data, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, &LoadError{Source: path, Component: "query", Err: err}
	}
	return headers, data, nil
}

func sqlText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
			return t.Format(time.DateOnly)
		}
		return t.Format(time.DateTime)
	}
	return fmt.Sprint(v)
}
