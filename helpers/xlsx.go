package helpers

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ReadXLSX reads one sheet of a workbook. The first row is the header row.
// An empty sheet name selects the workbook's first sheet.
func ReadXLSX(path, sheet string) ([]string, [][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, &LoadError{Source: path, Component: "workbook", Err: err}
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, nil, &LoadError{Source: path, Component: "workbook", Err: fmt.Errorf("no sheets")}
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, &LoadError{Source: path, Component: "sheet " + sheet, Err: err}
	}
	if len(rows) == 0 {
		return nil, nil, &LoadError{Source: path, Component: "sheet " + sheet, Err: fmt.Errorf("no header row")}
	}

	// GetRows drops trailing empty cells; pad to the header width.
	headers := rows[0]
	data := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) < len(headers) {
			padded := make([]string, len(headers))
			copy(padded, row)
			row = padded
		}
		data = append(data, row)
	}
	return headers, data, nil
}
