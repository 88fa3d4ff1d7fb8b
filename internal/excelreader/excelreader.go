// Package excelreader reads the payload column of a spreadsheet-driven
// batch job (C8): the first worksheet's column A, header row skipped,
// read until the first empty cell.
package excelreader

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadColumnA opens path and returns column A of its first worksheet,
// skipping the header row, stopping at the first empty cell, with
// every value trimmed and force-read as a string regardless of the
// cell's underlying type (§4.8).
func ReadColumnA(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("excelreader: open %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("excelreader: %s has no worksheets", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("excelreader: read rows: %w", err)
	}

	var values []string
	for i, row := range rows {
		if i == 0 {
			continue // header row
		}
		if len(row) == 0 {
			break
		}
		cell := strings.TrimSpace(row[0])
		if cell == "" {
			break
		}
		values = append(values, cell)
	}
	return values, nil
}
