package excelreader_test

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/Wxl-c137/blindmarker/internal/excelreader"
)

func writeWorkbook(t *testing.T, rows []string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := f.SetCellValue(sheet, "A1", "payload"); err != nil {
		t.Fatalf("set header: %v", err)
	}
	for i, v := range rows {
		cell := "A" + itoa(i+2)
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			t.Fatalf("set cell %s: %v", cell, err)
		}
	}

	path := filepath.Join(t.TempDir(), "payload.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

func TestReadColumnASkipsHeaderAndStopsAtBlank(t *testing.T) {
	path := writeWorkbook(t, []string{"alpha", "beta", "gamma", ""})

	values, err := excelreader.ReadColumnA(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := []string{"alpha", "beta", "gamma"}
	if len(values) != len(want) {
		t.Fatalf("values = %v, want %v", values, want)
	}
	for i := range want {
		if values[i] != want[i] {
			t.Fatalf("values = %v, want %v", values, want)
		}
	}
}

func TestReadColumnATrimsWhitespace(t *testing.T) {
	path := writeWorkbook(t, []string{"  spaced  "})

	values, err := excelreader.ReadColumnA(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(values) != 1 || values[0] != "spaced" {
		t.Fatalf("values = %v, want [\"spaced\"]", values)
	}
}
