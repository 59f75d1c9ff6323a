package workbook

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Template wraps an open projected-staffing workbook (.xlsx). All cell
// accessors are safe: a missing sheet or cell reads as empty/zero.
type Template struct {
	path string
	file *excelize.File
}

// OpenTemplate opens the workbook at path.
func OpenTemplate(path string) (*Template, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open template workbook: %w", err)
	}
	return &Template{path: path, file: f}, nil
}

// Path returns the file path the workbook was opened from.
func (t *Template) Path() string {
	return t.path
}

// HasSheet reports whether the workbook contains a sheet with the given name.
func (t *Template) HasSheet(name string) bool {
	idx, err := t.file.GetSheetIndex(name)
	return err == nil && idx >= 0
}

// CellString returns the formatted cell value, trimmed.
func (t *Template) CellString(sheet, axis string) string {
	v, err := t.file.GetCellValue(sheet, axis)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(v)
}

// CellFloat returns the cell value coerced to a number, 0 when blank or
// non-numeric.
func (t *Template) CellFloat(sheet, axis string) float64 {
	return ParseFloat(t.CellString(sheet, axis))
}

// CellDate reads the cell as a calendar date. Date-formatted cells are read
// raw so the underlying serial is decoded instead of its display string.
func (t *Template) CellDate(sheet, axis string) (time.Time, bool) {
	raw, err := t.file.GetCellValue(sheet, axis, excelize.Options{RawCellValue: true})
	if err != nil {
		return time.Time{}, false
	}
	return ParseDate(raw)
}

// Close releases the underlying file.
func (t *Template) Close() error {
	return t.file.Close()
}
