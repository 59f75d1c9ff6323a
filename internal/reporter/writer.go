package reporter

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/itamaramsalem1/hppdauto-web/internal/model"
)

const comparisonSheet = "HPPD Comparison"

const noDataPlaceholder = "No data available for this category."

var columnHeaders = []string{
	"Facility", "Type", "Total HPPD", "CNA HPPD", "RN+LPN HPPD",
	"Projected CNA Agency Percentage",
	"Projected RN+LPN Agency Percentage",
	"Projected Total Agency Percentage",
	"Notes",
	"Date",
}

// Row fills. The three difference fills encode the verdict of the total
// HPPD delta: a negative delta (actual staffing ran above projection) reads
// favorable green, zero or positive reads unfavorable red, and a delta that
// could not be computed reads indeterminate yellow.
const (
	fillProjected     = "#E6F4EA"
	fillActual        = "#FFFFFF"
	fillFavorable     = "#C8E6C9"
	fillUnfavorable   = "#FFCDD2"
	fillIndeterminate = "#FFFACD"
)

const dateFormat = "yyyy-mm-dd"

// Writer renders one comparison run into a timestamped workbook under
// outputDir.
type Writer struct {
	outputDir string
}

func NewWriter(outputDir string) *Writer {
	return &Writer{outputDir: outputDir}
}

// Write builds the output workbook: the sectioned comparison sheet plus the
// two skip-diagnostic sheets. It returns the path of the saved file. A run
// with zero matches still saves a valid workbook whose sections carry the
// no-data placeholder.
func (w *Writer) Write(set *model.ComparisonSet, skippedTemplates, skippedReports []model.SkipRecord) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", comparisonSheet); err != nil {
		return "", fmt.Errorf("rename comparison sheet: %w", err)
	}

	styles, err := newStyleSet(f)
	if err != nil {
		return "", err
	}

	sw := &sectionWriter{f: f, styles: styles, row: 1}
	good, badSplit, badHPPD := set.Buckets()
	if err := sw.section(model.TitleGoodHPPDGoodSplit, good, set); err != nil {
		return "", err
	}
	if err := sw.section(model.TitleGoodHPPDBadSplit, badSplit, set); err != nil {
		return "", err
	}
	if err := sw.section(model.TitleBadHPPDBadSplit, badHPPD, set); err != nil {
		return "", err
	}

	if err := setComparisonWidths(f); err != nil {
		return "", err
	}

	if err := writeSkipSheet(f, "Skipped Templates", skippedTemplates, model.TemplateSkipCategory, "✅ No skipped templates"); err != nil {
		return "", err
	}
	if err := writeSkipSheet(f, "Skipped Reports", skippedReports, model.ReportSkipCategory, "✅ No skipped reports"); err != nil {
		return "", err
	}

	name := fmt.Sprintf("HPPD_Comparison_%s.xlsx", time.Now().Format("20060102_150405"))
	path := filepath.Join(w.outputDir, name)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save comparison workbook: %w", err)
	}
	return path, nil
}

// styleSet holds the style IDs used by the comparison sheet. Data-cell
// styles are keyed by fill color; the date variants add the date number
// format on top.
type styleSet struct {
	title  int
	header int
	cell   map[string]int
	date   map[string]int
}

func newStyleSet(f *excelize.File) (styleSet, error) {
	s := styleSet{cell: map[string]int{}, date: map[string]int{}}

	var err error
	s.title, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 20}})
	if err != nil {
		return s, fmt.Errorf("build title style: %w", err)
	}
	s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 16},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return s, fmt.Errorf("build header style: %w", err)
	}

	numFmt := dateFormat
	for _, rf := range []struct {
		fill   string
		italic bool
	}{
		{fillProjected, false},
		{fillActual, false},
		{fillFavorable, true},
		{fillUnfavorable, true},
		{fillIndeterminate, true},
	} {
		s.cell[rf.fill], err = f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Size: 14, Italic: rf.italic},
			Fill: excelize.Fill{Type: "pattern", Color: []string{rf.fill}, Pattern: 1},
		})
		if err != nil {
			return s, fmt.Errorf("build row style: %w", err)
		}
		s.date[rf.fill], err = f.NewStyle(&excelize.Style{
			Font:         &excelize.Font{Size: 14, Italic: rf.italic},
			Fill:         excelize.Fill{Type: "pattern", Color: []string{rf.fill}, Pattern: 1},
			CustomNumFmt: &numFmt,
		})
		if err != nil {
			return s, fmt.Errorf("build date style: %w", err)
		}
	}
	return s, nil
}

// sectionWriter tracks the cursor row while the three bucket sections are
// laid out top to bottom. Panes freeze once, under the first header row
// actually written.
type sectionWriter struct {
	f             *excelize.File
	styles        styleSet
	row           int
	headerWritten bool
}

func (sw *sectionWriter) section(title string, keys []model.ComparisonKey, set *model.ComparisonSet) error {
	cell, err := excelize.CoordinatesToCellName(1, sw.row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := sw.f.SetCellValue(comparisonSheet, cell, title); err != nil {
		return fmt.Errorf("write section title: %w", err)
	}
	if err := sw.f.SetCellStyle(comparisonSheet, cell, cell, sw.styles.title); err != nil {
		return fmt.Errorf("style section title: %w", err)
	}
	sw.row++

	if len(keys) == 0 {
		cell, err := excelize.CoordinatesToCellName(1, sw.row)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := sw.f.SetCellValue(comparisonSheet, cell, noDataPlaceholder); err != nil {
			return fmt.Errorf("write placeholder: %w", err)
		}
		sw.row += 2
		return nil
	}

	for i, h := range columnHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, sw.row)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := sw.f.SetCellValue(comparisonSheet, cell, h); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
		if err := sw.f.SetCellStyle(comparisonSheet, cell, cell, sw.styles.header); err != nil {
			return fmt.Errorf("style header: %w", err)
		}
	}
	if !sw.headerWritten {
		top, err := excelize.CoordinatesToCellName(1, sw.row+1)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		err = sw.f.SetPanes(comparisonSheet, &excelize.Panes{
			Freeze:      true,
			Split:       false,
			XSplit:      0,
			YSplit:      sw.row,
			TopLeftCell: top,
			ActivePane:  "bottomLeft",
		})
		if err != nil {
			return fmt.Errorf("freeze panes: %w", err)
		}
		sw.headerWritten = true
	}
	sw.row++

	for _, key := range keys {
		if err := sw.entryRows(set.Get(key)); err != nil {
			return err
		}
	}
	sw.row += 2
	return nil
}

// entryRows writes the Projected/Actual/Difference triple for one matched
// facility and date. The facility name shows only on the Projected row;
// agency percentages are projected-only, so the Actual and Difference rows
// leave those cells empty.
func (sw *sectionWriter) entryRows(e *model.ComparisonEntry) error {
	diff := e.Difference()

	projected := []interface{}{
		e.Facility, "Projected",
		e.Projected.Total, e.Projected.CNA, e.Projected.Nurse,
		e.ProjectedAgency.CNA, e.ProjectedAgency.Nurse, e.ProjectedAgency.Total,
		e.Note, e.Date,
	}
	actual := []interface{}{
		"", "Actual",
		e.Actual.Total, e.Actual.CNA, e.Actual.Nurse,
		nil, nil, nil,
		e.Note, e.Date,
	}
	difference := []interface{}{
		"", "Difference",
		diff.Total, diff.CNA, diff.Nurse,
		nil, nil, nil,
		nil, e.Date,
	}

	if err := sw.dataRow(projected, fillProjected); err != nil {
		return err
	}
	if err := sw.dataRow(actual, fillActual); err != nil {
		return err
	}
	return sw.dataRow(difference, diffFill(difference[2]))
}

func (sw *sectionWriter) dataRow(values []interface{}, fill string) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, sw.row)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := sw.f.SetCellValue(comparisonSheet, cell, v); err != nil {
			return fmt.Errorf("write cell %s: %w", cell, err)
		}
		style := sw.styles.cell[fill]
		if columnHeaders[i] == "Date" {
			style = sw.styles.date[fill]
		}
		if err := sw.f.SetCellStyle(comparisonSheet, cell, cell, style); err != nil {
			return fmt.Errorf("style cell %s: %w", cell, err)
		}
	}
	sw.row++
	return nil
}

// diffFill picks the difference-row fill from the total HPPD delta.
func diffFill(total interface{}) string {
	v, ok := total.(float64)
	if !ok {
		return fillIndeterminate
	}
	if v < 0 {
		return fillFavorable
	}
	return fillUnfavorable
}

func setComparisonWidths(f *excelize.File) error {
	for i, h := range columnHeaders {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("column name: %w", err)
		}
		width := float64(len(h) + 6)
		switch {
		case strings.Contains(h, "Percentage"):
			width = 28
		case strings.Contains(h, "Date"):
			width = 15
		}
		if err := f.SetColWidth(comparisonSheet, col, col, width); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}
	return nil
}

func writeSkipSheet(f *excelize.File, sheet string, skips []model.SkipRecord, categorize func(string) string, emptyNote string) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}

	writeRow := func(row int, a, b, c string) error {
		for i, v := range []string{a, b, c} {
			cell, err := excelize.CoordinatesToCellName(i+1, row)
			if err != nil {
				return fmt.Errorf("cell name: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("write cell %s: %w", cell, err)
			}
		}
		return nil
	}

	if err := writeRow(1, "File Name", "Reason", "Category"); err != nil {
		return err
	}
	for i, s := range skips {
		if err := writeRow(i+2, s.File, s.Reason, categorize(s.Reason)); err != nil {
			return err
		}
	}
	if len(skips) == 0 {
		if err := writeRow(2, emptyNote, "", ""); err != nil {
			return err
		}
	}

	for col, width := range map[string]float64{"A": 40, "B": 50, "C": 20} {
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}
	return nil
}
