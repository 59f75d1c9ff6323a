package extractor

import (
	"strings"
	"testing"

	"github.com/itamaramsalem1/hppdauto-web/internal/model"
	"github.com/itamaramsalem1/hppdauto-web/internal/workbook"
)

// fakeGrid backs report tests without binary .xls fixtures.
type fakeGrid struct {
	rows [][]string
}

func (g *fakeGrid) set(row, col int, v string) *fakeGrid {
	for len(g.rows) <= row {
		g.rows = append(g.rows, nil)
	}
	for len(g.rows[row]) <= col {
		g.rows[row] = append(g.rows[row], "")
	}
	g.rows[row][col] = v
	return g
}

func (g *fakeGrid) MaxRow() int {
	return len(g.rows) - 1
}

func (g *fakeGrid) Cell(row, col int) string {
	if row < 0 || row >= len(g.rows) || col < 0 || col >= len(g.rows[row]) {
		return ""
	}
	return g.rows[row][col]
}

type fakeBook struct {
	sheets map[string]workbook.Grid
}

func (b *fakeBook) Sheet(name string) (workbook.Grid, bool) {
	g, ok := b.sheets[name]
	return g, ok
}

func (b *fakeBook) Close() error { return nil }

func hoursSheet(date, facility string) *fakeGrid {
	g := &fakeGrid{}
	g.set(dateRow, dateCol, date)
	g.set(facilityRow, facilityCol, facility)
	return g
}

func bookOf(hours, agency *fakeGrid) *fakeBook {
	sheets := map[string]workbook.Grid{}
	if hours != nil {
		sheets[hoursSheetName] = hours
	}
	if agency != nil {
		sheets[agencySheetName] = agency
	}
	return &fakeBook{sheets: sheets}
}

func TestExtractReport_DepartmentScan(t *testing.T) {
	t.Parallel()

	hours := hoursSheet("2024-05-01", "OAK HILL PA12_3")
	hours.set(20, deptCodeCol, "6510").set(20, deptHoursCol, "40")
	hours.set(21, deptCodeCol, "6510").set(21, deptHoursCol, "8")
	hours.set(22, deptCodeCol, "6520").set(22, deptHoursCol, "52")
	hours.set(23, deptCodeCol, "6530").set(23, deptHoursCol, "200")
	hours.set(24, deptCodeCol, "9999").set(24, deptHoursCol, "500")
	hours.set(25, deptCodeCol, "Grand Total").set(25, deptHoursCol, "305")

	rec, skip := extractReport(bookOf(hours, &fakeGrid{}), "report.xls", mayFirst)
	if skip != nil {
		t.Fatalf("unexpected skip: %+v", skip)
	}
	if rec.RawFacility != "OAK HILL PA12_3" {
		t.Fatalf("facility got=%q", rec.RawFacility)
	}
	if !rec.Date.Equal(mayFirst) {
		t.Fatalf("date got=%v", rec.Date)
	}
	want := model.RoleHours{RN: 48, LPN: 52, CNA: 200, Total: 305}
	if rec.Hours != want {
		t.Fatalf("hours got=%+v want=%+v", rec.Hours, want)
	}
}

func TestExtractReport_GrandTotalAuthoritative(t *testing.T) {
	t.Parallel()

	// Grand Total row deliberately disagrees with the role sum; the label
	// wins because the generator writes it after including departments the
	// scan does not classify.
	hours := hoursSheet("2024-05-01", "Oak Hill")
	hours.set(10, deptCodeCol, "6530").set(10, deptHoursCol, "100")
	hours.set(11, deptCodeCol, "grand total").set(11, deptHoursCol, "140")

	rec, skip := extractReport(bookOf(hours, &fakeGrid{}), "report.xls", mayFirst)
	if skip != nil {
		t.Fatalf("unexpected skip: %+v", skip)
	}
	if rec.Hours.Total != 140 {
		t.Fatalf("total got=%v want=140", rec.Hours.Total)
	}
	if rec.Hours.CNA != 100 {
		t.Fatalf("cna got=%v", rec.Hours.CNA)
	}
}

func TestExtractReport_TotalFallsBackToRoleSum(t *testing.T) {
	t.Parallel()

	hours := hoursSheet("2024-05-01", "Oak Hill")
	hours.set(10, deptCodeCol, "6510").set(10, deptHoursCol, "30")
	hours.set(11, deptCodeCol, "6530").set(11, deptHoursCol, "70")

	rec, skip := extractReport(bookOf(hours, &fakeGrid{}), "report.xls", mayFirst)
	if skip != nil {
		t.Fatalf("unexpected skip: %+v", skip)
	}
	if rec.Hours.Total != 100 {
		t.Fatalf("total got=%v want=100", rec.Hours.Total)
	}
}

func TestExtractReport_FixedCellFallback(t *testing.T) {
	t.Parallel()

	// No department codes anywhere, so the scan yields zeros and the fixed
	// layout supplies the hours.
	hours := hoursSheet("2024-05-01", "Oak Hill")
	hours.set(fixedLPNRow, fixedHoursCol, "52")
	hours.set(fixedRNRow, fixedHoursCol, "48")
	hours.set(fixedCNARow, fixedHoursCol, "200")
	hours.set(fixedTotalRow, fixedHoursCol, "300")

	rec, skip := extractReport(bookOf(hours, &fakeGrid{}), "report.xls", mayFirst)
	if skip != nil {
		t.Fatalf("unexpected skip: %+v", skip)
	}
	want := model.RoleHours{RN: 48, LPN: 52, CNA: 200, Total: 300}
	if rec.Hours != want {
		t.Fatalf("hours got=%+v want=%+v", rec.Hours, want)
	}
}

func TestExtractReport_DepartmentScanWinsOverFixedCells(t *testing.T) {
	t.Parallel()

	// Both layouts present with different numbers. The scan runs first and
	// is nonzero, so the fixed cells are never consulted.
	hours := hoursSheet("2024-05-01", "Oak Hill")
	hours.set(fixedCNARow, fixedHoursCol, "999")
	hours.set(fixedTotalRow, fixedHoursCol, "999")
	hours.set(20, deptCodeCol, "6530").set(20, deptHoursCol, "64")

	rec, skip := extractReport(bookOf(hours, &fakeGrid{}), "report.xls", mayFirst)
	if skip != nil {
		t.Fatalf("unexpected skip: %+v", skip)
	}
	if rec.Hours.CNA != 64 || rec.Hours.Total != 64 {
		t.Fatalf("hours got=%+v, want department-scan values", rec.Hours)
	}
}

func TestExtractReport_AgencyBlockScan(t *testing.T) {
	t.Parallel()

	agency := &fakeGrid{}
	agency.set(0, 0, "NIGHTINGALE AGENCY/CNA")
	agency.set(1, agencyHoursCol, "8")
	agency.set(2, agencyHoursCol, "4.5")
	agency.set(3, 0, "NIGHTINGALE AGENCY/RN")
	agency.set(4, agencyHoursCol, "12")
	agency.set(5, 0, "HOUSE STAFF/RN")
	agency.set(6, agencyHoursCol, "40")
	agency.set(7, 0, "Nightingale Agency/LPN")
	agency.set(8, agencyHoursCol, "6")
	agency.set(9, 0, "NIGHTINGALE AGENCY/CLERK")
	agency.set(10, agencyHoursCol, "16")

	rec, skip := extractReport(bookOf(hoursSheet("2024-05-01", "Oak Hill"), agency), "report.xls", mayFirst)
	if skip != nil {
		t.Fatalf("unexpected skip: %+v", skip)
	}
	if rec.AgencyCNAHours != 12.5 {
		t.Fatalf("agency cna got=%v want=12.5", rec.AgencyCNAHours)
	}
	// RN block plus the case-insensitive LPN block; house staff and the
	// clerk block contribute nothing.
	if rec.AgencyNurseHours != 18 {
		t.Fatalf("agency nurse got=%v want=18", rec.AgencyNurseHours)
	}
}

func TestExtractReport_MissingSheets(t *testing.T) {
	t.Parallel()

	_, skip := extractReport(bookOf(nil, &fakeGrid{}), "report.xls", mayFirst)
	if skip == nil || skip.Reason != "No Sheet3 found" {
		t.Fatalf("skip got=%+v", skip)
	}

	_, skip = extractReport(bookOf(hoursSheet("2024-05-01", "Oak Hill"), nil), "report.xls", mayFirst)
	if skip == nil || skip.Reason != "No Sheet1 found" {
		t.Fatalf("skip got=%+v", skip)
	}
}

func TestExtractReport_DateValidation(t *testing.T) {
	t.Parallel()

	_, skip := extractReport(bookOf(hoursSheet("not a date", "Oak Hill"), &fakeGrid{}), "report.xls", mayFirst)
	if skip == nil || skip.Reason != "Invalid date format" {
		t.Fatalf("invalid skip got=%+v", skip)
	}

	_, skip = extractReport(bookOf(hoursSheet("2024-05-02", "Oak Hill"), &fakeGrid{}), "report.xls", mayFirst)
	if skip == nil || !strings.Contains(skip.Reason, "Date mismatch") {
		t.Fatalf("mismatch skip got=%+v", skip)
	}
	if !strings.Contains(skip.Reason, "2024-05-02") || !strings.Contains(skip.Reason, "2024-05-01") {
		t.Fatalf("mismatch reason must carry both dates: %q", skip.Reason)
	}
}

func TestExtractReport_SerialDateCell(t *testing.T) {
	t.Parallel()

	// 45413 is 2024-05-01 in the 1900 date system.
	rec, skip := extractReport(bookOf(hoursSheet("45413", "Oak Hill"), &fakeGrid{}), "report.xls", mayFirst)
	if skip != nil {
		t.Fatalf("unexpected skip: %+v", skip)
	}
	if !rec.Date.Equal(mayFirst) {
		t.Fatalf("date got=%v", rec.Date)
	}
}

func TestExtractReport_MissingFacility(t *testing.T) {
	t.Parallel()

	hours := hoursSheet("2024-05-01", "   ")

	_, skip := extractReport(bookOf(hours, &fakeGrid{}), "report.xls", mayFirst)
	if skip == nil || skip.Reason != "Missing facility name" {
		t.Fatalf("skip got=%+v", skip)
	}
}

func TestExtractReport_OpenFailure(t *testing.T) {
	t.Parallel()

	_, skip := ExtractReport("/nonexistent/report.xls", mayFirst)
	if skip == nil || !strings.Contains(skip.Reason, "Failed to parse report") {
		t.Fatalf("skip got=%+v", skip)
	}
}

func TestExtractReport_AgencyZeroWhenSheetEmpty(t *testing.T) {
	t.Parallel()

	rec, skip := extractReport(bookOf(hoursSheet("2024-05-01", "Oak Hill"), &fakeGrid{}), "report.xls", mayFirst)
	if skip != nil {
		t.Fatalf("unexpected skip: %+v", skip)
	}
	if rec.AgencyCNAHours != 0 || rec.AgencyNurseHours != 0 {
		t.Fatalf("agency hours got cna=%v nurse=%v", rec.AgencyCNAHours, rec.AgencyNurseHours)
	}
	if got := rec.AgencyCNAPct(); got != 0 {
		t.Fatalf("agency pct with zero hours got=%v", got)
	}
}
