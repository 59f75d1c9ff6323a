package extractor

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/itamaramsalem1/hppdauto-web/internal/model"
	"github.com/itamaramsalem1/hppdauto-web/internal/workbook"
)

// Report workbook layout. Coordinates are zero-based row/column.
const (
	hoursSheetName  = "Sheet3"
	agencySheetName = "Sheet1"

	dateRow, dateCol         = 3, 1
	facilityRow, facilityCol = 4, 1

	fixedLPNRow   = 10
	fixedRNRow    = 11
	fixedCNARow   = 12
	fixedTotalRow = 13
	fixedHoursCol = 7

	deptCodeCol  = 6
	deptHoursCol = 7

	agencyHoursCol = 3
)

// Payroll department codes for the three nursing roles, as emitted by the
// report generator.
const (
	deptCodeRN  = 6510
	deptCodeLPN = 6520
	deptCodeCNA = 6530
)

const grandTotalLabel = "Grand Total"

// agencyMarker flags staffing-block headers that belong to contracted
// (agency) staff rather than facility employees.
const agencyMarker = "AGENCY"

// hoursStrategy is one way of locating role hours on the hours sheet.
// Strategies run in priority order; the first to yield any nonzero role
// hours wins, so a report laid out for either vintage of the format still
// extracts.
type hoursStrategy struct {
	name    string
	extract func(workbook.Grid) model.RoleHours
}

var hoursStrategies = []hoursStrategy{
	{name: "department-scan", extract: departmentScanHours},
	{name: "fixed-cells", extract: fixedCellHours},
}

// ExtractReport reads one actual-staffing workbook. A nil record with a
// non-nil skip means the file contributes nothing. Facility matching is
// not attempted here; the record carries the raw facility name.
func ExtractReport(path string, targetDate time.Time) (*model.ReportRecord, *model.SkipRecord) {
	name := filepath.Base(path)

	book, err := workbook.OpenReport(path)
	if err != nil {
		return nil, &model.SkipRecord{File: name, Reason: fmt.Sprintf("Failed to parse report: %v", err)}
	}
	defer book.Close()

	return extractReport(book, name, targetDate)
}

func extractReport(book workbook.Book, name string, targetDate time.Time) (*model.ReportRecord, *model.SkipRecord) {
	hours, ok := book.Sheet(hoursSheetName)
	if !ok {
		return nil, &model.SkipRecord{File: name, Reason: "No Sheet3 found"}
	}
	agency, ok := book.Sheet(agencySheetName)
	if !ok {
		return nil, &model.SkipRecord{File: name, Reason: "No Sheet1 found"}
	}

	date, ok := workbook.ParseDate(hours.Cell(dateRow, dateCol))
	if !ok {
		return nil, &model.SkipRecord{File: name, Reason: "Invalid date format"}
	}
	if !date.Equal(targetDate) {
		return nil, &model.SkipRecord{
			File: name,
			Reason: fmt.Sprintf("Date mismatch: report has %s, looking for %s",
				date.Format("2006-01-02"), targetDate.Format("2006-01-02")),
		}
	}

	facility := strings.TrimSpace(hours.Cell(facilityRow, facilityCol))
	if facility == "" {
		return nil, &model.SkipRecord{File: name, Reason: "Missing facility name"}
	}

	var roleHours model.RoleHours
	for _, s := range hoursStrategies {
		roleHours = s.extract(hours)
		if roleHours.RN != 0 || roleHours.LPN != 0 || roleHours.CNA != 0 {
			break
		}
	}

	agencyCNA, agencyNurse := scanAgencyHours(agency)

	return &model.ReportRecord{
		SourceFile:       name,
		RawFacility:      facility,
		Date:             date,
		Hours:            roleHours,
		AgencyCNAHours:   agencyCNA,
		AgencyNurseHours: agencyNurse,
	}, nil
}

// departmentScanHours walks the department column accumulating the hours
// column by role code. A "Grand Total" label row supplies the total
// authoritatively; without one the total is the role sum.
func departmentScanHours(g workbook.Grid) model.RoleHours {
	var hours model.RoleHours
	grandTotal := 0.0
	haveGrandTotal := false

	for r := 0; r <= g.MaxRow(); r++ {
		label := strings.TrimSpace(g.Cell(r, deptCodeCol))
		if label == "" {
			continue
		}
		if strings.EqualFold(label, grandTotalLabel) {
			grandTotal = workbook.ParseFloat(g.Cell(r, deptHoursCol))
			haveGrandTotal = true
			continue
		}
		v := workbook.ParseFloat(g.Cell(r, deptHoursCol))
		switch int(workbook.ParseFloat(label)) {
		case deptCodeRN:
			hours.RN += v
		case deptCodeLPN:
			hours.LPN += v
		case deptCodeCNA:
			hours.CNA += v
		}
	}

	if haveGrandTotal {
		hours.Total = grandTotal
	} else {
		hours.Total = hours.RN + hours.LPN + hours.CNA
	}
	return hours
}

func fixedCellHours(g workbook.Grid) model.RoleHours {
	return model.RoleHours{
		LPN:   workbook.ParseFloat(g.Cell(fixedLPNRow, fixedHoursCol)),
		RN:    workbook.ParseFloat(g.Cell(fixedRNRow, fixedHoursCol)),
		CNA:   workbook.ParseFloat(g.Cell(fixedCNARow, fixedHoursCol)),
		Total: workbook.ParseFloat(g.Cell(fixedTotalRow, fixedHoursCol)),
	}
}

// scanAgencyHours walks the staffing-detail sheet top-down. A first-column
// cell containing "/" starts a block; a block header naming an agency and
// ending with a role token opens that role's accumulator, any other header
// closes it. The sheet has no fixed rows-per-block, so block boundaries
// exist only as this header pattern.
func scanAgencyHours(g workbook.Grid) (cna, nurse float64) {
	const (
		roleNone = iota
		roleCNA
		roleNurse
	)
	active := roleNone

	for r := 0; r <= g.MaxRow(); r++ {
		first := strings.TrimSpace(g.Cell(r, 0))
		if strings.Contains(first, "/") {
			active = roleNone
			header := strings.ToUpper(first)
			if !strings.Contains(header, agencyMarker) {
				continue
			}
			switch {
			case strings.HasSuffix(header, "CNA"):
				active = roleCNA
			case strings.HasSuffix(header, "RN"), strings.HasSuffix(header, "LPN"):
				active = roleNurse
			}
			continue
		}
		if active == roleNone {
			continue
		}
		v := workbook.ParseFloat(g.Cell(r, agencyHoursCol))
		switch active {
		case roleCNA:
			cna += v
		case roleNurse:
			nurse += v
		}
	}
	return cna, nurse
}
