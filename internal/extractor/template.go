package extractor

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/itamaramsalem1/hppdauto-web/internal/matcher"
	"github.com/itamaramsalem1/hppdauto-web/internal/model"
	"github.com/itamaramsalem1/hppdauto-web/internal/workbook"
)

// Fixed template cell layout, a schema contract with the workbook authors.
// The sheet itself is named for the day of month.
const (
	cellFacility    = "D3"
	cellDate        = "B11"
	cellCensus      = "E27"
	cellCNAHours    = "G58"
	cellNurseHoursA = "E58"
	cellNurseHoursB = "F58"
	cellAgencyTotal = "L37"
	cellAgencyNurse = "L34"
	cellAgencyCNA   = "O34"
	cellNote        = "E62"
)

// ExtractTemplate reads the target date's sheet of one template workbook.
// A nil entry with a non-nil skip means the file contributes nothing; the
// skip carries the reason shown on the diagnostic sheet.
func ExtractTemplate(path string, targetDate time.Time) (*model.TemplateEntry, *model.SkipRecord) {
	name := filepath.Base(path)

	tpl, err := workbook.OpenTemplate(path)
	if err != nil {
		return nil, &model.SkipRecord{File: name, Reason: fmt.Sprintf("Workbook open error: %v", err)}
	}
	defer tpl.Close()

	sheet := strconv.Itoa(targetDate.Day())
	if !tpl.HasSheet(sheet) {
		return nil, &model.SkipRecord{File: name, Reason: fmt.Sprintf("No sheet named '%s'", sheet)}
	}

	facility := tpl.CellString(sheet, cellFacility)
	if facility == "" {
		return nil, &model.SkipRecord{File: name, Reason: "Missing facility name in D3"}
	}

	sheetDate, ok := tpl.CellDate(sheet, cellDate)
	if !ok {
		if tpl.CellString(sheet, cellDate) == "" {
			return nil, &model.SkipRecord{File: name, Reason: "Missing date in B11"}
		}
		return nil, &model.SkipRecord{File: name, Reason: "Invalid date format in B11"}
	}
	if !sheetDate.Equal(targetDate) {
		return nil, &model.SkipRecord{
			File: name,
			Reason: fmt.Sprintf("Date mismatch: sheet has %s, looking for %s",
				sheetDate.Format("2006-01-02"), targetDate.Format("2006-01-02")),
		}
	}

	census := tpl.CellFloat(sheet, cellCensus)
	if census <= 0 {
		return nil, &model.SkipRecord{File: name, Reason: fmt.Sprintf("Invalid census value: %v (census must be > 0)", census)}
	}

	cnaHPPD := tpl.CellFloat(sheet, cellCNAHours) / census
	nurseHPPD := (tpl.CellFloat(sheet, cellNurseHoursA) + tpl.CellFloat(sheet, cellNurseHoursB)) / census

	return &model.TemplateEntry{
		Facility: facility,
		Cleaned:  matcher.Normalize(facility),
		Date:     sheetDate,
		Census:   census,
		Note:     tpl.CellString(sheet, cellNote),
		Projected: model.HPPDSet{
			Total: cnaHPPD + nurseHPPD,
			CNA:   cnaHPPD,
			Nurse: nurseHPPD,
		},
		ProjectedAgency: model.AgencyPctSet{
			Total: tpl.CellFloat(sheet, cellAgencyTotal) * 100,
			Nurse: tpl.CellFloat(sheet, cellAgencyNurse) * 100,
			CNA:   tpl.CellFloat(sheet, cellAgencyCNA) * 100,
		},
		SourceFile: name,
		Sheet:      sheet,
	}, nil
}
