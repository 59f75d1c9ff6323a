package model

import (
	"math"
	"time"
)

// HPPDSet groups the three hours-per-patient-day metrics tracked per facility.
type HPPDSet struct {
	Total float64
	CNA   float64
	Nurse float64
}

// AgencyPctSet groups agency-staffing percentages by role.
type AgencyPctSet struct {
	Total float64
	Nurse float64
	CNA   float64
}

// RoleHours holds worked hours broken down by nursing role.
type RoleHours struct {
	RN    float64
	LPN   float64
	CNA   float64
	Total float64
}

// NurseTotal is the combined RN+LPN hours bucket.
func (h RoleHours) NurseTotal() float64 {
	return h.RN + h.LPN
}

// TemplateEntry is one projected-staffing snapshot extracted from a template
// workbook sheet (one sheet per day of month).
type TemplateEntry struct {
	Facility string // raw display name as found in the sheet
	Cleaned  string // normalized matching key
	Date     time.Time
	Census   float64
	Note     string

	Projected       HPPDSet
	ProjectedAgency AgencyPctSet

	SourceFile string
	Sheet      string
}

// ReportRecord is one actual-staffing extraction from a report workbook.
type ReportRecord struct {
	SourceFile      string
	RawFacility     string // as found in the report cell
	MatchedFacility string // template facility name resolved by the matcher
	Date            time.Time

	Hours            RoleHours
	AgencyCNAHours   float64
	AgencyNurseHours float64
}

// AgencyCNAPct is CNA agency hours as a percentage of worked CNA hours.
func (r *ReportRecord) AgencyCNAPct() float64 {
	if r.Hours.CNA == 0 {
		return 0
	}
	return r.AgencyCNAHours / r.Hours.CNA * 100
}

// AgencyNursePct is RN+LPN agency hours as a percentage of worked RN+LPN hours.
func (r *ReportRecord) AgencyNursePct() float64 {
	nurse := r.Hours.NurseTotal()
	if nurse == 0 {
		return 0
	}
	return r.AgencyNurseHours / nurse * 100
}

// AgencyTotalPct is combined agency hours as a percentage of total worked hours.
func (r *ReportRecord) AgencyTotalPct() float64 {
	if r.Hours.Total == 0 {
		return 0
	}
	return (r.AgencyCNAHours + r.AgencyNurseHours) / r.Hours.Total * 100
}

// AgencyPcts bundles the three agency percentages, rounded to two decimals.
func (r *ReportRecord) AgencyPcts() AgencyPctSet {
	return AgencyPctSet{
		Total: RoundHalfUp(r.AgencyTotalPct(), 2),
		Nurse: RoundHalfUp(r.AgencyNursePct(), 2),
		CNA:   RoundHalfUp(r.AgencyCNAPct(), 2),
	}
}

// RoundHalfUp rounds v to the given number of decimal digits, halves away
// from zero.
func RoundHalfUp(v float64, digits int) float64 {
	if digits < 0 {
		return v
	}
	scale := math.Pow10(digits)
	x := v * scale
	if x >= 0 {
		return math.Floor(x+0.5) / scale
	}
	return -math.Floor(-x+0.5) / scale
}
