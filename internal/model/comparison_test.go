package model

import (
	"testing"
	"time"
)

func TestDifference_RoundsToTwoDecimals(t *testing.T) {
	t.Parallel()

	e := &ComparisonEntry{
		Projected: HPPDSet{Total: 3.15, CNA: 2.10, Nurse: 1.05},
		Actual:    HPPDSet{Total: 3.00, CNA: 2.00, Nurse: 1.00},
	}
	diff := e.Difference()
	if diff.Total != 0.15 {
		t.Fatalf("total diff want=0.15 got=%v", diff.Total)
	}
	if diff.CNA != 0.10 {
		t.Fatalf("cna diff want=0.10 got=%v", diff.CNA)
	}
	if diff.Nurse != 0.05 {
		t.Fatalf("nurse diff want=0.05 got=%v", diff.Nurse)
	}
}

func TestDifference_NegativeWhenActualExceedsProjection(t *testing.T) {
	t.Parallel()

	e := &ComparisonEntry{
		Projected: HPPDSet{Total: 3.00},
		Actual:    HPPDSet{Total: 3.42},
	}
	if got := e.Difference().Total; got != -0.42 {
		t.Fatalf("total diff want=-0.42 got=%v", got)
	}
}

func TestBucket_Classification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		actual HPPDSet
		want   Bucket
	}{
		{"good hppd good split", HPPDSet{Total: 3.1, CNA: 2.03, Nurse: 1.0}, BucketGoodHPPDGoodSplit},
		{"good hppd bad split", HPPDSet{Total: 3.1, CNA: 1.9, Nurse: 1.5}, BucketGoodHPPDBadSplit},
		{"bad hppd bad split", HPPDSet{Total: 2.5, CNA: 1.8, Nurse: 1.5}, BucketBadHPPDBadSplit},
		{"bad hppd good split drops out", HPPDSet{Total: 2.5, CNA: 2.05, Nurse: 1.0}, BucketNone},
		{"lower hppd boundary inclusive", HPPDSet{Total: 3.0, CNA: 2.00, Nurse: 1.2}, BucketGoodHPPDGoodSplit},
		{"upper hppd boundary inclusive", HPPDSet{Total: 3.3, CNA: 2.06, Nurse: 1.2}, BucketGoodHPPDGoodSplit},
		{"cna above split band", HPPDSet{Total: 3.1, CNA: 2.10, Nurse: 1.0}, BucketNone},
		{"nurse heavy split", HPPDSet{Total: 3.1, CNA: 2.03, Nurse: 1.3}, BucketGoodHPPDBadSplit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &ComparisonEntry{Actual: tt.actual}
			if got := e.Bucket(); got != tt.want {
				t.Fatalf("bucket want=%v got=%v (actual=%+v)", tt.want, got, tt.actual)
			}
		})
	}
}

func TestComparisonSet_KeepsFirstInsertionOrderOnReplace(t *testing.T) {
	t.Parallel()

	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	s := NewComparisonSet()
	s.Put(&ComparisonEntry{Facility: "Oak Hill", Date: day})
	s.Put(&ComparisonEntry{Facility: "Bright Oaks", Date: day})
	s.Put(&ComparisonEntry{Facility: "Oak Hill", Date: day, Note: "replaced"})

	keys := s.Keys()
	if len(keys) != 2 {
		t.Fatalf("want 2 keys, got %d", len(keys))
	}
	if keys[0].Facility != "Oak Hill" || keys[1].Facility != "Bright Oaks" {
		t.Fatalf("unexpected order: %v", keys)
	}
	if got := s.Get(keys[0]).Note; got != "replaced" {
		t.Fatalf("replace did not take: note=%q", got)
	}
}

func TestComparisonSet_BucketsPreserveOrderAndDropNone(t *testing.T) {
	t.Parallel()

	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	s := NewComparisonSet()
	s.Put(&ComparisonEntry{Facility: "A", Date: day, Actual: HPPDSet{Total: 3.1, CNA: 2.03, Nurse: 1.0}})
	s.Put(&ComparisonEntry{Facility: "B", Date: day, Actual: HPPDSet{Total: 2.5, CNA: 2.05, Nurse: 1.0}})
	s.Put(&ComparisonEntry{Facility: "C", Date: day, Actual: HPPDSet{Total: 3.2, CNA: 2.01, Nurse: 1.1}})

	good, badSplit, badHPPD := s.Buckets()
	if len(good) != 2 || good[0].Facility != "A" || good[1].Facility != "C" {
		t.Fatalf("unexpected good bucket: %v", good)
	}
	if len(badSplit) != 0 || len(badHPPD) != 0 {
		t.Fatalf("unexpected non-empty buckets: %v %v", badSplit, badHPPD)
	}
}

func TestAgencyPcts_GuardsDivisionByZero(t *testing.T) {
	t.Parallel()

	r := &ReportRecord{
		Hours:            RoleHours{RN: 0, LPN: 0, CNA: 0, Total: 0},
		AgencyCNAHours:   12,
		AgencyNurseHours: 8,
	}
	pcts := r.AgencyPcts()
	if pcts.Total != 0 || pcts.Nurse != 0 || pcts.CNA != 0 {
		t.Fatalf("zero worked hours must yield zero pcts, got %+v", pcts)
	}
}

func TestAgencyPcts_ComputesShareOfRoleHours(t *testing.T) {
	t.Parallel()

	r := &ReportRecord{
		Hours:            RoleHours{RN: 60, LPN: 40, CNA: 200, Total: 300},
		AgencyCNAHours:   50,
		AgencyNurseHours: 25,
	}
	pcts := r.AgencyPcts()
	if pcts.CNA != 25.0 {
		t.Fatalf("cna pct want=25 got=%v", pcts.CNA)
	}
	if pcts.Nurse != 25.0 {
		t.Fatalf("nurse pct want=25 got=%v", pcts.Nurse)
	}
	if pcts.Total != 25.0 {
		t.Fatalf("total pct want=25 got=%v", pcts.Total)
	}
}

func TestRoundHalfUp(t *testing.T) {
	t.Parallel()

	// 0.125 is exactly representable, so the half really is a half.
	if got := RoundHalfUp(0.125, 2); got != 0.13 {
		t.Fatalf("want=0.13 got=%v", got)
	}
	if got := RoundHalfUp(-0.125, 2); got != -0.13 {
		t.Fatalf("want=-0.13 got=%v", got)
	}
	if got := RoundHalfUp(3.14159, 2); got != 3.14 {
		t.Fatalf("want=3.14 got=%v", got)
	}
	if got := RoundHalfUp(2.5, 0); got != 3 {
		t.Fatalf("want=3 got=%v", got)
	}
}

func TestSkipCategories(t *testing.T) {
	t.Parallel()

	if got := TemplateSkipCategory("Mac OS hidden file, skipped"); got != CategoryHiddenFile {
		t.Fatalf("want=%q got=%q", CategoryHiddenFile, got)
	}
	if got := TemplateSkipCategory("Invalid census value: 0 (census must be > 0)"); got != CategoryInvalidData {
		t.Fatalf("want=%q got=%q", CategoryInvalidData, got)
	}
	if got := TemplateSkipCategory("No sheet named '5'"); got != CategoryFileError {
		t.Fatalf("want=%q got=%q", CategoryFileError, got)
	}
	if got := ReportSkipCategory("No matched facility name. Report: 'oak hil' vs Templates: [...]"); got != CategoryNameMatching {
		t.Fatalf("want=%q got=%q", CategoryNameMatching, got)
	}
	if got := ReportSkipCategory("No Sheet3 found"); got != CategoryFileError {
		t.Fatalf("want=%q got=%q", CategoryFileError, got)
	}
}
