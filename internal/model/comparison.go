package model

import "time"

// Bucket classifies a matched facility/date by its actual staffing outcome.
type Bucket int

const (
	// BucketNone marks entries that satisfy no bucket predicate. A facility
	// with off-target HPPD but an on-target role split lands here and is
	// listed in no section of the output.
	BucketNone Bucket = iota
	BucketGoodHPPDGoodSplit
	BucketGoodHPPDBadSplit
	BucketBadHPPDBadSplit
)

// Section titles as rendered in the output workbook.
const (
	TitleGoodHPPDGoodSplit = "Good HPPD & Good Split (3.0<HPPD<3.3, 2.00<CNA<2.06, RN+LPN<=1.20)"
	TitleGoodHPPDBadSplit  = "Good HPPD & Bad Split (3.0<HPPD<3.3, CNA<2.00, RN+LPN>1.20)"
	TitleBadHPPDBadSplit   = "Bad HPPD & Bad Split (HPPD>3.3 | HPPD<3.0, CNA<2.00, RN+LPN>1.20)"
)

// ComparisonEntry is one matched facility/date pairing of projected against
// actual staffing. Metric fields are stored already rounded to two decimals,
// which is also the precision the bucket thresholds are evaluated at.
type ComparisonEntry struct {
	Facility string
	Date     time.Time
	Note     string

	Projected       HPPDSet
	ProjectedAgency AgencyPctSet

	Actual       HPPDSet
	ActualAgency AgencyPctSet
}

// Difference is projected minus actual per HPPD metric, rounded to two
// decimals. Negative values mean actual staffing ran above projection.
func (e *ComparisonEntry) Difference() HPPDSet {
	return HPPDSet{
		Total: RoundHalfUp(e.Projected.Total-e.Actual.Total, 2),
		CNA:   RoundHalfUp(e.Projected.CNA-e.Actual.CNA, 2),
		Nurse: RoundHalfUp(e.Projected.Nurse-e.Actual.Nurse, 2),
	}
}

// Bucket evaluates the outcome bucket predicates against the actual metrics.
// The predicates are ordered; the first match wins.
func (e *ComparisonEntry) Bucket() Bucket {
	hppd := e.Actual.Total
	cna := e.Actual.CNA
	rn := e.Actual.Nurse

	switch {
	case 3.0 <= hppd && hppd <= 3.3 && 2.00 <= cna && cna <= 2.06 && rn <= 1.2:
		return BucketGoodHPPDGoodSplit
	case 3.0 <= hppd && hppd <= 3.3 && (cna < 2.0 || rn > 1.2):
		return BucketGoodHPPDBadSplit
	case (hppd < 3.0 || hppd > 3.3) && (cna < 2.0 || rn > 1.2):
		return BucketBadHPPDBadSplit
	default:
		return BucketNone
	}
}

// ComparisonKey identifies a ComparisonEntry.
type ComparisonKey struct {
	Facility string
	Date     time.Time
}

// ComparisonSet holds comparison entries in first-insertion order so that a
// rerun over the same inputs renders an identical workbook. Re-adding an
// existing key replaces the value but keeps its original position.
type ComparisonSet struct {
	entries map[ComparisonKey]*ComparisonEntry
	order   []ComparisonKey
}

// NewComparisonSet creates an empty ComparisonSet.
func NewComparisonSet() *ComparisonSet {
	return &ComparisonSet{entries: make(map[ComparisonKey]*ComparisonEntry)}
}

// Put inserts or replaces the entry under its (facility, date) key.
func (s *ComparisonSet) Put(e *ComparisonEntry) {
	key := ComparisonKey{Facility: e.Facility, Date: e.Date}
	if _, exists := s.entries[key]; !exists {
		s.order = append(s.order, key)
	}
	s.entries[key] = e
}

// Get returns the entry for key, or nil.
func (s *ComparisonSet) Get(key ComparisonKey) *ComparisonEntry {
	return s.entries[key]
}

// Len reports the number of entries.
func (s *ComparisonSet) Len() int {
	return len(s.entries)
}

// Keys returns the keys in insertion order.
func (s *ComparisonSet) Keys() []ComparisonKey {
	keys := make([]ComparisonKey, len(s.order))
	copy(keys, s.order)
	return keys
}

// Buckets partitions the keys into the three outcome buckets, preserving
// insertion order within each. Entries classified as BucketNone appear in
// none of the returned slices.
func (s *ComparisonSet) Buckets() (good, badSplit, badHPPD []ComparisonKey) {
	for _, key := range s.order {
		switch s.entries[key].Bucket() {
		case BucketGoodHPPDGoodSplit:
			good = append(good, key)
		case BucketGoodHPPDBadSplit:
			badSplit = append(badSplit, key)
		case BucketBadHPPDBadSplit:
			badHPPD = append(badHPPD, key)
		}
	}
	return good, badSplit, badHPPD
}
