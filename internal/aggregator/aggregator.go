package aggregator

import (
	"fmt"
	"time"

	"github.com/itamaramsalem1/hppdauto-web/internal/matcher"
	"github.com/itamaramsalem1/hppdauto-web/internal/model"
)

// keySnippetLen caps how many template keys a matching-failure reason quotes.
const keySnippetLen = 3

// MatchRecords resolves each record's raw facility name to a template
// facility. Matched records come back with MatchedFacility filled in; the
// rest become skips whose reason carries the normalized core and a snippet
// of the known keys, enough to diagnose a bad spelling from the output
// workbook alone.
func MatchRecords(records []*model.ReportRecord, m *matcher.Matcher) ([]*model.ReportRecord, []model.SkipRecord) {
	matched := make([]*model.ReportRecord, 0, len(records))
	var skips []model.SkipRecord

	for _, rec := range records {
		facility, ok := m.Match(rec.RawFacility)
		if !ok {
			keys := m.Keys()
			if len(keys) > keySnippetLen {
				keys = keys[:keySnippetLen]
			}
			skips = append(skips, model.SkipRecord{
				File:   rec.SourceFile,
				Reason: fmt.Sprintf("No matched facility name. Report: '%s' vs Templates: %v...", m.Core(rec.RawFacility), keys),
			})
			continue
		}
		rec.MatchedFacility = facility
		matched = append(matched, rec)
	}
	return matched, skips
}

// Aggregate joins matched records to template entries on (facility, date)
// and builds the comparison set. Entries are scanned in collection order,
// so when several templates carry the same facility and date the first
// collected file wins; the walk order of the templates directory makes
// that deterministic.
func Aggregate(entries []*model.TemplateEntry, records []*model.ReportRecord) (*model.ComparisonSet, []model.SkipRecord) {
	set := model.NewComparisonSet()
	var skips []model.SkipRecord

	for _, rec := range records {
		tpl := firstCandidate(entries, rec.MatchedFacility, rec.Date)
		if tpl == nil {
			skips = append(skips, model.SkipRecord{
				File:   rec.SourceFile,
				Reason: fmt.Sprintf("No matched date in template. Report date: %s", rec.Date.Format("2006-01-02")),
			})
			continue
		}
		set.Put(buildEntry(tpl, rec))
	}
	return set, skips
}

func firstCandidate(entries []*model.TemplateEntry, facility string, date time.Time) *model.TemplateEntry {
	for _, e := range entries {
		if e.Facility == facility && e.Date.Equal(date) {
			return e
		}
	}
	return nil
}

// buildEntry derives actual HPPD from the template's census, since reports
// carry no census of their own. Every stored metric is rounded to two
// decimals here; the bucket predicates and the rendered workbook both see
// the rounded values.
func buildEntry(tpl *model.TemplateEntry, rec *model.ReportRecord) *model.ComparisonEntry {
	var actual model.HPPDSet
	if tpl.Census > 0 {
		actual = model.HPPDSet{
			Total: model.RoundHalfUp(rec.Hours.Total/tpl.Census, 2),
			CNA:   model.RoundHalfUp(rec.Hours.CNA/tpl.Census, 2),
			Nurse: model.RoundHalfUp(rec.Hours.NurseTotal()/tpl.Census, 2),
		}
	}

	return &model.ComparisonEntry{
		Facility: tpl.Facility,
		Date:     rec.Date,
		Note:     tpl.Note,
		Projected: model.HPPDSet{
			Total: model.RoundHalfUp(tpl.Projected.Total, 2),
			CNA:   model.RoundHalfUp(tpl.Projected.CNA, 2),
			Nurse: model.RoundHalfUp(tpl.Projected.Nurse, 2),
		},
		ProjectedAgency: model.AgencyPctSet{
			Total: model.RoundHalfUp(tpl.ProjectedAgency.Total, 2),
			Nurse: model.RoundHalfUp(tpl.ProjectedAgency.Nurse, 2),
			CNA:   model.RoundHalfUp(tpl.ProjectedAgency.CNA, 2),
		},
		Actual:       actual,
		ActualAgency: rec.AgencyPcts(),
	}
}
