package comparison

import (
	"fmt"
	"sync"
	"time"

	"github.com/itamaramsalem1/hppdauto-web/internal/aggregator"
	"github.com/itamaramsalem1/hppdauto-web/internal/extractor"
	"github.com/itamaramsalem1/hppdauto-web/internal/matcher"
	"github.com/itamaramsalem1/hppdauto-web/internal/model"
	"github.com/itamaramsalem1/hppdauto-web/internal/reporter"
)

// DefaultWorkers bounds concurrent report parsing.
const DefaultWorkers = 4

// Coordinator drives comparison runs end to end: collect input files,
// extract both sources, match facility names, aggregate, render the
// workbook.
type Coordinator struct {
	workers  int
	matching matcher.Options
}

// NewCoordinator creates a coordinator. A non-positive worker count falls
// back to DefaultWorkers.
func NewCoordinator(workers int, matching matcher.Options) *Coordinator {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Coordinator{workers: workers, matching: matching}
}

// Options are the inputs of one comparison run.
type Options struct {
	TemplatesDir string
	ReportsDir   string
	TargetDate   string // yyyy-mm-dd
	OutputDir    string

	// Progress, when non-nil, receives checkpoint events. During report
	// extraction it is invoked from the worker goroutines.
	Progress func(ProgressEvent)
}

// Result summarizes one finished run.
type Result struct {
	OutputPath       string
	TemplateEntries  int
	ReportRecords    int
	Matched          int
	SkippedTemplates int
	SkippedReports   int
}

// Run executes one comparison. Per-file problems become skip records in
// the output workbook; only a malformed target date, an unreadable input
// directory, or an unwritable output fails the run. Zero matches still
// produce a valid workbook.
func (c *Coordinator) Run(opts Options) (*Result, error) {
	targetDate, err := time.Parse("2006-01-02", opts.TargetDate)
	if err != nil {
		return nil, fmt.Errorf("parse target date %q: %w", opts.TargetDate, err)
	}

	reportProgress(opts.Progress, 0, "collecting input files")
	templatePaths, skippedTemplates, err := extractor.CollectFiles(opts.TemplatesDir, extractor.TemplateExt)
	if err != nil {
		return nil, err
	}
	reportPaths, skippedReports, err := extractor.CollectFiles(opts.ReportsDir, extractor.ReportExt)
	if err != nil {
		return nil, err
	}

	reportProgress(opts.Progress, 5, "extracting templates")
	var entries []*model.TemplateEntry
	for _, p := range templatePaths {
		entry, skip := extractor.ExtractTemplate(p, targetDate)
		if skip != nil {
			skippedTemplates = append(skippedTemplates, *skip)
			continue
		}
		entries = append(entries, entry)
	}

	reportProgress(opts.Progress, 30, "building facility map")
	m := matcher.NewMatcher(entries, c.matching)

	reportProgress(opts.Progress, 35, "extracting reports")
	records, skips := c.extractReports(reportPaths, targetDate, opts.Progress)
	skippedReports = append(skippedReports, skips...)

	reportProgress(opts.Progress, 80, "matching facilities")
	matched, skips := aggregator.MatchRecords(records, m)
	skippedReports = append(skippedReports, skips...)

	reportProgress(opts.Progress, 85, "building comparison")
	set, skips := aggregator.Aggregate(entries, matched)
	skippedReports = append(skippedReports, skips...)

	reportProgress(opts.Progress, 90, "writing workbook")
	outputPath, err := reporter.NewWriter(opts.OutputDir).Write(set, skippedTemplates, skippedReports)
	if err != nil {
		return nil, err
	}

	reportProgress(opts.Progress, 100, "done")
	return &Result{
		OutputPath:       outputPath,
		TemplateEntries:  len(entries),
		ReportRecords:    len(records),
		Matched:          set.Len(),
		SkippedTemplates: len(skippedTemplates),
		SkippedReports:   len(skippedReports),
	}, nil
}

// extractReports parses report files over a bounded worker pool. Each slot
// in the result slices is owned by the worker that took its index, so the
// collection order of paths survives regardless of which worker finishes
// first.
func (c *Coordinator) extractReports(paths []string, targetDate time.Time, progress func(ProgressEvent)) ([]*model.ReportRecord, []model.SkipRecord) {
	records := make([]*model.ReportRecord, len(paths))
	skips := make([]*model.SkipRecord, len(paths))

	workers := c.workers
	if workers > len(paths) {
		workers = len(paths)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	var mu sync.Mutex
	done := 0

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				records[i], skips[i] = extractor.ExtractReport(paths[i], targetDate)

				mu.Lock()
				done++
				pct := 35 + 45*done/len(paths)
				mu.Unlock()
				reportProgress(progress, pct, "extracting reports")
			}
		}()
	}
	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	outRecords := make([]*model.ReportRecord, 0, len(paths))
	var outSkips []model.SkipRecord
	for i := range paths {
		if skips[i] != nil {
			outSkips = append(outSkips, *skips[i])
			continue
		}
		if records[i] != nil {
			outRecords = append(outRecords, records[i])
		}
	}
	return outRecords, outSkips
}
