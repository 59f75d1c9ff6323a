package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Statuses a run moves through.
const (
	RunStatusProcessing = "processing"
	RunStatusCompleted  = "completed"
	RunStatusFailed     = "failed"
)

// RunLog is one recorded comparison run.
type RunLog struct {
	ID               int64      `json:"id"`
	RunID            string     `json:"runId"`
	TargetDate       string     `json:"targetDate"`
	TemplateCount    int        `json:"templateCount"`
	ReportCount      int        `json:"reportCount"`
	MatchedCount     int        `json:"matchedCount"`
	SkippedTemplates int        `json:"skippedTemplates"`
	SkippedReports   int        `json:"skippedReports"`
	OutputPath       string     `json:"outputPath"`
	Status           string     `json:"status"`
	ErrorMessage     string     `json:"errorMessage"`
	StartedAt        time.Time  `json:"startedAt"`
	CompletedAt      *time.Time `json:"completedAt"`
}

// RunCounts carries the per-run totals written at completion.
type RunCounts struct {
	Templates        int
	Reports          int
	Matched          int
	SkippedTemplates int
	SkippedReports   int
}

// CreateRunLog records a run in processing state and returns its row id.
func (s *Store) CreateRunLog(runID, targetDate string) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO runs (run_id, target_date, status)
		VALUES (?, ?, ?)
	`, runID, targetDate, RunStatusProcessing)
	if err != nil {
		return 0, fmt.Errorf("failed to create run log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run log id: %w", err)
	}
	return id, nil
}

// CompleteRunLog finalizes a run with its counts and outcome.
func (s *Store) CompleteRunLog(id int64, counts RunCounts, outputPath, status, errorMessage string) error {
	_, err := s.db.Exec(`
		UPDATE runs SET
			template_count = ?,
			report_count = ?,
			matched_count = ?,
			skipped_templates = ?,
			skipped_reports = ?,
			output_path = ?,
			status = ?,
			error_message = ?,
			completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, counts.Templates, counts.Reports, counts.Matched, counts.SkippedTemplates,
		counts.SkippedReports, outputPath, status, errorMessage, id)
	if err != nil {
		return fmt.Errorf("failed to update run log: %w", err)
	}
	return nil
}

// ListRunLogs returns the most recent runs, newest first.
func (s *Store) ListRunLogs(limit int) ([]RunLog, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT id, run_id, target_date, template_count, report_count,
			matched_count, skipped_templates, skipped_reports,
			output_path, status, error_message, started_at, completed_at
		FROM runs
		ORDER BY started_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query run logs failed: %w", err)
	}
	defer rows.Close()

	var out []RunLog
	for rows.Next() {
		var it RunLog
		var completed sql.NullTime
		if err := rows.Scan(
			&it.ID, &it.RunID, &it.TargetDate, &it.TemplateCount, &it.ReportCount,
			&it.MatchedCount, &it.SkippedTemplates, &it.SkippedReports,
			&it.OutputPath, &it.Status, &it.ErrorMessage, &it.StartedAt, &completed,
		); err != nil {
			return nil, fmt.Errorf("scan run log failed: %w", err)
		}
		if completed.Valid {
			t := completed.Time
			it.CompletedAt = &t
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run logs failed: %w", err)
	}
	return out, nil
}

// CountRunLogs returns the total number of recorded runs.
func (s *Store) CountRunLogs() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(1) FROM runs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count run logs failed: %w", err)
	}
	return n, nil
}

// GetRunLog fetches one run by its public run id.
func (s *Store) GetRunLog(runID string) (*RunLog, error) {
	var it RunLog
	var completed sql.NullTime
	err := s.db.QueryRow(`
		SELECT id, run_id, target_date, template_count, report_count,
			matched_count, skipped_templates, skipped_reports,
			output_path, status, error_message, started_at, completed_at
		FROM runs
		WHERE run_id = ?
	`, runID).Scan(
		&it.ID, &it.RunID, &it.TargetDate, &it.TemplateCount, &it.ReportCount,
		&it.MatchedCount, &it.SkippedTemplates, &it.SkippedReports,
		&it.OutputPath, &it.Status, &it.ErrorMessage, &it.StartedAt, &completed,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query run log failed: %w", err)
	}
	if completed.Valid {
		t := completed.Time
		it.CompletedAt = &t
	}
	return &it, nil
}
