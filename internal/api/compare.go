package api

import (
	"encoding/json"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/itamaramsalem1/hppdauto-web/internal/comparison"
	"github.com/itamaramsalem1/hppdauto-web/internal/config"
	"github.com/itamaramsalem1/hppdauto-web/internal/matcher"
	"github.com/itamaramsalem1/hppdauto-web/internal/store"
)

const downloadTTL = 10 * time.Minute

type compareEvent struct {
	Type      string      `json:"type"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

type runOutcome struct {
	result *comparison.Result
	err    error
}

// Compare runs one projected-vs-actual comparison over uploaded workbooks.
// The response is an SSE stream: progress events while the pipeline runs,
// then a done event carrying the download URL for the finished workbook.
// POST /api/compare
func (h *Handler) Compare(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
		return
	}

	targetDate := c.PostForm("date")
	if _, err := time.Parse("2006-01-02", targetDate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be yyyy-mm-dd"})
		return
	}

	templates := form.File["templates"]
	reports := form.File["reports"]
	if len(templates) == 0 || len(reports) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one template and one report file are required"})
		return
	}

	runID := uuid.New().String()
	uploadRoot := config.GetDataPath(h.cfg, "uploads", runID)
	templatesDir := filepath.Join(uploadRoot, "templates")
	reportsDir := filepath.Join(uploadRoot, "reports")
	if err := saveUploads(c, templatesDir, templates); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save template files"})
		return
	}
	if err := saveUploads(c, reportsDir, reports); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save report files"})
		return
	}
	// Uploads are per-run scratch space; only the output workbook is kept.
	defer os.RemoveAll(uploadRoot)

	logID, err := h.store.CreateRunLog(runID, targetDate)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record run"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming not supported"})
		return
	}

	send := func(event compareEvent) {
		b, err := json.Marshal(event)
		if err != nil {
			return
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", b)
		flusher.Flush()
	}

	send(compareEvent{
		Type:    "start",
		Message: "comparison started",
		Data: map[string]any{
			"runId":      runID,
			"targetDate": targetDate,
			"templates":  len(templates),
			"reports":    len(reports),
		},
		Timestamp: time.Now(),
	})

	coord := comparison.NewCoordinator(h.cfg.Matching.Workers, matcher.Options{
		PrimaryCutoff:  h.cfg.Matching.PrimaryCutoff,
		FallbackCutoff: h.cfg.Matching.FallbackCutoff,
		Overrides:      h.cfg.Matching.Overrides,
	})

	// The pipeline reports progress from its worker goroutines, so events
	// funnel through a channel and only this goroutine touches the writer.
	events := make(chan comparison.ProgressEvent, 16)
	done := make(chan runOutcome, 1)
	go func() {
		res, err := coord.Run(comparison.Options{
			TemplatesDir: templatesDir,
			ReportsDir:   reportsDir,
			TargetDate:   targetDate,
			OutputDir:    config.GetDataPath(h.cfg, "exports", ""),
			Progress:     func(ev comparison.ProgressEvent) { events <- ev },
		})
		close(events)
		done <- runOutcome{result: res, err: err}
	}()

	lastPercent := -1
	lastStage := ""
	for ev := range events {
		if ev.Percent == lastPercent && ev.Stage == lastStage {
			continue
		}
		lastPercent = ev.Percent
		lastStage = ev.Stage
		send(compareEvent{
			Type:      "progress",
			Message:   ev.Stage,
			Data:      map[string]any{"percent": ev.Percent},
			Timestamp: time.Now(),
		})
	}

	outcome := <-done
	if outcome.err != nil {
		h.completeRunLog(logID, store.RunCounts{}, "", store.RunStatusFailed, outcome.err.Error())
		send(compareEvent{
			Type:      "error",
			Message:   "comparison failed: " + outcome.err.Error(),
			Data:      map[string]any{},
			Timestamp: time.Now(),
		})
		return
	}

	res := outcome.result
	counts := store.RunCounts{
		Templates:        res.TemplateEntries,
		Reports:          res.ReportRecords,
		Matched:          res.Matched,
		SkippedTemplates: res.SkippedTemplates,
		SkippedReports:   res.SkippedReports,
	}
	h.completeRunLog(logID, counts, res.OutputPath, store.RunStatusCompleted, "")

	token := h.downloads.put(res.OutputPath, targetDate, downloadTTL)
	send(compareEvent{
		Type:    "done",
		Message: "comparison complete",
		Data: map[string]any{
			"percent":          100,
			"downloadUrl":      "/api/compare/download/" + token,
			"fileName":         filepath.Base(res.OutputPath),
			"templates":        res.TemplateEntries,
			"reports":          res.ReportRecords,
			"matched":          res.Matched,
			"skippedTemplates": res.SkippedTemplates,
			"skippedReports":   res.SkippedReports,
		},
		Timestamp: time.Now(),
	})
}

// DownloadComparison serves a finished workbook once.
// GET /api/compare/download/:token
func (h *Handler) DownloadComparison(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing token"})
		return
	}

	item, ok := h.downloads.get(token)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "download link expired"})
		return
	}

	if _, err := os.Stat(item.filePath); err != nil {
		h.downloads.delete(token)
		c.JSON(http.StatusNotFound, gin.H{"error": "comparison file not found"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(item.filePath)))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.File(item.filePath)

	// One download per token. The workbook itself stays in exports/ so the
	// run history keeps pointing at a real file.
	h.downloads.delete(token)
}

func (h *Handler) completeRunLog(id int64, counts store.RunCounts, outputPath, status, errMsg string) {
	if err := h.store.CompleteRunLog(id, counts, outputPath, status, errMsg); err != nil {
		log.Printf("failed to finalize run log %d: %v", id, err)
	}
}

func saveUploads(c *gin.Context, dir string, files []*multipart.FileHeader) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create upload directory: %w", err)
	}
	for _, f := range files {
		// Base strips any client-supplied path components.
		dst := filepath.Join(dir, filepath.Base(f.Filename))
		if err := c.SaveUploadedFile(f, dst); err != nil {
			return fmt.Errorf("save %s: %w", f.Filename, err)
		}
	}
	return nil
}
