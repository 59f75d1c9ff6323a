package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/itamaramsalem1/hppdauto-web/internal/store"
)

// StatusResponse describes the running service.
type StatusResponse struct {
	Initialized    bool          `json:"initialized"`
	TotalRuns      int           `json:"totalRuns"`
	LastRun        *store.RunLog `json:"lastRun"`
	Workers        int           `json:"workers"`
	PrimaryCutoff  float64       `json:"primaryCutoff"`
	FallbackCutoff float64       `json:"fallbackCutoff"`
}

// GetStatus reports run history totals and the active matching settings.
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	total, err := h.store.CountRunLogs()
	if err != nil {
		total = 0
	}

	var last *store.RunLog
	if recent, err := h.store.ListRunLogs(1); err == nil && len(recent) > 0 {
		last = &recent[0]
	}

	c.JSON(http.StatusOK, StatusResponse{
		Initialized:    total > 0,
		TotalRuns:      total,
		LastRun:        last,
		Workers:        h.cfg.Matching.Workers,
		PrimaryCutoff:  h.cfg.Matching.PrimaryCutoff,
		FallbackCutoff: h.cfg.Matching.FallbackCutoff,
	})
}
