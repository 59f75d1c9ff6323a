package api

import (
	"github.com/gin-gonic/gin"

	"github.com/itamaramsalem1/hppdauto-web/internal/config"
	"github.com/itamaramsalem1/hppdauto-web/internal/store"
)

// Handler wires the comparison pipeline to HTTP.
type Handler struct {
	store     *store.Store
	cfg       *config.AppConfig
	downloads *downloadStore
}

// NewHandler creates the API handler.
func NewHandler(st *store.Store, cfg *config.AppConfig) *Handler {
	return &Handler{
		store:     st,
		cfg:       cfg,
		downloads: newDownloadStore(),
	}
}

// RegisterRoutes registers all API routes.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/status", h.GetStatus)

	router.POST("/compare", h.Compare)
	router.GET("/compare/download/:token", h.DownloadComparison)

	router.GET("/runs", h.ListRuns)
}
