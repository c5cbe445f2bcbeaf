package handlers

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/verseforge/verseforge-api/internal/config"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewHealthHandler(db *gorm.DB, cfg *config.Config) *HealthHandler {
	return &HealthHandler{db: db, cfg: cfg}
}

// HealthCheck returns the health status of the API
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	dbStatus := "healthy"
	if sqlDB, err := h.db.DB(); err != nil || sqlDB.Ping() != nil {
		dbStatus = "unhealthy"
	}

	// Audio rendering is optional; the API stays healthy without it
	renderStatus := "disabled"
	if h.cfg.SoundfontPath != "" {
		renderStatus = "unavailable"
		if _, err := os.Stat(h.cfg.SoundfontPath); err == nil {
			renderStatus = "enabled"
		}
	}

	status := http.StatusOK
	if dbStatus != "healthy" {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":   dbStatus,
		"database": gin.H{"status": dbStatus},
		"render": gin.H{
			"status":    renderStatus,
			"soundfont": h.cfg.SoundfontPath,
		},
	})
}
