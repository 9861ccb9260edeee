package handlers

import (
	"net/http"
	"os"
	"path/filepath"

	"uptime-optimizer/internal/api/models"
	"uptime-optimizer/internal/config"
	"uptime-optimizer/internal/logger"

	"github.com/gin-gonic/gin"
)

// FacilityHandler handles facility preset requests
type FacilityHandler struct {
	facilityDir string
	log         logger.Logger
}

// NewFacilityHandler creates a new facility handler reading presets from dir.
func NewFacilityHandler(dir string, log logger.Logger) *FacilityHandler {
	if log == nil {
		log = logger.NopLogger{}
	}
	// Convert to absolute path for reliability
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	log.Infof("facility presets directory: %s", dir)
	return &FacilityHandler{facilityDir: dir, log: log}
}

// FacilityDir returns the preset directory path.
func (h *FacilityHandler) FacilityDir() string {
	return h.facilityDir
}

// ListFacilities handles GET /api/v1/facilities
func (h *FacilityHandler) ListFacilities(c *gin.Context) {
	facilities := []models.FacilityInfo{}

	presets, err := config.LoadFacilities(h.facilityDir)
	if err != nil {
		if os.IsNotExist(err) {
			h.log.Warnf("facility directory does not exist: %s", h.facilityDir)
		} else {
			h.log.Errorf("failed to read facility presets from %s: %v", h.facilityDir, err)
		}
		c.JSON(http.StatusOK, gin.H{"facilities": facilities})
		return
	}

	for _, f := range presets {
		name := f.Name
		if name == "" {
			name = f.ID
		}
		facilities = append(facilities, models.FacilityInfo{
			ID:          f.ID,
			Name:        name,
			Description: f.Description,
			Market:      f.Market,
			Constraints: f.Constraints,
		})
	}
	c.JSON(http.StatusOK, gin.H{"facilities": facilities})
}
