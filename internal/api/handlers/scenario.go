package handlers

import (
	"net/http"

	"uptime-optimizer/internal/api/models"
	"uptime-optimizer/internal/scenario"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ScenarioHandler handles multi-target comparisons
type ScenarioHandler struct {
	priceLoader
	adder float64
}

// NewScenarioHandler creates a new scenario handler
func NewScenarioHandler(d AnalysisDeps) *ScenarioHandler {
	h := NewAnalysisHandler(d)
	return &ScenarioHandler{priceLoader: h.priceLoader, adder: h.defaults.Transmission.Adder}
}

// RunScenarios handles POST /api/v1/scenarios
func (h *ScenarioHandler) RunScenarios(c *gin.Context) {
	var req models.ScenarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	window, err := parseWindow(req.WindowStart, req.WindowEnd)
	if err != nil {
		writeError(c, err)
		return
	}
	points, err := h.load(c.Request.Context(), req.Prices, req.DataSource)
	if err != nil {
		writeError(c, err)
		return
	}
	adder := h.adder
	if req.TransmissionAdder != nil {
		adder = *req.TransmissionAdder
	}

	results, err := scenario.NewRunner(adder, h.log).Run(c.Request.Context(), points, window, req.Targets)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := models.ScenarioResponse{
		ID:        uuid.NewString(),
		Scenarios: make([]models.ScenarioResult, len(results)),
	}
	for i, r := range results {
		out := models.ScenarioResult{UptimePercentage: r.UptimePercentage, Analysis: r.Analysis}
		if r.Err != nil {
			_, detail := errorDetail(r.Err)
			out.Error = &detail
		}
		resp.Scenarios[i] = out
	}
	c.JSON(http.StatusOK, resp)
}
