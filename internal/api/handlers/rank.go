package handlers

import (
	"net/http"
	"strings"

	"uptime-optimizer/internal/analysis"
	"uptime-optimizer/internal/api/models"
	"uptime-optimizer/internal/data"
	"uptime-optimizer/internal/model"

	"github.com/gin-gonic/gin"
)

// RankHandler handles ranking-related requests
type RankHandler struct {
	priceLoader
}

// NewRankHandler creates a new rank handler
func NewRankHandler(d AnalysisDeps) *RankHandler {
	return &RankHandler{priceLoader: newPriceLoader(d)}
}

// RankLocations handles GET /api/v1/rank
func (h *RankHandler) RankLocations(c *gin.Context) {
	var req models.RankRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}

	var locationIDs []string
	for _, id := range strings.Split(req.LocationIDs, ",") {
		if id = strings.TrimSpace(id); id != "" {
			locationIDs = append(locationIDs, id)
		}
	}
	if len(locationIDs) == 0 {
		badRequest(c, "LOCATIONS_REQUIRED", "Please specify location_ids query parameter (comma-separated)")
		return
	}

	byLoc := make(map[string][]model.PricePoint)
	for _, locID := range locationIDs {
		raw, err := h.load(c.Request.Context(), nil, &models.DataSourceConfig{
			Type:       "gridstatus",
			APIKey:     req.APIKey,
			DatasetID:  req.DatasetID,
			LocationID: locID,
			StartDate:  req.StartDate,
			EndDate:    req.EndDate,
		})
		if err != nil {
			status, _ := errorDetail(err)
			// Auth, rate limit and parameter problems apply to every location.
			if status != http.StatusBadGateway {
				writeError(c, err)
				return
			}
			h.log.Warnf("rank: skipping location %s: %v", locID, err)
			continue
		}
		points, _, err := data.NormalizeSeries(raw, model.Window{})
		if err != nil {
			h.log.Warnf("rank: no usable prices for %s: %v", locID, err)
			continue
		}
		byLoc[locID] = points
	}

	ranked := analysis.RankByCurtailmentPotential(byLoc)

	limit := req.Limit
	if limit <= 0 {
		limit = 10
	}
	if limit > len(ranked) {
		limit = len(ranked)
	}
	ranked = ranked[:limit]

	rankings := make([]models.Ranking, len(ranked))
	for i, r := range ranked {
		rankings[i] = models.Ranking{
			Rank:                 i + 1,
			Location:             r.Location,
			Count:                r.Count,
			Mean:                 r.Mean,
			SpreadP95P05:         r.SpreadP95P05,
			Min:                  r.Min,
			Max:                  r.Max,
			CurtailmentPotential: r.CurtailmentPotential,
		}
	}
	c.JSON(http.StatusOK, models.RankResponse{Rankings: rankings})
}
