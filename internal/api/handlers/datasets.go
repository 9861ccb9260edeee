package handlers

import (
	"net/http"

	"uptime-optimizer/internal/api/models"

	"github.com/gin-gonic/gin"
)

// supportedDatasets are Grid Status price series known to work with the
// gridstatus data source. Sub-hourly series are averaged into hours.
var supportedDatasets = []models.DatasetInfo{
	{
		ID:         "aeso_pool_price",
		Name:       "AESO Pool Price",
		Market:     "AESO",
		Resolution: "1h",
		Currency:   "CAD",
	},
	{
		ID:         "ercot_spp_day_ahead_hourly",
		Name:       "ERCOT SPP Day-Ahead Hourly",
		Market:     "ERCOT",
		Resolution: "1h",
		Currency:   "USD",
	},
	{
		ID:         "caiso_lmp_real_time_5_min",
		Name:       "CAISO LMP Real-Time 5-Min",
		Market:     "CAISO",
		Resolution: "5min",
		Currency:   "USD",
	},
}

// ListDatasets handles GET /api/v1/datasets
func ListDatasets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"datasets": supportedDatasets})
}
