package api

import (
	"net/http"
	"strings"

	"uptime-optimizer/internal/api/handlers"
	"uptime-optimizer/internal/api/middleware"
	"uptime-optimizer/internal/config"
	"uptime-optimizer/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires middleware and routes. StaticDir, when it exists, is
// served as a single page app for every non-API path.
func NewRouter(d handlers.AnalysisDeps, staticDir string) *gin.Engine {
	if d.Logger == nil {
		d.Logger = logger.NopLogger{}
	}
	if d.Config == nil {
		d.Config = config.Default()
	}

	router := gin.New()
	router.Use(middleware.Logger(d.Logger))
	router.Use(middleware.ErrorHandler(d.Logger))
	router.Use(middleware.CORS(d.Config.Server.CORSOrigins...))

	analysisHandler := handlers.NewAnalysisHandler(d)
	scenarioHandler := handlers.NewScenarioHandler(d)
	facilityHandler := handlers.NewFacilityHandler(d.Config.Server.FacilityDir, d.Logger)
	strategyHandler := handlers.NewStrategyHandler()
	rankHandler := handlers.NewRankHandler(d)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	{
		api.POST("/analysis", analysisHandler.RunAnalysis)
		api.POST("/scenarios", scenarioHandler.RunScenarios)

		api.GET("/facilities", facilityHandler.ListFacilities)
		api.GET("/strategies", strategyHandler.ListStrategies)

		api.GET("/rank", rankHandler.RankLocations)
		api.GET("/datasets", handlers.ListDatasets)
	}

	if staticDir != "" {
		router.Static("/assets", staticDir+"/assets")
		router.StaticFile("/favicon.ico", staticDir+"/favicon.ico")
		router.NoRoute(func(c *gin.Context) {
			if strings.HasPrefix(c.Request.URL.Path, "/api") {
				c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "Not found"}})
				return
			}
			c.File(staticDir + "/index.html")
		})
	}
	return router
}
