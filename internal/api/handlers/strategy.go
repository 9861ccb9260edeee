package handlers

import (
	"net/http"

	"uptime-optimizer/internal/api/models"
	"uptime-optimizer/internal/model"
	"uptime-optimizer/internal/strategy"

	"github.com/gin-gonic/gin"
)

// StrategyHandler handles strategy-related requests
type StrategyHandler struct{}

// NewStrategyHandler creates a new strategy handler
func NewStrategyHandler() *StrategyHandler {
	return &StrategyHandler{}
}

var commonParameters = []models.ParameterInfo{
	{
		Name:        "target_uptime_percent",
		Type:        "float",
		Description: "Share of hours the facility must run, 50 to 100 with two decimals",
	},
	{
		Name:        "transmission_adder",
		Type:        "float",
		Description: "Static transmission cost added to every avoided MWh",
		Default:     strategy.DefaultTransmissionAdder,
	},
}

// ListStrategies handles GET /api/v1/strategies
func (h *StrategyHandler) ListStrategies(c *gin.Context) {
	def := model.DefaultConstraints()
	strategies := []models.StrategyInfo{
		{
			Name:        string(strategy.KindDeterministic),
			Description: "Perfect foresight ranking. Curtails the most expensive hours until the uptime target is met.",
			Parameters:  commonParameters,
		},
		{
			Name:        string(strategy.KindConstrained),
			Description: "Baseline-aware scheduler. Builds multi-hour events around prices above the rolling baseline, within operational constraints.",
			Parameters: append(append([]models.ParameterInfo{}, commonParameters...),
				models.ParameterInfo{
					Name:        "baseline_window_days",
					Type:        "int",
					Description: "Trailing window of the rolling baseline",
					Default:     7,
				},
				models.ParameterInfo{
					Name:        "minimum_shutdown_duration_hours",
					Type:        "int",
					Description: "Shortest allowed event (events never exceed 8 hours)",
					Default:     def.MinimumShutdownDurationHours,
				},
				models.ParameterInfo{
					Name:        "maximum_shutdowns_per_week",
					Type:        "int",
					Description: "Events allowed per ISO week",
					Default:     def.MaximumShutdownsPerWeek,
				},
			),
		},
		{
			Name:        string(strategy.KindSchedule),
			Description: "Fixed daily window. Curtails the same hours every day regardless of price, as a no-foresight reference.",
			Parameters: append(append([]models.ParameterInfo{}, commonParameters...),
				models.ParameterInfo{
					Name:        "schedule_start",
					Type:        "string",
					Description: "Start of the daily curtailment window (HH:MM)",
					Default:     strategy.DefaultWindowStart,
				},
				models.ParameterInfo{
					Name:        "schedule_end",
					Type:        "string",
					Description: "End of the daily curtailment window (HH:MM)",
					Default:     strategy.DefaultWindowEnd,
				},
			),
		},
	}
	c.JSON(http.StatusOK, gin.H{"strategies": strategies})
}
