package models

import (
	"time"

	"uptime-optimizer/internal/analysis"
	"uptime-optimizer/internal/data"
	"uptime-optimizer/internal/model"
	"uptime-optimizer/internal/risk"
)

// AnalysisResponse represents the response from an analysis run
type AnalysisResponse struct {
	ID            string                `json:"id"`
	Status        string                `json:"status"`
	Result        *model.AnalysisResult `json:"result"`
	Stats         analysis.SeriesStats  `json:"stats"`
	Baseline      analysis.Baseline     `json:"baseline"`
	Normalization data.NormalizeReport  `json:"normalization"`
	Synthetic     bool                  `json:"synthetic"`
	Violations    []string              `json:"violations,omitempty"`
	Risk          *risk.Assessment      `json:"risk,omitempty"`
	Currency      *data.RateQuote       `json:"currency,omitempty"`
	Ledger        []LedgerRow           `json:"ledger,omitempty"`
}

// LedgerRow represents one hour in the analysis ledger
type LedgerRow struct {
	Index      int       `json:"index"`
	Datetime   time.Time `json:"datetime"`
	Price      float64   `json:"price"`
	Baseline   float64   `json:"baseline"`
	Action     string    `json:"action"` // "RUNNING", "CURTAILED"
	Cost       float64   `json:"cost"`
	Savings    float64   `json:"savings"`
	CumSavings float64   `json:"cum_savings"`
}

// ScenarioResponse lists one result per requested target, in request order.
type ScenarioResponse struct {
	ID        string           `json:"id"`
	Scenarios []ScenarioResult `json:"scenarios"`
}

// ScenarioResult is one target's analysis or its error.
type ScenarioResult struct {
	UptimePercentage float64               `json:"uptime_percentage"`
	Analysis         *model.AnalysisResult `json:"analysis,omitempty"`
	Error            *ErrorDetail          `json:"error,omitempty"`
}

// RankResponse represents the response from ranking locations
type RankResponse struct {
	Rankings []Ranking `json:"rankings"`
}

// Ranking represents one ranked location
type Ranking struct {
	Rank                 int     `json:"rank"`
	Location             string  `json:"location"`
	Count                int     `json:"count"`
	Mean                 float64 `json:"mean"`
	SpreadP95P05         float64 `json:"spread_p95_p05"`
	Min                  float64 `json:"min"`
	Max                  float64 `json:"max"`
	CurtailmentPotential float64 `json:"curtailment_potential"`
}

// FacilityInfo represents information about a facility preset
type FacilityInfo struct {
	ID          string                       `json:"id"`
	Name        string                       `json:"name"`
	Description string                       `json:"description,omitempty"`
	Market      string                       `json:"market,omitempty"`
	Constraints model.OperationalConstraints `json:"constraints"`
}

// StrategyInfo represents information about a strategy
type StrategyInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  []ParameterInfo `json:"parameters"`
}

// ParameterInfo describes a strategy parameter
type ParameterInfo struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"` // "float", "int", "string"
	Description string      `json:"description"`
	Default     interface{} `json:"default,omitempty"`
}

// DatasetInfo represents information about a Grid Status dataset
type DatasetInfo struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Market     string `json:"market"`
	Resolution string `json:"resolution"`
	Currency   string `json:"currency"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
