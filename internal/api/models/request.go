package models

// AnalysisRequest represents the request body for running an analysis.
// Prices, Daily and DataSource are alternatives; Prices wins when set.
type AnalysisRequest struct {
	Prices        []PricePointInput `json:"prices,omitempty"`
	Daily         []DailyPriceInput `json:"daily,omitempty"`
	PeriodAverage float64           `json:"period_average,omitempty"`
	DataSource    *DataSourceConfig `json:"data_source,omitempty"`

	TargetUptimePercent *float64 `json:"target_uptime_percent" binding:"required"`
	Strategy            string   `json:"strategy,omitempty"`     // "deterministic" (default), "constrained", "schedule"
	WindowStart         string   `json:"window_start,omitempty"` // analysis window, YYYY-MM-DD or RFC3339
	WindowEnd           string   `json:"window_end,omitempty"`
	ScheduleStart       string   `json:"schedule_start,omitempty"` // "schedule" strategy only, HH:MM
	ScheduleEnd         string   `json:"schedule_end,omitempty"`

	TransmissionAdder  *float64          `json:"transmission_adder,omitempty"` // default: 11.63
	FacilityID         string            `json:"facility_id,omitempty"`
	Constraints        *ConstraintsInput `json:"constraints,omitempty"`
	BaselineWindowDays int               `json:"baseline_window_days,omitempty"`

	Risk     RiskOptions `json:"risk,omitempty"`
	Currency string      `json:"currency,omitempty"` // reporting currency, e.g. "USD"
	Options  Options     `json:"options,omitempty"`
}

// PricePointInput is one hourly price. A null price is a missing hour.
type PricePointInput struct {
	Date     string   `json:"date,omitempty"` // YYYY-MM-DD
	Hour     int      `json:"hour"`
	Datetime string   `json:"datetime,omitempty"` // RFC3339
	Price    *float64 `json:"price"`
}

// DailyPriceInput is a day with an optional average price.
type DailyPriceInput struct {
	Date         string   `json:"date" binding:"required"`
	AveragePrice *float64 `json:"average_price,omitempty"`
}

// DataSourceConfig defines how to fetch market data
type DataSourceConfig struct {
	Type       string `json:"type" binding:"required"` // "gridstatus"
	APIKey     string `json:"api_key" binding:"required"`
	DatasetID  string `json:"dataset_id" binding:"required"`
	LocationID string `json:"location_id" binding:"required"`
	StartDate  string `json:"start_date" binding:"required"` // YYYY-MM-DD
	EndDate    string `json:"end_date" binding:"required"`   // YYYY-MM-DD
}

// ConstraintsInput overrides facility constraints; zero fields keep the preset.
type ConstraintsInput struct {
	StartupCostPerMW             float64 `json:"startup_cost_per_mw,omitempty"`
	ShutdownCostPerMW            float64 `json:"shutdown_cost_per_mw,omitempty"`
	MinimumShutdownDurationHours int     `json:"minimum_shutdown_duration_hours,omitempty"`
	MaximumShutdownsPerWeek      int     `json:"maximum_shutdowns_per_week,omitempty"`
	RampingTimeMinutes           int     `json:"ramping_time_minutes,omitempty"`
}

// RiskOptions enables the risk calculator.
type RiskOptions struct {
	Enabled    bool  `json:"enabled"`
	Iterations int   `json:"iterations,omitempty"` // default: 1000
	Seed       int64 `json:"seed,omitempty"`
}

// Options contains optional output parameters
type Options struct {
	IncludeLedger bool `json:"include_ledger,omitempty"` // default: false
}

// ScenarioRequest compares several uptime targets over one series.
type ScenarioRequest struct {
	Prices            []PricePointInput `json:"prices,omitempty"`
	DataSource        *DataSourceConfig `json:"data_source,omitempty"`
	Targets           []float64         `json:"targets,omitempty"` // default: 100,97,96,95,90,85,80
	TransmissionAdder *float64          `json:"transmission_adder,omitempty"`
	WindowStart       string            `json:"window_start,omitempty"`
	WindowEnd         string            `json:"window_end,omitempty"`
}

// RankRequest represents a request to rank locations
type RankRequest struct {
	APIKey      string `form:"api_key" binding:"required"` // Grid Status API key
	DatasetID   string `form:"dataset_id" binding:"required"`
	StartDate   string `form:"start_date" binding:"required"`
	EndDate     string `form:"end_date" binding:"required"`
	LocationIDs string `form:"location_ids" binding:"required"` // comma-separated
	Limit       int    `form:"limit,omitempty"`                 // default: 10
}
