package model

// PriceBucket is one bar of the price histogram.
type PriceBucket struct {
	Label string `json:"label"`
	// Min is exclusive and Max inclusive; the first bucket has no Min and the
	// last has no Max.
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// AnalysisResult is the externally consumed artifact of one optimization run.
// Money values are per MW of flexible load over the analysed window.
type AnalysisResult struct {
	Strategy            string  `json:"strategy"`
	TargetUptimePercent float64 `json:"target_uptime_percent"`

	TotalHours           int     `json:"total_hours"`
	AllowedDowntimeHours int     `json:"allowed_downtime_hours"`
	TotalShutdownHours   int     `json:"total_shutdown_hours"`
	DowntimePercentage   float64 `json:"downtime_percentage"`

	TotalSavings      float64 `json:"total_savings"`
	TotalAllInSavings float64 `json:"total_all_in_savings"`
	NewAveragePrice   float64 `json:"new_average_price"`
	OriginalAverage   float64 `json:"original_average"`

	Events       []ShutdownEvent `json:"events"`
	Distribution []PriceBucket   `json:"distribution,omitempty"`
}
