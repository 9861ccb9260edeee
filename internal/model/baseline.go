package model

import "time"

// BaselineWindow is the trailing-window estimate of "normal" price at one hour.
// Volatility is the population standard deviation of the window.
type BaselineWindow struct {
	Datetime   time.Time `json:"datetime"`
	Average    float64   `json:"average"`
	Volatility float64   `json:"volatility"`
	Confidence float64   `json:"confidence"`
}

// Confidence bounds for a baseline window.
const (
	MinConfidence = 0.6
	MaxConfidence = 0.95
)

// BaselineConfidence is clamp(1 - volatility/average, 0.6, 0.95). A zero
// average has no meaningful relative spread and gets the minimum.
func BaselineConfidence(average, volatility float64) float64 {
	if average == 0 {
		return MinConfidence
	}
	c := 1 - volatility/average
	return min(MaxConfidence, max(MinConfidence, c))
}
