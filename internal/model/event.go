package model

import "time"

// MaxEventHours is the hard cap on the length of a single curtailment event.
const MaxEventHours = 8

// ShutdownEvent is one contiguous curtailment block.
// Savings are per MW of curtailed load, in currency.
type ShutdownEvent struct {
	Date          time.Time `json:"date"`
	StartHour     int       `json:"start_hour"`
	Start         time.Time `json:"start"`
	DurationHours int       `json:"duration_hours"`

	PeakPrice     float64 `json:"peak_price"`
	AveragePrice  float64 `json:"average_price"`
	BaselinePrice float64 `json:"baseline_price"`

	EnergySavings   float64 `json:"energy_savings"`
	AllInSavings    float64 `json:"all_in_savings"`
	OperationalCost float64 `json:"operational_cost"`
}

// End is the first hour after the event.
func (e ShutdownEvent) End() time.Time {
	return e.Start.Add(time.Duration(e.DurationHours) * time.Hour)
}

// NewEvent summarizes a run of consecutive curtailed points.
// baselines must be parallel to points.
func NewEvent(points []PricePoint, baselines []float64, transmissionAdder float64) ShutdownEvent {
	if len(points) == 0 {
		return ShutdownEvent{}
	}
	first := points[0]
	ev := ShutdownEvent{
		Date:          first.Date,
		StartHour:     first.Hour,
		Start:         first.Datetime,
		DurationHours: len(points),
		PeakPrice:     first.Price,
	}
	var baseSum float64
	for i, p := range points {
		ev.EnergySavings += p.Price
		ev.AllInSavings += p.Price + transmissionAdder
		if p.Price > ev.PeakPrice {
			ev.PeakPrice = p.Price
		}
		if i < len(baselines) {
			baseSum += baselines[i]
		}
	}
	ev.AveragePrice = ev.EnergySavings / float64(len(points))
	if len(baselines) > 0 {
		ev.BaselinePrice = baseSum / float64(min(len(baselines), len(points)))
	}
	return ev
}
