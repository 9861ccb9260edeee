package backtest

import (
	"time"

	"uptime-optimizer/internal/model"
)

// LedgerRow is one row of per-hour output for a 1 MW flexible load.
// This is the primary artifact for "what happened" in a run.
type LedgerRow struct {
	Index int

	Datetime time.Time
	Hour     int

	Price    float64
	Baseline float64

	Action model.Action

	// EnergyMWh is 1 when running and 0 when curtailed.
	EnergyMWh float64
	Cost      float64
	CumCost   float64

	// Savings is the price avoided by curtailing this hour.
	Savings    float64
	CumSavings float64
}

type Result struct {
	Ledger []LedgerRow

	RunningHours   int
	CurtailedHours int
	TotalCost      float64
	TotalSavings   float64
}

// EffectivePrice is the average price paid per MWh actually consumed.
func (r *Result) EffectivePrice() float64 {
	if r.RunningHours == 0 {
		return 0
	}
	return r.TotalCost / float64(r.RunningHours)
}
