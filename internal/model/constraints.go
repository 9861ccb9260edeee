package model

import "errors"

// OperationalConstraints describe how the facility may be curtailed.
// Units:
// - StartupCostPerMW / ShutdownCostPerMW: currency per MW per start/stop
// - MinimumShutdownDurationHours: hours
// - MaximumShutdownsPerWeek: count per ISO week
// - RampingTimeMinutes: minutes
type OperationalConstraints struct {
	StartupCostPerMW             float64 `json:"startup_cost_per_mw" yaml:"startup_cost_per_mw"`
	ShutdownCostPerMW            float64 `json:"shutdown_cost_per_mw" yaml:"shutdown_cost_per_mw"`
	MinimumShutdownDurationHours int     `json:"minimum_shutdown_duration_hours" yaml:"minimum_shutdown_duration_hours"`
	MaximumShutdownsPerWeek      int     `json:"maximum_shutdowns_per_week" yaml:"maximum_shutdowns_per_week"`
	RampingTimeMinutes           int     `json:"ramping_time_minutes" yaml:"ramping_time_minutes"`
}

// DefaultConstraints returns the constraints used when none are configured.
func DefaultConstraints() OperationalConstraints {
	return OperationalConstraints{
		StartupCostPerMW:             150,
		ShutdownCostPerMW:            50,
		MinimumShutdownDurationHours: 2,
		MaximumShutdownsPerWeek:      10,
		RampingTimeMinutes:           15,
	}
}

func (c OperationalConstraints) Validate() error {
	if c.StartupCostPerMW < 0 {
		return errors.New("startup_cost_per_mw must be >= 0")
	}
	if c.ShutdownCostPerMW < 0 {
		return errors.New("shutdown_cost_per_mw must be >= 0")
	}
	if c.MinimumShutdownDurationHours < 1 {
		return errors.New("minimum_shutdown_duration_hours must be >= 1")
	}
	if c.MinimumShutdownDurationHours > MaxEventHours {
		return errors.New("minimum_shutdown_duration_hours must be <= 8")
	}
	if c.MaximumShutdownsPerWeek < 1 {
		return errors.New("maximum_shutdowns_per_week must be >= 1")
	}
	if c.RampingTimeMinutes < 0 {
		return errors.New("ramping_time_minutes must be >= 0")
	}
	return nil
}

// OperationalCostPerEvent is the start/stop cost of one curtailment event,
// normalized to currency/MWh like prices.
func (c OperationalConstraints) OperationalCostPerEvent() float64 {
	return (c.StartupCostPerMW + c.ShutdownCostPerMW) / 1000
}
