package config

import (
	"time"

	"uptime-optimizer/internal/backtest"
	"uptime-optimizer/internal/model"
	"uptime-optimizer/internal/strategy"
)

// Request builds an analysis request for points from the configuration.
func (c *Config) Request(points []model.PricePoint, w model.Window) backtest.Request {
	return backtest.Request{
		Points:              points,
		Window:              w,
		Strategy:            strategy.Kind(c.Strategy.Name),
		TargetUptimePercent: c.Analysis.TargetUptimePercent,
		TransmissionAdder:   c.Transmission.Adder,
		Constraints:         c.Constraints,
		BaselineWindowDays:  c.Analysis.BaselineWindowDays,
		Schedule: strategy.ScheduleParams{
			WindowStart: c.Strategy.WindowStart,
			WindowEnd:   c.Strategy.WindowEnd,
		},
		Risk:                 c.Risk.Enabled,
		MonteCarloIterations: c.Risk.MonteCarloIterations,
		MonteCarloSeed:       c.Risk.Seed,
	}
}

// Window is the analysis window ending at now.
func (c *Config) Window(now time.Time) model.Window {
	return model.LastNDays(now, c.Analysis.WindowDays)
}
