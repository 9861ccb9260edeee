package scenario

import (
	"context"
	"sync"

	"uptime-optimizer/internal/analysis"
	"uptime-optimizer/internal/data"
	"uptime-optimizer/internal/logger"
	"uptime-optimizer/internal/model"
	"uptime-optimizer/internal/strategy"
)

// DefaultTargets are the uptime percentages compared side by side.
var DefaultTargets = []float64{100, 97, 96, 95, 90, 85, 80}

// Result is one target's outcome. Exactly one of Analysis and Err is set.
type Result struct {
	UptimePercentage float64               `json:"uptime_percentage"`
	Analysis         *model.AnalysisResult `json:"analysis,omitempty"`
	Err              error                 `json:"-"`
}

// Runner evaluates the deterministic optimizer at several uptime targets
// over the same window.
type Runner struct {
	TransmissionAdder float64
	Logger            logger.Logger
}

func NewRunner(adder float64, log logger.Logger) *Runner {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Runner{TransmissionAdder: adder, Logger: log}
}

// Run filters points to w once, then runs every target concurrently. Results
// are in the order of targets; a failing target does not affect the others.
// An empty targets slice means DefaultTargets.
func (r *Runner) Run(ctx context.Context, points []model.PricePoint, w model.Window, targets []float64) ([]Result, error) {
	if len(targets) == 0 {
		targets = DefaultTargets
	}
	series, rep, err := data.NormalizeSeries(points, w)
	if err != nil {
		return nil, err
	}
	if rep.Kept < rep.Input {
		r.Logger.Debugf("scenario series: kept %d of %d points", rep.Kept, rep.Input)
	}
	dist := analysis.PriceDistribution(series)

	results := make([]Result, len(targets))
	var wg sync.WaitGroup
	for i, target := range targets {
		results[i].UptimePercentage = target
		wg.Add(1)
		go func(i int, target float64) {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return
			}
			s, err := strategy.NewDeterministicStrategy(series, strategy.DeterministicParams{
				TargetUptimePercent: target,
				TransmissionAdder:   r.TransmissionAdder,
				Logger:              r.Logger,
			})
			if err != nil {
				r.Logger.Warnf("scenario %.2f%% failed: %v", target, err)
				results[i].Err = err
				return
			}
			res := s.Result()
			// each result owns its buckets
			res.Distribution = append([]model.PriceBucket(nil), dist...)
			results[i].Analysis = res
		}(i, target)
	}
	wg.Wait()
	return results, ctx.Err()
}
