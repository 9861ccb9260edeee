package strategy

import (
	"math"
	"sort"

	"uptime-optimizer/internal/logger"
	"uptime-optimizer/internal/model"
)

// DefaultTransmissionAdder is the static transmission cost in currency/MWh.
const DefaultTransmissionAdder = 11.63

// diagnosticPrices is how many offending prices an invariant error carries.
const diagnosticPrices = 5

// DeterministicParams configures the price-ranking optimizer.
type DeterministicParams struct {
	TargetUptimePercent float64
	TransmissionAdder   float64
	Logger              logger.Logger
}

// DeterministicStrategy curtails the most expensive hours of a series until
// the uptime target is met. Each curtailed hour is its own one-hour event.
type DeterministicStrategy struct {
	plan
	params  DeterministicParams
	allowed int
	sum     summary
}

// NewDeterministicStrategy validates the target, ranks hours by price and
// checks that curtailment lowered the average price. On an invariant failure
// it returns a *model.ComputationInvariantError and no strategy.
func NewDeterministicStrategy(points []model.PricePoint, params DeterministicParams) (*DeterministicStrategy, error) {
	if err := model.ValidateTargetUptime(params.TargetUptimePercent); err != nil {
		return nil, err
	}
	if err := requirePoints(points); err != nil {
		return nil, err
	}
	if params.Logger == nil {
		params.Logger = logger.NopLogger{}
	}

	s := &DeterministicStrategy{
		plan: plan{
			points:    points,
			curtailed: make([]bool, len(points)),
		},
		params:  params,
		allowed: model.AllowedDowntimeHours(len(points), params.TargetUptimePercent),
	}

	order := rankByPrice(points)
	for _, idx := range order[:s.allowed] {
		s.curtailed[idx] = true
	}
	for i := range points {
		if s.curtailed[i] {
			ev := model.NewEvent(points[i:i+1], nil, params.TransmissionAdder)
			s.events = append(s.events, ev)
		}
	}
	s.sum = s.summarize(params.TransmissionAdder)

	if s.allowed > 0 && !strictlyBelow(s.sum.optimizedAverage, s.sum.originalAverage) {
		err := s.invariantError(order)
		params.Logger.Errorw("curtailment did not lower the average price", map[string]any{
			"target_uptime_percent": err.TargetUptimePercent,
			"series_length":         err.SeriesLength,
			"shutdown_hours":        err.ShutdownHours,
			"original_average":      err.OriginalAverage,
			"optimized_average":     err.OptimizedAverage,
			"top_shutdown_prices":   err.TopShutdownPrices,
			"bottom_running_prices": err.BottomRunningPrices,
		})
		return nil, err
	}
	return s, nil
}

func (s *DeterministicStrategy) Name() string { return "deterministic" }
func (s *DeterministicStrategy) Kind() Kind   { return KindDeterministic }

// Result returns a fresh copy of the run summary.
func (s *DeterministicStrategy) Result() *model.AnalysisResult {
	return s.result(s.Name(), s.params.TargetUptimePercent, s.allowed, s.sum)
}

// Curtailed reports whether hour i of the series is curtailed.
func (s *DeterministicStrategy) Curtailed(i int) bool {
	return i >= 0 && i < len(s.curtailed) && s.curtailed[i]
}

func (s *DeterministicStrategy) invariantError(order []int) *model.ComputationInvariantError {
	top := order[:min(s.allowed, diagnosticPrices)]
	running := order[s.allowed:]
	bottom := running[max(0, len(running)-diagnosticPrices):]

	err := &model.ComputationInvariantError{
		TargetUptimePercent: s.params.TargetUptimePercent,
		SeriesLength:        len(s.points),
		ShutdownHours:       s.sum.shutdownHours,
		ShutdownSavings:     s.sum.savings,
		OriginalAverage:     s.sum.originalAverage,
		OptimizedAverage:    s.sum.optimizedAverage,
	}
	for _, i := range top {
		err.TopShutdownPrices = append(err.TopShutdownPrices, s.points[i].Price)
	}
	for _, i := range bottom {
		err.BottomRunningPrices = append(err.BottomRunningPrices, s.points[i].Price)
	}
	return err
}

// rankByPrice returns series indices ordered by price descending; equal
// prices keep chronological order.
func rankByPrice(points []model.PricePoint) []int {
	order := make([]int, len(points))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return points[order[a]].Price > points[order[b]].Price
	})
	return order
}

// strictlyBelow compares with a tolerance scaled to the magnitude of ref, so
// equal averages (a flat market) do not pass.
func strictlyBelow(x, ref float64) bool {
	eps := 1e-9 * math.Max(1, math.Abs(ref))
	return x < ref-eps
}
