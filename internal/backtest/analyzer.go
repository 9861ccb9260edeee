package backtest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"uptime-optimizer/internal/analysis"
	"uptime-optimizer/internal/data"
	"uptime-optimizer/internal/logger"
	"uptime-optimizer/internal/metrics"
	"uptime-optimizer/internal/model"
	"uptime-optimizer/internal/risk"
	"uptime-optimizer/internal/strategy"
)

// Request is everything one analysis run depends on. Hourly Points take
// precedence; Daily records are expanded synthetically only when no hourly
// point survives normalization.
type Request struct {
	Points        []model.PricePoint
	Daily         []model.DailyPrice
	PeriodAverage float64
	Window        model.Window

	Strategy            strategy.Kind
	TargetUptimePercent float64
	TransmissionAdder   float64
	Constraints         model.OperationalConstraints
	BaselineWindowDays  int
	Schedule            strategy.ScheduleParams

	// Risk is skipped entirely when false.
	Risk                 bool
	MonteCarloIterations int
	MonteCarloSeed       int64
}

// Report is the full output of an analysis run.
type Report struct {
	Result        *model.AnalysisResult `json:"result"`
	Stats         analysis.SeriesStats  `json:"stats"`
	Baseline      analysis.Baseline     `json:"baseline"`
	Normalization data.NormalizeReport  `json:"normalization"`
	Synthetic     bool                  `json:"synthetic"`
	Violations    []string              `json:"violations,omitempty"`
	Risk          *risk.Assessment      `json:"risk,omitempty"`
	Ledger        *Result               `json:"-"`
}

type Analyzer struct {
	log    logger.Logger
	engine *Engine
}

func NewAnalyzer(log logger.Logger) *Analyzer {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Analyzer{log: log, engine: New()}
}

// Analyze validates the request, prepares the series, runs the selected
// strategy through the hourly ledger and, if requested, the risk calculator.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (*Report, error) {
	started := time.Now()
	kind := req.Strategy
	if kind == "" {
		kind = strategy.KindDeterministic
	}

	rep, err := a.analyze(ctx, kind, req)
	hours := 0
	if rep != nil {
		hours = rep.Result.TotalShutdownHours
	}
	label := string(kind)
	if _, perr := strategy.ParseKind(label); perr != nil {
		label = "unknown"
	}
	metrics.ObserveRun(label, outcome(err), time.Since(started).Seconds(), hours)
	if err != nil {
		a.log.Warnf("analysis failed (strategy=%s, target=%.2f): %v", kind, req.TargetUptimePercent, err)
		return nil, err
	}
	a.log.Infof("analysis done (strategy=%s, target=%.2f, hours=%d, curtailed=%d, savings=%.2f)",
		kind, req.TargetUptimePercent, rep.Result.TotalHours, hours, rep.Result.TotalSavings)
	return rep, nil
}

func (a *Analyzer) analyze(ctx context.Context, kind strategy.Kind, req Request) (*Report, error) {
	if err := model.ValidateTargetUptime(req.TargetUptimePercent); err != nil {
		return nil, err
	}
	if _, err := strategy.ParseKind(string(kind)); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	series, norm, synthetic, err := a.prepare(req)
	if err != nil {
		return nil, err
	}
	baseline := analysis.RollingBaseline(series, req.BaselineWindowDays)

	var (
		strat      strategy.Strategy
		violations []string
	)
	switch kind {
	case strategy.KindConstrained:
		s, err := strategy.NewConstrainedStrategy(series, baseline, strategy.ConstrainedParams{
			TargetUptimePercent: req.TargetUptimePercent,
			Constraints:         req.Constraints,
			TransmissionAdder:   req.TransmissionAdder,
			Logger:              a.log,
		})
		if err != nil {
			return nil, err
		}
		strat, violations = s, s.Violations()
	case strategy.KindSchedule:
		p := req.Schedule
		p.TargetUptimePercent = req.TargetUptimePercent
		p.TransmissionAdder = req.TransmissionAdder
		s, err := strategy.NewScheduleStrategy(series, p)
		if err != nil {
			return nil, err
		}
		strat = s
	default:
		s, err := strategy.NewDeterministicStrategy(series, strategy.DeterministicParams{
			TargetUptimePercent: req.TargetUptimePercent,
			TransmissionAdder:   req.TransmissionAdder,
			Logger:              a.log,
		})
		if err != nil {
			return nil, err
		}
		strat = s
	}

	ledger, err := a.engine.Run(series, strat, baseline)
	if err != nil {
		return nil, fmt.Errorf("ledger: %w", err)
	}

	res := strat.Result()
	res.Distribution = analysis.PriceDistribution(series)
	rep := &Report{
		Result:        res,
		Stats:         analysis.ComputeSeriesStats(series),
		Baseline:      baseline,
		Normalization: norm,
		Synthetic:     synthetic,
		Violations:    violations,
		Ledger:        ledger,
	}
	rep.Baseline.Windows = nil

	if req.Risk {
		iterations := req.MonteCarloIterations
		if iterations == 0 {
			iterations = risk.DefaultIterations
		}
		calc := risk.NewCalculator(risk.Params{
			Constraints:       req.Constraints,
			TransmissionAdder: req.TransmissionAdder,
			Iterations:        iterations,
			Seed:              req.MonteCarloSeed,
			Logger:            a.log,
		})
		assessment, err := calc.Assess(ctx, res.Events, baseline, series)
		if err != nil {
			return nil, err
		}
		rep.Risk = assessment
	}
	return rep, nil
}

// prepare normalizes hourly points or, when there are none, expands daily
// records into a synthetic hourly series.
func (a *Analyzer) prepare(req Request) ([]model.PricePoint, data.NormalizeReport, bool, error) {
	series, norm, err := data.NormalizeSeries(req.Points, req.Window)
	if err == nil {
		if dropped := norm.Input - norm.Kept; dropped > 0 {
			a.log.Debugw("dropped unusable price points", map[string]any{
				"missing_price":   norm.MissingPrice,
				"invalid_hour":    norm.InvalidHour,
				"outside_window":  norm.OutsideWindow,
				"duplicate_hours": norm.DuplicateHours,
			})
		}
		return series, norm, false, nil
	}
	if len(req.Daily) == 0 {
		return nil, norm, false, err
	}

	a.log.Infof("no hourly prices, expanding %d daily records (period average %.2f)", len(req.Daily), req.PeriodAverage)
	series, norm, err = data.NormalizeSeries(data.ExpandDaily(req.Daily, req.PeriodAverage), req.Window)
	return series, norm, true, err
}

func outcome(err error) string {
	var (
		ipe *model.InvalidParameterError
		ide *model.InsufficientDataError
		cie *model.ComputationInvariantError
	)
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.As(err, &ipe):
		return metrics.OutcomeInvalid
	case errors.As(err, &ide):
		return metrics.OutcomeNoData
	case errors.As(err, &cie):
		return metrics.OutcomeInvariant
	default:
		return metrics.OutcomeError
	}
}
