package strategy

import (
	"fmt"
	"sort"

	"uptime-optimizer/internal/analysis"
	"uptime-optimizer/internal/logger"
	"uptime-optimizer/internal/model"
)

const (
	// lookaheadHours bounds how far an event may be extended forward.
	lookaheadHours = 12
	// extendThreshold is the price/baseline ratio that keeps an event going.
	extendThreshold = 1.10
)

// ConstrainedParams configures the baseline-aware scheduler.
// MaxShutdownHours defaults to the downtime allowed by TargetUptimePercent.
type ConstrainedParams struct {
	TargetUptimePercent float64
	MaxShutdownHours    int
	Constraints         model.OperationalConstraints
	TransmissionAdder   float64
	Logger              logger.Logger
}

// ConstrainedStrategy builds multi-hour events around hours priced above
// their rolling baseline, honoring minimum duration and weekly limits.
type ConstrainedStrategy struct {
	plan
	params     ConstrainedParams
	baselines  []float64
	violations []string
	sum        summary
}

type opportunity struct {
	index   int
	premium float64
}

// NewConstrainedStrategy schedules events greedily by premium over baseline.
// Constraint conflicts are reported through Violations and never fail the run.
func NewConstrainedStrategy(points []model.PricePoint, baseline analysis.Baseline, params ConstrainedParams) (*ConstrainedStrategy, error) {
	if err := model.ValidateTargetUptime(params.TargetUptimePercent); err != nil {
		return nil, err
	}
	if err := requirePoints(points); err != nil {
		return nil, err
	}
	if err := params.Constraints.Validate(); err != nil {
		return nil, &model.InvalidParameterError{
			Param: "constraints", Value: params.Constraints, Reason: model.ReasonInvalid, Detail: err.Error(),
		}
	}
	if params.MaxShutdownHours <= 0 {
		params.MaxShutdownHours = model.AllowedDowntimeHours(len(points), params.TargetUptimePercent)
	}
	if params.Logger == nil {
		params.Logger = logger.NopLogger{}
	}

	s := &ConstrainedStrategy{
		plan: plan{
			points:    points,
			curtailed: make([]bool, len(points)),
		},
		params:    params,
		baselines: make([]float64, len(points)),
	}
	for i, p := range points {
		s.baselines[i] = baseline.Nearest(p.Datetime)
	}
	s.schedule()
	s.sum = s.summarize(params.TransmissionAdder)

	params.Logger.Debugw("constrained schedule built", map[string]any{
		"events":         len(s.events),
		"shutdown_hours": s.sum.shutdownHours,
		"budget_hours":   params.MaxShutdownHours,
		"violations":     len(s.violations),
	})
	return s, nil
}

func (s *ConstrainedStrategy) Name() string { return "constrained" }
func (s *ConstrainedStrategy) Kind() Kind   { return KindConstrained }

// Violations lists the constraint conflicts met while scheduling.
func (s *ConstrainedStrategy) Violations() []string {
	out := make([]string, len(s.violations))
	copy(out, s.violations)
	return out
}

// TotalShutdownHours is the sum of event durations.
func (s *ConstrainedStrategy) TotalShutdownHours() int { return s.sum.shutdownHours }

func (s *ConstrainedStrategy) Result() *model.AnalysisResult {
	return s.result(s.Name(), s.params.TargetUptimePercent, s.params.MaxShutdownHours, s.sum)
}

func (s *ConstrainedStrategy) opportunities() []opportunity {
	out := make([]opportunity, 0, len(s.points))
	for i, p := range s.points {
		if premium := p.Price - s.baselines[i]; premium > 0 {
			out = append(out, opportunity{index: i, premium: premium})
		}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].premium > out[b].premium })
	return out
}

func (s *ConstrainedStrategy) schedule() {
	c := s.params.Constraints
	budget := s.params.MaxShutdownHours
	perWeek := make(map[string]int)
	running := 0

	for _, opp := range s.opportunities() {
		if running >= budget {
			break
		}
		i := opp.index
		if s.curtailed[i] {
			continue
		}
		at := s.points[i].Datetime
		year, wk := at.ISOWeek()
		week := fmt.Sprintf("%d-W%02d", year, wk)
		if perWeek[week] >= c.MaximumShutdownsPerWeek {
			s.violations = append(s.violations, fmt.Sprintf(
				"week %s: limit of %d shutdowns reached, skipped %s",
				week, c.MaximumShutdownsPerWeek, at.Format("2006-01-02 15:04")))
			continue
		}

		duration := max(c.MinimumShutdownDurationHours, min(model.MaxEventHours, s.consecutiveHigh(i)))
		if i+duration > len(s.points) {
			s.violations = append(s.violations, fmt.Sprintf(
				"%dh event at %s would run past the end of the series",
				duration, at.Format("2006-01-02 15:04")))
			continue
		}
		if s.overlaps(i, duration) || running+duration > budget {
			continue
		}

		for j := i; j < i+duration; j++ {
			s.curtailed[j] = true
		}
		ev := model.NewEvent(s.points[i:i+duration], s.baselines[i:i+duration], s.params.TransmissionAdder)
		ev.OperationalCost = c.OperationalCostPerEvent()
		s.events = append(s.events, ev)
		perWeek[week]++
		running += duration
	}

	sort.Slice(s.events, func(a, b int) bool { return s.events[a].Start.Before(s.events[b].Start) })
}

// consecutiveHigh counts hours from i, up to lookaheadHours, priced at least
// extendThreshold times their baseline.
func (s *ConstrainedStrategy) consecutiveHigh(i int) int {
	n := 0
	for j := i; j < len(s.points) && j-i < lookaheadHours; j++ {
		if s.points[j].Price < extendThreshold*s.baselines[j] {
			break
		}
		n++
	}
	return n
}

func (s *ConstrainedStrategy) overlaps(i, duration int) bool {
	for j := i; j < i+duration; j++ {
		if s.curtailed[j] {
			return true
		}
	}
	return false
}
