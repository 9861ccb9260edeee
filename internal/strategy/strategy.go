package strategy

import (
	"fmt"
	"strings"
	"time"

	"uptime-optimizer/internal/model"
)

// Kind identifies a curtailment algorithm.
type Kind string

const (
	KindDeterministic Kind = "deterministic"
	KindConstrained   Kind = "constrained"
	KindSchedule      Kind = "schedule"
)

// Kinds lists the selectable strategies.
func Kinds() []Kind {
	return []Kind{KindDeterministic, KindConstrained, KindSchedule}
}

// ParseKind accepts a kind name case-insensitively. Empty means deterministic.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return KindDeterministic, nil
	case KindDeterministic, KindConstrained, KindSchedule:
		return k, nil
	default:
		return "", &model.InvalidParameterError{
			Param:  "strategy",
			Value:  s,
			Reason: model.ReasonInvalid,
			Detail: fmt.Sprintf("expected one of %v", Kinds()),
		}
	}
}

const hour = time.Hour

// Context is what the hourly ledger hands to Decide.
type Context struct {
	Index int
	Point model.PricePoint
}

// Strategy is a precomputed partition of a series into running and
// curtailed hours.
type Strategy interface {
	Name() string
	Kind() Kind
	Decide(ctx Context) model.Action
	Events() []model.ShutdownEvent
	Result() *model.AnalysisResult
}

// plan is the shared state of every strategy: the series and which hours
// are curtailed.
type plan struct {
	points    []model.PricePoint
	curtailed []bool
	events    []model.ShutdownEvent
}

func (p *plan) Decide(ctx Context) model.Action {
	if ctx.Index < 0 || ctx.Index >= len(p.curtailed) {
		return model.ActionRunning
	}
	return model.ActionFromCurtailed(p.curtailed[ctx.Index])
}

func (p *plan) Events() []model.ShutdownEvent {
	out := make([]model.ShutdownEvent, len(p.events))
	copy(out, p.events)
	return out
}

// summary holds the averages and totals of a partition.
type summary struct {
	shutdownHours    int
	originalAverage  float64
	optimizedAverage float64
	savings          float64
	allInSavings     float64
}

func (p *plan) summarize(adder float64) summary {
	var s summary
	var total, running float64
	var nRunning int
	for i, pt := range p.points {
		total += pt.Price
		if p.curtailed[i] {
			s.shutdownHours++
			s.savings += pt.Price
			s.allInSavings += pt.Price + adder
			continue
		}
		running += pt.Price
		nRunning++
	}
	if n := len(p.points); n > 0 {
		s.originalAverage = total / float64(n)
	}
	if nRunning > 0 {
		s.optimizedAverage = running / float64(nRunning)
	}
	return s
}

func (p *plan) result(name string, target float64, allowed int, s summary) *model.AnalysisResult {
	res := &model.AnalysisResult{
		Strategy:             name,
		TargetUptimePercent:  target,
		TotalHours:           len(p.points),
		AllowedDowntimeHours: allowed,
		TotalShutdownHours:   s.shutdownHours,
		TotalSavings:         s.savings,
		TotalAllInSavings:    s.allInSavings,
		NewAveragePrice:      s.optimizedAverage,
		OriginalAverage:      s.originalAverage,
		Events:               p.Events(),
	}
	if len(p.points) > 0 {
		res.DowntimePercentage = 100 * float64(s.shutdownHours) / float64(len(p.points))
	}
	return res
}

func requirePoints(points []model.PricePoint) error {
	if len(points) == 0 {
		return &model.InsufficientDataError{Reason: "empty price series"}
	}
	return nil
}
