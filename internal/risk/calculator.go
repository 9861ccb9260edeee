package risk

import (
	"context"
	"fmt"
	"time"

	"uptime-optimizer/internal/analysis"
	"uptime-optimizer/internal/logger"
	"uptime-optimizer/internal/model"
)

// Weights of the confidence and volatility haircuts on gross savings.
const (
	riskWeight       = 0.3
	volatilityWeight = 0.2
)

// Params configures a Calculator. Iterations < 0 disables Monte Carlo.
type Params struct {
	Constraints       model.OperationalConstraints
	TransmissionAdder float64
	Iterations        int
	ChunkSize         int
	Seed              int64
	Logger            logger.Logger
}

// Assessment is the risk-adjusted view of a set of events.
type Assessment struct {
	Events []model.ShutdownEvent `json:"events"`

	GrossSavings              float64 `json:"gross_savings"`
	GrossAllInSavings         float64 `json:"gross_all_in_savings"`
	OperationalCosts          float64 `json:"operational_costs"`
	TransmissionCostVariation float64 `json:"transmission_cost_variation"`
	RiskAdjustment            float64 `json:"risk_adjustment"`
	VolatilityAdjustment      float64 `json:"volatility_adjustment"`

	NetSavings      float64 `json:"net_savings"`
	NetAllInSavings float64 `json:"net_all_in_savings"`
	NewAveragePrice float64 `json:"new_average_price"`
	ConfidenceLevel float64 `json:"confidence_level"`
	ProjectedROI    float64 `json:"projected_roi"`

	MonteCarlo *MonteCarloSummary `json:"monte_carlo,omitempty"`
}

type Calculator struct {
	params Params
}

func NewCalculator(p Params) *Calculator {
	if p.Logger == nil {
		p.Logger = logger.NopLogger{}
	}
	if p.Iterations == 0 {
		p.Iterations = DefaultIterations
	}
	return &Calculator{params: p}
}

// Assess re-prices events with dynamic transmission, applies operational
// costs and the baseline's confidence and volatility, and simulates the
// spread of outcomes. series is the full normalized series the events were
// drawn from. Events without a baseline price take it from baseline.
func (c *Calculator) Assess(ctx context.Context, events []model.ShutdownEvent, baseline analysis.Baseline, series []model.PricePoint) (*Assessment, error) {
	if err := c.params.Constraints.Validate(); err != nil {
		return nil, &model.InvalidParameterError{
			Param: "constraints", Value: c.params.Constraints, Reason: model.ReasonInvalid, Detail: err.Error(),
		}
	}
	opCost := c.params.Constraints.OperationalCostPerEvent()
	a := &Assessment{
		Events:          make([]model.ShutdownEvent, 0, len(events)),
		ConfidenceLevel: baseline.Confidence,
	}

	for _, ev := range events {
		if ev.BaselinePrice == 0 {
			ev.BaselinePrice = eventBaseline(ev, baseline)
		}
		dyn := DynamicTransmission(ev.AveragePrice, c.params.TransmissionAdder)
		hours := float64(ev.DurationHours)
		ev.AllInSavings = model.RoundCents(ev.EnergySavings + dyn*hours)
		ev.OperationalCost = opCost

		a.GrossSavings += ev.EnergySavings
		a.GrossAllInSavings += ev.AllInSavings
		a.OperationalCosts += opCost
		a.TransmissionCostVariation += (dyn - c.params.TransmissionAdder) * hours
		a.Events = append(a.Events, ev)
	}

	a.RiskAdjustment = a.GrossSavings * (1 - baseline.Confidence) * riskWeight
	a.VolatilityAdjustment = a.GrossSavings * baseline.RelativeVolatility() * volatilityWeight
	haircut := a.OperationalCosts + a.RiskAdjustment + a.VolatilityAdjustment
	a.NetSavings = a.GrossSavings - haircut
	a.NetAllInSavings = a.GrossAllInSavings - haircut
	if a.OperationalCosts > 0 {
		a.ProjectedROI = a.NetSavings / a.OperationalCosts * 100
	}

	avg, err := runningAverage(series, a.Events)
	if err != nil {
		return nil, err
	}
	a.NewAveragePrice = avg

	if c.params.Iterations > 0 {
		mc, err := Simulate(ctx, a.Events, c.params.Iterations, c.params.ChunkSize, c.params.Seed)
		if err != nil {
			return nil, fmt.Errorf("monte carlo: %w", err)
		}
		a.MonteCarlo = &mc
	}

	c.params.Logger.Debugw("risk assessment", map[string]any{
		"events":           len(a.Events),
		"gross_savings":    a.GrossSavings,
		"net_savings":      a.NetSavings,
		"confidence_level": a.ConfidenceLevel,
	})
	return a, nil
}

func eventBaseline(ev model.ShutdownEvent, b analysis.Baseline) float64 {
	if ev.DurationHours <= 0 {
		return b.Nearest(ev.Start)
	}
	var sum float64
	for h := 0; h < ev.DurationHours; h++ {
		sum += b.Nearest(ev.Start.Add(time.Duration(h) * time.Hour))
	}
	return sum / float64(ev.DurationHours)
}

// runningAverage is the mean price of the hours not covered by any event.
func runningAverage(series []model.PricePoint, events []model.ShutdownEvent) (float64, error) {
	if len(series) == 0 {
		return 0, &model.InsufficientDataError{Reason: "empty price series"}
	}
	var sum float64
	var n int
	for _, p := range series {
		if curtailedAt(events, p.Datetime) {
			continue
		}
		sum += p.Price
		n++
	}
	if n == 0 {
		return 0, nil
	}
	return sum / float64(n), nil
}

func curtailedAt(events []model.ShutdownEvent, t time.Time) bool {
	for _, ev := range events {
		if !t.Before(ev.Start) && t.Before(ev.End()) {
			return true
		}
	}
	return false
}
