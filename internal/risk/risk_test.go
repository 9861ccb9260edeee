package risk

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uptime-optimizer/internal/analysis"
	"uptime-optimizer/internal/model"
)

var start = time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

func series(prices ...float64) []model.PricePoint {
	out := make([]model.PricePoint, len(prices))
	for i, p := range prices {
		t := start.Add(time.Duration(i) * time.Hour)
		out[i] = model.NewPricePoint(t, t.Hour(), p)
	}
	return out
}

func TestDynamicTransmission(t *testing.T) {
	tests := []struct {
		price float64
		want  float64
	}{
		{200, 15.12},
		{150, 13.37},
		{100, 13.37},
		{75, 11.63},
		{50, 11.63},
		{25, 11.63},
		{10, 9.30},
		{-20, 9.30},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DynamicTransmission(tt.price, 11.63), "price %v", tt.price)
	}
}

func TestAssess_MediumBandEvent(t *testing.T) {
	points := series(40, 100, 40)
	ev := model.NewEvent(points[1:2], []float64{40}, 11.63)
	calc := NewCalculator(Params{
		Constraints:       model.DefaultConstraints(),
		TransmissionAdder: 11.63,
		Iterations:        -1,
	})

	a, err := calc.Assess(context.Background(), []model.ShutdownEvent{ev}, analysis.Baseline{Average: 40, Confidence: 0.95}, points)
	require.NoError(t, err)
	require.Len(t, a.Events, 1)
	assert.Equal(t, 113.37, a.Events[0].AllInSavings)
	assert.InDelta(t, 1.74, a.TransmissionCostVariation, 1e-9)
	assert.Equal(t, 100.0, a.GrossSavings)
	assert.InDelta(t, 0.2, a.OperationalCosts, 1e-12)
	assert.InDelta(t, 100*0.05*0.3, a.RiskAdjustment, 1e-9)
	assert.Zero(t, a.VolatilityAdjustment)
	assert.InDelta(t, 100-0.2-1.5, a.NetSavings, 1e-9)
	assert.InDelta(t, 113.37-0.2-1.5, a.NetAllInSavings, 1e-9)
	assert.InDelta(t, (100-0.2-1.5)/0.2*100, a.ProjectedROI, 1e-6)
	assert.Equal(t, 40.0, a.NewAveragePrice)
	assert.Nil(t, a.MonteCarlo)

	// the input event is left untouched
	assert.InDelta(t, 111.63, ev.AllInSavings, 1e-9)
}

func TestAssess_FillsMissingBaselineAndVolatility(t *testing.T) {
	points := series(40, 120, 130, 40)
	ev := model.NewEvent(points[1:3], nil, 11.63)
	b := analysis.Baseline{Average: 50, Volatility: 25, Confidence: 0.6}

	a, err := NewCalculator(Params{Constraints: model.DefaultConstraints(), TransmissionAdder: 11.63, Iterations: -1}).
		Assess(context.Background(), []model.ShutdownEvent{ev}, b, points)
	require.NoError(t, err)
	assert.Equal(t, 50.0, a.Events[0].BaselinePrice)
	assert.InDelta(t, 250*0.4*0.3, a.RiskAdjustment, 1e-9)
	assert.InDelta(t, 250*0.5*0.2, a.VolatilityAdjustment, 1e-9)
}

func TestAssess_NoOperationalCostMeansNoROI(t *testing.T) {
	c := model.DefaultConstraints()
	c.StartupCostPerMW, c.ShutdownCostPerMW = 0, 0
	points := series(40, 100)
	ev := model.NewEvent(points[1:], []float64{40}, 0)

	a, err := NewCalculator(Params{Constraints: c, Iterations: -1}).
		Assess(context.Background(), []model.ShutdownEvent{ev}, analysis.Baseline{Average: 40, Confidence: 0.9}, points)
	require.NoError(t, err)
	assert.Zero(t, a.ProjectedROI)
}

func TestAssess_NoEvents(t *testing.T) {
	a, err := NewCalculator(Params{Constraints: model.DefaultConstraints(), Iterations: 100}).
		Assess(context.Background(), nil, analysis.Baseline{Average: 40, Confidence: 0.9}, series(40, 50))
	require.NoError(t, err)
	assert.Zero(t, a.NetSavings)
	assert.Equal(t, 45.0, a.NewAveragePrice)
	require.NotNil(t, a.MonteCarlo)
	assert.Zero(t, a.MonteCarlo.ProbabilityOfProfit)
}

func mcEvents() []model.ShutdownEvent {
	return []model.ShutdownEvent{
		{Start: start, DurationHours: 3, AveragePrice: 150, BaselinePrice: 50, OperationalCost: 0.2},
		{Start: start.Add(24 * time.Hour), DurationHours: 2, AveragePrice: 80, BaselinePrice: 60, OperationalCost: 0.2},
	}
}

func TestSimulate_Deterministic(t *testing.T) {
	a, err := Simulate(context.Background(), mcEvents(), 1000, 0, 42)
	require.NoError(t, err)
	b, err := Simulate(context.Background(), mcEvents(), 1000, 0, 42)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := Simulate(context.Background(), mcEvents(), 1000, 0, 43)
	require.NoError(t, err)
	assert.NotEqual(t, a.Mean, c.Mean)
}

func TestSimulate_Bounds(t *testing.T) {
	events := mcEvents()
	s, err := Simulate(context.Background(), events, 2000, 100, 7)
	require.NoError(t, err)

	var lower, upper float64
	for _, ev := range events {
		h := float64(ev.DurationHours)
		lower += min((ev.AveragePrice*0.8-ev.BaselinePrice*1.15)*h*0.85, (ev.AveragePrice*0.8-ev.BaselinePrice*1.15)*h) - ev.OperationalCost
		upper += (ev.AveragePrice*1.2-ev.BaselinePrice*0.85)*h - ev.OperationalCost
	}

	assert.Equal(t, 2000, s.Iterations)
	assert.LessOrEqual(t, lower, s.P5)
	assert.LessOrEqual(t, s.P5, s.Mean)
	assert.LessOrEqual(t, s.Mean, s.P95)
	assert.LessOrEqual(t, s.P95, upper)
	assert.Greater(t, s.StdDev, 0.0)
	assert.Equal(t, 1.0, s.ProbabilityOfProfit)
}

func TestSimulate_MeasuresPremiumOverBaseline(t *testing.T) {
	// priced at baseline: large energy savings, no premium
	events := []model.ShutdownEvent{
		{Start: start, DurationHours: 2, AveragePrice: 100, BaselinePrice: 100, EnergySavings: 200},
	}
	s, err := Simulate(context.Background(), events, 4000, 0, 11)
	require.NoError(t, err)

	assert.InDelta(t, 0, s.Mean, 3)
	assert.Less(t, s.P95, events[0].EnergySavings)
	assert.InDelta(t, 0.5, s.ProbabilityOfProfit, 0.05)
}

func TestSimulate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Simulate(ctx, mcEvents(), 100, 10, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
