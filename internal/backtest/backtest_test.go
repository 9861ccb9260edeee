package backtest

import (
	"bytes"
	"context"
	"encoding/csv"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uptime-optimizer/internal/analysis"
	"uptime-optimizer/internal/model"
	"uptime-optimizer/internal/strategy"
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

func ramp(n int) []model.PricePoint {
	prices := make([]float64, n)
	for i := range prices {
		prices[i] = float64(10 * (i%24 + 1))
	}
	return series(prices...)
}

func TestEngine_Ledger(t *testing.T) {
	points := series(10, 50, 20, 40)
	s, err := strategy.NewDeterministicStrategy(points, strategy.DeterministicParams{TargetUptimePercent: 50})
	require.NoError(t, err)

	res, err := New().Run(points, s, analysis.Baseline{Average: 30})
	require.NoError(t, err)
	require.Len(t, res.Ledger, 4)

	actions := []model.Action{}
	for _, r := range res.Ledger {
		actions = append(actions, r.Action)
	}
	assert.Equal(t, []model.Action{model.ActionRunning, model.ActionCurtailed, model.ActionRunning, model.ActionCurtailed}, actions)
	assert.Equal(t, 2, res.CurtailedHours)
	assert.Equal(t, 90.0, res.TotalSavings)
	assert.Equal(t, 30.0, res.TotalCost)
	assert.Equal(t, 15.0, res.EffectivePrice())
	assert.Equal(t, 90.0, res.Ledger[3].CumSavings)
	assert.Equal(t, 30.0, res.Ledger[0].Baseline)
}

func TestEngine_RejectsNilStrategy(t *testing.T) {
	_, err := New().Run(series(1), nil, analysis.Baseline{})
	assert.Error(t, err)
}

func TestWriteLedger(t *testing.T) {
	points := series(10, 50)
	s, err := strategy.NewDeterministicStrategy(points, strategy.DeterministicParams{TargetUptimePercent: 50})
	require.NoError(t, err)
	res, err := New().Run(points, s, analysis.Baseline{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteLedger(&buf, res.Ledger))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "action", rows[0][5])
	assert.Equal(t, "CURTAILED", rows[2][5])
	assert.Equal(t, "2024-07-01T01:00:00Z", rows[2][1])

	buf.Reset()
	require.NoError(t, WriteEvents(&buf, s.Events()))
	rows, err = csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2024-07-01", rows[1][0])
	assert.Equal(t, "1", rows[1][1])
}

func TestAnalyzer_Deterministic(t *testing.T) {
	rep, err := NewAnalyzer(nil).Analyze(context.Background(), Request{
		Points:              ramp(24),
		TargetUptimePercent: 50,
		TransmissionAdder:   11.63,
	})
	require.NoError(t, err)
	assert.Equal(t, "deterministic", rep.Result.Strategy)
	assert.InDelta(t, 2220, rep.Result.TotalSavings, 1e-9)
	assert.InDelta(t, 65, rep.Result.NewAveragePrice, 1e-9)
	assert.False(t, rep.Synthetic)
	assert.Nil(t, rep.Risk)
	assert.Len(t, rep.Result.Distribution, 17)
	assert.Equal(t, rep.Result.TotalSavings, rep.Ledger.TotalSavings)
	assert.Equal(t, 24, rep.Stats.Count)
}

func TestAnalyzer_ConstrainedWithRisk(t *testing.T) {
	prices := make([]float64, 24*10)
	for i := range prices {
		prices[i] = 40
		if h := i % 24; h >= 17 && h <= 19 {
			prices[i] = 160
		}
	}
	rep, err := NewAnalyzer(nil).Analyze(context.Background(), Request{
		Points:               series(prices...),
		Strategy:             strategy.KindConstrained,
		TargetUptimePercent:  95,
		TransmissionAdder:    11.63,
		Constraints:          model.DefaultConstraints(),
		BaselineWindowDays:   1,
		Risk:                 true,
		MonteCarloIterations: 500,
		MonteCarloSeed:       1,
	})
	require.NoError(t, err)
	assert.Equal(t, "constrained", rep.Result.Strategy)
	assert.LessOrEqual(t, rep.Result.TotalShutdownHours, model.AllowedDowntimeHours(240, 95))
	assert.NotEmpty(t, rep.Result.Events)
	for _, ev := range rep.Result.Events {
		assert.GreaterOrEqual(t, ev.DurationHours, 2)
	}
	require.NotNil(t, rep.Risk)
	require.NotNil(t, rep.Risk.MonteCarlo)
	assert.Equal(t, 500, rep.Risk.MonteCarlo.Iterations)
	assert.True(t, rep.Baseline.Rolling)
	assert.Empty(t, rep.Baseline.Windows)
}

func TestAnalyzer_ExpandsDailyWhenNoHourly(t *testing.T) {
	avg := 60.0
	rep, err := NewAnalyzer(nil).Analyze(context.Background(), Request{
		Points:              series(math.NaN()),
		Daily:               []model.DailyPrice{{Date: start}, {Date: start.AddDate(0, 0, 1), AveragePrice: &avg}},
		PeriodAverage:       40,
		TargetUptimePercent: 90,
	})
	require.NoError(t, err)
	assert.True(t, rep.Synthetic)
	assert.Equal(t, 48, rep.Result.TotalHours)
	assert.InDelta(t, 50, rep.Result.OriginalAverage, 1e-6)
}

func TestAnalyzer_Errors(t *testing.T) {
	a := NewAnalyzer(nil)
	ctx := context.Background()

	_, err := a.Analyze(ctx, Request{Points: ramp(24), TargetUptimePercent: 101})
	var ipe *model.InvalidParameterError
	assert.ErrorAs(t, err, &ipe)

	_, err = a.Analyze(ctx, Request{Points: ramp(24), TargetUptimePercent: 90, Strategy: "random"})
	assert.ErrorAs(t, err, &ipe)

	_, err = a.Analyze(ctx, Request{TargetUptimePercent: 90})
	var ide *model.InsufficientDataError
	assert.ErrorAs(t, err, &ide)

	flat := make([]float64, 100)
	for i := range flat {
		flat[i] = 50
	}
	_, err = a.Analyze(ctx, Request{Points: series(flat...), TargetUptimePercent: 90})
	var cie *model.ComputationInvariantError
	assert.ErrorAs(t, err, &cie)
	assert.Equal(t, "invariant", outcome(err))
}
