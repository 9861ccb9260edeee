package data

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uptime-optimizer/internal/analysis"
	"uptime-optimizer/internal/logger"
	"uptime-optimizer/internal/model"
	"uptime-optimizer/internal/risk"
)

func TestCurrencyConverter_Lookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/latest", r.URL.Path)
		assert.Equal(t, "CAD", r.URL.Query().Get("from"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"base":"CAD","date":"2024-07-01","rates":{"USD":0.7312}}`))
	}))
	defer srv.Close()

	q := NewCurrencyConverter(srv.URL, logger.NopLogger{}).Rate(context.Background(), "cad", "usd")
	assert.False(t, q.Fallback)
	assert.InDelta(t, 0.7312, q.Rate, 1e-9)
}

func TestCurrencyConverter_FallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewCurrencyConverter(srv.URL, logger.NopLogger{})
	q := c.Rate(context.Background(), "CAD", "USD")
	assert.True(t, q.Fallback)
	assert.Equal(t, DefaultCADToUSD, q.Rate)

	q = c.Rate(context.Background(), "CAD", "EUR")
	assert.True(t, q.Fallback)
	assert.Equal(t, 1.0, q.Rate)
}

func TestCurrencyConverter_SameCurrency(t *testing.T) {
	q := NewCurrencyConverter("http://127.0.0.1:0", nil).Rate(context.Background(), "USD", "USD")
	assert.Equal(t, 1.0, q.Rate)
	assert.False(t, q.Fallback)
}

func TestConvertResult(t *testing.T) {
	res := &model.AnalysisResult{
		TotalSavings:    1000,
		NewAveragePrice: 45.555,
		Events:          []model.ShutdownEvent{{EnergySavings: 100, AllInSavings: 111.63}},
	}
	out := ConvertResult(res, 0.73)
	require.NotNil(t, out)
	assert.Equal(t, 730.0, out.TotalSavings)
	assert.Equal(t, 33.26, out.NewAveragePrice)
	assert.Equal(t, 73.0, out.Events[0].EnergySavings)
	assert.Equal(t, 1000.0, res.TotalSavings, "input must not be mutated")
	assert.Equal(t, 100.0, res.Events[0].EnergySavings)
}

func TestConvertAssessment(t *testing.T) {
	a := &risk.Assessment{
		Events:           []model.ShutdownEvent{{EnergySavings: 100, OperationalCost: 0.2}},
		GrossSavings:     100,
		OperationalCosts: 0.2,
		NetSavings:       80,
		ConfidenceLevel:  0.9,
		ProjectedROI:     40000,
		MonteCarlo:       &risk.MonteCarloSummary{Mean: 50, StdDev: 5, P5: 40, P95: 60, ProbabilityOfProfit: 1},
	}
	out := ConvertAssessment(a, 2)
	require.NotNil(t, out)
	assert.Equal(t, 200.0, out.GrossSavings)
	assert.Equal(t, 0.4, out.OperationalCosts)
	assert.Equal(t, 160.0, out.NetSavings)
	assert.Equal(t, 200.0, out.Events[0].EnergySavings)
	assert.Equal(t, 0.9, out.ConfidenceLevel)
	assert.Equal(t, 40000.0, out.ProjectedROI)
	require.NotNil(t, out.MonteCarlo)
	assert.Equal(t, 100.0, out.MonteCarlo.Mean)
	assert.Equal(t, 120.0, out.MonteCarlo.P95)
	assert.Equal(t, 1.0, out.MonteCarlo.ProbabilityOfProfit)

	assert.Equal(t, 100.0, a.GrossSavings, "input must not be mutated")
	assert.Equal(t, 50.0, a.MonteCarlo.Mean)
	assert.Nil(t, ConvertAssessment(nil, 2))
}

func TestConvertStatsAndBaseline(t *testing.T) {
	stats := ConvertStats(analysis.SeriesStats{Count: 24, Min: -5, Max: 100, Mean: 40, CurtailmentPotential: 300}, 0.5)
	assert.Equal(t, 24, stats.Count)
	assert.Equal(t, -2.5, stats.Min)
	assert.Equal(t, 50.0, stats.Max)
	assert.Equal(t, 150.0, stats.CurtailmentPotential)

	b := analysis.Baseline{
		Average:    40,
		Volatility: 10,
		Confidence: 0.75,
		Windows:    []model.BaselineWindow{{Average: 30, Volatility: 6, Confidence: 0.8}},
	}
	out := ConvertBaseline(b, 0.5)
	assert.Equal(t, 20.0, out.Average)
	assert.Equal(t, 5.0, out.Volatility)
	assert.Equal(t, 0.75, out.Confidence)
	assert.Equal(t, 15.0, out.Windows[0].Average)
	assert.Equal(t, 30.0, b.Windows[0].Average, "input must not be mutated")
}
