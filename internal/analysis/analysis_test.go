package analysis

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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

func constant(n int, price float64) []model.PricePoint {
	prices := make([]float64, n)
	for i := range prices {
		prices[i] = price
	}
	return series(prices...)
}

func TestRollingBaseline_Windows(t *testing.T) {
	prices := make([]float64, 24+3)
	for i := range prices {
		prices[i] = float64(i % 2 * 20) // alternating 0, 20
	}
	points := series(prices...)

	b := RollingBaseline(points, 1)
	require.True(t, b.Rolling)
	require.Len(t, b.Windows, 3)
	assert.Equal(t, points[24].Datetime, b.Windows[0].Datetime)
	assert.InDelta(t, 10, b.Windows[0].Average, 1e-9)
	assert.InDelta(t, 10, b.Windows[0].Volatility, 1e-9)
	// 1 - 10/10 = 0 clamps to the floor
	assert.Equal(t, model.MinConfidence, b.Windows[0].Confidence)
}

func TestRollingBaseline_ShortSeriesFallsBack(t *testing.T) {
	b := RollingBaseline(series(10, 20, 30), 7)
	assert.False(t, b.Rolling)
	assert.Empty(t, b.Windows)
	assert.InDelta(t, 20, b.Average, 1e-9)
	assert.InDelta(t, math.Sqrt(200.0/3), b.Volatility, 1e-9)
	assert.Equal(t, 20.0, b.Nearest(start))
}

func TestRollingBaseline_ZeroAverage(t *testing.T) {
	b := RollingBaseline(constant(30, 0), 1)
	require.NotEmpty(t, b.Windows)
	for _, w := range b.Windows {
		assert.Equal(t, 0.0, w.Volatility)
		assert.Equal(t, model.MinConfidence, w.Confidence)
	}
}

func TestRollingBaseline_ConfidenceCeiling(t *testing.T) {
	b := RollingBaseline(constant(30, 50), 1)
	assert.InDelta(t, model.MaxConfidence, b.Confidence, 1e-12)
	assert.Equal(t, 0.0, b.RelativeVolatility())
}

func TestBaselineNearest(t *testing.T) {
	points := constant(26, 40)
	points[25].Price = 100
	b := RollingBaseline(points, 1)
	require.Len(t, b.Windows, 2)

	assert.InDelta(t, 40, b.Nearest(start.Add(24*time.Hour+30*time.Minute)), 1e-9)
	_, ok := b.WindowAt(start.Add(30 * time.Hour))
	assert.False(t, ok)
	assert.Equal(t, b.Average, b.Nearest(start.Add(30*time.Hour)))
}

func TestPriceDistribution(t *testing.T) {
	buckets := PriceDistribution(series(-5, 0, 0.5, 10, 10.01, 150, 150.5, math.NaN()))
	require.Len(t, buckets, 17)

	byLabel := map[string]int{}
	for _, b := range buckets {
		byLabel[b.Label] = b.Count
	}
	assert.Equal(t, 2, byLabel["$0"])
	assert.Equal(t, 2, byLabel["$1-10"])
	assert.Equal(t, 1, byLabel["$11-20"])
	assert.Equal(t, 1, byLabel["$141-150"])
	assert.Equal(t, 1, byLabel["$151+"])
	assert.Equal(t, "$151+", buckets[16].Label)
}

func TestComputeSeriesStats(t *testing.T) {
	prices := make([]float64, 100)
	for i := range prices {
		prices[i] = float64(i + 1)
	}
	s := ComputeSeriesStats(series(prices...))
	assert.Equal(t, 100, s.Count)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 100.0, s.Max)
	assert.InDelta(t, 50.5, s.Mean, 1e-9)
	assert.InDelta(t, 5.95, s.P05, 1e-9)
	assert.InDelta(t, 95.05, s.P95, 1e-9)
	// top 5 hours: 96..100
	assert.InDelta(t, 490, s.CurtailmentPotential, 1e-9)
	assert.Equal(t, start.Add(100*time.Hour), s.End)
}

func TestRankByCurtailmentPotential(t *testing.T) {
	ranked := RankByCurtailmentPotential(map[string][]model.PricePoint{
		"flat":  constant(40, 30),
		"spiky": series(append(make([]float64, 38), 500, 600)...),
		"empty": nil,
	})
	require.Len(t, ranked, 3)
	assert.Equal(t, "spiky", ranked[0].Location)
	assert.Equal(t, "flat", ranked[1].Location)
	assert.Equal(t, "empty", ranked[2].Location)
}
