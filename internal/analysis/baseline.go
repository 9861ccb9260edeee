package analysis

import (
	"time"

	"gonum.org/v1/gonum/stat"

	"uptime-optimizer/internal/model"
)

// DefaultWindowDays is the trailing window used when none is configured.
const DefaultWindowDays = 7

// Baseline holds the rolling windows of a series and their summary.
// When the series is shorter than one window, Windows is empty, Rolling is
// false and the summary describes the whole series instead.
type Baseline struct {
	Windows    []model.BaselineWindow `json:"windows,omitempty"`
	Average    float64                `json:"average"`
	Volatility float64                `json:"volatility"`
	Confidence float64                `json:"confidence"`
	Rolling    bool                   `json:"rolling"`
}

// RollingBaseline computes, for every hour i with at least windowDays*24
// hours of history, the mean and population std-dev of points[i-w:i].
// points must be normalized (chronological, no missing prices).
func RollingBaseline(points []model.PricePoint, windowDays int) Baseline {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	w := windowDays * 24
	prices := model.Prices(points)

	if len(prices) <= w {
		b := Baseline{}
		if len(prices) == 0 {
			b.Confidence = model.MinConfidence
			return b
		}
		b.Average, b.Volatility = meanStd(prices)
		b.Confidence = model.BaselineConfidence(b.Average, b.Volatility)
		return b
	}

	b := Baseline{
		Windows: make([]model.BaselineWindow, 0, len(prices)-w),
		Rolling: true,
	}
	var sumAvg, sumVol, sumConf float64
	for i := w; i < len(prices); i++ {
		avg, vol := meanStd(prices[i-w : i])
		win := model.BaselineWindow{
			Datetime:   points[i].Datetime,
			Average:    avg,
			Volatility: vol,
			Confidence: model.BaselineConfidence(avg, vol),
		}
		b.Windows = append(b.Windows, win)
		sumAvg += win.Average
		sumVol += win.Volatility
		sumConf += win.Confidence
	}
	n := float64(len(b.Windows))
	b.Average = sumAvg / n
	b.Volatility = sumVol / n
	b.Confidence = sumConf / n
	return b
}

// meanStd returns the mean and population standard deviation. The
// volatility of a zero-mean window is reported as 0.
func meanStd(x []float64) (float64, float64) {
	mean, std := stat.PopMeanStdDev(x, nil)
	if mean == 0 {
		return 0, 0
	}
	return mean, std
}

// Nearest returns the baseline price for t: the window starting within one
// hour of t, or the summary average when there is none.
func (b Baseline) Nearest(t time.Time) float64 {
	if w, ok := b.WindowAt(t); ok {
		return w.Average
	}
	return b.Average
}

// WindowAt finds the window closest to t within one hour.
func (b Baseline) WindowAt(t time.Time) (model.BaselineWindow, bool) {
	if len(b.Windows) == 0 {
		return model.BaselineWindow{}, false
	}
	// Windows are hourly and chronological, so binary search the insertion point.
	lo, hi := 0, len(b.Windows)
	for lo < hi {
		mid := (lo + hi) / 2
		if b.Windows[mid].Datetime.Before(t) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	best, bestDiff := -1, time.Hour+1
	for _, i := range []int{lo - 1, lo} {
		if i < 0 || i >= len(b.Windows) {
			continue
		}
		d := b.Windows[i].Datetime.Sub(t)
		if d < 0 {
			d = -d
		}
		if d <= time.Hour && d < bestDiff {
			best, bestDiff = i, d
		}
	}
	if best < 0 {
		return model.BaselineWindow{}, false
	}
	return b.Windows[best], true
}

// RelativeVolatility is volatility/|average|, capped at 1.
func (b Baseline) RelativeVolatility() float64 {
	if b.Average == 0 {
		return 0
	}
	avg := b.Average
	if avg < 0 {
		avg = -avg
	}
	return min(1, b.Volatility/avg)
}
