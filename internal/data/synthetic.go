package data

import (
	"math"

	"uptime-optimizer/internal/model"
)

// diurnalShape is the relative shape of a day's prices: an overnight valley,
// a morning ramp, a long afternoon plateau and an early evening peak that
// tapers off before midnight. It is rescaled to a mean of exactly 1.0.
var diurnalShape = [24]float64{
	0.80, 0.78, 0.78, 0.78, 0.78, 0.80, // 00-05
	0.80, 1.05, 1.10, 1.20, 1.10, 1.10, // 06-11
	1.10, 1.10, 1.12, 1.17, 1.30, 1.40, // 12-17
	1.20, 1.00, 0.90, 0.88, 0.88, 0.88, // 18-23
}

// HourlyMultipliers maps hour of day to a price multiplier. Its mean is 1.0,
// so expanding an average never biases it.
var HourlyMultipliers = normalizeShape(diurnalShape)

func normalizeShape(shape [24]float64) [24]float64 {
	var sum float64
	for _, v := range shape {
		sum += v
	}
	var out [24]float64
	for h, v := range shape {
		out[h] = v * 24 / sum
	}
	return out
}

// ExpandDaily turns daily records into 24 synthetic hourly points per day.
// A record's own average is used when present; otherwise periodAverage.
func ExpandDaily(days []model.DailyPrice, periodAverage float64) []model.PricePoint {
	out := make([]model.PricePoint, 0, len(days)*24)
	for _, d := range days {
		avg := periodAverage
		if d.AveragePrice != nil && !math.IsNaN(*d.AveragePrice) {
			avg = *d.AveragePrice
		}
		for h := 0; h < 24; h++ {
			out = append(out, model.NewPricePoint(d.Date, h, avg*HourlyMultipliers[h]))
		}
	}
	return out
}

func nan() float64 { return math.NaN() }
