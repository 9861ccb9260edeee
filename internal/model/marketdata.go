package model

import (
	"math"
	"time"
)

// PricePoint is one hourly price observation.
// Units:
// - Price: currency/MWh. Zero and negative prices are valid market outcomes.
// - Hour: 0..23 in the series' local time.
//
// An absent price is carried as NaN and must be excluded from aggregates.
type PricePoint struct {
	Date     time.Time `json:"date"`
	Hour     int       `json:"hour"`
	Datetime time.Time `json:"datetime"`
	Price    float64   `json:"price"`
}

// HasPrice reports whether the point carries a usable price.
func (p PricePoint) HasPrice() bool {
	return !math.IsNaN(p.Price) && !math.IsInf(p.Price, 0)
}

// NewPricePoint builds a point for the given day and hour.
func NewPricePoint(day time.Time, hour int, price float64) PricePoint {
	d := StartOfDay(day)
	return PricePoint{
		Date:     d,
		Hour:     hour,
		Datetime: d.Add(time.Duration(hour) * time.Hour),
		Price:    price,
	}
}

// DailyPrice is a per-day record used when only period averages are known.
// AveragePrice is optional; nil means "use the period average".
type DailyPrice struct {
	Date         time.Time `json:"date"`
	AveragePrice *float64  `json:"average_price,omitempty"`
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Prices extracts the price column of a series.
func Prices(points []PricePoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Price
	}
	return out
}

// GridStatusLMPResponse matches the JSON shape returned by the Grid Status
// query endpoint and stored in local sample files.
type GridStatusLMPResponse struct {
	StatusCode int           `json:"status_code"`
	Data       []LMPInterval `json:"data"`
}

// LMPInterval represents one interval row from a Grid Status price dataset.
// Intervals may be sub-hourly (5/15 min); they are averaged into hours.
type LMPInterval struct {
	IntervalStartLocal time.Time `json:"interval_start_local"`
	IntervalStartUTC   time.Time `json:"interval_start_utc"`
	IntervalEndLocal   time.Time `json:"interval_end_local"`
	IntervalEndUTC     time.Time `json:"interval_end_utc"`

	Market   string `json:"market"`
	Location string `json:"location"`

	// Prices in currency/MWh. LMP is nil when the source reported no value.
	LMP *float64 `json:"lmp"`
}

func (i LMPInterval) Duration() time.Duration {
	// Prefer UTC fields because they're unambiguous and consistent.
	if !i.IntervalEndUTC.IsZero() && !i.IntervalStartUTC.IsZero() {
		return i.IntervalEndUTC.Sub(i.IntervalStartUTC)
	}
	return i.IntervalEndLocal.Sub(i.IntervalStartLocal)
}

// Price returns the interval price, or NaN when absent.
func (i LMPInterval) Price() float64 {
	if i.LMP == nil {
		return math.NaN()
	}
	return *i.LMP
}
