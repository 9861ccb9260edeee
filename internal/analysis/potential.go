package analysis

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"uptime-optimizer/internal/model"
)

// CanonicalUptimePercent is the target used for CurtailmentPotential, so that
// series of different shapes can be compared on one number.
const CanonicalUptimePercent = 95.0

// SeriesStats summarizes an hourly series. It does not depend on any
// facility; CurtailmentPotential is the energy saving of a perfectly informed
// 1 MW load running at CanonicalUptimePercent.
type SeriesStats struct {
	Location string    `json:"location,omitempty"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Count    int       `json:"count"`

	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
	P05  float64 `json:"p05"`
	P95  float64 `json:"p95"`

	SpreadP95P05 float64 `json:"spread_p95_p05"`

	CurtailmentPotential float64 `json:"curtailment_potential"`
}

// ComputeSeriesStats expects normalized points.
func ComputeSeriesStats(points []model.PricePoint) SeriesStats {
	s := SeriesStats{}
	if len(points) == 0 {
		return s
	}
	s.Count = len(points)
	s.Start = points[0].Datetime
	s.End = points[len(points)-1].Datetime.Add(time.Hour)

	vals := model.Prices(points)
	sort.Float64s(vals)
	s.Min = vals[0]
	s.Max = vals[len(vals)-1]
	s.Mean = stat.Mean(vals, nil)
	s.P05 = percentileSorted(vals, 0.05)
	s.P95 = percentileSorted(vals, 0.95)
	s.SpreadP95P05 = s.P95 - s.P05

	k := model.AllowedDowntimeHours(len(vals), CanonicalUptimePercent)
	for i := len(vals) - k; i < len(vals); i++ {
		s.CurtailmentPotential += vals[i]
	}
	return s
}

// percentileSorted linearly interpolates between order statistics.
func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
