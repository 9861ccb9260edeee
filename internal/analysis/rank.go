package analysis

import (
	"sort"

	"uptime-optimizer/internal/model"
)

// RankedLocation pairs a location with its series stats.
type RankedLocation struct {
	SeriesStats
}

// RankByCurtailmentPotential computes stats per location and sorts them
// descending by CurtailmentPotential, then by name.
func RankByCurtailmentPotential(byLocation map[string][]model.PricePoint) []RankedLocation {
	out := make([]RankedLocation, 0, len(byLocation))
	for loc, points := range byLocation {
		s := ComputeSeriesStats(points)
		s.Location = loc
		out = append(out, RankedLocation{SeriesStats: s})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CurtailmentPotential != out[j].CurtailmentPotential {
			return out[i].CurtailmentPotential > out[j].CurtailmentPotential
		}
		return out[i].Location < out[j].Location
	})
	return out
}
