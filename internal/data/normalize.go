package data

import (
	"sort"
	"time"

	"uptime-optimizer/internal/model"
)

// NormalizeReport counts what the normalizer dropped and why.
type NormalizeReport struct {
	Input          int `json:"input"`
	Kept           int `json:"kept"`
	MissingPrice   int `json:"missing_price"`
	InvalidHour    int `json:"invalid_hour"`
	OutsideWindow  int `json:"outside_window"`
	DuplicateHours int `json:"duplicate_hours"`
}

// NormalizeSeries validates and cleans hourly observations for a window.
// Points without a usable price are excluded (never treated as zero), hours
// outside 0..23 or outside w are dropped, duplicates keep the first
// observation, and the result is in chronological order.
func NormalizeSeries(points []model.PricePoint, w model.Window) ([]model.PricePoint, NormalizeReport, error) {
	rep := NormalizeReport{Input: len(points)}
	seen := make(map[int64]struct{}, len(points))
	out := make([]model.PricePoint, 0, len(points))

	for _, p := range points {
		p, ok := completeTimestamps(p)
		if !ok {
			rep.InvalidHour++
			continue
		}
		if !p.HasPrice() {
			rep.MissingPrice++
			continue
		}
		if !w.Contains(p.Datetime) {
			rep.OutsideWindow++
			continue
		}
		key := p.Datetime.Unix()
		if _, dup := seen[key]; dup {
			rep.DuplicateHours++
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Datetime.Before(out[j].Datetime)
	})
	rep.Kept = len(out)

	if len(out) == 0 {
		return nil, rep, &model.InsufficientDataError{
			Start:  w.Start,
			End:    w.End,
			Points: len(points),
			Reason: "no usable hourly prices in window",
		}
	}
	return out, rep, nil
}

// completeTimestamps fills Date/Hour from Datetime or the reverse.
func completeTimestamps(p model.PricePoint) (model.PricePoint, bool) {
	switch {
	case !p.Datetime.IsZero():
		p.Date = model.StartOfDay(p.Datetime)
		p.Hour = p.Datetime.Hour()
	case !p.Date.IsZero():
		if p.Hour < 0 || p.Hour > 23 {
			return p, false
		}
		p.Date = model.StartOfDay(p.Date)
		p.Datetime = p.Date.Add(time.Duration(p.Hour) * time.Hour)
	default:
		return p, false
	}
	return p, true
}

// HourlyFromIntervals averages (possibly sub-hourly) LMP intervals into
// hourly points keyed by the local start hour. Intervals without a price are
// left out of the average; an hour with no priced interval yields a NaN point
// so the normalizer can account for it.
func HourlyFromIntervals(intervals []model.LMPInterval) []model.PricePoint {
	type acc struct {
		start time.Time
		sum   float64
		n     int
	}
	order := make([]int64, 0)
	byHour := make(map[int64]*acc)

	for _, it := range intervals {
		t := it.IntervalStartLocal
		if t.IsZero() {
			t = it.IntervalStartUTC
		}
		hour := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
		key := hour.Unix()
		a, ok := byHour[key]
		if !ok {
			a = &acc{start: hour}
			byHour[key] = a
			order = append(order, key)
		}
		price := it.Price()
		if (model.PricePoint{Price: price}).HasPrice() {
			a.sum += price
			a.n++
		}
	}

	out := make([]model.PricePoint, 0, len(order))
	for _, key := range order {
		a := byHour[key]
		price := nan()
		if a.n > 0 {
			price = a.sum / float64(a.n)
		}
		out = append(out, model.NewPricePoint(a.start, a.start.Hour(), price))
	}
	return out
}

// GroupByLocation splits a multi-location response into one hourly series
// per location. Rows without a location are grouped under the empty key.
func GroupByLocation(resp *model.GridStatusLMPResponse) map[string][]model.PricePoint {
	if resp == nil {
		return nil
	}
	byLoc := make(map[string][]model.LMPInterval)
	for _, it := range resp.Data {
		byLoc[it.Location] = append(byLoc[it.Location], it)
	}
	out := make(map[string][]model.PricePoint, len(byLoc))
	for loc, intervals := range byLoc {
		out[loc] = HourlyFromIntervals(intervals)
	}
	return out
}
