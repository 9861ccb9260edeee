package data

import (
	"context"

	"uptime-optimizer/internal/model"
)

// PriceSource supplies raw hourly observations for a window. Implementations
// may return unsorted points with gaps; callers run NormalizeSeries.
type PriceSource interface {
	FetchHourly(ctx context.Context, w model.Window) ([]model.PricePoint, error)
}

// StaticSource serves an in-memory series.
type StaticSource []model.PricePoint

func (s StaticSource) FetchHourly(ctx context.Context, w model.Window) ([]model.PricePoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]model.PricePoint, 0, len(s))
	for _, p := range s {
		if p.Datetime.IsZero() || w.Contains(p.Datetime) {
			out = append(out, p)
		}
	}
	return out, nil
}
