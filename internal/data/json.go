package data

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"

	"uptime-optimizer/internal/model"
)

func LoadGridStatusJSON(path string) (*model.GridStatusLMPResponse, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var resp model.GridStatusLMPResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PricePointRecord is the on-disk and over-the-wire shape of a PricePoint.
// Price is a pointer so that JSON null stays distinguishable from 0.
type PricePointRecord struct {
	Date     string     `json:"date,omitempty"`
	Hour     int        `json:"hour"`
	Datetime *time.Time `json:"datetime,omitempty"`
	Price    *float64   `json:"price"`
}

// ToPricePoint converts the record; a null price becomes NaN.
func (r PricePointRecord) ToPricePoint() (model.PricePoint, error) {
	p := model.PricePoint{Hour: r.Hour, Price: math.NaN()}
	if r.Price != nil {
		p.Price = *r.Price
	}
	if r.Datetime != nil {
		p.Datetime = *r.Datetime
	}
	if r.Date != "" {
		d, err := time.Parse("2006-01-02", r.Date)
		if err != nil {
			return p, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", r.Date, err)
		}
		p.Date = d
	}
	return p, nil
}

// ToPricePoints converts a slice of records.
func ToPricePoints(records []PricePointRecord) ([]model.PricePoint, error) {
	out := make([]model.PricePoint, 0, len(records))
	for i, r := range records {
		p, err := r.ToPricePoint()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// LoadPricePoints reads either a JSON array of PricePointRecord or a Grid
// Status response object and returns hourly points.
func LoadPricePoints(path string) ([]model.PricePoint, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '{' {
		var resp model.GridStatusLMPResponse
		if err := json.Unmarshal(raw, &resp); err != nil {
			return nil, err
		}
		return HourlyFromIntervals(resp.Data), nil
	}
	var records []PricePointRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, err
	}
	return ToPricePoints(records)
}

// FileSource is a PriceSource backed by a local JSON file.
type FileSource struct {
	Path string
}

func (s FileSource) FetchHourly(ctx context.Context, w model.Window) ([]model.PricePoint, error) {
	points, err := LoadPricePoints(s.Path)
	if err != nil {
		return nil, &model.ExternalDependencyError{Service: "price file", Err: err}
	}
	return StaticSource(points).FetchHourly(ctx, w)
}
