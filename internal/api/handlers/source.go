package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"uptime-optimizer/internal/api/models"
	"uptime-optimizer/internal/data"
	"uptime-optimizer/internal/logger"
	"uptime-optimizer/internal/model"
)

// priceLoader turns request inputs into a raw hourly series.
type priceLoader struct {
	gridStatusURL string
	cache         *data.ResponseCache
	log           logger.Logger
}

func newPriceLoader(d AnalysisDeps) priceLoader {
	if d.Logger == nil {
		d.Logger = logger.NopLogger{}
	}
	return priceLoader{gridStatusURL: d.GridStatusURL, cache: d.Cache, log: d.Logger}
}

func (l priceLoader) load(ctx context.Context, prices []models.PricePointInput, ds *models.DataSourceConfig) ([]model.PricePoint, error) {
	if len(prices) > 0 {
		return toPricePoints(prices)
	}
	if ds == nil {
		return nil, nil
	}
	if ds.Type != "gridstatus" {
		return nil, &model.InvalidParameterError{
			Param: "data_source.type", Value: ds.Type, Reason: model.ReasonInvalid, Detail: "only gridstatus is supported",
		}
	}
	start, err := parseTime("data_source.start_date", ds.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseTime("data_source.end_date", ds.EndDate)
	if err != nil {
		return nil, err
	}
	client := data.NewGridStatusClient(ds.APIKey, l.gridStatusURL,
		data.WithSeries(ds.DatasetID, ds.LocationID),
		data.WithCache(l.cache),
		data.WithLogger(l.log),
	)
	return client.FetchHourly(ctx, model.Window{Start: start, End: end})
}

func toPricePoints(inputs []models.PricePointInput) ([]model.PricePoint, error) {
	records := make([]data.PricePointRecord, len(inputs))
	for i, in := range inputs {
		rec := data.PricePointRecord{Date: in.Date, Hour: in.Hour, Price: in.Price}
		if in.Datetime != "" {
			t, err := time.Parse(time.RFC3339, in.Datetime)
			if err != nil {
				return nil, &model.InvalidParameterError{
					Param: fmt.Sprintf("prices[%d].datetime", i), Value: in.Datetime, Reason: model.ReasonInvalid, Detail: "expected RFC3339",
				}
			}
			rec.Datetime = &t
		}
		records[i] = rec
	}
	points, err := data.ToPricePoints(records)
	if err != nil {
		return nil, &model.InvalidParameterError{Param: "prices", Value: len(inputs), Reason: model.ReasonInvalid, Detail: err.Error()}
	}
	return points, nil
}

func toDailyPrices(inputs []models.DailyPriceInput) ([]model.DailyPrice, error) {
	out := make([]model.DailyPrice, 0, len(inputs))
	for i, in := range inputs {
		d, err := parseTime(fmt.Sprintf("daily[%d].date", i), in.Date)
		if err != nil {
			return nil, err
		}
		out = append(out, model.DailyPrice{Date: d, AveragePrice: in.AveragePrice})
	}
	return out, nil
}

// parseWindow accepts dates (YYYY-MM-DD) or RFC3339 timestamps; empty
// bounds are open.
func parseWindow(start, end string) (model.Window, error) {
	var w model.Window
	var err error
	if strings.TrimSpace(start) != "" {
		if w.Start, err = parseTime("window_start", start); err != nil {
			return w, err
		}
	}
	if strings.TrimSpace(end) != "" {
		if w.End, err = parseTime("window_end", end); err != nil {
			return w, err
		}
	}
	if !w.Start.IsZero() && !w.End.IsZero() && !w.Start.Before(w.End) {
		return w, &model.InvalidParameterError{Param: "window_end", Value: end, Reason: model.ReasonInvalid, Detail: "must be after window_start"}
	}
	return w, nil
}

func parseTime(param, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, &model.InvalidParameterError{
			Param: param, Value: s, Reason: model.ReasonInvalid, Detail: "expected YYYY-MM-DD or RFC3339",
		}
	}
	return t, nil
}
