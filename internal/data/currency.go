package data

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"uptime-optimizer/internal/analysis"
	"uptime-optimizer/internal/logger"
	"uptime-optimizer/internal/metrics"
	"uptime-optimizer/internal/model"
	"uptime-optimizer/internal/risk"
)

// DefaultCADToUSD is used when the rate service is unavailable.
const DefaultCADToUSD = 0.73

// DefaultRatesURL serves ECB reference rates.
const DefaultRatesURL = "https://api.frankfurter.app"

// fallbackRates are the documented constants used when a lookup fails.
var fallbackRates = map[string]float64{
	"CAD/USD": DefaultCADToUSD,
	"USD/CAD": 1 / DefaultCADToUSD,
}

// CurrencyConverter looks up exchange rates and never fails an analysis:
// on any error it falls back to a constant.
type CurrencyConverter struct {
	http *resty.Client
	log  logger.Logger
}

// NewCurrencyConverter creates a converter. If baseURL is empty,
// DefaultRatesURL is used.
func NewCurrencyConverter(baseURL string, log logger.Logger) *CurrencyConverter {
	if baseURL == "" {
		baseURL = DefaultRatesURL
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &CurrencyConverter{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(10 * time.Second),
		log: log,
	}
}

type ratesResponse struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

// RateQuote is the rate applied and whether it came from the fallback table.
type RateQuote struct {
	From     string  `json:"from"`
	To       string  `json:"to"`
	Rate     float64 `json:"rate"`
	Fallback bool    `json:"fallback"`
}

// Rate returns the multiplier converting from -> to.
func (c *CurrencyConverter) Rate(ctx context.Context, from, to string) RateQuote {
	from, to = strings.ToUpper(from), strings.ToUpper(to)
	q := RateQuote{From: from, To: to, Rate: 1}
	if from == to || from == "" || to == "" {
		return q
	}

	rate, err := c.lookup(ctx, from, to)
	if err == nil {
		q.Rate = rate
		return q
	}

	depErr := &model.ExternalDependencyError{Service: "currency rates", Err: err}
	metrics.ExternalFallback("currency")
	q.Fallback = true
	if fb, ok := fallbackRates[from+"/"+to]; ok {
		q.Rate = fb
		c.log.Warnf("%v; using fallback %s/%s=%.4f", depErr, from, to, fb)
	} else {
		c.log.Warnf("%v; no fallback for %s/%s, leaving amounts unconverted", depErr, from, to)
	}
	return q
}

func (c *CurrencyConverter) lookup(ctx context.Context, from, to string) (float64, error) {
	var out ratesResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{"from": from, "to": to}).
		SetResult(&out).
		Get("/latest")
	if err != nil {
		return 0, err
	}
	if resp.IsError() {
		return 0, fmt.Errorf("rates service returned %s", resp.Status())
	}
	rate, ok := out.Rates[to]
	if !ok || rate <= 0 {
		return 0, fmt.Errorf("no %s rate in response", to)
	}
	return rate, nil
}

// ConvertResult returns a copy of res with every money field multiplied by
// rate and rounded to cents.
func ConvertResult(res *model.AnalysisResult, rate float64) *model.AnalysisResult {
	if res == nil {
		return nil
	}
	out := *res
	out.TotalSavings = model.RoundCents(res.TotalSavings * rate)
	out.TotalAllInSavings = model.RoundCents(res.TotalAllInSavings * rate)
	out.NewAveragePrice = model.RoundCents(res.NewAveragePrice * rate)
	out.OriginalAverage = model.RoundCents(res.OriginalAverage * rate)
	out.Events = convertEvents(res.Events, rate)
	return &out
}

// ConvertAssessment is ConvertResult for a risk assessment, Monte Carlo
// summary included. Ratios (confidence, ROI, probability) are unchanged.
func ConvertAssessment(a *risk.Assessment, rate float64) *risk.Assessment {
	if a == nil {
		return nil
	}
	out := *a
	out.Events = convertEvents(a.Events, rate)
	out.GrossSavings = model.RoundCents(a.GrossSavings * rate)
	out.GrossAllInSavings = model.RoundCents(a.GrossAllInSavings * rate)
	out.OperationalCosts = model.RoundCents(a.OperationalCosts * rate)
	out.TransmissionCostVariation = model.RoundCents(a.TransmissionCostVariation * rate)
	out.RiskAdjustment = model.RoundCents(a.RiskAdjustment * rate)
	out.VolatilityAdjustment = model.RoundCents(a.VolatilityAdjustment * rate)
	out.NetSavings = model.RoundCents(a.NetSavings * rate)
	out.NetAllInSavings = model.RoundCents(a.NetAllInSavings * rate)
	out.NewAveragePrice = model.RoundCents(a.NewAveragePrice * rate)
	if a.MonteCarlo != nil {
		mc := *a.MonteCarlo
		mc.Mean = model.RoundCents(mc.Mean * rate)
		mc.StdDev = model.RoundCents(mc.StdDev * rate)
		mc.P5 = model.RoundCents(mc.P5 * rate)
		mc.P95 = model.RoundCents(mc.P95 * rate)
		out.MonteCarlo = &mc
	}
	return &out
}

// ConvertStats converts the price statistics of a series.
func ConvertStats(s analysis.SeriesStats, rate float64) analysis.SeriesStats {
	s.Min = model.RoundCents(s.Min * rate)
	s.Max = model.RoundCents(s.Max * rate)
	s.Mean = model.RoundCents(s.Mean * rate)
	s.P05 = model.RoundCents(s.P05 * rate)
	s.P95 = model.RoundCents(s.P95 * rate)
	s.SpreadP95P05 = model.RoundCents(s.SpreadP95P05 * rate)
	s.CurtailmentPotential = model.RoundCents(s.CurtailmentPotential * rate)
	return s
}

// ConvertBaseline converts the baseline average and volatility. Windows are
// converted too when present.
func ConvertBaseline(b analysis.Baseline, rate float64) analysis.Baseline {
	b.Average = model.RoundCents(b.Average * rate)
	b.Volatility = model.RoundCents(b.Volatility * rate)
	if b.Windows != nil {
		windows := make([]model.BaselineWindow, len(b.Windows))
		for i, w := range b.Windows {
			w.Average = model.RoundCents(w.Average * rate)
			w.Volatility = model.RoundCents(w.Volatility * rate)
			windows[i] = w
		}
		b.Windows = windows
	}
	return b
}

func convertEvents(events []model.ShutdownEvent, rate float64) []model.ShutdownEvent {
	out := make([]model.ShutdownEvent, len(events))
	for i, ev := range events {
		ev.PeakPrice = model.RoundCents(ev.PeakPrice * rate)
		ev.AveragePrice = model.RoundCents(ev.AveragePrice * rate)
		ev.BaselinePrice = model.RoundCents(ev.BaselinePrice * rate)
		ev.EnergySavings = model.RoundCents(ev.EnergySavings * rate)
		ev.AllInSavings = model.RoundCents(ev.AllInSavings * rate)
		ev.OperationalCost = model.RoundCents(ev.OperationalCost * rate)
		out[i] = ev
	}
	return out
}
