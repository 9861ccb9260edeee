package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"uptime-optimizer/internal/api/models"
	"uptime-optimizer/internal/backtest"
	"uptime-optimizer/internal/config"
	"uptime-optimizer/internal/data"
	"uptime-optimizer/internal/logger"
	"uptime-optimizer/internal/model"
	"uptime-optimizer/internal/strategy"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AnalysisHandler handles analysis requests
type AnalysisHandler struct {
	priceLoader
	analyzer    *backtest.Analyzer
	currency    *data.CurrencyConverter
	baseCcy     string
	facilityDir string
	defaults    *config.Config
}

// AnalysisDeps are the collaborators of the analysis and scenario handlers.
type AnalysisDeps struct {
	Config        *config.Config
	Analyzer      *backtest.Analyzer
	Currency      *data.CurrencyConverter
	Cache         *data.ResponseCache
	GridStatusURL string
	Logger        logger.Logger
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(d AnalysisDeps) *AnalysisHandler {
	if d.Logger == nil {
		d.Logger = logger.NopLogger{}
	}
	if d.Config == nil {
		d.Config = config.Default()
	}
	if d.Analyzer == nil {
		d.Analyzer = backtest.NewAnalyzer(d.Logger)
	}
	return &AnalysisHandler{
		priceLoader: newPriceLoader(d),
		analyzer:    d.Analyzer,
		currency:    d.Currency,
		baseCcy:     d.Config.Currency.From,
		facilityDir: d.Config.Server.FacilityDir,
		defaults:    d.Config,
	}
}

// RunAnalysis handles POST /api/v1/analysis
func (h *AnalysisHandler) RunAnalysis(c *gin.Context) {
	var req models.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	breq, err := h.buildRequest(c, req)
	if err != nil {
		writeError(c, err)
		return
	}

	rep, err := h.analyzer.Analyze(c.Request.Context(), breq)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := models.AnalysisResponse{
		ID:            uuid.NewString(),
		Status:        "completed",
		Result:        rep.Result,
		Stats:         rep.Stats,
		Baseline:      rep.Baseline,
		Normalization: rep.Normalization,
		Synthetic:     rep.Synthetic,
		Violations:    rep.Violations,
		Risk:          rep.Risk,
	}
	rate := 1.0
	if to := strings.TrimSpace(req.Currency); to != "" && h.currency != nil && h.baseCcy != "" {
		// every money field of the response is reported in the quoted currency
		quote := h.currency.Rate(c.Request.Context(), h.baseCcy, to)
		rate = quote.Rate
		resp.Result = data.ConvertResult(rep.Result, rate)
		resp.Risk = data.ConvertAssessment(rep.Risk, rate)
		resp.Stats = data.ConvertStats(rep.Stats, rate)
		resp.Baseline = data.ConvertBaseline(rep.Baseline, rate)
		resp.Currency = &quote
	}
	if req.Options.IncludeLedger && rep.Ledger != nil {
		resp.Ledger = ledgerRows(rep.Ledger.Ledger, rate)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AnalysisHandler) buildRequest(c *gin.Context, req models.AnalysisRequest) (backtest.Request, error) {
	kind, err := strategy.ParseKind(req.Strategy)
	if err != nil {
		return backtest.Request{}, err
	}
	window, err := parseWindow(req.WindowStart, req.WindowEnd)
	if err != nil {
		return backtest.Request{}, err
	}
	points, err := h.load(c.Request.Context(), req.Prices, req.DataSource)
	if err != nil {
		return backtest.Request{}, err
	}
	daily, err := toDailyPrices(req.Daily)
	if err != nil {
		return backtest.Request{}, err
	}
	constraints, err := h.constraints(req)
	if err != nil {
		return backtest.Request{}, err
	}

	breq := h.defaults.Request(points, window)
	breq.Daily = daily
	breq.PeriodAverage = req.PeriodAverage
	breq.Strategy = kind
	breq.TargetUptimePercent = *req.TargetUptimePercent
	breq.Constraints = constraints
	if req.ScheduleStart != "" || req.ScheduleEnd != "" {
		breq.Schedule.WindowStart = req.ScheduleStart
		breq.Schedule.WindowEnd = req.ScheduleEnd
	}
	if req.TransmissionAdder != nil {
		breq.TransmissionAdder = *req.TransmissionAdder
	}
	if req.BaselineWindowDays > 0 {
		breq.BaselineWindowDays = req.BaselineWindowDays
	}
	breq.Risk = req.Risk.Enabled
	if limit := h.defaults.Risk.MaxMonteCarloIterations; limit > 0 && req.Risk.Iterations > limit {
		return backtest.Request{}, &model.InvalidParameterError{
			Param:  "risk.iterations",
			Value:  req.Risk.Iterations,
			Reason: model.ReasonTooHigh,
			Detail: fmt.Sprintf("must be at most %d", limit),
		}
	}
	if req.Risk.Iterations > 0 {
		breq.MonteCarloIterations = req.Risk.Iterations
	}
	if req.Risk.Seed != 0 {
		breq.MonteCarloSeed = req.Risk.Seed
	}
	return breq, nil
}

// constraints starts from the configured constraints, applies the facility
// preset if one is named, then the request's own overrides.
func (h *AnalysisHandler) constraints(req models.AnalysisRequest) (model.OperationalConstraints, error) {
	out := h.defaults.Constraints
	if id := strings.TrimSpace(req.FacilityID); id != "" {
		if strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
			return out, &model.InvalidParameterError{Param: "facility_id", Value: id, Reason: model.ReasonInvalid}
		}
		f, err := config.LoadFacility(filepath.Join(h.facilityDir, id+".yaml"))
		if err != nil {
			return out, &model.InvalidParameterError{Param: "facility_id", Value: id, Reason: model.ReasonInvalid, Detail: "unknown facility"}
		}
		out = config.MergeConstraints(out, f.Constraints)
	}
	if in := req.Constraints; in != nil {
		out = config.MergeConstraints(out, model.OperationalConstraints{
			StartupCostPerMW:             in.StartupCostPerMW,
			ShutdownCostPerMW:            in.ShutdownCostPerMW,
			MinimumShutdownDurationHours: in.MinimumShutdownDurationHours,
			MaximumShutdownsPerWeek:      in.MaximumShutdownsPerWeek,
			RampingTimeMinutes:           in.RampingTimeMinutes,
		})
	}
	if err := out.Validate(); err != nil {
		return out, &model.InvalidParameterError{Param: "constraints", Value: out, Reason: model.ReasonInvalid, Detail: err.Error()}
	}
	return out, nil
}

// ledgerRows converts ledger money fields by rate; 1 keeps them unrounded.
func ledgerRows(rows []backtest.LedgerRow, rate float64) []models.LedgerRow {
	conv := func(x float64) float64 {
		if rate == 1 {
			return x
		}
		return model.RoundCents(x * rate)
	}
	out := make([]models.LedgerRow, len(rows))
	for i, r := range rows {
		out[i] = models.LedgerRow{
			Index:      r.Index,
			Datetime:   r.Datetime,
			Price:      conv(r.Price),
			Baseline:   conv(r.Baseline),
			Action:     string(r.Action),
			Cost:       conv(r.Cost),
			Savings:    conv(r.Savings),
			CumSavings: conv(r.CumSavings),
		}
	}
	return out
}
