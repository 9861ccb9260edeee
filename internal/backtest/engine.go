package backtest

import (
	"fmt"

	"uptime-optimizer/internal/analysis"
	"uptime-optimizer/internal/model"
	"uptime-optimizer/internal/strategy"
)

type Engine struct{}

func New() *Engine { return &Engine{} }

// Run replays a normalized hourly series through a strategy and records what
// a 1 MW load would have paid and avoided each hour.
func (e *Engine) Run(points []model.PricePoint, strat strategy.Strategy, baseline analysis.Baseline) (*Result, error) {
	if strat == nil {
		return nil, fmt.Errorf("strategy is nil")
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("no price points")
	}

	ledger := make([]LedgerRow, 0, len(points))
	res := &Result{}

	for idx, p := range points {
		action := strat.Decide(strategy.Context{Index: idx, Point: p})

		row := LedgerRow{
			Index:    idx,
			Datetime: p.Datetime,
			Hour:     p.Hour,
			Price:    p.Price,
			Baseline: baseline.Nearest(p.Datetime),
			Action:   action,
		}
		switch action {
		case model.ActionRunning:
			row.EnergyMWh = 1
			row.Cost = p.Price
			res.RunningHours++
		case model.ActionCurtailed:
			row.Savings = p.Price
			res.CurtailedHours++
		default:
			return nil, fmt.Errorf("hour %d: unknown action %q", idx, action)
		}
		res.TotalCost += row.Cost
		res.TotalSavings += row.Savings
		row.CumCost = res.TotalCost
		row.CumSavings = res.TotalSavings
		ledger = append(ledger, row)
	}

	res.Ledger = ledger
	return res, nil
}
