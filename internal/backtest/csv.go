package backtest

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"time"

	"uptime-optimizer/internal/model"
)

func WriteLedgerCSV(path string, ledger []LedgerRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteLedger(f, ledger)
}

// WriteLedger writes one CSV row per hour.
func WriteLedger(out io.Writer, ledger []LedgerRow) error {
	w := csv.NewWriter(out)
	defer w.Flush()

	header := []string{
		"index",
		"datetime",
		"hour",
		"price",
		"baseline",
		"action",
		"energy_mwh",
		"cost",
		"cum_cost",
		"savings",
		"cum_savings",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range ledger {
		row := []string{
			strconv.Itoa(r.Index),
			fmtTime(r.Datetime),
			strconv.Itoa(r.Hour),
			fmtFloat(r.Price),
			fmtFloat(r.Baseline),
			string(r.Action),
			fmtFloat(r.EnergyMWh),
			fmtFloat(r.Cost),
			fmtFloat(r.CumCost),
			fmtFloat(r.Savings),
			fmtFloat(r.CumSavings),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// WriteEvents writes one CSV row per shutdown event.
func WriteEvents(out io.Writer, events []model.ShutdownEvent) error {
	w := csv.NewWriter(out)
	defer w.Flush()

	header := []string{
		"date",
		"start_hour",
		"duration_hours",
		"peak_price",
		"average_price",
		"baseline_price",
		"energy_savings",
		"all_in_savings",
		"operational_cost",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, ev := range events {
		row := []string{
			ev.Date.Format("2006-01-02"),
			strconv.Itoa(ev.StartHour),
			strconv.Itoa(ev.DurationHours),
			fmtFloat(ev.PeakPrice),
			fmtFloat(ev.AveragePrice),
			fmtFloat(ev.BaselinePrice),
			fmtFloat(ev.EnergySavings),
			fmtFloat(ev.AllInSavings),
			fmtFloat(ev.OperationalCost),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
