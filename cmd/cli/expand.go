package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"uptime-optimizer/internal/data"
	"uptime-optimizer/internal/model"

	"github.com/spf13/cobra"
)

var expandOpts struct {
	dailyPath     string
	periodAverage float64
	outPath       string
}

var expandCmd = &cobra.Command{
	Use:   "expand",
	Short: "Expand daily average prices into a synthetic hourly series",
	RunE:  runExpand,
}

func init() {
	f := expandCmd.Flags()
	f.StringVar(&expandOpts.dailyPath, "daily", "", "JSON array of {date, average_price}")
	f.Float64Var(&expandOpts.periodAverage, "period-average", 0, "Average used for days without a price")
	f.StringVar(&expandOpts.outPath, "out", "results/hourly.csv", "Output path (.csv or .json)")
	_ = expandCmd.MarkFlagRequired("daily")
	rootCmd.AddCommand(expandCmd)
}

type dailyRecord struct {
	Date         string   `json:"date"`
	AveragePrice *float64 `json:"average_price"`
}

func runExpand(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(expandOpts.dailyPath)
	if err != nil {
		return err
	}
	var records []dailyRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return fmt.Errorf("parse %s: %w", expandOpts.dailyPath, err)
	}
	days := make([]model.DailyPrice, 0, len(records))
	for i, r := range records {
		d, err := time.Parse("2006-01-02", r.Date)
		if err != nil {
			return fmt.Errorf("record %d: invalid date %q", i, r.Date)
		}
		days = append(days, model.DailyPrice{Date: d, AveragePrice: r.AveragePrice})
	}

	points := data.ExpandDaily(days, expandOpts.periodAverage)
	if err := ensureDir(expandOpts.outPath); err != nil {
		return err
	}
	f, err := os.Create(expandOpts.outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(expandOpts.outPath), ".json") {
		out := make([]data.PricePointRecord, len(points))
		for i, p := range points {
			dt, price := p.Datetime, p.Price
			out[i] = data.PricePointRecord{Date: p.Date.Format("2006-01-02"), Hour: p.Hour, Datetime: &dt, Price: &price}
		}
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return err
		}
	} else if err := data.WritePricesCSV(f, points); err != nil {
		return err
	}
	fmt.Printf("Wrote %d hours to %s\n", len(points), expandOpts.outPath)
	return nil
}
