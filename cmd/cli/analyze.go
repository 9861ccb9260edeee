package main

import (
	"encoding/json"
	"fmt"
	"os"

	"uptime-optimizer/internal/backtest"
	"uptime-optimizer/internal/data"
	"uptime-optimizer/internal/logger"
	"uptime-optimizer/internal/strategy"

	"github.com/spf13/cobra"
)

var analyzeOpts struct {
	target     float64
	strategy   string
	outPath    string
	eventsPath string
	risk       bool
	seed       int64
	jsonOut    bool
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run one curtailment analysis and write the hourly ledger",
	RunE:  runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.Float64Var(&analyzeOpts.target, "target", 0, "Target uptime percent (overrides config)")
	f.StringVar(&analyzeOpts.strategy, "strategy", "", "deterministic, constrained or schedule (overrides config)")
	f.StringVar(&analyzeOpts.outPath, "out", "results/ledger.csv", "Ledger CSV path, empty to skip")
	f.StringVar(&analyzeOpts.eventsPath, "events", "", "Optional shutdown events CSV path")
	f.BoolVar(&analyzeOpts.risk, "risk", false, "Run the risk calculator")
	f.Int64Var(&analyzeOpts.seed, "seed", 0, "Monte Carlo seed (overrides config)")
	f.BoolVar(&analyzeOpts.jsonOut, "json", false, "Print the full report as JSON")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.New("cli")

	points, w, err := loadPrices(ctx, cfg, log)
	if err != nil {
		return err
	}

	req := cfg.Request(points, w)
	if analyzeOpts.target != 0 {
		req.TargetUptimePercent = analyzeOpts.target
	}
	if analyzeOpts.strategy != "" {
		kind, err := strategy.ParseKind(analyzeOpts.strategy)
		if err != nil {
			return err
		}
		req.Strategy = kind
	}
	if analyzeOpts.risk {
		req.Risk = true
	}
	if analyzeOpts.seed != 0 {
		req.MonteCarloSeed = analyzeOpts.seed
	}

	rep, err := backtest.NewAnalyzer(log).Analyze(ctx, req)
	if err != nil {
		return err
	}

	if analyzeOpts.outPath != "" {
		if err := ensureDir(analyzeOpts.outPath); err != nil {
			return err
		}
		if err := backtest.WriteLedgerCSV(analyzeOpts.outPath, rep.Ledger.Ledger); err != nil {
			return err
		}
		fmt.Printf("Wrote %d rows to %s\n", len(rep.Ledger.Ledger), analyzeOpts.outPath)
	}
	if analyzeOpts.eventsPath != "" {
		if err := writeEvents(analyzeOpts.eventsPath, rep); err != nil {
			return err
		}
		fmt.Printf("Wrote %d events to %s\n", len(rep.Result.Events), analyzeOpts.eventsPath)
	}

	if analyzeOpts.jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}

	printSummary(rep)
	if cfg.Currency.To != "" && cfg.Currency.From != "" && cfg.Currency.To != cfg.Currency.From {
		quote := data.NewCurrencyConverter(cfg.Currency.RatesURL, log).Rate(ctx, cfg.Currency.From, cfg.Currency.To)
		conv := data.ConvertResult(rep.Result, quote.Rate)
		note := ""
		if quote.Fallback {
			note = ", fallback"
		}
		fmt.Printf("In %s (rate %.4f%s): savings=%.2f all-in=%.2f avg=%.2f\n",
			quote.To, quote.Rate, note, conv.TotalSavings, conv.TotalAllInSavings, conv.NewAveragePrice)
	}
	return nil
}

func writeEvents(path string, rep *backtest.Report) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return backtest.WriteEvents(f, rep.Result.Events)
}

func printSummary(rep *backtest.Report) {
	res := rep.Result
	fmt.Printf("Strategy=%s target=%.2f%% hours=%d allowed=%d curtailed=%d (%.2f%%)\n",
		res.Strategy, res.TargetUptimePercent, res.TotalHours, res.AllowedDowntimeHours,
		res.TotalShutdownHours, res.DowntimePercentage)
	fmt.Printf("Average price %.2f -> %.2f, savings=%.2f all-in=%.2f\n",
		res.OriginalAverage, res.NewAveragePrice, res.TotalSavings, res.TotalAllInSavings)
	if rep.Synthetic {
		fmt.Println("Prices were expanded from daily averages")
	}
	for _, v := range rep.Violations {
		fmt.Printf("  skipped: %s\n", v)
	}
	if r := rep.Risk; r != nil {
		fmt.Printf("Risk: net=%.2f net-all-in=%.2f op-costs=%.2f confidence=%.2f roi=%.2f\n",
			r.NetSavings, r.NetAllInSavings, r.OperationalCosts, r.ConfidenceLevel, r.ProjectedROI)
		if mc := r.MonteCarlo; mc != nil {
			fmt.Printf("Monte Carlo (%d runs): mean=%.2f p5=%.2f p95=%.2f P(profit)=%.2f\n",
				mc.Iterations, mc.Mean, mc.P5, mc.P95, mc.ProbabilityOfProfit)
		}
	}
}
