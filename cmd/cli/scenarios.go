package main

import (
	"fmt"

	"uptime-optimizer/internal/logger"
	"uptime-optimizer/internal/scenario"

	"github.com/spf13/cobra"
)

var scenarioTargets []float64

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "Compare savings across uptime targets",
	RunE:  runScenarios,
}

func init() {
	scenariosCmd.Flags().Float64SliceVar(&scenarioTargets, "targets", nil,
		"Uptime targets, e.g. 100,95,90 (default: analysis.scenarios or 100,97,96,95,90,85,80)")
	rootCmd.AddCommand(scenariosCmd)
}

func runScenarios(cmd *cobra.Command, args []string) error {
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
	targets := scenarioTargets
	if len(targets) == 0 {
		targets = cfg.Analysis.Scenarios
	}

	results, err := scenario.NewRunner(cfg.Transmission.Adder, log).Run(ctx, points, w, targets)
	if err != nil {
		return err
	}

	fmt.Printf("%-8s %-8s %-10s %-12s %-12s %-10s\n", "uptime", "hours", "curtailed", "savings", "all-in", "avg")
	for _, r := range results {
		if r.Err != nil {
			fmt.Printf("%-8.2f error: %v\n", r.UptimePercentage, r.Err)
			continue
		}
		a := r.Analysis
		fmt.Printf("%-8.2f %-8d %-10d %-12.2f %-12.2f %-10.2f\n",
			r.UptimePercentage, a.TotalHours, a.TotalShutdownHours, a.TotalSavings, a.TotalAllInSavings, a.NewAveragePrice)
	}
	return nil
}
