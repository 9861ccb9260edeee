package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"uptime-optimizer/internal/analysis"
	"uptime-optimizer/internal/data"
	"uptime-optimizer/internal/model"

	"github.com/spf13/cobra"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank locations by curtailment potential",
	Long:  "Reads Grid Status responses (comma-separated files or directories, --data) and ranks each location by the savings of its top hours at 95% uptime.",
	RunE:  runRank,
}

func init() {
	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, args []string) error {
	if dataPath == "" {
		return fmt.Errorf("--data is required")
	}
	byLoc := map[string][]model.PricePoint{}
	for _, p := range splitPaths(dataPath) {
		info, err := os.Stat(p)
		if err != nil {
			return err
		}
		files := []string{p}
		if info.IsDir() {
			entries, err := os.ReadDir(p)
			if err != nil {
				return err
			}
			files = files[:0]
			for _, e := range entries {
				if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
					continue
				}
				files = append(files, filepath.Join(p, e.Name()))
			}
		}
		for _, f := range files {
			resp, err := data.LoadGridStatusJSON(f)
			if err != nil {
				return fmt.Errorf("%s: %w", f, err)
			}
			mergeByLoc(byLoc, data.GroupByLocation(resp))
		}
	}

	for loc, points := range byLoc {
		series, _, err := data.NormalizeSeries(points, model.Window{})
		if err != nil {
			delete(byLoc, loc)
			continue
		}
		byLoc[loc] = series
	}

	ranked := analysis.RankByCurtailmentPotential(byLoc)
	fmt.Printf("%-4s %-18s %-8s %-10s %-10s %-13s %-12s\n", "rank", "location", "count", "mean", "p95-p05", "min/max", "potential")
	for i, r := range ranked {
		fmt.Printf(
			"%-4d %-18s %-8d %-10.2f %-10.2f %-6.1f/%-6.1f %-12.2f\n",
			i+1,
			r.Location,
			r.Count,
			r.Mean,
			r.SpreadP95P05,
			r.Min,
			r.Max,
			r.CurtailmentPotential,
		)
	}
	return nil
}

func mergeByLoc(dst, src map[string][]model.PricePoint) {
	for k, v := range src {
		dst[k] = append(dst[k], v...)
	}
}
