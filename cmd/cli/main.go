package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"uptime-optimizer/internal/config"
	"uptime-optimizer/internal/data"
	"uptime-optimizer/internal/logger"
	"uptime-optimizer/internal/model"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfgPath   string
	dataPath  string
	startDate string
	endDate   string
)

var rootCmd = &cobra.Command{
	Use:   "cli",
	Short: "Curtailment analysis against hourly market prices",
	Long: `Finds the hours a flexible load should stop to lower its average
energy price while keeping a target uptime.

  cli analyze --config examples/config.yaml --out results/ledger.csv
  cli scenarios --data examples/sample_prices.json
  cli expand --daily daily.json --period-average 55 --out hourly.csv
  cli rank --data prices/`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "YAML config (defaults apply when empty)")
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "", "Price file, overrides price_source.path")
	rootCmd.PersistentFlags().StringVar(&startDate, "start", "", "Window start, YYYY-MM-DD")
	rootCmd.PersistentFlags().StringVar(&endDate, "end", "", "Window end (exclusive), YYYY-MM-DD")
}

func main() {
	_ = godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if cfgPath == "" {
		cfg = config.Default()
	} else if cfg, err = config.Load(cfgPath); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.ApplyEnv()
	if dataPath != "" {
		cfg.PriceSource.Type = "file"
		cfg.PriceSource.Path = dataPath
	}
	return cfg, nil
}

// window resolves --start/--end. Files are read whole unless bounded;
// live sources default to the configured trailing window.
func window(cfg *config.Config) (model.Window, error) {
	var w model.Window
	if cfg.PriceSource.Type == "gridstatus" {
		w = cfg.Window(time.Now())
	}
	if startDate != "" {
		t, err := time.Parse("2006-01-02", startDate)
		if err != nil {
			return w, fmt.Errorf("--start: %w", err)
		}
		w.Start = t
	}
	if endDate != "" {
		t, err := time.Parse("2006-01-02", endDate)
		if err != nil {
			return w, fmt.Errorf("--end: %w", err)
		}
		w.End = t
	}
	return w, nil
}

func priceSource(cfg *config.Config, log logger.Logger) (data.PriceSource, error) {
	switch cfg.PriceSource.Type {
	case "file":
		if cfg.PriceSource.Path == "" {
			return nil, fmt.Errorf("no price file: set --data or price_source.path")
		}
		return data.FileSource{Path: cfg.PriceSource.Path}, nil
	case "gridstatus":
		return data.NewGridStatusClient(os.Getenv("GRIDSTATUS_API_KEY"), cfg.PriceSource.BaseURL,
			data.WithSeries(cfg.PriceSource.DatasetID, cfg.PriceSource.LocationID),
			data.WithCache(data.NewResponseCache(cfg.PriceSource.CacheTTL)),
			data.WithLogger(log),
		), nil
	default:
		return nil, fmt.Errorf("unsupported price source: %q", cfg.PriceSource.Type)
	}
}

// loadPrices fetches the configured series for the resolved window.
func loadPrices(ctx context.Context, cfg *config.Config, log logger.Logger) ([]model.PricePoint, model.Window, error) {
	w, err := window(cfg)
	if err != nil {
		return nil, w, err
	}
	src, err := priceSource(cfg, log)
	if err != nil {
		return nil, w, err
	}
	points, err := src.FetchHourly(ctx, w)
	if err != nil {
		return nil, w, err
	}
	return points, w, nil
}

func ensureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

func splitPaths(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
