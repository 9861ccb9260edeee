package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"uptime-optimizer/internal/api"
	"uptime-optimizer/internal/api/handlers"
	"uptime-optimizer/internal/backtest"
	"uptime-optimizer/internal/config"
	"uptime-optimizer/internal/data"
	"uptime-optimizer/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	log := logger.New("api")
	if err := run(log); err != nil {
		log.Errorf("api server: %v", err)
		os.Exit(1)
	}
}

func run(log logger.Logger) error {
	// .env is optional
	if err := godotenv.Load(); err == nil {
		log.Infof("loaded environment from .env")
	}

	cfg := config.Default()
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	cfg.ApplyEnv()

	// Log working directory and important paths for debugging
	if wd, err := os.Getwd(); err == nil {
		log.Infof("working directory: %s", wd)
		facilityDir := cfg.Server.FacilityDir
		if !filepath.IsAbs(facilityDir) {
			facilityDir = filepath.Join(wd, facilityDir)
		}
		if info, err := os.Stat(facilityDir); err == nil && info.IsDir() {
			log.Infof("facility directory found: %s", facilityDir)
		} else {
			log.Warnf("facility directory not found at: %s (error: %v)", facilityDir, err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Grid Status API keys come with each request; responses are cached
	// across requests.
	cache := data.NewResponseCache(cfg.PriceSource.CacheTTL)
	go cache.Run(ctx, cfg.PriceSource.CacheTTL)

	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	staticDir := os.Getenv("STATIC_DIR")
	if staticDir == "" {
		staticDir = "./web/dist"
	}
	if _, err := os.Stat(staticDir); err != nil {
		log.Infof("static directory %s not found, skipping static file serving", staticDir)
		staticDir = ""
	}

	router := api.NewRouter(handlers.AnalysisDeps{
		Config:        cfg,
		Analyzer:      backtest.NewAnalyzer(logger.New("analyzer")),
		Currency:      data.NewCurrencyConverter(cfg.Currency.RatesURL, logger.New("currency")),
		Cache:         cache,
		GridStatusURL: cfg.PriceSource.BaseURL,
		Logger:        log,
	}, staticDir)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Errorf("server shutdown: %v", err)
		}
	}()

	log.Infof("starting API server on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
