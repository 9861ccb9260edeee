package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"uptime-optimizer/internal/model"
	"uptime-optimizer/internal/strategy"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// Optional: load facility constraints from a separate YAML (e.g. examples/facilities/*.yaml).
	// If both ConstraintsFile and Constraints are provided, Constraints overrides ConstraintsFile.
	ConstraintsFile string                       `yaml:"constraints_file"`
	Constraints     model.OperationalConstraints `yaml:"constraints"`

	Analysis     AnalysisConfig     `yaml:"analysis"`
	Strategy     StrategyConfig     `yaml:"strategy"`
	Transmission TransmissionConfig `yaml:"transmission"`
	Risk         RiskConfig         `yaml:"risk"`
	PriceSource  PriceSourceConfig  `yaml:"price_source"`
	Currency     CurrencyConfig     `yaml:"currency"`
	Server       ServerConfig       `yaml:"server"`
}

type AnalysisConfig struct {
	TargetUptimePercent float64 `yaml:"target_uptime_percent"`
	// WindowDays is how many days back from now are analysed.
	WindowDays         int       `yaml:"window_days"`
	BaselineWindowDays int       `yaml:"baseline_window_days"`
	Scenarios          []float64 `yaml:"scenarios"`
}

type StrategyConfig struct {
	Name        string `yaml:"name"`
	WindowStart string `yaml:"window_start"`
	WindowEnd   string `yaml:"window_end"`
}

type TransmissionConfig struct {
	Adder float64 `yaml:"adder"`
}

type RiskConfig struct {
	Enabled              bool  `yaml:"enabled"`
	MonteCarloIterations int   `yaml:"monte_carlo_iterations"`
	Seed                 int64 `yaml:"seed"`
	// MaxMonteCarloIterations bounds iterations asked for per request.
	MaxMonteCarloIterations int `yaml:"max_monte_carlo_iterations"`
}

// DefaultMaxMonteCarloIterations bounds the per-request simulation buffer.
const DefaultMaxMonteCarloIterations = 100000

type PriceSourceConfig struct {
	// Type is "file" or "gridstatus".
	Type       string        `yaml:"type"`
	Path       string        `yaml:"path"`
	BaseURL    string        `yaml:"base_url"`
	DatasetID  string        `yaml:"dataset_id"`
	LocationID string        `yaml:"location_id"`
	CacheTTL   time.Duration `yaml:"cache_ttl"`
}

type CurrencyConfig struct {
	// From is the currency of the price data; To is the reporting currency.
	// Equal or empty values disable conversion.
	From     string `yaml:"from"`
	To       string `yaml:"to"`
	RatesURL string `yaml:"rates_url"`
}

type ServerConfig struct {
	Port        string   `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
	FacilityDir string   `yaml:"facility_dir"`
}

// Default returns a configuration that runs without any file.
func Default() *Config {
	c := &Config{}
	c.SetDefaults()
	return c
}

// SetDefaults fills zero values.
func (c *Config) SetDefaults() {
	def := model.DefaultConstraints()
	c.Constraints = MergeConstraints(def, c.Constraints)

	if c.Analysis.TargetUptimePercent == 0 {
		c.Analysis.TargetUptimePercent = 95
	}
	if c.Analysis.WindowDays == 0 {
		c.Analysis.WindowDays = 30
	}
	if c.Analysis.BaselineWindowDays == 0 {
		c.Analysis.BaselineWindowDays = 7
	}
	if c.Strategy.Name == "" {
		c.Strategy.Name = string(strategy.KindDeterministic)
	}
	if c.Transmission.Adder == 0 {
		c.Transmission.Adder = strategy.DefaultTransmissionAdder
	}
	if c.Risk.MonteCarloIterations == 0 {
		c.Risk.MonteCarloIterations = 1000
	}
	if c.Risk.MaxMonteCarloIterations == 0 {
		c.Risk.MaxMonteCarloIterations = DefaultMaxMonteCarloIterations
	}
	if c.PriceSource.Type == "" {
		c.PriceSource.Type = "file"
	}
	if c.PriceSource.CacheTTL == 0 {
		c.PriceSource.CacheTTL = time.Hour
	}
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.FacilityDir == "" {
		c.Server.FacilityDir = "examples/facilities"
	}
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	// If constraints_file is set, load it and merge in any explicit overrides from c.Constraints.
	if c.ConstraintsFile != "" {
		loaded, err := LoadFacility(resolve(path, c.ConstraintsFile))
		if err != nil {
			return nil, err
		}
		c.Constraints = MergeConstraints(loaded.Constraints, c.Constraints)
	}
	if c.PriceSource.Path != "" {
		c.PriceSource.Path = resolve(path, c.PriceSource.Path)
	}
	return &c, nil
}

// resolve interprets rel relative to the directory of the config file,
// falling back to the path as given (relative to cwd).
func resolve(configPath, rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	cand := filepath.Join(filepath.Dir(configPath), rel)
	if _, err := os.Stat(cand); err == nil {
		return cand
	}
	return rel
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if err := model.ValidateTargetUptime(c.Analysis.TargetUptimePercent); err != nil {
		return fmt.Errorf("analysis: %w", err)
	}
	for _, t := range c.Analysis.Scenarios {
		if err := model.ValidateTargetUptime(t); err != nil {
			return fmt.Errorf("analysis.scenarios: %w", err)
		}
	}
	if c.Analysis.WindowDays < 0 || c.Analysis.BaselineWindowDays < 0 {
		return errors.New("analysis: window days must be >= 0")
	}
	kind, err := strategy.ParseKind(c.Strategy.Name)
	if err != nil {
		return fmt.Errorf("strategy: %w", err)
	}
	if kind == strategy.KindSchedule && (c.Strategy.WindowStart == "") != (c.Strategy.WindowEnd == "") {
		return errors.New("strategy: schedule needs both window_start and window_end, or neither")
	}
	if err := c.Constraints.Validate(); err != nil {
		return fmt.Errorf("constraints invalid: %w", err)
	}
	if c.Transmission.Adder < 0 {
		return errors.New("transmission.adder must be >= 0")
	}
	if c.Risk.MaxMonteCarloIterations < 0 {
		return errors.New("risk.max_monte_carlo_iterations must be >= 0")
	}
	if c.Risk.MonteCarloIterations > c.Risk.MaxMonteCarloIterations {
		return fmt.Errorf("risk.monte_carlo_iterations must be at most %d", c.Risk.MaxMonteCarloIterations)
	}
	switch c.PriceSource.Type {
	case "file":
	case "gridstatus":
		if c.PriceSource.DatasetID == "" || c.PriceSource.LocationID == "" {
			return errors.New("price_source: gridstatus requires dataset_id and location_id")
		}
	default:
		return fmt.Errorf("price_source.type %q is not supported (file, gridstatus)", c.PriceSource.Type)
	}
	return nil
}

// Facility is a named preset of operational constraints.
type Facility struct {
	ID          string                       `yaml:"-" json:"id"`
	Name        string                       `yaml:"name" json:"name"`
	Description string                       `yaml:"description" json:"description,omitempty"`
	Market      string                       `yaml:"market" json:"market,omitempty"`
	Constraints model.OperationalConstraints `yaml:"constraints" json:"constraints"`
}

type facilityFileWrapper struct {
	Facility Facility `yaml:"facility"`
}

// LoadFacility reads one preset. Its ID is the file name without extension.
func LoadFacility(path string) (Facility, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Facility{}, err
	}
	var w facilityFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return Facility{}, fmt.Errorf("parse %s: %w", path, err)
	}
	w.Facility.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return w.Facility, nil
}

// LoadFacilities reads every *.yaml preset in dir, sorted by ID.
func LoadFacilities(dir string) ([]Facility, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []Facility
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		f, err := LoadFacility(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// MergeConstraints overlays non-zero fields from override onto base.
// This is used when loading a facility file and then applying overrides from the config or request.
func MergeConstraints(base, override model.OperationalConstraints) model.OperationalConstraints {
	out := base
	if override.StartupCostPerMW != 0 {
		out.StartupCostPerMW = override.StartupCostPerMW
	}
	if override.ShutdownCostPerMW != 0 {
		out.ShutdownCostPerMW = override.ShutdownCostPerMW
	}
	if override.MinimumShutdownDurationHours != 0 {
		out.MinimumShutdownDurationHours = override.MinimumShutdownDurationHours
	}
	if override.MaximumShutdownsPerWeek != 0 {
		out.MaximumShutdownsPerWeek = override.MaximumShutdownsPerWeek
	}
	if override.RampingTimeMinutes != 0 {
		out.RampingTimeMinutes = override.RampingTimeMinutes
	}
	return out
}

// ApplyEnv overrides settings from the environment: API_PORT,
// GRIDSTATUS_API_KEY selects the gridstatus source when no file is set,
// FACILITY_DIR sets the preset directory.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("API_PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("FACILITY_DIR"); v != "" {
		c.Server.FacilityDir = v
	}
	if os.Getenv("GRIDSTATUS_API_KEY") != "" && c.PriceSource.Path == "" {
		c.PriceSource.Type = "gridstatus"
	}
}
