// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Calendar   CalendarConfig   `yaml:"calendar"`
	Climate    ClimateConfig    `yaml:"climate"`
	Vegetation VegetationConfig `yaml:"vegetation"`
	Herbivore  HerbivoreConfig  `yaml:"herbivore"`
	Predation  PredationConfig  `yaml:"predation"`
	Runtime    RuntimeConfig    `yaml:"runtime"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// CalendarConfig holds the simulated time span.
type CalendarConfig struct {
	StartYear  int `yaml:"start_year"`
	StartMonth int `yaml:"start_month"` // 0 = January
	EndYear    int `yaml:"end_year"`    // Run stops once the year reaches this value
}

// ClimateConfig holds the seasonal weather curve.
type ClimateConfig struct {
	AvgTemp      float64 `yaml:"avg_temp"`      // Annual mean temperature
	AmpTemp      float64 `yaml:"amp_temp"`      // Seasonal swing, plus or minus
	RandomTemp   float64 `yaml:"random_temp"`   // Uniform noise bound, plus or minus
	AvgPrecip    float64 `yaml:"avg_precip"`    // Monthly mean precipitation
	AmpPrecip    float64 `yaml:"amp_precip"`    // Seasonal swing, plus or minus
	RandomPrecip float64 `yaml:"random_precip"` // Uniform noise bound, plus or minus
}

// VegetationConfig holds grain growth and grazing parameters.
type VegetationConfig struct {
	InitialHeight    float64 `yaml:"initial_height"`
	GrowsPerMonth    float64 `yaml:"grows_per_month"`     // Growth under ideal conditions
	DeerEatsPerMonth float64 `yaml:"deer_eats_per_month"` // Height consumed by one deer
	MidTemp          float64 `yaml:"mid_temp"`            // Ideal temperature
	MidPrecip        float64 `yaml:"mid_precip"`          // Ideal precipitation
	TempSpread       float64 `yaml:"temp_spread"`         // Width of the temperature suitability curve
	PrecipSpread     float64 `yaml:"precip_spread"`       // Width of the precipitation suitability curve
}

// HerbivoreConfig holds deer population parameters.
type HerbivoreConfig struct {
	InitialCount int `yaml:"initial_count"`
}

// PredationConfig holds hunting season parameters.
type PredationConfig struct {
	SeasonStart       int       `yaml:"season_start"` // First hunting month, 0-based, inclusive
	SeasonEnd         int       `yaml:"season_end"`   // Last hunting month, 0-based, inclusive
	MaxHunters        int       `yaml:"max_hunters"`  // Hunters drawn uniformly from 1..MaxHunters
	KillProbabilities []float64 `yaml:"kill_probabilities"`
}

// RuntimeConfig holds process-level settings.
type RuntimeConfig struct {
	Seed     int64 `yaml:"seed"`      // 0 = time-based
	MinProcs int   `yaml:"min_procs"` // Required GOMAXPROCS before workers start
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfWindow      int `yaml:"perf_window"`      // Ticks averaged by the perf collector
	BookmarkHistory int `yaml:"bookmark_history"` // Months of history for bookmark detection
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	MonthAngle  float64 // Radians per month of the seasonal curve
	AngleOffset float64 // Mid-month offset in radians
	TotalTicks  int     // Months between start and end of the calendar
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns the embedded defaults. Panics if they do not parse.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate reports the first set of values that cannot drive a run.
func (c *Config) Validate() error {
	var errs []error

	if c.Calendar.StartMonth < 0 || c.Calendar.StartMonth > 11 {
		errs = append(errs, fmt.Errorf("calendar.start_month %d outside 0..11", c.Calendar.StartMonth))
	}
	if c.Calendar.EndYear < c.Calendar.StartYear {
		errs = append(errs, fmt.Errorf("calendar.end_year %d before start_year %d", c.Calendar.EndYear, c.Calendar.StartYear))
	}
	if c.Climate.RandomTemp < 0 || c.Climate.RandomPrecip < 0 {
		errs = append(errs, errors.New("climate noise bounds must not be negative"))
	}
	if c.Vegetation.InitialHeight < 0 {
		errs = append(errs, errors.New("vegetation.initial_height must not be negative"))
	}
	if c.Vegetation.TempSpread <= 0 || c.Vegetation.PrecipSpread <= 0 {
		errs = append(errs, errors.New("vegetation spreads must be positive"))
	}
	if c.Herbivore.InitialCount < 0 {
		errs = append(errs, errors.New("herbivore.initial_count must not be negative"))
	}
	p := c.Predation
	if p.SeasonStart < 0 || p.SeasonEnd > 11 || p.SeasonStart > p.SeasonEnd {
		errs = append(errs, fmt.Errorf("predation season %d..%d is not a range within 0..11", p.SeasonStart, p.SeasonEnd))
	}
	if p.MaxHunters < 1 {
		errs = append(errs, errors.New("predation.max_hunters must be at least 1"))
	}
	if len(p.KillProbabilities) == 0 {
		errs = append(errs, errors.New("predation.kill_probabilities must not be empty"))
	}
	for _, kp := range p.KillProbabilities {
		if kp < 0 || kp > 1 {
			errs = append(errs, fmt.Errorf("predation kill probability %v outside 0..1", kp))
		}
	}
	if c.Runtime.MinProcs < 1 {
		errs = append(errs, errors.New("runtime.min_procs must be at least 1"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Refresh re-validates the config and recomputes derived values after
// fields were changed in code.
func (c *Config) Refresh() error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.computeDerived()
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.MonthAngle = 30.0 * math.Pi / 180.0
	c.Derived.AngleOffset = 15.0 * math.Pi / 180.0
	c.Derived.TotalTicks = (c.Calendar.EndYear-c.Calendar.StartYear)*12 - c.Calendar.StartMonth
	if c.Derived.TotalTicks < 0 {
		c.Derived.TotalTicks = 0
	}

	if c.Telemetry.PerfWindow < 1 {
		c.Telemetry.PerfWindow = 12
	}
	if c.Telemetry.BookmarkHistory < 4 {
		c.Telemetry.BookmarkHistory = 4
	}
}

// InSeason reports whether month falls in the hunting season.
func (c *Config) InSeason(month int) bool {
	return month >= c.Predation.SeasonStart && month <= c.Predation.SeasonEnd
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
