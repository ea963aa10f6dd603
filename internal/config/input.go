package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/rpgo/portfolio-projector/internal/calculation"
	"github.com/rpgo/portfolio-projector/internal/domain"
	"github.com/rpgo/portfolio-projector/internal/logging"
	"github.com/rpgo/portfolio-projector/internal/provider"
	"gopkg.in/yaml.v3"
)

const (
	maxSimulations  = 1_000_000
	maxYears        = 100
	DefaultCurrency = "INR"
)

// Configuration is the application configuration read from YAML.
type Configuration struct {
	MarketFile  string           `yaml:"market_file,omitempty"`
	HistoryFile string           `yaml:"history_file,omitempty"`
	Simulation  SimulationConfig `yaml:"simulation"`
	CacheTTL    time.Duration    `yaml:"cache_ttl"`
	Logging     LoggingConfig    `yaml:"logging"`
	Breaker     BreakerConfig    `yaml:"breaker"`
	Currency    string           `yaml:"currency"`
}

// SimulationConfig holds the projection defaults used by the CLI.
type SimulationConfig struct {
	Simulations int                     `yaml:"simulations"`
	Years       int                     `yaml:"years"`
	Method      domain.ProjectionMethod `yaml:"method"`
	Seed        *int64                  `yaml:"seed,omitempty"`
}

// LoggingConfig configures the slog logger and its rotating file.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	File       string `yaml:"file,omitempty"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// BreakerConfig configures the circuit breaker around the market provider.
type BreakerConfig struct {
	Enabled      bool          `yaml:"enabled"`
	MaxRequests  uint32        `yaml:"max_requests"`
	Interval     time.Duration `yaml:"interval"`
	Timeout      time.Duration `yaml:"timeout"`
	FailureRatio float64       `yaml:"failure_ratio"`
	MinRequests  uint32        `yaml:"min_requests"`
}

// DefaultConfiguration returns the configuration used when no file is given.
// Fields absent from a loaded file keep these values.
func DefaultConfiguration() *Configuration {
	return &Configuration{
		Simulation: SimulationConfig{
			Simulations: calculation.DefaultSimulations,
			Years:       calculation.DefaultProjectionYears,
			Method:      domain.MethodParametric,
		},
		CacheTTL: calculation.DefaultCacheTTL,
		Logging: LoggingConfig{
			Level:      "warn",
			Format:     "json",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Breaker: BreakerConfig{
			MaxRequests:  1,
			Interval:     time.Minute,
			Timeout:      30 * time.Second,
			FailureRatio: 0.5,
			MinRequests:  5,
		},
		Currency: DefaultCurrency,
	}
}

// InputParser handles parsing of configuration files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads configuration from a YAML file. Relative market and
// history paths are resolved against the file's directory.
func (ip *InputParser) LoadFromFile(filename string) (*Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	config, err := ip.Parse(data)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(filename)
	config.MarketFile = resolvePath(dir, config.MarketFile)
	config.HistoryFile = resolvePath(dir, config.HistoryFile)
	config.Logging.File = resolvePath(dir, config.Logging.File)
	return config, nil
}

// Parse decodes and validates YAML configuration data.
func (ip *InputParser) Parse(data []byte) (*Configuration, error) {
	config := DefaultConfiguration()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateConfiguration(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

func resolvePath(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// ValidateConfiguration validates the loaded configuration
func (ip *InputParser) ValidateConfiguration(config *Configuration) error {
	if err := ip.validateSimulation(&config.Simulation); err != nil {
		return fmt.Errorf("simulation: %w", err)
	}
	if config.Simulation.Method == domain.MethodHistorical && config.HistoryFile == "" {
		return fmt.Errorf("history_file is required for the historical method")
	}

	if config.CacheTTL < 0 {
		return fmt.Errorf("cache_ttl cannot be negative")
	}

	if err := ip.validateLogging(&config.Logging); err != nil {
		return fmt.Errorf("logging: %w", err)
	}

	if config.Breaker.Enabled {
		if err := ip.validateBreaker(&config.Breaker); err != nil {
			return fmt.Errorf("breaker: %w", err)
		}
	}

	if money.GetCurrency(strings.ToUpper(config.Currency)) == nil {
		return fmt.Errorf("unknown currency code %q", config.Currency)
	}

	return nil
}

func (ip *InputParser) validateSimulation(sim *SimulationConfig) error {
	if sim.Simulations <= 0 || sim.Simulations > maxSimulations {
		return fmt.Errorf("simulations must be between 1 and %d", maxSimulations)
	}
	if sim.Years <= 0 || sim.Years > maxYears {
		return fmt.Errorf("years must be between 1 and %d", maxYears)
	}
	switch sim.Method {
	case domain.MethodParametric, domain.MethodHistorical:
	default:
		return fmt.Errorf("unknown method %q", sim.Method)
	}
	return nil
}

func (ip *InputParser) validateLogging(l *LoggingConfig) error {
	switch strings.ToLower(l.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown level %q", l.Level)
	}
	switch strings.ToLower(l.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("unknown format %q", l.Format)
	}
	if l.MaxSizeMB < 0 || l.MaxBackups < 0 || l.MaxAgeDays < 0 {
		return fmt.Errorf("rotation limits cannot be negative")
	}
	return nil
}

func (ip *InputParser) validateBreaker(b *BreakerConfig) error {
	if b.FailureRatio <= 0 || b.FailureRatio > 1 {
		return fmt.Errorf("failure_ratio must be in (0, 1]")
	}
	if b.Interval < 0 || b.Timeout < 0 {
		return fmt.Errorf("interval and timeout cannot be negative")
	}
	return nil
}

// LoggerConfig maps the logging section onto logging.Config.
func (c *Configuration) LoggerConfig() logging.Config {
	return logging.Config{
		Level:      c.Logging.Level,
		Format:     c.Logging.Format,
		File:       c.Logging.File,
		MaxSize:    c.Logging.MaxSizeMB,
		MaxBackups: c.Logging.MaxBackups,
		MaxAge:     c.Logging.MaxAgeDays,
	}
}

// BreakerSettings maps the breaker section onto provider.BreakerSettings.
func (c *Configuration) BreakerSettings() provider.BreakerSettings {
	return provider.BreakerSettings{
		Name:         "market-file",
		MaxRequests:  c.Breaker.MaxRequests,
		Interval:     c.Breaker.Interval,
		Timeout:      c.Breaker.Timeout,
		FailureRatio: c.Breaker.FailureRatio,
		MinRequests:  c.Breaker.MinRequests,
	}
}

// MarketProvider builds the configured market data provider, or nil when no
// market file is set and the engine should use its built-in defaults.
func (c *Configuration) MarketProvider(logger calculation.Logger) calculation.MarketDataProvider {
	if c.MarketFile == "" {
		return nil
	}
	var p calculation.MarketDataProvider = provider.NewFile(c.MarketFile)
	if c.Breaker.Enabled {
		p = provider.NewBreaker(p, c.BreakerSettings(), logger)
	}
	return p
}

// CreateExampleConfiguration creates an example configuration
func (ip *InputParser) CreateExampleConfiguration() *Configuration {
	seed := int64(42)
	config := DefaultConfiguration()
	config.MarketFile = "market.yaml"
	config.HistoryFile = "nifty50_returns.csv"
	config.Simulation.Seed = &seed
	config.Logging.Level = "info"
	config.Logging.File = "projector.log"
	config.Breaker.Enabled = true
	return config
}

// Marshal renders config as YAML.
func (ip *InputParser) Marshal(config *Configuration) ([]byte, error) {
	data, err := yaml.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	return data, nil
}
