package provider

import (
	"context"
	"fmt"
	"os"

	"github.com/rpgo/portfolio-projector/internal/calculation"
	"github.com/rpgo/portfolio-projector/internal/domain"
	"gopkg.in/yaml.v3"
)

// MarketFile is the on-disk layout read by File.
type MarketFile struct {
	Market    domain.MarketParameters `yaml:"market"`
	Scenarios []domain.Scenario       `yaml:"scenarios,omitempty"`
}

// File reads market parameters from a YAML file on every call, so edits take
// effect once the engine's cache entry expires.
type File struct {
	path string
}

// NewFile creates a provider for the YAML market file at path.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the market file location.
func (f *File) Path() string {
	return f.path
}

func (f *File) MarketParameters(ctx context.Context) (domain.MarketParameters, error) {
	mf, err := f.load(ctx)
	if err != nil {
		return domain.MarketParameters{}, err
	}
	return mf.Market, nil
}

// Scenarios returns the file's scenarios, or the built-in set derived from the
// file's market parameters when it defines none.
func (f *File) Scenarios(ctx context.Context) ([]domain.Scenario, error) {
	mf, err := f.load(ctx)
	if err != nil {
		return nil, err
	}
	if len(mf.Scenarios) == 0 {
		return calculation.DefaultScenarios(mf.Market), nil
	}
	return mf.Scenarios, nil
}

func (f *File) load(ctx context.Context) (*MarketFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read market file %s: %w", calculation.ErrProviderUnavailable, f.path, err)
	}

	// fields absent from the file keep their default values
	mf := MarketFile{Market: domain.DefaultMarketParameters()}
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("failed to parse market file %s: %w", f.path, err)
	}

	if err := ValidateMarketFile(&mf); err != nil {
		return nil, fmt.Errorf("market file %s: %w", f.path, err)
	}
	return &mf, nil
}

// ValidateMarketFile checks that rates are usable by the samplers.
func ValidateMarketFile(mf *MarketFile) error {
	if err := validateRates(mf.Market.ExpectedReturn, mf.Market.Volatility); err != nil {
		return fmt.Errorf("market: %w", err)
	}
	if mf.Market.InflationRate <= -1 {
		return fmt.Errorf("market: inflation rate must be greater than -100%%")
	}

	seen := make(map[string]bool)
	for i, sc := range mf.Scenarios {
		if sc.Name == "" {
			return fmt.Errorf("scenario %d: name is required", i)
		}
		if sc.Key != "" {
			if seen[sc.Key] {
				return fmt.Errorf("scenario %d: duplicate key %q", i, sc.Key)
			}
			seen[sc.Key] = true
		}
		if err := validateRates(sc.Return, sc.Volatility); err != nil {
			return fmt.Errorf("scenario %s: %w", sc.Name, err)
		}
	}
	return nil
}

func validateRates(ret, vol float64) error {
	if ret <= -1 {
		return fmt.Errorf("expected return must be greater than -100%%")
	}
	if vol < 0 {
		return fmt.Errorf("volatility cannot be negative")
	}
	return nil
}
