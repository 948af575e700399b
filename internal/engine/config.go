package engine

import (
	"backtrader/internal/performance"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config is the engine section of a backtest configuration file.
type Config struct {
	InitialCapital  float64         `yaml:"initial_capital" validate:"gt=0"`
	CommissionPct   float64         `yaml:"commission_pct" validate:"gte=0"`
	CommissionFixed float64         `yaml:"commission_fixed" validate:"gte=0"`
	Symbols         []string        `yaml:"symbols" validate:"required,min=1,unique,dive,required"`
	Reporting       ReportingConfig `yaml:"reporting"`
	Execution       ExecutionConfig `yaml:"execution"`
}

type ReportingConfig struct {
	RiskFreeRate float64 `yaml:"risk_free_rate"`
	// PeriodsPerYear is the annualization base: 365 for crypto bars, 252 for
	// exchange trading days, 1 when each row is a year.
	PeriodsPerYear float64 `yaml:"periods_per_year" validate:"gt=0"`
	CSVDir         string  `yaml:"csv_dir"`
	ChartPath      string  `yaml:"chart_path"`
}

type ExecutionConfig struct {
	Parallel bool `yaml:"parallel"`
	// Workers caps concurrent symbols when Parallel is set; 0 means one per symbol.
	Workers      int  `yaml:"workers" validate:"gte=0"`
	ShowProgress bool `yaml:"show_progress"`
}

func NewConfig(initialCapital, commissionPct, commissionFixed float64, symbols ...string) Config {
	c := Config{
		InitialCapital:  initialCapital,
		CommissionPct:   commissionPct,
		CommissionFixed: commissionFixed,
		Symbols:         symbols,
	}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.Reporting.PeriodsPerYear == 0 {
		c.Reporting.PeriodsPerYear = performance.PeriodsPerYearCrypto
	}
}

func (c Config) Validate() error {
	if len(c.Symbols) == 0 {
		return ErrNoSymbols
	}
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LoadConfig reads a YAML file, fills defaults and validates the result.
// Keys outside the engine section are ignored.
func LoadConfig(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(raw)
}

func ParseConfig(raw []byte) (Config, error) {
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) costModel() CostModel {
	return NewCostModel(decimal.NewFromFloat(c.CommissionPct), decimal.NewFromFloat(c.CommissionFixed))
}
