package main

import (
	"backtrader/internal/engine"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// appConfig is the whole configuration file: the engine keys at the top
// level plus the data and strategy sections only the CLI needs.
type appConfig struct {
	Engine   engine.Config  `yaml:",inline"`
	Data     dataConfig     `yaml:"data"`
	Strategy strategyConfig `yaml:"strategy"`
}

type dataConfig struct {
	Source        string `yaml:"source" validate:"required,oneof=file postgres"`
	Path          string `yaml:"path" validate:"required_if=Source file"`
	DatabaseURL   string `yaml:"database_url" validate:"required_if=Source postgres"`
	Interval      string `yaml:"interval"`
	Start         string `yaml:"start" validate:"required_if=Source postgres"`
	End           string `yaml:"end"`
	TimestampUnit string `yaml:"timestamp_unit" validate:"omitempty,oneof=s ms native"`
}

type strategyConfig struct {
	Name   string    `yaml:"name" validate:"required,oneof=smacross donchian grid"`
	Params yaml.Node `yaml:"params" validate:"-"`
}

var dateLayouts = []string{"2006-01-02", time.RFC3339}

func loadAppConfig(path string) (appConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return appConfig{}, fmt.Errorf("read config: %w", err)
	}
	return parseAppConfig(raw)
}

func parseAppConfig(raw []byte) (appConfig, error) {
	var c appConfig
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return appConfig{}, fmt.Errorf("parse config: %w", err)
	}

	// The engine section is validated again by NewEngine; failing here keeps
	// config errors ahead of any data access.
	engineConfig, err := engine.ParseConfig(raw)
	if err != nil {
		return appConfig{}, err
	}
	c.Engine = engineConfig

	validate := validator.New()
	if err := validate.Struct(c.Data); err != nil {
		return appConfig{}, fmt.Errorf("invalid data config: %w", err)
	}
	if err := validate.Struct(c.Strategy); err != nil {
		return appConfig{}, fmt.Errorf("invalid strategy config: %w", err)
	}
	if _, _, err := c.Data.timeRange(); err != nil {
		return appConfig{}, err
	}
	return c, nil
}

// timeRange parses start and end. A missing start is the zero time and a
// missing end is now.
func (d dataConfig) timeRange() (time.Time, time.Time, error) {
	start, err := parseDate(d.Start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("data.start: %w", err)
	}
	end := time.Now().UTC()
	if d.End != "" {
		if end, err = parseDate(d.End); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("data.end: %w", err)
		}
	}
	if !start.IsZero() && !end.After(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("data.end %s is not after data.start %s", d.End, d.Start)
	}
	return start, end, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as YYYY-MM-DD or RFC3339", s)
}
