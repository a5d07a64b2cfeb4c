// Package config resolves dashboard settings: built-in defaults, then an optional
// YAML file, then environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/iafilius/CCSExplorer/src/analysis"
)

const (
	configPathEnv   = "CCS_CONFIG"
	DefaultDataFile = "ccs.csv"
)

// Config holds settings shared by the viewer and the reader.
type Config struct {
	DataFile string      `yaml:"data" env:"CCS_DATA"`
	OutDir   string      `yaml:"outDir" env:"CCS_OUT_DIR"`
	LogLevel string      `yaml:"logLevel" env:"CCS_LOG_LEVEL"`
	Chart    ChartConfig `yaml:"chart"`
	// Views overrides slider bounds per view id.
	Views map[string]ViewConfig `yaml:"views"`
}

// ChartConfig sizes rendered images (pixels).
type ChartConfig struct {
	Width  int `yaml:"width" env:"CCS_CHART_WIDTH"`
	Height int `yaml:"height" env:"CCS_CHART_HEIGHT"`
}

// ViewConfig overrides the slider of one view. Zero fields keep the built-in value.
type ViewConfig struct {
	TopN  *analysis.Bounds     `yaml:"topN"`
	Years *analysis.YearBounds `yaml:"years"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DataFile: DefaultDataFile,
		OutDir:   ".",
		LogLevel: "info",
		Chart:    ChartConfig{Width: 1600, Height: 640},
	}
}

// Load builds the configuration. path may be empty, in which case CCS_CONFIG is
// consulted; a missing file is an error only when a path was given explicitly.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case err == nil:
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				return cfg, fmt.Errorf("config: parse %s: %w", path, err)
			}
			cfg = merge(cfg, fileCfg)
		case explicit || !errors.Is(err, os.ErrNotExist):
			return cfg, fmt.Errorf("config: read %s: %w", path, err)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("config: environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func merge(base, override Config) Config {
	if override.DataFile != "" {
		base.DataFile = override.DataFile
	}
	if override.OutDir != "" {
		base.OutDir = override.OutDir
	}
	if override.LogLevel != "" {
		base.LogLevel = override.LogLevel
	}
	if override.Chart.Width > 0 {
		base.Chart.Width = override.Chart.Width
	}
	if override.Chart.Height > 0 {
		base.Chart.Height = override.Chart.Height
	}
	if len(override.Views) > 0 {
		base.Views = override.Views
	}
	return base
}

// Validate rejects unknown view ids, and inverted bounds or defaults outside their
// bounds once overrides are applied. Top-N sliders must start at 1 or more.
func (c Config) Validate() error {
	var problems []string
	if c.Chart.Width < 200 || c.Chart.Height < 120 {
		problems = append(problems, fmt.Sprintf("chart size %dx%d too small", c.Chart.Width, c.Chart.Height))
	}
	known := analysis.Views()
	for id := range c.Views {
		if _, err := analysis.ViewByID(known, id); err != nil {
			problems = append(problems, err.Error())
		}
	}
	for _, v := range c.ResolvedViews() {
		switch v.Param {
		case analysis.ParamTopN:
			b := v.TopN
			if b.Min < 1 || b.Min > b.Max || b.Default < b.Min || b.Default > b.Max {
				problems = append(problems, fmt.Sprintf("view %s: topN bounds %+v", v.ID, b))
			}
		case analysis.ParamYearRange:
			y := v.Years
			d := y.Default
			if y.Min > y.Max || d.From > d.To || d.From < y.Min || d.To > y.Max {
				problems = append(problems, fmt.Sprintf("view %s: year bounds %+v", v.ID, y))
			}
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("config: invalid: %s", strings.Join(problems, "; "))
	}
	return nil
}

// ResolvedViews returns the dashboard views with slider overrides applied. Only
// the non-zero fields of an override replace the built-in bounds.
func (c Config) ResolvedViews() []analysis.View {
	views := analysis.Views()
	for id, vc := range c.Views {
		i := indexOfView(views, id)
		if i < 0 {
			continue
		}
		v := views[i]
		if vc.TopN != nil && v.Param == analysis.ParamTopN {
			views[i].TopN = mergeBounds(v.TopN, *vc.TopN)
		}
		if vc.Years != nil && v.Param == analysis.ParamYearRange {
			views[i].Years = mergeYearBounds(v.Years, *vc.Years)
		}
	}
	return views
}

func mergeBounds(base, o analysis.Bounds) analysis.Bounds {
	if o.Min != 0 {
		base.Min = o.Min
	}
	if o.Max != 0 {
		base.Max = o.Max
	}
	if o.Default != 0 {
		base.Default = o.Default
	}
	return base
}

func mergeYearBounds(base, o analysis.YearBounds) analysis.YearBounds {
	if o.Min != 0 {
		base.Min = o.Min
	}
	if o.Max != 0 {
		base.Max = o.Max
	}
	if o.Default.From != 0 {
		base.Default.From = o.Default.From
	}
	if o.Default.To != 0 {
		base.Default.To = o.Default.To
	}
	return base
}

func indexOfView(views []analysis.View, id string) int {
	for i, v := range views {
		if strings.EqualFold(v.ID, strings.TrimSpace(id)) {
			return i
		}
	}
	return -1
}
