// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/matt-FFFFFF/opwatch/internal/progress"
	"github.com/matt-FFFFFF/opwatch/internal/render"
	"github.com/matt-FFFFFF/opwatch/internal/throttle"
)

// Output modes.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputTUI  = "tui"
)

// DefaultTailLines is the number of output lines kept for failure messages.
const DefaultTailLines = 5

// ErrMarshal is returned when the configuration cannot be encoded.
var ErrMarshal = errors.New("failed to marshal config")

// Config is the effective configuration.
type Config struct {
	// ThrottleInterval is the minimum time between delivered snapshots.
	ThrottleInterval time.Duration
	// BarLength is the number of cells in the text progress bar.
	BarLength int
	// SmoothingWeight is the EWMA weight of the newest speed sample.
	SmoothingWeight float64
	// Output is one of OutputText, OutputJSON or OutputTUI.
	Output string
	// TailLines is how many output lines are kept to explain a failure.
	TailLines int
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ThrottleInterval: throttle.DefaultInterval,
		BarLength:        render.DefaultBarLength,
		SmoothingWeight:  progress.DefaultSmoothing,
		Output:           OutputText,
		TailLines:        DefaultTailLines,
	}
}

// Outputs lists the supported output modes.
func Outputs() []string {
	return []string{OutputText, OutputJSON, OutputTUI}
}

// fileConfig is the on-disk shape. Every field is optional and overrides the
// default only when present.
type fileConfig struct {
	ThrottleInterval *string  `yaml:"throttle_interval,omitempty" hcl:"throttle_interval,optional"`
	BarLength        *int     `yaml:"bar_length,omitempty" hcl:"bar_length,optional"`
	SmoothingWeight  *float64 `yaml:"smoothing_weight,omitempty" hcl:"smoothing_weight,optional"`
	Output           *string  `yaml:"output,omitempty" hcl:"output,optional"`
	TailLines        *int     `yaml:"tail_lines,omitempty" hcl:"tail_lines,optional"`
}

func (f fileConfig) merge(c Config) (Config, error) {
	if f.ThrottleInterval != nil {
		d, err := time.ParseDuration(*f.ThrottleInterval)
		if err != nil {
			return c, errors.Join(ErrInvalid, err)
		}

		c.ThrottleInterval = d
	}

	if f.BarLength != nil {
		c.BarLength = *f.BarLength
	}

	if f.SmoothingWeight != nil {
		c.SmoothingWeight = *f.SmoothingWeight
	}

	if f.Output != nil {
		c.Output = *f.Output
	}

	if f.TailLines != nil {
		c.TailLines = *f.TailLines
	}

	return c, nil
}

func (c Config) file() fileConfig {
	interval := c.ThrottleInterval.String()

	return fileConfig{
		ThrottleInterval: &interval,
		BarLength:        &c.BarLength,
		SmoothingWeight:  &c.SmoothingWeight,
		Output:           &c.Output,
		TailLines:        &c.TailLines,
	}
}

// YAML encodes the configuration in the same shape Load reads.
func (c Config) YAML() ([]byte, error) {
	b, err := yaml.Marshal(c.file())
	if err != nil {
		return nil, errors.Join(ErrMarshal, err)
	}

	return b, nil
}
