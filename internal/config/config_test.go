// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"testing"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()

	assert.Equal(t, 5*time.Second, c.ThrottleInterval)
	assert.Equal(t, 20, c.BarLength)
	assert.InDelta(t, 0.3, c.SmoothingWeight, 1e-9)
	assert.Equal(t, OutputText, c.Output)
	assert.Equal(t, 5, c.TailLines)
	require.NoError(t, c.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"interval", func(c *Config) { c.ThrottleInterval = 0 }, "throttle_interval"},
		{"bar too short", func(c *Config) { c.BarLength = 0 }, "bar_length"},
		{"bar too long", func(c *Config) { c.BarLength = 500 }, "bar_length"},
		{"smoothing zero", func(c *Config) { c.SmoothingWeight = 0 }, "smoothing_weight"},
		{"smoothing above one", func(c *Config) { c.SmoothingWeight = 1.5 }, "smoothing_weight"},
		{"output", func(c *Config) { c.Output = "html" }, "output"},
		{"tail", func(c *Config) { c.TailLines = -1 }, "tail_lines"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(&c)

			err := c.Validate()
			require.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	c := Config{Output: "nope"}

	err := c.Validate()
	require.Error(t, err)

	for _, field := range []string{"throttle_interval", "bar_length", "smoothing_weight", "output"} {
		assert.Contains(t, err.Error(), field)
	}

	assert.NotContains(t, err.Error(), "tail_lines")
}

func TestYAML(t *testing.T) {
	c := Default()
	c.ThrottleInterval = 1500 * time.Millisecond

	b, err := c.YAML()
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, yaml.Unmarshal(b, &got))
	assert.Equal(t, "1.5s", got["throttle_interval"])
	assert.Equal(t, "text", got["output"])

	back, err := Parse("opwatch.yaml", b)
	require.NoError(t, err)
	assert.Equal(t, c, back)
}
