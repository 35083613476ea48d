// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package options holds the flags shared by the commands that track an
// operation, and turns them into a config.Config.
package options

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/matt-FFFFFF/opwatch/internal/color"
	"github.com/matt-FFFFFF/opwatch/internal/config"
	"github.com/urfave/cli/v3"
)

const (
	// ConfigFlag names a YAML or HCL config file, local or go-getter URL.
	ConfigFlag = "config"
	// IntervalFlag overrides the throttle interval.
	IntervalFlag = "interval"
	// TUIFlag selects the interactive output.
	TUIFlag = "tui"
	// JSONFlag selects JSON output.
	JSONFlag = "json"
)

// ErrConflictingOutput is returned when more than one output mode is requested.
var ErrConflictingOutput = errors.New("--tui and --json cannot be used together")

// Flags returns the shared flags. A new slice is returned on each call because
// urfave/cli flags keep parse state.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    ConfigFlag,
			Aliases: []string{"c"},
			Usage: "Config file (.yaml, .yml or .hcl). " +
				"Supports Hashicorp's go-getter syntax for fetching files from various sources.",
			TakesFile: true,
			OnlyOnce:  true,
		},
		&cli.DurationFlag{
			Name:     IntervalFlag,
			Aliases:  []string{"i"},
			Usage:    "Minimum time between progress reports, e.g. 1s or 500ms",
			OnlyOnce: true,
		},
		&cli.BoolFlag{
			Name:        TUIFlag,
			Aliases:     []string{"t", "interactive"},
			Usage:       "Show progress in an interactive terminal UI",
			DefaultText: "false",
			OnlyOnce:    true,
		},
		&cli.BoolFlag{
			Name:        JSONFlag,
			Usage:       "Write one JSON snapshot per line",
			DefaultText: "false",
			OnlyOnce:    true,
		},
	}
}

// Config loads the config file named by ConfigFlag, applies the flag
// overrides and validates the result.
func Config(ctx context.Context, cmd *cli.Command) (config.Config, error) {
	cfg, err := config.Load(ctx, cmd.String(ConfigFlag))
	if err != nil {
		return config.Config{}, err //nolint:wrapcheck
	}

	if cmd.IsSet(IntervalFlag) {
		cfg.ThrottleInterval = cmd.Duration(IntervalFlag)
	}

	switch {
	case cmd.Bool(TUIFlag) && cmd.Bool(JSONFlag):
		return config.Config{}, ErrConflictingOutput
	case cmd.Bool(TUIFlag):
		cfg.Output = config.OutputTUI
	case cmd.Bool(JSONFlag):
		cfg.Output = config.OutputJSON
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err //nolint:wrapcheck
	}

	return cfg, nil
}

// Colour reports whether output written to w should be coloured.
func Colour(w io.Writer) bool {
	f, ok := w.(*os.File)

	return ok && color.Supported(f)
}
