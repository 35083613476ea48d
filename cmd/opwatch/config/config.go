// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config implements the command that prints the effective configuration.
package config

import (
	"context"
	"errors"

	"github.com/matt-FFFFFF/opwatch/cmd/opwatch/options"
	"github.com/urfave/cli/v3"
)

// ErrWriteConfig is returned when the configuration cannot be written.
var ErrWriteConfig = errors.New("failed to write config")

// Command returns the config command.
func Command() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Print the effective configuration as YAML",
		Description: `Print the configuration that watch and copy would use with the same flags.
The output can be saved and passed back with --config.`,
		Flags:  options.Flags(),
		Action: actionFunc,
	}
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	cfg, err := options.Config(ctx, cmd)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	b, err := cfg.YAML()
	if err != nil {
		return err //nolint:wrapcheck
	}

	if _, err := cmd.Root().Writer.Write(b); err != nil {
		return errors.Join(ErrWriteConfig, err)
	}

	return nil
}
