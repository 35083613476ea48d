// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package watch implements the command that runs a tool and tracks the
// progress it prints.
package watch

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/matt-FFFFFF/opwatch/cmd/opwatch/options"
	"github.com/matt-FFFFFF/opwatch/internal/config"
	"github.com/matt-FFFFFF/opwatch/internal/ctxlog"
	"github.com/matt-FFFFFF/opwatch/internal/parser"
	"github.com/matt-FFFFFF/opwatch/internal/pipeline"
	"github.com/matt-FFFFFF/opwatch/internal/render"
	"github.com/matt-FFFFFF/opwatch/internal/runner"
	"github.com/urfave/cli/v3"
)

const (
	formatFlag   = "format"
	durationFlag = "duration"
	echoFlag     = "echo"
	cliExitStr   = ""
)

// ErrDurationWithoutFFmpeg is returned when --duration is used with a format
// that does not report media time.
var ErrDurationWithoutFFmpeg = errors.New("--duration only applies to the ffmpeg format")

// Command returns the watch command.
func Command() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Run a tool and report the progress it prints",
		Description: `Run a command and parse its output for progress.
Everything after "--" is the command and its arguments.

Supported formats:
  mega    MEGA transfer lines, e.g. "TRANSFERRING ||####||(512/1024 MB: 50.00 %)"
  ffmpeg  ffmpeg status lines, e.g. "size= 66816kB time=00:45:47.11 bitrate= 199.2kbits/s speed=29.7x"

Example:
  opwatch watch --format ffmpeg -- ffmpeg -i in.mkv out.mp4`,
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:     formatFlag,
				Aliases:  []string{"f"},
				Usage:    "Output format of the command: " + strings.Join(parser.Names(), ", "),
				Required: true,
				OnlyOnce: true,
				Validator: func(s string) error {
					if !slices.Contains(parser.Names(), s) {
						return fmt.Errorf("%w: %q", parser.ErrUnknownFormat, s)
					}

					return nil
				},
			},
			&cli.FloatFlag{
				Name:     durationFlag,
				Aliases:  []string{"d"},
				Usage:    "Media duration in seconds. Overrides the duration ffmpeg reports",
				OnlyOnce: true,
			},
			&cli.BoolFlag{
				Name:        echoFlag,
				Aliases:     []string{"e"},
				Usage:       "Copy output lines without progress to stderr",
				DefaultText: "false",
				OnlyOnce:    true,
			},
		}, options.Flags()...),
		Action: actionFunc,
	}
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	ctx = ctxlog.With(ctx, "command", cmd.Name)

	args := cmd.Args().Slice()
	if len(args) == 0 {
		ctxlog.Error(ctx, "No command given. Put the command to watch after \"--\".")
		return cli.Exit(cliExitStr, 1)
	}

	cfg, err := options.Config(ctx, cmd)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	c := &runner.Command{
		Path:      args[0],
		Args:      args[1:],
		Format:    cmd.String(formatFlag),
		TailLines: cfg.TailLines,
	}

	p, err := c.Parser()
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	if cmd.IsSet(durationFlag) && p.Name() != parser.FormatFFmpeg {
		return cli.Exit(ErrDurationWithoutFFmpeg.Error(), 1)
	}

	if cmd.Bool(echoFlag) && cfg.Output != config.OutputTUI {
		c.Echo = cmd.Root().ErrWriter
	}

	ctxlog.Debug(ctx, "watching command", "path", c.Path, "format", p.Name(), "output", cfg.Output)

	final, err := pipeline.Run(ctx, pipeline.Options{
		Config:    cfg,
		Operation: p.Operation(),
		Total:     cmd.Float(durationFlag),
		Out:       cmd.Root().Writer,
		Log:       cmd.Root().ErrWriter,
		Colour:    options.Colour(cmd.Root().Writer),
	}, c.Run)
	if err != nil {
		ctxlog.Error(ctx, "watched command did not complete", "summary", render.Summary(final))
		return cli.Exit(cliExitStr, 1)
	}

	ctxlog.Info(ctx, "watched command completed", "summary", render.Summary(final))

	return nil
}
