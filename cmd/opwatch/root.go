// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/matt-FFFFFF/opwatch"
	"github.com/matt-FFFFFF/opwatch/cmd/opwatch/config"
	"github.com/matt-FFFFFF/opwatch/cmd/opwatch/copyfile"
	"github.com/matt-FFFFFF/opwatch/cmd/opwatch/parse"
	"github.com/matt-FFFFFF/opwatch/cmd/opwatch/watch"
	"github.com/urfave/cli/v3"
)

func versionString() string {
	return fmt.Sprintf("%s (commit: %s)", opwatch.Version, opwatch.Commit)
}

// newRootCmd builds the command tree. out and errOut receive normal and
// diagnostic output.
func newRootCmd(out, errOut io.Writer) *cli.Command {
	return &cli.Command{
		Commands: []*cli.Command{
			watch.Command(),
			parse.Command(),
			copyfile.Command(),
			config.Command(),
			{
				Name:  "version",
				Usage: "Print the version",
				Action: func(_ context.Context, cmd *cli.Command) error {
					_, err := fmt.Fprintln(cmd.Root().Writer, versionString())
					return err //nolint:wrapcheck
				},
			},
		},
		Writer:    out,
		ErrWriter: errOut,
		Name:      "opwatch",
		Version:   versionString(),
		Description: `opwatch runs long file transfers and media conversions and reports their
progress: percentage, speed, and estimated time remaining. It understands the
output of megatools and ffmpeg and renders it as text, JSON or an interactive
terminal UI.`,
		Usage:     "opwatch watch --format ffmpeg -- ffmpeg -i in.mkv out.mp4",
		Copyright: "Copyright (c) matt-FFFFFF 2025. All rights reserved.",
		Authors: []any{
			"Matt White (matt-FFFFFF)",
		},
		EnableShellCompletion: true,
	}
}
