// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package copyfile implements a tracked file copy, reported as an upload.
package copyfile

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/matt-FFFFFF/opwatch/cmd/opwatch/options"
	"github.com/matt-FFFFFF/opwatch/internal/ctxlog"
	"github.com/matt-FFFFFF/opwatch/internal/pipeline"
	"github.com/matt-FFFFFF/opwatch/internal/progress"
	"github.com/matt-FFFFFF/opwatch/internal/pump"
	"github.com/matt-FFFFFF/opwatch/internal/render"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

const (
	srcArg     = "src"
	dstArg     = "dst"
	cliExitStr = ""
)

var (
	// ErrOpenSource is returned when the source cannot be opened.
	ErrOpenSource = errors.New("failed to open source")
	// ErrCreateDestination is returned when the destination cannot be created.
	ErrCreateDestination = errors.New("failed to create destination")
	// ErrCopy is returned when copying fails part way.
	ErrCopy = errors.New("failed to copy")
)

// FsFactory is a function that returns an afero filesystem.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}

// Command returns the copy command.
func Command() *cli.Command {
	return &cli.Command{
		Name:        "copy",
		Usage:       "Copy a file and report its progress",
		Description: "Copy SRC to DST. If DST is a directory the file keeps its name.",
		Flags:       options.Flags(),
		Arguments: []cli.Argument{
			&cli.StringArg{Name: srcArg},
			&cli.StringArg{Name: dstArg},
		},
		Action: actionFunc,
	}
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	ctx = ctxlog.With(ctx, "command", cmd.Name)

	src, dst := cmd.StringArg(srcArg), cmd.StringArg(dstArg)
	if src == "" || dst == "" {
		ctxlog.Error(ctx, "Both SRC and DST are required.")
		return cli.Exit(cliExitStr, 1)
	}

	cfg, err := options.Config(ctx, cmd)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	fs := FsFactory()

	info, err := fs.Stat(src)
	if err != nil {
		return cli.Exit(errors.Join(ErrOpenSource, err).Error(), 1)
	}

	if di, err := fs.Stat(dst); err == nil && di.IsDir() {
		dst = filepath.Join(dst, filepath.Base(src))
	}

	final, err := pipeline.Run(ctx, pipeline.Options{
		Config:    cfg,
		Operation: progress.OperationUpload,
		Total:     float64(info.Size()),
		Out:       cmd.Root().Writer,
		Log:       cmd.Root().ErrWriter,
		Colour:    options.Colour(cmd.Root().Writer),
	}, func(ctx context.Context, t *progress.Tracker) error {
		return Copy(ctx, fs, src, dst, t)
	})
	if err != nil {
		ctxlog.Error(ctx, "copy did not complete", "summary", render.Summary(final))
		return cli.Exit(cliExitStr, 1)
	}

	return nil
}

// Copy copies src to dst on fs, reporting the bytes written to t. t is left
// Completed, Failed or Cancelled to match the returned error.
func Copy(ctx context.Context, fs afero.Fs, src, dst string, t *progress.Tracker) error {
	in, err := fs.Open(src)
	if err != nil {
		err = errors.Join(ErrOpenSource, err)
		t.Fail(err)

		return err
	}

	defer in.Close() //nolint:errcheck

	out, err := fs.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		err = errors.Join(ErrCreateDestination, err)
		t.Fail(err)

		return err
	}

	t.Start()

	_, err = io.Copy(out, pump.NewCountingReader(contextReader{ctx: ctx, r: in}, pump.TrackBytes(t)))
	if cerr := out.Close(); err == nil {
		err = cerr
	}

	switch {
	case ctx.Err() != nil:
		t.Cancel()
		return ctx.Err()
	case err != nil:
		err = errors.Join(ErrCopy, err)
		t.Fail(err)

		return err
	}

	t.Complete("")

	return nil
}

// contextReader stops reading once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}

	return c.r.Read(p)
}
