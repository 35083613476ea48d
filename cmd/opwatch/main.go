// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main contains the opwatch command-line interface (CLI).
package main

import (
	"context"
	"os"

	"github.com/matt-FFFFFF/opwatch/internal/ctxlog"
	"github.com/matt-FFFFFF/opwatch/internal/signalbroker"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	ctx = ctxlog.New(ctx, ctxlog.DefaultLogger)

	defer cancel()

	broker := signalbroker.Listen(ctx)
	defer broker.Stop()

	go broker.Run(ctx, cancel, func() {
		ctxlog.Error(ctx, "second signal received, exiting immediately")
		os.Exit(1) //nolint:revive
	})

	err := newRootCmd(os.Stdout, os.Stderr).Run(ctx, os.Args)

	// Check if the context was cancelled (e.g., due to signals)
	if ctx.Err() != nil {
		ctxlog.Warn(ctx, "command terminated due to cancellation", "error", ctx.Err())
		os.Exit(1) //nolint:gocritic
	}

	if err != nil {
		ctxlog.Error(ctx, "command execution failed", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	ctxlog.Debug(ctx, "command completed successfully")
}
