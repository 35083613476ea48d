// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package parse implements the command that prints the progress facts found
// in a captured tool log.
package parse

import (
	"context"
	"errors"
	"io"

	"github.com/goccy/go-yaml"
	"github.com/matt-FFFFFF/opwatch/internal/parser"
	"github.com/matt-FFFFFF/opwatch/internal/pump"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

const (
	formatFlag   = "format"
	durationFlag = "duration"
	fileArg      = "file"
	stdinName    = "-"
)

var (
	// ErrReadFile is returned when the log cannot be read.
	ErrReadFile = errors.New("failed to read file")
	// ErrWriteFacts is returned when the facts cannot be written.
	ErrWriteFacts = errors.New("failed to write facts")
)

// FsFactory is a function that returns an afero filesystem.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}

// Record is one parsed line. Line counts non-blank lines from one.
type Record struct {
	Line int         `yaml:"line"`
	Kind string      `yaml:"kind"`
	Fact parser.Fact `yaml:"fact"`
	// Percent is set for conversion lines once the media duration is known.
	Percent *float64 `yaml:"percent,omitempty"`
}

// Command returns the parse command.
func Command() *cli.Command {
	return &cli.Command{
		Name:  "parse",
		Usage: "Print the progress facts found in a tool log as YAML",
		Description: `Parse a captured log and print every progress fact as YAML.
Use "-" or omit the file to read from stdin.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     formatFlag,
				Aliases:  []string{"f"},
				Usage:    "Format of the log",
				Required: true,
				OnlyOnce: true,
			},
			&cli.FloatFlag{
				Name:     durationFlag,
				Aliases:  []string{"d"},
				Usage:    "Media duration in seconds, used to compute conversion percentages",
				OnlyOnce: true,
			},
		},
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: fileArg,
			},
		},
		Action: actionFunc,
	}
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	p, err := parser.Lookup(cmd.String(formatFlag))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	var r io.Reader = cmd.Root().Reader

	if name := cmd.StringArg(fileArg); name != "" && name != stdinName {
		f, err := FsFactory().Open(name)
		if err != nil {
			return errors.Join(ErrReadFile, err)
		}

		defer f.Close() //nolint:errcheck

		r = f
	}

	records, err := Facts(ctx, p, r, cmd.Float(durationFlag))
	if err != nil {
		return err
	}

	b, err := yaml.Marshal(records)
	if err != nil {
		return errors.Join(ErrWriteFacts, err)
	}

	if _, err := cmd.Root().Writer.Write(b); err != nil {
		return errors.Join(ErrWriteFacts, err)
	}

	return nil
}

// Facts parses every line of r. A positive duration fixes the media length;
// otherwise the duration found in the log header is used.
func Facts(ctx context.Context, p parser.LineParser, r io.Reader, duration float64) ([]Record, error) {
	var (
		records []Record
		n       int
	)

	err := pump.Run(ctx, r, func(line string) {
		n++

		fact, ok := p.Parse(line)
		if !ok {
			return
		}

		rec := Record{Line: n, Fact: fact}

		switch f := fact.(type) {
		case parser.TransferFact:
			rec.Kind = "transfer"
		case parser.DurationFact:
			rec.Kind = "duration"
			if duration <= 0 {
				duration = f.Seconds
			}
		case parser.ConversionFact:
			rec.Kind = "conversion"
			if pct, ok := parser.ConversionPercent(f.Elapsed, duration); ok {
				rec.Percent = &pct
			}
		}

		records = append(records, rec)
	})
	if err != nil {
		return nil, errors.Join(ErrReadFile, err)
	}

	return records, nil
}
