// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package parser

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/matt-FFFFFF/opwatch/internal/progress"
)

// ErrUnknownFormat is returned by Lookup for a name that is not registered.
var ErrUnknownFormat = errors.New("unknown output format")

const (
	// FormatMega is the MEGA command line client.
	FormatMega = "mega"
	// FormatFFmpeg is ffmpeg's stderr status output.
	FormatFFmpeg = "ffmpeg"
)

// Fact is a piece of progress extracted from one line.
type Fact interface {
	Update() progress.Update
}

// snapshotFact is a Fact whose update reads what the tracker already knows,
// such as a total learnt from an earlier line.
type snapshotFact interface {
	UpdateFrom(s progress.Snapshot) progress.Update
}

// LineParser parses the output of one tool.
type LineParser interface {
	Name() string
	// Operation is the kind of work the tool performs.
	Operation() progress.Operation
	// Parse returns the fact carried by line, if any.
	Parse(line string) (Fact, bool)
}

var (
	_ LineParser = megaParser{}
	_ LineParser = ffmpegParser{}
)

var parsers = map[string]LineParser{
	FormatMega:   megaParser{},
	FormatFFmpeg: ffmpegParser{},
}

// Lookup returns the parser registered under name, case-insensitively.
func Lookup(name string) (LineParser, error) {
	p, ok := parsers[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownFormat, name, strings.Join(Names(), ", "))
	}

	return p, nil
}

// Names lists the registered formats in sorted order.
func Names() []string {
	names := make([]string, 0, len(parsers))
	for name := range parsers {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

type megaParser struct{}

func (megaParser) Name() string { return FormatMega }

func (megaParser) Operation() progress.Operation { return progress.OperationDownload }

func (megaParser) Parse(line string) (Fact, bool) {
	f, ok := ParseMega(line)
	if !ok {
		return nil, false
	}

	return f, true
}

type ffmpegParser struct{}

func (ffmpegParser) Name() string { return FormatFFmpeg }

func (ffmpegParser) Operation() progress.Operation { return progress.OperationConversion }

func (ffmpegParser) Parse(line string) (Fact, bool) {
	if f, ok := ParseFFmpeg(line); ok {
		return f, true
	}

	if d, ok := ParseFFmpegDuration(line); ok && d > 0 {
		return DurationFact{Seconds: d}, true
	}

	return nil, false
}
