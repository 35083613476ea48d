// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package parser

import (
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/matt-FFFFFF/opwatch/internal/progress"
	"github.com/matt-FFFFFF/opwatch/internal/render"
)

const (
	defaultSizeUnit    = "kB"
	defaultBitrateUnit = "kbits/s"
)

// ffmpegExpr matches status lines such as
//
//	size=   66816kB time=00:45:47.11 bitrate= 199.2kbits/s speed=29.7x
var ffmpegExpr = regexp.MustCompile(
	`size=\s*(\d+(?:\.\d+)?)\s*(kB|KiB|MB|MiB|GB|GiB)?\s+` +
		`time=(\d{2,}:\d{2}:\d{2}\.\d{2})\s+` +
		`bitrate=\s*(\d+(?:\.\d+)?|N/A)\s*(kbits/s|Mbits/s)?\s+` +
		`speed=\s*(\d+(?:\.\d+)?)x`,
)

// timeExpr is the fallback for status lines the full expression rejects,
// e.g. video lines with "dup=" and "drop=" fields or "size=N/A".
var timeExpr = regexp.MustCompile(`time=(\d{2,}:\d{2}:\d{2}\.\d{2})`)

// durationExpr matches the input header, e.g. "  Duration: 00:03:25.47, start: ...".
var durationExpr = regexp.MustCompile(`Duration:\s*(\d{2,}:\d{2}:\d{2}\.\d{2})`)

// ConversionFact is the progress carried by one FFmpeg status line.
type ConversionFact struct {
	// Elapsed is the media time encoded so far, in seconds.
	Elapsed   float64 `yaml:"elapsed_seconds"`
	SizeBytes int64   `yaml:"size_bytes"`
	// Bitrate is display text such as "199.2kbits/s".
	Bitrate         string  `yaml:"bitrate"`
	SpeedMultiplier float64 `yaml:"speed_multiplier"`
	// TimeOnly is set when only the elapsed time could be read from the line.
	TimeOnly bool `yaml:"time_only,omitempty"`
}

// ParseFFmpeg parses an FFmpeg status line. Lines that carry a time but not
// the full size, bitrate and speed set yield a fact with only Elapsed set.
func ParseFFmpeg(line string) (ConversionFact, bool) {
	m := ffmpegExpr.FindStringSubmatch(line)
	if m == nil {
		return parseFFmpegTime(line)
	}

	sizeUnit := m[2]
	if sizeUnit == "" {
		sizeUnit = defaultSizeUnit
	}

	size, ok := toBytes(m[1], sizeUnit)
	if !ok {
		return ConversionFact{}, false
	}

	elapsed, ok := ParseClock(m[3])
	if !ok {
		return ConversionFact{}, false
	}

	bitrate := m[4]
	if bitrate != "N/A" {
		unit := m[5]
		if unit == "" {
			unit = defaultBitrateUnit
		}

		bitrate += unit
	}

	speed, err := strconv.ParseFloat(m[6], 64)
	if err != nil {
		return ConversionFact{}, false
	}

	return ConversionFact{
		Elapsed:         elapsed,
		SizeBytes:       size,
		Bitrate:         bitrate,
		SpeedMultiplier: speed,
	}, true
}

func parseFFmpegTime(line string) (ConversionFact, bool) {
	m := timeExpr.FindStringSubmatch(line)
	if m == nil {
		return ConversionFact{}, false
	}

	elapsed, ok := ParseClock(m[1])
	if !ok {
		return ConversionFact{}, false
	}

	return ConversionFact{Elapsed: elapsed, TimeOnly: true}, true
}

// Update implements Fact. Without a known duration the message only shows
// the elapsed time.
func (f ConversionFact) Update() progress.Update {
	return f.UpdateFrom(progress.Snapshot{})
}

// UpdateFrom builds the update against the duration s already knows, so the
// message can show the position within the input.
// The speed multiplier and bitrate are display only; the tracker measures
// its own rate from successive elapsed values.
func (f ConversionFact) UpdateFrom(s progress.Snapshot) progress.Update {
	elapsed := f.Elapsed
	u := progress.Update{
		Current: &elapsed,
		Message: f.message(s.Total),
	}

	if !f.TimeOnly {
		u.Details = map[string]string{
			"size":    strconv.FormatInt(f.SizeBytes, 10),
			"bitrate": f.Bitrate,
			"speed":   strconv.FormatFloat(f.SpeedMultiplier, 'f', 1, 64) + "x",
		}
	}

	return u
}

func (f ConversionFact) message(total *float64) string {
	if total == nil {
		return "Converting: " + render.FormatClock(f.Elapsed)
	}

	msg := fmt.Sprintf("Converting: %s/%s", render.FormatClock(f.Elapsed), render.FormatClock(*total))
	if pct, ok := ConversionPercent(f.Elapsed, *total); ok {
		msg += fmt.Sprintf(" (%.1f%%)", pct)
	}

	if !f.TimeOnly && f.SpeedMultiplier > 0 && f.SpeedMultiplier != 1 {
		msg += fmt.Sprintf(" - %.1fx speed", f.SpeedMultiplier)
	}

	return msg
}

// ParseFFmpegDuration extracts the input duration, in seconds, from an
// FFmpeg header line.
func ParseFFmpegDuration(line string) (float64, bool) {
	m := durationExpr.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}

	return ParseClock(m[1])
}

// DurationFact is the input duration announced in the FFmpeg header.
type DurationFact struct {
	Seconds float64 `yaml:"duration_seconds"`
}

// Update implements Fact.
func (f DurationFact) Update() progress.Update {
	total := f.Seconds

	return progress.Update{
		Total:   &total,
		Message: "Analyzing input file...",
	}
}

// ConversionPercent returns elapsed as a percentage of total, clamped to
// [0, 100]. It returns false when total is unknown.
func ConversionPercent(elapsed, total float64) (float64, bool) {
	if total <= 0 || math.IsNaN(total) || math.IsInf(total, 0) || math.IsNaN(elapsed) {
		return 0, false
	}

	return math.Min(math.Max(elapsed/total*100, 0), 100), true
}
