// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/matt-FFFFFF/opwatch/internal/progress"
	"github.com/matt-FFFFFF/opwatch/internal/render"
)

// megaExpr matches lines such as
//
//	TRANSFERRING ||################||(1714/1714 MB: 100.00 %)
var megaExpr = regexp.MustCompile(
	`TRANSFERRING\s+\|\|[^|]*\|\|\s*\(\s*(\d+(?:\.\d+)?)\s*/\s*(\d+(?:\.\d+)?)\s*([A-Za-z]+)\s*:\s*(\d+(?:\.\d+)?)\s*%\s*\)`,
)

// megaSpeedExpr matches an optional transfer rate such as "12.5 MB/s".
var megaSpeedExpr = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(B|KB|MB|GB|TB)/s`)

// TransferFact is the progress carried by one MEGA transfer line.
type TransferFact struct {
	CurrentBytes int64   `yaml:"current_bytes"`
	TotalBytes   int64   `yaml:"total_bytes"`
	Percent      float64 `yaml:"percent"`
	Unit         string  `yaml:"unit"`
	// SpeedBytes is the rate printed on the same line, in bytes per second.
	SpeedBytes *float64 `yaml:"speed_bytes,omitempty"`
}

// ParseMega parses a MEGA transfer line.
func ParseMega(line string) (TransferFact, bool) {
	m := megaExpr.FindStringSubmatch(line)
	if m == nil {
		return TransferFact{}, false
	}

	unit := strings.ToUpper(m[3])
	if strings.HasSuffix(unit, "IB") {
		// The tool only prints B, KB, MB, GB and TB.
		return TransferFact{}, false
	}

	current, ok := toBytes(m[1], unit)
	if !ok {
		return TransferFact{}, false
	}

	total, ok := toBytes(m[2], unit)
	if !ok {
		return TransferFact{}, false
	}

	pct, err := strconv.ParseFloat(m[4], 64)
	if err != nil {
		return TransferFact{}, false
	}

	fact := TransferFact{
		CurrentBytes: current,
		TotalBytes:   total,
		Percent:      pct,
		Unit:         unit,
	}

	if s := megaSpeedExpr.FindStringSubmatch(line); s != nil {
		if speed, ok := toBytes(s[1], s[2]); ok {
			v := float64(speed)
			fact.SpeedBytes = &v
		}
	}

	return fact, true
}

// Update implements Fact.
func (f TransferFact) Update() progress.Update {
	current := float64(f.CurrentBytes)
	pct := f.Percent
	u := progress.Update{
		Current: &current,
		Percent: &pct,
		Speed:   f.SpeedBytes,
		Details: map[string]string{"unit": f.Unit},
		Message: f.message(),
	}

	if f.TotalBytes > 0 {
		total := float64(f.TotalBytes)
		u.Total = &total
	}

	return u
}

// message reads like "Downloading: 512.0/1024.0 MB (50.0%) - 1.2 MB/s", with
// the amounts in the unit the tool printed.
func (f TransferFact) message() string {
	msg := fmt.Sprintf("Downloading: %s/%s %s (%.1f%%)",
		inUnit(f.CurrentBytes, f.Unit), inUnit(f.TotalBytes, f.Unit), f.Unit, f.Percent)

	if f.SpeedBytes != nil {
		msg += " - " + render.FormatSpeed(*f.SpeedBytes)
	}

	return msg
}
