// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package parser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	sixty     = decimal.NewFromInt(60)
	oneHour   = decimal.NewFromInt(3600)
	clockExpr = regexp.MustCompile(`^(\d+):(\d{2}):(\d{2}(?:\.\d+)?)$`)
)

// binaryMultipliers maps upper-cased unit tokens to their size in bytes.
var binaryMultipliers = map[string]decimal.Decimal{
	"B":   decimal.NewFromInt(1),
	"KB":  decimal.NewFromInt(1 << 10),
	"KIB": decimal.NewFromInt(1 << 10),
	"MB":  decimal.NewFromInt(1 << 20),
	"MIB": decimal.NewFromInt(1 << 20),
	"GB":  decimal.NewFromInt(1 << 30),
	"GIB": decimal.NewFromInt(1 << 30),
	"TB":  decimal.NewFromInt(1 << 40),
	"TIB": decimal.NewFromInt(1 << 40),
}

// toBytes converts a magnitude and a unit token to whole bytes, truncating
// any fraction of a byte.
func toBytes(magnitude, unit string) (int64, bool) {
	mult, ok := binaryMultipliers[strings.ToUpper(unit)]
	if !ok {
		return 0, false
	}

	d, err := decimal.NewFromString(magnitude)
	if err != nil || d.IsNegative() {
		return 0, false
	}

	return d.Mul(mult).IntPart(), true
}

// inUnit renders a byte count in unit with one decimal, e.g. "512.0" for
// 512 MiB in "MB". Unknown units fall back to bytes.
func inUnit(b int64, unit string) string {
	mult, ok := binaryMultipliers[strings.ToUpper(unit)]
	if !ok {
		mult = decimal.NewFromInt(1)
	}

	return decimal.NewFromInt(b).Div(mult).StringFixed(1)
}

// ParseClock converts an HH:MM:SS.CC clock into seconds. Minutes and seconds
// must be below 60; the fractional part may have any number of digits.
func ParseClock(s string) (float64, bool) {
	m := clockExpr.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, false
	}

	hours, err := decimal.NewFromString(m[1])
	if err != nil {
		return 0, false
	}

	minutes, err := decimal.NewFromString(m[2])
	if err != nil || minutes.GreaterThanOrEqual(sixty) {
		return 0, false
	}

	seconds, err := decimal.NewFromString(m[3])
	if err != nil || seconds.GreaterThanOrEqual(sixty) {
		return 0, false
	}

	return hours.Mul(oneHour).Add(minutes.Mul(sixty)).Add(seconds).InexactFloat64(), true
}
