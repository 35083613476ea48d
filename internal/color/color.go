// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package color

import (
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

const (
	// NoColor is the environment variable that disables colour output.
	NoColor = "NO_COLOR"
	// ForceColor is the environment variable that forces colour output.
	ForceColor = "FORCE_COLOR"

	prefix = "\033["
	suffix = "m"
	reset  = "\033[0m"
)

// Code is an ANSI SGR parameter.
type Code int

// Codes used by the log handler.
const (
	Bold      Code = 1
	FgRed     Code = 31
	FgYellow  Code = 33
	FgCyan    Code = 36
	FgWhite   Code = 37
	FgHiWhite Code = 97
)

// enabled is decided once for stderr, where logs go.
var enabled = Supported(os.Stderr)

// Enabled reports whether stderr accepted colour at start-up.
func Enabled() bool {
	return enabled
}

// Supported reports whether f should receive colour. NO_COLOR wins over
// FORCE_COLOR; without either, f must be a terminal.
func Supported(f *os.File) bool {
	if os.Getenv(NoColor) != "" {
		return false
	}

	if os.Getenv(ForceColor) != "" {
		return true
	}

	return f != nil && term.IsTerminal(int(f.Fd()))
}

// Wrap wraps str in the given codes unconditionally and resets afterwards.
func Wrap(str string, codes ...Code) string {
	if len(codes) == 0 {
		return str
	}

	params := make([]string, len(codes))
	for i, c := range codes {
		params[i] = strconv.Itoa(int(c))
	}

	return prefix + strings.Join(params, ";") + suffix + str + reset
}
