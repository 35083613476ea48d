// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package render

import (
	"fmt"
	"math"
	"time"
)

const (
	kib = 1024
	mib = 1024 * kib
	gib = 1024 * mib
)

// FormatBytes renders a byte count with a binary unit, e.g. "1.5 MB".
func FormatBytes(b float64) string {
	switch {
	case b >= gib:
		return fmt.Sprintf("%.1f GB", b/gib)
	case b >= mib:
		return fmt.Sprintf("%.1f MB", b/mib)
	case b >= kib:
		return fmt.Sprintf("%.1f KB", b/kib)
	default:
		return fmt.Sprintf("%.0f B", b)
	}
}

// FormatSpeed renders a rate in bytes per second, e.g. "2.0 MB/s".
func FormatSpeed(bps float64) string {
	switch {
	case bps >= mib:
		return fmt.Sprintf("%.1f MB/s", bps/mib)
	case bps >= kib:
		return fmt.Sprintf("%.1f KB/s", bps/kib)
	default:
		return fmt.Sprintf("%.0f B/s", bps)
	}
}

// FormatDuration renders a remaining time coarsely: "1h 2m", "3m 4s" or "5s".
func FormatDuration(d time.Duration) string {
	secs := d.Seconds()

	switch {
	case secs >= 3600:
		return fmt.Sprintf("%dh %dm", int(secs/3600), int(math.Mod(secs, 3600)/60))
	case secs >= 60:
		return fmt.Sprintf("%dm %ds", int(secs/60), int(math.Mod(secs, 60)))
	default:
		return fmt.Sprintf("%.0fs", secs)
	}
}

// FormatClock renders seconds of media time as HH:MM:SS.
func FormatClock(seconds float64) string {
	total := int(math.Max(seconds, 0))

	return fmt.Sprintf("%02d:%02d:%02d", total/3600, total%3600/60, total%60)
}
