// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package render

import (
	"math"
	"strings"
)

// DefaultBarLength is the number of cells in a progress bar.
const DefaultBarLength = 20

const (
	fullBlock  = "█"
	emptyBlock = "░"
)

// partialBlocks are the eighth blocks from one to seven eighths.
var partialBlocks = []string{"▏", "▎", "▍", "▌", "▋", "▊", "▉"}

// Bar draws pct, clamped to [0, 100], as length cells. The cell at the edge
// of the filled part uses a partial block.
func Bar(pct float64, length int) string {
	if length < 1 {
		length = DefaultBarLength
	}

	if math.IsNaN(pct) {
		pct = 0
	}

	pct = math.Min(math.Max(pct, 0), 100)

	filled := pct / 100 * float64(length)
	cells := int(filled)
	partial := filled - float64(cells)

	var b strings.Builder

	b.WriteString(strings.Repeat(fullBlock, cells))

	if partial > 0 && cells < length {
		idx := min(int(partial*float64(len(partialBlocks))), len(partialBlocks)-1)
		b.WriteString(partialBlocks[idx])

		cells++
	}

	b.WriteString(strings.Repeat(emptyBlock, length-cells))

	return b.String()
}
