// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitFileNameFromGetterURL(t *testing.T) {
	tests := []struct {
		url      string
		wantURL  string
		wantFile string
	}{
		{
			url:      "git::https://github.com/org/repo//opwatch.yaml",
			wantURL:  "git::https://github.com/org/repo",
			wantFile: "opwatch.yaml",
		},
		{
			url:      "git::https://github.com/org/repo//configs/ci/opwatch.hcl?ref=v1.2.0",
			wantURL:  "git::https://github.com/org/repo//configs/ci?ref=v1.2.0",
			wantFile: "opwatch.hcl",
		},
		{
			url: "https://example.com/opwatch.yaml",
		},
		{
			url: "git::https://github.com/org/repo//",
		},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			gotURL, gotFile := splitFileNameFromGetterURL(tt.url)
			assert.Equal(t, tt.wantURL, gotURL)
			assert.Equal(t, tt.wantFile, gotFile)
		})
	}
}
