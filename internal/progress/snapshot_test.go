// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package progress

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_String(t *testing.T) {
	tests := []struct {
		status   Status
		expected string
		terminal bool
	}{
		{StatusPending, "pending", false},
		{StatusInProgress, "in_progress", false},
		{StatusCompleted, "completed", true},
		{StatusFailed, "failed", true},
		{StatusCancelled, "cancelled", true},
		{Status(42), "unknown", false},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.status.String())
			assert.Equal(t, tt.terminal, tt.status.IsTerminal())
		})
	}
}

func TestOperation_String(t *testing.T) {
	assert.Equal(t, "download", OperationDownload.String())
	assert.Equal(t, "conversion", OperationConversion.String())
	assert.Equal(t, "upload", OperationUpload.String())
	assert.Equal(t, "generic", OperationGeneric.String())
	assert.Equal(t, "Operation", OperationGeneric.Title())
	assert.Equal(t, "unknown", Operation(9).String())
}

func TestSnapshot_JSON(t *testing.T) {
	s := Snapshot{
		Operation:  OperationConversion,
		Status:     StatusInProgress,
		Percentage: ptr(12.5),
		Message:    "Encoding",
	}

	b, err := json.Marshal(s)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, "conversion", m["operation"])
	assert.Equal(t, "in_progress", m["status"])
	assert.InDelta(t, 12.5, m["percentage"], 1e-9)
	assert.NotContains(t, m, "eta")
	assert.NotContains(t, m, "error")
}

func TestSnapshot_String(t *testing.T) {
	s := Snapshot{Operation: OperationDownload, Status: StatusPending, Message: "Starting"}
	assert.Equal(t, `download pending ?% "Starting"`, s.String())

	s.Percentage = ptr(50.0)
	assert.Equal(t, `download pending 50.0% "Starting"`, s.String())
}
