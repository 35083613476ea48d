// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package progress

import (
	"fmt"
	"maps"
	"time"

	"github.com/google/uuid"
)

// Operation is the kind of work being tracked. It decides the unit of
// Current and Total: bytes for transfers, seconds of media for conversions.
type Operation int

const (
	// OperationGeneric is any operation without a specific unit.
	OperationGeneric Operation = iota
	// OperationDownload is a file transfer into local storage.
	OperationDownload
	// OperationConversion is a media transcode. Counters are media seconds.
	OperationConversion
	// OperationUpload is a file transfer to a remote service.
	OperationUpload
)

// String implements fmt.Stringer.
func (o Operation) String() string {
	switch o {
	case OperationGeneric:
		return "generic"
	case OperationDownload:
		return "download"
	case OperationConversion:
		return "conversion"
	case OperationUpload:
		return "upload"
	default:
		return "unknown"
	}
}

// Title is the human label used in default status messages.
func (o Operation) Title() string {
	switch o {
	case OperationDownload:
		return "Download"
	case OperationConversion:
		return "Conversion"
	case OperationUpload:
		return "Upload"
	default:
		return "Operation"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (o Operation) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Status is the lifecycle state of a tracked operation.
type Status int

const (
	// StatusPending means the operation has not reported any progress yet.
	StatusPending Status = iota
	// StatusInProgress means at least one update was applied.
	StatusInProgress
	// StatusCompleted is terminal: the operation succeeded.
	StatusCompleted
	// StatusFailed is terminal: the operation failed and Snapshot.Err is set.
	StatusFailed
	// StatusCancelled is terminal: the operation was stopped by its owner.
	StatusCancelled
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusInProgress:
		return "in_progress"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// IsTerminal reports whether no further snapshots can follow s.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// Snapshot is the state of one operation at one point in time.
// Nil pointer fields are unknown. Observers must treat it as read-only;
// the tracker never mutates a snapshot after handing it out.
type Snapshot struct {
	OperationID uuid.UUID         `json:"operation_id"`
	Operation   Operation         `json:"operation"`
	Status      Status            `json:"status"`
	Percentage  *float64          `json:"percentage,omitempty"`
	Current     *float64          `json:"current,omitempty"`
	Total       *float64          `json:"total,omitempty"`
	Speed       *float64          `json:"speed,omitempty"` // units per second
	ETA         *time.Duration    `json:"eta,omitempty"`
	Message     string            `json:"message"`
	Err         string            `json:"error,omitempty"`
	Details     map[string]string `json:"details,omitempty"`
	StartedAt   time.Time         `json:"started_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// PercentageOr returns the percentage or def when it is unknown.
func (s Snapshot) PercentageOr(def float64) float64 {
	if s.Percentage == nil {
		return def
	}

	return *s.Percentage
}

// Elapsed is the time between the first and the latest snapshot.
func (s Snapshot) Elapsed() time.Duration {
	return s.UpdatedAt.Sub(s.StartedAt)
}

// String is a compact single-line description, used in logs.
func (s Snapshot) String() string {
	pct := "?"
	if s.Percentage != nil {
		pct = fmt.Sprintf("%.1f", *s.Percentage)
	}

	return fmt.Sprintf("%s %s %s%% %q", s.Operation, s.Status, pct, s.Message)
}

// clone returns a deep copy so the caller can hand it out safely.
func (s Snapshot) clone() Snapshot {
	s.Percentage = clonePtr(s.Percentage)
	s.Current = clonePtr(s.Current)
	s.Total = clonePtr(s.Total)
	s.Speed = clonePtr(s.Speed)
	s.ETA = clonePtr(s.ETA)
	s.Details = maps.Clone(s.Details)

	return s
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}

	v := *p

	return &v
}

func ptr[T any](v T) *T {
	return &v
}
