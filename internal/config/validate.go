// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/hashicorp/go-multierror"
)

const maxBarLength = 200

// ErrInvalid wraps every validation problem.
var ErrInvalid = errors.New("invalid configuration")

// Validate reports every problem with c at once.
func (c Config) Validate() error {
	var err error

	if c.ThrottleInterval <= 0 {
		err = multierror.Append(err, fmt.Errorf("%w: throttle_interval must be positive, got %s", ErrInvalid, c.ThrottleInterval))
	}

	if c.BarLength < 1 || c.BarLength > maxBarLength {
		err = multierror.Append(err, fmt.Errorf("%w: bar_length must be between 1 and %d, got %d", ErrInvalid, maxBarLength, c.BarLength))
	}

	if c.SmoothingWeight <= 0 || c.SmoothingWeight > 1 {
		err = multierror.Append(err, fmt.Errorf("%w: smoothing_weight must be in (0, 1], got %g", ErrInvalid, c.SmoothingWeight))
	}

	if !slices.Contains(Outputs(), c.Output) {
		err = multierror.Append(err, fmt.Errorf("%w: output must be one of %s, got %q",
			ErrInvalid, strings.Join(Outputs(), ", "), c.Output))
	}

	if c.TailLines < 0 {
		err = multierror.Append(err, fmt.Errorf("%w: tail_lines must not be negative, got %d", ErrInvalid, c.TailLines))
	}

	return err
}
