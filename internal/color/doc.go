// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package color wraps strings in ANSI SGR sequences for the log handler.
//
// Colour is enabled when stderr is a terminal, unless NO_COLOR is set.
// FORCE_COLOR enables it for non-terminals. NO_COLOR always wins.
package color
