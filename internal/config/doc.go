// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config holds the user-tunable settings of opwatch and loads them
// from YAML or HCL files, local or fetched with go-getter.
package config
