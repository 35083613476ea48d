// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/matt-FFFFFF/opwatch/internal/ctxlog"
	"github.com/spf13/afero"
)

var (
	// ErrRead is returned when the config file cannot be read.
	ErrRead = errors.New("failed to read config file")
	// ErrParse is returned when the config file cannot be decoded.
	ErrParse = errors.New("failed to parse config file")
	// ErrUnsupportedFormat is returned for file extensions other than .yaml, .yml and .hcl.
	ErrUnsupportedFormat = errors.New("unsupported config file format")
)

// FsFactory is a function that returns an afero filesystem.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}

// Load reads the config file at src and applies it over Default.
// An empty src returns the defaults. Sources containing a go-getter forced
// getter ("git::") or a URL scheme are fetched with go-getter, everything else
// is read from FsFactory.
func Load(ctx context.Context, src string) (Config, error) {
	if src == "" {
		return Default(), nil
	}

	var (
		content []byte
		err     error
	)

	if isRemote(src) {
		ctxlog.Debug(ctx, "fetching remote config", "src", src)
		content, err = getURL(ctx, src)
	} else {
		content, err = afero.ReadFile(FsFactory(), src)
	}

	if err != nil {
		return Config{}, errors.Join(ErrRead, err)
	}

	return Parse(fileNameOf(src), content)
}

// Parse decodes content as YAML or HCL, chosen by the extension of name,
// applies it over Default and validates the result.
func Parse(name string, content []byte) (Config, error) {
	var (
		fc  fileConfig
		err error
	)

	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		err = parseYAML(content, &fc)
	case ".hcl":
		err = parseHCL(name, content, &fc)
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}

	if err != nil {
		return Config{}, errors.Join(ErrParse, err)
	}

	c, err := fc.merge(Default())
	if err != nil {
		return Config{}, err
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

func parseYAML(content []byte, fc *fileConfig) error {
	if len(strings.TrimSpace(string(content))) == 0 {
		return nil
	}

	return yaml.UnmarshalWithOptions(content, fc, yaml.DisallowUnknownField())
}

func parseHCL(name string, content []byte, fc *fileConfig) error {
	file, diags := hclsyntax.ParseConfig(content, name, hcl.InitialPos)
	if diags.HasErrors() {
		return multierror.Append(nil, diags.Errs()...)
	}

	if diags := gohcl.DecodeBody(file.Body, nil, fc); diags.HasErrors() {
		return multierror.Append(nil, diags.Errs()...)
	}

	return nil
}

func isRemote(src string) bool {
	return strings.Contains(src, "::") || strings.Contains(src, "://")
}

// fileNameOf strips go-getter decorations so the extension can be inspected.
func fileNameOf(src string) string {
	if i := strings.LastIndex(src, "::"); i >= 0 {
		src = src[i+2:]
	}

	if i := strings.Index(src, goGetterRefSeparator); i >= 0 {
		src = src[:i]
	}

	return src
}
