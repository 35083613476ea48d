// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"testing"
	"time"

	"github.com/prashantv/gostub"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubFs(t *testing.T, files map[string]string) {
	t.Helper()

	fs := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
	}

	stubs := gostub.Stub(&FsFactory, func() afero.Fs {
		return fs
	})
	t.Cleanup(stubs.Reset)
}

func TestLoadEmptySource(t *testing.T) {
	c, err := Load(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoadYAML(t *testing.T) {
	stubFs(t, map[string]string{
		"/etc/opwatch.yaml": `
throttle_interval: 2s
bar_length: 30
output: json
`,
	})

	c, err := Load(context.Background(), "/etc/opwatch.yaml")
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, c.ThrottleInterval)
	assert.Equal(t, 30, c.BarLength)
	assert.Equal(t, OutputJSON, c.Output)
	assert.InDelta(t, Default().SmoothingWeight, c.SmoothingWeight, 1e-9)
	assert.Equal(t, DefaultTailLines, c.TailLines)
}

func TestLoadHCL(t *testing.T) {
	stubFs(t, map[string]string{
		"/opwatch.hcl": `
throttle_interval = "250ms"
smoothing_weight  = 0.5
tail_lines        = 10
`,
	})

	c, err := Load(context.Background(), "/opwatch.hcl")
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, c.ThrottleInterval)
	assert.InDelta(t, 0.5, c.SmoothingWeight, 1e-9)
	assert.Equal(t, 10, c.TailLines)
	assert.Equal(t, Default().BarLength, c.BarLength)
}

func TestLoadErrors(t *testing.T) {
	stubFs(t, map[string]string{
		"/unknown.yaml":  "colour: blue\n",
		"/broken.hcl":    "throttle_interval = \n",
		"/unknown.hcl":   "colour = \"blue\"\n",
		"/duration.yaml": "throttle_interval: soon\n",
		"/invalid.yaml":  "bar_length: 0\noutput: html\n",
		"/opwatch.toml":  "bar_length = 3\n",
	})

	tests := []struct {
		src  string
		want error
	}{
		{"/missing.yaml", ErrRead},
		{"/unknown.yaml", ErrParse},
		{"/broken.hcl", ErrParse},
		{"/unknown.hcl", ErrParse},
		{"/duration.yaml", ErrInvalid},
		{"/invalid.yaml", ErrInvalid},
		{"/opwatch.toml", ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := Load(context.Background(), tt.src)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseEmptyYAML(t *testing.T) {
	c, err := Parse("empty.yml", nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestFileNameOf(t *testing.T) {
	assert.Equal(t, "https://example.com/repo//cfg/opwatch.hcl",
		fileNameOf("git::https://example.com/repo//cfg/opwatch.hcl?ref=v1"))
	assert.Equal(t, "local.yaml", fileNameOf("local.yaml"))
}

func TestIsRemote(t *testing.T) {
	assert.True(t, isRemote("git::https://example.com/repo//opwatch.yaml"))
	assert.True(t, isRemote("s3://bucket/opwatch.yaml"))
	assert.False(t, isRemote("./opwatch.yaml"))
	assert.False(t, isRemote("/etc/opwatch.hcl"))
}
