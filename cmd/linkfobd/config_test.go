// go-linkfob
// Copyright (c) 2025 The LinkFob Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-linkfob.
//
// go-linkfob is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-linkfob is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-linkfob; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LinkFobProject/go-linkfob/schedule"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fob.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDaemonConfig_Overrides(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
device = "/dev/i2c-1"
listen = "localhost:9000"
interval = "30s"
probe_timeout = "250ms"
page_delay = "10ms"
verify_writes = false
debug = true

[[links]]
label = "home"
url = "https://linkfob.dev"

[[links]]
label = "work"
url = "https://example.com/work"
`)

	cfg, err := loadDaemonConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/dev/i2c-1", cfg.Device)
	assert.Equal(t, "localhost:9000", cfg.Listen)
	assert.Equal(t, 30*time.Second, cfg.Interval)
	assert.Equal(t, 250*time.Millisecond, cfg.ProbeTimeout)
	assert.Equal(t, 10*time.Millisecond, cfg.PageDelay)
	assert.False(t, cfg.VerifyWrites)
	assert.True(t, cfg.Debug)
	assert.Equal(t, []schedule.Entry{
		{Label: "home", URL: "https://linkfob.dev"},
		{Label: "work", URL: "https://example.com/work"},
	}, cfg.Entries)
}

func TestLoadDaemonConfig_DefaultsPreserved(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
[[links]]
url = "https://linkfob.dev"
`)

	cfg, err := loadDaemonConfig(path)
	require.NoError(t, err)

	defaults := defaultDaemonConfig()
	assert.Equal(t, defaults.Device, cfg.Device)
	assert.Equal(t, defaults.Interval, cfg.Interval)
	assert.Equal(t, defaults.ProbeTimeout, cfg.ProbeTimeout)
	assert.True(t, cfg.VerifyWrites, "verification stays on unless the file turns it off")

	require.Len(t, cfg.Entries, 1)
	assert.Equal(t, "https://linkfob.dev", cfg.Entries[0].Label, "label falls back to the url")
}

func TestLoadDaemonConfig_NoLinks(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `device = "/dev/ttyUSB0"`)

	_, err := loadDaemonConfig(path)
	assert.Error(t, err)
}

func TestLoadDaemonConfig_BadDuration(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
interval = "sixty seconds"

[[links]]
url = "https://linkfob.dev"
`)

	_, err := loadDaemonConfig(path)
	assert.Error(t, err)
}

func TestLoadDaemonConfig_SkipsBlankLinks(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
[[links]]
label = "blank"
url = "   "

[[links]]
label = "home"
url = "https://linkfob.dev"
`)

	cfg, err := loadDaemonConfig(path)
	require.NoError(t, err)
	require.Len(t, cfg.Entries, 1)
	assert.Equal(t, "home", cfg.Entries[0].Label)
}
