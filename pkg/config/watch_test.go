// Progress Core
// Copyright (c) 2026 The Progress Core Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Progress Core.
//
// Progress Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Progress Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Progress Core.  If not, see <http://www.gnu.org/licenses/>.

package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatch_ReloadsOnWrite(t *testing.T) {
	t.Parallel()

	cfg := newTestInstance(t, "config_schema = 1\n")
	require.NoError(t, cfg.Load())
	require.False(t, cfg.DebugLogging())

	reloaded := make(chan struct{}, 10)
	stop, err := cfg.Watch(func() { reloaded <- struct{}{} })
	require.NoError(t, err)
	defer func() { require.NoError(t, stop()) }()

	require.NoError(t, os.WriteFile(cfg.Path(), []byte("config_schema = 1\ndebug_logging = true\n"), 0o600))

	select {
	case <-reloaded:
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}
	assert.True(t, cfg.DebugLogging())
}

func TestWatch_InvalidFileKeepsValues(t *testing.T) {
	t.Parallel()

	cfg := newTestInstance(t, "config_schema = 1\ndebug_logging = true\n")
	require.NoError(t, cfg.Load())

	stop, err := cfg.Watch(func() { t.Error("invalid config must not be applied") })
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(cfg.Path(), []byte("config_schema = 99\n"), 0o600))
	// Give the watcher a moment to see the write.
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, stop())

	assert.True(t, cfg.DebugLogging())
}

func TestWatch_MissingDirectory(t *testing.T) {
	t.Parallel()

	cfg := &Instance{cfgPath: "/nonexistent/progress/" + CfgFile}
	_, err := cfg.Watch(nil)
	require.Error(t, err)
}
