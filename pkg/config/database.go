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
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
)

func (c *Instance) DatabaseDriver() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Database.Driver == "" {
		return DriverSQLite
	}
	return c.vals.Database.Driver
}

// DatabasePath returns the SQLite file location. Relative paths are
// resolved against the directory holding the config file.
func (c *Instance) DatabasePath() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	path := c.vals.Database.Path
	if path == "" {
		path = DefaultDBFile
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(filepath.Dir(c.cfgPath), path)
}

func (c *Instance) DatabaseDSN() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Database.DSN
}

func (c *Instance) SetDatabaseDSN(dsn string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Database.DSN = dsn
}

// ShutdownGrace is how long shutdown waits before closing the connection.
func (c *Instance) ShutdownGrace() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.vals.Database.ShutdownGrace == "" {
		return defaultShutdownGrace
	}
	d, err := time.ParseDuration(c.vals.Database.ShutdownGrace)
	if err != nil || d < 0 {
		log.Warn().Str("value", c.vals.Database.ShutdownGrace).Msg("invalid shutdown grace, using default")
		return defaultShutdownGrace
	}
	return d
}
