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

package helpers

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/mobhunt/progress-core/pkg/database"
	"github.com/mobhunt/progress-core/pkg/database/progressdb"
	_ "github.com/mattn/go-sqlite3"
)

// NewTempProgressDB returns a ready store on a SQLite file in a temp
// directory. The grace period defaults to zero; opts may override it.
// The store is shut down when the test ends.
func NewTempProgressDB(
	t *testing.T,
	identity database.IdentityProvider,
	opts ...progressdb.Option,
) *progressdb.ProgressDB {
	t.Helper()

	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "progress_test.db")

	// Temp file rather than :memory: so every connection goose opens sees
	// the same database. Foreign keys match the production DSN.
	sqlDB, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=ON&_busy_timeout=5000")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	opts = append([]progressdb.Option{progressdb.WithGracePeriod(0)}, opts...)
	db := progressdb.New(ctx, progressdb.DialectSQLite, dbPath, identity, opts...)
	err = db.SetSQLForTesting(ctx, sqlDB, progressdb.DialectSQLite)
	if err != nil {
		if closeErr := sqlDB.Close(); closeErr != nil {
			t.Errorf("Failed to close SQL database after setup error: %v", closeErr)
		}
		t.Fatalf("Failed to set up ProgressDB for testing: %v", err)
	}

	t.Cleanup(func() {
		if err := db.Shutdown(); err != nil {
			t.Errorf("Failed to shut down ProgressDB: %v", err)
		}
	})

	return db
}
