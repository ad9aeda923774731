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

package progressdb

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/mobhunt/progress-core/pkg/database"
	"github.com/rs/zerolog/log"
)

//go:embed migrations/sqlite3/*.sql migrations/mysql/*.sql
var migrationFiles embed.FS

func sqlMigrateUp(db *sql.DB, dialect Dialect) error {
	dir := "migrations/" + string(dialect)
	if err := database.MigrateUp(db, migrationFiles, dir, string(dialect)); err != nil {
		return fmt.Errorf("failed to run progress database migrations: %w", err)
	}
	return nil
}

// sqlFlush makes committed work durable in the main database file before
// the connection closes. Only SQLite in WAL mode needs it.
func sqlFlush(ctx context.Context, db *sql.DB, dialect Dialect) error {
	if dialect != DialectSQLite {
		return nil
	}
	if _, err := db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE);"); err != nil {
		return fmt.Errorf("failed to checkpoint wal: %w", err)
	}
	return nil
}

func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close sql rows")
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
