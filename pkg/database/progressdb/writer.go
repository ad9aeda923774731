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
	"database/sql"
	"errors"
	"fmt"

	"github.com/mobhunt/progress-core/pkg/database"
	"github.com/rs/zerolog/log"
)

// batch buffers positional rows for one catalog statement.
type batch struct {
	buffer []any
	kind   Kind
	width  int
	count  int
}

func newBatch(kind Kind) *batch {
	return &batch{
		kind:  kind,
		width: kind.Params(),
	}
}

// Add appends one row. The number of values must match the statement's
// parameter count.
func (b *batch) Add(values ...any) error {
	if len(values) != b.width {
		return fmt.Errorf(
			"expected %d values for %s, got %d",
			b.width,
			b.kind,
			len(values),
		)
	}
	b.buffer = append(b.buffer, values...)
	b.count++
	return nil
}

func (b *batch) row(i int) []any {
	offset := i * b.width
	return b.buffer[offset : offset+b.width]
}

// writeBatch writes rows for a single kind as one transaction.
func (db *ProgressDB) writeBatch(op string, kind Kind, rows ...[]any) (int64, error) {
	b := newBatch(kind)
	for _, row := range rows {
		if err := b.Add(row...); err != nil {
			return 0, database.NewFault(database.ErrWrite, op, err)
		}
	}
	return db.writeBatches(op, b)
}

// writeBatches applies every row of every batch, in order, inside one
// transaction and commits once. Any failure rolls the whole transaction
// back and returns ErrWrite; nothing is retried. It returns the total
// number of rows affected.
func (db *ProgressDB) writeBatches(op string, batches ...*batch) (int64, error) {
	total := 0
	nonEmpty := batches[:0:0]
	for _, b := range batches {
		if b.count == 0 {
			continue
		}
		total += b.count
		nonEmpty = append(nonEmpty, b)
	}
	if total == 0 {
		return 0, nil
	}
	batches = nonEmpty

	// Prepare before BEGIN: the only connection is held by the
	// transaction until it ends.
	stmts := make([]*sql.Stmt, len(batches))
	for i, b := range batches {
		stmt, err := db.stmts.open(b.kind)
		if err != nil {
			return 0, database.NewFault(database.ErrWrite, op, err)
		}
		stmts[i] = stmt
	}

	tx, err := db.sql.BeginTx(db.ctx, nil)
	if err != nil {
		return 0, database.NewFault(
			database.ErrWrite,
			op,
			fmt.Errorf("failed to begin transaction: %w", err),
		)
	}

	var affected int64
	for i, b := range batches {
		txStmt := tx.StmtContext(db.ctx, stmts[i])
		for r := range b.count {
			result, execErr := txStmt.ExecContext(db.ctx, b.row(r)...)
			if execErr != nil {
				rollback(tx)
				return 0, database.NewFault(
					database.ErrWrite,
					op,
					fmt.Errorf("failed to execute %s row %d: %w", b.kind, r, execErr),
				)
			}
			if n, rowsErr := result.RowsAffected(); rowsErr == nil {
				affected += n
			}
		}
	}

	if err := tx.Commit(); err != nil {
		rollback(tx)
		return 0, database.NewFault(
			database.ErrWrite,
			op,
			fmt.Errorf("failed to commit transaction: %w", err),
		)
	}

	log.Debug().
		Str("op", op).
		Int("rows", total).
		Int64("affected", affected).
		Msg("batch committed")
	return affected, nil
}

func rollback(tx *sql.Tx) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		log.Warn().Err(err).Msg("failed to roll back transaction")
	}
}
