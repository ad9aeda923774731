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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mobhunt/progress-core/pkg/config"
	"github.com/mobhunt/progress-core/pkg/database"
	"github.com/mobhunt/progress-core/pkg/helpers/syncutil"
	"github.com/rs/zerolog/log"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
)

type Dialect string

const (
	DialectSQLite Dialect = config.DriverSQLite
	DialectMySQL  Dialect = config.DriverMySQL
)

const sqliteConnParams = "?_journal_mode=WAL&_synchronous=FULL&_busy_timeout=5000&_foreign_keys=ON"

const DefaultGracePeriod = 2 * time.Second

type State int32

const (
	StateUninitialized State = iota
	StateConnected
	StateReady
	StateShuttingDown
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateConnected:
		return "connected"
	case StateReady:
		return "ready"
	case StateShuttingDown:
		return "shutting_down"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// ProgressDB persists player settings, achievements and bounties over a
// single shared connection. Every exported operation holds mu for its
// whole duration, so statement binds from two callers never interleave.
type ProgressDB struct {
	ctx      context.Context
	sql      *sql.DB
	clock    clockwork.Clock
	identity database.IdentityProvider
	stmts    *statements
	dialect  Dialect
	dsn      string
	grace    time.Duration
	state    atomic.Int32
	mu       syncutil.Mutex
}

type Option func(*ProgressDB)

// WithClock sets the clock used to stamp write dates and to wait out the
// shutdown grace period.
func WithClock(clock clockwork.Clock) Option {
	return func(db *ProgressDB) {
		db.clock = clock
	}
}

func WithGracePeriod(d time.Duration) Option {
	return func(db *ProgressDB) {
		db.grace = d
	}
}

// New returns an uninitialized store. Call Initialize before use.
func New(
	ctx context.Context,
	dialect Dialect,
	dsn string,
	identity database.IdentityProvider,
	opts ...Option,
) *ProgressDB {
	db := &ProgressDB{
		ctx:      ctx,
		dialect:  dialect,
		dsn:      dsn,
		identity: identity,
		clock:    clockwork.NewRealClock(),
		grace:    DefaultGracePeriod,
	}
	for _, opt := range opts {
		opt(db)
	}
	return db
}

// Open builds a store from the config and initializes it.
func Open(
	ctx context.Context,
	cfg *config.Instance,
	identity database.IdentityProvider,
	opts ...Option,
) (*ProgressDB, error) {
	dialect := Dialect(cfg.DatabaseDriver())
	dsn := cfg.DatabaseDSN()
	if dialect == DialectSQLite {
		dbPath := cfg.DatabasePath()
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
			return nil, database.NewFault(
				database.ErrConnection,
				"open",
				fmt.Errorf("failed to create directory for database: %w", err),
			)
		}
		dsn = dbPath + sqliteConnParams
	}

	opts = append([]Option{WithGracePeriod(cfg.ShutdownGrace())}, opts...)
	db := New(ctx, dialect, dsn, identity, opts...)
	if err := db.Initialize(); err != nil {
		return nil, err
	}
	return db, nil
}

// Initialize connects, applies the schema and prepares the store for use.
func (db *ProgressDB) Initialize() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if s := db.State(); s != StateUninitialized {
		return fmt.Errorf("cannot initialize store in state %s", s)
	}

	sqlInstance, err := sql.Open(string(db.dialect), db.dsn)
	if err != nil {
		return database.NewFault(database.ErrConnection, "open", err)
	}
	if err := sqlInstance.PingContext(db.ctx); err != nil {
		_ = sqlInstance.Close()
		return database.NewFault(database.ErrConnection, "ping", err)
	}
	db.sql = sqlInstance
	db.state.Store(int32(StateConnected))

	if err := sqlMigrateUp(db.sql, db.dialect); err != nil {
		db.closeAfterFailedInit()
		return database.NewFault(database.ErrSchema, "migrate", err)
	}

	db.attach(sqlInstance)
	log.Info().
		Str("dialect", string(db.dialect)).
		Msg("progress database ready")
	return nil
}

func (db *ProgressDB) closeAfterFailedInit() {
	if err := db.sql.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close database after init error")
	}
	db.state.Store(int32(StateClosed))
}

// attach pins the pool to one connection and marks the store ready.
func (db *ProgressDB) attach(sqlDB *sql.DB) {
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)
	db.sql = sqlDB
	db.stmts = newStatements(db.ctx, sqlDB)
	db.state.Store(int32(StateReady))
}

// SetSQLForTesting allows injection of a sql.DB instance for testing purposes.
// This method should only be used in tests to set up temporary databases.
func (db *ProgressDB) SetSQLForTesting(ctx context.Context, sqlDB *sql.DB, dialect Dialect) error {
	db.ctx = ctx
	db.dialect = dialect
	if err := sqlMigrateUp(sqlDB, dialect); err != nil {
		return database.NewFault(database.ErrSchema, "migrate", err)
	}
	db.attach(sqlDB)
	return nil
}

func (db *ProgressDB) State() State {
	return State(db.state.Load())
}

func (db *ProgressDB) Dialect() Dialect {
	return db.dialect
}

func (db *ProgressDB) UnsafeGetSQLDb() *sql.DB {
	return db.sql
}

// acquire takes exclusive use of the connection for one logical
// operation. The returned func must be called to release it.
func (db *ProgressDB) acquire(op string) (func(), error) {
	// Fail fast rather than queue behind a shutdown in progress.
	if s := db.State(); s == StateShuttingDown || s == StateClosed {
		return nil, database.NewFault(database.ErrStoreClosed, op, nil)
	}
	db.mu.Lock()
	switch db.State() {
	case StateReady:
		return db.mu.Unlock, nil
	case StateShuttingDown, StateClosed:
		db.mu.Unlock()
		return nil, database.NewFault(database.ErrStoreClosed, op, nil)
	default:
		db.mu.Unlock()
		return nil, database.NewFault(
			database.ErrConnection,
			op,
			fmt.Errorf("store not initialized (%s)", db.State()),
		)
	}
}

func (db *ProgressDB) MigrateUp() error {
	release, err := db.acquire("migrate")
	if err != nil {
		return err
	}
	defer release()
	if err := sqlMigrateUp(db.sql, db.dialect); err != nil {
		return database.NewFault(database.ErrSchema, "migrate", err)
	}
	return nil
}

// Shutdown flushes, waits the grace period for in-flight work to settle
// and closes the connection. It is terminal: every later operation fails
// with ErrStoreClosed. Calling it again is a no-op.
func (db *ProgressDB) Shutdown() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	switch db.State() {
	case StateShuttingDown, StateClosed:
		return nil
	case StateUninitialized:
		db.state.Store(int32(StateClosed))
		return nil
	case StateConnected, StateReady:
	}

	db.state.Store(int32(StateShuttingDown))
	log.Debug().Dur("grace", db.grace).Msg("shutting down progress database")

	var errs []error
	if err := sqlFlush(db.ctx, db.sql, db.dialect); err != nil {
		errs = append(errs, err)
	}

	if db.grace > 0 {
		db.clock.Sleep(db.grace)
	}

	if db.stmts != nil {
		if err := db.stmts.closeAll(); err != nil {
			errs = append(errs, err)
		}
	}

	log.Debug().Msg("closing database connection")
	if err := db.sql.Close(); err != nil {
		errs = append(errs, database.NewFault(database.ErrConnection, "close", err))
	}
	db.state.Store(int32(StateClosed))

	return errors.Join(errs...)
}
