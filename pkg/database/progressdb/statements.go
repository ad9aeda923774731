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

	"github.com/mobhunt/progress-core/pkg/database"
	"github.com/rs/zerolog/log"
)

var errGroupOpen = errors.New("statement group already open")

// statements owns every prepared handle on the shared connection. Single
// kinds are prepared lazily and cached until released; the lookup group
// is prepared and closed as one unit per resolution.
type statements struct {
	ctx      context.Context
	db       *sql.DB
	prepared map[Kind]*sql.Stmt
	group    []*sql.Stmt
	groupOf  []Kind
}

func newStatements(ctx context.Context, db *sql.DB) *statements {
	return &statements{
		ctx:      ctx,
		db:       db,
		prepared: make(map[Kind]*sql.Stmt),
	}
}

func (s *statements) prepare(kind Kind) (*sql.Stmt, error) {
	stmt, err := s.db.PrepareContext(s.ctx, kind.Query())
	if err != nil {
		return nil, database.NewFault(
			database.ErrConnection,
			"prepare "+kind.String(),
			err,
		)
	}
	return stmt, nil
}

// open returns a ready to bind handle for kind, preparing it on first use.
func (s *statements) open(kind Kind) (*sql.Stmt, error) {
	if stmt, ok := s.prepared[kind]; ok {
		return stmt, nil
	}
	stmt, err := s.prepare(kind)
	if err != nil {
		return nil, err
	}
	s.prepared[kind] = stmt
	return stmt, nil
}

// openGroup prepares all kinds or none of them. Handles are returned in
// the order requested.
func (s *statements) openGroup(kinds ...Kind) ([]*sql.Stmt, error) {
	if s.group != nil {
		return nil, errGroupOpen
	}
	group := make([]*sql.Stmt, 0, len(kinds))
	for _, kind := range kinds {
		stmt, err := s.prepare(kind)
		if err != nil {
			for i := len(group) - 1; i >= 0; i-- {
				if closeErr := group[i].Close(); closeErr != nil {
					log.Warn().Err(closeErr).Msg("failed to close partial statement group")
				}
			}
			return nil, err
		}
		group = append(group, stmt)
	}
	s.group = group
	s.groupOf = kinds
	return group, nil
}

// closeGroup closes the handles of the last openGroup call in reverse
// order. It is a no-op when no group is open.
func (s *statements) closeGroup() error {
	if s.group == nil {
		return nil
	}
	var errs []error
	for i := len(s.group) - 1; i >= 0; i-- {
		if err := s.group[i].Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", s.groupOf[i], err))
		}
	}
	s.group = nil
	s.groupOf = nil
	return errors.Join(errs...)
}

func (s *statements) groupOpen() bool {
	return s.group != nil
}

// release closes a cached handle. The next open of kind prepares a new one.
func (s *statements) release(kind Kind) error {
	stmt, ok := s.prepared[kind]
	if !ok {
		return nil
	}
	delete(s.prepared, kind)
	if err := stmt.Close(); err != nil {
		return fmt.Errorf("close %s: %w", kind, err)
	}
	return nil
}

func (s *statements) closeAll() error {
	errs := []error{s.closeGroup()}
	for kind := range s.prepared {
		errs = append(errs, s.release(kind))
	}
	return errors.Join(errs...)
}
