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

package database

import (
	"errors"
	"strings"
)

// Fault kinds. Match with errors.Is; use errors.As with *Fault for the
// operation and player involved.
var (
	ErrConnection     = errors.New("connection fault")
	ErrSchema         = errors.New("schema fault")
	ErrPlayerNotFound = errors.New("player not found")
	ErrWrite          = errors.New("write fault")
	ErrStoreClosed    = errors.New("store is closed")
)

// Fault is the error type returned by every store operation.
type Fault struct {
	Kind   error
	Err    error
	Op     string
	Player string
}

func (f *Fault) Error() string {
	var sb strings.Builder
	if f.Op != "" {
		sb.WriteString(f.Op)
		sb.WriteString(": ")
	}
	sb.WriteString(f.Kind.Error())
	if f.Player != "" {
		sb.WriteString(" [")
		sb.WriteString(f.Player)
		sb.WriteString("]")
	}
	if f.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(f.Err.Error())
	}
	return sb.String()
}

func (f *Fault) Is(target error) bool {
	return target == f.Kind
}

func (f *Fault) Unwrap() error {
	return f.Err
}

func NewFault(kind error, op string, err error) *Fault {
	return &Fault{Kind: kind, Op: op, Err: err}
}

func PlayerNotFound(op string, player PlayerRef) *Fault {
	return &Fault{Kind: ErrPlayerNotFound, Op: op, Player: player.String()}
}
