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
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFault_Is(t *testing.T) {
	t.Parallel()

	cause := errors.New("database is locked")
	err := fmt.Errorf("saving: %w", NewFault(ErrWrite, "save achievements", cause))

	require.ErrorIs(t, err, ErrWrite)
	require.ErrorIs(t, err, cause)
	require.NotErrorIs(t, err, ErrConnection)
	require.NotErrorIs(t, err, ErrStoreClosed)

	var fault *Fault
	require.ErrorAs(t, err, &fault)
	assert.Equal(t, "save achievements", fault.Op)
}

func TestFault_NestedKinds(t *testing.T) {
	t.Parallel()

	inner := NewFault(ErrConnection, "prepare insert_player", errors.New("no such table"))
	outer := NewFault(ErrWrite, "insert players", inner)

	require.ErrorIs(t, outer, ErrWrite)
	require.ErrorIs(t, outer, ErrConnection)
}

func TestFault_Error(t *testing.T) {
	t.Parallel()

	id := uuid.MustParse("6f2d1a3e-9b7c-4d2e-8f1a-0c3b5e7d9a11")

	tests := []struct {
		err      error
		name     string
		expected string
	}{
		{
			name:     "kind only",
			err:      &Fault{Kind: ErrStoreClosed},
			expected: "store is closed",
		},
		{
			name:     "with op and cause",
			err:      NewFault(ErrWrite, "delete bounty", errors.New("disk full")),
			expected: "delete bounty: write fault: disk full",
		},
		{
			name:     "player not found",
			err:      PlayerNotFound("get settings", PlayerRef{ID: id, Name: "Steve"}),
			expected: "get settings: player not found [Steve (6f2d1a3e-9b7c-4d2e-8f1a-0c3b5e7d9a11)]",
		},
		{
			name:     "player without name",
			err:      PlayerNotFound("get settings", PlayerRef{ID: id}),
			expected: "get settings: player not found [6f2d1a3e-9b7c-4d2e-8f1a-0c3b5e7d9a11]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}
