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

package mocks

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockIdentityProvider is a mock implementation of the IdentityProvider
// interface using testify/mock
type MockIdentityProvider struct {
	mock.Mock
}

func NewMockIdentityProvider() *MockIdentityProvider {
	return &MockIdentityProvider{}
}

// DisplayName returns the live name of a player
func (m *MockIdentityProvider) DisplayName(id uuid.UUID) (name string, online bool, err error) {
	args := m.Called(id)
	if err := args.Error(2); err != nil {
		return "", false, fmt.Errorf("mock operation failed: %w", err)
	}
	return args.String(0), args.Bool(1), nil
}

// SetupOnline registers a player as online under the given name.
func (m *MockIdentityProvider) SetupOnline(id uuid.UUID, name string) {
	m.On("DisplayName", id).Return(name, true, nil)
}

// SetupUnknown makes every lookup for a player fail.
func (m *MockIdentityProvider) SetupUnknown(id uuid.UUID) {
	m.On("DisplayName", id).Return("", false, fmt.Errorf("unknown player %s", id))
}
