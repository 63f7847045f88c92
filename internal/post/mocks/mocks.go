// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

// Package mocks provides testify mocks for the post interfaces.
package mocks

import (
	"context"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/mock"

	"github.com/inkpost/inkpost/internal/post"
)

// MockRepository is a mock post.Repository.
type MockRepository struct {
	mock.Mock
}

// NewMockRepository creates a mock that asserts its expectations on cleanup.
func NewMockRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockRepository {
	m := &MockRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Create provides a mock function.
func (m *MockRepository) Create(ctx context.Context, p *post.Post) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

// Get provides a mock function.
func (m *MockRepository) Get(ctx context.Context, id ulid.ULID) (*post.Post, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*post.Post)
	return p, args.Error(1)
}

// List provides a mock function.
func (m *MockRepository) List(ctx context.Context) ([]*post.Post, error) {
	args := m.Called(ctx)
	posts, _ := args.Get(0).([]*post.Post)
	return posts, args.Error(1)
}

// Update provides a mock function.
func (m *MockRepository) Update(ctx context.Context, p *post.Post) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

// Delete provides a mock function.
func (m *MockRepository) Delete(ctx context.Context, id ulid.ULID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var _ post.Repository = (*MockRepository)(nil)
