// Package mockstorage provides a testify-based mock of storage.Storage.
// Router and service tests use it to simulate failing backends.
package mockstorage

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/patric-chuzhbe/userdir/internal/models"
)

// StorageMock is a testify mock of the record store.
type StorageMock struct {
	mock.Mock
}

// CreateUser mocks inserting a new record.
func (m *StorageMock) CreateUser(ctx context.Context, fields models.UserFields) (*models.User, error) {
	args := m.Called(ctx, fields)
	usr, _ := args.Get(0).(*models.User)
	return usr, args.Error(1)
}

// ListUsers mocks reading every record.
func (m *StorageMock) ListUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]models.User)
	return users, args.Error(1)
}

// UpdateUserByID mocks a partial update.
func (m *StorageMock) UpdateUserByID(
	ctx context.Context,
	id string,
	fields models.UserFields,
) (*models.User, error) {
	args := m.Called(ctx, id, fields)
	usr, _ := args.Get(0).(*models.User)
	return usr, args.Error(1)
}

// DeleteUserByID mocks removing a record.
func (m *StorageMock) DeleteUserByID(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Ping mocks a health check.
func (m *StorageMock) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Close mocks releasing the backend.
func (m *StorageMock) Close() error {
	args := m.Called()
	return args.Error(0)
}
