// Package storage defines the record store contract shared by every backend
// together with the schema rules each backend applies before writing.
package storage

import (
	"context"

	"github.com/patric-chuzhbe/userdir/internal/models"
)

// Storage is the record store. Implementations must be safe for concurrent use.
type Storage interface {
	CreateUser(ctx context.Context, fields models.UserFields) (*models.User, error)

	ListUsers(ctx context.Context) ([]models.User, error)

	UpdateUserByID(
		ctx context.Context,
		id string,
		fields models.UserFields,
	) (*models.User, error)

	DeleteUserByID(ctx context.Context, id string) error

	Ping(ctx context.Context) error

	Close() error
}
