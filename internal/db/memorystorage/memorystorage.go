package memorystorage

import (
	"context"

	"github.com/patric-chuzhbe/userdir/internal/db/jsondb"
	"github.com/patric-chuzhbe/userdir/internal/models"
)

// MemoryStorage is the jsondb engine without a backing file. Data is lost on exit.
type MemoryStorage struct {
	*jsondb.JSONDB
}

func New() (*MemoryStorage, error) {
	return &MemoryStorage{
		JSONDB: jsondb.NewWithCache(jsondb.CacheStruct{
			Users: []models.User{},
		}),
	}, nil
}

func (theStorage *MemoryStorage) Close() error {
	return nil
}

func (theStorage *MemoryStorage) Ping(ctx context.Context) error {
	return nil
}
