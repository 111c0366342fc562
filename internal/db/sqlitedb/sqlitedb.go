// Package sqlitedb is a GORM implementation of the record store over an
// embedded SQLite database.
package sqlitedb

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/patric-chuzhbe/userdir/internal/db/storage"
	"github.com/patric-chuzhbe/userdir/internal/models"
)

// userRecord is the table row. Hobbies are stored as a JSON column.
type userRecord struct {
	ID       string   `gorm:"primaryKey;type:varchar(36)"`
	Name     string   `gorm:"not null"`
	Email    string   `gorm:"uniqueIndex;not null"`
	Age      *int
	Gender   string   `gorm:"type:varchar(6);not null"`
	Hobbies  []string `gorm:"serializer:json"`
	Bio      string
	IsActive bool
}

func (userRecord) TableName() string {
	return "users"
}

func toRecord(usr models.User) userRecord {
	return userRecord{
		ID:       usr.ID,
		Name:     usr.Name,
		Email:    usr.Email,
		Age:      usr.Age,
		Gender:   string(usr.Gender),
		Hobbies:  usr.Hobbies,
		Bio:      usr.Bio,
		IsActive: usr.IsActive,
	}
}

func (r userRecord) toUser() models.User {
	hobbies := r.Hobbies
	if hobbies == nil {
		hobbies = []string{}
	}

	return models.User{
		ID:       r.ID,
		Name:     r.Name,
		Email:    r.Email,
		Age:      r.Age,
		Gender:   models.Gender(r.Gender),
		Hobbies:  hobbies,
		Bio:      r.Bio,
		IsActive: r.IsActive,
	}
}

// SQLiteDB is a GORM-backed record store.
type SQLiteDB struct {
	db *gorm.DB
}

// New opens the database at path (":memory:" or "file::memory:?cache=shared"
// work for tests) and migrates the users table.
func New(path string) (*SQLiteDB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open sqlite database %s: %w", models.ErrConnection, path, err)
	}

	if err := db.AutoMigrate(&userRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate users table: %w", err)
	}

	return &SQLiteDB{db: db}, nil
}

// CreateUser validates the payload and inserts a new row.
func (r *SQLiteDB) CreateUser(ctx context.Context, fields models.UserFields) (*models.User, error) {
	usr, err := storage.NewUser(fields)
	if err != nil {
		return nil, err
	}
	usr.ID = storage.NewID()

	record := toRecord(usr)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, classify(err, "failed to create user")
	}

	return &usr, nil
}

// ListUsers returns every row in insertion order.
func (r *SQLiteDB) ListUsers(ctx context.Context) ([]models.User, error) {
	var records []userRecord
	if err := r.db.WithContext(ctx).Order("rowid").Find(&records).Error; err != nil {
		return nil, classify(err, "failed to get all users")
	}

	result := make([]models.User, 0, len(records))
	for _, record := range records {
		result = append(result, record.toUser())
	}

	return result, nil
}

// UpdateUserByID merges the fields into the row inside a transaction.
func (r *SQLiteDB) UpdateUserByID(
	ctx context.Context,
	id string,
	fields models.UserFields,
) (*models.User, error) {
	var result models.User

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record userRecord
		if err := tx.First(&record, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}
			return classify(err, "failed to get user by ID "+id)
		}

		usr := record.toUser()
		storage.Merge(&usr, fields)
		if err := storage.Validate(&usr); err != nil {
			return err
		}

		updated := toRecord(usr)
		if err := tx.Save(&updated).Error; err != nil {
			return classify(err, "failed to update user")
		}

		result = usr
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// DeleteUserByID removes the row with the given id.
func (r *SQLiteDB) DeleteUserByID(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&userRecord{}, "id = ?", id)
	if res.Error != nil {
		return classify(res.Error, "failed to delete user")
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}

	return nil
}

func (r *SQLiteDB) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", models.ErrConnection, err)
	}

	return nil
}

func (r *SQLiteDB) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

func classify(err error, message string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return storage.DuplicateEmail()
	}

	return fmt.Errorf("%s: %w", message, err)
}
