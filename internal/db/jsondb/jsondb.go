// Package jsondb is a document store that keeps the whole user collection in
// memory and mirrors it to a JSON file after every mutation.
package jsondb

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"sync"

	"github.com/patric-chuzhbe/userdir/internal/db/storage"
	"github.com/patric-chuzhbe/userdir/internal/models"
)

// JSONDB holds the collection in insertion order. When fileName is empty
// nothing is written to disk.
type JSONDB struct {
	fileName string

	mu         sync.RWMutex
	cache      CacheStruct
	emailIndex map[string]string
}

// CacheStruct is the on-disk document layout.
type CacheStruct struct {
	Users []models.User
}

func initDBFile(fileName string) error {
	dbFile, err := os.OpenFile(fileName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(dbFile, `{
	"Users": []
}`)
	if err != nil {
		return err
	}
	return dbFile.Close()
}

func writeToJSONFile(fileName string, cache interface{}) error {
	jsonData, err := json.MarshalIndent(cache, "", "\t")
	if err != nil {
		return fmt.Errorf("error marshaling JSON: %w", err)
	}

	file, err := os.OpenFile(fileName, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0644)
	if err != nil {
		return fmt.Errorf("error opening file: %w", err)
	}
	defer file.Close()

	_, err = file.Write(jsonData)
	if err != nil {
		return fmt.Errorf("error writing to file: %w", err)
	}

	return nil
}

func parseJSONFile(fileName string, cache *CacheStruct) error {
	file, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	return json.NewDecoder(file).Decode(cache)
}

// New opens (or creates) the JSON file and loads its documents.
func New(fileName string) (*JSONDB, error) {
	db := &JSONDB{fileName: fileName}

	err := parseJSONFile(db.fileName, &db.cache)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		if err := initDBFile(fileName); err != nil {
			return nil, err
		}
		if err := parseJSONFile(db.fileName, &db.cache); err != nil {
			return nil, err
		}
	}

	if err := db.reindex(); err != nil {
		return nil, fmt.Errorf("in internal/db/jsondb/jsondb.go/New(): %s: %w", fileName, err)
	}

	return db, nil
}

// NewWithCache returns a store over the given documents that never touches disk.
func NewWithCache(cache CacheStruct) *JSONDB {
	db := &JSONDB{cache: cache}
	_ = db.reindex()

	return db
}

func (db *JSONDB) reindex() error {
	if db.cache.Users == nil {
		db.cache.Users = []models.User{}
	}
	db.emailIndex = make(map[string]string, len(db.cache.Users))
	for _, usr := range db.cache.Users {
		if _, taken := db.emailIndex[usr.Email]; taken {
			return fmt.Errorf("duplicate email %q", usr.Email)
		}
		db.emailIndex[usr.Email] = usr.ID
	}

	return nil
}

func (db *JSONDB) flush(users []models.User) error {
	if db.fileName == "" {
		return nil
	}

	return writeToJSONFile(db.fileName, CacheStruct{Users: users})
}

func (db *JSONDB) position(id string) int {
	return slices.IndexFunc(db.cache.Users, func(usr models.User) bool {
		return usr.ID == id
	})
}

// CreateUser validates the payload, assigns an id and appends the document.
func (db *JSONDB) CreateUser(ctx context.Context, fields models.UserFields) (*models.User, error) {
	usr, err := storage.NewUser(fields)
	if err != nil {
		return nil, err
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	if _, taken := db.emailIndex[usr.Email]; taken {
		return nil, storage.DuplicateEmail()
	}

	usr.ID = storage.NewID()
	users := append(slices.Clone(db.cache.Users), usr)
	if err := db.flush(users); err != nil {
		return nil, err
	}
	db.cache.Users = users
	db.emailIndex[usr.Email] = usr.ID

	result := cloneUser(usr)
	return &result, nil
}

// ListUsers returns copies of all documents in insertion order.
func (db *JSONDB) ListUsers(ctx context.Context) ([]models.User, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	result := make([]models.User, 0, len(db.cache.Users))
	for _, usr := range db.cache.Users {
		result = append(result, cloneUser(usr))
	}

	return result, nil
}

// UpdateUserByID merges fields into the document and re-validates it.
func (db *JSONDB) UpdateUserByID(
	ctx context.Context,
	id string,
	fields models.UserFields,
) (*models.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	pos := db.position(id)
	if pos < 0 {
		return nil, models.ErrNotFound
	}

	usr := cloneUser(db.cache.Users[pos])
	oldEmail := usr.Email
	storage.Merge(&usr, fields)
	if err := storage.Validate(&usr); err != nil {
		return nil, err
	}
	if owner, taken := db.emailIndex[usr.Email]; taken && owner != id {
		return nil, storage.DuplicateEmail()
	}

	users := slices.Clone(db.cache.Users)
	users[pos] = usr
	if err := db.flush(users); err != nil {
		return nil, err
	}
	db.cache.Users = users
	delete(db.emailIndex, oldEmail)
	db.emailIndex[usr.Email] = id

	result := cloneUser(usr)
	return &result, nil
}

// DeleteUserByID removes the document with the given id.
func (db *JSONDB) DeleteUserByID(ctx context.Context, id string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	pos := db.position(id)
	if pos < 0 {
		return models.ErrNotFound
	}

	email := db.cache.Users[pos].Email
	users := slices.Delete(slices.Clone(db.cache.Users), pos, pos+1)
	if err := db.flush(users); err != nil {
		return err
	}
	db.cache.Users = users
	delete(db.emailIndex, email)

	return nil
}

func (db *JSONDB) Ping(ctx context.Context) error {
	return nil
}

// Close writes the collection one last time.
func (db *JSONDB) Close() error {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.flush(db.cache.Users)
}

func cloneUser(usr models.User) models.User {
	if usr.Age != nil {
		age := *usr.Age
		usr.Age = &age
	}
	usr.Hobbies = append([]string{}, usr.Hobbies...)

	return usr
}
