package jsondb

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/userdir/internal/db/storage"
	"github.com/patric-chuzhbe/userdir/internal/db/storagetest"
	"github.com/patric-chuzhbe/userdir/internal/models"
)

func TestSuite(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Storage {
		theStorage, err := New(filepath.Join(t.TempDir(), "db_test.json"))
		require.NoError(t, err)
		t.Cleanup(func() {
			require.NoError(t, theStorage.Close())
		})
		return theStorage
	})
}

func TestPersistsBetweenOpens(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "db_test.json")
	ctx := context.Background()

	theStorage, err := New(fileName)
	require.NoError(t, err)

	ann, err := theStorage.CreateUser(ctx, storagetest.Fields("Ann", "ann@x.com", models.GenderFemale))
	require.NoError(t, err)
	bob, err := theStorage.CreateUser(ctx, storagetest.Fields("Bob", "bob@x.com", models.GenderMale))
	require.NoError(t, err)
	require.NoError(t, theStorage.DeleteUserByID(ctx, bob.ID))

	// No Close: every mutation is already on disk.
	reopened, err := New(fileName)
	require.NoError(t, err)

	users, err := reopened.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, *ann, users[0])

	_, err = reopened.CreateUser(ctx, storagetest.Fields("Ann", "ann@x.com", models.GenderFemale))
	assert.True(t, models.IsValidation(err), "the email index should be rebuilt on load")
}

func TestNewCreatesMissingFile(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "fresh.json")

	theStorage, err := New(fileName)
	require.NoError(t, err)

	_, err = os.Stat(fileName)
	assert.NoError(t, err)

	users, err := theStorage.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestNewRejectsBrokenFile(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(fileName, []byte("{not json"), 0644))

	_, err := New(fileName)
	assert.Error(t, err)
}

func TestListReturnsCopies(t *testing.T) {
	theStorage := NewWithCache(CacheStruct{})
	ctx := context.Background()

	fields := storagetest.Fields("Ann", "ann@x.com", models.GenderFemale)
	hobbies := []string{"Art"}
	fields.Hobbies = &hobbies
	_, err := theStorage.CreateUser(ctx, fields)
	require.NoError(t, err)

	users, err := theStorage.ListUsers(ctx)
	require.NoError(t, err)
	users[0].Hobbies[0] = "Changed"
	users[0].Name = "Changed"

	again, err := theStorage.ListUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ann", again[0].Name)
	assert.Equal(t, []string{"Art"}, again[0].Hobbies)
}
