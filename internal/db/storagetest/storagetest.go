// Package storagetest holds the behaviour every record store backend must
// share. Backend packages call Run from their own tests.
package storagetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/userdir/internal/db/storage"
	"github.com/patric-chuzhbe/userdir/internal/models"
)

// Factory returns an empty store. The test owns closing it.
type Factory func(t *testing.T) storage.Storage

func ptr[T any](v T) *T {
	return &v
}

// Fields builds a minimal valid create payload.
func Fields(name, email string, gender models.Gender) models.UserFields {
	return models.UserFields{
		Name:   ptr(name),
		Email:  ptr(email),
		Gender: ptr(gender),
	}
}

// Run executes the shared backend suite.
func Run(t *testing.T, newStorage Factory) {
	t.Run("create applies defaults", func(t *testing.T) {
		db := newStorage(t)
		ctx := context.Background()

		usr, err := db.CreateUser(ctx, Fields("Ann", "ann@x.com", models.GenderFemale))
		require.NoError(t, err)

		assert.NotEmpty(t, usr.ID)
		assert.True(t, usr.IsActive)
		assert.Equal(t, []string{}, usr.Hobbies)
		assert.Nil(t, usr.Age)
		assert.Equal(t, "Ann", usr.Name)
	})

	t.Run("create keeps explicit values", func(t *testing.T) {
		db := newStorage(t)
		fields := Fields("Bob", "bob@x.com", models.GenderMale)
		fields.Age = models.Set(41)
		fields.Hobbies = ptr([]string{"Music", "Art"})
		fields.Bio = ptr("hello")
		fields.IsActive = ptr(false)

		usr, err := db.CreateUser(context.Background(), fields)
		require.NoError(t, err)

		require.NotNil(t, usr.Age)
		assert.Equal(t, 41, *usr.Age)
		assert.Equal(t, []string{"Music", "Art"}, usr.Hobbies)
		assert.Equal(t, "hello", usr.Bio)
		assert.False(t, usr.IsActive)
	})

	t.Run("ids are unique", func(t *testing.T) {
		db := newStorage(t)
		ctx := context.Background()

		first, err := db.CreateUser(ctx, Fields("A", "a@x.com", models.GenderOther))
		require.NoError(t, err)
		second, err := db.CreateUser(ctx, Fields("B", "b@x.com", models.GenderOther))
		require.NoError(t, err)

		assert.NotEqual(t, first.ID, second.ID)
	})

	t.Run("create rejects missing and invalid fields", func(t *testing.T) {
		db := newStorage(t)
		ctx := context.Background()

		cases := map[string]models.UserFields{
			"name":   {Email: ptr("n@x.com"), Gender: ptr(models.GenderMale)},
			"email":  {Name: ptr("N"), Gender: ptr(models.GenderMale)},
			"gender": {Name: ptr("N"), Email: ptr("g@x.com"), Gender: ptr(models.Gender("male"))},
		}
		for field, fields := range cases {
			_, err := db.CreateUser(ctx, fields)

			var valErr *models.ValidationError
			require.ErrorAs(t, err, &valErr, field)
			assert.Contains(t, valErr.Fields, field)
		}

		users, err := db.ListUsers(ctx)
		require.NoError(t, err)
		assert.Empty(t, users)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		db := newStorage(t)
		ctx := context.Background()

		_, err := db.CreateUser(ctx, Fields("Ann", "ann@x.com", models.GenderFemale))
		require.NoError(t, err)

		_, err = db.CreateUser(ctx, Fields("Ann 2", "ann@x.com", models.GenderFemale))
		assert.True(t, models.IsValidation(err))

		users, err := db.ListUsers(ctx)
		require.NoError(t, err)
		assert.Len(t, users, 1)
	})

	t.Run("list keeps insertion order", func(t *testing.T) {
		db := newStorage(t)
		ctx := context.Background()

		for _, name := range []string{"one", "two", "three"} {
			_, err := db.CreateUser(ctx, Fields(name, name+"@x.com", models.GenderOther))
			require.NoError(t, err)
		}

		users, err := db.ListUsers(ctx)
		require.NoError(t, err)
		require.Len(t, users, 3)
		assert.Equal(t, "one", users[0].Name)
		assert.Equal(t, "two", users[1].Name)
		assert.Equal(t, "three", users[2].Name)
	})

	t.Run("update with null age clears it", func(t *testing.T) {
		db := newStorage(t)
		ctx := context.Background()

		fields := Fields("Ann", "ann@x.com", models.GenderFemale)
		fields.Age = models.Set(18)
		created, err := db.CreateUser(ctx, fields)
		require.NoError(t, err)
		require.NotNil(t, created.Age)

		updated, err := db.UpdateUserByID(ctx, created.ID, models.UserFields{Bio: ptr("bio")})
		require.NoError(t, err)
		require.NotNil(t, updated.Age)
		assert.Equal(t, 18, *updated.Age)

		updated, err = db.UpdateUserByID(ctx, created.ID, models.UserFields{Age: models.Null[int]()})
		require.NoError(t, err)
		assert.Nil(t, updated.Age)
		assert.Equal(t, "bio", updated.Bio)

		users, err := db.ListUsers(ctx)
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Nil(t, users[0].Age)
	})

	t.Run("update merges fields", func(t *testing.T) {
		db := newStorage(t)
		ctx := context.Background()

		created, err := db.CreateUser(ctx, Fields("Ann", "ann@x.com", models.GenderFemale))
		require.NoError(t, err)

		updated, err := db.UpdateUserByID(ctx, created.ID, models.UserFields{Age: models.Set(30)})
		require.NoError(t, err)

		assert.Equal(t, created.ID, updated.ID)
		require.NotNil(t, updated.Age)
		assert.Equal(t, 30, *updated.Age)
		assert.Equal(t, "Ann", updated.Name)
		assert.Equal(t, "ann@x.com", updated.Email)
		assert.True(t, updated.IsActive)

		users, err := db.ListUsers(ctx)
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, *updated, users[0])
	})

	t.Run("update validates the merged document", func(t *testing.T) {
		db := newStorage(t)
		ctx := context.Background()

		ann, err := db.CreateUser(ctx, Fields("Ann", "ann@x.com", models.GenderFemale))
		require.NoError(t, err)
		_, err = db.CreateUser(ctx, Fields("Bob", "bob@x.com", models.GenderMale))
		require.NoError(t, err)

		_, err = db.UpdateUserByID(ctx, ann.ID, models.UserFields{Gender: ptr(models.Gender("robot"))})
		assert.True(t, models.IsValidation(err))

		_, err = db.UpdateUserByID(ctx, ann.ID, models.UserFields{Email: ptr("bob@x.com")})
		assert.True(t, models.IsValidation(err))

		_, err = db.UpdateUserByID(ctx, ann.ID, models.UserFields{Email: ptr("ann@x.com")})
		assert.NoError(t, err)

		users, err := db.ListUsers(ctx)
		require.NoError(t, err)
		assert.Equal(t, models.GenderFemale, users[0].Gender)
		assert.Equal(t, "ann@x.com", users[0].Email)
	})

	t.Run("update of unknown id", func(t *testing.T) {
		db := newStorage(t)
		ctx := context.Background()

		_, err := db.CreateUser(ctx, Fields("Ann", "ann@x.com", models.GenderFemale))
		require.NoError(t, err)

		_, err = db.UpdateUserByID(ctx, storage.NewID(), models.UserFields{Name: ptr("X")})
		assert.ErrorIs(t, err, models.ErrNotFound)

		_, err = db.UpdateUserByID(ctx, "not-a-uuid", models.UserFields{Name: ptr("X")})
		assert.ErrorIs(t, err, models.ErrNotFound)

		users, err := db.ListUsers(ctx)
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "Ann", users[0].Name)
	})

	t.Run("delete", func(t *testing.T) {
		db := newStorage(t)
		ctx := context.Background()

		ann, err := db.CreateUser(ctx, Fields("Ann", "ann@x.com", models.GenderFemale))
		require.NoError(t, err)
		_, err = db.CreateUser(ctx, Fields("Bob", "bob@x.com", models.GenderMale))
		require.NoError(t, err)

		require.NoError(t, db.DeleteUserByID(ctx, ann.ID))
		assert.ErrorIs(t, db.DeleteUserByID(ctx, ann.ID), models.ErrNotFound)

		users, err := db.ListUsers(ctx)
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "Bob", users[0].Name)

		// The freed email can be reused.
		_, err = db.CreateUser(ctx, Fields("Ann", "ann@x.com", models.GenderFemale))
		assert.NoError(t, err)
	})

	t.Run("ping", func(t *testing.T) {
		db := newStorage(t)
		assert.NoError(t, db.Ping(context.Background()))
	})
}
