package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/userdir/internal/db/memorystorage"
	"github.com/patric-chuzhbe/userdir/internal/db/storagetest"
	"github.com/patric-chuzhbe/userdir/internal/mockstorage"
	"github.com/patric-chuzhbe/userdir/internal/models"
)

type recordingQueue struct {
	mu     sync.Mutex
	events []models.UserEvent
	err    error
}

func (q *recordingQueue) Enqueue(ctx context.Context, event models.UserEvent) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.events = append(q.events, event)
	return nil
}

func newService(t *testing.T) (*Service, *recordingQueue) {
	db, err := memorystorage.New()
	require.NoError(t, err)
	queue := &recordingQueue{}
	svc := New(db, queue)
	svc.now = func() time.Time {
		return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return svc, queue
}

func TestLifecyclePublishesEvents(t *testing.T) {
	svc, queue := newService(t)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, storagetest.Fields("Ann", "ann@x.com", models.GenderFemale))
	require.NoError(t, err)

	updated, err := svc.UpdateUser(ctx, created.ID, models.UserFields{Age: models.Set(30)})
	require.NoError(t, err)
	require.NotNil(t, updated.Age)
	assert.Equal(t, 30, *updated.Age)
	assert.Equal(t, "Ann", updated.Name)

	require.NoError(t, svc.DeleteUser(ctx, created.ID))

	require.Len(t, queue.events, 3)
	assert.Equal(t, models.UserCreated, queue.events[0].Type)
	assert.Equal(t, models.UserUpdated, queue.events[1].Type)
	assert.Equal(t, models.UserDeleted, queue.events[2].Type)
	for _, event := range queue.events {
		assert.Equal(t, created.ID, event.UserID)
		assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), event.OccurredAt)
	}
	assert.Nil(t, queue.events[2].User)

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestFailedMutationsPublishNothing(t *testing.T) {
	svc, queue := newService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, models.UserFields{})
	assert.True(t, models.IsValidation(err))

	_, err = svc.UpdateUser(ctx, "absent", models.UserFields{})
	assert.ErrorIs(t, err, models.ErrNotFound)

	assert.ErrorIs(t, svc.DeleteUser(ctx, "absent"), models.ErrNotFound)

	assert.Empty(t, queue.events)
}

func TestQueueFailureDoesNotFailMutation(t *testing.T) {
	svc, queue := newService(t)
	queue.err = errors.New("queue full")

	created, err := svc.CreateUser(context.Background(), storagetest.Fields("Ann", "ann@x.com", models.GenderFemale))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
}

func TestWithoutEvents(t *testing.T) {
	db, err := memorystorage.New()
	require.NoError(t, err)
	svc := New(db, nil)

	_, err = svc.CreateUser(context.Background(), storagetest.Fields("Ann", "ann@x.com", models.GenderFemale))
	assert.NoError(t, err)
}

func TestStorageErrorsPassThrough(t *testing.T) {
	db := &mockstorage.StorageMock{}
	db.On("ListUsers", mock.Anything).Return(nil, models.ErrConnection)
	db.On("Ping", mock.Anything).Return(models.ErrConnection)
	svc := New(db, nil)

	_, err := svc.ListUsers(context.Background())
	assert.ErrorIs(t, err, models.ErrConnection)
	assert.ErrorIs(t, svc.Ping(context.Background()), models.ErrConnection)

	db.AssertExpectations(t)
}

func TestEventSnapshotIsDetached(t *testing.T) {
	svc, queue := newService(t)

	created, err := svc.CreateUser(context.Background(), storagetest.Fields("Ann", "ann@x.com", models.GenderFemale))
	require.NoError(t, err)

	created.Name = "changed"
	require.Len(t, queue.events, 1)
	assert.Equal(t, "Ann", queue.events[0].User.Name)
}
