// Package service holds the user directory business operations. Handlers
// call it and it calls the record store; every committed mutation is
// followed by a user event.
package service

import (
	"context"
	"time"

	"github.com/patric-chuzhbe/userdir/internal/logger"
	"github.com/patric-chuzhbe/userdir/internal/models"
)

type usersKeeper interface {
	CreateUser(ctx context.Context, fields models.UserFields) (*models.User, error)

	ListUsers(ctx context.Context) ([]models.User, error)

	UpdateUserByID(
		ctx context.Context,
		id string,
		fields models.UserFields,
	) (*models.User, error)

	DeleteUserByID(ctx context.Context, id string) error
}

type pinger interface {
	Ping(ctx context.Context) error
}

type storage interface {
	usersKeeper
	pinger
}

type eventQueue interface {
	Enqueue(ctx context.Context, event models.UserEvent) error
}

type Service struct {
	db     storage
	events eventQueue
	now    func() time.Time
}

// New builds the service. A nil events queue disables notifications.
func New(db storage, events eventQueue) *Service {
	return &Service{
		db:     db,
		events: events,
		now:    time.Now,
	}
}

// CreateUser stores a new record. Missing isActive and hobbies get their defaults.
func (s *Service) CreateUser(ctx context.Context, fields models.UserFields) (*models.User, error) {
	created, err := s.db.CreateUser(ctx, fields)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, models.UserCreated, created.ID, created)

	return created, nil
}

// ListUsers returns every record in insertion order, never nil.
func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.db.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}

	return users, nil
}

// UpdateUser merges fields into the record with the given id.
func (s *Service) UpdateUser(ctx context.Context, id string, fields models.UserFields) (*models.User, error) {
	updated, err := s.db.UpdateUserByID(ctx, id, fields)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, models.UserUpdated, updated.ID, updated)

	return updated, nil
}

func (s *Service) DeleteUser(ctx context.Context, id string) error {
	if err := s.db.DeleteUserByID(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, models.UserDeleted, id, nil)

	return nil
}

// Ping checks the health of the storage layer.
func (s *Service) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// publish never fails the mutation it reports on.
func (s *Service) publish(ctx context.Context, eventType models.UserEventType, id string, usr *models.User) {
	if s.events == nil {
		return
	}

	var snapshot *models.User
	if usr != nil {
		copied := *usr
		snapshot = &copied
	}

	err := s.events.Enqueue(ctx, models.UserEvent{
		Type:       eventType,
		UserID:     id,
		User:       snapshot,
		OccurredAt: s.now().UTC(),
	})
	if err != nil {
		logger.Log.Warnw("user event not queued", "type", eventType, "userId", id, "error", err)
	}
}
