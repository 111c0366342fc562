package grpcserver

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/patric-chuzhbe/userdir/internal/logger"
	"github.com/patric-chuzhbe/userdir/internal/models"
)

type userService interface {
	CreateUser(ctx context.Context, fields models.UserFields) (*models.User, error)

	ListUsers(ctx context.Context) ([]models.User, error)

	UpdateUser(ctx context.Context, id string, fields models.UserFields) (*models.User, error)

	DeleteUser(ctx context.Context, id string) error

	Ping(ctx context.Context) error
}

// UsersHandler serves userdir.Users on top of the same service as the HTTP router.
type UsersHandler struct {
	svc userService
}

func NewUsersHandler(svc userService) *UsersHandler {
	return &UsersHandler{svc: svc}
}

func (h *UsersHandler) CreateUser(ctx context.Context, in *models.UserFields) (*models.User, error) {
	created, err := h.svc.CreateUser(ctx, *in)
	if err != nil {
		return nil, toStatus(err)
	}

	return created, nil
}

func (h *UsersHandler) ListUsers(ctx context.Context, _ *Empty) (*models.ListUsersResponse, error) {
	users, err := h.svc.ListUsers(ctx)
	if err != nil {
		return nil, toStatus(err)
	}

	return &models.ListUsersResponse{Users: users}, nil
}

func (h *UsersHandler) UpdateUser(ctx context.Context, in *UpdateUserRequest) (*models.User, error) {
	updated, err := h.svc.UpdateUser(ctx, in.ID, in.Fields)
	if err != nil {
		return nil, toStatus(err)
	}

	return updated, nil
}

func (h *UsersHandler) DeleteUser(ctx context.Context, in *DeleteUserRequest) (*models.MessageResponse, error) {
	if err := h.svc.DeleteUser(ctx, in.ID); err != nil {
		return nil, toStatus(err)
	}

	return &models.MessageResponse{Message: "User deleted successfully"}, nil
}

func (h *UsersHandler) Ping(ctx context.Context, _ *Empty) (*models.MessageResponse, error) {
	if err := h.svc.Ping(ctx); err != nil {
		return nil, toStatus(err)
	}

	return &models.MessageResponse{Message: "pong"}, nil
}

// toStatus maps a service error to the gRPC code matching its HTTP status.
func toStatus(err error) error {
	var validationErr *models.ValidationError

	switch {
	case errors.As(err, &validationErr):
		return status.Error(codes.InvalidArgument, validationErr.Error())

	case errors.Is(err, models.ErrNotFound):
		return status.Error(codes.NotFound, "User not found")

	case errors.Is(err, models.ErrConnection):
		logger.Log.Errorw("record store unreachable", "error", err)
		return status.Error(codes.Unavailable, "Database connection error")

	default:
		logger.Log.Errorw("gRPC call failed", "error", err)
		return status.Error(codes.Internal, "Internal server error")
	}
}
