// Package router exposes the user directory over HTTP/JSON.
package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/patric-chuzhbe/userdir/internal/gzippedhttp"
	"github.com/patric-chuzhbe/userdir/internal/logger"
	"github.com/patric-chuzhbe/userdir/internal/models"
)

const maxBodyBytes = 1 << 20

type userService interface {
	CreateUser(ctx context.Context, fields models.UserFields) (*models.User, error)

	ListUsers(ctx context.Context) ([]models.User, error)

	UpdateUser(ctx context.Context, id string, fields models.UserFields) (*models.User, error)

	DeleteUser(ctx context.Context, id string) error

	Ping(ctx context.Context) error
}

// Router holds the HTTP handlers of the user directory.
type Router struct {
	svc userService
}

// New wires the handlers and middlewares. An empty allowedOrigins permits any origin.
func New(svc userService, allowedOrigins []string) *chi.Mux {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	myRouter := Router{
		svc: svc,
	}

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		logger.WithLoggingHTTPMiddleware,
		recoverPanics,
		cors.Handler(cors.Options{
			AllowedOrigins: allowedOrigins,
			AllowedMethods: []string{
				http.MethodGet,
				http.MethodPost,
				http.MethodPut,
				http.MethodDelete,
				http.MethodOptions,
			},
			AllowedHeaders: []string{"Accept", "Accept-Encoding", "Content-Type", "Content-Encoding"},
			MaxAge:         300,
		}),
		gzippedhttp.UngzipRequest,
		gzippedhttp.GzipResponse,
	)

	router.Get(`/ping`, myRouter.GetPing)
	router.Route(`/users`, func(r chi.Router) {
		r.Post(`/`, myRouter.PostUsers)
		r.Get(`/`, myRouter.GetUsers)
		r.Put(`/{id}`, myRouter.PutUser)
		r.Delete(`/{id}`, myRouter.DeleteUser)
	})

	return router
}

// recoverPanics turns a panicking handler into a 500 internal_error response.
func recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(response http.ResponseWriter, request *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}

			logger.Log.Errorw("handler panicked",
				"requestId", middleware.GetReqID(request.Context()),
				"stack", string(debug.Stack()),
			)
			writeError(response, fmt.Errorf("panic: %v", rvr))
		}()

		next.ServeHTTP(response, request)
	})
}

// PostUsers creates a user from the JSON body and answers 201 with the stored record.
func (router *Router) PostUsers(response http.ResponseWriter, request *http.Request) {
	fields, err := decodeFields(response, request)
	if err != nil {
		writeError(response, err)
		return
	}

	created, err := router.svc.CreateUser(request.Context(), fields)
	if err != nil {
		writeError(response, err)
		return
	}

	writeJSON(response, http.StatusCreated, created)
}

// GetUsers answers with every user in insertion order.
func (router *Router) GetUsers(response http.ResponseWriter, request *http.Request) {
	users, err := router.svc.ListUsers(request.Context())
	if err != nil {
		writeError(response, err)
		return
	}

	writeJSON(response, http.StatusOK, models.ListUsersResponse{Users: users})
}

// PutUser merges the JSON body into the user named by the path.
func (router *Router) PutUser(response http.ResponseWriter, request *http.Request) {
	id := chi.URLParam(request, "id")

	fields, err := decodeFields(response, request)
	if err != nil {
		writeError(response, err)
		return
	}

	updated, err := router.svc.UpdateUser(request.Context(), id, fields)
	if err != nil {
		writeError(response, err)
		return
	}

	writeJSON(response, http.StatusOK, updated)
}

func (router *Router) DeleteUser(response http.ResponseWriter, request *http.Request) {
	id := chi.URLParam(request, "id")

	if err := router.svc.DeleteUser(request.Context(), id); err != nil {
		writeError(response, err)
		return
	}

	writeJSON(response, http.StatusOK, models.MessageResponse{Message: "User deleted successfully"})
}

// GetPing reports whether the record store is reachable.
func (router *Router) GetPing(response http.ResponseWriter, request *http.Request) {
	if err := router.svc.Ping(request.Context()); err != nil {
		writeError(response, err)
		return
	}

	writeJSON(response, http.StatusOK, models.MessageResponse{Message: "pong"})
}

var errBodyTooLarge = errors.New("request body too large")

func decodeFields(response http.ResponseWriter, request *http.Request) (models.UserFields, error) {
	var fields models.UserFields

	decoder := json.NewDecoder(http.MaxBytesReader(response, request.Body, maxBodyBytes))
	if err := decoder.Decode(&fields); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fields, errBodyTooLarge
		}
		return fields, models.NewValidationError("body", "Request body must be a JSON object")
	}

	return fields, nil
}

func writeJSON(response http.ResponseWriter, status int, payload interface{}) {
	response.Header().Set("Content-Type", "application/json")
	response.WriteHeader(status)

	if err := json.NewEncoder(response).Encode(payload); err != nil {
		logger.Log.Errorw("response encoding failed", "error", err)
	}
}

// writeError maps a failure to its status code and error envelope.
func writeError(response http.ResponseWriter, err error) {
	var validationErr *models.ValidationError

	switch {
	case errors.As(err, &validationErr):
		logger.Log.Debugw("request rejected", "error", err)
		writeJSON(response, http.StatusBadRequest, models.ErrorResponse{
			Error:   models.ErrorKindValidation,
			Message: validationErr.Error(),
			Fields:  validationErr.Fields,
		})

	case errors.Is(err, errBodyTooLarge):
		writeJSON(response, http.StatusRequestEntityTooLarge, models.ErrorResponse{
			Error:   models.ErrorKindValidation,
			Message: err.Error(),
		})

	case errors.Is(err, models.ErrNotFound):
		logger.Log.Debugw("user not found", "error", err)
		writeJSON(response, http.StatusNotFound, models.ErrorResponse{
			Error:   models.ErrorKindNotFound,
			Message: "User not found",
		})

	case errors.Is(err, models.ErrConnection):
		logger.Log.Errorw("record store unreachable", "error", err)
		writeJSON(response, http.StatusInternalServerError, models.ErrorResponse{
			Error:   models.ErrorKindConnection,
			Message: "Database connection error",
		})

	default:
		logger.Log.Errorw("request failed", "error", err)
		writeJSON(response, http.StatusInternalServerError, models.ErrorResponse{
			Error:   models.ErrorKindInternal,
			Message: "Internal server error",
		})
	}
}
