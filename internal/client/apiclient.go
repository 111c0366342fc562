package client

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/patric-chuzhbe/userdir/internal/models"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Kind       string
	Message    string
	Fields     map[string]string
}

func (e *APIError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Kind, e.Message)
	}

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}

	return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Kind, strings.Join(parts, ", "))
}

// IsNotFound reports whether the server answered 404.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// APIClient talks to the user directory server.
type APIClient struct {
	http *resty.Client
}

// NewAPIClient returns a client for baseURL. A zero timeout means none.
func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Accept", "application/json")
	if timeout > 0 {
		httpClient.SetTimeout(timeout)
	}

	return &APIClient{http: httpClient}
}

func (c *APIClient) ListUsers(ctx context.Context) ([]models.User, error) {
	var list models.ListUsersResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&list).
		SetError(&models.ErrorResponse{}).
		Get("/users")
	if err := check(resp, err); err != nil {
		return nil, err
	}

	if list.Users == nil {
		list.Users = []models.User{}
	}

	return list.Users, nil
}

func (c *APIClient) CreateUser(ctx context.Context, fields models.UserFields) (*models.User, error) {
	var created models.User

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(fields).
		SetResult(&created).
		SetError(&models.ErrorResponse{}).
		Post("/users")
	if err := check(resp, err); err != nil {
		return nil, err
	}

	return &created, nil
}

func (c *APIClient) UpdateUser(ctx context.Context, id string, fields models.UserFields) (*models.User, error) {
	var updated models.User

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetPathParam("id", id).
		SetBody(fields).
		SetResult(&updated).
		SetError(&models.ErrorResponse{}).
		Put("/users/{id}")
	if err := check(resp, err); err != nil {
		return nil, err
	}

	return &updated, nil
}

func (c *APIClient) DeleteUser(ctx context.Context, id string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", id).
		SetResult(&models.MessageResponse{}).
		SetError(&models.ErrorResponse{}).
		Delete("/users/{id}")

	return check(resp, err)
}

func check(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("in internal/client/apiclient.go/check(): request failed: %w", err)
	}

	if !resp.IsError() {
		return nil
	}

	apiErr := &APIError{StatusCode: resp.StatusCode()}
	if body, ok := resp.Error().(*models.ErrorResponse); ok && body != nil {
		apiErr.Kind = body.Error
		apiErr.Message = body.Message
		apiErr.Fields = body.Fields
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(resp.String())
	}

	return apiErr
}
