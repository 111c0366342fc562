package cli

import (
	"bytes"
	"context"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/userdir/internal/client"
	"github.com/patric-chuzhbe/userdir/internal/db/memorystorage"
	"github.com/patric-chuzhbe/userdir/internal/models"
	"github.com/patric-chuzhbe/userdir/internal/router"
	"github.com/patric-chuzhbe/userdir/internal/service"
)

func setupSession(t *testing.T, seed int, input string) (*App, *bytes.Buffer, *client.APIClient) {
	t.Helper()

	db, err := memorystorage.New()
	require.NoError(t, err)
	srv := httptest.NewServer(router.New(service.New(db, nil), nil))
	t.Cleanup(srv.Close)

	api := client.NewAPIClient(srv.URL, 0)
	for i := 0; i < seed; i++ {
		data := client.FormDefaults()
		data.Name = fmt.Sprintf("User %02d", i)
		data.Email = fmt.Sprintf("u%02d@x.com", i)
		data.Gender = models.Genders[i%3]
		data.IsActive = i%2 == 0
		_, err := api.CreateUser(context.Background(), data.Fields())
		require.NoError(t, err)
	}

	out := &bytes.Buffer{}
	state := client.NewState(api, PrintNotifier(out))

	return NewApp(state, strings.NewReader(input), out, false), out, api
}

func TestSessionPagingAndFilters(t *testing.T) {
	input := strings.Join([]string{
		"next",
		"status inactive",
		"gender robot",
		"search u1",
		"exit",
	}, "\n") + "\n"
	app, out, _ := setupSession(t, 15, input)

	app.Run(context.Background())

	text := out.String()
	assert.Contains(t, text, "Page 1 of 2 (15 users)")
	assert.Contains(t, text, "Page 2 of 2 (15 users)")
	assert.Contains(t, text, "Page 1 of 1 (7 users)")
	assert.Contains(t, text, `unknown gender "robot"`)
	assert.Contains(t, text, "Page 1 of 1 (2 users)")
}

func TestSessionAddEditDelete(t *testing.T) {
	input := strings.Join([]string{
		"add",
		"Ann", "ann@x.com", "", "female", "art", "", "",
		"edit 1",
		"", "", "30", "", "", "Likes art", "",
		"delete 1",
		"n",
		"delete 1",
		"y",
		"delete 1",
		"exit",
	}, "\n") + "\n"
	app, out, api := setupSession(t, 0, input)

	app.Run(context.Background())

	text := out.String()
	assert.Contains(t, text, "No users found")
	assert.Contains(t, text, "[success] User added successfully")
	assert.Contains(t, text, "[success] User updated successfully")
	assert.Contains(t, text, "[success] User deleted successfully")
	assert.Contains(t, text, "no row 1 on this page")
	assert.Contains(t, text, "Bye!")

	users, err := api.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestSessionAddRejectedByServer(t *testing.T) {
	input := strings.Join([]string{
		"add",
		"Dup", "u00@x.com", "", "", "", "", "",
		"exit",
	}, "\n") + "\n"
	app, out, api := setupSession(t, 1, input)

	app.Run(context.Background())

	assert.Contains(t, out.String(), "[error] Failed to add user")

	users, err := api.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestSessionFormRetriesUntilValid(t *testing.T) {
	input := strings.Join([]string{
		"add",
		"", "", "", "", "", "", "",
		"Ann", "ann@x.com", "", "", "", "", "",
		"exit",
	}, "\n") + "\n"
	app, out, _ := setupSession(t, 0, input)

	app.Run(context.Background())

	assert.Contains(t, out.String(), "Name is required")
	assert.Contains(t, out.String(), "[success] User added successfully")
}

func TestRunKeepsGoingWhenServerIsDown(t *testing.T) {
	app, out, _ := setupSession(t, 0, "list\nsearch ann\nexit\n")
	app.state = client.NewState(client.NewAPIClient("http://127.0.0.1:1", 0), PrintNotifier(out))

	app.Run(context.Background())

	assert.Contains(t, out.String(), "[error] Failed to load users")
	assert.Equal(t, 3, strings.Count(out.String(), "No users found"))
}
