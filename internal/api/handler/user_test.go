package handler_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ipl-fantasy/roster/internal/api/handler"
	"github.com/ipl-fantasy/roster/internal/user"
)

type mockUserDirectory struct {
	loginFn func(ctx context.Context, username string) (*user.User, error)
	listFn  func(ctx context.Context) ([]user.User, error)
}

func (m *mockUserDirectory) LoginOrCreate(ctx context.Context, username string) (*user.User, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, username)
	}
	return &user.User{ID: uuid.New(), Username: username, CreatedAt: time.Now().UTC()}, nil
}

func (m *mockUserDirectory) List(ctx context.Context) ([]user.User, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []user.User{}, nil
}

func TestUserHandler_Create_ReturnsUser(t *testing.T) {
	// Arrange
	id := uuid.New()
	created := time.Date(2024, 3, 22, 18, 30, 0, 0, time.UTC)
	var gotUsername string
	dir := &mockUserDirectory{
		loginFn: func(_ context.Context, username string) (*user.User, error) {
			gotUsername = username
			return &user.User{ID: id, Username: "alice", CreatedAt: created}, nil
		},
	}
	h := handler.NewUserHandler(dir)
	req, w := makeRequest(http.MethodPost, "/users", []byte(`{"username":"alice"}`))

	// Act
	h.Create(w, req)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", gotUsername)

	env := parseEnvelope(t, w)
	assert.Nil(t, env["error"])
	data := env["data"].(map[string]interface{})
	u := data["user"].(map[string]interface{})
	assert.Equal(t, id.String(), u["id"])
	assert.Equal(t, "alice", u["username"])
	assert.Equal(t, "2024-03-22T18:30:00Z", u["createdAt"])
}

func TestUserHandler_Create_InvalidJSON(t *testing.T) {
	h := handler.NewUserHandler(&mockUserDirectory{})
	req, w := makeRequest(http.MethodPost, "/users", []byte(`{"username":`))

	h.Create(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_JSON", errorCode(t, parseEnvelope(t, w)))
}

func TestUserHandler_Create_BlankUsername(t *testing.T) {
	called := false
	dir := &mockUserDirectory{
		loginFn: func(_ context.Context, _ string) (*user.User, error) {
			called = true
			return nil, nil
		},
	}
	h := handler.NewUserHandler(dir)

	for _, body := range []string{`{}`, `{"username":""}`, `{"username":"   "}`} {
		req, w := makeRequest(http.MethodPost, "/users", []byte(body))

		h.Create(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		env := parseEnvelope(t, w)
		assert.Equal(t, "VALIDATION_ERROR", errorCode(t, env), body)
		details := env["error"].(map[string]interface{})["details"].([]interface{})
		require.Len(t, details, 1)
		assert.Equal(t, "username", details[0].(map[string]interface{})["field"])
	}
	assert.False(t, called, "directory must not be consulted for invalid input")
}

func TestUserHandler_Create_StorageFailure(t *testing.T) {
	dir := &mockUserDirectory{
		loginFn: func(_ context.Context, _ string) (*user.User, error) {
			return nil, errors.New("connection refused")
		},
	}
	h := handler.NewUserHandler(dir)
	req, w := makeRequest(http.MethodPost, "/users", []byte(`{"username":"alice"}`))

	h.Create(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	env := parseEnvelope(t, w)
	assert.Equal(t, "INTERNAL_ERROR", errorCode(t, env))
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestUserHandler_List(t *testing.T) {
	now := time.Now().UTC()
	dir := &mockUserDirectory{
		listFn: func(_ context.Context) ([]user.User, error) {
			return []user.User{
				{ID: uuid.New(), Username: "alice", CreatedAt: now},
				{ID: uuid.New(), Username: "bob", CreatedAt: now},
			}, nil
		},
	}
	h := handler.NewUserHandler(dir)
	req, w := makeRequest(http.MethodGet, "/users", nil)

	h.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	env := parseEnvelope(t, w)
	users := env["data"].(map[string]interface{})["users"].([]interface{})
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].(map[string]interface{})["username"])
	assert.Equal(t, "bob", users[1].(map[string]interface{})["username"])
	assert.Equal(t, float64(2), env["meta"].(map[string]interface{})["total"])
}

func TestUserHandler_List_Empty(t *testing.T) {
	h := handler.NewUserHandler(&mockUserDirectory{})
	req, w := makeRequest(http.MethodGet, "/users", nil)

	h.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"users":[]}`, mustField(t, w, "data"))
}

func TestUserHandler_List_Failure(t *testing.T) {
	dir := &mockUserDirectory{
		listFn: func(_ context.Context) ([]user.User, error) {
			return nil, errors.New("boom")
		},
	}
	h := handler.NewUserHandler(dir)
	req, w := makeRequest(http.MethodGet, "/users", nil)

	h.List(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "INTERNAL_ERROR", errorCode(t, parseEnvelope(t, w)))
}
