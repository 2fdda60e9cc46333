package gateway

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskboard/api/internal/domain/entities"
	"github.com/taskboard/api/internal/infrastructure/config"
	"github.com/taskboard/api/internal/infrastructure/logger"
)

const testOrigin = "http://app.example.test"

func newTestRouter(tasks *fakeTaskRepo, users *fakeUserRepo) *Router {
	auth := newTestAuth()
	log := logger.NewNop()
	return NewRouter(
		NewTaskHandler(tasks, auth, log),
		NewUserHandler(users, auth, log),
		config.CORSConfig{AllowedOrigin: testOrigin},
		log,
	)
}

func assertCORSHeaders(t *testing.T, headers map[string]string) {
	t.Helper()

	assert.Equal(t, testOrigin, headers["Access-Control-Allow-Origin"])
	assert.Equal(t, "GET, POST, PUT, DELETE, OPTIONS", headers["Access-Control-Allow-Methods"])
	assert.Equal(t, "Content-Type, Authorization, Cookie", headers["Access-Control-Allow-Headers"])
	assert.Equal(t, "true", headers["Access-Control-Allow-Credentials"])
}

func TestDispatchPreflight(t *testing.T) {
	router := newTestRouter(newFakeTaskRepo(), newFakeUserRepo())

	resp := router.Dispatch(context.Background(), Request{HTTPMethod: http.MethodOptions})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Body)
	assertCORSHeaders(t, resp.Headers)
}

func TestDispatchPreflightBypassesHandlers(t *testing.T) {
	tasks := newFakeTaskRepo()
	router := newTestRouter(tasks, newFakeUserRepo())

	router.Dispatch(context.Background(), Request{
		HTTPMethod: http.MethodOptions,
		Resource:   "/tasks",
	})

	assert.Zero(t, tasks.calls, "preflight must not reach persistence")
}

func TestDispatchUnknownRoute(t *testing.T) {
	router := newTestRouter(newFakeTaskRepo(), newFakeUserRepo())

	tests := []struct {
		name     string
		method   string
		resource string
	}{
		{"unknown path", http.MethodGet, "/invalid"},
		{"unknown method on known path", http.MethodPatch, "/tasks"},
		{"login with wrong method", http.MethodGet, "/users/login"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := router.Dispatch(context.Background(), Request{
				HTTPMethod: tt.method,
				Resource:   tt.resource,
			})

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, "Route or method not valid", decodeMessage(t, resp.Body)["message"])
			assertCORSHeaders(t, resp.Headers)
		})
	}
}

func TestDispatchMissingTokenShortCircuits(t *testing.T) {
	tasks := newFakeTaskRepo()
	users := newFakeUserRepo()
	router := newTestRouter(tasks, users)

	gated := []struct {
		method   string
		resource string
	}{
		{http.MethodGet, "/tasks"},
		{http.MethodPost, "/tasks"},
		{http.MethodPut, "/tasks"},
		{http.MethodDelete, "/tasks"},
		{http.MethodGet, "/users"},
		{http.MethodPost, "/users"},
		{http.MethodPut, "/users"},
		{http.MethodDelete, "/users"},
	}

	for _, rt := range gated {
		resp := router.Dispatch(context.Background(), Request{
			HTTPMethod: rt.method,
			Resource:   rt.resource,
		})

		require.Equal(t, http.StatusUnauthorized, resp.StatusCode, "%s %s", rt.method, rt.resource)
		assert.Equal(t, "Authorization token is required", decodeMessage(t, resp.Body)["message"])
		assertCORSHeaders(t, resp.Headers)
	}

	assert.Zero(t, tasks.calls, "no persistence call may happen without a credential")
	assert.Zero(t, users.calls, "no persistence call may happen without a credential")
}

func TestDispatchMergesCORSIntoErrorResponses(t *testing.T) {
	tasks := newFakeTaskRepo()
	tasks.err = errors.New("connection reset")
	router := newTestRouter(tasks, newFakeUserRepo())
	auth := newTestAuth()

	resp := router.Dispatch(context.Background(), Request{
		HTTPMethod: http.MethodGet,
		Resource:   "/tasks",
		Headers:    authedHeaders(t, auth),
	})

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assertCORSHeaders(t, resp.Headers)
}

func TestDispatchMergesCORSIntoLoginResponse(t *testing.T) {
	users := newFakeUserRepo()
	router := newTestRouter(newFakeTaskRepo(), users)

	// Handler already sets a Set-Cookie header; CORS must merge, not replace.
	auth := newTestAuth()
	hash, err := auth.HashPassword("hunter2")
	require.NoError(t, err)
	users.byEmail["a@b.test"] = &entities.User{ID: "u1", Email: "a@b.test", Password: hash}

	resp := router.Dispatch(context.Background(), Request{
		HTTPMethod: http.MethodPost,
		Resource:   "/users/login",
		Body:       `{"email":"a@b.test","password":"hunter2"}`,
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Headers["Set-Cookie"], "token=")
	assertCORSHeaders(t, resp.Headers)
}
