// Copyright (c) 2026 CodeLearn. All rights reserved.
// Author: platform@codelearn.dev

package auth_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codelearn/codelearn-api/internal/platform/middleware"
	"github.com/codelearn/codelearn-api/internal/platform/sec"
	"github.com/codelearn/codelearn-api/internal/users/auth"
)

// newTestRouter builds the auth routes behind the real token middleware, the
// same chain the server assembles.
func newTestRouter(t *testing.T) (*chi.Mux, *memUserRepository) {
	t.Helper()

	tokenService, err := sec.NewTokenService("http-test-secret", "codelearn.dev", time.Hour)
	require.NoError(t, err)

	repository := newMemUserRepository()
	service := auth.NewService(repository, tokenService)
	handler := auth.NewHandler(service, tokenService)

	publicPrefixes := []string{"/api/v1/auth/login", "/api/v1/auth/register", "/api/v1/auth/validate"}

	router := chi.NewRouter()
	router.Use(middleware.Authenticate(tokenService, publicPrefixes))
	router.Mount("/api/v1/auth", handler.Routes())
	return router, repository
}

func postJSON(t *testing.T, router http.Handler, path string, payload map[string]any, token string) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	request := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func getWithToken(t *testing.T, router http.Handler, path, token string) *httptest.ResponseRecorder {
	t.Helper()

	request := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func decodeData(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var envelope struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	return envelope.Data
}

/*
TestAuthFlow_RegisterLoginMe exercises the full lifecycle: register, login,
then use the issued token against the protected /me endpoint.
*/
func TestAuthFlow_RegisterLoginMe(t *testing.T) {
	router, _ := newTestRouter(t)

	// Register
	registered := postJSON(t, router, "/api/v1/auth/register", map[string]any{
		"username": "alice",
		"email":    "alice@codelearn.dev",
		"password": "secret123",
	}, "")
	require.Equal(t, http.StatusCreated, registered.Code, registered.Body.String())

	registeredUser := decodeData(t, registered)
	assert.Equal(t, "alice", registeredUser["username"])
	assert.Equal(t, "user", registeredUser["role"])
	assert.NotContains(t, registered.Body.String(), "secret123")

	// Login
	loggedIn := postJSON(t, router, "/api/v1/auth/login", map[string]any{
		"username": "alice",
		"password": "secret123",
	}, "")
	require.Equal(t, http.StatusOK, loggedIn.Code, loggedIn.Body.String())

	session := decodeData(t, loggedIn)
	token, _ := session["access_token"].(string)
	require.NotEmpty(t, token)
	assert.Equal(t, "Bearer", session["token_type"])
	assert.Equal(t, float64(3600), session["expires_in"])

	// Authenticated read
	me := getWithToken(t, router, "/api/v1/auth/me", token)
	require.Equal(t, http.StatusOK, me.Code, me.Body.String())
	assert.Equal(t, "alice", decodeData(t, me)["username"])

	// Anonymous read is rejected
	anonymous := getWithToken(t, router, "/api/v1/auth/me", "")
	assert.Equal(t, http.StatusUnauthorized, anonymous.Code)
}

/*
TestAuthFlow_RegisterConflict returns 409 with the conflict envelope.
*/
func TestAuthFlow_RegisterConflict(t *testing.T) {
	router, _ := newTestRouter(t)

	first := postJSON(t, router, "/api/v1/auth/register", map[string]any{
		"username": "alice",
		"email":    "alice@codelearn.dev",
		"password": "secret123",
	}, "")
	require.Equal(t, http.StatusCreated, first.Code)

	second := postJSON(t, router, "/api/v1/auth/register", map[string]any{
		"username": "alice",
		"email":    "other@codelearn.dev",
		"password": "secret123",
	}, "")

	assert.Equal(t, http.StatusConflict, second.Code)
	assert.Contains(t, second.Body.String(), "CONFLICT")
}

/*
TestAuthFlow_RegisterValidation rejects bad input before the service runs.
*/
func TestAuthFlow_RegisterValidation(t *testing.T) {
	router, repository := newTestRouter(t)

	recorder := postJSON(t, router, "/api/v1/auth/register", map[string]any{
		"username": "al",
		"email":    "not-an-email",
		"password": "123",
	}, "")

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "VALIDATION_ERROR")
	assert.Empty(t, repository.users, "invalid input must never reach the store")
}

/*
TestAuthFlow_LoginFailures maps credential failures to 400 with stable codes.
*/
func TestAuthFlow_LoginFailures(t *testing.T) {
	router, repository := newTestRouter(t)
	account := seedAccount(t, repository, "alice", "secret123", auth.StatusActive)

	t.Run("unknown_user", func(t *testing.T) {
		recorder := postJSON(t, router, "/api/v1/auth/login", map[string]any{
			"username": "nobody",
			"password": "secret123",
		}, "")
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "INVALID_CREDENTIALS")
	})

	t.Run("wrong_password", func(t *testing.T) {
		recorder := postJSON(t, router, "/api/v1/auth/login", map[string]any{
			"username": "alice",
			"password": "wrong",
		}, "")
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "INVALID_CREDENTIALS")
	})

	t.Run("disabled_account", func(t *testing.T) {
		require.NoError(t, repository.SetStatus(context.Background(), account.ID, auth.StatusDisabled))

		recorder := postJSON(t, router, "/api/v1/auth/login", map[string]any{
			"username": "alice",
			"password": "secret123",
		}, "")
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "ACCOUNT_DISABLED")
	})
}

/*
TestAuthFlow_ValidateEndpoint introspects tokens without requiring auth context.
*/
func TestAuthFlow_ValidateEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	registered := postJSON(t, router, "/api/v1/auth/register", map[string]any{
		"username": "alice",
		"email":    "alice@codelearn.dev",
		"password": "secret123",
	}, "")
	require.Equal(t, http.StatusCreated, registered.Code)

	loggedIn := postJSON(t, router, "/api/v1/auth/login", map[string]any{
		"username": "alice",
		"password": "secret123",
	}, "")
	token, _ := decodeData(t, loggedIn)["access_token"].(string)
	require.NotEmpty(t, token)

	t.Run("valid_token", func(t *testing.T) {
		recorder := getWithToken(t, router, "/api/v1/auth/validate", token)
		require.Equal(t, http.StatusOK, recorder.Code)

		data := decodeData(t, recorder)
		assert.Equal(t, true, data["valid"])
		assert.Equal(t, "alice", data["username"])
	})

	t.Run("forged_token", func(t *testing.T) {
		recorder := getWithToken(t, router, "/api/v1/auth/validate", token+"tampered")
		require.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, false, decodeData(t, recorder)["valid"])
	})

	t.Run("missing_header", func(t *testing.T) {
		recorder := getWithToken(t, router, "/api/v1/auth/validate", "")
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

/*
TestAuthFlow_Logout is a stateless acknowledgement behind the auth gate.
*/
func TestAuthFlow_Logout(t *testing.T) {
	router, _ := newTestRouter(t)

	registered := postJSON(t, router, "/api/v1/auth/register", map[string]any{
		"username": "alice",
		"email":    "alice@codelearn.dev",
		"password": "secret123",
	}, "")
	require.Equal(t, http.StatusCreated, registered.Code)

	loggedIn := postJSON(t, router, "/api/v1/auth/login", map[string]any{
		"username": "alice",
		"password": "secret123",
	}, "")
	token, _ := decodeData(t, loggedIn)["access_token"].(string)

	recorder := postJSON(t, router, "/api/v1/auth/logout", map[string]any{}, token)
	assert.Equal(t, http.StatusOK, recorder.Code)

	// The token remains valid afterwards: expiry is the only revocation.
	me := getWithToken(t, router, "/api/v1/auth/me", token)
	assert.Equal(t, http.StatusOK, me.Code)

	anonymous := postJSON(t, router, "/api/v1/auth/logout", map[string]any{}, "")
	assert.Equal(t, http.StatusUnauthorized, anonymous.Code)
}
