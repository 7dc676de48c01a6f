// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bloglist/internal/users/account"
)

func TestHandler_CreateAndList(t *testing.T) {
	service, _ := newService(t)
	router := account.NewHandler(service).Routes()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/",
		strings.NewReader(`{"username":"mluukkai","name":"Matti Luukkainen","password":"salainen"}`)))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.Equal(t, "mluukkai", created["username"])
	assert.Equal(t, "Matti Luukkainen", created["name"])
	assert.NotContains(t, created, "passwordHash")
	assert.NotContains(t, created, "PasswordHash")
	assert.Equal(t, []any{}, created["blogs"])

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var listed []map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&listed))
	require.Len(t, listed, 1)
	assert.Equal(t, created["id"], listed[0]["id"])
	assert.NotContains(t, rec.Body.String(), "salainen")
}

func TestHandler_CreateFailures(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"malformed_json", `{"username":`, "invalid JSON payload"},
		{"short_password", `{"username":"root","password":"pw"}`, "password must be at least 3 characters long"},
		{"short_username", `{"username":"ro","password":"salainen"}`, "username must be at least 3 characters long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _ := newService(t)
			router := account.NewHandler(service).Routes()

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body)))
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var body map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantMsg, body["error"])
		})
	}
}

func TestHandler_DuplicateUsername(t *testing.T) {
	service, _ := newService(t)
	router := account.NewHandler(service).Routes()
	payload := `{"username":"root","name":"Superuser","password":"salainen"}`

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload)))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "expected `username` to be unique")
}
