// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bloglist/internal/platform/apperr"
	"github.com/taibuivan/bloglist/internal/platform/ctxutil"
	"github.com/taibuivan/bloglist/internal/platform/middleware"
	"github.com/taibuivan/bloglist/internal/platform/sec"
)

type fakeResolver struct {
	accounts map[string]*sec.Identity
	err      error
	calls    int
}

func (f *fakeResolver) ResolveIdentity(_ context.Context, accountID string) (*sec.Identity, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	identity, ok := f.accounts[accountID]
	if !ok {
		return nil, apperr.NotFound("account")
	}
	return identity, nil
}

type handlerProbe struct {
	called   bool
	identity *sec.Identity
}

func (p *handlerProbe) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.called = true
	p.identity = ctxutil.GetIdentity(r.Context())
	w.WriteHeader(http.StatusOK)
}

func newTokens(t *testing.T) *sec.TokenService {
	t.Helper()
	tokens, err := sec.NewTokenService("middleware-secret", "bloglist-test", time.Hour)
	require.NoError(t, err)
	return tokens
}

/*
TestAuthenticate_StateMachine drives every terminal state of the identity stage.
*/
func TestAuthenticate_StateMachine(t *testing.T) {
	tokens := newTokens(t)
	alice := &sec.Identity{AccountID: "alice-id", Username: "alice", DisplayName: "Alice"}

	aliceToken, err := tokens.Issue("alice-id", "alice")
	require.NoError(t, err)
	ghostToken, err := tokens.Issue("ghost-id", "ghost")
	require.NoError(t, err)

	expired, err := sec.NewTokenService("middleware-secret", "bloglist-test", -time.Minute)
	require.NoError(t, err)
	expiredToken, err := expired.Issue("alice-id", "alice")
	require.NoError(t, err)

	tests := []struct {
		name         string
		header       string
		wantStatus   int
		wantCalled   bool
		wantIdentity *sec.Identity
	}{
		{"no_header", "", http.StatusOK, true, nil},
		{"basic_scheme", "Basic dXNlcjpwYXNz", http.StatusOK, true, nil},
		{"bearer_without_token", "Bearer ", http.StatusOK, true, nil},
		{"valid_token", "Bearer " + aliceToken, http.StatusOK, true, alice},
		{"lowercase_scheme", "bearer " + aliceToken, http.StatusOK, true, alice},
		{"garbage_token", "Bearer not.a.token", http.StatusUnauthorized, false, nil},
		{"expired_token", "Bearer " + expiredToken, http.StatusUnauthorized, false, nil},
		{"deleted_account", "Bearer " + ghostToken, http.StatusUnauthorized, false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := &fakeResolver{accounts: map[string]*sec.Identity{"alice-id": alice}}
			probe := &handlerProbe{}
			handler := middleware.Authenticate(tokens, resolver)(probe)

			req := httptest.NewRequest(http.MethodGet, "/api/blogs", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCalled, probe.called)
			assert.Equal(t, tt.wantIdentity, probe.identity)

			if tt.wantStatus == http.StatusUnauthorized {
				var body map[string]any
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
				assert.Equal(t, apperr.MsgTokenInvalid, body["error"])
			}
		})
	}
}

/*
TestAuthenticate_ResolverFailure verifies that store outages surface as 500, not 401.
*/
func TestAuthenticate_ResolverFailure(t *testing.T) {
	tokens := newTokens(t)
	token, err := tokens.Issue("alice-id", "alice")
	require.NoError(t, err)

	resolver := &fakeResolver{err: errors.New("connection refused")}
	probe := &handlerProbe{}
	handler := middleware.Authenticate(tokens, resolver)(probe)

	req := httptest.NewRequest(http.MethodGet, "/api/blogs", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, probe.called)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestAuthenticate_AnonymousSkipsResolver(t *testing.T) {
	resolver := &fakeResolver{}
	handler := middleware.Authenticate(newTokens(t), resolver)(&handlerProbe{})

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Zero(t, resolver.calls)
}

func TestRequireAuth(t *testing.T) {
	probe := &handlerProbe{}
	handler := middleware.RequireAuth(probe)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/blogs", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, probe.called)

	req := httptest.NewRequest(http.MethodPost, "/api/blogs", nil)
	req = req.WithContext(ctxutil.WithIdentity(req.Context(), &sec.Identity{AccountID: "x"}))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, probe.called)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"BEARER abc", "abc", true},
		{"Bearer   abc  ", "abc", true},
		{"Bearerabc", "", false},
		{"Token abc", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", tt.header)

		got, ok := middleware.BearerToken(req)
		assert.Equal(t, tt.ok, ok, tt.header)
		assert.Equal(t, tt.want, got, tt.header)
	}
}
