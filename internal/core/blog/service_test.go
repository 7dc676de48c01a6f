// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package blog_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taibuivan/bloglist/internal/core/blog"
	"github.com/taibuivan/bloglist/internal/platform/apperr"
	"github.com/taibuivan/bloglist/internal/platform/metrics"
	"github.com/taibuivan/bloglist/internal/platform/sec"
	"github.com/taibuivan/bloglist/internal/users/account"
)

type fixture struct {
	service  *blog.Service
	accounts *account.Service
	owner    *sec.Identity
	other    *sec.Identity
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	hasher, err := sec.NewHasher(bcrypt.MinCost)
	require.NoError(t, err)

	accounts := account.NewService(account.NewMemoryRepository(), hasher)
	ctx := context.Background()

	owner, err := accounts.Create(ctx, account.CreateInput{Username: "mluukkai", DisplayName: "Matti Luukkainen", Password: "salainen"})
	require.NoError(t, err)
	other, err := accounts.Create(ctx, account.CreateInput{Username: "hellas", DisplayName: "Arto Hellas", Password: "sekret"})
	require.NoError(t, err)

	return &fixture{
		service:  blog.NewService(blog.NewMemoryRepository(), accounts, accounts),
		accounts: accounts,
		owner:    owner.Identity(),
		other:    other.Identity(),
	}
}

func (f *fixture) seed(t *testing.T) *blog.Blog {
	t.Helper()
	created, err := f.service.Create(context.Background(), f.owner, blog.CreateInput{
		Title:  "React patterns",
		Author: "Michael Chan",
		URL:    "https://reactpatterns.com/",
	})
	require.NoError(t, err)
	return created
}

func intPtr(v int) *int { return &v }

func assertStatus(t *testing.T, err error, status int, message string) {
	t.Helper()
	appErr := apperr.As(err)
	require.NotNil(t, appErr, "expected AppError, got %v", err)
	assert.Equal(t, status, appErr.HTTPStatus)
	if message != "" {
		assert.Equal(t, message, appErr.Message)
	}
}

/*
TestService_Create_RecordsOwner verifies ownership, the likes default and the
account ledger update.
*/
func TestService_Create_RecordsOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created := f.seed(t)
	assert.Equal(t, 0, created.Likes)
	assert.Equal(t, f.owner.AccountID, created.OwnerID)
	require.NotNil(t, created.Owner)
	assert.Equal(t, "mluukkai", created.Owner.Username)

	owner, err := f.accounts.FindByID(ctx, f.owner.AccountID)
	require.NoError(t, err)
	assert.Equal(t, []string{created.ID}, owner.BlogIDs)

	listed, err := f.service.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.NotNil(t, listed[0].Owner)
	assert.Equal(t, "Matti Luukkainen", listed[0].Owner.Name)
}

func TestService_Create_Failures(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name     string
		identity *sec.Identity
		input    blog.CreateInput
		status   int
	}{
		{"anonymous", nil, blog.CreateInput{Title: "t", URL: "https://x.io"}, http.StatusUnauthorized},
		{"missing_title", f.owner, blog.CreateInput{URL: "https://x.io"}, http.StatusBadRequest},
		{"missing_url", f.owner, blog.CreateInput{Title: "t"}, http.StatusBadRequest},
		{"bad_url", f.owner, blog.CreateInput{Title: "t", URL: "not a url"}, http.StatusBadRequest},
		{"negative_likes", f.owner, blog.CreateInput{Title: "t", URL: "https://x.io", Likes: intPtr(-1)}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.Create(context.Background(), tt.identity, tt.input)
			assertStatus(t, err, tt.status, "")
		})
	}

	blogs, err := f.service.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, blogs)
}

/*
TestService_Delete_CheckOrder verifies existence is checked before identity,
and identity before ownership.
*/
func TestService_Delete_CheckOrder(t *testing.T) {
	f := newFixture(t)
	created := f.seed(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		identity *sec.Identity
		id       string
		status   int
		message  string
	}{
		{"unknown_id_anonymous", nil, "0190b6a4-0000-7000-8000-000000000000", http.StatusNotFound, "blog not found"},
		{"malformed_id", f.owner, "not-an-id", http.StatusNotFound, "blog not found"},
		{"anonymous", nil, created.ID, http.StatusUnauthorized, apperr.MsgTokenInvalid},
		{"not_owner", f.other, created.ID, http.StatusUnauthorized, apperr.MsgOwnershipDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.service.Delete(ctx, tt.identity, tt.id)
			assertStatus(t, err, tt.status, tt.message)
		})
	}

	allowed := metrics.OwnershipDecisionsTotal.WithLabelValues(blog.OperationDelete, sec.Allowed.String())
	before := testutil.ToFloat64(allowed)

	require.NoError(t, f.service.Delete(ctx, f.owner, created.ID))
	assert.Equal(t, before+1, testutil.ToFloat64(allowed))

	_, err := f.service.FindByID(ctx, created.ID)
	assertStatus(t, err, http.StatusNotFound, "")
}

func TestService_UpdateLikes(t *testing.T) {
	f := newFixture(t)
	created := f.seed(t)
	ctx := context.Background()

	t.Run("not_owner", func(t *testing.T) {
		_, err := f.service.UpdateLikes(ctx, f.other, created.ID, intPtr(5))
		assertStatus(t, err, http.StatusUnauthorized, apperr.MsgOwnershipDenied)
	})

	t.Run("anonymous", func(t *testing.T) {
		_, err := f.service.UpdateLikes(ctx, nil, created.ID, intPtr(5))
		assertStatus(t, err, http.StatusUnauthorized, apperr.MsgTokenInvalid)
	})

	t.Run("unknown_id", func(t *testing.T) {
		_, err := f.service.UpdateLikes(ctx, nil, "missing", intPtr(5))
		assertStatus(t, err, http.StatusNotFound, "")
	})

	t.Run("missing_likes", func(t *testing.T) {
		_, err := f.service.UpdateLikes(ctx, f.owner, created.ID, nil)
		assertStatus(t, err, http.StatusBadRequest, "")
	})

	t.Run("negative_likes", func(t *testing.T) {
		_, err := f.service.UpdateLikes(ctx, f.owner, created.ID, intPtr(-3))
		assertStatus(t, err, http.StatusBadRequest, "")
	})

	t.Run("owner", func(t *testing.T) {
		updated, err := f.service.UpdateLikes(ctx, f.owner, created.ID, intPtr(12))
		require.NoError(t, err)
		assert.Equal(t, 12, updated.Likes)
		require.NotNil(t, updated.Owner)
		assert.Equal(t, f.owner.AccountID, updated.Owner.ID)
	})

	stored, err := f.service.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, stored.Likes)
}

type failingLedger struct{}

func (failingLedger) AppendBlog(context.Context, string, string) error {
	return errors.New("ledger offline")
}

func TestService_Create_LedgerFailure(t *testing.T) {
	f := newFixture(t)
	service := blog.NewService(blog.NewMemoryRepository(), failingLedger{}, f.accounts)

	_, err := service.Create(context.Background(), f.owner, blog.CreateInput{Title: "t", URL: "https://x.io"})
	assertStatus(t, err, http.StatusInternalServerError, "")
}

/*
TestService_List_MissingOwner verifies that a vanished owner leaves the summary empty.
*/
func TestService_List_MissingOwner(t *testing.T) {
	f := newFixture(t)
	repository := blog.NewMemoryRepository()
	require.NoError(t, repository.Create(context.Background(), &blog.Blog{
		ID:      "orphan",
		Title:   "Orphan",
		URL:     "https://x.io",
		OwnerID: "gone",
	}))

	service := blog.NewService(repository, f.accounts, f.accounts)
	blogs, err := service.List(context.Background())
	require.NoError(t, err)
	require.Len(t, blogs, 1)
	assert.Nil(t, blogs[0].Owner)
}
