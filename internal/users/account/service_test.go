// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taibuivan/bloglist/internal/platform/apperr"
	"github.com/taibuivan/bloglist/internal/platform/sec"
	"github.com/taibuivan/bloglist/internal/users/account"
)

func newService(t *testing.T) (*account.Service, *sec.Hasher) {
	t.Helper()
	hasher, err := sec.NewHasher(bcrypt.MinCost)
	require.NoError(t, err)
	return account.NewService(account.NewMemoryRepository(), hasher), hasher
}

/*
TestService_Create_StoresOnlyHash verifies the plaintext never reaches storage.
*/
func TestService_Create_StoresOnlyHash(t *testing.T) {
	service, hasher := newService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, account.CreateInput{
		Username:    "mluukkai",
		DisplayName: "Matti Luukkainen",
		Password:    "salainen",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Empty(t, created.BlogIDs)

	stored, err := service.FindByUsername(ctx, "mluukkai")
	require.NoError(t, err)
	assert.NotEqual(t, "salainen", stored.PasswordHash)
	assert.NotContains(t, stored.PasswordHash, "salainen")
	assert.True(t, hasher.Verify("salainen", stored.PasswordHash))

	byID, err := service.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "mluukkai", byID.Username)
}

/*
TestService_Create_Validation covers the registration input rules.
*/
func TestService_Create_Validation(t *testing.T) {
	tests := []struct {
		name      string
		input     account.CreateInput
		wantField string
	}{
		{"short_password", account.CreateInput{Username: "root", Password: "pw"}, account.FieldPassword},
		{"empty_password", account.CreateInput{Username: "root", Password: ""}, account.FieldPassword},
		{"long_password", account.CreateInput{Username: "root", Password: strings.Repeat("x", 73)}, account.FieldPassword},
		{"missing_username", account.CreateInput{Username: "", Password: "salainen"}, account.FieldUsername},
		{"short_username", account.CreateInput{Username: "ro", Password: "salainen"}, account.FieldUsername},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _ := newService(t)

			_, err := service.Create(context.Background(), tt.input)
			appErr := apperr.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)
			assert.Equal(t, apperr.CodeValidation, appErr.Code)
			assert.Equal(t, tt.wantField, appErr.Details[0].Field)

			accounts, err := service.List(context.Background())
			require.NoError(t, err)
			assert.Empty(t, accounts)
		})
	}
}

func TestService_Create_DuplicateUsername(t *testing.T) {
	service, _ := newService(t)
	ctx := context.Background()

	_, err := service.Create(ctx, account.CreateInput{Username: "root", Password: "salainen"})
	require.NoError(t, err)

	_, err = service.Create(ctx, account.CreateInput{Username: "root", Password: "another"})
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperr.CodeConflict, appErr.Code)
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)
	assert.Equal(t, apperr.MsgUsernameTaken, appErr.Message)
}

/*
TestService_Create_ConcurrentSameUsername verifies exactly one registration wins.
*/
func TestService_Create_ConcurrentSameUsername(t *testing.T) {
	service, _ := newService(t)
	ctx := context.Background()

	const attempts = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.Create(ctx, account.CreateInput{Username: "racer", Password: "salainen"})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case apperr.HasCode(err, apperr.CodeConflict):
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)
}

func TestService_ResolveIdentity(t *testing.T) {
	service, _ := newService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, account.CreateInput{Username: "hellas", DisplayName: "Arto Hellas", Password: "secret"})
	require.NoError(t, err)

	identity, err := service.ResolveIdentity(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, &sec.Identity{AccountID: created.ID, Username: "hellas", DisplayName: "Arto Hellas"}, identity)

	_, err = service.ResolveIdentity(ctx, "missing")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

func TestService_AppendBlog(t *testing.T) {
	service, _ := newService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, account.CreateInput{Username: "hellas", Password: "secret"})
	require.NoError(t, err)

	require.NoError(t, service.AppendBlog(ctx, created.ID, "blog-1"))
	require.NoError(t, service.AppendBlog(ctx, created.ID, "blog-2"))

	stored, err := service.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"blog-1", "blog-2"}, stored.BlogIDs)

	assert.True(t, apperr.HasCode(service.AppendBlog(ctx, "missing", "blog-3"), apperr.CodeNotFound))
}

type failingHasher struct{}

func (failingHasher) Hash(string) (string, error) { return "", errors.New("entropy exhausted") }

func TestService_Create_HashFailure(t *testing.T) {
	service := account.NewService(account.NewMemoryRepository(), failingHasher{})

	_, err := service.Create(context.Background(), account.CreateInput{Username: "root", Password: "salainen"})
	assert.True(t, apperr.HasCode(err, apperr.CodeInternal))
}
