// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account implements the credential store: registered accounts, their
password hashes and the blogs they own.

# Architecture

  - Entities: Account.
  - Repository: Postgres for production, in-memory for tests and local runs.
  - Service: Registration (validation plus hashing), lookups and identity resolution.

Username uniqueness is a storage guarantee, so concurrent registrations with
the same username produce exactly one account.
*/
package account

import (
	"context"
	"slices"
	"time"

	"github.com/taibuivan/bloglist/internal/platform/sec"
)

// # Domain Entities

// Account represents a registered user of the bloglist.
type Account struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"name"`
	PasswordHash string    `json:"-"` // Explicitly omitted from JSON for security.
	BlogIDs      []string  `json:"blogs"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"-"`
}

// Identity projects the account onto the request-scoped caller identity.
func (a *Account) Identity() *sec.Identity {
	return &sec.Identity{
		AccountID:   a.ID,
		Username:    a.Username,
		DisplayName: a.DisplayName,
	}
}

// clone returns a deep copy so callers never share the BlogIDs backing array.
func (a *Account) clone() *Account {
	copied := *a
	copied.BlogIDs = slices.Clone(a.BlogIDs)
	if copied.BlogIDs == nil {
		copied.BlogIDs = []string{}
	}
	return &copied
}

// # Field Identifiers

const (
	FieldUsername    = "username"
	FieldPassword    = "password"
	FieldDisplayName = "name"
)

// # Validation Limits

const (
	UsernameMinLen    = 3
	UsernameMaxLen    = 64
	DisplayNameMaxLen = 128
	PasswordMinLen    = 3
)

// # Repository Contracts

// Repository defines the data access contract for accounts.
type Repository interface {

	/*
		Create persists a brand-new account.

		Returns:
		  - error: apperr.Conflict when the username is already taken
	*/
	Create(ctx context.Context, account *Account) error

	/*
		FindByID returns the account with the given ID.

		Returns:
		  - error: apperr.NotFound when absent (including malformed ids)
	*/
	FindByID(ctx context.Context, id string) (*Account, error)

	/*
		FindByUsername returns the account with the given username.

		Returns:
		  - error: apperr.NotFound when absent
	*/
	FindByUsername(ctx context.Context, username string) (*Account, error)

	// List returns every account ordered by creation.
	List(ctx context.Context) ([]*Account, error)

	/*
		AppendBlog records blogID as owned by accountID.

		Returns:
		  - error: apperr.NotFound when the account is absent
	*/
	AppendBlog(ctx context.Context, accountID, blogID string) error
}

// PasswordHasher is the subset of [sec.Hasher] the service needs.
type PasswordHasher interface {
	Hash(plainTextPassword string) (string, error)
}
