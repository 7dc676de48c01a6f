// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/bloglist/internal/platform/apperr"
	"github.com/taibuivan/bloglist/internal/platform/ctxutil"
	"github.com/taibuivan/bloglist/internal/platform/sec"
	"github.com/taibuivan/bloglist/internal/platform/validate"
	"github.com/taibuivan/bloglist/pkg/uuid"
)

// # Service Layer

// Service orchestrates account registration and lookups.
type Service struct {
	repository Repository
	hasher     PasswordHasher
}

// NewService constructs a new [Service] with its dependencies.
func NewService(repository Repository, hasher PasswordHasher) *Service {
	return &Service{repository: repository, hasher: hasher}
}

// # Registration

// CreateInput holds the data required to register an account.
type CreateInput struct {
	Username    string
	DisplayName string
	Password    string
}

/*
Create validates, hashes, and persists a brand new account.

Returns:
  - *Account: Created entity (hash never serialised)
  - error: ValidationError, Conflict (duplicate username) or storage errors
*/
func (service *Service) Create(ctx context.Context, input CreateInput) (*Account, error) {
	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		MinLen(FieldUsername, input.Username, UsernameMinLen).
		MaxLen(FieldUsername, input.Username, UsernameMaxLen).
		MaxLen(FieldDisplayName, input.DisplayName, DisplayNameMaxLen).
		MinLen(FieldPassword, input.Password, PasswordMinLen).
		MaxBytes(FieldPassword, input.Password, sec.MaxPasswordBytes)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	// Only the hash is ever persisted.
	hashedPassword, err := service.hasher.Hash(input.Password)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("account_service_hash_failed: %w", err))
	}

	account := &Account{
		ID:           uuid.New(),
		Username:     input.Username,
		DisplayName:  input.DisplayName,
		PasswordHash: hashedPassword,
		BlogIDs:      []string{},
	}

	if err := service.repository.Create(ctx, account); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "account_created",
		slog.String("account_id", account.ID),
		slog.String("username", account.Username),
	)

	return account, nil
}

// # Lookups

// List returns every registered account.
func (service *Service) List(ctx context.Context) ([]*Account, error) {
	return service.repository.List(ctx)
}

// FindByUsername returns the account registered under username.
func (service *Service) FindByUsername(ctx context.Context, username string) (*Account, error) {
	return service.repository.FindByUsername(ctx, username)
}

// FindByID returns the account with the given id.
func (service *Service) FindByID(ctx context.Context, id string) (*Account, error) {
	return service.repository.FindByID(ctx, id)
}

/*
ResolveIdentity turns a token subject into the live caller identity.

Returns:
  - error: apperr.NotFound when the account no longer exists
*/
func (service *Service) ResolveIdentity(ctx context.Context, accountID string) (*sec.Identity, error) {
	account, err := service.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return account.Identity(), nil
}

// AppendBlog records a newly created blog against its owner.
func (service *Service) AppendBlog(ctx context.Context, accountID, blogID string) error {
	return service.repository.AppendBlog(ctx, accountID, blogID)
}
