// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package blog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/bloglist/internal/platform/apperr"
	"github.com/taibuivan/bloglist/internal/platform/ctxutil"
	"github.com/taibuivan/bloglist/internal/platform/metrics"
	"github.com/taibuivan/bloglist/internal/platform/sec"
	"github.com/taibuivan/bloglist/internal/platform/validate"
	"github.com/taibuivan/bloglist/pkg/uuid"
)

// # Service Layer

// Service implements the blog use cases.
type Service struct {
	repository Repository
	ledger     OwnerLedger
	directory  OwnerDirectory
}

// NewService constructs a new blog [Service].
func NewService(repository Repository, ledger OwnerLedger, directory OwnerDirectory) *Service {
	return &Service{
		repository: repository,
		ledger:     ledger,
		directory:  directory,
	}
}

// # Queries

// List returns every blog with its owner summary.
func (service *Service) List(ctx context.Context) ([]*Blog, error) {
	blogs, err := service.repository.List(ctx)
	if err != nil {
		return nil, err
	}

	if err := service.attachOwners(ctx, blogs); err != nil {
		return nil, err
	}
	return blogs, nil
}

// FindByID returns a single blog with its owner summary.
func (service *Service) FindByID(ctx context.Context, id string) (*Blog, error) {
	blog, err := service.repository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := service.attachOwners(ctx, []*Blog{blog}); err != nil {
		return nil, err
	}
	return blog, nil
}

// Stats aggregates every stored blog.
func (service *Service) Stats(ctx context.Context) (*Stats, error) {
	blogs, err := service.repository.List(ctx)
	if err != nil {
		return nil, err
	}
	return Summarize(blogs), nil
}

// attachOwners fills Owner for blogs whose store did not provide it.
// Owners that no longer exist are left empty.
func (service *Service) attachOwners(ctx context.Context, blogs []*Blog) error {
	resolved := make(map[string]*Owner)

	for _, blog := range blogs {
		if blog.Owner != nil {
			continue
		}

		owner, seen := resolved[blog.OwnerID]
		if !seen {
			identity, err := service.directory.ResolveIdentity(ctx, blog.OwnerID)
			switch {
			case err == nil:
				owner = ownerFromIdentity(identity)
			case apperr.HasCode(err, apperr.CodeNotFound):
				owner = nil
			default:
				return err
			}
			resolved[blog.OwnerID] = owner
		}

		blog.Owner = owner
	}

	return nil
}

// # Commands

// CreateInput holds the data for a new blog. A nil Likes defaults to zero.
type CreateInput struct {
	Title  string
	Author string
	URL    string
	Likes  *int
}

/*
Create stores a new blog owned by identity and records it on the owner's account.

Returns:
  - *Blog: The created blog with its owner summary
  - error: Unauthorized (anonymous), ValidationError, or storage errors
*/
func (service *Service) Create(ctx context.Context, identity *sec.Identity, input CreateInput) (*Blog, error) {
	if identity == nil {
		return nil, apperr.Unauthorized(apperr.MsgTokenInvalid)
	}

	likes := 0
	if input.Likes != nil {
		likes = *input.Likes
	}

	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).
		MaxLen(FieldTitle, input.Title, TitleMaxLen).
		MaxLen(FieldAuthor, input.Author, AuthorMaxLen).
		Required(FieldURL, input.URL).
		MaxLen(FieldURL, input.URL, URLMaxLen).
		URL(FieldURL, input.URL).
		Min(FieldLikes, likes, 0)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	blog := &Blog{
		ID:      uuid.New(),
		Title:   input.Title,
		Author:  input.Author,
		URL:     input.URL,
		Likes:   likes,
		OwnerID: identity.AccountID,
	}

	if err := service.repository.Create(ctx, blog); err != nil {
		return nil, err
	}

	if err := service.ledger.AppendBlog(ctx, identity.AccountID, blog.ID); err != nil {
		return nil, apperr.Internal(fmt.Errorf("blog_service_append_owner_failed: %w", err))
	}

	blog.Owner = ownerFromIdentity(identity)

	ctxutil.GetLogger(ctx).InfoContext(ctx, "blog_created",
		slog.String("blog_id", blog.ID),
		slog.String("owner_id", blog.OwnerID),
	)

	return blog, nil
}

/*
Delete removes a blog on behalf of its owner.

Returns:
  - error: NotFound, Unauthorized (anonymous or not the owner), or storage errors
*/
func (service *Service) Delete(ctx context.Context, identity *sec.Identity, id string) error {
	if _, err := service.authorizeOwner(ctx, identity, id, OperationDelete); err != nil {
		return err
	}

	if err := service.repository.Delete(ctx, id); err != nil {
		return err
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "blog_deleted",
		slog.String("blog_id", id),
		slog.String("account_id", identity.AccountID),
	)

	return nil
}

/*
UpdateLikes overwrites the like count of a blog on behalf of its owner.

Returns:
  - *Blog: The updated blog
  - error: NotFound, Unauthorized, ValidationError, or storage errors
*/
func (service *Service) UpdateLikes(ctx context.Context, identity *sec.Identity, id string, likes *int) (*Blog, error) {
	if _, err := service.authorizeOwner(ctx, identity, id, OperationUpdateLikes); err != nil {
		return nil, err
	}

	if likes == nil {
		return nil, validate.RequiredError(FieldLikes, "likes is required")
	}

	validator := &validate.Validator{}
	if err := validator.Min(FieldLikes, *likes, 0).Err(); err != nil {
		return nil, err
	}

	updated, err := service.repository.UpdateLikes(ctx, id, *likes)
	if err != nil {
		return nil, err
	}

	// Only the owner gets this far.
	if updated.Owner == nil {
		updated.Owner = ownerFromIdentity(identity)
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "blog_likes_updated",
		slog.String("blog_id", id),
		slog.Int("likes", updated.Likes),
	)

	return updated, nil
}

// authorizeOwner applies the mutation checks in order: existence, identity, ownership.
func (service *Service) authorizeOwner(ctx context.Context, identity *sec.Identity, id, operation string) (*Blog, error) {
	blog, err := service.repository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if identity == nil {
		return nil, apperr.Unauthorized(apperr.MsgTokenInvalid)
	}

	decision := sec.Authorize(identity, blog.OwnerID)
	metrics.OwnershipDecisionsTotal.WithLabelValues(operation, decision.String()).Inc()

	if decision != sec.Allowed {
		ctxutil.GetLogger(ctx).WarnContext(ctx, "blog_ownership_denied",
			slog.String("operation", operation),
			slog.String("blog_id", id),
			slog.String("account_id", identity.AccountID),
		)
		return nil, apperr.Unauthorized(apperr.MsgOwnershipDenied)
	}

	return blog, nil
}
