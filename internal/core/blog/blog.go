// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package blog owns the blog resource: listing, creation, owner-only mutation and
aggregate statistics.

# Authorization

Reads are public. Creation needs a resolved identity. Deletion and like updates
follow a fixed order: existence (404), identity (401), ownership (401).
*/
package blog

import (
	"context"
	"time"

	"github.com/taibuivan/bloglist/internal/platform/sec"
)

// # Field Identifiers

const (
	FieldTitle  = "title"
	FieldAuthor = "author"
	FieldURL    = "url"
	FieldLikes  = "likes"
)

// # Limits

const (
	TitleMaxLen  = 256
	AuthorMaxLen = 128
	URLMaxLen    = 2048
)

// Operation labels used for ownership metrics and logs.
const (
	OperationDelete      = "delete"
	OperationUpdateLikes = "update_likes"
)

// # Domain Entities

// Blog is a bookmarked article owned by the account that created it.
type Blog struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	URL       string    `json:"url"`
	Likes     int       `json:"likes"`
	OwnerID   string    `json:"-"`
	Owner     *Owner    `json:"user,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

// Owner is the public summary of the account that created a blog.
type Owner struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

func ownerFromIdentity(identity *sec.Identity) *Owner {
	return &Owner{
		ID:       identity.AccountID,
		Username: identity.Username,
		Name:     identity.DisplayName,
	}
}

func (b *Blog) clone() *Blog {
	copied := *b
	if b.Owner != nil {
		owner := *b.Owner
		copied.Owner = &owner
	}
	return &copied
}

// # Persistence Contracts

// Repository defines persistence operations for blogs.
type Repository interface {
	// List returns every blog in creation order.
	List(ctx context.Context) ([]*Blog, error)

	// FindByID returns apperr.NotFound for unknown or malformed ids.
	FindByID(ctx context.Context, id string) (*Blog, error)

	Create(ctx context.Context, blog *Blog) error

	// Delete returns apperr.NotFound when nothing was removed.
	Delete(ctx context.Context, id string) error

	// UpdateLikes overwrites the like count and returns the stored blog.
	UpdateLikes(ctx context.Context, id string, likes int) (*Blog, error)
}

// OwnerLedger records blog ids against their owning account.
type OwnerLedger interface {
	AppendBlog(ctx context.Context, accountID, blogID string) error
}

// OwnerDirectory resolves owner summaries for stores that do not join them.
type OwnerDirectory interface {
	ResolveIdentity(ctx context.Context, accountID string) (*sec.Identity, error)
}
