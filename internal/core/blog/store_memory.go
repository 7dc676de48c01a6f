// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package blog

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/taibuivan/bloglist/internal/platform/apperr"
)

// MemoryRepository is an in-process [Repository] used by tests and
// STORAGE_DRIVER=memory. Owner summaries are left to the service.
type MemoryRepository struct {
	mu    sync.RWMutex
	byID  map[string]*Blog
	order []string
}

// NewMemoryRepository creates an empty in-memory blog store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: make(map[string]*Blog)}
}

func (repository *MemoryRepository) List(_ context.Context) ([]*Blog, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	blogs := make([]*Blog, 0, len(repository.order))
	for _, id := range repository.order {
		blogs = append(blogs, repository.byID[id].clone())
	}
	return blogs, nil
}

func (repository *MemoryRepository) FindByID(_ context.Context, id string) (*Blog, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	blog, ok := repository.byID[id]
	if !ok {
		return nil, apperr.NotFound("blog")
	}
	return blog.clone(), nil
}

func (repository *MemoryRepository) Create(_ context.Context, blog *Blog) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	now := time.Now().UTC()
	blog.CreatedAt = now
	blog.UpdatedAt = now

	stored := blog.clone()
	stored.Owner = nil

	repository.byID[blog.ID] = stored
	repository.order = append(repository.order, blog.ID)
	return nil
}

func (repository *MemoryRepository) Delete(_ context.Context, id string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.byID[id]; !ok {
		return apperr.NotFound("blog")
	}

	delete(repository.byID, id)
	repository.order = slices.DeleteFunc(repository.order, func(existing string) bool { return existing == id })
	return nil
}

func (repository *MemoryRepository) UpdateLikes(_ context.Context, id string, likes int) (*Blog, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	blog, ok := repository.byID[id]
	if !ok {
		return nil, apperr.NotFound("blog")
	}

	blog.Likes = likes
	blog.UpdatedAt = time.Now().UTC()
	return blog.clone(), nil
}
