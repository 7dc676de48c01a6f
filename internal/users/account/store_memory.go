// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"sync"
	"time"

	"github.com/taibuivan/bloglist/internal/platform/apperr"
)

// MemoryRepository implements [Repository] in process memory.
//
// A single mutex guards both indexes, so the username check and the insert
// happen atomically.
type MemoryRepository struct {
	mu         sync.RWMutex
	byID       map[string]*Account
	byUsername map[string]string
	order      []string
}

// NewMemoryRepository creates an empty in-memory account store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:       make(map[string]*Account),
		byUsername: make(map[string]string),
	}
}

func (repository *MemoryRepository) Create(ctx context.Context, account *Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, taken := repository.byUsername[account.Username]; taken {
		return apperr.Conflict(apperr.MsgUsernameTaken)
	}

	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now

	repository.byID[account.ID] = account.clone()
	repository.byUsername[account.Username] = account.ID
	repository.order = append(repository.order, account.ID)

	return nil
}

func (repository *MemoryRepository) FindByID(ctx context.Context, id string) (*Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	repository.mu.RLock()
	defer repository.mu.RUnlock()

	account, ok := repository.byID[id]
	if !ok {
		return nil, apperr.NotFound("account")
	}
	return account.clone(), nil
}

func (repository *MemoryRepository) FindByUsername(ctx context.Context, username string) (*Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	repository.mu.RLock()
	defer repository.mu.RUnlock()

	id, ok := repository.byUsername[username]
	if !ok {
		return nil, apperr.NotFound("account")
	}
	return repository.byID[id].clone(), nil
}

func (repository *MemoryRepository) List(ctx context.Context) ([]*Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	repository.mu.RLock()
	defer repository.mu.RUnlock()

	accounts := make([]*Account, 0, len(repository.order))
	for _, id := range repository.order {
		accounts = append(accounts, repository.byID[id].clone())
	}
	return accounts, nil
}

func (repository *MemoryRepository) AppendBlog(ctx context.Context, accountID, blogID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	repository.mu.Lock()
	defer repository.mu.Unlock()

	account, ok := repository.byID[accountID]
	if !ok {
		return apperr.NotFound("account")
	}

	account.BlogIDs = append(account.BlogIDs, blogID)
	account.UpdatedAt = time.Now()
	return nil
}
