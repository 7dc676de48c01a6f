// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/bloglist/internal/platform/apperr"
	"github.com/taibuivan/bloglist/internal/platform/database/schema"
	"github.com/taibuivan/bloglist/internal/platform/dberr"
	"github.com/taibuivan/bloglist/pkg/uuid"
)

// PostgresRepository implements [Repository] on the users.account table.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL account store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// selectColumns casts uuid columns to text so they scan into plain strings.
var selectColumns = strings.Join([]string{
	schema.UserAccount.ID + "::text",
	schema.UserAccount.Username,
	schema.UserAccount.DisplayName,
	schema.UserAccount.Password,
	schema.UserAccount.BlogIDs + "::text[]",
	schema.UserAccount.CreatedAt,
	schema.UserAccount.UpdatedAt,
}, ", ")

func scanAccount(row pgx.Row) (*Account, error) {
	account := &Account{}
	err := row.Scan(
		&account.ID,
		&account.Username,
		&account.DisplayName,
		&account.PasswordHash,
		&account.BlogIDs,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if account.BlogIDs == nil {
		account.BlogIDs = []string{}
	}
	return account, nil
}

/*
Create inserts a new row into users.account.

The unique index on username is the source of truth for duplicates; its
violation surfaces as apperr.Conflict.
*/
func (repository *PostgresRepository) Create(ctx context.Context, account *Account) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $5)`,
		schema.UserAccount.Table,
		schema.UserAccount.ID, schema.UserAccount.Username, schema.UserAccount.DisplayName,
		schema.UserAccount.Password, schema.UserAccount.CreatedAt, schema.UserAccount.UpdatedAt,
	)

	now := time.Now().UTC()
	_, err := repository.pool.Exec(ctx, query,
		account.ID,
		account.Username,
		account.DisplayName,
		account.PasswordHash,
		now,
	)
	if err != nil {
		return dberr.Wrap(err, "account", apperr.MsgUsernameTaken)
	}

	account.CreatedAt = now
	account.UpdatedAt = now
	return nil
}

func (repository *PostgresRepository) FindByID(ctx context.Context, id string) (*Account, error) {
	// Token subjects are untrusted; skip the round trip for ids that cannot exist.
	if !uuid.Valid(id) {
		return nil, apperr.NotFound("account")
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		selectColumns, schema.UserAccount.Table, schema.UserAccount.ID)

	account, err := scanAccount(repository.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "account", apperr.MsgUsernameTaken)
	}
	return account, nil
}

func (repository *PostgresRepository) FindByUsername(ctx context.Context, username string) (*Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		selectColumns, schema.UserAccount.Table, schema.UserAccount.Username)

	account, err := scanAccount(repository.pool.QueryRow(ctx, query, username))
	if err != nil {
		return nil, dberr.Wrap(err, "account", apperr.MsgUsernameTaken)
	}
	return account, nil
}

func (repository *PostgresRepository) List(ctx context.Context) ([]*Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s ASC, %s ASC`,
		selectColumns, schema.UserAccount.Table, schema.UserAccount.CreatedAt, schema.UserAccount.ID)

	rows, err := repository.pool.Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, "account", apperr.MsgUsernameTaken)
	}
	defer rows.Close()

	accounts := make([]*Account, 0)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "account", apperr.MsgUsernameTaken)
		}
		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "account", apperr.MsgUsernameTaken)
	}
	return accounts, nil
}

func (repository *PostgresRepository) AppendBlog(ctx context.Context, accountID, blogID string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = array_append(%s, $2::uuid), %s = now()
		WHERE %s = $1`,
		schema.UserAccount.Table,
		schema.UserAccount.BlogIDs, schema.UserAccount.BlogIDs, schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID,
	)

	tag, err := repository.pool.Exec(ctx, query, accountID, blogID)
	if err != nil {
		return dberr.Wrap(err, "account", apperr.MsgUsernameTaken)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("account")
	}
	return nil
}
