// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package blog

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

// PostgresRepository implements [Repository] on core.blog, joining the owner
// summary from users.account.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL blog store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const (
	blogAlias  = "b"
	ownerAlias = "a"
)

func col(alias, column string) string { return alias + "." + column }

var selectColumns = strings.Join([]string{
	col(blogAlias, schema.CoreBlog.ID) + "::text",
	col(blogAlias, schema.CoreBlog.Title),
	col(blogAlias, schema.CoreBlog.Author),
	col(blogAlias, schema.CoreBlog.URL),
	col(blogAlias, schema.CoreBlog.Likes),
	col(blogAlias, schema.CoreBlog.OwnerID) + "::text",
	col(blogAlias, schema.CoreBlog.CreatedAt),
	col(blogAlias, schema.CoreBlog.UpdatedAt),
	col(ownerAlias, schema.UserAccount.Username),
	col(ownerAlias, schema.UserAccount.DisplayName),
}, ", ")

var fromJoined = fmt.Sprintf("%s %s JOIN %s %s ON %s = %s",
	schema.CoreBlog.Table, blogAlias,
	schema.UserAccount.Table, ownerAlias,
	col(ownerAlias, schema.UserAccount.ID), col(blogAlias, schema.CoreBlog.OwnerID),
)

func scanBlog(row pgx.Row) (*Blog, error) {
	blog := &Blog{Owner: &Owner{}}
	err := row.Scan(
		&blog.ID,
		&blog.Title,
		&blog.Author,
		&blog.URL,
		&blog.Likes,
		&blog.OwnerID,
		&blog.CreatedAt,
		&blog.UpdatedAt,
		&blog.Owner.Username,
		&blog.Owner.Name,
	)
	if err != nil {
		return nil, err
	}
	blog.Owner.ID = blog.OwnerID
	return blog, nil
}

func (repository *PostgresRepository) List(ctx context.Context) ([]*Blog, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s ASC, %s ASC`,
		selectColumns, fromJoined,
		col(blogAlias, schema.CoreBlog.CreatedAt), col(blogAlias, schema.CoreBlog.ID))

	rows, err := repository.pool.Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, "blog", "")
	}
	defer rows.Close()

	blogs := make([]*Blog, 0)
	for rows.Next() {
		blog, err := scanBlog(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "blog", "")
		}
		blogs = append(blogs, blog)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "blog", "")
	}
	return blogs, nil
}

func (repository *PostgresRepository) FindByID(ctx context.Context, id string) (*Blog, error) {
	if !uuid.Valid(id) {
		return nil, apperr.NotFound("blog")
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		selectColumns, fromJoined, col(blogAlias, schema.CoreBlog.ID))

	blog, err := scanBlog(repository.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "blog", "")
	}
	return blog, nil
}

/*
Create inserts a new row into core.blog.

A missing owner violates the foreign key and surfaces as apperr.NotFound.
*/
func (repository *PostgresRepository) Create(ctx context.Context, blog *Blog) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`,
		schema.CoreBlog.Table,
		schema.CoreBlog.ID, schema.CoreBlog.Title, schema.CoreBlog.Author, schema.CoreBlog.URL,
		schema.CoreBlog.Likes, schema.CoreBlog.OwnerID, schema.CoreBlog.CreatedAt, schema.CoreBlog.UpdatedAt,
	)

	now := time.Now().UTC()
	_, err := repository.pool.Exec(ctx, query,
		blog.ID,
		blog.Title,
		blog.Author,
		blog.URL,
		blog.Likes,
		blog.OwnerID,
		now,
	)
	if err != nil {
		return dberr.Wrap(err, "blog", "")
	}

	blog.CreatedAt = now
	blog.UpdatedAt = now
	return nil
}

func (repository *PostgresRepository) Delete(ctx context.Context, id string) error {
	if !uuid.Valid(id) {
		return apperr.NotFound("blog")
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CoreBlog.Table, schema.CoreBlog.ID)

	tag, err := repository.pool.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "blog", "")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("blog")
	}
	return nil
}

func (repository *PostgresRepository) UpdateLikes(ctx context.Context, id string, likes int) (*Blog, error) {
	if !uuid.Valid(id) {
		return nil, apperr.NotFound("blog")
	}

	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = now() WHERE %s = $1`,
		schema.CoreBlog.Table, schema.CoreBlog.Likes, schema.CoreBlog.UpdatedAt, schema.CoreBlog.ID)

	tag, err := repository.pool.Exec(ctx, query, id, likes)
	if err != nil {
		return nil, dberr.Wrap(err, "blog", "")
	}
	if tag.RowsAffected() == 0 {
		return nil, apperr.NotFound("blog")
	}

	return repository.FindByID(ctx, id)
}
