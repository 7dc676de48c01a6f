// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/bloglist/internal/platform/apperr"
)

// SQLSTATE codes the stores care about.
const (
	UniqueViolation     = "23505"
	ForeignKeyViolation = "23503"
	InvalidTextRepr     = "22P02"
	CheckViolation      = "23514"
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
//
// resource names the entity for NOT_FOUND messages ("blog" gives "blog not found").
// conflictMsg is the client message used for unique violations.
func Wrap(err error, resource, conflictMsg string) error {
	if err == nil {
		return nil
	}

	// Already classified further down the stack.
	if apperr.IsAppError(err) {
		return err
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource).WithCause(err)
	}

	// 2. Constraint and input mapping
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case UniqueViolation:
			return apperr.Conflict(conflictMsg).WithCause(err)
		case ForeignKeyViolation, InvalidTextRepr:
			return apperr.NotFound(resource).WithCause(err)
		case CheckViolation:
			return apperr.ValidationError(resource + " violates a constraint").WithCause(err)
		}
	}

	// 3. Unknown query errors become Internal Server Errors
	return apperr.Internal(err)
}
