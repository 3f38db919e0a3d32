// Copyright (c) 2026 Pagebound. All rights reserved.

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pagebound/bookclub/internal/platform/apperr"
)

var (
	// ErrNotFound is a standard error returned when a queried row doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
//
// Classification:
//
//   - pgx.ErrNoRows                 -> NOT_FOUND
//   - SQLSTATE 23505 (unique)       -> CONFLICT (e.g. duplicate member email)
//   - SQLSTATE 23503 (foreign key)  -> UNPROCESSABLE (dangling reference)
//   - connection-class SQLSTATEs    -> STORE_UNAVAILABLE
//   - anything else                 -> INTERNAL_ERROR
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgerrcode.UniqueViolation:
			return apperr.Conflict("A record with the same unique value already exists")
		case pgErr.Code == pgerrcode.ForeignKeyViolation:
			return apperr.Unprocessable("The request references a record that does not exist")
		case pgerrcode.IsConnectionException(pgErr.Code):
			return apperr.StoreUnavailable(err)
		}
	}

	return apperr.Internal(err)
}
