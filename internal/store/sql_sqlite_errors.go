// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/mattn/go-sqlite3"
)

// ErrorClassification indicates whether a failed database operation should be
// retried or abandoned.
type ErrorClassification int

const (
	// NonRetryable is the default classification for unrecognised errors,
	// constraint violations and schema errors.
	NonRetryable ErrorClassification = iota

	// Retryable indicates that the operation may succeed if attempted again,
	// typically because the other process held the write lock.
	Retryable
)

// maxBusyRetries bounds how often a write is re-run after SQLITE_BUSY.
const maxBusyRetries = 3

// ClassifySQLiteError maps a driver error to an [ErrorClassification].
//
// Retryable codes:
//   - SQLITE_BUSY   : the database file is locked by another connection
//   - SQLITE_LOCKED : a table is locked inside the same connection
//
// Any other code is [NonRetryable].
func ClassifySQLiteError(err error) ErrorClassification {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return NonRetryable
	}

	switch sqliteErr.Code {
	case sqlite3.ErrBusy, sqlite3.ErrLocked:
		return Retryable
	}

	return NonRetryable
}

// isUniqueViolation matches SQLite primary key and unique constraint errors.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}

	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

// execRetry runs a write statement and re-runs it while the error is
// [Retryable], waiting a little longer each time.
func (db *DB) execRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	var (
		res sql.Result
		err error
	)

	for attempt := 0; attempt <= maxBusyRetries; attempt++ {
		res, err = db.ExecContext(ctx, query, args...)
		if err == nil || ClassifySQLiteError(err) != Retryable {
			return res, err
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt+1) * 50 * time.Millisecond):
		}
	}

	return res, err
}
