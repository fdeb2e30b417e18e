// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrOpeningStore is returned when the database file cannot be opened or
	// migrated. The client falls back to online-only mode on this error.
	ErrOpeningStore = errors.New("offline store could not be opened")

	// ErrMutationNotFound is returned when a pending or abandoned mutation
	// id does not exist.
	ErrMutationNotFound = errors.New("mutation was not found")

	// ErrMutationAlreadyExists is returned by Add when the id is taken.
	ErrMutationAlreadyExists = errors.New("mutation already exists")

	// ErrBlobNotFound is returned when a blob key does not exist.
	ErrBlobNotFound = errors.New("blob was not found")

	// ErrResponseNotFound is returned when no cached response matches.
	ErrResponseNotFound = errors.New("cached response was not found")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a SQL query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails.
	ErrScanningRows = errors.New("failed to scan rows")
)
