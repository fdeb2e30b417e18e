// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-jobcrm-sync/internal/logger"
)

// BlobActiveVersion holds the shell version the worker currently serves.
const BlobActiveVersion = "worker:active-version"

type blobRepository struct {
	db     *DB
	logger *logger.Logger
	now    func() time.Time
}

// NewBlobRepository returns the SQLite-backed blobs partition.
func NewBlobRepository(db *DB, logger *logger.Logger) BlobRepository {
	return &blobRepository{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

func (r *blobRepository) Put(ctx context.Context, key string, value []byte) error {
	if _, err := r.db.execRetry(ctx, upsertBlob, key, value, toNanos(r.now())); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "blobRepository.Put").Str("key", key).Msg("failed to store blob")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

func (r *blobRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	if err := r.db.QueryRowContext(ctx, getBlob, key).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrBlobNotFound, key)
		}
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return value, nil
}

func (r *blobRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.execRetry(ctx, deleteBlob, key); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}
