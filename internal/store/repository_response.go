// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/MKhiriev/go-jobcrm-sync/internal/logger"
	"github.com/MKhiriev/go-jobcrm-sync/models"
)

type responseCache struct {
	db     *DB
	logger *logger.Logger
	now    func() time.Time
}

// NewResponseCache returns the SQLite-backed response cache.
func NewResponseCache(db *DB, logger *logger.Logger) ResponseCache {
	return &responseCache{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

func (c *responseCache) EnsurePartition(ctx context.Context, name string) error {
	if _, err := c.db.execRetry(ctx, ensurePartition, name, toNanos(c.now())); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "responseCache.EnsurePartition").
			Str("partition", name).
			Msg("failed to create cache partition")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

func (c *responseCache) Partitions(ctx context.Context) ([]models.CachePartition, error) {
	rows, err := c.db.QueryContext(ctx, getPartitions)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	partitions := make([]models.CachePartition, 0)
	for rows.Next() {
		var (
			p         models.CachePartition
			createdAt int64
		)
		if err := rows.Scan(&p.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		p.CreatedAt = fromNanos(createdAt)
		partitions = append(partitions, p)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return partitions, nil
}

func (c *responseCache) DeletePartition(ctx context.Context, name string) error {
	log := logger.FromContext(ctx)

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "responseCache.DeletePartition").Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.ExecContext(ctx, deletePartitionResponses, name); err != nil {
		log.Err(err).
			Str("func", "responseCache.DeletePartition").
			Str("partition", name).
			Msg("failed to delete partition responses")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if _, err = tx.ExecContext(ctx, deletePartition, name); err != nil {
		log.Err(err).
			Str("func", "responseCache.DeletePartition").
			Str("partition", name).
			Msg("failed to delete partition")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}

func (c *responseCache) Put(ctx context.Context, resp models.CachedResponse) error {
	header, err := json.Marshal(resp.Header)
	if err != nil {
		return fmt.Errorf("encode cached header: %w", err)
	}

	storedAt := resp.StoredAt
	if storedAt.IsZero() {
		storedAt = c.now()
	}

	body := resp.Body
	if body == nil {
		body = []byte{}
	}

	// the partition row must exist before responses reference it
	if err = c.EnsurePartition(ctx, resp.Partition); err != nil {
		return err
	}

	_, err = c.db.execRetry(ctx, upsertResponse,
		resp.Partition, resp.Key, resp.Status, header, body, toNanos(storedAt),
	)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "responseCache.Put").
			Str("partition", resp.Partition).
			Str("key", resp.Key).
			Msg("failed to store cached response")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (c *responseCache) Get(ctx context.Context, partition, key string) (models.CachedResponse, error) {
	return c.scanResponse(ctx, c.db.QueryRowContext(ctx, getResponse, partition, key), key)
}

func (c *responseCache) scanResponse(ctx context.Context, row *sql.Row, key string) (models.CachedResponse, error) {
	var (
		resp     models.CachedResponse
		header   []byte
		storedAt int64
	)

	err := row.Scan(&resp.Partition, &resp.Key, &resp.Status, &header, &resp.Body, &storedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.CachedResponse{}, fmt.Errorf("%w: %s", ErrResponseNotFound, key)
		}
		logger.FromContext(ctx).Err(err).
			Str("func", "responseCache.scanResponse").
			Str("key", key).
			Msg("failed to read cached response")
		return models.CachedResponse{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	resp.Header = make(http.Header)
	if len(header) > 0 {
		if err := json.Unmarshal(header, &resp.Header); err != nil {
			return models.CachedResponse{}, fmt.Errorf("decode cached header: %w", err)
		}
	}
	resp.StoredAt = fromNanos(storedAt)

	return resp, nil
}
