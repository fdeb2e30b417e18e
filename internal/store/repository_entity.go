// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-jobcrm-sync/internal/logger"
	"github.com/MKhiriev/go-jobcrm-sync/models"
)

type entityRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewEntityRepository returns the SQLite-backed cached_entities partition.
func NewEntityRepository(db *DB, logger *logger.Logger) EntityRepository {
	return &entityRepository{
		db:     db,
		logger: logger,
	}
}

func (r *entityRepository) Put(ctx context.Context, rec models.CachedEntityRecord) error {
	_, err := r.db.execRetry(ctx, upsertEntity,
		rec.ID, rec.EntityType, []byte(rec.Payload), toNanos(rec.LastModified), toNanos(rec.ExpiresAt),
	)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "entityRepository.Put").
			Str("id", rec.ID).
			Msg("failed to upsert cached entity")
		return fmt.Errorf("%w: put entity %s: %w", ErrExecutingStatement, rec.ID, err)
	}

	return nil
}

func (r *entityRepository) GetAll(ctx context.Context, filter EntityFilter) ([]models.CachedEntityRecord, error) {
	log := logger.FromContext(ctx)

	query, args, err := selectEntities(filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "entityRepository.GetAll").
			Str("entity_type", filter.EntityType).
			Msg("failed to query cached entities")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	records := make([]models.CachedEntityRecord, 0)
	for rows.Next() {
		rec, scanErr := scanEntity(rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "entityRepository.GetAll").Msg("failed to scan cached entity row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, scanErr)
		}
		records = append(records, rec)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return records, nil
}

func (r *entityRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.execRetry(ctx, deleteEntity, id); err != nil {
		return fmt.Errorf("%w: delete entity %s: %w", ErrExecutingStatement, id, err)
	}
	return nil
}

func (r *entityRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.execRetry(ctx, deleteExpiredEntities, toNanos(now))
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "entityRepository.DeleteExpired").
			Msg("failed to delete expired entities")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return n, nil
}

func (r *entityRepository) Clear(ctx context.Context) error {
	if _, err := r.db.execRetry(ctx, clearEntities); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "entityRepository.Clear").Msg("failed to clear cached entities")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}
