// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-jobcrm-sync/internal/logger"
	"github.com/MKhiriev/go-jobcrm-sync/models"
)

type abandonedRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewAbandonedRepository returns the SQLite-backed abandoned_mutations
// partition.
func NewAbandonedRepository(db *DB, logger *logger.Logger) AbandonedRepository {
	return &abandonedRepository{
		db:     db,
		logger: logger,
	}
}

func (r *abandonedRepository) Add(ctx context.Context, a models.AbandonedMutation) error {
	_, err := r.db.execRetry(ctx, upsertAbandoned,
		a.ID, a.EntityType, string(a.Action), []byte(a.Payload), string(a.Priority),
		toNanos(a.EnqueuedAt), a.RetryCount, toNanos(a.AbandonedAt), a.LastError,
	)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "abandonedRepository.Add").
			Str("id", a.ID).
			Msg("failed to store abandoned mutation")
		return fmt.Errorf("%w: add abandoned %s: %w", ErrExecutingStatement, a.ID, err)
	}

	return nil
}

func (r *abandonedRepository) Get(ctx context.Context, id string) (models.AbandonedMutation, error) {
	a, err := scanAbandoned(r.db.QueryRowContext(ctx, getAbandoned, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.AbandonedMutation{}, fmt.Errorf("%w: %s", ErrMutationNotFound, id)
		}
		logger.FromContext(ctx).Err(err).
			Str("func", "abandonedRepository.Get").
			Str("id", id).
			Msg("failed to query abandoned mutation")
		return models.AbandonedMutation{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return a, nil
}

func (r *abandonedRepository) GetAll(ctx context.Context) ([]models.AbandonedMutation, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, getAllAbandoned)
	if err != nil {
		log.Err(err).Str("func", "abandonedRepository.GetAll").Msg("failed to query abandoned mutations")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	result := make([]models.AbandonedMutation, 0)
	for rows.Next() {
		a, scanErr := scanAbandoned(rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "abandonedRepository.GetAll").Msg("failed to scan abandoned mutation row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, scanErr)
		}
		result = append(result, a)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return result, nil
}

func (r *abandonedRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.execRetry(ctx, deleteAbandoned, id)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "abandonedRepository.Delete").
			Str("id", id).
			Msg("failed to delete abandoned mutation")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrMutationNotFound, id)
	}

	return nil
}

func (r *abandonedRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, countAbandoned).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return count, nil
}
