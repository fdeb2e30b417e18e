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

type mutationRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewMutationRepository returns the SQLite-backed pending_mutations partition.
func NewMutationRepository(db *DB, logger *logger.Logger) MutationRepository {
	return &mutationRepository{
		db:     db,
		logger: logger,
	}
}

func (r *mutationRepository) Add(ctx context.Context, m models.PendingMutation) error {
	log := logger.FromContext(ctx)

	_, err := r.db.ExecContext(ctx, insertMutation,
		m.ID, m.EntityType, string(m.Action), []byte(m.Payload), string(m.Priority), toNanos(m.EnqueuedAt), m.RetryCount,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrMutationAlreadyExists, m.ID)
		}
		log.Err(err).
			Str("func", "mutationRepository.Add").
			Str("id", m.ID).
			Msg("failed to insert pending mutation")
		return fmt.Errorf("%w: add mutation %s: %w", ErrExecutingStatement, m.ID, err)
	}

	return nil
}

func (r *mutationRepository) Get(ctx context.Context, id string) (models.PendingMutation, error) {
	log := logger.FromContext(ctx)

	m, err := scanMutation(r.db.QueryRowContext(ctx, getMutation, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.PendingMutation{}, fmt.Errorf("%w: %s", ErrMutationNotFound, id)
		}
		log.Err(err).
			Str("func", "mutationRepository.Get").
			Str("id", id).
			Msg("failed to query pending mutation")
		return models.PendingMutation{}, fmt.Errorf("%w: get mutation %s: %w", ErrExecutingQuery, id, err)
	}

	return m, nil
}

func (r *mutationRepository) GetAll(ctx context.Context, filter MutationFilter) ([]models.PendingMutation, error) {
	log := logger.FromContext(ctx)

	query, args, err := selectMutations(filter)
	if err != nil {
		log.Err(err).Str("func", "mutationRepository.GetAll").Msg("failed to build query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "mutationRepository.GetAll").
			Str("entity_type", filter.EntityType).
			Msg("failed to execute query for pending mutations")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	mutations := make([]models.PendingMutation, 0)
	for rows.Next() {
		m, scanErr := scanMutation(rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "mutationRepository.GetAll").Msg("failed to scan pending mutation row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, scanErr)
		}
		mutations = append(mutations, m)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", "mutationRepository.GetAll").Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return mutations, nil
}

func (r *mutationRepository) Put(ctx context.Context, m models.PendingMutation) error {
	log := logger.FromContext(ctx)

	_, err := r.db.execRetry(ctx, upsertMutation,
		m.ID, m.EntityType, string(m.Action), []byte(m.Payload), string(m.Priority), toNanos(m.EnqueuedAt), m.RetryCount,
	)
	if err != nil {
		log.Err(err).
			Str("func", "mutationRepository.Put").
			Str("id", m.ID).
			Msg("failed to upsert pending mutation")
		return fmt.Errorf("%w: put mutation %s: %w", ErrExecutingStatement, m.ID, err)
	}

	return nil
}

func (r *mutationRepository) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.execRetry(ctx, deleteMutation, id); err != nil {
		log.Err(err).
			Str("func", "mutationRepository.Delete").
			Str("id", id).
			Msg("failed to delete pending mutation")
		return fmt.Errorf("%w: delete mutation %s: %w", ErrExecutingStatement, id, err)
	}

	return nil
}
