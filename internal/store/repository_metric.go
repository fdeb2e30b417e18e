// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-jobcrm-sync/internal/logger"
	"github.com/MKhiriev/go-jobcrm-sync/models"
)

type metricRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewMetricRepository returns the SQLite-backed metrics partition.
func NewMetricRepository(db *DB, logger *logger.Logger) MetricRepository {
	return &metricRepository{
		db:     db,
		logger: logger,
	}
}

func (r *metricRepository) Add(ctx context.Context, m models.SyncMetric) (int64, error) {
	res, err := r.db.execRetry(ctx, insertMetric,
		toNanos(m.StartedAt), toNanos(m.FinishedAt), m.Total, m.Succeeded, m.Failed, m.Abandoned, m.Aborted,
	)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "metricRepository.Add").Msg("failed to insert sync metric")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return id, nil
}

func (r *metricRepository) GetAll(ctx context.Context, limit uint64) ([]models.SyncMetric, error) {
	query, args, err := selectMetrics(limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "metricRepository.GetAll").Msg("failed to query sync metrics")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	metrics := make([]models.SyncMetric, 0)
	for rows.Next() {
		var (
			m                   models.SyncMetric
			startedAt, finished int64
		)
		if err := rows.Scan(&m.ID, &startedAt, &finished, &m.Total, &m.Succeeded, &m.Failed, &m.Abandoned, &m.Aborted); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		m.StartedAt = fromNanos(startedAt)
		m.FinishedAt = fromNanos(finished)
		metrics = append(metrics, m)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return metrics, nil
}
