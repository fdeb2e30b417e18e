// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-jobcrm-sync/internal/logger"
)

// LeaseDrain is the lease guarding the pending-mutation drain.
const LeaseDrain = "drain"

type leaseRepository struct {
	db     *DB
	logger *logger.Logger
	now    func() time.Time
}

// NewLeaseRepository returns the SQLite-backed sync_lease partition.
func NewLeaseRepository(db *DB, logger *logger.Logger) LeaseRepository {
	return &leaseRepository{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

func (r *leaseRepository) Acquire(ctx context.Context, name, owner string, ttl time.Duration) (bool, error) {
	now := r.now()

	res, err := r.db.execRetry(ctx, acquireLease, name, owner, toNanos(now.Add(ttl)), toNanos(now))
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "leaseRepository.Acquire").
			Str("lease", name).
			Str("owner", owner).
			Msg("failed to acquire lease")
		return false, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return n > 0, nil
}

func (r *leaseRepository) Release(ctx context.Context, name, owner string) error {
	if _, err := r.db.execRetry(ctx, releaseLease, name, owner); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "leaseRepository.Release").
			Str("lease", name).
			Msg("failed to release lease")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}
