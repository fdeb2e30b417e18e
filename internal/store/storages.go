// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-jobcrm-sync/internal/config"
	"github.com/MKhiriev/go-jobcrm-sync/internal/logger"
)

// Storages groups every partition repository of the on-device store into a
// single value that can be passed around the service layer.
type Storages struct {
	Mutations MutationRepository
	Abandoned AbandonedRepository
	Entities  EntityRepository
	Metrics   MetricRepository
	Blobs     BlobRepository
	Leases    LeaseRepository
	Responses ResponseCache

	db *DB
}

// NewStorages initialises the storage layer:
//  1. Opens the SQLite file named in cfg.DB.DSN, creating it when missing.
//  2. Runs pending schema migrations via [DB.Migrate].
//  3. Wires one repository per partition.
//
// Every failure wraps [ErrOpeningStore]; callers use it to switch to
// online-only mode.
func NewStorages(ctx context.Context, cfg config.ClientStorage, logger *logger.Logger) (*Storages, error) {
	logger.Info().Str("dsn", cfg.DB.DSN).Msg("opening offline store...")

	db, err := NewConnectSQLite(ctx, cfg.DB, logger)
	if err != nil {
		return nil, err
	}

	if err = db.Migrate(); err != nil {
		_ = db.Close()
		logger.Err(err).Str("func", "NewStorages").Msg("migration failed")
		return nil, fmt.Errorf("%w: migration failed: %w", ErrOpeningStore, err)
	}

	return NewStoragesFromDB(db, logger), nil
}

// NewStoragesFromDB wires the repositories over an already opened database.
func NewStoragesFromDB(db *DB, logger *logger.Logger) *Storages {
	return &Storages{
		Mutations: NewMutationRepository(db, logger),
		Abandoned: NewAbandonedRepository(db, logger),
		Entities:  NewEntityRepository(db, logger),
		Metrics:   NewMetricRepository(db, logger),
		Blobs:     NewBlobRepository(db, logger),
		Leases:    NewLeaseRepository(db, logger),
		Responses: NewResponseCache(db, logger),
		db:        db,
	}
}

// Close releases the database handle.
func (s *Storages) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
