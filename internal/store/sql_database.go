// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"database/sql"

	"github.com/MKhiriev/go-jobcrm-sync/internal/logger"
	"github.com/MKhiriev/go-jobcrm-sync/migrations"
)

// DB is the SQLite handle shared by every repository of one process.
type DB struct {
	*sql.DB
	logger *logger.Logger
}

// Migrate brings the schema up to the latest embedded version.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB)
}
