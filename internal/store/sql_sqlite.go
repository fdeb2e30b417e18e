// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/MKhiriev/go-jobcrm-sync/internal/config"
	"github.com/MKhiriev/go-jobcrm-sync/internal/logger"
)

// NewConnectSQLite opens the SQLite file named by cfg.DSN. The file and its
// directory are created when missing. WAL journaling and a busy timeout are
// enabled so the client and the worker can use the same file concurrently.
func NewConnectSQLite(ctx context.Context, cfg config.ClientDB, log *logger.Logger) (*DB, error) {
	if err := createLocalDBDirIfNotExists(cfg.DSN); err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error creating database directory")
		return nil, fmt.Errorf("%w: %w", ErrOpeningStore, err)
	}

	conn, err := sql.Open("sqlite3", sqliteDSN(cfg))
	if err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error connecting database")
		return nil, fmt.Errorf("%w: %w", ErrOpeningStore, err)
	}
	// one writer per process; cross-process contention is handled by the
	// busy timeout
	conn.SetMaxOpenConns(1)

	if err = conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error connecting database (ping)")
		return nil, fmt.Errorf("%w: %w", ErrOpeningStore, err)
	}
	log.Debug().Str("func", "NewConnectSQLite").Str("dsn", cfg.DSN).Msg("connected to database successfully")

	return &DB{
		DB:     conn,
		logger: log,
	}, nil
}

// sqliteDSN appends the pragmas the store relies on unless the DSN already
// carries query parameters.
func sqliteDSN(cfg config.ClientDB) string {
	if strings.Contains(cfg.DSN, "?") {
		return cfg.DSN
	}

	busy := cfg.BusyTimeout.Milliseconds()
	if busy <= 0 {
		busy = config.DefaultBusyTimeout.Milliseconds()
	}

	return cfg.DSN + "?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=" + strconv.FormatInt(busy, 10)
}

func createLocalDBDirIfNotExists(dsn string) error {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.Index(path, "?"); i >= 0 {
		path = path[:i]
	}
	if path == "" || path == ":memory:" {
		return nil
	}

	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}

	return os.MkdirAll(dir, 0o755)
}
