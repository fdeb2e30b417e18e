// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-jobcrm-sync/internal/logger"
	"github.com/MKhiriev/go-jobcrm-sync/models"
)

// ── lease ─────────────────────────────────────────────────────────────────────

func TestLeaseRepository_Acquire(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{name: "free or expired", affected: 1, want: true},
		{name: "held by another owner", affected: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			now := time.Unix(1700000000, 0)
			repo := &leaseRepository{db: db, logger: logger.Nop(), now: func() time.Time { return now }}

			mock.ExpectExec("INSERT INTO sync_lease").
				WithArgs(LeaseDrain, "owner-a", now.Add(30*time.Second).UnixNano(), now.UnixNano()).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			got, err := repo.Acquire(context.Background(), LeaseDrain, "owner-a", 30*time.Second)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLeaseRepository_Acquire_Error(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLeaseRepository(db, logger.Nop())

	mock.ExpectExec("INSERT INTO sync_lease").WillReturnError(errors.New("readonly database"))

	_, err := repo.Acquire(context.Background(), LeaseDrain, "owner-a", time.Second)
	assert.ErrorIs(t, err, ErrExecutingStatement)
}

// ── entities ──────────────────────────────────────────────────────────────────

func TestEntityRepository_GetAll_LiveFilter(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEntityRepository(db, logger.Nop())
	now := time.Unix(1700000000, 0)

	rows := sqlmock.NewRows(entityColumns).
		AddRow("note:1", "note", []byte(`{"id":"1"}`), now.Add(-time.Hour).UnixNano(), now.Add(time.Hour).UnixNano())

	mock.ExpectQuery(`SELECT (.+) FROM cached_entities WHERE entity_type = \? AND expires_at > \?`).
		WithArgs("note", now.UnixNano()).
		WillReturnRows(rows)

	got, err := repo.GetAll(context.Background(), EntityFilter{EntityType: "note", LiveAt: now})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "note:1", got[0].ID)
	assert.True(t, now.Add(time.Hour).Equal(got[0].ExpiresAt))
}

func TestEntityRepository_DeleteExpired(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEntityRepository(db, logger.Nop())
	now := time.Unix(1700000000, 0)

	mock.ExpectExec("DELETE FROM cached_entities WHERE expires_at <= ?").
		WithArgs(now.UnixNano()).
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := repo.DeleteExpired(context.Background(), now)
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)
}

// ── abandoned ─────────────────────────────────────────────────────────────────

func TestAbandonedRepository_Delete_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAbandonedRepository(db, logger.Nop())

	mock.ExpectExec("DELETE FROM abandoned_mutations").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrMutationNotFound)
}

// ── blobs ─────────────────────────────────────────────────────────────────────

func TestBlobRepository_Get_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBlobRepository(db, logger.Nop())

	mock.ExpectQuery("SELECT value FROM blobs").
		WithArgs(BlobActiveVersion).
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	_, err := repo.Get(context.Background(), BlobActiveVersion)
	assert.ErrorIs(t, err, ErrBlobNotFound)
}

// ── response cache ────────────────────────────────────────────────────────────

func TestResponseCache_DeletePartition_RollsBackOnError(t *testing.T) {
	db, mock := newMockDB(t)
	cache := NewResponseCache(db, logger.Nop())

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM cached_responses").WithArgs("api-v1").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("DELETE FROM cache_partitions").WithArgs("api-v1").WillReturnError(errors.New("io error"))
	mock.ExpectRollback()

	err := cache.DeletePartition(context.Background(), "api-v1")
	assert.ErrorIs(t, err, ErrExecutingStatement)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ── error classification ──────────────────────────────────────────────────────

func TestClassifySQLiteError(t *testing.T) {
	assert.Equal(t, Retryable, ClassifySQLiteError(sqlite3.Error{Code: sqlite3.ErrBusy}))
	assert.Equal(t, Retryable, ClassifySQLiteError(sqlite3.Error{Code: sqlite3.ErrLocked}))
	assert.Equal(t, NonRetryable, ClassifySQLiteError(sqlite3.Error{Code: sqlite3.ErrConstraint}))
	assert.Equal(t, NonRetryable, ClassifySQLiteError(errors.New("plain")))
	assert.Equal(t, NonRetryable, ClassifySQLiteError(nil))
}

func TestMetricRepository_Add(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMetricRepository(db, logger.Nop())
	started := time.Unix(1700000000, 0)

	mock.ExpectExec("INSERT INTO metrics").
		WithArgs(started.UnixNano(), started.Add(time.Second).UnixNano(), 3, 2, 1, 0, false).
		WillReturnResult(sqlmock.NewResult(7, 1))

	id, err := repo.Add(context.Background(), models.SyncMetric{
		StartedAt:  started,
		FinishedAt: started.Add(time.Second),
		Total:      3,
		Succeeded:  2,
		Failed:     1,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 7, id)
}
