// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-jobcrm-sync/internal/config"
	"github.com/MKhiriev/go-jobcrm-sync/internal/logger"
	"github.com/MKhiriev/go-jobcrm-sync/models"
)

func openTestStorages(t *testing.T) *Storages {
	t.Helper()
	cfg := config.ClientStorage{DB: config.ClientDB{
		DSN:         filepath.Join(t.TempDir(), "data", "offline.db"),
		BusyTimeout: time.Second,
	}}

	s, err := NewStorages(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestNewStorages_BadPath(t *testing.T) {
	notADir := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(notADir, []byte("x"), 0o600))
	cfg := config.ClientStorage{DB: config.ClientDB{DSN: filepath.Join(notADir, "offline.db")}}

	_, err := NewStorages(context.Background(), cfg, logger.Nop())
	assert.ErrorIs(t, err, ErrOpeningStore)
}

func TestSQLite_MutationOrdering(t *testing.T) {
	s := openTestStorages(t)
	ctx := context.Background()
	base := time.Unix(1700000000, 0)

	for i, p := range []models.Priority{models.PriorityLow, models.PriorityHigh, models.PriorityMedium, models.PriorityHigh} {
		require.NoError(t, s.Mutations.Add(ctx, models.PendingMutation{
			ID:         string(rune('a' + i)),
			EntityType: "note",
			Action:     models.ActionCreate,
			Payload:    json.RawMessage(`{}`),
			Priority:   p,
			EnqueuedAt: base.Add(time.Duration(i) * time.Millisecond),
		}))
	}

	got, err := s.Mutations.GetAll(ctx, MutationFilter{})
	require.NoError(t, err)

	ids := make([]string, 0, len(got))
	for _, m := range got {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"b", "d", "c", "a"}, ids)

	err = s.Mutations.Add(ctx, models.PendingMutation{ID: "a", EntityType: "note", Action: models.ActionCreate, Payload: json.RawMessage(`{}`), Priority: models.PriorityLow, EnqueuedAt: base})
	assert.ErrorIs(t, err, ErrMutationAlreadyExists)
}

func TestSQLite_LeaseExclusivity(t *testing.T) {
	s := openTestStorages(t)
	ctx := context.Background()

	ok, err := s.Leases.Acquire(ctx, LeaseDrain, "client-a", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Leases.Acquire(ctx, LeaseDrain, "client-b", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "lease held by client-a")

	ok, err = s.Leases.Acquire(ctx, LeaseDrain, "client-a", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "owner renews its own lease")

	require.NoError(t, s.Leases.Release(ctx, LeaseDrain, "client-a"))

	ok, err = s.Leases.Acquire(ctx, LeaseDrain, "client-b", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSQLite_ExpiredLeaseIsTakenOver(t *testing.T) {
	s := openTestStorages(t)
	ctx := context.Background()

	ok, err := s.Leases.Acquire(ctx, LeaseDrain, "client-a", -time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.Leases.Acquire(ctx, LeaseDrain, "client-b", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSQLite_EntityExpiry(t *testing.T) {
	s := openTestStorages(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, s.Entities.Put(ctx, models.CachedEntityRecord{
		ID: "company:1", EntityType: "company", Payload: json.RawMessage(`{"id":"1"}`),
		LastModified: now, ExpiresAt: now.Add(-time.Second),
	}))
	require.NoError(t, s.Entities.Put(ctx, models.CachedEntityRecord{
		ID: "company:2", EntityType: "company", Payload: json.RawMessage(`{"id":"2"}`),
		LastModified: now, ExpiresAt: now.Add(time.Hour),
	}))

	live, err := s.Entities.GetAll(ctx, EntityFilter{EntityType: "company", LiveAt: now})
	require.NoError(t, err)
	require.Len(t, live, 1)
	assert.Equal(t, "company:2", live[0].ID)

	n, err := s.Entities.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	all, err := s.Entities.GetAll(ctx, EntityFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSQLite_ResponseCachePartitions(t *testing.T) {
	s := openTestStorages(t)
	ctx := context.Background()

	header := http.Header{"Content-Type": []string{"application/json"}}
	require.NoError(t, s.Responses.Put(ctx, models.CachedResponse{
		Partition: "api-v1", Key: "GET https://api.example.com/companies", Status: 200, Header: header, Body: []byte(`[1]`),
	}))
	require.NoError(t, s.Responses.Put(ctx, models.CachedResponse{
		Partition: "api-v2", Key: "GET https://api.example.com/companies", Status: 200, Header: header, Body: []byte(`[2]`),
		StoredAt: time.Now().Add(time.Minute),
	}))

	got, err := s.Responses.Get(ctx, "api-v2", "GET https://api.example.com/companies")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[2]`), got.Body)
	assert.Equal(t, "application/json", got.Header.Get("Content-Type"))

	require.NoError(t, s.Responses.DeletePartition(ctx, "api-v2"))

	got, err = s.Responses.Get(ctx, "api-v1", "GET https://api.example.com/companies")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[1]`), got.Body)

	partitions, err := s.Responses.Partitions(ctx)
	require.NoError(t, err)
	require.Len(t, partitions, 1)
	assert.Equal(t, "api-v1", partitions[0].Name)

	_, err = s.Responses.Get(ctx, "api-v2", "GET https://api.example.com/companies")
	assert.ErrorIs(t, err, ErrResponseNotFound)
}

func TestSQLite_AbandonedAndBlobs(t *testing.T) {
	s := openTestStorages(t)
	ctx := context.Background()

	a := models.AbandonedMutation{
		PendingMutation: models.PendingMutation{
			ID: "x", EntityType: "note", Action: models.ActionDelete, Payload: json.RawMessage(`{"id":"9"}`),
			Priority: models.PriorityMedium, EnqueuedAt: time.Now(), RetryCount: 5,
		},
		AbandonedAt: time.Now(),
		LastError:   "server error",
	}
	require.NoError(t, s.Abandoned.Add(ctx, a))

	got, err := s.Abandoned.Get(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, 5, got.RetryCount)
	assert.Equal(t, "server error", got.LastError)

	n, err := s.Abandoned.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, s.Blobs.Put(ctx, BlobActiveVersion, []byte("v3")))
	v, err := s.Blobs.Get(ctx, BlobActiveVersion)
	require.NoError(t, err)
	assert.Equal(t, []byte("v3"), v)
}

func TestSQLite_ResponseCache_PutNilBody(t *testing.T) {
	s := openTestStorages(t)
	ctx := context.Background()

	err := s.Responses.Put(ctx, models.CachedResponse{
		Partition: "shell-v1",
		Key:       "GET http://app.jobcrm.test/empty",
		Status:    http.StatusOK,
	})
	require.NoError(t, err)

	got, err := s.Responses.Get(ctx, "shell-v1", "GET http://app.jobcrm.test/empty")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, got.Status)
	assert.Empty(t, got.Body)
}
