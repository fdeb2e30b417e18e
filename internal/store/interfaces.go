// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-jobcrm-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// MutationFilter narrows [MutationRepository.GetAll]. Zero fields match all.
type MutationFilter struct {
	EntityType string
}

// EntityFilter narrows [EntityRepository.GetAll]. Zero fields match all.
type EntityFilter struct {
	EntityType string
	// LiveAt hides records whose ExpiresAt is at or before the instant.
	LiveAt time.Time
}

// MutationRepository is the pending_mutations partition.
type MutationRepository interface {
	Add(ctx context.Context, mutation models.PendingMutation) error
	Get(ctx context.Context, id string) (models.PendingMutation, error)
	// GetAll returns mutations ordered by priority rank descending, then
	// enqueue time ascending.
	GetAll(ctx context.Context, filter MutationFilter) ([]models.PendingMutation, error)
	Put(ctx context.Context, mutation models.PendingMutation) error
	Delete(ctx context.Context, id string) error
}

// AbandonedRepository is the abandoned_mutations partition.
type AbandonedRepository interface {
	Add(ctx context.Context, mutation models.AbandonedMutation) error
	Get(ctx context.Context, id string) (models.AbandonedMutation, error)
	GetAll(ctx context.Context) ([]models.AbandonedMutation, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// EntityRepository is the cached_entities partition.
type EntityRepository interface {
	Put(ctx context.Context, record models.CachedEntityRecord) error
	GetAll(ctx context.Context, filter EntityFilter) ([]models.CachedEntityRecord, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	Clear(ctx context.Context) error
}

// MetricRepository is the metrics partition.
type MetricRepository interface {
	Add(ctx context.Context, metric models.SyncMetric) (int64, error)
	GetAll(ctx context.Context, limit uint64) ([]models.SyncMetric, error)
}

// BlobRepository is the blobs partition holding small cross-process facts.
type BlobRepository interface {
	Put(ctx context.Context, key string, value []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// LeaseRepository coordinates exclusive work between processes sharing the
// store.
type LeaseRepository interface {
	// Acquire takes or renews the named lease for owner. It reports false
	// when another owner holds an unexpired lease.
	Acquire(ctx context.Context, name, owner string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, name, owner string) error
}

// ResponseCache is the named-partition HTTP response cache.
type ResponseCache interface {
	EnsurePartition(ctx context.Context, name string) error
	Partitions(ctx context.Context) ([]models.CachePartition, error)
	// DeletePartition removes a partition and every response stored in it.
	DeletePartition(ctx context.Context, name string) error
	Put(ctx context.Context, response models.CachedResponse) error
	Get(ctx context.Context, partition, key string) (models.CachedResponse, error)
}
