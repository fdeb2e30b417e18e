// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package service holds the offline-first synchronization core: the network
// monitor, the pending-mutation queue and its sync scheduler, the offline
// entity cache, the UI status surface on the client side, and the request
// router plus cache lifecycle manager on the worker side.
package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/MKhiriev/go-jobcrm-sync/models"
)

// AppInfoService exposes application metadata.
type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}

// Notifier delivers toast-level notifications. Notify never blocks on the
// user and never fails.
type Notifier interface {
	Notify(ctx context.Context, n models.Notification)
	// Subscribe registers fn and returns a function removing it.
	Subscribe(fn func(models.Notification)) (unsubscribe func())
}

// NetworkMonitor maintains the normalised connectivity status.
type NetworkMonitor interface {
	// Status returns the latest sample with the slow flag recomputed.
	Status() models.NetworkStatus
	// Observe feeds one platform signal. Listeners run on every transition.
	Observe(ctx context.Context, signal models.NetworkSignal)
	// Subscribe registers a listener called synchronously, in registration
	// order, on every status transition.
	Subscribe(fn func(models.NetworkStatus)) (unsubscribe func())
	// OnOnline registers a hook run after the listeners on every
	// offline-to-online transition.
	OnOnline(hook func(ctx context.Context))
	// Run probes the backend periodically until ctx is done.
	Run(ctx context.Context) error
}

// MutationQueue is the UI-facing side of the pending-mutation queue.
type MutationQueue interface {
	// Enqueue validates and persists a mutation and returns its id. Without
	// a store the mutation is replayed immediately and the replay error is
	// returned.
	Enqueue(ctx context.Context, entityType string, action models.Action, payload json.RawMessage, priority models.Priority) (string, error)
	// ListPending returns the ordered in-memory view.
	ListPending(ctx context.Context) []models.PendingMutation
	Count() int
	// Load refreshes the in-memory view from the store.
	Load(ctx context.Context) error

	ListUnsynced(ctx context.Context) ([]models.AbandonedMutation, error)
	UnsyncedCount() int
	DismissUnsynced(ctx context.Context, id string) error
	RetryUnsynced(ctx context.Context, id string) error

	// OnChange registers fn, called after every change of the view.
	OnChange(fn func()) (unsubscribe func())
}

// DrainQueue is the drain-only side of the queue used by the scheduler.
type DrainQueue interface {
	// Resolve removes a successfully replayed mutation.
	Resolve(ctx context.Context, id string) error
	// RecordFailure counts a failed replay. It reports true when the
	// mutation reached the retry ceiling and was abandoned.
	RecordFailure(ctx context.Context, id string, cause error) (bool, error)
}

// Queue combines both sides of the pending-mutation queue.
type Queue interface {
	MutationQueue
	DrainQueue
}

// SyncState is the scheduler's observable state.
type SyncState struct {
	IsSyncing bool
	Progress  float64
}

// SyncScheduler drains the queue against the backend.
type SyncScheduler interface {
	// TriggerSyncNow drains immediately. A trigger arriving while a drain
	// is running returns a skipped result.
	TriggerSyncNow(ctx context.Context) models.DrainResult
	State() SyncState
	Subscribe(fn func(SyncState)) (unsubscribe func())
	// Run wires the online trigger and the startup drain and blocks until
	// ctx is done.
	Run(ctx context.Context) error
}

// OfflineDataService is the TTL-bounded entity cache for offline reads.
type OfflineDataService interface {
	SaveOfflineData(ctx context.Context, entityType, key string, payload json.RawMessage, ttl time.Duration) error
	// GetOfflineData returns live records of entityType, or of every type
	// when entityType is empty.
	GetOfflineData(ctx context.Context, entityType string) ([]models.CachedEntityRecord, error)
	ClearOfflineData(ctx context.Context) error
	// SweepExpired deletes records with ExpiresAt at or before now.
	SweepExpired(ctx context.Context) (int64, error)
}

// ExpiryJob runs the periodic expired-entity sweep.
type ExpiryJob interface {
	Start(ctx context.Context, interval time.Duration)
	Stop()
	Run(ctx context.Context) error
}

// StatusService is the read-only projection consumed by the UI plus its one
// action.
type StatusService interface {
	Snapshot() models.StatusSnapshot
	Subscribe(fn func(models.StatusSnapshot)) (unsubscribe func())
	TriggerSyncNow(ctx context.Context) models.DrainResult
}

// ExportService builds the diagnostic export bundle.
type ExportService interface {
	Export(ctx context.Context) (models.ExportBundle, error)
}

// UpdateListener relays worker broadcasts to the notifier.
type UpdateListener interface {
	Run(ctx context.Context) error
}

// RequestRouter classifies intercepted requests and applies their cache
// strategy.
type RequestRouter interface {
	// Route returns ErrNotIntercepted when the request must pass through
	// untouched.
	Route(ctx context.Context, req RouteRequest) (RouteResult, error)
	SetVersion(version string)
	Version() string
}

// LifecycleManager installs and activates shell versions.
type LifecycleManager interface {
	// Restore loads the active version persisted by a previous run.
	Restore(ctx context.Context) error
	Install(ctx context.Context, manifest models.ShellManifest) error
	Activate(ctx context.Context, version string) error
	SkipWaiting(ctx context.Context) error
	CacheNewRoute(ctx context.Context, rawURL string) error
	HandleMessage(ctx context.Context, msg models.LifecycleMessage) error
	ActiveVersion() string
	WaitingVersion() string
	// Subscribe registers a receiver of broadcasts to clients.
	Subscribe(fn func(models.LifecycleMessage)) (unsubscribe func())
}

// ManifestWatcher installs the shell manifest whenever the file changes.
type ManifestWatcher interface {
	Run(ctx context.Context) error
}
