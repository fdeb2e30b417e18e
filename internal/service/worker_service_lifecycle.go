// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-jobcrm-sync/internal/adapter"
	"github.com/MKhiriev/go-jobcrm-sync/internal/logger"
	"github.com/MKhiriev/go-jobcrm-sync/internal/store"
	"github.com/MKhiriev/go-jobcrm-sync/models"
)

// VersionSwitcher is the part of the router the lifecycle manager controls.
type VersionSwitcher interface {
	SetVersion(version string)
	Version() string
}

type lifecycleManager struct {
	cache   store.ResponseCache
	blobs   store.BlobRepository
	fetcher adapter.Fetcher
	router  VersionSwitcher
	origin  *url.URL

	autoActivate bool
	now          func() time.Time

	// installMu serialises Install and Activate.
	installMu sync.Mutex

	mu      sync.RWMutex
	active  string
	waiting string

	listeners listenerSet[models.LifecycleMessage]

	logger *logger.Logger
}

// NewLifecycleManager creates a [LifecycleManager]. When autoActivate is set
// every installed version is activated at once instead of waiting for
// SKIP_WAITING.
func NewLifecycleManager(
	storages *store.Storages,
	fetcher adapter.Fetcher,
	router VersionSwitcher,
	appOrigin string,
	autoActivate bool,
	logger *logger.Logger,
) (LifecycleManager, error) {
	if storages == nil {
		return nil, ErrStoreUnavailable
	}

	origin, err := url.Parse(appOrigin)
	if err != nil || origin.Scheme == "" || origin.Host == "" {
		return nil, fmt.Errorf("%w: app origin %q", ErrInvalidDataProvided, appOrigin)
	}

	return &lifecycleManager{
		cache:        storages.Responses,
		blobs:        storages.Blobs,
		fetcher:      fetcher,
		router:       router,
		origin:       origin,
		autoActivate: autoActivate,
		now:          time.Now,
		logger:       logger,
	}, nil
}

func (l *lifecycleManager) ActiveVersion() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.active
}

func (l *lifecycleManager) WaitingVersion() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.waiting
}

func (l *lifecycleManager) Subscribe(fn func(models.LifecycleMessage)) func() {
	return l.listeners.add(fn)
}

func (l *lifecycleManager) Restore(ctx context.Context) error {
	value, err := l.blobs.Get(ctx, store.BlobActiveVersion)
	if errors.Is(err, store.ErrBlobNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("restore active version: %w", err)
	}

	version := string(value)
	l.mu.Lock()
	l.active = version
	l.mu.Unlock()
	l.router.SetVersion(version)

	l.logger.Info().Str("version", version).Msg("active version restored")
	return nil
}

// Install primes the shell partition of manifest.Version with the root
// document and every listed asset. The first installed version is activated
// immediately; later ones wait for SKIP_WAITING unless auto-activation is on.
func (l *lifecycleManager) Install(ctx context.Context, manifest models.ShellManifest) error {
	version := strings.TrimSpace(manifest.Version)
	if version == "" {
		return fmt.Errorf("%w: empty version", ErrInvalidManifest)
	}

	l.installMu.Lock()
	defer l.installMu.Unlock()

	if version == l.ActiveVersion() {
		l.logger.Debug().Str("version", version).Msg("version already active, install skipped")
		return nil
	}

	partition := models.PartitionName(PartitionShell, version)
	if err := l.cache.EnsurePartition(ctx, partition); err != nil {
		return fmt.Errorf("%w: %w", ErrInstallFailed, err)
	}

	for _, asset := range shellAssets(manifest.Assets) {
		if err := l.prime(ctx, partition, asset); err != nil {
			if delErr := l.cache.DeletePartition(ctx, partition); delErr != nil {
				l.logger.Err(delErr).Str("func", "lifecycleManager.Install").Msg("failed to discard partial partition")
			}
			return fmt.Errorf("%w: %s: %w", ErrInstallFailed, asset, err)
		}
	}

	l.logger.Info().Str("version", version).Int("assets", len(manifest.Assets)).Msg("version installed")

	if l.ActiveVersion() == "" || l.autoActivate {
		return l.activate(ctx, version)
	}

	l.mu.Lock()
	l.waiting = version
	l.mu.Unlock()

	l.logger.Info().Str("version", version).Msg("version waiting for activation")
	return nil
}

func (l *lifecycleManager) Activate(ctx context.Context, version string) error {
	l.installMu.Lock()
	defer l.installMu.Unlock()
	return l.activate(ctx, version)
}

// activate evicts every partition of other versions, takes control through
// the router, persists the version and broadcasts SW_UPDATED.
func (l *lifecycleManager) activate(ctx context.Context, version string) error {
	if version == "" {
		return fmt.Errorf("%w: empty version", ErrInvalidManifest)
	}

	partitions, err := l.cache.Partitions(ctx)
	if err != nil {
		return fmt.Errorf("activate %s: %w", version, err)
	}

	for _, p := range partitions {
		if models.BelongsToVersion(p.Name, version) {
			continue
		}
		if err = l.cache.DeletePartition(ctx, p.Name); err != nil {
			return fmt.Errorf("activate %s: evict %s: %w", version, p.Name, err)
		}
		l.logger.Debug().Str("partition", p.Name).Msg("stale partition evicted")
	}

	l.router.SetVersion(version)

	if err = l.blobs.Put(ctx, store.BlobActiveVersion, []byte(version)); err != nil {
		l.logger.Err(err).Str("func", "lifecycleManager.activate").Msg("failed to persist active version")
	}

	l.mu.Lock()
	l.active = version
	if l.waiting == version {
		l.waiting = ""
	}
	l.mu.Unlock()

	l.logger.Info().Str("version", version).Msg("version activated")

	l.listeners.emit(models.LifecycleMessage{Type: models.MessageUpdated, Payload: version}, l.logger, "lifecycleManager.activate")
	return nil
}

func (l *lifecycleManager) SkipWaiting(ctx context.Context) error {
	waiting := l.WaitingVersion()
	if waiting == "" {
		l.logger.Debug().Msg("no waiting version, SKIP_WAITING ignored")
		return nil
	}
	return l.Activate(ctx, waiting)
}

// CacheNewRoute fetches one URL into the active shell partition.
func (l *lifecycleManager) CacheNewRoute(ctx context.Context, rawURL string) error {
	active := l.ActiveVersion()
	if active == "" {
		return ErrNoActiveVersion
	}
	if strings.TrimSpace(rawURL) == "" {
		return fmt.Errorf("%w: empty route", ErrInvalidDataProvided)
	}

	return l.prime(ctx, models.PartitionName(PartitionShell, active), rawURL)
}

func (l *lifecycleManager) HandleMessage(ctx context.Context, msg models.LifecycleMessage) error {
	switch msg.Type {
	case models.MessageSkipWaiting:
		return l.SkipWaiting(ctx)
	case models.MessageCacheNewRoute:
		return l.CacheNewRoute(ctx, msg.Payload)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMessage, msg.Type)
	}
}

func (l *lifecycleManager) prime(ctx context.Context, partition, ref string) error {
	u, err := ResolveAppURL(l.origin, ref)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	// shell partitions only hold app-origin resources
	if !sameOrigin(l.origin, u) {
		return fmt.Errorf("%w: %s is outside the app origin", ErrInvalidDataProvided, u.Redacted())
	}

	resp, err := l.fetcher.Fetch(ctx, adapter.UpstreamRequest{Method: http.MethodGet, URL: u.String()})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	if resp.Status != http.StatusOK {
		return fmt.Errorf("%w: %s returned %d", ErrFetchFailed, u, resp.Status)
	}

	return l.cache.Put(ctx, models.CachedResponse{
		Partition: partition,
		Key:       models.CacheKey(http.MethodGet, u.String()),
		Status:    resp.Status,
		Header:    resp.Header,
		Body:      resp.Body,
		StoredAt:  l.now(),
	})
}

func sameOrigin(origin, u *url.URL) bool {
	return strings.EqualFold(origin.Scheme, u.Scheme) && strings.EqualFold(origin.Host, u.Host)
}

// shellAssets always starts with the root document and drops duplicates.
func shellAssets(assets []string) []string {
	out := []string{"/"}
	seen := map[string]struct{}{"/": {}}
	for _, a := range assets {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out
}
