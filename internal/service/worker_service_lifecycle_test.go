// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/MKhiriev/go-jobcrm-sync/internal/logger"
	"github.com/MKhiriev/go-jobcrm-sync/internal/store"
	"github.com/MKhiriev/go-jobcrm-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lifecycleFixture struct {
	storages  *store.Storages
	fetcher   *fakeFetcher
	router    *requestRouter
	lifecycle *lifecycleManager
	messages  []models.LifecycleMessage
}

func newLifecycleFixture(t *testing.T, autoActivate bool) *lifecycleFixture {
	t.Helper()
	fetcher := newFakeFetcher()
	fetcher.set(testAppOrigin+"/", http.StatusOK, "<html>shell</html>")
	fetcher.set(testAppOrigin+"/app.js", http.StatusOK, "console.log('app')")
	fetcher.set(testAppOrigin+"/app.css", http.StatusOK, "body{}")

	router, storages := newTestRouter(t, fetcher)
	router.SetVersion("")

	lm, err := NewLifecycleManager(storages, fetcher, router, testAppOrigin, autoActivate, logger.Nop())
	require.NoError(t, err)

	f := &lifecycleFixture{storages: storages, fetcher: fetcher, router: router, lifecycle: lm.(*lifecycleManager)}
	lm.Subscribe(func(msg models.LifecycleMessage) { f.messages = append(f.messages, msg) })
	return f
}

func (f *lifecycleFixture) partitionNames(t *testing.T) []string {
	t.Helper()
	partitions, err := f.storages.Responses.Partitions(context.Background())
	require.NoError(t, err)
	names := make([]string, 0, len(partitions))
	for _, p := range partitions {
		names = append(names, p.Name)
	}
	return names
}

func shellKey(path string) string {
	return models.CacheKey(http.MethodGet, testAppOrigin+path)
}

// ── Constructor ──────────────────────────────────────────────────────────────

func TestNewLifecycleManager_RequiresStore(t *testing.T) {
	_, err := NewLifecycleManager(nil, newFakeFetcher(), nil, testAppOrigin, false, logger.Nop())
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

// ── Install / Activate ───────────────────────────────────────────────────────

func TestLifecycle_FirstInstallActivates(t *testing.T) {
	f := newLifecycleFixture(t, false)
	ctx := context.Background()

	require.NoError(t, f.lifecycle.Install(ctx, models.ShellManifest{Version: "v1", Assets: []string{"/app.js", "/", "/app.js"}}))

	assert.Equal(t, "v1", f.lifecycle.ActiveVersion())
	assert.Empty(t, f.lifecycle.WaitingVersion())
	assert.Equal(t, "v1", f.router.Version())
	assert.Equal(t, []models.LifecycleMessage{{Type: models.MessageUpdated, Payload: "v1"}}, f.messages)

	for _, p := range []string{"/", "/app.js"} {
		_, err := f.storages.Responses.Get(ctx, "shell-v1", shellKey(p))
		assert.NoError(t, err, p)
	}
	assert.Equal(t, 2, f.fetcher.callCount(), "duplicate assets are fetched once")

	blob, err := f.storages.Blobs.Get(ctx, store.BlobActiveVersion)
	require.NoError(t, err)
	assert.Equal(t, "v1", string(blob))
}

func TestLifecycle_SecondInstallWaits(t *testing.T) {
	f := newLifecycleFixture(t, false)
	ctx := context.Background()
	require.NoError(t, f.lifecycle.Install(ctx, models.ShellManifest{Version: "v1", Assets: []string{"/app.js"}}))

	require.NoError(t, f.lifecycle.Install(ctx, models.ShellManifest{Version: "v2", Assets: []string{"/app.css"}}))

	assert.Equal(t, "v1", f.lifecycle.ActiveVersion())
	assert.Equal(t, "v2", f.lifecycle.WaitingVersion())
	assert.Equal(t, "v1", f.router.Version())
	assert.ElementsMatch(t, []string{"shell-v1", "shell-v2"}, f.partitionNames(t))
	assert.Len(t, f.messages, 1)
}

func TestLifecycle_SkipWaitingEvictsOldVersion(t *testing.T) {
	f := newLifecycleFixture(t, false)
	ctx := context.Background()
	require.NoError(t, f.lifecycle.Install(ctx, models.ShellManifest{Version: "v1"}))
	require.NoError(t, f.storages.Responses.Put(ctx, models.CachedResponse{Partition: "api-v1", Key: "GET x", Status: http.StatusOK}))
	require.NoError(t, f.lifecycle.Install(ctx, models.ShellManifest{Version: "v2"}))

	require.NoError(t, f.lifecycle.HandleMessage(ctx, models.LifecycleMessage{Type: models.MessageSkipWaiting}))

	assert.Equal(t, "v2", f.lifecycle.ActiveVersion())
	assert.Empty(t, f.lifecycle.WaitingVersion())
	assert.Equal(t, "v2", f.router.Version())
	assert.Equal(t, []string{"shell-v2"}, f.partitionNames(t))
	require.Len(t, f.messages, 2)
	assert.Equal(t, models.LifecycleMessage{Type: models.MessageUpdated, Payload: "v2"}, f.messages[1])
}

func TestLifecycle_SkipWaitingWithoutWaitingVersion(t *testing.T) {
	f := newLifecycleFixture(t, false)

	require.NoError(t, f.lifecycle.SkipWaiting(context.Background()))
	assert.Empty(t, f.lifecycle.ActiveVersion())
	assert.Empty(t, f.messages)
}

func TestLifecycle_AutoActivate(t *testing.T) {
	f := newLifecycleFixture(t, true)
	ctx := context.Background()
	require.NoError(t, f.lifecycle.Install(ctx, models.ShellManifest{Version: "v1"}))

	require.NoError(t, f.lifecycle.Install(ctx, models.ShellManifest{Version: "v2"}))

	assert.Equal(t, "v2", f.lifecycle.ActiveVersion())
	assert.Equal(t, []string{"shell-v2"}, f.partitionNames(t))
}

func TestLifecycle_InstallActiveVersionIsNoop(t *testing.T) {
	f := newLifecycleFixture(t, false)
	ctx := context.Background()
	require.NoError(t, f.lifecycle.Install(ctx, models.ShellManifest{Version: "v1"}))
	calls := f.fetcher.callCount()

	require.NoError(t, f.lifecycle.Install(ctx, models.ShellManifest{Version: "v1"}))

	assert.Equal(t, calls, f.fetcher.callCount())
	assert.Len(t, f.messages, 1)
}

func TestLifecycle_FailedInstallDiscardsPartition(t *testing.T) {
	f := newLifecycleFixture(t, false)
	ctx := context.Background()

	err := f.lifecycle.Install(ctx, models.ShellManifest{Version: "v1", Assets: []string{"/missing.js"}})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInstallFailed)
	assert.ErrorIs(t, err, ErrFetchFailed)
	assert.Empty(t, f.lifecycle.ActiveVersion())
	assert.Empty(t, f.partitionNames(t))
	assert.Empty(t, f.messages)
}

func TestLifecycle_InstallRejectsEmptyVersion(t *testing.T) {
	f := newLifecycleFixture(t, false)

	err := f.lifecycle.Install(context.Background(), models.ShellManifest{Version: "  "})
	assert.ErrorIs(t, err, ErrInvalidManifest)
}

// ── Restore ──────────────────────────────────────────────────────────────────

func TestLifecycle_Restore(t *testing.T) {
	f := newLifecycleFixture(t, false)
	ctx := context.Background()
	require.NoError(t, f.lifecycle.Install(ctx, models.ShellManifest{Version: "v3"}))

	router, err := NewRequestRouter(nil, testAppOrigin, testBackendHost, f.fetcher, f.storages.Responses, logger.Nop())
	require.NoError(t, err)
	restarted, err := NewLifecycleManager(f.storages, f.fetcher, router, testAppOrigin, false, logger.Nop())
	require.NoError(t, err)

	require.NoError(t, restarted.Restore(ctx))

	assert.Equal(t, "v3", restarted.ActiveVersion())
	assert.Equal(t, "v3", router.Version())
}

func TestLifecycle_RestoreWithoutActiveVersion(t *testing.T) {
	f := newLifecycleFixture(t, false)

	require.NoError(t, f.lifecycle.Restore(context.Background()))
	assert.Empty(t, f.lifecycle.ActiveVersion())
	assert.Empty(t, f.router.Version())
}

// ── Messages ─────────────────────────────────────────────────────────────────

func TestLifecycle_CacheNewRoute(t *testing.T) {
	f := newLifecycleFixture(t, false)
	ctx := context.Background()
	msg := models.LifecycleMessage{Type: models.MessageCacheNewRoute, Payload: "/app.css"}

	assert.ErrorIs(t, f.lifecycle.HandleMessage(ctx, msg), ErrNoActiveVersion)

	require.NoError(t, f.lifecycle.Install(ctx, models.ShellManifest{Version: "v1"}))
	require.NoError(t, f.lifecycle.HandleMessage(ctx, msg))

	_, err := f.storages.Responses.Get(ctx, "shell-v1", shellKey("/app.css"))
	assert.NoError(t, err)

	err = f.lifecycle.CacheNewRoute(ctx, " ")
	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestLifecycle_CacheNewRouteRejectsForeignHost(t *testing.T) {
	f := newLifecycleFixture(t, false)
	ctx := context.Background()
	require.NoError(t, f.lifecycle.Install(ctx, models.ShellManifest{Version: "v1"}))
	calls := f.fetcher.callCount()

	for _, target := range []string{
		"http://169.254.169.254/latest/meta-data",
		"//evil.example.com/steal",
		"ftp://" + strings.TrimPrefix(testAppOrigin, "https://") + "/app.css",
	} {
		msg := models.LifecycleMessage{Type: models.MessageCacheNewRoute, Payload: target}
		assert.ErrorIs(t, f.lifecycle.HandleMessage(ctx, msg), ErrInvalidDataProvided, target)
	}

	assert.Equal(t, calls, f.fetcher.callCount())
	_, err := f.storages.Responses.Get(ctx, "shell-v1", models.CacheKey(http.MethodGet, "http://169.254.169.254/latest/meta-data"))
	assert.ErrorIs(t, err, store.ErrResponseNotFound)
}

func TestLifecycle_CacheNewRouteAcceptsAbsoluteAppURL(t *testing.T) {
	f := newLifecycleFixture(t, false)
	ctx := context.Background()
	require.NoError(t, f.lifecycle.Install(ctx, models.ShellManifest{Version: "v1"}))

	require.NoError(t, f.lifecycle.CacheNewRoute(ctx, testAppOrigin+"/app.js"))

	_, err := f.storages.Responses.Get(ctx, "shell-v1", shellKey("/app.js"))
	assert.NoError(t, err)
}

func TestLifecycle_UnknownMessage(t *testing.T) {
	f := newLifecycleFixture(t, false)

	err := f.lifecycle.HandleMessage(context.Background(), models.LifecycleMessage{Type: "CLAIM_CLIENTS"})
	assert.ErrorIs(t, err, ErrUnknownMessage)
}

func TestShellAssets(t *testing.T) {
	assert.Equal(t, []string{"/"}, shellAssets(nil))
	assert.Equal(t, []string{"/", "/a.js", "/b.css"}, shellAssets([]string{"/a.js", " ", "/", "/b.css", "/a.js"}))
}
