// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/MKhiriev/go-jobcrm-sync/internal/service"
	"github.com/MKhiriev/go-jobcrm-sync/models"
)

// ─────────────────────────────────────────────
// Client service fakes
// ─────────────────────────────────────────────

type fakeAppInfo struct {
	version string
}

func (f *fakeAppInfo) GetAppVersion(_ context.Context) string {
	return f.version
}

type fakeNotifier struct {
	mu        sync.Mutex
	listeners map[int]func(models.Notification)
	next      int
}

func (f *fakeNotifier) Notify(_ context.Context, n models.Notification) {
	f.mu.Lock()
	fns := make([]func(models.Notification), 0, len(f.listeners))
	for _, fn := range f.listeners {
		fns = append(fns, fn)
	}
	f.mu.Unlock()

	for _, fn := range fns {
		fn(n)
	}
}

func (f *fakeNotifier) Subscribe(fn func(models.Notification)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listeners == nil {
		f.listeners = map[int]func(models.Notification){}
	}
	id := f.next
	f.next++
	f.listeners[id] = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.listeners, id)
	}
}

func (f *fakeNotifier) subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.listeners)
}

type fakeNetwork struct {
	status  models.NetworkStatus
	signals []models.NetworkSignal
}

func (f *fakeNetwork) Status() models.NetworkStatus { return f.status }

func (f *fakeNetwork) Observe(_ context.Context, signal models.NetworkSignal) {
	f.signals = append(f.signals, signal)
	if signal.Online != nil {
		f.status.IsOnline = *signal.Online
	}
}

func (f *fakeNetwork) Subscribe(func(models.NetworkStatus)) func() { return func() {} }
func (f *fakeNetwork) OnOnline(func(ctx context.Context))          {}
func (f *fakeNetwork) Run(ctx context.Context) error               { <-ctx.Done(); return nil }

type fakeQueue struct {
	EnqueueFunc         func(ctx context.Context, entityType string, action models.Action, payload json.RawMessage, priority models.Priority) (string, error)
	ListPendingFunc     func(ctx context.Context) []models.PendingMutation
	ListUnsyncedFunc    func(ctx context.Context) ([]models.AbandonedMutation, error)
	DismissUnsyncedFunc func(ctx context.Context, id string) error
	RetryUnsyncedFunc   func(ctx context.Context, id string) error
}

func (f *fakeQueue) Enqueue(ctx context.Context, entityType string, action models.Action, payload json.RawMessage, priority models.Priority) (string, error) {
	return f.EnqueueFunc(ctx, entityType, action, payload, priority)
}

func (f *fakeQueue) ListPending(ctx context.Context) []models.PendingMutation {
	if f.ListPendingFunc == nil {
		return nil
	}
	return f.ListPendingFunc(ctx)
}

func (f *fakeQueue) Count() int                   { return 0 }
func (f *fakeQueue) Load(_ context.Context) error { return nil }

func (f *fakeQueue) ListUnsynced(ctx context.Context) ([]models.AbandonedMutation, error) {
	if f.ListUnsyncedFunc == nil {
		return nil, nil
	}
	return f.ListUnsyncedFunc(ctx)
}

func (f *fakeQueue) UnsyncedCount() int { return 0 }

func (f *fakeQueue) DismissUnsynced(ctx context.Context, id string) error {
	return f.DismissUnsyncedFunc(ctx, id)
}

func (f *fakeQueue) RetryUnsynced(ctx context.Context, id string) error {
	return f.RetryUnsyncedFunc(ctx, id)
}

func (f *fakeQueue) OnChange(func()) func() { return func() {} }

func (f *fakeQueue) Resolve(_ context.Context, _ string) error { return nil }

func (f *fakeQueue) RecordFailure(_ context.Context, _ string, _ error) (bool, error) {
	return false, nil
}

type fakeOfflineData struct {
	SaveFunc  func(ctx context.Context, entityType, key string, payload json.RawMessage, ttl time.Duration) error
	GetFunc   func(ctx context.Context, entityType string) ([]models.CachedEntityRecord, error)
	ClearFunc func(ctx context.Context) error
}

func (f *fakeOfflineData) SaveOfflineData(ctx context.Context, entityType, key string, payload json.RawMessage, ttl time.Duration) error {
	return f.SaveFunc(ctx, entityType, key, payload, ttl)
}

func (f *fakeOfflineData) GetOfflineData(ctx context.Context, entityType string) ([]models.CachedEntityRecord, error) {
	return f.GetFunc(ctx, entityType)
}

func (f *fakeOfflineData) ClearOfflineData(ctx context.Context) error {
	return f.ClearFunc(ctx)
}

func (f *fakeOfflineData) SweepExpired(_ context.Context) (int64, error) { return 0, nil }

type fakeStatus struct {
	mu        sync.Mutex
	snapshot  models.StatusSnapshot
	listeners []func(models.StatusSnapshot)
	result    models.DrainResult
	triggers  int
}

func (f *fakeStatus) Snapshot() models.StatusSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshot
}

func (f *fakeStatus) Subscribe(fn func(models.StatusSnapshot)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listeners = append(f.listeners, fn)
	return func() {}
}

func (f *fakeStatus) TriggerSyncNow(_ context.Context) models.DrainResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.triggers++
	return f.result
}

func (f *fakeStatus) publish(s models.StatusSnapshot) {
	f.mu.Lock()
	f.snapshot = s
	fns := append([]func(models.StatusSnapshot){}, f.listeners...)
	f.mu.Unlock()

	for _, fn := range fns {
		fn(s)
	}
}

func (f *fakeStatus) subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.listeners)
}

type fakeExport struct {
	bundle models.ExportBundle
	err    error
}

func (f *fakeExport) Export(_ context.Context) (models.ExportBundle, error) {
	return f.bundle, f.err
}

// ─────────────────────────────────────────────
// Worker service fakes
// ─────────────────────────────────────────────

type fakeRouter struct {
	RouteFunc func(ctx context.Context, req service.RouteRequest) (service.RouteResult, error)
	requests  []service.RouteRequest
}

func (f *fakeRouter) Route(ctx context.Context, req service.RouteRequest) (service.RouteResult, error) {
	f.requests = append(f.requests, req)
	return f.RouteFunc(ctx, req)
}

func (f *fakeRouter) SetVersion(string) {}
func (f *fakeRouter) Version() string   { return "v1" }

type fakeLifecycle struct {
	mu        sync.Mutex
	handled   []models.LifecycleMessage
	listeners []func(models.LifecycleMessage)
	handleErr error
}

func (f *fakeLifecycle) Restore(context.Context) error                       { return nil }
func (f *fakeLifecycle) Install(context.Context, models.ShellManifest) error { return nil }
func (f *fakeLifecycle) Activate(context.Context, string) error              { return nil }
func (f *fakeLifecycle) SkipWaiting(context.Context) error                   { return nil }
func (f *fakeLifecycle) CacheNewRoute(context.Context, string) error         { return nil }
func (f *fakeLifecycle) ActiveVersion() string                               { return "v1" }
func (f *fakeLifecycle) WaitingVersion() string                              { return "" }

func (f *fakeLifecycle) HandleMessage(_ context.Context, msg models.LifecycleMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handled = append(f.handled, msg)
	return f.handleErr
}

func (f *fakeLifecycle) Subscribe(fn func(models.LifecycleMessage)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listeners = append(f.listeners, fn)
	return func() {}
}

func (f *fakeLifecycle) broadcast(msg models.LifecycleMessage) {
	f.mu.Lock()
	fns := append([]func(models.LifecycleMessage){}, f.listeners...)
	f.mu.Unlock()

	for _, fn := range fns {
		fn(msg)
	}
}

func (f *fakeLifecycle) messages() []models.LifecycleMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.LifecycleMessage{}, f.handled...)
}

func (f *fakeLifecycle) subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.listeners)
}
