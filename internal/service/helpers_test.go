// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/go-jobcrm-sync/internal/config"
	"github.com/MKhiriev/go-jobcrm-sync/internal/logger"
	"github.com/MKhiriev/go-jobcrm-sync/internal/store"
	"github.com/MKhiriev/go-jobcrm-sync/models"
	"github.com/stretchr/testify/require"
)

// newTestStorages opens a migrated SQLite store in a temp dir.
func newTestStorages(t *testing.T) *store.Storages {
	t.Helper()
	cfg := config.ClientStorage{DB: config.ClientDB{
		DSN:         filepath.Join(t.TempDir(), "offline.db"),
		BusyTimeout: time.Second,
	}}

	s, err := store.NewStorages(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// stepClock returns increasing instants one millisecond apart.
type stepClock struct {
	mu  sync.Mutex
	cur time.Time
}

func newStepClock() *stepClock {
	return &stepClock{cur: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cur = c.cur.Add(time.Millisecond)
	return c.cur
}

// noteCollector records notifications emitted by a Notifier.
type noteCollector struct {
	mu    sync.Mutex
	notes []models.Notification
}

func collectNotifications(n Notifier) *noteCollector {
	c := &noteCollector{}
	n.Subscribe(func(note models.Notification) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.notes = append(c.notes, note)
	})
	return c
}

func (c *noteCollector) all() []models.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Notification, len(c.notes))
	copy(out, c.notes)
	return out
}

func (c *noteCollector) kinds() []models.NotificationKind {
	var kinds []models.NotificationKind
	for _, n := range c.all() {
		kinds = append(kinds, n.Kind)
	}
	return kinds
}

func boolPtr(v bool) *bool { return &v }

func setOnline(m NetworkMonitor, online bool) {
	m.Observe(context.Background(), models.NetworkSignal{Online: boolPtr(online)})
}
