// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"sync"

	"github.com/MKhiriev/go-jobcrm-sync/internal/app"
	"github.com/MKhiriev/go-jobcrm-sync/internal/logger"
	"github.com/MKhiriev/go-jobcrm-sync/models"
)

type statusService struct {
	network   NetworkMonitor
	queue     MutationQueue
	scheduler SyncScheduler
	notifier  Notifier

	mu   sync.Mutex
	last models.StatusSnapshot

	listeners listenerSet[models.StatusSnapshot]

	logger *logger.Logger
}

// NewStatusService creates a [StatusService] that recomputes the snapshot on
// every network, queue or scheduler change and emits it when it differs from
// the previous one. Connectivity transitions are also announced through the
// notifier.
func NewStatusService(network NetworkMonitor, queue MutationQueue, scheduler SyncScheduler, notifier Notifier, logger *logger.Logger) StatusService {
	s := &statusService{
		network:   network,
		queue:     queue,
		scheduler: scheduler,
		notifier:  notifier,
		logger:    logger,
	}
	s.last = s.compute()

	network.Subscribe(s.onNetwork)
	queue.OnChange(s.refresh)
	scheduler.Subscribe(func(SyncState) { s.refresh() })

	return s
}

func (s *statusService) compute() models.StatusSnapshot {
	net := s.network.Status()
	st := s.scheduler.State()

	return models.StatusSnapshot{
		IsOnline:         net.IsOnline,
		IsSlowConnection: net.IsSlowConnection,
		PendingCount:     s.queue.Count(),
		IsSyncing:        st.IsSyncing,
		SyncProgress:     st.Progress,
		UnsyncedCount:    s.queue.UnsyncedCount(),
	}
}

func (s *statusService) onNetwork(status models.NetworkStatus) {
	s.mu.Lock()
	wasOnline := s.last.IsOnline
	s.mu.Unlock()

	if wasOnline != status.IsOnline {
		msg := app.ToastOffline
		if status.IsOnline {
			msg = app.ToastOnline
		}
		s.notifier.Notify(context.Background(), models.Notification{
			Kind:    models.NotificationOnlineState,
			Message: msg,
		})
	}

	s.refresh()
}

func (s *statusService) refresh() {
	next := s.compute()

	s.mu.Lock()
	changed := next != s.last
	s.last = next
	s.mu.Unlock()

	if changed {
		s.listeners.emit(next, s.logger, "statusService.refresh")
	}
}

func (s *statusService) Snapshot() models.StatusSnapshot {
	return s.compute()
}

func (s *statusService) Subscribe(fn func(models.StatusSnapshot)) func() {
	return s.listeners.add(fn)
}

func (s *statusService) TriggerSyncNow(ctx context.Context) models.DrainResult {
	return s.scheduler.TriggerSyncNow(ctx)
}
