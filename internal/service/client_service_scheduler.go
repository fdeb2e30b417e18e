// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/go-jobcrm-sync/internal/app"
	"github.com/MKhiriev/go-jobcrm-sync/internal/config"
	"github.com/MKhiriev/go-jobcrm-sync/internal/logger"
	"github.com/MKhiriev/go-jobcrm-sync/internal/store"
	"github.com/MKhiriev/go-jobcrm-sync/internal/utils"
	"github.com/MKhiriev/go-jobcrm-sync/models"
)

type syncScheduler struct {
	queue    Queue
	replayer Replayer
	network  NetworkMonitor
	notifier Notifier
	leases   store.LeaseRepository
	metrics  store.MetricRepository

	owner        string
	settleDelay  time.Duration
	progressHold time.Duration
	leaseTTL     time.Duration
	now          func() time.Time

	running atomic.Bool

	mu         sync.Mutex
	state      SyncState
	generation uint64
	settle     *time.Timer
	hold       *time.Timer
	stopped    bool

	listeners listenerSet[SyncState]
	wg        sync.WaitGroup

	logger *logger.Logger
}

// NewSyncScheduler creates a [SyncScheduler]. storages may be nil, in which
// case no lease is taken and no metric recorded.
func NewSyncScheduler(
	queue Queue,
	replayer Replayer,
	network NetworkMonitor,
	notifier Notifier,
	storages *store.Storages,
	cfg config.ClientWorkers,
	logger *logger.Logger,
) SyncScheduler {
	s := &syncScheduler{
		queue:        queue,
		replayer:     replayer,
		network:      network,
		notifier:     notifier,
		owner:        utils.NewUUIDGenerator().Generate(),
		settleDelay:  cfg.SettleDelay,
		progressHold: cfg.ProgressHold,
		leaseTTL:     cfg.LeaseTTL,
		now:          time.Now,
		logger:       logger,
	}
	if s.leaseTTL <= 0 {
		s.leaseTTL = config.DefaultLeaseTTL
	}
	if storages != nil {
		s.leases = storages.Leases
		s.metrics = storages.Metrics
	}
	return s
}

func (s *syncScheduler) State() SyncState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *syncScheduler) Subscribe(fn func(SyncState)) func() {
	return s.listeners.add(fn)
}

func (s *syncScheduler) setState(mutate func(*SyncState)) {
	s.mu.Lock()
	mutate(&s.state)
	state := s.state
	s.mu.Unlock()

	s.listeners.emit(state, s.logger, "syncScheduler.setState")
}

// Run registers the online trigger, schedules the startup drain and blocks
// until ctx is done. Pending timers are stopped and running drains awaited
// on return.
func (s *syncScheduler) Run(ctx context.Context) error {
	s.network.OnOnline(func(context.Context) {
		if s.queue.Count() > 0 {
			s.schedule(ctx, s.settleDelay)
		}
	})

	if err := s.queue.Load(ctx); err != nil {
		s.logger.Err(err).Str("func", "syncScheduler.Run").Msg("failed to load queue on startup")
	}
	if s.network.Status().IsOnline && s.queue.Count() > 0 {
		s.schedule(ctx, s.settleDelay)
	}

	<-ctx.Done()

	s.mu.Lock()
	if s.settle != nil && s.settle.Stop() {
		s.wg.Done()
	}
	s.settle = nil
	s.mu.Unlock()

	s.wg.Wait()

	s.mu.Lock()
	s.stopped = true
	if s.hold != nil {
		s.hold.Stop()
		s.hold = nil
	}
	s.mu.Unlock()

	return nil
}

// schedule arms a single delayed drain. A drain already armed is kept.
func (s *syncScheduler) schedule(ctx context.Context, delay time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.settle != nil || ctx.Err() != nil {
		return
	}

	s.wg.Add(1)
	s.settle = time.AfterFunc(delay, func() {
		defer s.wg.Done()

		s.mu.Lock()
		s.settle = nil
		s.mu.Unlock()

		if ctx.Err() != nil {
			return
		}
		s.drain(ctx)
	})
}

func (s *syncScheduler) TriggerSyncNow(ctx context.Context) models.DrainResult {
	return s.drain(ctx)
}

func (s *syncScheduler) drain(ctx context.Context) models.DrainResult {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Debug().Msg("drain already running, trigger ignored")
		return models.DrainResult{Skipped: true}
	}
	defer s.running.Store(false)

	if !s.network.Status().IsOnline {
		return models.DrainResult{Skipped: true}
	}

	if err := s.queue.Load(ctx); err != nil {
		s.logger.Err(err).Str("func", "syncScheduler.drain").Msg("failed to load queue")
		return models.DrainResult{Skipped: true}
	}

	pending := s.queue.ListPending(ctx)
	if len(pending) == 0 {
		return models.DrainResult{}
	}

	if !s.acquireLease(ctx) {
		s.logger.Debug().Msg("another process is draining, trigger ignored")
		return models.DrainResult{Skipped: true}
	}
	defer s.releaseLease()

	started := s.now()
	result := models.DrainResult{Total: len(pending)}

	s.mu.Lock()
	s.generation++
	if s.hold != nil {
		s.hold.Stop()
		s.hold = nil
	}
	s.mu.Unlock()
	s.setState(func(st *SyncState) { st.IsSyncing = true; st.Progress = 0 })

	s.logger.Info().Int("total", result.Total).Msg("drain started")

	for _, mutation := range pending {
		if !s.network.Status().IsOnline || ctx.Err() != nil {
			result.Aborted = true
			break
		}

		s.replayOne(ctx, mutation, &result)
		result.Processed++

		progress := float64(result.Processed) / float64(result.Total)
		s.setState(func(st *SyncState) { st.Progress = progress })

		if !s.acquireLease(ctx) {
			s.logger.Warn().Msg("drain lease lost, aborting")
			result.Aborted = true
			break
		}
	}

	s.finish(ctx, started, result)
	return result
}

func (s *syncScheduler) replayOne(ctx context.Context, mutation models.PendingMutation, result *models.DrainResult) {
	log := s.logger.With().Str("mutation_id", mutation.ID).Logger()

	// an in-flight item is bounded by the transport timeout only
	ctx = context.WithoutCancel(ctx)

	if err := s.replayer.Replay(ctx, mutation); err != nil {
		result.Failed++
		log.Warn().Err(err).Int("retry_count", mutation.RetryCount).Msg("replay failed")

		abandoned, recErr := s.queue.RecordFailure(ctx, mutation.ID, err)
		if recErr != nil {
			log.Err(recErr).Str("func", "syncScheduler.replayOne").Msg("failed to record replay failure")
		}
		if abandoned {
			result.Abandoned++
		}
		return
	}

	result.Succeeded++
	if err := s.queue.Resolve(ctx, mutation.ID); err != nil {
		log.Err(err).Str("func", "syncScheduler.replayOne").Msg("failed to resolve replayed mutation")
	}
}

func (s *syncScheduler) finish(ctx context.Context, started time.Time, result models.DrainResult) {
	if result.Succeeded > 0 {
		s.notifier.Notify(ctx, models.Notification{
			Kind:    models.NotificationSynced,
			Message: fmt.Sprintf(app.ToastSynced, result.Succeeded),
			Count:   result.Succeeded,
		})
	}
	if result.Failed > 0 {
		s.notifier.Notify(ctx, models.Notification{
			Kind:    models.NotificationSyncFailed,
			Message: fmt.Sprintf(app.ToastSyncFailed, result.Failed),
			Count:   result.Failed,
		})
	}

	s.recordMetric(ctx, started, result)

	s.logger.Info().
		Int("total", result.Total).
		Int("succeeded", result.Succeeded).
		Int("failed", result.Failed).
		Int("abandoned", result.Abandoned).
		Bool("aborted", result.Aborted).
		Msg("drain finished")

	if result.Aborted {
		s.setState(func(st *SyncState) { st.IsSyncing = false; st.Progress = 0 })
		return
	}

	s.mu.Lock()
	stopped := s.stopped
	s.mu.Unlock()
	if stopped {
		s.setState(func(st *SyncState) { st.IsSyncing = false; st.Progress = 0 })
		return
	}

	s.setState(func(st *SyncState) { st.IsSyncing = false; st.Progress = 1 })

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	gen := s.generation
	s.hold = time.AfterFunc(s.progressHold, func() {
		s.mu.Lock()
		if s.generation != gen {
			s.mu.Unlock()
			return
		}
		s.hold = nil
		s.mu.Unlock()

		s.setState(func(st *SyncState) { st.Progress = 0 })
	})
}

func (s *syncScheduler) recordMetric(ctx context.Context, started time.Time, result models.DrainResult) {
	if s.metrics == nil {
		return
	}

	_, err := s.metrics.Add(ctx, models.SyncMetric{
		StartedAt:  started,
		FinishedAt: s.now(),
		Total:      result.Total,
		Succeeded:  result.Succeeded,
		Failed:     result.Failed,
		Abandoned:  result.Abandoned,
		Aborted:    result.Aborted,
	})
	if err != nil {
		s.logger.Err(err).Str("func", "syncScheduler.recordMetric").Msg("failed to record drain metric")
	}
}

func (s *syncScheduler) acquireLease(ctx context.Context) bool {
	if s.leases == nil {
		return true
	}

	ok, err := s.leases.Acquire(ctx, store.LeaseDrain, s.owner, s.leaseTTL)
	if err != nil {
		s.logger.Err(err).Str("func", "syncScheduler.acquireLease").Msg("failed to acquire drain lease")
		return false
	}
	return ok
}

func (s *syncScheduler) releaseLease() {
	if s.leases == nil {
		return
	}

	// released even when the drain context is already cancelled
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.leases.Release(ctx, store.LeaseDrain, s.owner); err != nil {
		s.logger.Err(err).Str("func", "syncScheduler.releaseLease").Msg("failed to release drain lease")
	}
}
