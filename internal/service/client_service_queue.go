// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-jobcrm-sync/internal/app"
	"github.com/MKhiriev/go-jobcrm-sync/internal/logger"
	"github.com/MKhiriev/go-jobcrm-sync/internal/store"
	"github.com/MKhiriev/go-jobcrm-sync/internal/utils"
	"github.com/MKhiriev/go-jobcrm-sync/models"
)

// Replayer sends one mutation to the backend.
type Replayer interface {
	Replay(ctx context.Context, mutation models.PendingMutation) error
}

// StatusProvider reports the current network status.
type StatusProvider interface {
	Status() models.NetworkStatus
}

type mutationQueue struct {
	mutations store.MutationRepository
	abandoned store.AbandonedRepository

	replayer Replayer
	network  StatusProvider
	notifier Notifier
	ids      *utils.UUIDGenerator
	now      func() time.Time

	mu       sync.RWMutex
	pending  []models.PendingMutation
	unsynced int

	listeners listenerSet[struct{}]

	logger *logger.Logger
}

// NewMutationQueue creates a [Queue]. When storages is nil the queue runs in
// online-only mode: nothing is persisted and Enqueue replays directly.
func NewMutationQueue(storages *store.Storages, replayer Replayer, network StatusProvider, notifier Notifier, logger *logger.Logger) Queue {
	q := &mutationQueue{
		replayer: replayer,
		network:  network,
		notifier: notifier,
		ids:      utils.NewUUIDGenerator(),
		now:      time.Now,
		logger:   logger,
	}
	if storages != nil {
		q.mutations = storages.Mutations
		q.abandoned = storages.Abandoned
	}
	return q
}

func (q *mutationQueue) persistent() bool {
	return q.mutations != nil
}

func (q *mutationQueue) Enqueue(ctx context.Context, entityType string, action models.Action, payload json.RawMessage, priority models.Priority) (string, error) {
	mutation, err := q.newMutation(entityType, action, payload, priority)
	if err != nil {
		return "", err
	}

	if !q.persistent() {
		if err = q.replayer.Replay(ctx, mutation); err != nil {
			return mutation.ID, fmt.Errorf("%w: %w", ErrReplayFailed, err)
		}
		return mutation.ID, nil
	}

	if err = q.mutations.Add(ctx, mutation); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "mutationQueue.Enqueue").Msg("failed to persist mutation")
		return "", fmt.Errorf("enqueue mutation: %w", err)
	}

	if err = q.Load(ctx); err != nil {
		return mutation.ID, err
	}

	if !q.network.Status().IsOnline {
		q.notifier.Notify(ctx, models.Notification{
			Kind:       models.NotificationQueued,
			Message:    app.ToastQueued,
			MutationID: mutation.ID,
		})
	}

	return mutation.ID, nil
}

func (q *mutationQueue) newMutation(entityType string, action models.Action, payload json.RawMessage, priority models.Priority) (models.PendingMutation, error) {
	entityType = strings.TrimSpace(entityType)
	if entityType == "" {
		return models.PendingMutation{}, ErrValidationNoEntityType
	}
	if !action.Valid() {
		return models.PendingMutation{}, fmt.Errorf("%w: %q", ErrValidationInvalidAction, action)
	}
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.Valid() {
		return models.PendingMutation{}, fmt.Errorf("%w: %q", ErrValidationInvalidPriority, priority)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil || fields == nil {
		return models.PendingMutation{}, ErrValidationInvalidPayload
	}
	if action != models.ActionCreate {
		if id, ok := fields["id"]; !ok || string(id) == "null" || string(id) == `""` {
			return models.PendingMutation{}, ErrValidationNoEntityKey
		}
	}

	now := q.now()
	return models.PendingMutation{
		ID:         q.ids.MutationID(now, entityType),
		EntityType: entityType,
		Action:     action,
		Payload:    payload,
		Priority:   priority,
		EnqueuedAt: now,
	}, nil
}

func (q *mutationQueue) ListPending(ctx context.Context) []models.PendingMutation {
	q.mu.RLock()
	defer q.mu.RUnlock()

	out := make([]models.PendingMutation, len(q.pending))
	copy(out, q.pending)
	return out
}

func (q *mutationQueue) Count() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.pending)
}

func (q *mutationQueue) UnsyncedCount() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.unsynced
}

func (q *mutationQueue) Load(ctx context.Context) error {
	if !q.persistent() {
		return nil
	}

	pending, err := q.mutations.GetAll(ctx, store.MutationFilter{})
	if err != nil {
		return fmt.Errorf("load pending mutations: %w", err)
	}

	unsynced, err := q.abandoned.Count(ctx)
	if err != nil {
		return fmt.Errorf("count unsynced mutations: %w", err)
	}

	q.mu.Lock()
	q.pending = pending
	q.unsynced = unsynced
	q.mu.Unlock()

	q.listeners.emit(struct{}{}, q.logger, "mutationQueue.Load")
	return nil
}

func (q *mutationQueue) Resolve(ctx context.Context, id string) error {
	if !q.persistent() {
		return nil
	}

	if err := q.mutations.Delete(ctx, id); err != nil && !errors.Is(err, store.ErrMutationNotFound) {
		return fmt.Errorf("resolve mutation %s: %w", id, err)
	}

	return q.Load(ctx)
}

func (q *mutationQueue) RecordFailure(ctx context.Context, id string, cause error) (bool, error) {
	if !q.persistent() {
		return false, nil
	}

	mutation, err := q.mutations.Get(ctx, id)
	if err != nil {
		return false, fmt.Errorf("record failure of %s: %w", id, err)
	}

	mutation.RetryCount++

	if !mutation.Exhausted() {
		if err = q.mutations.Put(ctx, mutation); err != nil {
			return false, fmt.Errorf("record failure of %s: %w", id, err)
		}
		return false, q.Load(ctx)
	}

	lastError := ""
	if cause != nil {
		lastError = cause.Error()
	}

	err = q.abandoned.Add(ctx, models.AbandonedMutation{
		PendingMutation: mutation,
		AbandonedAt:     q.now(),
		LastError:       lastError,
	})
	if err != nil && !errors.Is(err, store.ErrMutationAlreadyExists) {
		return false, fmt.Errorf("abandon mutation %s: %w", id, err)
	}

	if err = q.mutations.Delete(ctx, id); err != nil && !errors.Is(err, store.ErrMutationNotFound) {
		return true, fmt.Errorf("abandon mutation %s: %w", id, err)
	}

	q.logger.Warn().Str("mutation_id", id).Int("retries", mutation.RetryCount).Str("last_error", lastError).
		Msg("mutation abandoned after reaching retry ceiling")

	q.notifier.Notify(ctx, models.Notification{
		Kind:       models.NotificationAbandoned,
		Message:    fmt.Sprintf(app.ToastAbandoned, models.RetryCeiling),
		MutationID: id,
		Count:      1,
	})

	return true, q.Load(ctx)
}

func (q *mutationQueue) ListUnsynced(ctx context.Context) ([]models.AbandonedMutation, error) {
	if !q.persistent() {
		return []models.AbandonedMutation{}, nil
	}

	unsynced, err := q.abandoned.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list unsynced mutations: %w", err)
	}
	return unsynced, nil
}

func (q *mutationQueue) DismissUnsynced(ctx context.Context, id string) error {
	if !q.persistent() {
		return ErrStoreUnavailable
	}

	if err := q.abandoned.Delete(ctx, id); err != nil {
		return fmt.Errorf("dismiss unsynced mutation %s: %w", id, err)
	}

	return q.Load(ctx)
}

// RetryUnsynced re-queues an abandoned mutation under its original id with
// a fresh retry budget and enqueue time.
func (q *mutationQueue) RetryUnsynced(ctx context.Context, id string) error {
	if !q.persistent() {
		return ErrStoreUnavailable
	}

	abandoned, err := q.abandoned.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("retry unsynced mutation %s: %w", id, err)
	}

	mutation := abandoned.PendingMutation
	mutation.RetryCount = 0
	mutation.EnqueuedAt = q.now()

	if err = q.mutations.Put(ctx, mutation); err != nil {
		return fmt.Errorf("retry unsynced mutation %s: %w", id, err)
	}
	if err = q.abandoned.Delete(ctx, id); err != nil && !errors.Is(err, store.ErrMutationNotFound) {
		return fmt.Errorf("retry unsynced mutation %s: %w", id, err)
	}

	return q.Load(ctx)
}

func (q *mutationQueue) OnChange(fn func()) func() {
	return q.listeners.add(func(struct{}) { fn() })
}
