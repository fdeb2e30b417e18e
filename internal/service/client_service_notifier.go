// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-jobcrm-sync/internal/logger"
	"github.com/MKhiriev/go-jobcrm-sync/models"
)

type notifier struct {
	listeners listenerSet[models.Notification]
	now       func() time.Time

	logger *logger.Logger
}

// NewNotifier creates a [Notifier] that logs every notification and fans it
// out to subscribers.
func NewNotifier(logger *logger.Logger) Notifier {
	return &notifier{now: time.Now, logger: logger}
}

func (n *notifier) Notify(ctx context.Context, note models.Notification) {
	if note.At.IsZero() {
		note.At = n.now()
	}

	event := n.logger.Info()
	if note.Kind == models.NotificationSyncFailed || note.Kind == models.NotificationAbandoned {
		event = n.logger.Warn()
	}
	event.Str("kind", string(note.Kind)).
		Int("count", note.Count).
		Str("mutation_id", note.MutationID).
		Msg(note.Message)

	n.listeners.emit(note, n.logger, "notifier.Notify")
}

func (n *notifier) Subscribe(fn func(models.Notification)) func() {
	return n.listeners.add(fn)
}
