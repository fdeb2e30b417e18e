// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-jobcrm-sync/internal/adapter"
	"github.com/MKhiriev/go-jobcrm-sync/internal/app"
	"github.com/MKhiriev/go-jobcrm-sync/internal/logger"
	"github.com/MKhiriev/go-jobcrm-sync/models"
)

type updateListener struct {
	channel  adapter.LifecycleChannel
	notifier Notifier

	logger *logger.Logger
}

// NewUpdateListener creates an [UpdateListener] that turns SW_UPDATED
// broadcasts into new-version notifications.
func NewUpdateListener(channel adapter.LifecycleChannel, notifier Notifier, logger *logger.Logger) UpdateListener {
	return &updateListener{channel: channel, notifier: notifier, logger: logger}
}

func (l *updateListener) Run(ctx context.Context) error {
	return l.channel.Listen(ctx, func(msg models.LifecycleMessage) {
		if msg.Type != models.MessageUpdated {
			l.logger.Debug().Str("type", string(msg.Type)).Msg("ignoring lifecycle message")
			return
		}

		l.notifier.Notify(ctx, models.Notification{
			Kind:    models.NotificationNewVersion,
			Message: fmt.Sprintf(app.ToastNewVersion, msg.Payload),
		})
	})
}
