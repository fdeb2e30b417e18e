// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package tui is the terminal status view of the client.
package tui

import (
	"context"
	"errors"

	"github.com/MKhiriev/go-jobcrm-sync/internal/logger"
	"github.com/MKhiriev/go-jobcrm-sync/internal/service"
	"github.com/MKhiriev/go-jobcrm-sync/models"
	tea "github.com/charmbracelet/bubbletea"
)

const eventBuffer = 64

type TUI struct {
	services  *service.ClientServices
	buildInfo models.AppBuildInfo
	logger    *logger.Logger
}

func New(services *service.ClientServices, buildInfo models.AppBuildInfo, logger *logger.Logger) (*TUI, error) {
	if services == nil || services.Status == nil || services.Queue == nil || services.Notifier == nil {
		return nil, ErrMissingServices
	}
	return &TUI{services: services, buildInfo: buildInfo, logger: logger}, nil
}

// Run shows the status view until the user quits or ctx is done.
func (t *TUI) Run(ctx context.Context) error {
	version := ""
	if t.services.AppInfo != nil {
		version = t.services.AppInfo.GetAppVersion(ctx)
	}

	model := newStatusModel(ctx, t.services.Status, t.services.Queue, version, t.buildInfo)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	// service callbacks must not block on the UI loop
	events := make(chan tea.Msg, eventBuffer)
	push := func(msg tea.Msg) {
		select {
		case events <- msg:
		default:
			t.logger.Debug().Msg("tui event dropped")
		}
	}

	unsubscribeStatus := t.services.Status.Subscribe(func(s models.StatusSnapshot) { push(snapshotMsg(s)) })
	defer unsubscribeStatus()
	unsubscribeNotes := t.services.Notifier.Subscribe(func(n models.Notification) { push(notificationMsg(n)) })
	defer unsubscribeNotes()

	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-done:
				return
			case msg := <-events:
				program.Send(msg)
			}
		}
	}()

	_, err := program.Run()
	if err != nil && errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
