// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-jobcrm-sync/internal/adapter"
	"github.com/MKhiriev/go-jobcrm-sync/internal/config"
	"github.com/MKhiriev/go-jobcrm-sync/internal/handler"
	"github.com/MKhiriev/go-jobcrm-sync/internal/logger"
	"github.com/MKhiriev/go-jobcrm-sync/internal/server"
	"github.com/MKhiriev/go-jobcrm-sync/internal/service"
	"github.com/MKhiriev/go-jobcrm-sync/internal/store"
	"github.com/MKhiriev/go-jobcrm-sync/internal/tui"
	"github.com/MKhiriev/go-jobcrm-sync/internal/workers"
	"github.com/MKhiriev/go-jobcrm-sync/models"
)

// Option customises an [App].
type Option func(*App)

// WithHeadless runs the client without the terminal status view.
func WithHeadless() Option {
	return func(a *App) {
		a.headless = true
	}
}

// WithUI replaces the foreground status view.
func WithUI(ui Client) Option {
	return func(a *App) {
		a.ui = ui
	}
}

type App struct {
	services *service.ClientServices
	storages *store.Storages
	workers  *workers.Workers
	ui       Client
	headless bool

	logger *logger.Logger
}

// NewApp wires the client process. A store that cannot be opened is logged
// and the client continues in online-only mode.
func NewApp(ctx context.Context, cfg *config.ClientConfig, buildInfo models.AppBuildInfo, logger *logger.Logger, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	a := &App{logger: logger}
	for _, opt := range opts {
		opt(a)
	}

	storages, err := store.NewStorages(ctx, cfg.Storage, logger)
	if err != nil {
		if !errors.Is(err, store.ErrOpeningStore) {
			return nil, fmt.Errorf("create storages: %w", err)
		}
		logger.Err(err).Msg("offline store unavailable, running in online-only mode")
		storages = nil
	}
	a.storages = storages

	backend, err := adapter.NewHTTPBackendAdapter(cfg.Backend, logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("create backend adapter: %w", err)
	}

	var channel adapter.LifecycleChannel
	if cfg.WorkerAddress != "" {
		channel, err = adapter.NewWSLifecycleChannel(cfg.WorkerAddress, logger)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("create lifecycle channel: %w", err)
		}
	}

	services, err := service.NewClientServices(storages, backend, channel, cfg, logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("create client services: %w", err)
	}
	a.services = services

	handlers, err := handler.NewClientHandlers(services, cfg.Server, logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("create client handlers: %w", err)
	}

	srv, err := server.NewClientServer(handlers, cfg.Server, logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("create client server: %w", err)
	}

	a.workers = workers.NewWorkers(logger).
		Add("network-monitor", services.Network).
		Add("sync-scheduler", services.Scheduler).
		Add("expiry-job", services.ExpiryJob).
		Add("client-api", srv)
	if services.UpdateListener != nil {
		a.workers.Add("update-listener", services.UpdateListener)
	}

	if a.ui == nil && !a.headless {
		ui, err := tui.New(services, buildInfo, logger)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("create tui: %w", err)
		}
		a.ui = ui
	}

	return a, nil
}

// Services exposes the wired client services.
func (a *App) Services() *service.ClientServices {
	return a.services
}

// OnlineOnly reports whether the client runs without an offline store.
func (a *App) OnlineOnly() bool {
	return a.storages == nil
}

// Run starts the background jobs and blocks on the status view, or until ctx
// is done when headless. Leaving the status view stops the background jobs.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		err := a.workers.Run(ctx)
		// a failed background job also closes the status view
		cancel()
		errCh <- err
	}()

	if a.headless || a.ui == nil {
		a.logger.Info().Msg("client running headless")
		return <-errCh
	}

	uiErr := a.ui.Run(ctx)
	cancel()
	workersErr := <-errCh

	if uiErr != nil {
		return fmt.Errorf("status view: %w", uiErr)
	}
	return workersErr
}

// Close releases the offline store.
func (a *App) Close() {
	if a.storages == nil {
		return
	}
	if err := a.storages.Close(); err != nil {
		a.logger.Err(err).Msg("failed to close storages")
	}
	a.storages = nil
}
