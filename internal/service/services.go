// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"fmt"

	"github.com/MKhiriev/go-jobcrm-sync/internal/adapter"
	"github.com/MKhiriev/go-jobcrm-sync/internal/config"
	"github.com/MKhiriev/go-jobcrm-sync/internal/logger"
	"github.com/MKhiriev/go-jobcrm-sync/internal/store"
)

// ClientServices wires every client-process service. Storages may be nil, in
// which case the queue and the offline cache run in online-only mode.
type ClientServices struct {
	AppInfo        AppInfoService
	Notifier       Notifier
	Network        NetworkMonitor
	Queue          Queue
	Scheduler      SyncScheduler
	OfflineData    OfflineDataService
	ExpiryJob      ExpiryJob
	Status         StatusService
	Export         ExportService
	UpdateListener UpdateListener
	Lifecycle      adapter.LifecycleChannel
}

func NewClientServices(storages *store.Storages, backend adapter.BackendAdapter, channel adapter.LifecycleChannel, cfg *config.ClientConfig, logger *logger.Logger) (*ClientServices, error) {
	appInfo, err := NewAppInfoService(config.App{Version: cfg.Version}, logger)
	if err != nil {
		return nil, fmt.Errorf("app info service: %w", err)
	}

	notifier := NewNotifier(logger)
	network := NewNetworkMonitor(backend, cfg.Network, logger)
	queue := NewMutationQueue(storages, backend, network, notifier, logger)
	scheduler := NewSyncScheduler(queue, backend, network, notifier, storages, cfg.Workers, logger)
	offlineData := NewOfflineDataService(storages, cfg.DefaultCacheTTL, logger)

	services := &ClientServices{
		AppInfo:     appInfo,
		Notifier:    notifier,
		Network:     network,
		Queue:       queue,
		Scheduler:   scheduler,
		OfflineData: offlineData,
		ExpiryJob:   NewExpiryJob(offlineData, cfg.Workers.SweepInterval, logger),
		Status:      NewStatusService(network, queue, scheduler, notifier, logger),
		Export:      NewExportService(queue, offlineData, appInfo, storages),
		Lifecycle:   channel,
	}
	if channel != nil {
		services.UpdateListener = NewUpdateListener(channel, notifier, logger)
	}

	return services, nil
}

// WorkerServices wires the worker-process services.
type WorkerServices struct {
	AppInfo   AppInfoService
	Router    RequestRouter
	Lifecycle LifecycleManager
	Manifest  ManifestWatcher
}

func NewWorkerServices(storages *store.Storages, fetcher adapter.Fetcher, cfg *config.WorkerConfig, logger *logger.Logger) (*WorkerServices, error) {
	if storages == nil {
		return nil, ErrStoreUnavailable
	}

	appInfo, err := NewAppInfoService(config.App{Version: cfg.Version}, logger)
	if err != nil {
		return nil, fmt.Errorf("app info service: %w", err)
	}

	router, err := NewRequestRouter(DefaultRouteRules(), cfg.AppOrigin, cfg.BackendHost, fetcher, storages.Responses, logger)
	if err != nil {
		return nil, fmt.Errorf("request router: %w", err)
	}

	lifecycle, err := NewLifecycleManager(storages, fetcher, router, cfg.AppOrigin, cfg.AutoActivate, logger)
	if err != nil {
		return nil, fmt.Errorf("lifecycle manager: %w", err)
	}

	return &WorkerServices{
		AppInfo:   appInfo,
		Router:    router,
		Lifecycle: lifecycle,
		Manifest:  NewManifestWatcher(cfg.ManifestPath, lifecycle, logger),
	}, nil
}
