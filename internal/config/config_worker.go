// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"net/url"
	"time"
)

// WorkerConfig is the configuration view of the request-interception worker.
type WorkerConfig struct {
	Version  string
	LogLevel string
	Storage  ClientStorage

	// Address is the proxy listen address.
	Address string
	// AppOrigin is the origin of the application shell.
	AppOrigin string
	// BackendHost is the host name whose GET requests follow the api rule.
	BackendHost     string
	UpstreamTimeout time.Duration
	ManifestPath    string
	AutoActivate    bool
}

// GetWorkerConfig builds and validates the worker-specific view of the merged
// configuration.
func GetWorkerConfig(flags *Flags) (*WorkerConfig, error) {
	cfg, err := GetStructuredConfig(flags.Config())
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	return newWorkerConfig(cfg)
}

func newWorkerConfig(cfg *StructuredConfig) (*WorkerConfig, error) {
	workerCfg := &WorkerConfig{
		Version:  cfg.App.Version,
		LogLevel: cfg.App.LogLevel,
		Storage: ClientStorage{
			DB: ClientDB{
				DSN:         cfg.Storage.DB.DSN,
				BusyTimeout: cfg.Storage.DB.BusyTimeout,
			},
		},
		Address:         cfg.Worker.Address,
		AppOrigin:       cfg.Router.AppOrigin,
		UpstreamTimeout: cfg.Router.UpstreamTimeout,
		ManifestPath:    cfg.Worker.ManifestPath,
		AutoActivate:    cfg.Worker.AutoActivate,
	}

	if cfg.Backend.BaseURL != "" {
		u, err := url.Parse(cfg.Backend.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidBackendConfigs, err)
		}
		workerCfg.BackendHost = u.Hostname()
	}

	return workerCfg, workerCfg.validate()
}
