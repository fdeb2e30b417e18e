// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "time"

// Default values applied when no source sets a field.
const (
	DefaultDSN              = "jobcrm-offline.db"
	DefaultBusyTimeout      = 5 * time.Second
	DefaultRequestTimeout   = 15 * time.Second
	DefaultProbeInterval    = 10 * time.Second
	DefaultProbeTimeout     = 5 * time.Second
	DefaultSettleDelay      = 2 * time.Second
	DefaultProgressHold     = 1500 * time.Millisecond
	DefaultLeaseTTL         = 30 * time.Second
	DefaultEntityTTL        = 24 * time.Hour
	DefaultSweepInterval    = time.Hour
	DefaultClientAPIAddress = "127.0.0.1:8787"
	DefaultWorkerAddress    = "127.0.0.1:8788"
	DefaultManifestPath     = "shell-manifest.json"
	DefaultUpstreamTimeout  = 20 * time.Second
	DefaultServerReqTimeout = 30 * time.Second
	DefaultLogLevel         = "info"
	DefaultVersion          = "dev"
)

func defaults() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			Version:  DefaultVersion,
			LogLevel: DefaultLogLevel,
		},
		Storage: Storage{
			DB: DB{
				DSN:         DefaultDSN,
				BusyTimeout: DefaultBusyTimeout,
			},
		},
		Backend: Backend{
			RequestTimeout: DefaultRequestTimeout,
		},
		Network: Network{
			ProbeInterval: DefaultProbeInterval,
			ProbeTimeout:  DefaultProbeTimeout,
		},
		Sync: Sync{
			SettleDelay:  DefaultSettleDelay,
			ProgressHold: DefaultProgressHold,
			LeaseTTL:     DefaultLeaseTTL,
		},
		Cache: Cache{
			DefaultTTL:    DefaultEntityTTL,
			SweepInterval: DefaultSweepInterval,
		},
		Server: Server{
			HTTPAddress:    DefaultClientAPIAddress,
			RequestTimeout: DefaultServerReqTimeout,
		},
		Router: Router{
			UpstreamTimeout: DefaultUpstreamTimeout,
		},
		Worker: Worker{
			Address:      DefaultWorkerAddress,
			ManifestPath: DefaultManifestPath,
		},
	}
}
