// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"time"
)

// ClientBackend holds the remote backend settings used for mutation replay.
type ClientBackend struct {
	BaseURL        string
	APIKey         string
	Token          string
	RequestTimeout time.Duration
	// Resources maps entity types to collection paths.
	Resources map[string]string
}

// ClientNetwork contains the network monitor probe settings.
type ClientNetwork struct {
	ProbeURL           string
	ProbeInterval      time.Duration
	ProbeTimeout       time.Duration
	MeasureLinkQuality bool
}

// ClientDB contains local database connection settings for the client.
type ClientDB struct {
	// DSN is the SQLite file path shared with the worker process.
	DSN         string
	BusyTimeout time.Duration
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	// DB holds local database settings.
	DB ClientDB
}

// ClientWorkers contains client background job settings.
type ClientWorkers struct {
	SettleDelay   time.Duration
	ProgressHold  time.Duration
	LeaseTTL      time.Duration
	SweepInterval time.Duration
}

// ClientServer holds the local API listen settings.
type ClientServer struct {
	HTTPAddress    string
	RequestTimeout time.Duration
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	Version         string
	LogLevel        string
	Backend         ClientBackend
	Network         ClientNetwork
	Storage         ClientStorage
	Workers         ClientWorkers
	Server          ClientServer
	DefaultCacheTTL time.Duration
	// WorkerAddress is where the client reaches the worker's lifecycle
	// channel.
	WorkerAddress string
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
//
// It loads the base config via [GetStructuredConfig], maps only the fields
// relevant to the client runtime, and validates the resulting [ClientConfig].
func GetClientConfig(flags *Flags) (*ClientConfig, error) {
	cfg, err := GetStructuredConfig(flags.Config())
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	return newClientConfig(cfg)
}

func newClientConfig(cfg *StructuredConfig) (*ClientConfig, error) {
	probeURL := cfg.Network.ProbeURL
	if probeURL == "" {
		probeURL = cfg.Backend.BaseURL
	}

	clientCfg := &ClientConfig{
		Version:  cfg.App.Version,
		LogLevel: cfg.App.LogLevel,
		Backend: ClientBackend{
			BaseURL:        cfg.Backend.BaseURL,
			APIKey:         cfg.Backend.APIKey,
			Token:          cfg.Backend.Token,
			RequestTimeout: cfg.Backend.RequestTimeout,
			Resources:      cfg.Backend.Resources,
		},
		Network: ClientNetwork{
			ProbeURL:           probeURL,
			ProbeInterval:      cfg.Network.ProbeInterval,
			ProbeTimeout:       cfg.Network.ProbeTimeout,
			MeasureLinkQuality: cfg.Network.MeasureLinkQuality,
		},
		Storage: ClientStorage{
			DB: ClientDB{
				DSN:         cfg.Storage.DB.DSN,
				BusyTimeout: cfg.Storage.DB.BusyTimeout,
			},
		},
		Workers: ClientWorkers{
			SettleDelay:   cfg.Sync.SettleDelay,
			ProgressHold:  cfg.Sync.ProgressHold,
			LeaseTTL:      cfg.Sync.LeaseTTL,
			SweepInterval: cfg.Cache.SweepInterval,
		},
		Server: ClientServer{
			HTTPAddress:    cfg.Server.HTTPAddress,
			RequestTimeout: cfg.Server.RequestTimeout,
		},
		DefaultCacheTTL: cfg.Cache.DefaultTTL,
		WorkerAddress:   cfg.Worker.Address,
	}

	return clientCfg, clientCfg.validate()
}
