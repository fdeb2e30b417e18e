// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"net/url"

	"github.com/rs/zerolog"
)

// validate checks the settings both processes depend on.
func (cfg *StructuredConfig) validate() error {
	if cfg.App.LogLevel != "" {
		if _, err := zerolog.ParseLevel(cfg.App.LogLevel); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidAppConfigs, err)
		}
	}

	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if !isAbsoluteURL(cfg.Backend.BaseURL) || cfg.Backend.RequestTimeout <= 0 {
		return ErrInvalidBackendConfigs
	}

	if !isAbsoluteURL(cfg.Network.ProbeURL) || cfg.Network.ProbeInterval <= 0 {
		return ErrInvalidNetworkConfigs
	}

	if cfg.Workers.LeaseTTL <= 0 || cfg.Workers.SweepInterval <= 0 || cfg.Workers.SettleDelay < 0 {
		return ErrInvalidWorkerConfigs
	}

	if cfg.Server.HTTPAddress == "" {
		return ErrInvalidServerConfigs
	}

	return nil
}

func (cfg *WorkerConfig) validate() error {
	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if !isAbsoluteURL(cfg.AppOrigin) || cfg.UpstreamTimeout <= 0 {
		return ErrInvalidRouterConfigs
	}

	if cfg.Address == "" || cfg.ManifestPath == "" {
		return ErrInvalidWorkerConfigs
	}

	return nil
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && u.Host != ""
}
