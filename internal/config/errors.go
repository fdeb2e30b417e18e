// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "errors"

// Validation errors returned when required configuration groups are
// incomplete or invalid.
var (
	// ErrInvalidBackendConfigs indicates a missing or relative backend base
	// URL or a non-positive request timeout.
	ErrInvalidBackendConfigs = errors.New("invalid backend configuration")
	// ErrInvalidStorageConfigs indicates an empty database DSN.
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidAppConfigs indicates invalid application-level settings
	// (for example, an unknown log level).
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidWorkerConfigs indicates invalid background job or worker
	// process settings.
	ErrInvalidWorkerConfigs = errors.New("invalid worker configuration")
	// ErrInvalidNetworkConfigs indicates an unusable probe URL or interval.
	ErrInvalidNetworkConfigs = errors.New("invalid network configuration")
	// ErrInvalidServerConfigs indicates a missing listen address.
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrInvalidRouterConfigs indicates a missing app origin or upstream
	// timeout.
	ErrInvalidRouterConfigs = errors.New("invalid router configuration")
	// ErrUnsupportedConfigFile is returned for config files that are neither
	// JSON nor TOML.
	ErrUnsupportedConfigFile = errors.New("unsupported config file format")
)
