// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container shared by the
// client and the worker process. It is populated by merging values from
// command-line flags, environment variables (optionally seeded from a .env
// file), an optional JSON or TOML file and finally built-in defaults.
//
// Struct tags:
//   - envPrefix : prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       : direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings such as the version string and
	// the log level.
	App App `envPrefix:"APP_"`

	// Storage holds the on-device database settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Backend holds the remote backend used for mutation replay.
	Backend Backend `envPrefix:"BACKEND_"`

	// Network holds the reachability probe settings of the network monitor.
	Network Network `envPrefix:"NETWORK_"`

	// Sync holds the drain scheduler settings.
	Sync Sync `envPrefix:"SYNC_"`

	// Cache holds the entity cache settings.
	Cache Cache `envPrefix:"CACHE_"`

	// Server holds listen addresses of the local client API.
	Server Server `envPrefix:"SERVER_"`

	// Router holds the request router settings of the worker process.
	Router Router `envPrefix:"ROUTER_"`

	// Worker holds the lifecycle settings of the worker process.
	Worker Worker `envPrefix:"WORKER_"`

	// FilePath is the optional path to a JSON or TOML configuration file.
	// Populated via the CONFIG environment variable or the -c / --config flag.
	FilePath string `env:"CONFIG"`

	// DotEnvPath is the optional path to a .env file loaded before the
	// environment is parsed. Existing variables are never overwritten.
	DotEnvPath string `env:"DOTENV"`
}

// App holds application-level configuration values.
type App struct {
	// Version is the application version written into export bundles.
	// Env: APP_VERSION
	Version string `env:"VERSION"`

	// LogLevel is a zerolog level name ("debug", "info", ...).
	// Env: APP_LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL"`
}

// Storage groups the configuration for the on-device store.
type Storage struct {
	// DB holds the SQLite database settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the SQLite store shared by both processes.
type DB struct {
	// DSN is the SQLite file path or URI.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`

	// BusyTimeout bounds how long a connection waits for a lock held by the
	// other process.
	// Env: STORAGE_DB_BUSY_TIMEOUT
	BusyTimeout time.Duration `env:"BUSY_TIMEOUT"`
}

// Backend describes the remote backend mutations are replayed against.
type Backend struct {
	// BaseURL is the scheme+host(+path prefix) of the backend REST API.
	// Env: BACKEND_BASE_URL
	BaseURL string `env:"BASE_URL"`

	// APIKey is sent in the "apikey" header when non-empty.
	// Env: BACKEND_API_KEY
	APIKey string `env:"API_KEY"`

	// Token is sent as "Authorization: Bearer <token>" when non-empty.
	// Env: BACKEND_TOKEN
	Token string `env:"TOKEN"`

	// RequestTimeout is the transport timeout of a single replay request.
	// Env: BACKEND_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// Resources maps an entity type to its collection path, e.g.
	// "application:/applications,company:/companies". Entity types absent
	// from the map use "/<entity type>s".
	// Env: BACKEND_RESOURCES
	Resources map[string]string `env:"RESOURCES"`
}

// Network holds the reachability probe settings.
type Network struct {
	// ProbeURL is requested on every probe tick. Defaults to the backend
	// base URL.
	// Env: NETWORK_PROBE_URL
	ProbeURL string `env:"PROBE_URL"`

	// ProbeInterval is the delay between two probes.
	// Env: NETWORK_PROBE_INTERVAL
	ProbeInterval time.Duration `env:"PROBE_INTERVAL"`

	// ProbeTimeout bounds a single probe request.
	// Env: NETWORK_PROBE_TIMEOUT
	ProbeTimeout time.Duration `env:"PROBE_TIMEOUT"`

	// MeasureLinkQuality enables effective type and downlink estimation
	// from probe timings.
	// Env: NETWORK_MEASURE_LINK_QUALITY
	MeasureLinkQuality bool `env:"MEASURE_LINK_QUALITY"`
}

// Sync holds the drain scheduler settings.
type Sync struct {
	// SettleDelay is the wait between an offline->online transition and the
	// drain it triggers.
	// Env: SYNC_SETTLE_DELAY
	SettleDelay time.Duration `env:"SETTLE_DELAY"`

	// ProgressHold is how long a finished drain keeps progress at 1.0.
	// Env: SYNC_PROGRESS_HOLD
	ProgressHold time.Duration `env:"PROGRESS_HOLD"`

	// LeaseTTL is the lifetime of the cross-process drain lease.
	// Env: SYNC_LEASE_TTL
	LeaseTTL time.Duration `env:"LEASE_TTL"`
}

// Cache holds the entity cache settings.
type Cache struct {
	// DefaultTTL is used by SaveOfflineData when the caller passes no TTL.
	// Env: CACHE_DEFAULT_TTL
	DefaultTTL time.Duration `env:"DEFAULT_TTL"`

	// SweepInterval is the period of the expired-record sweep.
	// Env: CACHE_SWEEP_INTERVAL
	SweepInterval time.Duration `env:"SWEEP_INTERVAL"`
}

// Server holds network settings of the client local API.
type Server struct {
	// HTTPAddress is the "host:port" the client API listens on.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds a single inbound request.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Router holds the interception proxy settings.
type Router struct {
	// AppOrigin is the origin origin-form requests are reverse-proxied to and
	// the shell assets are fetched from.
	// Env: ROUTER_APP_ORIGIN
	AppOrigin string `env:"APP_ORIGIN"`

	// UpstreamTimeout bounds one upstream fetch.
	// Env: ROUTER_UPSTREAM_TIMEOUT
	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT"`
}

// Worker holds the settings of the request-interception worker process.
type Worker struct {
	// Address is the "host:port" the proxy listens on.
	// Env: WORKER_ADDRESS
	Address string `env:"ADDRESS"`

	// ManifestPath is the shell manifest file watched for new versions.
	// Env: WORKER_MANIFEST_PATH
	ManifestPath string `env:"MANIFEST_PATH"`

	// AutoActivate activates every installed version without waiting for a
	// SKIP_WAITING message.
	// Env: WORKER_AUTO_ACTIVATE
	AutoActivate bool `env:"AUTO_ACTIVATE"`
}

// GetStructuredConfig loads and merges the configuration from all available
// sources. The first source holding a non-zero value for a field wins:
//  1. Command-line flags bound with [BindFlags]
//  2. Environment variables (after the optional .env file is loaded)
//  3. JSON or TOML file (path resolved from sources 1 and 2)
//  4. Built-in defaults
//
// flags may be nil when no command line is involved.
func GetStructuredConfig(flags *StructuredConfig) (*StructuredConfig, error) {
	return newConfigBuilder().
		withFlags(flags).
		withDotEnv().
		withEnv().
		withFile().
		withDefaults().
		build()
}
