// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package config provides configuration loading, merging, and validation
// facilities for the client and the worker process.
//
// Configuration is assembled from multiple sources; a source listed earlier
// wins for every field it sets:
//  1. Command-line flags
//  2. Environment variables (seeded from an optional .env file)
//  3. JSON or TOML config file
//  4. Built-in defaults
//
// The main entry points are [GetClientConfig] and [GetWorkerConfig].
package config
