// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the client process runtime.
//
// It wires the offline store, the backend adapter, the client services, the
// local API server and the background jobs into one process lifecycle, with
// the terminal status view in the foreground unless the process runs
// headless. When the offline store cannot be opened the client keeps running
// in online-only mode.
package client
