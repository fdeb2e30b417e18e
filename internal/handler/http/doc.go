// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package http implements the HTTP transport of both processes.
//
// The client side exposes the local API used by the shell and the terminal
// UI: status and its websocket stream, the mutation queue, the offline data
// cache, data export and worker control. The worker side is a caching proxy
// that hands every request to the request router and serves the lifecycle
// message channel. Request tracing, access logging and response compression
// are applied here before requests reach the service layer.
package http
