// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides transport-layer abstractions for talking to the
// remote CRM backend, to upstream origins on behalf of the request router,
// and to the worker process over its lifecycle channel.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrConflict] for 409, [ErrUnauthorized] for 401).
// Every error returned by [BackendAdapter.Replay] counts as a failed replay.
package adapter

import (
	"context"
	"net/http"
	"time"

	"github.com/MKhiriev/go-jobcrm-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

// BackendAdapter replays queued mutations against the remote backend and
// probes its reachability.
type BackendAdapter interface {
	// Replay sends one mutation to the backend. create maps to
	// POST /<resource>, update to PATCH /<resource>/{id} and delete to
	// DELETE /<resource>/{id}, where id is the payload's "id" field. The
	// body is sent as-is; no version check is performed.
	Replay(ctx context.Context, mutation models.PendingMutation) error

	// Probe issues GET url and reports timing information. Any HTTP
	// response, whatever its status, means the backend is reachable; only
	// transport failures are returned as errors.
	Probe(ctx context.Context, url string) (ProbeResult, error)
}

// ProbeResult is the outcome of one reachability probe.
type ProbeResult struct {
	Status int
	RTT    time.Duration
	Bytes  int64
}

// UpstreamRequest is a GET forwarded by the request router.
type UpstreamRequest struct {
	Method string
	URL    string
	Header http.Header
	// Body is sent as-is; nil sends no body.
	Body []byte
}

// UpstreamResponse is the fetched response, fully buffered.
type UpstreamResponse struct {
	Status int
	Header http.Header
	Body   []byte
}

// Fetcher performs network requests on behalf of the request router and the
// cache lifecycle manager.
type Fetcher interface {
	Fetch(ctx context.Context, req UpstreamRequest) (UpstreamResponse, error)
}

// LifecycleChannel carries lifecycle messages between the client process and
// the worker.
type LifecycleChannel interface {
	// Send delivers one message to the worker.
	Send(ctx context.Context, msg models.LifecycleMessage) error
	// Listen receives worker broadcasts until ctx is done, reconnecting
	// with backoff when the connection drops.
	Listen(ctx context.Context, handle func(models.LifecycleMessage)) error
}
