// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

var (
	// ErrInvalidAppOrigin is returned by NewWorkerHandler when the app origin
	// is not an absolute URL.
	ErrInvalidAppOrigin = errors.New("invalid app origin")

	// ErrWorkerUnreachable is reported when the client has no lifecycle
	// channel to the worker.
	ErrWorkerUnreachable = errors.New("worker channel is not configured")
)
