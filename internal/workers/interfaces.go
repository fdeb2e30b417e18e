// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package workers runs the long-lived loops of a process side by side: the
// network monitor, the sync scheduler, the expiry sweep, the update listener,
// the manifest watcher and the HTTP servers.
package workers

import "context"

// Worker is a long-running loop. Run blocks until ctx is done or the worker
// fails; a nil return after ctx is done is a clean stop.
type Worker interface {
	Run(ctx context.Context) error
}

// Func adapts a plain function to [Worker].
type Func func(ctx context.Context) error

func (f Func) Run(ctx context.Context) error {
	return f(ctx)
}
