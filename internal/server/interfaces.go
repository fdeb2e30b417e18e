// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import (
	"context"
	"net"
)

// Server is a transport server bound to a context.
type Server interface {
	// Run listens on the configured address and blocks until ctx is done
	// and the shutdown finished.
	Run(ctx context.Context) error

	// Serve is Run on an existing listener.
	Serve(ctx context.Context, ln net.Listener) error
}
