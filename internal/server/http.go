// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/MKhiriev/go-jobcrm-sync/internal/logger"
)

const shutdownTimeout = 5 * time.Second

type httpServer struct {
	name   string
	server *http.Server
	logger *logger.Logger
}

func newHTTPServer(name, address string, handler http.Handler, readTimeout time.Duration, logger *logger.Logger) *httpServer {
	return &httpServer{
		name: name,
		server: &http.Server{
			Addr:              address,
			Handler:           handler,
			ReadHeaderTimeout: readTimeout,
		},
		logger: logger,
	}
}

func (h *httpServer) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", h.server.Addr)
	if err != nil {
		return fmt.Errorf("%s server listen on %s: %w", h.name, h.server.Addr, err)
	}
	return h.Serve(ctx, ln)
}

func (h *httpServer) Serve(ctx context.Context, ln net.Listener) error {
	h.server.BaseContext = func(net.Listener) context.Context { return ctx }

	errCh := make(chan error, 1)
	go func() {
		h.logger.Info().Str("server", h.name).Str("address", ln.Addr().String()).Msg("launching HTTP server")
		errCh <- h.server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("%s server serve: %w", h.name, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := h.server.Shutdown(shutdownCtx); err != nil {
		h.logger.Err(err).Str("server", h.name).Msg("HTTP server shutdown")
		_ = h.server.Close()
	}
	h.logger.Info().Str("server", h.name).Msg("server shut down gracefully")

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s server serve: %w", h.name, err)
	}
	return nil
}
