// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package handler builds the transport handlers of both processes.
package handler

import (
	stdhttp "net/http"

	"github.com/MKhiriev/go-jobcrm-sync/internal/adapter"
	"github.com/MKhiriev/go-jobcrm-sync/internal/config"
	"github.com/MKhiriev/go-jobcrm-sync/internal/handler/http"
	"github.com/MKhiriev/go-jobcrm-sync/internal/logger"
	"github.com/MKhiriev/go-jobcrm-sync/internal/service"
)

// Handlers pairs an HTTP handler with the routes it serves.
type Handlers struct {
	HTTP   *http.Handler
	Routes stdhttp.Handler
}

// NewClientHandlers builds the local API of the client. It fails when no
// listen address is configured.
func NewClientHandlers(services *service.ClientServices, cfg config.ClientServer, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating client handlers...")

	if cfg.HTTPAddress == "" {
		return nil, errNoHandlersAreCreated
	}

	h := http.NewClientHandler(services, logger)
	return &Handlers{HTTP: h, Routes: h.ClientRoutes()}, nil
}

// NewWorkerHandlers builds the proxy of the worker.
func NewWorkerHandlers(services *service.WorkerServices, fetcher adapter.Fetcher, cfg *config.WorkerConfig, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating worker handlers...")

	if cfg.Address == "" {
		return nil, errNoHandlersAreCreated
	}

	h, err := http.NewWorkerHandler(services, fetcher, cfg.AppOrigin, logger)
	if err != nil {
		return nil, err
	}
	return &Handlers{HTTP: h, Routes: h.WorkerRoutes()}, nil
}
