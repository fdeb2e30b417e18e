// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import (
	"github.com/MKhiriev/go-jobcrm-sync/internal/config"
	"github.com/MKhiriev/go-jobcrm-sync/internal/handler"
	"github.com/MKhiriev/go-jobcrm-sync/internal/logger"
)

// NewClientServer serves the client's local API.
func NewClientServer(handlers *handler.Handlers, cfg config.ClientServer, logger *logger.Logger) (Server, error) {
	logger.Info().Msg("creating client server...")

	if cfg.HTTPAddress == "" {
		return nil, errNoServersAreCreated
	}
	if handlers == nil || handlers.Routes == nil {
		return nil, errNoHandler
	}

	return newHTTPServer("client-api", cfg.HTTPAddress, handlers.Routes, cfg.RequestTimeout, logger), nil
}

// NewWorkerServer serves the worker's proxy.
func NewWorkerServer(handlers *handler.Handlers, cfg *config.WorkerConfig, logger *logger.Logger) (Server, error) {
	logger.Info().Msg("creating worker server...")

	if cfg.Address == "" {
		return nil, errNoServersAreCreated
	}
	if handlers == nil || handlers.Routes == nil {
		return nil, errNoHandler
	}

	return newHTTPServer("worker-proxy", cfg.Address, handlers.Routes, cfg.UpstreamTimeout, logger), nil
}
