// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"fmt"
	"net/url"

	"github.com/MKhiriev/go-jobcrm-sync/internal/adapter"
	"github.com/MKhiriev/go-jobcrm-sync/internal/logger"
	"github.com/MKhiriev/go-jobcrm-sync/internal/service"
	"nhooyr.io/websocket"
)

// Handler serves one process. A client handler has only client set, a
// worker handler only worker.
type Handler struct {
	client *service.ClientServices

	worker  *service.WorkerServices
	fetcher adapter.Fetcher
	origin  *url.URL

	// originPatterns are the browser origins allowed to open websockets.
	originPatterns []string

	logger *logger.Logger
}

// localOrigins lets pages served from the local machine open websockets.
var localOrigins = []string{"localhost", "localhost:*", "127.0.0.1", "127.0.0.1:*"}

// NewClientHandler creates the handler of the client's local API.
func NewClientHandler(services *service.ClientServices, logger *logger.Logger) *Handler {
	logger.Info().Msg("client http handler created")
	return &Handler{
		client:         services,
		originPatterns: localOrigins,
		logger:         logger,
	}
}

// NewWorkerHandler creates the proxy handler of the worker. Origin-form
// requests are resolved against appOrigin; fetcher serves requests the
// router does not intercept.
func NewWorkerHandler(services *service.WorkerServices, fetcher adapter.Fetcher, appOrigin string, logger *logger.Logger) (*Handler, error) {
	origin, err := url.Parse(appOrigin)
	if err != nil || origin.Scheme == "" || origin.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAppOrigin, appOrigin)
	}

	logger.Info().Str("app_origin", origin.String()).Msg("worker http handler created")
	return &Handler{
		worker:         services,
		fetcher:        fetcher,
		origin:         origin,
		originPatterns: append([]string{origin.Host}, localOrigins...),
		logger:         logger,
	}, nil
}

// acceptOptions rejects websocket handshakes from foreign browser origins.
// Requests without an Origin header come from non-browser clients and are
// accepted.
func (h *Handler) acceptOptions() *websocket.AcceptOptions {
	return &websocket.AcceptOptions{OriginPatterns: h.originPatterns}
}
