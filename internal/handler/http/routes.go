// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/go-jobcrm-sync/internal/adapter"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Version endpoints of the two processes.
const (
	ClientVersionPath = "/api/version"
	WorkerVersionPath = "/__sw/version"
)

// ClientRoutes builds the router of the client's local API.
func (h *Handler) ClientRoutes() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	// websocket upgrades bypass compression
	router.Get("/api/status/stream", h.statusStream)

	router.Group(func(r chi.Router) {
		r.Use(withGZip)

		r.Get(ClientVersionPath, h.getVersion)

		r.Get("/api/status", h.getStatus)
		r.Post("/api/sync", h.triggerSync)
		r.Post("/api/network", h.observeNetwork)

		r.Get("/api/mutations", h.listMutations)
		r.Post("/api/mutations", h.enqueueMutation)

		r.Get("/api/unsynced", h.listUnsynced)
		r.Delete("/api/unsynced/{id}", h.dismissUnsynced)
		r.Post("/api/unsynced/{id}/retry", h.retryUnsynced)

		r.Get("/api/offline-data", h.getOfflineData)
		r.Put("/api/offline-data", h.saveOfflineData)
		r.Delete("/api/offline-data", h.clearOfflineData)

		r.Get("/api/export", h.exportData)

		r.Post("/api/worker/skip-waiting", h.skipWaiting)
		r.Post("/api/worker/cache-route", h.cacheRoute)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}

// WorkerRoutes builds the worker's handler. Requests in proxy form go
// straight to the proxy; origin-form requests hit the worker's own
// endpoints first and fall through to the proxy for every other path.
func (h *Handler) WorkerRoutes() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	router.Get(adapter.LifecyclePath, h.lifecycleSocket)
	router.Get(WorkerVersionPath, h.getVersion)

	proxy := h.withTraceID(h.withLogging(http.HandlerFunc(h.proxy)))
	router.NotFound(h.proxy)
	router.MethodNotAllowed(h.proxy)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.IsAbs() {
			proxy.ServeHTTP(w, r)
			return
		}
		router.ServeHTTP(w, r)
	})
}
