// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
	"time"

	"github.com/MKhiriev/go-jobcrm-sync/internal/logger"
)

// withLogging writes one access log line per request. Proxied responses
// also carry the source they were served from.
func (h *Handler) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		start := time.Now()
		uri := r.RequestURI
		method := r.Method

		lw := &responseWriter{
			ResponseWriter: w,
		}

		next.ServeHTTP(lw, r)

		event := log.Info().
			Str("uri", uri).
			Str("method", method).
			Int("status", lw.status).
			Dur("duration", time.Since(start)).
			Int("size", lw.size)
		if source := lw.Header().Get(SourceHeader); source != "" {
			event = event.Str("source", source)
		}
		if lw.hijacked {
			event = event.Bool("upgraded", true)
		}
		event.Send()
	})
}
