// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

// newMethodRouter registers a few routes directly on chi, without services.
func newMethodRouter() *chi.Mux {
	router := chi.NewRouter()
	ok := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }

	router.Get("/api/status", ok)
	router.Get("/api/mutations", ok)
	router.Post("/api/mutations", ok)
	router.Delete("/api/unsynced/{id}", ok)
	router.Post("/api/unsynced/{id}/retry", ok)

	router.MethodNotAllowed(CheckHTTPMethod(router))
	return router
}

func TestCheckHTTPMethod_TableTest(t *testing.T) {
	router := newMethodRouter()

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{name: "registered GET", method: http.MethodGet, path: "/api/status", wantStatus: http.StatusOK},
		{name: "wrong method on static route", method: http.MethodPost, path: "/api/status", wantStatus: http.StatusNotFound},
		{name: "multi-method GET", method: http.MethodGet, path: "/api/mutations", wantStatus: http.StatusOK},
		{name: "multi-method POST", method: http.MethodPost, path: "/api/mutations", wantStatus: http.StatusOK},
		{name: "multi-method unsupported", method: http.MethodPut, path: "/api/mutations", wantStatus: http.StatusNotFound},
		{name: "param route registered", method: http.MethodDelete, path: "/api/unsynced/1-a-note", wantStatus: http.StatusOK},
		{name: "param route wrong method", method: http.MethodGet, path: "/api/unsynced/1-a-note", wantStatus: http.StatusNotFound},
		{name: "nested param route wrong method", method: http.MethodDelete, path: "/api/unsynced/1-a-note/retry", wantStatus: http.StatusNotFound},
		{name: "unknown path", method: http.MethodGet, path: "/api/unknown", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.NotEqual(t, http.StatusMethodNotAllowed, rec.Code)
		})
	}
}

func TestCheckHTTPMethod_DirectCall(t *testing.T) {
	router := newMethodRouter()
	handler := CheckHTTPMethod(router)

	t.Run("unmatched method answers 404", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodPatch, "/api/status", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("matched method is served by the router", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
