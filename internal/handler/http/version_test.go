// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetVersion_Client(t *testing.T) {
	f := newClientFixture(t, nil)

	req := httptest.NewRequest(http.MethodGet, ClientVersionPath, nil)
	rec := httptest.NewRecorder()
	f.handler.getVersion(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1.4.0", rec.Body.String())
	assert.Equal(t, "text/plain", rec.Header().Get("Content-Type"))
}

func TestGetVersion_Worker(t *testing.T) {
	f := newWorkerFixture(t, nil)

	req := httptest.NewRequest(http.MethodGet, WorkerVersionPath, nil)
	rec := httptest.NewRecorder()
	f.handler.getVersion(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2.0.0", rec.Body.String())
}

func TestGetVersion_ViaRouters(t *testing.T) {
	client := newClientFixture(t, nil)
	worker := newWorkerFixture(t, nil)

	tests := []struct {
		name    string
		handler http.Handler
		path    string
		want    string
	}{
		{name: "client", handler: client.handler.ClientRoutes(), path: ClientVersionPath, want: "1.4.0"},
		{name: "worker", handler: worker.handler.WorkerRoutes(), path: WorkerVersionPath, want: "2.0.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			rec := httptest.NewRecorder()
			tt.handler.ServeHTTP(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, rec.Body.String())
		})
	}

	assert.Empty(t, worker.router.requests, "version endpoint must not reach the proxy")
}
