// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MKhiriev/go-jobcrm-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocalAPI(t *testing.T, handler http.HandlerFunc) *LocalAPI {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	api, err := NewLocalAPI(srv.URL, 5*time.Second)
	require.NoError(t, err)
	return api
}

func TestNewLocalAPI_InvalidAddress(t *testing.T) {
	_, err := NewLocalAPI("  ", time.Second)
	assert.ErrorIs(t, err, ErrInvalidBaseURL)
}

func TestLocalAPI_Status(t *testing.T) {
	api := newTestLocalAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/status", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(models.StatusSnapshot{IsOnline: true, PendingCount: 4})
	})

	snapshot, err := api.Status(context.Background())
	require.NoError(t, err)
	assert.True(t, snapshot.IsOnline)
	assert.Equal(t, 4, snapshot.PendingCount)
}

func TestLocalAPI_Sync(t *testing.T) {
	api := newTestLocalAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/sync", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(models.DrainResult{Total: 2, Succeeded: 2, Processed: 2})
	})

	result, err := api.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Succeeded)
}

func TestLocalAPI_Export(t *testing.T) {
	api := newTestLocalAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/export", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pendingMutations":[]}`))
	})

	body, err := api.Export(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"pendingMutations":[]}`, string(body))
}

func TestLocalAPI_MapsErrorStatus(t *testing.T) {
	api := newTestLocalAPI(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
	})

	_, err := api.Status(context.Background())
	assert.ErrorIs(t, err, ErrServerError)

	_, err = api.Export(context.Background())
	assert.ErrorIs(t, err, ErrInternalServerError)
}
