// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/MKhiriev/go-jobcrm-sync/internal/logger"
	"github.com/MKhiriev/go-jobcrm-sync/internal/utils"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveWithTraceID(h *Handler, header string) (*httptest.ResponseRecorder, *http.Request) {
	var captured *http.Request
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	if header != "" {
		req.Header.Set(traceIDHeader, header)
	}

	rec := httptest.NewRecorder()
	h.withTraceID(next).ServeHTTP(rec, req)
	return rec, captured
}

func TestWithTraceID_ResponseHeader(t *testing.T) {
	h := &Handler{logger: logger.Nop()}

	t.Run("echoes the incoming id", func(t *testing.T) {
		rec, _ := serveWithTraceID(h, "trace-abc-123")

		assert.Equal(t, "trace-abc-123", rec.Header().Get(traceIDHeader))
	})

	t.Run("generates a uuid when absent", func(t *testing.T) {
		rec, _ := serveWithTraceID(h, "")

		_, err := uuid.Parse(rec.Header().Get(traceIDHeader))
		assert.NoError(t, err)
	})
}

func TestWithTraceID_UniquePerRequest(t *testing.T) {
	h := &Handler{logger: logger.Nop()}

	seen := make(map[string]struct{})
	for range 50 {
		rec, _ := serveWithTraceID(h, "")
		id := rec.Header().Get(traceIDHeader)

		_, duplicate := seen[id]
		require.False(t, duplicate, "duplicate trace ID generated: %s", id)
		seen[id] = struct{}{}
	}
}

func TestWithTraceID_LoggerCarriesTraceID(t *testing.T) {
	var buf bytes.Buffer
	h := &Handler{logger: &logger.Logger{Logger: zerolog.New(&buf)}}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromRequest(r).Info().Msg("inside")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(traceIDHeader, "trace-in-log")
	h.withTraceID(next).ServeHTTP(httptest.NewRecorder(), req)

	assert.Contains(t, buf.String(), `"trace_id":"trace-in-log"`)
	assert.Contains(t, buf.String(), `"message":"inside"`)
}

func TestWithTraceID_StoresIDInContext(t *testing.T) {
	h := &Handler{logger: logger.Nop()}

	_, captured := serveWithTraceID(h, "trace-ctx")

	require.NotNil(t, captured)
	traceID, ok := utils.GetTraceIDFromContext(captured.Context())
	assert.True(t, ok)
	assert.Equal(t, "trace-ctx", traceID)
}

func TestWithTraceID_ParentLoggerUntouched(t *testing.T) {
	var buf bytes.Buffer
	h := &Handler{logger: &logger.Logger{Logger: zerolog.New(&buf)}}

	_, _ = serveWithTraceID(h, "trace-child")
	h.logger.Info().Msg("parent")

	assert.NotContains(t, buf.String(), "trace-child")
}

func TestWithTraceID_OriginalRequestNotMutated(t *testing.T) {
	h := &Handler{logger: logger.Nop()}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	originalCtx := req.Context()

	var captured *http.Request
	h.withTraceID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r
	})).ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, captured)
	assert.Equal(t, originalCtx, req.Context())
	assert.Empty(t, req.Header.Get(traceIDHeader))
}

func TestWithTraceID_ConcurrentRequests(t *testing.T) {
	h := &Handler{logger: logger.Nop()}

	var wg sync.WaitGroup
	ids := make([]string, 20)
	for i := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec, _ := serveWithTraceID(h, "")
			ids[i] = rec.Header().Get(traceIDHeader)
		}()
	}
	wg.Wait()

	seen := make(map[string]struct{})
	for _, id := range ids {
		assert.NotEmpty(t, id)
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, len(ids))
}
