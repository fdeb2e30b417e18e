// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MKhiriev/go-jobcrm-sync/internal/logger"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requestWithLogger attaches a buffer-backed logger the way withTraceID does.
func requestWithLogger(method, target string, buf *bytes.Buffer) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	l := zerolog.New(buf)
	return req.WithContext(l.WithContext(req.Context()))
}

func decodeLogLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line), "log: %s", buf.String())
	return line
}

func TestWithLogging_TableTest(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		target     string
		status     int
		body       string
		source     string
		wantStatus float64
		wantSize   float64
	}{
		{name: "GET 200", method: http.MethodGet, target: "/api/status", status: http.StatusOK, body: "OK", wantStatus: 200, wantSize: 2},
		{name: "POST 201", method: http.MethodPost, target: "/api/mutations", status: http.StatusCreated, body: `{"id":"1"}`, wantStatus: 201, wantSize: 10},
		{name: "DELETE 204", method: http.MethodDelete, target: "/api/offline-data", status: http.StatusNoContent, wantStatus: 204},
		{name: "proxied cache hit", method: http.MethodGet, target: "/assets/app.js", status: http.StatusOK, body: "js", source: "cache", wantStatus: 200, wantSize: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := &Handler{logger: logger.Nop()}

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.source != "" {
					w.Header().Set(SourceHeader, tt.source)
				}
				w.WriteHeader(tt.status)
				if tt.body != "" {
					_, _ = w.Write([]byte(tt.body))
				}
			})

			rec := httptest.NewRecorder()
			h.withLogging(next).ServeHTTP(rec, requestWithLogger(tt.method, tt.target, &buf))

			line := decodeLogLine(t, &buf)
			assert.Equal(t, tt.method, line["method"])
			assert.Equal(t, tt.target, line["uri"])
			assert.Equal(t, tt.wantStatus, line["status"])
			assert.Equal(t, tt.wantSize, line["size"])
			assert.Contains(t, line, "duration")
			if tt.source != "" {
				assert.Equal(t, tt.source, line["source"])
			} else {
				assert.NotContains(t, line, "source")
			}
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestWithLogging_ImplicitStatus(t *testing.T) {
	var buf bytes.Buffer
	h := &Handler{logger: logger.Nop()}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("hello"))
	})

	h.withLogging(next).ServeHTTP(httptest.NewRecorder(), requestWithLogger(http.MethodGet, "/", &buf))

	line := decodeLogLine(t, &buf)
	assert.Equal(t, float64(http.StatusOK), line["status"])
	assert.Equal(t, float64(5), line["size"])
}

func TestWithLogging_NothingWritten(t *testing.T) {
	var buf bytes.Buffer
	h := &Handler{logger: logger.Nop()}

	h.withLogging(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).
		ServeHTTP(httptest.NewRecorder(), requestWithLogger(http.MethodGet, "/", &buf))

	line := decodeLogLine(t, &buf)
	assert.Equal(t, float64(0), line["status"])
}

func TestWithLogging_PanicNotSuppressed(t *testing.T) {
	h := &Handler{logger: logger.Nop()}

	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})

	assert.Panics(t, func() {
		h.withLogging(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestWithLogging_NoLoggerInContext(t *testing.T) {
	h := &Handler{logger: logger.Nop()}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	rec := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		h.withLogging(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusAccepted, rec.Code)
}
