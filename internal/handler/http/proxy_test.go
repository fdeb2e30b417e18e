// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MKhiriev/go-jobcrm-sync/internal/adapter"
	"github.com/MKhiriev/go-jobcrm-sync/internal/mock"
	"github.com/MKhiriev/go-jobcrm-sync/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// ─────────────────────────────────────────────
// Intercepted requests
// ─────────────────────────────────────────────

func TestProxy_WritesRoutedResponse(t *testing.T) {
	f := newWorkerFixture(t, nil)
	f.router.RouteFunc = func(_ context.Context, req service.RouteRequest) (service.RouteResult, error) {
		return service.RouteResult{
			Rule:   "backend-api",
			Source: service.SourceFallback,
			Response: adapter.UpstreamResponse{
				Status: http.StatusOK,
				Header: http.Header{
					"Content-Type":      {"application/json"},
					"Connection":        {"keep-alive"},
					"Transfer-Encoding": {"chunked"},
				},
				Body: []byte(`[]`),
			},
		}, nil
	}

	req := httptest.NewRequest(http.MethodGet, "https://api.jobcrm.test/companies", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	f.handler.proxy(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `[]`, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "2", rec.Header().Get("Content-Length"))
	assert.Equal(t, service.SourceFallback, rec.Header().Get(SourceHeader))
	assert.Empty(t, rec.Header().Get("Connection"))
	assert.Empty(t, rec.Header().Get("Transfer-Encoding"))

	require.Len(t, f.router.requests, 1)
	assert.Equal(t, "application/json", f.router.requests[0].Header.Get("Accept"))
}

func TestProxy_KeepsUpstreamStatus(t *testing.T) {
	f := newWorkerFixture(t, nil)
	f.router.RouteFunc = func(context.Context, service.RouteRequest) (service.RouteResult, error) {
		return service.RouteResult{
			Source:   service.SourceNetwork,
			Response: adapter.UpstreamResponse{Status: http.StatusNotFound, Body: []byte("missing")},
		}, nil
	}

	rec := httptest.NewRecorder()
	f.handler.proxy(rec, httptest.NewRequest(http.MethodGet, "/assets/app.js", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "missing", rec.Body.String())
}

func TestProxy_RoutingErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "network and cache missed", err: fmt.Errorf("%w: dial tcp: connection refused", service.ErrFetchFailed), wantStatus: http.StatusBadGateway},
		{name: "interception panicked", err: fmt.Errorf("%w: boom", service.ErrInterceptionFailed), wantStatus: http.StatusServiceUnavailable},
		{name: "unexpected", err: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newWorkerFixture(t, nil)
			f.router.RouteFunc = func(context.Context, service.RouteRequest) (service.RouteResult, error) {
				return service.RouteResult{}, tt.err
			}

			rec := httptest.NewRecorder()
			f.handler.proxy(rec, httptest.NewRequest(http.MethodGet, "/jobs", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Empty(t, rec.Header().Get(SourceHeader))
		})
	}
}

// ─────────────────────────────────────────────
// Pass-through
// ─────────────────────────────────────────────

func notIntercepted(context.Context, service.RouteRequest) (service.RouteResult, error) {
	return service.RouteResult{}, service.ErrNotIntercepted
}

func TestProxy_PassThroughForwardsRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mock.NewMockFetcher(ctrl)
	fetcher.EXPECT().
		Fetch(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req adapter.UpstreamRequest) (adapter.UpstreamResponse, error) {
			assert.Equal(t, http.MethodPost, req.Method)
			assert.Equal(t, testAppOrigin+"/api/notes?draft=1", req.URL)
			assert.JSONEq(t, `{"text":"call back"}`, string(req.Body))
			assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
			assert.Empty(t, req.Header.Get("Proxy-Authorization"))
			return adapter.UpstreamResponse{
				Status: http.StatusCreated,
				Header: http.Header{"Location": {"/api/notes/9"}},
				Body:   []byte(`{"id":"9"}`),
			}, nil
		})

	f := newWorkerFixture(t, fetcher)
	f.router.RouteFunc = notIntercepted

	req := httptest.NewRequest(http.MethodPost, "/api/notes?draft=1", strings.NewReader(`{"text":"call back"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Proxy-Authorization", "Basic Zm9vOmJhcg==")
	rec := httptest.NewRecorder()
	f.handler.proxy(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, `{"id":"9"}`, rec.Body.String())
	assert.Equal(t, "/api/notes/9", rec.Header().Get("Location"))
	assert.Equal(t, service.SourceNetwork, rec.Header().Get(SourceHeader))
}

func TestProxy_PassThroughFetchError(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mock.NewMockFetcher(ctrl)
	fetcher.EXPECT().
		Fetch(gomock.Any(), gomock.Any()).
		Return(adapter.UpstreamResponse{}, errors.New("dial tcp: connection refused"))

	f := newWorkerFixture(t, fetcher)
	f.router.RouteFunc = notIntercepted

	rec := httptest.NewRecorder()
	f.handler.proxy(rec, httptest.NewRequest(http.MethodGet, "https://cdn.example.com/lib.js", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"error":"failed to fetch"}`, rec.Body.String())
}

func TestProxy_PassThroughRejectsOversizedBody(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mock.NewMockFetcher(ctrl)
	fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Times(0)

	f := newWorkerFixture(t, fetcher)
	f.router.RouteFunc = notIntercepted

	body := strings.Repeat("x", maxProxyBody+1024)
	rec := httptest.NewRecorder()
	f.handler.proxy(rec, httptest.NewRequest(http.MethodPost, "https://api.jobcrm.test/upload", strings.NewReader(body)))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.JSONEq(t, `{"error":"request body too large"}`, rec.Body.String())
}

func TestProxy_PassThroughForwardsBodyAtLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mock.NewMockFetcher(ctrl)
	fetcher.EXPECT().
		Fetch(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req adapter.UpstreamRequest) (adapter.UpstreamResponse, error) {
			assert.Len(t, req.Body, maxProxyBody)
			return adapter.UpstreamResponse{Status: http.StatusCreated}, nil
		})

	f := newWorkerFixture(t, fetcher)
	f.router.RouteFunc = notIntercepted

	body := strings.Repeat("x", maxProxyBody)
	rec := httptest.NewRecorder()
	f.handler.proxy(rec, httptest.NewRequest(http.MethodPost, "https://api.jobcrm.test/upload", strings.NewReader(body)))

	assert.Equal(t, http.StatusCreated, rec.Code)
}

// ─────────────────────────────────────────────
// resolveTarget
// ─────────────────────────────────────────────

func TestResolveTarget(t *testing.T) {
	f := newWorkerFixture(t, nil)

	tests := []struct {
		name   string
		target string
		want   string
	}{
		{name: "root", target: "/", want: testAppOrigin + "/"},
		{name: "path and query", target: "/jobs/42?tab=notes", want: testAppOrigin + "/jobs/42?tab=notes"},
		{name: "escaped path", target: "/files/a%2Fb", want: testAppOrigin + "/files/a%2Fb"},
		{name: "absolute kept", target: "https://api.jobcrm.test/companies?page=2", want: "https://api.jobcrm.test/companies?page=2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := f.handler.resolveTarget(httptest.NewRequest(http.MethodGet, tt.target, nil))

			assert.Equal(t, tt.want, got.String())
		})
	}
}
