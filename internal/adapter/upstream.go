// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/MKhiriev/go-jobcrm-sync/internal/logger"
	"github.com/MKhiriev/go-jobcrm-sync/internal/utils"
)

// hop-by-hop headers are never forwarded in either direction.
var hopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Proxy-Connection",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

type httpFetcher struct {
	client *utils.HTTPClient
	logger *logger.Logger
}

// NewHTTPFetcher builds the [Fetcher] used by the worker. Redirects are not
// followed so the caller sees them exactly as the origin sent them.
func NewHTTPFetcher(timeout time.Duration, logger *logger.Logger) Fetcher {
	client := utils.NewHTTPClient(
		utils.WithTimeout(timeout),
		utils.WithoutRedirects(),
	)
	return &httpFetcher{client: client, logger: logger}
}

// Fetch implements [Fetcher]. Non-2xx statuses are returned as responses,
// not errors; only transport failures produce an error.
func (f *httpFetcher) Fetch(ctx context.Context, req UpstreamRequest) (UpstreamResponse, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	r := f.client.R().SetContext(ctx)
	for name, values := range req.Header {
		for _, v := range values {
			r.Header.Add(name, v)
		}
	}
	stripHopHeaders(r.Header)
	// body is buffered as-is, let the origin decide on encoding
	r.Header.Del("Accept-Encoding")
	if len(req.Body) > 0 {
		r.SetBody(req.Body)
	}

	resp, err := r.Execute(method, req.URL)
	if err != nil {
		f.logger.Debug().Err(err).Str("func", "httpFetcher.Fetch").Str("url", req.URL).Msg("upstream fetch failed")
		return UpstreamResponse{}, fmt.Errorf("fetch %s: %w", req.URL, err)
	}

	header := resp.Header().Clone()
	stripHopHeaders(header)

	return UpstreamResponse{
		Status: resp.StatusCode(),
		Header: header,
		Body:   resp.Body(),
	}, nil
}

func stripHopHeaders(h http.Header) {
	for _, name := range hopHeaders {
		h.Del(name)
	}
}
