// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/MKhiriev/go-jobcrm-sync/internal/adapter"
	"github.com/MKhiriev/go-jobcrm-sync/internal/app"
	"github.com/MKhiriev/go-jobcrm-sync/internal/logger"
	"github.com/MKhiriev/go-jobcrm-sync/internal/service"
	"github.com/MKhiriev/go-jobcrm-sync/internal/utils"
)

// SourceHeader tells the caller where a proxied response came from.
const SourceHeader = "X-Offline-Source"

const maxProxyBody = 10 << 20

var hopHeaders = []string{
	"Connection",
	"Proxy-Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// proxy routes every request the worker receives outside of its own
// endpoints. Intercepted GETs go through the request router, everything
// else passes through to the network untouched.
func (h *Handler) proxy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	target := h.resolveTarget(r)
	res, err := h.worker.Router.Route(ctx, service.RouteRequest{
		Method: r.Method,
		URL:    target,
		Header: r.Header,
	})

	switch {
	case err == nil:
		log.Debug().Str("rule", res.Rule).Str("source", res.Source).Str("url", target.String()).Msg("request intercepted")
		writeUpstream(w, res.Response, res.Source)
	case errors.Is(err, service.ErrNotIntercepted):
		h.passThrough(w, r, target)
	case errors.Is(err, service.ErrFetchFailed):
		log.Warn().Err(err).Str("url", target.String()).Msg("network and cache both missed")
		utils.WriteError(w, app.MsgUpstreamFailed, http.StatusBadGateway)
	default:
		log.Err(err).Str("func", "*Handler.proxy").Str("url", target.String()).Msg("request interception failed")
		utils.WriteError(w, app.MsgServiceUnavailable, statusFromError(err))
	}
}

func (h *Handler) passThrough(w http.ResponseWriter, r *http.Request, target *url.URL) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var body []byte
	if r.Body != nil {
		var err error
		body, err = io.ReadAll(http.MaxBytesReader(w, r.Body, maxProxyBody))
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			log.Warn().Int64("limit", tooLarge.Limit).Str("url", target.String()).Msg("pass-through body too large")
			utils.WriteError(w, app.MsgRequestTooLarge, http.StatusRequestEntityTooLarge)
			return
		}
		if err != nil {
			log.Err(err).Str("func", "*Handler.passThrough").Msg("error reading request body")
			utils.WriteError(w, "error reading request body", http.StatusBadRequest)
			return
		}
	}

	header := r.Header.Clone()
	removeHopHeaders(header)

	resp, err := h.fetcher.Fetch(ctx, adapter.UpstreamRequest{
		Method: r.Method,
		URL:    target.String(),
		Header: header,
		Body:   body,
	})
	if err != nil {
		log.Warn().Err(err).Str("method", r.Method).Str("url", target.String()).Msg("pass-through request failed")
		utils.WriteError(w, app.MsgUpstreamFailed, http.StatusBadGateway)
		return
	}

	writeUpstream(w, resp, service.SourceNetwork)
}

// resolveTarget returns the absolute URL of r. Proxy-form requests carry it
// already; origin-form requests are resolved against the app origin.
func (h *Handler) resolveTarget(r *http.Request) *url.URL {
	if r.URL.IsAbs() {
		target := *r.URL
		return &target
	}

	return h.origin.ResolveReference(&url.URL{
		Path:     r.URL.Path,
		RawPath:  r.URL.RawPath,
		RawQuery: r.URL.RawQuery,
	})
}

func writeUpstream(w http.ResponseWriter, resp adapter.UpstreamResponse, source string) {
	header := w.Header()
	for name, values := range resp.Header {
		for _, v := range values {
			header.Add(name, v)
		}
	}
	removeHopHeaders(header)
	header.Set("Content-Length", strconv.Itoa(len(resp.Body)))
	header.Set(SourceHeader, source)

	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write(resp.Body)
}

func removeHopHeaders(header http.Header) {
	for _, name := range hopHeaders {
		header.Del(name)
	}
}
