// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-jobcrm-sync/internal/adapter"
	"github.com/MKhiriev/go-jobcrm-sync/internal/logger"
	"github.com/MKhiriev/go-jobcrm-sync/internal/store"
	"github.com/MKhiriev/go-jobcrm-sync/models"
)

// Sources of a routed response.
const (
	SourceNetwork  = "network"
	SourceCache    = "cache"
	SourceFallback = "fallback"
)

// RouteRequest is an intercepted request. URL is always absolute.
type RouteRequest struct {
	Method string
	URL    *url.URL
	Header http.Header
}

// Navigation reports whether the request loads a top-level document.
func (r RouteRequest) Navigation() bool {
	if r.Header.Get("Sec-Fetch-Mode") == "navigate" {
		return true
	}
	return r.Method == http.MethodGet && strings.Contains(r.Header.Get("Accept"), "text/html")
}

// RouteResult is the response chosen for an intercepted request.
type RouteResult struct {
	Rule     string
	Source   string
	Response adapter.UpstreamResponse
}

type requestRouter struct {
	rules   []RouteRule
	env     routeEnv
	origin  *url.URL
	fetcher adapter.Fetcher
	cache   store.ResponseCache
	now     func() time.Time

	mu      sync.RWMutex
	version string

	logger *logger.Logger
}

// NewRequestRouter creates a [RequestRouter] over rules. appOrigin is the
// origin of the app shell and backendHost the hostname of the CRM backend.
// The router intercepts nothing until a version is set.
func NewRequestRouter(rules []RouteRule, appOrigin, backendHost string, fetcher adapter.Fetcher, cache store.ResponseCache, logger *logger.Logger) (RequestRouter, error) {
	origin, err := url.Parse(appOrigin)
	if err != nil || origin.Scheme == "" || origin.Host == "" {
		return nil, fmt.Errorf("%w: app origin %q", ErrInvalidDataProvided, appOrigin)
	}
	if len(rules) == 0 {
		rules = DefaultRouteRules()
	}

	return &requestRouter{
		rules:   rules,
		env:     routeEnv{appHost: origin.Host, backendHost: backendHost},
		origin:  origin,
		fetcher: fetcher,
		cache:   cache,
		now:     time.Now,
		logger:  logger,
	}, nil
}

func (r *requestRouter) SetVersion(version string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.version = version
}

func (r *requestRouter) Version() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}

func (r *requestRouter) Route(ctx context.Context, req RouteRequest) (res RouteResult, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error().Str("func", "requestRouter.Route").Interface("panic", rec).
				Str("url", req.URL.String()).Msg("request interception panicked")
			res, err = RouteResult{}, fmt.Errorf("%w: %v", ErrInterceptionFailed, rec)
		}
	}()

	if req.Method != http.MethodGet || req.URL == nil {
		return RouteResult{}, ErrNotIntercepted
	}

	version := r.Version()
	if version == "" {
		return RouteResult{}, ErrNotIntercepted
	}

	rule, ok := r.classify(req)
	if !ok {
		return RouteResult{}, ErrNotIntercepted
	}

	switch rule.Strategy {
	case StrategyCacheFirst:
		res, err = r.cacheFirst(ctx, rule, req, version)
	case StrategyNetworkFirst:
		res, err = r.networkFirst(ctx, rule, req, version)
	default:
		return RouteResult{}, fmt.Errorf("%w: unknown strategy %q", ErrInterceptionFailed, rule.Strategy)
	}
	res.Rule = rule.Name
	return res, err
}

func (r *requestRouter) classify(req RouteRequest) (RouteRule, bool) {
	for _, rule := range r.rules {
		if rule.matches(req, r.env) {
			return rule, true
		}
	}
	return RouteRule{}, false
}

func (r *requestRouter) cacheFirst(ctx context.Context, rule RouteRule, req RouteRequest, version string) (RouteResult, error) {
	partition := models.PartitionName(rule.partitionBase(req.URL.Path), version)
	key := models.CacheKey(http.MethodGet, req.URL.String())

	if cached, ok := r.lookup(ctx, partition, key, rule.TTL); ok {
		return RouteResult{Source: SourceCache, Response: cached}, nil
	}

	resp, err := r.fetch(ctx, req)
	if err == nil {
		r.store(ctx, version, partition, key, resp)
		return RouteResult{Source: SourceNetwork, Response: resp}, nil
	}

	if rule.NavigationFallback != "" && req.Navigation() {
		if fallback, resolveErr := ResolveAppURL(r.origin, rule.NavigationFallback); resolveErr == nil {
			fallbackKey := models.CacheKey(http.MethodGet, fallback.String())
			if cached, ok := r.lookup(ctx, partition, fallbackKey, 0); ok {
				return RouteResult{Source: SourceFallback, Response: cached}, nil
			}
		}
	}

	return RouteResult{}, fmt.Errorf("%w: %w", ErrFetchFailed, err)
}

func (r *requestRouter) networkFirst(ctx context.Context, rule RouteRule, req RouteRequest, version string) (RouteResult, error) {
	partition := models.PartitionName(rule.partitionBase(req.URL.Path), version)
	key := models.CacheKey(http.MethodGet, req.URL.String())

	resp, err := r.fetch(ctx, req)
	if err == nil {
		r.store(ctx, version, partition, key, resp)
		return RouteResult{Source: SourceNetwork, Response: resp}, nil
	}

	if cached, ok := r.lookup(ctx, partition, key, rule.TTL); ok {
		return RouteResult{Source: SourceCache, Response: cached}, nil
	}

	if rule.isEmptyListPath(req.URL.Path) {
		return RouteResult{Source: SourceFallback, Response: emptyListResponse()}, nil
	}

	return RouteResult{}, fmt.Errorf("%w: %w", ErrFetchFailed, err)
}

func (r *requestRouter) fetch(ctx context.Context, req RouteRequest) (adapter.UpstreamResponse, error) {
	return r.fetcher.Fetch(ctx, adapter.UpstreamRequest{
		Method: http.MethodGet,
		URL:    req.URL.String(),
		Header: req.Header,
	})
}

func (r *requestRouter) lookup(ctx context.Context, partition, key string, ttl time.Duration) (adapter.UpstreamResponse, bool) {
	cached, err := r.cache.Get(ctx, partition, key)
	if err != nil {
		if !errors.Is(err, store.ErrResponseNotFound) {
			r.logger.Err(err).Str("func", "requestRouter.lookup").Str("key", key).Msg("cache lookup failed")
		}
		return adapter.UpstreamResponse{}, false
	}
	if ttl > 0 && r.now().Sub(cached.StoredAt) > ttl {
		return adapter.UpstreamResponse{}, false
	}

	return adapter.UpstreamResponse{Status: cached.Status, Header: cached.Header, Body: cached.Body}, true
}

// store writes only complete 200 responses, and only while version is still
// the active one so an evicted partition is never recreated.
func (r *requestRouter) store(ctx context.Context, version, partition, key string, resp adapter.UpstreamResponse) {
	if resp.Status != http.StatusOK {
		return
	}
	if current := r.Version(); current != version {
		r.logger.Debug().Str("partition", partition).Str("version", current).Msg("version changed mid-request, response not cached")
		return
	}

	err := r.cache.Put(ctx, models.CachedResponse{
		Partition: partition,
		Key:       key,
		Status:    resp.Status,
		Header:    resp.Header,
		Body:      resp.Body,
		StoredAt:  r.now(),
	})
	if err != nil {
		r.logger.Err(err).Str("func", "requestRouter.store").Str("partition", partition).Str("key", key).
			Msg("failed to cache response")
	}
}

func emptyListResponse() adapter.UpstreamResponse {
	return adapter.UpstreamResponse{
		Status: http.StatusOK,
		Header: http.Header{"Content-Type": {"application/json"}},
		Body:   []byte("[]"),
	}
}
