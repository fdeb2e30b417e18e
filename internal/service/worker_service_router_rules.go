// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"net/url"
	"path"
	"slices"
	"strings"
	"time"
)

// Strategy is the cache strategy applied to a matched request.
type Strategy string

const (
	// StrategyCacheFirst serves from the cache and falls back to the network,
	// writing successful responses through.
	StrategyCacheFirst Strategy = "cache-first"
	// StrategyNetworkFirst fetches from the network and falls back to the
	// cache when the network fails.
	StrategyNetworkFirst Strategy = "network-first"
)

// Partition base names of the default rules.
const (
	PartitionShell     = "shell"
	PartitionAPI       = "api"
	PartitionCandidacy = "candidacy"
	PartitionImages    = "images"
)

// RouteMatch selects requests for a rule. Host constraints must all hold;
// among the remaining criteria one match is enough, and a rule without any
// matches every request on the allowed hosts.
type RouteMatch struct {
	AppOrigin   bool
	BackendHost bool
	Hosts       []string

	Navigation     bool
	Extensions     []string
	Paths          []string
	PathPrefixes   []string
	AcceptPrefixes []string
}

// PartitionOverride stores responses whose path contains PathContains in
// Partition instead of the rule's default partition.
type PartitionOverride struct {
	PathContains string
	Partition    string
}

// RouteRule is one entry of the router's classification table.
type RouteRule struct {
	Name      string
	Partition string
	Strategy  Strategy
	Match     RouteMatch

	PartitionOverrides []PartitionOverride

	// EmptyListPaths answer 200 [] when both network and cache fail.
	EmptyListPaths []string

	// NavigationFallback is served from the cache for navigation requests
	// that fail entirely.
	NavigationFallback string

	// TTL bounds the age of cached entries. Zero keeps them until their
	// partition is evicted.
	TTL time.Duration
}

// DefaultRouteRules returns the built-in table, evaluated in order.
func DefaultRouteRules() []RouteRule {
	return []RouteRule{
		{
			Name:      "shell",
			Partition: PartitionShell,
			Strategy:  StrategyCacheFirst,
			Match: RouteMatch{
				AppOrigin:    true,
				Navigation:   true,
				Extensions:   []string{".js", ".css"},
				Paths:        []string{"/manifest.json", "/manifest.webmanifest"},
				PathPrefixes: []string{"/icons/"},
			},
			NavigationFallback: "/",
		},
		{
			Name:      "api",
			Partition: PartitionAPI,
			Strategy:  StrategyNetworkFirst,
			Match:     RouteMatch{BackendHost: true},
			PartitionOverrides: []PartitionOverride{
				{PathContains: "analytics", Partition: PartitionCandidacy},
				{PathContains: "applications", Partition: PartitionCandidacy},
			},
			EmptyListPaths: []string{"/applications", "/companies", "/analytics"},
		},
		{
			Name:      "images",
			Partition: PartitionImages,
			Strategy:  StrategyCacheFirst,
			Match: RouteMatch{
				Extensions:     []string{".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp", ".ico", ".avif"},
				AcceptPrefixes: []string{"image/"},
			},
			TTL: 30 * 24 * time.Hour,
		},
	}
}

// routeEnv carries the hosts host constraints are checked against.
type routeEnv struct {
	appHost     string
	backendHost string
}

func (r RouteRule) matches(req RouteRequest, env routeEnv) bool {
	m := r.Match
	u := req.URL

	if m.AppOrigin && !strings.EqualFold(u.Host, env.appHost) {
		return false
	}
	if m.BackendHost && (env.backendHost == "" || !strings.EqualFold(u.Hostname(), env.backendHost)) {
		return false
	}
	if len(m.Hosts) > 0 && !containsFold(m.Hosts, u.Hostname()) {
		return false
	}

	if !m.Navigation && len(m.Extensions) == 0 && len(m.Paths) == 0 &&
		len(m.PathPrefixes) == 0 && len(m.AcceptPrefixes) == 0 {
		return true
	}

	p := u.Path
	switch {
	case m.Navigation && req.Navigation():
		return true
	case len(m.Extensions) > 0 && containsFold(m.Extensions, path.Ext(p)):
		return true
	case slices.Contains(m.Paths, p):
		return true
	case hasAnyPrefix(p, m.PathPrefixes):
		return true
	case acceptsAny(req.Header.Get("Accept"), m.AcceptPrefixes):
		return true
	}
	return false
}

// partitionBase picks the partition base name for path.
func (r RouteRule) partitionBase(p string) string {
	for _, o := range r.PartitionOverrides {
		if strings.Contains(p, o.PathContains) {
			return o.Partition
		}
	}
	return r.Partition
}

func (r RouteRule) isEmptyListPath(p string) bool {
	p = strings.TrimRight(p, "/")
	for _, suffix := range r.EmptyListPaths {
		if p != "" && strings.HasSuffix(p, suffix) {
			return true
		}
	}
	return false
}

// ResolveAppURL resolves ref against the app origin the way cache keys of
// shell assets are built.
func ResolveAppURL(origin *url.URL, ref string) (*url.URL, error) {
	r, err := url.Parse(ref)
	if err != nil {
		return nil, err
	}
	return origin.ResolveReference(r), nil
}

func containsFold(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(item, v) {
			return true
		}
	}
	return false
}

func hasAnyPrefix(v string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(v, p) {
			return true
		}
	}
	return false
}

func acceptsAny(accept string, prefixes []string) bool {
	if accept == "" {
		return false
	}
	for _, part := range strings.Split(accept, ",") {
		mediaType := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if hasAnyPrefix(mediaType, prefixes) {
			return true
		}
	}
	return false
}
