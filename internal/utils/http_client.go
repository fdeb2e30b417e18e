// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPClient is a wrapper around the resty.Client HTTP client.
// It embeds *resty.Client to expose all of its methods directly.
//
// Example usage:
//
//	client := utils.NewHTTPClient(utils.WithBaseURL("https://api.example.com"))
//	resp, err := client.R().Get("/applications")
type HTTPClient struct {
	*resty.Client
}

// HTTPClientOption customises a client built by [NewHTTPClient].
type HTTPClientOption func(c *resty.Client)

// WithBaseURL sets the base URL relative request paths are resolved against.
func WithBaseURL(baseURL string) HTTPClientOption {
	return func(c *resty.Client) {
		c.SetBaseURL(baseURL)
	}
}

// WithTimeout sets the transport timeout of every request.
func WithTimeout(timeout time.Duration) HTTPClientOption {
	return func(c *resty.Client) {
		if timeout > 0 {
			c.SetTimeout(timeout)
		}
	}
}

// WithHeader sets a header on every request when value is non-empty.
func WithHeader(name, value string) HTTPClientOption {
	return func(c *resty.Client) {
		if value != "" {
			c.SetHeader(name, value)
		}
	}
}

// WithoutRedirects makes the client return 3xx responses as-is, body
// included.
func WithoutRedirects() HTTPClientOption {
	return func(c *resty.Client) {
		c.SetRedirectPolicy(resty.RedirectPolicyFunc(func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}))
	}
}

// NewHTTPClient creates and returns a new HTTPClient instance. Each call
// returns an independent client with its own connection pool.
func NewHTTPClient(opts ...HTTPClientOption) *HTTPClient {
	client := resty.New()
	for _, opt := range opts {
		opt(client)
	}
	return &HTTPClient{Client: client}
}
