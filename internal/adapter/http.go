// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/MKhiriev/go-jobcrm-sync/internal/config"
	"github.com/MKhiriev/go-jobcrm-sync/internal/logger"
	"github.com/MKhiriev/go-jobcrm-sync/internal/utils"
	"github.com/MKhiriev/go-jobcrm-sync/models"
	"github.com/go-resty/resty/v2"
)

type httpBackendAdapter struct {
	client    *utils.HTTPClient
	resources map[string]string

	logger *logger.Logger
}

// NewHTTPBackendAdapter constructs the REST implementation of
// [BackendAdapter]. The base URL is normalised and validated, the request
// timeout applied, and the apikey and bearer headers attached to every
// request when they are configured.
//
// Returns an error if cfg.BaseURL is empty or cannot be parsed as a valid URL.
func NewHTTPBackendAdapter(cfg config.ClientBackend, logger *logger.Logger) (BackendAdapter, error) {
	baseURL, err := normalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBaseURL, err)
	}

	bearer := ""
	if token := strings.TrimSpace(cfg.Token); token != "" {
		bearer = "Bearer " + token
	}

	client := utils.NewHTTPClient(
		utils.WithBaseURL(baseURL),
		utils.WithTimeout(cfg.RequestTimeout),
		utils.WithHeader("apikey", strings.TrimSpace(cfg.APIKey)),
		utils.WithHeader("Authorization", bearer),
	)

	return &httpBackendAdapter{client: client, resources: cfg.Resources, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// Replay implements [BackendAdapter].
func (h *httpBackendAdapter) Replay(ctx context.Context, mutation models.PendingMutation) error {
	resource := h.resourcePath(mutation.EntityType)

	var (
		resp *resty.Response
		err  error
	)

	switch mutation.Action {
	case models.ActionCreate:
		resp, err = h.request(ctx).
			SetBody([]byte(mutation.Payload)).
			Post(resource)
	case models.ActionUpdate:
		var key string
		if key, err = naturalKey(mutation.Payload); err != nil {
			return err
		}
		resp, err = h.request(ctx).
			SetBody([]byte(mutation.Payload)).
			Patch(resource + "/" + url.PathEscape(key))
	case models.ActionDelete:
		var key string
		if key, err = naturalKey(mutation.Payload); err != nil {
			return err
		}
		resp, err = h.request(ctx).Delete(resource + "/" + url.PathEscape(key))
	default:
		return fmt.Errorf("%w: %q", ErrInvalidAction, mutation.Action)
	}

	if err != nil {
		h.logger.Debug().Err(err).Str("func", "httpBackendAdapter.Replay").
			Str("mutation_id", mutation.ID).Msg("replay request failed")
		return fmt.Errorf("%s %s request: %w", mutation.Action, mutation.EntityType, err)
	}

	return mapHTTPError(resp)
}

// Probe implements [BackendAdapter].
func (h *httpBackendAdapter) Probe(ctx context.Context, probeURL string) (ProbeResult, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Cache-Control", "no-store").
		Get(probeURL)
	if err != nil {
		return ProbeResult{}, fmt.Errorf("probe request: %w", err)
	}

	return ProbeResult{
		Status: resp.StatusCode(),
		RTT:    resp.Time(),
		Bytes:  int64(len(resp.Body())),
	}, nil
}

func (h *httpBackendAdapter) request(ctx context.Context) *resty.Request {
	return h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Prefer", "return=minimal")
}

func (h *httpBackendAdapter) resourcePath(entityType string) string {
	if p, ok := h.resources[entityType]; ok && p != "" {
		return "/" + strings.Trim(p, "/")
	}
	return "/" + entityType + "s"
}

// naturalKey reads the "id" field of a payload. Strings and numbers are both
// accepted.
func naturalKey(payload json.RawMessage) (string, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return "", fmt.Errorf("%w: %w", ErrMissingNaturalKey, err)
	}

	raw, ok := fields["id"]
	if !ok {
		return "", ErrMissingNaturalKey
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return "", ErrMissingNaturalKey
		}
		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), nil
	}

	return "", fmt.Errorf("%w: unsupported id %s", ErrMissingNaturalKey, string(raw))
}
