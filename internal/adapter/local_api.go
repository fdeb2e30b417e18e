// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-jobcrm-sync/internal/utils"
	"github.com/MKhiriev/go-jobcrm-sync/models"
)

// LocalAPI talks to the local API of a running client process. The CLI
// subcommands use it so they share the live queue and status of that
// process.
type LocalAPI struct {
	client *utils.HTTPClient
}

// NewLocalAPI builds a client for the local API listening on address.
func NewLocalAPI(address string, timeout time.Duration) (*LocalAPI, error) {
	baseURL, err := normalizeBaseURL(address)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBaseURL, err)
	}

	return &LocalAPI{client: utils.NewHTTPClient(utils.WithBaseURL(baseURL), utils.WithTimeout(timeout))}, nil
}

// Status returns the current status snapshot.
func (a *LocalAPI) Status(ctx context.Context) (models.StatusSnapshot, error) {
	var snapshot models.StatusSnapshot

	resp, err := a.client.R().SetContext(ctx).SetResult(&snapshot).Get("/api/status")
	if err != nil {
		return models.StatusSnapshot{}, err
	}
	if err = mapHTTPError(resp); err != nil {
		return models.StatusSnapshot{}, err
	}
	return snapshot, nil
}

// Sync triggers a drain and waits for its result.
func (a *LocalAPI) Sync(ctx context.Context) (models.DrainResult, error) {
	var result models.DrainResult

	resp, err := a.client.R().SetContext(ctx).SetResult(&result).Post("/api/sync")
	if err != nil {
		return models.DrainResult{}, err
	}
	if err = mapHTTPError(resp); err != nil {
		return models.DrainResult{}, err
	}
	return result, nil
}

// Export downloads the diagnostic export bundle as raw JSON.
func (a *LocalAPI) Export(ctx context.Context) ([]byte, error) {
	resp, err := a.client.R().SetContext(ctx).Get("/api/export")
	if err != nil {
		return nil, err
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}
	return resp.Body(), nil
}
