// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"errors"
	"strings"

	"github.com/MKhiriev/go-jobcrm-sync/internal/service"
	"github.com/MKhiriev/go-jobcrm-sync/internal/store"
)

// ErrMissingServices is returned by [New] when the status services are not
// wired.
var ErrMissingServices = errors.New("tui: status services are not wired")

// humanizeError turns a service error into a line for the error overlay.
func humanizeError(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, store.ErrMutationNotFound):
		return "This change no longer exists."
	case errors.Is(err, service.ErrStoreUnavailable):
		return "Offline storage is unavailable. The client runs in online-only mode."
	}

	s := strings.ToLower(err.Error())
	if strings.Contains(s, "connection refused") ||
		strings.Contains(s, "dial tcp") ||
		strings.Contains(s, "no such host") ||
		strings.Contains(s, "network is unreachable") ||
		strings.Contains(s, "i/o timeout") ||
		strings.Contains(s, "context deadline exceeded") {
		return "No network or the backend is unreachable."
	}

	return err.Error()
}
