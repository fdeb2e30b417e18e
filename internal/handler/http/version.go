// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/go-jobcrm-sync/internal/service"
)

func (h *Handler) appInfo() service.AppInfoService {
	if h.client != nil {
		return h.client.AppInfo
	}
	return h.worker.AppInfo
}

func (h *Handler) getVersion(w http.ResponseWriter, r *http.Request) {
	version := h.appInfo().GetAppVersion(r.Context())

	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte(version))
}
