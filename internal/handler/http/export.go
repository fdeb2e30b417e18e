// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
	"time"

	"github.com/MKhiriev/go-jobcrm-sync/internal/logger"
	"github.com/MKhiriev/go-jobcrm-sync/internal/service"
	"github.com/MKhiriev/go-jobcrm-sync/internal/utils"
)

func (h *Handler) exportData(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	bundle, err := h.client.Export.Export(r.Context())
	if err != nil {
		log.Err(err).Str("func", "*Handler.exportData").Msg("error exporting offline data")
		utils.WriteError(w, "error exporting offline data", statusFromError(err))
		return
	}

	filename := service.ExportFileName(time.Now())
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	_, _ = utils.WriteJSON(w, bundle, http.StatusOK)
}
