// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
	"time"

	"github.com/MKhiriev/go-jobcrm-sync/internal/app"
	"github.com/MKhiriev/go-jobcrm-sync/internal/logger"
	"github.com/MKhiriev/go-jobcrm-sync/internal/utils"
	"github.com/MKhiriev/go-jobcrm-sync/models"
)

func (h *Handler) getOfflineData(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	entityType := r.URL.Query().Get("entityType")

	records, err := h.client.OfflineData.GetOfflineData(r.Context(), entityType)
	if err != nil {
		log.Err(err).Str("func", "*Handler.getOfflineData").Msg("error reading offline data")
		utils.WriteError(w, "error reading offline data", statusFromError(err))
		return
	}
	if records == nil {
		records = []models.CachedEntityRecord{}
	}

	_, _ = utils.WriteJSON(w, records, http.StatusOK)
}

func (h *Handler) saveOfflineData(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req models.OfflineDataRequest
	if err := utils.ReadJSON(r, &req); err != nil {
		log.Err(err).Str("func", "*Handler.saveOfflineData").Msg("Invalid JSON was passed")
		utils.WriteError(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
		return
	}

	ttl := time.Duration(req.TTLSeconds) * time.Second
	if err := h.client.OfflineData.SaveOfflineData(r.Context(), req.EntityType, req.Key, req.Payload, ttl); err != nil {
		log.Err(err).Str("func", "*Handler.saveOfflineData").Msg("error saving offline data")
		utils.WriteError(w, err.Error(), statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) clearOfflineData(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	if err := h.client.OfflineData.ClearOfflineData(r.Context()); err != nil {
		log.Err(err).Str("func", "*Handler.clearOfflineData").Msg("error clearing offline data")
		utils.WriteError(w, "error clearing offline data", statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
