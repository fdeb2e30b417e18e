// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
	"strings"

	"github.com/MKhiriev/go-jobcrm-sync/internal/app"
	"github.com/MKhiriev/go-jobcrm-sync/internal/logger"
	"github.com/MKhiriev/go-jobcrm-sync/internal/utils"
	"github.com/MKhiriev/go-jobcrm-sync/models"
)

func (h *Handler) skipWaiting(w http.ResponseWriter, r *http.Request) {
	h.sendToWorker(w, r, models.LifecycleMessage{Type: models.MessageSkipWaiting})
}

func (h *Handler) cacheRoute(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req models.CacheRouteRequest
	if err := utils.ReadJSON(r, &req); err != nil {
		log.Err(err).Str("func", "*Handler.cacheRoute").Msg("Invalid JSON was passed")
		utils.WriteError(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		utils.WriteError(w, "url is required", http.StatusBadRequest)
		return
	}

	h.sendToWorker(w, r, models.LifecycleMessage{Type: models.MessageCacheNewRoute, Payload: req.URL})
}

func (h *Handler) sendToWorker(w http.ResponseWriter, r *http.Request, msg models.LifecycleMessage) {
	log := logger.FromRequest(r)

	if h.client.Lifecycle == nil {
		utils.WriteError(w, app.MsgWorkerUnavailable, statusFromError(ErrWorkerUnreachable))
		return
	}

	if err := h.client.Lifecycle.Send(r.Context(), msg); err != nil {
		log.Err(err).Str("func", "*Handler.sendToWorker").Str("type", string(msg.Type)).Msg("error sending lifecycle message")
		utils.WriteError(w, app.MsgWorkerUnavailable, http.StatusBadGateway)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}
