// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/go-jobcrm-sync/internal/app"
	"github.com/MKhiriev/go-jobcrm-sync/internal/logger"
	"github.com/MKhiriev/go-jobcrm-sync/internal/utils"
	"github.com/MKhiriev/go-jobcrm-sync/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) enqueueMutation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.EnqueueRequest
	if err := utils.ReadJSON(r, &req); err != nil {
		log.Err(err).Str("func", "*Handler.enqueueMutation").Msg("Invalid JSON was passed")
		utils.WriteError(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
		return
	}

	id, err := h.client.Queue.Enqueue(ctx, req.EntityType, req.Action, req.Payload, req.Priority)
	if err != nil {
		log.Err(err).Str("func", "*Handler.enqueueMutation").Msg("error enqueuing mutation")
		utils.WriteError(w, err.Error(), statusFromError(err))
		return
	}

	_, _ = utils.WriteJSON(w, models.EnqueueResponse{ID: id}, http.StatusCreated)
}

func (h *Handler) listMutations(w http.ResponseWriter, r *http.Request) {
	pending := h.client.Queue.ListPending(r.Context())
	if pending == nil {
		pending = []models.PendingMutation{}
	}
	_, _ = utils.WriteJSON(w, pending, http.StatusOK)
}

func (h *Handler) listUnsynced(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	unsynced, err := h.client.Queue.ListUnsynced(r.Context())
	if err != nil {
		log.Err(err).Str("func", "*Handler.listUnsynced").Msg("error listing unsynced mutations")
		utils.WriteError(w, "error listing unsynced mutations", statusFromError(err))
		return
	}
	if unsynced == nil {
		unsynced = []models.AbandonedMutation{}
	}

	_, _ = utils.WriteJSON(w, unsynced, http.StatusOK)
}

func (h *Handler) dismissUnsynced(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	id := chi.URLParam(r, "id")

	if err := h.client.Queue.DismissUnsynced(r.Context(), id); err != nil {
		log.Err(err).Str("func", "*Handler.dismissUnsynced").Str("id", id).Msg("error dismissing unsynced mutation")
		utils.WriteError(w, "error dismissing unsynced mutation", statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) retryUnsynced(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	id := chi.URLParam(r, "id")

	if err := h.client.Queue.RetryUnsynced(r.Context(), id); err != nil {
		log.Err(err).Str("func", "*Handler.retryUnsynced").Str("id", id).Msg("error retrying unsynced mutation")
		utils.WriteError(w, "error retrying unsynced mutation", statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
