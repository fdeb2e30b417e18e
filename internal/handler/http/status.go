// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/MKhiriev/go-jobcrm-sync/internal/app"
	"github.com/MKhiriev/go-jobcrm-sync/internal/logger"
	"github.com/MKhiriev/go-jobcrm-sync/internal/utils"
	"github.com/MKhiriev/go-jobcrm-sync/models"
	"nhooyr.io/websocket"
)

const (
	streamBuffer       = 32
	streamWriteTimeout = 5 * time.Second
)

func (h *Handler) getStatus(w http.ResponseWriter, r *http.Request) {
	_, _ = utils.WriteJSON(w, h.client.Status.Snapshot(), http.StatusOK)
}

func (h *Handler) triggerSync(w http.ResponseWriter, r *http.Request) {
	result := h.client.Status.TriggerSyncNow(r.Context())
	_, _ = utils.WriteJSON(w, result, http.StatusOK)
}

func (h *Handler) observeNetwork(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var signal models.NetworkSignal
	if err := utils.ReadJSON(r, &signal); err != nil {
		log.Err(err).Str("func", "*Handler.observeNetwork").Msg("Invalid JSON was passed")
		utils.WriteError(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
		return
	}

	h.client.Network.Observe(r.Context(), signal)
	_, _ = utils.WriteJSON(w, h.client.Network.Status(), http.StatusOK)
}

// statusStream pushes the current snapshot, then every snapshot change and
// notification, until the client goes away.
func (h *Handler) statusStream(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	conn, err := websocket.Accept(w, r, h.acceptOptions())
	if err != nil {
		log.Err(err).Str("func", "*Handler.statusStream").Msg("websocket upgrade failed")
		return
	}
	defer conn.CloseNow()

	events := make(chan models.StatusEvent, streamBuffer)
	push := func(ev models.StatusEvent) {
		select {
		case events <- ev:
		default:
			log.Warn().Str("type", string(ev.Type)).Msg("status stream is lagging, event dropped")
		}
	}

	unsubscribeStatus := h.client.Status.Subscribe(func(s models.StatusSnapshot) {
		push(models.StatusEvent{Type: models.StatusEventSnapshot, Status: &s})
	})
	defer unsubscribeStatus()

	unsubscribeNotes := h.client.Notifier.Subscribe(func(n models.Notification) {
		push(models.StatusEvent{Type: models.StatusEventNotification, Notification: &n})
	})
	defer unsubscribeNotes()

	// the stream is write-only, CloseRead surfaces the client's close
	ctx := conn.CloseRead(r.Context())

	snapshot := h.client.Status.Snapshot()
	if err = writeEvent(ctx, conn, models.StatusEvent{Type: models.StatusEventSnapshot, Status: &snapshot}); err != nil {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			if err = writeEvent(ctx, conn, ev); err != nil {
				log.Debug().Err(err).Msg("status stream closed")
				return
			}
		}
	}
}

func writeEvent(ctx context.Context, conn *websocket.Conn, ev models.StatusEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, streamWriteTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, data)
}
