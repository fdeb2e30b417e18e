// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MKhiriev/go-jobcrm-sync/internal/logger"
	"github.com/MKhiriev/go-jobcrm-sync/models"
	"nhooyr.io/websocket"
)

// lifecycleSocket serves one client of the worker's message channel.
// Messages read from the client are handed to the lifecycle manager;
// broadcasts of the manager are written back.
func (h *Handler) lifecycleSocket(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	conn, err := websocket.Accept(w, r, h.acceptOptions())
	if err != nil {
		log.Err(err).Str("func", "*Handler.lifecycleSocket").Msg("websocket upgrade failed")
		return
	}
	defer conn.CloseNow()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	broadcasts := make(chan models.LifecycleMessage, streamBuffer)
	unsubscribe := h.worker.Lifecycle.Subscribe(func(msg models.LifecycleMessage) {
		select {
		case broadcasts <- msg:
		default:
			log.Warn().Str("type", string(msg.Type)).Msg("lifecycle client is lagging, broadcast dropped")
		}
	})
	defer unsubscribe()

	go func() {
		defer cancel()
		h.readLifecycleMessages(ctx, conn)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-broadcasts:
			data, err := json.Marshal(msg)
			if err != nil {
				log.Err(err).Msg("error encoding lifecycle broadcast")
				continue
			}
			writeCtx, writeCancel := context.WithTimeout(ctx, streamWriteTimeout)
			err = conn.Write(writeCtx, websocket.MessageText, data)
			writeCancel()
			if err != nil {
				log.Debug().Err(err).Msg("lifecycle socket closed")
				return
			}
		}
	}
}

func (h *Handler) readLifecycleMessages(ctx context.Context, conn *websocket.Conn) {
	log := logger.FromContext(ctx)

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if status := websocket.CloseStatus(err); status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway && !errors.Is(err, context.Canceled) {
				log.Debug().Err(err).Msg("lifecycle socket read stopped")
			}
			return
		}

		var msg models.LifecycleMessage
		if err = json.Unmarshal(data, &msg); err != nil {
			log.Warn().Err(err).Msg("malformed lifecycle message ignored")
			continue
		}

		if err = h.worker.Lifecycle.HandleMessage(ctx, msg); err != nil {
			log.Err(err).Str("type", string(msg.Type)).Msg("error handling lifecycle message")
		}
	}
}
