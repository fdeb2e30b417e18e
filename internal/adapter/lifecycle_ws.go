// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-jobcrm-sync/internal/logger"
	"github.com/MKhiriev/go-jobcrm-sync/internal/utils"
	"github.com/MKhiriev/go-jobcrm-sync/models"
	"nhooyr.io/websocket"
)

// LifecyclePath is where the worker serves its message channel.
const LifecyclePath = "/__sw/messages"

const (
	reconnectInitial = 500 * time.Millisecond
	reconnectMax     = 30 * time.Second
)

type wsLifecycleChannel struct {
	url    string
	logger *logger.Logger
}

// NewWSLifecycleChannel returns a [LifecycleChannel] talking to the worker at
// address (host:port or an http/ws URL).
func NewWSLifecycleChannel(address string, logger *logger.Logger) (LifecycleChannel, error) {
	base, err := normalizeBaseURL(address)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBaseURL, err)
	}

	wsURL := strings.Replace(base, "https://", "wss://", 1)
	wsURL = strings.Replace(wsURL, "http://", "ws://", 1)

	return &wsLifecycleChannel{url: wsURL + LifecyclePath, logger: logger}, nil
}

// Send implements [LifecycleChannel]. Each message uses its own short-lived
// connection.
func (c *wsLifecycleChannel) Send(ctx context.Context, msg models.LifecycleMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode lifecycle message: %w", err)
	}

	conn, _, err := websocket.Dial(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}
	defer conn.CloseNow()

	if err = conn.Write(ctx, websocket.MessageText, data); err != nil {
		return fmt.Errorf("websocket write: %w", err)
	}

	// the worker may drop the connection right after reading
	_ = conn.Close(websocket.StatusNormalClosure, "")
	return nil
}

// Listen implements [LifecycleChannel]. It returns nil once ctx is done.
func (c *wsLifecycleChannel) Listen(ctx context.Context, handle func(models.LifecycleMessage)) error {
	backoff := utils.NewBackoff(reconnectInitial, reconnectMax)

	for {
		err := c.listenOnce(ctx, handle, backoff)
		if ctx.Err() != nil {
			return nil
		}

		c.logger.Debug().Err(err).Str("func", "wsLifecycleChannel.Listen").
			Dur("retry_in", backoff.Current()).Msg("lifecycle channel disconnected")

		if backoff.Wait(ctx) != nil {
			return nil
		}
	}
}

func (c *wsLifecycleChannel) listenOnce(ctx context.Context, handle func(models.LifecycleMessage), backoff *utils.Backoff) error {
	conn, _, err := websocket.Dial(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}
	defer conn.CloseNow()

	backoff.Reset()

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure {
				return ErrChannelClosed
			}
			return fmt.Errorf("websocket read: %w", err)
		}

		var msg models.LifecycleMessage
		if err = json.Unmarshal(data, &msg); err != nil {
			c.logger.Warn().Err(err).Str("func", "wsLifecycleChannel.listenOnce").Msg("skipping malformed lifecycle message")
			continue
		}

		handle(msg)
	}
}

// IsChannelClosed reports whether err means the worker closed the channel
// normally.
func IsChannelClosed(err error) bool {
	return errors.Is(err, ErrChannelClosed)
}
