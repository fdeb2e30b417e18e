// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "encoding/json"

// EnqueueRequest is the body of POST /api/mutations.
type EnqueueRequest struct {
	EntityType string          `json:"entityType"`
	Action     Action          `json:"action"`
	Payload    json.RawMessage `json:"payload"`
	Priority   Priority        `json:"priority,omitempty"`
}

// EnqueueResponse carries the id assigned to a queued mutation.
type EnqueueResponse struct {
	ID string `json:"id"`
}

// OfflineDataRequest is the body of PUT /api/offline-data.
type OfflineDataRequest struct {
	EntityType string          `json:"entityType"`
	Key        string          `json:"key"`
	Payload    json.RawMessage `json:"payload"`
	// TTLSeconds falls back to the configured default when zero.
	TTLSeconds int64 `json:"ttlSeconds,omitempty"`
}

// CacheRouteRequest is the body of POST /api/worker/cache-route.
type CacheRouteRequest struct {
	URL string `json:"url"`
}

// StatusEventType tags a frame of the status stream.
type StatusEventType string

const (
	StatusEventSnapshot     StatusEventType = "status"
	StatusEventNotification StatusEventType = "notification"
)

// StatusEvent is one frame of the status stream. Exactly one of Status and
// Notification is set.
type StatusEvent struct {
	Type         StatusEventType `json:"type"`
	Status       *StatusSnapshot `json:"status,omitempty"`
	Notification *Notification   `json:"notification,omitempty"`
}
