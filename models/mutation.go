// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"time"
)

// Action is the kind of change a [PendingMutation] replays against the
// remote backend.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Valid reports whether a is one of the supported actions.
func (a Action) Valid() bool {
	switch a {
	case ActionCreate, ActionUpdate, ActionDelete:
		return true
	}
	return false
}

// Priority orders mutations inside the drain. Higher priorities are replayed
// first; inside one priority tier mutations keep their enqueue order.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank returns the sort weight of p. Unknown values rank as medium.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityLow:
		return 1
	default:
		return 2
	}
}

// Valid reports whether p is one of the supported priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// RetryCeiling is the number of failed replays after which a mutation is
// abandoned and removed from the queue.
const RetryCeiling = 5

// PendingMutation is a locally recorded create/update/delete that has not yet
// been confirmed by the remote backend.
type PendingMutation struct {
	// ID is generated at enqueue time as "<unix millis>-<random>-<entity type>"
	// and never changes afterwards.
	ID string `json:"id"`

	// EntityType tags the logical resource (application, company, note...).
	EntityType string `json:"entityType"`

	// Action is the operation to replay.
	Action Action `json:"action"`

	// Payload is the request body sent to the backend. For update and delete
	// the natural key is read from its "id" field.
	Payload json.RawMessage `json:"payload"`

	// Priority defaults to medium.
	Priority Priority `json:"priority"`

	// EnqueuedAt is the FIFO key inside a priority tier.
	EnqueuedAt time.Time `json:"enqueuedAt"`

	// RetryCount grows by one on every failed replay.
	RetryCount int `json:"retryCount"`
}

// Exhausted reports whether the mutation reached the retry ceiling.
func (m PendingMutation) Exhausted() bool {
	return m.RetryCount >= RetryCeiling
}

// AbandonedMutation is a mutation dropped from the queue after reaching the
// retry ceiling. It stays visible to the user as an unsynced change.
type AbandonedMutation struct {
	PendingMutation
	AbandonedAt time.Time `json:"abandonedAt"`
	LastError   string    `json:"lastError,omitempty"`
}
