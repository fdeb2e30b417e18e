// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"time"
)

// CachedEntityRecord is a snapshot of backend data kept on the device for
// offline reads.
type CachedEntityRecord struct {
	// ID is composed as "<entity type>:<natural key>", see [EntityRecordID].
	ID           string          `json:"id"`
	EntityType   string          `json:"entityType"`
	Payload      json.RawMessage `json:"payload"`
	LastModified time.Time       `json:"lastModified"`
	ExpiresAt    time.Time       `json:"expiresAt"`
}

// Expired reports whether the record must be hidden from reads at now.
func (r CachedEntityRecord) Expired(now time.Time) bool {
	return !r.ExpiresAt.After(now)
}

// EntityRecordID builds the composite identifier of a cached entity.
func EntityRecordID(entityType, key string) string {
	return entityType + ":" + key
}
