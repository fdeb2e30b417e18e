// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"time"

	"github.com/MKhiriev/go-jobcrm-sync/models"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func toNanos(t time.Time) int64 {
	return t.UnixNano()
}

func fromNanos(n int64) time.Time {
	return time.Unix(0, n).UTC()
}

func scanMutation(row rowScanner) (models.PendingMutation, error) {
	var (
		m          models.PendingMutation
		action     string
		priority   string
		payload    []byte
		enqueuedAt int64
	)

	if err := row.Scan(&m.ID, &m.EntityType, &action, &payload, &priority, &enqueuedAt, &m.RetryCount); err != nil {
		return models.PendingMutation{}, err
	}

	m.Action = models.Action(action)
	m.Priority = models.Priority(priority)
	m.Payload = payload
	m.EnqueuedAt = fromNanos(enqueuedAt)

	return m, nil
}

func scanAbandoned(row rowScanner) (models.AbandonedMutation, error) {
	var (
		a           models.AbandonedMutation
		action      string
		priority    string
		payload     []byte
		enqueuedAt  int64
		abandonedAt int64
	)

	err := row.Scan(&a.ID, &a.EntityType, &action, &payload, &priority, &enqueuedAt, &a.RetryCount, &abandonedAt, &a.LastError)
	if err != nil {
		return models.AbandonedMutation{}, err
	}

	a.Action = models.Action(action)
	a.Priority = models.Priority(priority)
	a.Payload = payload
	a.EnqueuedAt = fromNanos(enqueuedAt)
	a.AbandonedAt = fromNanos(abandonedAt)

	return a, nil
}

func scanEntity(row rowScanner) (models.CachedEntityRecord, error) {
	var (
		r            models.CachedEntityRecord
		payload      []byte
		lastModified int64
		expiresAt    int64
	)

	if err := row.Scan(&r.ID, &r.EntityType, &payload, &lastModified, &expiresAt); err != nil {
		return models.CachedEntityRecord{}, err
	}

	r.Payload = payload
	r.LastModified = fromNanos(lastModified)
	r.ExpiresAt = fromNanos(expiresAt)

	return r, nil
}
