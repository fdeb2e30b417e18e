// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// StatusSnapshot is the read-only projection consumed by the UI.
type StatusSnapshot struct {
	IsOnline         bool    `json:"isOnline"`
	IsSlowConnection bool    `json:"isSlowConnection"`
	PendingCount     int     `json:"pendingCount"`
	IsSyncing        bool    `json:"isSyncing"`
	SyncProgress     float64 `json:"syncProgress"`
	UnsyncedCount    int     `json:"unsyncedCount"`
}

// NotificationKind classifies user-visible acknowledgments.
type NotificationKind string

const (
	NotificationQueued      NotificationKind = "queued"
	NotificationSynced      NotificationKind = "synced"
	NotificationSyncFailed  NotificationKind = "sync_failed"
	NotificationAbandoned   NotificationKind = "abandoned"
	NotificationNewVersion  NotificationKind = "new_version"
	NotificationOnlineState NotificationKind = "online_state"
)

// Notification is a toast-level, non-blocking message for the user.
type Notification struct {
	Kind       NotificationKind `json:"kind"`
	Message    string           `json:"message"`
	Count      int              `json:"count,omitempty"`
	MutationID string           `json:"mutationId,omitempty"`
	At         time.Time        `json:"at"`
}

// DrainResult summarises one drain run.
type DrainResult struct {
	Skipped   bool `json:"skipped"`
	Aborted   bool `json:"aborted"`
	Total     int  `json:"total"`
	Processed int  `json:"processed"`
	Succeeded int  `json:"succeeded"`
	Failed    int  `json:"failed"`
	Abandoned int  `json:"abandoned"`
}

// SyncMetric is the persisted record of one drain run.
type SyncMetric struct {
	ID         int64     `json:"id"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Total      int       `json:"total"`
	Succeeded  int       `json:"succeeded"`
	Failed     int       `json:"failed"`
	Abandoned  int       `json:"abandoned"`
	Aborted    bool      `json:"aborted"`
}
