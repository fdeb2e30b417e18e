// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// ExportBundle is the diagnostic dump produced by the "export offline data"
// action. It is a backup affordance, not a sync format. Metrics lists recent
// drain runs, newest first.
type ExportBundle struct {
	Pending   []PendingMutation    `json:"pending"`
	Cached    []CachedEntityRecord `json:"cached"`
	Unsynced  []AbandonedMutation  `json:"unsynced"`
	Metrics   []SyncMetric         `json:"metrics"`
	Timestamp time.Time            `json:"timestamp"`
	Version   string               `json:"version"`
}
