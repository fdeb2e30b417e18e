// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import "github.com/MKhiriev/go-jobcrm-sync/models"

type snapshotMsg models.StatusSnapshot

type notificationMsg models.Notification

type syncDoneMsg struct {
	result models.DrainResult
}

type unsyncedLoadedMsg struct {
	items []models.AbandonedMutation
	err   error
}

type actionDoneMsg struct {
	action string
	err    error
}
