// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used across the
// client API handlers, the worker proxy and the notifier.
//
// Msg* constants are written into HTTP response bodies or log entries to
// describe the outcome of an operation. Toast* constants are format strings
// of user-visible notifications.
package app

const (
	// MsgInvalidDataProvided is returned when the request body cannot be
	// decoded or fails basic validation (e.g. missing required fields).
	MsgInvalidDataProvided = "invalid data provided"

	// MsgInternalServerError is returned when an unexpected failure occurs
	// that the caller cannot resolve.
	MsgInternalServerError = "internal server error"

	// MsgMutationNotFound is returned when an unsynced change id is unknown.
	MsgMutationNotFound = "mutation not found"

	// MsgStoreUnavailable is returned by offline endpoints while the client
	// runs in online-only mode.
	MsgStoreUnavailable = "offline storage unavailable"

	// MsgWorkerUnavailable is returned when the lifecycle channel to the
	// worker process is not connected.
	MsgWorkerUnavailable = "worker unavailable"

	// MsgServiceUnavailable is the body of the proxy's last-resort 503.
	MsgServiceUnavailable = "service unavailable"

	// MsgUpstreamFailed is the body of a proxied request that failed on the
	// network and had no cached fallback.
	MsgUpstreamFailed = "failed to fetch"

	// MsgRequestTooLarge is returned when a pass-through body exceeds the
	// proxy limit.
	MsgRequestTooLarge = "request body too large"
)

const (
	// ToastQueued acknowledges a mutation recorded while offline.
	ToastQueued = "Saved offline. Your change will sync when you are back online."

	// ToastSynced reports a drain success count.
	ToastSynced = "%d change(s) synced."

	// ToastSyncFailed reports an aggregate drain failure count.
	ToastSyncFailed = "%d change(s) could not be synced and will be retried."

	// ToastAbandoned reports a mutation dropped after the retry ceiling.
	ToastAbandoned = "A change could not be synced after %d attempts and needs your attention."

	// ToastNewVersion announces an activated shell version.
	ToastNewVersion = "A new version (%s) is available."

	// ToastOnline and ToastOffline report connectivity transitions.
	ToastOnline  = "You are back online."
	ToastOffline = "You are offline. Changes will be saved locally."
)
