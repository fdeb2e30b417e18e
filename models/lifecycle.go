// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// LifecycleMessageType enumerates messages exchanged between the client
// process and the request-interception worker.
type LifecycleMessageType string

const (
	// MessageSkipWaiting forces activation of an installed version
	// (client -> worker).
	MessageSkipWaiting LifecycleMessageType = "SKIP_WAITING"
	// MessageCacheNewRoute asks the worker to cache one more shell URL
	// (client -> worker).
	MessageCacheNewRoute LifecycleMessageType = "CACHE_NEW_ROUTE"
	// MessageUpdated is broadcast after a new version was activated
	// (worker -> clients).
	MessageUpdated LifecycleMessageType = "SW_UPDATED"
)

// LifecycleMessage is the wire form of a lifecycle message.
type LifecycleMessage struct {
	Type    LifecycleMessageType `json:"type"`
	Payload string               `json:"payload,omitempty"`
}

// ShellManifest lists the assets primed into the shell partition when a
// version is installed.
type ShellManifest struct {
	Version string   `json:"version" toml:"version"`
	Assets  []string `json:"assets" toml:"assets"`
}
