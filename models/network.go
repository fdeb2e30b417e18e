// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// EffectiveType is the coarse link quality class of the current connection.
type EffectiveType string

const (
	EffectiveTypeUnknown EffectiveType = "unknown"
	EffectiveTypeSlow2G  EffectiveType = "slow-2g"
	EffectiveType2G      EffectiveType = "2g"
	EffectiveType3G      EffectiveType = "3g"
	EffectiveType4G      EffectiveType = "4g"
)

// SlowDownlinkMbps is the downlink below which a connection counts as slow.
const SlowDownlinkMbps = 0.5

// NetworkStatus is the normalised connectivity view. It is derived on every
// sample and never persisted.
type NetworkStatus struct {
	IsOnline         bool          `json:"isOnline"`
	EffectiveType    EffectiveType `json:"effectiveType"`
	DownlinkMbps     float64       `json:"downlinkMbps"`
	IsSlowConnection bool          `json:"isSlowConnection"`
}

// NetworkSignal is one raw connectivity observation, either pushed by the
// platform or produced by the reachability probe. Nil fields leave the
// previous value untouched.
type NetworkSignal struct {
	Online *bool `json:"online,omitempty"`

	// LinkQuality is nil when the signal carries no link-quality data.
	LinkQuality *LinkQuality `json:"linkQuality,omitempty"`
}

// LinkQuality mirrors the link-quality part of a platform signal.
type LinkQuality struct {
	EffectiveType EffectiveType `json:"effectiveType"`
	DownlinkMbps  float64       `json:"downlinkMbps"`
}

// IsSlow derives the slow-connection flag. A zero downlink means "not
// measured" and never marks the connection as slow on its own.
func IsSlow(effectiveType EffectiveType, downlinkMbps float64) bool {
	if effectiveType == EffectiveType2G || effectiveType == EffectiveTypeSlow2G {
		return true
	}
	return downlinkMbps > 0 && downlinkMbps < SlowDownlinkMbps
}
