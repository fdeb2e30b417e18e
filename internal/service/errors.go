// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import "errors"

var (
	ErrInvalidDataProvided   = errors.New("invalid data provided")
	ErrVersionIsNotSpecified = errors.New("app version is not specified")

	ErrValidationNoEntityType    = errors.New("no entity type provided")
	ErrValidationInvalidAction   = errors.New("invalid mutation action")
	ErrValidationInvalidPriority = errors.New("invalid mutation priority")
	ErrValidationInvalidPayload  = errors.New("payload must be a JSON object")
	ErrValidationNoEntityKey     = errors.New("payload has no id for update or delete")
	ErrValidationNoKey           = errors.New("no natural key provided")

	ErrStoreUnavailable = errors.New("offline store unavailable")
	ErrReplayFailed     = errors.New("replay failed")

	ErrNotIntercepted     = errors.New("request is not intercepted")
	ErrFetchFailed        = errors.New("failed to fetch")
	ErrInterceptionFailed = errors.New("request interception failed")

	ErrInvalidManifest = errors.New("invalid shell manifest")
	ErrInstallFailed   = errors.New("install failed")
	ErrNoActiveVersion = errors.New("no active version")
	ErrUnknownMessage  = errors.New("unknown lifecycle message")
)
