// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import "errors"

var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrBadGateway          = errors.New("bad gateway")
	ErrInternalServerError = errors.New("internal server error")
	ErrServerError         = errors.New("server error")
	ErrUnexpectedStatus    = errors.New("unexpected status")

	ErrMissingNaturalKey = errors.New("payload has no id")
	ErrInvalidAction     = errors.New("invalid mutation action")
	ErrInvalidBaseURL    = errors.New("invalid base url")
	ErrChannelClosed     = errors.New("lifecycle channel closed")
)
