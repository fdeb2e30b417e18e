// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-jobcrm-sync/internal/service"
	"github.com/MKhiriev/go-jobcrm-sync/internal/store"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided:       http.StatusBadRequest,
	service.ErrValidationNoEntityType:    http.StatusBadRequest,
	service.ErrValidationInvalidAction:   http.StatusBadRequest,
	service.ErrValidationInvalidPriority: http.StatusBadRequest,
	service.ErrValidationInvalidPayload:  http.StatusBadRequest,
	service.ErrValidationNoEntityKey:     http.StatusBadRequest,
	service.ErrValidationNoKey:           http.StatusBadRequest,
	service.ErrUnknownMessage:            http.StatusBadRequest,
	service.ErrNoActiveVersion:           http.StatusConflict,
	service.ErrStoreUnavailable:          http.StatusServiceUnavailable,
	service.ErrReplayFailed:              http.StatusBadGateway,
	service.ErrFetchFailed:               http.StatusBadGateway,
	service.ErrInterceptionFailed:        http.StatusServiceUnavailable,
	ErrWorkerUnreachable:                 http.StatusServiceUnavailable,

	store.ErrMutationNotFound:      http.StatusNotFound,
	store.ErrMutationAlreadyExists: http.StatusConflict,

	store.ErrOpeningStore:         http.StatusServiceUnavailable,
	store.ErrBuildingSQLQuery:     http.StatusInternalServerError,
	store.ErrExecutingQuery:       http.StatusInternalServerError,
	store.ErrBeginningTransaction: http.StatusInternalServerError,
	store.ErrCommitingTransaction: http.StatusInternalServerError,
	store.ErrExecutingStatement:   http.StatusInternalServerError,
	store.ErrScanningRows:         http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
