// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-jobcrm-sync/internal/logger"
	"github.com/MKhiriev/go-jobcrm-sync/internal/store"
	"github.com/MKhiriev/go-jobcrm-sync/models"
)

type offlineDataService struct {
	entities   store.EntityRepository
	defaultTTL time.Duration
	now        func() time.Time

	logger *logger.Logger
}

// NewOfflineDataService creates an [OfflineDataService]. With nil storages
// writes are dropped and reads return nothing.
func NewOfflineDataService(storages *store.Storages, defaultTTL time.Duration, logger *logger.Logger) OfflineDataService {
	s := &offlineDataService{defaultTTL: defaultTTL, now: time.Now, logger: logger}
	if storages != nil {
		s.entities = storages.Entities
	}
	return s
}

func (s *offlineDataService) SaveOfflineData(ctx context.Context, entityType, key string, payload json.RawMessage, ttl time.Duration) error {
	entityType = strings.TrimSpace(entityType)
	key = strings.TrimSpace(key)
	if entityType == "" {
		return ErrValidationNoEntityType
	}
	if key == "" {
		return ErrValidationNoKey
	}
	if !json.Valid(payload) {
		return ErrValidationInvalidPayload
	}

	if s.entities == nil {
		s.logger.Debug().Str("entity_type", entityType).Msg("offline store unavailable, record not cached")
		return nil
	}

	if ttl <= 0 {
		ttl = s.defaultTTL
	}

	now := s.now()
	record := models.CachedEntityRecord{
		ID:           models.EntityRecordID(entityType, key),
		EntityType:   entityType,
		Payload:      payload,
		LastModified: now,
		ExpiresAt:    now.Add(ttl),
	}

	if err := s.entities.Put(ctx, record); err != nil {
		return fmt.Errorf("save offline data %s: %w", record.ID, err)
	}
	return nil
}

func (s *offlineDataService) GetOfflineData(ctx context.Context, entityType string) ([]models.CachedEntityRecord, error) {
	if s.entities == nil {
		return []models.CachedEntityRecord{}, nil
	}

	records, err := s.entities.GetAll(ctx, store.EntityFilter{
		EntityType: strings.TrimSpace(entityType),
		LiveAt:     s.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("get offline data: %w", err)
	}
	return records, nil
}

func (s *offlineDataService) ClearOfflineData(ctx context.Context) error {
	if s.entities == nil {
		return nil
	}

	if err := s.entities.Clear(ctx); err != nil {
		return fmt.Errorf("clear offline data: %w", err)
	}
	return nil
}

func (s *offlineDataService) SweepExpired(ctx context.Context) (int64, error) {
	if s.entities == nil {
		return 0, nil
	}

	n, err := s.entities.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("sweep expired offline data: %w", err)
	}
	if n > 0 {
		s.logger.Info().Int64("deleted", n).Msg("expired offline records swept")
	}
	return n, nil
}
