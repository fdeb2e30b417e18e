// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/MKhiriev/go-jobcrm-sync/internal/store"
	"github.com/MKhiriev/go-jobcrm-sync/models"
)

// exportedMetrics is how many recent drain runs an export carries.
const exportedMetrics = 20

type exportService struct {
	queue       MutationQueue
	offlineData OfflineDataService
	appInfo     AppInfoService
	metrics     store.MetricRepository
	now         func() time.Time
}

// NewExportService creates an [ExportService]. storages may be nil, in which
// case the bundle carries no drain history.
func NewExportService(queue MutationQueue, offlineData OfflineDataService, appInfo AppInfoService, storages *store.Storages) ExportService {
	s := &exportService{queue: queue, offlineData: offlineData, appInfo: appInfo, now: time.Now}
	if storages != nil {
		s.metrics = storages.Metrics
	}
	return s
}

// Export gathers the pending queue, the live cached records, the unsynced
// changes and the most recent drain runs into one bundle.
func (s *exportService) Export(ctx context.Context) (models.ExportBundle, error) {
	if err := s.queue.Load(ctx); err != nil {
		return models.ExportBundle{}, fmt.Errorf("export: %w", err)
	}

	cached, err := s.offlineData.GetOfflineData(ctx, "")
	if err != nil {
		return models.ExportBundle{}, fmt.Errorf("export: %w", err)
	}

	unsynced, err := s.queue.ListUnsynced(ctx)
	if err != nil {
		return models.ExportBundle{}, fmt.Errorf("export: %w", err)
	}

	metrics := make([]models.SyncMetric, 0)
	if s.metrics != nil {
		metrics, err = s.metrics.GetAll(ctx, exportedMetrics)
		if err != nil {
			return models.ExportBundle{}, fmt.Errorf("export: %w", err)
		}
	}

	return models.ExportBundle{
		Pending:   s.queue.ListPending(ctx),
		Cached:    cached,
		Unsynced:  unsynced,
		Metrics:   metrics,
		Timestamp: s.now().UTC(),
		Version:   s.appInfo.GetAppVersion(ctx),
	}, nil
}

// ExportFileName names an export written at t.
func ExportFileName(t time.Time) string {
	return "offline-data-" + strconv.FormatInt(t.UnixMilli(), 10) + ".json"
}
