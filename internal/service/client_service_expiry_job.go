// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-jobcrm-sync/internal/config"
	"github.com/MKhiriev/go-jobcrm-sync/internal/logger"
)

type expiryJob struct {
	offlineData OfflineDataService
	interval    time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup

	logger *logger.Logger
}

// NewExpiryJob creates an expiryJob that calls offlineData.SweepExpired on a
// ticker. The job is idle until Start or Run is called.
func NewExpiryJob(offlineData OfflineDataService, interval time.Duration, logger *logger.Logger) ExpiryJob {
	return &expiryJob{offlineData: offlineData, interval: interval, logger: logger}
}

// Start implements ExpiryJob. It stops any previously running job, then
// launches a background goroutine that sweeps every interval. If interval is
// zero or negative it defaults to one hour. The goroutine exits when ctx is
// cancelled or Stop is called.
func (j *expiryJob) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = config.DefaultSweepInterval
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				if _, err := j.offlineData.SweepExpired(jobCtx); err != nil {
					j.logger.Err(err).Str("func", "expiryJob.Start").Msg("expiry sweep failed")
				}
			}
		}
	}()
}

// Stop implements ExpiryJob. It cancels the background goroutine's context
// and blocks until the goroutine has fully exited. Safe to call when the job
// is not running.
func (j *expiryJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}

// Run sweeps once, then keeps the ticker running until ctx is done.
func (j *expiryJob) Run(ctx context.Context) error {
	if _, err := j.offlineData.SweepExpired(ctx); err != nil {
		j.logger.Err(err).Str("func", "expiryJob.Run").Msg("startup expiry sweep failed")
	}

	j.Start(ctx, j.interval)
	<-ctx.Done()
	j.Stop()
	return nil
}
