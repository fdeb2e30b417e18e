// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-jobcrm-sync/internal/logger"
	"golang.org/x/sync/errgroup"
)

type namedWorker struct {
	name   string
	worker Worker
}

// Workers runs a set of named workers. The first failure cancels the rest.
type Workers struct {
	workers []namedWorker
	logger  *logger.Logger
}

func NewWorkers(logger *logger.Logger) *Workers {
	return &Workers{logger: logger}
}

// Add registers w under name. Nil workers are skipped so optional parts of a
// process can be passed unconditionally.
func (w *Workers) Add(name string, worker Worker) *Workers {
	if worker == nil {
		return w
	}
	w.workers = append(w.workers, namedWorker{name: name, worker: worker})
	return w
}

// Len returns the number of registered workers.
func (w *Workers) Len() int {
	return len(w.workers)
}

// Run starts every worker and blocks until all of them returned. The
// returned error is the first failure, tagged with the worker's name.
func (w *Workers) Run(ctx context.Context) error {
	group, groupCtx := errgroup.WithContext(ctx)

	for _, nw := range w.workers {
		group.Go(func() (err error) {
			defer func() {
				if rec := recover(); rec != nil {
					err = fmt.Errorf("worker %s panicked: %v", nw.name, rec)
				}
			}()

			w.logger.Debug().Str("worker", nw.name).Msg("worker started")
			if err = nw.worker.Run(groupCtx); err != nil {
				w.logger.Err(err).Str("worker", nw.name).Msg("worker failed")
				return fmt.Errorf("worker %s: %w", nw.name, err)
			}
			w.logger.Debug().Str("worker", nw.name).Msg("worker stopped")
			return nil
		})
	}

	return group.Wait()
}
