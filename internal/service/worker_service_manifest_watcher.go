// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-jobcrm-sync/internal/logger"
	"github.com/MKhiriev/go-jobcrm-sync/models"
	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"
)

const manifestDebounce = 200 * time.Millisecond

type manifestWatcher struct {
	path      string
	lifecycle LifecycleManager
	debounce  time.Duration

	mu    sync.Mutex
	timer *time.Timer

	logger *logger.Logger
}

// NewManifestWatcher creates a [ManifestWatcher] for the manifest at path.
func NewManifestWatcher(path string, lifecycle LifecycleManager, logger *logger.Logger) ManifestWatcher {
	return &manifestWatcher{
		path:      filepath.Clean(path),
		lifecycle: lifecycle,
		debounce:  manifestDebounce,
		logger:    logger,
	}
}

// LoadManifest reads a shell manifest. Files ending in .toml are parsed as
// TOML, everything else as JSON.
func LoadManifest(path string) (models.ShellManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.ShellManifest{}, fmt.Errorf("read manifest: %w", err)
	}

	var manifest models.ShellManifest
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(data, &manifest)
	} else {
		err = json.Unmarshal(data, &manifest)
	}
	if err != nil {
		return models.ShellManifest{}, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}
	if strings.TrimSpace(manifest.Version) == "" {
		return models.ShellManifest{}, fmt.Errorf("%w: version is required", ErrInvalidManifest)
	}

	return manifest, nil
}

// Run installs the current manifest, then watches its directory and
// reinstalls after every write settles. Watching the directory keeps
// atomic-rename editors working.
func (w *manifestWatcher) Run(ctx context.Context) error {
	w.install(ctx)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create manifest watcher: %w", err)
	}
	defer watcher.Close()

	if err = watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}

	defer w.stopTimer()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.schedule(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Err(err).Str("func", "manifestWatcher.Run").Msg("manifest watcher error")
		}
	}
}

func (w *manifestWatcher) schedule(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.install(ctx)
	})
}

func (w *manifestWatcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
}

func (w *manifestWatcher) install(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	manifest, err := LoadManifest(w.path)
	if err != nil {
		w.logger.Warn().Err(err).Str("path", w.path).Msg("shell manifest not loaded")
		return
	}

	if err = w.lifecycle.Install(ctx, manifest); err != nil {
		w.logger.Err(err).Str("func", "manifestWatcher.install").Str("version", manifest.Version).Msg("install failed")
	}
}
