// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MKhiriev/go-jobcrm-sync/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

// ── LoadManifest ─────────────────────────────────────────────────────────────

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "shell.json")
	writeFile(t, jsonPath, `{"version":"2026.03.1","assets":["/app.js","/app.css"]}`)

	tomlPath := filepath.Join(dir, "shell.toml")
	writeFile(t, tomlPath, "version = \"2026.03.2\"\nassets = [\"/app.js\"]\n")

	m, err := LoadManifest(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "2026.03.1", m.Version)
	assert.Equal(t, []string{"/app.js", "/app.css"}, m.Assets)

	m, err = LoadManifest(tomlPath)
	require.NoError(t, err)
	assert.Equal(t, "2026.03.2", m.Version)
	assert.Equal(t, []string{"/app.js"}, m.Assets)
}

func TestLoadManifest_Invalid(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{name: "malformed json", file: "a.json", content: `{"version":`},
		{name: "missing version", file: "b.json", content: `{"assets":["/x.js"]}`},
		{name: "malformed toml", file: "c.toml", content: "version = "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			writeFile(t, path, tt.content)

			_, err := LoadManifest(path)
			assert.ErrorIs(t, err, ErrInvalidManifest)
		})
	}
}

func TestLoadManifest_MissingFile(t *testing.T) {
	_, err := LoadManifest(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

// ── Run ──────────────────────────────────────────────────────────────────────

func TestManifestWatcher_InstallsOnStartAndOnWrite(t *testing.T) {
	f := newLifecycleFixture(t, true)
	path := filepath.Join(t.TempDir(), "shell-manifest.json")
	writeFile(t, path, `{"version":"v1","assets":["/app.js"]}`)

	w := NewManifestWatcher(path, f.lifecycle, logger.Nop()).(*manifestWatcher)
	w.debounce = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool { return f.lifecycle.ActiveVersion() == "v1" }, 2*time.Second, 10*time.Millisecond)

	writeFile(t, path, `{"version":"v2","assets":["/app.css"]}`)
	require.Eventually(t, func() bool { return f.lifecycle.ActiveVersion() == "v2" }, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestManifestWatcher_MissingDirectory(t *testing.T) {
	f := newLifecycleFixture(t, false)
	w := NewManifestWatcher(filepath.Join(t.TempDir(), "gone", "m.json"), f.lifecycle, logger.Nop())

	err := w.Run(context.Background())
	assert.Error(t, err)
}
