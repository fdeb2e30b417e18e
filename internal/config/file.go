// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// StructuredFileConfig is the on-disk layout of the optional config file. The
// same struct is decoded from JSON or TOML depending on the file extension.
type StructuredFileConfig struct {
	App struct {
		Version  string `json:"version" toml:"version"`
		LogLevel string `json:"log_level" toml:"log_level"`
	} `json:"app,omitempty" toml:"app"`

	Storage struct {
		DB struct {
			DSN         string   `json:"dsn" toml:"dsn"`
			BusyTimeout Duration `json:"busy_timeout" toml:"busy_timeout"`
		} `json:"db,omitempty" toml:"db"`
	} `json:"storage,omitempty" toml:"storage"`

	Backend struct {
		BaseURL        string            `json:"base_url" toml:"base_url"`
		APIKey         string            `json:"api_key" toml:"api_key"`
		Token          string            `json:"token" toml:"token"`
		RequestTimeout Duration          `json:"request_timeout" toml:"request_timeout"`
		Resources      map[string]string `json:"resources" toml:"resources"`
	} `json:"backend,omitempty" toml:"backend"`

	Network struct {
		ProbeURL           string   `json:"probe_url" toml:"probe_url"`
		ProbeInterval      Duration `json:"probe_interval" toml:"probe_interval"`
		ProbeTimeout       Duration `json:"probe_timeout" toml:"probe_timeout"`
		MeasureLinkQuality bool     `json:"measure_link_quality" toml:"measure_link_quality"`
	} `json:"network,omitempty" toml:"network"`

	Sync struct {
		SettleDelay  Duration `json:"settle_delay" toml:"settle_delay"`
		ProgressHold Duration `json:"progress_hold" toml:"progress_hold"`
		LeaseTTL     Duration `json:"lease_ttl" toml:"lease_ttl"`
	} `json:"sync,omitempty" toml:"sync"`

	Cache struct {
		DefaultTTL    Duration `json:"default_ttl" toml:"default_ttl"`
		SweepInterval Duration `json:"sweep_interval" toml:"sweep_interval"`
	} `json:"cache,omitempty" toml:"cache"`

	Server struct {
		HTTPAddress    string   `json:"http_address" toml:"http_address"`
		RequestTimeout Duration `json:"request_timeout" toml:"request_timeout"`
	} `json:"server,omitempty" toml:"server"`

	Router struct {
		AppOrigin       string   `json:"app_origin" toml:"app_origin"`
		UpstreamTimeout Duration `json:"upstream_timeout" toml:"upstream_timeout"`
	} `json:"router,omitempty" toml:"router"`

	Worker struct {
		Address      string `json:"address" toml:"address"`
		ManifestPath string `json:"manifest_path" toml:"manifest_path"`
		AutoActivate bool   `json:"auto_activate" toml:"auto_activate"`
	} `json:"worker,omitempty" toml:"worker"`
}

func parseFile(filePath string) (*StructuredConfig, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a config file: %w", err)
	}

	var fileCfg StructuredFileConfig
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".toml":
		if err := toml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("error decoding toml configs: %w", err)
		}
	case ".json", "":
		if err := json.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("error decoding json configs: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedConfigFile, filepath.Ext(filePath))
	}

	cfg := &StructuredConfig{
		App: App{
			Version:  fileCfg.App.Version,
			LogLevel: fileCfg.App.LogLevel,
		},
		Storage: Storage{
			DB: DB{
				DSN:         fileCfg.Storage.DB.DSN,
				BusyTimeout: time.Duration(fileCfg.Storage.DB.BusyTimeout),
			},
		},
		Backend: Backend{
			BaseURL:        fileCfg.Backend.BaseURL,
			APIKey:         fileCfg.Backend.APIKey,
			Token:          fileCfg.Backend.Token,
			RequestTimeout: time.Duration(fileCfg.Backend.RequestTimeout),
			Resources:      fileCfg.Backend.Resources,
		},
		Network: Network{
			ProbeURL:           fileCfg.Network.ProbeURL,
			ProbeInterval:      time.Duration(fileCfg.Network.ProbeInterval),
			ProbeTimeout:       time.Duration(fileCfg.Network.ProbeTimeout),
			MeasureLinkQuality: fileCfg.Network.MeasureLinkQuality,
		},
		Sync: Sync{
			SettleDelay:  time.Duration(fileCfg.Sync.SettleDelay),
			ProgressHold: time.Duration(fileCfg.Sync.ProgressHold),
			LeaseTTL:     time.Duration(fileCfg.Sync.LeaseTTL),
		},
		Cache: Cache{
			DefaultTTL:    time.Duration(fileCfg.Cache.DefaultTTL),
			SweepInterval: time.Duration(fileCfg.Cache.SweepInterval),
		},
		Server: Server{
			HTTPAddress:    fileCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(fileCfg.Server.RequestTimeout),
		},
		Router: Router{
			AppOrigin:       fileCfg.Router.AppOrigin,
			UpstreamTimeout: time.Duration(fileCfg.Router.UpstreamTimeout),
		},
		Worker: Worker{
			Address:      fileCfg.Worker.Address,
			ManifestPath: fileCfg.Worker.ManifestPath,
			AutoActivate: fileCfg.Worker.AutoActivate,
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that decodes from strings like
// "1h" or "30s" in both JSON and TOML files. Bare JSON numbers are read as
// nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		return d.UnmarshalText([]byte(value))
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
}

func (d *Duration) UnmarshalText(text []byte) error {
	tmp, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(tmp)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}
