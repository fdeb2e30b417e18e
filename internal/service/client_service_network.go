// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/MKhiriev/go-jobcrm-sync/internal/adapter"
	"github.com/MKhiriev/go-jobcrm-sync/internal/config"
	"github.com/MKhiriev/go-jobcrm-sync/internal/logger"
	"github.com/MKhiriev/go-jobcrm-sync/models"
)

// Prober is the part of the backend adapter the monitor needs.
type Prober interface {
	Probe(ctx context.Context, url string) (adapter.ProbeResult, error)
}

// minDownlinkSample is the smallest body a downlink estimate is made from.
const minDownlinkSample = 16 << 10

type networkMonitor struct {
	prober Prober
	cfg    config.ClientNetwork

	mu     sync.RWMutex
	status models.NetworkStatus

	listeners listenerSet[models.NetworkStatus]

	hooksMu sync.Mutex
	hooks   []func(ctx context.Context)

	logger *logger.Logger
}

// NewNetworkMonitor creates a [NetworkMonitor]. The connection is assumed
// online until the first probe or signal says otherwise.
func NewNetworkMonitor(prober Prober, cfg config.ClientNetwork, logger *logger.Logger) NetworkMonitor {
	return &networkMonitor{
		prober: prober,
		cfg:    cfg,
		status: models.NetworkStatus{
			IsOnline:      true,
			EffectiveType: models.EffectiveTypeUnknown,
		},
		logger: logger,
	}
}

func (m *networkMonitor) Status() models.NetworkStatus {
	m.mu.RLock()
	s := m.status
	m.mu.RUnlock()

	s.IsSlowConnection = models.IsSlow(s.EffectiveType, s.DownlinkMbps)
	return s
}

func (m *networkMonitor) Observe(ctx context.Context, signal models.NetworkSignal) {
	m.mu.Lock()
	prev := m.status
	next := prev
	if signal.Online != nil {
		next.IsOnline = *signal.Online
	}
	if lq := signal.LinkQuality; lq != nil {
		next.EffectiveType = lq.EffectiveType
		if next.EffectiveType == "" {
			next.EffectiveType = models.EffectiveTypeUnknown
		}
		next.DownlinkMbps = lq.DownlinkMbps
	}
	next.IsSlowConnection = models.IsSlow(next.EffectiveType, next.DownlinkMbps)
	m.status = next
	m.mu.Unlock()

	if next == prev {
		return
	}

	m.logger.Debug().
		Bool("online", next.IsOnline).
		Str("effective_type", string(next.EffectiveType)).
		Float64("downlink_mbps", next.DownlinkMbps).
		Bool("slow", next.IsSlowConnection).
		Msg("network status changed")

	m.listeners.emit(next, m.logger, "networkMonitor.Observe")

	if !prev.IsOnline && next.IsOnline {
		m.runOnlineHooks(ctx)
	}
}

func (m *networkMonitor) Subscribe(fn func(models.NetworkStatus)) func() {
	return m.listeners.add(fn)
}

func (m *networkMonitor) OnOnline(hook func(ctx context.Context)) {
	m.hooksMu.Lock()
	defer m.hooksMu.Unlock()
	m.hooks = append(m.hooks, hook)
}

func (m *networkMonitor) runOnlineHooks(ctx context.Context) {
	m.hooksMu.Lock()
	hooks := make([]func(context.Context), len(m.hooks))
	copy(hooks, m.hooks)
	m.hooksMu.Unlock()

	for _, hook := range hooks {
		callListener(hook, ctx, m.logger, "networkMonitor.runOnlineHooks")
	}
}

// Run probes immediately and then every ProbeInterval until ctx is done.
// With no probe URL it only waits, leaving the status to Observe.
func (m *networkMonitor) Run(ctx context.Context) error {
	if m.cfg.ProbeURL == "" || m.prober == nil {
		<-ctx.Done()
		return nil
	}

	interval := m.cfg.ProbeInterval
	if interval <= 0 {
		interval = config.DefaultProbeInterval
	}

	m.probeOnce(ctx)

	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			m.probeOnce(ctx)
		}
	}
}

func (m *networkMonitor) probeOnce(ctx context.Context) {
	probeCtx := ctx
	if m.cfg.ProbeTimeout > 0 {
		var cancel context.CancelFunc
		probeCtx, cancel = context.WithTimeout(ctx, m.cfg.ProbeTimeout)
		defer cancel()
	}

	res, err := m.prober.Probe(probeCtx, m.cfg.ProbeURL)
	if ctx.Err() != nil {
		return
	}

	if err != nil {
		m.logger.Debug().Err(err).Str("func", "networkMonitor.probeOnce").Msg("backend unreachable")
		offline := false
		m.Observe(ctx, models.NetworkSignal{Online: &offline})
		return
	}

	online := true
	signal := models.NetworkSignal{Online: &online}
	if m.cfg.MeasureLinkQuality {
		signal.LinkQuality = linkQualityFromProbe(res)
	}
	if res.Status >= http.StatusInternalServerError {
		m.logger.Debug().Int("status", res.Status).Msg("backend reachable but failing")
	}

	m.Observe(ctx, signal)
}

// linkQualityFromProbe classifies a probe round trip the way browsers derive
// effectiveType from RTT.
func linkQualityFromProbe(res adapter.ProbeResult) *models.LinkQuality {
	lq := &models.LinkQuality{EffectiveType: effectiveTypeForRTT(res.RTT)}
	if res.Bytes >= minDownlinkSample && res.RTT > 0 {
		lq.DownlinkMbps = float64(res.Bytes) * 8 / res.RTT.Seconds() / 1e6
	}
	return lq
}

func effectiveTypeForRTT(rtt time.Duration) models.EffectiveType {
	switch {
	case rtt <= 0:
		return models.EffectiveTypeUnknown
	case rtt >= 2000*time.Millisecond:
		return models.EffectiveTypeSlow2G
	case rtt >= 1400*time.Millisecond:
		return models.EffectiveType2G
	case rtt >= 270*time.Millisecond:
		return models.EffectiveType3G
	default:
		return models.EffectiveType4G
	}
}
