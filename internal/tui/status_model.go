// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-jobcrm-sync/internal/service"
	"github.com/MKhiriev/go-jobcrm-sync/models"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	maxToasts      = 5
	unsyncedIDWide = 32
	lastErrorWide  = 40
)

// statusModel renders the status surface: connectivity, queue counters,
// sync progress, unsynced changes and the latest notifications.
type statusModel struct {
	ctx    context.Context
	status service.StatusService
	queue  service.MutationQueue

	buildInfo models.AppBuildInfo
	version   string

	snapshot models.StatusSnapshot
	lastSync *models.DrainResult
	toasts   []models.Notification
	unsynced []models.AbandonedMutation
	cursor   int

	progress progress.Model
	overlay  *errorOverlayModel

	showBuildInfo bool
}

func newStatusModel(ctx context.Context, status service.StatusService, queue service.MutationQueue, version string, buildInfo models.AppBuildInfo) statusModel {
	return statusModel{
		ctx:       ctx,
		status:    status,
		queue:     queue,
		version:   version,
		buildInfo: buildInfo,
		snapshot:  status.Snapshot(),
		progress:  progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}
}

func (m statusModel) Init() tea.Cmd {
	return m.loadUnsynced()
}

func (m statusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case snapshotMsg:
		m.snapshot = models.StatusSnapshot(msg)
		if m.snapshot.UnsyncedCount != len(m.unsynced) {
			return m, m.loadUnsynced()
		}
		return m, nil

	case notificationMsg:
		m.toasts = append(m.toasts, models.Notification(msg))
		if len(m.toasts) > maxToasts {
			m.toasts = m.toasts[len(m.toasts)-maxToasts:]
		}
		if msg.Kind == models.NotificationAbandoned {
			return m, m.loadUnsynced()
		}
		return m, nil

	case syncDoneMsg:
		result := msg.result
		m.lastSync = &result
		m.snapshot = m.status.Snapshot()
		return m, m.loadUnsynced()

	case unsyncedLoadedMsg:
		if msg.err != nil {
			m.overlay = &errorOverlayModel{message: humanizeError(msg.err)}
			return m, nil
		}
		m.unsynced = msg.items
		if m.cursor >= len(m.unsynced) {
			m.cursor = max(len(m.unsynced)-1, 0)
		}
		return m, nil

	case actionDoneMsg:
		if msg.err != nil {
			m.overlay = &errorOverlayModel{message: msg.action + ": " + humanizeError(msg.err)}
		}
		m.snapshot = m.status.Snapshot()
		return m, m.loadUnsynced()

	case tea.WindowSizeMsg:
		m.progress.Width = min(max(msg.Width-30, 10), 60)
		return m, nil
	}

	return m, nil
}

func (m statusModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.quit) {
		return m, tea.Quit
	}

	if m.overlay != nil {
		if key.Matches(msg, keys.esc) {
			m.overlay = nil
		}
		return m, nil
	}

	if m.showBuildInfo {
		if key.Matches(msg, keys.esc) || key.Matches(msg, keys.buildInfo) {
			m.showBuildInfo = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.sync):
		if m.snapshot.IsSyncing {
			return m, nil
		}
		return m, m.triggerSync()
	case key.Matches(msg, keys.refresh):
		m.snapshot = m.status.Snapshot()
		return m, m.loadUnsynced()
	case key.Matches(msg, keys.up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.down):
		if m.cursor < len(m.unsynced)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.retry):
		if id, ok := m.selectedID(); ok {
			return m, m.retry(id)
		}
	case key.Matches(msg, keys.dismiss):
		if id, ok := m.selectedID(); ok {
			return m, m.dismiss(id)
		}
	case key.Matches(msg, keys.buildInfo):
		m.showBuildInfo = true
	}

	return m, nil
}

func (m statusModel) selectedID() (string, bool) {
	if m.cursor < 0 || m.cursor >= len(m.unsynced) {
		return "", false
	}
	return m.unsynced[m.cursor].ID, true
}

func (m statusModel) triggerSync() tea.Cmd {
	ctx, status := m.ctx, m.status
	return func() tea.Msg {
		return syncDoneMsg{result: status.TriggerSyncNow(ctx)}
	}
}

func (m statusModel) loadUnsynced() tea.Cmd {
	ctx, queue := m.ctx, m.queue
	return func() tea.Msg {
		items, err := queue.ListUnsynced(ctx)
		return unsyncedLoadedMsg{items: items, err: err}
	}
}

func (m statusModel) retry(id string) tea.Cmd {
	ctx, queue := m.ctx, m.queue
	return func() tea.Msg {
		return actionDoneMsg{action: "retry", err: queue.RetryUnsynced(ctx, id)}
	}
}

func (m statusModel) dismiss(id string) tea.Cmd {
	ctx, queue := m.ctx, m.queue
	return func() tea.Msg {
		return actionDoneMsg{action: "dismiss", err: queue.DismissUnsynced(ctx, id)}
	}
}

func (m statusModel) View() string {
	if m.overlay != nil {
		return appStyle.Render(m.overlay.View())
	}
	if m.showBuildInfo {
		return appStyle.Render(renderBuildInfoWindow(m.buildInfo))
	}

	var b strings.Builder

	b.WriteString("Network:   " + m.networkLine() + "\n")
	b.WriteString(fmt.Sprintf("Pending:   %d change(s)\n", m.snapshot.PendingCount))
	b.WriteString(fmt.Sprintf("Unsynced:  %d change(s)\n", m.snapshot.UnsyncedCount))
	if m.snapshot.IsSyncing {
		b.WriteString("Sync:      " + m.progress.ViewAs(m.snapshot.SyncProgress) + "\n")
	} else {
		b.WriteString("Sync:      idle\n")
	}
	if m.lastSync != nil {
		b.WriteString("Last sync: " + describeDrain(*m.lastSync) + "\n")
	}

	if len(m.unsynced) > 0 {
		b.WriteString("\n" + titleStyle.Render("Unsynced changes") + "\n")
		for i, mutation := range m.unsynced {
			line := fmt.Sprintf("%-*s %-6s %d attempts  %s",
				unsyncedIDWide, fitText(mutation.ID, unsyncedIDWide), mutation.Action,
				mutation.RetryCount, fitText(mutation.LastError, lastErrorWide))
			if i == m.cursor {
				line = selectedStyle.Render(line)
			}
			b.WriteString(line + "\n")
		}
	}

	if len(m.toasts) > 0 {
		b.WriteString("\n" + titleStyle.Render("Notifications") + "\n")
		for _, n := range m.toasts {
			b.WriteString(n.At.Local().Format("15:04:05") + "  " + n.Message + "\n")
		}
	}

	title := "JOBCRM OFFLINE SYNC"
	if m.version != "" {
		title += "  " + m.version
	}

	hotKeys := "s: sync now · r: refresh · v: about"
	if len(m.unsynced) > 0 {
		hotKeys = "s: sync now · r: refresh · ↑/↓: select · t: retry · d: dismiss · v: about"
	}

	return appStyle.Render(renderPage(title, strings.TrimRight(b.String(), "\n"), hotKeys))
}

func (m statusModel) networkLine() string {
	switch {
	case !m.snapshot.IsOnline:
		return offlineStyle.Render("● offline")
	case m.snapshot.IsSlowConnection:
		return slowStyle.Render("● online (slow connection)")
	default:
		return onlineStyle.Render("● online")
	}
}

func describeDrain(r models.DrainResult) string {
	switch {
	case r.Skipped:
		return "skipped"
	case r.Total == 0:
		return "nothing to sync"
	}

	s := fmt.Sprintf("%d/%d synced, %d failed", r.Succeeded, r.Total, r.Failed)
	if r.Abandoned > 0 {
		s += fmt.Sprintf(", %d abandoned", r.Abandoned)
	}
	if r.Aborted {
		s += " (went offline)"
	}
	return s
}
