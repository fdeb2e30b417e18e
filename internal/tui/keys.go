// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	up        key.Binding
	down      key.Binding
	esc       key.Binding
	quit      key.Binding
	sync      key.Binding
	refresh   key.Binding
	retry     key.Binding
	dismiss   key.Binding
	buildInfo key.Binding
}

var keys = keyMap{
	up:        key.NewBinding(key.WithKeys("up", "k")),
	down:      key.NewBinding(key.WithKeys("down", "j")),
	esc:       key.NewBinding(key.WithKeys("esc", "enter")),
	quit:      key.NewBinding(key.WithKeys("q", "ctrl+c")),
	sync:      key.NewBinding(key.WithKeys("s")),
	refresh:   key.NewBinding(key.WithKeys("r")),
	retry:     key.NewBinding(key.WithKeys("t")),
	dismiss:   key.NewBinding(key.WithKeys("d")),
	buildInfo: key.NewBinding(key.WithKeys("v")),
}
