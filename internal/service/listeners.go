// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"sync"

	"github.com/MKhiriev/go-jobcrm-sync/internal/logger"
)

type listenerEntry[T any] struct {
	id int
	fn func(T)
}

// listenerSet keeps subscribers in registration order.
type listenerSet[T any] struct {
	mu      sync.Mutex
	next    int
	entries []listenerEntry[T]
}

func (s *listenerSet[T]) add(fn func(T)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.next++
	id := s.next
	s.entries = append(s.entries, listenerEntry[T]{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { s.remove(id) })
	}
}

func (s *listenerSet[T]) remove(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.entries {
		if e.id == id {
			s.entries = append(s.entries[:i:i], s.entries[i+1:]...)
			return
		}
	}
}

func (s *listenerSet[T]) snapshot() []listenerEntry[T] {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]listenerEntry[T], len(s.entries))
	copy(out, s.entries)
	return out
}

// emit calls every listener synchronously. A panicking listener is logged
// and does not stop the others.
func (s *listenerSet[T]) emit(v T, log *logger.Logger, source string) {
	for _, e := range s.snapshot() {
		callListener(e.fn, v, log, source)
	}
}

func callListener[T any](fn func(T), v T, log *logger.Logger, source string) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("func", source).Interface("panic", r).Msg("listener panicked")
		}
	}()
	fn(v)
}
