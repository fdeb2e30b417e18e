// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDGenerator_Generate(t *testing.T) {
	g := NewUUIDGenerator()

	first, second := g.Generate(), g.Generate()
	_, err := uuid.Parse(first)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestUUIDGenerator_MutationID(t *testing.T) {
	g := NewUUIDGenerator()
	now := time.UnixMilli(1700000000123)

	id := g.MutationID(now, "application")
	parts := strings.SplitN(id, "-", 3)
	require.Len(t, parts, 3)
	assert.Equal(t, "1700000000123", parts[0])
	assert.Len(t, parts[1], 9)
	assert.Equal(t, "application", parts[2])

	assert.NotEqual(t, id, g.MutationID(now, "application"))
}
