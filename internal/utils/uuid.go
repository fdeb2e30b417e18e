// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UUIDGenerator produces time-ordered identifiers for trace ids and process
// owner ids.
type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}

// MutationID builds a pending-mutation identifier of the form
// "<unix millis>-<random>-<entity type>".
func (g *UUIDGenerator) MutationID(now time.Time, entityType string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return strconv.FormatInt(now.UnixMilli(), 10) + "-" + suffix + "-" + entityType
}
