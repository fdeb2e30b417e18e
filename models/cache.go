// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"net/http"
	"strings"
	"time"
)

// CachedResponse is one HTTP response stored in a named cache partition.
type CachedResponse struct {
	Partition string
	Key       string
	Status    int
	Header    http.Header
	Body      []byte
	StoredAt  time.Time
}

// CachePartition is a named, versioned segment of the response cache.
type CachePartition struct {
	Name      string
	CreatedAt time.Time
}

// PartitionName joins a partition base name and a version tag, e.g.
// ("shell", "v2") -> "shell-v2".
func PartitionName(base, version string) string {
	return base + "-" + version
}

// BelongsToVersion reports whether the partition name carries the version tag.
func BelongsToVersion(partition, version string) bool {
	return version != "" && strings.HasSuffix(partition, "-"+version)
}

// CacheKey is the lookup key of a request inside a partition.
func CacheKey(method, url string) string {
	return method + " " + url
}
