// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	sq "github.com/Masterminds/squirrel"
)

const (
	tablePendingMutations = "pending_mutations"
	tableCachedEntities   = "cached_entities"
	tableMetrics          = "metrics"
)

var (
	mutationColumns = []string{"id", "entity_type", "action", "payload", "priority", "enqueued_at", "retry_count"}
	entityColumns   = []string{"id", "entity_type", "payload", "last_modified", "expires_at"}
	metricColumns   = []string{"id", "started_at", "finished_at", "total", "succeeded", "failed", "abandoned", "aborted"}

	// priorityRankOrder sorts high before medium before low.
	priorityRankOrder = "CASE priority WHEN 'high' THEN 3 WHEN 'low' THEN 1 ELSE 2 END DESC"
)

const (
	insertMutation = `
		INSERT INTO pending_mutations (id, entity_type, action, payload, priority, enqueued_at, retry_count)
		VALUES (?, ?, ?, ?, ?, ?, ?);`

	upsertMutation = `
		INSERT INTO pending_mutations (id, entity_type, action, payload, priority, enqueued_at, retry_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			entity_type = excluded.entity_type,
			action      = excluded.action,
			payload     = excluded.payload,
			priority    = excluded.priority,
			enqueued_at = excluded.enqueued_at,
			retry_count = excluded.retry_count;`

	getMutation = `
		SELECT id, entity_type, action, payload, priority, enqueued_at, retry_count
		FROM pending_mutations
		WHERE id = ?;`

	deleteMutation = `DELETE FROM pending_mutations WHERE id = ?;`

	upsertAbandoned = `
		INSERT INTO abandoned_mutations (id, entity_type, action, payload, priority, enqueued_at, retry_count, abandoned_at, last_error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			retry_count  = excluded.retry_count,
			abandoned_at = excluded.abandoned_at,
			last_error   = excluded.last_error;`

	getAbandoned = `
		SELECT id, entity_type, action, payload, priority, enqueued_at, retry_count, abandoned_at, last_error
		FROM abandoned_mutations
		WHERE id = ?;`

	getAllAbandoned = `
		SELECT id, entity_type, action, payload, priority, enqueued_at, retry_count, abandoned_at, last_error
		FROM abandoned_mutations
		ORDER BY abandoned_at ASC, id ASC;`

	deleteAbandoned = `DELETE FROM abandoned_mutations WHERE id = ?;`

	countAbandoned = `SELECT COUNT(*) FROM abandoned_mutations;`

	upsertEntity = `
		INSERT INTO cached_entities (id, entity_type, payload, last_modified, expires_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			entity_type   = excluded.entity_type,
			payload       = excluded.payload,
			last_modified = excluded.last_modified,
			expires_at    = excluded.expires_at;`

	deleteEntity = `DELETE FROM cached_entities WHERE id = ?;`

	deleteExpiredEntities = `DELETE FROM cached_entities WHERE expires_at <= ?;`

	clearEntities = `DELETE FROM cached_entities;`

	insertMetric = `
		INSERT INTO metrics (started_at, finished_at, total, succeeded, failed, abandoned, aborted)
		VALUES (?, ?, ?, ?, ?, ?, ?);`

	upsertBlob = `
		INSERT INTO blobs (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at;`

	getBlob = `SELECT value FROM blobs WHERE key = ?;`

	deleteBlob = `DELETE FROM blobs WHERE key = ?;`

	// acquireLease only overwrites a row that is expired or already owned by
	// the caller, so zero affected rows means the lease is held elsewhere.
	acquireLease = `
		INSERT INTO sync_lease (name, owner, expires_at)
		VALUES (?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET owner = excluded.owner, expires_at = excluded.expires_at
		WHERE sync_lease.owner = excluded.owner OR sync_lease.expires_at <= ?;`

	releaseLease = `DELETE FROM sync_lease WHERE name = ? AND owner = ?;`

	ensurePartition = `INSERT INTO cache_partitions (name, created_at) VALUES (?, ?) ON CONFLICT (name) DO NOTHING;`

	getPartitions = `SELECT name, created_at FROM cache_partitions ORDER BY created_at ASC, name ASC;`

	deletePartitionResponses = `DELETE FROM cached_responses WHERE partition = ?;`

	deletePartition = `DELETE FROM cache_partitions WHERE name = ?;`

	upsertResponse = `
		INSERT INTO cached_responses (partition, key, status, header, body, stored_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (partition, key) DO UPDATE SET
			status    = excluded.status,
			header    = excluded.header,
			body      = excluded.body,
			stored_at = excluded.stored_at;`

	getResponse = `
		SELECT partition, key, status, header, body, stored_at
		FROM cached_responses
		WHERE partition = ? AND key = ?;`
)

// selectMutations builds the ordered pending-mutation query for filter.
func selectMutations(filter MutationFilter) (string, []any, error) {
	query := sq.Select(mutationColumns...).
		From(tablePendingMutations).
		OrderBy(priorityRankOrder, "enqueued_at ASC", "id ASC")

	if filter.EntityType != "" {
		query = query.Where(sq.Eq{"entity_type": filter.EntityType})
	}

	return query.ToSql()
}

// selectEntities builds the cached-entity query for filter.
func selectEntities(filter EntityFilter) (string, []any, error) {
	query := sq.Select(entityColumns...).
		From(tableCachedEntities).
		OrderBy("last_modified DESC", "id ASC")

	if filter.EntityType != "" {
		query = query.Where(sq.Eq{"entity_type": filter.EntityType})
	}
	if !filter.LiveAt.IsZero() {
		query = query.Where(sq.Gt{"expires_at": filter.LiveAt.UnixNano()})
	}

	return query.ToSql()
}

// selectMetrics builds the newest-first metric query.
func selectMetrics(limit uint64) (string, []any, error) {
	query := sq.Select(metricColumns...).
		From(tableMetrics).
		OrderBy("id DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	return query.ToSql()
}
