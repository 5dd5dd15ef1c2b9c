// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package store persists a flattened blackboard snapshot after every
// tick, giving a replayable audit trail of a tree's reactive state
// without adding any network surface. Persistence is optional: a
// driver with no DSN configured simply never opens a BlackboardStore.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
	"github.com/qustavo/sqlhooks/v2"
)

var registerDriverOnce sync.Once

// BlackboardStore is a sqlite3-backed sink for per-tick blackboard
// snapshots, reached through sqlx for scanning and squirrel for
// building the insert statements.
type BlackboardStore struct {
	db *sqlx.DB
}

// Open runs pending migrations against dsn and returns a
// BlackboardStore backed by it. Every query is traced through Hooks
// into pkg/log at Debug level.
func Open(dsn string) (*BlackboardStore, error) {
	registerDriverOnce.Do(func() {
		sql.Register("sqlite3WithHooks", sqlhooks.Wrap(&sqlite3.SQLiteDriver{}, &Hooks{}))
	})

	db, err := sqlx.Open("sqlite3WithHooks", fmt.Sprintf("%s?_foreign_keys=on", dsn))
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", dsn, err)
	}
	// sqlite does not multithread; a second connection would just wait on locks.
	db.SetMaxOpenConns(1)

	if err := migrateUp(db.DB); err != nil {
		db.Close()
		return nil, err
	}
	return &BlackboardStore{db: db}, nil
}

// Close releases the underlying connection.
func (s *BlackboardStore) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle for callers (and tests) that need
// to query snapshot rows directly rather than through Snapshot.
func (s *BlackboardStore) DB() *sqlx.DB {
	return s.db
}

// Snapshot persists one row per blackboard key for this tick. flat is
// the result of flattening the root blackboard's key lane
// (LayeredDict.Flatten semantics) at the moment tick completed; an
// empty snapshot is a no-op rather than an empty statement.
func (s *BlackboardStore) Snapshot(tick int64, tickedAt time.Time, flat map[string]any) error {
	if len(flat) == 0 {
		return nil
	}

	insert := sq.Insert("blackboard_snapshots").Columns("tick", "ticked_at", "key", "value")
	for key, value := range flat {
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("store: encode %q: %w", key, err)
		}
		insert = insert.Values(tick, tickedAt, key, string(encoded))
	}

	if _, err := insert.RunWith(s.db).Exec(); err != nil {
		return fmt.Errorf("store: snapshot tick %d: %w", tick, err)
	}
	return nil
}
