// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package driver is the concrete "external driver" spec §6 describes
// abstractly: it ticks a root tree, either once or on a repeating
// interval via gocron, logs the resulting status, and hands the
// flattened blackboard off to an optional store.BlackboardStore.
package driver

import (
	"fmt"
	"time"

	"github.com/NHR-FAU/bt-engine/internal/bt"
	"github.com/NHR-FAU/bt-engine/internal/store"
	"github.com/NHR-FAU/bt-engine/pkg/log"
	"github.com/NHR-FAU/bt-engine/pkg/status"
	"github.com/go-co-op/gocron/v2"
)

// Driver owns the scheduler that repeatedly ticks a single root tree.
type Driver struct {
	tree    *bt.RootTree
	store   *store.BlackboardStore
	sched   gocron.Scheduler
	tickSeq int64
}

// New builds a Driver for tree. st may be nil, disabling snapshot
// persistence entirely.
func New(tree *bt.RootTree, st *store.BlackboardStore) *Driver {
	return &Driver{tree: tree, store: st}
}

// TickOnce ticks the root a single time, persists a snapshot if a
// store is configured, and logs the resulting status at Info.
func (d *Driver) TickOnce() (status.Status, error) {
	d.tickSeq++
	seq := d.tickSeq
	now := time.Now()

	result := d.tree.Tick()
	log.Infof("driver: tick %d -> %s", seq, result)

	if d.store != nil {
		flat := d.tree.Blackboard().Flatten()
		if err := d.store.Snapshot(seq, now, flat); err != nil {
			return result, fmt.Errorf("driver: snapshot tick %d: %w", seq, err)
		}
	}
	return result, nil
}

// Run starts a gocron job that calls TickOnce every interval. It
// returns once the scheduler has been started; call Shutdown to stop
// it. A tick that errors (snapshot failure) is logged but does not
// stop the schedule — future ticks get another chance.
func (d *Driver) Run(interval time.Duration) error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("driver: create scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if _, err := d.TickOnce(); err != nil {
				log.Errorf("driver: %v", err)
			}
		}),
	)
	if err != nil {
		return fmt.Errorf("driver: schedule tick job: %w", err)
	}

	d.sched = sched
	sched.Start()
	return nil
}

// Shutdown stops the repeating schedule started by Run. It is a no-op
// if Run was never called (TickOnce-only usage).
func (d *Driver) Shutdown() error {
	if d.sched == nil {
		return nil
	}
	return d.sched.Shutdown()
}
