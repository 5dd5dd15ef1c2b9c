// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package bt

import "github.com/NHR-FAU/bt-engine/pkg/status"

// Sequence ticks children left-to-right, stopping at the first
// FAILURE. SKIPPED is treated like SUCCESS: "try the next one".
//
// Sequence persists the index of its first not-yet-completed child
// across RUNNING ticks (see SequenceWithMemory below for why this
// alone isn't what "no memory" refers to), but Halt unconditionally
// resets that index to 0 regardless of why Halt was called. Since
// every terminal result also triggers a self-halt, this makes no
// difference on a normal terminal tick — the distinction only shows
// up when something external halts a Sequence while it is RUNNING:
// doing so forgets its place and the next tick restarts at child 0.
// That forgetting is the "no memory" in Sequence's name.
type Sequence struct {
	*Base
	index int
}

func NewSequence(children []Node, ports map[string]string) *Sequence {
	s := &Sequence{}
	s.Base = NewBase(s, "Sequence", children, ports)
	return s
}

func (s *Sequence) Tick() status.Status {
	return s.TickWith(s.doTick)
}

func (s *Sequence) doTick() status.Status {
	children := s.Children()
	for s.index < len(children) {
		switch children[s.index].Tick() {
		case status.RUNNING:
			return status.RUNNING
		case status.FAILURE:
			s.Halt()
			return status.FAILURE
		default: // SUCCESS, SKIPPED
			s.index++
		}
	}
	s.Halt()
	return status.SUCCESS
}

func (s *Sequence) Halt() {
	s.index = 0
	s.HaltChildren()
}

// SequenceWithMemory behaves exactly like Sequence tick-to-tick: same
// left-to-right scan, same stop-on-FAILURE, same persisted index
// across RUNNING ticks. The difference is in Halt: Halt here never
// touches the index, only propagating to children, so an external
// halt mid-sequence leaves the resume point intact. The index is
// zeroed only as an ordinary step inside the tick logic itself, the
// instant a terminal result is produced — decoupled from Halt's
// general contract.
type SequenceWithMemory struct {
	*Base
	index int
}

func NewSequenceWithMemory(children []Node, ports map[string]string) *SequenceWithMemory {
	s := &SequenceWithMemory{}
	s.Base = NewBase(s, "SequenceWithMemory", children, ports)
	return s
}

func (s *SequenceWithMemory) Tick() status.Status {
	return s.TickWith(s.doTick)
}

func (s *SequenceWithMemory) doTick() status.Status {
	children := s.Children()
	for s.index < len(children) {
		switch children[s.index].Tick() {
		case status.RUNNING:
			return status.RUNNING
		case status.FAILURE:
			s.index = 0
			s.Halt()
			return status.FAILURE
		default: // SUCCESS, SKIPPED
			s.index++
		}
	}
	s.index = 0
	s.Halt()
	return status.SUCCESS
}

func (s *SequenceWithMemory) Halt() {
	s.HaltChildren()
}

// ReactiveSequence rescans from the first child on every tick instead
// of remembering where it left off; ticked twice with the same child
// statuses it behaves identically to ticked once.
type ReactiveSequence struct {
	*Base
}

func NewReactiveSequence(children []Node, ports map[string]string) *ReactiveSequence {
	r := &ReactiveSequence{}
	r.Base = NewBase(r, "ReactiveSequence", children, ports)
	return r
}

func (r *ReactiveSequence) Tick() status.Status {
	return r.TickWith(r.doTick)
}

func (r *ReactiveSequence) doTick() status.Status {
	for _, c := range r.Children() {
		switch c.Tick() {
		case status.FAILURE:
			r.Halt()
			return status.FAILURE
		case status.RUNNING:
			return status.RUNNING
		}
	}
	r.Halt()
	return status.SUCCESS
}

func (r *ReactiveSequence) Halt() {
	r.HaltChildren()
}

// Fallback ticks children left-to-right, stopping at the first
// SUCCESS; FAILURE and SKIPPED both mean "try the next one". Like
// Sequence it persists its index across RUNNING ticks until a
// terminal outcome, at which point Halt resets it.
type Fallback struct {
	*Base
	index int
}

func NewFallback(children []Node, ports map[string]string) *Fallback {
	f := &Fallback{}
	f.Base = NewBase(f, "Fallback", children, ports)
	return f
}

func (f *Fallback) Tick() status.Status {
	return f.TickWith(f.doTick)
}

func (f *Fallback) doTick() status.Status {
	children := f.Children()
	for f.index < len(children) {
		switch children[f.index].Tick() {
		case status.RUNNING:
			return status.RUNNING
		case status.SUCCESS:
			f.Halt()
			return status.SUCCESS
		default: // FAILURE, SKIPPED
			f.index++
		}
	}
	f.Halt()
	return status.FAILURE
}

func (f *Fallback) Halt() {
	f.index = 0
	f.HaltChildren()
}

// ReactiveFallback rescans from the first child every tick. A SUCCESS
// anywhere in the scan wins immediately; otherwise, if any child
// reported RUNNING this tick, the whole node reports RUNNING (without
// halting) rather than FAILURE, even though later children in the
// same scan may have failed.
type ReactiveFallback struct {
	*Base
}

func NewReactiveFallback(children []Node, ports map[string]string) *ReactiveFallback {
	r := &ReactiveFallback{}
	r.Base = NewBase(r, "ReactiveFallback", children, ports)
	return r
}

func (r *ReactiveFallback) Tick() status.Status {
	return r.TickWith(r.doTick)
}

func (r *ReactiveFallback) doTick() status.Status {
	anyRunning := false
	for _, c := range r.Children() {
		switch c.Tick() {
		case status.SUCCESS:
			r.Halt()
			return status.SUCCESS
		case status.RUNNING:
			anyRunning = true
		}
	}
	if anyRunning {
		return status.RUNNING
	}
	r.Halt()
	return status.FAILURE
}

func (r *ReactiveFallback) Halt() {
	r.HaltChildren()
}
