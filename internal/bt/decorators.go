// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package bt

import (
	"time"

	"github.com/NHR-FAU/bt-engine/pkg/status"
)

// decoratorBase is the shared machinery for every decorator: exactly
// one child, and TickChild, which ticks it and halts it if it just
// produced a terminal result (the "auto-halt-on-terminal wrapper"
// every decorator but Delay relies on).
type decoratorBase struct {
	*Base
}

func newDecoratorBase(self Node, className string, child Node, ports map[string]string) *decoratorBase {
	return &decoratorBase{Base: NewBase(self, className, []Node{child}, ports)}
}

func (d *decoratorBase) Child() Node {
	return d.Children()[0]
}

func (d *decoratorBase) TickChild() status.Status {
	result := d.Child().Tick()
	if result.IsTerminal() {
		d.Child().Halt()
	}
	return result
}

func (d *decoratorBase) Halt() {
	d.HaltChildren()
}

// Inverter swaps SUCCESS and FAILURE; RUNNING and SKIPPED pass
// through unchanged.
type Inverter struct {
	*decoratorBase
}

func NewInverter(child Node, ports map[string]string) *Inverter {
	i := &Inverter{}
	i.decoratorBase = newDecoratorBase(i, "Inverter", child, ports)
	return i
}

func (i *Inverter) Tick() status.Status {
	return i.TickWith(i.doTick)
}

func (i *Inverter) doTick() status.Status {
	result := i.TickChild()
	switch result {
	case status.SUCCESS:
		return status.FAILURE
	case status.FAILURE:
		return status.SUCCESS
	default: // RUNNING, SKIPPED
		return result
	}
}

// ForceSuccess lets RUNNING pass through but turns any terminal or
// SKIPPED child result into SUCCESS.
type ForceSuccess struct {
	*decoratorBase
}

func NewForceSuccess(child Node, ports map[string]string) *ForceSuccess {
	f := &ForceSuccess{}
	f.decoratorBase = newDecoratorBase(f, "ForceSuccess", child, ports)
	return f
}

func (f *ForceSuccess) Tick() status.Status {
	return f.TickWith(f.doTick)
}

func (f *ForceSuccess) doTick() status.Status {
	if f.TickChild() == status.RUNNING {
		return status.RUNNING
	}
	return status.SUCCESS
}

// ForceFailure is ForceSuccess's dual.
type ForceFailure struct {
	*decoratorBase
}

func NewForceFailure(child Node, ports map[string]string) *ForceFailure {
	f := &ForceFailure{}
	f.decoratorBase = newDecoratorBase(f, "ForceFailure", child, ports)
	return f
}

func (f *ForceFailure) Tick() status.Status {
	return f.TickWith(f.doTick)
}

func (f *ForceFailure) doTick() status.Status {
	if f.TickChild() == status.RUNNING {
		return status.RUNNING
	}
	return status.FAILURE
}

// Repeat ticks its child to SUCCESS up to num_cycles times (or
// forever, if num_cycles < 0), reporting SUCCESS only once the bound
// is reached. The count persists across RUNNING ticks; Halt resets
// it.
type Repeat struct {
	*decoratorBase
	index int
}

func NewRepeat(child Node, ports map[string]string) *Repeat {
	r := &Repeat{}
	r.decoratorBase = newDecoratorBase(r, "Repeat", child, ports)
	return r
}

func (r *Repeat) Tick() status.Status {
	return r.TickWith(r.doTick)
}

func (r *Repeat) doTick() status.Status {
	n, ok := r.GetInt("num_cycles")
	if !ok || n < -1 {
		return status.FAILURE
	}
	for n < 0 || r.index < n {
		switch r.TickChild() {
		case status.RUNNING:
			return status.RUNNING
		case status.FAILURE:
			return status.FAILURE
		case status.SKIPPED:
			return status.SKIPPED
		case status.SUCCESS:
			r.index++
		}
	}
	r.Halt()
	return status.SUCCESS
}

func (r *Repeat) Halt() {
	r.index = 0
	r.HaltChildren()
}

// RetryUntilSuccessful is Repeat's dual: FAILURE is the "try again"
// case. The attempt count is local to a single tick — unlike Repeat,
// nothing persists across ticks.
type RetryUntilSuccessful struct {
	*decoratorBase
}

func NewRetryUntilSuccessful(child Node, ports map[string]string) *RetryUntilSuccessful {
	r := &RetryUntilSuccessful{}
	r.decoratorBase = newDecoratorBase(r, "RetryUntilSuccessful", child, ports)
	return r
}

func (r *RetryUntilSuccessful) Tick() status.Status {
	return r.TickWith(r.doTick)
}

func (r *RetryUntilSuccessful) doTick() status.Status {
	n, ok := r.GetInt("num_attempts")
	if !ok || n < -1 {
		return status.FAILURE
	}
	for attempts := 0; n < 0 || attempts < n; {
		switch r.TickChild() {
		case status.RUNNING:
			return status.RUNNING
		case status.SUCCESS:
			return status.SUCCESS
		case status.SKIPPED:
			return status.SKIPPED
		case status.FAILURE:
			attempts++
		}
	}
	return status.FAILURE
}

// KeepRunningUntilFailure reports RUNNING for everything but FAILURE
// and SKIPPED, including when the child reports SUCCESS.
type KeepRunningUntilFailure struct {
	*decoratorBase
}

func NewKeepRunningUntilFailure(child Node, ports map[string]string) *KeepRunningUntilFailure {
	k := &KeepRunningUntilFailure{}
	k.decoratorBase = newDecoratorBase(k, "KeepRunningUntilFailure", child, ports)
	return k
}

func (k *KeepRunningUntilFailure) Tick() status.Status {
	return k.TickWith(k.doTick)
}

func (k *KeepRunningUntilFailure) doTick() status.Status {
	switch k.TickChild() {
	case status.FAILURE:
		return status.FAILURE
	case status.SKIPPED:
		return status.SKIPPED
	default:
		return status.RUNNING
	}
}

// Delay reports RUNNING, without ticking its child at all, until
// delay_msec has elapsed since the first tick; then it ticks the
// child directly (bypassing the usual auto-halt-on-terminal wrapper)
// and returns its status as-is.
type Delay struct {
	*decoratorBase
	started    bool
	startNanos int64
}

func NewDelay(child Node, ports map[string]string) *Delay {
	d := &Delay{}
	d.decoratorBase = newDecoratorBase(d, "Delay", child, ports)
	return d
}

func (d *Delay) Tick() status.Status {
	return d.TickWith(d.doTick)
}

func (d *Delay) doTick() status.Status {
	ms, ok := d.GetInt("delay_msec")
	if !ok {
		return status.FAILURE
	}
	now := time.Now().UnixNano()
	if !d.started {
		d.started = true
		d.startNanos = now
	}
	if now < d.startNanos+int64(ms)*int64(time.Millisecond) {
		return status.RUNNING
	}
	return d.Child().Tick()
}

func (d *Delay) Halt() {
	d.started = false
	d.startNanos = 0
	d.HaltChildren()
}

// RunOnce ticks its child exactly once (waiting out any RUNNING
// results first) and remembers the outcome; every later tick returns
// SKIPPED if then_skip is true (the default) or replays the captured
// status otherwise.
type RunOnce struct {
	*decoratorBase
	finalized bool
	final     status.Status
}

func NewRunOnce(child Node, ports map[string]string) *RunOnce {
	r := &RunOnce{}
	r.decoratorBase = newDecoratorBase(r, "RunOnce", child, ports)
	return r
}

func (r *RunOnce) Tick() status.Status {
	return r.TickWith(r.doTick)
}

func (r *RunOnce) doTick() status.Status {
	if r.finalized {
		thenSkip, ok := r.GetBool("then_skip")
		if !ok {
			thenSkip = true
		}
		if thenSkip {
			return status.SKIPPED
		}
		return r.final
	}
	result := r.TickChild()
	if result == status.RUNNING {
		return status.RUNNING
	}
	r.finalized = true
	r.final = result
	return result
}
