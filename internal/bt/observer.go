// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package bt

import "github.com/NHR-FAU/bt-engine/pkg/status"

// Observer wraps one node and reports it (and its post-tick status)
// to a caller-supplied callback on every tick. Observer is not a
// registry node type: it's a post-construction wrapper a BTParser
// caller applies itself (see parser.Parser's decorators argument),
// the way a logging or tracing middleware wraps a handler.
//
// When Observers are chained (an Observer wrapping an Observer
// wrapping the node someone actually cares about), each reports the
// same innermost non-Observer node, never an intermediate wrapper.
// Because ticking delegates to the child before the callback fires,
// the innermost Observer's callback always runs first.
type Observer struct {
	*decoratorBase
	onObserve func(target Node, result status.Status)
}

// NewObserver wraps child, invoking onObserve after every tick with
// the resolved target (child itself, or the innermost non-Observer
// descendant if child is itself an Observer chain) and that tick's
// status.
func NewObserver(child Node, onObserve func(target Node, result status.Status), ports map[string]string) *Observer {
	o := &Observer{onObserve: onObserve}
	o.decoratorBase = newDecoratorBase(o, "Observer", child, ports)
	return o
}

func (o *Observer) Tick() status.Status {
	return o.TickWith(o.doTick)
}

func (o *Observer) doTick() status.Status {
	result := o.TickChild()
	if o.onObserve != nil {
		o.onObserve(o.target(), result)
	}
	return result
}

// target resolves through any nested Observer wrappers to the
// innermost node that isn't itself an Observer.
func (o *Observer) target() Node {
	n := o.Child()
	for {
		inner, ok := n.(*Observer)
		if !ok {
			return n
		}
		n = inner.Child()
	}
}
