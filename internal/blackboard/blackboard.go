// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package blackboard implements the two-dimensional key/value store
// shared by a tree's nodes: a stack of scopes (one per node that opts
// into a fresh scope) crossed with a single world lane addressed with
// an "@" sigil.
package blackboard

import (
	"strings"

	"github.com/NHR-FAU/bt-engine/pkg/pointer"
)

// ChildKind selects how CreateChild derives a new scope from its
// parent.
type ChildKind int

const (
	// CHILD delegates unresolved lookups to the parent scope.
	CHILD ChildKind = iota
	// CLEAN starts a fresh scope with no stack parent; only the world
	// lane is inherited.
	CLEAN
	// REMAPPED behaves like CHILD, except any key prefixed with "_"
	// that isn't already present locally is auto-created in the
	// child rather than delegated to the parent.
	REMAPPED
)

// Blackboard is one scope in the stack. parent is the enclosing scope
// used for delegated lookups (nil for a scope with no fallback); world
// is the single global lane every blackboard in a tree shares — for a
// root blackboard, world points to itself.
type Blackboard struct {
	parent *Blackboard
	world  *Blackboard
	kind   ChildKind
	data   map[string]*pointer.Pointer[any]
}

// NewWorld creates a root blackboard: its world lane is itself and it
// has no stack parent.
func NewWorld() *Blackboard {
	b := &Blackboard{data: make(map[string]*pointer.Pointer[any])}
	b.world = b
	return b
}

// CreateChild derives a new scope from b according to kind.
func (b *Blackboard) CreateChild(kind ChildKind) *Blackboard {
	child := &Blackboard{
		world: b.world,
		kind:  kind,
		data:  make(map[string]*pointer.Pointer[any]),
	}
	if kind != CLEAN {
		child.parent = b
	}
	return child
}

// Get resolves key to its Pointer, walking the stack chain and
// creating the key (as a Pointer holding nil) at the first scope
// entitled to own it when no scope already has it. It never returns
// an error: a never-before-seen key simply yields a nil-valued
// Pointer.
func (b *Blackboard) Get(key string) *pointer.Pointer[any] {
	if strings.HasPrefix(key, "@") {
		return b.world.Get(strings.TrimPrefix(key, "@"))
	}
	if p, ok := b.data[key]; ok {
		return p
	}
	if b.kind == REMAPPED && strings.HasPrefix(key, "_") {
		p := pointer.New[any](nil)
		b.data[key] = p
		return p
	}
	if b.parent != nil {
		return b.parent.Get(key)
	}
	p := pointer.New[any](nil)
	b.data[key] = p
	return p
}

// GetTransform behaves like Get, but if the resolved value is
// non-nil it is replaced in place by transform(value); the same
// Pointer is returned either way.
func (b *Blackboard) GetTransform(key string, transform func(any) any) *pointer.Pointer[any] {
	p := b.Get(key)
	if p.Value != nil {
		p.Value = transform(p.Value)
	}
	return p
}

// Set stores value at key (creating the Pointer if needed) and
// returns value, so a call can be used as an expression.
func (b *Blackboard) Set(key string, value any) any {
	b.Get(key).Value = value
	return value
}

// Flatten collapses b's stack chain into a single map, the same way
// collections.LayeredDict.Flatten does: root-most scope first, each
// more deeply nested scope overriding keys it also defines. The world
// lane itself is not merged in separately — only whatever its keys
// already surfaced through this chain's own Get calls.
func (b *Blackboard) Flatten() map[string]any {
	var chain []*Blackboard
	for s := b; s != nil; s = s.parent {
		chain = append(chain, s)
	}

	out := make(map[string]any)
	for i := len(chain) - 1; i >= 0; i-- {
		for key, p := range chain[i].data {
			out[key] = p.Value
		}
	}
	return out
}

// Remap installs, for every childPort/spec pair in mappings, an entry
// in child: a spec of the form "{name}" aliases the parent's Pointer
// for name (writes through either blackboard become visible to both);
// any other spec installs a fresh Pointer holding the literal string.
func Remap(parent, child *Blackboard, mappings map[string]string) {
	for childPort, spec := range mappings {
		if len(spec) >= 2 && strings.HasPrefix(spec, "{") && strings.HasSuffix(spec, "}") {
			name := spec[1 : len(spec)-1]
			child.data[childPort] = parent.Get(name)
			continue
		}
		child.data[childPort] = pointer.New[any](spec)
	}
}
