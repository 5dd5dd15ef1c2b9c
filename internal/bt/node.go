// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package bt implements the tree of nodes: the Node contract, the
// shared Base every built-in embeds, and preorder iteration over a
// tree. Composite and decorator node types live in composites.go and
// decorators.go; Observer lives in observer.go, and SubTree and
// RootTree share subtree.go.
package bt

import (
	"fmt"
	"iter"
	"strconv"

	"github.com/NHR-FAU/bt-engine/internal/blackboard"
	"github.com/NHR-FAU/bt-engine/pkg/pointer"
	"github.com/NHR-FAU/bt-engine/pkg/status"
)

// Node is the contract every tree element satisfies. Go has no
// inheritance, so concrete types embed *Base for the shared
// bookkeeping and define their own Tick/Halt (ordinary method
// shadowing); MakeBlackboard is the one Base method a type overrides
// when its scoping policy differs from the default (SubTree,
// RootTree).
type Node interface {
	Tick() status.Status
	Halt()
	ClassName() string
	Name() string
	Children() []Node
	MakeBlackboard(parent *blackboard.Blackboard) *blackboard.Blackboard
	AttachBlackboard(parent *blackboard.Blackboard) error
	Blackboard() *blackboard.Blackboard
	CachedStatus() status.Status
}

// Base holds the bookkeeping common to every node: its children, raw
// (still-string) port attributes, attached blackboard scope and
// cached status. self is set by each constructor right after
// embedding Base, so Base's own logic can invoke an overridden method
// (MakeBlackboard) through the interface rather than always running
// its own default.
type Base struct {
	self      Node
	className string
	ports     map[string]string
	children  []Node
	bb        *blackboard.Blackboard
	cached    status.Status
	attached  bool
}

// NewBase constructs the shared state for a node of the given
// registered class name. self must be the concrete node embedding
// this Base, so virtual calls (MakeBlackboard) dispatch correctly.
func NewBase(self Node, className string, children []Node, ports map[string]string) *Base {
	if ports == nil {
		ports = map[string]string{}
	}
	return &Base{self: self, className: className, children: children, ports: ports}
}

// ClassName returns the registered type name. SubTree passes its
// subtree ID to NewBase as the class name, so it reports that ID.
func (b *Base) ClassName() string {
	return b.className
}

// Name returns the port named "name" if the node instance set one,
// else the class name.
func (b *Base) Name() string {
	if name, ok := b.ports["name"]; ok && name != "" {
		return name
	}
	return b.className
}

// Children returns this node's children in authored order.
func (b *Base) Children() []Node {
	return b.children
}

// Ports returns the raw, still-string port attributes this node was
// constructed with.
func (b *Base) Ports() map[string]string {
	return b.ports
}

// Blackboard returns the scope this node was attached with, or nil
// before attachment.
func (b *Base) Blackboard() *blackboard.Blackboard {
	return b.bb
}

// CachedStatus returns the status produced by the most recent Tick.
func (b *Base) CachedStatus() status.Status {
	return b.cached
}

// MakeBlackboard is the default scoping policy: a plain CHILD scope
// that delegates unresolved lookups to parent. SubTree and RootTree
// override this.
func (b *Base) MakeBlackboard(parent *blackboard.Blackboard) *blackboard.Blackboard {
	return parent.CreateChild(blackboard.CHILD)
}

// AttachBlackboard walks top-down: it asks self (so an override like
// SubTree's takes effect) for this node's own scope, installs port
// remappings against parent, then attaches every child against the
// new scope. Attaching twice is an error.
func (b *Base) AttachBlackboard(parent *blackboard.Blackboard) error {
	if b.attached {
		return fmt.Errorf("%s: blackboard already attached", b.ClassName())
	}
	own := b.self.MakeBlackboard(parent)
	blackboard.Remap(parent, own, b.ports)
	b.bb = own
	b.attached = true
	for _, c := range b.children {
		if err := c.AttachBlackboard(own); err != nil {
			return err
		}
	}
	return nil
}

// TickWith implements the shared tick lifecycle: cache RUNNING, run
// the kind-specific logic, cache and return its result. Every
// concrete node's Tick method is a one-line call to this.
func (b *Base) TickWith(doTick func() status.Status) status.Status {
	b.cached = status.RUNNING
	result := doTick()
	b.cached = result
	return result
}

// HaltChildren halts every child in order. Concrete Halt
// implementations call this alongside their own kind-specific reset.
func (b *Base) HaltChildren() {
	for _, c := range b.children {
		c.Halt()
	}
}

// Get resolves key against this node's attached scope. It never
// fails: an unset port resolves to a Pointer holding nil.
func (b *Base) Get(key string) *pointer.Pointer[any] {
	return b.bb.Get(key)
}

// GetConverted resolves key and, if its value is non-nil, applies
// convert and returns the converted value; a nil or absent port
// yields nil.
func (b *Base) GetConverted(key string, convert func(any) any) any {
	v := b.Get(key).Value
	if v == nil {
		return nil
	}
	return convert(v)
}

// GetBool reads a boolean port. The strings "true"/"false" convert;
// an already-boolean value passes through; anything else (including
// an unset port) reports ok=false.
func (b *Base) GetBool(key string) (value, ok bool) {
	v := b.Get(key).Value
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		switch t {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return false, false
}

// GetInt reads an integer port (num_cycles, num_attempts,
// delay_msec). XML attributes arrive as strings; a missing port or a
// string that doesn't parse as an integer reports ok=false.
func (b *Base) GetInt(key string) (value int, ok bool) {
	v := b.Get(key).Value
	switch t := v.(type) {
	case int:
		return t, true
	case string:
		n, err := strconv.Atoi(t)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// Preorder yields n and then every descendant, depth-first,
// left-to-right.
func Preorder(n Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		var walk func(Node) bool
		walk = func(cur Node) bool {
			if !yield(cur) {
				return false
			}
			for _, c := range cur.Children() {
				if !walk(c) {
					return false
				}
			}
			return true
		}
		walk(n)
	}
}
