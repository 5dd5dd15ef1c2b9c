// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package bt

import (
	"github.com/NHR-FAU/bt-engine/internal/blackboard"
	"github.com/NHR-FAU/bt-engine/pkg/status"
)

// SubtreeNode is implemented by SubTree (and, through embedding,
// RootTree) so the writer can tell a subtree reference apart from an
// ordinary node without a type switch on every built-in.
type SubtreeNode interface {
	Node
	SubtreeID() string
}

// SubTree wraps the one instantiated body of a <BehaviorTree ID="..">
// declaration. Its class name is the subtree ID rather than "SubTree",
// and its blackboard scope defaults to CLEAN — set to REMAPPED when
// the reserved "_autoremap" port is "true" — rather than the plain
// CHILD scope every other node gets.
type SubTree struct {
	*Base
	subtreeID string
}

// NewSubTree builds the node for subtree id, wrapping its already
// loaded body.
func NewSubTree(id string, body Node, ports map[string]string) *SubTree {
	s := &SubTree{subtreeID: id}
	s.Base = NewBase(s, id, []Node{body}, ports)
	return s
}

// SubtreeID returns the declared <BehaviorTree ID="..."> this node
// instantiates.
func (s *SubTree) SubtreeID() string {
	return s.subtreeID
}

func (s *SubTree) Tick() status.Status {
	return s.TickWith(s.doTick)
}

func (s *SubTree) doTick() status.Status {
	return s.Children()[0].Tick()
}

func (s *SubTree) Halt() {
	s.HaltChildren()
}

// MakeBlackboard derives CLEAN or REMAPPED from the "_autoremap" port.
func (s *SubTree) MakeBlackboard(parent *blackboard.Blackboard) *blackboard.Blackboard {
	if s.Ports()["_autoremap"] == "true" {
		return parent.CreateChild(blackboard.REMAPPED)
	}
	return parent.CreateChild(blackboard.CLEAN)
}

// RootTree is the SubTree that sits at the top of a parsed tree. It
// overrides MakeBlackboard back to the ordinary CHILD scope so the
// externally supplied blackboard isn't cut off the way an ordinary
// SubTree cuts off its parent's scope.
type RootTree struct {
	*SubTree
}

// NewRootTree wraps the instantiated main tree body under the subtree
// id mainTreeID (the main tree's own <BehaviorTree ID> or, for a
// programmatically built tree, a caller-chosen name).
func NewRootTree(mainTreeID string, body Node) *RootTree {
	r := &RootTree{}
	inner := &SubTree{subtreeID: mainTreeID}
	inner.Base = NewBase(r, mainTreeID, []Node{body}, nil)
	r.SubTree = inner
	return r
}

// MakeBlackboard shadows SubTree's: the root always gets a plain
// CHILD scope regardless of "_autoremap".
func (r *RootTree) MakeBlackboard(parent *blackboard.Blackboard) *blackboard.Blackboard {
	return parent.CreateChild(blackboard.CHILD)
}

// Attach attaches blackboard to the root tree, creating a fresh world
// blackboard when the caller doesn't already have one to share.
func (r *RootTree) Attach(bb *blackboard.Blackboard) error {
	if bb == nil {
		bb = blackboard.NewWorld()
	}
	return r.AttachBlackboard(bb)
}
