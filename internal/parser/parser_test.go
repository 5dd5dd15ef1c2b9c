// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/NHR-FAU/bt-engine/internal/blackboard"
	"github.com/NHR-FAU/bt-engine/internal/bt"
	"github.com/NHR-FAU/bt-engine/internal/builtins"
	"github.com/NHR-FAU/bt-engine/internal/registry"
	"github.com/NHR-FAU/bt-engine/pkg/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedAction always returns the status it was constructed with, and
// is registered under whatever ID an <Action ID="..."> references.
type fixedAction struct {
	*bt.Base
	result status.Status
}

func registerFixedAction(t *testing.T, name string, result status.Status) {
	t.Helper()
	require.NoError(t, registry.RegisterNamed(name, func(children []bt.Node, ports map[string]string) (bt.Node, error) {
		a := &fixedAction{result: result}
		a.Base = bt.NewBase(a, name, children, ports)
		return a, nil
	}))
}

func (a *fixedAction) Tick() status.Status {
	return a.TickWith(func() status.Status { return a.result })
}

func (a *fixedAction) Halt() {}

func withRegistry(t *testing.T) {
	t.Helper()
	undo := registry.Scope()
	t.Cleanup(undo)
	require.NoError(t, builtins.Register())
}

func TestParseStringSimpleSequence(t *testing.T) {
	withRegistry(t)
	registerFixedAction(t, "SayHello", status.SUCCESS)
	registerFixedAction(t, "Wave", status.SUCCESS)

	doc := `<root BTCPP_format="4" main_tree_to_execute="MainTree">
  <BehaviorTree ID="MainTree">
    <Sequence>
      <Action ID="SayHello"/>
      <Action ID="Wave"/>
    </Sequence>
  </BehaviorTree>
</root>`

	tree, err := New().ParseString(doc, "", nil)
	require.NoError(t, err)
	assert.Equal(t, status.SUCCESS, tree.Tick())
}

func TestParseRejectsWrongFormatAttribute(t *testing.T) {
	withRegistry(t)
	doc := `<root BTCPP_format="3"><BehaviorTree ID="MainTree"><Sequence/></BehaviorTree></root>`
	_, err := New().ParseString(doc, "", nil)
	assert.Error(t, err)
}

func TestParseRejectsUnknownTopLevelTag(t *testing.T) {
	withRegistry(t)
	doc := `<root BTCPP_format="4"><Surprise/></root>`
	_, err := New().ParseString(doc, "", nil)
	assert.Error(t, err)
}

func TestParseRejectsDuplicateSubtreeID(t *testing.T) {
	withRegistry(t)
	registerFixedAction(t, "Noop", status.SUCCESS)
	doc := `<root BTCPP_format="4">
  <BehaviorTree ID="MainTree"><Action ID="Noop"/></BehaviorTree>
  <BehaviorTree ID="MainTree"><Action ID="Noop"/></BehaviorTree>
</root>`
	_, err := New().ParseString(doc, "", nil)
	assert.Error(t, err)
}

func TestParseRejectsRosPkgInclude(t *testing.T) {
	withRegistry(t)
	doc := `<root BTCPP_format="4"><include path="foo.xml" ros_pkg="bar"/></root>`
	_, err := New().ParseString(doc, "", nil)
	assert.Error(t, err)
}

func TestParseFollowsIncludeRelativeToIncludingFile(t *testing.T) {
	withRegistry(t)
	registerFixedAction(t, "Noop", status.SUCCESS)

	dir := t.TempDir()
	included := `<root BTCPP_format="4">
  <BehaviorTree ID="Helper"><Action ID="Noop"/></BehaviorTree>
</root>`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "helper.xml"), []byte(included), 0o644))

	main := `<root BTCPP_format="4" main_tree_to_execute="MainTree">
  <include path="helper.xml"/>
  <BehaviorTree ID="MainTree"><SubTree ID="Helper"/></BehaviorTree>
</root>`
	mainPath := filepath.Join(dir, "main.xml")
	require.NoError(t, os.WriteFile(mainPath, []byte(main), 0o644))

	tree, err := New().ParseFile(mainPath, nil)
	require.NoError(t, err)
	assert.Equal(t, status.SUCCESS, tree.Tick())
}

// addAction reads integer ports "x" and "y", writes their sum to port
// "z", and fails if either input is missing — the same fixture
// original_source/tests/core/test_port_mapping.py uses (_AddAction) to
// exercise port remapping end to end.
type addAction struct {
	*bt.Base
}

func registerAddAction(t *testing.T) {
	t.Helper()
	require.NoError(t, registry.RegisterNamed("Add", func(children []bt.Node, ports map[string]string) (bt.Node, error) {
		a := &addAction{}
		a.Base = bt.NewBase(a, "Add", children, ports)
		return a, nil
	}))
}

func (a *addAction) Tick() status.Status {
	return a.TickWith(func() status.Status {
		x, okX := a.GetInt("x")
		y, okY := a.GetInt("y")
		if !okX || !okY {
			return status.FAILURE
		}
		a.Blackboard().Set("z", x+y)
		return status.SUCCESS
	})
}

func (a *addAction) Halt() {}

// TestParsePortMappingBasicSubTreeRemap mirrors
// test_basic_port_mapping: a SubTree's "{alias}"/literal/"{alias}"
// port attributes remap its body's ports onto the caller's blackboard.
func TestParsePortMappingBasicSubTreeRemap(t *testing.T) {
	withRegistry(t)
	registerAddAction(t)

	doc := `<root BTCPP_format="4" main_tree_to_execute="main">
  <BehaviorTree ID="main">
    <SubTree ID="add" x="{data}" y="4" z="{result}" />
  </BehaviorTree>
  <BehaviorTree ID="add">
    <Action ID="Add" />
  </BehaviorTree>
</root>`

	bb := blackboard.NewWorld()
	bb.Set("data", 3)

	tree, err := New().ParseString(doc, "", bb)
	require.NoError(t, err)
	assert.Equal(t, status.SUCCESS, tree.Tick())
	assert.Equal(t, 7, bb.Get("result").Value)
}

// TestParsePortMappingAutoRemapPrivate mirrors
// test_auto_remapping_private: a "_"-prefixed port not already present
// locally bubbles all the way up to the shared world lane UNLESS it
// passes through a REMAPPED scope, in which case that scope creates
// its own private copy instead of delegating further. The first
// Action here writes "_private" from outside any "_autoremap" scope,
// so it lands in the world; the "_autoremap=true" SubTree's inner
// Action writes a "_private" of its own that the REMAPPED scope keeps
// local, never touching the world's copy.
func TestParsePortMappingAutoRemapPrivate(t *testing.T) {
	withRegistry(t)
	registerAddAction(t)

	doc := `<root BTCPP_format="4" main_tree_to_execute="main">
  <BehaviorTree ID="main">
    <Sequence>
      <Action ID="Add" x="{x}" y="{x}" z="{_private}" />
      <SubTree ID="add" _autoremap="true" />
    </Sequence>
  </BehaviorTree>
  <BehaviorTree ID="add">
    <Action ID="Add" x="{y}" y="{y}" z="{_private}" />
  </BehaviorTree>
</root>`

	bb := blackboard.NewWorld()
	bb.Set("x", 3)
	bb.Set("y", 7)

	tree, err := New().ParseString(doc, "", bb)
	require.NoError(t, err)
	assert.Equal(t, status.SUCCESS, tree.Tick())
	assert.Equal(t, 2*3, bb.Get("_private").Value)
}

// TestParsePortMappingGlobalBlackboard mirrors test_global_blackboard:
// an "@"-prefixed port address bypasses the stack chain entirely and
// reads/writes the single world lane shared by every scope in the
// tree, regardless of how deeply nested the node is.
func TestParsePortMappingGlobalBlackboard(t *testing.T) {
	withRegistry(t)
	registerAddAction(t)

	doc := `<root BTCPP_format="4" main_tree_to_execute="main">
  <BehaviorTree ID="main">
    <Sequence>
      <SubTree ID="add" />
      <Action ID="Add" x="{result}" y="{result}" z="{result}" />
      <Action ID="Add" x="{@result}" y="{@result}" z="{@result}" />
    </Sequence>
  </BehaviorTree>
  <BehaviorTree ID="add">
    <Action ID="Add" x="{@x}" y="{@y}" z="{@result}" />
  </BehaviorTree>
</root>`

	bb := blackboard.NewWorld()
	bb.Set("x", 2)
	bb.Set("y", 5)

	tree, err := New().ParseString(doc, "", bb)
	require.NoError(t, err)
	assert.Equal(t, status.SUCCESS, tree.Tick())
	assert.Equal(t, 4*(2+5), bb.Get("result").Value)
}

func TestParseSubTreeClassNameIsItsID(t *testing.T) {
	withRegistry(t)
	registerFixedAction(t, "Noop", status.SUCCESS)

	doc := `<root BTCPP_format="4" main_tree_to_execute="MainTree">
  <BehaviorTree ID="Helper"><Action ID="Noop"/></BehaviorTree>
  <BehaviorTree ID="MainTree"><SubTree ID="Helper"/></BehaviorTree>
</root>`
	tree, err := New().ParseString(doc, "", nil)
	require.NoError(t, err)

	var found bt.Node
	for n := range bt.Preorder(tree) {
		if n.ClassName() == "Helper" {
			found = n
		}
	}
	require.NotNil(t, found)
}
