// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package writer serializes a tree back into Groot/BehaviorTree.CPP
// v4 XML, the inverse of package parser: parsing ToXML's output and
// writing the result again reproduces the same document.
package writer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/NHR-FAU/bt-engine/internal/bt"
)

// portedNode is satisfied by every built-in node (bt.Base exposes
// Ports), but isn't part of the bt.Node contract itself since most
// callers never need raw port strings.
type portedNode interface {
	Ports() map[string]string
}

// ToXML renders tree as a complete BTCPP_format="4" document: one
// <BehaviorTree> block per distinct subtree class name encountered in
// preorder (the root tree counts as one of these), each indented with
// indent per nesting level.
func ToXML(tree *bt.RootTree, indent string) string {
	var out strings.Builder
	fmt.Fprintf(&out, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	fmt.Fprintf(&out, "<root BTCPP_format=\"4\" main_tree_to_execute=\"%s\">\n", tree.ClassName())

	seen := make(map[string]bool)
	for node := range bt.Preorder(tree) {
		st, ok := node.(bt.SubtreeNode)
		if !ok || seen[st.SubtreeID()] {
			continue
		}
		seen[st.SubtreeID()] = true
		writeSubtreeBlock(&out, st, indent)
	}

	out.WriteString("</root>\n")
	return out.String()
}

func writeSubtreeBlock(out *strings.Builder, st bt.SubtreeNode, indent string) {
	fmt.Fprintf(out, "%s<BehaviorTree ID=%q>\n", strings.Repeat(indent, 1), st.SubtreeID())
	out.WriteString(writeNode(st.Children()[0], indent, 2))
	out.WriteString("\n")
	fmt.Fprintf(out, "%s</BehaviorTree>\n", strings.Repeat(indent, 1))
}

// writeNode renders one element, recursing into ordinary children but
// stopping short at a nested SubTree reference: those self-close as
// <SubTree ID="..."/>, their body having already been (or about to be)
// emitted in its own <BehaviorTree> block.
func writeNode(node bt.Node, indent string, level int) string {
	prefix := strings.Repeat(indent, level)
	name := node.ClassName()
	attrs := attrString(node)
	children := node.Children()

	if st, ok := node.(bt.SubtreeNode); ok {
		name = "SubTree"
		attrs = fmt.Sprintf(" ID=%q%s", st.SubtreeID(), attrs)
		children = nil
	}

	if len(children) == 0 {
		return fmt.Sprintf("%s<%s%s />", prefix, name, attrs)
	}

	var body strings.Builder
	for i, c := range children {
		if i > 0 {
			body.WriteString("\n")
		}
		body.WriteString(writeNode(c, indent, level+1))
	}
	return fmt.Sprintf("%s<%s%s>\n%s\n%s</%s>", prefix, name, attrs, body.String(), prefix, name)
}

// attrString renders a node's raw port mappings as XML attributes,
// sorted by name for deterministic output (Go maps have no stable
// iteration order of their own).
func attrString(node bt.Node) string {
	pn, ok := node.(portedNode)
	if !ok {
		return ""
	}
	ports := pn.Ports()
	names := make([]string, 0, len(ports))
	for name := range ports {
		names = append(names, name)
	}
	sort.Strings(names)

	var out strings.Builder
	for _, name := range names {
		fmt.Fprintf(&out, " %s=%q", name, ports[name])
	}
	return out.String()
}
