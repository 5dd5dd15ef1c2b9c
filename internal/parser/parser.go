// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package parser compiles a Groot/BehaviorTree.CPP v4 XML document
// into a *bt.RootTree, resolving <include> files and <SubTree>
// references against a scoped node registry.
package parser

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/NHR-FAU/bt-engine/internal/blackboard"
	"github.com/NHR-FAU/bt-engine/internal/bt"
	"github.com/NHR-FAU/bt-engine/internal/registry"
	"github.com/NHR-FAU/bt-engine/pkg/lrucache"
)

// xmlNode is a schema-free XML element: its attributes and children
// are captured generically, since the tag-dependent structure (what
// a <Sequence> or a custom <Action ID="..."> looks like) is only
// known once the registry resolves it.
type xmlNode struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Nested  []xmlNode  `xml:",any"`
}

// Decorator is a post-construction wrapper applied, in order, to
// every node the parser builds (except the outer SubTree wrapper
// itself — see load). An Observer factory is a typical Decorator.
type Decorator func(bt.Node) bt.Node

// Parser loads BehaviorTree.CPP v4 XML into trees. A Parser is not
// safe for concurrent use: ParseFile/ParseString reset and reuse its
// internal subtree table for each call.
type Parser struct {
	decorators []Decorator
	mainTree   string
	trees      map[string]xmlNode
	includes   *lrucache.Cache
}

// New creates a Parser that applies decorators, in order, to every
// node it instantiates.
func New(decorators ...Decorator) *Parser {
	return &Parser{
		decorators: decorators,
		includes:   lrucache.New(8 << 20),
	}
}

// ParseFile loads path and every file it transitively <include>s,
// then instantiates the main tree against bb (a fresh blackboard if
// bb is nil).
func (p *Parser) ParseFile(path string, bb *blackboard.Blackboard) (*bt.RootTree, error) {
	p.reset()
	if err := p.parseFile(path, true); err != nil {
		return nil, err
	}
	return p.build(bb)
}

// ParseString loads an XML document held in memory; cwd is the
// directory <include path="..."/> is resolved relative to.
func (p *Parser) ParseString(doc string, cwd string, bb *blackboard.Blackboard) (*bt.RootTree, error) {
	p.reset()
	if err := p.parseString(doc, cwd, true); err != nil {
		return nil, err
	}
	return p.build(bb)
}

func (p *Parser) reset() {
	p.mainTree = ""
	p.trees = make(map[string]xmlNode)
}

func (p *Parser) parseFile(path string, first bool) error {
	doc, err := p.decodeFile(path)
	if err != nil {
		return err
	}
	return p.fromXML(doc, filepath.Dir(path), first)
}

func (p *Parser) parseString(doc string, cwd string, first bool) error {
	var root xmlNode
	if err := xml.Unmarshal([]byte(doc), &root); err != nil {
		return fmt.Errorf("parser: malformed xml: %w", err)
	}
	return p.fromXML(root, cwd, first)
}

// cachedDoc lets a parse error ride through lrucache.Cache.Get, whose
// ComputeValue has no error return of its own.
type cachedDoc struct {
	root xmlNode
	err  error
}

// decodeFile reads and XML-decodes path, caching the result by
// absolute path so a file <include>d from several places is only
// read and parsed once per Parser.
func (p *Parser) decodeFile(path string) (xmlNode, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return xmlNode{}, fmt.Errorf("parser: %w", err)
	}

	v := p.includes.Get(abs, func() (interface{}, time.Duration, int) {
		data, err := os.ReadFile(abs)
		if err != nil {
			return cachedDoc{err: fmt.Errorf("parser: %w", err)}, time.Hour, 0
		}
		var root xmlNode
		if err := xml.Unmarshal(data, &root); err != nil {
			return cachedDoc{err: fmt.Errorf("parser: %s: malformed xml: %w", abs, err)}, time.Hour, 0
		}
		return cachedDoc{root: root}, time.Hour, len(data)
	})

	doc := v.(cachedDoc)
	return doc.root, doc.err
}

func attrsMap(attrs []xml.Attr) map[string]string {
	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		m[a.Name.Local] = a.Value
	}
	return m
}

// fromXML processes one <root> document: it records every declared
// <BehaviorTree>, recurses into every <include>, and ignores
// <TreeNodesModel>. first is true only for the document the caller
// asked to parse, never for an included file, matching the rule that
// only the top-level document's main_tree_to_execute takes effect.
func (p *Parser) fromXML(root xmlNode, cwd string, first bool) error {
	if root.XMLName.Local != "root" {
		return fmt.Errorf("parser: expected document element <root>, got <%s>", root.XMLName.Local)
	}
	attrs := attrsMap(root.Attrs)
	if attrs["BTCPP_format"] != "4" {
		return fmt.Errorf("parser: unsupported or missing BTCPP_format attribute %q", attrs["BTCPP_format"])
	}
	if first {
		if mte, ok := attrs["main_tree_to_execute"]; ok {
			p.mainTree = mte
		}
	}

	for _, child := range root.Nested {
		switch child.XMLName.Local {
		case "BehaviorTree":
			if err := p.declareTree(child); err != nil {
				return err
			}
		case "include":
			if err := p.resolveInclude(child, cwd); err != nil {
				return err
			}
		case "TreeNodesModel":
			// consumed by Groot-like tools only; nothing to do here.
		default:
			return fmt.Errorf("parser: unexpected top-level tag <%s>", child.XMLName.Local)
		}
	}
	return nil
}

func (p *Parser) declareTree(child xmlNode) error {
	attrs := attrsMap(child.Attrs)
	id, ok := attrs["ID"]
	if !ok {
		return fmt.Errorf("parser: <BehaviorTree> missing ID attribute")
	}
	if registry.Has(id) {
		return fmt.Errorf("parser: subtree ID %q collides with a registered node type", id)
	}
	if _, exists := p.trees[id]; exists {
		return fmt.Errorf("parser: duplicate subtree ID %q", id)
	}
	if len(child.Nested) != 1 {
		return fmt.Errorf("parser: <BehaviorTree ID=%q> must have exactly one child", id)
	}
	if p.mainTree == "" {
		p.mainTree = id
	}
	p.trees[id] = child.Nested[0]
	return nil
}

func (p *Parser) resolveInclude(child xmlNode, cwd string) error {
	attrs := attrsMap(child.Attrs)
	if _, ok := attrs["ros_pkg"]; ok {
		return fmt.Errorf("parser: ros_pkg includes are not supported")
	}
	path, ok := attrs["path"]
	if !ok || path == "" {
		return fmt.Errorf("parser: <include> missing path attribute")
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(cwd, path)
	}
	return p.parseFile(path, false)
}

// build instantiates the declared main tree and attaches it to bb.
func (p *Parser) build(bb *blackboard.Blackboard) (*bt.RootTree, error) {
	if p.mainTree == "" {
		return nil, fmt.Errorf("parser: no main tree to execute")
	}
	body, ok := p.trees[p.mainTree]
	if !ok {
		return nil, fmt.Errorf("parser: main tree %q was never declared", p.mainTree)
	}
	bodyNode, err := p.load(body)
	if err != nil {
		return nil, err
	}
	root := bt.NewRootTree(p.mainTree, bodyNode)
	if err := root.Attach(bb); err != nil {
		return nil, err
	}
	return root, nil
}

// load recursively instantiates one element. <SubTree ID="X"> loads
// X's previously declared body and wraps it in a bt.SubTree, without
// running it back through p.decorators — only the inner body (by way
// of its own recursive load) gets decorated. <Action ID="TypeName">
// uses TypeName as the registered type name; any other tag is the
// registered type name directly.
func (p *Parser) load(n xmlNode) (bt.Node, error) {
	name := n.XMLName.Local
	attrs := attrsMap(n.Attrs)

	if name == "SubTree" {
		id, ok := attrs["ID"]
		if !ok {
			return nil, fmt.Errorf("parser: <SubTree> missing ID attribute")
		}
		delete(attrs, "ID")
		if len(n.Nested) != 0 {
			return nil, fmt.Errorf("parser: <SubTree ID=%q> must have no XML children", id)
		}
		body, ok := p.trees[id]
		if !ok {
			return nil, fmt.Errorf("parser: unknown subtree ID %q", id)
		}
		bodyNode, err := p.load(body)
		if err != nil {
			return nil, err
		}
		return bt.NewSubTree(id, bodyNode, attrs), nil
	}

	if name == "Action" {
		id, ok := attrs["ID"]
		if !ok {
			return nil, fmt.Errorf("parser: <Action> missing ID attribute")
		}
		delete(attrs, "ID")
		name = id
	}

	children := make([]bt.Node, 0, len(n.Nested))
	for _, c := range n.Nested {
		child, err := p.load(c)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}

	factory, err := registry.Get(name)
	if err != nil {
		return nil, err
	}
	node, err := factory(children, attrs)
	if err != nil {
		return nil, err
	}
	if node.ClassName() != name {
		return nil, fmt.Errorf("parser: node registered as %q reports class name %q", name, node.ClassName())
	}
	for _, d := range p.decorators {
		node = d(node)
	}
	return node, nil
}
