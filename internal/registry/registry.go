// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package registry is the process-wide, layered map from a node's
// registered type name to the factory that builds it. Tests and
// parser-level DSLs that need an isolated set of names push a layer
// with Scope and pop it again when done, rather than mutating the
// shared base layer.
package registry

import (
	"fmt"

	"github.com/NHR-FAU/bt-engine/internal/bt"
	"github.com/NHR-FAU/bt-engine/internal/collections"
)

// Factory builds a node from its already-instantiated children and
// its raw (still-string) port attributes.
type Factory func(children []bt.Node, ports map[string]string) (bt.Node, error)

// Named is implemented by a factory type that knows its own
// registered name, letting Register derive the registry key instead
// of requiring it to be passed separately.
type Named interface {
	Name() string
	New(children []bt.Node, ports map[string]string) (bt.Node, error)
}

var current = collections.New[string, Factory]()

// Has reports whether name is registered in the current layer or any
// enclosing one.
func Has(name string) bool {
	return current.Contains(name)
}

// Get returns the factory registered under name, or an error if no
// layer has it.
func Get(name string) (Factory, error) {
	f, err := current.Get(name)
	if err != nil {
		return nil, fmt.Errorf("registry: unknown node type %q", name)
	}
	return f, nil
}

// RegisterNamed registers factory under name in the current (topmost)
// layer. It is an error to register a name already present in that
// same layer; shadowing a name from an enclosing layer is fine.
func RegisterNamed(name string, factory Factory) error {
	if current.ContainsTop(name) {
		return fmt.Errorf("registry: %q already registered", name)
	}
	current.Set(name, factory)
	return nil
}

// Register registers a Named factory under the name it reports for
// itself.
func Register(nf Named) error {
	return RegisterNamed(nf.Name(), nf.New)
}

// Registrar returns a one-argument registrar for name, for
// decorator-style registration: Registrar("Foo")(fooFactory).
func Registrar(name string) func(Factory) error {
	return func(f Factory) error {
		return RegisterNamed(name, f)
	}
}

// Scope pushes a new, empty layer on top of the current registry and
// returns a function that pops it again, restoring the registry to
// what it was before Scope was called. Typical use is
// "defer registry.Scope()()" around a block that registers
// scope-local node types.
func Scope() func() {
	parent := current
	current = collections.NewChild(parent)
	return func() {
		current = parent
	}
}
