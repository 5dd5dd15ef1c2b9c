// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package builtins registers the engine's built-in composite and
// decorator node types into the registry. It's kept separate from
// package bt so bt never has to import the registry package.
package builtins

import (
	"fmt"

	"github.com/NHR-FAU/bt-engine/internal/bt"
	"github.com/NHR-FAU/bt-engine/internal/registry"
)

func oneChild(name string, children []bt.Node) (bt.Node, error) {
	if len(children) != 1 {
		return nil, fmt.Errorf("%s: expects exactly one child, got %d", name, len(children))
	}
	return children[0], nil
}

// Register installs every built-in composite and decorator under its
// canonical BehaviorTree.CPP tag name. Call it once before parsing any
// tree. It is not idempotent: a second call in the same registry
// layer returns the registry's usual collision error.
func Register() error {
	composites := map[string]registry.Factory{
		"Sequence": func(children []bt.Node, ports map[string]string) (bt.Node, error) {
			return bt.NewSequence(children, ports), nil
		},
		"SequenceWithMemory": func(children []bt.Node, ports map[string]string) (bt.Node, error) {
			return bt.NewSequenceWithMemory(children, ports), nil
		},
		"ReactiveSequence": func(children []bt.Node, ports map[string]string) (bt.Node, error) {
			return bt.NewReactiveSequence(children, ports), nil
		},
		"Fallback": func(children []bt.Node, ports map[string]string) (bt.Node, error) {
			return bt.NewFallback(children, ports), nil
		},
		"ReactiveFallback": func(children []bt.Node, ports map[string]string) (bt.Node, error) {
			return bt.NewReactiveFallback(children, ports), nil
		},
	}

	decorators := map[string]func(bt.Node, map[string]string) bt.Node{
		"Inverter": func(c bt.Node, p map[string]string) bt.Node {
			return bt.NewInverter(c, p)
		},
		"ForceSuccess": func(c bt.Node, p map[string]string) bt.Node {
			return bt.NewForceSuccess(c, p)
		},
		"ForceFailure": func(c bt.Node, p map[string]string) bt.Node {
			return bt.NewForceFailure(c, p)
		},
		"Repeat": func(c bt.Node, p map[string]string) bt.Node {
			return bt.NewRepeat(c, p)
		},
		"RetryUntilSuccessful": func(c bt.Node, p map[string]string) bt.Node {
			return bt.NewRetryUntilSuccessful(c, p)
		},
		"KeepRunningUntilFailure": func(c bt.Node, p map[string]string) bt.Node {
			return bt.NewKeepRunningUntilFailure(c, p)
		},
		"Delay": func(c bt.Node, p map[string]string) bt.Node {
			return bt.NewDelay(c, p)
		},
		"RunOnce": func(c bt.Node, p map[string]string) bt.Node {
			return bt.NewRunOnce(c, p)
		},
	}

	for name, factory := range composites {
		if err := registry.RegisterNamed(name, factory); err != nil {
			return err
		}
	}
	for name, build := range decorators {
		name, build := name, build
		factory := func(children []bt.Node, ports map[string]string) (bt.Node, error) {
			child, err := oneChild(name, children)
			if err != nil {
				return nil, err
			}
			return build(child, ports), nil
		}
		if err := registry.RegisterNamed(name, factory); err != nil {
			return err
		}
	}
	return nil
}
