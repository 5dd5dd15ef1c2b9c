// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package bt

import "github.com/NHR-FAU/bt-engine/pkg/status"

// scriptedLeaf is a childless node whose Tick results are scripted in
// advance, used across this package's tests to drive composites and
// decorators without needing a real action.
type scriptedLeaf struct {
	*Base
	results   []status.Status
	calls     int
	haltCalls int
}

func newScriptedLeaf(results ...status.Status) *scriptedLeaf {
	l := &scriptedLeaf{results: results}
	l.Base = NewBase(l, "ScriptedLeaf", nil, nil)
	return l
}

func (l *scriptedLeaf) Tick() status.Status {
	return l.TickWith(func() status.Status {
		if l.calls >= len(l.results) {
			return l.results[len(l.results)-1]
		}
		r := l.results[l.calls]
		l.calls++
		return r
	})
}

func (l *scriptedLeaf) Halt() {
	l.haltCalls++
}
