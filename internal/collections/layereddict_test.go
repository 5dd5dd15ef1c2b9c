// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package collections

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetWalksParentChain(t *testing.T) {
	t.Run("found in own layer", func(t *testing.T) {
		root := New[string, int]()
		root.Set("a", 1)

		v, err := root.Get("a")
		require.NoError(t, err)
		assert.Equal(t, 1, v)
	})

	t.Run("found in parent layer", func(t *testing.T) {
		root := New[string, int]()
		root.Set("a", 1)
		child := NewChild(root)

		v, err := child.Get("a")
		require.NoError(t, err)
		assert.Equal(t, 1, v)
	})

	t.Run("child shadows parent", func(t *testing.T) {
		root := New[string, int]()
		root.Set("a", 1)
		child := NewChild(root)
		child.Set("a", 2)

		v, err := child.Get("a")
		require.NoError(t, err)
		assert.Equal(t, 2, v)

		parentV, err := root.Get("a")
		require.NoError(t, err)
		assert.Equal(t, 1, parentV, "writing to the child must not mutate the parent")
	})

	t.Run("missing key reports flattened dict", func(t *testing.T) {
		root := New[string, int]()
		root.Set("a", 1)
		child := NewChild(root)
		child.Set("b", 2)

		_, err := child.Get("missing")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing")
		assert.Contains(t, err.Error(), "not found in")
	})
}

func TestContains(t *testing.T) {
	root := New[string, int]()
	root.Set("a", 1)
	child := NewChild(root)
	child.Set("b", 2)

	assert.True(t, child.Contains("a"))
	assert.True(t, child.Contains("b"))
	assert.False(t, child.Contains("c"))

	assert.False(t, child.ContainsTop("a"), "a lives in the parent, not the child's own layer")
	assert.True(t, child.ContainsTop("b"))
}

func TestSetOnlyTouchesOwnLayer(t *testing.T) {
	root := New[string, int]()
	child := NewChild(root)

	child.Set("a", 1)

	assert.False(t, root.Contains("a"))
	assert.True(t, child.Contains("a"))
}

func TestFlatten(t *testing.T) {
	root := New[string, int]()
	root.Set("a", 1)
	root.Set("b", 1)
	child := NewChild(root)
	child.Set("b", 2)
	child.Set("c", 3)

	flat := child.Flatten()
	assert.Equal(t, map[string]int{"a": 1, "b": 2, "c": 3}, flat)

	rootFlat := root.Flatten()
	assert.Equal(t, map[string]int{"a": 1, "b": 1}, rootFlat)
}

func TestHasParent(t *testing.T) {
	root := New[string, int]()
	child := NewChild(root)

	assert.False(t, root.HasParent())
	assert.Nil(t, root.Parent())
	assert.True(t, child.HasParent())
	assert.Equal(t, root, child.Parent())
}
