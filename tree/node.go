// Package tree
//
// (C) Copyright Alex Gaetano Padula
//
// Licensed under the Mozilla Public License, v. 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// https://www.mozilla.org/en-US/MPL/2.0/
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package tree

import (
	"slices"
	"sort"

	"github.com/wildcatdb/btindex/arena"
	"github.com/wildcatdb/btindex/keyrange"
)

// node is either a leaf or an internal node of the tree.
// Both variants share key storage; leaves carry value lists and sibling links,
// internal nodes carry child references.
type node[K any, V any] struct {
	id       int64      // Diagnostic identifier, never used for lookups
	leaf     bool       // Is this a leaf node?
	keys     []K        // Keys in the node, sorted
	values   [][]V      // Leaf only, values[i] belongs to keys[i]
	children []arena.ID // Internal only, len(keys)+1 child slots
	parent   arena.ID   // Slot of the parent node, arena.Nil for the root
	prev     arena.ID   // Leaf only, previous leaf in key order
	next     arena.ID   // Leaf only, next leaf in key order
}

// search returns the position of the first key >= key and whether it is an exact match
func (n *node[K, V]) search(c keyrange.Comparator[K], key K) (int, bool) {
	i := sort.Search(len(n.keys), func(i int) bool {
		return c(n.keys[i], key) >= 0
	})
	return i, i < len(n.keys) && c(n.keys[i], key) == 0
}

// childIndex returns the child slot covering key.
// Child i holds keys in [keys[i-1], keys[i]).
func (n *node[K, V]) childIndex(c keyrange.Comparator[K], key K) int {
	return sort.Search(len(n.keys), func(i int) bool {
		return c(n.keys[i], key) > 0
	})
}

// indexOfChild returns the position of child id in n.children, -1 if absent
func (n *node[K, V]) indexOfChild(id arena.ID) int {
	return slices.Index(n.children, id)
}

// insertEntry inserts a key and its value list at position i of a leaf
func (n *node[K, V]) insertEntry(i int, key K, vals []V) {
	n.keys = insertAt(n.keys, i, key)
	n.values = insertAt(n.values, i, vals)
}

// removeEntry removes the key and value list at position i of a leaf
func (n *node[K, V]) removeEntry(i int) {
	n.keys = removeAt(n.keys, i)
	n.values = removeAt(n.values, i)
}

// overflows reports whether the node holds more keys than allowed
func (n *node[K, V]) overflows(maxKeys int) bool {
	return len(n.keys) > maxKeys
}

// insertAt inserts v at index i, shifting later elements right
func insertAt[T any](s []T, i int, v T) []T {
	var zero T
	s = append(s, zero)
	if i < len(s)-1 {
		copy(s[i+1:], s[i:])
	}
	s[i] = v
	return s
}

// removeAt removes the element at index i, shifting later elements left
func removeAt[T any](s []T, i int) []T {
	var zero T
	copy(s[i:], s[i+1:])
	s[len(s)-1] = zero
	return s[:len(s)-1]
}

// truncate drops everything from index i on, clearing the dropped tail
func truncate[T any](s []T, i int) []T {
	var zero T
	for j := i; j < len(s); j++ {
		s[j] = zero
	}
	return s[:i]
}
