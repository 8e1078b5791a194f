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
	"fmt"

	"github.com/wildcatdb/btindex"
	"github.com/wildcatdb/btindex/arena"
)

// Add stores value under key.
// A unique tree rejects an existing key with a *btindex.ConstraintViolation and stays unchanged.
// A non-unique tree appends value to the key's value list.
func (t *BTree[K, V]) Add(key K, value V) error {
	leafID, leaf := t.findLeaf(key)

	i, found := leaf.search(t.cmp, key)
	if found {
		if t.unique {
			return &btindex.ConstraintViolation{Index: t.name, Key: key}
		}

		leaf.values[i] = append(leaf.values[i], value)
		t.rows++
		t.verify()
		return nil
	}

	t.insertNew(leafID, leaf, i, key, []V{value})
	t.verify()
	return nil
}

// Set stores value under key, replacing every value already stored there
func (t *BTree[K, V]) Set(key K, value V) {
	leafID, leaf := t.findLeaf(key)

	i, found := leaf.search(t.cmp, key)
	if found {
		t.rows -= len(leaf.values[i]) - 1
		leaf.values[i] = []V{value}
		t.verify()
		return
	}

	t.insertNew(leafID, leaf, i, key, []V{value})
	t.verify()
}

// insertNew places an absent key at position i of a leaf and splits on overflow
func (t *BTree[K, V]) insertNew(leafID arena.ID, leaf *node[K, V], i int, key K, vals []V) {
	leaf.insertEntry(i, key, vals)
	t.keys++
	t.rows += len(vals)
	t.observe(key)

	if leaf.overflows(t.maxKeys) {
		t.splitLeaf(leafID, leaf)
	}
}

// splitLeaf moves the upper half of an overflowing leaf into a new right sibling.
// The left leaf keeps floor(n/2) entries and the right leaf's first key is promoted.
func (t *BTree[K, V]) splitLeaf(id arena.ID, n *node[K, V]) {
	mid := len(n.keys) / 2

	rightID, right := t.pool.allocateLeaf()
	right.keys = append(make([]K, 0, t.maxKeys+1), n.keys[mid:]...)
	right.values = append(make([][]V, 0, t.maxKeys+1), n.values[mid:]...)

	n.keys = truncate(n.keys, mid)
	n.values = truncate(n.values, mid)

	// Relink the leaf chain
	right.prev = id
	right.next = n.next
	if n.next != arena.Nil {
		t.pool.get(n.next).prev = rightID
	}
	n.next = rightID

	t.insertIntoParent(id, n, right.keys[0], rightID, right)
}

// splitInternal moves the keys and children above the median into a new right sibling.
// The median key moves up to the parent.
func (t *BTree[K, V]) splitInternal(id arena.ID, n *node[K, V]) {
	mid := len(n.keys) / 2
	sep := n.keys[mid]

	rightID, right := t.pool.allocateInternal()
	right.keys = append(make([]K, 0, t.maxKeys+1), n.keys[mid+1:]...)
	right.children = append(make([]arena.ID, 0, t.maxKeys+2), n.children[mid+1:]...)
	for _, child := range right.children {
		t.pool.get(child).parent = rightID
	}

	n.keys = truncate(n.keys, mid)
	n.children = truncate(n.children, mid+1)

	t.insertIntoParent(id, n, sep, rightID, right)
}

// insertIntoParent links a freshly split right node next to left under separator sep,
// growing a new root when left was the root
func (t *BTree[K, V]) insertIntoParent(leftID arena.ID, left *node[K, V], sep K, rightID arena.ID, right *node[K, V]) {
	if left.parent == arena.Nil {
		rootID, root := t.pool.allocateInternal()
		root.keys = append(make([]K, 0, t.maxKeys+1), sep)
		root.children = append(make([]arena.ID, 0, t.maxKeys+2), leftID, rightID)
		left.parent = rootID
		right.parent = rootID
		t.root = rootID

		t.log(fmt.Sprintf("Root split in index %s, height is now %d", t.name, t.height()))
		return
	}

	parentID := left.parent
	parent := t.pool.get(parentID)

	idx := parent.indexOfChild(leftID)
	parent.keys = insertAt(parent.keys, idx, sep)
	parent.children = insertAt(parent.children, idx+1, rightID)
	right.parent = parentID

	if parent.overflows(t.maxKeys) {
		t.splitInternal(parentID, parent)
	}
}
