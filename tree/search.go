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

	"github.com/wildcatdb/btindex/arena"
)

// Get returns a copy of the values stored under key in insertion order.
// An absent key yields an empty slice.
func (t *BTree[K, V]) Get(key K) []V {
	_, leaf := t.findLeaf(key)
	if i, found := leaf.search(t.cmp, key); found {
		return slices.Clone(leaf.values[i])
	}
	return []V{}
}

// ContainsKey reports whether key is present
func (t *BTree[K, V]) ContainsKey(key K) bool {
	_, leaf := t.findLeaf(key)
	_, found := leaf.search(t.cmp, key)
	return found
}

// findLeaf descends from the root to the leaf whose key range covers key
func (t *BTree[K, V]) findLeaf(key K) (arena.ID, *node[K, V]) {
	id := t.root
	n := t.pool.get(id)
	for !n.leaf {
		id = n.children[n.childIndex(t.cmp, key)]
		n = t.pool.get(id)
	}
	return id, n
}

// firstLeaf returns the leftmost leaf of the subtree rooted at id
func (t *BTree[K, V]) firstLeaf(id arena.ID) (arena.ID, *node[K, V]) {
	n := t.pool.get(id)
	for !n.leaf {
		id = n.children[0]
		n = t.pool.get(id)
	}
	return id, n
}

// lastLeaf returns the rightmost leaf of the subtree rooted at id
func (t *BTree[K, V]) lastLeaf(id arena.ID) (arena.ID, *node[K, V]) {
	n := t.pool.get(id)
	for !n.leaf {
		id = n.children[len(n.children)-1]
		n = t.pool.get(id)
	}
	return id, n
}
