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
	"slices"

	"github.com/wildcatdb/btindex/arena"
)

// Remove deletes key and all of its values. Removing an absent key is a no-op.
func (t *BTree[K, V]) Remove(key K) {
	leafID, leaf := t.findLeaf(key)

	i, found := leaf.search(t.cmp, key)
	if !found {
		return
	}

	t.removeEntry(leafID, leaf, i)
	t.verify()
}

// RemoveValue deletes one occurrence of value from the list stored under key.
// The key itself goes away with its last value.
func (t *BTree[K, V]) RemoveValue(key K, value V) {
	leafID, leaf := t.findLeaf(key)

	i, found := leaf.search(t.cmp, key)
	if !found {
		return
	}

	j := slices.Index(leaf.values[i], value)
	if j < 0 {
		return
	}

	if len(leaf.values[i]) == 1 {
		t.removeEntry(leafID, leaf, i)
	} else {
		leaf.values[i] = removeAt(leaf.values[i], j)
		t.rows--
	}

	t.verify()
}

// removeEntry drops position i of a leaf, rebalances, then repairs a stale separator
func (t *BTree[K, V]) removeEntry(leafID arena.ID, leaf *node[K, V], i int) {
	key := leaf.keys[i]

	t.rows -= len(leaf.values[i])
	t.keys--
	leaf.removeEntry(i)

	t.rebalance(leafID)

	// Only a leaf's first key can appear as a separator
	if i == 0 {
		t.replaceSeparator(key)
	}
}

// rebalance restores the occupancy bound of node id after it lost a key.
// Underflow is fixed by stealing from the left sibling, then the right sibling,
// and otherwise by merging with the left sibling, or the right one when there is none.
// Merges cascade to the parent.
func (t *BTree[K, V]) rebalance(id arena.ID) {
	n := t.pool.get(id)

	if id == t.root {
		if !n.leaf && len(n.keys) == 0 {
			t.collapseRoot()
		}
		return
	}

	if len(n.keys) >= t.minKeys {
		return
	}

	parentID := n.parent
	parent := t.pool.get(parentID)
	idx := parent.indexOfChild(id)

	var left, right *node[K, V]
	if idx > 0 {
		left = t.pool.get(parent.children[idx-1])
	}
	if idx < len(parent.children)-1 {
		right = t.pool.get(parent.children[idx+1])
	}

	switch {
	case left != nil && len(left.keys) > t.minKeys:
		t.borrowFromLeft(id, n, left, parent, idx)
	case right != nil && len(right.keys) > t.minKeys:
		t.borrowFromRight(id, n, right, parent, idx)
	case left != nil:
		t.merge(parent, idx-1)
		t.rebalance(parentID)
	default:
		t.merge(parent, idx)
		t.rebalance(parentID)
	}
}

// borrowFromLeft moves the last entry of the left sibling to the front of n
func (t *BTree[K, V]) borrowFromLeft(id arena.ID, n, left, parent *node[K, V], idx int) {
	last := len(left.keys) - 1

	if n.leaf {
		n.insertEntry(0, left.keys[last], left.values[last])
		left.keys = truncate(left.keys, last)
		left.values = truncate(left.values, last)
		parent.keys[idx-1] = n.keys[0]
		return
	}

	// Rotate through the parent: the separator comes down, left's last key goes up
	child := left.children[last+1]
	n.keys = insertAt(n.keys, 0, parent.keys[idx-1])
	n.children = insertAt(n.children, 0, child)
	t.pool.get(child).parent = id

	parent.keys[idx-1] = left.keys[last]
	left.keys = truncate(left.keys, last)
	left.children = truncate(left.children, last+1)
}

// borrowFromRight moves the first entry of the right sibling to the end of n
func (t *BTree[K, V]) borrowFromRight(id arena.ID, n, right, parent *node[K, V], idx int) {
	if n.leaf {
		n.keys = append(n.keys, right.keys[0])
		n.values = append(n.values, right.values[0])
		right.removeEntry(0)
		parent.keys[idx] = right.keys[0]
		return
	}

	child := right.children[0]
	n.keys = append(n.keys, parent.keys[idx])
	n.children = append(n.children, child)
	t.pool.get(child).parent = id

	parent.keys[idx] = right.keys[0]
	right.keys = removeAt(right.keys, 0)
	right.children = removeAt(right.children, 0)
}

// merge folds child sep+1 of parent into child sep and drops their separator
func (t *BTree[K, V]) merge(parent *node[K, V], sep int) {
	leftID := parent.children[sep]
	rightID := parent.children[sep+1]
	left := t.pool.get(leftID)
	right := t.pool.get(rightID)

	if left.leaf {
		left.keys = append(left.keys, right.keys...)
		left.values = append(left.values, right.values...)

		left.next = right.next
		if right.next != arena.Nil {
			t.pool.get(right.next).prev = leftID
		}
	} else {
		left.keys = append(left.keys, parent.keys[sep])
		left.keys = append(left.keys, right.keys...)
		for _, child := range right.children {
			t.pool.get(child).parent = leftID
		}
		left.children = append(left.children, right.children...)
	}

	parent.keys = removeAt(parent.keys, sep)
	parent.children = removeAt(parent.children, sep+1)

	t.release(rightID)
}

// collapseRoot replaces an internal root left without keys by its only child
func (t *BTree[K, V]) collapseRoot() {
	oldRoot := t.root
	n := t.pool.get(oldRoot)

	t.root = n.children[0]
	t.pool.get(t.root).parent = arena.Nil
	t.release(oldRoot)

	t.log(fmt.Sprintf("Root collapsed in index %s, height is now %d", t.name, t.height()))
}

// replaceSeparator finds the separator equal to a removed key and replaces it
// with the smallest key of the subtree to its right. A separator always equals
// the smallest key of its right subtree, so at most one node holds it.
func (t *BTree[K, V]) replaceSeparator(key K) {
	n := t.pool.get(t.root)
	for !n.leaf {
		i, found := n.search(t.cmp, key)
		if found {
			_, leaf := t.firstLeaf(n.children[i+1])
			n.keys[i] = leaf.keys[0]
			return
		}
		n = t.pool.get(n.children[i])
	}
}
