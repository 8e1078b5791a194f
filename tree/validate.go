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
	"github.com/cockroachdb/errors"
	"github.com/wildcatdb/btindex/arena"
	"github.com/wildcatdb/btindex/stack"
)

// bound is an optional key limit inherited from ancestor separators
type bound[K any] struct {
	key K
	ok  bool
}

// frame is one pending node of the validation walk
type frame[K any] struct {
	id     arena.ID
	depth  int
	lower  bound[K] // Inclusive
	upper  bound[K] // Exclusive
	parent arena.ID
}

// Validate checks every structural invariant of the tree:
// keys ascend within each node, non-root nodes respect the occupancy bounds,
// children hold only keys between their separators, each separator equals the
// smallest key to its right, all leaves sit at the same depth, the leaf chain
// visits every leaf once in key order with mirrored prev links, parent
// references are correct, a unique tree holds one value per key, and the
// node and row counters match the tree contents.
func (t *BTree[K, V]) Validate() error {
	root := t.pool.get(t.root)
	if root == nil {
		return errors.AssertionFailedf("index %s: root %d is not allocated", t.name, t.root)
	}
	if root.parent != arena.Nil {
		return errors.AssertionFailedf("index %s: root %d has parent %d", t.name, t.root, root.parent)
	}

	var (
		visited   = make(map[arena.ID]struct{})
		leaves    []arena.ID
		leafDepth = -1
		keys      int
		rows      int
	)

	pending := stack.New[frame[K]]()
	pending.Push(frame[K]{id: t.root, parent: arena.Nil})

	for !pending.IsEmpty() {
		f, _ := pending.Pop()

		n := t.pool.get(f.id)
		if n == nil {
			return errors.AssertionFailedf("index %s: node %d is referenced but not allocated", t.name, f.id)
		}
		if _, seen := visited[f.id]; seen {
			return errors.AssertionFailedf("index %s: node %d is reachable twice", t.name, f.id)
		}
		visited[f.id] = struct{}{}

		if n.parent != f.parent {
			return errors.AssertionFailedf("index %s: node %d names parent %d, held by %d", t.name, f.id, n.parent, f.parent)
		}

		if err := t.validateKeys(f, n); err != nil {
			return err
		}

		if n.leaf {
			if leafDepth == -1 {
				leafDepth = f.depth
			} else if f.depth != leafDepth {
				return errors.AssertionFailedf("index %s: leaf %d at depth %d, expected %d", t.name, f.id, f.depth, leafDepth)
			}

			if len(n.values) != len(n.keys) {
				return errors.AssertionFailedf("index %s: leaf %d has %d keys and %d value lists", t.name, f.id, len(n.keys), len(n.values))
			}
			if len(n.children) != 0 {
				return errors.AssertionFailedf("index %s: leaf %d has children", t.name, f.id)
			}

			for i, vals := range n.values {
				if len(vals) == 0 {
					return errors.AssertionFailedf("index %s: leaf %d key %v has no values", t.name, f.id, n.keys[i])
				}
				if t.unique && len(vals) != 1 {
					return errors.AssertionFailedf("index %s: unique key %v has %d values", t.name, n.keys[i], len(vals))
				}
				rows += len(vals)
			}

			keys += len(n.keys)
			leaves = append(leaves, f.id)
			continue
		}

		if len(n.children) != len(n.keys)+1 {
			return errors.AssertionFailedf("index %s: node %d has %d keys and %d children", t.name, f.id, len(n.keys), len(n.children))
		}

		for i, sep := range n.keys {
			_, leaf := t.firstLeaf(n.children[i+1])
			if len(leaf.keys) == 0 || t.cmp(leaf.keys[0], sep) != 0 {
				return errors.AssertionFailedf("index %s: node %d separator %v is not the smallest key of its right subtree", t.name, f.id, sep)
			}
		}

		// Push right to left so leaves are collected in key order
		for i := len(n.children) - 1; i >= 0; i-- {
			child := frame[K]{id: n.children[i], depth: f.depth + 1, lower: f.lower, upper: f.upper, parent: f.id}
			if i > 0 {
				child.lower = bound[K]{key: n.keys[i-1], ok: true}
			}
			if i < len(n.keys) {
				child.upper = bound[K]{key: n.keys[i], ok: true}
			}
			pending.Push(child)
		}
	}

	if err := t.validateChain(leaves); err != nil {
		return err
	}

	if live := t.pool.live(); live != len(visited) {
		return errors.AssertionFailedf("index %s: %d nodes allocated, %d reachable", t.name, live, len(visited))
	}
	if keys != t.keys {
		return errors.AssertionFailedf("index %s: counted %d keys, tracked %d", t.name, keys, t.keys)
	}
	if rows != t.rows {
		return errors.AssertionFailedf("index %s: counted %d rows, tracked %d", t.name, rows, t.rows)
	}

	return nil
}

// validateKeys checks ordering, occupancy and separator bounds of one node
func (t *BTree[K, V]) validateKeys(f frame[K], n *node[K, V]) error {
	for i := 1; i < len(n.keys); i++ {
		if t.cmp(n.keys[i-1], n.keys[i]) >= 0 {
			return errors.AssertionFailedf("index %s: node %d keys %v and %v out of order", t.name, f.id, n.keys[i-1], n.keys[i])
		}
	}

	if len(n.keys) > t.maxKeys {
		return errors.AssertionFailedf("index %s: node %d holds %d keys, max %d", t.name, f.id, len(n.keys), t.maxKeys)
	}
	if f.id != t.root && len(n.keys) < t.minKeys {
		return errors.AssertionFailedf("index %s: node %d holds %d keys, min %d", t.name, f.id, len(n.keys), t.minKeys)
	}
	if f.id == t.root && !n.leaf && len(n.keys) == 0 {
		return errors.AssertionFailedf("index %s: internal root %d has no keys", t.name, f.id)
	}

	if len(n.keys) == 0 {
		return nil
	}

	first, last := n.keys[0], n.keys[len(n.keys)-1]
	if f.lower.ok && t.cmp(first, f.lower.key) < 0 {
		return errors.AssertionFailedf("index %s: node %d key %v below separator %v", t.name, f.id, first, f.lower.key)
	}
	if f.upper.ok && t.cmp(last, f.upper.key) >= 0 {
		return errors.AssertionFailedf("index %s: node %d key %v not below separator %v", t.name, f.id, last, f.upper.key)
	}

	return nil
}

// validateChain walks the leaf chain and compares it with the leaves found by
// descending the tree
func (t *BTree[K, V]) validateChain(leaves []arena.ID) error {
	id := leaves[0]
	prevID := arena.Nil
	var prev *node[K, V]

	for i := 0; ; i++ {
		if id == arena.Nil {
			if i != len(leaves) {
				return errors.AssertionFailedf("index %s: leaf chain visits %d of %d leaves", t.name, i, len(leaves))
			}
			return nil
		}

		if i >= len(leaves) || leaves[i] != id {
			return errors.AssertionFailedf("index %s: leaf chain reaches %d out of key order", t.name, id)
		}

		n := t.pool.get(id)
		if n.prev != prevID {
			return errors.AssertionFailedf("index %s: leaf %d prev is %d, expected %d", t.name, id, n.prev, prevID)
		}

		if prev != nil && len(prev.keys) > 0 && len(n.keys) > 0 &&
			t.cmp(prev.keys[len(prev.keys)-1], n.keys[0]) >= 0 {
			return errors.AssertionFailedf("index %s: leaf %d does not follow leaf %d in key order", t.name, id, prevID)
		}

		prevID, prev = id, n
		id = n.next
	}
}
