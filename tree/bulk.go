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

	"github.com/cockroachdb/errors"
	"github.com/wildcatdb/btindex"
	"github.com/wildcatdb/btindex/arena"
	"github.com/wildcatdb/btindex/queue"
)

// levelEntry is a node waiting for a parent during bottom-up construction
type levelEntry[K any] struct {
	id  arena.ID
	min K // Smallest key of the subtree rooted at id
}

// bulkLoad replaces the contents of an empty tree with sorted pairs.
// Leaves are packed left to right, then each parent level is built from the
// one below until a single root remains. Node sizes are spread evenly over
// ceil(n/max) nodes per level so no node ends up underfull.
func (t *BTree[K, V]) bulkLoad(pairs []Pair[K, V]) error {
	if t.keys != 0 {
		return errors.New("bulk load requires an empty tree")
	}

	// Group repeated keys into value lists
	keys := make([]K, 0, len(pairs))
	vals := make([][]V, 0, len(pairs))
	for i, p := range pairs {
		if i > 0 {
			d := t.cmp(pairs[i-1].Key, p.Key)
			if d > 0 {
				return errors.Wrapf(ErrUnsortedInput, "pair %d sorts before pair %d", i, i-1)
			}
			if d == 0 {
				if t.unique {
					return &btindex.ConstraintViolation{Index: t.name, Key: p.Key}
				}
				last := len(vals) - 1
				vals[last] = append(vals[last], p.Value)
				continue
			}
		}
		keys = append(keys, p.Key)
		vals = append(vals, []V{p.Value})
	}

	if len(keys) == 0 {
		return nil
	}

	t.pool.reset()

	level := queue.New[levelEntry[K]]()

	// Leaf level
	leafCount := ceilDiv(len(keys), t.maxKeys)
	prevID := arena.Nil
	var prev *node[K, V]
	start := 0
	for _, size := range spread(len(keys), leafCount) {
		id, leaf := t.pool.allocateLeaf()
		leaf.keys = append(make([]K, 0, t.maxKeys+1), keys[start:start+size]...)
		leaf.values = append(make([][]V, 0, t.maxKeys+1), vals[start:start+size]...)
		start += size

		leaf.prev = prevID
		if prev != nil {
			prev.next = id
		}
		prevID, prev = id, leaf

		level.Enqueue(levelEntry[K]{id: id, min: leaf.keys[0]})
	}

	// Parent levels
	for level.Size() > 1 {
		groups := ceilDiv(level.Size(), t.opts.Fanout)
		next := queue.New[levelEntry[K]]()

		for _, size := range spread(level.Size(), groups) {
			id, parent := t.pool.allocateInternal()
			parent.keys = make([]K, 0, t.maxKeys+1)
			parent.children = make([]arena.ID, 0, t.maxKeys+2)

			var first K
			for i := 0; i < size; i++ {
				child, _ := level.Dequeue()
				if i == 0 {
					first = child.min
				} else {
					parent.keys = append(parent.keys, child.min)
				}
				parent.children = append(parent.children, child.id)
				t.pool.get(child.id).parent = id
			}

			next.Enqueue(levelEntry[K]{id: id, min: first})
		}

		level = next
	}

	root, _ := level.Dequeue()
	t.root = root.id
	t.keys = len(keys)
	t.rows = len(pairs)
	t.observe(keys[len(keys)-1])

	t.log(fmt.Sprintf("Bulk loaded index %s with %d keys, %d rows, %d nodes, height %d",
		t.name, t.keys, t.rows, t.pool.live(), t.height()))

	t.verify()
	return nil
}

// spread splits total items into count runs whose sizes differ by at most one,
// longer runs first
func spread(total, count int) []int {
	sizes := make([]int, count)
	base, extra := total/count, total%count
	for i := range sizes {
		sizes[i] = base
		if i < extra {
			sizes[i]++
		}
	}
	return sizes
}

// ceilDiv returns a/b rounded up
func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
