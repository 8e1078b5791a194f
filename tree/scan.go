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

	"github.com/wildcatdb/btindex"
	"github.com/wildcatdb/btindex/keyrange"
)

// Iterator walks the leaf chain over one key range, in either direction.
// Any mutation of the tree invalidates it.
type Iterator[K any, V comparable] struct {
	tree      *BTree[K, V]      // Reference to the tree
	r         keyrange.Range[K] // Range being iterated
	ascending bool              // Direction of iteration
	leaf      *node[K, V]       // Current leaf, nil once exhausted
	idx       int               // Current position within the leaf
}

// GetRange returns the values of every key inside any of ranges, in ascending key order.
// Without ranges the whole tree is returned.
func (t *BTree[K, V]) GetRange(ranges ...keyrange.Range[K]) []V {
	return t.Scan(btindex.ScanOptions{}, ranges...)
}

// Scan returns the values of every key inside any of ranges, honoring the
// direction and paging in opts. Skip and Limit count values, not keys, and
// apply across all ranges. Overlapping ranges yield each value once.
func (t *BTree[K, V]) Scan(opts btindex.ScanOptions, ranges ...keyrange.Range[K]) []V {
	if len(ranges) == 0 {
		ranges = []keyrange.Range[K]{keyrange.All[K]()}
	}

	ranges = keyrange.Normalize(t.cmp, ranges)
	if opts.Reverse {
		slices.Reverse(ranges)
	}

	results := make([]V, 0)
	skip := opts.Skip

	emit := func(v V) bool {
		if skip > 0 {
			skip--
			return true
		}
		results = append(results, v)
		return opts.Limit <= 0 || len(results) < opts.Limit
	}

	for _, r := range ranges {
		for it := t.NewIterator(r, !opts.Reverse); it.Valid(); it.Next() {
			vals := it.leaf.values[it.idx]

			if opts.Reverse {
				for i := len(vals) - 1; i >= 0; i-- {
					if !emit(vals[i]) {
						return results
					}
				}
				continue
			}

			for _, v := range vals {
				if !emit(v) {
					return results
				}
			}
		}
	}

	return results
}

// Cost returns the number of values a scan of r would return
func (t *BTree[K, V]) Cost(r keyrange.Range[K]) int {
	if r.IsAll() {
		return t.rows
	}

	cost := 0
	for it := t.NewIterator(r, true); it.Valid(); it.Next() {
		cost += len(it.leaf.values[it.idx])
	}
	return cost
}

// Min returns the smallest key and a copy of its values
func (t *BTree[K, V]) Min() (K, []V, bool) {
	_, leaf := t.firstLeaf(t.root)
	if len(leaf.keys) == 0 {
		var zero K
		return zero, nil, false
	}
	return leaf.keys[0], slices.Clone(leaf.values[0]), true
}

// Max returns the largest key and a copy of its values
func (t *BTree[K, V]) Max() (K, []V, bool) {
	_, leaf := t.lastLeaf(t.root)
	if len(leaf.keys) == 0 {
		var zero K
		return zero, nil, false
	}
	last := len(leaf.keys) - 1
	return leaf.keys[last], slices.Clone(leaf.values[last]), true
}

// NewIterator positions an iterator on the first key of r in the requested direction
func (t *BTree[K, V]) NewIterator(r keyrange.Range[K], ascending bool) *Iterator[K, V] {
	it := &Iterator[K, V]{
		tree:      t,
		r:         r,
		ascending: ascending,
	}

	if ascending {
		if lower, exclusive, ok := r.Lower(); ok {
			_, it.leaf = t.findLeaf(lower)
			i, found := it.leaf.search(t.cmp, lower)
			if found && exclusive {
				i++
			}
			it.idx = i
		} else {
			_, it.leaf = t.firstLeaf(t.root)
		}
	} else {
		if upper, exclusive, ok := r.Upper(); ok {
			_, it.leaf = t.findLeaf(upper)
			i, found := it.leaf.search(t.cmp, upper)
			if !found || exclusive {
				i--
			}
			it.idx = i
		} else {
			_, it.leaf = t.lastLeaf(t.root)
			it.idx = len(it.leaf.keys) - 1
		}
	}

	it.settle()
	return it
}

// Valid reports whether the iterator points at a key inside its range
func (it *Iterator[K, V]) Valid() bool {
	return it.leaf != nil
}

// Key returns the current key
func (it *Iterator[K, V]) Key() K {
	return it.leaf.keys[it.idx]
}

// Values returns a copy of the values of the current key
func (it *Iterator[K, V]) Values() []V {
	return slices.Clone(it.leaf.values[it.idx])
}

// Next moves to the following key in iteration order and reports whether one exists
func (it *Iterator[K, V]) Next() bool {
	if it.leaf == nil {
		return false
	}

	if it.ascending {
		it.idx++
	} else {
		it.idx--
	}

	it.settle()
	return it.leaf != nil
}

// settle follows the leaf chain past exhausted leaves and ends the iteration
// once the current key leaves the range
func (it *Iterator[K, V]) settle() {
	pool := it.tree.pool

	if it.ascending {
		for it.leaf != nil && it.idx >= len(it.leaf.keys) {
			it.leaf = pool.get(it.leaf.next)
			it.idx = 0
		}
		if it.leaf != nil && it.r.AfterUpper(it.tree.cmp, it.leaf.keys[it.idx]) {
			it.leaf = nil
		}
		return
	}

	for it.leaf != nil && it.idx < 0 {
		it.leaf = pool.get(it.leaf.prev)
		if it.leaf != nil {
			it.idx = len(it.leaf.keys) - 1
		}
	}
	if it.leaf != nil && it.r.BeforeLower(it.tree.cmp, it.leaf.keys[it.idx]) {
		it.leaf = nil
	}
}
