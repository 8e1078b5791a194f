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
	"cmp"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/wildcatdb/btindex"
	"github.com/wildcatdb/btindex/arena"
	"github.com/wildcatdb/btindex/internal/invariants"
	"github.com/wildcatdb/btindex/keyrange"
)

// Defaults
const (
	DefaultFanout = 511 // Maximum children per internal node, 510 keys per node
	MinFanout     = 3   // Smallest fanout that still forms a tree
)

var (
	// ErrInvalidFanout is returned for an even fanout or one below MinFanout
	ErrInvalidFanout = errors.New("fanout must be odd and at least 3")

	// ErrUnsortedInput is returned when bulk input is not in ascending key order
	ErrUnsortedInput = errors.New("bulk input is not sorted by key")

	// ErrCorruptSnapshot is returned when exported data fails its integrity check
	ErrCorruptSnapshot = errors.New("corrupt index snapshot")
)

// Options configures a tree
type Options struct {
	Fanout     int         // Maximum number of children of an internal node, must be odd
	LogChannel chan string // Channel for logging, sends never block
}

// BTree is an in-memory B+tree mapping keys to lists of row values.
// Leaves are chained in key order for range scans.
// A BTree is not safe for concurrent mutation.
type BTree[K any, V comparable] struct {
	name    string                 // Index name
	unique  bool                   // Reject duplicate keys
	cmp     keyrange.Comparator[K] // Key order
	opts    *Options               // Configuration options
	maxKeys int                    // Fanout - 1
	minKeys int                    // Fanout / 2
	pool    *nodePool[K, V]        // Owner of every node
	root    arena.ID               // Slot of the root node
	keys    int                    // Number of distinct keys
	rows    int                    // Number of values across all keys
	maxKey  K                      // Largest key ever stored
	hasMax  bool                   // Whether maxKey is set
}

var _ btindex.Index[int, int] = (*BTree[int, int])(nil)

// Pair is one key/value input of the bulk constructor
type Pair[K any, V any] struct {
	Key   K
	Value V
}

// New creates an empty tree ordered by the natural order of K
func New[K cmp.Ordered, V comparable](name string, unique bool, opts *Options) (*BTree[K, V], error) {
	return NewWithComparator[K, V](name, unique, keyrange.Ordered[K](), opts)
}

// NewWithComparator creates an empty tree ordered by c
func NewWithComparator[K any, V comparable](name string, unique bool, c keyrange.Comparator[K], opts *Options) (*BTree[K, V], error) {
	if c == nil {
		return nil, errors.New("comparator is required")
	}

	o := &Options{}
	if opts != nil {
		*o = *opts
	}

	if o.Fanout == 0 {
		o.Fanout = DefaultFanout
	}

	if o.Fanout < MinFanout || o.Fanout%2 == 0 {
		return nil, errors.Wrapf(ErrInvalidFanout, "got %d", o.Fanout)
	}

	t := &BTree[K, V]{
		name:    name,
		unique:  unique,
		cmp:     c,
		opts:    o,
		maxKeys: o.Fanout - 1,
		minKeys: o.Fanout / 2,
		pool:    newNodePool[K, V](),
	}
	t.root, _ = t.pool.allocateLeaf()

	t.log(fmt.Sprintf("Created index %s (unique=%t, fanout=%d)", name, unique, o.Fanout))

	return t, nil
}

// NewFromSorted builds a tree from pairs sorted ascending by key.
// Repeated keys are merged into one value list, or rejected for a unique tree.
func NewFromSorted[K cmp.Ordered, V comparable](name string, unique bool, pairs []Pair[K, V], opts *Options) (*BTree[K, V], error) {
	return NewFromSortedWithComparator[K, V](name, unique, keyrange.Ordered[K](), pairs, opts)
}

// NewFromSortedWithComparator builds a tree from pairs sorted ascending by c
func NewFromSortedWithComparator[K any, V comparable](name string, unique bool, c keyrange.Comparator[K], pairs []Pair[K, V], opts *Options) (*BTree[K, V], error) {
	t, err := NewWithComparator[K, V](name, unique, c, opts)
	if err != nil {
		return nil, err
	}

	if err := t.bulkLoad(pairs); err != nil {
		return nil, err
	}

	return t, nil
}

// Name returns the index name
func (t *BTree[K, V]) Name() string {
	return t.name
}

// IsUniqueKey reports whether the tree rejects duplicate keys
func (t *BTree[K, V]) IsUniqueKey() bool {
	return t.unique
}

// Comparator returns the key order of the tree
func (t *BTree[K, V]) Comparator() keyrange.Comparator[K] {
	return t.cmp
}

// Fanout returns the maximum number of children of an internal node
func (t *BTree[K, V]) Fanout() int {
	return t.opts.Fanout
}

// Len returns the number of distinct keys
func (t *BTree[K, V]) Len() int {
	return t.keys
}

// Stats returns row statistics
func (t *BTree[K, V]) Stats() btindex.Stats[K] {
	return btindex.Stats[K]{
		TotalRows:         t.rows,
		MaxKeyEncountered: t.maxKey,
		HasMaxKey:         t.hasMax,
	}
}

// Clear removes every key, leaving a single empty root leaf
func (t *BTree[K, V]) Clear() {
	t.pool.reset()
	t.root, _ = t.pool.allocateLeaf()
	t.keys = 0
	t.rows = 0

	var zero K
	t.maxKey = zero
	t.hasMax = false

	t.log(fmt.Sprintf("Cleared index %s", t.name))
	t.verify()
}

// observe records key for the max key statistic
func (t *BTree[K, V]) observe(key K) {
	if !t.hasMax || t.cmp(key, t.maxKey) > 0 {
		t.maxKey = key
		t.hasMax = true
	}
}

// height returns the number of levels, 1 for a root leaf
func (t *BTree[K, V]) height() int {
	h := 1
	n := t.pool.get(t.root)
	for !n.leaf {
		n = t.pool.get(n.children[0])
		h++
	}
	return h
}

// verify re-checks every structural invariant in builds tagged invariants
func (t *BTree[K, V]) verify() {
	if invariants.Enabled {
		if err := t.Validate(); err != nil {
			panic(err)
		}
	}
}

// release returns a node slot to the pool. A failure means the tree referenced a freed node.
func (t *BTree[K, V]) release(id arena.ID) {
	if err := t.pool.release(id); err != nil {
		panic(errors.NewAssertionErrorWithWrappedErrf(err, "index %s", t.name))
	}
}

// log sends a message to the log channel without blocking
func (t *BTree[K, V]) log(msg string) {
	if t.opts.LogChannel != nil {
		select {
		case t.opts.LogChannel <- msg:
		default:
		}
	}
}
