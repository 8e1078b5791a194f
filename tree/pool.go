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
)

// nodePool owns every node of a tree. Nodes reference each other by slot ID only.
type nodePool[K any, V any] struct {
	nodes *arena.Arena[node[K, V]]
	ids   *idGenerator
}

// newNodePool creates an empty node pool
func newNodePool[K any, V any]() *nodePool[K, V] {
	return &nodePool[K, V]{
		nodes: arena.New[node[K, V]](),
		ids:   newIDGenerator(),
	}
}

// allocateLeaf returns a new detached leaf node
func (p *nodePool[K, V]) allocateLeaf() (arena.ID, *node[K, V]) {
	id, n := p.nodes.Alloc()
	n.id = p.ids.nextID()
	n.leaf = true
	n.parent = arena.Nil
	n.prev = arena.Nil
	n.next = arena.Nil
	return id, n
}

// allocateInternal returns a new detached internal node
func (p *nodePool[K, V]) allocateInternal() (arena.ID, *node[K, V]) {
	id, n := p.nodes.Alloc()
	n.id = p.ids.nextID()
	n.parent = arena.Nil
	n.prev = arena.Nil
	n.next = arena.Nil
	return id, n
}

// get returns the node in slot id, nil for a released or unknown slot
func (p *nodePool[K, V]) get(id arena.ID) *node[K, V] {
	return p.nodes.Get(id)
}

// release returns slot id to the pool. The caller has already unlinked it.
func (p *nodePool[K, V]) release(id arena.ID) error {
	if err := p.nodes.Release(id); err != nil {
		return errors.Wrapf(err, "release node %d", id)
	}
	return nil
}

// live returns the number of allocated nodes
func (p *nodePool[K, V]) live() int {
	return p.nodes.Count()
}

// allocated returns how many nodes were ever allocated since the last reset
func (p *nodePool[K, V]) allocated() int64 {
	return p.ids.issued()
}

// reset drops every node at once
func (p *nodePool[K, V]) reset() {
	p.nodes.Reset()
	p.ids.reset()
}
