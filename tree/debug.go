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
	"strings"

	"github.com/wildcatdb/btindex/arena"
	"github.com/wildcatdb/btindex/queue"
)

// NodeSnapshot is a detached copy of one node.
// Node references use diagnostic identifiers, -1 meaning none.
type NodeSnapshot[K any, V any] struct {
	ID       int64
	Level    int // 0 for the root
	Leaf     bool
	Keys     []K
	Values   [][]V // Leaves only
	Children []int64
	Parent   int64
	Prev     int64 // Leaves only
	Next     int64 // Leaves only
}

// Snapshot is a detached level-order copy of the whole tree
type Snapshot[K any, V any] struct {
	Name   string
	Unique bool
	Fanout int
	Height int
	Nodes  []NodeSnapshot[K, V]
}

// Shape summarizes the tree structure
type Shape struct {
	Height   int // Number of levels, 1 for a root leaf
	Nodes    int // Reachable nodes
	Leaves   int
	Internal int
	Keys     int
	Rows     int
}

// levelNode is a node visited by the level-order walk
type levelNode struct {
	id    arena.ID
	level int
}

// walkLevels visits every node in level order, left to right
func (t *BTree[K, V]) walkLevels(f func(id arena.ID, n *node[K, V], level int)) {
	q := queue.New[levelNode]()
	q.Enqueue(levelNode{id: t.root})

	for !q.IsEmpty() {
		item, _ := q.Dequeue()
		n := t.pool.get(item.id)
		f(item.id, n, item.level)

		for _, child := range n.children {
			q.Enqueue(levelNode{id: child, level: item.level + 1})
		}
	}
}

// diagnosticID returns the dump label of the node in slot id
func (t *BTree[K, V]) diagnosticID(id arena.ID) int64 {
	if n := t.pool.get(id); n != nil {
		return n.id
	}
	return -1
}

// Snapshot copies every reachable node in level order
func (t *BTree[K, V]) Snapshot() Snapshot[K, V] {
	s := Snapshot[K, V]{
		Name:   t.name,
		Unique: t.unique,
		Fanout: t.opts.Fanout,
	}

	t.walkLevels(func(id arena.ID, n *node[K, V], level int) {
		ns := NodeSnapshot[K, V]{
			ID:     n.id,
			Level:  level,
			Leaf:   n.leaf,
			Keys:   append([]K(nil), n.keys...),
			Parent: t.diagnosticID(n.parent),
			Prev:   t.diagnosticID(n.prev),
			Next:   t.diagnosticID(n.next),
		}

		if n.leaf {
			ns.Values = make([][]V, len(n.values))
			for i, vals := range n.values {
				ns.Values[i] = append([]V(nil), vals...)
			}
		} else {
			ns.Children = make([]int64, len(n.children))
			for i, child := range n.children {
				ns.Children[i] = t.diagnosticID(child)
			}
		}

		s.Nodes = append(s.Nodes, ns)
		if level+1 > s.Height {
			s.Height = level + 1
		}
	})

	return s
}

// Shape counts the nodes, keys and rows of the tree
func (t *BTree[K, V]) Shape() Shape {
	var s Shape
	t.walkLevels(func(_ arena.ID, n *node[K, V], level int) {
		s.Nodes++
		if n.leaf {
			s.Leaves++
			s.Keys += len(n.keys)
			for _, vals := range n.values {
				s.Rows += len(vals)
			}
		} else {
			s.Internal++
		}
		if level+1 > s.Height {
			s.Height = level + 1
		}
	})
	return s
}

// String dumps the tree level by level. Each level takes two lines: the nodes
// as id[key|key], then for each node prev{children or values}parent, with _
// for a missing reference and value lists of a key joined by /.
func (t *BTree[K, V]) String() string {
	var sb strings.Builder
	var nodes, links []string
	current := 0

	flush := func() {
		sb.WriteString(strings.Join(nodes, "  "))
		sb.WriteByte('\n')
		sb.WriteString(strings.Join(links, "  "))
		sb.WriteByte('\n')
		nodes, links = nodes[:0], links[:0]
	}

	t.walkLevels(func(_ arena.ID, n *node[K, V], level int) {
		if level != current {
			flush()
			current = level
		}

		keys := make([]string, len(n.keys))
		for i, k := range n.keys {
			keys[i] = fmt.Sprint(k)
		}
		nodes = append(nodes, fmt.Sprintf("%d[%s]", n.id, strings.Join(keys, "|")))

		var body string
		if n.leaf {
			entries := make([]string, len(n.values))
			for i, vals := range n.values {
				parts := make([]string, len(vals))
				for j, v := range vals {
					parts[j] = fmt.Sprint(v)
				}
				entries[i] = strings.Join(parts, ",")
			}
			body = strings.Join(entries, "/")
		} else {
			children := make([]string, len(n.children))
			for i, child := range n.children {
				children[i] = t.label(child)
			}
			body = strings.Join(children, "|")
		}
		links = append(links, fmt.Sprintf("%s{%s}%s", t.label(n.prev), body, t.label(n.parent)))
	})
	flush()

	return sb.String()
}

// label formats a node reference for the dump
func (t *BTree[K, V]) label(id arena.ID) string {
	if d := t.diagnosticID(id); d >= 0 {
		return fmt.Sprint(d)
	}
	return "_"
}
