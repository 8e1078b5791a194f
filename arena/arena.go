// Package arena
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
package arena

import (
	"errors"

	"github.com/wildcatdb/btindex/stack"
)

// ID addresses a slot in an Arena. IDs stay valid until the slot is released.
type ID int

// Nil is the ID that never names a slot
const Nil ID = -1

// Arena is an ID/slot addressed store. Values are heap allocated once per slot
// so pointers handed out by Get remain stable while the arena grows.
// Released slots are recycled by later allocations.
type Arena[T any] struct {
	slots []*T             // nil marks a free slot
	free  *stack.Stack[ID] // Free slots available for reuse
	live  int              // Number of allocated slots
}

// New creates a new arena
func New[T any]() *Arena[T] {
	return &Arena[T]{
		free: stack.New[ID](),
	}
}

// Alloc returns a fresh zero value and the ID of the slot holding it
func (a *Arena[T]) Alloc() (ID, *T) {
	item := new(T)

	id, ok := a.free.Pop()
	if ok {
		a.slots[id] = item
	} else {
		id = ID(len(a.slots))
		a.slots = append(a.slots, item)
	}

	a.live++
	return id, item
}

// Get retrieves an item by its slot ID, nil if the slot is free or out of range
func (a *Arena[T]) Get(id ID) *T {
	if id < 0 || int(id) >= len(a.slots) {
		return nil
	}
	return a.slots[id]
}

// Release frees a slot. The caller guarantees nothing references id anymore.
func (a *Arena[T]) Release(id ID) error {
	if id < 0 || int(id) >= len(a.slots) {
		return errors.New("invalid slot ID")
	}

	if a.slots[id] == nil {
		return errors.New("slot was already released")
	}

	a.slots[id] = nil
	a.free.Push(id)
	a.live--

	return nil
}

// Count returns the number of live slots
func (a *Arena[T]) Count() int {
	return a.live
}

// Capacity returns the number of slots ever handed out, live or free
func (a *Arena[T]) Capacity() int {
	return len(a.slots)
}

// IsEmpty returns true if no slot is live
func (a *Arena[T]) IsEmpty() bool {
	return a.live == 0
}

// ForEach applies f to each live slot in ID order.
// Returns early if f returns false.
func (a *Arena[T]) ForEach(f func(id ID, item *T) bool) {
	for i, item := range a.slots {
		if item != nil {
			if !f(ID(i), item) {
				return
			}
		}
	}
}

// Reset releases every slot at once
func (a *Arena[T]) Reset() {
	a.slots = nil
	a.free.Reset()
	a.live = 0
}
