// Package stack
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
package stack

// Stack is a LIFO container backed by a slice.
// It is not safe for concurrent use.
type Stack[T any] struct {
	items []T
}

// New creates a new stack
func New[T any]() *Stack[T] {
	return &Stack[T]{}
}

// NewWithCapacity creates a new stack with room for n items before growing
func NewWithCapacity[T any](n int) *Stack[T] {
	return &Stack[T]{items: make([]T, 0, n)}
}

// Push adds a value to the stack
func (s *Stack[T]) Push(value T) {
	s.items = append(s.items, value)
}

// Pop removes and returns the top value from the stack.
// ok is false when the stack is empty.
func (s *Stack[T]) Pop() (value T, ok bool) {
	if len(s.items) == 0 {
		return value, false
	}

	last := len(s.items) - 1
	value = s.items[last]

	// Clear the slot so popped values can be collected
	var zero T
	s.items[last] = zero
	s.items = s.items[:last]

	return value, true
}

// Peek returns the top value without removing it
func (s *Stack[T]) Peek() (value T, ok bool) {
	if len(s.items) == 0 {
		return value, false
	}
	return s.items[len(s.items)-1], true
}

// IsEmpty checks if the stack is empty
func (s *Stack[T]) IsEmpty() bool {
	return len(s.items) == 0
}

// Size returns the number of elements in the stack
func (s *Stack[T]) Size() int {
	return len(s.items)
}

// Reset drops every element but keeps the backing array
func (s *Stack[T]) Reset() {
	var zero T
	for i := range s.items {
		s.items[i] = zero
	}
	s.items = s.items[:0]
}
