// Package queue
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
package queue

// Queue is a FIFO container backed by a growable ring buffer.
// It is not safe for concurrent use.
type Queue[T any] struct {
	items []T
	head  int // Index of the front element
	size  int // Number of queued elements
}

// New creates a new queue
func New[T any]() *Queue[T] {
	return &Queue[T]{}
}

// List returns a slice of all values in the queue, front first
func (q *Queue[T]) List() []T {
	result := make([]T, 0, q.size)
	q.ForEach(func(item T) bool {
		result = append(result, item)
		return true
	})
	return result
}

// Enqueue adds a value to the back of the queue
func (q *Queue[T]) Enqueue(value T) {
	if q.size == len(q.items) {
		q.grow()
	}
	q.items[(q.head+q.size)%len(q.items)] = value
	q.size++
}

// Dequeue removes and returns the value at the front of the queue.
// ok is false when the queue is empty.
func (q *Queue[T]) Dequeue() (value T, ok bool) {
	if q.size == 0 {
		return value, false
	}

	var zero T
	value = q.items[q.head]
	q.items[q.head] = zero
	q.head = (q.head + 1) % len(q.items)
	q.size--

	return value, true
}

// IsEmpty returns true if the queue is empty
func (q *Queue[T]) IsEmpty() bool {
	return q.size == 0
}

// Peek returns the value at the front of the queue without removing it
func (q *Queue[T]) Peek() (value T, ok bool) {
	if q.size == 0 {
		return value, false
	}
	return q.items[q.head], true
}

// ForEach iterates over the queue front to back and applies f to each item.
// Iteration stops early when f returns false.
func (q *Queue[T]) ForEach(f func(item T) bool) {
	for i := 0; i < q.size; i++ {
		if !f(q.items[(q.head+i)%len(q.items)]) {
			return
		}
	}
}

// Size returns the number of items in the queue
func (q *Queue[T]) Size() int {
	return q.size
}

// grow doubles the ring and unrolls it so head sits at index 0
func (q *Queue[T]) grow() {
	capacity := len(q.items) * 2
	if capacity == 0 {
		capacity = 8
	}

	items := make([]T, capacity)
	for i := 0; i < q.size; i++ {
		items[i] = q.items[(q.head+i)%len(q.items)]
	}

	q.items = items
	q.head = 0
}
