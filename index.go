// Package btindex
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
package btindex

import (
	"github.com/wildcatdb/btindex/keyrange"
)

// Index is the contract every row index of the engine satisfies. The query
// layer and the conformance suites talk to indexes only through it.
type Index[K any, V comparable] interface {
	// Name returns the index name given at creation
	Name() string

	// IsUniqueKey reports whether the index rejects duplicate keys
	IsUniqueKey() bool

	// Add inserts value under key. A unique index returns a *ConstraintViolation
	// for an existing key and stays unchanged; a non-unique index appends.
	Add(key K, value V) error

	// Set inserts value under key, replacing any values already stored there
	Set(key K, value V)

	// Get returns the values stored under key in insertion order, empty when absent
	Get(key K) []V

	// ContainsKey reports whether key is present
	ContainsKey(key K) bool

	// Remove drops key and all of its values; absent keys are a no-op
	Remove(key K)

	// RemoveValue drops a single value stored under key
	RemoveValue(key K, value V)

	// GetRange returns the values of every key inside any of ranges, in key order.
	// No ranges means the whole index.
	GetRange(ranges ...keyrange.Range[K]) []V

	// Scan is GetRange with ordering and paging options
	Scan(opts ScanOptions, ranges ...keyrange.Range[K]) []V

	// Cost estimates the number of values a scan of r returns
	Cost(r keyrange.Range[K]) int

	// Min returns the smallest key and its values
	Min() (K, []V, bool)

	// Max returns the largest key and its values
	Max() (K, []V, bool)

	// Stats returns the index statistics
	Stats() Stats[K]

	// Clear removes every key
	Clear()
}

// ScanOptions controls the order and paging of a range scan
type ScanOptions struct {
	Reverse bool // Emit values in descending key order
	Skip    int  // Number of leading values to drop
	Limit   int  // Maximum number of values to return, 0 for no limit
}

// Stats holds index statistics consumed by the planner
type Stats[K any] struct {
	TotalRows         int  // Number of values across all keys
	MaxKeyEncountered K    // Largest key ever inserted, kept after removal
	HasMaxKey         bool // Whether MaxKeyEncountered is set
}
