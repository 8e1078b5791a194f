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
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wildcatdb/btindex"
	"github.com/wildcatdb/btindex/keyrange"
)

// newScanTree maps keys 1..20 to key*10
func newScanTree(t *testing.T) *BTree[int, int] {
	t.Helper()
	tree := newTestTree(t, true)
	for k := 20; k >= 1; k-- {
		require.NoError(t, tree.Add(k, k*10))
	}
	return tree
}

func tens(keys ...int) []int {
	out := make([]int, len(keys))
	for i, k := range keys {
		out[i] = k * 10
	}
	return out
}

func TestScanReverse(t *testing.T) {
	tree := newScanTree(t)

	got := tree.Scan(btindex.ScanOptions{Reverse: true})
	require.Len(t, got, 20)
	require.Equal(t, 200, got[0])
	require.Equal(t, 10, got[19])

	require.Equal(t, tens(7, 6, 5, 4), tree.Scan(btindex.ScanOptions{Reverse: true}, keyrange.Bound(3, 7, true, false)))
	require.Equal(t, tens(4, 3, 2, 1), tree.Scan(btindex.ScanOptions{Reverse: true}, keyrange.UpperBound(5, true)))
	require.Equal(t, tens(20, 19, 18), tree.Scan(btindex.ScanOptions{Reverse: true}, keyrange.LowerBound(18, false)))
}

func TestScanSkipLimit(t *testing.T) {
	tree := newScanTree(t)

	require.Equal(t, tens(3, 4, 5), tree.Scan(btindex.ScanOptions{Skip: 2, Limit: 3}))
	require.Equal(t, tens(19, 18), tree.Scan(btindex.ScanOptions{Reverse: true, Skip: 1, Limit: 2}))
	require.Equal(t, tens(20), tree.Scan(btindex.ScanOptions{Skip: 19}))
	require.Empty(t, tree.Scan(btindex.ScanOptions{Skip: 50}))
	require.Len(t, tree.Scan(btindex.ScanOptions{Limit: 100}), 20)
}

func TestScanMultipleRanges(t *testing.T) {
	tree := newScanTree(t)

	// Out of order ranges come back in key order
	require.Equal(t, tens(1, 2, 3, 4, 5), tree.GetRange(
		keyrange.Bound(3, 5, false, false),
		keyrange.Bound(1, 2, false, false),
	))

	// Overlapping ranges yield each value once
	require.Equal(t, tens(1, 2, 3, 4, 5, 6, 7, 8), tree.GetRange(
		keyrange.Bound(1, 5, false, false),
		keyrange.Bound(3, 8, false, false),
	))

	require.Equal(t, tens(20, 19, 18, 2, 1), tree.Scan(btindex.ScanOptions{Reverse: true},
		keyrange.Bound(1, 2, false, false),
		keyrange.Bound(18, 20, false, false),
	))

	// Limit applies across ranges
	require.Equal(t, tens(1, 2, 18), tree.Scan(btindex.ScanOptions{Limit: 3},
		keyrange.Bound(1, 2, false, false),
		keyrange.Bound(18, 20, false, false),
	))

	// An unbounded range swallows the others
	require.Len(t, tree.GetRange(keyrange.Only(3), keyrange.All[int]()), 20)
}

func TestScanEmptyRanges(t *testing.T) {
	tree := newScanTree(t)

	require.Empty(t, tree.GetRange(keyrange.Bound(5, 3, false, false)))
	require.Empty(t, tree.GetRange(keyrange.Bound(5, 5, true, false)))
	require.Empty(t, tree.GetRange(keyrange.LowerBound(20, true)))
	require.Empty(t, tree.GetRange(keyrange.UpperBound(1, true)))
	require.Empty(t, tree.GetRange(keyrange.Bound(100, 200, false, false)))
}

func TestScanMissingBoundKeys(t *testing.T) {
	tree := newTestTree(t, true)
	for k := 0; k <= 40; k += 2 {
		require.NoError(t, tree.Add(k, k))
	}

	require.Equal(t, []int{8, 10, 12}, tree.GetRange(keyrange.Bound(7, 13, false, false)))
	require.Equal(t, []int{12, 10, 8}, tree.Scan(btindex.ScanOptions{Reverse: true}, keyrange.Bound(7, 13, false, false)))
	require.Equal(t, []int{40}, tree.GetRange(keyrange.LowerBound(39, false)))
	require.Equal(t, []int{0}, tree.Scan(btindex.ScanOptions{Reverse: true}, keyrange.UpperBound(1, false)))
}

func TestScanNonUniqueValues(t *testing.T) {
	tree, err := New[int, string]("tags", false, &Options{Fanout: 3})
	require.NoError(t, err)

	require.NoError(t, tree.Add(1, "a"))
	require.NoError(t, tree.Add(1, "b"))
	require.NoError(t, tree.Add(2, "c"))

	require.Equal(t, []string{"a", "b", "c"}, tree.GetRange())
	require.Equal(t, []string{"c", "b", "a"}, tree.Scan(btindex.ScanOptions{Reverse: true}))
	require.Equal(t, []string{"b"}, tree.Scan(btindex.ScanOptions{Skip: 1, Limit: 1}))
	require.Equal(t, 2, tree.Cost(keyrange.Only(1)))
	require.Equal(t, 3, tree.Cost(keyrange.All[int]()))
}

func TestIterator(t *testing.T) {
	tree := newScanTree(t)

	it := tree.NewIterator(keyrange.Bound(5, 8, false, true), true)
	var keys []int
	for ; it.Valid(); it.Next() {
		keys = append(keys, it.Key())
		require.Equal(t, []int{it.Key() * 10}, it.Values())
	}
	require.Equal(t, []int{5, 6, 7}, keys)
	require.False(t, it.Next())

	it = tree.NewIterator(keyrange.All[int](), false)
	require.True(t, it.Valid())
	require.Equal(t, 20, it.Key())
	require.True(t, it.Next())
	require.Equal(t, 19, it.Key())

	empty := newTestTree(t, true)
	require.False(t, empty.NewIterator(keyrange.All[int](), true).Valid())
	require.False(t, empty.NewIterator(keyrange.All[int](), false).Valid())
}

func TestCost(t *testing.T) {
	tree := newScanTree(t)

	require.Equal(t, 20, tree.Cost(keyrange.All[int]()))
	require.Equal(t, 5, tree.Cost(keyrange.Bound(3, 7, false, false)))
	require.Equal(t, 1, tree.Cost(keyrange.Only(9)))
	require.Equal(t, 0, tree.Cost(keyrange.Only(99)))
}

func TestMinMax(t *testing.T) {
	tree := newTestTree(t, true)

	_, _, ok := tree.Min()
	require.False(t, ok)
	_, _, ok = tree.Max()
	require.False(t, ok)

	for _, k := range sequence {
		require.NoError(t, tree.Add(k, k*2))
	}

	k, vals, ok := tree.Min()
	require.True(t, ok)
	require.Equal(t, 1, k)
	require.Equal(t, []int{2}, vals)

	k, vals, ok = tree.Max()
	require.True(t, ok)
	require.Equal(t, 49, k)
	require.Equal(t, []int{98}, vals)
}

func BenchmarkBTreeGetRange(b *testing.B) {
	tree, err := New[int, int]("bench", true, nil)
	require.NoError(b, err)
	for i := 0; i < 100000; i++ {
		require.NoError(b, tree.Add(i, i))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		lo := i % 99000
		tree.GetRange(keyrange.Bound(lo, lo+1000, false, true))
	}
}
