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
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeleteRootSimple(t *testing.T) {
	tree := insertSequence(t, 4)

	tree.Remove(9)
	tree.Remove(17)
	tree.Remove(21)
	require.Equal(t, [][][]int{{{13}}}, levels(tree))

	// Absent keys are a no-op
	tree.Remove(22)
	require.Equal(t, [][][]int{{{13}}}, levels(tree))

	tree.Remove(13)
	require.Empty(t, tree.GetRange())
	require.Equal(t, Shape{Height: 1, Nodes: 1, Leaves: 1}, tree.Shape())
	require.NoError(t, tree.Validate())
}

func TestDeleteSimple(t *testing.T) {
	tree := insertSequence(t, 9)
	tree.Remove(3)

	require.Equal(t, [][][]int{
		{{13, 21}},
		{{5, 9, 11}, {13, 17}, {21, 25, 27}},
	}, levels(tree))
	require.NoError(t, tree.Validate())
}

func TestDeleteLeafStealFromLeft(t *testing.T) {
	tree := insertSequence(t, 9)

	// Both siblings have a key to spare; the left one lends
	tree.Remove(17)

	require.Equal(t, [][][]int{
		{{11, 21}},
		{{3, 5, 9}, {11, 13}, {21, 25, 27}},
	}, levels(tree))
	require.NoError(t, tree.Validate())
}

func TestDeleteLeafStealFromRight(t *testing.T) {
	tree := insertSequence(t, 9)
	tree.Remove(3)
	tree.Remove(5)

	tree.Remove(17)

	require.Equal(t, [][][]int{
		{{13, 25}},
		{{9, 11}, {13, 21}, {25, 27}},
	}, levels(tree))
	require.NoError(t, tree.Validate())
}

func TestDeleteLeafMergeLeft(t *testing.T) {
	tree := insertSequence(t, 9)
	tree.Remove(3)
	tree.Remove(5)
	tree.Remove(17)

	tree.Remove(21)

	require.Equal(t, [][][]int{
		{{25}},
		{{9, 11, 13}, {25, 27}},
	}, levels(tree))
	require.NoError(t, tree.Validate())
}

func TestDeleteLeafMergeRight(t *testing.T) {
	tree := insertSequence(t, 9)
	tree.Remove(3)
	tree.Remove(5)
	tree.Remove(17)

	// The leftmost leaf has no left sibling
	tree.Remove(9)

	require.Equal(t, [][][]int{
		{{25}},
		{{11, 13, 21}, {25, 27}},
	}, levels(tree))
	require.NoError(t, tree.Validate())
}

func TestDeleteMergeAndCollapseRoot(t *testing.T) {
	tree := newTestTree(t, true)
	for k := 1; k <= 5; k++ {
		require.NoError(t, tree.Add(k, k))
	}
	tree.Remove(4)
	require.Equal(t, 2, tree.Shape().Height)

	tree.Remove(5)

	require.Equal(t, [][][]int{{{1, 2, 3}}}, levels(tree))
	require.Equal(t, 1, tree.pool.live())
	require.NoError(t, tree.Validate())
}

func TestDeleteSeparatorRepair(t *testing.T) {
	tree := newTestTree(t, true)
	for k := 1; k <= 5; k++ {
		require.NoError(t, tree.Add(k, k))
	}

	tree.Remove(3)

	require.Equal(t, [][][]int{
		{{4}},
		{{1, 2}, {4, 5}},
	}, levels(tree))
	require.NoError(t, tree.Validate())
}

func TestDeleteInternalSeparator(t *testing.T) {
	tree := insertSequence(t, 19)

	tree.Remove(45)

	require.Equal(t, [][][]int{
		{{27}},
		{{13, 21}, {31, 47}},
		{{3, 5, 9, 11}, {13, 14, 15, 17}, {21, 22, 23, 25}, {27, 29}, {31, 38}, {47, 49}},
	}, levels(tree))
	require.Equal(t, []int{3, 5, 9, 11, 13, 14, 15, 17, 21, 22, 23, 25, 27, 29, 31, 38, 47, 49}, tree.GetRange())
	require.NoError(t, tree.Validate())
}

func TestDeleteRootSeparator(t *testing.T) {
	tree := insertSequence(t, 19)

	// The emptied separator travels down with the internal merge and is repaired there
	tree.Remove(27)

	require.Equal(t, [][][]int{
		{{13, 21, 29, 45}},
		{{3, 5, 9, 11}, {13, 14, 15, 17}, {21, 22, 23, 25}, {29, 31, 38}, {45, 47, 49}},
	}, levels(tree))
	require.NoError(t, tree.Validate())
}

func TestDeleteInternalMerge(t *testing.T) {
	tree := insertSequence(t, 19)

	tree.Remove(29)

	require.Equal(t, [][][]int{
		{{13, 21, 27, 45}},
		{{3, 5, 9, 11}, {13, 14, 15, 17}, {21, 22, 23, 25}, {27, 31, 38}, {45, 47, 49}},
	}, levels(tree))
	require.NoError(t, tree.Validate())
}

func TestDeleteInternalStealFromLeft(t *testing.T) {
	tree := insertSequence(t, len(sequence))
	require.NoError(t, tree.Add(24, 24))

	tree.Remove(29)

	require.Equal(t, [][][]int{
		{{13, 23}},
		{{5, 10}, {15, 21}, {27, 45}},
		{{1, 3}, {5, 9}, {10, 11, 12}, {13, 14}, {15, 16, 17}, {21, 22}, {23, 24, 25}, {27, 31, 38}, {45, 47, 49}},
	}, levels(tree))
	require.NoError(t, tree.Validate())
}

func TestDeleteInternalStealFromRight(t *testing.T) {
	tree := insertSequence(t, len(sequence))
	require.NoError(t, tree.Add(24, 24))

	tree.Remove(1)

	require.Equal(t, [][][]int{
		{{15, 27}},
		{{10, 13}, {21, 23}, {31, 45}},
		{{3, 5, 9}, {10, 11, 12}, {13, 14}, {15, 16, 17}, {21, 22}, {23, 24, 25}, {27, 29}, {31, 38}, {45, 47, 49}},
	}, levels(tree))
	require.NoError(t, tree.Validate())
}

func TestDeleteAll(t *testing.T) {
	for _, reverse := range []bool{false, true} {
		tree := insertSequence(t, len(sequence))

		keys := append([]int(nil), sequence...)
		sort.Ints(keys)
		if reverse {
			sort.Sort(sort.Reverse(sort.IntSlice(keys)))
		}

		for _, k := range keys {
			tree.Remove(k)
			require.NoError(t, tree.Validate(), "after removing %d", k)
			require.False(t, tree.ContainsKey(k))
		}

		require.Empty(t, tree.GetRange())
		require.Equal(t, Shape{Height: 1, Nodes: 1, Leaves: 1}, tree.Shape())
	}
}

func TestDeleteRandomRoundTrip(t *testing.T) {
	const n = 10000

	rng := rand.New(rand.NewSource(42))
	keys := rng.Perm(n * 4)[:n]

	tree := newTestTree(t, true)
	for i, k := range keys {
		require.NoError(t, tree.Add(k, k))
		if i%250 == 0 {
			require.NoError(t, tree.Validate(), "after adding %d", k)
		}
	}
	require.NoError(t, tree.Validate())
	require.Equal(t, n, tree.Len())

	sort.Ints(keys)
	require.Equal(t, keys, tree.GetRange())

	for i, k := range keys {
		tree.Remove(k)
		if i%250 == 0 {
			require.NoError(t, tree.Validate(), "after removing %d", k)
		}
	}

	require.Empty(t, tree.GetRange())
	require.Equal(t, 0, tree.Stats().TotalRows)
	require.Equal(t, 1, tree.pool.live())
	require.Equal(t, Shape{Height: 1, Nodes: 1, Leaves: 1}, tree.Shape())
	require.NoError(t, tree.Validate())
}

func TestDeleteShuffledRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for _, fanout := range []int{3, 5, 9} {
		tree, err := New[int, int]("shuffled", true, &Options{Fanout: fanout})
		require.NoError(t, err)

		keys := rng.Perm(600)
		for _, k := range keys {
			require.NoError(t, tree.Add(k, k))
		}

		rng.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })
		for _, k := range keys {
			tree.Remove(k)
			require.NoError(t, tree.Validate(), "fanout %d after removing %d", fanout, k)
		}

		require.Empty(t, tree.GetRange())
		require.Equal(t, 1, tree.pool.live())
	}
}
