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
)

func TestStringEmpty(t *testing.T) {
	tree := newTestTree(t, true)
	require.Equal(t, "0[]\n_{}_\n", tree.String())
}

func TestStringAfterSplit(t *testing.T) {
	tree := insertSequence(t, 5)

	expected := "2[13]\n" +
		"_{0|1}_\n" +
		"0[5|9]  1[13|17|21]\n" +
		"_{5/9}2  0{13/17/21}2\n"
	require.Equal(t, expected, tree.String())
}

func TestStringBulk(t *testing.T) {
	tree, err := NewFromSorted("test", true, sortedPairs(sequence), &Options{Fanout: 5})
	require.NoError(t, err)

	expected := "8[21]\n" +
		"_{6|7}_\n" +
		"6[10|14]  7[27|45]\n" +
		"_{0|1|2}8  _{3|4|5}8\n" +
		"0[1|3|5|9]  1[10|11|12|13]  2[14|15|16|17]  3[21|22|23|25]  4[27|29|31|38]  5[45|47|49]\n" +
		"_{1/3/5/9}6  0{10/11/12/13}6  1{14/15/16/17}6  2{21/22/23/25}7  3{27/29/31/38}7  4{45/47/49}7\n"
	require.Equal(t, expected, tree.String())
}

func TestStringValueLists(t *testing.T) {
	tree, err := New[string, int]("tags", false, &Options{Fanout: 5})
	require.NoError(t, err)

	require.NoError(t, tree.Add("a", 1))
	require.NoError(t, tree.Add("a", 2))
	require.NoError(t, tree.Add("b", 3))

	require.Equal(t, "0[a|b]\n_{1,2/3}_\n", tree.String())
}

func TestSnapshot(t *testing.T) {
	tree := insertSequence(t, 9)
	s := tree.Snapshot()

	require.Equal(t, "test", s.Name)
	require.True(t, s.Unique)
	require.Equal(t, 5, s.Fanout)
	require.Equal(t, 2, s.Height)
	require.Len(t, s.Nodes, 4)

	root := s.Nodes[0]
	require.False(t, root.Leaf)
	require.Equal(t, int64(-1), root.Parent)
	require.Equal(t, []int{13, 21}, root.Keys)
	require.Len(t, root.Children, 3)

	leaves := s.Nodes[1:]
	for i, leaf := range leaves {
		require.True(t, leaf.Leaf)
		require.Equal(t, 1, leaf.Level)
		require.Equal(t, root.ID, leaf.Parent)
		require.Equal(t, root.Children[i], leaf.ID)
		require.Len(t, leaf.Values, len(leaf.Keys))

		if i == 0 {
			require.Equal(t, int64(-1), leaf.Prev)
		} else {
			require.Equal(t, leaves[i-1].ID, leaf.Prev)
		}
		if i == len(leaves)-1 {
			require.Equal(t, int64(-1), leaf.Next)
		} else {
			require.Equal(t, leaves[i+1].ID, leaf.Next)
		}
	}

	// The snapshot is detached from the tree
	leaves[0].Keys[0] = 1000
	leaves[0].Values[0][0] = 1000
	require.Equal(t, []int{3}, tree.Get(3))
	require.NoError(t, tree.Validate())
}

func TestShape(t *testing.T) {
	tree := insertSequence(t, 19)

	require.Equal(t, Shape{
		Height:   3,
		Nodes:    9,
		Leaves:   6,
		Internal: 3,
		Keys:     19,
		Rows:     19,
	}, tree.Shape())
}
