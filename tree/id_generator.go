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
	"math"
)

// idGenerator hands out diagnostic node identifiers for one tree.
// Identifiers only label nodes in dumps; nothing looks a node up by them.
type idGenerator struct {
	lastID int64
}

// newIDGenerator creates a new ID generator
func newIDGenerator() *idGenerator {
	return &idGenerator{
		lastID: -1,
	}
}

// nextID generates the next identifier, wrapping to 0 if int64 max is reached
func (g *idGenerator) nextID() int64 {
	if g.lastID == math.MaxInt64 {
		g.lastID = 0
	} else {
		g.lastID++
	}
	return g.lastID
}

// issued returns how many identifiers were handed out since the last reset
func (g *idGenerator) issued() int64 {
	return g.lastID + 1
}

// reset starts numbering from 0 again
func (g *idGenerator) reset() {
	g.lastID = -1
}
