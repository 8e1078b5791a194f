// Package keyrange
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
package keyrange

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Comparator orders two keys: negative when a < b, zero when equal, positive when a > b.
// It must describe a total order.
type Comparator[K any] func(a, b K) int

// Ordered returns the natural comparator for numeric and string keys
func Ordered[K cmp.Ordered]() Comparator[K] {
	return cmp.Compare[K]
}

// Descending flips a comparator, for indexes declared in descending order
func Descending[K any](c Comparator[K]) Comparator[K] {
	return func(a, b K) int {
		return c(b, a)
	}
}

// Range is an immutable scan boundary over keys.
// The zero value is the unbounded range.
type Range[K any] struct {
	lower          K
	upper          K
	hasLower       bool
	hasUpper       bool
	lowerExclusive bool
	upperExclusive bool
}

// All returns the unbounded range
func All[K any]() Range[K] {
	return Range[K]{}
}

// Only returns the range holding exactly key
func Only[K any](key K) Range[K] {
	return Range[K]{lower: key, upper: key, hasLower: true, hasUpper: true}
}

// LowerBound returns the range of keys above key, and key itself unless exclusive
func LowerBound[K any](key K, exclusive bool) Range[K] {
	return Range[K]{lower: key, hasLower: true, lowerExclusive: exclusive}
}

// UpperBound returns the range of keys below key, and key itself unless exclusive
func UpperBound[K any](key K, exclusive bool) Range[K] {
	return Range[K]{upper: key, hasUpper: true, upperExclusive: exclusive}
}

// Bound returns the range between lower and upper
func Bound[K any](lower, upper K, lowerExclusive, upperExclusive bool) Range[K] {
	return Range[K]{
		lower:          lower,
		upper:          upper,
		hasLower:       true,
		hasUpper:       true,
		lowerExclusive: lowerExclusive,
		upperExclusive: upperExclusive,
	}
}

// Lower returns the lower bound; ok is false when the range is unbounded below
func (r Range[K]) Lower() (key K, exclusive bool, ok bool) {
	return r.lower, r.lowerExclusive, r.hasLower
}

// Upper returns the upper bound; ok is false when the range is unbounded above
func (r Range[K]) Upper() (key K, exclusive bool, ok bool) {
	return r.upper, r.upperExclusive, r.hasUpper
}

// IsAll reports whether the range is unbounded on both sides
func (r Range[K]) IsAll() bool {
	return !r.hasLower && !r.hasUpper
}

// IsOnly reports whether the range holds a single key
func (r Range[K]) IsOnly(c Comparator[K]) bool {
	return r.hasLower && r.hasUpper && !r.lowerExclusive && !r.upperExclusive &&
		c(r.lower, r.upper) == 0
}

// IsEmpty reports whether no key can satisfy the range
func (r Range[K]) IsEmpty(c Comparator[K]) bool {
	if !r.hasLower || !r.hasUpper {
		return false
	}
	d := c(r.lower, r.upper)
	return d > 0 || (d == 0 && (r.lowerExclusive || r.upperExclusive))
}

// BeforeLower reports whether key sorts below the lower bound
func (r Range[K]) BeforeLower(c Comparator[K], key K) bool {
	if !r.hasLower {
		return false
	}
	d := c(key, r.lower)
	return d < 0 || (d == 0 && r.lowerExclusive)
}

// AfterUpper reports whether key sorts above the upper bound
func (r Range[K]) AfterUpper(c Comparator[K], key K) bool {
	if !r.hasUpper {
		return false
	}
	d := c(key, r.upper)
	return d > 0 || (d == 0 && r.upperExclusive)
}

// Contains reports whether key satisfies both bounds
func (r Range[K]) Contains(c Comparator[K], key K) bool {
	return !r.BeforeLower(c, key) && !r.AfterUpper(c, key)
}

// Reverse swaps the bounds, turning a range over an ascending order into the
// same set of keys under a descending order.
func (r Range[K]) Reverse() Range[K] {
	return Range[K]{
		lower:          r.upper,
		upper:          r.lower,
		hasLower:       r.hasUpper,
		hasUpper:       r.hasLower,
		lowerExclusive: r.upperExclusive,
		upperExclusive: r.lowerExclusive,
	}
}

// Complement returns the ranges covering every key outside r, in ascending order
func (r Range[K]) Complement() []Range[K] {
	var out []Range[K]
	if r.hasLower {
		out = append(out, UpperBound(r.lower, !r.lowerExclusive))
	}
	if r.hasUpper {
		out = append(out, LowerBound(r.upper, !r.upperExclusive))
	}
	return out
}

// Overlaps reports whether some key satisfies both r and other
func (r Range[K]) Overlaps(c Comparator[K], other Range[K]) bool {
	return lowerBeforeUpper(c, r, other) && lowerBeforeUpper(c, other, r)
}

// Equal reports whether both ranges describe the same bounds
func (r Range[K]) Equal(c Comparator[K], other Range[K]) bool {
	return compareLower(c, r, other) == 0 && compareUpper(c, r, other) == 0
}

// String formats the range as [lower, upper] with ( ) marking exclusive bounds
func (r Range[K]) String() string {
	var sb strings.Builder

	if r.lowerExclusive {
		sb.WriteByte('(')
	} else {
		sb.WriteByte('[')
	}
	if r.hasLower {
		fmt.Fprintf(&sb, "%v", r.lower)
	} else {
		sb.WriteString("unbound")
	}
	sb.WriteString(", ")
	if r.hasUpper {
		fmt.Fprintf(&sb, "%v", r.upper)
	} else {
		sb.WriteString("unbound")
	}
	if r.upperExclusive {
		sb.WriteByte(')')
	} else {
		sb.WriteByte(']')
	}

	return sb.String()
}

// Normalize drops empty ranges, sorts the rest by lower bound and merges the
// ones that overlap or touch, so a scan over the result visits each key once
// and in ascending order.
func Normalize[K any](c Comparator[K], ranges []Range[K]) []Range[K] {
	sorted := make([]Range[K], 0, len(ranges))
	for _, r := range ranges {
		if r.IsAll() {
			return []Range[K]{r}
		}
		if !r.IsEmpty(c) {
			sorted = append(sorted, r)
		}
	}

	slices.SortStableFunc(sorted, func(a, b Range[K]) int {
		return compareLower(c, a, b)
	})

	out := sorted[:0]
	for _, r := range sorted {
		if len(out) == 0 {
			out = append(out, r)
			continue
		}

		last := &out[len(out)-1]
		if !last.Overlaps(c, r) && !touches(c, *last, r) {
			out = append(out, r)
			continue
		}

		if compareUpper(c, r, *last) > 0 {
			last.upper = r.upper
			last.hasUpper = r.hasUpper
			last.upperExclusive = r.upperExclusive
		}
	}

	return out
}

// compareLower orders ranges by lower bound; unbounded sorts first and an
// inclusive bound sorts before an exclusive one on the same key.
func compareLower[K any](c Comparator[K], a, b Range[K]) int {
	switch {
	case !a.hasLower && !b.hasLower:
		return 0
	case !a.hasLower:
		return -1
	case !b.hasLower:
		return 1
	}

	if d := c(a.lower, b.lower); d != 0 {
		return d
	}

	switch {
	case a.lowerExclusive == b.lowerExclusive:
		return 0
	case a.lowerExclusive:
		return 1
	default:
		return -1
	}
}

// compareUpper orders ranges by upper bound; unbounded sorts last and an
// exclusive bound sorts before an inclusive one on the same key.
func compareUpper[K any](c Comparator[K], a, b Range[K]) int {
	switch {
	case !a.hasUpper && !b.hasUpper:
		return 0
	case !a.hasUpper:
		return 1
	case !b.hasUpper:
		return -1
	}

	if d := c(a.upper, b.upper); d != 0 {
		return d
	}

	switch {
	case a.upperExclusive == b.upperExclusive:
		return 0
	case a.upperExclusive:
		return -1
	default:
		return 1
	}
}

// lowerBeforeUpper reports whether low's lower bound admits keys at or below
// high's upper bound.
func lowerBeforeUpper[K any](c Comparator[K], low, high Range[K]) bool {
	if !low.hasLower || !high.hasUpper {
		return true
	}
	d := c(low.lower, high.upper)
	if d != 0 {
		return d < 0
	}
	return !low.lowerExclusive && !high.upperExclusive
}

// touches reports whether b starts exactly where a ends with no key missing
// between them, e.g. [1, 3) and [3, 5].
func touches[K any](c Comparator[K], a, b Range[K]) bool {
	if !a.hasUpper || !b.hasLower {
		return false
	}
	return c(a.upper, b.lower) == 0 && !(a.upperExclusive && b.lowerExclusive)
}
