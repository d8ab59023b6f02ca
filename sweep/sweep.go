// Copyright ©2012 Dan Kortschak <dan.kortschak@adelaide.edu.au>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package sweep provides the stable total-order sort, the unique
// endpoint stream, and the independent +1/-1 depth scan shared by the
// ESL, LCL, IBS and DIT indexes: a position-keyed pass over the set of distinct endpoint
// values, in the manner of the teacher's step-vector run accumulator,
// generalized from run-length-encoded values to a depth counter.
package sweep

import (
	"cmp"
	"slices"
	"sort"

	"github.com/arborix/intervalstore/interval"
)

// StableSort orders items by interval.Compare. Ties (structurally equal
// intervals by the total order, not necessarily by identity) keep their
// original relative order, matching the spec's tie policy of breaking by
// reference insertion order.
func StableSort[T cmp.Ordered, I interval.Interval[T]](items []I) {
	sort.SliceStable(items, func(i, j int) bool {
		return interval.Compare[T, I](items[i], items[j]) < 0
	})
}

// Endpoints returns the sorted, de-duplicated stream of every value
// appearing as a low or high endpoint among items.
func Endpoints[T cmp.Ordered, I interval.Interval[T]](items []I) []T {
	seen := make(map[T]struct{}, 2*len(items))
	for _, it := range items {
		seen[it.Low()] = struct{}{}
		seen[it.High()] = struct{}{}
	}
	out := make([]T, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

// counts tallies, for one endpoint value, how many intervals start or
// end there, split by inclusion: an exclusive end has already stopped
// contributing by the time its value is reached; an exclusive start
// does not begin contributing until just after its value.
type counts struct {
	inclStart, exclStart, inclEnd, exclEnd int
}

// MaxDepth computes the largest number of items simultaneously covering
// any single point, via an independent scan over the sorted set of
// distinct endpoint values: this is the reference cross-check each
// index's own MaximumDepth is tested against (spec property 3).
//
// At each distinct value v, two depths are measured: the depth exactly
// at v (after removing intervals that exclude v and adding intervals
// that include it), and the depth on the open span immediately after v
// (after also removing intervals whose inclusive high is v and adding
// intervals whose exclusive low is v). Between those two measurements
// at consecutive values, depth is constant, so no candidate maximum is
// missed.
func MaxDepth[T cmp.Ordered, I interval.Interval[T]](items []I) int {
	if len(items) == 0 {
		return 0
	}
	byValue := make(map[T]*counts, 2*len(items))
	at := func(v T) *counts {
		c, ok := byValue[v]
		if !ok {
			c = &counts{}
			byValue[v] = c
		}
		return c
	}
	for _, it := range items {
		if it.LowInc() {
			at(it.Low()).inclStart++
		} else {
			at(it.Low()).exclStart++
		}
		if it.HighInc() {
			at(it.High()).inclEnd++
		} else {
			at(it.High()).exclEnd++
		}
	}

	values := make([]T, 0, len(byValue))
	for v := range byValue {
		values = append(values, v)
	}
	slices.Sort(values)

	var depth, deepest int
	for _, v := range values {
		c := byValue[v]
		depth += c.inclStart - c.exclEnd
		deepest = max(deepest, depth)
		depth += c.exclStart - c.inclEnd
		deepest = max(deepest, depth)
	}
	return deepest
}
