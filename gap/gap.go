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

// Package gap layers gap-finding and previous/overlap/next neighbourhood
// queries over any collection.SortedEnumerable, the way biogo-store's
// interval.Tree layers Floor/Ceil lookups over a single descent of its
// augmented tree. Every concrete index in this module that supports
// sorted enumeration already exposes Sorted/EnumerateFromPoint directly
// (ESL, DLFIT); this package gives the same two queries to any future
// SortedEnumerable implementation without each one re-deriving the
// merge-sweep or the floor/ceiling walk.
package gap

import (
	"cmp"

	"github.com/arborix/intervalstore/collection"
	"github.com/arborix/intervalstore/interval"
)

// Gaps returns the maximal sub-intervals of c's span not covered by any
// interval in c, computed by sweeping c's sorted sequence once and
// merging overlapping or touching runs.
func Gaps[T cmp.Ordered, I interval.Interval[T]](c collection.SortedEnumerable[T, I]) []*interval.Endpoints[T] {
	var merged []*interval.Endpoints[T]
	seq := c.Sorted()
	for {
		it, ok := seq.Next()
		if !ok {
			break
		}
		span, err := interval.New(it.Low(), it.High(), it.LowInc(), it.HighInc())
		if err != nil {
			continue
		}
		if len(merged) == 0 {
			merged = append(merged, span)
			continue
		}
		last := merged[len(merged)-1]
		if touches(last, span) {
			if cmp.Compare(span.High(), last.High()) > 0 ||
				(span.High() == last.High() && span.HighInc() && !last.HighInc()) {
				extended, err := interval.New(last.Low(), span.High(), last.LowInc(), span.HighInc())
				if err == nil {
					merged[len(merged)-1] = extended
				}
			}
			continue
		}
		merged = append(merged, span)
	}
	var gaps []*interval.Endpoints[T]
	for i := 0; i+1 < len(merged); i++ {
		if g, ok := gapBetween(merged[i], merged[i+1]); ok {
			gaps = append(gaps, g)
		}
	}
	return gaps
}

// FindGaps is Gaps restricted to the sub-intervals of query.
func FindGaps[T cmp.Ordered, I interval.Interval[T]](c collection.SortedEnumerable[T, I], query I) []*interval.Endpoints[T] {
	var out []*interval.Endpoints[T]
	for _, g := range Gaps[T, I](c) {
		if interval.Overlaps[T, interval.Interval[T]](g, query) {
			out = append(out, g)
		}
	}
	return out
}

// touches reports whether b starts at or before the end of a (they
// overlap or meet, so merging them leaves no gap).
func touches[T cmp.Ordered](a, b *interval.Endpoints[T]) bool {
	c := cmp.Compare(b.Low(), a.High())
	if c < 0 {
		return true
	}
	if c == 0 {
		return a.HighInc() || b.LowInc()
	}
	return false
}

// gapBetween returns the span strictly between a and b, if one exists.
// When a.High() == b.Low() there is still a single-point gap if both
// endpoints exclude that shared value.
func gapBetween[T cmp.Ordered](a, b *interval.Endpoints[T]) (*interval.Endpoints[T], bool) {
	switch c := cmp.Compare(a.High(), b.Low()); {
	case c > 0:
		return nil, false
	case c == 0:
		if a.HighInc() || b.LowInc() {
			return nil, false
		}
		g, err := interval.New(a.High(), b.Low(), true, true)
		if err != nil {
			return nil, false
		}
		return g, true
	default:
		g, err := interval.New(a.High(), b.Low(), !a.HighInc(), !b.LowInc())
		if err != nil {
			return nil, false
		}
		return g, true
	}
}

// Neighbourhood returns, for point p, the last interval in c ending
// before p, the interval containing p (if any), and the first interval
// starting after p. It is meaningful for any SortedEnumerable, but only
// guarantees a unique overlap when c is itself overlap-free: on a
// collection that allows overlaps, overlap is merely the interval
// EnumerateBackwardsFromPoint would have yielded first, not necessarily
// the only one covering p — callers wanting every covering interval
// should use FindOverlapsPoint instead.
func Neighbourhood[T cmp.Ordered, I interval.Interval[T]](c collection.SortedEnumerable[T, I], p T) (prev, overlap, next I, hasPrev, hasOverlap, hasNext bool) {
	back := c.EnumerateBackwardsFromPoint(p, true)
	if v, ok := back.Next(); ok {
		if interval.OverlapsPoint[T, I](v, p) {
			overlap, hasOverlap = v, true
			if v2, ok2 := back.Next(); ok2 {
				prev, hasPrev = v2, true
			}
		} else {
			prev, hasPrev = v, true
		}
	}
	fwd := c.EnumerateFromPoint(p, false)
	if v, ok := fwd.Next(); ok {
		next, hasNext = v, true
	}
	return
}
