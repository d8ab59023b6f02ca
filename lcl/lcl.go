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

// Package lcl implements the Layered Containment List: a static,
// read-only index built in one left-to-right pass over a sorted
// interval list. Each interval goes one layer below the innermost
// interval on a stack of earlier intervals that contains it, so layer
// 0 holds the intervals contained in no other and layer k+1 holds the
// intervals nested inside layer-k intervals. Every slot
// carries a pointer into the next layer marking where its nested
// children begin, so stabbing and range queries descend layer by layer
// instead of rescanning the whole collection.
package lcl

import (
	"cmp"
	"sort"

	"github.com/arborix/intervalstore/collection"
	"github.com/arborix/intervalstore/interval"
	"github.com/arborix/intervalstore/ivlerr"
	"github.com/arborix/intervalstore/sweep"
)

// List is a read-only layered containment list.
type List[T cmp.Ordered, I interval.Interval[T]] struct {
	layers  [][]I
	offsets [][]int
	count   int
}

const opPrefix = "lcl.List"

// Build constructs a List from items in a single left-to-right pass.
func Build[T cmp.Ordered, I interval.Interval[T]](items []I) *List[T, I] {
	sorted := append([]I(nil), items...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Low() != b.Low() {
			return cmp.Less(a.Low(), b.Low())
		}
		// Ties: the larger (potential container) interval sorts
		// first so it is pushed onto the active stack before any
		// interval it should contain.
		return cmp.Compare(a.High(), b.High()) > 0
	})

	l := &List[T, I]{count: len(sorted)}
	type frame struct {
		it    I
		depth int
	}
	var active []frame
	ensureLayer := func(d int) {
		for len(l.layers) <= d {
			l.layers = append(l.layers, nil)
			l.offsets = append(l.offsets, nil)
		}
	}
	for _, it := range sorted {
		for len(active) > 0 && !interval.Contains[T, I](active[len(active)-1].it, it) {
			active = active[:len(active)-1]
		}
		depth := len(active)
		ensureLayer(depth)
		ensureLayer(depth + 1)
		l.layers[depth] = append(l.layers[depth], it)
		l.offsets[depth] = append(l.offsets[depth], len(l.layers[depth+1]))
		active = append(active, frame{it: it, depth: depth})
	}
	return l
}

func (l *List[T, I]) layerLen(d int) int {
	if d < 0 || d >= len(l.layers) {
		return 0
	}
	return len(l.layers[d])
}

// childRange returns the [start,end) slice of layer depth+1 nested
// inside layers[depth][idx].
func (l *List[T, I]) childRange(depth, idx int) (int, int) {
	start := l.offsets[depth][idx]
	if idx+1 < len(l.offsets[depth]) {
		return start, l.offsets[depth][idx+1]
	}
	return start, l.layerLen(depth + 1)
}

// Capabilities reports that List is read-only but allows reference
// duplicates, containments and overlaps — the set of collection shapes
// it was built to index.
func (l *List[T, I]) Capabilities() collection.Capabilities {
	return collection.Capabilities{
		AllowsReferenceDuplicates: true,
		AllowsContainments:        true,
		AllowsOverlaps:            true,
		ReadOnly:                  true,
	}
}

func (l *List[T, I]) IsEmpty() bool                { return l.count == 0 }
func (l *List[T, I]) Count() int                   { return l.count }
func (l *List[T, I]) CountSpeed() collection.Speed { return collection.Constant }

func (l *List[T, I]) Choose() (I, error) {
	var zero I
	if l.count == 0 {
		return zero, ivlerr.E(ivlerr.EmptyCollection, opPrefix+".Choose", nil)
	}
	return l.layers[0][0], nil
}

func (l *List[T, I]) all() []I {
	out := make([]I, 0, l.count)
	for _, layer := range l.layers {
		out = append(out, layer...)
	}
	return out
}

func (l *List[T, I]) Span() (*interval.Endpoints[T], error) {
	s, err := interval.Span[T, I](l.all())
	if err != nil {
		return nil, ivlerr.E(ivlerr.EmptyCollection, opPrefix+".Span", err)
	}
	return s, nil
}

func (l *List[T, I]) LowestInterval() (I, error) {
	var zero I
	items := l.all()
	if len(items) == 0 {
		return zero, ivlerr.E(ivlerr.EmptyCollection, opPrefix+".LowestInterval", nil)
	}
	best := items[0]
	for _, it := range items[1:] {
		if interval.CompareLow[T, I](it, best) < 0 {
			best = it
		}
	}
	return best, nil
}

func (l *List[T, I]) HighestInterval() (I, error) {
	var zero I
	items := l.all()
	if len(items) == 0 {
		return zero, ivlerr.E(ivlerr.EmptyCollection, opPrefix+".HighestInterval", nil)
	}
	best := items[0]
	for _, it := range items[1:] {
		if interval.CompareHigh[T, I](it, best) > 0 {
			best = it
		}
	}
	return best, nil
}

func (l *List[T, I]) LowestIntervals() ([]I, error) {
	lo, err := l.LowestInterval()
	if err != nil {
		return nil, err
	}
	var out []I
	for _, it := range l.all() {
		if it.Low() == lo.Low() {
			out = append(out, it)
		}
	}
	return out, nil
}

func (l *List[T, I]) HighestIntervals() ([]I, error) {
	hi, err := l.HighestInterval()
	if err != nil {
		return nil, err
	}
	var out []I
	for _, it := range l.all() {
		if it.High() == hi.High() {
			out = append(out, it)
		}
	}
	return out, nil
}

func (l *List[T, I]) MaximumDepth() int {
	return sweep.MaxDepth[T, I](l.all())
}

func (l *List[T, I]) FindEquals(query I) []I {
	var out []I
	for _, it := range l.all() {
		if interval.Equals[T, I](it, query) {
			out = append(out, it)
		}
	}
	return out
}

func (l *List[T, I]) FindOverlapsPoint(p T) []I {
	var out []I
	l.stabRange(p, 0, 0, l.layerLen(0), &out)
	return out
}

func (l *List[T, I]) stabRange(p T, depth, lo, hi int, out *[]I) {
	if depth >= len(l.layers) || lo >= hi {
		return
	}
	layer := l.layers[depth]
	start := lo + sort.Search(hi-lo, func(i int) bool {
		return cmp.Compare(layer[lo+i].High(), p) >= 0
	})
	for idx := start; idx < hi && cmp.Compare(layer[idx].Low(), p) <= 0; idx++ {
		if interval.OverlapsPoint[T, I](layer[idx], p) {
			*out = append(*out, layer[idx])
		}
		cs, ce := l.childRange(depth, idx)
		l.stabRange(p, depth+1, cs, ce, out)
	}
}

func (l *List[T, I]) FindOverlaps(query I) []I {
	var out []I
	l.rangeQuery(query, 0, 0, l.layerLen(0), &out)
	return out
}

func (l *List[T, I]) FindOverlap(query I) (I, bool) {
	hits := l.FindOverlaps(query)
	if len(hits) == 0 {
		var zero I
		return zero, false
	}
	return hits[0], true
}

func (l *List[T, I]) CountOverlaps(query I) int {
	return len(l.FindOverlaps(query))
}

func (l *List[T, I]) rangeQuery(query I, depth, lo, hi int, out *[]I) {
	if depth >= len(l.layers) || lo >= hi {
		return
	}
	layer := l.layers[depth]
	start := lo + sort.Search(hi-lo, func(i int) bool {
		return cmp.Compare(layer[lo+i].High(), query.Low()) >= 0
	})
	for idx := start; idx < hi && cmp.Compare(layer[idx].Low(), query.High()) <= 0; idx++ {
		if interval.Overlaps[T, I](layer[idx], query) {
			*out = append(*out, layer[idx])
		}
		cs, ce := l.childRange(depth, idx)
		l.rangeQuery(query, depth+1, cs, ce, out)
	}
}

func (l *List[T, I]) Gaps() []*interval.Endpoints[T] {
	items := l.all()
	sweep.StableSort[T, I](items)
	var merged []*interval.Endpoints[T]
	for _, it := range items {
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
		if g, ok := gapBetween[T](merged[i], merged[i+1]); ok {
			gaps = append(gaps, g)
		}
	}
	return gaps
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

func (l *List[T, I]) FindGaps(query I) []*interval.Endpoints[T] {
	var out []*interval.Endpoints[T]
	for _, g := range l.Gaps() {
		if interval.Overlaps[T, interval.Interval[T]](g, query) {
			out = append(out, g)
		}
	}
	return out
}

func (l *List[T, I]) Add(I) (bool, error) {
	return false, ivlerr.E(ivlerr.ReadOnlyViolation, opPrefix+".Add", nil)
}

func (l *List[T, I]) AddAll([]I) (int, error) {
	return 0, ivlerr.E(ivlerr.ReadOnlyViolation, opPrefix+".AddAll", nil)
}

func (l *List[T, I]) Remove(I) (bool, error) {
	return false, ivlerr.E(ivlerr.ReadOnlyViolation, opPrefix+".Remove", nil)
}

func (l *List[T, I]) Clear() error {
	return ivlerr.E(ivlerr.ReadOnlyViolation, opPrefix+".Clear", nil)
}

func (l *List[T, I]) Do(fn func(I) bool) bool {
	for _, it := range l.all() {
		if fn(it) {
			return true
		}
	}
	return false
}

// Subscribe is a no-op: a read-only List never changes after Build.
func (l *List[T, I]) Subscribe(collection.Observer[T, I]) (unsubscribe func()) {
	return func() {}
}
