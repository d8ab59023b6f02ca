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

// Package esl implements the Endpoint-Sorted List: a dense array of
// intervals kept sorted by interval.Compare.
package esl

import (
	"sort"

	"cmp"

	"github.com/arborix/intervalstore/collection"
	"github.com/arborix/intervalstore/interval"
	"github.com/arborix/intervalstore/sweep"
	"github.com/arborix/intervalstore/ivlerr"
)

// List is a sorted array of intervals. Unlike DLFIT, it
// places no restriction on duplicates, containments or overlaps: it is
// a general-purpose sorted container, not a specialized index.
type List[T cmp.Ordered, I interval.Interval[T]] struct {
	collection.Notifier[T, I]
	items    []I
	readOnly bool
}

const opPrefix = "esl.List"

// New builds a List from items, which need not already be sorted.
func New[T cmp.Ordered, I interval.Interval[T]](items []I, isReadOnly bool) *List[T, I] {
	cp := append([]I(nil), items...)
	sweep.StableSort[T, I](cp)
	return &List[T, I]{items: cp, readOnly: isReadOnly}
}

// Capabilities reports the ESL's capability flags: it accepts
// duplicates, containments and overlaps unconditionally.
func (l *List[T, I]) Capabilities() collection.Capabilities {
	return collection.Capabilities{
		AllowsReferenceDuplicates: true,
		AllowsContainments:        true,
		AllowsOverlaps:            true,
		ReadOnly:                  l.readOnly,
		SupportsSortedEnumeration: true,
		SupportsIndexing:          true,
	}
}

func (l *List[T, I]) IsEmpty() bool          { return len(l.items) == 0 }
func (l *List[T, I]) Count() int             { return len(l.items) }
func (l *List[T, I]) CountSpeed() collection.Speed { return collection.Constant }

func (l *List[T, I]) Choose() (I, error) {
	var zero I
	if len(l.items) == 0 {
		return zero, ivlerr.E(ivlerr.EmptyCollection, opPrefix+".Choose", nil)
	}
	return l.items[0], nil
}

func (l *List[T, I]) Span() (*interval.Endpoints[T], error) {
	s, err := interval.Span[T, I](l.items)
	if err != nil {
		return nil, ivlerr.E(ivlerr.EmptyCollection, opPrefix+".Span", err)
	}
	return s, nil
}

func (l *List[T, I]) LowestInterval() (I, error) {
	var zero I
	if len(l.items) == 0 {
		return zero, ivlerr.E(ivlerr.EmptyCollection, opPrefix+".LowestInterval", nil)
	}
	return l.items[0], nil
}

func (l *List[T, I]) HighestInterval() (I, error) {
	var zero I
	if len(l.items) == 0 {
		return zero, ivlerr.E(ivlerr.EmptyCollection, opPrefix+".HighestInterval", nil)
	}
	best := l.items[0]
	for _, it := range l.items[1:] {
		if interval.CompareHigh[T, I](it, best) > 0 {
			best = it
		}
	}
	return best, nil
}

func (l *List[T, I]) LowestIntervals() ([]I, error) {
	if len(l.items) == 0 {
		return nil, ivlerr.E(ivlerr.EmptyCollection, opPrefix+".LowestIntervals", nil)
	}
	low := l.items[0].Low()
	var out []I
	for _, it := range l.items {
		if it.Low() == low {
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
	for _, it := range l.items {
		if it.High() == hi.High() {
			out = append(out, it)
		}
	}
	return out, nil
}

func (l *List[T, I]) MaximumDepth() int {
	return sweep.MaxDepth[T, I](l.items)
}

func (l *List[T, I]) FindEquals(query I) []I {
	var out []I
	for _, it := range l.items {
		if interval.Equals[T, I](it, query) {
			out = append(out, it)
		}
	}
	return out
}

func (l *List[T, I]) FindOverlapsPoint(p T) []I {
	var out []I
	for _, it := range l.items {
		if interval.OverlapsPoint[T, I](it, p) {
			out = append(out, it)
		}
	}
	return out
}

func (l *List[T, I]) FindOverlaps(query I) []I {
	var out []I
	for _, it := range l.items {
		if interval.Overlaps[T, I](it, query) {
			out = append(out, it)
		}
	}
	return out
}

func (l *List[T, I]) FindOverlap(query I) (I, bool) {
	for _, it := range l.items {
		if interval.Overlaps[T, I](it, query) {
			return it, true
		}
	}
	var zero I
	return zero, false
}

func (l *List[T, I]) CountOverlaps(query I) int {
	n := 0
	for _, it := range l.items {
		if interval.Overlaps[T, I](it, query) {
			n++
		}
	}
	return n
}

func (l *List[T, I]) Gaps() []*interval.Endpoints[T] {
	var merged []*interval.Endpoints[T]
	for _, it := range l.items {
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

func (l *List[T, I]) Add(i I) (bool, error) {
	if l.readOnly {
		return false, ivlerr.E(ivlerr.ReadOnlyViolation, opPrefix+".Add", nil)
	}
	idx := l.upperBound(i)
	l.items = append(l.items, i)
	copy(l.items[idx+1:], l.items[idx:])
	l.items[idx] = i
	l.NotifyAdded([]I{i})
	return true, nil
}

func (l *List[T, I]) AddAll(items []I) (int, error) {
	accepted := 0
	for _, it := range items {
		ok, err := l.Add(it)
		if err != nil {
			return accepted, err
		}
		if ok {
			accepted++
		}
	}
	return accepted, nil
}

func (l *List[T, I]) Remove(i I) (bool, error) {
	if l.readOnly {
		return false, ivlerr.E(ivlerr.ReadOnlyViolation, opPrefix+".Remove", nil)
	}
	for idx, it := range l.items {
		if any(it) == any(i) {
			l.items = append(l.items[:idx], l.items[idx+1:]...)
			l.NotifyRemoved([]I{i})
			return true, nil
		}
	}
	return false, nil
}

func (l *List[T, I]) Clear() error {
	if l.readOnly {
		return ivlerr.E(ivlerr.ReadOnlyViolation, opPrefix+".Clear", nil)
	}
	if len(l.items) == 0 {
		return nil
	}
	l.items = nil
	l.NotifyCleared()
	return nil
}

func (l *List[T, I]) Do(fn func(I) bool) bool {
	for _, it := range l.items {
		if fn(it) {
			return true
		}
	}
	return false
}

// upperBound returns the first index whose element is strictly greater
// than x in interval.Compare order, i.e. the position to append x after
// any existing equal-keyed elements (stable insertion).
func (l *List[T, I]) upperBound(x I) int {
	return sort.Search(len(l.items), func(i int) bool {
		return interval.Compare[T, I](l.items[i], x) > 0
	})
}

// lowerBound returns the first index whose element is not less than x.
func (l *List[T, I]) lowerBound(x I) int {
	return sort.Search(len(l.items), func(i int) bool {
		return interval.Compare[T, I](l.items[i], x) >= 0
	})
}

// Find returns the index of the first element comparing equal to query
// by the total order, or ^insertionPoint if absent (one's-complement
// convention).
func (l *List[T, I]) Find(query I) int {
	idx := l.lowerBound(query)
	if idx < len(l.items) && interval.Compare[T, I](l.items[idx], query) == 0 {
		return idx
	}
	return ^idx
}

// FindFirst returns the lower bound of the run of elements comparing
// equal to query.
func (l *List[T, I]) FindFirst(query I) int { return l.lowerBound(query) }

// FindLast returns the upper bound of the run of elements comparing
// equal to query.
func (l *List[T, I]) FindLast(query I) int { return l.upperBound(query) }

// IndexOf returns the 0-based position of the reference-equal object i,
// or ^insertionPoint if i is not present.
func (l *List[T, I]) IndexOf(i I) int {
	lo, hi := l.FindFirst(i), l.FindLast(i)
	for idx := lo; idx < hi; idx++ {
		if any(l.items[idx]) == any(i) {
			return idx
		}
	}
	return ^lo
}

// At returns the element at the given 0-based position.
func (l *List[T, I]) At(idx int) I { return l.items[idx] }

// EnumerateFromIndex returns the elements from idx (clamped to 0 if
// negative) to the end.
func (l *List[T, I]) EnumerateFromIndex(idx int) collection.Sequence[I] {
	if idx < 0 {
		idx = 0
	}
	return &sliceSeq[I]{items: l.items, pos: idx}
}

// EnumerateBackwardsFromIndex returns the elements from idx down to 0;
// idx < 0 yields nothing, idx >= Count yields the full sequence.
func (l *List[T, I]) EnumerateBackwardsFromIndex(idx int) collection.Sequence[I] {
	if idx >= len(l.items) {
		idx = len(l.items) - 1
	}
	if idx < 0 {
		return &sliceSeq[I]{backwards: true, pos: -1}
	}
	return &sliceSeq[I]{items: l.items, backwards: true, pos: idx}
}

// EnumerateRange returns the elements with indices in [from, to).
func (l *List[T, I]) EnumerateRange(from, to int) collection.Sequence[I] {
	if from < 0 {
		from = 0
	}
	if to > len(l.items) {
		to = len(l.items)
	}
	if to < from {
		to = from
	}
	return &sliceSeq[I]{items: l.items[:to], pos: from}
}

// Sorted returns every element in ascending interval.Compare order.
func (l *List[T, I]) Sorted() collection.Sequence[I] {
	return &sliceSeq[I]{items: l.items, pos: 0}
}

// SortedBackwards returns every element in descending order.
func (l *List[T, I]) SortedBackwards() collection.Sequence[I] {
	return l.EnumerateBackwardsFromIndex(len(l.items) - 1)
}

// EnumerateFromPoint yields stored intervals from the first one matching
// p onward. If includeOverlaps, that is the first whose high endpoint is
// at or after p; since containments mean high is not monotonic in sort
// order, that case is a linear scan rather than a binary search.
// Otherwise it is the first whose low endpoint is strictly after p,
// found by binary search since low is monotonic in sort order.
func (l *List[T, I]) EnumerateFromPoint(p T, includeOverlaps bool) collection.Sequence[I] {
	if !includeOverlaps {
		idx := sort.Search(len(l.items), func(i int) bool {
			return cmp.Compare(l.items[i].Low(), p) > 0
		})
		return l.EnumerateFromIndex(idx)
	}
	for idx, it := range l.items {
		if cmp.Compare(it.High(), p) > 0 || (it.High() == p && it.HighInc()) {
			return l.EnumerateFromIndex(idx)
		}
	}
	return l.EnumerateFromIndex(len(l.items))
}

// EnumerateBackwardsFromPoint is the backward analogue of
// EnumerateFromPoint. If includeOverlaps, it starts from the last
// interval whose low endpoint is at or before p. Otherwise it starts
// from the last interval whose high endpoint is strictly before p,
// found by a linear scan since high is not monotonic in sort order.
func (l *List[T, I]) EnumerateBackwardsFromPoint(p T, includeOverlaps bool) collection.Sequence[I] {
	if !includeOverlaps {
		for idx := len(l.items) - 1; idx >= 0; idx-- {
			it := l.items[idx]
			if cmp.Compare(it.High(), p) < 0 || (it.High() == p && !it.HighInc()) {
				return l.EnumerateBackwardsFromIndex(idx)
			}
		}
		return l.EnumerateBackwardsFromIndex(-1)
	}
	for idx := len(l.items) - 1; idx >= 0; idx-- {
		if cmp.Compare(l.items[idx].Low(), p) <= 0 {
			return l.EnumerateBackwardsFromIndex(idx)
		}
	}
	return l.EnumerateBackwardsFromIndex(-1)
}

// EnumerateFrom yields intervals from the reference-equal object i
// onward (inclusive of i itself iff include). Empty if i is absent.
func (l *List[T, I]) EnumerateFrom(i I, include bool) collection.Sequence[I] {
	idx := l.IndexOf(i)
	if idx < 0 {
		return l.EnumerateFromIndex(len(l.items))
	}
	if !include {
		idx++
	}
	return l.EnumerateFromIndex(idx)
}

// EnumerateBackwardsFrom is the backward analogue of EnumerateFrom.
func (l *List[T, I]) EnumerateBackwardsFrom(i I, include bool) collection.Sequence[I] {
	idx := l.IndexOf(i)
	if idx < 0 {
		return l.EnumerateBackwardsFromIndex(-1)
	}
	if !include {
		idx--
	}
	return l.EnumerateBackwardsFromIndex(idx)
}

type sliceSeq[I any] struct {
	items     []I
	pos       int
	backwards bool
}

func (s *sliceSeq[I]) Next() (I, bool) {
	var zero I
	if s.backwards {
		if s.pos < 0 {
			return zero, false
		}
		v := s.items[s.pos]
		s.pos--
		return v, true
	}
	if s.pos >= len(s.items) {
		return zero, false
	}
	v := s.items[s.pos]
	s.pos++
	return v, true
}

// Subscribe is provided by the embedded collection.Notifier.
