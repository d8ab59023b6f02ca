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

// Package dlfit implements the Doubly-Linked Finite Interval Tree: a
// balanced BST keyed on the low endpoint, threaded with prev/next
// pointers so that the stored intervals can also be walked as a sorted
// doubly-linked list. It holds only non-overlapping intervals: since no
// two stored intervals may overlap or contain one another, the
// low-endpoint order and the high-endpoint order coincide, which lets
// several of the Collection queries below run in O(1) or O(log n)
// instead of the O(n) a general-purpose index would need.
package dlfit

import (
	"cmp"

	"github.com/arborix/intervalstore/collection"
	"github.com/arborix/intervalstore/interval"
	"github.com/arborix/intervalstore/ivlerr"
	"github.com/arborix/intervalstore/llrb"
)

type entry[T cmp.Ordered, I interval.Interval[T]] struct {
	item       I
	low        T
	prev, next *entry[T, I]
}

// Tree is a doubly-linked, overlap-free finite interval tree.
type Tree[T cmp.Ordered, I interval.Interval[T]] struct {
	collection.Notifier[T, I]
	bst        *llrb.Tree[*entry[T, I]]
	head, tail *entry[T, I]
	count      int
}

const opPrefix = "dlfit.Tree"

// New returns an empty Tree.
func New[T cmp.Ordered, I interval.Interval[T]]() *Tree[T, I] {
	return &Tree[T, I]{bst: &llrb.Tree[*entry[T, I]]{Compare: compareEntries[T, I]}}
}

func compareEntries[T cmp.Ordered, I interval.Interval[T]](a, b *entry[T, I]) int {
	return cmp.Compare(a.low, b.low)
}

func probe[T cmp.Ordered, I interval.Interval[T]](i I) *entry[T, I] {
	return &entry[T, I]{low: i.Low()}
}

func pointProbe[T cmp.Ordered, I interval.Interval[T]](p T) *entry[T, I] {
	return &entry[T, I]{low: p}
}

// Capabilities reports that Tree is overlap-free and mutable, with
// sorted enumeration and neighbourhood queries but no positional index.
func (tr *Tree[T, I]) Capabilities() collection.Capabilities {
	return collection.Capabilities{
		SupportsSortedEnumeration: true,
		SupportsNeighbourhood:     true,
	}
}

func (tr *Tree[T, I]) IsEmpty() bool                { return tr.count == 0 }
func (tr *Tree[T, I]) Count() int                   { return tr.count }
func (tr *Tree[T, I]) CountSpeed() collection.Speed { return collection.Constant }

func (tr *Tree[T, I]) Choose() (I, error) {
	var zero I
	if tr.head == nil {
		return zero, ivlerr.E(ivlerr.EmptyCollection, opPrefix+".Choose", nil)
	}
	return tr.head.item, nil
}

func (tr *Tree[T, I]) LowestInterval() (I, error) {
	var zero I
	if tr.head == nil {
		return zero, ivlerr.E(ivlerr.EmptyCollection, opPrefix+".LowestInterval", nil)
	}
	return tr.head.item, nil
}

func (tr *Tree[T, I]) HighestInterval() (I, error) {
	var zero I
	if tr.tail == nil {
		return zero, ivlerr.E(ivlerr.EmptyCollection, opPrefix+".HighestInterval", nil)
	}
	return tr.tail.item, nil
}

func (tr *Tree[T, I]) LowestIntervals() ([]I, error) {
	lo, err := tr.LowestInterval()
	if err != nil {
		return nil, err
	}
	return []I{lo}, nil
}

func (tr *Tree[T, I]) HighestIntervals() ([]I, error) {
	hi, err := tr.HighestInterval()
	if err != nil {
		return nil, err
	}
	return []I{hi}, nil
}

func (tr *Tree[T, I]) Span() (*interval.Endpoints[T], error) {
	if tr.head == nil {
		return nil, ivlerr.E(ivlerr.EmptyCollection, opPrefix+".Span", nil)
	}
	return interval.New(tr.head.item.Low(), tr.tail.item.High(), tr.head.item.LowInc(), tr.tail.item.HighInc())
}

// MaximumDepth is always 1 for a non-empty overlap-free collection, and
// 0 when empty.
func (tr *Tree[T, I]) MaximumDepth() int {
	if tr.count == 0 {
		return 0
	}
	return 1
}

func (tr *Tree[T, I]) FindEquals(query I) []I {
	got, ok := tr.bst.Get(probe[T, I](query))
	if !ok || !interval.Equals[T, I](got.item, query) {
		return nil
	}
	return []I{got.item}
}

// floorEntry returns the entry whose item has the greatest low endpoint
// not greater than q's low, if any.
func (tr *Tree[T, I]) floorEntry(q I) (*entry[T, I], bool) {
	return tr.bst.Floor(probe[T, I](q))
}

// floorByLow returns the entry with the greatest low endpoint not
// greater than p, if any.
func (tr *Tree[T, I]) floorByLow(p T) (*entry[T, I], bool) {
	return tr.bst.Floor(pointProbe[T, I](p))
}

func (tr *Tree[T, I]) FindOverlapsPoint(p T) []I {
	pred, ok := tr.floorByLow(p)
	if !ok {
		return nil
	}
	if interval.OverlapsPoint[T, I](pred.item, p) {
		return []I{pred.item}
	}
	return nil
}

func (tr *Tree[T, I]) FindOverlaps(query I) []I {
	var out []I
	tr.walkOverlapping(query, func(it I) bool {
		out = append(out, it)
		return false
	})
	return out
}

func (tr *Tree[T, I]) FindOverlap(query I) (I, bool) {
	var found I
	ok := false
	tr.walkOverlapping(query, func(it I) bool {
		found, ok = it, true
		return true
	})
	return found, ok
}

func (tr *Tree[T, I]) CountOverlaps(query I) int {
	n := 0
	tr.walkOverlapping(query, func(I) bool { n++; return false })
	return n
}

// walkOverlapping visits every stored interval overlapping query, in
// ascending order, stopping early if fn returns true.
func (tr *Tree[T, I]) walkOverlapping(query I, fn func(I) bool) {
	var start *entry[T, I]
	if pred, ok := tr.floorEntry(query); ok {
		start = pred
	} else {
		start = tr.head
	}
	for e := start; e != nil; e = e.next {
		if cmp.Compare(e.item.Low(), query.High()) > 0 {
			break
		}
		if interval.Overlaps[T, I](e.item, query) {
			if fn(e.item) {
				return
			}
		}
	}
}

func (tr *Tree[T, I]) Gaps() []*interval.Endpoints[T] {
	var out []*interval.Endpoints[T]
	for e := tr.head; e != nil && e.next != nil; e = e.next {
		if g, ok := gapBetween[T, I](e.item, e.next.item); ok {
			out = append(out, g)
		}
	}
	return out
}

func (tr *Tree[T, I]) FindGaps(query I) []*interval.Endpoints[T] {
	var out []*interval.Endpoints[T]
	for _, g := range tr.Gaps() {
		if interval.Overlaps[T, interval.Interval[T]](g, query) {
			out = append(out, g)
		}
	}
	return out
}

// gapBetween returns the span strictly between a and b, if one exists.
// When a.High() == b.Low() there is still a single-point gap if both
// endpoints exclude that shared value.
func gapBetween[T cmp.Ordered, I interval.Interval[T]](a, b I) (*interval.Endpoints[T], bool) {
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

// Neighbourhood returns the interval strictly before p, the interval
// overlapping p (if any), and the interval strictly after p.
func (tr *Tree[T, I]) Neighbourhood(p T) (prev, overlap, next I, hasPrev, hasOverlap, hasNext bool) {
	pred, ok := tr.floorByLow(p)
	if !ok {
		if tr.head != nil {
			next, hasNext = tr.head.item, true
		}
		return
	}
	if interval.OverlapsPoint[T, I](pred.item, p) {
		overlap, hasOverlap = pred.item, true
		if pred.prev != nil {
			prev, hasPrev = pred.prev.item, true
		}
		if pred.next != nil {
			next, hasNext = pred.next.item, true
		}
		return
	}
	prev, hasPrev = pred.item, true
	if pred.next != nil {
		next, hasNext = pred.next.item, true
	}
	return
}

func (tr *Tree[T, I]) Add(i I) (bool, error) {
	var predEntry, succEntry *entry[T, I]
	if p, ok := tr.floorEntry(i); ok {
		predEntry = p
		succEntry = p.next
	} else {
		succEntry = tr.head
	}
	if predEntry != nil && interval.Overlaps[T, I](predEntry.item, i) {
		return false, nil
	}
	if succEntry != nil && interval.Overlaps[T, I](succEntry.item, i) {
		return false, nil
	}

	e := &entry[T, I]{item: i, low: i.Low()}
	tr.bst.Insert(e)
	if predEntry == nil {
		e.next = tr.head
		if tr.head != nil {
			tr.head.prev = e
		}
		tr.head = e
	} else {
		e.next = predEntry.next
		e.prev = predEntry
		if predEntry.next != nil {
			predEntry.next.prev = e
		}
		predEntry.next = e
	}
	if e.next == nil {
		tr.tail = e
	}
	tr.count++
	tr.NotifyAdded([]I{i})
	return true, nil
}

func (tr *Tree[T, I]) AddAll(items []I) (int, error) {
	accepted := 0
	for _, it := range items {
		ok, err := tr.Add(it)
		if err != nil {
			return accepted, err
		}
		if ok {
			accepted++
		}
	}
	return accepted, nil
}

func (tr *Tree[T, I]) Remove(i I) (bool, error) {
	got, ok := tr.bst.Get(probe[T, I](i))
	if !ok || any(got.item) != any(i) {
		return false, nil
	}
	tr.bst.Delete(got)
	if got.prev != nil {
		got.prev.next = got.next
	} else {
		tr.head = got.next
	}
	if got.next != nil {
		got.next.prev = got.prev
	} else {
		tr.tail = got.prev
	}
	tr.count--
	tr.NotifyRemoved([]I{i})
	return true, nil
}

func (tr *Tree[T, I]) Clear() error {
	if tr.count == 0 {
		return nil
	}
	tr.bst = &llrb.Tree[*entry[T, I]]{Compare: compareEntries[T, I]}
	tr.head, tr.tail = nil, nil
	tr.count = 0
	tr.NotifyCleared()
	return nil
}

func (tr *Tree[T, I]) Do(fn func(I) bool) bool {
	for e := tr.head; e != nil; e = e.next {
		if fn(e.item) {
			return true
		}
	}
	return false
}

type listSeq[T cmp.Ordered, I interval.Interval[T]] struct {
	cur       *entry[T, I]
	backwards bool
}

func (s *listSeq[T, I]) Next() (I, bool) {
	var zero I
	if s.cur == nil {
		return zero, false
	}
	v := s.cur.item
	if s.backwards {
		s.cur = s.cur.prev
	} else {
		s.cur = s.cur.next
	}
	return v, true
}

func (tr *Tree[T, I]) Sorted() collection.Sequence[I] {
	return &listSeq[T, I]{cur: tr.head}
}

func (tr *Tree[T, I]) SortedBackwards() collection.Sequence[I] {
	return &listSeq[T, I]{cur: tr.tail, backwards: true}
}

// EnumerateFromPoint yields stored intervals from the first one matching
// p onward. Since the tree is overlap-free, at most one stored interval
// can cover p, so includeOverlaps only ever affects whether that single
// covering interval (if any) is the start of the sequence or is skipped.
func (tr *Tree[T, I]) EnumerateFromPoint(p T, includeOverlaps bool) collection.Sequence[I] {
	e, ok := tr.floorByLow(p)
	if !ok {
		return &listSeq[T, I]{cur: tr.head}
	}
	covers := interval.OverlapsPoint[T, I](e.item, p)
	if !covers || !includeOverlaps {
		e = e.next
	}
	return &listSeq[T, I]{cur: e}
}

// EnumerateBackwardsFromPoint is the backward analogue of
// EnumerateFromPoint. The floor entry by low either covers p (in which
// case includeOverlaps decides whether it is the first yielded) or
// falls entirely before p (in which case it is always included,
// regardless of includeOverlaps).
func (tr *Tree[T, I]) EnumerateBackwardsFromPoint(p T, includeOverlaps bool) collection.Sequence[I] {
	e, ok := tr.floorByLow(p)
	if !ok {
		return &listSeq[T, I]{backwards: true}
	}
	if !includeOverlaps && interval.OverlapsPoint[T, I](e.item, p) {
		e = e.prev
	}
	return &listSeq[T, I]{cur: e, backwards: true}
}

// EnumerateFrom yields intervals from the reference-equal object query
// onward (inclusive of query itself iff include). Empty if query is
// absent.
func (tr *Tree[T, I]) EnumerateFrom(query I, include bool) collection.Sequence[I] {
	e, ok := tr.floorEntry(query)
	if !ok || any(e.item) != any(query) {
		return &listSeq[T, I]{}
	}
	if !include {
		e = e.next
	}
	return &listSeq[T, I]{cur: e}
}

// EnumerateBackwardsFrom is the backward analogue of EnumerateFrom.
func (tr *Tree[T, I]) EnumerateBackwardsFrom(query I, include bool) collection.Sequence[I] {
	e, ok := tr.floorEntry(query)
	if !ok || any(e.item) != any(query) {
		return &listSeq[T, I]{backwards: true}
	}
	if !include {
		e = e.prev
	}
	return &listSeq[T, I]{cur: e, backwards: true}
}

// EnumerateFromIndex yields intervals from position idx onward. DLFIT
// has no positional index (it is a linked list, not an array), so this
// walks from the head in O(idx); it exists to satisfy the sorted
// enumeration sub-contract, not as a performance-critical path.
func (tr *Tree[T, I]) EnumerateFromIndex(idx int) collection.Sequence[I] {
	if idx < 0 {
		idx = 0
	}
	e := tr.head
	for i := 0; i < idx && e != nil; i++ {
		e = e.next
	}
	return &listSeq[T, I]{cur: e}
}

// EnumerateBackwardsFromIndex is the backward analogue of
// EnumerateFromIndex: idx < 0 yields nothing, idx >= Count yields the
// full backward sequence.
func (tr *Tree[T, I]) EnumerateBackwardsFromIndex(idx int) collection.Sequence[I] {
	if idx < 0 {
		return &listSeq[T, I]{backwards: true}
	}
	if idx >= tr.count {
		return &listSeq[T, I]{cur: tr.tail, backwards: true}
	}
	e := tr.head
	for i := 0; i < idx && e != nil; i++ {
		e = e.next
	}
	return &listSeq[T, I]{cur: e, backwards: true}
}

// IndexOf returns the 0-based sorted position of the reference-equal
// object i, or ^insertionPoint if absent. Like EnumerateFromIndex, this
// is an O(n) walk: DLFIT trades positional access for O(log n)
// add/remove/neighbourhood.
func (tr *Tree[T, I]) IndexOf(i I) int {
	idx := 0
	for e := tr.head; e != nil; e = e.next {
		if any(e.item) == any(i) {
			return idx
		}
		if cmp.Compare(e.item.Low(), i.Low()) > 0 {
			break
		}
		idx++
	}
	return ^idx
}
