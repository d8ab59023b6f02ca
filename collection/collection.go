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

// Package collection defines the operation surface, capability flags and
// observer events common to every interval index in this module. Indexes
// are not related by a type hierarchy; callers branch on a Capabilities
// value instead of on concrete type identity.
package collection

import (
	"cmp"

	"github.com/arborix/intervalstore/interval"
)

// Speed classifies the asymptotic cost of Count, as advertised by a
// collection so callers can decide whether to cache it themselves.
type Speed int

const (
	Constant Speed = iota
	Logarithmic
	Linear
)

// Capabilities is the capability set every collection publishes. Tests
// and callers branch on these flags rather than on concrete type: see
// the "capability set instead of subtype identity" guidance this module
// follows throughout.
type Capabilities struct {
	// AllowsReferenceDuplicates permits the same object reference to be
	// stored more than once. Implies AllowsOverlaps.
	AllowsReferenceDuplicates bool
	// AllowsContainments permits one stored interval to strictly
	// contain another. Implies AllowsOverlaps.
	AllowsContainments bool
	// AllowsOverlaps permits any two stored intervals to intersect.
	AllowsOverlaps bool
	// ReadOnly means every mutating operation fails with
	// ivlerr.ReadOnlyViolation.
	ReadOnly bool
	// SupportsSortedEnumeration exposes Sorted/SortedBackwards/
	// EnumerateFrom* and IndexOf; see the SortedEnumerable interface.
	SupportsSortedEnumeration bool
	// SupportsIndexing exposes constant or near-constant time access
	// by position (EnumerateFromIndex and friends).
	SupportsIndexing bool
	// SupportsNeighbourhood exposes Neighbourhood queries; only
	// possible for overlap-free (hence containment-free) collections.
	SupportsNeighbourhood bool
}

// Observer receives synchronous notification of mutations. The specific
// event (ItemsAdded/ItemsRemoved/CollectionCleared) always fires before
// the generic CollectionChanged, within the same call that caused it.
// An Observer must not mutate the collection that is notifying it.
type Observer[T cmp.Ordered, I interval.Interval[T]] interface {
	ItemsAdded(items []I)
	ItemsRemoved(items []I)
	CollectionCleared()
	CollectionChanged()
}

// Collection is the operation surface shared by every index: ESL,
// DLFIT, LCL, IBS and DIT all implement it (directly or via an
// embedding sub-contract).
type Collection[T cmp.Ordered, I interval.Interval[T]] interface {
	// Capabilities reports this collection's capability flags.
	Capabilities() Capabilities

	// IsEmpty reports whether Count is zero.
	IsEmpty() bool
	// Count returns the number of stored references.
	Count() int
	// CountSpeed reports the asymptotic cost of Count.
	CountSpeed() Speed

	// Choose returns an arbitrary stored interval. Fails with
	// ivlerr.EmptyCollection when empty.
	Choose() (I, error)
	// Span returns the smallest interval containing every stored
	// interval. Fails with ivlerr.EmptyCollection when empty.
	Span() (*interval.Endpoints[T], error)
	// LowestInterval returns a stored interval attaining Span().Low()
	// with matching inclusion. Fails with ivlerr.EmptyCollection.
	LowestInterval() (I, error)
	// HighestInterval is the High() analogue of LowestInterval.
	HighestInterval() (I, error)
	// LowestIntervals returns every stored interval sharing the
	// lowest low (see LowestInterval).
	LowestIntervals() ([]I, error)
	// HighestIntervals is the High() analogue of LowestIntervals.
	HighestIntervals() ([]I, error)
	// MaximumDepth returns the largest number of stored intervals
	// covering any single point; 0 iff empty.
	MaximumDepth() int

	// FindEquals returns every stored interval structurally equal to
	// query (see interval.Equals).
	FindEquals(query I) []I
	// FindOverlapsPoint returns every stored interval covering p.
	FindOverlapsPoint(p T) []I
	// FindOverlaps returns every stored interval overlapping query.
	FindOverlaps(query I) []I
	// FindOverlap returns a single interval overlapping query, and
	// whether one was found.
	FindOverlap(query I) (I, bool)
	// CountOverlaps is len(FindOverlaps(query)), computed without
	// necessarily materializing the slice.
	CountOverlaps(query I) int

	// Gaps returns the maximal sub-intervals of Span not covered by
	// any stored interval.
	Gaps() []*interval.Endpoints[T]
	// FindGaps is Gaps restricted to the sub-intervals of query.
	FindGaps(query I) []*interval.Endpoints[T]

	// Add inserts i. It returns false, leaving the collection
	// unchanged, when acceptance would violate a capability flag.
	// On a read-only collection it fails with ivlerr.ReadOnlyViolation.
	Add(i I) (bool, error)
	// AddAll is iterated Add: it does not roll back on a rejection,
	// and returns the count of items actually accepted.
	AddAll(items []I) (int, error)
	// Remove deletes the single reference-equal object i. It returns
	// false on a miss; an interval-equal-but-distinct object is never
	// matched.
	Remove(i I) (bool, error)
	// Clear empties the collection. A second call is a no-op and
	// fires no event.
	Clear() error

	// Do calls fn with every stored interval in implementation-defined
	// order, stopping early if fn returns true.
	Do(fn func(I) (done bool)) bool

	// Subscribe registers obs for synchronous mutation notifications
	// and returns a function that unsubscribes it.
	Subscribe(obs Observer[T, I]) (unsubscribe func())
}

// Sequence is a restartable, pull-based iterator over intervals,
// matching the "next() -> option<I>" model called for by the spec's
// enumerator guidance.
type Sequence[I any] interface {
	// Next returns the next interval in the sequence, and whether one
	// was available.
	Next() (I, bool)
}

// SortedEnumerable is the sub-contract exposed by collections that
// support sorted enumeration (Capabilities.SupportsSortedEnumeration):
// every stored interval can be visited in the total order
// defined by interval.Compare, forward or backward, restartably, and
// addressed by 0-based position.
type SortedEnumerable[T cmp.Ordered, I interval.Interval[T]] interface {
	Collection[T, I]

	// Sorted returns intervals in interval.Compare order.
	Sorted() Sequence[I]
	// SortedBackwards returns intervals in interval.CompareReversed order.
	SortedBackwards() Sequence[I]

	// EnumerateFromPoint yields stored intervals from the first one
	// matching p onward. If includeOverlaps, the first yielded
	// interval is the first whose high endpoint is at or after p;
	// otherwise it is the first whose low endpoint is strictly after p.
	EnumerateFromPoint(p T, includeOverlaps bool) Sequence[I]
	// EnumerateBackwardsFromPoint is the backward analogue of
	// EnumerateFromPoint.
	EnumerateBackwardsFromPoint(p T, includeOverlaps bool) Sequence[I]
	// EnumerateFrom yields intervals from the reference-equal object i
	// onward (inclusive of i itself iff include). Empty if i is absent.
	EnumerateFrom(i I, include bool) Sequence[I]
	// EnumerateBackwardsFrom is the backward analogue of EnumerateFrom.
	EnumerateBackwardsFrom(i I, include bool) Sequence[I]
	// EnumerateFromIndex yields intervals from position idx onward.
	// A negative idx is treated as 0; idx >= Count yields nothing.
	EnumerateFromIndex(idx int) Sequence[I]
	// EnumerateBackwardsFromIndex is the backward analogue:
	// idx < 0 yields nothing; idx >= Count yields the full sequence.
	EnumerateBackwardsFromIndex(idx int) Sequence[I]

	// IndexOf returns the 0-based sorted position of the
	// reference-equal object i, or ^insertionPoint if absent.
	IndexOf(i I) int
}

// OverlapFree is the sub-contract exposed by collections that also
// forbid overlaps (hence containments): every point or interval has a
// well-defined (previous, overlap, next) neighbourhood.
type OverlapFree[T cmp.Ordered, I interval.Interval[T]] interface {
	SortedEnumerable[T, I]

	// Neighbourhood returns, for point p, the last stored interval
	// ending before p, the unique stored interval containing p (if
	// any), and the first stored interval starting after p.
	Neighbourhood(p T) (prev, overlap, next I, hasPrev, hasOverlap, hasNext bool)
}
