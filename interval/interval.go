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

// Package interval implements the endpoint algebra shared by every index
// in this module: the half-open/open/closed/point interval model, the
// total order over intervals, overlap/containment predicates, Allen's
// thirteen relations, and the span combinator.
package interval

import (
	"cmp"
	"fmt"

	"github.com/arborix/intervalstore/ivlerr"
)

// Interval is the accessor contract every index stores values through.
// It is a protocol, not a concrete type, so that two structurally equal
// but distinct objects remain distinct members of a collection: identity
// is reference identity of the I value, not the tuple it reports.
type Interval[T cmp.Ordered] interface {
	Low() T
	High() T
	LowInc() bool
	HighInc() bool
}

// Endpoints is the library's concrete Interval implementation. Use New
// to construct one; the zero value is not a valid interval.
type Endpoints[T cmp.Ordered] struct {
	low, high       T
	lowInc, highInc bool
}

// New builds an Endpoints value, validating the invariants of the data
// model: low must not exceed high, a degenerate point (low == high)
// must be closed on both ends, and an empty range built from two
// excluded, equal endpoints is rejected outright.
func New[T cmp.Ordered](low, high T, lowInc, highInc bool) (*Endpoints[T], error) {
	const op = "interval.New"
	if low > high {
		return nil, ivlerr.E(ivlerr.InvalidArgument, op, fmt.Errorf("low %v > high %v", low, high))
	}
	if low == high && !(lowInc && highInc) {
		return nil, ivlerr.E(ivlerr.InvalidArgument, op, fmt.Errorf("degenerate point %v must be closed on both ends", low))
	}
	if low == high && !lowInc && !highInc {
		return nil, ivlerr.E(ivlerr.InvalidArgument, op, fmt.Errorf("empty interval at %v", low))
	}
	return &Endpoints[T]{low: low, high: high, lowInc: lowInc, highInc: highInc}, nil
}

// Point builds a degenerate, closed, single-value interval.
func Point[T cmp.Ordered](at T) *Endpoints[T] {
	return &Endpoints[T]{low: at, high: at, lowInc: true, highInc: true}
}

func (e *Endpoints[T]) Low() T        { return e.low }
func (e *Endpoints[T]) High() T       { return e.high }
func (e *Endpoints[T]) LowInc() bool  { return e.lowInc }
func (e *Endpoints[T]) HighInc() bool { return e.highInc }

func (e *Endpoints[T]) String() string {
	l, r := "(", ")"
	if e.lowInc {
		l = "["
	}
	if e.highInc {
		r = "]"
	}
	return fmt.Sprintf("%s%v, %v%s", l, e.low, e.high, r)
}

// CompareLow orders two intervals by their low endpoint alone: by value,
// then by inclusion with an included low sorting before an excluded one
// sharing the same value (an included low sits further left on the line).
func CompareLow[T cmp.Ordered, I Interval[T]](a, b I) int {
	if c := cmp.Compare(a.Low(), b.Low()); c != 0 {
		return c
	}
	return cmp.Compare(boolRank(!a.LowInc()), boolRank(!b.LowInc()))
}

// CompareHigh orders two intervals by their high endpoint alone: by
// value, then by inclusion with an included high sorting after an
// excluded one sharing the same value.
func CompareHigh[T cmp.Ordered, I Interval[T]](a, b I) int {
	if c := cmp.Compare(a.High(), b.High()); c != 0 {
		return c
	}
	return cmp.Compare(boolRank(a.HighInc()), boolRank(b.HighInc()))
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Compare is the total order over intervals used for sorted enumeration:
// lexicographic on (low, ¬lowInc, high, highInc).
func Compare[T cmp.Ordered, I Interval[T]](a, b I) int {
	if c := CompareLow[T, I](a, b); c != 0 {
		return c
	}
	return CompareHigh[T, I](a, b)
}

// CompareReversed is Compare with both components' sign flipped; it is
// the order used by SortedBackwards.
func CompareReversed[T cmp.Ordered, I Interval[T]](a, b I) int {
	return -Compare[T, I](a, b)
}

// CompareLowHigh compares a's low endpoint against b's high endpoint,
// honoring inclusion: used to test whether a starts at or before the
// point where b ends.
func CompareLowHigh[T cmp.Ordered, I Interval[T]](a, b I) int {
	if c := cmp.Compare(a.Low(), b.High()); c != 0 {
		return c
	}
	// Equal endpoint values: the comparison is strict (a.low excluded
	// from b.high's value) unless both sides include that value.
	if a.LowInc() && b.HighInc() {
		return 0
	}
	return 1
}

// CompareHighLow compares a's high endpoint against b's low endpoint;
// it is the mirror of CompareLowHigh.
func CompareHighLow[T cmp.Ordered, I Interval[T]](a, b I) int {
	return -CompareLowHigh[T, I](b, a)
}

// Overlaps reports whether a and b share at least one point.
func Overlaps[T cmp.Ordered, I Interval[T]](a, b I) bool {
	return CompareLowHigh[T, I](a, b) <= 0 && CompareLowHigh[T, I](b, a) <= 0
}

// OverlapsPoint reports whether p falls within a, honoring inclusion.
func OverlapsPoint[T cmp.Ordered, I Interval[T]](a I, p T) bool {
	loOK := cmp.Compare(a.Low(), p) < 0 || (cmp.Compare(a.Low(), p) == 0 && a.LowInc())
	hiOK := cmp.Compare(p, a.High()) < 0 || (cmp.Compare(p, a.High()) == 0 && a.HighInc())
	return loOK && hiOK
}

// Contains reports whether a contains b (non-strict: equal intervals
// contain each other).
func Contains[T cmp.Ordered, I Interval[T]](a, b I) bool {
	return CompareLow[T, I](a, b) <= 0 && CompareHigh[T, I](a, b) >= 0
}

// StrictlyContains reports whether a contains b and the two are not
// equal on either side: a properly contains b.
func StrictlyContains[T cmp.Ordered, I Interval[T]](a, b I) bool {
	return CompareLow[T, I](a, b) < 0 && CompareHigh[T, I](a, b) > 0
}

// Equals reports structural equality: all four fields match. This is
// distinct from reference identity, which governs collection membership.
func Equals[T cmp.Ordered, I Interval[T]](a, b I) bool {
	return a.Low() == b.Low() && a.High() == b.High() && a.LowInc() == b.LowInc() && a.HighInc() == b.HighInc()
}

// Relation is one of Allen's thirteen qualitative relations between two
// intervals.
type Relation int

const (
	Before Relation = iota
	Meets
	OverlapsRel
	Starts
	During
	Finishes
	RelEquals
	FinishedBy
	ContainsRel
	StartedBy
	OverlappedBy
	MetBy
	After
)

var relationNames = [...]string{
	Before:       "Before",
	Meets:        "Meets",
	OverlapsRel:  "Overlaps",
	Starts:       "Starts",
	During:       "During",
	Finishes:     "Finishes",
	RelEquals:    "Equals",
	FinishedBy:   "FinishedBy",
	ContainsRel:  "Contains",
	StartedBy:    "StartedBy",
	OverlappedBy: "OverlappedBy",
	MetBy:        "MetBy",
	After:        "After",
}

func (r Relation) String() string {
	if int(r) >= 0 && int(r) < len(relationNames) {
		return relationNames[r]
	}
	return "Unknown"
}

// RelationOf classifies the relationship of a to b as one of Allen's
// thirteen basic relations, following the ll/rr/lr/rl sign-vector
// method: ll compares the two low endpoints, rr the two highs, lr a's
// low against b's high, rl a's high against b's low. ll and rr are
// inclusion-aware (via CompareLow/CompareHigh), since they must break
// ties between e.g. "starts" and "started by" on equal endpoint values.
// lr and rl are inclusion-aware too: when a.High() == b.Low() (or
// a.Low() == b.High()) and both sides include that shared value, the
// intervals overlap at a point rather than merely touching, so
// classification falls through to the ll/rr overlap cases instead of
// returning Meets/MetBy; Meets/MetBy apply only when at most one side
// includes the shared boundary.
func RelationOf[T cmp.Ordered, I Interval[T]](a, b I) Relation {
	ll := CompareLow[T, I](a, b)
	rr := CompareHigh[T, I](a, b)
	lr := cmp.Compare(a.Low(), b.High())
	rl := cmp.Compare(a.High(), b.Low())

	switch {
	case rl < 0:
		return Before
	case rl == 0 && !(a.HighInc() && b.LowInc()):
		return Meets
	case lr > 0:
		return After
	case lr == 0 && !(a.LowInc() && b.HighInc()):
		return MetBy
	case ll < 0 && rr < 0:
		return OverlapsRel
	case ll < 0 && rr == 0:
		return FinishedBy
	case ll < 0 && rr > 0:
		return ContainsRel
	case ll == 0 && rr < 0:
		return Starts
	case ll == 0 && rr == 0:
		return RelEquals
	case ll == 0 && rr > 0:
		return StartedBy
	case ll > 0 && rr < 0:
		return During
	case ll > 0 && rr == 0:
		return Finishes
	default: // ll > 0 && rr > 0
		return OverlappedBy
	}
}

// Span returns the smallest interval containing every interval in items:
// the tightest low (inclusion OR-combined among ties), the tightest
// high (inclusion OR-combined among ties). Span fails on an empty slice.
func Span[T cmp.Ordered, I Interval[T]](items []I) (*Endpoints[T], error) {
	const op = "interval.Span"
	if len(items) == 0 {
		return nil, ivlerr.E(ivlerr.EmptyCollection, op, nil)
	}
	low, high := items[0].Low(), items[0].High()
	lowInc, highInc := items[0].LowInc(), items[0].HighInc()
	for _, it := range items[1:] {
		switch {
		case cmp.Compare(it.Low(), low) < 0:
			low, lowInc = it.Low(), it.LowInc()
		case it.Low() == low:
			lowInc = lowInc || it.LowInc()
		}
		switch {
		case cmp.Compare(it.High(), high) > 0:
			high, highInc = it.High(), it.HighInc()
		case it.High() == high:
			highInc = highInc || it.HighInc()
		}
	}
	return &Endpoints[T]{low: low, high: high, lowInc: lowInc, highInc: highInc}, nil
}
