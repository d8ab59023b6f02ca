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

// Package intervaltest is a test-only harness shared by every index
// package's own tests: a gofuzz-based random interval generator and a
// set of universal-invariant checks (span containment, maximumDepth
// cross-checked against a reference sweep, findOverlaps/countOverlaps/
// findOverlap agreement, gap well-formedness) parameterized over any
// collection.Collection, following the same fuzz.New().Funcs(...)
// random-struct-generation idiom grailbio-base's errors package uses
// for its own round-trip fuzz test.
package intervaltest

import (
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"

	"github.com/arborix/intervalstore/collection"
	"github.com/arborix/intervalstore/interval"
	"github.com/arborix/intervalstore/sweep"
)

type rawInterval struct {
	low, high       int
	lowInc, highInc bool
}

// RandomIntervals returns n intervals fuzzed over the domain [0,maxCoord),
// deterministically reproducible from seed. Draws interval.New rejects
// (an empty, excluded-on-both-ends degenerate point) are retried so the
// caller always gets exactly n.
func RandomIntervals(n, maxCoord int, seed int64) []*interval.Endpoints[int] {
	if maxCoord < 1 {
		maxCoord = 1
	}
	fz := fuzz.NewWithSeed(seed).NilChance(0).Funcs(
		func(r *rawInterval, c fuzz.Continue) {
			r.low = c.Intn(maxCoord)
			r.high = r.low + c.Intn(maxCoord/4+1)
			r.lowInc = c.RandBool()
			if r.low == r.high {
				r.highInc = r.lowInc
			} else {
				r.highInc = c.RandBool()
			}
		},
	)
	out := make([]*interval.Endpoints[int], 0, n)
	for len(out) < n {
		var r rawInterval
		fz.Fuzz(&r)
		iv, err := interval.New(r.low, r.high, r.lowInc, r.highInc)
		if err != nil {
			continue
		}
		out = append(out, iv)
	}
	return out
}

// refOverlaps filters stored by reference, returning every element
// overlapping q; it is the ground truth findOverlaps is checked against.
func refOverlaps(stored []*interval.Endpoints[int], q *interval.Endpoints[int]) []*interval.Endpoints[int] {
	var out []*interval.Endpoints[int]
	for _, x := range stored {
		if interval.Overlaps[int, *interval.Endpoints[int]](x, q) {
			out = append(out, x)
		}
	}
	return out
}

// assertSameMultiset compares want and got as multisets of references
// (not structural values), since two distinct reference-duplicate
// intervals with identical endpoints must not be conflated.
func assertSameMultiset(t *testing.T, want, got []*interval.Endpoints[int]) {
	t.Helper()
	assert.Equal(t, len(want), len(got))
	counts := make(map[*interval.Endpoints[int]]int, len(want))
	for _, w := range want {
		counts[w]++
	}
	for _, g := range got {
		counts[g]--
	}
	for ref, c := range counts {
		assert.Zerof(t, c, "reference %v count mismatch between expected and actual results", ref)
	}
}

// CheckUniversalInvariants verifies properties 1-6 and 10 from the
// testable-properties list against coll, given stored as the ground
// truth of what coll currently holds (by reference). It is meant to be
// called after every mutation in a property-style test.
func CheckUniversalInvariants(t *testing.T, coll collection.Collection[int, *interval.Endpoints[int]], stored []*interval.Endpoints[int]) {
	t.Helper()

	assert.Equal(t, len(stored), coll.Count())

	if len(stored) == 0 {
		assert.True(t, coll.IsEmpty())
		_, err := coll.Span()
		assert.Error(t, err)
		_, err = coll.Choose()
		assert.Error(t, err)
		return
	}

	span, err := coll.Span()
	if !assert.NoError(t, err) {
		return
	}
	for _, x := range stored {
		assert.Truef(t, interval.Contains[int, *interval.Endpoints[int]](span, x), "span %v must contain stored interval %v", span, x)
	}

	assert.Equal(t, sweep.MaxDepth[int](stored), coll.MaximumDepth())

	for _, q := range stored {
		want := refOverlaps(stored, q)
		got := coll.FindOverlaps(q)
		assertSameMultiset(t, want, got)
		assert.Equal(t, len(want), coll.CountOverlaps(q))

		found, ok := coll.FindOverlap(q)
		assert.Equal(t, len(want) > 0, ok)
		if ok {
			assert.True(t, interval.Overlaps[int, *interval.Endpoints[int]](found, q))
		}
	}

	CheckGaps(t, coll.Gaps(), stored, span)
}

// CheckGaps verifies property 10: every gap is contained in span,
// disjoint from every stored interval, and strictly before the gap that
// follows it. It does not check that a gap meets, or is met by, a
// stored interval.
func CheckGaps(t *testing.T, gaps []*interval.Endpoints[int], stored []*interval.Endpoints[int], span *interval.Endpoints[int]) {
	t.Helper()
	for i, g := range gaps {
		if span != nil {
			assert.Truef(t, interval.Contains[int, *interval.Endpoints[int]](span, g), "gap %v must be contained in span %v", g, span)
		}
		for _, x := range stored {
			assert.Falsef(t, interval.Overlaps[int, *interval.Endpoints[int]](g, x), "gap %v must be disjoint from stored interval %v", g, x)
		}
		if i > 0 {
			assert.Truef(t, interval.RelationOf[int, *interval.Endpoints[int]](gaps[i-1], g) == interval.Before,
				"gaps must be strictly ordered and non-overlapping")
		}
	}
}

// CheckCapabilityInvariants verifies property 12: the shape constraints
// a collection's own advertised Capabilities impose on what it holds.
func CheckCapabilityInvariants(t *testing.T, caps collection.Capabilities, stored []*interval.Endpoints[int]) {
	t.Helper()
	for i := range stored {
		for j := range stored {
			if i == j {
				continue
			}
			if !caps.AllowsOverlaps {
				assert.Falsef(t, interval.Overlaps[int, *interval.Endpoints[int]](stored[i], stored[j]),
					"overlap-free collection must not hold overlapping intervals %v, %v", stored[i], stored[j])
			}
			if !caps.AllowsContainments {
				assert.Falsef(t, interval.StrictlyContains[int, *interval.Endpoints[int]](stored[i], stored[j]),
					"containment-free collection must not hold %v strictly containing %v", stored[i], stored[j])
			}
			if !caps.AllowsReferenceDuplicates {
				assert.NotSamef(t, stored[i], stored[j], "collection forbidding reference duplicates holds %v twice", stored[i])
			}
		}
	}
}
