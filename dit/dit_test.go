package dit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arborix/intervalstore/dit"
	"github.com/arborix/intervalstore/interval"
	"github.com/arborix/intervalstore/intervaltest"
	"github.com/arborix/intervalstore/sweep"
)

func iv(t *testing.T, low, high int, lowInc, highInc bool) *interval.Endpoints[int] {
	t.Helper()
	e, err := interval.New(low, high, lowInc, highInc)
	require.NoError(t, err)
	return e
}

func TestAddAndFindOverlapsPoint(t *testing.T) {
	tr := dit.New[int, *interval.Endpoints[int]]()
	a := iv(t, 0, 10, true, false)
	b := iv(t, 5, 15, true, false)
	c := iv(t, 20, 30, true, false)
	_, _ = tr.Add(a)
	_, _ = tr.Add(b)
	_, _ = tr.Add(c)

	hits := tr.FindOverlapsPoint(7)
	assert.Len(t, hits, 2)

	hits = tr.FindOverlapsPoint(25)
	assert.Len(t, hits, 1)

	hits = tr.FindOverlapsPoint(100)
	assert.Empty(t, hits)
}

func TestFindOverlapsAndContainments(t *testing.T) {
	tr := dit.New[int, *interval.Endpoints[int]]()
	outer := iv(t, 0, 100, true, false)
	inner := iv(t, 10, 20, true, false)
	disjoint := iv(t, 200, 300, true, false)
	_, _ = tr.Add(outer)
	_, _ = tr.Add(inner)
	_, _ = tr.Add(disjoint)

	hits := tr.FindOverlaps(iv(t, 5, 15, true, false))
	assert.Len(t, hits, 2)

	assert.Equal(t, 2, tr.CountOverlaps(iv(t, 5, 15, true, false)))

	got, ok := tr.FindOverlap(iv(t, 250, 260, true, false))
	require.True(t, ok)
	assert.Same(t, disjoint, got)
}

func TestAllowsOverlapsContainmentsAndDuplicates(t *testing.T) {
	tr := dit.New[int, *interval.Endpoints[int]]()
	a := iv(t, 1, 5, true, false)
	b := iv(t, 1, 5, true, false)
	ok1, err := tr.Add(a)
	require.NoError(t, err)
	ok2, err := tr.Add(b)
	require.NoError(t, err)
	assert.True(t, ok1)
	assert.True(t, ok2)
	assert.Equal(t, 2, tr.Count())

	hits := tr.FindEquals(a)
	assert.Len(t, hits, 2)
}

func TestRemoveByReferenceWithDuplicateLows(t *testing.T) {
	tr := dit.New[int, *interval.Endpoints[int]]()
	a := iv(t, 1, 5, true, false)
	b := iv(t, 1, 5, true, false)
	c := iv(t, 1, 9, true, false)
	_, _ = tr.Add(a)
	_, _ = tr.Add(b)
	_, _ = tr.Add(c)
	require.Equal(t, 3, tr.Count())

	ok, err := tr.Remove(a)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, tr.Count())

	hits := tr.FindOverlapsPoint(1)
	require.Len(t, hits, 2)
	for _, h := range hits {
		assert.NotSame(t, a, h)
	}

	ok, err = tr.Remove(a)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 2, tr.Count())
}

// TestRemoveSameReferenceAddedTwice guards against Remove peeling off
// the wrong copy (or orphaning a node) when the identical reference was
// added more than once, as Capabilities.AllowsReferenceDuplicates
// permits.
func TestRemoveSameReferenceAddedTwice(t *testing.T) {
	tr := dit.New[int, *interval.Endpoints[int]]()
	a := iv(t, 1, 5, true, false)
	_, err := tr.Add(a)
	require.NoError(t, err)
	_, err = tr.Add(a)
	require.NoError(t, err)
	require.Equal(t, 2, tr.Count())

	ok, err := tr.Remove(a)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, tr.Count())

	hits := tr.FindEquals(a)
	require.Len(t, hits, 1)
	assert.Same(t, a, hits[0])

	ok, err = tr.Remove(a)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0, tr.Count())

	ok, err = tr.Remove(a)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMaximumDepthCrossCheckedAgainstSweep(t *testing.T) {
	tr := dit.New[int, *interval.Endpoints[int]]()
	items := []*interval.Endpoints[int]{
		iv(t, 1, 3, true, false),
		iv(t, 2, 4, true, false),
		iv(t, 2, 4, true, false),
	}
	for _, it := range items {
		_, _ = tr.Add(it)
	}
	want := sweep.MaxDepth[int](items)
	assert.Equal(t, want, tr.MaximumDepth())
}

func TestSpanAndLowestHighestInterval(t *testing.T) {
	tr := dit.New[int, *interval.Endpoints[int]]()
	_, _ = tr.Add(iv(t, 10, 20, true, false))
	_, _ = tr.Add(iv(t, 0, 5, true, false))
	_, _ = tr.Add(iv(t, 30, 40, true, false))

	span, err := tr.Span()
	require.NoError(t, err)
	assert.Equal(t, 0, span.Low())
	assert.Equal(t, 40, span.High())

	lo, err := tr.LowestInterval()
	require.NoError(t, err)
	assert.Equal(t, 0, lo.Low())

	hi, err := tr.HighestInterval()
	require.NoError(t, err)
	assert.Equal(t, 40, hi.High())
}

func TestGapsBetweenDisjointRanges(t *testing.T) {
	tr := dit.New[int, *interval.Endpoints[int]]()
	_, _ = tr.Add(iv(t, 0, 10, true, false))
	_, _ = tr.Add(iv(t, 20, 30, true, false))

	gaps := tr.Gaps()
	require.Len(t, gaps, 1)
	assert.Equal(t, 10, gaps[0].Low())
	assert.Equal(t, 20, gaps[0].High())
}

// TestWeldingGapsAcrossOverlappingAndAdjacentRuns exercises the welding
// scenario: welds and paint runs merge into four spans with three
// gaps between them.
func TestWeldingGapsAcrossOverlappingAndAdjacentRuns(t *testing.T) {
	tr := dit.New[int, *interval.Endpoints[int]]()
	welds := []*interval.Endpoints[int]{
		iv(t, 0, 30, true, false),
		iv(t, 50, 60, true, false),
		iv(t, 100, 150, true, false),
		iv(t, 200, 210, true, false),
	}
	paint := []*interval.Endpoints[int]{
		iv(t, 20, 40, true, false),
		iv(t, 60, 100, true, false),
		iv(t, 120, 130, true, false),
		iv(t, 160, 190, true, false),
	}
	for _, it := range welds {
		_, _ = tr.Add(it)
	}
	for _, it := range paint {
		_, _ = tr.Add(it)
	}

	gaps := tr.Gaps()
	require.Len(t, gaps, 3)
	assert.Equal(t, 40, gaps[0].Low())
	assert.Equal(t, 50, gaps[0].High())
	assert.Equal(t, 150, gaps[1].Low())
	assert.Equal(t, 160, gaps[1].High())
	assert.Equal(t, 190, gaps[2].Low())
	assert.Equal(t, 200, gaps[2].High())
}

func TestFindGapsRestrictsToQueryOverlap(t *testing.T) {
	tr := dit.New[int, *interval.Endpoints[int]]()
	_, _ = tr.Add(iv(t, 0, 10, true, false))
	_, _ = tr.Add(iv(t, 20, 30, true, false))
	_, _ = tr.Add(iv(t, 40, 50, true, false))

	gaps := tr.FindGaps(iv(t, 15, 45, true, false))
	require.Len(t, gaps, 2)
	assert.Equal(t, 10, gaps[0].Low())
	assert.Equal(t, 30, gaps[1].Low())
}

func TestSinglePointGapBetweenExclusiveEndpoints(t *testing.T) {
	tr := dit.New[int, *interval.Endpoints[int]]()
	_, _ = tr.Add(iv(t, 0, 10, true, false))
	_, _ = tr.Add(iv(t, 10, 20, false, false))

	gaps := tr.Gaps()
	require.Len(t, gaps, 1)
	assert.Equal(t, 10, gaps[0].Low())
	assert.Equal(t, 10, gaps[0].High())
	assert.True(t, gaps[0].LowInc())
	assert.True(t, gaps[0].HighInc())
}

func TestClearEmptiesTree(t *testing.T) {
	tr := dit.New[int, *interval.Endpoints[int]]()
	_, _ = tr.Add(iv(t, 0, 10, true, false))
	_, _ = tr.Add(iv(t, 20, 30, true, false))
	require.NoError(t, tr.Clear())
	assert.True(t, tr.IsEmpty())
	assert.Equal(t, 0, tr.Count())

	hits := tr.FindOverlapsPoint(5)
	assert.Empty(t, hits)
}

func TestUniversalInvariantsOverRandomIntervals(t *testing.T) {
	tr := dit.New[int, *interval.Endpoints[int]]()
	items := intervaltest.RandomIntervals(40, 50, 3)
	for _, it := range items {
		_, _ = tr.Add(it)
	}
	intervaltest.CheckUniversalInvariants(t, tr, items)
}

func TestDoVisitsEveryInterval(t *testing.T) {
	tr := dit.New[int, *interval.Endpoints[int]]()
	items := []*interval.Endpoints[int]{
		iv(t, 0, 10, true, false),
		iv(t, 5, 15, true, false),
		iv(t, 20, 30, true, false),
	}
	for _, it := range items {
		_, _ = tr.Add(it)
	}

	seen := 0
	tr.Do(func(*interval.Endpoints[int]) bool {
		seen++
		return false
	})
	assert.Equal(t, 3, seen)

	stoppedEarly := 0
	tr.Do(func(*interval.Endpoints[int]) bool {
		stoppedEarly++
		return true
	})
	assert.Equal(t, 1, stoppedEarly)
}
