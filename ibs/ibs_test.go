package ibs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arborix/intervalstore/ibs"
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

func TestInsertAndStabbing(t *testing.T) {
	tr := ibs.New[int, *interval.Endpoints[int]]()
	a := iv(t, 0, 10, true, false)
	b := iv(t, 5, 15, true, false)
	c := iv(t, 20, 30, true, false)
	tr.Insert(a)
	tr.Insert(b)
	tr.Insert(c)

	hits := tr.Stabbing(7)
	assert.Len(t, hits, 2)

	hits = tr.Stabbing(25)
	assert.Len(t, hits, 1)

	hits = tr.Stabbing(100)
	assert.Empty(t, hits)
}

// TestStabbingSingleIntervalNoInteriorKey guards against a single
// closed interval with no other stored endpoint between its own
// endpoints: a stab strictly between low and high must still find it
// even though no node key falls in the interior.
func TestStabbingSingleIntervalNoInteriorKey(t *testing.T) {
	tr := ibs.New[int, *interval.Endpoints[int]]()
	a := iv(t, 1, 3, true, true)
	tr.Insert(a)

	hits := tr.Stabbing(2)
	require.Len(t, hits, 1)
	assert.Same(t, a, hits[0])

	hits = tr.Stabbing(1)
	require.Len(t, hits, 1)
	assert.Same(t, a, hits[0])

	hits = tr.Stabbing(3)
	require.Len(t, hits, 1)
	assert.Same(t, a, hits[0])

	assert.Empty(t, tr.Stabbing(0))
	assert.Empty(t, tr.Stabbing(4))
}

func TestRangeOverlapsAndContainments(t *testing.T) {
	tr := ibs.New[int, *interval.Endpoints[int]]()
	outer := iv(t, 0, 100, true, false)
	inner := iv(t, 10, 20, true, false)
	disjoint := iv(t, 200, 300, true, false)
	tr.Insert(outer)
	tr.Insert(inner)
	tr.Insert(disjoint)

	hits := tr.Range(iv(t, 5, 15, true, false))
	assert.Len(t, hits, 2)
}

func TestAllowsDuplicatesByReference(t *testing.T) {
	tr := ibs.New[int, *interval.Endpoints[int]]()
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

func TestRemoveDropsReferenceOnly(t *testing.T) {
	tr := ibs.New[int, *interval.Endpoints[int]]()
	a := iv(t, 1, 5, true, false)
	b := iv(t, 1, 5, true, false)
	_, _ = tr.Add(a)
	_, _ = tr.Add(b)

	ok, err := tr.Remove(a)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, tr.Count())

	hits := tr.Stabbing(3)
	require.Len(t, hits, 1)
	assert.Same(t, b, hits[0])
}

func TestMaximumDepthCrossCheckedAgainstSweep(t *testing.T) {
	tr := ibs.New[int, *interval.Endpoints[int]]()
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

func TestGapsBetweenDisjointRanges(t *testing.T) {
	tr := ibs.New[int, *interval.Endpoints[int]]()
	_, _ = tr.Add(iv(t, 0, 10, true, false))
	_, _ = tr.Add(iv(t, 20, 30, true, false))

	gaps := tr.Gaps()
	require.Len(t, gaps, 1)
	assert.Equal(t, 10, gaps[0].Low())
	assert.Equal(t, 20, gaps[0].High())
}

func TestClearEmptiesTree(t *testing.T) {
	tr := ibs.New[int, *interval.Endpoints[int]]()
	_, _ = tr.Add(iv(t, 0, 10, true, false))
	require.NoError(t, tr.Clear())
	assert.True(t, tr.IsEmpty())
}

func TestUniversalInvariantsOverRandomIntervals(t *testing.T) {
	tr := ibs.New[int, *interval.Endpoints[int]]()
	items := intervaltest.RandomIntervals(40, 50, 2)
	for _, it := range items {
		_, _ = tr.Add(it)
	}
	intervaltest.CheckUniversalInvariants(t, tr, items)
}
