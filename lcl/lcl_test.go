package lcl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arborix/intervalstore/interval"
	"github.com/arborix/intervalstore/intervaltest"
	"github.com/arborix/intervalstore/lcl"
)

func iv(t *testing.T, low, high int, lowInc, highInc bool) *interval.Endpoints[int] {
	t.Helper()
	e, err := interval.New(low, high, lowInc, highInc)
	require.NoError(t, err)
	return e
}

func TestBuildLayersByNesting(t *testing.T) {
	outer := iv(t, 0, 100, true, false)
	innerA := iv(t, 10, 20, true, false)
	innerB := iv(t, 30, 40, true, false)
	deepest := iv(t, 12, 18, true, false)

	l := lcl.Build[int]([]*interval.Endpoints[int]{outer, innerA, innerB, deepest})
	assert.Equal(t, 4, l.Count())
}

func TestStabbingFindsAllContainingIntervals(t *testing.T) {
	outer := iv(t, 0, 100, true, false)
	mid := iv(t, 10, 50, true, false)
	inner := iv(t, 20, 30, true, false)

	l := lcl.Build[int]([]*interval.Endpoints[int]{outer, mid, inner})

	hits := l.FindOverlapsPoint(25)
	assert.Len(t, hits, 3)

	hits = l.FindOverlapsPoint(5)
	assert.Len(t, hits, 1)

	hits = l.FindOverlapsPoint(200)
	assert.Empty(t, hits)
}

func TestFindOverlapsRangeQuery(t *testing.T) {
	items := []*interval.Endpoints[int]{
		iv(t, 0, 10, true, false),
		iv(t, 5, 15, true, false),
		iv(t, 20, 30, true, false),
	}
	l := lcl.Build[int](items)

	hits := l.FindOverlaps(iv(t, 8, 22, true, false))
	assert.Len(t, hits, 3)
}

func TestReadOnlyRejectsMutation(t *testing.T) {
	l := lcl.Build[int]([]*interval.Endpoints[int]{iv(t, 0, 10, true, false)})
	_, err := l.Add(iv(t, 20, 30, true, false))
	assert.Error(t, err)
	_, err = l.Remove(iv(t, 0, 10, true, false))
	assert.Error(t, err)
}

func TestGapsBetweenDisjointGroups(t *testing.T) {
	items := []*interval.Endpoints[int]{
		iv(t, 0, 10, true, false),
		iv(t, 5, 12, true, false),
		iv(t, 30, 40, true, false),
	}
	l := lcl.Build[int](items)
	gaps := l.Gaps()
	require.Len(t, gaps, 1)
	assert.Equal(t, 12, gaps[0].Low())
	assert.Equal(t, 30, gaps[0].High())
}

func TestCapabilitiesReadOnlyPermissive(t *testing.T) {
	l := lcl.Build[int]([]*interval.Endpoints[int]{})
	caps := l.Capabilities()
	assert.True(t, caps.ReadOnly)
	assert.True(t, caps.AllowsContainments)
	assert.True(t, caps.AllowsOverlaps)
	assert.True(t, caps.AllowsReferenceDuplicates)
}

func TestUniversalInvariantsOverRandomIntervals(t *testing.T) {
	items := intervaltest.RandomIntervals(40, 50, 4)
	l := lcl.Build[int](items)
	intervaltest.CheckUniversalInvariants(t, l, items)
}
