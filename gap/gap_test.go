package gap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arborix/intervalstore/dlfit"
	"github.com/arborix/intervalstore/esl"
	"github.com/arborix/intervalstore/gap"
	"github.com/arborix/intervalstore/interval"
)

func iv(t *testing.T, low, high int, lowInc, highInc bool) *interval.Endpoints[int] {
	t.Helper()
	e, err := interval.New(low, high, lowInc, highInc)
	require.NoError(t, err)
	return e
}

func TestGapsOverESL(t *testing.T) {
	items := []*interval.Endpoints[int]{
		iv(t, 0, 10, true, false),
		iv(t, 20, 30, true, false),
		iv(t, 40, 50, true, false),
	}
	l := esl.New[int, *interval.Endpoints[int]](items, false)

	gaps := gap.Gaps[int, *interval.Endpoints[int]](l)
	require.Len(t, gaps, 2)
	assert.Equal(t, 10, gaps[0].Low())
	assert.Equal(t, 20, gaps[0].High())
	assert.Equal(t, 30, gaps[1].Low())
	assert.Equal(t, 40, gaps[1].High())

	restricted := gap.FindGaps[int, *interval.Endpoints[int]](l, iv(t, 15, 45, true, false))
	require.Len(t, restricted, 2)
}

func TestGapsMatchNativeESLGaps(t *testing.T) {
	items := []*interval.Endpoints[int]{
		iv(t, 0, 30, true, false),
		iv(t, 20, 40, true, false),
		iv(t, 50, 60, true, false),
	}
	l := esl.New[int, *interval.Endpoints[int]](items, false)

	want := l.Gaps()
	got := gap.Gaps[int, *interval.Endpoints[int]](l)
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Low(), got[i].Low())
		assert.Equal(t, want[i].High(), got[i].High())
	}
}

func TestNeighbourhoodOverDLFITMatchesNative(t *testing.T) {
	tr := dlfit.New[int, *interval.Endpoints[int]]()
	a := iv(t, 0, 10, true, false)
	b := iv(t, 20, 30, true, false)
	_, _ = tr.Add(a)
	_, _ = tr.Add(b)

	prev, overlap, next, hasPrev, hasOverlap, hasNext := gap.Neighbourhood[int, *interval.Endpoints[int]](tr, 15)
	wantPrev, wantOverlap, wantNext, wantHasPrev, wantHasOverlap, wantHasNext := tr.Neighbourhood(15)
	assert.Equal(t, wantHasPrev, hasPrev)
	assert.Equal(t, wantHasOverlap, hasOverlap)
	assert.Equal(t, wantHasNext, hasNext)
	if hasPrev {
		assert.Same(t, wantPrev, prev)
	}
	if hasOverlap {
		assert.Same(t, wantOverlap, overlap)
	}
	if hasNext {
		assert.Same(t, wantNext, next)
	}
}

func TestNeighbourhoodOverDLFITAtCoveredPoint(t *testing.T) {
	tr := dlfit.New[int, *interval.Endpoints[int]]()
	a := iv(t, 0, 10, true, false)
	b := iv(t, 20, 30, true, false)
	c := iv(t, 40, 50, true, false)
	_, _ = tr.Add(a)
	_, _ = tr.Add(b)
	_, _ = tr.Add(c)

	prev, overlap, next, hasPrev, hasOverlap, hasNext := gap.Neighbourhood[int, *interval.Endpoints[int]](tr, 25)
	require.True(t, hasOverlap)
	assert.Same(t, b, overlap)
	require.True(t, hasPrev)
	assert.Same(t, a, prev)
	require.True(t, hasNext)
	assert.Same(t, c, next)
}

func TestGapsEmptyCollectionYieldsNoGaps(t *testing.T) {
	l := esl.New[int, *interval.Endpoints[int]](nil, false)
	gaps := gap.Gaps[int, *interval.Endpoints[int]](l)
	assert.Empty(t, gaps)
}
