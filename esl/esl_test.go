package esl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arborix/intervalstore/esl"
	"github.com/arborix/intervalstore/interval"
	"github.com/arborix/intervalstore/intervaltest"
)

func iv(t *testing.T, low, high int, lowInc, highInc bool) *interval.Endpoints[int] {
	t.Helper()
	e, err := interval.New(low, high, lowInc, highInc)
	require.NoError(t, err)
	return e
}

func TestNewSortsOnConstruction(t *testing.T) {
	items := []*interval.Endpoints[int]{
		iv(t, 10, 20, true, false),
		iv(t, 1, 5, true, false),
		iv(t, 5, 10, true, false),
	}
	l := esl.New[int](items, false)
	got := make([]int, 0, 3)
	l.Do(func(it *interval.Endpoints[int]) bool {
		got = append(got, it.Low())
		return false
	})
	assert.Equal(t, []int{1, 5, 10}, got)
}

func TestAddMaintainsSortOrder(t *testing.T) {
	l := esl.New[int]([]*interval.Endpoints[int]{}, false)
	a := iv(t, 5, 10, true, false)
	b := iv(t, 1, 3, true, false)
	c := iv(t, 3, 5, true, false)
	for _, x := range []*interval.Endpoints[int]{a, b, c} {
		ok, err := l.Add(x)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	assert.Equal(t, 3, l.Count())
	assert.Same(t, b, l.At(0))
	assert.Same(t, c, l.At(1))
	assert.Same(t, a, l.At(2))
}

func TestAddRejectedWhenReadOnly(t *testing.T) {
	l := esl.New[int]([]*interval.Endpoints[int]{}, true)
	_, err := l.Add(iv(t, 1, 2, true, false))
	assert.Error(t, err)
}

func TestFindLocatesByTotalOrder(t *testing.T) {
	a := iv(t, 1, 3, true, false)
	b := iv(t, 3, 5, true, false)
	l := esl.New[int]([]*interval.Endpoints[int]{a, b}, false)

	idx := l.Find(a)
	assert.Equal(t, 0, idx)

	missing := iv(t, 100, 200, true, false)
	idx = l.Find(missing)
	assert.Less(t, idx, 0)
}

func TestIndexOfUsesReferenceIdentity(t *testing.T) {
	a := iv(t, 1, 3, true, false)
	dup := iv(t, 1, 3, true, false)
	l := esl.New[int]([]*interval.Endpoints[int]{a, dup}, false)

	assert.GreaterOrEqual(t, l.IndexOf(a), 0)
	assert.GreaterOrEqual(t, l.IndexOf(dup), 0)
	assert.NotEqual(t, l.IndexOf(a), l.IndexOf(dup))
}

func TestRemoveByReference(t *testing.T) {
	a := iv(t, 1, 3, true, false)
	b := iv(t, 1, 3, true, false)
	l := esl.New[int]([]*interval.Endpoints[int]{a, b}, false)

	ok, err := l.Remove(a)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, l.Count())
	assert.Same(t, b, l.At(0))
}

func TestFindOverlapsAndCountOverlaps(t *testing.T) {
	items := []*interval.Endpoints[int]{
		iv(t, 0, 5, true, false),
		iv(t, 3, 8, true, false),
		iv(t, 10, 15, true, false),
	}
	l := esl.New[int](items, false)

	query := iv(t, 4, 11, true, false)
	hits := l.FindOverlaps(query)
	assert.Len(t, hits, 3)
	assert.Equal(t, 3, l.CountOverlaps(query))
}

func TestEnumerateFromIndexAndBackwards(t *testing.T) {
	items := []*interval.Endpoints[int]{
		iv(t, 0, 1, true, false),
		iv(t, 1, 2, true, false),
		iv(t, 2, 3, true, false),
	}
	l := esl.New[int](items, false)

	seq := l.EnumerateFromIndex(1)
	var got []int
	for v, ok := seq.Next(); ok; v, ok = seq.Next() {
		got = append(got, v.Low())
	}
	assert.Equal(t, []int{1, 2}, got)

	seq = l.EnumerateBackwardsFromIndex(1)
	got = nil
	for v, ok := seq.Next(); ok; v, ok = seq.Next() {
		got = append(got, v.Low())
	}
	assert.Equal(t, []int{1, 0}, got)
}

func TestMaximumDepthMatchesSweep(t *testing.T) {
	items := []*interval.Endpoints[int]{
		iv(t, 1, 3, true, false),
		iv(t, 2, 4, true, false),
		iv(t, 2, 4, true, false),
	}
	l := esl.New[int](items, false)
	assert.Equal(t, 3, l.MaximumDepth())
}

func TestClearEmptiesList(t *testing.T) {
	l := esl.New[int]([]*interval.Endpoints[int]{iv(t, 1, 2, true, false)}, false)
	require.NoError(t, l.Clear())
	assert.True(t, l.IsEmpty())
	_, err := l.Choose()
	assert.Error(t, err)
}

func TestUniversalInvariantsOverRandomIntervals(t *testing.T) {
	items := intervaltest.RandomIntervals(40, 50, 1)
	l := esl.New[int](items, false)
	intervaltest.CheckUniversalInvariants(t, l, items)
}
