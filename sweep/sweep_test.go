package sweep_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arborix/intervalstore/interval"
	"github.com/arborix/intervalstore/sweep"
)

func iv(t *testing.T, low, high int, lowInc, highInc bool) *interval.Endpoints[int] {
	t.Helper()
	e, err := interval.New(low, high, lowInc, highInc)
	require.NoError(t, err)
	return e
}

func TestMaxDepthScenarioS1(t *testing.T) {
	items := []*interval.Endpoints[int]{
		iv(t, 1, 3, true, true),
		iv(t, 5, 7, false, false),
	}
	assert.Equal(t, 1, sweep.MaxDepth[int, *interval.Endpoints[int]](items))
}

func TestMaxDepthOpenStartsJustAfterClosedEnd(t *testing.T) {
	// B=[0,3] closed, A=(0,5] open-low: depth(0)=1, depth(0..3)=2.
	a := iv(t, 0, 5, false, true)
	b := iv(t, 0, 3, true, true)
	assert.Equal(t, 2, sweep.MaxDepth[int, *interval.Endpoints[int]]([]*interval.Endpoints[int]{a, b}))
}

func TestMaxDepthEmpty(t *testing.T) {
	assert.Equal(t, 0, sweep.MaxDepth[int, *interval.Endpoints[int]](nil))
}

func TestMaxDepthLadder(t *testing.T) {
	// {[k,20-k] : 0<=k<=9} all share point 10: depth 10.
	var items []*interval.Endpoints[int]
	for k := 0; k <= 9; k++ {
		items = append(items, iv(t, k, 20-k, true, true))
	}
	assert.Equal(t, 10, sweep.MaxDepth[int, *interval.Endpoints[int]](items))
}

func TestEndpointsDeduplicatesAndSorts(t *testing.T) {
	items := []*interval.Endpoints[int]{
		iv(t, 5, 10, true, true),
		iv(t, 1, 5, true, true),
	}
	got := sweep.Endpoints[int, *interval.Endpoints[int]](items)
	assert.Equal(t, []int{1, 5, 10}, got)
}

func TestStableSortPreservesTieOrder(t *testing.T) {
	a := iv(t, 0, 5, true, true)
	b := iv(t, 0, 5, true, true)
	c := iv(t, 0, 5, true, true)
	items := []*interval.Endpoints[int]{a, b, c}
	sweep.StableSort[int, *interval.Endpoints[int]](items)
	assert.Same(t, a, items[0])
	assert.Same(t, b, items[1])
	assert.Same(t, c, items[2])
}
