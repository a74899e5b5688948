package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopoSortChain(t *testing.T) {
	order, err := TopoSort(3, func(i int) []int {
		if i == 0 {
			return nil
		}

		return []int{i - 1}
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, order)
}

func TestTopoSortPrefersSmallestIndex(t *testing.T) {
	// 0 depends on 2; 1 is free.
	order, err := TopoSort(3, func(i int) []int {
		if i == 0 {
			return []int{2}
		}

		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 0}, order)
}

func TestTopoSortCycle(t *testing.T) {
	_, err := TopoSort(2, func(i int) []int {
		return []int{1 - i}
	})
	require.ErrorIs(t, err, ErrCycle)
}

func TestTopoSortOutOfRange(t *testing.T) {
	_, err := TopoSort(1, func(int) []int { return []int{3} })
	require.Error(t, err)
}

func TestTopoSortEmpty(t *testing.T) {
	order, err := TopoSort(0, nil)
	require.NoError(t, err)
	assert.Nil(t, order)
}
