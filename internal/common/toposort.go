package common

import (
	"errors"
	"fmt"
	"slices"
)

// ErrCycle is returned by TopoSort when the dependency graph has a cycle.
var ErrCycle = errors.New("dependency cycle")

// TopoSort returns node indices [0, n) in execution order; deps(i) yields the
// indices that must come before i. Among available nodes the smallest index
// is picked first, so the order is deterministic.
func TopoSort(n int, deps func(i int) []int) ([]int, error) {
	if n <= 0 {
		return nil, nil
	}

	indeg := make([]int, n)
	out := make([][]int, n)

	for i := range n {
		for _, d := range deps(i) {
			if d < 0 || d >= n {
				return nil, fmt.Errorf("dependency index out of range: %d depends on %d", i, d)
			}

			indeg[i]++
			out[d] = append(out[d], i)
		}
	}

	var ready []int

	for i := range n {
		if indeg[i] == 0 {
			ready = append(ready, i)
		}
	}

	order := make([]int, 0, n)

	for len(ready) > 0 {
		i := ready[0]
		ready = ready[1:]
		order = append(order, i)

		for _, j := range out[i] {
			indeg[j]--
			if indeg[j] == 0 {
				k, _ := slices.BinarySearch(ready, j)
				ready = slices.Insert(ready, k, j)
			}
		}
	}

	if len(order) != n {
		return nil, fmt.Errorf("%w among %d nodes", ErrCycle, n-len(order))
	}

	return order, nil
}
