// Package topo provides the spatial topologies flow routing runs over: a
// directed-acyclic node graph and a D8 flow-direction grid. Both reduce to
// the same contract: a topologically safe node order and an aggregation of
// per-node outflow into per-node inflow.
package topo

import "fmt"

// Topology is a resolved spatial network of nodes.
type Topology interface {
	// N reports the number of nodes.
	N() int
	// Order lists node indices upstream-before-downstream. Resolved once
	// at construction and followed deterministically every timestep.
	Order() []int
	// Upstream lists the direct predecessors of node v.
	Upstream(v int) []int
	// Downstream lists the direct successors of node v; empty at outlets.
	Downstream(v int) []int
	// Aggregate sets in[v] to the sum of out[u] over every direct
	// predecessor u of v. len(out) and len(in) must equal N.
	Aggregate(out, in []float64)
}

// kahn returns a stable topological order given per-node successor lists,
// or an error naming a node on a cycle.
func kahn(n int, down func(int) []int) ([]int, error) {
	nin := make([]int, n)
	for u := 0; u < n; u++ {
		for _, v := range down(u) {
			nin[v]++
		}
	}
	order := make([]int, 0, n)
	queue := make([]int, 0, n)
	for u := 0; u < n; u++ { // stable: seed in index order
		if nin[u] == 0 {
			queue = append(queue, u)
		}
	}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		order = append(order, u)
		for _, v := range down(u) {
			if nin[v]--; nin[v] == 0 {
				queue = append(queue, v)
			}
		}
	}
	if len(order) != n {
		for u := 0; u < n; u++ {
			if nin[u] > 0 {
				return nil, fmt.Errorf(" topo: cycle detected at node %d", u)
			}
		}
	}
	return order, nil
}
