package topo

import "fmt"

// Graph is a directed acyclic network over node indices, stored in
// compressed sparse row form over predecessors so Aggregate is the sparse
// product adjacencyᵀ·outflow. Construction fails on out-of-range edges,
// self loops and cycles; never per-timestep.
type Graph struct {
	n      int
	order  []int
	uptr   []int // CSR row pointers into uidx, len n+1
	uidx   []int // predecessor node indices
	dn     [][]int
}

// NewGraph builds a graph of n nodes from (from, to) edge pairs.
func NewGraph(n int, edges [][2]int) (*Graph, error) {
	dn := make([][]int, n)
	up := make([][]int, n)
	for _, e := range edges {
		u, v := e[0], e[1]
		if u < 0 || u >= n || v < 0 || v >= n {
			return nil, fmt.Errorf(" topo.NewGraph: edge (%d,%d) out of range, n=%d", u, v, n)
		}
		if u == v {
			return nil, fmt.Errorf(" topo.NewGraph: self loop at node %d", u)
		}
		dn[u] = append(dn[u], v)
		up[v] = append(up[v], u)
	}
	order, err := kahn(n, func(u int) []int { return dn[u] })
	if err != nil {
		return nil, err
	}
	uptr := make([]int, n+1)
	for v := 0; v < n; v++ {
		uptr[v+1] = uptr[v] + len(up[v])
	}
	uidx := make([]int, uptr[n])
	for v := 0; v < n; v++ {
		copy(uidx[uptr[v]:], up[v])
	}
	return &Graph{n: n, order: order, uptr: uptr, uidx: uidx, dn: dn}, nil
}

// NewChain builds the linear topology 0→1→…→n-1.
func NewChain(n int) *Graph {
	edges := make([][2]int, n-1)
	for i := 0; i < n-1; i++ {
		edges[i] = [2]int{i, i + 1}
	}
	g, err := NewGraph(n, edges)
	if err != nil {
		panic(err) // a chain cannot cycle
	}
	return g
}

func (g *Graph) N() int       { return g.n }
func (g *Graph) Order() []int { return g.order }

func (g *Graph) Upstream(v int) []int   { return g.uidx[g.uptr[v]:g.uptr[v+1]] }
func (g *Graph) Downstream(v int) []int { return g.dn[v] }

func (g *Graph) Aggregate(out, in []float64) {
	for v := 0; v < g.n; v++ {
		s := 0.
		for _, u := range g.uidx[g.uptr[v]:g.uptr[v+1]] {
			s += out[u]
		}
		in[v] = s
	}
}
