package topo

import "fmt"

// D8 direction codes, clockwise from east. Code 0 marks an outlet (or an
// inactive cell); flow directed off the grid edge is also an outlet.
const (
	E uint8 = iota + 1
	SE
	S
	SW
	W
	NW
	N
	NE
)

var d8off = [9][2]int{{0, 0}, {0, 1}, {1, 1}, {1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1}}

// D8 is a flow-direction grid: every cell carries one of 8 direction codes
// pointing at the neighbour receiving its outflow. Nodes are the active
// cells taking part in a simulation; cell order in nodes fixes node indices.
type D8 struct {
	nrow, ncol int
	dir        []uint8
	nodes      []int
	xn         []int // cell index to node index, -1 inactive
	up, dn     [][]int
	order      []int
	gout, gin  []float64 // full-grid scratch, single caller at a time
}

// NewD8 resolves a flow-direction grid into a routed topology.
// dir is row-major, len nrow*ncol; nodes lists the active cell indices.
func NewD8(nrow, ncol int, dir []uint8, nodes []int) (*D8, error) {
	if len(dir) != nrow*ncol {
		return nil, fmt.Errorf(" topo.NewD8: dir length %d, expected %d", len(dir), nrow*ncol)
	}
	d := &D8{
		nrow: nrow, ncol: ncol,
		dir:   dir,
		nodes: nodes,
		xn:    make([]int, nrow*ncol),
		up:    make([][]int, len(nodes)),
		dn:    make([][]int, len(nodes)),
		gout:  make([]float64, nrow*ncol),
		gin:   make([]float64, nrow*ncol),
	}
	for i := range d.xn {
		d.xn[i] = -1
	}
	for i, c := range nodes {
		if c < 0 || c >= nrow*ncol {
			return nil, fmt.Errorf(" topo.NewD8: node cell %d out of range", c)
		}
		if d.xn[c] > -1 {
			return nil, fmt.Errorf(" topo.NewD8: cell %d listed twice", c)
		}
		d.xn[c] = i
	}
	for i, c := range nodes {
		if dir[c] > NE {
			return nil, fmt.Errorf(" topo.NewD8: cell %d has invalid direction code %d", c, dir[c])
		}
		dc := d.shift(c, dir[c])
		if dc < 0 {
			continue // outlet or farfield
		}
		if j := d.xn[dc]; j > -1 {
			d.dn[i] = append(d.dn[i], j)
			d.up[j] = append(d.up[j], i)
		}
	}
	order, err := kahn(len(nodes), func(u int) []int { return d.dn[u] })
	if err != nil {
		return nil, err
	}
	d.order = order
	return d, nil
}

// shift returns the cell index one step from c in direction code, or -1
// when code is 0 or the step leaves the grid.
func (d *D8) shift(c int, code uint8) int {
	if code == 0 {
		return -1
	}
	r, cc := c/d.ncol+d8off[code][0], c%d.ncol+d8off[code][1]
	if r < 0 || r >= d.nrow || cc < 0 || cc >= d.ncol {
		return -1
	}
	return r*d.ncol + cc
}

func (d *D8) N() int       { return len(d.nodes) }
func (d *D8) Order() []int { return d.order }

func (d *D8) Upstream(v int) []int   { return d.up[v] }
func (d *D8) Downstream(v int) []int { return d.dn[v] }

// Aggregate scatters per-node outflow onto the grid, then for each of the 8
// directions adds the shifted grid into its destination cells (one sparse
// shift-and-pad pass per direction) and gathers inflow back at the nodes.
func (d *D8) Aggregate(out, in []float64) {
	for i := range d.gout {
		d.gout[i] = 0.
		d.gin[i] = 0.
	}
	for i, c := range d.nodes {
		d.gout[c] = out[i]
	}
	for code := E; code <= NE; code++ {
		for c, dc := range d.dir {
			if dc != code || d.gout[c] == 0. {
				continue
			}
			if t := d.shift(c, code); t > -1 {
				d.gin[t] += d.gout[c]
			}
		}
	}
	for i, c := range d.nodes {
		in[i] = d.gin[c]
	}
}
