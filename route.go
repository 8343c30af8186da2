package fluxnet

import (
	"github.com/hydroflux/fluxnet/topo"
)

// Route accumulates and delays flow across a spatial topology. Every node
// carries its own storage with the linear storage-routing rule
//
//	outflow = storage / (1 + lag)
//
// local dynamics are independent per node; nodes couple only through the
// topology's aggregation. Within one timestep nodes are walked in
// topological order, so a node's inflow is its upstream neighbours'
// already-computed current-step outflow.
type Route struct {
	Name     string
	In, Out  string // lateral inflow series, routed outflow series
	LagParam string
	Topo     topo.Topology
}

// NewRoute declares a routing stage over a resolved topology.
func NewRoute(name, in, out, lagParam string, tp topo.Topology) (*Route, error) {
	if tp == nil {
		return nil, defErrf(name, "nil topology")
	}
	return &Route{Name: name, In: in, Out: out, LagParam: lagParam, Topo: tp}, nil
}

// StateName names the per-node storage series in results.
func (r *Route) StateName() string { return r.Name + ".storage" }

// lags expands the lag parameter to one value per node.
func (r *Route) lags(p Params, ptyidx []int) []float64 {
	n := r.Topo.N()
	lag := make([]float64, n)
	for i := 0; i < n; i++ {
		ity := 0
		if ptyidx != nil {
			ity = ptyidx[i]
		}
		lag[i] = p.at(r.LagParam, ity)
	}
	return lag
}

// Step advances every node one timestep. sto is mutated in place; qin is
// caller scratch (len n), qout receives per-node outflow.
func (r *Route) Step(sto, lateral, lag, qin, qout []float64) {
	for i := range qin {
		qin[i] = 0.
	}
	for _, i := range r.Topo.Order() {
		s := sto[i] + lateral[i] + qin[i]
		q := s / (1. + lag[i])
		sto[i] = s - q
		qout[i] = q
		for _, v := range r.Topo.Downstream(i) {
			qin[v] += q
		}
	}
}

// Run routes a full lateral-inflow series (node × time), starting every node
// from storage sto0 (nil for zero). Returns the outflow and storage series.
func (r *Route) Run(sto0 []float64, lateral [][]float64, lag []float64, nt int) (q, sto [][]float64) {
	n := r.Topo.N()
	cur := make([]float64, n)
	if sto0 != nil {
		copy(cur, sto0)
	}
	qin, qout, lat := make([]float64, n), make([]float64, n), make([]float64, n)
	q = make([][]float64, n)
	sto = make([][]float64, n)
	for i := 0; i < n; i++ {
		q[i] = make([]float64, nt)
		sto[i] = make([]float64, nt)
	}
	for j := 0; j < nt; j++ {
		for i := 0; i < n; i++ {
			lat[i] = lateral[i][j]
		}
		r.Step(cur, lat, lag, qin, qout)
		for i := 0; i < n; i++ {
			q[i][j] = qout[i]
			sto[i][j] = cur[i]
		}
	}
	return q, sto
}
