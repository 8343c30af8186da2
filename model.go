package fluxnet

import (
	"github.com/hydroflux/fluxnet/expr"
)

// InterpKind selects how forcing series are read in continuous time.
type InterpKind int

const (
	// DirectIndex reads the forcing value at the step's own index.
	DirectIndex InterpKind = iota
	// Linear reads the midpoint of the previous and current values,
	// approximating the forcing over the step interval.
	Linear
)

// Options tune one simulation call.
type Options struct {
	Integrator IntegratorKind
	Interp     InterpKind
	Floor      float64 // state floor, DefaultFloor when zero
	PTypeIndex []int   // per-node parameter HRU type, nil for type 0
	STypeIndex []int   // per-node initial-state HRU type, nil for type 0
}

func (o *Options) floor() float64 {
	if o == nil || o.Floor == 0. {
		return DefaultFloor
	}
	return o.Floor
}

// Result is a single-node simulation outcome: one series per state and
// produced variable. Clamped counts integrator floor-clamp events; a large
// count flags a misconfigured or unstable model worth inspecting.
type Result struct {
	Series  map[string][]float64
	Clamped int
}

// NodeResult is the node-axis variant, series indexed (node, time).
type NodeResult struct {
	Series  map[string][][]float64
	Clamped int
}

// Model composes sorted buckets, unit-hydrograph stages and an optional
// spatial route, and drives sequential execution over time and, optionally,
// a node axis. Construction resolves component order once; a Model is
// read-only afterwards and reusable across simulation calls.
type Model struct {
	Name    string
	Buckets []*Bucket
	UHs     []*UH
	Route   *Route

	externals []string // inputs the caller must supply
}

// NewModel sorts the buckets producer-first and derives the model schema.
// Components execute buckets → unit hydrographs → route.
func NewModel(name string, bks []*Bucket, uhs []*UH, rt *Route) (*Model, error) {
	sorted, err := sortBuckets(name, bks)
	if err != nil {
		return nil, err
	}
	produced := make(map[string]struct{})
	for _, b := range sorted {
		for _, nm := range b.Outputs {
			produced[nm] = struct{}{}
		}
		for _, nm := range b.StateNames {
			produced[nm] = struct{}{}
		}
	}
	var ext []string
	seen := make(map[string]struct{})
	need := func(nm string) {
		if _, ok := produced[nm]; ok {
			return
		}
		if _, ok := seen[nm]; ok {
			return
		}
		seen[nm] = struct{}{}
		ext = append(ext, nm)
	}
	for _, b := range sorted {
		for _, nm := range b.Inputs {
			need(nm)
		}
	}
	suhs, err := sortUHs(name, uhs)
	if err != nil {
		return nil, err
	}
	for _, u := range suhs {
		if _, ok := seen[u.Out]; ok {
			return nil, defErrf(name, "%q consumed by a bucket before uh %s produces it", u.Out, u.Name)
		}
		if _, ok := produced[u.Out]; ok {
			return nil, defErrf(name, "%q produced by both a bucket and uh %s", u.Out, u.Name)
		}
		produced[u.Out] = struct{}{}
	}
	for _, u := range suhs {
		need(u.In)
	}
	if rt != nil {
		need(rt.In)
		if _, ok := seen[rt.Out]; ok {
			return nil, defErrf(name, "%q consumed before route %s produces it", rt.Out, rt.Name)
		}
		if _, ok := produced[rt.Out]; ok {
			return nil, defErrf(name, "%q already produced, route %s cannot redeclare it", rt.Out, rt.Name)
		}
		produced[rt.Out] = struct{}{}
	}
	return &Model{Name: name, Buckets: sorted, UHs: suhs, Route: rt, externals: ext}, nil
}

// Externals lists the forcing series a simulation call must supply.
func (m *Model) Externals() []string { return m.externals }

// interp builds one input series with the interpolation strategy applied.
func interp(raw []float64, kind InterpKind) []float64 {
	if kind == DirectIndex {
		return raw
	}
	o := make([]float64, len(raw))
	for j := range raw {
		if j == 0 {
			o[j] = raw[j]
		} else {
			o[j] = .5 * (raw[j-1] + raw[j])
		}
	}
	return o
}

// runBucket integrates one bucket for one node. get returns the raw series
// for a name (external forcing or an upstream component's output).
func runBucket(b *Bucket, get func(string) []float64, par Params, ity int,
	s0 []float64, nt int, opts *Options) (traj [][]float64, outs [][]float64, nclamp int) {

	c := b.Compiled()
	e := c.NewEnv()
	c.BindParams(e, par, ity)

	ins := make([][]float64, len(b.Inputs))
	for i, nm := range b.Inputs {
		ins[i] = get(nm)
	}

	d := func(j int, s, ds []float64) {
		for i := range ins {
			e.v[i] = ins[i][j]
		}
		c.SetStates(e, s)
		c.Derivs(e, ds)
	}
	ikind := Mutable
	if opts != nil {
		ikind = opts.Integrator
	}
	traj, nclamp = integrate(ikind, d, s0, nt, opts.floor())

	// batched pass over the solved trajectory for the reported fluxes
	outs = c.EvalSeries(e, ins, traj, nt)
	return traj, outs, nclamp
}

// Run simulates a single node. in maps every external forcing name to a
// series; s0 holds one initial value per state. The result stacks state and
// output series by name.
func (m *Model) Run(in map[string][]float64, par Params, s0 map[string]float64, opts *Options) (*Result, error) {
	nt, err := m.validateSingle(in, par, s0, opts)
	if err != nil {
		return nil, err
	}
	if opts == nil {
		opts = &Options{}
	}

	work := make(map[string][]float64, len(in))
	for k, v := range in {
		work[k] = v
	}
	// interpolation applies to external forcings only; series produced by
	// upstream components pass through untouched
	for _, nm := range m.externals {
		work[nm] = interp(work[nm], opts.Interp)
	}
	res := &Result{Series: make(map[string][]float64)}

	for _, b := range m.Buckets {
		s0v := make([]float64, len(b.StateNames))
		for i, nm := range b.StateNames {
			s0v[i] = s0[nm]
		}
		traj, outs, nc := runBucket(b, func(nm string) []float64 { return work[nm] }, par, typeAt(opts.PTypeIndex, 0), s0v, nt, opts)
		res.Clamped += nc
		for i, nm := range b.StateNames {
			col := make([]float64, nt)
			for j := 0; j < nt; j++ {
				col[j] = traj[j][i]
			}
			work[nm] = col
			res.Series[nm] = col
		}
		for i, nm := range b.Outputs {
			work[nm] = outs[i]
			res.Series[nm] = outs[i]
		}
	}

	for _, u := range m.UHs {
		q := u.Apply(work[u.In], par)
		work[u.Out] = q
		res.Series[u.Out] = q
	}

	if m.Route != nil {
		lag := m.Route.lags(par, opts.PTypeIndex)
		q, sto := m.Route.Run(nil, [][]float64{work[m.Route.In]}, lag, nt)
		res.Series[m.Route.Out] = q[0]
		res.Series[m.Route.StateName()] = sto[0]
	}
	return res, nil
}

// RunNodes simulates a node axis: inputs are (name, node, time); buckets and
// unit hydrographs run independently per node, the route couples nodes.
// Nodes sharing a type index share parameter and initial-state slots, and
// behave exactly like independent nodes carrying duplicated values.
func (m *Model) RunNodes(in map[string][][]float64, par Params, s0 map[string][]float64, opts *Options) (*NodeResult, error) {
	nn, nt, err := m.validateNodes(in, par, s0, opts)
	if err != nil {
		return nil, err
	}
	if opts == nil {
		opts = &Options{}
	}

	work := make(map[string][][]float64, len(in))
	for k, v := range in {
		work[k] = v
	}
	if opts.Interp != DirectIndex {
		for _, nm := range m.externals {
			v := work[nm]
			o := make([][]float64, len(v))
			for k := range v {
				o[k] = interp(v[k], opts.Interp)
			}
			work[nm] = o
		}
	}
	res := &NodeResult{Series: make(map[string][][]float64)}
	blank := func() [][]float64 {
		o := make([][]float64, nn)
		return o
	}

	for _, b := range m.Buckets {
		sts := make(map[string][][]float64, len(b.StateNames))
		for _, nm := range b.StateNames {
			sts[nm] = blank()
		}
		outs := make(map[string][][]float64, len(b.Outputs))
		for _, nm := range b.Outputs {
			outs[nm] = blank()
		}
		for k := 0; k < nn; k++ {
			node := k
			s0v := make([]float64, len(b.StateNames))
			for i, nm := range b.StateNames {
				s0v[i] = pick(s0[nm], typeAt(opts.STypeIndex, node))
			}
			traj, o, nc := runBucket(b, func(nm string) []float64 { return work[nm][node] }, par,
				typeAt(opts.PTypeIndex, node), s0v, nt, opts)
			res.Clamped += nc
			for i, nm := range b.StateNames {
				col := make([]float64, nt)
				for j := 0; j < nt; j++ {
					col[j] = traj[j][i]
				}
				sts[nm][node] = col
			}
			for i, nm := range b.Outputs {
				outs[nm][node] = o[i]
			}
		}
		for nm, v := range sts {
			work[nm] = v
			res.Series[nm] = v
		}
		for nm, v := range outs {
			work[nm] = v
			res.Series[nm] = v
		}
	}

	for _, u := range m.UHs {
		q := u.ApplyByType(work[u.In], par, opts.PTypeIndex)
		work[u.Out] = q
		res.Series[u.Out] = q
	}

	if m.Route != nil {
		lag := m.Route.lags(par, opts.PTypeIndex)
		q, sto := m.Route.Run(nil, work[m.Route.In], lag, nt)
		res.Series[m.Route.Out] = q
		res.Series[m.Route.StateName()] = sto
	}
	return res, nil
}

func typeAt(idx []int, node int) int {
	if idx == nil {
		return 0
	}
	return idx[node]
}

func pick(v []float64, ity int) float64 {
	if len(v) == 1 {
		return v[0]
	}
	return v[ity]
}

// NewCache returns a fresh compilation cache for component construction.
func NewCache() *expr.Cache { return expr.NewCache() }
