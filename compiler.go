package fluxnet

import (
	"strings"

	"github.com/hydroflux/fluxnet/expr"
)

// Compiled is a component's executable form: every flux expression folded to
// a closure over one flat environment slice laid out
//
//	[inputs | states | params | outputs]
//
// plus one derivative closure per state. A Compiled is read-only after
// construction and may be shared across simulation runs; per-caller scratch
// lives in Env.
type Compiled struct {
	name                 string
	ins, sts, pars, outs []string
	slot                 map[string]int
	steps                []step
	dfns                 []expr.Fn
	maxSubIn, maxSubOut  int
}

// step evaluates one flux: either compiled closures per output, or an
// opaque sub-function call with its own parameter namespace.
type step struct {
	fns           []expr.Fn
	outs          []int
	sub           SubFunc
	subName       string
	subIn, subOut []int
}

// Env is the per-caller working space of one Compiled. Not safe for
// concurrent sharing; allocate one per goroutine.
type Env struct {
	v         []float64
	blocks    Params
	sin, sout []float64
}

func newCompiled(name string, fluxes []*Flux, states []*StateFlux, ins, sts, pars, outs []string, cc *expr.Cache) (*Compiled, error) {
	c := &Compiled{
		name: name,
		ins:  ins, sts: sts, pars: pars, outs: outs,
		slot: make(map[string]int, len(ins)+len(sts)+len(pars)+len(outs)),
	}
	for _, grp := range [][]string{ins, sts, pars, outs} {
		for _, nm := range grp {
			c.slot[nm] = len(c.slot)
		}
	}
	slot := func(nm string) (int, bool) {
		i, ok := c.slot[nm]
		return i, ok
	}
	binding := name + ":" + strings.Join([]string{
		strings.Join(ins, ","), strings.Join(sts, ","),
		strings.Join(pars, ","), strings.Join(outs, ",")}, ";")

	for _, f := range fluxes {
		s := step{outs: make([]int, len(f.Outputs))}
		for i, o := range f.Outputs {
			s.outs[i] = c.slot[o]
		}
		if f.Sub != nil {
			s.sub, s.subName = f.Sub, f.Name
			s.subIn = make([]int, len(f.Inputs))
			for i, nm := range f.Inputs {
				j, ok := c.slot[nm]
				if !ok {
					return nil, defErrf(name, "flux %s: unresolved input %q", f.Name, nm)
				}
				s.subIn[i] = j
			}
			s.subOut = s.outs
			if len(s.subIn) > c.maxSubIn {
				c.maxSubIn = len(s.subIn)
			}
			if len(s.subOut) > c.maxSubOut {
				c.maxSubOut = len(s.subOut)
			}
		} else {
			s.fns = make([]expr.Fn, len(f.Exprs))
			for i, ex := range f.Exprs {
				fn, err := cc.Compile(ex, binding, slot)
				if err != nil {
					return nil, defErrf(name, "flux %s: %v", f.Name, err)
				}
				s.fns[i] = fn
			}
		}
		c.steps = append(c.steps, s)
	}

	c.dfns = make([]expr.Fn, len(states))
	for i, sf := range states {
		fn, err := cc.Compile(sf.Balance, binding, slot)
		if err != nil {
			return nil, defErrf(name, "state %s: %v", sf.State, err)
		}
		c.dfns[i] = fn
	}
	return c, nil
}

// NewEnv allocates working space for one caller of this Compiled.
func (c *Compiled) NewEnv() *Env {
	return &Env{
		v:    make([]float64, len(c.slot)),
		sin:  make([]float64, c.maxSubIn),
		sout: make([]float64, c.maxSubOut),
	}
}

// BindParams writes parameter values for HRU type ity into the environment
// and retains the container for sub-function namespaces. Presence and
// lengths are the pre-flight validator's problem.
func (c *Compiled) BindParams(e *Env, p Params, ity int) {
	off := len(c.ins) + len(c.sts)
	for i, nm := range c.pars {
		e.v[off+i] = p.at(nm, ity)
	}
	e.blocks = p
}

// SetInputs writes one timestep's input values, ordered as c.InputNames.
func (c *Compiled) SetInputs(e *Env, in []float64) { copy(e.v[:len(c.ins)], in) }

// SetStates writes current state values, ordered as c.StateNames.
func (c *Compiled) SetStates(e *Env, s []float64) { copy(e.v[len(c.ins):len(c.ins)+len(c.sts)], s) }

// Step evaluates every flux in topological order into the output slots.
func (c *Compiled) Step(e *Env) {
	for _, s := range c.steps {
		if s.sub != nil {
			in, out := e.sin[:len(s.subIn)], e.sout[:len(s.subOut)]
			for i, j := range s.subIn {
				in[i] = e.v[j]
			}
			s.sub.Eval(in, e.blocks[s.subName], out)
			for i, j := range s.subOut {
				e.v[j] = out[i]
			}
			continue
		}
		for i, fn := range s.fns {
			e.v[s.outs[i]] = fn(e.v)
		}
	}
}

// Derivs evaluates the intermediate fluxes, then each state's balance
// expression; ds receives one rate of change per state, ordered as
// c.StateNames.
func (c *Compiled) Derivs(e *Env, ds []float64) {
	c.Step(e)
	for i, fn := range c.dfns {
		ds[i] = fn(e.v)
	}
}

// Outputs gathers the output slots, ordered as c.OutputNames.
func (c *Compiled) Outputs(e *Env, out []float64) {
	off := len(c.ins) + len(c.sts) + len(c.pars)
	copy(out, e.v[off:off+len(c.outs)])
}

// EvalSeries is the batched calling convention: once the state trajectory is
// known, evaluate every flux across the whole time axis. in holds one series
// per input (ordered as c.InputNames), traj one state vector per step.
// Returns one series per output.
func (c *Compiled) EvalSeries(e *Env, in [][]float64, traj [][]float64, nt int) [][]float64 {
	out := make([][]float64, len(c.outs))
	for i := range out {
		out[i] = make([]float64, nt)
	}
	box := make([]float64, len(c.outs))
	for j := 0; j < nt; j++ {
		for i := range c.ins {
			e.v[i] = in[i][j]
		}
		if len(traj) > 0 {
			c.SetStates(e, traj[j])
		}
		c.Step(e)
		c.Outputs(e, box)
		for i := range c.outs {
			out[i][j] = box[i]
		}
	}
	return out
}

func (c *Compiled) InputNames() []string  { return c.ins }
func (c *Compiled) StateNames() []string  { return c.sts }
func (c *Compiled) ParamNames() []string  { return c.pars }
func (c *Compiled) OutputNames() []string { return c.outs }
