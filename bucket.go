package fluxnet

import (
	"github.com/hydroflux/fluxnet/expr"
)

// Bucket is one storage reservoir's local mass balance: an ordered,
// topologically-sorted list of fluxes plus the balance rules of its states,
// with a derived, de-duplicated schema. Immutable once constructed; the
// compiled step functions are cached and reused across runs.
type Bucket struct {
	Name   string
	Fluxes []*Flux // topological order
	States []*StateFlux

	Inputs, Outputs, StateNames, ParamNames []string
	SubNames                                []string // sub-function parameter namespaces

	comp *Compiled
}

// NewBucket resolves flux dependencies, derives the schema and compiles the
// step functions. Definition faults (cycles, duplicate producers, unresolved
// names) surface here, never during a simulation.
func NewBucket(name string, fluxes []*Flux, states []*StateFlux, cc *expr.Cache) (*Bucket, error) {
	sorted, err := SortFluxes(name, fluxes)
	if err != nil {
		return nil, err
	}

	produced := make(map[string]struct{})
	for _, f := range sorted {
		for _, o := range f.Outputs {
			produced[o] = struct{}{}
		}
	}
	stateset := make(map[string]struct{}, len(states))
	var stnames []string
	for _, sf := range states {
		if _, ok := stateset[sf.State]; ok {
			return nil, defErrf(name, "state %q declared twice", sf.State)
		}
		if _, ok := produced[sf.State]; ok {
			return nil, defErrf(name, "%q is both a state and a flux output", sf.State)
		}
		stateset[sf.State] = struct{}{}
		stnames = append(stnames, sf.State)
	}

	var ins, outs, pars, subs []string
	seenIn := make(map[string]struct{})
	seenPar := make(map[string]struct{})
	addIn := func(nm string) {
		if _, ok := produced[nm]; ok {
			return
		}
		if _, ok := stateset[nm]; ok {
			return
		}
		if _, ok := seenIn[nm]; ok {
			return
		}
		seenIn[nm] = struct{}{}
		ins = append(ins, nm)
	}
	addPar := func(nm string) {
		if _, ok := seenPar[nm]; ok {
			return
		}
		seenPar[nm] = struct{}{}
		pars = append(pars, nm)
	}
	for _, f := range sorted {
		for _, nm := range f.Inputs {
			addIn(nm)
		}
		for _, nm := range f.Params {
			addPar(nm)
		}
		outs = append(outs, f.Outputs...)
		if f.Sub != nil {
			subs = append(subs, f.Name)
		}
	}
	for _, sf := range states {
		for _, nm := range sf.Inputs {
			addIn(nm)
		}
		for _, nm := range sf.Params {
			addPar(nm)
		}
	}

	comp, err := newCompiled(name, sorted, states, ins, stnames, pars, outs, cc)
	if err != nil {
		return nil, err
	}
	return &Bucket{
		Name:   name,
		Fluxes: sorted,
		States: states,
		Inputs: ins, Outputs: outs, StateNames: stnames, ParamNames: pars,
		SubNames: subs,
		comp:     comp,
	}, nil
}

// Compiled exposes the bucket's executable form.
func (b *Bucket) Compiled() *Compiled { return b.comp }

// Variables lists the bucket's schema as tagged names.
func (b *Bucket) Variables() []Variable {
	o := make([]Variable, 0, len(b.Inputs)+len(b.Outputs)+len(b.StateNames))
	for _, nm := range b.Inputs {
		o = append(o, Variable{Name: nm, Kind: KindInput})
	}
	for _, nm := range b.StateNames {
		o = append(o, Variable{Name: nm, Kind: KindState})
	}
	for _, nm := range b.Outputs {
		o = append(o, Variable{Name: nm, Kind: KindOutput})
	}
	return o
}
