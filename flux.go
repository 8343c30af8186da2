package fluxnet

import (
	"github.com/hydroflux/fluxnet/expr"
)

// SubFunc is an embedded black-box transformation (e.g. a trained neural
// layer) satisfying the same inputs→outputs contract as a pure flux, with
// its own flat parameter namespace. Eval must be pure and safe for
// concurrent use with distinct out buffers.
type SubFunc interface {
	NIn() int
	NOut() int
	NPar() int
	Eval(in, par, out []float64)
}

// Flux is a named pure transformation from inputs and parameters to outputs.
// Either Exprs carries one operator tree per output, or Sub supplies an
// opaque evaluation with parameters under the flux's own namespace (the
// flux name keys the weight block in Params).
type Flux struct {
	Name    string
	Inputs  []string
	Outputs []string
	Params  []string
	Exprs   []expr.Node
	Sub     SubFunc
}

// NewFlux declares a pure flux; one expression per output, in order.
func NewFlux(name string, inputs, outputs, params []string, exprs ...expr.Node) (*Flux, error) {
	if len(exprs) != len(outputs) {
		return nil, defErrf(name, "%d outputs declared, %d expressions given", len(outputs), len(exprs))
	}
	f := &Flux{Name: name, Inputs: inputs, Outputs: outputs, Params: params, Exprs: exprs}
	if err := f.check(); err != nil {
		return nil, err
	}
	return f, nil
}

// NewNeuralFlux declares a black-box flux. Weights live in Params under the
// flux name, length f.NPar().
func NewNeuralFlux(name string, inputs, outputs []string, f SubFunc) (*Flux, error) {
	if f.NIn() != len(inputs) {
		return nil, defErrf(name, "sub-function takes %d inputs, %d declared", f.NIn(), len(inputs))
	}
	if f.NOut() != len(outputs) {
		return nil, defErrf(name, "sub-function yields %d outputs, %d declared", f.NOut(), len(outputs))
	}
	fx := &Flux{Name: name, Inputs: inputs, Outputs: outputs, Sub: f}
	if err := fx.check(); err != nil {
		return nil, err
	}
	return fx, nil
}

func (f *Flux) check() error {
	seen := make(map[string]struct{}, len(f.Outputs))
	for _, o := range f.Outputs {
		if _, ok := seen[o]; ok {
			return defErrf(f.Name, "output %q declared twice", o)
		}
		seen[o] = struct{}{}
	}
	for _, i := range f.Inputs {
		if _, ok := seen[i]; ok {
			return defErrf(f.Name, "%q is both input and output", i)
		}
	}
	return nil
}

// StateFlux is a differential balance rule: its expression yields the net
// rate of change of one state, in terms of other fluxes' outputs, external
// inputs, states and parameters.
type StateFlux struct {
	State   string
	Inputs  []string
	Params  []string
	Balance expr.Node
}

// NewStateFlux declares the balance rule for one state variable.
func NewStateFlux(state string, inputs, params []string, balance expr.Node) (*StateFlux, error) {
	if balance == nil {
		return nil, defErrf(state, "nil balance expression")
	}
	return &StateFlux{State: state, Inputs: inputs, Params: params, Balance: balance}, nil
}
