package fluxnet

// VarKind tags what role a named variable plays in a component schema.
type VarKind int

const (
	KindInput VarKind = iota
	KindOutput
	KindState
)

func (k VarKind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindOutput:
		return "output"
	case KindState:
		return "state"
	}
	return "unknown"
}

// Variable is a nominal tag; it carries no value.
type Variable struct {
	Name string
	Kind VarKind
}

// Param names a constant. By-type parameters hold one value per HRU type,
// shared by every spatial node of that type; otherwise a single value is
// shared by the whole domain.
type Param struct {
	Name   string
	ByType bool
}

// Params holds named parameter values for one simulation call: a scalar
// parameter is a 1-slice, a by-type parameter one value per HRU type, and a
// sub-function namespace its flat weight slice. Values are read-only during
// execution and never shared between concurrent calls.
type Params map[string][]float64

// at picks the value for HRU type ity, falling back to the shared scalar.
func (p Params) at(name string, ity int) float64 {
	v := p[name]
	if len(v) == 1 {
		return v[0]
	}
	return v[ity]
}
