package expr

import "math"

// Fn is a compiled expression, evaluated against the caller's flat
// environment slice. Compiled closures hold no mutable state and may be
// shared freely across simulation runs.
type Fn func(env []float64) float64

// Slot resolves a variable name to an index of the environment slice.
type Slot func(name string) (int, bool)

type fn1 func(float64) float64
type fn2 func(float64, float64) float64

var unary = map[string]fn1{
	"exp":  math.Exp,
	"log":  math.Log,
	"sqrt": math.Sqrt,
	"abs":  math.Abs,
	"step": func(x float64) float64 { // unit step, 1 for x > 0
		if x > 0. {
			return 1.
		}
		return 0.
	},
}

var binary = map[string]fn2{
	"min": math.Min,
	"max": math.Max,
	"pow": math.Pow,
}

// Compile walks the tree once and returns a closure per node, folded
// bottom-up. Unknown names and bad arities are definition-time errors.
func Compile(n Node, slot Slot) (Fn, error) {
	switch t := n.(type) {
	case Num:
		v := float64(t)
		return func([]float64) float64 { return v }, nil
	case Var:
		i, ok := slot(string(t))
		if !ok {
			return nil, errf("unresolved name %q", string(t))
		}
		return func(env []float64) float64 { return env[i] }, nil
	case *Neg:
		x, err := Compile(t.X, slot)
		if err != nil {
			return nil, err
		}
		return func(env []float64) float64 { return -x(env) }, nil
	case *Bin:
		l, err := Compile(t.L, slot)
		if err != nil {
			return nil, err
		}
		r, err := Compile(t.R, slot)
		if err != nil {
			return nil, err
		}
		switch t.Op {
		case '+':
			return func(env []float64) float64 { return l(env) + r(env) }, nil
		case '-':
			return func(env []float64) float64 { return l(env) - r(env) }, nil
		case '*':
			return func(env []float64) float64 { return l(env) * r(env) }, nil
		case '/':
			return func(env []float64) float64 { return l(env) / r(env) }, nil
		case '^':
			return func(env []float64) float64 { return math.Pow(l(env), r(env)) }, nil
		}
		return nil, errf("unknown operator %q", string(t.Op))
	case *Call:
		if f, ok := unary[t.Name]; ok {
			if len(t.Args) != 1 {
				return nil, errf("%s takes 1 argument, given %d", t.Name, len(t.Args))
			}
			x, err := Compile(t.Args[0], slot)
			if err != nil {
				return nil, err
			}
			return func(env []float64) float64 { return f(x(env)) }, nil
		}
		if f, ok := binary[t.Name]; ok {
			if len(t.Args) != 2 {
				return nil, errf("%s takes 2 arguments, given %d", t.Name, len(t.Args))
			}
			a, err := Compile(t.Args[0], slot)
			if err != nil {
				return nil, err
			}
			b, err := Compile(t.Args[1], slot)
			if err != nil {
				return nil, err
			}
			return func(env []float64) float64 { return f(a(env), b(env)) }, nil
		}
		return nil, errf("unknown function %q", t.Name)
	}
	return nil, errf("unknown node %T", n)
}
