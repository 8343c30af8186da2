// Package nn provides the reference black-box sub-function: a single dense
// layer. Layer construction and training belong to outside tooling; a
// trained layer's weights arrive through the parameter container under the
// owning flux's name.
package nn

import "math"

// Dense is a fully-connected layer y = act(W·x + b) with row-major weights
// followed by biases in its flat parameter slice: len = nout*nin + nout.
type Dense struct {
	In, Out int
	Act     func(float64) float64 // nil for identity
}

// Sigmoid is the logistic activation.
func Sigmoid(x float64) float64 { return 1. / (1. + math.Exp(-x)) }

// ReLU clips negatives.
func ReLU(x float64) float64 { return math.Max(x, 0.) }

func (d *Dense) NIn() int  { return d.In }
func (d *Dense) NOut() int { return d.Out }
func (d *Dense) NPar() int { return d.Out*d.In + d.Out }

// Eval computes the layer; out must not alias in.
func (d *Dense) Eval(in, par, out []float64) {
	for o := 0; o < d.Out; o++ {
		s := par[d.Out*d.In+o] // bias
		row := par[o*d.In : (o+1)*d.In]
		for i, x := range in {
			s += row[i] * x
		}
		if d.Act != nil {
			s = d.Act(s)
		}
		out[o] = s
	}
}
