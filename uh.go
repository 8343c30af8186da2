package fluxnet

import (
	"fmt"
	"math"
)

// UniformKernel spreads unit mass evenly over lag timesteps; the final
// ordinate is partial when lag is fractional. Weights sum to 1.
func UniformKernel(lag float64) []float64 {
	if lag <= 1. {
		return []float64{1.}
	}
	n := int(math.Ceil(lag))
	w := make([]float64, n)
	for k := 0; k < n-1; k++ {
		w[k] = 1. / lag
	}
	w[n-1] = (lag - float64(n-1)) / lag
	return w
}

// TriangularKernel is the symmetric triangular response of base length lag
// (the HBV MAXBAS shape): ordinate k integrates the triangle's density over
// [k, k+1]. Weights sum to 1 exactly.
func TriangularKernel(lag float64) []float64 {
	if lag <= 1. {
		return []float64{1.}
	}
	n := int(math.Ceil(lag))
	h := lag / 2.
	cdf := func(t float64) float64 {
		switch {
		case t <= 0.:
			return 0.
		case t <= h:
			return 2. * t * t / (lag * lag)
		case t < lag:
			return 1. - 2.*(lag-t)*(lag-t)/(lag*lag)
		}
		return 1.
	}
	w := make([]float64, n)
	for k := 0; k < n; k++ {
		w[k] = cdf(float64(k+1)) - cdf(float64(k))
	}
	return w
}

// GammaKernel samples a gamma-shaped response (shape, scale in timesteps)
// at ordinate midpoints, truncated where the tail mass falls below 1e-3 of
// the total. Not renormalized; mass conservation is a design intent checked
// by property tests, not an enforced invariant.
func GammaKernel(shape, scale float64) []float64 {
	pdf := func(t float64) float64 {
		return math.Pow(t, shape-1.) * math.Exp(-t/scale) / (math.Gamma(shape) * math.Pow(scale, shape))
	}
	const maxlen = 1000
	var w []float64
	sum := 0.
	for k := 0; k < maxlen; k++ {
		v := pdf(float64(k) + .5)
		w = append(w, v)
		sum += v
		if sum > 0. && v < 1e-3*sum && float64(k)+.5 > shape*scale {
			break
		}
	}
	return w
}

// Convolve applies kernel w as a causal discrete convolution: output at t is
// Σ w[k]·in[t-k]; inputs before the series start are zero (cold start).
func Convolve(w, in []float64) []float64 {
	out := make([]float64, len(in))
	for t := range in {
		kx := len(w)
		if t+1 < kx {
			kx = t + 1
		}
		s := 0.
		for k := 0; k < kx; k++ {
			s += w[k] * in[t-k]
		}
		out[t] = s
	}
	return out
}

// UH lags and spreads one flow series through a parametric unit-hydrograph
// kernel. The kernel builder runs once per distinct parameter set; nodes
// sharing an HRU type share one kernel and produce bit-identical output.
type UH struct {
	Name    string
	In, Out string
	Params  []string
	Build   func(par []float64) []float64
}

// NewUH declares a unit-hydrograph stage transforming series In into Out.
func NewUH(name, in, out string, params []string, build func(par []float64) []float64) (*UH, error) {
	if build == nil {
		return nil, defErrf(name, "nil kernel builder")
	}
	if in == out {
		return nil, defErrf(name, "%q is both input and output", in)
	}
	return &UH{Name: name, In: in, Out: out, Params: params, Build: build}, nil
}

// kernel assembles the kernel for HRU type ity.
func (u *UH) kernel(p Params, ity int) []float64 {
	par := make([]float64, len(u.Params))
	for i, nm := range u.Params {
		par[i] = p.at(nm, ity)
	}
	return u.Build(par)
}

// Apply convolves a single series using the type-0 parameter set.
func (u *UH) Apply(in []float64, p Params) []float64 {
	return Convolve(u.kernel(p, 0), in)
}

// ApplyByType convolves one series per node, building each distinct HRU
// type's kernel exactly once.
func (u *UH) ApplyByType(in [][]float64, p Params, ptyidx []int) [][]float64 {
	kern := make(map[int][]float64)
	out := make([][]float64, len(in))
	for i := range in {
		ity := 0
		if ptyidx != nil {
			ity = ptyidx[i]
		}
		w, ok := kern[ity]
		if !ok {
			w = u.kernel(p, ity)
			kern[ity] = w
		}
		out[i] = Convolve(w, in[i])
	}
	return out
}

// String summarizes the stage for error messages.
func (u *UH) String() string { return fmt.Sprintf("uh %s: %s -> %s", u.Name, u.In, u.Out) }
