// Package calib drives parameter sampling and optimization of fluxnet
// models: hypercube transforms, Latin-hypercube Monte Carlo batches and an
// SCE search against an objective function. It is a thin driver; model
// structure and simulation stay in the core packages.
package calib

import "github.com/maseology/mmaths"

// Bound maps one unit-hypercube coordinate onto a parameter range, log
// scaled where a parameter spans orders of magnitude.
type Bound struct {
	Name     string
	Low, Hgh float64
	Log      bool
}

// Transform maps a unit-hypercube sample onto named parameter values.
func Transform(bounds []Bound, u []float64) map[string]float64 {
	o := make(map[string]float64, len(bounds))
	for i, b := range bounds {
		if b.Log {
			o[b.Name] = mmaths.LogLinearTransform(b.Low, b.Hgh, u[i])
		} else {
			o[b.Name] = mmaths.LinearTransform(b.Low, b.Hgh, u[i])
		}
	}
	return o
}

// SnowSoilBounds spans the snow/soil catalog model's parameter space.
func SnowSoilBounds() []Bound {
	return []Bound{
		{"tt", -2., 2., false},
		{"ddf", 1., 8., false},
		{"petc", .1, 2., false},
		{"smax", 50., 500., false},
		{"kq", .001, .5, true},
		{"maxbas", 1., 7., false},
	}
}
