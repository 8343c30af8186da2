// Package models seeds the catalog of conceptual model definitions. The
// full catalog lives with the authoring layer; the two-bucket snow/soil
// model here is the reference composition exercised end to end.
package models

import (
	fluxnet "github.com/hydroflux/fluxnet"
	"github.com/hydroflux/fluxnet/expr"
)

// SnowSoil builds a two-bucket degree-day snow + saturation-excess soil
// model. Forcings: prcp, temp, dayl. States: snowpack, soilwater.
// Streamflow leaves as qsim through a triangular unit hydrograph.
//
// Parameters: tt (rain/snow threshold °C), ddf (degree-day melt factor),
// petc (PET coefficient), smax (soil capacity), kq (storage release),
// maxbas (hydrograph base length).
func SnowSoil(cc *expr.Cache) (*fluxnet.Model, error) {
	rainfall, err := fluxnet.NewFlux("rainfall",
		[]string{"prcp", "temp"}, []string{"rainfall"}, []string{"tt"},
		expr.MustParse("prcp*step(temp-tt)"))
	if err != nil {
		return nil, err
	}
	snowfall, err := fluxnet.NewFlux("snowfall",
		[]string{"prcp", "rainfall"}, []string{"snowfall"}, nil,
		expr.MustParse("prcp-rainfall"))
	if err != nil {
		return nil, err
	}
	melt, err := fluxnet.NewFlux("melt",
		[]string{"temp", "snowpack"}, []string{"melt"}, []string{"ddf", "tt"},
		expr.MustParse("min(snowpack, ddf*max(temp-tt, 0))"))
	if err != nil {
		return nil, err
	}
	dsnow, err := fluxnet.NewStateFlux("snowpack",
		[]string{"snowfall", "melt"}, nil,
		expr.MustParse("snowfall-melt"))
	if err != nil {
		return nil, err
	}
	snow, err := fluxnet.NewBucket("snow",
		[]*fluxnet.Flux{rainfall, snowfall, melt},
		[]*fluxnet.StateFlux{dsnow}, cc)
	if err != nil {
		return nil, err
	}

	pet, err := fluxnet.NewFlux("pet",
		[]string{"temp", "dayl"}, []string{"pet"}, []string{"petc"},
		expr.MustParse("petc*dayl*max(temp, 0)"))
	if err != nil {
		return nil, err
	}
	evap, err := fluxnet.NewFlux("evap",
		[]string{"pet", "soilwater"}, []string{"evap"}, []string{"smax"},
		expr.MustParse("pet*min(1, soilwater/smax)"))
	if err != nil {
		return nil, err
	}
	baseflow, err := fluxnet.NewFlux("baseflow",
		[]string{"soilwater"}, []string{"baseflow"}, []string{"kq"},
		expr.MustParse("kq*soilwater"))
	if err != nil {
		return nil, err
	}
	qsurf, err := fluxnet.NewFlux("qsurf",
		[]string{"soilwater", "rainfall", "melt", "evap", "baseflow"}, []string{"qsurf"}, []string{"smax"},
		expr.MustParse("max(0, soilwater+rainfall+melt-evap-baseflow-smax)"))
	if err != nil {
		return nil, err
	}
	flow, err := fluxnet.NewFlux("flow",
		[]string{"baseflow", "qsurf"}, []string{"flow"}, nil,
		expr.MustParse("baseflow+qsurf"))
	if err != nil {
		return nil, err
	}
	dsoil, err := fluxnet.NewStateFlux("soilwater",
		[]string{"rainfall", "melt", "evap", "baseflow", "qsurf"}, nil,
		expr.MustParse("rainfall+melt-evap-baseflow-qsurf"))
	if err != nil {
		return nil, err
	}
	soil, err := fluxnet.NewBucket("soil",
		[]*fluxnet.Flux{pet, evap, baseflow, qsurf, flow},
		[]*fluxnet.StateFlux{dsoil}, cc)
	if err != nil {
		return nil, err
	}

	uh, err := fluxnet.NewUH("routing", "flow", "qsim", []string{"maxbas"}, func(par []float64) []float64 {
		return fluxnet.TriangularKernel(par[0])
	})
	if err != nil {
		return nil, err
	}

	return fluxnet.NewModel("snowsoil", []*fluxnet.Bucket{snow, soil}, []*fluxnet.UH{uh}, nil)
}

// DefaultSnowSoilParams is a plausible mid-range parameter set.
func DefaultSnowSoilParams() fluxnet.Params {
	return fluxnet.Params{
		"tt":     {0.},
		"ddf":    {3.},
		"petc":   {.8},
		"smax":   {250.},
		"kq":     {.05},
		"maxbas": {3.},
	}
}
