package fluxnet

import (
	"testing"

	"github.com/hydroflux/fluxnet/expr"
	"github.com/stretchr/testify/require"
)

// testSnowBucket is a degree-day snow store: prcp partitions on temp,
// melt drains the pack.
func testSnowBucket(t *testing.T) *Bucket {
	t.Helper()
	rainfall, err := NewFlux("rainfall",
		[]string{"prcp", "temp"}, []string{"rainfall"}, []string{"tt"},
		expr.MustParse("prcp*step(temp-tt)"))
	require.NoError(t, err)
	snowfall, err := NewFlux("snowfall",
		[]string{"prcp", "rainfall"}, []string{"snowfall"}, nil,
		expr.MustParse("prcp-rainfall"))
	require.NoError(t, err)
	melt, err := NewFlux("melt",
		[]string{"temp", "snowpack"}, []string{"melt"}, []string{"ddf", "tt"},
		expr.MustParse("min(snowpack, ddf*max(temp-tt, 0))"))
	require.NoError(t, err)
	dsnow, err := NewStateFlux("snowpack",
		[]string{"snowfall", "melt"}, nil,
		expr.MustParse("snowfall-melt"))
	require.NoError(t, err)
	b, err := NewBucket("snow", []*Flux{rainfall, snowfall, melt}, []*StateFlux{dsnow}, expr.NewCache())
	require.NoError(t, err)
	return b
}

// testSoilBucket is a linear-release soil store fed by the snow bucket.
func testSoilBucket(t *testing.T) *Bucket {
	t.Helper()
	baseflow, err := NewFlux("baseflow",
		[]string{"soilwater"}, []string{"baseflow"}, []string{"kq"},
		expr.MustParse("kq*soilwater"))
	require.NoError(t, err)
	flow, err := NewFlux("flow",
		[]string{"baseflow"}, []string{"flow"}, nil,
		expr.MustParse("baseflow"))
	require.NoError(t, err)
	dsoil, err := NewStateFlux("soilwater",
		[]string{"rainfall", "melt", "baseflow"}, nil,
		expr.MustParse("rainfall+melt-baseflow"))
	require.NoError(t, err)
	b, err := NewBucket("soil", []*Flux{baseflow, flow}, []*StateFlux{dsoil}, expr.NewCache())
	require.NoError(t, err)
	return b
}

func testParams() Params {
	return Params{
		"tt":  {0.},
		"ddf": {3.},
		"kq":  {.05},
	}
}
