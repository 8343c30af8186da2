package fluxnet

import (
	"math"
	"testing"

	"github.com/hydroflux/fluxnet/topo"
	"github.com/stretchr/testify/require"
)

func testModel(t *testing.T, rt *Route) *Model {
	t.Helper()
	uh, err := NewUH("routing", "flow", "quh", []string{"maxbas"}, func(par []float64) []float64 {
		return TriangularKernel(par[0])
	})
	require.NoError(t, err)
	m, err := NewModel("twobucket", []*Bucket{testSoilBucket(t), testSnowBucket(t)}, []*UH{uh}, rt)
	require.NoError(t, err)
	return m
}

func testModelParams() Params {
	p := testParams()
	p["maxbas"] = []float64{3.}
	return p
}

func constSeries(v float64, nt int) []float64 {
	s := make([]float64, nt)
	for j := range s {
		s[j] = v
	}
	return s
}

func TestModelExternals(t *testing.T) {
	m := testModel(t, nil)
	require.ElementsMatch(t, []string{"prcp", "temp"}, m.Externals())
	require.Equal(t, "snow", m.Buckets[0].Name) // producer-first
	require.Equal(t, "soil", m.Buckets[1].Name)
}

func TestModelRunFreezing(t *testing.T) {
	// below the rain/snow threshold everything accumulates as snowpack and
	// the soil store drains as a pure linear reservoir
	m := testModel(t, nil)
	nt := 10
	in := map[string][]float64{
		"prcp": constSeries(2., nt),
		"temp": constSeries(-5., nt),
	}
	res, err := m.Run(in, testModelParams(), map[string]float64{"snowpack": 0., "soilwater": 100.}, nil)
	require.NoError(t, err)
	require.Zero(t, res.Clamped)

	sw := 100.
	for j := 0; j < nt; j++ {
		require.InDelta(t, 2.*float64(j+1), res.Series["snowpack"][j], 1e-12)
		require.Equal(t, 0., res.Series["rainfall"][j])
		require.Equal(t, 2., res.Series["snowfall"][j])
		require.Equal(t, 0., res.Series["melt"][j])

		sw *= .95
		require.InDelta(t, sw, res.Series["soilwater"][j], 1e-9)
		require.InDelta(t, .05*sw, res.Series["flow"][j], 1e-9)
	}

	// hydrograph smears flow: first ordinate of TriangularKernel(3) is 2/9
	require.InDelta(t, 2./9.*res.Series["flow"][0], res.Series["quh"][0], 1e-12)
	require.Len(t, res.Series["quh"], nt)
}

func TestModelRunDeterministic(t *testing.T) {
	m := testModel(t, nil)
	in := map[string][]float64{
		"prcp": {0., 5., 0., 12., 3.},
		"temp": {-2., 1., 4., -1., 8.},
	}
	s0 := map[string]float64{"snowpack": 10., "soilwater": 50.}
	r1, err := m.Run(in, testModelParams(), s0, nil)
	require.NoError(t, err)
	r2, err := m.Run(in, testModelParams(), s0, nil)
	require.NoError(t, err)
	require.Equal(t, r1.Series, r2.Series)
	require.Equal(t, r1.Clamped, r2.Clamped)
}

func TestModelPureMatchesMutable(t *testing.T) {
	m := testModel(t, nil)
	in := map[string][]float64{
		"prcp": {0., 5., 0., 12., 3., 0., 0., 7.},
		"temp": {-2., 1., 4., -1., 8., 6., -3., 2.},
	}
	s0 := map[string]float64{"snowpack": 10., "soilwater": 50.}
	rm, err := m.Run(in, testModelParams(), s0, &Options{Integrator: Mutable})
	require.NoError(t, err)
	rp, err := m.Run(in, testModelParams(), s0, &Options{Integrator: Pure})
	require.NoError(t, err)
	require.Equal(t, rm.Series, rp.Series)
}

func TestModelLinearInterp(t *testing.T) {
	m := testModel(t, nil)
	in := map[string][]float64{
		"prcp": {0., 2., 2.},
		"temp": {5., 5., 5.},
	}
	s0 := map[string]float64{"snowpack": 0., "soilwater": 100.}
	res, err := m.Run(in, testModelParams(), s0, &Options{Interp: Linear})
	require.NoError(t, err)
	// rainfall sees the midpoint of successive precip values
	require.Equal(t, 0., res.Series["rainfall"][0])
	require.Equal(t, 1., res.Series["rainfall"][1])
	require.Equal(t, 2., res.Series["rainfall"][2])

	// interpolation touches external forcings only: the soil store consumes
	// the snow bucket's rainfall series as produced, not re-smoothed
	// (otherwise soilwater after two steps would read 90.75)
	require.InDelta(t, 91.25, res.Series["soilwater"][1], 1e-4)
}

func TestRunNodesLinearInterpMatchesSingle(t *testing.T) {
	m := testModel(t, nil)
	in := map[string][]float64{
		"prcp": {0., 2., 4., 0.},
		"temp": {5., 5., 5., 5.},
	}
	s0 := map[string]float64{"snowpack": 0., "soilwater": 100.}
	single, err := m.Run(in, testModelParams(), s0, &Options{Interp: Linear})
	require.NoError(t, err)

	nin := map[string][][]float64{
		"prcp": {append([]float64{}, in["prcp"]...), append([]float64{}, in["prcp"]...)},
		"temp": {append([]float64{}, in["temp"]...), append([]float64{}, in["temp"]...)},
	}
	nodes, err := m.RunNodes(nin, testModelParams(),
		map[string][]float64{"snowpack": {0.}, "soilwater": {100.}}, &Options{Interp: Linear})
	require.NoError(t, err)

	for nm, s := range single.Series {
		require.Equal(t, s, nodes.Series[nm][0], nm)
		require.Equal(t, s, nodes.Series[nm][1], nm)
	}

	// the caller's forcing containers stay untouched
	require.Equal(t, []float64{0., 2., 4., 0.}, nin["prcp"][0])
}

func TestModelSchemaErrors(t *testing.T) {
	m := testModel(t, nil)
	nt := 4
	in := map[string][]float64{
		"prcp": constSeries(1., nt),
		"temp": constSeries(1., nt),
	}
	s0 := map[string]float64{"snowpack": 0., "soilwater": 100.}

	var se *SchemaError

	_, err := m.Run(map[string][]float64{"prcp": constSeries(1., nt)}, testModelParams(), s0, nil)
	require.ErrorAs(t, err, &se)
	require.Equal(t, "temp", se.Ident)

	_, err = m.Run(map[string][]float64{"prcp": constSeries(1., nt), "temp": constSeries(1., 3)},
		testModelParams(), s0, nil)
	require.ErrorAs(t, err, &se)

	p := testModelParams()
	delete(p, "kq")
	_, err = m.Run(in, p, s0, nil)
	require.ErrorAs(t, err, &se)
	require.Equal(t, "kq", se.Ident)

	_, err = m.Run(in, testModelParams(), map[string]float64{"snowpack": 0.}, nil)
	require.ErrorAs(t, err, &se)
	require.Equal(t, "soilwater", se.Ident)
}

func TestModelUHChainOrder(t *testing.T) {
	// stages declared consumer-first still resolve producer-first
	u2, err := NewUH("u2", "q1", "q2", nil, func([]float64) []float64 { return []float64{.5, .5} })
	require.NoError(t, err)
	u1, err := NewUH("u1", "flow", "q1", nil, func([]float64) []float64 { return []float64{1.} })
	require.NoError(t, err)
	m, err := NewModel("chain", []*Bucket{testSoilBucket(t)}, []*UH{u2, u1}, nil)
	require.NoError(t, err)
	require.NotContains(t, m.Externals(), "q1")
	require.Equal(t, "u1", m.UHs[0].Name)

	nt := 5
	in := map[string][]float64{
		"rainfall": constSeries(2., nt),
		"melt":     constSeries(0., nt),
	}
	res, err := m.Run(in, Params{"kq": {.05}}, map[string]float64{"soilwater": 100.}, nil)
	require.NoError(t, err)
	require.Equal(t, res.Series["flow"], res.Series["q1"]) // unit kernel
	require.InDelta(t, .5*res.Series["q1"][0], res.Series["q2"][0], 1e-12)
	for j := 1; j < nt; j++ {
		require.InDelta(t, .5*(res.Series["q1"][j-1]+res.Series["q1"][j]), res.Series["q2"][j], 1e-12)
	}
}

func TestModelUHCycle(t *testing.T) {
	ua, err := NewUH("ua", "b", "a", nil, func([]float64) []float64 { return []float64{1.} })
	require.NoError(t, err)
	ub, err := NewUH("ub", "a", "b", nil, func([]float64) []float64 { return []float64{1.} })
	require.NoError(t, err)
	_, err = NewModel("m", []*Bucket{testSoilBucket(t)}, []*UH{ua, ub}, nil)
	var de *DefinitionError
	require.ErrorAs(t, err, &de)
	require.Contains(t, de.Error(), "cyclic")
}

func TestModelUHConsumesRouteOutput(t *testing.T) {
	// stages run buckets, unit hydrographs, then the route; a hydrograph
	// reading the route's output cannot be scheduled
	rt, err := NewRoute("river", "flow", "qsim", "lag", topo.NewChain(1))
	require.NoError(t, err)
	u, err := NewUH("u", "qsim", "qq", nil, func([]float64) []float64 { return []float64{1.} })
	require.NoError(t, err)
	_, err = NewModel("m", []*Bucket{testSoilBucket(t)}, []*UH{u}, rt)
	var de *DefinitionError
	require.ErrorAs(t, err, &de)
}

func TestModelSingleRunTypeIndex(t *testing.T) {
	m := testModel(t, nil)
	nt := 4
	in := map[string][]float64{
		"prcp": constSeries(2., nt),
		"temp": constSeries(3., nt),
	}
	s0 := map[string]float64{"snowpack": 5., "soilwater": 100.}

	var se *SchemaError
	_, err := m.Run(in, testModelParams(), s0, &Options{PTypeIndex: []int{}})
	require.ErrorAs(t, err, &se)
	_, err = m.Run(in, testModelParams(), s0, &Options{PTypeIndex: []int{0, 0}})
	require.ErrorAs(t, err, &se)
	_, err = m.Run(in, testModelParams(), s0, &Options{STypeIndex: []int{0, 0}})
	require.ErrorAs(t, err, &se)

	// a one-node index selects the parameter slot
	p := testModelParams()
	p["kq"] = []float64{.05, .2}
	r0, err := m.Run(in, p, s0, nil)
	require.NoError(t, err)
	r1, err := m.Run(in, p, s0, &Options{PTypeIndex: []int{1}})
	require.NoError(t, err)
	require.NotEqual(t, r0.Series["flow"], r1.Series["flow"])
}

func TestModelDuplicateProducer(t *testing.T) {
	uh, err := NewUH("routing", "prcp", "melt", nil, func([]float64) []float64 { return []float64{1.} })
	require.NoError(t, err)
	_, err = NewModel("m", []*Bucket{testSnowBucket(t)}, []*UH{uh}, nil)
	var de *DefinitionError
	require.ErrorAs(t, err, &de)
}

func nodeIn(nn, nt int, prcp, temp float64) map[string][][]float64 {
	in := map[string][][]float64{
		"prcp": make([][]float64, nn),
		"temp": make([][]float64, nn),
	}
	for k := 0; k < nn; k++ {
		in["prcp"][k] = constSeries(prcp, nt)
		in["temp"][k] = constSeries(temp, nt)
	}
	return in
}

func TestRunNodesDuplicatesSingle(t *testing.T) {
	// n identical uncoupled nodes reproduce the single-node run exactly
	m := testModel(t, nil)
	nt, nn := 12, 3
	single, err := m.Run(map[string][]float64{
		"prcp": constSeries(2., nt),
		"temp": constSeries(3., nt),
	}, testModelParams(), map[string]float64{"snowpack": 5., "soilwater": 100.}, nil)
	require.NoError(t, err)

	nodes, err := m.RunNodes(nodeIn(nn, nt, 2., 3.), testModelParams(),
		map[string][]float64{"snowpack": {5.}, "soilwater": {100.}}, nil)
	require.NoError(t, err)

	for nm, s := range single.Series {
		for k := 0; k < nn; k++ {
			require.Equal(t, s, nodes.Series[nm][k], "series %s node %d", nm, k)
		}
	}
}

func TestRunNodesTypeSharing(t *testing.T) {
	m := testModel(t, nil)
	nt := 8
	p := testModelParams()
	p["kq"] = []float64{.05, .2}
	opts := &Options{
		PTypeIndex: []int{0, 1, 0},
		STypeIndex: []int{0, 0, 0},
	}
	res, err := m.RunNodes(nodeIn(3, nt, 2., 3.), p,
		map[string][]float64{"snowpack": {5.}, "soilwater": {100.}}, opts)
	require.NoError(t, err)

	require.Equal(t, res.Series["flow"][0], res.Series["flow"][2]) // shared type, bit-identical
	require.NotEqual(t, res.Series["flow"][0], res.Series["flow"][1])
}

func TestRunNodesRouted(t *testing.T) {
	rt, err := NewRoute("river", "quh", "qsim", "lag", topo.NewChain(3))
	require.NoError(t, err)
	m := testModel(t, rt)
	p := testModelParams()
	p["lag"] = []float64{1.}

	nt := 60
	res, err := m.RunNodes(nodeIn(3, nt, 2., 3.), p,
		map[string][]float64{"snowpack": {5.}, "soilwater": {100.}}, nil)
	require.NoError(t, err)

	// the outlet accumulates its upstream drainage
	require.Greater(t, res.Series["qsim"][2][nt-1], res.Series["qsim"][0][nt-1])
	for _, s := range res.Series["river.storage"] {
		for _, v := range s {
			require.False(t, math.IsNaN(v))
			require.GreaterOrEqual(t, v, 0.)
		}
	}

	// node-count mismatch against the routed topology
	_, err = m.RunNodes(nodeIn(2, nt, 2., 3.), p,
		map[string][]float64{"snowpack": {5.}, "soilwater": {100.}}, nil)
	var se *SchemaError
	require.ErrorAs(t, err, &se)
}

func TestModelClampCounting(t *testing.T) {
	// a soil store drained much faster than it fills pins to the floor
	b := testSoilBucket(t)
	m, err := NewModel("drain", []*Bucket{b}, nil, nil)
	require.NoError(t, err)

	nt := 20
	in := map[string][]float64{
		"rainfall": constSeries(0., nt),
		"melt":     constSeries(0., nt),
	}
	res, err := m.Run(in, Params{"kq": {2.}}, map[string]float64{"soilwater": 1.}, nil)
	require.NoError(t, err)
	require.Greater(t, res.Clamped, 0)
	require.Equal(t, DefaultFloor, res.Series["soilwater"][nt-1])
}
