package fluxnet

import "math"

// DefaultFloor is the positive floor state values are clamped to after each
// explicit-Euler step. The clamp also absorbs non-finite derivatives: a run
// always proceeds to the end of its time index, and clamp events are counted
// rather than raised (see Result.Clamped).
const DefaultFloor = 1e-6

// Deriv computes the rate of change of every state at time index j given
// the current state vector; ds receives one value per state.
type Deriv func(j int, s, ds []float64)

// IntegratorKind selects the Euler strategy.
type IntegratorKind int

const (
	// Mutable reuses one working buffer per call; fastest, but the buffer
	// must not be shared across concurrent callers.
	Mutable IntegratorKind = iota
	// Pure allocates a fresh state vector each step; required when the
	// surrounding computation must be differentiable or run concurrently
	// without copying.
	Pure
)

// EulerMutable advances s0 across nt steps in place, recording the
// trajectory s_1..s_nt into one contiguous backing array. Returns the
// trajectory and the number of clamped state updates.
func EulerMutable(d Deriv, s0 []float64, nt int, floor float64) ([][]float64, int) {
	ns := len(s0)
	back := make([]float64, nt*ns)
	traj := make([][]float64, nt)
	cur := append([]float64{}, s0...) // working buffer, overwritten each step
	ds := make([]float64, ns)
	nclamp := 0
	for j := 0; j < nt; j++ {
		d(j, cur, ds)
		for i := 0; i < ns; i++ {
			v := cur[i] + ds[i]
			if math.IsNaN(v) || math.IsInf(v, 0) || v < floor {
				v = floor
				nclamp++
			}
			cur[i] = v
		}
		row := back[j*ns : (j+1)*ns]
		copy(row, cur)
		traj[j] = row
	}
	return traj, nclamp
}

// EulerPure advances s0 across nt steps without mutating any previous state
// vector; each step allocates anew. Produces a trajectory numerically
// identical to EulerMutable for the same inputs.
func EulerPure(d Deriv, s0 []float64, nt int, floor float64) ([][]float64, int) {
	ns := len(s0)
	traj := make([][]float64, nt)
	prev := s0
	nclamp := 0
	for j := 0; j < nt; j++ {
		ds := make([]float64, ns)
		d(j, prev, ds)
		next := make([]float64, ns)
		for i := 0; i < ns; i++ {
			v := prev[i] + ds[i]
			if math.IsNaN(v) || math.IsInf(v, 0) || v < floor {
				v = floor
				nclamp++
			}
			next[i] = v
		}
		traj[j] = next
		prev = next
	}
	return traj, nclamp
}

// integrate dispatches on strategy.
func integrate(kind IntegratorKind, d Deriv, s0 []float64, nt int, floor float64) ([][]float64, int) {
	if kind == Pure {
		return EulerPure(d, s0, nt, floor)
	}
	return EulerMutable(d, s0, nt, floor)
}
