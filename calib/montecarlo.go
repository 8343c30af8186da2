package calib

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/gosuri/uiprogress"
	"github.com/maseology/mmio"
	"github.com/maseology/montecarlo/smpln"
	mrg63k3a "github.com/maseology/pnrg/MRG63k3a"
)

// GenerateSamples draws n Latin-hypercube samples over p dimensions and
// evaluates gen for each, writing the sample space and scores next to
// outdirprfx. gen receives unit-hypercube coordinates and returns the
// objective value (lower is better).
func GenerateSamples(gen func(u []float64) float64, n, p int, outdirprfx string) []float64 {
	tt := mmio.NewTimer()
	defer tt.Lap(fmt.Sprintf(" %d samples complete", n))

	rng := rand.New(mrg63k3a.New())
	rng.Seed(time.Now().UnixNano())
	sp := smpln.NewLHC(rng, n, p, false)

	if len(outdirprfx) > 0 { // save sample space
		lns := make([]string, n)
		for k := 0; k < n; k++ {
			lns[k] = fmt.Sprint(k)
			for j := 0; j < p; j++ {
				lns[k] += fmt.Sprintf(",%f", sp.U[j][k])
			}
		}
		mmio.WriteLines(outdirprfx+"samplespace.csv", lns)
	}

	uiprogress.Start()
	bar := uiprogress.AddBar(n).AppendCompleted().PrependElapsed()
	scores := make([]float64, n)
	ut := make([]float64, p)
	for k := 0; k < n; k++ {
		for j := 0; j < p; j++ {
			ut[j] = sp.U[j][k]
		}
		scores[k] = gen(ut)
		bar.Incr()
	}
	uiprogress.Stop()

	if len(outdirprfx) > 0 {
		lns := make([]string, n)
		for k, s := range scores {
			lns[k] = fmt.Sprintf("%d,%f", k, s)
		}
		mmio.WriteLines(outdirprfx+"scores.csv", lns)
	}
	return scores
}
