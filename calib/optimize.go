package calib

import (
	"fmt"
	"math/rand"
	"runtime"
	"time"

	"github.com/maseology/glbopt"
	"github.com/maseology/objfunc"
	mrg63k3a "github.com/maseology/pnrg/MRG63k3a"
)

// KGE is the objective 1-KGE' (0 is a perfect fit) between an observed and
// a simulated series.
func KGE(obs, sim []float64) float64 { return 1. - objfunc.KGE(obs, sim) }

// NSE is the objective 1-NSE.
func NSE(obs, sim []float64) float64 { return 1. - objfunc.NSE(obs, sim) }

// Summarize prints the usual fit statistics.
func Summarize(obs, sim []float64) {
	fmt.Printf("  KGE: %.3f  NSE: %.3f  Bias: %.3f\n",
		objfunc.KGE(obs, sim), objfunc.NSE(obs, sim), objfunc.Bias(obs, sim))
}

// Optimize searches the p-dimensional unit hypercube with shuffled complex
// evolution, minimizing gen. Returns the best sample and its score.
func Optimize(gen func(u []float64) float64, p int) ([]float64, float64) {
	rng := rand.New(mrg63k3a.New())
	rng.Seed(time.Now().UnixNano())

	fmt.Println(" optimizing..")
	uFinal, _ := glbopt.SCE(runtime.GOMAXPROCS(0), p, rng, gen, true)
	return uFinal, gen(uFinal)
}
