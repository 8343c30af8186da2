package fluxnet

import (
	"sort"
	"strings"
)

// sortByNames is the shared dependency resolver: items produce and consume
// named variables; an edge runs from each producer to each consumer of the
// same name. Returns item indices ordered producers-first, stable with
// respect to declaration order among unrelated items. A duplicate producer
// or a cycle is a definition error.
func sortByNames(component string, n int, name func(int) string, inputs, outputs func(int) []string) ([]int, error) {
	producer := make(map[string]int)
	for i := 0; i < n; i++ {
		for _, o := range outputs(i) {
			if j, ok := producer[o]; ok {
				return nil, defErrf(component, "%q produced by both %s and %s", o, name(j), name(i))
			}
			producer[o] = i
		}
	}

	adj := make([][]int, n) // producer index -> consumer indices
	nin := make([]int, n)
	for i := 0; i < n; i++ {
		for _, in := range inputs(i) {
			if j, ok := producer[in]; ok && j != i {
				adj[j] = append(adj[j], i)
				nin[i]++
			}
		}
	}

	order := make([]int, 0, n)
	ready := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if nin[i] == 0 {
			ready = append(ready, i)
		}
	}
	for len(ready) > 0 {
		sort.Ints(ready) // stable tie-break on declaration order
		i := ready[0]
		ready = ready[1:]
		order = append(order, i)
		for _, j := range adj[i] {
			if nin[j]--; nin[j] == 0 {
				ready = append(ready, j)
			}
		}
	}
	if len(order) != n {
		var cyc []string
		for i := 0; i < n; i++ {
			if nin[i] > 0 {
				cyc = append(cyc, name(i))
			}
		}
		return nil, defErrf(component, "cyclic dependency among {%s}", strings.Join(cyc, ", "))
	}
	return order, nil
}

// SortFluxes orders fluxes so that every consumer follows its producers.
func SortFluxes(component string, fluxes []*Flux) ([]*Flux, error) {
	ix, err := sortByNames(component, len(fluxes),
		func(i int) string { return fluxes[i].Name },
		func(i int) []string { return fluxes[i].Inputs },
		func(i int) []string { return fluxes[i].Outputs })
	if err != nil {
		return nil, err
	}
	o := make([]*Flux, len(fluxes))
	for k, i := range ix {
		o[k] = fluxes[i]
	}
	return o, nil
}

// sortUHs orders unit-hydrograph stages so a stage consuming another
// stage's output runs after it.
func sortUHs(model string, uhs []*UH) ([]*UH, error) {
	ix, err := sortByNames(model, len(uhs),
		func(i int) string { return uhs[i].Name },
		func(i int) []string { return []string{uhs[i].In} },
		func(i int) []string { return []string{uhs[i].Out} })
	if err != nil {
		return nil, err
	}
	o := make([]*UH, len(uhs))
	for k, i := range ix {
		o[k] = uhs[i]
	}
	return o, nil
}

// sortBuckets orders whole components the same way, a bucket's outputs and
// states both being visible to downstream components.
func sortBuckets(model string, bks []*Bucket) ([]*Bucket, error) {
	ix, err := sortByNames(model, len(bks),
		func(i int) string { return bks[i].Name },
		func(i int) []string { return bks[i].Inputs },
		func(i int) []string {
			o := append([]string{}, bks[i].Outputs...)
			return append(o, bks[i].StateNames...)
		})
	if err != nil {
		return nil, err
	}
	o := make([]*Bucket, len(bks))
	for k, i := range ix {
		o[k] = bks[i]
	}
	return o, nil
}
