package fluxnet

// Pre-flight validation: every simulation call is checked against the
// model's declared schema before the first timestep. Failures are typed
// SchemaErrors naming the component and the offending identifier; nothing
// here is tolerated lazily at runtime.

func (m *Model) validateSingle(in map[string][]float64, par Params, s0 map[string]float64, opts *Options) (int, error) {
	nt := -1
	for _, nm := range m.externals {
		v, ok := in[nm]
		if !ok {
			return 0, schErrf(m.Name, nm, "missing input series")
		}
		if nt < 0 {
			nt = len(v)
		} else if len(v) != nt {
			return 0, schErrf(m.Name, nm, "input length %d, expected %d", len(v), nt)
		}
	}
	if nt <= 0 {
		return 0, schErrf(m.Name, "", "no forcing supplied")
	}

	npty := 1
	if opts != nil {
		if opts.PTypeIndex != nil {
			if len(opts.PTypeIndex) != 1 {
				return 0, schErrf(m.Name, "ptyidx", "length %d, expected 1 node", len(opts.PTypeIndex))
			}
			npty = opts.PTypeIndex[0] + 1
		}
		if opts.STypeIndex != nil && len(opts.STypeIndex) != 1 {
			return 0, schErrf(m.Name, "styidx", "length %d, expected 1 node", len(opts.STypeIndex))
		}
	}

	for _, b := range m.Buckets {
		if err := checkParams(b.Name, b.ParamNames, par, npty); err != nil {
			return 0, err
		}
		if err := checkSubs(b, par); err != nil {
			return 0, err
		}
		for _, nm := range b.StateNames {
			if _, ok := s0[nm]; !ok {
				return 0, schErrf(b.Name, nm, "missing initial state")
			}
		}
	}
	if err := m.checkStages(par, npty, 1); err != nil {
		return 0, err
	}
	return nt, nil
}

func (m *Model) validateNodes(in map[string][][]float64, par Params, s0 map[string][]float64, opts *Options) (nn, nt int, err error) {
	nn, nt = -1, -1
	for _, nm := range m.externals {
		v, ok := in[nm]
		if !ok {
			return 0, 0, schErrf(m.Name, nm, "missing input series")
		}
		if nn < 0 {
			nn = len(v)
		} else if len(v) != nn {
			return 0, 0, schErrf(m.Name, nm, "input has %d nodes, expected %d", len(v), nn)
		}
		for _, s := range v {
			if nt < 0 {
				nt = len(s)
			} else if len(s) != nt {
				return 0, 0, schErrf(m.Name, nm, "input length %d, expected %d", len(s), nt)
			}
		}
	}
	if nn <= 0 || nt <= 0 {
		return 0, 0, schErrf(m.Name, "", "no forcing supplied")
	}

	npty, nsty := 1, 1
	if opts != nil {
		if opts.PTypeIndex != nil {
			if len(opts.PTypeIndex) != nn {
				return 0, 0, schErrf(m.Name, "ptyidx", "length %d, expected %d nodes", len(opts.PTypeIndex), nn)
			}
			npty = maxIdx(opts.PTypeIndex) + 1
		}
		if opts.STypeIndex != nil {
			if len(opts.STypeIndex) != nn {
				return 0, 0, schErrf(m.Name, "styidx", "length %d, expected %d nodes", len(opts.STypeIndex), nn)
			}
			nsty = maxIdx(opts.STypeIndex) + 1
		}
	}

	for _, b := range m.Buckets {
		if err := checkParams(b.Name, b.ParamNames, par, npty); err != nil {
			return 0, 0, err
		}
		if err := checkSubs(b, par); err != nil {
			return 0, 0, err
		}
		for _, nm := range b.StateNames {
			v, ok := s0[nm]
			if !ok {
				return 0, 0, schErrf(b.Name, nm, "missing initial state")
			}
			if len(v) != 1 && len(v) < nsty {
				return 0, 0, schErrf(b.Name, nm, "%d initial values for %d state types", len(v), nsty)
			}
		}
	}
	if err := m.checkStages(par, npty, nn); err != nil {
		return 0, 0, err
	}
	return nn, nt, nil
}

// checkStages validates unit-hydrograph and route parameterization.
func (m *Model) checkStages(par Params, npty, nn int) error {
	for _, u := range m.UHs {
		if err := checkParams(u.Name, u.Params, par, npty); err != nil {
			return err
		}
	}
	if m.Route != nil {
		if err := checkParams(m.Route.Name, []string{m.Route.LagParam}, par, npty); err != nil {
			return err
		}
		if m.Route.Topo.N() != nn {
			return schErrf(m.Route.Name, "topology", "%d nodes routed, %d simulated", m.Route.Topo.N(), nn)
		}
	}
	return nil
}

func checkParams(component string, names []string, par Params, npty int) error {
	for _, nm := range names {
		v, ok := par[nm]
		if !ok {
			return schErrf(component, nm, "missing parameter")
		}
		if len(v) != 1 && len(v) < npty {
			return schErrf(component, nm, "%d values for %d parameter types", len(v), npty)
		}
	}
	return nil
}

func checkSubs(b *Bucket, par Params) error {
	for _, f := range b.Fluxes {
		if f.Sub == nil {
			continue
		}
		w, ok := par[f.Name]
		if !ok {
			return schErrf(b.Name, f.Name, "missing sub-function weights")
		}
		if len(w) != f.Sub.NPar() {
			return schErrf(b.Name, f.Name, "%d weights supplied, sub-function takes %d", len(w), f.Sub.NPar())
		}
	}
	return nil
}

func maxIdx(a []int) int {
	mx := 0
	for _, v := range a {
		if v > mx {
			mx = v
		}
	}
	return mx
}
