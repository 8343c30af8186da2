// Package fluxnet simulates conceptual rainfall-runoff models: networks of
// mass-balance buckets whose storages evolve over discrete time steps,
// driven by forcing inputs and connected by spatial routing and
// unit-hydrograph delay stages, optionally with embedded black-box
// sub-functions.
//
// Flux equations are declared as operator trees (package expr), resolved
// into a producer-first execution order, compiled once into step functions
// and integrated forward with an explicit Euler scheme offering an in-place
// and an allocation-pure strategy. Spatial topologies (D8 grids and directed
// graphs, package topo) supply flow accumulation for the routing stage.
package fluxnet
