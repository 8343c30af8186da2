package fluxnet

import "fmt"

// DefinitionError marks an unrecoverable fault in a flux/component
// definition: cyclic dependencies, duplicate outputs, malformed expressions.
// Raised at construction, never per-timestep.
type DefinitionError struct {
	Component string
	Reason    string
}

func (e *DefinitionError) Error() string {
	return fmt.Sprintf(" %s: definition error: %s", e.Component, e.Reason)
}

func defErrf(component, format string, args ...interface{}) error {
	return &DefinitionError{Component: component, Reason: fmt.Sprintf(format, args...)}
}

// SchemaError marks a mismatch between a component's declared schema and the
// containers supplied to a simulation call. Raised by the pre-flight
// validation before any timestep executes.
type SchemaError struct {
	Component string
	Ident     string
	Reason    string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf(" %s: schema error on %q: %s", e.Component, e.Ident, e.Reason)
}

func schErrf(component, ident, format string, args ...interface{}) error {
	return &SchemaError{Component: component, Ident: ident, Reason: fmt.Sprintf(format, args...)}
}
