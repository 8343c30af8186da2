// Package expr holds the operator trees behind flux equations and compiles
// them once into closures that read named quantities from a flat argument
// slice. Trees are built either directly or with Parse, and are immutable
// once handed to a compiler.
package expr

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Node is one node of a pure-expression operator tree.
type Node interface {
	sig(b *strings.Builder)
	vars(m map[string]struct{})
}

// Num is a literal constant.
type Num float64

// Var references a named input, state or parameter.
type Var string

// Neg negates its operand.
type Neg struct{ X Node }

// Bin is a binary operation; Op is one of + - * / ^.
type Bin struct {
	Op   byte
	L, R Node
}

// Call applies a named function to its arguments.
type Call struct {
	Name string
	Args []Node
}

func (n Num) sig(b *strings.Builder) {
	b.WriteString(strconv.FormatFloat(float64(n), 'g', -1, 64))
}
func (v Var) sig(b *strings.Builder) {
	b.WriteByte('$')
	b.WriteString(string(v))
}
func (n *Neg) sig(b *strings.Builder) {
	b.WriteString("(-")
	n.X.sig(b)
	b.WriteByte(')')
}
func (n *Bin) sig(b *strings.Builder) {
	b.WriteByte('(')
	n.L.sig(b)
	b.WriteByte(n.Op)
	n.R.sig(b)
	b.WriteByte(')')
}
func (n *Call) sig(b *strings.Builder) {
	b.WriteString(n.Name)
	b.WriteByte('(')
	for i, a := range n.Args {
		if i > 0 {
			b.WriteByte(',')
		}
		a.sig(b)
	}
	b.WriteByte(')')
}

func (n Num) vars(map[string]struct{}) {}
func (v Var) vars(m map[string]struct{}) {
	m[string(v)] = struct{}{}
}
func (n *Neg) vars(m map[string]struct{}) { n.X.vars(m) }
func (n *Bin) vars(m map[string]struct{}) {
	n.L.vars(m)
	n.R.vars(m)
}
func (n *Call) vars(m map[string]struct{}) {
	for _, a := range n.Args {
		a.vars(m)
	}
}

// Signature returns a structural key unique to the tree's shape,
// used to cache compiled closures.
func Signature(n Node) string {
	var b strings.Builder
	n.sig(&b)
	return b.String()
}

// Vars lists every variable name referenced by the tree, sorted.
func Vars(n Node) []string {
	m := make(map[string]struct{})
	n.vars(m)
	o := make([]string, 0, len(m))
	for k := range m {
		o = append(o, k)
	}
	sort.Strings(o)
	return o
}

// String renders the tree for error messages and summaries.
func String(n Node) string { return Signature(n) }

func errf(format string, args ...interface{}) error {
	return fmt.Errorf(" expr: "+format, args...)
}
