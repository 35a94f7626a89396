// Package circuits contains the test circuits shared by the engine's
// integration tests: small circuits covering every constraint kind, each with
// witnesses that must satisfy it and witnesses that must not.
package circuits

import (
	"github.com/consensys/plonkish/field"
	"github.com/consensys/plonkish/frontend"
)

// Assignment pairs a fully assigned circuit with the public inputs it is
// checked against.
type Assignment[E field.Element[E]] struct {
	Circuit   frontend.Circuit[E]
	Instances [][]E
}

// TestCircuit is one corpus entry.
type TestCircuit[E field.Element[E]] struct {
	Valid   []Assignment[E]
	Invalid []Assignment[E]
}

// Entries returns the corpus instantiated over E.
func Entries[E field.Element[E]]() map[string]TestCircuit[E] {
	m := make(map[string]TestCircuit[E])
	registerAdd(m)
	registerBoolean(m)
	registerChain(m)
	registerConstants(m)
	registerRange4(m)
	registerPublicSum(m)
	registerPythagoras(m)
	return m
}

func addEntry[E field.Element[E]](m map[string]TestCircuit[E], name string, entry TestCircuit[E]) {
	if _, ok := m[name]; ok {
		panic("name " + name + " already taken by another test circuit")
	}
	m[name] = entry
}

func known[E field.Element[E]](v uint64) frontend.Value[E] {
	return frontend.Known(field.NewElement[E](v))
}

// column builds one instance column from uint64 values.
func column[E field.Element[E]](vs ...uint64) []E {
	out := make([]E, len(vs))
	for i, v := range vs {
		out[i] = field.NewElement[E](v)
	}
	return out
}
