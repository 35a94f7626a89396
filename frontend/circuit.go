package frontend

import (
	"github.com/consensys/plonkish/constraint"
	"github.com/consensys/plonkish/field"
)

// Circuit is the interface user circuits implement. A circuit value carries
// its own configuration (columns, selectors) as struct fields populated in
// Configure, and its witness inputs as fields read during Synthesize.
type Circuit[E field.Element[E]] interface {
	// Configure registers the circuit's columns, selectors, gates and
	// lookups on cs. It runs exactly once per shape and must not depend
	// on witness values.
	Configure(cs *constraint.System[E]) error

	// Synthesize lays out the circuit's regions and tables through the
	// layouter. It may run more than once, including with every witness
	// value unknown; it must perform the same assignments in the same
	// order regardless.
	Synthesize(l Layouter[E]) error

	// WithoutWitnesses returns a copy of the circuit with every witness
	// value stripped, for shape-only synthesis.
	WithoutWitnesses() Circuit[E]
}

// Value is a witness value that may be unknown. Absent witnesses leave cells
// unassigned instead of aborting synthesis, so shape-only runs work with the
// same circuit code and the checker can point at exactly the cells that were
// never filled.
type Value[E any] struct {
	v     E
	known bool
}

// Known returns a value carrying v.
func Known[E any](v E) Value[E] {
	return Value[E]{v: v, known: true}
}

// Unknown returns the absent value.
func Unknown[E any]() Value[E] {
	return Value[E]{}
}

// Get returns the inner value and whether it is known.
func (v Value[E]) Get() (E, bool) {
	return v.v, v.known
}

// IsKnown reports whether the value is present.
func (v Value[E]) IsKnown() bool {
	return v.known
}

// Map returns the value with f applied to it, or unknown if v is unknown.
func (v Value[E]) Map(f func(E) E) Value[E] {
	if !v.known {
		return v
	}
	return Value[E]{v: f(v.v), known: true}
}

// AssignedCell is the handle a region assignment returns: the absolute cell
// coordinates and the value placed there, if known. It is the currency of
// copy constraints between gadgets.
type AssignedCell[E field.Element[E]] struct {
	cell  constraint.Cell
	value Value[E]
}

// Cell returns the absolute coordinates of the assigned cell.
func (a AssignedCell[E]) Cell() constraint.Cell { return a.cell }

// Value returns the value assigned to the cell, if known.
func (a AssignedCell[E]) Value() Value[E] { return a.value }

// CopyAdvice assigns this cell's value into advice column c at the given
// region offset and constrains the two cells equal. The assignment and the
// copy constraint are recorded together, never one without the other.
func (a AssignedCell[E]) CopyAdvice(r Region[E], c constraint.Column, offset int) (AssignedCell[E], error) {
	dst, err := r.AssignAdvice("copy", c, offset, func() (Value[E], error) {
		return a.value, nil
	})
	if err != nil {
		return AssignedCell[E]{}, err
	}
	if err := r.ConstrainEqual(a.cell, dst.Cell()); err != nil {
		return AssignedCell[E]{}, err
	}
	return dst, nil
}
