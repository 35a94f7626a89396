package checker

import (
	"github.com/consensys/plonkish/constraint"
	"github.com/consensys/plonkish/field"
	"github.com/consensys/plonkish/witness"
)

type valueKind uint8

const (
	// known: a concrete field element.
	known valueKind = iota
	// missing: the evaluation read a cell that was never assigned.
	missing
	// poisoned: the evaluation read an advice or fixed cell in the rows
	// reserved for blinding, whose content carries no meaning.
	poisoned
)

// value is the tri-state domain constraints are checked over. Distinguishing
// missing from poisoned lets the checker tell "you forgot to assign this
// cell" apart from "this polynomial is enforced on rows the backend
// randomizes".
type value[E field.Element[E]] struct {
	kind valueKind
	v    E
	cell constraint.Cell // the unassigned cell, when kind == missing
}

func knownValue[E field.Element[E]](v E) value[E] {
	return value[E]{kind: known, v: v}
}

func missingValue[E field.Element[E]](cell constraint.Cell) value[E] {
	return value[E]{kind: missing, cell: cell}
}

func poisonedValue[E field.Element[E]]() value[E] {
	return value[E]{kind: poisoned}
}

// rowEvaluator folds expressions at one row of a synthesized witness.
// Rotations wrap around the matrix height; advice and fixed queries landing
// in the blinding rows come back poisoned, and queries to unassigned cells
// within the usable rows come back missing.
type rowEvaluator[E field.Element[E]] struct {
	grid   *witness.Grid[E]
	n      int
	usable int
	row    int
}

func newRowEvaluator[E field.Element[E]](grid *witness.Grid[E]) *rowEvaluator[E] {
	return &rowEvaluator[E]{grid: grid, n: grid.Rows(), usable: grid.UsableRows()}
}

func (ev *rowEvaluator[E]) rotated(rot constraint.Rotation) int {
	r := (ev.row + int(rot)) % ev.n
	if r < 0 {
		r += ev.n
	}
	return r
}

func (ev *rowEvaluator[E]) Constant(v E) value[E] { return knownValue(v) }

func (ev *rowEvaluator[E]) SelectorQuery(s constraint.Selector) value[E] {
	if ev.grid.SelectorEnabled(s.Index, ev.row) {
		return knownValue(field.One[E]())
	}
	return knownValue(field.Zero[E]())
}

func (ev *rowEvaluator[E]) AdviceQuery(q constraint.AdviceQuery[E]) value[E] {
	row := ev.rotated(q.Rotation)
	if row >= ev.usable {
		return poisonedValue[E]()
	}
	v, ok := ev.grid.Advice(q.ColumnIndex, row)
	if !ok {
		return missingValue[E](constraint.Cell{
			Column: constraint.Column{Index: q.ColumnIndex, Type: constraint.Advice},
			Row:    row,
		})
	}
	return knownValue(v)
}

func (ev *rowEvaluator[E]) FixedQuery(q constraint.FixedQuery[E]) value[E] {
	row := ev.rotated(q.Rotation)
	if row >= ev.usable {
		return poisonedValue[E]()
	}
	v, ok := ev.grid.Fixed(q.ColumnIndex, row)
	if !ok {
		return missingValue[E](constraint.Cell{
			Column: constraint.Column{Index: q.ColumnIndex, Type: constraint.Fixed},
			Row:    row,
		})
	}
	return knownValue(v)
}

func (ev *rowEvaluator[E]) InstanceQuery(q constraint.InstanceQuery[E]) value[E] {
	return knownValue(ev.grid.Instance(q.ColumnIndex, ev.rotated(q.Rotation)))
}

func (ev *rowEvaluator[E]) Negated(a value[E]) value[E] {
	if a.kind != known {
		return a
	}
	return knownValue(a.v.Neg())
}

func (ev *rowEvaluator[E]) Sum(a, b value[E]) value[E] {
	if a.kind == poisoned || b.kind == poisoned {
		return poisonedValue[E]()
	}
	if a.kind == missing {
		return a
	}
	if b.kind == missing {
		return b
	}
	return knownValue(a.v.Add(b.v))
}

// Product treats a constraint multiplied by a known zero as trivially
// satisfied: neither poisoned nor missing operands propagate past it. This is
// what lets selector-gated gates pass on rows where the selector is off, even
// though the gated cells there are unassigned or blinded.
func (ev *rowEvaluator[E]) Product(a, b value[E]) value[E] {
	if (a.kind == known && a.v.IsZero()) || (b.kind == known && b.v.IsZero()) {
		return knownValue(field.Zero[E]())
	}
	if a.kind == poisoned || b.kind == poisoned {
		return poisonedValue[E]()
	}
	if a.kind == missing {
		return a
	}
	if b.kind == missing {
		return b
	}
	return knownValue(a.v.Mul(b.v))
}

func (ev *rowEvaluator[E]) Scaled(a value[E], c E) value[E] {
	if c.IsZero() {
		return knownValue(field.Zero[E]())
	}
	if a.kind != known {
		return a
	}
	return knownValue(a.v.Mul(c))
}
