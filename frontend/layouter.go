package frontend

import (
	"github.com/consensys/plonkish/constraint"
	"github.com/consensys/plonkish/field"
)

// Layouter maps named regions of relative offsets onto absolute rows.
// Implementations guarantee that distinct regions never claim the same
// (column, row) pair: values travel between regions through copy constraints
// only.
type Layouter[E field.Element[E]] interface {
	// AssignRegion lays out one region. The callback may run twice: a
	// first pass measures the region's footprint with every value
	// unknown, then a second pass performs the real assignments. Advice
	// value closures are only invoked on the second pass.
	AssignRegion(name string, f func(Region[E]) error) error

	// AssignTable fills a lookup table. Each table column must be
	// assigned contiguously from offset 0, all columns to the same
	// height; the remaining rows are padded with the column's offset-0
	// value. A table column can only be assigned by a single table.
	AssignTable(name string, f func(Table[E]) error) error

	// ConstrainInstance ties an assigned cell to the instance value at
	// (c, row) through the permutation argument. Both columns must have
	// equality enabled.
	ConstrainInstance(cell constraint.Cell, c constraint.Column, row int) error
}

// Region exposes relative-offset assignments to a region callback. Offsets
// are translated to absolute rows by the layouter; offset 0 is the region's
// first row.
type Region[E field.Element[E]] interface {
	// AssignAdvice evaluates value and writes it into advice column c at
	// the given offset. The closure is not invoked during shape-only
	// passes.
	AssignAdvice(name string, c constraint.Column, offset int, value func() (Value[E], error)) (AssignedCell[E], error)

	// AssignAdviceFromInstance copies the instance value at (instance,
	// row) into advice column c at offset, recording the copy constraint
	// along with the assignment.
	AssignAdviceFromInstance(name string, instance constraint.Column, row int, c constraint.Column, offset int) (AssignedCell[E], error)

	// AssignFixed evaluates value and writes it into fixed column c at
	// the given offset. Fixed closures run on every pass: fixed values
	// are part of the shape.
	AssignFixed(name string, c constraint.Column, offset int, value func() (Value[E], error)) (AssignedCell[E], error)

	// EnableSelector turns selector s on at the given offset.
	EnableSelector(s constraint.Selector, offset int) error

	// ConstrainEqual records a copy constraint between two cells. Both
	// columns must have equality enabled.
	ConstrainEqual(left, right constraint.Cell) error
}

// Table exposes assignments to a table callback.
type Table[E field.Element[E]] interface {
	// AssignCell writes a value into table column tc at the given offset.
	// Offset 0 doubles as the column's padding value.
	AssignCell(name string, tc constraint.TableColumn, offset int, value func() (Value[E], error)) error
}

// FloorPlanner drives a circuit's Synthesize with a layouter implementing a
// region placement strategy.
type FloorPlanner[E field.Element[E]] interface {
	Synthesize(cs *constraint.System[E], assignment Assignment[E], circuit Circuit[E]) error
}

// PlannedCircuit lets a circuit pick its floor planner; circuits without the
// method use the SimpleFloorPlanner.
type PlannedCircuit[E field.Element[E]] interface {
	Circuit[E]
	FloorPlanner() FloorPlanner[E]
}
