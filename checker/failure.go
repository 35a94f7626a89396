package checker

import (
	"fmt"

	"github.com/consensys/plonkish/constraint"
	"github.com/consensys/plonkish/field"
)

// Failure is one reason a synthesized witness does not satisfy its circuit.
// Every concrete type carries enough location data to drive the problem
// home: which gate or lookup, which row, which cell.
type Failure interface {
	error
	isFailure()
}

// GateFailure reports a gate polynomial that evaluated to a non-zero value on
// some row.
type GateFailure[E field.Element[E]] struct {
	Gate      string
	GateIndex int
	Poly      int // index of the polynomial within the gate
	Expr      string
	Row       int
	Value     E // the offending result
}

func (f GateFailure[E]) Error() string {
	return fmt.Sprintf("gate %q: polynomial %s evaluates to %s != 0 at row %d", f.Gate, f.Expr, f.Value, f.Row)
}

// ConstraintPoisonedFailure reports a gate polynomial that does not vanish on
// the rows reserved for blinding. The usual cause is a gate without its
// selector: the backend fills those rows with random values, so nothing
// enforced there can hold.
type ConstraintPoisonedFailure struct {
	Gate      string
	GateIndex int
	Poly      int
	Expr      string
}

func (f ConstraintPoisonedFailure) Error() string {
	return fmt.Sprintf("gate %q: polynomial %s is active on a blinding row - missing selector?", f.Gate, f.Expr)
}

// UnassignedCellFailure reports a constraint that read a cell nothing ever
// assigned. Context names the reading constraint, e.g. `gate "mul"` or
// "permutation".
type UnassignedCellFailure struct {
	Cell    constraint.Cell
	Context string
	Row     int // row the constraint was checked at
}

func (f UnassignedCellFailure) Error() string {
	return fmt.Sprintf("cell %s read by %s at row %d was never assigned", f.Cell, f.Context, f.Row)
}

// LookupFailure reports an input tuple absent from its table.
type LookupFailure struct {
	Lookup string
	Index  int // index of the lookup argument in the system
	Row    int
	Inputs string // rendered input tuple
}

func (f LookupFailure) Error() string {
	return fmt.Sprintf("lookup %q: input %s at row %d not found in table", f.Lookup, f.Inputs, f.Row)
}

// PermutationFailure reports two copy-constrained cells holding different
// values.
type PermutationFailure[E field.Element[E]] struct {
	Cell, Mapped       constraint.Cell
	Value, MappedValue E
}

func (f PermutationFailure[E]) Error() string {
	return fmt.Sprintf("permutation: cell %s = %s is copy-constrained to %s = %s", f.Cell, f.Value, f.Mapped, f.MappedValue)
}

func (GateFailure[E]) isFailure()            {}
func (ConstraintPoisonedFailure) isFailure() {}
func (UnassignedCellFailure) isFailure()     {}
func (LookupFailure) isFailure()             {}
func (PermutationFailure[E]) isFailure()     {}
