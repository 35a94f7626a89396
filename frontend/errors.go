package frontend

import (
	"errors"
	"fmt"

	"github.com/consensys/plonkish/constraint"
)

// ErrSynthesis reports a malformed layout detected during synthesis, such as
// a lookup table with gaps or uneven column heights.
var ErrSynthesis = errors.New("synthesis failure")

// NotEnoughRowsError is returned when a circuit needs more rows than a
// matrix of 2^K provides, either because a region runs past the usable rows
// or because 2^K cannot even hold the reserved blinding rows.
type NotEnoughRowsError struct {
	K int
}

func (e *NotEnoughRowsError) Error() string {
	return fmt.Sprintf("k = %d is too small for the given circuit. try using a larger value of k", e.K)
}

// PoisonedCellError is returned when a cell that already holds a value is
// assigned a different one. Re-assigning the same value is allowed; anything
// else means two gadgets silently disagree about a shared cell and must be
// tied together with an explicit copy constraint instead.
type PoisonedCellError struct {
	Cell   constraint.Cell
	Region string
}

func (e *PoisonedCellError) Error() string {
	if e.Region != "" {
		return fmt.Sprintf("cell %s in region %q assigned twice with different values", e.Cell, e.Region)
	}
	return fmt.Sprintf("cell %s assigned twice with different values", e.Cell)
}
