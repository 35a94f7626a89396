package frontend

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/plonkish/constraint"
	"github.com/consensys/plonkish/field"
)

// Assignment is the backend a layouter writes into. The witness package
// provides the witness-bearing implementation; ShapeAssignment provides the
// shape-only one.
type Assignment[E field.Element[E]] interface {
	// EnterRegion and ExitRegion bracket the assignments of one region or
	// table, for error attribution.
	EnterRegion(name string)
	ExitRegion()

	// EnableSelector turns selector s on at an absolute row.
	EnableSelector(s constraint.Selector, row int) error

	// QueryInstance returns the instance value at (c, row) and whether it
	// is known to this assignment.
	QueryInstance(c constraint.Column, row int) (E, bool, error)

	// AssignAdvice writes a witness value at an absolute row. Shape-only
	// implementations never invoke the closure.
	AssignAdvice(name string, c constraint.Column, row int, value func() (Value[E], error)) error

	// AssignFixed writes a shape constant at an absolute row. The closure
	// runs on every implementation.
	AssignFixed(name string, c constraint.Column, row int, value func() (Value[E], error)) error

	// Copy records an equality constraint between two cells.
	Copy(left, right constraint.Cell) error

	// FillFromRow pads column c from fromRow to the end of the usable
	// rows with the given value.
	FillFromRow(c constraint.Column, fromRow int, value func() (Value[E], error)) error
}

// ShapeAssignment records everything about a circuit that is independent of
// the witness: fixed values, selector activations, table fills and the copy
// constraint cycles. Advice closures are never invoked and instance values
// are unknown. It backs key generation and shape inspection.
type ShapeAssignment[E field.Element[E]] struct {
	cs         *constraint.System[E]
	k          int
	n          int
	usableRows int

	fixed         [][]E
	fixedAssigned []*bitset.BitSet
	selectors     []*bitset.BitSet
	permutation   *constraint.Assembly

	currentRegion string
}

// NewShapeAssignment allocates a shape assignment for cs over 2^k rows.
func NewShapeAssignment[E field.Element[E]](cs *constraint.System[E], k int) (*ShapeAssignment[E], error) {
	n := 1 << k
	if n < cs.MinimumRows() {
		return nil, &NotEnoughRowsError{K: k}
	}

	a := &ShapeAssignment[E]{
		cs:            cs,
		k:             k,
		n:             n,
		usableRows:    cs.UsableRows(n),
		fixed:         make([][]E, cs.NumFixedColumns),
		fixedAssigned: make([]*bitset.BitSet, cs.NumFixedColumns),
		selectors:     make([]*bitset.BitSet, len(cs.Selectors)),
		permutation:   constraint.NewAssembly(&cs.Permutation, n),
	}
	for i := range a.fixed {
		a.fixed[i] = make([]E, n)
		a.fixedAssigned[i] = bitset.New(uint(n))
	}
	for i := range a.selectors {
		a.selectors[i] = bitset.New(uint(n))
	}
	return a, nil
}

// Rows returns the matrix height.
func (a *ShapeAssignment[E]) Rows() int { return a.n }

// UsableRows returns the number of rows available to the circuit.
func (a *ShapeAssignment[E]) UsableRows() int { return a.usableRows }

// Fixed returns the fixed value at (col, row) and whether it was assigned.
func (a *ShapeAssignment[E]) Fixed(col, row int) (E, bool) {
	return a.fixed[col][row], a.fixedAssigned[col].Test(uint(row))
}

// SelectorEnabled reports whether selector is on at row.
func (a *ShapeAssignment[E]) SelectorEnabled(selector, row int) bool {
	return a.selectors[selector].Test(uint(row))
}

// Permutation returns the copy constraint cycles recorded so far.
func (a *ShapeAssignment[E]) Permutation() *constraint.Assembly {
	return a.permutation
}

func (a *ShapeAssignment[E]) EnterRegion(name string) { a.currentRegion = name }
func (a *ShapeAssignment[E]) ExitRegion()             { a.currentRegion = "" }

func (a *ShapeAssignment[E]) EnableSelector(s constraint.Selector, row int) error {
	if row < 0 || row >= a.usableRows {
		return &NotEnoughRowsError{K: a.k}
	}
	a.selectors[s.Index].Set(uint(row))
	return nil
}

func (a *ShapeAssignment[E]) QueryInstance(c constraint.Column, row int) (E, bool, error) {
	if row < 0 || row >= a.usableRows {
		var zero E
		return zero, false, &NotEnoughRowsError{K: a.k}
	}
	var zero E
	return zero, false, nil
}

func (a *ShapeAssignment[E]) AssignAdvice(name string, c constraint.Column, row int, value func() (Value[E], error)) error {
	if row < 0 || row >= a.usableRows {
		return &NotEnoughRowsError{K: a.k}
	}
	// advice is not part of the shape
	return nil
}

func (a *ShapeAssignment[E]) AssignFixed(name string, c constraint.Column, row int, value func() (Value[E], error)) error {
	if row < 0 || row >= a.usableRows {
		return &NotEnoughRowsError{K: a.k}
	}
	v, err := value()
	if err != nil {
		return err
	}
	x, known := v.Get()
	if !known {
		// unknown fixed values stay unassigned; the checker reports them
		return nil
	}
	if a.fixedAssigned[c.Index].Test(uint(row)) && !a.fixed[c.Index][row].Equal(x) {
		return &PoisonedCellError{Cell: constraint.Cell{Column: c, Row: row}, Region: a.currentRegion}
	}
	a.fixed[c.Index][row] = x
	a.fixedAssigned[c.Index].Set(uint(row))
	return nil
}

func (a *ShapeAssignment[E]) Copy(left, right constraint.Cell) error {
	if left.Row >= a.usableRows || right.Row >= a.usableRows {
		return &NotEnoughRowsError{K: a.k}
	}
	return a.permutation.Copy(left, right)
}

func (a *ShapeAssignment[E]) FillFromRow(c constraint.Column, fromRow int, value func() (Value[E], error)) error {
	if fromRow < 0 || fromRow >= a.usableRows {
		return &NotEnoughRowsError{K: a.k}
	}
	for row := fromRow; row < a.usableRows; row++ {
		if err := a.AssignFixed("", c, row, value); err != nil {
			return err
		}
	}
	return nil
}
