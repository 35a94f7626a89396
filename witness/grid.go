// Package witness materializes assignments against a circuit shape: the full
// matrix of fixed, advice and instance values at height 2^k, the selector
// bitmaps and the copy-constraint cycles recorded during synthesis.
package witness

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/plonkish/constraint"
	"github.com/consensys/plonkish/field"
	"github.com/consensys/plonkish/frontend"
)

// column is one witness column: dense values plus an assigned bitmap. A row
// whose bit is clear was never assigned; its value slot is meaningless.
type column[E field.Element[E]] struct {
	values   []E
	assigned *bitset.BitSet
}

// Grid is the witness-bearing assignment backend. It records every value a
// synthesis writes, rejects conflicting re-assignments, and exposes the
// resulting matrix to the checker. Grid implements frontend.Assignment.
//
// Rows at or past UsableRows are reserved for the proving backend's blinding
// values and reject assignments.
type Grid[E field.Element[E]] struct {
	cs         *constraint.System[E]
	k          int
	n          int
	usableRows int

	fixed    []column[E]
	advice   []column[E]
	instance [][]E

	selectors   []*bitset.BitSet
	permutation *constraint.Assembly

	currentRegion string
}

// NewGrid allocates the matrix for cs at height 2^k and seeds the instance
// columns with the provided values. Instance columns shorter than the usable
// rows are padded with zeros; longer ones do not fit.
func NewGrid[E field.Element[E]](cs *constraint.System[E], k int, instances [][]E) (*Grid[E], error) {
	n := 1 << k
	if n < cs.MinimumRows() {
		return nil, &frontend.NotEnoughRowsError{K: k}
	}
	if len(instances) != cs.NumInstanceColumns {
		return nil, fmt.Errorf("expected %d instance columns, got %d", cs.NumInstanceColumns, len(instances))
	}
	usable := cs.UsableRows(n)

	g := &Grid[E]{
		cs:          cs,
		k:           k,
		n:           n,
		usableRows:  usable,
		fixed:       make([]column[E], cs.NumFixedColumns),
		advice:      make([]column[E], cs.NumAdviceColumns),
		instance:    make([][]E, cs.NumInstanceColumns),
		selectors:   make([]*bitset.BitSet, len(cs.Selectors)),
		permutation: constraint.NewAssembly(&cs.Permutation, n),
	}
	for i := range g.fixed {
		g.fixed[i] = column[E]{values: make([]E, n), assigned: bitset.New(uint(n))}
	}
	for i := range g.advice {
		g.advice[i] = column[E]{values: make([]E, n), assigned: bitset.New(uint(n))}
	}
	for i, values := range instances {
		if len(values) > usable {
			return nil, &frontend.NotEnoughRowsError{K: k}
		}
		padded := make([]E, n)
		copy(padded, values)
		g.instance[i] = padded
	}
	for i := range g.selectors {
		g.selectors[i] = bitset.New(uint(n))
	}
	return g, nil
}

// K returns the log2 of the matrix height.
func (g *Grid[E]) K() int { return g.k }

// Rows returns the matrix height n = 2^K.
func (g *Grid[E]) Rows() int { return g.n }

// UsableRows returns the number of rows available to the circuit.
func (g *Grid[E]) UsableRows() int { return g.usableRows }

// Advice returns the advice value at (col, row) and whether it was assigned.
func (g *Grid[E]) Advice(col, row int) (E, bool) {
	c := &g.advice[col]
	return c.values[row], c.assigned.Test(uint(row))
}

// Fixed returns the fixed value at (col, row) and whether it was assigned.
func (g *Grid[E]) Fixed(col, row int) (E, bool) {
	c := &g.fixed[col]
	return c.values[row], c.assigned.Test(uint(row))
}

// Instance returns the instance value at (col, row). Instance values are
// always known; rows past the provided values read as zero.
func (g *Grid[E]) Instance(col, row int) E {
	return g.instance[col][row]
}

// SelectorEnabled reports whether selector is on at row.
func (g *Grid[E]) SelectorEnabled(selector, row int) bool {
	return g.selectors[selector].Test(uint(row))
}

// Permutation returns the copy-constraint cycles recorded during synthesis.
func (g *Grid[E]) Permutation() *constraint.Assembly {
	return g.permutation
}

// CellValue returns the value at an absolute cell and whether it was
// assigned, for any column type.
func (g *Grid[E]) CellValue(cell constraint.Cell) (E, bool) {
	switch cell.Column.Type {
	case constraint.Advice:
		return g.Advice(cell.Column.Index, cell.Row)
	case constraint.Fixed:
		return g.Fixed(cell.Column.Index, cell.Row)
	case constraint.Instance:
		return g.instance[cell.Column.Index][cell.Row], true
	default:
		panic(fmt.Sprintf("unknown column type %d", cell.Column.Type))
	}
}

func (g *Grid[E]) EnterRegion(name string) { g.currentRegion = name }
func (g *Grid[E]) ExitRegion()             { g.currentRegion = "" }

func (g *Grid[E]) EnableSelector(s constraint.Selector, row int) error {
	if row < 0 || row >= g.usableRows {
		return &frontend.NotEnoughRowsError{K: g.k}
	}
	g.selectors[s.Index].Set(uint(row))
	return nil
}

func (g *Grid[E]) QueryInstance(c constraint.Column, row int) (E, bool, error) {
	var zero E
	if c.Type != constraint.Instance {
		return zero, false, fmt.Errorf("QueryInstance on %s column %s", c.Type, c)
	}
	if row < 0 || row >= g.usableRows {
		return zero, false, &frontend.NotEnoughRowsError{K: g.k}
	}
	return g.instance[c.Index][row], true, nil
}

func (g *Grid[E]) AssignAdvice(name string, c constraint.Column, row int, value func() (frontend.Value[E], error)) error {
	if c.Type != constraint.Advice {
		return fmt.Errorf("AssignAdvice on %s column %s", c.Type, c)
	}
	return g.assign(g.advice, c, row, value)
}

func (g *Grid[E]) AssignFixed(name string, c constraint.Column, row int, value func() (frontend.Value[E], error)) error {
	if c.Type != constraint.Fixed {
		return fmt.Errorf("AssignFixed on %s column %s", c.Type, c)
	}
	return g.assign(g.fixed, c, row, value)
}

// assign writes one cell. Unknown values leave the cell unassigned so the
// checker can report exactly the cells a partial witness missed; writing a
// different value over an assigned cell poisons it.
func (g *Grid[E]) assign(cols []column[E], c constraint.Column, row int, value func() (frontend.Value[E], error)) error {
	if row < 0 || row >= g.usableRows {
		return &frontend.NotEnoughRowsError{K: g.k}
	}
	v, err := value()
	if err != nil {
		return err
	}
	x, known := v.Get()
	if !known {
		return nil
	}
	col := &cols[c.Index]
	if col.assigned.Test(uint(row)) && !col.values[row].Equal(x) {
		return &frontend.PoisonedCellError{Cell: constraint.Cell{Column: c, Row: row}, Region: g.currentRegion}
	}
	col.values[row] = x
	col.assigned.Set(uint(row))
	return nil
}

func (g *Grid[E]) Copy(left, right constraint.Cell) error {
	if left.Row < 0 || left.Row >= g.usableRows || right.Row < 0 || right.Row >= g.usableRows {
		return &frontend.NotEnoughRowsError{K: g.k}
	}
	return g.permutation.Copy(left, right)
}

func (g *Grid[E]) FillFromRow(c constraint.Column, fromRow int, value func() (frontend.Value[E], error)) error {
	if fromRow < 0 || fromRow >= g.usableRows {
		return &frontend.NotEnoughRowsError{K: g.k}
	}
	for row := fromRow; row < g.usableRows; row++ {
		if err := g.AssignFixed("", c, row, value); err != nil {
			return err
		}
	}
	return nil
}
