package constraint

import (
	"errors"
	"fmt"
	"slices"

	"github.com/consensys/plonkish/profile"
)

// ErrColumnNotInPermutation is returned when a copy constraint references a
// column that was never enabled for equality.
var ErrColumnNotInPermutation = errors.New("column not enabled for equality")

// Permutation is the copy-constraint argument: the ordered set of columns
// whose cells may be tied together by equality constraints.
type Permutation struct {
	Columns []Column
}

// AddColumn enables column c for equality constraints. Adding a column twice
// is a no-op.
func (p *Permutation) AddColumn(c Column) {
	if !slices.Contains(p.Columns, c) {
		p.Columns = append(p.Columns, c)
	}
}

// ColumnPosition returns the position of c in the argument, or false if c is
// not enabled for equality.
func (p *Permutation) ColumnPosition(c Column) (int, bool) {
	i := slices.Index(p.Columns, c)
	return i, i >= 0
}

// RequiredDegree returns the minimum circuit degree the proving backend needs
// to enforce this argument.
//
// The backend builds a running product z(X) over the m involved columns and
// enforces:
//
//	l_0(X) * (1 - z(X)) = 0                                     (degree 2)
//	l_last(X) * (z(X)^2 - z(X)) = 0                             (degree 3)
//	(1 - (l_last(X) + l_blind(X))) * (
//	    z(ωX) Π_i (p_i(X) + β·s_i(X) + γ)
//	  - z(X)  Π_i (p_i(X) + β·δ^i·X + γ)
//	) = 0                                            (degree 2 + m)
//
// The product over the m columns dominates as soon as m exceeds one.
func (p *Permutation) RequiredDegree() int {
	return max(3, 2+len(p.Columns))
}

// cycleRef locates a cell inside the assembly: position of its column in the
// argument, and row.
type cycleRef struct {
	col int
	row int
}

// Assembly tracks the cycle structure induced by copy constraints over the
// columns of a permutation argument. Cells start in singleton cycles; each
// Copy splices two cycles together. The mapping it converges to is what a
// proving backend turns into permutation polynomials, and what the checker
// walks to verify copied cells agree.
type Assembly struct {
	columns []Column
	n       int

	// mapping[c][r] is the next cell in the cycle of (c, r); aux[c][r] is
	// the cycle representative and sizes holds cycle sizes at the
	// representative only.
	mapping [][]cycleRef
	aux     [][]cycleRef
	sizes   [][]int
}

// NewAssembly returns the identity assembly over n rows of the permutation's
// columns: every cell in its own cycle.
func NewAssembly(p *Permutation, n int) *Assembly {
	a := &Assembly{
		columns: slices.Clone(p.Columns),
		n:       n,
		mapping: make([][]cycleRef, len(p.Columns)),
		aux:     make([][]cycleRef, len(p.Columns)),
		sizes:   make([][]int, len(p.Columns)),
	}
	for c := range a.mapping {
		a.mapping[c] = make([]cycleRef, n)
		a.aux[c] = make([]cycleRef, n)
		a.sizes[c] = make([]int, n)
		for r := 0; r < n; r++ {
			a.mapping[c][r] = cycleRef{col: c, row: r}
			a.aux[c][r] = cycleRef{col: c, row: r}
			a.sizes[c][r] = 1
		}
	}
	return a
}

// Columns returns the columns covered by the assembly, in argument order.
// The returned slice must not be mutated.
func (a *Assembly) Columns() []Column { return a.columns }

// Rows returns the number of rows the assembly covers.
func (a *Assembly) Rows() int { return a.n }

// Copy records an equality constraint between two cells. Both columns must
// be enabled for equality and both rows must be in range.
func (a *Assembly) Copy(left, right Cell) error {
	leftCol := slices.Index(a.columns, left.Column)
	if leftCol < 0 {
		return fmt.Errorf("copy %s <-> %s: %s: %w", left, right, left.Column, ErrColumnNotInPermutation)
	}
	rightCol := slices.Index(a.columns, right.Column)
	if rightCol < 0 {
		return fmt.Errorf("copy %s <-> %s: %s: %w", left, right, right.Column, ErrColumnNotInPermutation)
	}
	if left.Row < 0 || left.Row >= a.n || right.Row < 0 || right.Row >= a.n {
		return fmt.Errorf("copy %s <-> %s: row out of bounds (n=%d)", left, right, a.n)
	}

	profile.RecordConstraint()

	leftCycle := a.aux[leftCol][left.Row]
	rightCycle := a.aux[rightCol][right.Row]

	// already in the same cycle
	if leftCycle == rightCycle {
		return nil
	}

	// union by size: splice the smaller cycle into the larger one
	if a.sizes[leftCycle.col][leftCycle.row] < a.sizes[rightCycle.col][rightCycle.row] {
		leftCycle, rightCycle = rightCycle, leftCycle
	}
	a.sizes[leftCycle.col][leftCycle.row] += a.sizes[rightCycle.col][rightCycle.row]
	for i := rightCycle; ; {
		a.aux[i.col][i.row] = leftCycle
		i = a.mapping[i.col][i.row]
		if i == rightCycle {
			break
		}
	}

	a.mapping[leftCol][left.Row], a.mapping[rightCol][right.Row] =
		a.mapping[rightCol][right.Row], a.mapping[leftCol][left.Row]
	return nil
}

// MappedCell returns the cell that the cell at (column position, row) maps to
// under the permutation. Cells in singleton cycles map to themselves.
func (a *Assembly) MappedCell(columnPosition, row int) Cell {
	ref := a.mapping[columnPosition][row]
	return Cell{Column: a.columns[ref.col], Row: ref.row}
}
