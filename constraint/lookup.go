package constraint

import "github.com/consensys/plonkish/field"

// Lookup constrains tuples of input expressions to appear in a table: on
// every usable row, (Inputs[0], …, Inputs[m-1]) evaluated at that row must
// equal (Tables[0], …, Tables[m-1]) evaluated at some row. Inputs and Tables
// are paired by index and must have the same length.
type Lookup[E field.Element[E]] struct {
	Name   string
	Inputs []Expression[E]
	Tables []Expression[E]
}

// RequiredDegree returns the minimum circuit degree the proving backend's
// grand-product machinery needs to enforce this lookup.
//
// The backend compresses the m input expressions into a(X) and the m table
// expressions into s(X) with powers of a challenge θ, builds permuted copies
// a'(X), s'(X) and a running product z(X), and enforces:
//
//	l_0(X) * (1 - z(X)) = 0                                     (degree 2)
//	l_last(X) * (z(X)^2 - z(X)) = 0                             (degree 3)
//	(1 - (l_last(X) + l_blind(X))) * (
//	    z(ωX) (a'(X) + β) (s'(X) + γ)
//	  - z(X) (a(X) + β) (s(X) + γ)
//	) = 0                    (degree 2 + input_degree + table_degree, min 4)
//	l_0(X) * (a'(X) - s'(X)) = 0                                (degree 2)
//	(1 - (l_last(X) + l_blind(X))) *
//	    (a'(X) - s'(X)) * (a'(X) - a'(ω⁻¹X)) = 0                (degree 3)
//
// The third identity dominates. Both compressed expressions count as degree
// at least 1: the θ-compression queries a column even when the circuit-side
// expression is a constant. With that floor, 2+input+table is already ≥ 4;
// the outer max(4, ·) keeps the bound explicit should the floor ever change.
func (l *Lookup[E]) RequiredDegree() int {
	if len(l.Inputs) != len(l.Tables) {
		panic("lookup: input and table expression counts differ")
	}

	inputDegree := 1
	for _, e := range l.Inputs {
		inputDegree = max(inputDegree, e.Degree())
	}
	tableDegree := 1
	for _, e := range l.Tables {
		tableDegree = max(tableDegree, e.Degree())
	}

	return max(4, 2+inputDegree+tableDegree)
}
