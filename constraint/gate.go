package constraint

import "github.com/consensys/plonkish/field"

// Gate is a named family of polynomial constraints. Every polynomial must
// evaluate to zero on every row of the matrix; gates that should only apply
// to some rows are multiplied by a selector inside the gate callback.
type Gate[E field.Element[E]] struct {
	Name  string
	Polys []Expression[E]
}

// Degree returns the maximum degree of the gate's polynomials.
func (g *Gate[E]) Degree() int {
	d := 0
	for _, p := range g.Polys {
		d = max(d, p.Degree())
	}
	return d
}
