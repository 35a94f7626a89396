package constraint

import (
	"fmt"

	"github.com/consensys/plonkish/field"
)

// Expression is a multivariate polynomial over the columns of a circuit,
// represented as an immutable tree. Leaves are constants, selector queries or
// column queries at a rotation; internal nodes combine sub-expressions.
// Composing expressions never mutates the operands.
//
// The set of variants is closed: Constant, SelectorQuery, FixedQuery,
// AdviceQuery, InstanceQuery, Negated, Sum, Product and Scaled.
type Expression[E field.Element[E]] interface {
	// Degree returns the polynomial degree of the expression: 0 for a
	// constant, 1 for any query, the max of the operands for a sum and
	// their sum for a product.
	Degree() int

	fmt.Stringer

	isExpression()
}

// Constant is a literal field element.
type Constant[E field.Element[E]] struct {
	Value E
}

// SelectorQuery reads a selector as a virtual 0/1 column.
type SelectorQuery[E field.Element[E]] struct {
	Selector Selector
}

// FixedQuery reads a fixed column at a rotation. QueryIndex is the position
// of the (column, rotation) pair in System.FixedQueries.
type FixedQuery[E field.Element[E]] struct {
	QueryIndex  int
	ColumnIndex int
	Rotation    Rotation
}

// AdviceQuery reads an advice column at a rotation. QueryIndex is the
// position of the (column, rotation) pair in System.AdviceQueries.
type AdviceQuery[E field.Element[E]] struct {
	QueryIndex  int
	ColumnIndex int
	Rotation    Rotation
}

// InstanceQuery reads an instance column at a rotation. QueryIndex is the
// position of the (column, rotation) pair in System.InstanceQueries.
type InstanceQuery[E field.Element[E]] struct {
	QueryIndex  int
	ColumnIndex int
	Rotation    Rotation
}

// Negated is the additive inverse of its operand.
type Negated[E field.Element[E]] struct {
	Expr Expression[E]
}

// Sum adds two expressions.
type Sum[E field.Element[E]] struct {
	Left  Expression[E]
	Right Expression[E]
}

// Product multiplies two expressions.
type Product[E field.Element[E]] struct {
	Left  Expression[E]
	Right Expression[E]
}

// Scaled multiplies an expression by a constant.
type Scaled[E field.Element[E]] struct {
	Expr  Expression[E]
	Coeff E
}

func (Constant[E]) isExpression()      {}
func (SelectorQuery[E]) isExpression() {}
func (FixedQuery[E]) isExpression()    {}
func (AdviceQuery[E]) isExpression()   {}
func (InstanceQuery[E]) isExpression() {}
func (Negated[E]) isExpression()       {}
func (Sum[E]) isExpression()           {}
func (Product[E]) isExpression()       {}
func (Scaled[E]) isExpression()        {}

func (Constant[E]) Degree() int      { return 0 }
func (SelectorQuery[E]) Degree() int { return 1 }
func (FixedQuery[E]) Degree() int    { return 1 }
func (AdviceQuery[E]) Degree() int   { return 1 }
func (InstanceQuery[E]) Degree() int { return 1 }
func (e Negated[E]) Degree() int     { return e.Expr.Degree() }
func (e Scaled[E]) Degree() int      { return e.Expr.Degree() }

func (e Sum[E]) Degree() int {
	return max(e.Left.Degree(), e.Right.Degree())
}

func (e Product[E]) Degree() int {
	return e.Left.Degree() + e.Right.Degree()
}

func (e Constant[E]) String() string      { return e.Value.String() }
func (e SelectorQuery[E]) String() string { return e.Selector.String() }

func queryString(prefix byte, column int, rot Rotation) string {
	if rot == RotationCur {
		return fmt.Sprintf("%c%d", prefix, column)
	}
	return fmt.Sprintf("%c%d@%s", prefix, column, rot)
}

func (e FixedQuery[E]) String() string    { return queryString('f', e.ColumnIndex, e.Rotation) }
func (e AdviceQuery[E]) String() string   { return queryString('a', e.ColumnIndex, e.Rotation) }
func (e InstanceQuery[E]) String() string { return queryString('i', e.ColumnIndex, e.Rotation) }

func (e Negated[E]) String() string { return "(-" + e.Expr.String() + ")" }
func (e Sum[E]) String() string     { return "(" + e.Left.String() + " + " + e.Right.String() + ")" }
func (e Product[E]) String() string { return "(" + e.Left.String() + " * " + e.Right.String() + ")" }
func (e Scaled[E]) String() string  { return e.Coeff.String() + "*" + e.Expr.String() }

// NewConstant returns the constant expression v.
func NewConstant[E field.Element[E]](v E) Expression[E] {
	return Constant[E]{Value: v}
}

// Add returns a + b.
func Add[E field.Element[E]](a, b Expression[E]) Expression[E] {
	return Sum[E]{Left: a, Right: b}
}

// Sub returns a - b.
func Sub[E field.Element[E]](a, b Expression[E]) Expression[E] {
	return Sum[E]{Left: a, Right: Negated[E]{Expr: b}}
}

// Mul returns a * b.
func Mul[E field.Element[E]](a, b Expression[E]) Expression[E] {
	return Product[E]{Left: a, Right: b}
}

// Neg returns -a.
func Neg[E field.Element[E]](a Expression[E]) Expression[E] {
	return Negated[E]{Expr: a}
}

// Scale returns c·a for a constant c.
func Scale[E field.Element[E]](a Expression[E], c E) Expression[E] {
	return Scaled[E]{Expr: a, Coeff: c}
}

// ContainsSimpleSelector reports whether e queries a simple selector
// anywhere in its tree.
func ContainsSimpleSelector[E field.Element[E]](e Expression[E]) bool {
	switch x := e.(type) {
	case SelectorQuery[E]:
		return x.Selector.Simple
	case Negated[E]:
		return ContainsSimpleSelector[E](x.Expr)
	case Sum[E]:
		return ContainsSimpleSelector[E](x.Left) || ContainsSimpleSelector[E](x.Right)
	case Product[E]:
		return ContainsSimpleSelector[E](x.Left) || ContainsSimpleSelector[E](x.Right)
	case Scaled[E]:
		return ContainsSimpleSelector[E](x.Expr)
	default:
		return false
	}
}

// Evaluator folds an expression into values of type T, leaf to root. The
// checker instantiates it with a tri-state value domain; a backend would
// instantiate it with polynomials.
type Evaluator[E field.Element[E], T any] interface {
	Constant(v E) T
	SelectorQuery(s Selector) T
	FixedQuery(q FixedQuery[E]) T
	AdviceQuery(q AdviceQuery[E]) T
	InstanceQuery(q InstanceQuery[E]) T
	Negated(v T) T
	Sum(a, b T) T
	Product(a, b T) T
	Scaled(v T, c E) T
}

// Evaluate folds e with ev. It panics on a variant built outside this
// package.
func Evaluate[E field.Element[E], T any](e Expression[E], ev Evaluator[E, T]) T {
	switch x := e.(type) {
	case Constant[E]:
		return ev.Constant(x.Value)
	case SelectorQuery[E]:
		return ev.SelectorQuery(x.Selector)
	case FixedQuery[E]:
		return ev.FixedQuery(x)
	case AdviceQuery[E]:
		return ev.AdviceQuery(x)
	case InstanceQuery[E]:
		return ev.InstanceQuery(x)
	case Negated[E]:
		return ev.Negated(Evaluate(x.Expr, ev))
	case Sum[E]:
		return ev.Sum(Evaluate(x.Left, ev), Evaluate(x.Right, ev))
	case Product[E]:
		return ev.Product(Evaluate(x.Left, ev), Evaluate(x.Right, ev))
	case Scaled[E]:
		return ev.Scaled(Evaluate(x.Expr, ev), x.Coeff)
	default:
		panic(fmt.Sprintf("unknown expression variant %T", e))
	}
}
