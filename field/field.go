// Package field defines the arithmetic surface the engine expects from a
// prime scalar field.
//
// Concrete fields live in subpackages (bn254, bls12377, babybear) wrapping
// the corresponding gnark-crypto element with value semantics: operations
// return fresh elements and never mutate the receiver, and the zero value of
// a wrapper is the field's zero. The wrappers are emitted by
// field/internal/generator.
package field

import (
	"fmt"
	"math/big"
)

// Element is an element of a prime-order scalar field.
//
// New elements are derived from any value of the type, including the zero
// value, through FromUint64; generic code writes
//
//	var e E
//	one := e.FromUint64(1)
//
// or uses the NewElement helper.
type Element[E any] interface {
	Add(y E) E
	Sub(y E) E
	Mul(y E) E
	Neg() E

	// Inverse returns x⁻¹, or 0 when x is 0.
	Inverse() E

	Equal(y E) bool
	IsZero() bool
	IsOne() bool

	// FromUint64 returns a fresh element of value v, independent of the
	// receiver.
	FromUint64(v uint64) E

	// Uint64 returns the numerical value of x and whether it fits in 64
	// bits.
	Uint64() (uint64, bool)

	// Bytes returns the canonical big-endian encoding of x, fixed width
	// for a given field.
	Bytes() []byte

	// Modulus returns a copy of the field characteristic.
	Modulus() *big.Int

	fmt.Stringer
}

// NewElement returns the element of E with numerical value v.
func NewElement[E Element[E]](v uint64) E {
	var e E
	return e.FromUint64(v)
}

// Zero returns the additive identity of E.
func Zero[E Element[E]]() E {
	var e E
	return e
}

// One returns the multiplicative identity of E.
func One[E Element[E]]() E {
	var e E
	return e.FromUint64(1)
}
