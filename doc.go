// Package plonkish provides a PLONKish arithmetization engine for zero
// knowledge proof circuits: typed columns, polynomial gates over relative
// row offsets, copy (equality) constraints and table lookups, plus a
// region based layouter and a satisfiability checker that evaluates a
// concrete witness against every constraint.
//
// A circuit is described once, during a configure phase, against
// constraint.System; it is then synthesized once per witness through
// frontend.Layouter. The checker package plays the "dev prover" role:
// it runs the full pipeline over plain field arithmetic and reports every
// violated constraint with enough context to localize the bug. The
// cryptographic commitment backend that turns a satisfied system into a
// succinct proof is deliberately out of scope; the engine only exposes
// the algebraic shape (columns, expressions, required degrees) such a
// backend needs.
//
// The engine is generic over the scalar field; see the field package and
// its bn254, bls12377 and babybear instantiations.
package plonkish

import (
	"github.com/blang/semver/v4"
)

var Version = semver.MustParse("0.1.0")
