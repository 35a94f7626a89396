// Package checker provides a mock prover that synthesizes a circuit over a
// concrete witness and checks every constraint row by row.
//
// A proving backend rejects an invalid witness with a single opaque error.
// The checker instead reports which gate polynomial, lookup argument or copy
// constraint failed, on which row, and which cells were never assigned. It
// performs no cryptographic work, so it is fast enough to run on every test;
// develop circuits against it before involving a real prover.
package checker
