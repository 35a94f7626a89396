// Package constraint describes the shape of a plonkish circuit: its columns,
// selectors, polynomial gates, lookup arguments and copy constraints.
//
// A System is populated once, during circuit configuration, and then frozen;
// it never holds witness values. The frontend package drives configuration
// and synthesis, the witness package materializes assignments against a
// System, and the checker package verifies that a witness satisfies every
// constraint the System declares.
package constraint
