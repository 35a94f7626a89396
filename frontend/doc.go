// Package frontend is the user-facing surface of the engine: circuits
// implement the Circuit interface, configure their shape against a
// constraint.System and lay out their witness through a Layouter.
//
// The layouter splits a circuit into named regions of relative offsets and a
// floor planner maps them onto disjoint absolute row blocks; circuit code
// never manipulates absolute rows directly. Witness values flow through
// Value, which may be unknown: a shape-only synthesis (key generation,
// shape inspection) runs the same circuit code with every advice value
// unknown and never invokes an advice closure.
package frontend
