package checker

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/consensys/plonkish/constraint"
	"github.com/consensys/plonkish/field"
	"github.com/consensys/plonkish/frontend"
	"github.com/consensys/plonkish/logger"
	"github.com/consensys/plonkish/utils/parallel"
	"github.com/consensys/plonkish/witness"
)

// MockProver holds a configured circuit and a synthesized witness and checks
// every gate, lookup and copy constraint against it, row by row.
type MockProver[E field.Element[E]] struct {
	cs   *constraint.System[E]
	grid *witness.Grid[E]
}

// Run configures circuit, synthesizes it over a matrix of 2^k rows against
// the given instance columns, and returns a prover holding the resulting
// witness.
func Run[E field.Element[E]](k int, circuit frontend.Circuit[E], instances [][]E) (*MockProver[E], error) {
	cs, err := frontend.Configure[E](circuit)
	if err != nil {
		return nil, err
	}
	grid, err := witness.NewGrid(cs, k, instances)
	if err != nil {
		return nil, err
	}
	if err := frontend.Synthesize(cs, circuit, grid); err != nil {
		return nil, err
	}
	return &MockProver[E]{cs: cs, grid: grid}, nil
}

// System returns the configured constraint system.
func (p *MockProver[E]) System() *constraint.System[E] { return p.cs }

// Witness returns the synthesized witness grid.
func (p *MockProver[E]) Witness() *witness.Grid[E] { return p.grid }

// Verify returns nil when the witness satisfies every constraint, and
// otherwise an error joining one error per failure.
func (p *MockProver[E]) Verify() error {
	failures := p.Failures()
	if len(failures) == 0 {
		return nil
	}
	errs := make([]error, len(failures))
	for i, f := range failures {
		errs[i] = f
	}
	return errors.Join(errs...)
}

// Failures checks every constraint against the witness and returns the
// failures in a deterministic order: gate failures row-major, then lookup
// failures by argument and row, then permutation failures by column and row.
func (p *MockProver[E]) Failures() []Failure {
	log := logger.Logger()
	start := time.Now()

	var failures []Failure
	failures = append(failures, p.gateFailures()...)
	failures = append(failures, p.lookupFailures()...)
	failures = append(failures, p.permutationFailures()...)

	log.Debug().
		Dur("took", time.Since(start)).
		Int("nbFailures", len(failures)).
		Msg("circuit checked")
	return failures
}

// gateFailures evaluates every gate polynomial on all n rows, blinding rows
// included, with rotations wrapping around the matrix. Checking the blinding
// rows is what catches polynomials a selector should have turned off there.
func (p *MockProver[E]) gateFailures() []Failure {
	n := p.grid.Rows()
	perRow := make([][]Failure, n)

	parallel.Execute(0, n, func(startRow, endRow int) {
		ev := newRowEvaluator(p.grid)
		for row := startRow; row < endRow; row++ {
			ev.row = row
			for gi := range p.cs.Gates {
				gate := &p.cs.Gates[gi]
				for pi, poly := range gate.Polys {
					res := constraint.Evaluate(poly, ev)
					switch res.kind {
					case known:
						if !res.v.IsZero() {
							perRow[row] = append(perRow[row], GateFailure[E]{
								Gate:      gate.Name,
								GateIndex: gi,
								Poly:      pi,
								Expr:      poly.String(),
								Row:       row,
								Value:     res.v,
							})
						}
					case missing:
						perRow[row] = append(perRow[row], UnassignedCellFailure{
							Cell:    res.cell,
							Context: fmt.Sprintf("gate %q", gate.Name),
							Row:     row,
						})
					case poisoned:
						perRow[row] = append(perRow[row], ConstraintPoisonedFailure{
							Gate:      gate.Name,
							GateIndex: gi,
							Poly:      pi,
							Expr:      poly.String(),
						})
					}
				}
			}
		}
	})

	// merge row-major. A poisoned polynomial fails on every blinding row and
	// an unassigned cell on every row that queries it; report each once.
	var failures []Failure
	seenPoisoned := make(map[[2]int]bool)
	seenUnassigned := make(map[unassignedKey]bool)
	for _, fails := range perRow {
		for _, f := range fails {
			switch x := f.(type) {
			case ConstraintPoisonedFailure:
				key := [2]int{x.GateIndex, x.Poly}
				if seenPoisoned[key] {
					continue
				}
				seenPoisoned[key] = true
			case UnassignedCellFailure:
				key := unassignedKey{x.Context, x.Cell}
				if seenUnassigned[key] {
					continue
				}
				seenUnassigned[key] = true
			}
			failures = append(failures, f)
		}
	}
	return failures
}

type unassignedKey struct {
	context string
	cell    constraint.Cell
}

// lookupFailures checks, for each lookup argument, that the input tuple of
// every usable row appears among the table tuples. Table rows with an
// unassigned cell cannot match anything and are left out of the table.
func (p *MockProver[E]) lookupFailures() []Failure {
	usable := p.grid.UsableRows()

	var failures []Failure
	seenUnassigned := make(map[unassignedKey]bool)
	for li := range p.cs.Lookups {
		lk := &p.cs.Lookups[li]

		table := make(map[string]struct{}, usable)
		ev := newRowEvaluator(p.grid)
		for row := 0; row < usable; row++ {
			ev.row = row
			if key, ok := tupleKey(evalTuple(lk.Tables, ev)); ok {
				table[key] = struct{}{}
			}
		}

		perRow := make([][]Failure, usable)
		parallel.Execute(0, usable, func(startRow, endRow int) {
			ev := newRowEvaluator(p.grid)
			for row := startRow; row < endRow; row++ {
				ev.row = row
				vals := evalTuple(lk.Inputs, ev)
				hasMissing := false
				for _, v := range vals {
					if v.kind == missing {
						hasMissing = true
						perRow[row] = append(perRow[row], UnassignedCellFailure{
							Cell:    v.cell,
							Context: fmt.Sprintf("lookup %q", lk.Name),
							Row:     row,
						})
					}
				}
				if hasMissing {
					continue
				}
				if key, ok := tupleKey(vals); ok {
					if _, found := table[key]; found {
						continue
					}
				}
				perRow[row] = append(perRow[row], LookupFailure{
					Lookup: lk.Name,
					Index:  li,
					Row:    row,
					Inputs: tupleString(vals),
				})
			}
		})

		for _, fails := range perRow {
			for _, f := range fails {
				if x, ok := f.(UnassignedCellFailure); ok {
					key := unassignedKey{x.Context, x.Cell}
					if seenUnassigned[key] {
						continue
					}
					seenUnassigned[key] = true
				}
				failures = append(failures, f)
			}
		}
	}
	return failures
}

// permutationFailures walks the permutation mapping and checks that every
// cell holds the same value as the cell it maps to. Cells in singleton
// cycles are skipped; an unassigned cell in a non-trivial cycle is reported,
// it cannot carry a copy constraint.
func (p *MockProver[E]) permutationFailures() []Failure {
	asm := p.grid.Permutation()
	columns := asm.Columns()

	var failures []Failure
	seenUnassigned := make(map[constraint.Cell]bool)
	for ci, col := range columns {
		for row := 0; row < asm.Rows(); row++ {
			cell := constraint.Cell{Column: col, Row: row}
			mapped := asm.MappedCell(ci, row)
			if mapped == cell {
				continue
			}
			v, okV := p.grid.CellValue(cell)
			w, okW := p.grid.CellValue(mapped)
			if !okV || !okW {
				for _, unassigned := range []struct {
					cell constraint.Cell
					ok   bool
				}{{cell, okV}, {mapped, okW}} {
					if unassigned.ok || seenUnassigned[unassigned.cell] {
						continue
					}
					seenUnassigned[unassigned.cell] = true
					failures = append(failures, UnassignedCellFailure{
						Cell:    unassigned.cell,
						Context: "permutation",
						Row:     row,
					})
				}
				continue
			}
			if !v.Equal(w) {
				failures = append(failures, PermutationFailure[E]{
					Cell:        cell,
					Mapped:      mapped,
					Value:       v,
					MappedValue: w,
				})
			}
		}
	}
	return failures
}

func evalTuple[E field.Element[E]](exprs []constraint.Expression[E], ev *rowEvaluator[E]) []value[E] {
	vals := make([]value[E], len(exprs))
	for i, e := range exprs {
		vals[i] = constraint.Evaluate(e, ev)
	}
	return vals
}

// tupleKey packs a tuple of known values into a map key. Elements serialize
// to a fixed width, so plain concatenation is unambiguous.
func tupleKey[E field.Element[E]](vals []value[E]) (string, bool) {
	var b []byte
	for _, v := range vals {
		if v.kind != known {
			return "", false
		}
		b = append(b, v.v.Bytes()...)
	}
	return string(b), true
}

func tupleString[E field.Element[E]](vals []value[E]) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		switch v.kind {
		case known:
			parts[i] = v.v.String()
		case poisoned:
			parts[i] = "poisoned"
		default:
			parts[i] = "unassigned"
		}
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
