package checker_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/consensys/plonkish/checker"
	"github.com/consensys/plonkish/constraint"
	"github.com/consensys/plonkish/field/babybear"
	"github.com/consensys/plonkish/frontend"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
)

type bb = babybear.Element

func known(v uint64) frontend.Value[bb] {
	return frontend.Known(babybear.NewElement(v))
}

func valueOf(v frontend.Value[bb]) func() (frontend.Value[bb], error) {
	return func() (frontend.Value[bb], error) { return v, nil }
}

func unknowns(n int) []frontend.Value[bb] {
	vals := make([]frontend.Value[bb], n)
	for i := range vals {
		vals[i] = frontend.Unknown[bb]()
	}
	return vals
}

// sumCircuit enforces x + y = z on one row per witness entry.
type sumCircuit struct {
	x, y, z constraint.Column
	sel     constraint.Selector

	X, Y, Z []frontend.Value[bb]
}

func (c *sumCircuit) Configure(cs *constraint.System[bb]) error {
	c.x = cs.AdviceColumn()
	c.y = cs.AdviceColumn()
	c.z = cs.AdviceColumn()
	c.sel = cs.Selector()
	cs.CreateGate("add", func(v *constraint.VirtualCells[bb]) []constraint.Expression[bb] {
		sel := v.QuerySelector(c.sel)
		x := v.QueryAdvice(c.x, constraint.RotationCur)
		y := v.QueryAdvice(c.y, constraint.RotationCur)
		z := v.QueryAdvice(c.z, constraint.RotationCur)
		return []constraint.Expression[bb]{
			constraint.Mul(sel, constraint.Sub(constraint.Add(x, y), z)),
		}
	})
	return nil
}

func (c *sumCircuit) Synthesize(l frontend.Layouter[bb]) error {
	return l.AssignRegion("sum", func(r frontend.Region[bb]) error {
		for i := range c.X {
			if err := r.EnableSelector(c.sel, i); err != nil {
				return err
			}
			if _, err := r.AssignAdvice("x", c.x, i, valueOf(c.X[i])); err != nil {
				return err
			}
			if _, err := r.AssignAdvice("y", c.y, i, valueOf(c.Y[i])); err != nil {
				return err
			}
			if _, err := r.AssignAdvice("z", c.z, i, valueOf(c.Z[i])); err != nil {
				return err
			}
		}
		return nil
	})
}

func (c *sumCircuit) WithoutWitnesses() frontend.Circuit[bb] {
	clone := *c
	clone.X = unknowns(len(c.X))
	clone.Y = unknowns(len(c.Y))
	clone.Z = unknowns(len(c.Z))
	return &clone
}

func TestSumGate(t *testing.T) {
	assert := require.New(t)

	prover, err := checker.Run[bb](3, &sumCircuit{
		X: []frontend.Value[bb]{known(3)},
		Y: []frontend.Value[bb]{known(4)},
		Z: []frontend.Value[bb]{known(7)},
	}, nil)
	assert.NoError(err)
	assert.NoError(prover.Verify())
	assert.Empty(prover.Failures())

	prover, err = checker.Run[bb](3, &sumCircuit{
		X: []frontend.Value[bb]{known(3)},
		Y: []frontend.Value[bb]{known(4)},
		Z: []frontend.Value[bb]{known(8)},
	}, nil)
	assert.NoError(err)
	assert.ErrorContains(prover.Verify(), "at row 0")

	failures := prover.Failures()
	assert.Len(failures, 1)
	gf, ok := failures[0].(checker.GateFailure[bb])
	assert.True(ok, "expected a gate failure, got %T", failures[0])
	assert.Equal("add", gf.Gate)
	assert.Equal(0, gf.Row)
	assert.True(gf.Value.Equal(babybear.NewElement(1).Neg()), "3 + 4 - 8 = -1")
}

func TestGateFailureRow(t *testing.T) {
	assert := require.New(t)

	circuit := &sumCircuit{
		X: []frontend.Value[bb]{known(0), known(1), known(2), known(3)},
		Y: []frontend.Value[bb]{known(1), known(2), known(3), known(4)},
		Z: []frontend.Value[bb]{known(1), known(3), known(5), known(7)},
	}
	prover, err := checker.Run[bb](4, circuit, nil)
	assert.NoError(err)
	assert.NoError(prover.Verify())

	// corrupting a single cell must flag exactly that row
	circuit.Z[2] = known(999)
	prover, err = checker.Run[bb](4, circuit, nil)
	assert.NoError(err)

	failures := prover.Failures()
	assert.Len(failures, 1)
	gf, ok := failures[0].(checker.GateFailure[bb])
	assert.True(ok, "expected a gate failure, got %T", failures[0])
	assert.Equal("add", gf.Gate)
	assert.Equal(2, gf.Row)
	assert.True(gf.Value.Equal(babybear.NewElement(5).Sub(babybear.NewElement(999))))
	assert.ErrorContains(prover.Verify(), "at row 2")
}

func TestUnassignedCell(t *testing.T) {
	assert := require.New(t)

	prover, err := checker.Run[bb](3, &sumCircuit{
		X: []frontend.Value[bb]{known(3)},
		Y: []frontend.Value[bb]{known(4)},
		Z: []frontend.Value[bb]{frontend.Unknown[bb]()},
	}, nil)
	assert.NoError(err)

	failures := prover.Failures()
	assert.Len(failures, 1)
	uf, ok := failures[0].(checker.UnassignedCellFailure)
	assert.True(ok, "a hole in the witness is not a gate failure, got %T", failures[0])
	assert.Equal(`gate "add"`, uf.Context)
	assert.Equal(0, uf.Row)
	assert.Equal(constraint.Cell{Column: constraint.Column{Index: 2, Type: constraint.Advice}, Row: 0}, uf.Cell)
	assert.ErrorContains(prover.Verify(), "was never assigned")
}

// rangeCircuit looks every witness value up in the fixed table {3, 4, 5, 6, 7}.
// Rows without an input are steered to the table's first value.
type rangeCircuit struct {
	x constraint.Column
	q constraint.Selector
	t constraint.TableColumn

	X []frontend.Value[bb]
}

func (c *rangeCircuit) Configure(cs *constraint.System[bb]) error {
	c.x = cs.AdviceColumn()
	c.q = cs.ComplexSelector()
	c.t = cs.LookupTableColumn()
	cs.Lookup("range", func(v *constraint.VirtualCells[bb]) []constraint.LookupPair[bb] {
		q := v.QuerySelector(c.q)
		x := v.QueryAdvice(c.x, constraint.RotationCur)
		one := constraint.NewConstant(babybear.NewElement(1))
		three := constraint.NewConstant(babybear.NewElement(3))
		input := constraint.Add(
			constraint.Mul(q, x),
			constraint.Mul(constraint.Sub(one, q), three),
		)
		return []constraint.LookupPair[bb]{{Input: input, Table: c.t}}
	})
	return nil
}

func (c *rangeCircuit) Synthesize(l frontend.Layouter[bb]) error {
	if err := l.AssignTable("range", func(t frontend.Table[bb]) error {
		for i := range 5 {
			v := known(uint64(3 + i))
			if err := t.AssignCell("value", c.t, i, valueOf(v)); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return err
	}
	return l.AssignRegion("inputs", func(r frontend.Region[bb]) error {
		for i := range c.X {
			if err := r.EnableSelector(c.q, i); err != nil {
				return err
			}
			if _, err := r.AssignAdvice("x", c.x, i, valueOf(c.X[i])); err != nil {
				return err
			}
		}
		return nil
	})
}

func (c *rangeCircuit) WithoutWitnesses() frontend.Circuit[bb] {
	clone := *c
	clone.X = unknowns(len(c.X))
	return &clone
}

func TestRangeLookup(t *testing.T) {
	assert := require.New(t)

	prover, err := checker.Run[bb](4, &rangeCircuit{X: []frontend.Value[bb]{known(4)}}, nil)
	assert.NoError(err)
	assert.NoError(prover.Verify())

	prover, err = checker.Run[bb](4, &rangeCircuit{X: []frontend.Value[bb]{known(0)}}, nil)
	assert.NoError(err)
	failures := prover.Failures()
	assert.Len(failures, 1)
	lf, ok := failures[0].(checker.LookupFailure)
	assert.True(ok, "expected a lookup failure, got %T", failures[0])
	assert.Equal("range", lf.Lookup)
	assert.Equal(0, lf.Row)
	assert.Equal("(0)", lf.Inputs)

	// out of range in the middle of valid rows: only that row is flagged
	prover, err = checker.Run[bb](4, &rangeCircuit{
		X: []frontend.Value[bb]{known(3), known(42), known(7)},
	}, nil)
	assert.NoError(err)
	failures = prover.Failures()
	assert.Len(failures, 1)
	lf, ok = failures[0].(checker.LookupFailure)
	assert.True(ok)
	assert.Equal(1, lf.Row)
	assert.Equal("(42)", lf.Inputs)
	assert.ErrorContains(prover.Verify(), "not found in table")
}

func TestLookupUnassignedInput(t *testing.T) {
	assert := require.New(t)

	prover, err := checker.Run[bb](4, &rangeCircuit{X: unknowns(1)}, nil)
	assert.NoError(err)

	failures := prover.Failures()
	assert.Len(failures, 1)
	uf, ok := failures[0].(checker.UnassignedCellFailure)
	assert.True(ok, "expected an unassigned cell failure, got %T", failures[0])
	assert.Equal(`lookup "range"`, uf.Context)
	assert.Equal(constraint.Cell{Column: constraint.Column{Index: 0, Type: constraint.Advice}, Row: 0}, uf.Cell)
}

// pinCircuit carries a gate without a selector: x - 5 is enforced on every
// row, blinding rows included.
type pinCircuit struct {
	x    constraint.Column
	Fill int
}

func (c *pinCircuit) Configure(cs *constraint.System[bb]) error {
	c.x = cs.AdviceColumn()
	cs.CreateGate("pin", func(v *constraint.VirtualCells[bb]) []constraint.Expression[bb] {
		x := v.QueryAdvice(c.x, constraint.RotationCur)
		five := constraint.NewConstant(babybear.NewElement(5))
		return []constraint.Expression[bb]{constraint.Sub(x, five)}
	})
	return nil
}

func (c *pinCircuit) Synthesize(l frontend.Layouter[bb]) error {
	return l.AssignRegion("pin", func(r frontend.Region[bb]) error {
		for i := range c.Fill {
			if _, err := r.AssignAdvice("x", c.x, i, valueOf(known(5))); err != nil {
				return err
			}
		}
		return nil
	})
}

func (c *pinCircuit) WithoutWitnesses() frontend.Circuit[bb] {
	clone := *c
	return &clone
}

func TestUngatedGateIsPoisoned(t *testing.T) {
	assert := require.New(t)

	// every usable row holds 5, yet the polynomial cannot vanish on the
	// blinding rows the backend randomizes
	prover, err := checker.Run[bb](3, &pinCircuit{Fill: 2}, nil)
	assert.NoError(err)
	assert.Equal(2, prover.Witness().UsableRows())

	failures := prover.Failures()
	assert.Len(failures, 1)
	pf, ok := failures[0].(checker.ConstraintPoisonedFailure)
	assert.True(ok, "expected a poisoned constraint, got %T", failures[0])
	assert.Equal("pin", pf.Gate)
	assert.ErrorContains(prover.Verify(), "missing selector?")
}

// copyCircuit ties two advice cells together through the permutation.
type copyCircuit struct {
	x, y constraint.Column

	X, Y frontend.Value[bb]
}

func (c *copyCircuit) Configure(cs *constraint.System[bb]) error {
	c.x = cs.AdviceColumn()
	c.y = cs.AdviceColumn()
	cs.EnableEquality(c.x)
	cs.EnableEquality(c.y)
	return nil
}

func (c *copyCircuit) Synthesize(l frontend.Layouter[bb]) error {
	return l.AssignRegion("tie", func(r frontend.Region[bb]) error {
		left, err := r.AssignAdvice("x", c.x, 0, valueOf(c.X))
		if err != nil {
			return err
		}
		right, err := r.AssignAdvice("y", c.y, 0, valueOf(c.Y))
		if err != nil {
			return err
		}
		return r.ConstrainEqual(left.Cell(), right.Cell())
	})
}

func (c *copyCircuit) WithoutWitnesses() frontend.Circuit[bb] {
	clone := *c
	clone.X = frontend.Unknown[bb]()
	clone.Y = frontend.Unknown[bb]()
	return &clone
}

func TestCopyConstraintMismatch(t *testing.T) {
	assert := require.New(t)

	prover, err := checker.Run[bb](3, &copyCircuit{X: known(1), Y: known(1)}, nil)
	assert.NoError(err)
	assert.NoError(prover.Verify())

	prover, err = checker.Run[bb](3, &copyCircuit{X: known(1), Y: known(2)}, nil)
	assert.NoError(err)

	// both ends of the 2-cycle report the disagreement
	failures := prover.Failures()
	assert.Len(failures, 2)
	pf, ok := failures[0].(checker.PermutationFailure[bb])
	assert.True(ok, "expected a permutation failure, got %T", failures[0])
	assert.Equal(constraint.Cell{Column: constraint.Column{Index: 0, Type: constraint.Advice}, Row: 0}, pf.Cell)
	assert.Equal(constraint.Cell{Column: constraint.Column{Index: 1, Type: constraint.Advice}, Row: 0}, pf.Mapped)
	assert.True(pf.Value.Equal(babybear.NewElement(1)))
	assert.True(pf.MappedValue.Equal(babybear.NewElement(2)))
	assert.ErrorContains(prover.Verify(), "copy-constrained")
}

// pubCircuit exposes one assigned cell as a public input.
type pubCircuit struct {
	out constraint.Column
	pi  constraint.Column

	Out frontend.Value[bb]
}

func (c *pubCircuit) Configure(cs *constraint.System[bb]) error {
	c.out = cs.AdviceColumn()
	c.pi = cs.InstanceColumn()
	cs.EnableEquality(c.out)
	cs.EnableEquality(c.pi)
	return nil
}

func (c *pubCircuit) Synthesize(l frontend.Layouter[bb]) error {
	var out frontend.AssignedCell[bb]
	if err := l.AssignRegion("load", func(r frontend.Region[bb]) error {
		var err error
		out, err = r.AssignAdvice("out", c.out, 0, valueOf(c.Out))
		return err
	}); err != nil {
		return err
	}
	return l.ConstrainInstance(out.Cell(), c.pi, 0)
}

func (c *pubCircuit) WithoutWitnesses() frontend.Circuit[bb] {
	clone := *c
	clone.Out = frontend.Unknown[bb]()
	return &clone
}

func TestInstanceConstraint(t *testing.T) {
	assert := require.New(t)

	prover, err := checker.Run[bb](3, &pubCircuit{Out: known(7)}, [][]bb{{babybear.NewElement(7)}})
	assert.NoError(err)
	assert.NoError(prover.Verify())

	prover, err = checker.Run[bb](3, &pubCircuit{Out: known(7)}, [][]bb{{babybear.NewElement(8)}})
	assert.NoError(err)

	failures := prover.Failures()
	assert.Len(failures, 2)
	pf, ok := failures[0].(checker.PermutationFailure[bb])
	assert.True(ok, "expected a permutation failure, got %T", failures[0])
	assert.Equal(constraint.Cell{Column: c0advice(), Row: 0}, pf.Cell)
	assert.Equal(constraint.Cell{Column: constraint.Column{Index: 0, Type: constraint.Instance}, Row: 0}, pf.Mapped)
	assert.True(pf.Value.Equal(babybear.NewElement(7)))
	assert.True(pf.MappedValue.Equal(babybear.NewElement(8)))
}

func c0advice() constraint.Column {
	return constraint.Column{Index: 0, Type: constraint.Advice}
}

// reassignCircuit overwrites a copied cell with a different value. The clash
// must abort synthesis, not surface as a checker failure.
type reassignCircuit struct {
	x, y constraint.Column
}

func (c *reassignCircuit) Configure(cs *constraint.System[bb]) error {
	c.x = cs.AdviceColumn()
	c.y = cs.AdviceColumn()
	cs.EnableEquality(c.x)
	cs.EnableEquality(c.y)
	return nil
}

func (c *reassignCircuit) Synthesize(l frontend.Layouter[bb]) error {
	return l.AssignRegion("clash", func(r frontend.Region[bb]) error {
		first, err := r.AssignAdvice("x", c.x, 0, valueOf(known(5)))
		if err != nil {
			return err
		}
		if _, err := first.CopyAdvice(r, c.y, 0); err != nil {
			return err
		}
		_, err = r.AssignAdvice("x", c.x, 0, valueOf(known(6)))
		return err
	})
}

func (c *reassignCircuit) WithoutWitnesses() frontend.Circuit[bb] {
	clone := *c
	return &clone
}

func TestReassignAfterCopy(t *testing.T) {
	assert := require.New(t)

	_, err := checker.Run[bb](3, &reassignCircuit{}, nil)
	var poisoned *frontend.PoisonedCellError
	assert.ErrorAs(err, &poisoned)
	assert.Equal(constraint.Cell{Column: c0advice(), Row: 0}, poisoned.Cell)
	assert.Equal("clash", poisoned.Region)
}

func TestRunErrors(t *testing.T) {
	assert := require.New(t)

	circuit := &sumCircuit{
		X: []frontend.Value[bb]{known(1)},
		Y: []frontend.Value[bb]{known(1)},
		Z: []frontend.Value[bb]{known(2)},
	}
	_, err := checker.Run[bb](2, circuit, nil)
	var tooSmall *frontend.NotEnoughRowsError
	assert.ErrorAs(err, &tooSmall)
	assert.Equal(2, tooSmall.K)

	_, err = checker.Run[bb](3, &pubCircuit{Out: known(7)}, nil)
	assert.ErrorContains(err, "expected 1 instance columns")
}

func TestRandomSums(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 40
	properties := gopter.NewProperties(parameters)

	properties.Property("field sums always satisfy the add gate", prop.ForAll(
		func(a, b uint32) bool {
			x := babybear.NewElement(uint64(a))
			y := babybear.NewElement(uint64(b))
			prover, err := checker.Run[bb](3, &sumCircuit{
				X: []frontend.Value[bb]{frontend.Known(x)},
				Y: []frontend.Value[bb]{frontend.Known(y)},
				Z: []frontend.Value[bb]{frontend.Known(x.Add(y))},
			}, nil)
			if err != nil {
				return false
			}
			return prover.Verify() == nil
		},
		gen.UInt32(),
		gen.UInt32(),
	))

	properties.Property("a corrupted sum never satisfies the add gate", prop.ForAll(
		func(a, b uint32, delta uint32) bool {
			x := babybear.NewElement(uint64(a))
			y := babybear.NewElement(uint64(b))
			bad := x.Add(y).Add(babybear.NewElement(uint64(delta)))
			prover, err := checker.Run[bb](3, &sumCircuit{
				X: []frontend.Value[bb]{frontend.Known(x)},
				Y: []frontend.Value[bb]{frontend.Known(y)},
				Z: []frontend.Value[bb]{frontend.Known(bad)},
			}, nil)
			if err != nil {
				return false
			}
			failures := prover.Failures()
			if len(failures) != 1 {
				return false
			}
			gf, ok := failures[0].(checker.GateFailure[bb])
			return ok && gf.Row == 0
		},
		gen.UInt32(),
		gen.UInt32(),
		gen.UInt32Range(1, 1<<30),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func ExampleMockProver_Verify() {
	circuit := &sumCircuit{
		X: []frontend.Value[bb]{known(3)},
		Y: []frontend.Value[bb]{known(4)},
		Z: []frontend.Value[bb]{known(8)},
	}
	prover, err := checker.Run[bb](3, circuit, nil)
	if err != nil {
		panic(err)
	}
	fmt.Println(prover.Verify())
	// Output:
	// gate "add": polynomial (s0 * ((a0 + a1) + (-a2))) evaluates to 2013265920 != 0 at row 0
}
