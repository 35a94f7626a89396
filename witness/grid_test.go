package witness_test

import (
	"testing"

	"github.com/consensys/plonkish/constraint"
	"github.com/consensys/plonkish/field/babybear"
	"github.com/consensys/plonkish/frontend"
	"github.com/consensys/plonkish/witness"
	"github.com/stretchr/testify/require"
)

type bb = babybear.Element

type fixture struct {
	cs  *constraint.System[bb]
	a   constraint.Column
	f   constraint.Column
	pi  constraint.Column
	sel constraint.Selector
}

func newFixture() fixture {
	cs := constraint.NewSystem[bb]()
	fx := fixture{
		a:   cs.AdviceColumn(),
		f:   cs.FixedColumn(),
		pi:  cs.InstanceColumn(),
		sel: cs.Selector(),
	}
	cs.EnableEquality(fx.a)
	cs.EnableEquality(fx.pi)
	cs.Freeze()
	fx.cs = &cs
	return fx
}

func known(v uint64) func() (frontend.Value[bb], error) {
	return func() (frontend.Value[bb], error) {
		return frontend.Known(babybear.NewElement(v)), nil
	}
}

func unknown() (frontend.Value[bb], error) {
	return frontend.Unknown[bb](), nil
}

func TestNewGrid(t *testing.T) {
	assert := require.New(t)
	fx := newFixture()

	// MinimumRows is 8: k=2 is too small, k=3 leaves 2 usable rows
	_, err := witness.NewGrid(fx.cs, 2, [][]bb{{}})
	var tooSmall *frontend.NotEnoughRowsError
	assert.ErrorAs(err, &tooSmall)

	g, err := witness.NewGrid(fx.cs, 3, [][]bb{{babybear.NewElement(7)}})
	assert.NoError(err)
	assert.Equal(3, g.K())
	assert.Equal(8, g.Rows())
	assert.Equal(2, g.UsableRows())

	// one instance column expected
	_, err = witness.NewGrid(fx.cs, 3, nil)
	assert.ErrorContains(err, "expected 1 instance columns")
	_, err = witness.NewGrid(fx.cs, 3, [][]bb{{}, {}})
	assert.ErrorContains(err, "expected 1 instance columns")

	// instance values beyond the usable rows do not fit
	long := make([]bb, 3)
	_, err = witness.NewGrid(fx.cs, 3, [][]bb{long})
	assert.ErrorAs(err, &tooSmall)

	// provided rows are visible, the rest reads as zero
	v := g.Instance(0, 0)
	assert.True(v.Equal(babybear.NewElement(7)))
	assert.True(g.Instance(0, 1).IsZero())
}

func TestGridAssign(t *testing.T) {
	assert := require.New(t)
	fx := newFixture()
	g, err := witness.NewGrid(fx.cs, 4, [][]bb{{}})
	assert.NoError(err)

	assert.NoError(g.AssignAdvice("x", fx.a, 0, known(3)))
	v, ok := g.Advice(fx.a.Index, 0)
	assert.True(ok)
	assert.True(v.Equal(babybear.NewElement(3)))

	_, ok = g.Advice(fx.a.Index, 1)
	assert.False(ok, "unassigned cell must read as unassigned")

	// re-assigning the same value is a no-op
	assert.NoError(g.AssignAdvice("x", fx.a, 0, known(3)))

	// a conflicting value poisons the cell
	g.EnterRegion("second")
	err = g.AssignAdvice("x", fx.a, 0, known(4))
	var poisoned *frontend.PoisonedCellError
	assert.ErrorAs(err, &poisoned)
	assert.Equal(constraint.Cell{Column: fx.a, Row: 0}, poisoned.Cell)
	assert.Equal("second", poisoned.Region)
	g.ExitRegion()

	// unknown values leave the cell untouched
	assert.NoError(g.AssignAdvice("x", fx.a, 2, unknown))
	_, ok = g.Advice(fx.a.Index, 2)
	assert.False(ok)

	// column type mismatches are rejected
	assert.ErrorContains(g.AssignAdvice("x", fx.f, 0, known(1)), "AssignAdvice on fixed column")
	assert.ErrorContains(g.AssignFixed("x", fx.a, 0, known(1)), "AssignFixed on advice column")

	// blinding rows reject assignments
	var tooSmall *frontend.NotEnoughRowsError
	assert.ErrorAs(g.AssignAdvice("x", fx.a, g.UsableRows(), known(1)), &tooSmall)
	assert.ErrorAs(g.AssignFixed("k", fx.f, g.UsableRows(), known(1)), &tooSmall)
}

func TestGridFixedAndSelectors(t *testing.T) {
	assert := require.New(t)
	fx := newFixture()
	g, err := witness.NewGrid(fx.cs, 4, [][]bb{{}})
	assert.NoError(err)

	assert.NoError(g.AssignFixed("k", fx.f, 1, known(11)))
	v, ok := g.Fixed(fx.f.Index, 1)
	assert.True(ok)
	assert.True(v.Equal(babybear.NewElement(11)))

	assert.NoError(g.EnableSelector(fx.sel, 1))
	assert.True(g.SelectorEnabled(fx.sel.Index, 1))
	assert.False(g.SelectorEnabled(fx.sel.Index, 0))

	var tooSmall *frontend.NotEnoughRowsError
	assert.ErrorAs(g.EnableSelector(fx.sel, g.UsableRows()), &tooSmall)
}

func TestGridQueryInstance(t *testing.T) {
	assert := require.New(t)
	fx := newFixture()
	g, err := witness.NewGrid(fx.cs, 4, [][]bb{{babybear.NewElement(9)}})
	assert.NoError(err)

	v, ok, err := g.QueryInstance(fx.pi, 0)
	assert.NoError(err)
	assert.True(ok, "grid instance values are known")
	assert.True(v.Equal(babybear.NewElement(9)))

	_, _, err = g.QueryInstance(fx.a, 0)
	assert.ErrorContains(err, "QueryInstance on advice column")

	var tooSmall *frontend.NotEnoughRowsError
	_, _, err = g.QueryInstance(fx.pi, g.UsableRows())
	assert.ErrorAs(err, &tooSmall)
}

func TestGridCopy(t *testing.T) {
	assert := require.New(t)
	fx := newFixture()
	g, err := witness.NewGrid(fx.cs, 4, [][]bb{{babybear.NewElement(5)}})
	assert.NoError(err)

	left := constraint.Cell{Column: fx.a, Row: 0}
	right := constraint.Cell{Column: fx.pi, Row: 0}
	assert.NoError(g.Copy(left, right))

	pos, ok := fx.cs.Permutation.ColumnPosition(fx.a)
	assert.True(ok)
	assert.Equal(right, g.Permutation().MappedCell(pos, 0))

	// the fixed column was never enabled for equality
	err = g.Copy(left, constraint.Cell{Column: fx.f, Row: 0})
	assert.ErrorIs(err, constraint.ErrColumnNotInPermutation)

	var tooSmall *frontend.NotEnoughRowsError
	assert.ErrorAs(g.Copy(left, constraint.Cell{Column: fx.pi, Row: g.UsableRows()}), &tooSmall)
}

func TestGridCellValue(t *testing.T) {
	assert := require.New(t)
	fx := newFixture()
	g, err := witness.NewGrid(fx.cs, 4, [][]bb{{babybear.NewElement(9)}})
	assert.NoError(err)

	assert.NoError(g.AssignAdvice("x", fx.a, 0, known(3)))
	assert.NoError(g.AssignFixed("k", fx.f, 0, known(11)))

	v, ok := g.CellValue(constraint.Cell{Column: fx.a, Row: 0})
	assert.True(ok)
	assert.True(v.Equal(babybear.NewElement(3)))

	v, ok = g.CellValue(constraint.Cell{Column: fx.f, Row: 0})
	assert.True(ok)
	assert.True(v.Equal(babybear.NewElement(11)))

	// instance cells are always known, zero-padded past the inputs
	v, ok = g.CellValue(constraint.Cell{Column: fx.pi, Row: 0})
	assert.True(ok)
	assert.True(v.Equal(babybear.NewElement(9)))
	v, ok = g.CellValue(constraint.Cell{Column: fx.pi, Row: 3})
	assert.True(ok)
	assert.True(v.IsZero())

	_, ok = g.CellValue(constraint.Cell{Column: fx.a, Row: 5})
	assert.False(ok)
}

func TestGridFillFromRow(t *testing.T) {
	assert := require.New(t)
	fx := newFixture()
	g, err := witness.NewGrid(fx.cs, 4, [][]bb{{}})
	assert.NoError(err)

	assert.NoError(g.FillFromRow(fx.f, 3, known(2)))
	for row := 3; row < g.UsableRows(); row++ {
		v, ok := g.Fixed(fx.f.Index, row)
		assert.True(ok, "row %d must be filled", row)
		assert.True(v.Equal(babybear.NewElement(2)))
	}
	_, ok := g.Fixed(fx.f.Index, 2)
	assert.False(ok)
	_, ok = g.Fixed(fx.f.Index, g.UsableRows())
	assert.False(ok, "the fill must stop at the usable rows")

	var tooSmall *frontend.NotEnoughRowsError
	assert.ErrorAs(g.FillFromRow(fx.f, g.UsableRows(), known(2)), &tooSmall)
}
