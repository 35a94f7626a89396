package frontend

import (
	"errors"
	"testing"

	"github.com/consensys/plonkish/constraint"
	"github.com/consensys/plonkish/field/babybear"
	"github.com/stretchr/testify/require"
)

// shapeFixture allocates a system with one of everything and a couple of
// equality columns.
func shapeFixture() (*constraint.System[bb], struct {
	a, b, f, pi constraint.Column
	sel         constraint.Selector
}) {
	cs := constraint.NewSystem[bb]()
	var cols struct {
		a, b, f, pi constraint.Column
		sel         constraint.Selector
	}
	cols.a = cs.AdviceColumn()
	cols.b = cs.AdviceColumn()
	cols.f = cs.FixedColumn()
	cols.pi = cs.InstanceColumn()
	cols.sel = cs.Selector()
	cs.EnableEquality(cols.a)
	cs.EnableEquality(cols.b)
	cs.Freeze()
	return &cs, cols
}

func TestNewShapeAssignmentTooSmall(t *testing.T) {
	cs, _ := shapeFixture()
	// MinimumRows is 8 here; 2^2 rows cannot hold the reserved rows
	_, err := NewShapeAssignment(cs, 2)
	var tooSmall *NotEnoughRowsError
	require.ErrorAs(t, err, &tooSmall)
	require.Equal(t, 2, tooSmall.K)

	a, err := NewShapeAssignment(cs, 4)
	require.NoError(t, err)
	require.Equal(t, 16, a.Rows())
	require.Equal(t, 10, a.UsableRows())
}

func TestShapeAssignmentFixed(t *testing.T) {
	assert := require.New(t)
	cs, cols := shapeFixture()
	a, err := NewShapeAssignment(cs, 4)
	assert.NoError(err)

	five := func() (Value[bb], error) { return Known(babybear.NewElement(5)), nil }
	six := func() (Value[bb], error) { return Known(babybear.NewElement(6)), nil }

	a.EnterRegion("constants")
	assert.NoError(a.AssignFixed("k", cols.f, 0, five))
	v, ok := a.Fixed(cols.f.Index, 0)
	assert.True(ok)
	assert.True(v.Equal(babybear.NewElement(5)))

	// assigning the same value again is fine
	assert.NoError(a.AssignFixed("k", cols.f, 0, five))

	// a different value poisons the cell
	err = a.AssignFixed("k", cols.f, 0, six)
	var poisoned *PoisonedCellError
	assert.ErrorAs(err, &poisoned)
	assert.Equal(constraint.Cell{Column: cols.f, Row: 0}, poisoned.Cell)
	assert.Equal("constants", poisoned.Region)
	a.ExitRegion()

	// unknown values leave the cell unassigned
	unknown := func() (Value[bb], error) { return Unknown[bb](), nil }
	assert.NoError(a.AssignFixed("k", cols.f, 1, unknown))
	_, ok = a.Fixed(cols.f.Index, 1)
	assert.False(ok)

	// rows beyond the usable range are rejected
	err = a.AssignFixed("k", cols.f, a.UsableRows(), five)
	var tooSmall *NotEnoughRowsError
	assert.ErrorAs(err, &tooSmall)
}

func TestShapeAssignmentSkipsAdviceClosures(t *testing.T) {
	assert := require.New(t)
	cs, cols := shapeFixture()
	a, err := NewShapeAssignment(cs, 4)
	assert.NoError(err)

	invoked := false
	assert.NoError(a.AssignAdvice("x", cols.a, 0, func() (Value[bb], error) {
		invoked = true
		return Known(babybear.NewElement(1)), nil
	}))
	assert.False(invoked, "advice closures must not run on shape-only synthesis")

	var tooSmall *NotEnoughRowsError
	assert.ErrorAs(a.AssignAdvice("x", cols.a, a.UsableRows(), nil), &tooSmall)
}

func TestShapeAssignmentSelectors(t *testing.T) {
	assert := require.New(t)
	cs, cols := shapeFixture()
	a, err := NewShapeAssignment(cs, 4)
	assert.NoError(err)

	assert.NoError(a.EnableSelector(cols.sel, 3))
	assert.True(a.SelectorEnabled(cols.sel.Index, 3))
	assert.False(a.SelectorEnabled(cols.sel.Index, 2))

	var tooSmall *NotEnoughRowsError
	assert.ErrorAs(a.EnableSelector(cols.sel, a.UsableRows()), &tooSmall)
}

func TestShapeAssignmentInstanceUnknown(t *testing.T) {
	assert := require.New(t)
	cs, cols := shapeFixture()
	a, err := NewShapeAssignment(cs, 4)
	assert.NoError(err)

	_, known, err := a.QueryInstance(cols.pi, 0)
	assert.NoError(err)
	assert.False(known, "shape synthesis must not see instance values")

	_, _, err = a.QueryInstance(cols.pi, a.UsableRows())
	var tooSmall *NotEnoughRowsError
	assert.ErrorAs(err, &tooSmall)
}

func TestShapeAssignmentCopies(t *testing.T) {
	assert := require.New(t)
	cs, cols := shapeFixture()
	a, err := NewShapeAssignment(cs, 4)
	assert.NoError(err)

	left := constraint.Cell{Column: cols.a, Row: 0}
	right := constraint.Cell{Column: cols.b, Row: 3}
	assert.NoError(a.Copy(left, right))

	asm := a.Permutation()
	pos, ok := cs.Permutation.ColumnPosition(cols.a)
	assert.True(ok)
	assert.Equal(right, asm.MappedCell(pos, 0))

	// fixed column was never enabled for equality
	err = a.Copy(left, constraint.Cell{Column: cols.f, Row: 0})
	assert.ErrorIs(err, constraint.ErrColumnNotInPermutation)

	var tooSmall *NotEnoughRowsError
	assert.ErrorAs(a.Copy(left, constraint.Cell{Column: cols.b, Row: a.UsableRows()}), &tooSmall)
}

func TestShapeAssignmentFillFromRow(t *testing.T) {
	assert := require.New(t)
	cs, cols := shapeFixture()
	a, err := NewShapeAssignment(cs, 4)
	assert.NoError(err)

	nine := func() (Value[bb], error) { return Known(babybear.NewElement(9)), nil }
	assert.NoError(a.FillFromRow(cols.f, 2, nine))

	for row := 2; row < a.UsableRows(); row++ {
		v, ok := a.Fixed(cols.f.Index, row)
		assert.True(ok, "row %d must be filled", row)
		assert.True(v.Equal(babybear.NewElement(9)))
	}
	_, ok := a.Fixed(cols.f.Index, 1)
	assert.False(ok, "rows before fromRow stay untouched")
	_, ok = a.Fixed(cols.f.Index, a.UsableRows())
	assert.False(ok, "blinding rows stay untouched")

	var tooSmall *NotEnoughRowsError
	assert.ErrorAs(a.FillFromRow(cols.f, a.UsableRows(), nine), &tooSmall)
}

func TestValue(t *testing.T) {
	assert := require.New(t)

	u := Unknown[bb]()
	assert.False(u.IsKnown())
	_, known := u.Get()
	assert.False(known)

	k := Known(babybear.NewElement(3))
	assert.True(k.IsKnown())
	v, known := k.Get()
	assert.True(known)
	assert.True(v.Equal(babybear.NewElement(3)))

	doubled := k.Map(func(x bb) bb { return x.Add(x) })
	v, _ = doubled.Get()
	assert.True(v.Equal(babybear.NewElement(6)))

	still := u.Map(func(x bb) bb { return x.Add(x) })
	assert.False(still.IsKnown())
}

func TestNotEnoughRowsErrorMessage(t *testing.T) {
	err := &NotEnoughRowsError{K: 4}
	require.Contains(t, err.Error(), "k = 4")

	var poisoned error = &PoisonedCellError{Cell: constraint.Cell{Column: constraint.Column{Index: 1, Type: constraint.Advice}, Row: 7}, Region: "load"}
	require.Contains(t, poisoned.Error(), `region "load"`)
	require.Contains(t, poisoned.Error(), "a1[7]")

	if !errors.As(poisoned, new(*PoisonedCellError)) {
		t.Fatal("PoisonedCellError must be matchable with errors.As")
	}
}
