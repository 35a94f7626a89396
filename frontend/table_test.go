package frontend

import (
	"testing"

	"github.com/consensys/plonkish/constraint"
	"github.com/consensys/plonkish/field/babybear"
	"github.com/stretchr/testify/require"
)

// rangeTable fills tc with the contiguous values lo..hi.
func rangeTable(tc constraint.TableColumn, lo, hi uint64) func(l Layouter[bb]) error {
	return func(l Layouter[bb]) error {
		return l.AssignTable("range", func(t Table[bb]) error {
			for v := lo; v <= hi; v++ {
				if err := t.AssignCell("value", tc, int(v-lo), func() (Value[bb], error) {
					return Known(babybear.NewElement(v)), nil
				}); err != nil {
					return err
				}
			}
			return nil
		})
	}
}

func TestAssignTable(t *testing.T) {
	assert := require.New(t)
	cs := constraint.NewSystem[bb]()
	table := cs.LookupTableColumn()
	cs.Freeze()

	rec := newRecorder(10)
	assert.NoError(SimpleFloorPlanner[bb]{}.Synthesize(&cs, rec, circuitFunc(rangeTable(table, 3, 7))))

	// rows 0..4 carry the table values, the rest is padded with the
	// offset-0 value up to the usable rows
	for i := 0; i < 5; i++ {
		v, known := rec.fixed[constraint.Cell{Column: table.Column, Row: i}].Get()
		assert.True(known)
		assert.True(v.Equal(babybear.NewElement(uint64(3 + i))))
	}
	for i := 5; i < 10; i++ {
		v, known := rec.fixed[constraint.Cell{Column: table.Column, Row: i}].Get()
		assert.True(known, "row %d should be padded", i)
		assert.True(v.Equal(babybear.NewElement(3)), "padding must repeat the offset-0 value")
	}
	assert.Equal([]fillRecord{{col: table.Column, from: 5}}, rec.fills)
	assert.Equal([]string{"range"}, rec.regions)
}

func TestAssignTableMultiColumn(t *testing.T) {
	assert := require.New(t)
	cs := constraint.NewSystem[bb]()
	keys := cs.LookupTableColumn()
	vals := cs.LookupTableColumn()
	cs.Freeze()

	rec := newRecorder(16)
	err := SimpleFloorPlanner[bb]{}.Synthesize(&cs, rec, circuitFunc(func(l Layouter[bb]) error {
		return l.AssignTable("squares", func(t Table[bb]) error {
			for i := uint64(0); i < 4; i++ {
				if err := t.AssignCell("k", keys, int(i), func() (Value[bb], error) {
					return Known(babybear.NewElement(i)), nil
				}); err != nil {
					return err
				}
				if err := t.AssignCell("v", vals, int(i), func() (Value[bb], error) {
					return Known(babybear.NewElement(i * i)), nil
				}); err != nil {
					return err
				}
			}
			return nil
		})
	}))
	assert.NoError(err)

	v, known := rec.fixed[constraint.Cell{Column: vals.Column, Row: 3}].Get()
	assert.True(known)
	assert.True(v.Equal(babybear.NewElement(9)))
	// both columns padded from the same height
	assert.Len(rec.fills, 2)
	for _, f := range rec.fills {
		assert.Equal(4, f.from)
	}
}

func TestAssignTableGap(t *testing.T) {
	cs := constraint.NewSystem[bb]()
	table := cs.LookupTableColumn()
	cs.Freeze()

	err := SimpleFloorPlanner[bb]{}.Synthesize(&cs, newRecorder(16), circuitFunc(func(l Layouter[bb]) error {
		return l.AssignTable("gappy", func(t Table[bb]) error {
			for _, offset := range []int{0, 2} {
				if err := t.AssignCell("v", table, offset, func() (Value[bb], error) {
					return Known(babybear.NewElement(1)), nil
				}); err != nil {
					return err
				}
			}
			return nil
		})
	}))
	require.ErrorIs(t, err, ErrSynthesis)
	require.ErrorContains(t, err, "gap at offset 1")
}

func TestAssignTableUnevenColumns(t *testing.T) {
	cs := constraint.NewSystem[bb]()
	short := cs.LookupTableColumn()
	long := cs.LookupTableColumn()
	cs.Freeze()

	err := SimpleFloorPlanner[bb]{}.Synthesize(&cs, newRecorder(16), circuitFunc(func(l Layouter[bb]) error {
		return l.AssignTable("uneven", func(t Table[bb]) error {
			one := func() (Value[bb], error) { return Known(babybear.NewElement(1)), nil }
			if err := t.AssignCell("s", short, 0, one); err != nil {
				return err
			}
			if err := t.AssignCell("l", long, 0, one); err != nil {
				return err
			}
			return t.AssignCell("l", long, 1, one)
		})
	}))
	require.ErrorIs(t, err, ErrSynthesis)
	require.ErrorContains(t, err, "uneven heights")
}

func TestAssignTableColumnReuse(t *testing.T) {
	cs := constraint.NewSystem[bb]()
	table := cs.LookupTableColumn()
	cs.Freeze()

	err := SimpleFloorPlanner[bb]{}.Synthesize(&cs, newRecorder(16), circuitFunc(func(l Layouter[bb]) error {
		if err := rangeTable(table, 1, 2)(l); err != nil {
			return err
		}
		// a second table claiming the same column must be rejected
		return rangeTable(table, 5, 6)(l)
	}))
	require.ErrorIs(t, err, ErrSynthesis)
	require.ErrorContains(t, err, "already used by another table")
}

func TestAssignTableDoubleDefault(t *testing.T) {
	cs := constraint.NewSystem[bb]()
	table := cs.LookupTableColumn()
	cs.Freeze()

	err := SimpleFloorPlanner[bb]{}.Synthesize(&cs, newRecorder(16), circuitFunc(func(l Layouter[bb]) error {
		return l.AssignTable("dup", func(t Table[bb]) error {
			one := func() (Value[bb], error) { return Known(babybear.NewElement(1)), nil }
			if err := t.AssignCell("v", table, 0, one); err != nil {
				return err
			}
			return t.AssignCell("v", table, 0, one)
		})
	}))
	require.ErrorIs(t, err, ErrSynthesis)
	require.ErrorContains(t, err, "assigned twice")
}

func TestAssignTableEmpty(t *testing.T) {
	cs := constraint.NewSystem[bb]()
	cs.Freeze()

	err := SimpleFloorPlanner[bb]{}.Synthesize(&cs, newRecorder(16), circuitFunc(func(l Layouter[bb]) error {
		return l.AssignTable("empty", func(t Table[bb]) error { return nil })
	}))
	require.ErrorIs(t, err, ErrSynthesis)
	require.ErrorContains(t, err, "assigned no columns")
}

func TestAssignTableNegativeOffset(t *testing.T) {
	cs := constraint.NewSystem[bb]()
	table := cs.LookupTableColumn()
	cs.Freeze()

	err := SimpleFloorPlanner[bb]{}.Synthesize(&cs, newRecorder(16), circuitFunc(func(l Layouter[bb]) error {
		return l.AssignTable("neg", func(t Table[bb]) error {
			return t.AssignCell("v", table, -1, func() (Value[bb], error) {
				return Known(babybear.NewElement(1)), nil
			})
		})
	}))
	require.ErrorIs(t, err, ErrSynthesis)
	require.ErrorContains(t, err, "negative offset")
}
