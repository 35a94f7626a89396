package frontend

import (
	"fmt"
	"slices"

	"github.com/consensys/plonkish/constraint"
	"github.com/consensys/plonkish/field"
)

// tableColumnState tracks one table column as a table callback fills it.
// The offset-0 value doubles as the padding value for the rest of the
// column.
type tableColumnState[E field.Element[E]] struct {
	hasDefault   bool
	defaultValue Value[E]
	assigned     []bool
}

// tableLayouter collects cell assignments for one AssignTable call. Cells
// land at absolute rows equal to their offsets: table columns belong to
// their table exclusively, so tables always start at row 0.
type tableLayouter[E field.Element[E]] struct {
	assignment  Assignment[E]
	name        string
	usedColumns *[]constraint.Column
	states      map[constraint.Column]*tableColumnState[E]
}

func (t *tableLayouter[E]) AssignCell(name string, tc constraint.TableColumn, offset int, value func() (Value[E], error)) error {
	col := tc.Column
	if slices.Contains(*t.usedColumns, col) {
		return fmt.Errorf("%w: table %q: column %s already used by another table", ErrSynthesis, t.name, col)
	}
	if offset < 0 {
		return fmt.Errorf("%w: table %q: negative offset %d", ErrSynthesis, t.name, offset)
	}

	st := t.states[col]
	if st == nil {
		st = &tableColumnState[E]{}
		t.states[col] = st
	}

	var captured Value[E]
	if err := t.assignment.AssignFixed(name, col, offset, func() (Value[E], error) {
		v, err := value()
		captured = v
		return v, err
	}); err != nil {
		return err
	}

	if offset == 0 {
		if st.hasDefault {
			return fmt.Errorf("%w: table %q: offset 0 of column %s assigned twice", ErrSynthesis, t.name, col)
		}
		st.hasDefault = true
		st.defaultValue = captured
	}
	if offset >= len(st.assigned) {
		st.assigned = append(st.assigned, make([]bool, offset+1-len(st.assigned))...)
	}
	st.assigned[offset] = true
	return nil
}

// assignTable runs one table callback and finalizes the table: every column
// must be contiguously assigned from offset 0, all to the same height, and
// the remaining usable rows are padded with each column's offset-0 value.
// The columns are then retired so no other table can claim them.
func assignTable[E field.Element[E]](assignment Assignment[E], usedColumns *[]constraint.Column, name string, f func(Table[E]) error) error {
	t := &tableLayouter[E]{
		assignment:  assignment,
		name:        name,
		usedColumns: usedColumns,
		states:      make(map[constraint.Column]*tableColumnState[E]),
	}
	assignment.EnterRegion(name)
	err := f(t)
	assignment.ExitRegion()
	if err != nil {
		return err
	}
	if len(t.states) == 0 {
		return fmt.Errorf("%w: table %q assigned no columns", ErrSynthesis, name)
	}

	cols := make([]constraint.Column, 0, len(t.states))
	for col := range t.states {
		cols = append(cols, col)
	}
	slices.SortFunc(cols, func(a, b constraint.Column) int { return a.Index - b.Index })

	firstUnused := -1
	for _, col := range cols {
		st := t.states[col]
		for i, ok := range st.assigned {
			if !ok {
				return fmt.Errorf("%w: table %q: column %s has a gap at offset %d", ErrSynthesis, name, col, i)
			}
		}
		if firstUnused == -1 {
			firstUnused = len(st.assigned)
		} else if firstUnused != len(st.assigned) {
			return fmt.Errorf("%w: table %q: columns have uneven heights", ErrSynthesis, name)
		}
	}

	for _, col := range cols {
		st := t.states[col]
		*usedColumns = append(*usedColumns, col)
		if err := assignment.FillFromRow(col, firstUnused, func() (Value[E], error) {
			return st.defaultValue, nil
		}); err != nil {
			return fmt.Errorf("table %q: %w", name, err)
		}
	}
	return nil
}
