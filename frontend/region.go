package frontend

import (
	"fmt"

	"github.com/consensys/plonkish/constraint"
	"github.com/consensys/plonkish/field"
)

// regionColumn keys the per-column packing state of a planner: a real column
// or a selector, which occupies its own virtual column.
type regionColumn struct {
	kind  uint8 // a constraint.ColumnType, or selectorKind
	index int
}

const selectorKind uint8 = 3

func columnKey(c constraint.Column) regionColumn {
	return regionColumn{kind: uint8(c.Type), index: c.Index}
}

func selectorKey(s constraint.Selector) regionColumn {
	return regionColumn{kind: selectorKind, index: s.Index}
}

// regionShape measures a region's footprint: the columns and selectors it
// touches and the number of rows it spans. No value closure is invoked, no
// constraint is recorded, and the cells it hands out carry region-relative
// placeholder rows.
type regionShape[E field.Element[E]] struct {
	columns  map[regionColumn]struct{}
	rowCount int
}

func newRegionShape[E field.Element[E]]() *regionShape[E] {
	return &regionShape[E]{columns: make(map[regionColumn]struct{})}
}

// adviceArea is the packing weight of the region: rows times touched advice
// columns.
func (r *regionShape[E]) adviceArea() int {
	advice := 0
	for col := range r.columns {
		if col.kind == uint8(constraint.Advice) {
			advice++
		}
	}
	return advice * r.rowCount
}

func (r *regionShape[E]) track(key regionColumn, offset int) error {
	if offset < 0 {
		return fmt.Errorf("negative region offset %d", offset)
	}
	r.columns[key] = struct{}{}
	r.rowCount = max(r.rowCount, offset+1)
	return nil
}

func (r *regionShape[E]) AssignAdvice(name string, c constraint.Column, offset int, value func() (Value[E], error)) (AssignedCell[E], error) {
	if c.Type != constraint.Advice {
		return AssignedCell[E]{}, fmt.Errorf("AssignAdvice on %s column %s", c.Type, c)
	}
	if err := r.track(columnKey(c), offset); err != nil {
		return AssignedCell[E]{}, err
	}
	return AssignedCell[E]{cell: constraint.Cell{Column: c, Row: offset}}, nil
}

func (r *regionShape[E]) AssignAdviceFromInstance(name string, instance constraint.Column, row int, c constraint.Column, offset int) (AssignedCell[E], error) {
	if instance.Type != constraint.Instance {
		return AssignedCell[E]{}, fmt.Errorf("AssignAdviceFromInstance from %s column %s", instance.Type, instance)
	}
	return r.AssignAdvice(name, c, offset, nil)
}

func (r *regionShape[E]) AssignFixed(name string, c constraint.Column, offset int, value func() (Value[E], error)) (AssignedCell[E], error) {
	if c.Type != constraint.Fixed {
		return AssignedCell[E]{}, fmt.Errorf("AssignFixed on %s column %s", c.Type, c)
	}
	if err := r.track(columnKey(c), offset); err != nil {
		return AssignedCell[E]{}, err
	}
	return AssignedCell[E]{cell: constraint.Cell{Column: c, Row: offset}}, nil
}

func (r *regionShape[E]) EnableSelector(s constraint.Selector, offset int) error {
	return r.track(selectorKey(s), offset)
}

func (r *regionShape[E]) ConstrainEqual(left, right constraint.Cell) error {
	// copies are recorded on the assignment pass only
	return nil
}

// layouterRegion is the assignment-pass region: offsets are translated by
// the planned start row and forwarded to the backing assignment.
type layouterRegion[E field.Element[E]] struct {
	assignment Assignment[E]
	start      int
}

func (r *layouterRegion[E]) AssignAdvice(name string, c constraint.Column, offset int, value func() (Value[E], error)) (AssignedCell[E], error) {
	row := r.start + offset
	var captured Value[E]
	err := r.assignment.AssignAdvice(name, c, row, func() (Value[E], error) {
		v, err := value()
		captured = v
		return v, err
	})
	if err != nil {
		return AssignedCell[E]{}, err
	}
	return AssignedCell[E]{cell: constraint.Cell{Column: c, Row: row}, value: captured}, nil
}

func (r *layouterRegion[E]) AssignAdviceFromInstance(name string, instance constraint.Column, row int, c constraint.Column, offset int) (AssignedCell[E], error) {
	v, known, err := r.assignment.QueryInstance(instance, row)
	if err != nil {
		return AssignedCell[E]{}, err
	}
	val := Unknown[E]()
	if known {
		val = Known(v)
	}
	cell, err := r.AssignAdvice(name, c, offset, func() (Value[E], error) {
		return val, nil
	})
	if err != nil {
		return AssignedCell[E]{}, err
	}
	if err := r.assignment.Copy(cell.Cell(), constraint.Cell{Column: instance, Row: row}); err != nil {
		return AssignedCell[E]{}, err
	}
	return cell, nil
}

func (r *layouterRegion[E]) AssignFixed(name string, c constraint.Column, offset int, value func() (Value[E], error)) (AssignedCell[E], error) {
	row := r.start + offset
	var captured Value[E]
	err := r.assignment.AssignFixed(name, c, row, func() (Value[E], error) {
		v, err := value()
		captured = v
		return v, err
	})
	if err != nil {
		return AssignedCell[E]{}, err
	}
	return AssignedCell[E]{cell: constraint.Cell{Column: c, Row: row}, value: captured}, nil
}

func (r *layouterRegion[E]) EnableSelector(s constraint.Selector, offset int) error {
	return r.assignment.EnableSelector(s, r.start+offset)
}

func (r *layouterRegion[E]) ConstrainEqual(left, right constraint.Cell) error {
	return r.assignment.Copy(left, right)
}
