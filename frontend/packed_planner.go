package frontend

import (
	"fmt"
	"slices"

	"github.com/consensys/plonkish/constraint"
	"github.com/consensys/plonkish/field"
)

// PackedFloorPlanner measures every region before placing any: a first
// synthesis pass collects all footprints, regions are planned widest advice
// area first with first-fit on column bottoms, and a second pass replays the
// circuit against the planned starts. Circuits must therefore declare
// regions deterministically. Tables are laid out on the second pass only.
type PackedFloorPlanner[E field.Element[E]] struct{}

func (PackedFloorPlanner[E]) Synthesize(cs *constraint.System[E], assignment Assignment[E], circuit Circuit[E]) error {
	plan := &planningLayouter[E]{}
	if err := circuit.Synthesize(plan); err != nil {
		return err
	}

	order := make([]int, len(plan.shapes))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return plan.shapes[b].adviceArea() - plan.shapes[a].adviceArea()
	})

	starts := make([]int, len(plan.shapes))
	bottoms := make(map[regionColumn]int)
	for _, i := range order {
		start := 0
		for col := range plan.shapes[i].columns {
			start = max(start, bottoms[col])
		}
		starts[i] = start
		for col := range plan.shapes[i].columns {
			bottoms[col] = start + plan.shapes[i].rowCount
		}
	}

	l := &packedLayouter[E]{assignment: assignment, starts: starts}
	return circuit.Synthesize(l)
}

// planningLayouter runs the measurement pass: it records region shapes and
// ignores tables and instance constraints.
type planningLayouter[E field.Element[E]] struct {
	shapes []*regionShape[E]
}

func (l *planningLayouter[E]) AssignRegion(name string, f func(Region[E]) error) error {
	shape := newRegionShape[E]()
	if err := f(shape); err != nil {
		return err
	}
	l.shapes = append(l.shapes, shape)
	return nil
}

func (l *planningLayouter[E]) AssignTable(name string, f func(Table[E]) error) error {
	return nil
}

func (l *planningLayouter[E]) ConstrainInstance(cell constraint.Cell, c constraint.Column, row int) error {
	return nil
}

// packedLayouter replays the circuit against the planned region starts.
type packedLayouter[E field.Element[E]] struct {
	assignment   Assignment[E]
	starts       []int
	next         int
	tableColumns []constraint.Column
}

func (l *packedLayouter[E]) AssignRegion(name string, f func(Region[E]) error) error {
	if l.next >= len(l.starts) {
		return fmt.Errorf("%w: region %q not seen during planning; regions must be declared deterministically", ErrSynthesis, name)
	}
	start := l.starts[l.next]
	l.next++

	l.assignment.EnterRegion(name)
	err := f(&layouterRegion[E]{assignment: l.assignment, start: start})
	l.assignment.ExitRegion()
	return err
}

func (l *packedLayouter[E]) AssignTable(name string, f func(Table[E]) error) error {
	return assignTable(l.assignment, &l.tableColumns, name, f)
}

func (l *packedLayouter[E]) ConstrainInstance(cell constraint.Cell, c constraint.Column, row int) error {
	return constrainInstance(l.assignment, cell, c, row)
}

func constrainInstance[E field.Element[E]](assignment Assignment[E], cell constraint.Cell, c constraint.Column, row int) error {
	if c.Type != constraint.Instance {
		return fmt.Errorf("ConstrainInstance: %s is not an instance column", c)
	}
	return assignment.Copy(cell, constraint.Cell{Column: c, Row: row})
}
