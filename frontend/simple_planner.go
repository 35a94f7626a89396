package frontend

import (
	"github.com/consensys/plonkish/constraint"
	"github.com/consensys/plonkish/field"
)

// SimpleFloorPlanner places regions in declaration order: each region runs a
// measurement pass to find its footprint, then starts at the first row where
// none of its columns or selectors are already in use. Regions touching
// disjoint columns may share rows, so row blocks never overlap by
// construction.
type SimpleFloorPlanner[E field.Element[E]] struct{}

func (SimpleFloorPlanner[E]) Synthesize(cs *constraint.System[E], assignment Assignment[E], circuit Circuit[E]) error {
	l := &simpleLayouter[E]{
		cs:         cs,
		assignment: assignment,
		columns:    make(map[regionColumn]int),
	}
	return circuit.Synthesize(l)
}

type simpleLayouter[E field.Element[E]] struct {
	cs         *constraint.System[E]
	assignment Assignment[E]

	// columns maps each column or selector to its first free row
	columns map[regionColumn]int

	// tableColumns have been consumed by an AssignTable call
	tableColumns []constraint.Column
}

func (l *simpleLayouter[E]) AssignRegion(name string, f func(Region[E]) error) error {
	shape := newRegionShape[E]()
	if err := f(shape); err != nil {
		return err
	}

	// first row at which every column the region touches is free
	start := 0
	for col := range shape.columns {
		start = max(start, l.columns[col])
	}
	for col := range shape.columns {
		l.columns[col] = start + shape.rowCount
	}

	l.assignment.EnterRegion(name)
	err := f(&layouterRegion[E]{assignment: l.assignment, start: start})
	l.assignment.ExitRegion()
	return err
}

func (l *simpleLayouter[E]) AssignTable(name string, f func(Table[E]) error) error {
	return assignTable(l.assignment, &l.tableColumns, name, f)
}

func (l *simpleLayouter[E]) ConstrainInstance(cell constraint.Cell, c constraint.Column, row int) error {
	return constrainInstance(l.assignment, cell, c, row)
}
