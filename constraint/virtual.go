package constraint

import (
	"fmt"

	"github.com/consensys/plonkish/field"
)

// VirtualCells hands out column and selector queries while a gate or lookup
// callback runs. Queries are deduplicated system-wide: two gates querying
// the same column at the same rotation share a query index.
type VirtualCells[E field.Element[E]] struct {
	cs *System[E]
}

// QueryAdvice returns an expression reading advice column c at rotation at.
func (v *VirtualCells[E]) QueryAdvice(c Column, at Rotation) Expression[E] {
	if c.Type != Advice {
		panic(fmt.Sprintf("QueryAdvice on %s column %s", c.Type, c))
	}
	return AdviceQuery[E]{
		QueryIndex:  v.cs.queryAdviceIndex(c, at),
		ColumnIndex: c.Index,
		Rotation:    at,
	}
}

// QueryFixed returns an expression reading fixed column c at rotation at.
func (v *VirtualCells[E]) QueryFixed(c Column, at Rotation) Expression[E] {
	if c.Type != Fixed {
		panic(fmt.Sprintf("QueryFixed on %s column %s", c.Type, c))
	}
	return FixedQuery[E]{
		QueryIndex:  v.cs.queryFixedIndex(c, at),
		ColumnIndex: c.Index,
		Rotation:    at,
	}
}

// QueryInstance returns an expression reading instance column c at rotation
// at.
func (v *VirtualCells[E]) QueryInstance(c Column, at Rotation) Expression[E] {
	if c.Type != Instance {
		panic(fmt.Sprintf("QueryInstance on %s column %s", c.Type, c))
	}
	return InstanceQuery[E]{
		QueryIndex:  v.cs.queryInstanceIndex(c, at),
		ColumnIndex: c.Index,
		Rotation:    at,
	}
}

// QuerySelector returns an expression reading selector s as a virtual 0/1
// column.
func (v *VirtualCells[E]) QuerySelector(s Selector) Expression[E] {
	return SelectorQuery[E]{Selector: s}
}
