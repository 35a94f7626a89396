package constraint

import "fmt"

// ColumnType partitions circuit columns by who provides their values.
type ColumnType uint8

const (
	// Advice columns carry private witness values assigned during synthesis.
	Advice ColumnType = iota
	// Fixed columns carry constants baked into the circuit shape.
	Fixed
	// Instance columns carry public inputs supplied per proof.
	Instance
)

func (t ColumnType) String() string {
	switch t {
	case Advice:
		return "advice"
	case Fixed:
		return "fixed"
	case Instance:
		return "instance"
	default:
		return "unknown"
	}
}

// Column identifies a column of the circuit matrix. Index counts columns of
// the same type only; (Type, Index) is the unique key.
type Column struct {
	Index int
	Type  ColumnType
}

func (c Column) String() string {
	var prefix byte
	switch c.Type {
	case Advice:
		prefix = 'a'
	case Fixed:
		prefix = 'f'
	case Instance:
		prefix = 'i'
	default:
		prefix = '?'
	}
	return fmt.Sprintf("%c%d", prefix, c.Index)
}

// Cell designates an absolute (column, row) coordinate in the circuit matrix.
type Cell struct {
	Column Column
	Row    int
}

func (c Cell) String() string {
	return fmt.Sprintf("%s[%d]", c.Column, c.Row)
}

// Selector gates the constraints that mention it on the rows where it is
// enabled. A simple selector is guaranteed never to be multiplied by anything
// other than the gate's own polynomials, which lets a backend substitute it
// freely; simple selectors are therefore rejected in lookup arguments.
type Selector struct {
	Index  int
	Simple bool
}

func (s Selector) String() string {
	return fmt.Sprintf("s%d", s.Index)
}

// TableColumn is a fixed column earmarked to hold one column of a lookup
// table. Table columns are assigned through Layouter.AssignTable exclusively
// and are padded to full height with their first value.
type TableColumn struct {
	Column Column
}

func (t TableColumn) String() string {
	return fmt.Sprintf("table(%s)", t.Column)
}
