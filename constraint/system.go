package constraint

import (
	"fmt"
	"math/big"
	"slices"

	"github.com/blang/semver/v4"
	"github.com/consensys/plonkish"
	"github.com/consensys/plonkish/field"
	"github.com/consensys/plonkish/logger"
	"github.com/consensys/plonkish/profile"
)

// Query is a deduplicated (column, rotation) pair. Expressions reference
// queries by their index in the per-type query list of the System.
type Query struct {
	Column   Column
	Rotation Rotation
}

func (q Query) String() string {
	return fmt.Sprintf("%s@%s", q.Column, q.Rotation)
}

// System is the shape of a circuit: its columns, selectors, gates, lookup
// arguments and copy-constraint columns, together with the deduplicated
// column queries the expressions reference. It carries no witness values.
//
// A System is populated single-threaded during Configure and sealed with
// Freeze before any witness work starts; every registration method panics on
// a frozen system. The zero value is not usable, call NewSystem.
type System[E field.Element[E]] struct {
	// serialization header
	PlonkishVersion string
	ScalarField     string

	NumFixedColumns    int
	NumAdviceColumns   int
	NumInstanceColumns int

	Selectors []Selector

	Gates   []Gate[E]
	Lookups []Lookup[E]

	// deduplicated queries in first-use order; serialized in a dedicated
	// binary section, not in the CBOR body
	FixedQueries    []Query `cbor:"-"`
	AdviceQueries   []Query `cbor:"-"`
	InstanceQueries []Query `cbor:"-"`

	// distinct rotations queried per advice column; rebuilt on
	// deserialization, drives BlindingFactors
	AdviceQueryCounts []int `cbor:"-"`

	Permutation Permutation

	q      *big.Int
	bitLen int
	frozen bool
}

// NewSystem initializes an empty system over the scalar field of E.
func NewSystem[E field.Element[E]]() System[E] {
	var e E
	q := e.Modulus()
	return System[E]{
		PlonkishVersion: plonkish.Version.String(),
		ScalarField:     q.Text(16),
		q:               q,
		bitLen:          q.BitLen(),
	}
}

// Field returns a copy of the modulus of the scalar field the system is
// defined over.
func (cs *System[E]) Field() *big.Int {
	return new(big.Int).Set(cs.q)
}

// FieldBitLen returns the number of bits needed to represent an element of
// the scalar field.
func (cs *System[E]) FieldBitLen() int { return cs.bitLen }

// Freeze seals the system; any further registration panics. Freeze is called
// by the frontend once Configure returns, and is idempotent.
func (cs *System[E]) Freeze() { cs.frozen = true }

// Frozen reports whether the system is sealed.
func (cs *System[E]) Frozen() bool { return cs.frozen }

func (cs *System[E]) mustBeOpen() {
	if cs.frozen {
		panic("constraint system is frozen: columns, gates and lookups must be registered during Configure")
	}
}

// AdviceColumn allocates a new advice column.
func (cs *System[E]) AdviceColumn() Column {
	cs.mustBeOpen()
	c := Column{Index: cs.NumAdviceColumns, Type: Advice}
	cs.NumAdviceColumns++
	cs.AdviceQueryCounts = append(cs.AdviceQueryCounts, 0)
	return c
}

// FixedColumn allocates a new fixed column.
func (cs *System[E]) FixedColumn() Column {
	cs.mustBeOpen()
	c := Column{Index: cs.NumFixedColumns, Type: Fixed}
	cs.NumFixedColumns++
	return c
}

// InstanceColumn allocates a new instance column.
func (cs *System[E]) InstanceColumn() Column {
	cs.mustBeOpen()
	c := Column{Index: cs.NumInstanceColumns, Type: Instance}
	cs.NumInstanceColumns++
	return c
}

// Selector allocates a simple selector. Simple selectors may gate gate
// polynomials but cannot appear in lookup expressions; see ComplexSelector.
func (cs *System[E]) Selector() Selector {
	cs.mustBeOpen()
	s := Selector{Index: len(cs.Selectors), Simple: true}
	cs.Selectors = append(cs.Selectors, s)
	return s
}

// ComplexSelector allocates a selector that may appear in arbitrary
// expressions, including lookup inputs.
func (cs *System[E]) ComplexSelector() Selector {
	cs.mustBeOpen()
	s := Selector{Index: len(cs.Selectors), Simple: false}
	cs.Selectors = append(cs.Selectors, s)
	return s
}

// LookupTableColumn allocates a fixed column reserved for one column of a
// lookup table.
func (cs *System[E]) LookupTableColumn() TableColumn {
	return TableColumn{Column: cs.FixedColumn()}
}

// EnableEquality allows cells of column c to participate in copy constraints.
func (cs *System[E]) EnableEquality(c Column) {
	cs.mustBeOpen()
	cs.Permutation.AddColumn(c)
}

// CreateGate registers a named gate. The callback receives a VirtualCells to
// query columns and selectors, and returns the polynomials the gate
// enforces; each one must evaluate to zero on every row of the matrix, so
// gates that only apply to some rows multiply by a selector. CreateGate
// panics if the callback returns no polynomials.
func (cs *System[E]) CreateGate(name string, f func(*VirtualCells[E]) []Expression[E]) {
	cs.mustBeOpen()
	polys := f(&VirtualCells[E]{cs: cs})
	if len(polys) == 0 {
		panic(fmt.Sprintf("gate %q returned no polynomial constraints", name))
	}
	for range polys {
		profile.RecordConstraint()
	}
	cs.Gates = append(cs.Gates, Gate[E]{Name: name, Polys: polys})
}

// LookupPair couples one input expression with the table column its values
// must come from.
type LookupPair[E field.Element[E]] struct {
	Input Expression[E]
	Table TableColumn
}

// Lookup registers a named lookup argument. The callback returns
// (input expression, table column) pairs; on every usable row the tuple of
// inputs must match some row of the tuple of table columns. Input
// expressions must not query simple selectors; gate a lookup input with a
// ComplexSelector instead. Lookup panics on an empty pair list.
func (cs *System[E]) Lookup(name string, f func(*VirtualCells[E]) []LookupPair[E]) {
	cs.mustBeOpen()
	v := &VirtualCells[E]{cs: cs}
	pairs := f(v)
	if len(pairs) == 0 {
		panic(fmt.Sprintf("lookup %q returned no pairs", name))
	}
	lk := Lookup[E]{
		Name:   name,
		Inputs: make([]Expression[E], 0, len(pairs)),
		Tables: make([]Expression[E], 0, len(pairs)),
	}
	for _, p := range pairs {
		if ContainsSimpleSelector[E](p.Input) {
			panic(fmt.Sprintf("lookup %q: input expression queries a simple selector", name))
		}
		profile.RecordConstraint()
		lk.Inputs = append(lk.Inputs, p.Input)
		lk.Tables = append(lk.Tables, v.QueryFixed(p.Table.Column, RotationCur))
	}
	cs.Lookups = append(cs.Lookups, lk)
}

func (cs *System[E]) queryFixedIndex(c Column, at Rotation) int {
	for i, q := range cs.FixedQueries {
		if q.Column == c && q.Rotation == at {
			return i
		}
	}
	cs.FixedQueries = append(cs.FixedQueries, Query{Column: c, Rotation: at})
	return len(cs.FixedQueries) - 1
}

func (cs *System[E]) queryAdviceIndex(c Column, at Rotation) int {
	for i, q := range cs.AdviceQueries {
		if q.Column == c && q.Rotation == at {
			return i
		}
	}
	cs.AdviceQueries = append(cs.AdviceQueries, Query{Column: c, Rotation: at})
	cs.AdviceQueryCounts[c.Index]++
	return len(cs.AdviceQueries) - 1
}

func (cs *System[E]) queryInstanceIndex(c Column, at Rotation) int {
	for i, q := range cs.InstanceQueries {
		if q.Column == c && q.Rotation == at {
			return i
		}
	}
	cs.InstanceQueries = append(cs.InstanceQueries, Query{Column: c, Rotation: at})
	return len(cs.InstanceQueries) - 1
}

// Degree returns the circuit degree: the maximum over the permutation
// argument's required degree, every lookup's required degree and every gate
// polynomial's degree.
func (cs *System[E]) Degree() int {
	d := cs.Permutation.RequiredDegree()
	for i := range cs.Lookups {
		d = max(d, cs.Lookups[i].RequiredDegree())
	}
	for i := range cs.Gates {
		d = max(d, cs.Gates[i].Degree())
	}
	return d
}

// BlindingFactors returns the number of blinding rows the proving backend
// injects at the bottom of each advice column. An advice polynomial is
// evaluated at as many distinct points as the column has distinct queried
// rotations; permutation witness polynomials are evaluated at 3 points and
// lookup witness polynomials at 2, whichever is larger, plus one multiopen
// evaluation and one row of pure blinding.
func (cs *System[E]) BlindingFactors() int {
	factors := 1
	if len(cs.AdviceQueryCounts) > 0 {
		factors = slices.Max(cs.AdviceQueryCounts)
	}
	factors = max(3, factors)
	return factors + 2
}

// MinimumRows returns the smallest matrix height the system fits in: the
// blinding rows, one row for l_last, one row separating the permutation
// roles and at least one usable row.
func (cs *System[E]) MinimumRows() int {
	return cs.BlindingFactors() + 3
}

// UsableRows returns how many of the n matrix rows are available to the
// circuit; the last UnusableRows() rows are reserved for the backend.
func (cs *System[E]) UsableRows(n int) int {
	return n - cs.UnusableRows()
}

// UnusableRows returns the number of rows at the bottom of the matrix the
// circuit may not touch: the blinding rows plus the row carrying l_last.
func (cs *System[E]) UnusableRows() int {
	return cs.BlindingFactors() + 1
}

// CheckSerializationHeader validates the version and scalar field headers of
// a deserialized system against the running binary, and restores the cached
// modulus.
func (cs *System[E]) CheckSerializationHeader() error {
	binaryVersion := plonkish.Version
	objectVersion, err := semver.Parse(cs.PlonkishVersion)
	if err != nil {
		return fmt.Errorf("when parsing shape version: %w", err)
	}

	if binaryVersion.Compare(objectVersion) != 0 {
		log := logger.Logger()
		log.Warn().Str("binary", binaryVersion.String()).Str("object", objectVersion.String()).Msg("version mismatch with circuit shape. there are no guarantees on compatibility")
	}

	scalarField := new(big.Int)
	if _, ok := scalarField.SetString(cs.ScalarField, 16); !ok {
		return fmt.Errorf("when parsing serialized modulus: %s", cs.ScalarField)
	}
	var e E
	if e.Modulus().Cmp(scalarField) != 0 {
		return fmt.Errorf("shape serialized over field 0x%s, decoding over 0x%s", scalarField.Text(16), e.Modulus().Text(16))
	}
	cs.q = scalarField
	cs.bitLen = scalarField.BitLen()
	return nil
}
