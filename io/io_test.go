package io

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/consensys/plonkish/constraint"
	"github.com/consensys/plonkish/field/babybear"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestShapeRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)
	properties.Property("deserialization(serialization(shape)) == shape", prop.ForAll(
		func(nbAdvice, arms, rotIdx int, withLookup bool) bool {
			rotations := [3]constraint.Rotation{constraint.RotationPrev, constraint.RotationCur, constraint.RotationNext}
			cs := randomShape(nbAdvice, arms, rotations[rotIdx], withLookup)
			return RoundTripCheck(cs, func() io.ReaderFrom {
				return new(constraint.System[babybear.Element])
			}) == nil
		},
		gen.IntRange(1, 4),
		gen.IntRange(1, 4),
		gen.IntRange(0, 2),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// randomShape builds a small frozen system parametrized by the property
// inputs: arms sum terms gated by a simple selector, plus an optional lookup.
func randomShape(nbAdvice, arms int, rot constraint.Rotation, withLookup bool) *constraint.System[babybear.Element] {
	cs := constraint.NewSystem[babybear.Element]()
	sel := cs.Selector()
	cols := make([]constraint.Column, nbAdvice)
	for i := range cols {
		cols[i] = cs.AdviceColumn()
	}
	cs.CreateGate("sum", func(v *constraint.VirtualCells[babybear.Element]) []constraint.Expression[babybear.Element] {
		acc := v.QueryAdvice(cols[0], rot)
		for i := 1; i < arms; i++ {
			acc = constraint.Add(acc, v.QueryAdvice(cols[i%nbAdvice], constraint.RotationCur))
		}
		return []constraint.Expression[babybear.Element]{constraint.Mul(v.QuerySelector(sel), acc)}
	})
	if withLookup {
		table := cs.LookupTableColumn()
		q := cs.ComplexSelector()
		cs.Lookup("member", func(v *constraint.VirtualCells[babybear.Element]) []constraint.LookupPair[babybear.Element] {
			return []constraint.LookupPair[babybear.Element]{{
				Input: constraint.Mul(v.QuerySelector(q), v.QueryAdvice(cols[0], constraint.RotationCur)),
				Table: table,
			}}
		})
	}
	cs.EnableEquality(cols[0])
	cs.Freeze()
	return &cs
}

type blob struct {
	// bytes to emit on WriteTo; ReadFrom replaces them with what it reads
	b []byte
	// WriteTo drops that many trailing bytes, to fake a lossy reconstruction
	drop int
}

func (l *blob) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(l.b[:len(l.b)-l.drop])
	return int64(n), err
}

func (l *blob) ReadFrom(r io.Reader) (int64, error) {
	b, err := io.ReadAll(r)
	l.b = b
	return int64(len(b)), err
}

// oneByte consumes a single byte no matter how long the stream is.
type oneByte struct{}

func (o *oneByte) WriteTo(w io.Writer) (int64, error) { n, err := w.Write([]byte{1}); return int64(n), err }
func (o *oneByte) ReadFrom(r io.Reader) (int64, error) {
	var scratch [1]byte
	n, err := r.Read(scratch[:])
	return int64(n), err
}

func TestRoundTripCheck(t *testing.T) {
	payload := []byte{1, 2, 3, 4}

	if err := RoundTripCheck(&blob{b: bytes.Clone(payload)}, func() io.ReaderFrom { return new(blob) }); err != nil {
		t.Fatalf("expected clean round trip, got %v", err)
	}

	err := RoundTripCheck(&blob{b: bytes.Clone(payload)}, func() io.ReaderFrom { return &blob{drop: 1} })
	if err == nil || !strings.Contains(err.Error(), "different bytes") {
		t.Fatalf("expected reserialization mismatch, got %v", err)
	}

	err = RoundTripCheck(&blob{b: bytes.Clone(payload)}, func() io.ReaderFrom { return new(oneByte) })
	if err == nil || !strings.Contains(err.Error(), "read") {
		t.Fatalf("expected short read to be detected, got %v", err)
	}
}
