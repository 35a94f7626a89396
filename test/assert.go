/*
Copyright © 2021 ConsenSys Software Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package test provides helpers to check circuits against the mock prover.
package test

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/consensys/plonkish/checker"
	"github.com/consensys/plonkish/constraint"
	"github.com/consensys/plonkish/field"
	"github.com/consensys/plonkish/frontend"
	plonkishio "github.com/consensys/plonkish/io"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

// ErrConfigurationNotDeterministic is reported when configuring the same
// circuit twice yields different shapes.
var ErrConfigurationNotDeterministic = errors.New("circuit configuration is not deterministic")

// Assert is a helper to test circuits over the field E.
type Assert[E field.Element[E]] struct {
	t *testing.T
	*require.Assertions
}

// NewAssert returns an Assert helper embedding a testify/require object for
// convenience.
func NewAssert[E field.Element[E]](t *testing.T) *Assert[E] {
	return &Assert[E]{t: t, Assertions: require.New(t)}
}

// Run runs the test function fn as a subtest. The subtest is parametrized by
// the description strings descs.
func (a *Assert[E]) Run(fn func(assert *Assert[E]), descs ...string) {
	desc := strings.Join(descs, "/")
	a.t.Run(desc, func(t *testing.T) {
		assert := &Assert[E]{t, require.New(t)}
		fn(assert)
	})
}

// Log logs using the test instance logger.
func (assert *Assert[E]) Log(v ...interface{}) {
	assert.t.Log(v...)
}

// Satisfied fails the test unless the witness carried by circuit satisfies
// every gate, lookup and copy constraint. Unless disabled by options it also
// round-trips the shape through its serialized form and reconfigures the
// circuit to verify Configure is deterministic.
func (assert *Assert[E]) Satisfied(circuit frontend.Circuit[E], instances [][]E, opts ...TestingOption) {
	opt := assert.options(opts...)

	p := assert.run(circuit, instances, &opt)
	if failures := p.Failures(); len(failures) > 0 {
		for _, f := range failures {
			assert.Log(f.Error())
		}
		assert.FailNowf("unsatisfied circuit", "%d constraint failure(s)", len(failures))
	}

	if opt.checkSerialization {
		assert.roundTripShape(p.System())
	}
	if opt.checkDeterminism {
		assert.deterministicConfigure(circuit, p.System())
	}
}

// NotSatisfied fails the test unless at least one constraint fails on the
// witness carried by circuit.
func (assert *Assert[E]) NotSatisfied(circuit frontend.Circuit[E], instances [][]E, opts ...TestingOption) {
	opt := assert.options(opts...)

	p := assert.run(circuit, instances, &opt)
	err := p.Verify()
	assert.Error(err, "circuit is satisfied, expected at least one failure")
}

// Prover synthesizes circuit and returns the mock prover, for tests that
// inspect individual failures.
func (assert *Assert[E]) Prover(circuit frontend.Circuit[E], instances [][]E, opts ...TestingOption) *checker.MockProver[E] {
	opt := assert.options(opts...)
	return assert.run(circuit, instances, &opt)
}

// run synthesizes the circuit, growing k until the regions fit when no
// explicit height was requested.
func (assert *Assert[E]) run(circuit frontend.Circuit[E], instances [][]E, opt *testingConfig) *checker.MockProver[E] {
	if opt.k > 0 {
		p, err := checker.Run(opt.k, circuit, instances)
		assert.NoError(err, "circuit synthesis failed")
		return p
	}

	var err error
	for k := 3; k <= maxAutoK; k++ {
		var p *checker.MockProver[E]
		p, err = checker.Run(k, circuit, instances)
		if err == nil {
			return p
		}
		var tooSmall *frontend.NotEnoughRowsError
		if !errors.As(err, &tooSmall) {
			break
		}
	}
	assert.NoError(err, "circuit synthesis failed")
	return nil
}

// maxAutoK caps the auto-grown matrix height at 2^16 rows; tests needing more
// pass WithK explicitly.
const maxAutoK = 16

func (assert *Assert[E]) roundTripShape(cs *constraint.System[E]) {
	err := plonkishio.RoundTripCheck(cs, func() io.ReaderFrom {
		return new(constraint.System[E])
	})
	assert.NoError(err, "shape serialization round trip")

	b, err := cs.ToBytes()
	assert.NoError(err, "serializing shape")
	var decoded constraint.System[E]
	_, err = decoded.FromBytes(b)
	assert.NoError(err, "deserializing shape")

	if diff := cmp.Diff(cs, &decoded, cmpopts.IgnoreUnexported(constraint.System[E]{})); diff != "" {
		assert.FailNowf("shape serialization round trip", "(-original +decoded):\n%s", diff)
	}
}

func (assert *Assert[E]) deterministicConfigure(circuit frontend.Circuit[E], cs *constraint.System[E]) {
	again, err := frontend.Configure[E](circuit.WithoutWitnesses())
	assert.NoError(err, "reconfiguring circuit")

	b1, err := cs.ToBytes()
	assert.NoError(err)
	b2, err := again.ToBytes()
	assert.NoError(err)
	if !bytes.Equal(b1, b2) {
		assert.FailNow(ErrConfigurationNotDeterministic.Error())
	}
}
