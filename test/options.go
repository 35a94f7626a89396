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

package test

import (
	"fmt"
)

// TestingOption defines option for altering the behavior of Assert methods.
// See the descriptions of functions returning instances of this type for
// particular options.
type TestingOption func(*testingConfig) error

type testingConfig struct {
	k                  int // 0 means grow until the circuit fits
	checkSerialization bool
	checkDeterminism   bool
}

// default options
func (assert *Assert[E]) options(opts ...TestingOption) testingConfig {
	opt := testingConfig{
		checkSerialization: true,
		checkDeterminism:   true,
	}

	// apply user provided options.
	for _, option := range opts {
		err := option(&opt)
		assert.NoError(err, "parsing TestingOption")
	}

	return opt
}

// WithK is a testing option which pins the matrix height to 2^k instead of
// growing it until the circuit fits.
func WithK(k int) TestingOption {
	return func(opt *testingConfig) error {
		if k <= 0 {
			return fmt.Errorf("k must be positive, got %d", k)
		}
		opt.k = k
		return nil
	}
}

// NoSerializationChecks is a testing option which disables the shape
// serialization round trip performed on satisfied circuits.
func NoSerializationChecks() TestingOption {
	return func(opt *testingConfig) error {
		opt.checkSerialization = false
		return nil
	}
}

// NoDeterminismChecks is a testing option which disables reconfiguring the
// circuit to verify that Configure does not depend on witness values.
func NoDeterminismChecks() TestingOption {
	return func(opt *testingConfig) error {
		opt.checkDeterminism = false
		return nil
	}
}
