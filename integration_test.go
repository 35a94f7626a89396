/*
Copyright © 2020 ConsenSys

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

package plonkish_test

import (
	"fmt"
	"sort"
	"testing"

	"github.com/consensys/plonkish/field"
	"github.com/consensys/plonkish/field/babybear"
	"github.com/consensys/plonkish/field/bn254"
	"github.com/consensys/plonkish/internal/circuits"
	"github.com/consensys/plonkish/test"
)

func TestIntegrationBabyBear(t *testing.T) {
	runIntegration[babybear.Element](t)
}

func TestIntegrationBN254(t *testing.T) {
	runIntegration[bn254.Element](t)
}

func runIntegration[E field.Element[E]](t *testing.T) {
	assert := test.NewAssert[E](t)

	entries := circuits.Entries[E]()
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, name := range keys {
		entry := entries[name]
		assert.Run(func(assert *test.Assert[E]) {
			for i := range entry.Valid {
				w := entry.Valid[i]
				assert.Run(func(assert *test.Assert[E]) {
					assert.Satisfied(w.Circuit, w.Instances)
				}, fmt.Sprintf("valid-%d", i))
			}

			for i := range entry.Invalid {
				w := entry.Invalid[i]
				assert.Run(func(assert *test.Assert[E]) {
					assert.NotSatisfied(w.Circuit, w.Instances)
				}, fmt.Sprintf("invalid-%d", i))
			}
		}, name)
	}
}
