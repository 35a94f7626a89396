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

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/consensys/plonkish/constraint"
	"github.com/consensys/plonkish/field"
	"github.com/consensys/plonkish/field/babybear"
	"github.com/consensys/plonkish/field/bls12377"
	"github.com/consensys/plonkish/field/bn254"
	"github.com/spf13/cobra"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect [circuit.shape]",
	Short: "prints the columns, gates, lookups and degree of a serialized shape",
	Run:   cmdInspect,
}

var (
	fField string
	fGates bool
)

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.PersistentFlags().StringVar(&fField, "field", "", "decode over this scalar field only -- default tries each supported field")
	inspectCmd.PersistentFlags().BoolVar(&fGates, "gates", false, "also print every gate and lookup expression")
}

// shape is a field-agnostic snapshot of a deserialized system, so printing
// does not depend on the type parameter.
type shape struct {
	version                 string
	advice, fixed, instance int
	selectors               int
	equality                int
	degree                  int
	blinding, minimumRows   int
	gates, lookups          []string
}

func cmdInspect(cmd *cobra.Command, args []string) {
	if len(args) < 1 {
		fmt.Println("missing shape path -- plonkish inspect -h for help")
		os.Exit(-1)
	}
	shapePath := filepath.Clean(args[0])
	if !fileExists(shapePath) {
		fmt.Println(shapePath, errNotFound)
		os.Exit(-1)
	}
	data, err := os.ReadFile(shapePath)
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(-1)
	}

	loaders := []struct {
		name string
		load func([]byte) (shape, bool)
	}{
		{"bn254", loadShape[bn254.Element]},
		{"bls12377", loadShape[bls12377.Element]},
		{"babybear", loadShape[babybear.Element]},
	}

	known := false
	for _, l := range loaders {
		if fField != "" && fField != l.name {
			continue
		}
		known = true
		s, ok := l.load(data)
		if !ok {
			continue
		}
		fmt.Printf("%-30s %-30s %s\n", "loaded shape", shapePath, l.name)
		printShape(s)
		return
	}
	if !known {
		fmt.Println("unknown field", fField, "-- supported: bn254, bls12377, babybear")
		os.Exit(-1)
	}
	fmt.Println("can't decode", shapePath, "over any supported scalar field")
	os.Exit(-1)
}

func loadShape[E field.Element[E]](data []byte) (shape, bool) {
	var cs constraint.System[E]
	if _, err := cs.FromBytes(data); err != nil {
		return shape{}, false
	}
	s := shape{
		version:     cs.PlonkishVersion,
		advice:      cs.NumAdviceColumns,
		fixed:       cs.NumFixedColumns,
		instance:    cs.NumInstanceColumns,
		selectors:   len(cs.Selectors),
		equality:    len(cs.Permutation.Columns),
		degree:      cs.Degree(),
		blinding:    cs.BlindingFactors(),
		minimumRows: cs.MinimumRows(),
	}
	for i := range cs.Gates {
		g := &cs.Gates[i]
		polys := make([]string, len(g.Polys))
		for j, p := range g.Polys {
			polys[j] = p.String()
		}
		s.gates = append(s.gates, fmt.Sprintf("%s = %s", g.Name, strings.Join(polys, "; ")))
	}
	for i := range cs.Lookups {
		lk := &cs.Lookups[i]
		pairs := make([]string, len(lk.Inputs))
		for j := range lk.Inputs {
			pairs[j] = fmt.Sprintf("%s in %s", lk.Inputs[j], lk.Tables[j])
		}
		s.lookups = append(s.lookups, fmt.Sprintf("%s (degree %d): %s", lk.Name, lk.RequiredDegree(), strings.Join(pairs, ", ")))
	}
	return s, true
}

func printShape(s shape) {
	fmt.Printf("%-30s %s\n", "shape version", s.version)
	fmt.Printf("%-30s %d\n", "advice columns", s.advice)
	fmt.Printf("%-30s %d\n", "fixed columns", s.fixed)
	fmt.Printf("%-30s %d\n", "instance columns", s.instance)
	fmt.Printf("%-30s %d\n", "selectors", s.selectors)
	fmt.Printf("%-30s %d\n", "gates", len(s.gates))
	fmt.Printf("%-30s %d\n", "lookups", len(s.lookups))
	fmt.Printf("%-30s %d\n", "equality columns", s.equality)
	fmt.Printf("%-30s %d\n", "degree", s.degree)
	fmt.Printf("%-30s %d\n", "blinding factors", s.blinding)
	fmt.Printf("%-30s %d\n", "minimum rows", s.minimumRows)
	if !fGates {
		return
	}
	for _, g := range s.gates {
		fmt.Printf("%-30s %s\n", "gate", g)
	}
	for _, lk := range s.lookups {
		fmt.Printf("%-30s %s\n", "lookup", lk)
	}
}
