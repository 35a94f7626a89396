// Package benchmark internal benchmarks
package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/trace"
	"time"

	"github.com/consensys/plonkish/checker"
	"github.com/consensys/plonkish/constraint"
	"github.com/consensys/plonkish/field"
	"github.com/consensys/plonkish/field/babybear"
	"github.com/consensys/plonkish/frontend"
	"github.com/consensys/plonkish/profile"
)

const benchCount = 1

var nbRows = []int{1 << 12} // 1 << 8, 1 << 10, 1 << 14, 1 << 16

// /!\ internal use /!\
// running it with "trace" will output a trace.out file and "constraints" a
// constraint profile; else it outputs average build and check times for a
// growing chain circuit, in csv format
func main() {
	mode := "time"
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	for _, rows := range nbRows {
		circuit := &chainCircuit{rows: rows}
		instances := [][]babybear.Element{{field.NewElement[babybear.Element](uint64(rows))}}

		cs, err := frontend.Configure[babybear.Element](circuit.WithoutWitnesses())
		if err != nil {
			fmt.Println("error:", err)
			os.Exit(-1)
		}
		k := pickK(cs, rows)

		runtime.GC()
		switch mode {
		case "trace":
			f, err := os.Create("trace.out")
			if err != nil {
				fmt.Println("error:", err)
				os.Exit(-1)
			}
			if err := trace.Start(f); err != nil {
				fmt.Println("error:", err)
				os.Exit(-1)
			}
			for range benchCount {
				runOnce(k, circuit, instances)
			}
			trace.Stop()
			_ = f.Close()
		case "constraints":
			p := profile.Start(profile.WithNoOutput())
			if _, err := frontend.Configure[babybear.Element](circuit.WithoutWitnesses()); err != nil {
				fmt.Println("error:", err)
				os.Exit(-1)
			}
			p.Stop()
			fmt.Println(p.NbConstraints(), "constraints")
			fmt.Println(p.Top())
		default:
			start := time.Now()
			var prover *checker.MockProver[babybear.Element]
			for range benchCount {
				prover = runOnce(k, circuit, instances)
			}
			buildDuration := time.Since(start) / benchCount

			start = time.Now()
			for range benchCount {
				if err := prover.Verify(); err != nil {
					fmt.Println("error:", err)
					os.Exit(-1)
				}
			}
			checkDuration := time.Since(start) / benchCount

			fmt.Printf("%s,%d,%d,%d,%d\n", "babybear", rows, 1<<k, buildDuration.Milliseconds(), checkDuration.Milliseconds())
		}
	}
}

func runOnce(k int, circuit *chainCircuit, instances [][]babybear.Element) *checker.MockProver[babybear.Element] {
	prover, err := checker.Run[babybear.Element](k, circuit, instances)
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(-1)
	}
	return prover
}

// pickK returns the smallest k whose matrix holds the rows+1 accumulator
// cells of the chain next to the reserved blinding rows.
func pickK(cs *constraint.System[babybear.Element], rows int) int {
	k := 3
	for cs.UsableRows(1<<k) < rows+1 {
		k++
	}
	return k
}

// chainCircuit accumulates rows ones into a running sum, acc + 1 = acc@+1,
// and ties the final accumulator to the instance column. Its size is linear
// in rows, which makes it a reasonable yardstick for build and check times.
type chainCircuit struct {
	acc, x constraint.Column
	pi     constraint.Column
	sel    constraint.Selector

	rows int
}

func (c *chainCircuit) Configure(cs *constraint.System[babybear.Element]) error {
	c.acc = cs.AdviceColumn()
	c.x = cs.AdviceColumn()
	c.pi = cs.InstanceColumn()
	c.sel = cs.Selector()
	cs.EnableEquality(c.acc)
	cs.EnableEquality(c.pi)
	cs.CreateGate("step", func(v *constraint.VirtualCells[babybear.Element]) []constraint.Expression[babybear.Element] {
		sel := v.QuerySelector(c.sel)
		acc := v.QueryAdvice(c.acc, constraint.RotationCur)
		next := v.QueryAdvice(c.acc, constraint.Rotation(1))
		x := v.QueryAdvice(c.x, constraint.RotationCur)
		return []constraint.Expression[babybear.Element]{
			constraint.Mul[babybear.Element](sel, constraint.Sub[babybear.Element](constraint.Add[babybear.Element](acc, x), next)),
		}
	})
	return nil
}

func (c *chainCircuit) Synthesize(l frontend.Layouter[babybear.Element]) error {
	var total frontend.AssignedCell[babybear.Element]
	if err := l.AssignRegion("chain", func(r frontend.Region[babybear.Element]) error {
		acc, err := r.AssignAdvice("acc", c.acc, 0, knownValue(0))
		if err != nil {
			return err
		}
		for i := range c.rows {
			if err := r.EnableSelector(c.sel, i); err != nil {
				return err
			}
			if _, err := r.AssignAdvice("x", c.x, i, knownValue(1)); err != nil {
				return err
			}
			acc, err = r.AssignAdvice("acc", c.acc, i+1, knownValue(uint64(i+1)))
			if err != nil {
				return err
			}
		}
		total = acc
		return nil
	}); err != nil {
		return err
	}
	return l.ConstrainInstance(total.Cell(), c.pi, 0)
}

func (c *chainCircuit) WithoutWitnesses() frontend.Circuit[babybear.Element] {
	clone := *c
	return &clone
}

func knownValue(v uint64) func() (frontend.Value[babybear.Element], error) {
	return func() (frontend.Value[babybear.Element], error) {
		return frontend.Known(field.NewElement[babybear.Element](v)), nil
	}
}
