package circuits

import (
	"github.com/consensys/plonkish/constraint"
	"github.com/consensys/plonkish/field"
	"github.com/consensys/plonkish/frontend"
)

// chainCircuit accumulates its witness values into a running sum through a
// rotated query, acc + x = acc@+1, and ties the final accumulator to the
// instance column.
type chainCircuit[E field.Element[E]] struct {
	acc, x constraint.Column
	pi     constraint.Column
	sel    constraint.Selector

	Values []frontend.Value[E]
}

func (c *chainCircuit[E]) Configure(cs *constraint.System[E]) error {
	c.acc = cs.AdviceColumn()
	c.x = cs.AdviceColumn()
	c.pi = cs.InstanceColumn()
	c.sel = cs.Selector()
	cs.EnableEquality(c.acc)
	cs.EnableEquality(c.pi)
	cs.CreateGate("step", func(v *constraint.VirtualCells[E]) []constraint.Expression[E] {
		sel := v.QuerySelector(c.sel)
		acc := v.QueryAdvice(c.acc, constraint.RotationCur)
		next := v.QueryAdvice(c.acc, constraint.Rotation(1))
		x := v.QueryAdvice(c.x, constraint.RotationCur)
		return []constraint.Expression[E]{
			constraint.Mul[E](sel, constraint.Sub[E](constraint.Add[E](acc, x), next)),
		}
	})
	return nil
}

func (c *chainCircuit[E]) Synthesize(l frontend.Layouter[E]) error {
	var total frontend.AssignedCell[E]
	if err := l.AssignRegion("chain", func(r frontend.Region[E]) error {
		acc, err := r.AssignAdvice("acc", c.acc, 0, func() (frontend.Value[E], error) {
			return known[E](0), nil
		})
		if err != nil {
			return err
		}
		for i, v := range c.Values {
			if err := r.EnableSelector(c.sel, i); err != nil {
				return err
			}
			if _, err := r.AssignAdvice("x", c.x, i, func() (frontend.Value[E], error) {
				return v, nil
			}); err != nil {
				return err
			}
			prev := acc
			acc, err = r.AssignAdvice("acc", c.acc, i+1, func() (frontend.Value[E], error) {
				a, oka := prev.Value().Get()
				b, okb := v.Get()
				if !oka || !okb {
					return frontend.Unknown[E](), nil
				}
				return frontend.Known(a.Add(b)), nil
			})
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

func (c *chainCircuit[E]) WithoutWitnesses() frontend.Circuit[E] {
	clone := *c
	clone.Values = make([]frontend.Value[E], len(c.Values))
	for i := range clone.Values {
		clone.Values[i] = frontend.Unknown[E]()
	}
	return &clone
}

func registerChain[E field.Element[E]](m map[string]TestCircuit[E]) {
	values := func(vs ...uint64) []frontend.Value[E] {
		out := make([]frontend.Value[E], len(vs))
		for i, v := range vs {
			out[i] = known[E](v)
		}
		return out
	}
	addEntry(m, "chain", TestCircuit[E]{
		Valid: []Assignment[E]{
			{Circuit: &chainCircuit[E]{Values: values(1, 2, 3)}, Instances: [][]E{column[E](6)}},
			{Circuit: &chainCircuit[E]{Values: values()}, Instances: [][]E{column[E](0)}},
		},
		Invalid: []Assignment[E]{
			{Circuit: &chainCircuit[E]{Values: values(1, 2, 3)}, Instances: [][]E{column[E](7)}},
		},
	})
}
