package circuits

import (
	"github.com/consensys/plonkish/constraint"
	"github.com/consensys/plonkish/field"
	"github.com/consensys/plonkish/frontend"
)

// booleanCircuit constrains every witness value to {0, 1} with the gate
// sel * x * (x - 1).
type booleanCircuit[E field.Element[E]] struct {
	x   constraint.Column
	sel constraint.Selector

	Values []frontend.Value[E]
}

func (c *booleanCircuit[E]) Configure(cs *constraint.System[E]) error {
	c.x = cs.AdviceColumn()
	c.sel = cs.Selector()
	cs.CreateGate("bool", func(v *constraint.VirtualCells[E]) []constraint.Expression[E] {
		sel := v.QuerySelector(c.sel)
		x := v.QueryAdvice(c.x, constraint.RotationCur)
		one := constraint.NewConstant(field.One[E]())
		return []constraint.Expression[E]{
			constraint.Mul[E](sel, constraint.Mul[E](x, constraint.Sub[E](x, one))),
		}
	})
	return nil
}

func (c *booleanCircuit[E]) Synthesize(l frontend.Layouter[E]) error {
	return l.AssignRegion("bits", func(r frontend.Region[E]) error {
		for i, v := range c.Values {
			if err := r.EnableSelector(c.sel, i); err != nil {
				return err
			}
			if _, err := r.AssignAdvice("bit", c.x, i, func() (frontend.Value[E], error) {
				return v, nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

func (c *booleanCircuit[E]) WithoutWitnesses() frontend.Circuit[E] {
	clone := *c
	clone.Values = make([]frontend.Value[E], len(c.Values))
	for i := range clone.Values {
		clone.Values[i] = frontend.Unknown[E]()
	}
	return &clone
}

func registerBoolean[E field.Element[E]](m map[string]TestCircuit[E]) {
	bits := func(vs ...uint64) []frontend.Value[E] {
		out := make([]frontend.Value[E], len(vs))
		for i, v := range vs {
			out[i] = known[E](v)
		}
		return out
	}
	addEntry(m, "boolean", TestCircuit[E]{
		Valid: []Assignment[E]{
			{Circuit: &booleanCircuit[E]{Values: bits(0, 1, 1, 0)}},
			{Circuit: &booleanCircuit[E]{Values: bits(1)}},
		},
		Invalid: []Assignment[E]{
			{Circuit: &booleanCircuit[E]{Values: bits(0, 2)}},
			{Circuit: &booleanCircuit[E]{Values: bits(7)}},
		},
	})
}
