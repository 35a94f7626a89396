package circuits

import (
	"github.com/consensys/plonkish/constraint"
	"github.com/consensys/plonkish/field"
	"github.com/consensys/plonkish/frontend"
)

// constantsCircuit anchors witness values to a fixed column: sel * (x - k),
// with k assigned row by row during synthesis.
type constantsCircuit[E field.Element[E]] struct {
	x   constraint.Column
	k   constraint.Column
	sel constraint.Selector

	Consts []uint64
	Values []frontend.Value[E]
}

func (c *constantsCircuit[E]) Configure(cs *constraint.System[E]) error {
	c.x = cs.AdviceColumn()
	c.k = cs.FixedColumn()
	c.sel = cs.Selector()
	cs.CreateGate("anchor", func(v *constraint.VirtualCells[E]) []constraint.Expression[E] {
		sel := v.QuerySelector(c.sel)
		x := v.QueryAdvice(c.x, constraint.RotationCur)
		k := v.QueryFixed(c.k, constraint.RotationCur)
		return []constraint.Expression[E]{
			constraint.Mul[E](sel, constraint.Sub[E](x, k)),
		}
	})
	return nil
}

func (c *constantsCircuit[E]) Synthesize(l frontend.Layouter[E]) error {
	return l.AssignRegion("anchors", func(r frontend.Region[E]) error {
		for i, kv := range c.Consts {
			if err := r.EnableSelector(c.sel, i); err != nil {
				return err
			}
			if _, err := r.AssignFixed("k", c.k, i, func() (frontend.Value[E], error) {
				return known[E](kv), nil
			}); err != nil {
				return err
			}
			v := c.Values[i]
			if _, err := r.AssignAdvice("x", c.x, i, func() (frontend.Value[E], error) {
				return v, nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

func (c *constantsCircuit[E]) WithoutWitnesses() frontend.Circuit[E] {
	clone := *c
	clone.Values = make([]frontend.Value[E], len(c.Values))
	for i := range clone.Values {
		clone.Values[i] = frontend.Unknown[E]()
	}
	return &clone
}

func registerConstants[E field.Element[E]](m map[string]TestCircuit[E]) {
	values := func(vs ...uint64) []frontend.Value[E] {
		out := make([]frontend.Value[E], len(vs))
		for i, v := range vs {
			out[i] = known[E](v)
		}
		return out
	}
	addEntry(m, "constants", TestCircuit[E]{
		Valid: []Assignment[E]{
			{Circuit: &constantsCircuit[E]{Consts: []uint64{5, 7, 11}, Values: values(5, 7, 11)}},
		},
		Invalid: []Assignment[E]{
			{Circuit: &constantsCircuit[E]{Consts: []uint64{5, 7, 11}, Values: values(5, 8, 11)}},
		},
	})
}
