package circuits

import (
	"github.com/consensys/plonkish/constraint"
	"github.com/consensys/plonkish/field"
	"github.com/consensys/plonkish/frontend"
)

// range4Circuit checks witness values against the lookup table {0, 1, 2, 3}.
// Rows with the lookup selector off contribute the input 0, which is always
// in the table.
type range4Circuit[E field.Element[E]] struct {
	x constraint.Column
	q constraint.Selector
	t constraint.TableColumn

	Values []frontend.Value[E]
}

func (c *range4Circuit[E]) Configure(cs *constraint.System[E]) error {
	c.x = cs.AdviceColumn()
	c.q = cs.ComplexSelector()
	c.t = cs.LookupTableColumn()
	cs.Lookup("range4", func(v *constraint.VirtualCells[E]) []constraint.LookupPair[E] {
		q := v.QuerySelector(c.q)
		x := v.QueryAdvice(c.x, constraint.RotationCur)
		return []constraint.LookupPair[E]{
			{Input: constraint.Mul[E](q, x), Table: c.t},
		}
	})
	return nil
}

func (c *range4Circuit[E]) Synthesize(l frontend.Layouter[E]) error {
	if err := l.AssignTable("range4", func(t frontend.Table[E]) error {
		for i := range 4 {
			v := known[E](uint64(i))
			if err := t.AssignCell("value", c.t, i, func() (frontend.Value[E], error) {
				return v, nil
			}); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return err
	}
	return l.AssignRegion("checked", func(r frontend.Region[E]) error {
		for i, v := range c.Values {
			if err := r.EnableSelector(c.q, i); err != nil {
				return err
			}
			if _, err := r.AssignAdvice("x", c.x, i, func() (frontend.Value[E], error) {
				return v, nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

func (c *range4Circuit[E]) WithoutWitnesses() frontend.Circuit[E] {
	clone := *c
	clone.Values = make([]frontend.Value[E], len(c.Values))
	for i := range clone.Values {
		clone.Values[i] = frontend.Unknown[E]()
	}
	return &clone
}

func registerRange4[E field.Element[E]](m map[string]TestCircuit[E]) {
	values := func(vs ...uint64) []frontend.Value[E] {
		out := make([]frontend.Value[E], len(vs))
		for i, v := range vs {
			out[i] = known[E](v)
		}
		return out
	}
	addEntry(m, "range4", TestCircuit[E]{
		Valid: []Assignment[E]{
			{Circuit: &range4Circuit[E]{Values: values(0, 1, 3)}},
		},
		Invalid: []Assignment[E]{
			{Circuit: &range4Circuit[E]{Values: values(4)}},
			{Circuit: &range4Circuit[E]{Values: values(3, 1000)}},
		},
	})
}
