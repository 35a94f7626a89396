package circuits

import (
	"github.com/consensys/plonkish/constraint"
	"github.com/consensys/plonkish/field"
	"github.com/consensys/plonkish/frontend"
)

type addCircuit[E field.Element[E]] struct {
	x, y, z constraint.Column
	sel     constraint.Selector

	X, Y, Z frontend.Value[E]
}

func (c *addCircuit[E]) Configure(cs *constraint.System[E]) error {
	c.x = cs.AdviceColumn()
	c.y = cs.AdviceColumn()
	c.z = cs.AdviceColumn()
	c.sel = cs.Selector()
	cs.CreateGate("add", func(v *constraint.VirtualCells[E]) []constraint.Expression[E] {
		sel := v.QuerySelector(c.sel)
		x := v.QueryAdvice(c.x, constraint.RotationCur)
		y := v.QueryAdvice(c.y, constraint.RotationCur)
		z := v.QueryAdvice(c.z, constraint.RotationCur)
		return []constraint.Expression[E]{
			constraint.Mul[E](sel, constraint.Sub[E](constraint.Add[E](x, y), z)),
		}
	})
	return nil
}

func (c *addCircuit[E]) Synthesize(l frontend.Layouter[E]) error {
	return l.AssignRegion("add", func(r frontend.Region[E]) error {
		if err := r.EnableSelector(c.sel, 0); err != nil {
			return err
		}
		for _, a := range []struct {
			name string
			col  constraint.Column
			v    frontend.Value[E]
		}{{"x", c.x, c.X}, {"y", c.y, c.Y}, {"z", c.z, c.Z}} {
			if _, err := r.AssignAdvice(a.name, a.col, 0, func() (frontend.Value[E], error) {
				return a.v, nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

func (c *addCircuit[E]) WithoutWitnesses() frontend.Circuit[E] {
	clone := *c
	clone.X = frontend.Unknown[E]()
	clone.Y = frontend.Unknown[E]()
	clone.Z = frontend.Unknown[E]()
	return &clone
}

func registerAdd[E field.Element[E]](m map[string]TestCircuit[E]) {
	addEntry(m, "add", TestCircuit[E]{
		Valid: []Assignment[E]{
			{Circuit: &addCircuit[E]{X: known[E](2), Y: known[E](3), Z: known[E](5)}},
			{Circuit: &addCircuit[E]{X: known[E](0), Y: known[E](0), Z: known[E](0)}},
		},
		Invalid: []Assignment[E]{
			{Circuit: &addCircuit[E]{X: known[E](2), Y: known[E](3), Z: known[E](6)}},
		},
	})
}
