package circuits

import (
	"github.com/consensys/plonkish/constraint"
	"github.com/consensys/plonkish/field"
	"github.com/consensys/plonkish/frontend"
)

// publicSumCircuit reads the instance column directly from its gate:
// sel * (x + y - i0). No copy constraint is involved.
type publicSumCircuit[E field.Element[E]] struct {
	x, y constraint.Column
	pi   constraint.Column
	sel  constraint.Selector

	X, Y frontend.Value[E]
}

func (c *publicSumCircuit[E]) Configure(cs *constraint.System[E]) error {
	c.x = cs.AdviceColumn()
	c.y = cs.AdviceColumn()
	c.pi = cs.InstanceColumn()
	c.sel = cs.Selector()
	cs.CreateGate("public-sum", func(v *constraint.VirtualCells[E]) []constraint.Expression[E] {
		sel := v.QuerySelector(c.sel)
		x := v.QueryAdvice(c.x, constraint.RotationCur)
		y := v.QueryAdvice(c.y, constraint.RotationCur)
		total := v.QueryInstance(c.pi, constraint.RotationCur)
		return []constraint.Expression[E]{
			constraint.Mul[E](sel, constraint.Sub[E](constraint.Add[E](x, y), total)),
		}
	})
	return nil
}

func (c *publicSumCircuit[E]) Synthesize(l frontend.Layouter[E]) error {
	return l.AssignRegion("sum", func(r frontend.Region[E]) error {
		if err := r.EnableSelector(c.sel, 0); err != nil {
			return err
		}
		if _, err := r.AssignAdvice("x", c.x, 0, func() (frontend.Value[E], error) {
			return c.X, nil
		}); err != nil {
			return err
		}
		_, err := r.AssignAdvice("y", c.y, 0, func() (frontend.Value[E], error) {
			return c.Y, nil
		})
		return err
	})
}

func (c *publicSumCircuit[E]) WithoutWitnesses() frontend.Circuit[E] {
	clone := *c
	clone.X = frontend.Unknown[E]()
	clone.Y = frontend.Unknown[E]()
	return &clone
}

func registerPublicSum[E field.Element[E]](m map[string]TestCircuit[E]) {
	addEntry(m, "public-sum", TestCircuit[E]{
		Valid: []Assignment[E]{
			{
				Circuit:   &publicSumCircuit[E]{X: known[E](2), Y: known[E](3)},
				Instances: [][]E{column[E](5)},
			},
		},
		Invalid: []Assignment[E]{
			{
				Circuit:   &publicSumCircuit[E]{X: known[E](2), Y: known[E](3)},
				Instances: [][]E{column[E](6)},
			},
		},
	})
}
