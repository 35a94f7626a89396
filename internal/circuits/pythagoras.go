package circuits

import (
	"github.com/consensys/plonkish/constraint"
	"github.com/consensys/plonkish/field"
	"github.com/consensys/plonkish/frontend"
)

// pythagorasCircuit proves x² + y² = z² for a public hypotenuse: the gate
// squares the advice cells and z is copy-constrained to the instance column.
type pythagorasCircuit[E field.Element[E]] struct {
	x, y, z constraint.Column
	pi      constraint.Column
	sel     constraint.Selector

	X, Y, Z frontend.Value[E]
}

func (c *pythagorasCircuit[E]) Configure(cs *constraint.System[E]) error {
	c.x = cs.AdviceColumn()
	c.y = cs.AdviceColumn()
	c.z = cs.AdviceColumn()
	c.pi = cs.InstanceColumn()
	c.sel = cs.Selector()
	cs.EnableEquality(c.z)
	cs.EnableEquality(c.pi)
	cs.CreateGate("pythagoras", func(v *constraint.VirtualCells[E]) []constraint.Expression[E] {
		sel := v.QuerySelector(c.sel)
		x := v.QueryAdvice(c.x, constraint.RotationCur)
		y := v.QueryAdvice(c.y, constraint.RotationCur)
		z := v.QueryAdvice(c.z, constraint.RotationCur)
		square := func(e constraint.Expression[E]) constraint.Expression[E] {
			return constraint.Mul[E](e, e)
		}
		return []constraint.Expression[E]{
			constraint.Mul[E](sel, constraint.Sub[E](constraint.Add[E](square(x), square(y)), square(z))),
		}
	})
	return nil
}

func (c *pythagorasCircuit[E]) Synthesize(l frontend.Layouter[E]) error {
	var hyp frontend.AssignedCell[E]
	if err := l.AssignRegion("triple", func(r frontend.Region[E]) error {
		if err := r.EnableSelector(c.sel, 0); err != nil {
			return err
		}
		if _, err := r.AssignAdvice("x", c.x, 0, func() (frontend.Value[E], error) {
			return c.X, nil
		}); err != nil {
			return err
		}
		if _, err := r.AssignAdvice("y", c.y, 0, func() (frontend.Value[E], error) {
			return c.Y, nil
		}); err != nil {
			return err
		}
		var err error
		hyp, err = r.AssignAdvice("z", c.z, 0, func() (frontend.Value[E], error) {
			return c.Z, nil
		})
		return err
	}); err != nil {
		return err
	}
	return l.ConstrainInstance(hyp.Cell(), c.pi, 0)
}

func (c *pythagorasCircuit[E]) WithoutWitnesses() frontend.Circuit[E] {
	clone := *c
	clone.X = frontend.Unknown[E]()
	clone.Y = frontend.Unknown[E]()
	clone.Z = frontend.Unknown[E]()
	return &clone
}

func registerPythagoras[E field.Element[E]](m map[string]TestCircuit[E]) {
	addEntry(m, "pythagoras", TestCircuit[E]{
		Valid: []Assignment[E]{
			{
				Circuit:   &pythagorasCircuit[E]{X: known[E](3), Y: known[E](4), Z: known[E](5)},
				Instances: [][]E{column[E](5)},
			},
			{
				Circuit:   &pythagorasCircuit[E]{X: known[E](5), Y: known[E](12), Z: known[E](13)},
				Instances: [][]E{column[E](13)},
			},
		},
		Invalid: []Assignment[E]{
			// the gate holds but the claimed hypotenuse does not match
			{
				Circuit:   &pythagorasCircuit[E]{X: known[E](3), Y: known[E](4), Z: known[E](5)},
				Instances: [][]E{column[E](6)},
			},
			// the claimed hypotenuse matches but the gate does not hold
			{
				Circuit:   &pythagorasCircuit[E]{X: known[E](3), Y: known[E](4), Z: known[E](6)},
				Instances: [][]E{column[E](6)},
			},
		},
	})
}
