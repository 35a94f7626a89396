package frontend

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/consensys/plonkish/constraint"
	"github.com/consensys/plonkish/debug"
	"github.com/consensys/plonkish/field"
	"github.com/consensys/plonkish/logger"
)

// Configure builds the shape of a circuit: it allocates a fresh constraint
// system over the scalar field of E, runs the circuit's Configure and
// freezes the result.
func Configure[E field.Element[E]](circuit Circuit[E]) (_ *constraint.System[E], err error) {
	log := logger.Logger()
	log.Info().Msg("configuring circuit")
	start := time.Now()

	// ensure circuit methods have a pointer receiver so Configure can
	// store the allocated columns on the circuit value
	if reflect.ValueOf(circuit).Kind() != reflect.Ptr {
		return nil, errors.New("frontend.Circuit methods must be defined on pointer receiver")
	}

	cs := constraint.NewSystem[E]()

	// recover from panics to print user-friendlier messages
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v\n%s", r, debug.Stack())
		}
	}()

	if err = circuit.Configure(&cs); err != nil {
		log.Err(err).Msg("configuring circuit")
		return nil, fmt.Errorf("configure circuit: %w", err)
	}
	cs.Freeze()

	log.Info().
		Int("nbAdvice", cs.NumAdviceColumns).
		Int("nbFixed", cs.NumFixedColumns).
		Int("nbInstance", cs.NumInstanceColumns).
		Int("nbSelectors", len(cs.Selectors)).
		Int("nbGates", len(cs.Gates)).
		Int("nbLookups", len(cs.Lookups)).
		Int("degree", cs.Degree()).
		Dur("took", time.Since(start)).
		Msg("configured circuit")

	return &cs, nil
}

// Synthesize runs the circuit against the assignment through the circuit's
// floor planner. cs must be the frozen system Configure built for the same
// circuit shape.
func Synthesize[E field.Element[E]](cs *constraint.System[E], circuit Circuit[E], assignment Assignment[E]) (err error) {
	if !cs.Frozen() {
		return errors.New("synthesize needs a frozen constraint system; call Configure first")
	}

	log := logger.Logger()
	log.Debug().Msg("synthesizing circuit")

	// recover from panics to print user-friendlier messages
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v\n%s", r, debug.Stack())
		}
	}()

	planner := FloorPlanner[E](SimpleFloorPlanner[E]{})
	if pc, ok := circuit.(PlannedCircuit[E]); ok {
		planner = pc.FloorPlanner()
	}
	return planner.Synthesize(cs, assignment, circuit)
}

// Shape builds the complete witness-independent description of a circuit at
// height 2^k: the constraint system plus fixed values, selector bitmaps and
// copy cycles. The circuit's advice closures are never invoked; synthesis
// runs on the circuit stripped of witnesses.
func Shape[E field.Element[E]](circuit Circuit[E], k int) (*constraint.System[E], *ShapeAssignment[E], error) {
	cs, err := Configure[E](circuit)
	if err != nil {
		return nil, nil, err
	}
	a, err := NewShapeAssignment(cs, k)
	if err != nil {
		return nil, nil, err
	}
	if err := Synthesize(cs, circuit.WithoutWitnesses(), a); err != nil {
		return nil, nil, err
	}
	return cs, a, nil
}
