package rnn

import (
	"fmt"

	"github.com/Nicholas-Lee-Bateman-282787728/reverse-engineering-neural-networks/internal/tensor"
)

// StepFunc is a bound step: parameters are fixed by partial application,
// input [batch, inputDim] and state [batch, units] produce the next state.
type StepFunc[T tensor.Float, B tensor.Backend] func(input, state *tensor.Tensor[T, B]) (*tensor.Tensor[T, B], error)

// Unroll folds step over the time axis of a batched input sequence.
//
// Inputs are batch-major: inputs is [batch, time, inputDim] and
// initialStates is [batch, units]. The result is [batch, time, units], one
// state per timestep per batch element; the initial state is not included.
// The fold is strictly sequential in time; batch elements never interact.
//
// A zero-length time axis yields an empty [batch, 0, units] result, not an
// error.
func Unroll[T tensor.Float, B tensor.Backend](
	step StepFunc[T, B],
	initialStates, inputs *tensor.Tensor[T, B],
) (*tensor.Tensor[T, B], error) {
	in, st := inputs.Shape(), initialStates.Shape()
	if len(in) != 3 {
		return nil, fmt.Errorf("%w: inputs shape %v, want [batch, time, inputDim]", ErrShapeMismatch, in)
	}
	if len(st) != 2 {
		return nil, fmt.Errorf("%w: initial states shape %v, want [batch, units]", ErrShapeMismatch, st)
	}
	if in[0] != st[0] {
		return nil, fmt.Errorf("%w: inputs batch %d, initial states batch %d", ErrShapeMismatch, in[0], st[0])
	}

	batch, steps, units := in[0], in[1], st[1]
	if steps == 0 {
		return tensor.Zeros[T](tensor.Shape{batch, 0, units}, initialStates.Backend()), nil
	}

	slices := inputs.Chunk(steps, 1) // each [batch, 1, inputDim]
	state := initialStates
	states := make([]*tensor.Tensor[T, B], 0, steps)
	for t := 0; t < steps; t++ {
		next, err := step(slices[t].Squeeze(1), state)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", t, err)
		}
		state = next
		states = append(states, state.Unsqueeze(1))
	}

	return tensor.Cat(states, 1), nil
}

// UnrollCell unrolls a cell with fixed parameters over a batched sequence.
// Shorthand for Unroll with the cell's BatchApply bound to params.
func UnrollCell[T tensor.Float, B tensor.Backend](
	cell Cell[T, B],
	params *Params[T, B],
	initialStates, inputs *tensor.Tensor[T, B],
) (*tensor.Tensor[T, B], error) {
	step := func(input, state *tensor.Tensor[T, B]) (*tensor.Tensor[T, B], error) {
		return cell.BatchApply(params, input, state)
	}
	return Unroll(step, initialStates, inputs)
}
