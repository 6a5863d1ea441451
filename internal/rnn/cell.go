// Package rnn implements recurrent cells, their batched unrolling, and exact
// local linearization (Jacobians) of the recurrence.
//
// A Cell bundles a step formula with its parameter initialization. Steps are
// pure functions: parameters, input and previous state go in, a fresh next
// state comes out, nothing is mutated. Randomness is threaded explicitly
// through random.Key arguments, so every operation is reproducible.
//
// Jacobian extraction (RecJac, InpJac) requires the cell's tensors to live on
// an autodiff-capable backend; plain evaluation runs on any backend.
package rnn

import (
	"fmt"
	"math"

	"github.com/Nicholas-Lee-Bateman-282787728/reverse-engineering-neural-networks/internal/random"
	"github.com/Nicholas-Lee-Bateman-282787728/reverse-engineering-neural-networks/internal/tensor"
)

// Cell is one recurrence family with a fixed hidden-state width.
//
// Units reports the carried state width. For most cells that is the
// constructor's unit count; an LSTM carries [h ; c] and reports twice its
// hidden size, so that Jacobians of the full carried state are well defined.
type Cell[T tensor.Float, B tensor.Backend] interface {
	// Units returns the width of the carried state vector.
	Units() int

	// InitialState draws a state vector of width Units from the key,
	// independent of any parameters.
	InitialState(key random.Key) (*tensor.Tensor[T, B], error)

	// Init allocates and initializes parameters for inputs of the given
	// shape (leading dimensions are ignored; the last is the feature
	// dimension). It returns the shape of a single step output.
	Init(key random.Key, inputShape tensor.Shape) (tensor.Shape, *Params[T, B], error)

	// BatchInitialState replicates the parameter-owned initial state into
	// a [batchSize, Units] tensor.
	BatchInitialState(params *Params[T, B], batchSize int) (*tensor.Tensor[T, B], error)

	// Apply evaluates one step on a single example: input [inputDim],
	// state [Units] -> next state [Units].
	Apply(params *Params[T, B], input, state *tensor.Tensor[T, B]) (*tensor.Tensor[T, B], error)

	// BatchApply evaluates one step over a leading batch axis: input
	// [batch, inputDim], state [batch, Units] -> [batch, Units]. Batch
	// elements do not interact; results match per-example Apply calls.
	BatchApply(params *Params[T, B], input, state *tensor.Tensor[T, B]) (*tensor.Tensor[T, B], error)
}

// initialStateName is the parameter role holding the learned initial state.
const initialStateName = "h0"

// checkUnits validates a constructor unit count.
func checkUnits(units int) error {
	if units <= 0 {
		return fmt.Errorf("%w: unit count must be positive, got %d", ErrInvalidConfiguration, units)
	}
	return nil
}

// checkInputShape validates an Init input shape and returns its feature
// dimension.
func checkInputShape(inputShape tensor.Shape) (int, error) {
	if len(inputShape) == 0 {
		return 0, fmt.Errorf("%w: input shape must have a feature dimension", ErrInvalidConfiguration)
	}
	d := inputShape[len(inputShape)-1]
	if d <= 0 {
		return 0, fmt.Errorf("%w: input feature dimension must be positive, got %d", ErrInvalidConfiguration, d)
	}
	return d, nil
}

// checkBatchStep validates BatchApply arguments against the cell's fixed
// dimensions before any computation runs.
func checkBatchStep[T tensor.Float, B tensor.Backend](units, inputDim int, input, state *tensor.Tensor[T, B]) error {
	in, st := input.Shape(), state.Shape()
	if len(in) != 2 || in[1] != inputDim {
		return fmt.Errorf("%w: input shape %v, want [batch, %d]", ErrShapeMismatch, in, inputDim)
	}
	if len(st) != 2 || st[1] != units {
		return fmt.Errorf("%w: state shape %v, want [batch, %d]", ErrShapeMismatch, st, units)
	}
	if in[0] != st[0] {
		return fmt.Errorf("%w: input batch %d, state batch %d", ErrShapeMismatch, in[0], st[0])
	}
	return nil
}

// drawState samples a width-w state vector from the key, scaled to unit
// expected norm.
func drawState[T tensor.Float, B tensor.Backend](key random.Key, w int, b B) *tensor.Tensor[T, B] {
	return random.Normal[T](key, tensor.Shape{w}, b).MulScalar(T(1 / math.Sqrt(float64(w))))
}

// applySingle lifts a single example to a batch of one, runs the batched
// step, and drops the batch axis again.
func applySingle[T tensor.Float, B tensor.Backend](
	cell Cell[T, B],
	params *Params[T, B],
	input, state *tensor.Tensor[T, B],
) (*tensor.Tensor[T, B], error) {
	if len(input.Shape()) != 1 {
		return nil, fmt.Errorf("%w: input shape %v, want a vector", ErrShapeMismatch, input.Shape())
	}
	if len(state.Shape()) != 1 {
		return nil, fmt.Errorf("%w: state shape %v, want a vector", ErrShapeMismatch, state.Shape())
	}
	next, err := cell.BatchApply(params, input.Unsqueeze(0), state.Unsqueeze(0))
	if err != nil {
		return nil, err
	}
	return next.Squeeze(0), nil
}

// tileInitialState broadcasts the parameter-owned initial state into a
// [batchSize, w] tensor.
func tileInitialState[T tensor.Float, B tensor.Backend](params *Params[T, B], batchSize, w int, b B) (*tensor.Tensor[T, B], error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("%w: batch size must be positive, got %d", ErrInvalidConfiguration, batchSize)
	}
	h0, ok := params.Get(initialStateName)
	if !ok {
		return nil, fmt.Errorf("%w: parameters carry no initial state", ErrInvalidConfiguration)
	}
	if !h0.Shape().Equal(tensor.Shape{w}) {
		return nil, fmt.Errorf("%w: initial state shape %v, want [%d]", ErrShapeMismatch, h0.Shape(), w)
	}
	return tensor.Zeros[T](tensor.Shape{batchSize, w}, b).Add(h0), nil
}
