package rnn

import (
	"github.com/Nicholas-Lee-Bateman-282787728/reverse-engineering-neural-networks/internal/random"
	"github.com/Nicholas-Lee-Bateman-282787728/reverse-engineering-neural-networks/internal/tensor"
)

// VanillaRNN is the plain Elman recurrence: h' = tanh(x W + h U + b).
type VanillaRNN[T tensor.Float, B tensor.Backend] struct {
	units   int
	backend B
}

// NewVanillaRNN creates a vanilla recurrent cell.
func NewVanillaRNN[T tensor.Float, B tensor.Backend](units int, b B) *VanillaRNN[T, B] {
	return &VanillaRNN[T, B]{units: units, backend: b}
}

// Units returns the hidden-state width.
func (v *VanillaRNN[T, B]) Units() int {
	return v.units
}

// InitialState draws a state vector from the key.
func (v *VanillaRNN[T, B]) InitialState(key random.Key) (*tensor.Tensor[T, B], error) {
	if err := checkUnits(v.units); err != nil {
		return nil, err
	}
	return drawState[T](key, v.units, v.backend), nil
}

// Init allocates Glorot-initialized weights, a zero bias, and a drawn
// initial state.
func (v *VanillaRNN[T, B]) Init(key random.Key, inputShape tensor.Shape) (tensor.Shape, *Params[T, B], error) {
	if err := checkUnits(v.units); err != nil {
		return nil, nil, err
	}
	d, err := checkInputShape(inputShape)
	if err != nil {
		return nil, nil, err
	}

	n := v.units
	keys := key.SplitN(3)
	params := newParams[T, B]()
	params.add("W", random.Glorot[T](keys[0], tensor.Shape{d, n}, v.backend))
	params.add("U", random.Glorot[T](keys[1], tensor.Shape{n, n}, v.backend))
	params.add("b", tensor.Zeros[T](tensor.Shape{n}, v.backend))
	params.add(initialStateName, drawState[T](keys[2], n, v.backend))

	return tensor.Shape{n}, params, nil
}

// BatchInitialState replicates the parameter-owned initial state per batch
// element.
func (v *VanillaRNN[T, B]) BatchInitialState(params *Params[T, B], batchSize int) (*tensor.Tensor[T, B], error) {
	return tileInitialState(params, batchSize, v.units, v.backend)
}

// Apply evaluates one step on a single example.
func (v *VanillaRNN[T, B]) Apply(params *Params[T, B], input, state *tensor.Tensor[T, B]) (*tensor.Tensor[T, B], error) {
	return applySingle[T, B](v, params, input, state)
}

// BatchApply evaluates one step over a leading batch axis.
func (v *VanillaRNN[T, B]) BatchApply(params *Params[T, B], input, state *tensor.Tensor[T, B]) (*tensor.Tensor[T, B], error) {
	d := params.get("W").Shape()[0]
	if err := checkBatchStep(v.units, d, input, state); err != nil {
		return nil, err
	}

	return input.MatMul(params.get("W")).
		Add(state.MatMul(params.get("U"))).
		Add(params.get("b")).
		Tanh(), nil
}
