package rnn

import (
	"github.com/Nicholas-Lee-Bateman-282787728/reverse-engineering-neural-networks/internal/random"
	"github.com/Nicholas-Lee-Bateman-282787728/reverse-engineering-neural-networks/internal/tensor"
)

// GRU is a gated recurrent unit.
//
// Step formulas, for input x [d] and state h [n]:
//
//	r  = σ(x Wr + h Ur + br)        reset gate
//	z  = σ(x Wz + h Uz + bz)        update gate
//	a  = tanh(x Wa + (r ⊙ h) Ua + ba)   candidate
//	h' = z ⊙ h + (1 − z) ⊙ a
type GRU[T tensor.Float, B tensor.Backend] struct {
	units   int
	backend B
}

// NewGRU creates a GRU cell with the given hidden-state width.
func NewGRU[T tensor.Float, B tensor.Backend](units int, b B) *GRU[T, B] {
	return &GRU[T, B]{units: units, backend: b}
}

// Units returns the hidden-state width.
func (g *GRU[T, B]) Units() int {
	return g.units
}

// InitialState draws a state vector from the key.
func (g *GRU[T, B]) InitialState(key random.Key) (*tensor.Tensor[T, B], error) {
	if err := checkUnits(g.units); err != nil {
		return nil, err
	}
	return drawState[T](key, g.units, g.backend), nil
}

// Init allocates Glorot-initialized gate weights, zero biases, and a drawn
// initial state. The returned shape is that of a single step output.
func (g *GRU[T, B]) Init(key random.Key, inputShape tensor.Shape) (tensor.Shape, *Params[T, B], error) {
	if err := checkUnits(g.units); err != nil {
		return nil, nil, err
	}
	d, err := checkInputShape(inputShape)
	if err != nil {
		return nil, nil, err
	}

	n := g.units
	keys := key.SplitN(7)
	params := newParams[T, B]()
	for i, name := range []string{"Wr", "Wz", "Wa"} {
		params.add(name, random.Glorot[T](keys[i], tensor.Shape{d, n}, g.backend))
	}
	for i, name := range []string{"Ur", "Uz", "Ua"} {
		params.add(name, random.Glorot[T](keys[3+i], tensor.Shape{n, n}, g.backend))
	}
	for _, name := range []string{"br", "bz", "ba"} {
		params.add(name, tensor.Zeros[T](tensor.Shape{n}, g.backend))
	}
	params.add(initialStateName, drawState[T](keys[6], n, g.backend))

	return tensor.Shape{n}, params, nil
}

// BatchInitialState replicates the parameter-owned initial state per batch
// element.
func (g *GRU[T, B]) BatchInitialState(params *Params[T, B], batchSize int) (*tensor.Tensor[T, B], error) {
	return tileInitialState(params, batchSize, g.units, g.backend)
}

// Apply evaluates one step on a single example.
func (g *GRU[T, B]) Apply(params *Params[T, B], input, state *tensor.Tensor[T, B]) (*tensor.Tensor[T, B], error) {
	return applySingle[T, B](g, params, input, state)
}

// BatchApply evaluates one step over a leading batch axis.
func (g *GRU[T, B]) BatchApply(params *Params[T, B], input, state *tensor.Tensor[T, B]) (*tensor.Tensor[T, B], error) {
	d := params.get("Wr").Shape()[0]
	if err := checkBatchStep(g.units, d, input, state); err != nil {
		return nil, err
	}

	gate := func(wName, uName, bName string, h *tensor.Tensor[T, B]) *tensor.Tensor[T, B] {
		return input.MatMul(params.get(wName)).
			Add(h.MatMul(params.get(uName))).
			Add(params.get(bName))
	}

	r := gate("Wr", "Ur", "br", state).Sigmoid()
	z := gate("Wz", "Uz", "bz", state).Sigmoid()
	a := gate("Wa", "Ua", "ba", r.Mul(state)).Tanh()

	// h' = z ⊙ h + (1 − z) ⊙ a
	oneMinusZ := z.MulScalar(T(-1)).AddScalar(T(1))
	return z.Mul(state).Add(oneMinusZ.Mul(a)), nil
}
