package rnn

import (
	"github.com/Nicholas-Lee-Bateman-282787728/reverse-engineering-neural-networks/internal/random"
	"github.com/Nicholas-Lee-Bateman-282787728/reverse-engineering-neural-networks/internal/tensor"
)

// LSTM is a long short-term memory cell.
//
// The carried state is the concatenation [h ; c] of hidden and cell vectors,
// so Units reports twice the constructor's hidden size. Keeping both halves
// in one state vector makes the recurrent Jacobian of the full carried state
// well defined.
//
// Gates use fused weights W [d, 4n], U [n, 4n], b [4n] split into
// input/forget/candidate/output blocks:
//
//	i  = σ(x Wi + h Ui + bi)
//	f  = σ(x Wf + h Uf + bf + 1)    forget bias offset
//	g  = tanh(x Wg + h Ug + bg)
//	o  = σ(x Wo + h Uo + bo)
//	c' = f ⊙ c + i ⊙ g
//	h' = o ⊙ tanh(c')
type LSTM[T tensor.Float, B tensor.Backend] struct {
	hidden  int
	backend B
}

// NewLSTM creates an LSTM cell with the given hidden size. The carried
// state width (Units) is 2·hidden.
func NewLSTM[T tensor.Float, B tensor.Backend](hidden int, b B) *LSTM[T, B] {
	return &LSTM[T, B]{hidden: hidden, backend: b}
}

// Units returns the carried state width, hidden and cell halves combined.
func (l *LSTM[T, B]) Units() int {
	return 2 * l.hidden
}

// Hidden returns the width of the visible hidden half.
func (l *LSTM[T, B]) Hidden() int {
	return l.hidden
}

// InitialState draws a carried state [h ; c] from the key.
func (l *LSTM[T, B]) InitialState(key random.Key) (*tensor.Tensor[T, B], error) {
	if err := checkUnits(l.hidden); err != nil {
		return nil, err
	}
	return drawState[T](key, l.Units(), l.backend), nil
}

// Init allocates fused gate weights and a drawn initial state.
func (l *LSTM[T, B]) Init(key random.Key, inputShape tensor.Shape) (tensor.Shape, *Params[T, B], error) {
	if err := checkUnits(l.hidden); err != nil {
		return nil, nil, err
	}
	d, err := checkInputShape(inputShape)
	if err != nil {
		return nil, nil, err
	}

	n := l.hidden
	keys := key.SplitN(3)
	params := newParams[T, B]()
	params.add("W", random.Glorot[T](keys[0], tensor.Shape{d, 4 * n}, l.backend))
	params.add("U", random.Glorot[T](keys[1], tensor.Shape{n, 4 * n}, l.backend))
	params.add("b", tensor.Zeros[T](tensor.Shape{4 * n}, l.backend))
	params.add(initialStateName, drawState[T](keys[2], l.Units(), l.backend))

	return tensor.Shape{l.Units()}, params, nil
}

// BatchInitialState replicates the parameter-owned initial state per batch
// element.
func (l *LSTM[T, B]) BatchInitialState(params *Params[T, B], batchSize int) (*tensor.Tensor[T, B], error) {
	return tileInitialState(params, batchSize, l.Units(), l.backend)
}

// Apply evaluates one step on a single example.
func (l *LSTM[T, B]) Apply(params *Params[T, B], input, state *tensor.Tensor[T, B]) (*tensor.Tensor[T, B], error) {
	return applySingle[T, B](l, params, input, state)
}

// BatchApply evaluates one step over a leading batch axis.
func (l *LSTM[T, B]) BatchApply(params *Params[T, B], input, state *tensor.Tensor[T, B]) (*tensor.Tensor[T, B], error) {
	d := params.get("W").Shape()[0]
	if err := checkBatchStep(l.Units(), d, input, state); err != nil {
		return nil, err
	}

	halves := state.Chunk(2, -1)
	h, c := halves[0], halves[1]

	preact := input.MatMul(params.get("W")).
		Add(h.MatMul(params.get("U"))).
		Add(params.get("b"))
	gates := preact.Chunk(4, -1)

	i := gates[0].Sigmoid()
	f := gates[1].AddScalar(T(1)).Sigmoid()
	g := gates[2].Tanh()
	o := gates[3].Sigmoid()

	cNext := f.Mul(c).Add(i.Mul(g))
	hNext := o.Mul(cNext.Tanh())

	return tensor.Cat([]*tensor.Tensor[T, B]{hNext, cNext}, -1), nil
}
