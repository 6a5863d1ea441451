package ops

import "github.com/Nicholas-Lee-Bateman-282787728/reverse-engineering-neural-networks/internal/tensor"

// scalarKind identifies which scalar operation was performed.
type scalarKind int

// Scalar operation kinds.
const (
	ScalarMul scalarKind = iota
	ScalarAdd
	ScalarSub
	ScalarDiv
)

// ScalarOp represents an element-wise operation with a constant scalar:
// output = x ⊙ s. The scalar is a constant, so only x receives a gradient.
//
// Backward pass:
//   - mul: grad_x = outputGrad * s
//   - add/sub: grad_x = outputGrad
//   - div: grad_x = outputGrad / s
type ScalarOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
	scalar any
	kind   scalarKind
}

// NewScalarOp creates a new ScalarOp of the given kind.
func NewScalarOp(kind scalarKind, input, output *tensor.RawTensor, scalar any) *ScalarOp {
	return &ScalarOp{
		input:  input,
		output: output,
		scalar: scalar,
		kind:   kind,
	}
}

// Backward computes the input gradient.
func (op *ScalarOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	switch op.kind {
	case ScalarMul:
		return []*tensor.RawTensor{backend.MulScalar(outputGrad, op.scalar)}
	case ScalarDiv:
		return []*tensor.RawTensor{backend.DivScalar(outputGrad, op.scalar)}
	default: // ScalarAdd, ScalarSub
		return []*tensor.RawTensor{outputGrad}
	}
}

// Inputs returns the input tensor.
func (op *ScalarOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the output tensor.
func (op *ScalarOp) Output() *tensor.RawTensor {
	return op.output
}
