// Package autodiff implements reverse-mode automatic differentiation using
// the decorator pattern.
//
// Autodiff[B] wraps any Backend implementation and records every operation
// on a GradientTape during the forward pass. Walking the tape backwards
// applies the chain rule, yielding exact gradients for every recorded input.
//
// The same machinery serves two consumers:
//   - scalar backward passes (seed the final output with ones)
//   - Jacobian rows (seed a chosen output with a basis vector, once per row)
//
// Usage:
//
//	be := autodiff.New(cpu.New())
//	be.Tape().StartRecording()
//	x := tensor.FromSlice([]float32{2.0}, tensor.Shape{1}, be)
//	y := x.Mul(x)
//	grads := autodiff.Backward(y, be)
//	_ = grads[x.Raw()] // dy/dx = 2x
package autodiff

import (
	"github.com/Nicholas-Lee-Bateman-282787728/reverse-engineering-neural-networks/internal/autodiff/ops"
	"github.com/Nicholas-Lee-Bateman-282787728/reverse-engineering-neural-networks/internal/tensor"
)

// Autodiff wraps a Backend and adds gradient tracking.
// It implements tensor.Backend itself, so tensors built on it behave exactly
// like tensors on the wrapped backend, plus a tape.
type Autodiff[B tensor.Backend] struct {
	inner B
	tape  *GradientTape
}

// New creates an Autodiff decorator around the given backend.
func New[B tensor.Backend](backend B) *Autodiff[B] {
	return &Autodiff[B]{
		inner: backend,
		tape:  NewGradientTape(),
	}
}

// Tape returns the gradient tape for manual control (start/stop recording,
// clearing between iterations, inspecting recorded operations).
func (b *Autodiff[B]) Tape() *GradientTape {
	return b.tape
}

// Inner returns the wrapped backend.
func (b *Autodiff[B]) Inner() B {
	return b.inner
}

// Name returns the backend name.
func (b *Autodiff[B]) Name() string {
	return "Autodiff(" + b.inner.Name() + ")"
}

// Device returns the compute device of the wrapped backend.
func (b *Autodiff[B]) Device() tensor.Device {
	return b.inner.Device()
}

// Add performs element-wise addition and records the operation.
//
// The ForceNonUnique guards prevent the wrapped backend from reusing an
// input buffer inplace, which would corrupt tensors still referenced by
// earlier tape entries.
func (b *Autodiff[B]) Add(a, c *tensor.RawTensor) *tensor.RawTensor {
	defer a.ForceNonUnique()()
	defer c.ForceNonUnique()()

	result := b.inner.Add(a, c)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewAddOp(a, c, result))
	}
	return result
}

// Sub performs element-wise subtraction and records the operation.
func (b *Autodiff[B]) Sub(a, c *tensor.RawTensor) *tensor.RawTensor {
	defer a.ForceNonUnique()()
	defer c.ForceNonUnique()()

	result := b.inner.Sub(a, c)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewSubOp(a, c, result))
	}
	return result
}

// Mul performs element-wise multiplication and records the operation.
func (b *Autodiff[B]) Mul(a, c *tensor.RawTensor) *tensor.RawTensor {
	defer a.ForceNonUnique()()
	defer c.ForceNonUnique()()

	result := b.inner.Mul(a, c)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewMulOp(a, c, result))
	}
	return result
}

// Div performs element-wise division and records the operation.
func (b *Autodiff[B]) Div(a, c *tensor.RawTensor) *tensor.RawTensor {
	defer a.ForceNonUnique()()
	defer c.ForceNonUnique()()

	result := b.inner.Div(a, c)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewDivOp(a, c, result))
	}
	return result
}

// MatMul performs matrix multiplication and records the operation.
func (b *Autodiff[B]) MatMul(a, c *tensor.RawTensor) *tensor.RawTensor {
	defer a.ForceNonUnique()()
	defer c.ForceNonUnique()()

	result := b.inner.MatMul(a, c)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewMatMulOp(a, c, result))
	}
	return result
}

// Reshape reshapes a tensor and records the operation.
//
// Reshape must be recorded even though it only rearranges metadata: the
// wrapped backend returns a new tensor, and without a ReshapeOp the gradient
// would stop at the reshaped copy instead of flowing to the original.
func (b *Autodiff[B]) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	defer t.ForceNonUnique()()

	result := b.inner.Reshape(t, newShape)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewReshapeOp(t, result))
	}
	return result
}

// Transpose permutes dimensions and records the operation.
//
// Same reasoning as Reshape: the backend materializes a new tensor, so a
// recurrent weight used as wᵀ inside a step would never receive its gradient
// without a TransposeOp linking the two.
func (b *Autodiff[B]) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	defer t.ForceNonUnique()()

	ndim := len(t.Shape())
	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}

	result := b.inner.Transpose(t, axes...)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewTransposeOp(t, result, axes))
	}
	return result
}

// MulScalar multiplies by a scalar and records the operation.
func (b *Autodiff[B]) MulScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	result := b.inner.MulScalar(x, scalar)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewScalarOp(ops.ScalarMul, x, result, scalar))
	}
	return result
}

// AddScalar adds a scalar and records the operation.
func (b *Autodiff[B]) AddScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	result := b.inner.AddScalar(x, scalar)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewScalarOp(ops.ScalarAdd, x, result, scalar))
	}
	return result
}

// SubScalar subtracts a scalar and records the operation.
func (b *Autodiff[B]) SubScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	result := b.inner.SubScalar(x, scalar)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewScalarOp(ops.ScalarSub, x, result, scalar))
	}
	return result
}

// DivScalar divides by a scalar and records the operation.
func (b *Autodiff[B]) DivScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	result := b.inner.DivScalar(x, scalar)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewScalarOp(ops.ScalarDiv, x, result, scalar))
	}
	return result
}

// Exp applies the element-wise exponential and records the operation.
func (b *Autodiff[B]) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	result := b.inner.Exp(x)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewExpOp(x, result))
	}
	return result
}

// Tanh applies the hyperbolic tangent and records the operation.
func (b *Autodiff[B]) Tanh(x *tensor.RawTensor) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	result := b.inner.Tanh(x)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewTanhOp(x, result))
	}
	return result
}

// Sigmoid applies the logistic function and records the operation.
func (b *Autodiff[B]) Sigmoid(x *tensor.RawTensor) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	result := b.inner.Sigmoid(x)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewSigmoidOp(x, result))
	}
	return result
}

// Sum reduces to a scalar and records the operation.
func (b *Autodiff[B]) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	result := b.inner.Sum(x)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewSumOp(x, result))
	}
	return result
}

// SumDim reduces along a dimension and records the operation.
func (b *Autodiff[B]) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	if dim < 0 {
		dim = len(x.Shape()) + dim
	}

	result := b.inner.SumDim(x, dim, keepDim)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewSumDimOp(x, result, dim, keepDim))
	}
	return result
}

// Cat concatenates tensors along a dimension and records the operation.
func (b *Autodiff[B]) Cat(tensors []*tensor.RawTensor, dim int) *tensor.RawTensor {
	for _, t := range tensors {
		defer t.ForceNonUnique()()
	}

	if dim < 0 {
		dim = len(tensors[0].Shape()) + dim
	}

	result := b.inner.Cat(tensors, dim)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewCatOp(tensors, result, dim))
	}
	return result
}

// Chunk splits a tensor into n equal parts and records the operation.
// This is the one multi-output operation on the tape.
func (b *Autodiff[B]) Chunk(x *tensor.RawTensor, n, dim int) []*tensor.RawTensor {
	defer x.ForceNonUnique()()

	if dim < 0 {
		dim = len(x.Shape()) + dim
	}

	results := b.inner.Chunk(x, n, dim)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewChunkOp(x, results, dim))
	}
	return results
}

// Unsqueeze inserts a size-1 dimension and records it as a reshape.
func (b *Autodiff[B]) Unsqueeze(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	result := b.inner.Unsqueeze(x, dim)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewReshapeOp(x, result))
	}
	return result
}

// Squeeze removes a size-1 dimension and records it as a reshape.
func (b *Autodiff[B]) Squeeze(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	result := b.inner.Squeeze(x, dim)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewReshapeOp(x, result))
	}
	return result
}
