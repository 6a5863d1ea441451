package autodiff

import (
	"fmt"

	"github.com/Nicholas-Lee-Bateman-282787728/reverse-engineering-neural-networks/internal/tensor"
)

// BackwardCapable is satisfied by backends that carry a gradient tape.
// Autodiff implements it; plain compute backends do not.
type BackwardCapable interface {
	tensor.Backend
	GetTape() *GradientTape
}

// GetTape returns the gradient tape (implements BackwardCapable).
func (b *Autodiff[B]) GetTape() *GradientTape {
	return b.tape
}

// Backward computes gradients of t with respect to everything it depends on,
// seeding the backward pass with ones.
//
// Example:
//
//	be := autodiff.New(cpu.New())
//	be.Tape().StartRecording()
//	x := tensor.Ones[float32](tensor.Shape{2}, be)
//	y := x.Mul(x)
//	grads := autodiff.Backward(y, be)
//	_ = grads[x.Raw()]
func Backward[T tensor.DType, B BackwardCapable](t *tensor.Tensor[T, B], backend B) map[*tensor.RawTensor]*tensor.RawTensor {
	tape := backend.GetTape()
	if tape.NumOps() == 0 {
		panic("backward: no operations recorded (did you forget to call Tape().StartRecording()?)")
	}

	seed, err := tensor.NewRaw(t.Shape(), t.DType(), backend.Device())
	if err != nil {
		panic(fmt.Sprintf("backward: failed to create output gradient: %v", err))
	}
	switch t.DType() {
	case tensor.Float32:
		data := seed.AsFloat32()
		for i := range data {
			data[i] = 1.0
		}
	case tensor.Float64:
		data := seed.AsFloat64()
		for i := range data {
			data[i] = 1.0
		}
	default:
		panic(fmt.Sprintf("backward: unsupported dtype %s", t.DType()))
	}

	return tape.Backward(t.Raw(), seed, backend)
}

// BackwardFrom runs a backward pass seeded at an arbitrary recorded output
// with an arbitrary gradient. This is the entry point linearization uses:
// seeding with basis vectors extracts one Jacobian row per call, all from a
// single recorded forward pass.
func BackwardFrom[T tensor.DType, B BackwardCapable](output, seed *tensor.Tensor[T, B], backend B) map[*tensor.RawTensor]*tensor.RawTensor {
	tape := backend.GetTape()
	if tape.NumOps() == 0 {
		panic("backward: no operations recorded (did you forget to call Tape().StartRecording()?)")
	}
	if !output.Shape().Equal(seed.Shape()) {
		panic(fmt.Sprintf("backward: seed shape %v does not match output shape %v", seed.Shape(), output.Shape()))
	}
	return tape.Backward(output.Raw(), seed.Raw(), backend)
}
