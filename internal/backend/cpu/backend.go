// Package cpu implements the CPU backend. Element-wise kernels are pure Go;
// matrix products delegate to gonum BLAS.
package cpu

import (
	"fmt"

	"github.com/Nicholas-Lee-Bateman-282787728/reverse-engineering-neural-networks/internal/tensor"
)

// Backend implements tensor operations on the CPU.
type Backend struct {
	device tensor.Device
}

// New creates a new CPU backend.
func New() *Backend {
	return &Backend{
		device: tensor.CPU,
	}
}

// Name returns the backend name.
func (cpu *Backend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *Backend) Device() tensor.Device {
	return cpu.device
}

// Add performs element-wise addition with NumPy-style broadcasting.
func (cpu *Backend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("add", a, b, addKernel)
}

// Sub performs element-wise subtraction with broadcasting.
func (cpu *Backend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("sub", a, b, subKernel)
}

// Mul performs element-wise multiplication with broadcasting.
func (cpu *Backend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("mul", a, b, mulKernel)
}

// Div performs element-wise division with broadcasting.
func (cpu *Backend) Div(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("div", a, b, divKernel)
}

// binaryKernel selects the elementary operation of a binary op.
type binaryKernel int

const (
	addKernel binaryKernel = iota
	subKernel
	mulKernel
	divKernel
)

// binary dispatches a broadcasting binary operation.
//
// Fast path: identical shapes, vectorized over flat data; computes inplace
// into a when its buffer is unique. Slow path: full broadcast with coordinate
// mapping.
func (cpu *Backend) binary(name string, a, b *tensor.RawTensor, kernel binaryKernel) *tensor.RawTensor {
	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("%s: dtype mismatch %s vs %s", name, a.DType(), b.DType()))
	}

	if !needsBroadcast && a.Shape().Equal(b.Shape()) {
		if a.IsUnique() {
			// Inplace into a
			binaryFlat(a, a, b, kernel)
			return a
		}
		result := mustNewRaw(name, outShape, a.DType(), cpu.device)
		binaryFlat(result, a, b, kernel)
		return result
	}

	result := mustNewRaw(name, outShape, a.DType(), cpu.device)
	binaryBroadcast(result, a, b, outShape, kernel)
	return result
}

// mustNewRaw allocates a RawTensor or panics with the operation name.
func mustNewRaw(name string, shape tensor.Shape, dtype tensor.DataType, device tensor.Device) *tensor.RawTensor {
	result, err := tensor.NewRaw(shape, dtype, device)
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", name, err))
	}
	return result
}
