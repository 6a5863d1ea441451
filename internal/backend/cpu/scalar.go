package cpu

import (
	"fmt"

	"github.com/Nicholas-Lee-Bateman-282787728/reverse-engineering-neural-networks/internal/tensor"
)

// Scalar operations: element-wise operations between a tensor and a scalar.
// The scalar's Go type must match the tensor's dtype.

// MulScalar multiplies each element of the tensor by a scalar value.
func (cpu *Backend) MulScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return cpu.scalarOp("mulScalar", x, scalar, mulKernel)
}

// AddScalar adds a scalar value to each element of the tensor.
func (cpu *Backend) AddScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return cpu.scalarOp("addScalar", x, scalar, addKernel)
}

// SubScalar subtracts a scalar value from each element of the tensor.
func (cpu *Backend) SubScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return cpu.scalarOp("subScalar", x, scalar, subKernel)
}

// DivScalar divides each element of the tensor by a scalar value.
func (cpu *Backend) DivScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return cpu.scalarOp("divScalar", x, scalar, divKernel)
}

func (cpu *Backend) scalarOp(name string, x *tensor.RawTensor, scalar any, kernel binaryKernel) *tensor.RawTensor {
	result := mustNewRaw(name, x.Shape(), x.DType(), cpu.device)

	switch x.DType() {
	case tensor.Float32:
		s, ok := scalar.(float32)
		if !ok {
			panic(fmt.Sprintf("%s: scalar type %T does not match dtype float32", name, scalar))
		}
		applyScalar(result.AsFloat32(), x.AsFloat32(), s, kernel)
	case tensor.Float64:
		s, ok := scalar.(float64)
		if !ok {
			panic(fmt.Sprintf("%s: scalar type %T does not match dtype float64", name, scalar))
		}
		applyScalar(result.AsFloat64(), x.AsFloat64(), s, kernel)
	case tensor.Int32:
		s, ok := scalar.(int32)
		if !ok {
			panic(fmt.Sprintf("%s: scalar type %T does not match dtype int32", name, scalar))
		}
		applyScalar(result.AsInt32(), x.AsInt32(), s, kernel)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", name, x.DType()))
	}

	return result
}

func applyScalar[T number](dst, src []T, s T, kernel binaryKernel) {
	switch kernel {
	case addKernel:
		for i, v := range src {
			dst[i] = v + s
		}
	case subKernel:
		for i, v := range src {
			dst[i] = v - s
		}
	case mulKernel:
		for i, v := range src {
			dst[i] = v * s
		}
	case divKernel:
		for i, v := range src {
			dst[i] = v / s
		}
	}
}
