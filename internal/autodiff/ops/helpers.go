package ops

import (
	"fmt"

	"github.com/Nicholas-Lee-Bateman-282787728/reverse-engineering-neural-networks/internal/tensor"
)

// reduceBroadcast sums a gradient over the dimensions that were stretched by
// broadcasting in the forward pass, so the result matches targetShape.
//
// Example: forward broadcast [1, 4] to [3, 4]; the gradient [3, 4] is summed
// over dimension 0 back to [1, 4].
func reduceBroadcast(grad *tensor.RawTensor, targetShape tensor.Shape, backend tensor.Backend) *tensor.RawTensor {
	gradShape := grad.Shape()
	if gradShape.Equal(targetShape) {
		return grad
	}

	result := grad

	// Sum away leading dimensions the target does not have.
	for len(result.Shape()) > len(targetShape) {
		result = backend.SumDim(result, 0, false)
	}

	// Sum over dimensions where the target is 1 but the gradient is larger.
	for d := 0; d < len(targetShape); d++ {
		if targetShape[d] == 1 && result.Shape()[d] != 1 {
			result = backend.SumDim(result, d, true)
		}
	}

	if !result.Shape().Equal(targetShape) {
		result = backend.Reshape(result, targetShape)
	}
	return result
}

// onesLike creates a tensor of ones with the same shape and dtype as t.
func onesLike(t *tensor.RawTensor, backend tensor.Backend) *tensor.RawTensor {
	result, err := tensor.NewRaw(t.Shape(), t.DType(), backend.Device())
	if err != nil {
		panic(fmt.Sprintf("onesLike: %v", err))
	}
	fill(result, 1)
	return result
}

// zerosLike creates a zero tensor with the same shape and dtype as t.
func zerosLike(t *tensor.RawTensor, backend tensor.Backend) *tensor.RawTensor {
	result, err := tensor.NewRaw(t.Shape(), t.DType(), backend.Device())
	if err != nil {
		panic(fmt.Sprintf("zerosLike: %v", err))
	}
	return result
}

// fill sets every element of t to v.
func fill(t *tensor.RawTensor, v float64) {
	switch t.DType() {
	case tensor.Float32:
		data := t.AsFloat32()
		for i := range data {
			data[i] = float32(v)
		}
	case tensor.Float64:
		data := t.AsFloat64()
		for i := range data {
			data[i] = v
		}
	default:
		panic(fmt.Sprintf("fill: unsupported dtype %s", t.DType()))
	}
}

// negate returns -x, built from the backend's scalar multiply.
func negate(x *tensor.RawTensor, backend tensor.Backend) *tensor.RawTensor {
	return backend.MulScalar(x, scalarOf(x.DType(), -1))
}

// scalarOf converts v to the Go scalar type matching dtype.
func scalarOf(dtype tensor.DataType, v float64) any {
	switch dtype {
	case tensor.Float32:
		return float32(v)
	case tensor.Float64:
		return v
	case tensor.Int32:
		return int32(v)
	default:
		panic(fmt.Sprintf("scalarOf: unsupported dtype %s", dtype))
	}
}
