package cpu

import (
	"fmt"

	"github.com/Nicholas-Lee-Bateman-282787728/reverse-engineering-neural-networks/internal/tensor"
)

// Element-wise kernels shared by the fast (flat) and slow (broadcast) paths.
// One generic implementation per numeric width replaces the per-dtype
// function families of a hand-specialized backend.

type number interface {
	~float32 | ~float64 | ~int32
}

func applyFlat[T number](dst, a, b []T, kernel binaryKernel) {
	switch kernel {
	case addKernel:
		for i := range dst {
			dst[i] = a[i] + b[i]
		}
	case subKernel:
		for i := range dst {
			dst[i] = a[i] - b[i]
		}
	case mulKernel:
		for i := range dst {
			dst[i] = a[i] * b[i]
		}
	case divKernel:
		for i := range dst {
			dst[i] = a[i] / b[i]
		}
	}
}

// binaryFlat applies a kernel over same-shape operands.
// Requires: result.Shape().Equal(a.Shape()) && a.Shape().Equal(b.Shape()).
func binaryFlat(result, a, b *tensor.RawTensor, kernel binaryKernel) {
	switch a.DType() {
	case tensor.Float32:
		applyFlat(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), kernel)
	case tensor.Float64:
		applyFlat(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), kernel)
	case tensor.Int32:
		applyFlat(result.AsInt32(), a.AsInt32(), b.AsInt32(), kernel)
	default:
		panic(fmt.Sprintf("binary op: unsupported dtype %s", a.DType()))
	}
}

// binaryBroadcast applies a kernel with full NumPy-style broadcasting.
func binaryBroadcast(result, a, b *tensor.RawTensor, outShape tensor.Shape, kernel binaryKernel) {
	switch a.DType() {
	case tensor.Float32:
		applyBroadcast(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), a.Shape(), b.Shape(), outShape, kernel)
	case tensor.Float64:
		applyBroadcast(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), a.Shape(), b.Shape(), outShape, kernel)
	case tensor.Int32:
		applyBroadcast(result.AsInt32(), a.AsInt32(), b.AsInt32(), a.Shape(), b.Shape(), outShape, kernel)
	default:
		panic(fmt.Sprintf("binary op: unsupported dtype %s", a.DType()))
	}
}

func applyBroadcast[T number](dst, a, b []T, aShape, bShape, outShape tensor.Shape, kernel binaryKernel) {
	outStrides := outShape.ComputeStrides()
	aStrides := aShape.ComputeStrides()
	bStrides := bShape.ComputeStrides()
	total := outShape.NumElements()

	coords := make([]int, len(outShape))
	for outIdx := 0; outIdx < total; outIdx++ {
		// Linear index to multi-dim coordinates
		remaining := outIdx
		for i := range outShape {
			coords[i] = remaining / outStrides[i]
			remaining %= outStrides[i]
		}

		aIdx := broadcastIndex(coords, aShape, aStrides, len(outShape))
		bIdx := broadcastIndex(coords, bShape, bStrides, len(outShape))

		var v T
		switch kernel {
		case addKernel:
			v = a[aIdx] + b[bIdx]
		case subKernel:
			v = a[aIdx] - b[bIdx]
		case mulKernel:
			v = a[aIdx] * b[bIdx]
		case divKernel:
			v = a[aIdx] / b[bIdx]
		}
		dst[outIdx] = v
	}
}

// broadcastIndex maps output coordinates to a flat input index, treating
// size-1 dimensions (and missing leading dimensions) as stretched.
func broadcastIndex(coords []int, shape tensor.Shape, strides []int, outNDim int) int {
	offset := outNDim - len(shape)
	idx := 0
	for i := range shape {
		coord := coords[offset+i]
		if shape[i] == 1 {
			coord = 0
		}
		idx += coord * strides[i]
	}
	return idx
}
