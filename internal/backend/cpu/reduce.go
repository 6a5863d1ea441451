package cpu

import (
	"fmt"

	"github.com/Nicholas-Lee-Bateman-282787728/reverse-engineering-neural-networks/internal/tensor"
)

// Sum computes the total sum over all elements, returning a scalar tensor.
func (cpu *Backend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	result := mustNewRaw("sum", tensor.Shape{}, x.DType(), cpu.device)

	switch x.DType() {
	case tensor.Float32:
		result.AsFloat32()[0] = sumAll(x.AsFloat32())
	case tensor.Float64:
		result.AsFloat64()[0] = sumAll(x.AsFloat64())
	case tensor.Int32:
		result.AsInt32()[0] = sumAll(x.AsInt32())
	default:
		panic(fmt.Sprintf("sum: unsupported dtype %s", x.DType()))
	}

	return result
}

func sumAll[T number](src []T) T {
	var total T
	for _, v := range src {
		total += v
	}
	return total
}

// SumDim sums along a dimension. With keepDim the reduced dimension is kept
// with size 1, otherwise it is dropped. Supports negative dim indexing.
func (cpu *Backend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)
	if dim < 0 {
		dim = ndim + dim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("sumDim: dimension %d out of range for %dD tensor", dim, ndim))
	}

	// outer × reduced × inner decomposition of the flat layout
	outer, inner := 1, 1
	for i := 0; i < dim; i++ {
		outer *= shape[i]
	}
	for i := dim + 1; i < ndim; i++ {
		inner *= shape[i]
	}
	reduced := shape[dim]

	outShape := make(tensor.Shape, 0, ndim)
	for i, d := range shape {
		switch {
		case i != dim:
			outShape = append(outShape, d)
		case keepDim:
			outShape = append(outShape, 1)
		}
	}

	result := mustNewRaw("sumDim", outShape, x.DType(), cpu.device)

	switch x.DType() {
	case tensor.Float32:
		sumDim(result.AsFloat32(), x.AsFloat32(), outer, reduced, inner)
	case tensor.Float64:
		sumDim(result.AsFloat64(), x.AsFloat64(), outer, reduced, inner)
	case tensor.Int32:
		sumDim(result.AsInt32(), x.AsInt32(), outer, reduced, inner)
	default:
		panic(fmt.Sprintf("sumDim: unsupported dtype %s", x.DType()))
	}

	return result
}

func sumDim[T number](dst, src []T, outer, reduced, inner int) {
	for o := 0; o < outer; o++ {
		for i := 0; i < inner; i++ {
			var total T
			for r := 0; r < reduced; r++ {
				total += src[(o*reduced+r)*inner+i]
			}
			dst[o*inner+i] = total
		}
	}
}
