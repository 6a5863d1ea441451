package cpu

import (
	"fmt"

	"github.com/Nicholas-Lee-Bateman-282787728/reverse-engineering-neural-networks/internal/tensor"
)

// Reshape returns a tensor with the same data and a new shape.
// The new shape must describe the same number of elements.
func (cpu *Backend) Reshape(x *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	if err := newShape.Validate(); err != nil {
		panic(fmt.Sprintf("reshape: %v", err))
	}
	if newShape.NumElements() != x.NumElements() {
		panic(fmt.Sprintf("reshape: cannot reshape %v (%d elements) to %v (%d elements)",
			x.Shape(), x.NumElements(), newShape, newShape.NumElements()))
	}

	result := mustNewRaw("reshape", newShape, x.DType(), cpu.device)
	copyData(result, x)
	return result
}

// Transpose permutes the tensor's dimensions.
// Empty axes reverses all dimensions (standard transpose for 2D).
func (cpu *Backend) Transpose(x *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)

	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}
	if len(axes) != ndim {
		panic(fmt.Sprintf("transpose: expected %d axes, got %d", ndim, len(axes)))
	}

	seen := make([]bool, ndim)
	outShape := make(tensor.Shape, ndim)
	for i, ax := range axes {
		if ax < 0 || ax >= ndim || seen[ax] {
			panic(fmt.Sprintf("transpose: invalid axes permutation %v", axes))
		}
		seen[ax] = true
		outShape[i] = shape[ax]
	}

	result := mustNewRaw("transpose", outShape, x.DType(), cpu.device)

	inStrides := shape.ComputeStrides()
	outStrides := outShape.ComputeStrides()
	total := outShape.NumElements()

	// Gather: walk output positions, map coordinates back through the
	// permutation to the input offset.
	mapIndex := func(outIdx int) int {
		remaining := outIdx
		inIdx := 0
		for i := 0; i < ndim; i++ {
			coord := remaining / outStrides[i]
			remaining %= outStrides[i]
			inIdx += coord * inStrides[axes[i]]
		}
		return inIdx
	}

	switch x.DType() {
	case tensor.Float32:
		src, dst := x.AsFloat32(), result.AsFloat32()
		for i := 0; i < total; i++ {
			dst[i] = src[mapIndex(i)]
		}
	case tensor.Float64:
		src, dst := x.AsFloat64(), result.AsFloat64()
		for i := 0; i < total; i++ {
			dst[i] = src[mapIndex(i)]
		}
	case tensor.Int32:
		src, dst := x.AsInt32(), result.AsInt32()
		for i := 0; i < total; i++ {
			dst[i] = src[mapIndex(i)]
		}
	default:
		panic(fmt.Sprintf("transpose: unsupported dtype %s", x.DType()))
	}

	return result
}

// Cat concatenates tensors along the specified dimension.
// All tensors must agree on every other dimension and on dtype.
// Supports negative dim indexing (-1 = last dimension).
func (cpu *Backend) Cat(tensors []*tensor.RawTensor, dim int) *tensor.RawTensor {
	if len(tensors) == 0 {
		panic("cat: at least one tensor required")
	}

	shape := tensors[0].Shape()
	ndim := len(shape)
	dtype := tensors[0].DType()

	if dim < 0 {
		dim = ndim + dim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("cat: dimension %d out of range for %dD tensor", dim, ndim))
	}

	totalDim := 0
	for i, t := range tensors {
		tShape := t.Shape()
		if len(tShape) != ndim {
			panic(fmt.Sprintf("cat: tensor %d has %d dimensions, expected %d", i, len(tShape), ndim))
		}
		if t.DType() != dtype {
			panic(fmt.Sprintf("cat: tensor %d has dtype %s, expected %s", i, t.DType(), dtype))
		}
		for d := 0; d < ndim; d++ {
			if d == dim {
				totalDim += tShape[d]
			} else if tShape[d] != shape[d] {
				panic(fmt.Sprintf("cat: tensor %d dimension %d is %d, expected %d", i, d, tShape[d], shape[d]))
			}
		}
	}

	outShape := shape.Clone()
	outShape[dim] = totalDim
	result := mustNewRaw("cat", outShape, dtype, cpu.device)

	outer := 1
	for i := 0; i < dim; i++ {
		outer *= shape[i]
	}
	inner := 1
	for i := dim + 1; i < ndim; i++ {
		inner *= shape[i]
	}

	switch dtype {
	case tensor.Float32:
		catRows(result.AsFloat32(), tensors, outer, inner, totalDim, dim, (*tensor.RawTensor).AsFloat32)
	case tensor.Float64:
		catRows(result.AsFloat64(), tensors, outer, inner, totalDim, dim, (*tensor.RawTensor).AsFloat64)
	case tensor.Int32:
		catRows(result.AsInt32(), tensors, outer, inner, totalDim, dim, (*tensor.RawTensor).AsInt32)
	default:
		panic(fmt.Sprintf("cat: unsupported dtype %s", dtype))
	}

	return result
}

// catRows copies outer×dimSize×inner blocks from each source into dst.
func catRows[T number](dst []T, tensors []*tensor.RawTensor, outer, inner, totalDim, dim int, view func(*tensor.RawTensor) []T) {
	for o := 0; o < outer; o++ {
		dstOff := o * totalDim * inner
		for _, t := range tensors {
			dimSize := t.Shape()[dim]
			block := dimSize * inner
			src := view(t)
			copy(dst[dstOff:dstOff+block], src[o*block:(o+1)*block])
			dstOff += block
		}
	}
}

// Chunk splits the tensor into n equal parts along the specified dimension.
// The dimension size must be divisible by n.
// Supports negative dim indexing (-1 = last dimension).
func (cpu *Backend) Chunk(x *tensor.RawTensor, n, dim int) []*tensor.RawTensor {
	if n <= 0 {
		panic(fmt.Sprintf("chunk: n must be positive, got %d", n))
	}

	shape := x.Shape()
	ndim := len(shape)
	if dim < 0 {
		dim = ndim + dim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("chunk: dimension %d out of range for %dD tensor", dim, ndim))
	}

	dimSize := shape[dim]
	if dimSize%n != 0 {
		panic(fmt.Sprintf("chunk: dimension %d size %d not divisible by %d", dim, dimSize, n))
	}
	chunkSize := dimSize / n

	chunkShape := shape.Clone()
	chunkShape[dim] = chunkSize

	results := make([]*tensor.RawTensor, n)
	for i := range results {
		results[i] = mustNewRaw("chunk", chunkShape, x.DType(), cpu.device)
	}

	outer := 1
	for i := 0; i < dim; i++ {
		outer *= shape[i]
	}
	inner := 1
	for i := dim + 1; i < ndim; i++ {
		inner *= shape[i]
	}

	switch x.DType() {
	case tensor.Float32:
		chunkRows(results, x.AsFloat32(), outer, inner, chunkSize, (*tensor.RawTensor).AsFloat32)
	case tensor.Float64:
		chunkRows(results, x.AsFloat64(), outer, inner, chunkSize, (*tensor.RawTensor).AsFloat64)
	case tensor.Int32:
		chunkRows(results, x.AsInt32(), outer, inner, chunkSize, (*tensor.RawTensor).AsInt32)
	default:
		panic(fmt.Sprintf("chunk: unsupported dtype %s", x.DType()))
	}

	return results
}

func chunkRows[T number](results []*tensor.RawTensor, src []T, outer, inner, chunkSize int, view func(*tensor.RawTensor) []T) {
	n := len(results)
	block := chunkSize * inner
	for o := 0; o < outer; o++ {
		srcOff := o * n * block
		for c, r := range results {
			dst := view(r)
			copy(dst[o*block:(o+1)*block], src[srcOff+c*block:srcOff+(c+1)*block])
		}
	}
}

// Unsqueeze adds a dimension of size 1 at the specified position.
// Supports negative dim indexing (dim == -1 appends a trailing dimension).
func (cpu *Backend) Unsqueeze(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)
	if dim < 0 {
		dim = ndim + 1 + dim
	}
	if dim < 0 || dim > ndim {
		panic(fmt.Sprintf("unsqueeze: dimension %d out of range for %dD tensor", dim, ndim))
	}

	newShape := make(tensor.Shape, 0, ndim+1)
	newShape = append(newShape, shape[:dim]...)
	newShape = append(newShape, 1)
	newShape = append(newShape, shape[dim:]...)
	return cpu.Reshape(x, newShape)
}

// Squeeze removes a dimension of size 1 at the specified position.
// Panics if the dimension size is not 1. Supports negative dim indexing.
func (cpu *Backend) Squeeze(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)
	if dim < 0 {
		dim = ndim + dim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("squeeze: dimension %d out of range for %dD tensor", dim, ndim))
	}
	if shape[dim] != 1 {
		panic(fmt.Sprintf("squeeze: dimension %d has size %d, expected 1", dim, shape[dim]))
	}

	newShape := make(tensor.Shape, 0, ndim-1)
	newShape = append(newShape, shape[:dim]...)
	newShape = append(newShape, shape[dim+1:]...)
	return cpu.Reshape(x, newShape)
}

// copyData copies the flat contents of src into dst.
// Requires matching dtype and element count.
func copyData(dst, src *tensor.RawTensor) {
	switch src.DType() {
	case tensor.Float32:
		copy(dst.AsFloat32(), src.AsFloat32())
	case tensor.Float64:
		copy(dst.AsFloat64(), src.AsFloat64())
	case tensor.Int32:
		copy(dst.AsInt32(), src.AsInt32())
	default:
		panic(fmt.Sprintf("copy: unsupported dtype %s", src.DType()))
	}
}
