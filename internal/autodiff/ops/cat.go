package ops

import "github.com/Nicholas-Lee-Bateman-282787728/reverse-engineering-neural-networks/internal/tensor"

// CatOp represents concatenation along a dimension.
//
// Backward pass: slice the output gradient back into per-input pieces along
// the concatenation dimension.
type CatOp struct {
	inputs []*tensor.RawTensor
	output *tensor.RawTensor
	dim    int // normalized
}

// NewCatOp creates a new CatOp. dim must already be normalized.
func NewCatOp(inputs []*tensor.RawTensor, output *tensor.RawTensor, dim int) *CatOp {
	return &CatOp{
		inputs: inputs,
		output: output,
		dim:    dim,
	}
}

// Backward splits the output gradient at the input boundaries.
// When all inputs have equal size along dim this is exactly Chunk; unequal
// sizes are handled with direct block copies.
func (op *CatOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	equal := true
	first := op.inputs[0].Shape()[op.dim]
	for _, in := range op.inputs[1:] {
		if in.Shape()[op.dim] != first {
			equal = false
			break
		}
	}
	if equal {
		return backend.Chunk(outputGrad, len(op.inputs), op.dim)
	}
	return splitUneven(outputGrad, op.inputs, op.dim, backend)
}

// splitUneven copies outer×size×inner blocks of grad into per-input tensors.
func splitUneven(grad *tensor.RawTensor, inputs []*tensor.RawTensor, dim int, backend tensor.Backend) []*tensor.RawTensor {
	outShape := grad.Shape()
	outer := 1
	for i := 0; i < dim; i++ {
		outer *= outShape[i]
	}
	inner := 1
	for i := dim + 1; i < len(outShape); i++ {
		inner *= outShape[i]
	}
	totalDim := outShape[dim]

	grads := make([]*tensor.RawTensor, len(inputs))
	for i, in := range inputs {
		grads[i] = zerosLike(in, backend)
	}

	switch grad.DType() {
	case tensor.Float32:
		src := grad.AsFloat32()
		for o := 0; o < outer; o++ {
			srcOff := o * totalDim * inner
			for i, in := range inputs {
				block := in.Shape()[dim] * inner
				dst := grads[i].AsFloat32()
				copy(dst[o*block:(o+1)*block], src[srcOff:srcOff+block])
				srcOff += block
			}
		}
	case tensor.Float64:
		src := grad.AsFloat64()
		for o := 0; o < outer; o++ {
			srcOff := o * totalDim * inner
			for i, in := range inputs {
				block := in.Shape()[dim] * inner
				dst := grads[i].AsFloat64()
				copy(dst[o*block:(o+1)*block], src[srcOff:srcOff+block])
				srcOff += block
			}
		}
	default:
		panic("cat backward: unsupported dtype")
	}

	return grads
}

// Inputs returns the concatenated input tensors.
func (op *CatOp) Inputs() []*tensor.RawTensor {
	return op.inputs
}

// Output returns the concatenated tensor.
func (op *CatOp) Output() *tensor.RawTensor {
	return op.output
}
