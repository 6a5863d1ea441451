package ops

import "github.com/Nicholas-Lee-Bateman-282787728/reverse-engineering-neural-networks/internal/tensor"

// ChunkOp represents an equal split along a dimension. It is the canonical
// multi-output operation: each chunk can flow into a different part of the
// graph (gate pre-activations of an LSTM, timesteps of an unrolled input).
//
// Backward pass: concatenate the per-chunk gradients back along dim. The
// tape substitutes zeros for chunks that received no gradient.
type ChunkOp struct {
	input   *tensor.RawTensor
	outputs []*tensor.RawTensor
	dim     int // normalized
}

// NewChunkOp creates a new ChunkOp. dim must already be normalized.
func NewChunkOp(input *tensor.RawTensor, outputs []*tensor.RawTensor, dim int) *ChunkOp {
	return &ChunkOp{
		input:   input,
		outputs: outputs,
		dim:     dim,
	}
}

// Backward only exists to satisfy the Operation interface; the tape calls
// BackwardMulti for multi-output operations.
func (op *ChunkOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	panic("chunk: use BackwardMulti for multi-output operations")
}

// BackwardMulti concatenates all chunk gradients back into the input shape.
func (op *ChunkOp) BackwardMulti(outputGrads []*tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.Cat(outputGrads, op.dim)}
}

// Inputs returns the split tensor.
func (op *ChunkOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the first chunk. Use Outputs for all of them.
func (op *ChunkOp) Output() *tensor.RawTensor {
	return op.outputs[0]
}

// Outputs returns all chunks.
func (op *ChunkOp) Outputs() []*tensor.RawTensor {
	return op.outputs
}
