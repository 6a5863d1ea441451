package autodiff

import (
	"github.com/Nicholas-Lee-Bateman-282787728/reverse-engineering-neural-networks/internal/autodiff/ops"
	"github.com/Nicholas-Lee-Bateman-282787728/reverse-engineering-neural-networks/internal/tensor"
)

// GradientTape records operations during the forward pass and computes
// gradients during the backward pass using reverse-mode differentiation.
//
// A single recorded tape can be replayed backwards many times with
// different seeds. Jacobian extraction relies on this: record the step
// function once, then run one backward pass per output coordinate.
type GradientTape struct {
	operations []ops.Operation // in execution order
	recording  bool
}

// NewGradientTape creates an empty tape. Recording starts disabled.
func NewGradientTape() *GradientTape {
	return &GradientTape{
		operations: make([]ops.Operation, 0, 64),
	}
}

// StartRecording enables operation recording.
func (t *GradientTape) StartRecording() {
	t.recording = true
}

// StopRecording disables operation recording.
func (t *GradientTape) StopRecording() {
	t.recording = false
}

// IsRecording reports whether the tape is currently recording.
func (t *GradientTape) IsRecording() bool {
	return t.recording
}

// Record appends an operation to the tape if recording is enabled.
func (t *GradientTape) Record(op ops.Operation) {
	if t.recording {
		t.operations = append(t.operations, op)
	}
}

// Clear drops all recorded operations. Recording state is preserved.
func (t *GradientTape) Clear() {
	t.operations = t.operations[:0]
}

// NumOps returns the number of recorded operations.
func (t *GradientTape) NumOps() int {
	return len(t.operations)
}

// Backward walks the tape in reverse from the given output tensor, seeded
// with outputGrad, and returns the accumulated gradient for every tensor
// the output depends on.
//
// output does not have to be the last recorded result; operations downstream
// of it receive no gradient and are skipped. outputGrad must match output's
// shape. Recording is suspended for the duration of the walk so gradient
// arithmetic does not extend the tape.
func (t *GradientTape) Backward(output, outputGrad *tensor.RawTensor, backend tensor.Backend) map[*tensor.RawTensor]*tensor.RawTensor {
	grads := make(map[*tensor.RawTensor]*tensor.RawTensor)
	if len(t.operations) == 0 {
		return grads
	}

	wasRecording := t.recording
	t.recording = false
	defer func() { t.recording = wasRecording }()

	grads[output] = outputGrad

	for i := len(t.operations) - 1; i >= 0; i-- {
		op := t.operations[i]

		var inputGrads []*tensor.RawTensor
		if multi, ok := op.(ops.MultiOutputOperation); ok {
			inputGrads = t.multiOutputGrads(multi, grads, backend)
		} else if g, ok := grads[op.Output()]; ok {
			inputGrads = op.Backward(g, backend)
		}
		if inputGrads == nil {
			continue
		}

		for j, input := range op.Inputs() {
			if j >= len(inputGrads) || inputGrads[j] == nil {
				continue
			}
			if existing, ok := grads[input]; ok {
				grads[input] = backend.Add(existing, inputGrads[j])
			} else {
				grads[input] = inputGrads[j]
			}
		}
	}

	return grads
}

// multiOutputGrads assembles the per-output gradient slice for a
// multi-output operation. Outputs with no incoming gradient are filled
// with zeros; if none of the outputs received a gradient, nil is returned
// and the operation is skipped.
func (t *GradientTape) multiOutputGrads(
	op ops.MultiOutputOperation,
	grads map[*tensor.RawTensor]*tensor.RawTensor,
	backend tensor.Backend,
) []*tensor.RawTensor {
	outputs := op.Outputs()
	outputGrads := make([]*tensor.RawTensor, len(outputs))

	any := false
	for j, out := range outputs {
		if g, ok := grads[out]; ok {
			outputGrads[j] = g
			any = true
		}
	}
	if !any {
		return nil
	}

	for j, out := range outputs {
		if outputGrads[j] != nil {
			continue
		}
		zero, err := tensor.NewRaw(out.Shape(), out.DType(), backend.Device())
		if err != nil {
			continue
		}
		outputGrads[j] = zero
	}

	return op.BackwardMulti(outputGrads, backend)
}
