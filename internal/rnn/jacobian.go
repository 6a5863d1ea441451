package rnn

import (
	"github.com/Nicholas-Lee-Bateman-282787728/reverse-engineering-neural-networks/internal/autodiff"
	"github.com/Nicholas-Lee-Bateman-282787728/reverse-engineering-neural-networks/internal/tensor"
)

// RecJac computes the recurrent Jacobian ∂ apply(params, input, state) / ∂ state,
// a [Units, Units] matrix evaluated exactly at the given point.
//
// The step is recorded once on the backend's gradient tape; each Jacobian row
// is then extracted by a reverse pass seeded with a basis vector. The result
// matches the analytic derivative to floating-point precision. Nothing is
// cached between calls: a new point means a new recording.
//
// RecJac owns the tape for the duration of the call. It clears the tape on
// entry and exit and restores the caller's recording flag.
func RecJac[T tensor.Float, B autodiff.BackwardCapable](
	cell Cell[T, B],
	params *Params[T, B],
	input, state *tensor.Tensor[T, B],
) (*tensor.Tensor[T, B], error) {
	return jacobian(cell, params, input, state, state, cell.Units())
}

// InpJac computes the input Jacobian ∂ apply(params, input, state) / ∂ input,
// a [Units, inputDim] matrix evaluated exactly at the given point. Same
// mechanism and tape contract as RecJac.
func InpJac[T tensor.Float, B autodiff.BackwardCapable](
	cell Cell[T, B],
	params *Params[T, B],
	input, state *tensor.Tensor[T, B],
) (*tensor.Tensor[T, B], error) {
	return jacobian(cell, params, input, state, input, input.NumElements())
}

// jacobian records one forward step and extracts ∂ output / ∂ wrt row by row.
func jacobian[T tensor.Float, B autodiff.BackwardCapable](
	cell Cell[T, B],
	params *Params[T, B],
	input, state, wrt *tensor.Tensor[T, B],
	cols int,
) (*tensor.Tensor[T, B], error) {
	backend := state.Backend()
	tape := backend.GetTape()
	wasRecording := tape.IsRecording()
	defer func() {
		tape.Clear()
		if wasRecording {
			tape.StartRecording()
		} else {
			tape.StopRecording()
		}
	}()

	tape.Clear()
	tape.StartRecording()
	out, err := cell.Apply(params, input, state)
	tape.StopRecording()
	if err != nil {
		return nil, err
	}

	rows := out.NumElements()
	jac := tensor.Zeros[T](tensor.Shape{rows, cols}, backend)
	jdata := jac.Data()

	for i := 0; i < rows; i++ {
		seed := tensor.Basis[T](rows, i, backend)
		grads := tape.Backward(out.Raw(), seed.Raw(), backend)
		g, ok := grads[wrt.Raw()]
		if !ok {
			continue // output row independent of wrt; row stays zero
		}
		row := tensor.New[T](g, backend).Data()
		copy(jdata[i*cols:(i+1)*cols], row)
	}

	return jac, nil
}
