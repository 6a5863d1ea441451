// Copyright 2025 The renn-go Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package rnn provides recurrent cells, batched unrolling, and exact local
// linearization of the recurrence.
//
// A Cell bundles a step formula with its parameter initialization. Steps are
// pure: parameters, input and previous state go in, a fresh next state comes
// out. Randomness is threaded explicitly through random.Key arguments.
//
// Example:
//
//	backend := autodiff.New(cpu.New())
//	cell := rnn.NewGRU[float64](32, backend)
//
//	key := random.NewKey(42)
//	initKey, stateKey := key.Split()
//
//	_, params, err := cell.Init(initKey, tensor.Shape{100, 2})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	state, _ := cell.InitialState(stateKey)
//	input := tensor.Zeros[float64](tensor.Shape{2}, backend)
//
//	jac, err := rnn.RecJac(cell, params, input, state) // [32, 32]
package rnn

import (
	"github.com/Nicholas-Lee-Bateman-282787728/reverse-engineering-neural-networks/internal/autodiff"
	"github.com/Nicholas-Lee-Bateman-282787728/reverse-engineering-neural-networks/internal/rnn"
	"github.com/Nicholas-Lee-Bateman-282787728/reverse-engineering-neural-networks/internal/tensor"
)

// Sentinel errors. Wrap-and-check with errors.Is.
var (
	ErrInvalidConfiguration = rnn.ErrInvalidConfiguration
	ErrShapeMismatch        = rnn.ErrShapeMismatch
)

// Cell is one recurrence family with a fixed hidden-state width.
type Cell[T tensor.Float, B tensor.Backend] = rnn.Cell[T, B]

// Params is an opaque, role-keyed collection of a cell's named tensors.
type Params[T tensor.Float, B tensor.Backend] = rnn.Params[T, B]

// GRU is a gated recurrent unit cell.
type GRU[T tensor.Float, B tensor.Backend] = rnn.GRU[T, B]

// NewGRU creates a GRU cell with the given hidden-state width.
func NewGRU[T tensor.Float, B tensor.Backend](units int, b B) *GRU[T, B] {
	return rnn.NewGRU[T, B](units, b)
}

// LSTM is a long short-term memory cell. The carried state is [h ; c], so
// Units reports twice the constructor's hidden size.
type LSTM[T tensor.Float, B tensor.Backend] = rnn.LSTM[T, B]

// NewLSTM creates an LSTM cell with the given hidden size.
func NewLSTM[T tensor.Float, B tensor.Backend](hidden int, b B) *LSTM[T, B] {
	return rnn.NewLSTM[T, B](hidden, b)
}

// VanillaRNN is an Elman cell: h' = tanh(x W + h U + b).
type VanillaRNN[T tensor.Float, B tensor.Backend] = rnn.VanillaRNN[T, B]

// NewVanillaRNN creates a vanilla RNN cell with the given hidden-state width.
func NewVanillaRNN[T tensor.Float, B tensor.Backend](units int, b B) *VanillaRNN[T, B] {
	return rnn.NewVanillaRNN[T, B](units, b)
}

// RecJac computes the recurrent Jacobian ∂ apply / ∂ state, a [Units, Units]
// matrix evaluated exactly at the given point via reverse-mode autodiff.
func RecJac[T tensor.Float, B autodiff.BackwardCapable](
	cell Cell[T, B],
	params *Params[T, B],
	input, state *tensor.Tensor[T, B],
) (*tensor.Tensor[T, B], error) {
	return rnn.RecJac(cell, params, input, state)
}

// InpJac computes the input Jacobian ∂ apply / ∂ input, a [Units, inputDim]
// matrix evaluated exactly at the given point.
func InpJac[T tensor.Float, B autodiff.BackwardCapable](
	cell Cell[T, B],
	params *Params[T, B],
	input, state *tensor.Tensor[T, B],
) (*tensor.Tensor[T, B], error) {
	return rnn.InpJac(cell, params, input, state)
}

// StepFunc is a bound step: input [batch, inputDim] and state [batch, units]
// produce the next state.
type StepFunc[T tensor.Float, B tensor.Backend] = rnn.StepFunc[T, B]

// Unroll folds step over the time axis of a batch-major [batch, time,
// inputDim] sequence, returning [batch, time, units].
func Unroll[T tensor.Float, B tensor.Backend](
	step StepFunc[T, B],
	initialStates, inputs *tensor.Tensor[T, B],
) (*tensor.Tensor[T, B], error) {
	return rnn.Unroll(step, initialStates, inputs)
}

// UnrollCell unrolls a cell with fixed parameters over a batched sequence.
func UnrollCell[T tensor.Float, B tensor.Backend](
	cell Cell[T, B],
	params *Params[T, B],
	initialStates, inputs *tensor.Tensor[T, B],
) (*tensor.Tensor[T, B], error) {
	return rnn.UnrollCell(cell, params, initialStates, inputs)
}

// Spectrum returns the eigenvalues of a square Jacobian sorted by magnitude,
// largest first.
func Spectrum[T tensor.Float, B tensor.Backend](jac *tensor.Tensor[T, B]) ([]complex128, error) {
	return rnn.Spectrum(jac)
}

// SpectralRadius returns the largest eigenvalue magnitude of a square
// Jacobian.
func SpectralRadius[T tensor.Float, B tensor.Backend](jac *tensor.Tensor[T, B]) (float64, error) {
	return rnn.SpectralRadius(jac)
}
