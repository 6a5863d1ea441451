// Copyright 2025 The renn-go Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides reverse-mode automatic differentiation.
//
// This package implements backpropagation using a gradient tape. It wraps
// any backend to add autodiff capabilities; recurrent-cell Jacobians are
// built on top of it.
//
// Example:
//
//	import (
//	    "github.com/Nicholas-Lee-Bateman-282787728/reverse-engineering-neural-networks/autodiff"
//	    "github.com/Nicholas-Lee-Bateman-282787728/reverse-engineering-neural-networks/backend/cpu"
//	    "github.com/Nicholas-Lee-Bateman-282787728/reverse-engineering-neural-networks/tensor"
//	)
//
//	func main() {
//	    // Wrap CPU backend with autodiff
//	    backend := autodiff.New(cpu.New())
//	    backend.Tape().StartRecording()
//
//	    x := tensor.Ones[float64](tensor.Shape{2, 3}, backend)
//	    y := x.Mul(x).Sum() // Operations recorded on tape
//
//	    // Compute gradients
//	    grads := autodiff.Backward(y, backend)
//	    _ = grads[x.Raw()]
//	}
package autodiff

import (
	"github.com/Nicholas-Lee-Bateman-282787728/reverse-engineering-neural-networks/internal/autodiff"
	"github.com/Nicholas-Lee-Bateman-282787728/reverse-engineering-neural-networks/internal/tensor"
)

// Autodiff is the autodiff-enabled backend decorator.
type Autodiff[B tensor.Backend] = autodiff.Autodiff[B]

// New creates an autodiff backend wrapping the given backend.
//
// Example:
//
//	backend := autodiff.New(cpu.New())
func New[B tensor.Backend](backend B) *Autodiff[B] {
	return autodiff.New(backend)
}

// GradientTape records operations for automatic differentiation.
type GradientTape = autodiff.GradientTape

// NewGradientTape creates a new gradient tape.
func NewGradientTape() *GradientTape {
	return autodiff.NewGradientTape()
}

// BackwardCapable is the interface for backends that support backpropagation.
type BackwardCapable = autodiff.BackwardCapable

// Backward computes gradients of a scalar-valued tensor with respect to
// every tensor recorded on the tape, seeding the output gradient with ones.
func Backward[T tensor.DType, B BackwardCapable](t *tensor.Tensor[T, B], backend B) map[*tensor.RawTensor]*tensor.RawTensor {
	return autodiff.Backward(t, backend)
}

// BackwardFrom computes gradients with an explicit seed for the output
// gradient. Seeding with basis vectors extracts Jacobian rows one at a time.
func BackwardFrom[T tensor.DType, B BackwardCapable](output, seed *tensor.Tensor[T, B], backend B) map[*tensor.RawTensor]*tensor.RawTensor {
	return autodiff.BackwardFrom(output, seed, backend)
}
