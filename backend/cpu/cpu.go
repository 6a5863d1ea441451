// Copyright 2025 The renn-go Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/Nicholas-Lee-Bateman-282787728/reverse-engineering-neural-networks/internal/backend/cpu"
	"github.com/Nicholas-Lee-Bateman-282787728/reverse-engineering-neural-networks/tensor"
)

// Backend is the CPU backend implementation.
type Backend = internalcpu.Backend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a new CPU backend.
//
// Example:
//
//	import (
//	    "github.com/Nicholas-Lee-Bateman-282787728/reverse-engineering-neural-networks/backend/cpu"
//	    "github.com/Nicholas-Lee-Bateman-282787728/reverse-engineering-neural-networks/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	}
func New() *Backend {
	return internalcpu.New()
}
