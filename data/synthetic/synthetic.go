// Copyright 2025 The renn-go Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package synthetic generates symbolic sequence datasets for probing
// recurrent networks.
//
// The unordered-class task emits sequences of signed symbols; the label is
// the sign of their summed scores, which is invariant to symbol order.
// Batches are keyed, so the same key always yields the same batch.
package synthetic

import (
	"github.com/Nicholas-Lee-Bateman-282787728/reverse-engineering-neural-networks/internal/data/synthetic"
	"github.com/Nicholas-Lee-Bateman-282787728/reverse-engineering-neural-networks/internal/tensor"
)

// ErrInvalidDataset reports an invalid dataset configuration.
var ErrInvalidDataset = synthetic.ErrInvalidDataset

// LengthSampler draws sequence lengths for a batch.
type LengthSampler = synthetic.LengthSampler

// Constant always samples the same length.
type Constant = synthetic.Constant

// NewConstantSampler returns a sampler that always draws value.
func NewConstantSampler(value int) Constant {
	return synthetic.NewConstantSampler(value)
}

// Uniform samples lengths uniformly from [min, max].
type Uniform = synthetic.Uniform

// NewUniformSampler returns a sampler drawing uniformly from [minVal, maxVal].
func NewUniformSampler(minVal, maxVal int) Uniform {
	return synthetic.NewUniformSampler(minVal, maxVal)
}

// Unordered is the unordered-class dataset.
type Unordered[B tensor.Backend] = synthetic.Unordered[B]

// Batch is one keyed draw: padded token ids, per-row lengths, and labels.
type Batch[B tensor.Backend] = synthetic.Batch[B]

// NewUnordered creates an unordered-class dataset.
func NewUnordered[B tensor.Backend](numClasses, batchSize int, sampler LengthSampler, b B) (*Unordered[B], error) {
	return synthetic.NewUnordered(numClasses, batchSize, sampler, b)
}

// OneHot encodes a batch's token ids as one-hot vectors of width vocab.
func OneHot[T tensor.Float, B tensor.Backend](batch *Batch[B], vocab int) *tensor.Tensor[T, B] {
	return synthetic.OneHot[T, B](batch, vocab)
}
