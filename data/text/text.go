// Copyright 2025 The renn-go Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package text provides tokenized text datasets for recurrent models.
//
// Documents are tokenized once up front and truncated to a maximum length;
// batches sample documents with replacement under an explicit random key.
package text

import (
	"github.com/Nicholas-Lee-Bateman-282787728/reverse-engineering-neural-networks/internal/data/text"
	"github.com/Nicholas-Lee-Bateman-282787728/reverse-engineering-neural-networks/internal/tensor"
)

// ErrInvalidDataset reports an invalid dataset configuration.
var ErrInvalidDataset = text.ErrInvalidDataset

// Tokenizer converts text to token ids.
type Tokenizer = text.Tokenizer

// Tiktoken is a Tokenizer backed by OpenAI's BPE vocabularies.
type Tiktoken = text.Tiktoken

// NewTiktoken loads a tiktoken encoding by name, e.g. "cl100k_base".
func NewTiktoken(encodingName string) (*Tiktoken, error) {
	return text.NewTiktoken(encodingName)
}

// Dataset is a tokenized, fixed-max-length document collection.
type Dataset[B tensor.Backend] = text.Dataset[B]

// Batch is one keyed draw: padded token ids and the sampled document indices.
type Batch[B tensor.Backend] = text.Batch[B]

// NewDataset tokenizes docs with tok, truncating each to maxLen tokens.
func NewDataset[B tensor.Backend](docs []string, tok Tokenizer, maxLen int, b B) (*Dataset[B], error) {
	return text.NewDataset(docs, tok, maxLen, b)
}

// OneHot encodes a batch's token ids as one-hot vectors of width vocab.
func OneHot[T tensor.Float, B tensor.Backend](batch *Batch[B], vocab int) *tensor.Tensor[T, B] {
	return text.OneHot[T, B](batch, vocab)
}
