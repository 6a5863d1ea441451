// Copyright 2025 The renn-go Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package random provides splittable, reproducible random keys and keyed
// sampling.
//
// A Key is an immutable value; using it never advances hidden state. Split a
// key once per independent consumer and the streams stay decorrelated no
// matter the order of use:
//
//	key := random.NewKey(42)
//	initKey, stateKey := key.Split()
//
//	w := random.Glorot[float64](initKey, tensor.Shape{2, 32}, backend)
//	h := random.Normal[float64](stateKey, tensor.Shape{32}, backend)
package random

import (
	"github.com/Nicholas-Lee-Bateman-282787728/reverse-engineering-neural-networks/internal/random"
	"github.com/Nicholas-Lee-Bateman-282787728/reverse-engineering-neural-networks/internal/tensor"
)

// Key is a splittable random key. Derive keys with NewKey and Split rather
// than using the zero value.
type Key = random.Key

// NewKey creates a key from a seed. Equal seeds give equal keys.
func NewKey(seed uint64) Key {
	return random.NewKey(seed)
}

// Normal samples i.i.d. standard normal values into a tensor.
func Normal[T tensor.Float, B tensor.Backend](key Key, shape tensor.Shape, b B) *tensor.Tensor[T, B] {
	return random.Normal[T, B](key, shape, b)
}

// Uniform samples i.i.d. values from [low, high) into a tensor.
func Uniform[T tensor.Float, B tensor.Backend](key Key, shape tensor.Shape, low, high T, b B) *tensor.Tensor[T, B] {
	return random.Uniform[T, B](key, shape, low, high, b)
}

// Glorot samples a 2D weight matrix with Glorot (Xavier) scaling.
func Glorot[T tensor.Float, B tensor.Backend](key Key, shape tensor.Shape, b B) *tensor.Tensor[T, B] {
	return random.Glorot[T, B](key, shape, b)
}

// Perm returns a keyed random permutation of 0..n-1.
func Perm(key Key, n int) []int {
	return random.Perm(key, n)
}
