package random

import (
	"math"

	"github.com/Nicholas-Lee-Bateman-282787728/reverse-engineering-neural-networks/internal/tensor"
)

// Normal samples a tensor of standard normal values from the key.
func Normal[T tensor.Float, B tensor.Backend](key Key, shape tensor.Shape, b B) *tensor.Tensor[T, B] {
	t := tensor.Zeros[T, B](shape, b)
	r := key.Source()
	data := t.Data()
	for i := range data {
		data[i] = T(r.NormFloat64())
	}
	return t
}

// Uniform samples a tensor of values uniform in [low, high).
func Uniform[T tensor.Float, B tensor.Backend](key Key, shape tensor.Shape, low, high T, b B) *tensor.Tensor[T, B] {
	t := tensor.Zeros[T, B](shape, b)
	r := key.Source()
	data := t.Data()
	span := float64(high - low)
	for i := range data {
		data[i] = low + T(r.Float64()*span)
	}
	return t
}

// Glorot samples a tensor with Glorot (Xavier) normal initialization:
// standard normal scaled by sqrt(2 / (fanIn + fanOut)). Shape must be
// 2D [fanIn, fanOut].
func Glorot[T tensor.Float, B tensor.Backend](key Key, shape tensor.Shape, b B) *tensor.Tensor[T, B] {
	if len(shape) != 2 {
		panic("random: Glorot requires a 2D shape")
	}
	scale := math.Sqrt(2 / float64(shape[0]+shape[1]))
	t := Normal[T, B](key, shape, b)
	data := t.Data()
	for i := range data {
		data[i] = T(float64(data[i]) * scale)
	}
	return t
}

// Perm returns a deterministic permutation of [0, n) drawn from the key.
// Dataset iterators use it to shuffle example order between epochs.
func Perm(key Key, n int) []int {
	return key.Source().Perm(n)
}
