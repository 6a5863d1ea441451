// Package synthetic generates labeled token-sequence datasets with known
// structure. Cells trained or analyzed on these sequences have ground-truth
// dynamics to compare against, which is what makes them useful for
// reverse-engineering experiments.
package synthetic

import (
	"fmt"

	"github.com/Nicholas-Lee-Bateman-282787728/reverse-engineering-neural-networks/internal/random"
)

// LengthSampler draws per-sequence lengths for a batch.
type LengthSampler interface {
	// Sample draws n lengths from the key.
	Sample(key random.Key, n int) []int

	// MaxLength is the largest length Sample can return.
	MaxLength() int
}

// Constant is a length sampler that always returns the same value.
type Constant struct {
	Value int
}

// NewConstantSampler returns a sampler fixed at value.
func NewConstantSampler(value int) Constant {
	return Constant{Value: value}
}

// Sample returns n copies of the fixed value.
func (c Constant) Sample(_ random.Key, n int) []int {
	lengths := make([]int, n)
	for i := range lengths {
		lengths[i] = c.Value
	}
	return lengths
}

// MaxLength returns the fixed value.
func (c Constant) MaxLength() int {
	return c.Value
}

// Uniform is a length sampler drawing uniformly from [Min, Max], both
// inclusive.
type Uniform struct {
	Min, Max int
}

// NewUniformSampler returns a sampler over [minVal, maxVal].
func NewUniformSampler(minVal, maxVal int) Uniform {
	if minVal > maxVal {
		panic(fmt.Sprintf("synthetic: uniform sampler bounds inverted: [%d, %d]", minVal, maxVal))
	}
	return Uniform{Min: minVal, Max: maxVal}
}

// Sample draws n lengths uniformly from [Min, Max].
func (u Uniform) Sample(key random.Key, n int) []int {
	r := key.Source()
	lengths := make([]int, n)
	for i := range lengths {
		lengths[i] = u.Min + r.IntN(u.Max-u.Min+1)
	}
	return lengths
}

// MaxLength returns the upper bound.
func (u Uniform) MaxLength() int {
	return u.Max
}
