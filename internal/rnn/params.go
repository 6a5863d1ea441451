package rnn

import (
	"fmt"

	"github.com/Nicholas-Lee-Bateman-282787728/reverse-engineering-neural-networks/internal/tensor"
)

// Params is an opaque, role-keyed collection of a cell's named tensors.
// Cells create it during Init; afterwards it is immutable by convention,
// passed explicitly to every step and never mutated in place.
type Params[T tensor.Float, B tensor.Backend] struct {
	tensors map[string]*tensor.Tensor[T, B]
	order   []string
}

func newParams[T tensor.Float, B tensor.Backend]() *Params[T, B] {
	return &Params[T, B]{tensors: make(map[string]*tensor.Tensor[T, B])}
}

// add registers a named tensor. Cells call this during Init only.
func (p *Params[T, B]) add(name string, t *tensor.Tensor[T, B]) {
	if _, ok := p.tensors[name]; ok {
		panic(fmt.Sprintf("rnn: duplicate parameter %q", name))
	}
	p.tensors[name] = t
	p.order = append(p.order, name)
}

// Get returns the tensor registered under name.
func (p *Params[T, B]) Get(name string) (*tensor.Tensor[T, B], bool) {
	t, ok := p.tensors[name]
	return t, ok
}

// get returns a registered tensor, panicking on a role the owning cell
// never registered. Only cells look up their own roles.
func (p *Params[T, B]) get(name string) *tensor.Tensor[T, B] {
	t, ok := p.tensors[name]
	if !ok {
		panic(fmt.Sprintf("rnn: missing parameter %q", name))
	}
	return t
}

// Names returns parameter names in registration order.
func (p *Params[T, B]) Names() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

// NumParams returns the total number of scalar parameters.
func (p *Params[T, B]) NumParams() int {
	n := 0
	for _, t := range p.tensors {
		n += t.NumElements()
	}
	return n
}
