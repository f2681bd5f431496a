package nn

import (
	"github.com/loom-ml/loom/internal/tensor"
)

// Parameter is a named learnable tensor with a slot for its gradient.
// The attention modules expose their projection weights and biases this
// way so an optimizer can walk them uniformly.
type Parameter[B tensor.Backend] struct {
	name   string
	tensor *tensor.Tensor[float32, B]
	grad   *tensor.Tensor[float32, B]
}

// NewParameter wraps an already-initialized tensor. The gradient slot
// starts empty and is filled from a backward pass via SetGrad.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return &Parameter[B]{
		name:   name,
		tensor: t,
	}
}

// Name returns the parameter's name, e.g. "weight" or "bias".
func (p *Parameter[B]) Name() string {
	return p.name
}

// Tensor returns the learnable tensor itself.
func (p *Parameter[B]) Tensor() *tensor.Tensor[float32, B] {
	return p.tensor
}

// Grad returns the last gradient assigned to this parameter, or nil if no
// backward pass has run since creation or the last ZeroGrad.
func (p *Parameter[B]) Grad() *tensor.Tensor[float32, B] {
	return p.grad
}

// SetGrad stores the gradient computed for this parameter.
func (p *Parameter[B]) SetGrad(grad *tensor.Tensor[float32, B]) {
	p.grad = grad
}

// ZeroGrad discards the stored gradient so the next backward pass starts
// from a clean slot.
func (p *Parameter[B]) ZeroGrad() {
	p.grad = nil
}
