package nn

import (
	"github.com/born-ml/surrogate/internal/tensor"
)

// Parameter represents a trainable parameter in a neural network.
//
// Parameters are tensors that require gradient computation during training.
// They typically represent weights and biases of layers.
type Parameter[B tensor.Backend] struct {
	name   string
	tensor *tensor.RawTensor
	grad   *tensor.RawTensor // Set after a backward pass, nil before
}

// NewParameter creates a new trainable parameter.
func NewParameter[B tensor.Backend](name string, t *tensor.RawTensor) *Parameter[B] {
	return &Parameter[B]{
		name:   name,
		tensor: t,
	}
}

// Name returns the parameter name.
func (p *Parameter[B]) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter[B]) Tensor() *tensor.RawTensor {
	return p.tensor
}

// Grad returns the gradient tensor.
//
// Returns nil if no gradient has been computed yet (before backward pass).
func (p *Parameter[B]) Grad() *tensor.RawTensor {
	return p.grad
}

// SetGrad sets the gradient tensor.
func (p *Parameter[B]) SetGrad(grad *tensor.RawTensor) {
	p.grad = grad
}

// ZeroGrad clears the gradient tensor.
func (p *Parameter[B]) ZeroGrad() {
	p.grad = nil
}

// CollectGrads copies the gradient of each parameter out of a gradient map
// produced by autodiff.Backward. Parameters that did not take part in the
// computation receive a zero gradient. The result is index-aligned with params.
func CollectGrads[B tensor.Backend](params []*Parameter[B], grads map[*tensor.RawTensor]*tensor.RawTensor) []*tensor.RawTensor {
	out := make([]*tensor.RawTensor, len(params))
	for i, p := range params {
		g, ok := grads[p.tensor]
		if !ok {
			g = tensor.Zeros(p.tensor.Shape())
		}
		p.grad = g
		out[i] = g
	}
	return out
}
