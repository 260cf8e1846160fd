package nn

import (
	"github.com/born-ml/surrogate/internal/tensor"
)

// Tanh is a hyperbolic tangent activation module.
//
// Applies the element-wise function: f(x) = tanh(x), output in (-1, 1).
type Tanh[B tensor.Backend] struct {
	backend B
}

// NewTanh creates a new Tanh activation module.
func NewTanh[B tensor.Backend](backend B) *Tanh[B] {
	return &Tanh[B]{backend: backend}
}

// Forward applies tanh activation.
func (t *Tanh[B]) Forward(input *tensor.RawTensor) *tensor.RawTensor {
	return t.backend.Tanh(input)
}

// Parameters returns an empty slice (Tanh has no trainable parameters).
func (t *Tanh[B]) Parameters() []*Parameter[B] {
	return nil
}

// StateDict returns an empty map.
func (t *Tanh[B]) StateDict() map[string]*tensor.RawTensor {
	return map[string]*tensor.RawTensor{}
}

// LoadStateDict is a no-op.
func (t *Tanh[B]) LoadStateDict(map[string]*tensor.RawTensor) error {
	return nil
}
