// Package nn implements the neural network modules the surrogate models are
// built from.
//
// This package provides:
//   - Module interface: Base interface for all NN components
//   - Parameter: Trainable parameters with gradient tracking
//   - Linear: Fully connected layer in Keras kernel layout
//   - Tanh: Hyperbolic tangent activation
//   - Sequential: Container for stacking layers, and NewMLP to build one
//     from a layer-width specification
//   - MSELoss: Mean squared error recorded on the autodiff tape
//   - Weight flattening for optimizers that work on a single vector
package nn

import (
	"github.com/born-ml/surrogate/internal/tensor"
)

// Module is the base interface for all neural network components.
//
// Modules can be composed to build complex architectures:
//
//	model := nn.NewSequential[Backend](
//	    nn.NewLinear(2, 20, nil, backend),
//	    nn.NewTanh(backend),
//	    nn.NewLinear(20, 1, nil, backend),
//	)
//
// Type parameter B must satisfy the tensor.Backend interface.
type Module[B tensor.Backend] interface {
	// Forward computes the output of the module given an input tensor.
	// Linear expects [batch_size, in_features].
	Forward(input *tensor.RawTensor) *tensor.RawTensor

	// Parameters returns all trainable parameters of this module.
	// Returns an empty slice for modules without trainable parameters.
	Parameters() []*Parameter[B]

	// StateDict returns a map of parameter names to raw tensors.
	StateDict() map[string]*tensor.RawTensor

	// LoadStateDict loads parameters from a state dictionary.
	// Returns an error if a required parameter is missing or has wrong shape.
	LoadStateDict(stateDict map[string]*tensor.RawTensor) error
}
