package nn

import (
	"fmt"

	"github.com/born-ml/surrogate/internal/tensor"
)

// MSELoss computes Mean Squared Error loss.
//
// Loss = mean((targets - predictions)²)
//
// Every step goes through the backend, so on an autodiff backend the loss
// is differentiable with respect to the predictions.
type MSELoss[B tensor.Backend] struct {
	backend B
}

// NewMSELoss creates a new MSE loss function.
func NewMSELoss[B tensor.Backend](backend B) *MSELoss[B] {
	return &MSELoss[B]{backend: backend}
}

// Forward computes the MSE loss as a scalar tensor.
//
// Panics if predictions and targets have different shapes.
func (m *MSELoss[B]) Forward(predictions, targets *tensor.RawTensor) *tensor.RawTensor {
	if !predictions.Shape().Equal(targets.Shape()) {
		panic(fmt.Sprintf("MSELoss: predictions %v and targets %v must have the same shape",
			predictions.Shape(), targets.Shape()))
	}

	diff := m.backend.Sub(targets, predictions)
	return m.backend.Mean(m.backend.Mul(diff, diff))
}
