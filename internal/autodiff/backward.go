package autodiff

import (
	"fmt"

	"github.com/born-ml/surrogate/internal/tensor"
)

// BackwardCapable is an interface for backends that support backward pass.
// AutodiffBackend implements this interface.
type BackwardCapable interface {
	tensor.Backend
	// GetTape returns the gradient tape for backward computation.
	GetTape() *GradientTape
}

// GetTape returns the gradient tape (implements BackwardCapable interface).
func (b *AutodiffBackend[B]) GetTape() *GradientTape {
	return b.tape
}

// Backward computes gradients of t using the backend's tape.
//
// The output gradient is seeded with ones, so for a scalar loss the result
// holds dLoss/dx for every tensor x that contributed to it. t must be the
// output of the last recorded operation.
//
// Example:
//
//	backend := autodiff.New(cpu.New())
//	backend.Tape().StartRecording()
//	loss := backend.Mean(backend.Mul(x, x))
//	gradients := autodiff.Backward(loss, backend)
//	grad := gradients[x]
func Backward(t *tensor.RawTensor, backend BackwardCapable) map[*tensor.RawTensor]*tensor.RawTensor {
	tape := backend.GetTape()

	if tape.NumOps() == 0 {
		panic("backward: no operations recorded (did you forget to call Tape().StartRecording()?)")
	}
	if last := tape.operations[len(tape.operations)-1]; last.Output() != t {
		panic(fmt.Sprintf("backward: %v is not the output of the last recorded operation", t.Shape()))
	}

	return tape.Backward(tensor.Ones(t.Shape()), backend)
}
