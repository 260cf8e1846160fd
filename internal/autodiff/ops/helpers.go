package ops

import (
	"fmt"

	"github.com/born-ml/surrogate/internal/tensor"
)

// reduceBroadcast reduces a gradient tensor to match the target shape.
// This is necessary when broadcasting was used in the forward pass.
//
// Example:
//
//	Forward: a[3,4] + b[4] -> c[3,4]  (b was broadcast along dim 0)
//	Backward: grad_c[3,4] -> grad_b[4] (sum along dim 0)
//
// Broadcasting is trailing-only, so every target element collects the
// gradient entries whose flat index is congruent to it modulo the target size.
func reduceBroadcast(grad *tensor.RawTensor, targetShape tensor.Shape) *tensor.RawTensor {
	// If shapes already match, clone to avoid aliasing issues
	if grad.Shape().Equal(targetShape) {
		return grad.Clone()
	}

	result, err := tensor.NewRaw(targetShape)
	if err != nil {
		panic(fmt.Sprintf("reduceBroadcast: failed to create result: %v", err))
	}

	out := result.Data()
	n := len(out)
	for i, g := range grad.Data() {
		out[i%n] += g
	}
	return result
}
