package nn

import (
	"fmt"

	"github.com/born-ml/surrogate/internal/tensor"
)

// FlatSizes returns the number of elements of each parameter, in order.
func FlatSizes[B tensor.Backend](params []*Parameter[B]) []int {
	sizes := make([]int, len(params))
	for i, p := range params {
		sizes[i] = p.Tensor().NumElements()
	}
	return sizes
}

// NumParameters returns the total number of trainable scalars.
func NumParameters[B tensor.Backend](params []*Parameter[B]) int {
	n := 0
	for _, size := range FlatSizes(params) {
		n += size
	}
	return n
}

// FlattenWeights concatenates the parameters into one vector.
//
// For a Sequential of Linear layers the order is, per layer, the kernel in
// row-major order followed by the bias.
func FlattenWeights[B tensor.Backend](params []*Parameter[B]) []float32 {
	w := make([]float32, 0, NumParameters(params))
	for _, p := range params {
		w = append(w, p.Tensor().Data()...)
	}
	return w
}

// UnflattenWeights writes a vector produced by FlattenWeights back into the
// parameters, in place.
func UnflattenWeights[B tensor.Backend](params []*Parameter[B], w []float32) error {
	if want := NumParameters(params); len(w) != want {
		return fmt.Errorf("unflatten: expected %d weights, got %d", want, len(w))
	}

	offset := 0
	for _, p := range params {
		n := p.Tensor().NumElements()
		if err := p.Tensor().CopyFrom(w[offset : offset+n]); err != nil {
			return fmt.Errorf("unflatten %s: %w", p.Name(), err)
		}
		offset += n
	}
	return nil
}

// FlattenGrads concatenates gradients in the same order as FlattenWeights.
func FlattenGrads(grads []*tensor.RawTensor) []float32 {
	n := 0
	for _, g := range grads {
		n += g.NumElements()
	}
	flat := make([]float32, 0, n)
	for _, g := range grads {
		flat = append(flat, g.Data()...)
	}
	return flat
}
