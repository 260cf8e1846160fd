package cpu

import (
	"math"

	"github.com/born-ml/surrogate/internal/parallel"
	"github.com/born-ml/surrogate/internal/tensor"
)

// Tanh applies the hyperbolic tangent element-wise.
func (cpu *CPUBackend) Tanh(x *tensor.RawTensor) *tensor.RawTensor {
	result := newResult("tanh", x.Shape())
	out, in := result.Data(), x.Data()
	parallel.Range(len(out), func(start, end int) {
		for i := start; i < end; i++ {
			out[i] = float32(math.Tanh(float64(in[i])))
		}
	}, cpu.par)
	return result
}

// Mean reduces all elements of x to a scalar.
// Accumulation runs in float64 to keep the loss stable over large batches.
func (cpu *CPUBackend) Mean(x *tensor.RawTensor) *tensor.RawTensor {
	data := x.Data()
	var sum float64
	for _, v := range data {
		sum += float64(v)
	}
	return tensor.Scalar(float32(sum / float64(len(data))))
}
