package ops

import "github.com/born-ml/surrogate/internal/tensor"

// SubOp represents element-wise subtraction: output = a - b.
type SubOp struct {
	binaryOp
}

// NewSubOp creates a new SubOp.
func NewSubOp(a, b, output *tensor.RawTensor) *SubOp {
	return &SubOp{binaryOp{a: a, b: b, output: output}}
}

// Backward computes input gradients for subtraction.
//
// d(a-b)/da = 1, d(a-b)/db = -1.
func (op *SubOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	negGrad := backend.MulScalar(outputGrad, -1)
	return []*tensor.RawTensor{
		reduceBroadcast(outputGrad, op.a.Shape()),
		reduceBroadcast(negGrad, op.b.Shape()),
	}
}
