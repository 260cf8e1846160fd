package ops

import "github.com/born-ml/surrogate/internal/tensor"

// AddOp represents element-wise addition: output = a + b.
type AddOp struct {
	binaryOp
}

// NewAddOp creates a new AddOp.
func NewAddOp(a, b, output *tensor.RawTensor) *AddOp {
	return &AddOp{binaryOp{a: a, b: b, output: output}}
}

// Backward computes input gradients for addition.
//
// d(a+b)/da = 1, d(a+b)/db = 1, so both inputs receive outputGrad,
// reduced to their own shape when they were broadcast.
func (op *AddOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{
		reduceBroadcast(outputGrad, op.a.Shape()),
		reduceBroadcast(outputGrad, op.b.Shape()),
	}
}
