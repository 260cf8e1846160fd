package ops

import "github.com/born-ml/surrogate/internal/tensor"

// MeanOp represents the mean over all elements: output = sum(x) / n.
type MeanOp struct {
	unaryOp
}

// NewMeanOp creates a new MeanOp.
func NewMeanOp(input, output *tensor.RawTensor) *MeanOp {
	return &MeanOp{unaryOp{input: input, output: output}}
}

// Backward spreads the scalar gradient evenly: d(mean)/dx_i = 1/n.
func (op *MeanOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	n := float32(op.input.NumElements())
	return []*tensor.RawTensor{tensor.Full(op.input.Shape(), outputGrad.Item()/n)}
}
