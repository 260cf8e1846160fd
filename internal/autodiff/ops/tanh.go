package ops

import "github.com/born-ml/surrogate/internal/tensor"

// TanhOp represents the hyperbolic tangent activation: tanh(x) = (exp(x) - exp(-x)) / (exp(x) + exp(-x)).
type TanhOp struct {
	unaryOp
}

// NewTanhOp creates a new tanh operation.
func NewTanhOp(input, output *tensor.RawTensor) *TanhOp {
	return &TanhOp{unaryOp{input: input, output: output}}
}

// Backward computes the gradient for tanh.
//
// Since the output tanh(x) is already computed:
// grad_input = grad_output * (1 - output²).
func (op *TanhOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	outputSquared := backend.Mul(op.output, op.output)
	ones := tensor.Ones(op.output.Shape())
	tanhDerivative := backend.Sub(ones, outputSquared)
	return []*tensor.RawTensor{backend.Mul(outputGrad, tanhDerivative)}
}
