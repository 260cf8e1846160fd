package ops

import "github.com/born-ml/surrogate/internal/tensor"

// MatMulOp represents matrix multiplication: output = a @ b.
type MatMulOp struct {
	binaryOp
}

// NewMatMulOp creates a new MatMulOp.
func NewMatMulOp(a, b, output *tensor.RawTensor) *MatMulOp {
	return &MatMulOp{binaryOp{a: a, b: b, output: output}}
}

// Backward computes input gradients for matrix multiplication.
//
// For C = A @ B:
//
//	dL/dA = dL/dC @ B^T
//	dL/dB = A^T @ dL/dC
func (op *MatMulOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	gradA := backend.MatMul(outputGrad, backend.Transpose(op.b))
	gradB := backend.MatMul(backend.Transpose(op.a), outputGrad)
	return []*tensor.RawTensor{gradA, gradB}
}

// TransposeOp represents a 2D transpose.
type TransposeOp struct {
	unaryOp
}

// NewTransposeOp creates a new TransposeOp.
func NewTransposeOp(input, output *tensor.RawTensor) *TransposeOp {
	return &TransposeOp{unaryOp{input: input, output: output}}
}

// Backward transposes the gradient back to the input layout.
func (op *TransposeOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.Transpose(outputGrad)}
}
