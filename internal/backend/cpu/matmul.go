package cpu

import (
	"fmt"

	"github.com/born-ml/surrogate/internal/tensor"
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"
)

// MatMul performs matrix multiplication.
// For 2D tensors: (M, K) @ (K, N) -> (M, N), computed with SGEMM.
func (cpu *CPUBackend) MatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	aShape := a.Shape()
	bShape := b.Shape()

	if len(aShape) != 2 || len(bShape) != 2 {
		panic(fmt.Sprintf("matmul: only 2D tensors supported, got %dD and %dD", len(aShape), len(bShape)))
	}

	m, k := aShape[0], aShape[1]
	kAlt, n := bShape[0], bShape[1]

	if k != kAlt {
		panic(fmt.Sprintf("matmul: shape mismatch [%d,%d] @ [%d,%d]", m, k, kAlt, n))
	}

	result := newResult("matmul", tensor.Shape{m, n})

	blas32.Gemm(blas.NoTrans, blas.NoTrans, 1,
		general(a), general(b),
		0, general(result))

	return result
}

// Transpose swaps the two dimensions of a 2D tensor.
func (cpu *CPUBackend) Transpose(t *tensor.RawTensor) *tensor.RawTensor {
	shape := t.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("transpose: only 2D tensors supported, got shape %v", shape))
	}

	rows, cols := shape[0], shape[1]
	result := newResult("transpose", tensor.Shape{cols, rows})
	src, dst := t.Data(), result.Data()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			dst[j*rows+i] = src[i*cols+j]
		}
	}
	return result
}

// general views a 2D tensor as a row-major BLAS matrix without copying.
func general(t *tensor.RawTensor) blas32.General {
	shape := t.Shape()
	return blas32.General{
		Rows:   shape[0],
		Cols:   shape[1],
		Stride: shape[1],
		Data:   t.Data(),
	}
}
