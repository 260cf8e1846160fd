// Package cpu implements the CPU backend, with matrix multiplication on
// gonum's float32 BLAS.
package cpu

import (
	"fmt"

	"github.com/born-ml/surrogate/internal/parallel"
	"github.com/born-ml/surrogate/internal/tensor"
)

// CPUBackend implements tensor operations on CPU.
// Element-wise loops over large tensors are split across goroutines.
type CPUBackend struct {
	par parallel.Config
}

// New creates a new CPU backend with the default parallel configuration.
func New() *CPUBackend {
	return &CPUBackend{par: parallel.DefaultConfig()}
}

// NewWithConfig creates a CPU backend with an explicit parallel configuration.
func NewWithConfig(cfg parallel.Config) *CPUBackend {
	return &CPUBackend{par: cfg}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// newResult allocates a result tensor, panicking on invalid shapes the same
// way every op reports shape errors.
func newResult(op string, shape tensor.Shape) *tensor.RawTensor {
	result, err := tensor.NewRaw(shape)
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", op, err))
	}
	return result
}
