package cpu

import (
	"fmt"

	"github.com/born-ml/surrogate/internal/parallel"
	"github.com/born-ml/surrogate/internal/tensor"
)

// Add performs element-wise addition; b broadcasts over a.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("add", a, b, func(x, y float32) float32 { return x + y })
}

// Sub performs element-wise subtraction; b broadcasts over a.
func (cpu *CPUBackend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("sub", a, b, func(x, y float32) float32 { return x - y })
}

// Mul performs element-wise multiplication; b broadcasts over a.
func (cpu *CPUBackend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("mul", a, b, func(x, y float32) float32 { return x * y })
}

// MulScalar multiplies every element of x by s.
func (cpu *CPUBackend) MulScalar(x *tensor.RawTensor, s float32) *tensor.RawTensor {
	result := newResult("mul_scalar", x.Shape())
	out, in := result.Data(), x.Data()
	parallel.Range(len(out), func(start, end int) {
		for i := start; i < end; i++ {
			out[i] = in[i] * s
		}
	}, cpu.par)
	return result
}

// binary applies f over a and a trailing-broadcast b.
// Since b's shape matches a's trailing dimensions, b's flat index is the
// result index modulo b's size.
func (cpu *CPUBackend) binary(op string, a, b *tensor.RawTensor, f func(x, y float32) float32) *tensor.RawTensor {
	if !tensor.BroadcastsOver(a.Shape(), b.Shape()) {
		panic(fmt.Sprintf("%s: shapes not compatible for broadcasting: %v vs %v", op, a.Shape(), b.Shape()))
	}

	result := newResult(op, a.Shape())
	out, aData, bData := result.Data(), a.Data(), b.Data()

	if len(bData) == len(aData) {
		parallel.Range(len(out), func(start, end int) {
			for i := start; i < end; i++ {
				out[i] = f(aData[i], bData[i])
			}
		}, cpu.par)
		return result
	}

	n := len(bData)
	parallel.Range(len(out), func(start, end int) {
		for i := start; i < end; i++ {
			out[i] = f(aData[i], bData[i%n])
		}
	}, cpu.par)
	return result
}
