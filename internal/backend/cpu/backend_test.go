package cpu

import (
	"math"
	"testing"

	"github.com/born-ml/surrogate/internal/parallel"
	"github.com/born-ml/surrogate/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTensor(t *testing.T, data []float32, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	x, err := tensor.FromSlice(data, shape)
	require.NoError(t, err)
	return x
}

func TestCPUBackend_Name(t *testing.T) {
	assert.Equal(t, "CPU", New().Name())
}

func TestCPUBackend_Elementwise(t *testing.T) {
	backend := New()
	a := mustTensor(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	b := mustTensor(t, []float32{10, 20, 30, 40}, tensor.Shape{2, 2})

	assert.Equal(t, []float32{11, 22, 33, 44}, backend.Add(a, b).Data())
	assert.Equal(t, []float32{-9, -18, -27, -36}, backend.Sub(a, b).Data())
	assert.Equal(t, []float32{10, 40, 90, 160}, backend.Mul(a, b).Data())
	assert.Equal(t, []float32{2, 4, 6, 8}, backend.MulScalar(a, 2).Data())

	// Inputs are never modified.
	assert.Equal(t, []float32{1, 2, 3, 4}, a.Data())
}

func TestCPUBackend_Broadcast(t *testing.T) {
	backend := New()
	a := mustTensor(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	bias := mustTensor(t, []float32{10, 20, 30}, tensor.Shape{3})

	out := backend.Add(a, bias)
	assert.Equal(t, tensor.Shape{2, 3}, out.Shape())
	assert.Equal(t, []float32{11, 22, 33, 14, 25, 36}, out.Data())

	out = backend.Mul(a, tensor.Scalar(2))
	assert.Equal(t, []float32{2, 4, 6, 8, 10, 12}, out.Data())

	column := mustTensor(t, []float32{1, 2}, tensor.Shape{2, 1})
	assert.Panics(t, func() { backend.Add(a, column) })
}

func TestCPUBackend_MatMul(t *testing.T) {
	backend := New()
	a := mustTensor(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	b := mustTensor(t, []float32{7, 8, 9, 10, 11, 12}, tensor.Shape{3, 2})

	out := backend.MatMul(a, b)
	require.Equal(t, tensor.Shape{2, 2}, out.Shape())
	assert.Equal(t, []float32{58, 64, 139, 154}, out.Data())

	assert.Panics(t, func() { backend.MatMul(a, a) })
	assert.Panics(t, func() { backend.MatMul(tensor.Ones(tensor.Shape{3}), b) })
}

func TestCPUBackend_Transpose(t *testing.T) {
	backend := New()
	a := mustTensor(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	out := backend.Transpose(a)
	assert.Equal(t, tensor.Shape{3, 2}, out.Shape())
	assert.Equal(t, []float32{1, 4, 2, 5, 3, 6}, out.Data())
}

func TestCPUBackend_TanhMean(t *testing.T) {
	backend := New()
	x := mustTensor(t, []float32{-1, 0, 1, 2}, tensor.Shape{4})

	out := backend.Tanh(x)
	for i, v := range x.Data() {
		assert.InDelta(t, math.Tanh(float64(v)), out.Data()[i], 1e-6)
	}

	mean := backend.Mean(x)
	assert.Equal(t, tensor.Shape{}, mean.Shape())
	assert.InDelta(t, 0.5, mean.Item(), 1e-7)
}

func TestCPUBackend_ParallelMatchesSequential(t *testing.T) {
	par := NewWithConfig(parallel.Config{Enabled: true, NumWorkers: 4, MinChunkSize: 8})
	seq := NewWithConfig(parallel.Sequential())

	const rows, cols = 100, 7
	data := make([]float32, rows*cols)
	for i := range data {
		data[i] = float32(i%13) / 7
	}
	x := mustTensor(t, data, tensor.Shape{rows, cols})
	bias := mustTensor(t, []float32{1, 2, 3, 4, 5, 6, 7}, tensor.Shape{cols})

	assert.Equal(t, seq.Tanh(x).Data(), par.Tanh(x).Data())
	assert.Equal(t, seq.Add(x, bias).Data(), par.Add(x, bias).Data())
	assert.Equal(t, seq.Mul(x, x).Data(), par.Mul(x, x).Data())
	assert.Equal(t, seq.MulScalar(x, -3).Data(), par.MulScalar(x, -3).Data())
}
