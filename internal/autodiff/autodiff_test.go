package autodiff_test

import (
	"testing"

	"github.com/born-ml/surrogate/internal/autodiff"
	"github.com/born-ml/surrogate/internal/backend/cpu"
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

// TestGradientTape_Recording tests that operations are only recorded while recording.
func TestGradientTape_Recording(t *testing.T) {
	backend := autodiff.New(cpu.New())
	x := mustTensor(t, []float32{1, 2}, tensor.Shape{2})

	backend.Add(x, x)
	assert.Equal(t, 0, backend.Tape().NumOps())

	backend.Tape().StartRecording()
	backend.Add(x, x)
	backend.Mul(x, x)
	assert.Equal(t, 2, backend.Tape().NumOps())

	backend.Tape().Clear()
	assert.Equal(t, 0, backend.Tape().NumOps())
	assert.True(t, backend.Tape().IsRecording(), "Clear preserves recording state")

	backend.Tape().StopRecording()
	assert.False(t, backend.Tape().IsRecording())
}

func TestAutodiffBackend_Name(t *testing.T) {
	assert.Equal(t, "Autodiff(CPU)", autodiff.New(cpu.New()).Name())
}

// TestBackward_Square tests d(mean(x²))/dx = 2x/n.
func TestBackward_Square(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	x := mustTensor(t, []float32{1, 2, 3, 4}, tensor.Shape{4})
	loss := backend.Mean(backend.Mul(x, x))

	assert.InDelta(t, 7.5, loss.Item(), 1e-6)

	grads := autodiff.Backward(loss, backend)
	require.Contains(t, grads, x)
	assert.InDeltaSlice(t, []float32{0.5, 1, 1.5, 2}, grads[x].Data(), 1e-6)
}

// TestBackward_BroadcastBias tests that a broadcast bias receives the column sums.
func TestBackward_BroadcastBias(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	x := mustTensor(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	b := mustTensor(t, []float32{0, 0, 0}, tensor.Shape{3})

	out := backend.Add(x, b)
	loss := backend.Mean(backend.MulScalar(out, 6))

	grads := autodiff.Backward(loss, backend)
	require.Contains(t, grads, b)
	assert.Equal(t, tensor.Shape{3}, grads[b].Shape())
	assert.InDeltaSlice(t, []float32{2, 2, 2}, grads[b].Data(), 1e-6)
}

// TestBackward_NoOps tests that Backward refuses an empty tape.
func TestBackward_NoOps(t *testing.T) {
	backend := autodiff.New(cpu.New())
	assert.Panics(t, func() {
		autodiff.Backward(tensor.Scalar(1), backend)
	})
}

// TestBackward_FiniteDifferences compares the gradients of a one-layer tanh
// regression loss against central finite differences.
func TestBackward_FiniteDifferences(t *testing.T) {
	xData := []float32{0.1, -0.2, 0.3, 0.4, -0.5, 0.6}
	wData := []float32{0.2, -0.1, 0.4, 0.3}
	bData := []float32{0.05, -0.05}
	yData := []float32{0.1, 0.2, -0.3, 0.4, 0.0, -0.1}

	lossFn := func(backend tensor.Backend, x, w, b, y *tensor.RawTensor) *tensor.RawTensor {
		pred := backend.Tanh(backend.Add(backend.MatMul(x, w), b))
		diff := backend.Sub(y, pred)
		return backend.Mean(backend.Mul(diff, diff))
	}

	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	x := mustTensor(t, xData, tensor.Shape{3, 2})
	w := mustTensor(t, wData, tensor.Shape{2, 2})
	b := mustTensor(t, bData, tensor.Shape{2})
	y := mustTensor(t, yData, tensor.Shape{3, 2})

	loss := lossFn(backend, x, w, b, y)
	grads := autodiff.Backward(loss, backend)

	plain := cpu.New()
	const eps = 1e-3
	check := func(name string, param *tensor.RawTensor) {
		grad, ok := grads[param]
		require.True(t, ok, "missing gradient for %s", name)
		for i := range param.Data() {
			orig := param.Data()[i]

			param.Data()[i] = orig + eps
			up := lossFn(plain, x, w, b, y).Item()
			param.Data()[i] = orig - eps
			down := lossFn(plain, x, w, b, y).Item()
			param.Data()[i] = orig

			numeric := (up - down) / (2 * eps)
			assert.InDelta(t, numeric, grad.Data()[i], 2e-3, "%s[%d]", name, i)
		}
	}

	check("w", w)
	check("b", b)
	check("x", x)
}

// TestBackward_Transpose tests that gradients flow through a recorded transpose.
func TestBackward_Transpose(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	w := mustTensor(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	x := mustTensor(t, []float32{1, 1}, tensor.Shape{1, 2})

	out := backend.MatMul(x, backend.Transpose(backend.Transpose(w)))
	loss := backend.Mean(out)

	grads := autodiff.Backward(loss, backend)
	require.Contains(t, grads, w)
	assert.Equal(t, tensor.Shape{2, 3}, grads[w].Shape())
	for _, g := range grads[w].Data() {
		assert.InDelta(t, 1.0/3.0, g, 1e-6)
	}
}
