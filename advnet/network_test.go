// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package advnet_test

import (
	"context"
	"io"
	"log/slog"
	"math"
	"path/filepath"
	"sync"
	"testing"

	"github.com/born-ml/surrogate/advnet"
	"github.com/born-ml/surrogate/internal/config"
	"github.com/born-ml/surrogate/internal/serialization"
	"github.com/born-ml/surrogate/internal/tensor"
	"github.com/born-ml/surrogate/internal/trainlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// recorder captures training events.
type recorder struct {
	mu      sync.Mutex
	started int
	summary string
	opts    []string
	epochs  []int
	losses  []float32
	ended   []int
}

func (r *recorder) TrainStart(m trainlog.Summarizer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started++
	r.summary = m.Summary()
}

func (r *recorder) TrainOpt(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opts = append(r.opts, name)
}

func (r *recorder) TrainEpoch(epoch int, loss float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.epochs = append(r.epochs, epoch)
	r.losses = append(r.losses, loss)
}

func (r *recorder) TrainEnd(epochs int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ended = append(r.ended, epochs)
}

func testHyperparameters() *config.Hyperparameters {
	hp := config.Default()
	hp.TFEpochs = 200
	hp.TFLR = 0.01
	hp.LayersP = []int{1, 8, 1}
	hp.LayersQ = []int{2, 4, 1}
	hp.LayersT = []int{3, 5, 5, 2}
	hp.Seed = 42
	return hp
}

// sineData samples u = 0.5 sin(2x) on [-1, 1].
func sineData(n int) (x, u *mat.Dense) {
	x = mat.NewDense(n, 1, nil)
	u = mat.NewDense(n, 1, nil)
	for i := range n {
		v := -1 + 2*float64(i)/float64(n-1)
		x.Set(i, 0, v)
		u.Set(i, 0, 0.5*math.Sin(2*v))
	}
	return x, u
}

func mustNetwork(t *testing.T, hp *config.Hyperparameters, logger trainlog.Logger) *advnet.Network {
	t.Helper()
	net, err := advnet.New(hp, logger, []float64{1}, []float64{-1})
	require.NoError(t, err)
	return net
}

func toTensor(t *testing.T, m mat.Matrix) *advnet.Tensor {
	t.Helper()
	raw, err := tensor.FromDense(m)
	require.NoError(t, err)
	return raw
}

func TestNew_BuildsThreeModels(t *testing.T) {
	net := mustNetwork(t, testHyperparameters(), nil)

	assert.Equal(t, 1, net.ModelP().InFeatures())
	assert.Equal(t, 1, net.ModelP().OutFeatures())
	assert.Equal(t, 2, net.ModelQ().InFeatures())
	assert.Equal(t, 3, net.ModelT().InFeatures())
	assert.Equal(t, 2, net.ModelT().OutFeatures())

	// Two dense layers in P: kernel and bias each.
	params := net.TrainableParameters()
	require.Len(t, params, 4)
	assert.Equal(t, tensor.Shape{1, 8}, params[0].Tensor().Shape())
	assert.Equal(t, tensor.Shape{8}, params[1].Tensor().Shape())
	assert.Equal(t, tensor.Shape{8, 1}, params[2].Tensor().Shape())
	assert.Equal(t, tensor.Shape{1}, params[3].Tensor().Shape())

	kl, tOpt := net.Optimizers()
	assert.Equal(t, "Adam", kl.Name())
	assert.Equal(t, "Adam", tOpt.Name())
	assert.InDelta(t, 0.01, kl.GetLR(), 1e-9)

	lb, ub := net.Bounds()
	assert.Equal(t, []float64{-1}, lb)
	assert.Equal(t, []float64{1}, ub)
	assert.Empty(t, net.Params())
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(hp *config.Hyperparameters)
		ub, lb []float64
	}{
		{"nil layers P", func(hp *config.Hyperparameters) { hp.LayersP = nil }, nil, nil},
		{"zero width Q", func(hp *config.Hyperparameters) { hp.LayersQ = []int{2, 0, 1} }, nil, nil},
		{"unknown optimizer", func(hp *config.Hyperparameters) { hp.TFOptimizer = "rmsprop" }, nil, nil},
		{"bounds mismatch", func(*config.Hyperparameters) {}, []float64{1, 2}, []float64{0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hp := testHyperparameters()
			tt.mutate(hp)
			_, err := advnet.New(hp, nil, tt.ub, tt.lb)
			assert.Error(t, err)
		})
	}

	_, err := advnet.New(nil, nil, nil, nil)
	assert.Error(t, err)
}

func TestNew_SeedIsReproducible(t *testing.T) {
	a := mustNetwork(t, testHyperparameters(), nil)
	b := mustNetwork(t, testHyperparameters(), nil)
	assert.Equal(t, a.Weights(), b.Weights())

	hp := testHyperparameters()
	hp.Seed = 7
	c := mustNetwork(t, hp, nil)
	assert.NotEqual(t, a.Weights(), c.Weights())
}

func TestFit_ReducesLoss(t *testing.T) {
	rec := &recorder{}
	hp := testHyperparameters()
	net := mustNetwork(t, hp, rec)
	x, u := sineData(32)

	before, _, err := net.Grad(toTensor(t, x), toTensor(t, u))
	require.NoError(t, err)

	require.NoError(t, net.Fit(context.Background(), x, u))

	after, _, err := net.Grad(toTensor(t, x), toTensor(t, u))
	require.NoError(t, err)
	assert.Less(t, after, before/2, "loss should at least halve: %v -> %v", before, after)

	assert.Equal(t, 1, rec.started)
	assert.Contains(t, rec.summary, "model_p")
	assert.Equal(t, []string{"Adam"}, rec.opts)
	require.Len(t, rec.epochs, hp.TFEpochs)
	assert.Equal(t, 0, rec.epochs[0])
	assert.Equal(t, hp.TFEpochs-1, rec.epochs[len(rec.epochs)-1])
	assert.InDelta(t, before, rec.losses[0], 1e-6, "first logged loss is the pre-update loss")
	assert.Equal(t, []int{hp.TFEpochs}, rec.ended)
}

// TestFit_AdamStepMatchesKeras checks one Adam epoch against the Keras
// update with the configured betas and eps taken literally.
func TestFit_AdamStepMatchesKeras(t *testing.T) {
	hp := testHyperparameters()
	hp.TFEpochs = 1
	hp.TFLR = 0.01
	hp.TFB1 = 0
	hp.TFB2 = 0.999
	hp.TFEps = 0.1
	net := mustNetwork(t, hp, nil)
	x, u := sineData(8)

	w0 := net.Weights()
	_, grads, err := net.Grad(toTensor(t, x), toTensor(t, u))
	require.NoError(t, err)
	var g []float32
	for _, grad := range grads {
		g = append(g, grad.Data()...)
	}

	require.NoError(t, net.Fit(context.Background(), x, u))
	w1 := net.Weights()

	// beta1 = 0 gives m = g; v = (1 - beta2) g².
	lrT := float64(hp.TFLR) * math.Sqrt(1-0.999)
	for i := range w0 {
		gi := float64(g[i])
		v := (1 - 0.999) * gi * gi
		want := float64(w0[i]) - lrT*gi/(math.Sqrt(v)+0.1)
		assert.InDelta(t, want, w1[i], 1e-6, "weight %d", i)
	}
}

// TestFit_ErrorFnPredicts checks that a logger error function may evaluate
// the network while Fit runs.
func TestFit_ErrorFnPredicts(t *testing.T) {
	hp := testHyperparameters()
	hp.TFEpochs = 50
	logger := trainlog.New(slog.New(slog.NewTextHandler(io.Discard, nil)), 10)
	net := mustNetwork(t, hp, logger)
	x, u := sineData(16)

	var errs []float64
	logger.SetErrorFn(func() (float64, error) {
		uPred, err := net.Predict(x)
		if err != nil {
			return 0, err
		}
		var diff mat.Dense
		diff.Sub(uPred, u)
		errs = append(errs, mat.Norm(&diff, 2)/mat.Norm(u, 2))
		return errs[len(errs)-1], nil
	})

	require.NoError(t, net.Fit(context.Background(), x, u))
	require.Len(t, errs, 5)
	assert.Less(t, errs[len(errs)-1], errs[0])
}

func TestFit_SGD(t *testing.T) {
	rec := &recorder{}
	hp := testHyperparameters()
	hp.TFOptimizer = config.OptimizerSGD
	hp.TFLR = 0.05
	hp.TFMomentum = 0.5
	net := mustNetwork(t, hp, rec)
	x, u := sineData(32)

	require.NoError(t, net.Fit(context.Background(), x, u))
	assert.Equal(t, []string{"SGD"}, rec.opts)
	assert.Less(t, rec.losses[len(rec.losses)-1], rec.losses[0])
}

func TestFit_ZeroEpochs(t *testing.T) {
	rec := &recorder{}
	hp := testHyperparameters()
	hp.TFEpochs = 0
	net := mustNetwork(t, hp, rec)
	x, u := sineData(4)
	w := net.Weights()

	require.NoError(t, net.Fit(context.Background(), x, u))
	assert.Equal(t, w, net.Weights())
	assert.Empty(t, rec.epochs)
	assert.Equal(t, []int{0}, rec.ended)
}

func TestFit_Cancelled(t *testing.T) {
	rec := &recorder{}
	net := mustNetwork(t, testHyperparameters(), rec)
	x, u := sineData(8)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := net.Fit(ctx, x, u)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, rec.epochs)
	assert.Equal(t, []int{0}, rec.ended)
}

func TestFit_ShapeErrors(t *testing.T) {
	net := mustNetwork(t, testHyperparameters(), nil)
	x, u := sineData(8)

	assert.Error(t, net.Fit(context.Background(), mat.NewDense(8, 2, nil), u), "wrong input width")
	assert.Error(t, net.Fit(context.Background(), x, mat.NewDense(8, 3, nil)), "wrong target width")
	assert.Error(t, net.Fit(context.Background(), x, mat.NewDense(7, 1, nil)), "row mismatch")
}

func TestPredict(t *testing.T) {
	net := mustNetwork(t, testHyperparameters(), nil)
	x, _ := sineData(5)

	pred, err := net.Predict(x)
	require.NoError(t, err)
	r, c := pred.Dims()
	assert.Equal(t, 5, r)
	assert.Equal(t, 1, c)

	// tanh output layer keeps every prediction inside (-1, 1).
	for i := range r {
		assert.Less(t, math.Abs(pred.At(i, 0)), 1.0)
	}

	// Predict does not change the weights or accumulate gradients.
	w := net.Weights()
	_, err = net.Predict(x)
	require.NoError(t, err)
	assert.Equal(t, w, net.Weights())
	for _, p := range net.TrainableParameters() {
		assert.Nil(t, p.Grad())
	}

	_, err = net.Predict(mat.NewDense(2, 3, nil))
	assert.Error(t, err)
}

func TestLoss(t *testing.T) {
	net := mustNetwork(t, testHyperparameters(), nil)

	u, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{4, 1})
	require.NoError(t, err)
	uPred, err := tensor.FromSlice([]float32{1, 1, 1, 1}, tensor.Shape{4, 1})
	require.NoError(t, err)

	loss, err := net.Loss(u, uPred)
	require.NoError(t, err)
	assert.InDelta(t, (0+1+4+9)/4.0, loss, 1e-6)

	_, err = net.Loss(u, tensor.Zeros(tensor.Shape{2, 2}))
	assert.Error(t, err)
}

func TestGrad_AlignedWithParameters(t *testing.T) {
	net := mustNetwork(t, testHyperparameters(), nil)
	x, u := sineData(6)

	loss, grads, err := net.Grad(toTensor(t, x), toTensor(t, u))
	require.NoError(t, err)
	assert.Positive(t, loss)

	params := net.TrainableParameters()
	require.Len(t, grads, len(params))
	for i, p := range params {
		assert.Equal(t, p.Tensor().Shape(), grads[i].Shape(), p.Name())
	}

	_, _, err = net.Grad(toTensor(t, mat.NewDense(6, 2, nil)), toTensor(t, u))
	assert.Error(t, err)
}

func TestSummary(t *testing.T) {
	net := mustNetwork(t, testHyperparameters(), nil)
	s := net.Summary()

	assert.Contains(t, s, "model_p")
	// 1*8+8 + 8*1+1
	assert.Contains(t, s, "Total params: 25")
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.srgt")
	hp := testHyperparameters()

	src := mustNetwork(t, hp, nil)
	require.NoError(t, src.Save(path))

	hp2 := testHyperparameters()
	hp2.Seed = 99
	dst := mustNetwork(t, hp2, nil)
	require.NotEqual(t, src.Weights(), dst.Weights())

	require.NoError(t, dst.Load(path))
	assert.Equal(t, src.Weights(), dst.Weights())
	assert.Equal(t, src.ModelQ().StateDict()["0.kernel"].Data(), dst.ModelQ().StateDict()["0.kernel"].Data())
	assert.Equal(t, src.ModelT().StateDict()["4.bias"].Data(), dst.ModelT().StateDict()["4.bias"].Data())

	hp3 := testHyperparameters()
	hp3.LayersP = []int{1, 4, 1}
	other := mustNetwork(t, hp3, nil)
	assert.Error(t, other.Load(path), "architecture mismatch")

	assert.Error(t, dst.Load(filepath.Join(t.TempDir(), "missing.srgt")))
}

// TestLoad_MismatchLeavesWeights tests that a checkpoint whose Q model has a
// different width is rejected without touching any of the three models.
func TestLoad_MismatchLeavesWeights(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.srgt")

	hp := testHyperparameters()
	hp.LayersQ = []int{2, 3, 1}
	require.NoError(t, mustNetwork(t, hp, nil).Save(path))

	hp2 := testHyperparameters()
	hp2.LayersQ = []int{2, 5, 1}
	hp2.Seed = 5
	net := mustNetwork(t, hp2, nil)

	snapshot := func() [][]float32 {
		var out [][]float32
		for _, m := range []*advnet.Model{net.ModelP(), net.ModelQ(), net.ModelT()} {
			for _, p := range m.Parameters() {
				out = append(out, p.Tensor().Clone().Data())
			}
		}
		return out
	}
	before := snapshot()

	for range 5 {
		require.Error(t, net.Load(path))
		assert.Equal(t, before, snapshot())
	}
}

func TestSave_RecordsHyperparameters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.srgt")
	hp := testHyperparameters()
	require.NoError(t, mustNetwork(t, hp, nil).Save(path))

	file, err := serialization.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, advnet.ModelType, file.Header.ModelType)
	assert.Equal(t, "1,8,1", file.Header.Metadata["layers_P"])

	restored, err := config.Parse([]byte(file.Header.Metadata["hyperparameters"]))
	require.NoError(t, err)
	assert.Equal(t, hp, restored)
}

func TestConcurrentPredict(t *testing.T) {
	net := mustNetwork(t, testHyperparameters(), nil)
	x, _ := sineData(16)
	want, err := net.Predict(x)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := net.Predict(x)
			assert.NoError(t, err)
			assert.True(t, mat.Equal(want, got))
		}()
	}
	wg.Wait()
}
