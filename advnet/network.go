// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package advnet

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/born-ml/surrogate/internal/autodiff"
	"github.com/born-ml/surrogate/internal/backend/cpu"
	"github.com/born-ml/surrogate/internal/config"
	"github.com/born-ml/surrogate/internal/nn"
	"github.com/born-ml/surrogate/internal/optim"
	"github.com/born-ml/surrogate/internal/tensor"
	"github.com/born-ml/surrogate/internal/trainlog"
	"gonum.org/v1/gonum/mat"
)

// Backend is the compute backend every network runs on.
type Backend = *autodiff.AutodiffBackend[*cpu.CPUBackend]

// Tensor is a dense float32 tensor.
type Tensor = tensor.RawTensor

// Shape represents the dimensions of a tensor.
type Shape = tensor.Shape

// Model is a sequential tanh multilayer perceptron.
type Model = nn.Sequential[Backend]

// Parameter is a trainable variable of a model.
type Parameter = nn.Parameter[Backend]

// Optimizer applies gradient updates to a model's parameters.
type Optimizer = optim.Optimizer

// Network is the surrogate trainer. Its methods are safe for concurrent use;
// they are serialized because all models share one gradient tape. The models
// returned by ModelP, ModelQ and ModelT are not guarded.
type Network struct {
	mu sync.Mutex

	hp     *config.Hyperparameters
	logger trainlog.Logger
	ub, lb []float64

	backend Backend
	modelP  *Model
	modelQ  *Model
	modelT  *Model

	optimizerKL Optimizer // trains model P
	optimizerT  Optimizer // bound to model T
	lossFn      *nn.MSELoss[Backend]
}

// New builds the three models and their optimizers from hp.
//
// ub and lb are the upper and lower bounds of the input domain; they are
// stored for the surrounding pipeline. A nil logger discards all events.
func New(hp *config.Hyperparameters, logger trainlog.Logger, ub, lb []float64) (*Network, error) {
	if hp == nil {
		return nil, fmt.Errorf("advnet: nil hyperparameters")
	}
	if len(ub) != len(lb) {
		return nil, fmt.Errorf("advnet: bounds length mismatch: ub has %d entries, lb has %d", len(ub), len(lb))
	}
	if logger == nil {
		logger = trainlog.Nop{}
	}

	backend := autodiff.New(cpu.New())
	src := seedSource(hp.Seed)

	modelP, err := nn.NewMLP(hp.LayersP, src, backend)
	if err != nil {
		return nil, fmt.Errorf("advnet: layers_P: %w", err)
	}
	modelQ, err := nn.NewMLP(hp.LayersQ, src, backend)
	if err != nil {
		return nil, fmt.Errorf("advnet: layers_Q: %w", err)
	}
	modelT, err := nn.NewMLP(hp.LayersT, src, backend)
	if err != nil {
		return nil, fmt.Errorf("advnet: layers_T: %w", err)
	}

	optimizerKL, err := newOptimizer(hp, modelP.Parameters())
	if err != nil {
		return nil, err
	}
	optimizerT, err := newOptimizer(hp, modelT.Parameters())
	if err != nil {
		return nil, err
	}

	return &Network{
		hp:          hp,
		logger:      logger,
		ub:          slices.Clone(ub),
		lb:          slices.Clone(lb),
		backend:     backend,
		modelP:      modelP,
		modelQ:      modelQ,
		modelT:      modelT,
		optimizerKL: optimizerKL,
		optimizerT:  optimizerT,
		lossFn:      nn.NewMSELoss(backend),
	}, nil
}

// seedSource returns a deterministic source for a non-zero seed, or nil to
// use the global random source.
func seedSource(seed uint64) rand.Source {
	if seed == 0 {
		return nil
	}
	return rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
}

// newOptimizer builds the first-order optimizer named by tf_optimizer. Values
// are passed through unchanged, and Adam adds eps before bias correction as
// Keras does, so tf_eps has the meaning it has in Keras configurations.
func newOptimizer(hp *config.Hyperparameters, params []*Parameter) (Optimizer, error) {
	switch hp.TFOptimizer {
	case config.OptimizerAdam, "":
		return optim.NewAdam(params, optim.AdamConfig{
			LR:         hp.TFLR,
			Betas:      [2]float32{hp.TFB1, hp.TFB2},
			Eps:        hp.TFEps,
			EpsilonHat: true,
		}), nil
	case config.OptimizerSGD:
		return optim.NewSGD(params, optim.SGDConfig{
			LR:       hp.TFLR,
			Momentum: hp.TFMomentum,
		}), nil
	default:
		return nil, fmt.Errorf("advnet: unknown optimizer %q", hp.TFOptimizer)
	}
}

// Fit trains model P on inputs x and targets u for tf_epochs steps.
//
// Every step computes the loss and its gradients on the full batch and
// applies one optimizer update; the logger sees each epoch. The network is
// locked one step at a time and logger callbacks run unlocked, so an error
// callback may call Predict. Fit returns the context's error if ctx is
// cancelled between epochs.
func (n *Network) Fit(ctx context.Context, x, u mat.Matrix) error {
	xt, err := tensor.FromDense(x)
	if err != nil {
		return fmt.Errorf("fit: inputs: %w", err)
	}
	ut, err := tensor.FromDense(u)
	if err != nil {
		return fmt.Errorf("fit: targets: %w", err)
	}
	if err := n.checkBatch(xt, ut); err != nil {
		return fmt.Errorf("fit: %w", err)
	}

	n.logger.TrainStart(summarizer(n.Summary))
	n.logger.TrainOpt(n.optimizerKL.Name())

	for epoch := 0; epoch < n.hp.TFEpochs; epoch++ {
		if err := ctx.Err(); err != nil {
			n.logger.TrainEnd(epoch)
			return fmt.Errorf("fit: stopped at epoch %d: %w", epoch, err)
		}
		n.logger.TrainEpoch(epoch, n.step(xt, ut))
	}

	n.logger.TrainEnd(n.hp.TFEpochs)
	return nil
}

// step applies one optimizer update to model P and returns the loss
// computed before it.
func (n *Network) step(x, u *Tensor) float32 {
	n.mu.Lock()
	defer n.mu.Unlock()

	loss, grads := n.backward(x, u)
	n.optimizerKL.Step(grads)
	n.optimizerKL.ZeroGrad()
	return loss
}

// Predict evaluates model P on x without recording gradients.
func (n *Network) Predict(x mat.Matrix) (*mat.Dense, error) {
	xt, err := tensor.FromDense(x)
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if got, want := xt.Shape()[1], n.modelP.InFeatures(); got != want {
		return nil, fmt.Errorf("predict: input has %d columns, model expects %d", got, want)
	}
	return tensor.ToDense(n.modelP.Forward(xt)), nil
}

// Loss returns the mean squared error between u and uPred.
func (n *Network) Loss(u, uPred *Tensor) (float32, error) {
	if !u.Shape().Equal(uPred.Shape()) {
		return 0, fmt.Errorf("loss: shape mismatch: %v vs %v", u.Shape(), uPred.Shape())
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	return n.lossFn.Forward(uPred, u).Item(), nil
}

// Grad returns the loss of model P on (x, u) and its gradients with respect
// to TrainableParameters, index-aligned with them.
func (n *Network) Grad(x, u *Tensor) (float32, []*Tensor, error) {
	if err := n.checkBatch(x, u); err != nil {
		return 0, nil, fmt.Errorf("grad: %w", err)
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	loss, grads := n.backward(x, u)
	return loss, nn.CollectGrads(n.modelP.Parameters(), grads), nil
}

// backward records one forward pass of model P and the loss, then walks the
// tape. The tape is left empty and not recording.
func (n *Network) backward(x, u *Tensor) (float32, map[*Tensor]*Tensor) {
	tape := n.backend.Tape()
	tape.Clear()
	tape.StartRecording()
	defer func() {
		tape.StopRecording()
		tape.Clear()
	}()

	loss := n.lossFn.Forward(n.modelP.Forward(x), u)
	return loss.Item(), autodiff.Backward(loss, n.backend)
}

// checkBatch validates that x and u fit model P's input and output widths
// and have the same number of rows. Layer widths never change, so it needs
// no lock.
func (n *Network) checkBatch(x, u *Tensor) error {
	xs, us := x.Shape(), u.Shape()
	if len(xs) != 2 || len(us) != 2 {
		return fmt.Errorf("expected 2D inputs and targets, got %v and %v", xs, us)
	}
	if xs[0] != us[0] {
		return fmt.Errorf("inputs have %d rows, targets have %d", xs[0], us[0])
	}
	if want := n.modelP.InFeatures(); xs[1] != want {
		return fmt.Errorf("inputs have %d columns, model expects %d", xs[1], want)
	}
	if want := n.modelP.OutFeatures(); us[1] != want {
		return fmt.Errorf("targets have %d columns, model produces %d", us[1], want)
	}
	return nil
}

// TrainableParameters returns the variables of model P that Fit updates.
func (n *Network) TrainableParameters() []*Parameter {
	return n.modelP.Parameters()
}

// Params returns the learnable physical parameters of the problem. The
// surrogate has none, so the result is always empty.
func (n *Network) Params() []float32 {
	return []float32{}
}

// Summary renders model P's architecture.
func (n *Network) Summary() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return nn.Summary("model_p", n.modelP)
}

// ModelP returns the live surrogate model. It shares weights and the tape
// with the network and is not guarded by its lock: callers must not use it
// while another goroutine calls a Network method.
func (n *Network) ModelP() *Model { return n.modelP }

// ModelQ returns the live Q model, under the same rules as ModelP.
func (n *Network) ModelQ() *Model { return n.modelQ }

// ModelT returns the live T model, under the same rules as ModelP.
func (n *Network) ModelT() *Model { return n.modelT }

// Optimizers returns the optimizer over model P and the one over model T.
func (n *Network) Optimizers() (kl, t Optimizer) {
	return n.optimizerKL, n.optimizerT
}

// Hyperparameters returns the configuration the network was built from.
func (n *Network) Hyperparameters() *config.Hyperparameters {
	return n.hp
}

// Bounds returns copies of the lower and upper domain bounds.
func (n *Network) Bounds() (lb, ub []float64) {
	return slices.Clone(n.lb), slices.Clone(n.ub)
}

// summarizer adapts a function to trainlog.Summarizer.
type summarizer func() string

func (s summarizer) Summary() string { return s() }
