// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package advnet

import (
	"fmt"

	"github.com/born-ml/surrogate/internal/nn"
)

// LossAndFlatGradFunc evaluates the loss and its flattened gradient at the
// flat weight vector w.
type LossAndFlatGradFunc func(w []float32) (loss float32, grad []float32, err error)

// Weights returns model P's weights and biases as one vector: for each
// dense layer, the kernel in row-major [in, out] order followed by the bias.
func (n *Network) Weights() []float32 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return nn.FlattenWeights(n.modelP.Parameters())
}

// SetWeights loads a vector laid out like Weights into model P.
func (n *Network) SetWeights(w []float32) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if err := nn.UnflattenWeights(n.modelP.Parameters(), w); err != nil {
		return fmt.Errorf("set weights: %w", err)
	}
	return nil
}

// WeightSizes returns the number of scalars in each kernel and bias of
// model P, in the order Weights lays them out.
func (n *Network) WeightSizes() []int {
	return nn.FlatSizes(n.modelP.Parameters())
}

// LossAndFlatGrad binds the batch (x, u) and returns a function that sets
// model P's weights to w, evaluates the loss and returns the gradient
// flattened in the same layout as Weights.
//
// The function leaves the weights at w; callers restore them with SetWeights.
func (n *Network) LossAndFlatGrad(x, u *Tensor) (LossAndFlatGradFunc, error) {
	if err := n.checkBatch(x, u); err != nil {
		return nil, fmt.Errorf("loss and flat grad: %w", err)
	}

	return func(w []float32) (float32, []float32, error) {
		n.mu.Lock()
		defer n.mu.Unlock()

		params := n.modelP.Parameters()
		if err := nn.UnflattenWeights(params, w); err != nil {
			return 0, nil, fmt.Errorf("loss and flat grad: %w", err)
		}
		loss, grads := n.backward(x, u)
		return loss, nn.FlattenGrads(nn.CollectGrads(params, grads)), nil
	}, nil
}
