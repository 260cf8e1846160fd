// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package advnet

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/born-ml/surrogate/internal/serialization"
	"github.com/born-ml/surrogate/internal/tensor"
)

// ModelType is recorded in the header of every checkpoint.
const ModelType = "advnet"

// Save writes the weights of models P, Q and T to a .srgt checkpoint.
// Tensor names carry the model prefix, e.g. "p.0.kernel" or "t.2.bias".
// The metadata records the layer widths and the full hyperparameters as YAML.
func (n *Network) Save(path string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	state := make(map[string]*tensor.RawTensor)
	for _, m := range n.models() {
		for name, raw := range m.model.StateDict() {
			state[m.prefix+name] = raw
		}
	}

	hp, err := n.hp.Marshal()
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	metadata := map[string]string{
		"layers_P":        formatLayers(n.hp.LayersP),
		"layers_Q":        formatLayers(n.hp.LayersQ),
		"layers_T":        formatLayers(n.hp.LayersT),
		"hyperparameters": string(hp),
	}
	if err := serialization.WriteFile(path, state, ModelType, metadata); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// Load restores the weights of models P, Q and T from a checkpoint written
// by Save. The network must have been built with the same layer widths.
// Every tensor is checked before any is copied, so a failed Load leaves the
// network unchanged.
func (n *Network) Load(path string) error {
	file, err := serialization.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	if file.Header.ModelType != ModelType {
		return fmt.Errorf("load %s: model type %q, expected %q", path, file.Header.ModelType, ModelType)
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	models := n.models()
	states := make([]map[string]*tensor.RawTensor, len(models))
	for i, m := range models {
		state, err := matchState(m.model, m.prefix, file.Tensors)
		if err != nil {
			return fmt.Errorf("load %s: model %s: %w", path, m.name, err)
		}
		states[i] = state
	}

	for i, m := range models {
		if err := m.model.LoadStateDict(states[i]); err != nil {
			return fmt.Errorf("load %s: model %s: %w", path, m.name, err)
		}
	}
	return nil
}

// matchState selects the tensors of one model from a checkpoint and checks
// that each parameter is present with the model's shape.
func matchState(model *Model, prefix string, tensors map[string]*tensor.RawTensor) (map[string]*tensor.RawTensor, error) {
	state := make(map[string]*tensor.RawTensor)
	for name, want := range model.StateDict() {
		raw, ok := tensors[prefix+name]
		if !ok {
			return nil, fmt.Errorf("missing %s", prefix+name)
		}
		if !raw.Shape().Equal(want.Shape()) {
			return nil, fmt.Errorf("%s shape mismatch: expected %v, got %v", prefix+name, want.Shape(), raw.Shape())
		}
		state[name] = raw
	}
	return state, nil
}

type namedModel struct {
	name   string
	prefix string
	model  *Model
}

func (n *Network) models() []namedModel {
	return []namedModel{
		{"P", "p.", n.modelP},
		{"Q", "q.", n.modelQ},
		{"T", "t.", n.modelT},
	}
}

func formatLayers(layers []int) string {
	parts := make([]string, len(layers))
	for i, w := range layers {
		parts[i] = strconv.Itoa(w)
	}
	return strings.Join(parts, ",")
}
