// Package config loads the hyperparameters of a surrogate network.
//
// Files are YAML; since JSON is valid YAML, the JSON hyperparameter files
// written by the rest of the pipeline load unchanged. Keys follow the
// pipeline's naming (tf_epochs, layers_P, X_dim, ...).
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Optimizer names accepted in tf_optimizer.
const (
	OptimizerAdam = "adam"
	OptimizerSGD  = "sgd"
)

// Hyperparameters configures the networks, the first-order optimizers and
// the training loop.
type Hyperparameters struct {
	// First-order (Adam) training.
	TFEpochs    int     `yaml:"tf_epochs"`
	TFLR        float32 `yaml:"tf_lr"`
	TFB1        float32 `yaml:"tf_b1"`
	TFB2        float32 `yaml:"tf_b2"`
	TFEps       float32 `yaml:"tf_eps"`
	TFOptimizer string  `yaml:"tf_optimizer"`
	TFMomentum  float32 `yaml:"tf_momentum"`

	// Second-order (L-BFGS) settings. Kept for the flat loss/gradient
	// interface; the training loop does not run an L-BFGS phase.
	NTEpochs int     `yaml:"nt_epochs"`
	NTLR     float32 `yaml:"nt_lr"`
	NTNCorr  int     `yaml:"nt_ncorr"`

	// Layer widths of the three networks, input width first.
	LayersP []int `yaml:"layers_P"`
	LayersQ []int `yaml:"layers_Q"`
	LayersT []int `yaml:"layers_T"`

	// Problem dimensions and loss weights used by the surrounding pipeline.
	XDim  int     `yaml:"X_dim"`
	TDim  int     `yaml:"T_dim"`
	YDim  int     `yaml:"Y_dim"`
	ZDim  int     `yaml:"Z_dim"`
	Lamda float64 `yaml:"lamda"`
	Beta  float64 `yaml:"beta"`
	K1    float64 `yaml:"k1"`
	K2    float64 `yaml:"k2"`

	// LogFrequency is the epoch interval between progress lines.
	LogFrequency int `yaml:"log_frequency"`
	// Seed makes weight initialization reproducible. Zero picks a random seed.
	Seed uint64 `yaml:"seed"`
}

// Default returns hyperparameters with the optimizer defaults filled in.
// Layer specifications have no default.
func Default() *Hyperparameters {
	return &Hyperparameters{
		TFEpochs:     100,
		TFLR:         0.001,
		TFB1:         0.9,
		TFB2:         0.999,
		TFEps:        1e-8,
		TFOptimizer:  OptimizerAdam,
		NTLR:         0.8,
		NTNCorr:      50,
		LogFrequency: 10,
	}
}

// Load reads hyperparameters from a YAML or JSON file.
func Load(path string) (*Hyperparameters, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	hp, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return hp, nil
}

// Parse decodes hyperparameters over Default and checks that the layer
// specifications can build a network.
func Parse(data []byte) (*Hyperparameters, error) {
	hp := Default()
	if err := yaml.Unmarshal(data, hp); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := hp.Check(); err != nil {
		return nil, err
	}
	return hp, nil
}

// Check reports layer specifications that cannot build a network and
// unknown optimizer names. Numeric hyperparameters are taken as given.
func (hp *Hyperparameters) Check() error {
	layers := []struct {
		name  string
		specs []int
	}{
		{"layers_P", hp.LayersP},
		{"layers_Q", hp.LayersQ},
		{"layers_T", hp.LayersT},
	}
	for _, l := range layers {
		if len(l.specs) < 2 {
			return fmt.Errorf("%s: need an input width and at least one layer, got %v", l.name, l.specs)
		}
		for i, w := range l.specs {
			if w <= 0 {
				return fmt.Errorf("%s[%d]: width %d must be positive", l.name, i, w)
			}
		}
	}

	switch hp.TFOptimizer {
	case OptimizerAdam, OptimizerSGD:
	default:
		return fmt.Errorf("tf_optimizer: unknown optimizer %q", hp.TFOptimizer)
	}
	return nil
}

// Marshal encodes the hyperparameters as YAML.
func (hp *Hyperparameters) Marshal() ([]byte, error) {
	return yaml.Marshal(hp)
}
