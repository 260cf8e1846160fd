package nn

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/born-ml/surrogate/internal/tensor"
)

// Sequential is a container module that chains multiple modules together.
//
// Each module's output becomes the next module's input.
type Sequential[B tensor.Backend] struct {
	inFeatures int
	modules    []Module[B]
}

// NewSequential creates a new Sequential container.
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	s := &Sequential[B]{modules: modules}
	if len(modules) > 0 {
		if l, ok := modules[0].(*Linear[B]); ok {
			s.inFeatures = l.InFeatures()
		}
	}
	return s
}

// NewMLP builds a multilayer perceptron from a layer-width specification.
//
// layers[0] is the input width. Every following entry adds a dense layer of
// that width followed by a tanh activation, so the output layer is tanh too.
// A nil src uses the global random source for kernel initialization.
func NewMLP[B tensor.Backend](layers []int, src rand.Source, backend B) (*Sequential[B], error) {
	if len(layers) < 2 {
		return nil, fmt.Errorf("mlp: need an input width and at least one layer, got %v", layers)
	}
	for i, width := range layers {
		if width <= 0 {
			return nil, fmt.Errorf("mlp: layer %d has width %d (must be > 0)", i, width)
		}
	}

	s := &Sequential[B]{inFeatures: layers[0]}
	for i := 1; i < len(layers); i++ {
		s.Add(NewLinear(layers[i-1], layers[i], src, backend))
		s.Add(NewTanh(backend))
	}
	return s, nil
}

// Forward applies all modules in sequence.
func (s *Sequential[B]) Forward(input *tensor.RawTensor) *tensor.RawTensor {
	output := input
	for _, module := range s.modules {
		output = module.Forward(output)
	}
	return output
}

// Parameters returns all trainable parameters from all modules, in order.
func (s *Sequential[B]) Parameters() []*Parameter[B] {
	var params []*Parameter[B]
	for _, module := range s.modules {
		params = append(params, module.Parameters()...)
	}
	return params
}

// Add appends a module to the sequence.
func (s *Sequential[B]) Add(module Module[B]) {
	if len(s.modules) == 0 && s.inFeatures == 0 {
		if l, ok := module.(*Linear[B]); ok {
			s.inFeatures = l.InFeatures()
		}
	}
	s.modules = append(s.modules, module)
}

// Len returns the number of modules in the sequence.
func (s *Sequential[B]) Len() int {
	return len(s.modules)
}

// Module returns the module at the given index.
//
// Panics if index is out of bounds.
func (s *Sequential[B]) Module(index int) Module[B] {
	if index < 0 || index >= len(s.modules) {
		panic("Sequential.Module: index out of bounds")
	}
	return s.modules[index]
}

// InFeatures returns the input width of the first layer.
func (s *Sequential[B]) InFeatures() int {
	return s.inFeatures
}

// OutFeatures returns the output width of the last dense layer.
func (s *Sequential[B]) OutFeatures() int {
	for i := len(s.modules) - 1; i >= 0; i-- {
		if l, ok := s.modules[i].(*Linear[B]); ok {
			return l.OutFeatures()
		}
	}
	return s.inFeatures
}

// StateDict returns a map of parameter names to raw tensors.
//
// Parameters are prefixed with their module index (e.g., "0.kernel",
// "0.bias", "2.kernel") to avoid name collisions.
func (s *Sequential[B]) StateDict() map[string]*tensor.RawTensor {
	stateDict := make(map[string]*tensor.RawTensor)
	for i, module := range s.modules {
		for name, raw := range module.StateDict() {
			stateDict[fmt.Sprintf("%d.%s", i, name)] = raw
		}
	}
	return stateDict
}

// LoadStateDict loads parameters from a state dictionary.
func (s *Sequential[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	for i, module := range s.modules {
		moduleStateDict := make(map[string]*tensor.RawTensor)
		prefix := fmt.Sprintf("%d.", i)
		for key, raw := range stateDict {
			if name, ok := strings.CutPrefix(key, prefix); ok {
				moduleStateDict[name] = raw
			}
		}

		if len(module.Parameters()) == 0 {
			continue
		}
		if err := module.LoadStateDict(moduleStateDict); err != nil {
			return fmt.Errorf("failed to load module %d: %w", i, err)
		}
	}
	return nil
}
