package nn

import (
	"fmt"
	"math/rand/v2"

	"github.com/born-ml/surrogate/internal/tensor"
)

// Linear implements a fully connected (dense) layer.
//
// Performs the transformation: y = x @ W + b
// where:
//   - x is the input tensor with shape [batch_size, in_features]
//   - W is the kernel with shape [in_features, out_features]
//   - b is the bias vector with shape [out_features]
//
// The kernel layout matches Keras, so flattened weight vectors are
// interchangeable with the ones produced by Keras get_weights.
//
// Kernels are initialized with GlorotNormal, biases with zeros.
type Linear[B tensor.Backend] struct {
	inFeatures  int
	outFeatures int
	weight      *Parameter[B]
	bias        *Parameter[B]
	backend     B
}

// NewLinear creates a new Linear layer. A nil src uses the global random source.
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, src rand.Source, backend B) *Linear[B] {
	kernel := GlorotNormal(inFeatures, outFeatures, tensor.Shape{inFeatures, outFeatures}, src)

	return &Linear[B]{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      NewParameter[B]("kernel", kernel),
		bias:        NewParameter[B]("bias", tensor.Zeros(tensor.Shape{outFeatures})),
		backend:     backend,
	}
}

// Forward computes x @ W + b.
//
// Input shape: [batch_size, in_features]
// Output shape: [batch_size, out_features]
func (l *Linear[B]) Forward(input *tensor.RawTensor) *tensor.RawTensor {
	inputShape := input.Shape()
	if len(inputShape) != 2 {
		panic(fmt.Sprintf("Linear.Forward: expected 2D input [batch, features], got shape %v", inputShape))
	}
	if inputShape[1] != l.inFeatures {
		panic(fmt.Sprintf("Linear.Forward: expected input with %d features, got %d", l.inFeatures, inputShape[1]))
	}

	output := l.backend.MatMul(input, l.weight.Tensor())
	return l.backend.Add(output, l.bias.Tensor())
}

// Parameters returns [kernel, bias].
func (l *Linear[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{l.weight, l.bias}
}

// Weight returns the kernel parameter.
func (l *Linear[B]) Weight() *Parameter[B] {
	return l.weight
}

// Bias returns the bias parameter.
func (l *Linear[B]) Bias() *Parameter[B] {
	return l.bias
}

// InFeatures returns the number of input features.
func (l *Linear[B]) InFeatures() int {
	return l.inFeatures
}

// OutFeatures returns the number of output features.
func (l *Linear[B]) OutFeatures() int {
	return l.outFeatures
}

// StateDict returns a map of parameter names to raw tensors.
func (l *Linear[B]) StateDict() map[string]*tensor.RawTensor {
	return map[string]*tensor.RawTensor{
		"kernel": l.weight.Tensor(),
		"bias":   l.bias.Tensor(),
	}
}

// LoadStateDict loads parameters from a state dictionary. Both tensors are
// checked before either is copied.
func (l *Linear[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	params := l.Parameters()
	raws := make([]*tensor.RawTensor, len(params))
	for i, p := range params {
		raw, ok := stateDict[p.Name()]
		if !ok {
			return fmt.Errorf("missing %s in state dict", p.Name())
		}
		if !raw.Shape().Equal(p.Tensor().Shape()) {
			return fmt.Errorf("%s shape mismatch: expected %v, got %v", p.Name(), p.Tensor().Shape(), raw.Shape())
		}
		raws[i] = raw
	}
	for i, p := range params {
		if err := p.Tensor().CopyFrom(raws[i].Data()); err != nil {
			return fmt.Errorf("load %s: %w", p.Name(), err)
		}
	}
	return nil
}
