package optim

import (
	"math"

	"github.com/born-ml/surrogate/internal/nn"
	"github.com/born-ml/surrogate/internal/tensor"
)

// Adam implements the Adam (Adaptive Moment Estimation) optimizer.
//
// Update rule:
//
//	m_t = beta1 * m_{t-1} + (1-beta1) * gradient       // First moment
//	v_t = beta2 * v_{t-1} + (1-beta2) * gradient²      // Second moment
//	m_hat = m_t / (1 - beta1^t)                        // Bias correction
//	v_hat = v_t / (1 - beta2^t)                        // Bias correction
//	param = param - lr * m_hat / (sqrt(v_hat) + eps)  // Parameter update
//
// With EpsilonHat set, eps is added before bias correction instead, the form
// TensorFlow/Keras uses:
//
//	lr_t = lr * sqrt(1 - beta2^t) / (1 - beta1^t)
//	param = param - lr_t * m_t / (sqrt(v_t) + eps)
//
// Reference: "Adam: A Method for Stochastic Optimization" (Kingma & Ba, 2014)
type Adam[B tensor.Backend] struct {
	params     []*nn.Parameter[B]
	lr         float32
	beta1      float32
	beta2      float32
	eps        float32
	epsilonHat bool
	t          int // Timestep for bias correction
	m          map[*nn.Parameter[B]][]float32
	v          map[*nn.Parameter[B]][]float32
}

// AdamConfig holds configuration for Adam optimizer.
type AdamConfig struct {
	LR         float32    // Learning rate
	Betas      [2]float32 // Coefficients for computing running averages
	Eps        float32    // Term for numerical stability
	EpsilonHat bool       // Add Eps before bias correction (Keras)
}

// DefaultAdamConfig returns LR 0.001, betas (0.9, 0.999) and eps 1e-8.
func DefaultAdamConfig() AdamConfig {
	return AdamConfig{
		LR:    0.001,
		Betas: [2]float32{0.9, 0.999},
		Eps:   1e-8,
	}
}

// NewAdam creates a new Adam optimizer. Config values are used as given,
// zeros included; start from DefaultAdamConfig for the usual settings.
func NewAdam[B tensor.Backend](params []*nn.Parameter[B], config AdamConfig) *Adam[B] {
	return &Adam[B]{
		params:     params,
		lr:         config.LR,
		beta1:      config.Betas[0],
		beta2:      config.Betas[1],
		eps:        config.Eps,
		epsilonHat: config.EpsilonHat,
		m:          make(map[*nn.Parameter[B]][]float32),
		v:          make(map[*nn.Parameter[B]][]float32),
	}
}

// Step performs a single optimization step using Adam algorithm.
//
// Parameters with no gradient are skipped.
func (a *Adam[B]) Step(grads map[*tensor.RawTensor]*tensor.RawTensor) {
	a.t++

	biasCorrection1 := 1.0 - math.Pow(float64(a.beta1), float64(a.t))
	biasCorrection2 := 1.0 - math.Pow(float64(a.beta2), float64(a.t))

	for _, param := range a.params {
		grad := getGradient(param, grads)
		if grad == nil {
			continue
		}

		n := param.Tensor().NumElements()
		m, ok := a.m[param]
		if !ok {
			m = make([]float32, n)
			a.m[param] = m
		}
		v, ok := a.v[param]
		if !ok {
			v = make([]float32, n)
			a.v[param] = v
		}

		if a.epsilonHat {
			lrT := float32(float64(a.lr) * math.Sqrt(biasCorrection2) / biasCorrection1)
			a.updateEpsilonHat(param.Tensor().Data(), grad.Data(), m, v, lrT)
		} else {
			a.updateParameter(param.Tensor().Data(), grad.Data(), m, v, float32(biasCorrection1), float32(biasCorrection2))
		}
	}
}

// updateParameter performs Adam update for a single parameter.
func (a *Adam[B]) updateParameter(paramData, gradData, mData, vData []float32, biasCorrection1, biasCorrection2 float32) {
	for i := range paramData {
		g := gradData[i]

		mData[i] = a.beta1*mData[i] + (1.0-a.beta1)*g
		vData[i] = a.beta2*vData[i] + (1.0-a.beta2)*g*g

		mHat := mData[i] / biasCorrection1
		vHat := vData[i] / biasCorrection2

		paramData[i] -= a.lr * mHat / (float32(math.Sqrt(float64(vHat))) + a.eps)
	}
}

// updateEpsilonHat performs the Keras-form update with a step size that
// already carries the bias correction.
func (a *Adam[B]) updateEpsilonHat(paramData, gradData, mData, vData []float32, lrT float32) {
	for i := range paramData {
		g := gradData[i]

		mData[i] = a.beta1*mData[i] + (1.0-a.beta1)*g
		vData[i] = a.beta2*vData[i] + (1.0-a.beta2)*g*g

		paramData[i] -= lrT * mData[i] / (float32(math.Sqrt(float64(vData[i]))) + a.eps)
	}
}

// ZeroGrad clears gradients for all parameters.
func (a *Adam[B]) ZeroGrad() {
	for _, param := range a.params {
		param.ZeroGrad()
	}
}

// GetLR returns the current learning rate.
func (a *Adam[B]) GetLR() float32 {
	return a.lr
}

// Name returns "Adam".
func (a *Adam[B]) Name() string {
	return "Adam"
}
