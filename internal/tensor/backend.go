package tensor

// Backend defines the interface that all compute backends must implement.
// Backends handle the actual computation for tensor operations.
//
// Binary element-wise operations accept a second operand that broadcasts over
// the first (see BroadcastsOver). Implementations panic on shape mismatch.
type Backend interface {
	// Element-wise binary operations
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor

	// MulScalar multiplies every element by s.
	MulScalar(x *RawTensor, s float32) *RawTensor

	// Matrix operations: (M, K) @ (K, N) -> (M, N)
	MatMul(a, b *RawTensor) *RawTensor
	Transpose(t *RawTensor) *RawTensor

	// Tanh applies the hyperbolic tangent element-wise.
	Tanh(x *RawTensor) *RawTensor

	// Mean reduces all elements to a scalar.
	Mean(x *RawTensor) *RawTensor

	// Name returns a human-readable backend name.
	Name() string
}
