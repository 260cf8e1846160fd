// Package tensor provides the float32 tensor type and the Backend contract
// used by the surrogate training engine.
//
// Tensors are dense and row-major. Every value is float32, matching the
// precision the surrogate networks are trained in; float64 data coming from
// gonum matrices is converted at the boundary with FromDense and ToDense.
package tensor
