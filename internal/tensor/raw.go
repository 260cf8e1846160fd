package tensor

import "fmt"

// RawTensor is the low-level tensor representation: a shape and a row-major
// float32 buffer.
//
// RawTensors are compared by pointer identity in the gradient map returned by
// autodiff, so operations always allocate a fresh result instead of writing
// into their inputs.
type RawTensor struct {
	shape Shape
	data  []float32
}

// NewRaw allocates a zero-filled tensor of the given shape.
func NewRaw(shape Shape) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	return &RawTensor{
		shape: shape.Clone(),
		data:  make([]float32, shape.NumElements()),
	}, nil
}

// FromSlice creates a tensor from a Go slice.
// The slice is copied into the tensor's memory.
func FromSlice(data []float32, shape Shape) (*RawTensor, error) {
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}
	t, err := NewRaw(shape)
	if err != nil {
		return nil, err
	}
	copy(t.data, data)
	return t, nil
}

// Scalar creates a 0-d tensor holding v.
func Scalar(v float32) *RawTensor {
	return &RawTensor{shape: Shape{}, data: []float32{v}}
}

// Zeros creates a tensor filled with zeros.
func Zeros(shape Shape) *RawTensor {
	t, err := NewRaw(shape)
	if err != nil {
		panic(fmt.Sprintf("zeros: %v", err))
	}
	return t
}

// Ones creates a tensor filled with ones.
func Ones(shape Shape) *RawTensor {
	return Full(shape, 1)
}

// Full creates a tensor filled with v.
func Full(shape Shape, v float32) *RawTensor {
	t := Zeros(shape)
	for i := range t.data {
		t.data[i] = v
	}
	return t
}

// Shape returns the tensor's shape.
func (t *RawTensor) Shape() Shape {
	return t.shape
}

// NumElements returns the total number of elements.
func (t *RawTensor) NumElements() int {
	return len(t.data)
}

// Data returns the underlying buffer. Writes are visible to the tensor.
func (t *RawTensor) Data() []float32 {
	return t.data
}

// Item returns the single value of a one-element tensor.
func (t *RawTensor) Item() float32 {
	if len(t.data) != 1 {
		panic(fmt.Sprintf("item: tensor with shape %v has %d elements", t.shape, len(t.data)))
	}
	return t.data[0]
}

// Clone returns a deep copy of the tensor.
func (t *RawTensor) Clone() *RawTensor {
	data := make([]float32, len(t.data))
	copy(data, t.data)
	return &RawTensor{shape: t.shape.Clone(), data: data}
}

// CopyFrom overwrites the tensor's values with src. Shapes must hold the same
// number of elements.
func (t *RawTensor) CopyFrom(src []float32) error {
	if len(src) != len(t.data) {
		return fmt.Errorf("copy: tensor with shape %v needs %d values, got %d", t.shape, len(t.data), len(src))
	}
	copy(t.data, src)
	return nil
}

// String renders small tensors for debugging.
func (t *RawTensor) String() string {
	const maxShown = 8
	if len(t.data) <= maxShown {
		return fmt.Sprintf("Tensor%v%v", t.shape, t.data)
	}
	return fmt.Sprintf("Tensor%v%v...", t.shape, t.data[:maxShown])
}
