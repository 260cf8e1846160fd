package tensor

import "fmt"

// Shape represents the dimensions of a tensor.
type Shape []int

// NumElements returns the total number of elements in the tensor.
func (s Shape) NumElements() int {
	if len(s) == 0 {
		return 1 // Scalar has 1 element
	}
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks if the shape is valid (all dimensions > 0).
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim <= 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be > 0)", i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// String formats the shape the way Keras prints output shapes: (None, 20).
func (s Shape) String() string {
	out := "("
	for i, dim := range s {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprint(dim)
	}
	return out + ")"
}

// BroadcastsOver reports whether b can be broadcast over a.
//
// Only trailing broadcasting is supported: b is a scalar, or b's shape
// (ignoring leading 1s) equals the trailing dimensions of a.
//
//	(3, 5) + (5)    → true
//	(3, 5) + (1, 5) → true
//	(3, 5) + (1)    → true
//	(3, 5) + (3, 1) → false
func BroadcastsOver(a, b Shape) bool {
	if b.NumElements() == 1 {
		return true
	}
	b = trimLeadingOnes(b)
	if len(b) > len(a) {
		return false
	}
	return Shape(a[len(a)-len(b):]).Equal(b)
}

func trimLeadingOnes(s Shape) Shape {
	for len(s) > 0 && s[0] == 1 {
		s = s[1:]
	}
	return s
}
