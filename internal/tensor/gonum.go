package tensor

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// FromDense converts a gonum matrix to a float32 tensor of shape (rows, cols).
func FromDense(m mat.Matrix) (*RawTensor, error) {
	if m == nil {
		return nil, fmt.Errorf("from dense: nil matrix")
	}
	r, c := m.Dims()
	t, err := NewRaw(Shape{r, c})
	if err != nil {
		return nil, fmt.Errorf("from dense: %w", err)
	}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			t.data[i*c+j] = float32(m.At(i, j))
		}
	}
	return t, nil
}

// ToDense converts a 2-D tensor to a gonum matrix.
func ToDense(t *RawTensor) *mat.Dense {
	if len(t.shape) != 2 {
		panic(fmt.Sprintf("to dense: expected 2D tensor, got shape %v", t.shape))
	}
	r, c := t.shape[0], t.shape[1]
	data := make([]float64, len(t.data))
	for i, v := range t.data {
		data[i] = float64(v)
	}
	return mat.NewDense(r, c, data)
}
