// Package dataset moves training and evaluation data between CSV files and
// gonum matrices.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ReadCSV reads numeric rows into an input matrix X (the first inputs
// columns) and a target matrix u (the next outputs columns). With outputs
// set to zero only X is read and u is nil.
//
// A first row that does not parse as numbers is treated as a header.
func ReadCSV(r io.Reader, inputs, outputs int) (x, u *mat.Dense, err error) {
	if inputs <= 0 || outputs < 0 {
		return nil, nil, fmt.Errorf("read csv: invalid column split %d/%d", inputs, outputs)
	}
	width := inputs + outputs

	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true
	cr.FieldsPerRecord = width

	var xData, uData []float64
	row := make([]float64, width)
	for line := 1; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read csv: %w", err)
		}

		if err := parseRow(record, row); err != nil {
			if line == 1 {
				continue // header
			}
			return nil, nil, fmt.Errorf("read csv: line %d: %w", line, err)
		}
		xData = append(xData, row[:inputs]...)
		uData = append(uData, row[inputs:]...)
	}

	rows := len(xData) / inputs
	if rows == 0 {
		return nil, nil, fmt.Errorf("read csv: no data rows")
	}

	x = mat.NewDense(rows, inputs, xData)
	if outputs > 0 {
		u = mat.NewDense(rows, outputs, uData)
	}
	return x, u, nil
}

func parseRow(record []string, row []float64) error {
	for i, field := range record {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return fmt.Errorf("column %d: %w", i+1, err)
		}
		row[i] = v
	}
	return nil
}

// Bounds returns the per-column lower and upper bounds of x.
func Bounds(x mat.Matrix) (lb, ub []float64) {
	rows, cols := x.Dims()
	lb = make([]float64, cols)
	ub = make([]float64, cols)
	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(col, j, x)
		lb[j] = floats.Min(col)
		ub[j] = floats.Max(col)
	}
	return lb, ub
}

// WriteCSV writes m as comma-separated rows.
func WriteCSV(w io.Writer, m mat.Matrix) error {
	rows, cols := m.Dims()
	cw := csv.NewWriter(w)
	record := make([]string, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			record[j] = strconv.FormatFloat(m.At(i, j), 'g', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
