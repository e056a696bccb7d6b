package runtime

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrRaggedMatrix is returned when rows of a matrix literal differ in length.
var ErrRaggedMatrix = errors.New("All matrix rows must have same length")

// DimensionMismatchError reports incompatible shapes for multiplication.
type DimensionMismatchError struct {
	LeftRows, LeftCols   int
	RightRows, RightCols int
}

func (e DimensionMismatchError) Error() string {
	return fmt.Sprintf("Matrix dimension mismatch for multiplication (%dx%d) @ (%dx%d)",
		e.LeftRows, e.LeftCols, e.RightRows, e.RightCols)
}

// Matrix is a dense row-major grid of float64 cells.
type Matrix struct {
	Rows int
	Cols int
	Data []float64
}

func NewMatrix(rows, cols int) *Matrix {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	return &Matrix{Rows: rows, Cols: cols, Data: make([]float64, rows*cols)}
}

// FromRows builds a matrix from equally sized rows.
func FromRows(rows [][]float64) (*Matrix, error) {
	if len(rows) == 0 {
		return NewMatrix(0, 0), nil
	}
	cols := len(rows[0])
	m := NewMatrix(len(rows), cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, ErrRaggedMatrix
		}
		copy(m.Data[i*cols:(i+1)*cols], row)
	}
	return m, nil
}

func (m *Matrix) At(i, j int) float64 {
	return m.Data[i*m.Cols+j]
}

func (m *Matrix) Set(i, j int, v float64) {
	m.Data[i*m.Cols+j] = v
}

func (m *Matrix) Clone() *Matrix {
	out := &Matrix{Rows: m.Rows, Cols: m.Cols, Data: make([]float64, len(m.Data))}
	copy(out.Data, m.Data)
	return out
}

// Row returns a copy of row i.
func (m *Matrix) Row(i int) []float64 {
	out := make([]float64, m.Cols)
	copy(out, m.Data[i*m.Cols:(i+1)*m.Cols])
	return out
}

// Multiply computes a @ b.
func Multiply(a, b *Matrix) (*Matrix, error) {
	if a.Cols != b.Rows {
		return nil, DimensionMismatchError{
			LeftRows: a.Rows, LeftCols: a.Cols,
			RightRows: b.Rows, RightCols: b.Cols,
		}
	}
	out := NewMatrix(a.Rows, b.Cols)
	for i := 0; i < a.Rows; i++ {
		for j := 0; j < b.Cols; j++ {
			var sum float64
			for k := 0; k < a.Cols; k++ {
				sum += a.At(i, k) * b.At(k, j)
			}
			out.Set(i, j, sum)
		}
	}
	return out, nil
}

// Equal reports same shape and identical cells.
func Equal(a, b *Matrix) bool {
	if a.Rows != b.Rows || a.Cols != b.Cols {
		return false
	}
	for i := range a.Data {
		if a.Data[i] != b.Data[i] {
			return false
		}
	}
	return true
}

// FormatMatrix renders the multi-line form used by print and printm.
func FormatMatrix(m *Matrix) string {
	var sb strings.Builder
	sb.WriteString("[\n")
	for i := 0; i < m.Rows; i++ {
		sb.WriteString("  [")
		for j := 0; j < m.Cols; j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(formatCell(m.At(i, j)))
		}
		sb.WriteString("]")
		if i < m.Rows-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("]\n")
	return sb.String()
}

func formatCell(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) <= math.MaxInt32 {
		return strconv.FormatInt(int64(v), 10)
	}
	return FormatFloat(v)
}
