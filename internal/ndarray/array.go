// Package ndarray implements the dense two-dimensional float64 array used as
// the value type of matrix computation graphs.
//
// Array wraps a gonum *mat.Dense and exposes value semantics: every
// operation returns a new Array and never mutates its receiver. The zero
// Array is an empty 0x0 array; it is the placeholder held by operation nodes
// before their first forward pass.
//
// Shape mismatches are reported as errors, never panics:
//
//	x := ndarray.MustFromRows([][]float64{{1, 2}, {3, 4}})
//	w := ndarray.Zeros(2, 1)
//	y, err := x.Dot(w) // 2x1
package ndarray

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ErrShape is returned (wrapped) when operand shapes are incompatible.
var ErrShape = errors.New("ndarray: shape mismatch")

// Array is an immutable-by-convention dense row-major matrix.
type Array struct {
	d *mat.Dense // nil for the empty array
}

// New creates a rows x cols array backed by a copy of data (row-major).
func New(rows, cols int, data []float64) (Array, error) {
	if rows < 0 || cols < 0 {
		return Array{}, errors.Errorf("ndarray: negative dimension %dx%d", rows, cols)
	}
	if len(data) != rows*cols {
		return Array{}, errors.Errorf("ndarray: %d values do not fill a %dx%d array", len(data), rows, cols)
	}
	if rows == 0 || cols == 0 {
		return Array{}, nil
	}
	buf := make([]float64, len(data))
	copy(buf, data)
	return Array{d: mat.NewDense(rows, cols, buf)}, nil
}

// Zeros returns a rows x cols array of zeros.
func Zeros(rows, cols int) Array {
	return Full(rows, cols, 0)
}

// Full returns a rows x cols array with every element set to v.
func Full(rows, cols int, v float64) Array {
	if rows <= 0 || cols <= 0 {
		return Array{}
	}
	buf := make([]float64, rows*cols)
	if v != 0 {
		for i := range buf {
			buf[i] = v
		}
	}
	return Array{d: mat.NewDense(rows, cols, buf)}
}

// FromRows builds an array from a slice of equally sized rows.
func FromRows(rows [][]float64) (Array, error) {
	if len(rows) == 0 {
		return Array{}, nil
	}
	cols := len(rows[0])
	buf := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return Array{}, errors.Wrapf(ErrShape, "row %d has %d columns, want %d", i, len(row), cols)
		}
		buf = append(buf, row...)
	}
	return New(len(rows), cols, buf)
}

// MustFromRows is FromRows that panics on ragged input.
func MustFromRows(rows [][]float64) Array {
	a, err := FromRows(rows)
	if err != nil {
		panic(err)
	}
	return a
}

// Column builds an n x 1 array from values.
func Column(values ...float64) Array {
	a, _ := New(len(values), 1, values)
	return a
}

// Rows returns the number of rows.
func (a Array) Rows() int {
	if a.d == nil {
		return 0
	}
	r, _ := a.d.Dims()
	return r
}

// Cols returns the number of columns.
func (a Array) Cols() int {
	if a.d == nil {
		return 0
	}
	_, c := a.d.Dims()
	return c
}

// Shape returns (rows, cols).
func (a Array) Shape() (rows, cols int) {
	return a.Rows(), a.Cols()
}

// Len returns the number of elements.
func (a Array) Len() int {
	return a.Rows() * a.Cols()
}

// IsEmpty reports whether the array has no elements.
func (a Array) IsEmpty() bool {
	return a.d == nil
}

// At returns the element at row i, column j.
func (a Array) At(i, j int) float64 {
	return a.d.At(i, j)
}

// Data returns a row-major copy of the elements.
func (a Array) Data() []float64 {
	if a.d == nil {
		return []float64{}
	}
	raw := a.d.RawMatrix()
	out := make([]float64, 0, raw.Rows*raw.Cols)
	for i := 0; i < raw.Rows; i++ {
		out = append(out, raw.Data[i*raw.Stride:i*raw.Stride+raw.Cols]...)
	}
	return out
}

// Row returns a copy of row i.
func (a Array) Row(i int) []float64 {
	return mat.Row(nil, i, a.d)
}

// Clone returns a deep copy.
func (a Array) Clone() Array {
	if a.d == nil {
		return Array{}
	}
	return Array{d: mat.DenseCopyOf(a.d)}
}

// Equal reports whether both arrays have the same shape and bit-identical elements.
func (a Array) Equal(b Array) bool {
	if a.Rows() != b.Rows() || a.Cols() != b.Cols() {
		return false
	}
	if a.d == nil {
		return true
	}
	return mat.Equal(a.d, b.d)
}

// EqualApprox reports whether both arrays have the same shape and elements within tol.
func (a Array) EqualApprox(b Array, tol float64) bool {
	if a.Rows() != b.Rows() || a.Cols() != b.Cols() {
		return false
	}
	if a.d == nil {
		return true
	}
	return mat.EqualApprox(a.d, b.d, tol)
}

// String renders the array one row per line.
func (a Array) String() string {
	if a.d == nil {
		return "[]"
	}
	var sb strings.Builder
	sb.WriteString("[")
	for i := 0; i < a.Rows(); i++ {
		if i > 0 {
			sb.WriteString(" ")
		}
		fmt.Fprintf(&sb, "%v", a.Row(i))
		if i < a.Rows()-1 {
			sb.WriteString("\n")
		}
	}
	sb.WriteString("]")
	return sb.String()
}

// SelectRows returns a new array made of the given rows, in order.
func (a Array) SelectRows(idx []int) (Array, error) {
	cols := a.Cols()
	buf := make([]float64, 0, len(idx)*cols)
	for _, i := range idx {
		if i < 0 || i >= a.Rows() {
			return Array{}, errors.Errorf("ndarray: row %d out of range [0,%d)", i, a.Rows())
		}
		buf = append(buf, a.Row(i)...)
	}
	return New(len(idx), cols, buf)
}

// SliceRows returns a copy of rows [start, end).
func (a Array) SliceRows(start, end int) (Array, error) {
	if start < 0 || end > a.Rows() || start > end {
		return Array{}, errors.Errorf("ndarray: row slice [%d:%d] out of range for %d rows", start, end, a.Rows())
	}
	idx := make([]int, 0, end-start)
	for i := start; i < end; i++ {
		idx = append(idx, i)
	}
	return a.SelectRows(idx)
}
