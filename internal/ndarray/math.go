package ndarray

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/dendrite-ml/dendrite/internal/parallel"
)

// parallelism drives the row loops of the elementwise kernels.
var parallelism = parallel.DefaultConfig()

// mapRows builds a rows x cols array whose row i is filled by fill.
func mapRows(rows, cols int, fill func(i int, dst []float64)) Array {
	out := mat.NewDense(rows, cols, nil)
	raw := out.RawMatrix()
	parallel.ForRows(rows, cols, func(i int) {
		fill(i, raw.Data[i*raw.Stride:i*raw.Stride+cols])
	}, parallelism)
	return Array{d: out}
}

// Add returns a + b. When one operand has a single row and the same number
// of columns as the other, that row is broadcast over every row.
func (a Array) Add(b Array) (Array, error) {
	return a.broadcast(b, "add", func(x, y float64) float64 { return x + y })
}

// Sub returns a - b with the same broadcasting rule as Add.
func (a Array) Sub(b Array) (Array, error) {
	return a.broadcast(b, "sub", func(x, y float64) float64 { return x - y })
}

// Mul returns the elementwise (Hadamard) product with the same broadcasting rule as Add.
func (a Array) Mul(b Array) (Array, error) {
	return a.broadcast(b, "mul", func(x, y float64) float64 { return x * y })
}

// Zip combines two equally shaped arrays element by element.
func (a Array) Zip(b Array, f func(x, y float64) float64) (Array, error) {
	if a.Rows() != b.Rows() || a.Cols() != b.Cols() {
		return Array{}, errors.Wrapf(ErrShape, "zip: [%d,%d] vs [%d,%d]", a.Rows(), a.Cols(), b.Rows(), b.Cols())
	}
	if a.d == nil {
		return Array{}, nil
	}
	return mapRows(a.Rows(), a.Cols(), func(i int, dst []float64) {
		for j := range dst {
			dst[j] = f(a.d.At(i, j), b.d.At(i, j))
		}
	}), nil
}

// Dot returns the matrix product a · b.
func (a Array) Dot(b Array) (Array, error) {
	if a.Cols() != b.Rows() {
		return Array{}, errors.Wrapf(ErrShape, "dot: [%d,%d] @ [%d,%d]", a.Rows(), a.Cols(), b.Rows(), b.Cols())
	}
	if a.d == nil || b.d == nil {
		return Array{}, errors.Wrap(ErrShape, "dot: empty operand")
	}
	var out mat.Dense
	out.Mul(a.d, b.d)
	return Array{d: &out}, nil
}

// Transpose returns aᵗ.
func (a Array) Transpose() Array {
	if a.d == nil {
		return Array{}
	}
	return Array{d: mat.DenseCopyOf(a.d.T())}
}

// Apply maps f over every element.
func (a Array) Apply(f func(float64) float64) Array {
	if a.d == nil {
		return Array{}
	}
	return mapRows(a.Rows(), a.Cols(), func(i int, dst []float64) {
		for j := range dst {
			dst[j] = f(a.d.At(i, j))
		}
	})
}

// Scale returns s * a.
func (a Array) Scale(s float64) Array {
	if a.d == nil {
		return Array{}
	}
	var out mat.Dense
	out.Scale(s, a.d)
	return Array{d: &out}
}

// Fill returns an array shaped like a with every element set to v.
func (a Array) Fill(v float64) Array {
	return Full(a.Rows(), a.Cols(), v)
}

// FromFloat returns the 1x1 array holding v.
func (a Array) FromFloat(v float64) Array {
	return Full(1, 1, v)
}

// Sum returns the sum of all elements.
func (a Array) Sum() float64 {
	if a.d == nil {
		return 0
	}
	return mat.Sum(a.d)
}

// Mean returns the arithmetic mean of all elements, or 0 for an empty array.
func (a Array) Mean() float64 {
	if a.d == nil {
		return 0
	}
	return a.Sum() / float64(a.Len())
}

// SumRows reduces along the row axis, returning a 1 x cols array of column sums.
func (a Array) SumRows() Array {
	if a.d == nil {
		return Array{}
	}
	cols := a.Cols()
	buf := make([]float64, cols)
	for j := 0; j < cols; j++ {
		buf[j] = mat.Sum(a.d.ColView(j))
	}
	return Array{d: mat.NewDense(1, cols, buf)}
}

// SoftmaxRows applies a numerically stable softmax to each row.
func (a Array) SoftmaxRows() Array {
	if a.d == nil {
		return Array{}
	}
	return mapRows(a.Rows(), a.Cols(), func(i int, dst []float64) {
		maxV := math.Inf(-1)
		for j := range dst {
			maxV = math.Max(maxV, a.d.At(i, j))
		}
		var sum float64
		for j := range dst {
			dst[j] = math.Exp(a.d.At(i, j) - maxV)
			sum += dst[j]
		}
		for j := range dst {
			dst[j] /= sum
		}
	})
}

// broadcast applies f elementwise, broadcasting a single-row operand.
func (a Array) broadcast(b Array, op string, f func(x, y float64) float64) (Array, error) {
	ar, ac := a.Shape()
	br, bc := b.Shape()
	switch {
	case ar == br && ac == bc:
		return a.Zip(b, f)
	case ac == bc && br == 1 && ar > 1:
		return mapRows(ar, ac, func(i int, dst []float64) {
			for j := range dst {
				dst[j] = f(a.d.At(i, j), b.d.At(0, j))
			}
		}), nil
	case ac == bc && ar == 1 && br > 1:
		return mapRows(br, bc, func(i int, dst []float64) {
			for j := range dst {
				dst[j] = f(a.d.At(0, j), b.d.At(i, j))
			}
		}), nil
	default:
		return Array{}, errors.Wrapf(ErrShape, "%s: [%d,%d] vs [%d,%d]", op, ar, ac, br, bc)
	}
}
