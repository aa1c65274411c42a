package ops

import "math"

// Scalar is a single float64 implementing Value. It behaves as a 1x1 matrix:
// Dot is ordinary multiplication and Transpose is the identity.
type Scalar float64

// Float returns s as a float64.
func (s Scalar) Float() float64 { return float64(s) }

func (s Scalar) Clone() Scalar { return s }
func (Scalar) Rows() int       { return 1 }
func (Scalar) Cols() int       { return 1 }
func (Scalar) Len() int        { return 1 }

func (s Scalar) Add(o Scalar) (Scalar, error) { return s + o, nil }
func (s Scalar) Sub(o Scalar) (Scalar, error) { return s - o, nil }
func (s Scalar) Mul(o Scalar) (Scalar, error) { return s * o, nil }
func (s Scalar) Dot(o Scalar) (Scalar, error) { return s * o, nil }
func (s Scalar) Transpose() Scalar            { return s }

func (s Scalar) Apply(f func(float64) float64) Scalar { return Scalar(f(float64(s))) }

func (s Scalar) Zip(o Scalar, f func(x, y float64) float64) (Scalar, error) {
	return Scalar(f(float64(s), float64(o))), nil
}

func (s Scalar) Scale(k float64) Scalar { return Scalar(float64(s) * k) }
func (s Scalar) Sum() float64           { return float64(s) }
func (s Scalar) SumRows() Scalar        { return s }

// SoftmaxRows of a single element is always 1.
func (s Scalar) SoftmaxRows() Scalar {
	if math.IsNaN(float64(s)) {
		return s
	}
	return 1
}

func (Scalar) Fill(v float64) Scalar      { return Scalar(v) }
func (Scalar) FromFloat(v float64) Scalar { return Scalar(v) }
