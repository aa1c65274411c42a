// Copyright 2025 Dendrite ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package ndarray provides the dense float64 matrix used as the value type
// of computation graphs.
//
// Array has value semantics: operations return new arrays. Add, Sub and Mul
// broadcast a single-row operand over the rows of the other, which is how
// a bias row is added to a batch.
//
// Example:
//
//	x := ndarray.MustFromRows([][]float64{{1, 2}, {3, 4}})
//	w := ndarray.Column(0.5, -1)
//	y, err := x.Dot(w) // 2x1
package ndarray

import (
	"github.com/dendrite-ml/dendrite/internal/ndarray"
)

// Array is a dense row-major float64 matrix.
type Array = ndarray.Array

// ErrShape is returned (wrapped) when operand shapes are incompatible.
var ErrShape = ndarray.ErrShape

// New creates a rows x cols array from row-major data.
func New(rows, cols int, data []float64) (Array, error) {
	return ndarray.New(rows, cols, data)
}

// Zeros creates a rows x cols array of zeros.
func Zeros(rows, cols int) Array {
	return ndarray.Zeros(rows, cols)
}

// Full creates a rows x cols array filled with v.
func Full(rows, cols int, v float64) Array {
	return ndarray.Full(rows, cols, v)
}

// FromRows creates an array from equal-length rows.
func FromRows(rows [][]float64) (Array, error) {
	return ndarray.FromRows(rows)
}

// MustFromRows is like FromRows but panics on ragged input.
func MustFromRows(rows [][]float64) Array {
	return ndarray.MustFromRows(rows)
}

// Column creates an n x 1 array.
func Column(values ...float64) Array {
	return ndarray.Column(values...)
}
