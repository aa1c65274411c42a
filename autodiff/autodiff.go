// Copyright 2025 Dendrite ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides reverse-mode automatic differentiation over a
// computation graph.
//
// A Graph is an arena of nodes. Leaves hold values; operation nodes hold an
// Operation that computes their output from their inputs and pushes
// gradients back to them. Forward records the execution path and Backward
// walks it in reverse.
//
// Example:
//
//	import (
//	    "github.com/dendrite-ml/dendrite/autodiff"
//	    "github.com/dendrite-ml/dendrite/ndarray"
//	)
//
//	func main() {
//	    x := ndarray.MustFromRows([][]float64{{1, 2, 3}, {4, 5, 6}})
//	    w := ndarray.Column(0.1, 0.2, 0.3)
//	    b := ndarray.MustFromRows([][]float64{{0.5}})
//	    y := ndarray.Column(10, 20)
//
//	    g := autodiff.New[ndarray.Array]()
//	    g.Mul(x, w).Add(b).MSE(y)
//	    g.AddParameter(1)
//
//	    _ = g.Forward()
//	    _ = g.Backward()
//	    gradW := g.Node(1).Grad()
//	}
package autodiff

import (
	"log/slog"

	"github.com/dendrite-ml/dendrite/internal/autodiff"
	"github.com/dendrite-ml/dendrite/internal/autodiff/ops"
)

// Value is the numeric contract graph elements implement.
type Value[T any] = autodiff.Value[T]

// Graph is an append-only computation graph.
type Graph[T Value[T]] = autodiff.Graph[T]

// Node is one entry of a graph.
type Node[T Value[T]] = autodiff.Node[T]

// Tensor is a value/gradient pair.
type Tensor[T Value[T]] = autodiff.Tensor[T]

// Operation is the forward/backward strategy of a node.
type Operation[T Value[T]] = autodiff.Operation[T]

// Registry maps operation names to operations.
type Registry[T Value[T]] = autodiff.Registry[T]

// Option configures a Graph.
type Option[T Value[T]] = autodiff.Option[T]

// Scalar is a float64 graph element.
type Scalar = autodiff.Scalar

// ErrUnknownOperation is returned by Load for an operation name missing
// from the registry.
var ErrUnknownOperation = autodiff.ErrUnknownOperation

// New creates an empty graph.
func New[T Value[T]](opts ...Option[T]) *Graph[T] {
	return autodiff.New[T](opts...)
}

// Load restores a graph saved with Graph.Save. Custom operations must be
// passed with WithOperations.
//
// Example:
//
//	g, err := autodiff.Load[ndarray.Array]("runs/linear",
//	    autodiff.WithOperations[ndarray.Array](MyOp{}))
func Load[T Value[T]](dir string, opts ...Option[T]) (*Graph[T], error) {
	return autodiff.Load[T](dir, opts...)
}

// NewRegistry returns a registry holding the built-in operations.
func NewRegistry[T Value[T]]() *Registry[T] {
	return autodiff.NewRegistry[T]()
}

// WithOperations registers custom operations on a new or loaded graph.
func WithOperations[T Value[T]](operations ...Operation[T]) Option[T] {
	return autodiff.WithOperations[T](operations...)
}

// WithLogger sets the logger used to trace forward and backward passes.
func WithLogger[T Value[T]](l *slog.Logger) Option[T] {
	return autodiff.WithLogger[T](l)
}

// Built-in operations, for graphs built with Graph.Binary or Graph.Function.
type (
	AddOp[T Value[T]]                     = ops.AddOp[T]
	SubOp[T Value[T]]                     = ops.SubOp[T]
	MulOp[T Value[T]]                     = ops.MulOp[T]
	SigmoidOp[T Value[T]]                 = ops.SigmoidOp[T]
	TanhOp[T Value[T]]                    = ops.TanhOp[T]
	MSEOp[T Value[T]]                     = ops.MSEOp[T]
	BinaryCrossEntropyOp[T Value[T]]      = ops.BinaryCrossEntropyOp[T]
	CategoricalCrossEntropyOp[T Value[T]] = ops.CategoricalCrossEntropyOp[T]
	DefaultValueOp[T Value[T]]            = ops.DefaultValueOp[T]
	DefaultLossOp[T Value[T]]             = ops.DefaultLossOp[T]
)
