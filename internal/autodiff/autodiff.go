// Package autodiff implements reverse-mode automatic differentiation over an
// arena-allocated computation graph.
//
// Architecture:
//   - Arena: nodes live in one slice and refer to each other by index
//   - Strategy: every node carries an Operation with Forward/Backward rules
//   - Path: the forward pass records the executed nodes; Backward walks it in reverse
//   - Registry: operation names map back to operations, making graphs serializable
//
// Usage:
//
//	g := autodiff.New[ndarray.Array]()
//	g.Mul(x, w).Add(b).MSE(y)
//	g.AddParameter(1)
//	g.AddParameter(3)
//
//	if err := g.Forward(); err != nil {
//		return err
//	}
//	if err := g.Backward(); err != nil {
//		return err
//	}
//	gradW := g.Node(1).Grad()
//
// Graphs are append-only and must be trees during backward: a node read by
// more than one consumer makes Backward panic. A Graph is not safe for
// concurrent use.
package autodiff

import (
	"log/slog"

	"github.com/dendrite-ml/dendrite/internal/autodiff/ops"
)

// Re-exported element types.
type (
	// Value is the numeric contract of graph elements.
	Value[T any] = ops.Value[T]
	// Operation is the per-node forward/backward strategy.
	Operation[T ops.Value[T]] = ops.Operation[T]
	// Node is one entry of the graph arena.
	Node[T ops.Value[T]] = ops.Node[T]
	// Tensor is a value/gradient pair.
	Tensor[T ops.Value[T]] = ops.Tensor[T]
	// Scalar is the float64 element type.
	Scalar = ops.Scalar
)

// Graph is an append-only computation graph.
type Graph[T Value[T]] struct {
	nodes       []Node[T]
	path        []int // nodes executed by the last forward pass, in order
	currNodeIdx int
	variables   []int // leaves created by builders
	operations  []int // operation nodes created by builders
	registry    *Registry[T]
	logger      *slog.Logger
}

// Option configures a Graph.
type Option[T Value[T]] func(*Graph[T])

// WithLogger sets the logger used for debug tracing of forward and backward passes.
func WithLogger[T Value[T]](l *slog.Logger) Option[T] {
	return func(g *Graph[T]) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithOperations registers additional operations, replacing built-ins of the same name.
func WithOperations[T Value[T]](operations ...Operation[T]) Option[T] {
	return func(g *Graph[T]) {
		for _, op := range operations {
			g.registry.Register(op)
		}
	}
}

// New creates an empty graph with the built-in operations registered.
func New[T Value[T]](opts ...Option[T]) *Graph[T] {
	g := &Graph[T]{
		nodes:       make([]Node[T], 0, 16),
		currNodeIdx: -1,
		registry:    NewRegistry[T](),
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Len returns the number of nodes.
func (g *Graph[T]) Len() int { return len(g.nodes) }

// Node returns a copy of node idx. It panics if idx is out of range.
func (g *Graph[T]) Node(idx int) Node[T] { return g.nodes[idx].Clone() }

// Nodes returns copies of all nodes in arena order.
func (g *Graph[T]) Nodes() []Node[T] {
	out := make([]Node[T], len(g.nodes))
	for i := range g.nodes {
		out[i] = g.nodes[i].Clone()
	}
	return out
}

// CurrNodeIdx returns the index of the most recently appended node, or -1.
func (g *Graph[T]) CurrNodeIdx() int { return g.currNodeIdx }

// CurrNode returns a copy of the most recently appended node.
// It panics on an empty graph.
func (g *Graph[T]) CurrNode() Node[T] {
	if g.currNodeIdx < 0 {
		panic("autodiff: CurrNode on empty graph")
	}
	return g.Node(g.currNodeIdx)
}

// Variables returns the indices of the leaves created by builders.
func (g *Graph[T]) Variables() []int { return clone(g.variables) }

// Operations returns the indices of the operation nodes created by builders.
func (g *Graph[T]) Operations() []int { return clone(g.operations) }

// Path returns the nodes executed by the last forward pass.
func (g *Graph[T]) Path() []int { return clone(g.path) }

// Parameters returns the indices of parameter nodes in ascending order.
func (g *Graph[T]) Parameters() []int {
	var params []int
	for i := range g.nodes {
		if g.nodes[i].IsParam() {
			params = append(params, i)
		}
	}
	return params
}

// AddParameter marks node idx as a trainable parameter.
func (g *Graph[T]) AddParameter(idx int) {
	g.nodes[idx].SetParam(true)
}

// MutNodeOutput replaces the value of node idx.
func (g *Graph[T]) MutNodeOutput(idx int, v T) {
	g.nodes[idx].SetOutput(v)
}

// MutNodeOperation replaces the operation of node idx.
func (g *Graph[T]) MutNodeOperation(idx int, op Operation[T]) {
	g.nodes[idx].SetOperation(op)
}

// Register adds op to the graph's registry.
func (g *Graph[T]) Register(op Operation[T]) { g.registry.Register(op) }

// Registry returns the graph's operation registry.
func (g *Graph[T]) Registry() *Registry[T] { return g.registry }

func clone(s []int) []int {
	if s == nil {
		return nil
	}
	return append([]int(nil), s...)
}
