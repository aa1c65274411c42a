package autodiff

import (
	"fmt"

	"github.com/dendrite-ml/dendrite/internal/autodiff/ops"
)

// Binary appends up to two leaves holding operands, then an op node reading
// the two most recent nodes.
//
// With no operands the op chains onto the two nodes created last, typically
// a previous operation and a leaf. It panics if fewer than two nodes are
// available or more than two operands are given.
func (g *Graph[T]) Binary(op Operation[T], operands ...T) *Graph[T] {
	if len(operands) > 2 {
		panic(fmt.Sprintf("autodiff: %s takes at most 2 operands, got %d", op.Name(), len(operands)))
	}
	for _, v := range operands {
		g.leaf(v)
	}
	if g.currNodeIdx < 1 {
		panic(fmt.Sprintf("autodiff: %s needs two nodes, graph has %d", op.Name(), len(g.nodes)))
	}

	lhs, rhs := g.currNodeIdx-1, g.currNodeIdx
	g.push(ops.Binary(lhs, rhs, op), lhs, rhs)
	return g
}

// Unary appends a leaf holding rhs and an op node reading the previous node
// and that leaf.
func (g *Graph[T]) Unary(rhs T, op Operation[T]) *Graph[T] {
	return g.Binary(op, rhs)
}

// Function appends an op node reading only the most recent node.
// It panics on an empty graph.
func (g *Graph[T]) Function(op Operation[T]) *Graph[T] {
	if g.currNodeIdx < 0 {
		panic(fmt.Sprintf("autodiff: %s on empty graph", op.Name()))
	}

	in := g.currNodeIdx
	g.push(ops.Unary(in, op), in)
	return g
}

// Add appends an addition of two fresh leaves, or of the current node and one leaf.
func (g *Graph[T]) Add(inputs ...T) *Graph[T] {
	return g.arith(ops.AddOp[T]{}, inputs)
}

// Sub appends a subtraction of two fresh leaves, or of the current node and one leaf.
func (g *Graph[T]) Sub(inputs ...T) *Graph[T] {
	return g.arith(ops.SubOp[T]{}, inputs)
}

// Mul appends a matrix product of two fresh leaves, or of the current node and one leaf.
func (g *Graph[T]) Mul(inputs ...T) *Graph[T] {
	return g.arith(ops.MulOp[T]{}, inputs)
}

// Sigmoid applies the sigmoid activation to the current node.
func (g *Graph[T]) Sigmoid() *Graph[T] { return g.Function(ops.SigmoidOp[T]{}) }

// Tanh applies tanh to the current node.
func (g *Graph[T]) Tanh() *Graph[T] { return g.Function(ops.TanhOp[T]{}) }

// MSE appends a mean squared error against target y.
func (g *Graph[T]) MSE(y T) *Graph[T] { return g.Unary(y, ops.MSEOp[T]{}) }

// BCE appends a binary cross-entropy against target y.
func (g *Graph[T]) BCE(y T) *Graph[T] { return g.Unary(y, ops.BinaryCrossEntropyOp[T]{}) }

// CCE appends a softmax categorical cross-entropy against one-hot target y.
func (g *Graph[T]) CCE(y T) *Graph[T] { return g.Unary(y, ops.CategoricalCrossEntropyOp[T]{}) }

// Default appends the identity placeholder loss.
func (g *Graph[T]) Default() *Graph[T] { return g.Function(ops.DefaultLossOp[T]{}) }

func (g *Graph[T]) arith(op Operation[T], inputs []T) *Graph[T] {
	switch len(inputs) {
	case 2:
		return g.Binary(op, inputs[0], inputs[1])
	case 1:
		return g.Unary(inputs[0], op)
	default:
		panic(fmt.Sprintf("autodiff: %s takes 1 or 2 inputs, got %d", op.Name(), len(inputs)))
	}
}

// leaf appends a value node.
func (g *Graph[T]) leaf(v T) {
	g.nodes = append(g.nodes, ops.Val(v))
	g.currNodeIdx = len(g.nodes) - 1
	g.variables = append(g.variables, g.currNodeIdx)
}

// push appends an operation node and registers it as consumer of its inputs.
func (g *Graph[T]) push(n Node[T], inputs ...int) {
	g.nodes = append(g.nodes, n)
	g.currNodeIdx = len(g.nodes) - 1
	g.operations = append(g.operations, g.currNodeIdx)
	for _, in := range inputs {
		g.nodes[in].AddUpstream(g.currNodeIdx)
	}
}
