package ops

import "slices"

// Node is one entry of the graph arena.
//
// Nodes refer to each other by arena index only. Inputs are the producers
// this node reads; Upstream are the consumers that read this node.
type Node[T Value[T]] struct {
	isParam   bool
	inputs    []int
	upstream  []int
	value     Tensor[T]
	operation Operation[T]
}

// Val creates a leaf node holding value.
func Val[T Value[T]](value T) Node[T] {
	return Node[T]{
		value:     NewTensor(value),
		operation: DefaultValueOp[T]{},
	}
}

// Binary creates an operation node reading lhs and rhs.
func Binary[T Value[T]](lhs, rhs int, op Operation[T]) Node[T] {
	return Node[T]{
		inputs:    []int{lhs, rhs},
		value:     DefaultTensor[T](),
		operation: op,
	}
}

// Unary creates an operation node reading a single input.
func Unary[T Value[T]](input int, op Operation[T]) Node[T] {
	return Node[T]{
		inputs:    []int{input},
		value:     DefaultTensor[T](),
		operation: op,
	}
}

// Restore rebuilds a node from persisted fields.
func Restore[T Value[T]](isParam bool, inputs, upstream []int, value Tensor[T], op Operation[T]) Node[T] {
	return Node[T]{
		isParam:   isParam,
		inputs:    slices.Clone(inputs),
		upstream:  slices.Clone(upstream),
		value:     value,
		operation: op,
	}
}

// Clone returns a copy that shares no slices or values with n.
func (n Node[T]) Clone() Node[T] {
	return Node[T]{
		isParam:   n.isParam,
		inputs:    slices.Clone(n.inputs),
		upstream:  slices.Clone(n.upstream),
		value:     RestoreTensor(n.value.Value(), n.value.Grad()),
		operation: n.operation,
	}
}

// IsParam reports whether the node is a trainable parameter.
func (n Node[T]) IsParam() bool { return n.isParam }

// SetParam sets the parameter flag.
func (n *Node[T]) SetParam(v bool) { n.isParam = v }

// Inputs returns a copy of the producer indices.
func (n Node[T]) Inputs() []int { return slices.Clone(n.inputs) }

// Upstream returns a copy of the consumer indices.
func (n Node[T]) Upstream() []int { return slices.Clone(n.upstream) }

// NumInputs returns the number of producers.
func (n Node[T]) NumInputs() int { return len(n.inputs) }

// AddInput appends a producer edge.
func (n *Node[T]) AddInput(idx int) { n.inputs = append(n.inputs, idx) }

// AddUpstream appends a consumer edge.
func (n *Node[T]) AddUpstream(idx int) { n.upstream = append(n.upstream, idx) }

// Output returns a copy of the node value.
func (n Node[T]) Output() T { return n.value.Value() }

// Grad returns a copy of the node gradient.
func (n Node[T]) Grad() T { return n.value.Grad() }

// Tensor returns the value/gradient pair.
func (n Node[T]) Tensor() Tensor[T] { return n.value }

// Operation returns the node's operation.
func (n Node[T]) Operation() Operation[T] { return n.operation }

// SetOutput replaces the node value.
func (n *Node[T]) SetOutput(v T) { n.value.SetValue(v) }

// SetGradOutput replaces the node gradient.
func (n *Node[T]) SetGradOutput(g T) { n.value.SetGrad(g) }

// SetOperation replaces the node operation.
func (n *Node[T]) SetOperation(op Operation[T]) { n.operation = op }

// Forward evaluates the node's operation.
func (n Node[T]) Forward(nodes []Node[T], idx int) (T, error) {
	return n.operation.Forward(nodes, idx)
}

// Backward runs the node's backward rule.
func (n Node[T]) Backward(nodes []Node[T], idx int) error {
	return n.operation.Backward(nodes, idx)
}
