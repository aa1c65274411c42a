package ops

// DefaultValueOp marks leaf nodes. It is never executed by a forward pass,
// since leaves have no inputs, and its backward rule does nothing.
type DefaultValueOp[T Value[T]] struct{}

// Name returns "DefaultValue".
func (DefaultValueOp[T]) Name() string { return NameDefaultValue }

// Forward returns the node's current value.
func (DefaultValueOp[T]) Forward(nodes []Node[T], idx int) (T, error) {
	return nodes[idx].Output(), nil
}

// Backward is a no-op.
func (DefaultValueOp[T]) Backward([]Node[T], int) error { return nil }

// DefaultLossOp is a placeholder loss that passes its single input through.
// Its backward pass sets both its own gradient and its input's gradient to
// its output.
type DefaultLossOp[T Value[T]] struct{}

// Name returns "DefaultLossFunction".
func (DefaultLossOp[T]) Name() string { return NameDefaultLossFunction }

// Forward returns the input value unchanged.
func (DefaultLossOp[T]) Forward(nodes []Node[T], idx int) (T, error) {
	in, err := checkInputs(nodes, idx, 1, NameDefaultLossFunction)
	if err != nil {
		var zero T
		return zero, err
	}
	return nodes[in[0]].Output(), nil
}

// Backward copies the node output into its own gradient and its input's.
func (DefaultLossOp[T]) Backward(nodes []Node[T], idx int) error {
	in, err := checkInputs(nodes, idx, 1, NameDefaultLossFunction)
	if err != nil {
		return err
	}

	out := nodes[idx].Output()
	nodes[idx].SetGradOutput(out.Clone())
	nodes[in[0]].SetGradOutput(out)
	return nil
}
