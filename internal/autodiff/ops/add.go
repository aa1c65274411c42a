package ops

// AddOp represents addition: output = lhs + rhs.
//
// Backward pass:
//   - d(a+b)/da = 1, so grad_a = outputGrad
//   - d(a+b)/db = 1, so grad_b = outputGrad
//
// An input that was broadcast across rows in the forward pass receives the
// column-wise sum of the output gradient.
type AddOp[T Value[T]] struct{}

// Name returns "Add".
func (AddOp[T]) Name() string { return NameAdd }

// Forward computes lhs + rhs.
func (AddOp[T]) Forward(nodes []Node[T], idx int) (T, error) {
	lhs, rhs, err := operands(nodes, idx, NameAdd)
	if err != nil {
		return lhs, err
	}
	return lhs.Add(rhs)
}

// Backward passes the output gradient through to both inputs.
func (AddOp[T]) Backward(nodes []Node[T], idx int) error {
	in, err := checkInputs(nodes, idx, 2, NameAdd)
	if err != nil {
		return err
	}

	upstream := nodes[idx].Grad()
	for _, i := range in {
		nodes[i].SetGradOutput(reduceBroadcast(upstream, nodes[i].Output()))
	}
	return nil
}
