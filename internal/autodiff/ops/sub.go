package ops

import "github.com/pkg/errors"

// SubOp represents subtraction: output = lhs - rhs.
//
// Backward pass follows the dot-product contraction used by MulOp rather
// than the elementwise subtraction rule:
//   - grad_lhs = lhsᵗ · outputGrad
//   - grad_rhs = outputGradᵗ · rhs
//
// Both results are cols x cols, so they match the input shapes only for
// square operands. A broadcast rhs row makes Backward fail with a shape error.
type SubOp[T Value[T]] struct{}

// Name returns "Sub".
func (SubOp[T]) Name() string { return NameSub }

// Forward computes lhs - rhs.
func (SubOp[T]) Forward(nodes []Node[T], idx int) (T, error) {
	lhs, rhs, err := operands(nodes, idx, NameSub)
	if err != nil {
		return lhs, err
	}
	return lhs.Sub(rhs)
}

// Backward computes input gradients for subtraction.
func (SubOp[T]) Backward(nodes []Node[T], idx int) error {
	lhs, rhs, err := operands(nodes, idx, NameSub)
	if err != nil {
		return err
	}

	upstream := nodes[idx].Grad()
	lhsGrad, err := lhs.Transpose().Dot(upstream)
	if err != nil {
		return errors.WithMessage(err, "Sub backward lhs")
	}
	rhsGrad, err := upstream.Transpose().Dot(rhs)
	if err != nil {
		return errors.WithMessage(err, "Sub backward rhs")
	}

	in := nodes[idx].inputs
	nodes[in[0]].SetGradOutput(lhsGrad)
	nodes[in[1]].SetGradOutput(rhsGrad)
	return nil
}
