package ops

import "github.com/pkg/errors"

// MulOp represents a matrix multiplication: output = lhs · rhs.
// For scalar values the product degenerates to ordinary multiplication.
//
// Backward pass:
//   - d(A·B)/dA = outputGrad · Bᵗ
//   - d(A·B)/dB = Aᵗ · outputGrad
type MulOp[T Value[T]] struct{}

// Name returns "Mul".
func (MulOp[T]) Name() string { return NameMul }

// Forward computes lhs · rhs.
func (MulOp[T]) Forward(nodes []Node[T], idx int) (T, error) {
	lhs, rhs, err := operands(nodes, idx, NameMul)
	if err != nil {
		return lhs, err
	}
	return lhs.Dot(rhs)
}

// Backward computes input gradients for matrix multiplication.
func (MulOp[T]) Backward(nodes []Node[T], idx int) error {
	in, err := checkInputs(nodes, idx, 2, NameMul)
	if err != nil {
		return err
	}

	upstream := nodes[idx].Grad()
	lhs := nodes[in[0]].Output()
	rhs := nodes[in[1]].Output()

	// grad_lhs = upstream · rhsᵗ
	gradLHS, err := upstream.Dot(rhs.Transpose())
	if err != nil {
		return errors.WithMessage(err, "Mul backward lhs")
	}

	// grad_rhs = lhsᵗ · upstream
	gradRHS, err := lhs.Transpose().Dot(upstream)
	if err != nil {
		return errors.WithMessage(err, "Mul backward rhs")
	}

	nodes[in[0]].SetGradOutput(gradLHS)
	nodes[in[1]].SetGradOutput(gradRHS)
	return nil
}
