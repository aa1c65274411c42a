package ops

import (
	"math"

	"github.com/pkg/errors"
)

// TanhOp represents the hyperbolic tangent activation.
type TanhOp[T Value[T]] struct{}

// Name returns "Tanh".
func (TanhOp[T]) Name() string { return NameTanh }

// Forward applies tanh elementwise to the single input.
func (TanhOp[T]) Forward(nodes []Node[T], idx int) (T, error) {
	in, err := checkInputs(nodes, idx, 1, NameTanh)
	if err != nil {
		var zero T
		return zero, err
	}
	return nodes[in[0]].Output().Apply(math.Tanh), nil
}

// Backward computes the gradient for tanh.
//
// d(tanh(x))/dx = 1 - tanh²(x), so
// grad_input = grad_output * (1 - output²).
func (TanhOp[T]) Backward(nodes []Node[T], idx int) error {
	in, err := checkInputs(nodes, idx, 1, NameTanh)
	if err != nil {
		return err
	}

	deriv := nodes[idx].Output().Apply(func(t float64) float64 { return 1 - t*t })
	grad, err := nodes[idx].Grad().Mul(deriv)
	if err != nil {
		return errors.WithMessage(err, "Tanh backward")
	}
	nodes[in[0]].SetGradOutput(grad)
	return nil
}
