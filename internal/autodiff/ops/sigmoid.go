package ops

import "github.com/pkg/errors"

// SigmoidOp represents the sigmoid activation: σ(x) = 1 / (1 + exp(-x)).
type SigmoidOp[T Value[T]] struct{}

// Name returns "Sigmoid".
func (SigmoidOp[T]) Name() string { return NameSigmoid }

// Forward applies σ elementwise to the single input.
func (SigmoidOp[T]) Forward(nodes []Node[T], idx int) (T, error) {
	in, err := checkInputs(nodes, idx, 1, NameSigmoid)
	if err != nil {
		var zero T
		return zero, err
	}
	return nodes[in[0]].Output().Apply(sigmoid), nil
}

// Backward computes the gradient for sigmoid.
//
// For σ(x) = 1 / (1 + exp(-x)):
// dσ/dx = σ(x) * (1 - σ(x))
//
// The node output already holds σ(x), so:
// grad_input = grad_output * output * (1 - output).
func (SigmoidOp[T]) Backward(nodes []Node[T], idx int) error {
	in, err := checkInputs(nodes, idx, 1, NameSigmoid)
	if err != nil {
		return err
	}

	deriv := nodes[idx].Output().Apply(func(s float64) float64 { return s * (1 - s) })
	grad, err := nodes[idx].Grad().Mul(deriv)
	if err != nil {
		return errors.WithMessage(err, "Sigmoid backward")
	}
	nodes[in[0]].SetGradOutput(grad)
	return nil
}
