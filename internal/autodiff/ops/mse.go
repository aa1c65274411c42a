package ops

import "github.com/pkg/errors"

// MSEOp is the mean squared error loss.
//
// Inputs are (prediction, target).
//
// Forward:
//
//	L = mean((y - ŷ)²)
//
// Backward seeds ŷ - y onto both inputs. The 2/n factor of the exact
// derivative is left to the learning rate, so ŷ - y is the gradient of
// ½·Σ(y - ŷ)².
type MSEOp[T Value[T]] struct{}

// Name returns "MSE".
func (MSEOp[T]) Name() string { return NameMSE }

// Forward computes the mean squared error as a 1x1 value.
func (MSEOp[T]) Forward(nodes []Node[T], idx int) (T, error) {
	pred, target, err := operands(nodes, idx, NameMSE)
	if err != nil {
		return pred, err
	}

	sq, err := target.Zip(pred, func(y, p float64) float64 {
		d := y - p
		return d * d
	})
	if err != nil {
		return pred, errors.WithMessage(err, "MSE forward")
	}
	return pred.FromFloat(sq.Sum() / float64(sq.Len())), nil
}

// Backward seeds ŷ - y onto both inputs.
func (MSEOp[T]) Backward(nodes []Node[T], idx int) error {
	pred, target, err := operands(nodes, idx, NameMSE)
	if err != nil {
		return err
	}

	grad, err := pred.Sub(target)
	if err != nil {
		return errors.WithMessage(err, "MSE backward")
	}

	in := nodes[idx].inputs
	nodes[in[0]].SetGradOutput(grad)
	nodes[in[1]].SetGradOutput(grad.Clone())
	nodes[idx].SetGradOutput(nodes[idx].Output().Fill(1))
	return nil
}
