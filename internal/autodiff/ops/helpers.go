package ops

import (
	"math"

	"github.com/pkg/errors"
)

// checkInputs returns the inputs of node idx, failing unless there are exactly want of them.
func checkInputs[T Value[T]](nodes []Node[T], idx, want int, name string) ([]int, error) {
	in := nodes[idx].inputs
	if len(in) != want {
		return nil, errors.Wrapf(ErrArity, "%s: node %d has %d inputs, want %d", name, idx, len(in), want)
	}
	return in, nil
}

// operands returns the outputs of a binary node's two inputs.
func operands[T Value[T]](nodes []Node[T], idx int, name string) (lhs, rhs T, err error) {
	in, err := checkInputs(nodes, idx, 2, name)
	if err != nil {
		return lhs, rhs, err
	}
	return nodes[in[0]].Output(), nodes[in[1]].Output(), nil
}

// reduceBroadcast reduces grad to the shape of an input that was broadcast
// across rows in the forward pass.
func reduceBroadcast[T Value[T]](grad, input T) T {
	if input.Rows() == 1 && grad.Rows() > 1 {
		return grad.SumRows()
	}
	return grad.Clone()
}

// sigmoid is the logistic function.
func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
