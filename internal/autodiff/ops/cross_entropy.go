package ops

import (
	"math"

	"github.com/pkg/errors"
)

// probEps keeps logarithms finite for saturated probabilities.
const probEps = 1e-7

func clampProb(p float64) float64 {
	return math.Min(math.Max(p, probEps), 1-probEps)
}

// BinaryCrossEntropyOp is the binary cross-entropy loss.
//
// Inputs are (prediction, target) with predictions in (0, 1), typically the
// output of a SigmoidOp.
//
// Forward:
//
//	L = -Σ (y·ln p + (1-y)·ln(1-p))
//
// with p clamped to [1e-7, 1-1e-7].
//
// Backward:
//
//	∂L/∂p = (p - y) / (p·(1-p))
//
// Chained through sigmoid this yields the familiar ∂L/∂z = p - y on the
// logits. The target input receives no gradient.
type BinaryCrossEntropyOp[T Value[T]] struct{}

// Name returns "BinaryCrossEntropy".
func (BinaryCrossEntropyOp[T]) Name() string { return NameBinaryCrossEntropy }

// Forward computes the summed binary cross-entropy as a 1x1 value.
func (BinaryCrossEntropyOp[T]) Forward(nodes []Node[T], idx int) (T, error) {
	pred, target, err := operands(nodes, idx, NameBinaryCrossEntropy)
	if err != nil {
		return pred, err
	}

	terms, err := pred.Zip(target, func(p, y float64) float64 {
		p = clampProb(p)
		return y*math.Log(p) + (1-y)*math.Log(1-p)
	})
	if err != nil {
		return pred, errors.WithMessage(err, "BinaryCrossEntropy forward")
	}
	return pred.FromFloat(-terms.Sum()), nil
}

// Backward seeds ∂L/∂p onto the prediction input.
func (BinaryCrossEntropyOp[T]) Backward(nodes []Node[T], idx int) error {
	pred, target, err := operands(nodes, idx, NameBinaryCrossEntropy)
	if err != nil {
		return err
	}

	grad, err := pred.Zip(target, func(p, y float64) float64 {
		p = clampProb(p)
		return (p - y) / (p * (1 - p))
	})
	if err != nil {
		return errors.WithMessage(err, "BinaryCrossEntropy backward")
	}

	in := nodes[idx].inputs
	nodes[in[0]].SetGradOutput(grad)
	nodes[idx].SetGradOutput(nodes[idx].Output().Fill(1))
	return nil
}

// CategoricalCrossEntropyOp is the softmax cross-entropy loss over rows.
//
// Inputs are (logits, one-hot targets) of the same shape [batch, classes].
//
// Forward:
//
//	L = -Σ y·ln(softmax(z)) / batch
//
// Backward:
//
//	∂L/∂z = (softmax(z) - y) / batch
type CategoricalCrossEntropyOp[T Value[T]] struct{}

// Name returns "CategoricalCrossEntropy".
func (CategoricalCrossEntropyOp[T]) Name() string { return NameCategoricalCrossEntropy }

// Forward computes the mean categorical cross-entropy as a 1x1 value.
func (CategoricalCrossEntropyOp[T]) Forward(nodes []Node[T], idx int) (T, error) {
	logits, target, err := operands(nodes, idx, NameCategoricalCrossEntropy)
	if err != nil {
		return logits, err
	}

	terms, err := logits.SoftmaxRows().Zip(target, func(s, y float64) float64 {
		return y * math.Log(math.Max(s, probEps))
	})
	if err != nil {
		return logits, errors.WithMessage(err, "CategoricalCrossEntropy forward")
	}
	return logits.FromFloat(-terms.Sum() / float64(logits.Rows())), nil
}

// Backward seeds (softmax - y) / batch onto the logits input.
func (CategoricalCrossEntropyOp[T]) Backward(nodes []Node[T], idx int) error {
	logits, target, err := operands(nodes, idx, NameCategoricalCrossEntropy)
	if err != nil {
		return err
	}

	diff, err := logits.SoftmaxRows().Sub(target)
	if err != nil {
		return errors.WithMessage(err, "CategoricalCrossEntropy backward")
	}

	in := nodes[idx].inputs
	nodes[in[0]].SetGradOutput(diff.Scale(1 / float64(logits.Rows())))
	nodes[idx].SetGradOutput(nodes[idx].Output().Fill(1))
	return nil
}
