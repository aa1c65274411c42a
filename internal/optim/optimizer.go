// Package optim implements gradient-based optimizers over computation graphs.
//
// This package provides:
//   - Optimizer interface: Base interface for all optimizers
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation
//
// Optimizers read the gradients left on parameter nodes by Graph.Backward
// and write updated values back with Graph.MutNodeOutput. Per-parameter
// state is keyed by node index.
//
// Example usage:
//
//	optimizer := optim.NewAdam[ndarray.Array](optim.AdamConfig{LR: 0.01})
//
//	for range epochs {
//	    if err := g.Forward(); err != nil {
//	        return err
//	    }
//	    if err := g.Backward(); err != nil {
//	        return err
//	    }
//	    if err := optimizer.Step(g); err != nil {
//	        return err
//	    }
//	}
package optim

import (
	"github.com/dendrite-ml/dendrite/internal/autodiff"
)

// Optimizer is the base interface for all optimization algorithms.
type Optimizer[T autodiff.Value[T]] interface {
	// Step applies one update to every parameter of g using the gradients
	// from the last backward pass.
	Step(g *autodiff.Graph[T]) error

	// GetLR returns the current learning rate.
	GetLR() float64

	// SetLR updates the learning rate, e.g. for scheduling.
	SetLR(lr float64)
}

// gradient returns the gradient of parameter idx, or false if it has none
// of the parameter's shape (the parameter was not reached by backward).
func gradient[T autodiff.Value[T]](g *autodiff.Graph[T], idx int) (value, grad T, ok bool) {
	n := g.Node(idx)
	value, grad = n.Output(), n.Grad()
	if grad.Len() == 0 || grad.Rows() != value.Rows() || grad.Cols() != value.Cols() {
		return value, grad, false
	}
	return value, grad, true
}

func sameShape[T autodiff.Value[T]](a, b T) bool {
	return a.Rows() == b.Rows() && a.Cols() == b.Cols()
}
