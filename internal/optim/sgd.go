package optim

import (
	"github.com/pkg/errors"

	"github.com/dendrite-ml/dendrite/internal/autodiff"
)

// SGD implements Stochastic Gradient Descent optimizer with optional momentum.
//
// Update rule without momentum:
//
//	param = param - lr * gradient
//
// Update rule with momentum:
//
//	velocity = momentum * velocity + gradient
//	param = param - lr * velocity
//
// Example:
//
//	optimizer := optim.NewSGD[ndarray.Array](optim.SGDConfig{
//	    LR:       0.01,
//	    Momentum: 0.9,
//	})
type SGD[T autodiff.Value[T]] struct {
	lr         float64
	momentum   float64
	velocities map[int]T
}

// SGDConfig holds configuration for SGD optimizer.
type SGDConfig struct {
	LR       float64 // Learning rate (default: 0.01)
	Momentum float64 // Momentum factor (default: 0.0, range: [0, 1))
}

// NewSGD creates a new SGD optimizer.
func NewSGD[T autodiff.Value[T]](config SGDConfig) *SGD[T] {
	if config.LR == 0 {
		config.LR = 0.01
	}

	return &SGD[T]{
		lr:         config.LR,
		momentum:   config.Momentum,
		velocities: make(map[int]T),
	}
}

// Step performs a single optimization step.
//
// Parameters without a gradient are skipped.
func (s *SGD[T]) Step(g *autodiff.Graph[T]) error {
	for _, idx := range g.Parameters() {
		value, grad, ok := gradient(g, idx)
		if !ok {
			continue
		}

		if s.momentum != 0 {
			var err error
			if grad, err = s.updateVelocity(idx, grad); err != nil {
				return errors.WithMessagef(err, "sgd: parameter %d", idx)
			}
		}

		updated, err := value.Sub(grad.Scale(s.lr))
		if err != nil {
			return errors.WithMessagef(err, "sgd: parameter %d", idx)
		}
		g.MutNodeOutput(idx, updated)
	}
	return nil
}

// updateVelocity computes velocity = momentum * velocity + grad and stores it.
// The velocity restarts from zero when the parameter changes shape.
func (s *SGD[T]) updateVelocity(idx int, grad T) (T, error) {
	velocity, exists := s.velocities[idx]
	if !exists || !sameShape(velocity, grad) {
		velocity = grad.Fill(0)
	}

	next, err := velocity.Scale(s.momentum).Zip(grad, func(vi, gi float64) float64 { return vi + gi })
	if err != nil {
		return next, err
	}
	s.velocities[idx] = next
	return next, nil
}

// GetLR returns the current learning rate.
func (s *SGD[T]) GetLR() float64 {
	return s.lr
}

// SetLR updates the learning rate.
func (s *SGD[T]) SetLR(lr float64) {
	s.lr = lr
}
