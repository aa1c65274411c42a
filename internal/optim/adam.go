package optim

import (
	"math"

	"github.com/pkg/errors"

	"github.com/dendrite-ml/dendrite/internal/autodiff"
)

// Adam implements the Adam (Adaptive Moment Estimation) optimizer.
//
// Update rule:
//
//	m_t = beta1 * m_{t-1} + (1-beta1) * gradient       // First moment
//	v_t = beta2 * v_{t-1} + (1-beta2) * gradient²      // Second moment
//	m_hat = m_t / (1 - beta1^t)                        // Bias correction
//	v_hat = v_t / (1 - beta2^t)                        // Bias correction
//	param = param - lr * m_hat / (sqrt(v_hat) + eps)  // Parameter update
//
// Reference: "Adam: A Method for Stochastic Optimization" (Kingma & Ba, 2014)
type Adam[T autodiff.Value[T]] struct {
	lr    float64
	beta1 float64
	beta2 float64
	eps   float64
	t     int       // Timestep for bias correction
	m     map[int]T // First moment estimates
	v     map[int]T // Second moment estimates
}

// AdamConfig holds configuration for Adam optimizer.
type AdamConfig struct {
	LR    float64    // Learning rate (default: 0.001)
	Betas [2]float64 // Coefficients for computing running averages (default: [0.9, 0.999])
	Eps   float64    // Term for numerical stability (default: 1e-8)
}

// NewAdam creates a new Adam optimizer.
//
// Default hyperparameters:
//   - LR: 0.001
//   - Beta1: 0.9
//   - Beta2: 0.999
//   - Eps: 1e-8
func NewAdam[T autodiff.Value[T]](config AdamConfig) *Adam[T] {
	if config.LR == 0 {
		config.LR = 0.001
	}
	if config.Betas[0] == 0 {
		config.Betas[0] = 0.9
	}
	if config.Betas[1] == 0 {
		config.Betas[1] = 0.999
	}
	if config.Eps == 0 {
		config.Eps = 1e-8
	}

	return &Adam[T]{
		lr:    config.LR,
		beta1: config.Betas[0],
		beta2: config.Betas[1],
		eps:   config.Eps,
		m:     make(map[int]T),
		v:     make(map[int]T),
	}
}

// Step performs a single optimization step using Adam algorithm.
//
// Parameters without a gradient are skipped.
func (a *Adam[T]) Step(g *autodiff.Graph[T]) error {
	a.t++

	biasCorrection1 := 1.0 - math.Pow(a.beta1, float64(a.t))
	biasCorrection2 := 1.0 - math.Pow(a.beta2, float64(a.t))

	for _, idx := range g.Parameters() {
		value, grad, ok := gradient(g, idx)
		if !ok {
			continue
		}

		m, exists := a.m[idx]
		if !exists || !sameShape(m, grad) {
			m = grad.Fill(0)
		}
		v, exists := a.v[idx]
		if !exists || !sameShape(v, grad) {
			v = grad.Fill(0)
		}

		m, err := m.Zip(grad, func(mi, gi float64) float64 { return a.beta1*mi + (1-a.beta1)*gi })
		if err != nil {
			return errors.WithMessagef(err, "adam: parameter %d", idx)
		}
		v, err = v.Zip(grad, func(vi, gi float64) float64 { return a.beta2*vi + (1-a.beta2)*gi*gi })
		if err != nil {
			return errors.WithMessagef(err, "adam: parameter %d", idx)
		}
		a.m[idx], a.v[idx] = m, v

		step, err := m.Zip(v, func(mi, vi float64) float64 {
			mHat := mi / biasCorrection1
			vHat := vi / biasCorrection2
			return a.lr * mHat / (math.Sqrt(vHat) + a.eps)
		})
		if err != nil {
			return errors.WithMessagef(err, "adam: parameter %d", idx)
		}

		updated, err := value.Sub(step)
		if err != nil {
			return errors.WithMessagef(err, "adam: parameter %d", idx)
		}
		g.MutNodeOutput(idx, updated)
	}
	return nil
}

// GetLR returns the current learning rate.
func (a *Adam[T]) GetLR() float64 {
	return a.lr
}

// SetLR updates the learning rate.
func (a *Adam[T]) SetLR(lr float64) {
	a.lr = lr
}

// GetTimestep returns the current timestep.
func (a *Adam[T]) GetTimestep() int {
	return a.t
}
