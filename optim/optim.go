// Copyright 2025 Dendrite ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package optim

import (
	"github.com/dendrite-ml/dendrite/autodiff"
	"github.com/dendrite-ml/dendrite/internal/optim"
)

// Optimizer interface defines the common interface for all optimizers.
type Optimizer[T autodiff.Value[T]] = optim.Optimizer[T]

// SGD (Stochastic Gradient Descent)

// SGD represents the SGD optimizer with optional momentum.
type SGD[T autodiff.Value[T]] = optim.SGD[T]

// SGDConfig contains configuration for SGD optimizer.
type SGDConfig = optim.SGDConfig

// NewSGD creates a new SGD optimizer.
//
// Example:
//
//	optimizer := optim.NewSGD[ndarray.Array](optim.SGDConfig{
//	    LR:       0.01,
//	    Momentum: 0.9,
//	})
func NewSGD[T autodiff.Value[T]](config SGDConfig) *SGD[T] {
	return optim.NewSGD[T](config)
}

// Adam (Adaptive Moment Estimation)

// Adam represents the Adam optimizer.
type Adam[T autodiff.Value[T]] = optim.Adam[T]

// AdamConfig contains configuration for Adam optimizer.
type AdamConfig = optim.AdamConfig

// NewAdam creates a new Adam optimizer with bias correction.
//
// Example:
//
//	optimizer := optim.NewAdam[ndarray.Array](optim.AdamConfig{
//	    LR:    0.001,
//	    Betas: [2]float64{0.9, 0.999},
//	    Eps:   1e-8,
//	})
func NewAdam[T autodiff.Value[T]](config AdamConfig) *Adam[T] {
	return optim.NewAdam[T](config)
}
