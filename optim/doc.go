// Copyright 2025 Dendrite ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides gradient-based optimizers for computation graphs.
//
// # Overview
//
// This package contains:
//   - SGD: Stochastic Gradient Descent with optional momentum
//   - Adam: Adaptive Moment Estimation with bias correction
//   - Optimizer interface for custom optimizers
//
// An optimizer updates every parameter node of a graph from the gradients
// left by the last backward pass.
//
// # Basic Usage
//
//	import (
//	    "github.com/dendrite-ml/dendrite/autodiff"
//	    "github.com/dendrite-ml/dendrite/ndarray"
//	    "github.com/dendrite-ml/dendrite/optim"
//	)
//
//	func main() {
//	    g := autodiff.New[ndarray.Array]()
//	    g.Mul(x, w).Add(b).MSE(y)
//	    g.AddParameter(1)
//	    g.AddParameter(3)
//
//	    optimizer := optim.NewAdam[ndarray.Array](optim.AdamConfig{LR: 0.01})
//
//	    for range 1000 {
//	        // 1. Forward pass
//	        if err := g.Forward(); err != nil {
//	            return err
//	        }
//
//	        // 2. Backward pass
//	        if err := g.Backward(); err != nil {
//	            return err
//	        }
//
//	        // 3. Update parameters
//	        if err := optimizer.Step(g); err != nil {
//	            return err
//	        }
//	    }
//	}
//
// # Optimizers
//
// SGD (Stochastic Gradient Descent):
//
//	optimizer := optim.NewSGD[ndarray.Array](optim.SGDConfig{
//	    LR:       0.01,
//	    Momentum: 0.9,
//	})
//
// Adam (Adaptive Moment Estimation):
//
//	optimizer := optim.NewAdam[ndarray.Array](optim.AdamConfig{
//	    LR:    0.001,
//	    Betas: [2]float64{0.9, 0.999},
//	    Eps:   1e-8,
//	})
//
// Gradients are overwritten by every backward pass, so there is no
// ZeroGrad step.
package optim
