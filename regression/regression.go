// Copyright 2025 Dendrite ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package regression provides linear, logistic and softmax regression
// trained through the autodiff graph.
//
// Example:
//
//	m, err := regression.NewLinear(x, y, regression.Config{LearningRate: 0.1, Epochs: 2000})
//	if err != nil {
//	    return err
//	}
//	if err := m.Train(); err != nil {
//	    return err
//	}
//	pred, err := m.Predict(xTest)
package regression

import (
	"log/slog"

	"github.com/dendrite-ml/dendrite/internal/regression"
	"github.com/dendrite-ml/dendrite/ndarray"
)

// Model is a trainable regression model.
type Model = regression.Model

// Kind identifies the model family.
type Kind = regression.Kind

// Config holds training hyperparameters.
type Config = regression.Config

// Option configures a Model.
type Option = regression.Option

// Model kinds.
const (
	KindLinear   = regression.KindLinear
	KindLogistic = regression.KindLogistic
	KindSoftmax  = regression.KindSoftmax
)

// Optimizer names.
const (
	OptimizerSGD  = regression.OptimizerSGD
	OptimizerAdam = regression.OptimizerAdam
)

// Errors.
var (
	ErrLearningRate = regression.ErrLearningRate
	ErrShape        = regression.ErrShape
	ErrOptimizer    = regression.ErrOptimizer
	ErrBatchSize    = regression.ErrBatchSize
	ErrKindMismatch = regression.ErrKindMismatch
)

// DefaultConfig returns the default training configuration.
func DefaultConfig() Config { return regression.DefaultConfig() }

// WithLogger sets the logger for training progress.
func WithLogger(l *slog.Logger) Option { return regression.WithLogger(l) }

// NewLinear creates a least-squares linear regression.
func NewLinear(x, y ndarray.Array, cfg Config, opts ...Option) (*Model, error) {
	return regression.NewLinear(x, y, cfg, opts...)
}

// NewLogistic creates a binary logistic regression.
func NewLogistic(x, y ndarray.Array, cfg Config, opts ...Option) (*Model, error) {
	return regression.NewLogistic(x, y, cfg, opts...)
}

// NewSoftmax creates a multinomial logistic regression on one-hot targets.
func NewSoftmax(x, y ndarray.Array, cfg Config, opts ...Option) (*Model, error) {
	return regression.NewSoftmax(x, y, cfg, opts...)
}

// Load reads a model written by Model.Save.
func Load(dir string, opts ...Option) (*Model, error) {
	return regression.Load(dir, opts...)
}
