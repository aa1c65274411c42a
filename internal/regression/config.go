package regression

import (
	"log/slog"

	"github.com/pkg/errors"
)

// Optimizer names accepted by Config.Optimizer.
const (
	OptimizerSGD  = "sgd"
	OptimizerAdam = "adam"
)

// Common errors.
var (
	ErrLearningRate = errors.New("learning rate must be in (0, 1]")
	ErrShape        = errors.New("inputs and targets do not match")
	ErrOptimizer    = errors.New("unknown optimizer")
	ErrBatchSize    = errors.New("batch size must be positive and at most the number of rows")
	ErrKindMismatch = errors.New("saved graph does not match model kind")
)

// Config holds training hyperparameters.
type Config struct {
	LearningRate float64 `json:"learning_rate"` // Step size in (0, 1] (default: 0.01)
	Epochs       int     `json:"epochs"`        // Passes over the data (default: 1000)
	BatchSize    int     `json:"batch_size"`    // Rows per mini-batch for TrainBatch (default: 0, full batch)
	Seed         int64   `json:"seed"`          // Shuffle seed; negative means random
	Optimizer    string  `json:"optimizer"`     // "sgd" or "adam" (default: "sgd")
	Momentum     float64 `json:"momentum"`      // SGD momentum (default: 0)
}

// DefaultConfig returns the default training configuration.
func DefaultConfig() Config {
	return Config{
		LearningRate: 0.01,
		Epochs:       1000,
		Optimizer:    OptimizerSGD,
	}
}

// withDefaults fills zero fields and validates the result.
func (c Config) withDefaults() (Config, error) {
	def := DefaultConfig()
	if c.LearningRate == 0 {
		c.LearningRate = def.LearningRate
	}
	if c.Epochs == 0 {
		c.Epochs = def.Epochs
	}
	if c.Optimizer == "" {
		c.Optimizer = def.Optimizer
	}

	if c.LearningRate <= 0 || c.LearningRate > 1 {
		return c, errors.Wrapf(ErrLearningRate, "got %g", c.LearningRate)
	}
	if c.Epochs < 0 {
		return c, errors.Errorf("regression: negative epochs %d", c.Epochs)
	}
	if c.Optimizer != OptimizerSGD && c.Optimizer != OptimizerAdam {
		return c, errors.Wrapf(ErrOptimizer, "%q", c.Optimizer)
	}
	return c, nil
}

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the logger for training progress.
func WithLogger(l *slog.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}
