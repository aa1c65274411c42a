package regression

import (
	"time"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"

	"github.com/dendrite-ml/dendrite/internal/ndarray"
	"github.com/dendrite-ml/dendrite/internal/optim"
)

// logEvery is the epoch interval of progress records.
const logEvery = 100

// newOptimizer builds the configured optimizer for batches of n rows.
//
// MSE and binary cross-entropy gradients are sums over the batch, so their
// SGD step is lr/n. Categorical cross-entropy is already averaged. Adam
// normalizes its steps and takes lr unchanged.
func (m *Model) newOptimizer(n int) optim.Optimizer[ndarray.Array] {
	if m.cfg.Optimizer == OptimizerAdam {
		return optim.NewAdam[ndarray.Array](optim.AdamConfig{LR: m.cfg.LearningRate})
	}

	lr := m.cfg.LearningRate
	if m.kind != KindSoftmax {
		lr /= float64(n)
	}
	return optim.NewSGD[ndarray.Array](optim.SGDConfig{
		LR:       lr,
		Momentum: m.cfg.Momentum,
	})
}

// Train runs Config.Epochs full-batch gradient steps.
func (m *Model) Train() error {
	opt := m.newOptimizer(m.x.Rows())
	for epoch := range m.cfg.Epochs {
		if err := m.step(opt); err != nil {
			return errors.WithMessagef(err, "epoch %d", epoch)
		}
		if epoch%logEvery == 0 {
			m.logger.Debug("epoch", "kind", m.kind, "epoch", epoch, "loss", m.Loss())
		}
	}

	// Leave the outputs consistent with the final parameters.
	if err := m.graph.Forward(); err != nil {
		return err
	}
	m.logger.Info("trained", "kind", m.kind, "epochs", m.cfg.Epochs, "loss", m.Loss(), "lr", m.cfg.LearningRate)
	return nil
}

// TrainBatch runs Config.Epochs epochs of mini-batch gradient descent.
//
// Rows are shuffled every epoch; a final batch shorter than
// Config.BatchSize is skipped.
func (m *Model) TrainBatch() error {
	rows := m.x.Rows()
	size := m.cfg.BatchSize
	if size <= 0 || size > rows {
		return errors.Wrapf(ErrBatchSize, "batch size %d for %d rows", size, rows)
	}

	rng := m.newRand()
	opt := m.newOptimizer(size)

	for epoch := range m.cfg.Epochs {
		perm := rng.Perm(rows)
		xs, err := m.x.SelectRows(perm)
		if err != nil {
			return err
		}
		ys, err := m.y.SelectRows(perm)
		if err != nil {
			return err
		}

		for start := 0; start+size <= rows; start += size {
			xb, err := xs.SliceRows(start, start+size)
			if err != nil {
				return err
			}
			yb, err := ys.SliceRows(start, start+size)
			if err != nil {
				return err
			}

			m.graph.MutNodeOutput(m.layout.input, xb)
			m.graph.MutNodeOutput(m.layout.target, yb)
			if err := m.step(opt); err != nil {
				return errors.WithMessagef(err, "epoch %d batch at row %d", epoch, start)
			}
		}
		if epoch%logEvery == 0 {
			m.logger.Debug("epoch", "kind", m.kind, "epoch", epoch, "batch_loss", m.Loss())
		}
	}

	if err := m.restore(); err != nil {
		return err
	}
	m.logger.Info("trained", "kind", m.kind, "epochs", m.cfg.Epochs, "batch_size", size, "loss", m.Loss())
	return nil
}

func (m *Model) step(opt optim.Optimizer[ndarray.Array]) error {
	if err := m.graph.Forward(); err != nil {
		return err
	}
	if err := m.graph.Backward(); err != nil {
		return err
	}
	return opt.Step(m.graph)
}

func (m *Model) newRand() *rand.Rand {
	seed := uint64(m.cfg.Seed)
	if m.cfg.Seed < 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewSource(seed))
}
