// Package regression implements linear and logistic regression on top of
// the computation graph.
//
// Each model is a fixed graph:
//
//	linear:   X·W + b -> MSE(y)
//	logistic: X·W + b -> Sigmoid -> BinaryCrossEntropy(y)
//	softmax:  X·W + b -> CategoricalCrossEntropy(y)
//
// with W (node 1) and b (node 3) as parameters. Training runs
// forward/backward/optimizer steps; prediction swaps the input leaf and
// re-runs the forward pass.
//
// Example:
//
//	m, err := regression.NewLinear(x, y, regression.Config{LearningRate: 0.01})
//	if err != nil {
//	    return err
//	}
//	if err := m.Train(); err != nil {
//	    return err
//	}
//	pred, err := m.Predict(xTest)
package regression

import (
	stderrors "errors"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/dendrite-ml/dendrite/internal/autodiff"
	"github.com/dendrite-ml/dendrite/internal/autodiff/ops"
	"github.com/dendrite-ml/dendrite/internal/ndarray"
)

// Kind identifies the model family.
type Kind string

// Model kinds.
const (
	KindLinear   Kind = "linear"
	KindLogistic Kind = "logistic"
	KindSoftmax  Kind = "softmax"
)

// layout holds the node indices of a model graph.
type layout struct {
	input, weights, bias, prediction, target, loss int
	lossOp                                         string
}

// Node indices shared by every kind.
const (
	inputNode   = 0
	weightsNode = 1
	biasNode    = 3
	logitsNode  = 4
)

func layoutOf(kind Kind) (layout, error) {
	l := layout{input: inputNode, weights: weightsNode, bias: biasNode}
	switch kind {
	case KindLinear:
		l.prediction, l.target, l.loss, l.lossOp = logitsNode, 5, 6, ops.NameMSE
	case KindLogistic:
		l.prediction, l.target, l.loss, l.lossOp = 5, 6, 7, ops.NameBinaryCrossEntropy
	case KindSoftmax:
		l.prediction, l.target, l.loss, l.lossOp = logitsNode, 5, 6, ops.NameCategoricalCrossEntropy
	default:
		return l, errors.Errorf("regression: unknown model kind %q", kind)
	}
	return l, nil
}

// Model is a trainable regression model backed by a computation graph.
type Model struct {
	kind   Kind
	cfg    Config
	layout layout
	graph  *autodiff.Graph[ndarray.Array]
	x, y   ndarray.Array // training data
	logger *slog.Logger
}

// NewLinear creates a least-squares linear regression of y (n x 1) on x (n x d).
func NewLinear(x, y ndarray.Array, cfg Config, opts ...Option) (*Model, error) {
	return newModel(KindLinear, x, y, cfg, opts)
}

// NewLogistic creates a binary logistic regression of y (n x 1, values in {0, 1}) on x.
func NewLogistic(x, y ndarray.Array, cfg Config, opts ...Option) (*Model, error) {
	return newModel(KindLogistic, x, y, cfg, opts)
}

// NewSoftmax creates a multinomial logistic regression of one-hot y (n x k) on x.
func NewSoftmax(x, y ndarray.Array, cfg Config, opts ...Option) (*Model, error) {
	return newModel(KindSoftmax, x, y, cfg, opts)
}

func newModel(kind Kind, x, y ndarray.Array, cfg Config, opts []Option) (*Model, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}
	if x.IsEmpty() || x.Rows() != y.Rows() {
		return nil, errors.Wrapf(ErrShape, "x is %dx%d, y is %dx%d", x.Rows(), x.Cols(), y.Rows(), y.Cols())
	}
	if kind != KindSoftmax && y.Cols() != 1 {
		return nil, errors.Wrapf(ErrShape, "%s regression needs a single target column, got %d", kind, y.Cols())
	}

	l, err := layoutOf(kind)
	if err != nil {
		return nil, err
	}

	m := &Model{
		kind:   kind,
		cfg:    cfg,
		layout: l,
		x:      x.Clone(),
		y:      y.Clone(),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(m)
	}

	g := autodiff.New(autodiff.WithLogger[ndarray.Array](m.logger))
	g.Mul(x, ndarray.Zeros(x.Cols(), y.Cols())).Add(ndarray.Zeros(1, y.Cols()))
	switch kind {
	case KindLinear:
		g.MSE(y)
	case KindLogistic:
		g.Sigmoid().BCE(y)
	case KindSoftmax:
		g.CCE(y)
	}
	g.AddParameter(l.weights)
	g.AddParameter(l.bias)
	m.graph = g
	return m, nil
}

// Kind returns the model family.
func (m *Model) Kind() Kind { return m.kind }

// Config returns the training configuration.
func (m *Model) Config() Config { return m.cfg }

// Graph returns the underlying computation graph.
func (m *Model) Graph() *autodiff.Graph[ndarray.Array] { return m.graph }

// Weights returns a copy of W.
func (m *Model) Weights() ndarray.Array { return m.graph.Node(m.layout.weights).Output() }

// Bias returns a copy of b.
func (m *Model) Bias() ndarray.Array { return m.graph.Node(m.layout.bias).Output() }

// Loss returns the loss of the last forward pass.
func (m *Model) Loss() float64 {
	out := m.graph.Node(m.layout.loss).Output()
	if out.IsEmpty() {
		return 0
	}
	return out.At(0, 0)
}

// Predict returns the model output for x: values for linear regression and
// probabilities for logistic and softmax regression. The training data
// stays in place.
func (m *Model) Predict(x ndarray.Array) (ndarray.Array, error) {
	if err := m.checkInput(x); err != nil {
		return ndarray.Array{}, errors.WithMessage(err, "predict")
	}

	target := ndarray.Zeros(x.Rows(), m.y.Cols())
	if m.kind == KindLogistic {
		// BinaryCrossEntropy needs targets in [0, 1]; any valid value works.
		target = ndarray.Full(x.Rows(), m.y.Cols(), 0.5)
	}

	var pred ndarray.Array
	err := m.runAndRestore(x, target, func() {
		pred = m.graph.Node(m.layout.prediction).Output()
	})
	if err != nil {
		return ndarray.Array{}, errors.WithMessage(err, "predict")
	}
	if m.kind == KindSoftmax {
		pred = pred.SoftmaxRows()
	}
	return pred, nil
}

// Evaluate returns the loss on (x, y) without changing the parameters.
func (m *Model) Evaluate(x, y ndarray.Array) (float64, error) {
	if err := m.checkInput(x); err != nil {
		return 0, errors.WithMessage(err, "evaluate")
	}
	if x.Rows() != y.Rows() || y.Cols() != m.y.Cols() {
		return 0, errors.Wrapf(ErrShape, "x is %dx%d, y is %dx%d", x.Rows(), x.Cols(), y.Rows(), y.Cols())
	}

	var loss float64
	if err := m.runAndRestore(x, y, func() { loss = m.Loss() }); err != nil {
		return 0, errors.WithMessage(err, "evaluate")
	}
	return loss, nil
}

func (m *Model) checkInput(x ndarray.Array) error {
	if x.IsEmpty() || x.Cols() != m.x.Cols() {
		return errors.Wrapf(ErrShape, "x is %dx%d, model has %d features", x.Rows(), x.Cols(), m.x.Cols())
	}
	return nil
}

// runAndRestore runs forward on (x, y), calls read on success and always
// puts the training data back afterwards.
func (m *Model) runAndRestore(x, y ndarray.Array, read func()) (err error) {
	defer func() {
		if rerr := m.restore(); rerr != nil {
			err = stderrors.Join(err, errors.WithMessage(rerr, "restore training data"))
		}
	}()

	if err := m.run(x, y); err != nil {
		return err
	}
	read()
	return nil
}

// run swaps (x, y) into the input and target leaves and runs forward.
func (m *Model) run(x, y ndarray.Array) error {
	m.graph.MutNodeOutput(m.layout.input, x)
	m.graph.MutNodeOutput(m.layout.target, y)
	return m.graph.Forward()
}

// restore puts the training data back and recomputes the outputs.
func (m *Model) restore() error {
	return m.run(m.x, m.y)
}
