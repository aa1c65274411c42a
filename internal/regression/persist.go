package regression

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/dendrite-ml/dendrite/internal/autodiff"
	"github.com/dendrite-ml/dendrite/internal/ndarray"
)

const (
	parametersFile = "parameters.json"
	graphDir       = "graph"
)

// saved is the contents of parameters.json.
type saved struct {
	Kind      Kind   `json:"kind"`
	GraphPath string `json:"graph_path"` // relative to the model directory
	Config    Config `json:"config"`
}

// Save writes the model into dir: parameters.json plus the graph in a
// subdirectory.
func (m *Model) Save(dir string) error {
	if err := m.graph.Save(filepath.Join(dir, graphDir)); err != nil {
		return err
	}

	data, err := json.MarshalIndent(saved{Kind: m.kind, GraphPath: graphDir, Config: m.cfg}, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal model parameters")
	}
	//nolint:gosec // G306: model files are not secrets
	if err := os.WriteFile(filepath.Join(dir, parametersFile), data, 0o644); err != nil {
		return errors.Wrap(err, "write model parameters")
	}
	return nil
}

// Load reads a model written by Save. The training data is the data held
// by the graph when it was saved.
func Load(dir string, opts ...Option) (*Model, error) {
	//nolint:gosec // G304: path is provided by the caller
	data, err := os.ReadFile(filepath.Join(dir, parametersFile))
	if err != nil {
		return nil, errors.Wrap(err, "read model parameters")
	}
	var p saved
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, errors.Wrap(err, "parse model parameters")
	}

	l, err := layoutOf(p.Kind)
	if err != nil {
		return nil, err
	}
	cfg, err := p.Config.withDefaults()
	if err != nil {
		return nil, err
	}

	m := &Model{
		kind:   p.Kind,
		cfg:    cfg,
		layout: l,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(m)
	}

	g, err := autodiff.Load(filepath.Join(dir, p.GraphPath), autodiff.WithLogger[ndarray.Array](m.logger))
	if err != nil {
		return nil, err
	}
	if g.Len() != l.loss+1 || g.Node(l.loss).Operation().Name() != l.lossOp {
		return nil, errors.Wrapf(ErrKindMismatch, "%s model in %s", p.Kind, dir)
	}

	m.graph = g
	m.x = g.Node(l.input).Output()
	m.y = g.Node(l.target).Output()
	return m, nil
}
