package autodiff

import (
	"github.com/pkg/errors"

	"github.com/dendrite-ml/dendrite/internal/autodiff/ops"
	"github.com/dendrite-ml/dendrite/internal/serialization"
)

// ErrUnknownOperation is returned by Load when a node names an operation
// missing from the registry.
var ErrUnknownOperation = serialization.ErrUnknownOperation

// Save writes the graph into dir as a nodes document and a metadata
// document. Operations are stored by name.
func (g *Graph[T]) Save(dir string) error {
	records := make([]serialization.NodeRecord[T], len(g.nodes))
	for i := range g.nodes {
		n := &g.nodes[i]
		t := n.Tensor()
		records[i] = serialization.NodeRecord[T]{
			IsParam:  n.IsParam(),
			Inputs:   n.Inputs(),
			Upstream: n.Upstream(),
			Value: serialization.TensorRecord[T]{
				Value: t.Value(),
				Grad:  t.Grad(),
			},
			Operation: n.Operation().Name(),
		}
	}

	meta := serialization.Metadata{
		Path:        g.Path(),
		CurrNodeIdx: g.currNodeIdx,
		Variables:   g.Variables(),
		Operations:  g.Operations(),
	}

	if err := serialization.Write(dir, records, meta); err != nil {
		return errors.WithMessage(err, "save graph")
	}
	g.logger.Debug("saved graph", "dir", dir, "nodes", len(records))
	return nil
}

// Load reads a graph saved by Save.
//
// The new graph has the built-in operations registered, plus any passed
// through WithOperations. Every node's operation name must resolve in that
// registry; otherwise Load fails with ErrUnknownOperation and no graph is
// returned.
func Load[T Value[T]](dir string, opts ...Option[T]) (*Graph[T], error) {
	records, meta, err := serialization.Read[T](dir)
	if err != nil {
		return nil, errors.WithMessage(err, "load graph")
	}

	g := New(opts...)
	nodes := make([]Node[T], len(records))
	for i, rec := range records {
		op, ok := g.registry.Lookup(rec.Operation)
		if !ok {
			return nil, errors.WithMessagef(ErrUnknownOperation, "load graph: node %d: %q", i, rec.Operation)
		}
		tensor := ops.RestoreTensor(rec.Value.Value, rec.Value.Grad)
		nodes[i] = ops.Restore(rec.IsParam, rec.Inputs, rec.Upstream, tensor, op)
	}

	g.nodes = nodes
	g.path = meta.Path
	g.currNodeIdx = meta.CurrNodeIdx
	g.variables = meta.Variables
	g.operations = meta.Operations
	g.logger.Debug("loaded graph", "dir", dir, "nodes", len(nodes))
	return g, nil
}
