package autodiff

import (
	"github.com/pkg/errors"
)

// Forward evaluates every operation node in arena order and records the
// executed nodes as the path.
//
// Arena order is a topological order, so every input is evaluated before
// its consumers. Leaves are never executed. Operation gradients are reset to
// zeros shaped like the new outputs.
//
// On failure the path is cleared and the operation error is returned with
// the node index and operation name attached.
func (g *Graph[T]) Forward() error {
	g.path = g.path[:0]

	for i := range g.nodes {
		n := &g.nodes[i]
		if n.NumInputs() == 0 {
			continue
		}

		name := n.Operation().Name()
		out, err := n.Forward(g.nodes, i)
		if err != nil {
			g.path = g.path[:0]
			return errors.WithMessagef(err, "forward node %d (%s)", i, name)
		}

		n.SetOutput(out)
		n.SetGradOutput(out.Fill(0))
		g.path = append(g.path, i)
		g.logger.Debug("forward", "node", i, "op", name, "rows", out.Rows(), "cols", out.Cols())
	}
	return nil
}
