package autodiff

import (
	"fmt"

	"github.com/pkg/errors"
)

// Backward computes gradients by walking the path of the last forward pass
// in reverse.
//
// The last node on the path is seeded with ones; every operation then writes
// the gradient of its inputs from its own. Loss operations reseed their
// inputs from the closed-form derivative. After Backward, Node(i).Grad()
// holds dL/d(output of node i) for every node on the way to the loss.
//
// Backward panics if Forward has not produced a path, or if any node has
// more than one consumer: gradients are written, not accumulated, so only
// tree-shaped graphs are supported.
//
// Example:
//
//	g := autodiff.New[autodiff.Scalar]()
//	g.Add(2, 3).Mul(4)
//	_ = g.Forward()
//	_ = g.Backward()
//	g.Node(0).Grad() // 4
func (g *Graph[T]) Backward() error {
	if len(g.path) == 0 {
		panic("backward: empty path (did you forget to call Forward()?)")
	}
	for i := range g.nodes {
		if up := g.nodes[i].Upstream(); len(up) > 1 {
			panic(fmt.Sprintf("backward: node %d has %d consumers %v; only tree-shaped graphs are supported", i, len(up), up))
		}
	}

	last := g.path[len(g.path)-1]
	g.nodes[last].SetGradOutput(g.nodes[last].Output().Fill(1))

	for k := len(g.path) - 1; k >= 0; k-- {
		i := g.path[k]
		n := &g.nodes[i]
		name := n.Operation().Name()
		if err := n.Backward(g.nodes, i); err != nil {
			return errors.WithMessagef(err, "backward node %d (%s)", i, name)
		}
		g.logger.Debug("backward", "node", i, "op", name)
	}
	return nil
}
