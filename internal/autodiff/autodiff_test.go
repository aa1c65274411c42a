package autodiff_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dendrite-ml/dendrite/internal/autodiff"
	"github.com/dendrite-ml/dendrite/internal/autodiff/ops"
	"github.com/dendrite-ml/dendrite/internal/ndarray"
)

type scalar = autodiff.Scalar

// scalarChain builds add(5, 10) -> add(100) -> mul(20) -> sub(10).
func scalarChain() *autodiff.Graph[scalar] {
	g := autodiff.New[scalar]()
	g.Add(5, 10).Add(100).Mul(20).Sub(10)
	return g
}

// linearGraph builds X·W + b against target y with zero parameters.
//
// Nodes: 0 X, 1 W, 2 mul, 3 b, 4 add, 5 y, 6 mse.
func linearGraph() *autodiff.Graph[ndarray.Array] {
	x := ndarray.MustFromRows([][]float64{
		{1, 2, 3},
		{2, 3, 4},
		{3, 4, 5},
		{4, 5, 6},
		{5, 6, 7},
	})
	y := ndarray.Column(10, 12, 14, 16, 18)

	g := autodiff.New[ndarray.Array]()
	g.Mul(x, ndarray.Zeros(3, 1)).Add(ndarray.Zeros(1, 1)).MSE(y)
	g.AddParameter(1)
	g.AddParameter(3)
	return g
}

func TestNew_Empty(t *testing.T) {
	g := autodiff.New[scalar]()

	assert.Equal(t, 0, g.Len())
	assert.Equal(t, -1, g.CurrNodeIdx())
	assert.Empty(t, g.Path())
	assert.Empty(t, g.Parameters())
	assert.Panics(t, func() { g.CurrNode() })
}

func TestRegistry_Builtins(t *testing.T) {
	g := autodiff.New[ndarray.Array]()

	assert.Equal(t, []string{
		"Add",
		"BinaryCrossEntropy",
		"CategoricalCrossEntropy",
		"DefaultLossFunction",
		"DefaultValue",
		"MSE",
		"Mul",
		"Sigmoid",
		"Sub",
		"Tanh",
	}, g.Registry().Names())
	assert.Equal(t, 10, g.Registry().Len())

	op, ok := g.Registry().Lookup("Sigmoid")
	require.True(t, ok)
	assert.Equal(t, ops.NameSigmoid, op.Name())

	_, ok = g.Registry().Lookup("Foo")
	assert.False(t, ok)
}

func TestBuilders_Wiring(t *testing.T) {
	g := scalarChain()

	assert.Equal(t, 9, g.Len())
	assert.Equal(t, 8, g.CurrNodeIdx())
	assert.Equal(t, []int{0, 1, 3, 5, 7}, g.Variables())
	assert.Equal(t, []int{2, 4, 6, 8}, g.Operations())

	assert.Equal(t, []int{0, 1}, g.Node(2).Inputs())
	assert.Equal(t, []int{2, 3}, g.Node(4).Inputs())
	assert.Equal(t, []int{4, 5}, g.Node(6).Inputs())
	assert.Equal(t, []int{6, 7}, g.Node(8).Inputs())

	assert.Equal(t, []int{2}, g.Node(0).Upstream())
	assert.Equal(t, []int{2}, g.Node(1).Upstream())
	assert.Equal(t, []int{4}, g.Node(2).Upstream())
	assert.Empty(t, g.Node(8).Upstream())

	assert.Equal(t, ops.NameDefaultValue, g.Node(0).Operation().Name())
	assert.Equal(t, ops.NameSub, g.CurrNode().Operation().Name())
}

func TestScalar_ForwardBackward(t *testing.T) {
	g := scalarChain()

	require.NoError(t, g.Forward())
	assert.Equal(t, []int{2, 4, 6, 8}, g.Path())

	n2, n4, n6, n8 := g.Node(2), g.Node(4), g.Node(6), g.Node(8)
	assert.Equal(t, scalar(15), n2.Output())
	assert.Equal(t, scalar(115), n4.Output())
	assert.Equal(t, scalar(2300), n6.Output())
	assert.Equal(t, scalar(2290), n8.Output())

	require.NoError(t, g.Backward())

	want := map[int]scalar{8: 1, 7: 10, 6: 2300, 5: 264500, 4: 46000, 3: 46000, 2: 46000, 1: 46000, 0: 46000}
	for idx, grad := range want {
		n := g.Node(idx)
		assert.Equal(t, grad, n.Grad(), "grad of node %d", idx)
	}
}

func TestForward_Idempotent(t *testing.T) {
	g := linearGraph()
	g.MutNodeOutput(1, ndarray.Column(0.5, -1, 2))

	require.NoError(t, g.Forward())
	first := g.Nodes()
	firstPath := g.Path()

	require.NoError(t, g.Forward())
	assert.Equal(t, firstPath, g.Path())
	for i, n := range g.Nodes() {
		assert.True(t, first[i].Output().Equal(n.Output()), "node %d output changed", i)
	}
}

func TestLinear_Gradients(t *testing.T) {
	g := linearGraph()

	require.NoError(t, g.Forward())
	assert.Equal(t, []int{2, 4, 6}, g.Path())
	loss := g.Node(6)
	assert.InDelta(t, 204.0, loss.Output().At(0, 0), 1e-9)

	require.NoError(t, g.Backward())

	w, b := g.Node(1), g.Node(3)
	assert.Equal(t, []float64{-230, -300, -370}, w.Grad().Data())
	assert.Equal(t, []float64{-70}, b.Grad().Data())
	assert.Equal(t, []int{1, 3}, g.Parameters())
}

func TestSigmoidMSE_Gradients(t *testing.T) {
	g := autodiff.New[ndarray.Array]()
	g.Add(ndarray.Zeros(4, 1), ndarray.Zeros(4, 1)).Sigmoid().MSE(ndarray.Full(4, 1, 1))

	assert.Equal(t, []int{0, 1, 4}, g.Variables())
	assert.Equal(t, []int{2, 3, 5}, g.Operations())

	require.NoError(t, g.Forward())
	sig := g.Node(3)
	assert.Equal(t, []float64{0.5, 0.5, 0.5, 0.5}, sig.Output().Data())
	mse := g.Node(5)
	assert.InDelta(t, 0.25, mse.Output().At(0, 0), 1e-12)

	require.NoError(t, g.Backward())
	sig = g.Node(3)
	assert.Equal(t, []float64{-0.5, -0.5, -0.5, -0.5}, sig.Grad().Data())
	for _, idx := range []int{0, 1, 2} {
		n := g.Node(idx)
		assert.Equal(t, []float64{-0.125, -0.125, -0.125, -0.125}, n.Grad().Data(), "node %d", idx)
	}
}

func TestDefaultLoss_Backward(t *testing.T) {
	g := autodiff.New[scalar]()
	g.Add(1, 2).Default()

	require.NoError(t, g.Forward())
	require.NoError(t, g.Backward())

	for _, idx := range []int{0, 1, 2, 3} {
		n := g.Node(idx)
		assert.Equal(t, scalar(3), n.Grad(), "node %d", idx)
	}
}

func TestTanh_Scalar(t *testing.T) {
	g := autodiff.New[scalar]()
	g.Add(0.25, 0.25).Tanh()

	require.NoError(t, g.Forward())
	require.NoError(t, g.Backward())

	th := g.Node(3)
	assert.InDelta(t, 0.46211715726000974, float64(th.Output()), 1e-12)
	leaf := g.Node(0)
	assert.InDelta(t, 1-0.46211715726000974*0.46211715726000974, float64(leaf.Grad()), 1e-12)
}

func TestParameters_Isolation(t *testing.T) {
	g := linearGraph()
	require.NoError(t, g.Forward())
	require.NoError(t, g.Backward())

	before := g.Nodes()
	g.MutNodeOutput(1, ndarray.Column(1, 1, 1))

	for i, n := range g.Nodes() {
		if i == 1 {
			assert.Equal(t, []float64{1, 1, 1}, n.Output().Data())
			continue
		}
		assert.True(t, before[i].Output().Equal(n.Output()), "node %d output changed", i)
		assert.True(t, before[i].Grad().Equal(n.Grad()), "node %d grad changed", i)
	}
	assert.Equal(t, []int{1, 3}, g.Parameters())
}

func TestNode_ReturnsCopy(t *testing.T) {
	g := linearGraph()
	n := g.Node(1)
	n.SetOutput(ndarray.Column(9, 9, 9))
	n.SetParam(false)

	again := g.Node(1)
	assert.Equal(t, []float64{0, 0, 0}, again.Output().Data())
	assert.True(t, again.IsParam())
}

func TestMutNodeOperation(t *testing.T) {
	g := autodiff.New[scalar]()
	g.Add(7, 2)

	g.MutNodeOperation(2, ops.SubOp[scalar]{})
	require.NoError(t, g.Forward())

	n := g.Node(2)
	assert.Equal(t, scalar(5), n.Output())
	assert.Equal(t, ops.NameSub, n.Operation().Name())
}

func TestBackward_WithoutForwardPanics(t *testing.T) {
	g := scalarChain()
	assert.PanicsWithValue(t, "backward: empty path (did you forget to call Forward()?)", func() {
		_ = g.Backward()
	})
}

func TestBackward_MultiConsumerPanics(t *testing.T) {
	g := autodiff.New[scalar]()
	g.Add(1, 2)
	// Consumes (1, 2): node 1 now feeds both node 2 and node 3.
	g.Binary(ops.MulOp[scalar]{})

	assert.Equal(t, []int{2, 3}, g.Node(1).Upstream())
	require.NoError(t, g.Forward())
	assert.Panics(t, func() { _ = g.Backward() })
}

func TestForward_ShapeErrorIsWrapped(t *testing.T) {
	g := autodiff.New[ndarray.Array]()
	g.Mul(ndarray.Zeros(2, 3), ndarray.Zeros(2, 1))

	err := g.Forward()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "forward node 2 (Mul)")
	assert.True(t, errors.Is(err, ndarray.ErrShape))
	assert.Empty(t, g.Path())
}

func TestForward_ArityError(t *testing.T) {
	g := autodiff.New[scalar]()
	g.Add(1, 2)
	g.MutNodeOperation(2, ops.SigmoidOp[scalar]{})

	err := g.Forward()
	require.Error(t, err)
	assert.ErrorIs(t, err, ops.ErrArity)
	assert.Contains(t, err.Error(), "forward node 2 (Sigmoid)")
}

func TestBuilders_Panics(t *testing.T) {
	tests := []struct {
		name  string
		build func(g *autodiff.Graph[scalar])
	}{
		{"add without inputs", func(g *autodiff.Graph[scalar]) { g.Add() }},
		{"add with three inputs", func(g *autodiff.Graph[scalar]) { g.Add(1, 2, 3) }},
		{"binary on empty graph", func(g *autodiff.Graph[scalar]) { g.Binary(ops.AddOp[scalar]{}) }},
		{"unary on empty graph", func(g *autodiff.Graph[scalar]) { g.Unary(1, ops.AddOp[scalar]{}) }},
		{"function on empty graph", func(g *autodiff.Graph[scalar]) { g.Sigmoid() }},
		{"binary with three operands", func(g *autodiff.Graph[scalar]) { g.Binary(ops.AddOp[scalar]{}, 1, 2, 3) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := autodiff.New[scalar]()
			assert.Panics(t, func() { tt.build(g) })
		})
	}
}

func TestBinary_ChainsTwoMostRecent(t *testing.T) {
	g := autodiff.New[scalar]()
	g.Add(3, 4).Sigmoid()
	g.Unary(2, ops.MulOp[scalar]{})

	// Mul reads the sigmoid node and the new leaf.
	assert.Equal(t, []int{3, 4}, g.CurrNode().Inputs())
}

func TestWithLogger_TracesPasses(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	g := autodiff.New(autodiff.WithLogger[scalar](logger))
	g.Add(1, 2)
	require.NoError(t, g.Forward())
	require.NoError(t, g.Backward())

	out := buf.String()
	assert.Contains(t, out, "msg=forward")
	assert.Contains(t, out, "msg=backward")
	assert.Contains(t, out, "op=Add")
}
