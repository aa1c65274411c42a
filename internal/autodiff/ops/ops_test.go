package ops_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dendrite-ml/dendrite/internal/autodiff/ops"
	"github.com/dendrite-ml/dendrite/internal/ndarray"
)

type arr = ndarray.Array

// binaryNodes returns [lhs, rhs, op(lhs, rhs)] with the op output computed.
func binaryNodes(t *testing.T, op ops.Operation[arr], lhs, rhs arr) []ops.Node[arr] {
	t.Helper()
	nodes := []ops.Node[arr]{ops.Val(lhs), ops.Val(rhs), ops.Binary(0, 1, op)}
	out, err := nodes[2].Forward(nodes, 2)
	require.NoError(t, err)
	nodes[2].SetOutput(out)
	return nodes
}

func TestBuiltins_UniqueNames(t *testing.T) {
	seen := map[string]bool{}
	for _, op := range ops.Builtins[arr]() {
		assert.False(t, seen[op.Name()], "duplicate %s", op.Name())
		seen[op.Name()] = true
	}
	assert.Len(t, seen, 10)
}

func TestAddOp_BroadcastBackward(t *testing.T) {
	x := ndarray.MustFromRows([][]float64{{1, 2}, {3, 4}, {5, 6}})
	b := ndarray.MustFromRows([][]float64{{10, 20}})
	nodes := binaryNodes(t, ops.AddOp[arr]{}, x, b)

	want := ndarray.MustFromRows([][]float64{{11, 22}, {13, 24}, {15, 26}})
	assert.True(t, want.Equal(nodes[2].Output()))

	nodes[2].SetGradOutput(ndarray.MustFromRows([][]float64{{1, 2}, {3, 4}, {5, 6}}))
	require.NoError(t, nodes[2].Backward(nodes, 2))

	assert.True(t, x.Equal(nodes[0].Grad()), "full-shape input gets the upstream gradient")
	assert.Equal(t, []float64{9, 12}, nodes[1].Grad().Data())
}

func TestSubOp_Backward(t *testing.T) {
	lhs := ndarray.MustFromRows([][]float64{{1, 2}, {3, 4}})
	rhs := ndarray.MustFromRows([][]float64{{0, 1}, {1, 0}})
	nodes := binaryNodes(t, ops.SubOp[arr]{}, lhs, rhs)
	assert.Equal(t, []float64{1, 1, 2, 4}, nodes[2].Output().Data())

	nodes[2].SetGradOutput(ndarray.MustFromRows([][]float64{{1, 0}, {0, 2}}))
	require.NoError(t, nodes[2].Backward(nodes, 2))

	// lhsᵗ·grad and gradᵗ·rhs
	assert.Equal(t, []float64{1, 6, 2, 8}, nodes[0].Grad().Data())
	assert.Equal(t, []float64{0, 1, 2, 0}, nodes[1].Grad().Data())
}

func TestSubOp_BroadcastBackwardFails(t *testing.T) {
	lhs := ndarray.MustFromRows([][]float64{{1, 2}, {3, 4}})
	nodes := binaryNodes(t, ops.SubOp[arr]{}, lhs, ndarray.MustFromRows([][]float64{{1, 1}}))
	assert.Equal(t, []float64{0, 1, 2, 3}, nodes[2].Output().Data())

	nodes[2].SetGradOutput(ndarray.Full(2, 2, 1))
	assert.ErrorIs(t, nodes[2].Backward(nodes, 2), ndarray.ErrShape)
}

func TestMulOp_Backward(t *testing.T) {
	a := ndarray.MustFromRows([][]float64{{1, 2}, {3, 4}})
	b := ndarray.Column(5, 6)
	nodes := binaryNodes(t, ops.MulOp[arr]{}, a, b)
	assert.Equal(t, []float64{17, 39}, nodes[2].Output().Data())

	nodes[2].SetGradOutput(ndarray.Column(1, 1))
	require.NoError(t, nodes[2].Backward(nodes, 2))

	// grad·Bᵗ and Aᵗ·grad
	assert.Equal(t, []float64{5, 6, 5, 6}, nodes[0].Grad().Data())
	assert.Equal(t, []float64{4, 6}, nodes[1].Grad().Data())
}

func TestMulOp_ShapeError(t *testing.T) {
	nodes := []ops.Node[arr]{ops.Val(ndarray.Zeros(2, 3)), ops.Val(ndarray.Zeros(2, 3)), ops.Binary(0, 1, ops.Operation[arr](ops.MulOp[arr]{}))}
	_, err := nodes[2].Forward(nodes, 2)
	assert.ErrorIs(t, err, ndarray.ErrShape)
}

func TestActivations_Scalar(t *testing.T) {
	tests := []struct {
		name     string
		op       ops.Operation[ops.Scalar]
		in       ops.Scalar
		wantOut  float64
		wantGrad float64
	}{
		{"sigmoid at zero", ops.SigmoidOp[ops.Scalar]{}, 0, 0.5, 0.25},
		{"tanh at zero", ops.TanhOp[ops.Scalar]{}, 0, 0, 1},
		{"tanh at one", ops.TanhOp[ops.Scalar]{}, 1, math.Tanh(1), 1 - math.Tanh(1)*math.Tanh(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes := []ops.Node[ops.Scalar]{ops.Val(tt.in), ops.Unary(0, tt.op)}
			out, err := nodes[1].Forward(nodes, 1)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantOut, out.Float(), 1e-12)

			nodes[1].SetOutput(out)
			nodes[1].SetGradOutput(1)
			require.NoError(t, nodes[1].Backward(nodes, 1))
			assert.InDelta(t, tt.wantGrad, nodes[0].Grad().Float(), 1e-12)
		})
	}
}

func TestMSEOp(t *testing.T) {
	nodes := binaryNodes(t, ops.MSEOp[arr]{}, ndarray.Column(1, 2), ndarray.Column(3, 2))
	assert.Equal(t, []float64{2}, nodes[2].Output().Data())

	require.NoError(t, nodes[2].Backward(nodes, 2))
	assert.Equal(t, []float64{-2, 0}, nodes[0].Grad().Data())
	assert.Equal(t, []float64{1}, nodes[2].Grad().Data())
}

func TestBinaryCrossEntropyOp(t *testing.T) {
	p := ndarray.Column(0.8, 0.4)
	y := ndarray.Column(1, 0)
	nodes := binaryNodes(t, ops.BinaryCrossEntropyOp[arr]{}, p, y)

	want := -(math.Log(0.8) + math.Log(0.6))
	assert.InDelta(t, want, nodes[2].Output().At(0, 0), 1e-12)

	require.NoError(t, nodes[2].Backward(nodes, 2))
	grad := nodes[0].Grad()
	assert.InDelta(t, -0.2/(0.8*0.2), grad.At(0, 0), 1e-9)
	assert.InDelta(t, 0.4/(0.4*0.6), grad.At(1, 0), 1e-9)
}

func TestBinaryCrossEntropyOp_SaturatedIsFinite(t *testing.T) {
	nodes := binaryNodes(t, ops.BinaryCrossEntropyOp[arr]{}, ndarray.Column(0, 1), ndarray.Column(1, 0))
	loss := nodes[2].Output().At(0, 0)
	assert.False(t, math.IsInf(loss, 0) || math.IsNaN(loss))
}

func TestCategoricalCrossEntropyOp(t *testing.T) {
	logits := ndarray.MustFromRows([][]float64{{0, 0}, {0, 0}})
	y := ndarray.MustFromRows([][]float64{{1, 0}, {0, 1}})
	nodes := binaryNodes(t, ops.CategoricalCrossEntropyOp[arr]{}, logits, y)
	assert.InDelta(t, math.Ln2, nodes[2].Output().At(0, 0), 1e-12)

	require.NoError(t, nodes[2].Backward(nodes, 2))
	// (softmax - y) / rows
	assert.Equal(t, []float64{-0.25, 0.25, 0.25, -0.25}, nodes[0].Grad().Data())
}

func TestDefaultLossOp(t *testing.T) {
	nodes := []ops.Node[ops.Scalar]{ops.Val[ops.Scalar](4), ops.Unary(0, ops.Operation[ops.Scalar](ops.DefaultLossOp[ops.Scalar]{}))}
	out, err := nodes[1].Forward(nodes, 1)
	require.NoError(t, err)
	assert.Equal(t, ops.Scalar(4), out)

	nodes[1].SetOutput(out)
	require.NoError(t, nodes[1].Backward(nodes, 1))
	assert.Equal(t, ops.Scalar(4), nodes[1].Grad())
	assert.Equal(t, ops.Scalar(4), nodes[0].Grad())
}

func TestArityErrors(t *testing.T) {
	nodes := []ops.Node[ops.Scalar]{ops.Val[ops.Scalar](1), ops.Unary(0, ops.Operation[ops.Scalar](ops.AddOp[ops.Scalar]{}))}
	_, err := nodes[1].Forward(nodes, 1)
	assert.ErrorIs(t, err, ops.ErrArity)
	assert.ErrorIs(t, nodes[1].Backward(nodes, 1), ops.ErrArity)
}

func TestNode_CloneIsIndependent(t *testing.T) {
	n := ops.Val(ndarray.Column(1, 2))
	n.AddUpstream(3)
	c := n.Clone()

	n.AddUpstream(4)
	n.SetOutput(ndarray.Column(9, 9))
	n.SetParam(true)

	assert.Equal(t, []int{3}, c.Upstream())
	assert.Equal(t, []float64{1, 2}, c.Output().Data())
	assert.False(t, c.IsParam())
	assert.Equal(t, ops.NameDefaultValue, c.Operation().Name())
}

func TestTensor(t *testing.T) {
	tn := ops.NewTensor(ndarray.Column(1, 2))
	assert.Equal(t, []float64{0, 0}, tn.Grad().Data())

	assert.True(t, ops.DefaultTensor[arr]().Value().IsEmpty())
}

func TestScalar_Value(t *testing.T) {
	s := ops.Scalar(3)
	d, err := s.Dot(4)
	require.NoError(t, err)
	assert.Equal(t, ops.Scalar(12), d)
	assert.Equal(t, s, s.Transpose())
	assert.Equal(t, ops.Scalar(1), s.SoftmaxRows())
	assert.Equal(t, ops.Scalar(7), s.Fill(7))
	assert.InDelta(t, 3.0, s.Sum(), 0)
	assert.Equal(t, 1, s.Len())
}
