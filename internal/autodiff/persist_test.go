package autodiff_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dendrite-ml/dendrite/internal/autodiff"
	"github.com/dendrite-ml/dendrite/internal/autodiff/ops"
	"github.com/dendrite-ml/dendrite/internal/ndarray"
	"github.com/dendrite-ml/dendrite/internal/serialization"
)

// fooOp is a user-defined operation: addition under another name.
type fooOp struct {
	ops.AddOp[autodiff.Scalar]
}

func (fooOp) Name() string { return "Foo" }

func TestSaveLoad_RoundTrip(t *testing.T) {
	g := linearGraph()
	g.MutNodeOutput(1, ndarray.Column(0.1, 0.2+1e-17, -1.0/3))
	require.NoError(t, g.Forward())
	require.NoError(t, g.Backward())

	dir := filepath.Join(t.TempDir(), "linear")
	require.NoError(t, g.Save(dir))

	loaded, err := autodiff.Load[ndarray.Array](dir)
	require.NoError(t, err)

	require.Equal(t, g.Len(), loaded.Len())
	assert.Equal(t, g.Path(), loaded.Path())
	assert.Equal(t, g.CurrNodeIdx(), loaded.CurrNodeIdx())
	assert.Equal(t, g.Variables(), loaded.Variables())
	assert.Equal(t, g.Operations(), loaded.Operations())
	assert.Equal(t, g.Parameters(), loaded.Parameters())

	for i := 0; i < g.Len(); i++ {
		want, got := g.Node(i), loaded.Node(i)
		assert.Equal(t, want.IsParam(), got.IsParam(), "node %d", i)
		assert.Equal(t, want.Inputs(), got.Inputs(), "node %d", i)
		assert.Equal(t, want.Upstream(), got.Upstream(), "node %d", i)
		assert.Equal(t, want.Operation().Name(), got.Operation().Name(), "node %d", i)
		assert.True(t, want.Output().Equal(got.Output()), "node %d output", i)
		assert.True(t, want.Grad().Equal(got.Grad()), "node %d grad", i)
	}

	// The reloaded graph runs.
	require.NoError(t, loaded.Forward())
	require.NoError(t, loaded.Backward())
	assert.True(t, g.Node(6).Output().Equal(loaded.Node(6).Output()))
	assert.True(t, g.Node(1).Grad().Equal(loaded.Node(1).Grad()))
}

func TestSaveLoad_UnexecutedGraph(t *testing.T) {
	g := autodiff.New[ndarray.Array]()
	g.Add(ndarray.Zeros(2, 2), ndarray.Full(2, 2, 1)).Sigmoid()

	dir := filepath.Join(t.TempDir(), "fresh")
	require.NoError(t, g.Save(dir))

	loaded, err := autodiff.Load[ndarray.Array](dir)
	require.NoError(t, err)
	assert.Empty(t, loaded.Path())
	assert.True(t, loaded.Node(3).Output().IsEmpty())

	require.NoError(t, loaded.Forward())
	assert.Equal(t, []int{2, 3}, loaded.Path())
}

func TestSaveLoad_ScalarAndExtend(t *testing.T) {
	g := scalarChain()
	require.NoError(t, g.Forward())

	dir := filepath.Join(t.TempDir(), "scalar")
	require.NoError(t, g.Save(dir))

	loaded, err := autodiff.Load[autodiff.Scalar](dir)
	require.NoError(t, err)
	assert.Equal(t, autodiff.Scalar(2290), loaded.CurrNode().Output())

	// A loaded graph keeps growing from its last node.
	loaded.Add(10)
	assert.Equal(t, []int{8, 9}, loaded.CurrNode().Inputs())
	assert.Equal(t, []int{0, 1, 3, 5, 7, 9}, loaded.Variables())
	require.NoError(t, loaded.Forward())
	assert.Equal(t, autodiff.Scalar(2300), loaded.CurrNode().Output())
}

func TestLoad_CustomOperation(t *testing.T) {
	g := autodiff.New[autodiff.Scalar]()
	g.Binary(fooOp{}, 2, 3)
	require.NoError(t, g.Forward())

	dir := filepath.Join(t.TempDir(), "custom")
	require.NoError(t, g.Save(dir))

	_, err := autodiff.Load[autodiff.Scalar](dir)
	require.ErrorIs(t, err, autodiff.ErrUnknownOperation)
	assert.Contains(t, err.Error(), `"Foo"`)

	loaded, err := autodiff.Load(dir, autodiff.WithOperations[autodiff.Scalar](fooOp{}))
	require.NoError(t, err)
	assert.Equal(t, "Foo", loaded.CurrNode().Operation().Name())
	assert.Contains(t, loaded.Registry().Names(), "Foo")

	require.NoError(t, loaded.Forward())
	assert.Equal(t, autodiff.Scalar(5), loaded.CurrNode().Output())

	// Backward dispatches to the registered operation, not a stand-in.
	require.NoError(t, g.Backward())
	require.NoError(t, loaded.Backward())
	require.Equal(t, g.Len(), loaded.Len())
	for i := range g.Len() {
		assert.Equal(t, g.Node(i).Grad(), loaded.Node(i).Grad(), "node %d grad", i)
	}
	assert.Equal(t, autodiff.Scalar(1), loaded.Node(0).Grad())
	assert.Equal(t, autodiff.Scalar(1), loaded.Node(1).Grad())
}

func TestRegister_CustomOperation(t *testing.T) {
	g := autodiff.New[autodiff.Scalar]()
	g.Register(fooOp{})

	op, ok := g.Registry().Lookup("Foo")
	require.True(t, ok)
	assert.Equal(t, "Foo", op.Name())
	assert.Equal(t, 11, g.Registry().Len())
}

func TestLoad_Errors(t *testing.T) {
	t.Run("empty directory", func(t *testing.T) {
		_, err := autodiff.Load[autodiff.Scalar](t.TempDir())
		assert.ErrorIs(t, err, serialization.ErrNodesFileNotFound)
	})

	t.Run("missing metadata", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "g")
		require.NoError(t, scalarChain().Save(dir))
		require.NoError(t, os.Remove(serialization.MetadataPath(dir)))

		_, err := autodiff.Load[autodiff.Scalar](dir)
		assert.ErrorIs(t, err, serialization.ErrMetadataFileNotFound)
	})

	t.Run("two graphs in one directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "g")
		require.NoError(t, scalarChain().Save(dir))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "other_metadata.json"), []byte("{}"), 0o600))

		_, err := autodiff.Load[autodiff.Scalar](dir)
		assert.ErrorIs(t, err, serialization.ErrAmbiguousGraphFiles)
	})
}
