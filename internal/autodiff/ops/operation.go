// Package ops defines the node, tensor and operation types of the
// computation graph, together with the built-in operations.
//
// Each operation implements the Operation interface, which provides:
//   - Name: a stable tag used as registry key and serialized identifier
//   - Forward: computes a node's output from the outputs of its inputs
//   - Backward: pushes the node's own gradient onto its inputs
//
// Supported operations:
//   - AddOp: addition with row broadcasting (d(a+b)/da = 1, d(a+b)/db = 1)
//   - SubOp: subtraction with row broadcasting; backward is the dot-style contraction (aᵗ·grad, gradᵗ·b)
//   - MulOp: matrix product (d(A·B)/dA = grad·Bᵗ, d(A·B)/dB = Aᵗ·grad)
//   - SigmoidOp, TanhOp: elementwise activations
//   - MSEOp, BinaryCrossEntropyOp, CategoricalCrossEntropyOp: losses reducing to 1x1
//   - DefaultLossOp: identity placeholder loss
//   - DefaultValueOp: marker carried by leaf nodes
package ops

import "github.com/pkg/errors"

// Value is the numeric contract a graph element type must satisfy.
//
// Implementations have value semantics: methods return new values and never
// mutate the receiver. Shape problems are reported through the error
// results and are not intercepted by the graph.
type Value[T any] interface {
	Clone() T
	Rows() int
	Cols() int
	Len() int

	// Add and Sub broadcast an operand with a single row over the other.
	Add(other T) (T, error)
	Sub(other T) (T, error)
	// Mul is the elementwise product.
	Mul(other T) (T, error)
	// Dot is the matrix product.
	Dot(other T) (T, error)
	Transpose() T

	Apply(f func(float64) float64) T
	Zip(other T, f func(x, y float64) float64) (T, error)
	Scale(s float64) T
	Sum() float64
	// SumRows returns the 1 x Cols column sums.
	SumRows() T
	SoftmaxRows() T

	// Fill returns a value shaped like the receiver with every element set to v.
	Fill(v float64) T
	// FromFloat returns the 1x1 value holding v.
	FromFloat(v float64) T
}

// Operation is the strategy attached to every node.
//
// Forward must be a pure function of the outputs of nodes[idx]'s inputs.
// Backward reads nodes[idx]'s own gradient and writes gradients into the
// node's inputs; loss operations ignore the incoming gradient and seed
// their inputs from the closed-form derivative instead.
//
// Operations are stateless values: copying the interface clones them.
type Operation[T Value[T]] interface {
	// Name returns the stable tag used for registry lookup and serialization.
	Name() string

	// Forward computes the output of node idx.
	Forward(nodes []Node[T], idx int) (T, error)

	// Backward propagates the gradient of node idx onto its inputs.
	Backward(nodes []Node[T], idx int) error
}

// Built-in operation tags.
const (
	NameDefaultValue            = "DefaultValue"
	NameAdd                     = "Add"
	NameSub                     = "Sub"
	NameMul                     = "Mul"
	NameSigmoid                 = "Sigmoid"
	NameTanh                    = "Tanh"
	NameMSE                     = "MSE"
	NameBinaryCrossEntropy      = "BinaryCrossEntropy"
	NameCategoricalCrossEntropy = "CategoricalCrossEntropy"
	NameDefaultLossFunction     = "DefaultLossFunction"
)

// ErrArity is returned when a node has the wrong number of inputs for its operation.
var ErrArity = errors.New("ops: wrong number of inputs")

// Builtins returns one instance of every built-in operation.
func Builtins[T Value[T]]() []Operation[T] {
	return []Operation[T]{
		DefaultValueOp[T]{},
		AddOp[T]{},
		SubOp[T]{},
		MulOp[T]{},
		SigmoidOp[T]{},
		TanhOp[T]{},
		MSEOp[T]{},
		BinaryCrossEntropyOp[T]{},
		CategoricalCrossEntropyOp[T]{},
		DefaultLossOp[T]{},
	}
}
