package ops

// Tensor holds the current value of a node and the gradient of the loss
// with respect to that value.
type Tensor[T Value[T]] struct {
	value T
	grad  T
}

// NewTensor creates a tensor holding value with a zero gradient of the same shape.
func NewTensor[T Value[T]](value T) Tensor[T] {
	return Tensor[T]{
		value: value.Clone(),
		grad:  value.Fill(0),
	}
}

// RestoreTensor creates a tensor from a persisted value/gradient pair.
func RestoreTensor[T Value[T]](value, grad T) Tensor[T] {
	return Tensor[T]{value: value, grad: grad}
}

// DefaultTensor returns the zero placeholder held by operation nodes until
// their first forward pass.
func DefaultTensor[T Value[T]]() Tensor[T] {
	return Tensor[T]{}
}

// Value returns a copy of the stored value.
func (t Tensor[T]) Value() T {
	return t.value.Clone()
}

// Grad returns a copy of the stored gradient.
func (t Tensor[T]) Grad() T {
	return t.grad.Clone()
}

// SetValue replaces the stored value.
func (t *Tensor[T]) SetValue(v T) {
	t.value = v
}

// SetGrad replaces the stored gradient.
func (t *Tensor[T]) SetGrad(g T) {
	t.grad = g
}
