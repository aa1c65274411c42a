package autodiff

import (
	"maps"
	"slices"

	"github.com/dendrite-ml/dendrite/internal/autodiff/ops"
)

// Registry maps operation names to operations. Each graph owns one.
type Registry[T Value[T]] struct {
	byName map[string]Operation[T]
}

// NewRegistry returns a registry holding the built-in operations.
func NewRegistry[T Value[T]]() *Registry[T] {
	r := &Registry[T]{byName: make(map[string]Operation[T])}
	for _, op := range ops.Builtins[T]() {
		r.Register(op)
	}
	return r
}

// Register adds op under op.Name(), replacing any previous entry.
func (r *Registry[T]) Register(op Operation[T]) {
	r.byName[op.Name()] = op
}

// Lookup returns the operation registered under name.
func (r *Registry[T]) Lookup(name string) (Operation[T], bool) {
	op, ok := r.byName[name]
	return op, ok
}

// Names returns the registered names in sorted order.
func (r *Registry[T]) Names() []string {
	return slices.Sorted(maps.Keys(r.byName))
}

// Len returns the number of registered operations.
func (r *Registry[T]) Len() int { return len(r.byName) }
