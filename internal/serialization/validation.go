package serialization

import "fmt"

// Validation limits for resource protection.
const (
	MaxFileSize  = 512 * 1024 * 1024 // 512MB - maximum size of either document
	MaxNodeCount = 1_000_000         // Maximum number of nodes in a graph
)

// ValidationLevel controls the strictness of validation.
type ValidationLevel int

const (
	// ValidationStrict checks node edges and metadata indices (default).
	ValidationStrict ValidationLevel = iota
	// ValidationNone skips validation. Use only with trusted input.
	ValidationNone
)

// ValidateNodes checks that every edge refers to an existing node.
func ValidateNodes[T any](nodes []NodeRecord[T]) error {
	if len(nodes) > MaxNodeCount {
		return &ValidationError{
			Type:    "too_many_nodes",
			Node:    -1,
			Details: fmt.Sprintf("got %d, max %d", len(nodes), MaxNodeCount),
		}
	}

	n := len(nodes)
	for i, rec := range nodes {
		if rec.Operation == "" {
			return &ValidationError{Type: "missing_operation", Node: i, Details: "empty operation tag"}
		}
		for _, in := range rec.Inputs {
			// Construction order is topological: inputs precede their consumer.
			if in < 0 || in >= i {
				return &ValidationError{
					Type:    "input_out_of_range",
					Node:    i,
					Details: fmt.Sprintf("input %d not in [0, %d)", in, i),
				}
			}
		}
		for _, up := range rec.Upstream {
			if up <= i || up >= n {
				return &ValidationError{
					Type:    "upstream_out_of_range",
					Node:    i,
					Details: fmt.Sprintf("upstream %d not in (%d, %d)", up, i, n),
				}
			}
		}
	}
	return nil
}

// ValidateMetadata checks metadata indices against a graph of n nodes.
func ValidateMetadata(meta *Metadata, n int) error {
	if meta.CurrNodeIdx < -1 || meta.CurrNodeIdx >= n {
		return &ValidationError{
			Type:    "bad_curr_node",
			Node:    -1,
			Details: fmt.Sprintf("curr_node_idx %d not in [-1, %d)", meta.CurrNodeIdx, n),
		}
	}

	lists := []struct {
		name string
		idx  []int
	}{
		{"path", meta.Path},
		{"variables", meta.Variables},
		{"operations", meta.Operations},
	}
	for _, l := range lists {
		for _, i := range l.idx {
			if i < 0 || i >= n {
				return &ValidationError{
					Type:    "bad_" + l.name,
					Node:    i,
					Details: fmt.Sprintf("%s index not in [0, %d)", l.name, n),
				}
			}
		}
	}
	return nil
}

// Validate performs full validation of a decoded graph.
func Validate[T any](nodes []NodeRecord[T], meta *Metadata, level ValidationLevel) error {
	if level == ValidationNone {
		return nil
	}
	if err := ValidateNodes(nodes); err != nil {
		return err
	}
	return ValidateMetadata(meta, len(nodes))
}
