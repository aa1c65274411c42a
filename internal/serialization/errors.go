package serialization

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrNodesFileNotFound    = errors.New("graph nodes file not found")
	ErrMetadataFileNotFound = errors.New("graph metadata file not found")
	ErrAmbiguousGraphFiles  = errors.New("more than one graph found in directory")
	ErrUnknownOperation     = errors.New("unknown operation")
	ErrChecksumMismatch     = errors.New("checksum mismatch: nodes file may be corrupted")
	ErrFileTooLarge         = errors.New("graph file exceeds maximum size")
)

// ValidationError provides detailed information about validation failures.
type ValidationError struct {
	Type    string // Type of error (e.g., "input_out_of_range", "bad_path")
	Node    int    // Node index involved, -1 if none
	Details string // Additional details
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Node >= 0 {
		return fmt.Sprintf("%s: node %d: %s", e.Type, e.Node, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Details)
}
