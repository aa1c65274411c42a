// Package serialization implements the on-disk format of computation graphs.
//
// A saved graph is a directory holding two JSON documents that share a
// name-based UUID prefix derived from the directory name:
//
//	<uuid>_nodes.json     array of node records in arena order
//	<uuid>_metadata.json  path, current node, variables, operations
//
// Node records carry the operation tag instead of the operation itself; the
// caller resolves tags against its own operation registry. The metadata
// document also stores the SHA-256 checksum of the nodes document, which is
// verified on read.
//
// Example usage:
//
//	// Save
//	err := serialization.Write(dir, records, meta)
//
//	// Load
//	records, meta, err := serialization.Read[float64](dir)
//
// The package is generic over the value type and knows nothing about
// operations or graphs; value types serialize themselves through
// encoding/json.
package serialization
