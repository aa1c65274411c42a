package serialization

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// Write saves a graph's node records and metadata into dir, creating it if
// needed. Existing files for the same directory are overwritten.
//
// The checksum of the nodes document is stored in the metadata; any value
// already in meta.NodesSHA256 is replaced.
func Write[T any](dir string, nodes []NodeRecord[T], meta Metadata) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return errors.Wrapf(err, "failed to create graph directory %s", dir)
	}

	nodesJSON, err := json.MarshalIndent(nodes, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal nodes")
	}

	meta.NodesSHA256 = ComputeChecksum(nodesJSON)
	metaJSON, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal metadata")
	}

	if err := writeFile(NodesPath(dir), nodesJSON); err != nil {
		return err
	}
	return writeFile(MetadataPath(dir), metaJSON)
}

func writeFile(path string, data []byte) error {
	//nolint:gosec // G306: graph files are not secrets
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}
