package serialization

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// ReaderOptions configures the behavior of Read.
type ReaderOptions struct {
	SkipChecksumValidation bool            // Skip checksum validation (faster but less safe)
	ValidationLevel        ValidationLevel // Validation strictness level
}

// Read loads the graph saved in dir with default options (strict validation).
func Read[T any](dir string) ([]NodeRecord[T], Metadata, error) {
	return ReadWithOptions[T](dir, ReaderOptions{ValidationLevel: ValidationStrict})
}

// ReadWithOptions loads the graph saved in dir.
//
// The directory must contain exactly one file whose name contains "_nodes"
// and exactly one whose name contains "_metadata"; the UUID prefix is not
// checked, so a directory that was renamed still loads.
func ReadWithOptions[T any](dir string, opts ReaderOptions) ([]NodeRecord[T], Metadata, error) {
	var meta Metadata

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, meta, errors.Wrapf(err, "failed to read graph directory %s", dir)
	}

	nodesPath, err := findFile(dir, entries, NodesMarker, ErrNodesFileNotFound)
	if err != nil {
		return nil, meta, err
	}
	metaPath, err := findFile(dir, entries, MetadataMarker, ErrMetadataFileNotFound)
	if err != nil {
		return nil, meta, err
	}

	nodesJSON, err := readFile(nodesPath)
	if err != nil {
		return nil, meta, err
	}
	metaJSON, err := readFile(metaPath)
	if err != nil {
		return nil, meta, err
	}

	if err := json.Unmarshal(metaJSON, &meta); err != nil {
		return nil, meta, errors.Wrapf(err, "failed to parse %s", metaPath)
	}
	if !opts.SkipChecksumValidation {
		if err := ValidateChecksum(nodesJSON, meta.NodesSHA256); err != nil {
			return nil, meta, errors.WithMessage(err, nodesPath)
		}
	}

	var nodes []NodeRecord[T]
	if err := json.Unmarshal(nodesJSON, &nodes); err != nil {
		return nil, meta, errors.Wrapf(err, "failed to parse %s", nodesPath)
	}

	if err := Validate(nodes, &meta, opts.ValidationLevel); err != nil {
		return nil, meta, errors.WithMessage(err, "invalid graph")
	}
	return nodes, meta, nil
}

// findFile returns the single regular file in entries whose name contains marker.
func findFile(dir string, entries []os.DirEntry, marker string, notFound error) (string, error) {
	var found []string
	for _, e := range entries {
		if e.IsDir() || !strings.Contains(e.Name(), marker) {
			continue
		}
		found = append(found, e.Name())
	}

	switch len(found) {
	case 0:
		return "", errors.WithMessage(notFound, dir)
	case 1:
		return filepath.Join(dir, found[0]), nil
	default:
		return "", errors.WithMessagef(ErrAmbiguousGraphFiles, "%s: %s", marker, strings.Join(found, ", "))
	}
}

func readFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to stat %s", path)
	}
	if info.Size() > MaxFileSize {
		return nil, errors.WithMessagef(ErrFileTooLarge, "%s is %d bytes", path, info.Size())
	}

	//nolint:gosec // G304: path is discovered inside the caller's directory
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	return data, nil
}
