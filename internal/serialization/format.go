package serialization

import (
	"path/filepath"

	"github.com/google/uuid"
)

// File name suffixes. Readers match on the "_nodes" and "_metadata" markers.
const (
	NodesMarker    = "_nodes"
	MetadataMarker = "_metadata"
	NodesSuffix    = NodesMarker + ".json"
	MetadataSuffix = MetadataMarker + ".json"
)

// graphNamespace is the UUID namespace for graph file prefixes.
var graphNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("dendrite.graph"))

// TensorRecord is the persisted value/gradient pair of a node.
type TensorRecord[T any] struct {
	Value T `json:"value"`
	Grad  T `json:"grad"`
}

// NodeRecord is the persisted form of one arena node.
type NodeRecord[T any] struct {
	IsParam   bool            `json:"is_param"`
	Inputs    []int           `json:"inputs"`
	Upstream  []int           `json:"upstream"`
	Value     TensorRecord[T] `json:"value"`
	Operation string          `json:"operation"` // operation tag, resolved through a registry
}

// Metadata is the persisted graph-level state.
type Metadata struct {
	Path        []int  `json:"path"`
	CurrNodeIdx int    `json:"curr_node_idx"`
	Variables   []int  `json:"variables"`
	Operations  []int  `json:"operations"`
	NodesSHA256 string `json:"nodes_sha256,omitempty"` // hex checksum of the nodes document
}

// FilePrefix returns the name-based UUID shared by both files of the graph
// saved in dir. The prefix depends on the directory's base name only.
func FilePrefix(dir string) string {
	base := filepath.Base(filepath.Clean(dir))
	return uuid.NewSHA1(graphNamespace, []byte(base)).String()
}

// NodesPath returns the nodes document path for dir.
func NodesPath(dir string) string {
	return filepath.Join(dir, FilePrefix(dir)+NodesSuffix)
}

// MetadataPath returns the metadata document path for dir.
func MetadataPath(dir string) string {
	return filepath.Join(dir, FilePrefix(dir)+MetadataSuffix)
}
