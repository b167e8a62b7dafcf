package graph

import (
	"github.com/chazu/donutdate/pkg/geom"
	"github.com/chazu/donutdate/pkg/kernel"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// NodeID is a content-addressed identifier for scene nodes: the SHA-1 UUID
// of the node's path within the script.
type NodeID uuid.UUID

// ZeroID is the unset NodeID.
var ZeroID NodeID

// idNamespace scopes node IDs to this project.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/chazu/donutdate/scene"))

// NewNodeID derives a stable NodeID from a path such as "text/date".
func NewNodeID(path string) NodeID {
	return NodeID(uuid.NewSHA1(idNamespace, []byte(path)))
}

// IsZero reports whether the ID is unset.
func (id NodeID) IsZero() bool { return id == ZeroID }

// String returns the canonical UUID form.
func (id NodeID) String() string { return uuid.UUID(id).String() }

// Short returns the first eight hex digits, enough for log lines.
func (id NodeID) Short() string { return id.String()[:8] }

// MarshalText implements encoding.TextMarshaler.
func (id NodeID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *NodeID) UnmarshalText(data []byte) error {
	var u uuid.UUID
	if err := u.UnmarshalText(data); err != nil {
		return err
	}
	*id = NodeID(u)
	return nil
}

// NodeKind enumerates the types of nodes in the scene graph.
type NodeKind int

const (
	NodeGroup NodeKind = iota // grouping with its own transform
	NodeText                  // extruded text line
	NodeTorus                 // donut
	NodeBox                   // rectangular solid
)

func (k NodeKind) String() string {
	switch k {
	case NodeGroup:
		return "group"
	case NodeText:
		return "text"
	case NodeTorus:
		return "torus"
	case NodeBox:
		return "box"
	default:
		return "unknown"
	}
}

// HasGeometry reports whether nodes of this kind carry a mesh.
func (k NodeKind) HasGeometry() bool {
	return k == NodeText || k == NodeTorus || k == NodeBox
}

// Node is the fundamental element of the scene graph.
type Node struct {
	ID        NodeID    `json:"id"`
	Kind      NodeKind  `json:"kind"`
	Name      string    `json:"name,omitempty"`
	Children  []NodeID  `json:"children,omitempty"`
	Transform Transform `json:"transform"`
	Data      NodeData  `json:"data"`

	world       mgl64.Mat4
	hasWorld    bool
	shape       kernel.Solid
	localBounds *geom.Box
}

// NodeData is the interface for kind-specific node payloads.
type NodeData interface {
	nodeData() // marker method restricting implementations to this package
}
