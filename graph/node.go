package graph

import "github.com/gogpu/matgraph/types"

// NodeID identifies a node. Ids come from the graph-wide counter shared
// with pins and are never reused.
type NodeID uint32

// NodeSpec describes a node before it is registered in a graph.
type NodeSpec struct {
	// Name is the display name; generated identifiers derive from it.
	Name string

	// Type is the catalog entry the spec was built from.
	Type string

	Kind Kind

	Inputs  []PinSpec
	Outputs []PinSpec

	// Static marks compiler-internal nodes such as the terminal output.
	// Static nodes cannot be removed.
	Static bool

	// Pinned prevents removal without making the node static.
	Pinned bool

	// OverwriteMode forces every output pin to Overwrite regardless of
	// the inferred input type.
	OverwriteMode bool
	Overwrite     types.PinType

	// Meta is editor data carried through the graph untouched.
	Meta any
}

// Node is a unit of computation registered in a graph.
type Node struct {
	ID   NodeID
	Name string
	Type string
	Kind Kind

	// Inputs and Outputs list pin ids in declaration order.
	Inputs  []PinID
	Outputs []PinID

	Removable bool
	Static    bool

	OverwriteMode bool
	Overwrite     types.PinType

	Meta any
}

// IsTerminal reports whether the node is the graph output.
func (n *Node) IsTerminal() bool {
	_, ok := n.Kind.(OutputNode)
	return ok
}
