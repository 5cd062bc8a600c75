// Package graph holds material graphs: nodes, their typed pins, and the
// connections between output and input pins.
//
// Nodes and pins live in arenas indexed by id. Ids are drawn from a single
// counter and never reused, so a stale id fails lookup instead of aliasing
// a newer node. Connections always form a DAG; Connect refuses edges that
// would close a cycle.
package graph

import (
	"fmt"
	"slices"
)

// Connection is a directed edge from an output pin to an input pin.
type Connection struct {
	SourceNode NodeID
	Source     PinID
	TargetNode NodeID
	Target     PinID
}

// Graph owns nodes, pins and connections.
//
// A Graph is not safe for concurrent use. Compilation only reads it.
type Graph struct {
	nextID uint32

	nodes []*Node
	pins  []*Pin

	// links keeps connections in insertion order.
	links []Connection

	// sources maps an input pin to its single incoming connection.
	sources map[PinID]Connection
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:   make([]*Node, 1),
		pins:    make([]*Pin, 1),
		sources: make(map[PinID]Connection),
	}
}

// UniqueID returns a fresh id. Ids start at 1 and increase monotonically.
func (g *Graph) UniqueID() uint32 {
	g.nextID++
	return g.nextID
}

// AddNode registers a node and allocates ids for it and its pins.
func (g *Graph) AddNode(spec NodeSpec) *Node {
	n := &Node{
		ID:            NodeID(g.UniqueID()),
		Name:          spec.Name,
		Type:          spec.Type,
		Kind:          spec.Kind,
		Removable:     !spec.Static && !spec.Pinned,
		Static:        spec.Static,
		OverwriteMode: spec.OverwriteMode,
		Overwrite:     spec.Overwrite,
		Meta:          spec.Meta,
	}
	g.store(uint32(n.ID))
	g.nodes[n.ID] = n

	for _, ps := range spec.Inputs {
		ps.Kind = Input
		n.Inputs = append(n.Inputs, g.addPin(n.ID, ps))
	}
	for _, ps := range spec.Outputs {
		ps.Kind = Output
		n.Outputs = append(n.Outputs, g.addPin(n.ID, ps))
	}
	return n
}

func (g *Graph) addPin(node NodeID, ps PinSpec) PinID {
	p := &Pin{
		ID:        PinID(g.UniqueID()),
		Node:      node,
		Name:      ps.Name,
		Kind:      ps.Kind,
		Declared:  ps.Type,
		Flags:     ps.Flags,
		Broadcast: ps.Broadcast,
		Default:   ps.Default,
	}
	if p.Fixed() {
		p.Type = p.Declared
	}
	g.store(uint32(p.ID))
	g.pins[p.ID] = p
	return p.ID
}

// store grows both arenas so that id is addressable.
func (g *Graph) store(id uint32) {
	for uint32(len(g.nodes)) <= id {
		g.nodes = append(g.nodes, nil)
	}
	for uint32(len(g.pins)) <= id {
		g.pins = append(g.pins, nil)
	}
}

// RemoveNode deletes a node, its pins and every connection touching them.
func (g *Graph) RemoveNode(id NodeID) error {
	n := g.Node(id)
	if n == nil {
		return &Error{Kind: ErrNodeNotFound, Message: fmt.Sprintf("node %d does not exist", id), Nodes: []NodeID{id}}
	}
	if !n.Removable {
		return &Error{Kind: ErrNodeNotRemovable, Message: fmt.Sprintf("node %d (%s) cannot be removed", id, n.Name), Nodes: []NodeID{id}}
	}

	g.links = slices.DeleteFunc(g.links, func(c Connection) bool {
		if c.SourceNode == id || c.TargetNode == id {
			delete(g.sources, c.Target)
			return true
		}
		return false
	})
	for _, pid := range n.Inputs {
		g.pins[pid] = nil
	}
	for _, pid := range n.Outputs {
		g.pins[pid] = nil
	}
	g.nodes[id] = nil
	return nil
}

// Node returns the node with the given id, or nil.
func (g *Graph) Node(id NodeID) *Node {
	if int(id) >= len(g.nodes) {
		return nil
	}
	return g.nodes[id]
}

// Pin returns the pin with the given id, or nil.
func (g *Graph) Pin(id PinID) *Pin {
	if int(id) >= len(g.pins) {
		return nil
	}
	return g.pins[id]
}

// PinByName returns the pin of node called name, or nil.
func (g *Graph) PinByName(node NodeID, name string) *Pin {
	n := g.Node(node)
	if n == nil {
		return nil
	}
	for _, pid := range n.Inputs {
		if p := g.pins[pid]; p.Name == name {
			return p
		}
	}
	for _, pid := range n.Outputs {
		if p := g.pins[pid]; p.Name == name {
			return p
		}
	}
	return nil
}

// Nodes returns all nodes in ascending id order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

// NodeCount returns the number of live nodes.
func (g *Graph) NodeCount() int {
	count := 0
	for _, n := range g.nodes {
		if n != nil {
			count++
		}
	}
	return count
}

// Connections returns a copy of the connection set in insertion order.
func (g *Graph) Connections() []Connection {
	return slices.Clone(g.links)
}

// Source returns the connection feeding the input pin, if any.
func (g *Graph) Source(input PinID) (Connection, bool) {
	c, ok := g.sources[input]
	return c, ok
}

// Consumers returns the connections leaving the output pin.
func (g *Graph) Consumers(output PinID) []Connection {
	var out []Connection
	for _, c := range g.links {
		if c.Source == output {
			out = append(out, c)
		}
	}
	return out
}

// Terminals returns every Output node in ascending id order.
func (g *Graph) Terminals() []*Node {
	var out []*Node
	for _, n := range g.nodes {
		if n != nil && n.IsTerminal() {
			out = append(out, n)
		}
	}
	return out
}

// Terminal returns the first Output node, or nil.
func (g *Graph) Terminal() *Node {
	if t := g.Terminals(); len(t) > 0 {
		return t[0]
	}
	return nil
}

// Connect adds an edge from the output pin out to the input pin in.
//
// The graph is left unchanged when an error is returned.
func (g *Graph) Connect(out, in PinID) error {
	po, pi := g.Pin(out), g.Pin(in)
	if po == nil {
		return &Error{Kind: ErrPinNotFound, Message: fmt.Sprintf("pin %d does not exist", out), Pins: []PinID{out}}
	}
	if pi == nil {
		return &Error{Kind: ErrPinNotFound, Message: fmt.Sprintf("pin %d does not exist", in), Pins: []PinID{in}}
	}

	if po.Kind != Output || pi.Kind != Input {
		return connectionError(out, in, "cannot connect %s pin %q to %s pin %q", po.Kind, po.Name, pi.Kind, pi.Name)
	}
	if po.Node == pi.Node {
		return connectionError(out, in, "node %d cannot feed itself", po.Node)
	}
	if existing, ok := g.sources[in]; ok {
		return connectionError(out, in, "input pin %q already fed by pin %d", pi.Name, existing.Source)
	}
	if g.dependsOn(po.Node, pi.Node) {
		return connectionError(out, in, "connecting node %d to node %d would create a cycle", po.Node, pi.Node)
	}

	c := Connection{SourceNode: po.Node, Source: out, TargetNode: pi.Node, Target: in}
	g.links = append(g.links, c)
	g.sources[in] = c
	return nil
}

// Disconnect removes the connection feeding the input pin.
func (g *Graph) Disconnect(in PinID) error {
	if _, ok := g.sources[in]; !ok {
		return &Error{Kind: ErrPinNotFound, Message: fmt.Sprintf("input pin %d has no source", in), Pins: []PinID{in}}
	}
	delete(g.sources, in)
	g.links = slices.DeleteFunc(g.links, func(c Connection) bool {
		return c.Target == in
	})
	return nil
}

// dependsOn reports whether node from reads, directly or transitively,
// from node target.
func (g *Graph) dependsOn(from, target NodeID) bool {
	visited := make(map[NodeID]bool)
	stack := []NodeID{from}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id == target {
			return true
		}
		if visited[id] {
			continue
		}
		visited[id] = true

		n := g.Node(id)
		if n == nil {
			continue
		}
		for _, pid := range n.Inputs {
			if c, ok := g.sources[pid]; ok {
				stack = append(stack, c.SourceNode)
			}
		}
	}
	return false
}
