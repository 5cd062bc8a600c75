package document

import (
	"fmt"
	"slices"

	"github.com/gogpu/matgraph/graph"
	"github.com/gogpu/matgraph/nodes"
	"github.com/gogpu/matgraph/types"
)

// Meta is the editor data Build attaches to every graph node. FromGraph
// reads it back so ids, parameters and positions survive editing.
type Meta struct {
	ID       uint32
	Params   nodes.Params
	Position *Position
}

// spec builds the node through the catalog and applies its default
// overrides.
func (n Node) spec() (graph.NodeSpec, error) {
	spec, err := nodes.Build(n.Type, n.Params)
	if err != nil {
		return graph.NodeSpec{}, err
	}
	if len(n.Defaults) > 0 {
		spec.Inputs = slices.Clone(spec.Inputs)
	}
	for name, lit := range n.Defaults {
		i := pinIndex(spec.Inputs, name)
		if i < 0 {
			return graph.NodeSpec{}, fmt.Errorf("default for unknown input %q", name)
		}
		spec.Inputs[i].Default = lit.value()
	}
	spec.Meta = &Meta{ID: n.ID, Params: n.Params, Position: n.Position}
	return spec, nil
}

func pinIndex(pins []graph.PinSpec, name string) int {
	return slices.IndexFunc(pins, func(p graph.PinSpec) bool { return p.Name == name })
}

// Build creates the graph described by the document. Node ids are
// reassigned by the graph; the document id of each node is kept in its
// Meta.
//
// Connection errors are *graph.Error values wrapped with the index of
// the failing connection.
func (d *Document) Build() (*graph.Graph, error) {
	g := graph.New()
	ids := make(map[uint32]graph.NodeID, len(d.Nodes))
	for _, n := range d.Nodes {
		if _, dup := ids[n.ID]; dup {
			return nil, fmt.Errorf("document: duplicate node id %d", n.ID)
		}
		spec, err := n.spec()
		if err != nil {
			return nil, fmt.Errorf("document: node %d: %w", n.ID, err)
		}
		ids[n.ID] = g.AddNode(spec).ID
	}

	for i, c := range d.Connections {
		src, err := lookupPin(g, ids, c.From, graph.Output)
		if err != nil {
			return nil, fmt.Errorf("document: connection %d: %w", i, err)
		}
		dst, err := lookupPin(g, ids, c.To, graph.Input)
		if err != nil {
			return nil, fmt.Errorf("document: connection %d: %w", i, err)
		}
		if err := g.Connect(src, dst); err != nil {
			return nil, fmt.Errorf("document: connection %d: %w", i, err)
		}
	}
	return g, nil
}

func lookupPin(g *graph.Graph, ids map[uint32]graph.NodeID, e Endpoint, kind graph.PinKind) (graph.PinID, error) {
	id, ok := ids[e.Node]
	if !ok {
		return 0, graph.NewError(graph.ErrNodeNotFound, fmt.Sprintf("no node %d", e.Node))
	}
	n := g.Node(id)
	pins := n.Inputs
	if kind == graph.Output {
		pins = n.Outputs
	}
	for _, pid := range pins {
		if g.Pin(pid).Name == e.Pin {
			return pid, nil
		}
	}
	return 0, graph.NewError(graph.ErrPinNotFound, fmt.Sprintf("node %d (%s) has no %s pin %q", e.Node, n.Type, kind, e.Pin))
}

// FromGraph converts g into a document named name.
//
// Nodes created by Build keep their document id, parameters and
// position. Other nodes get fresh ids above the largest one in use and
// parameters recovered from their kind. Every node must come from the
// catalog.
func FromGraph(g *graph.Graph, name string) (*Document, error) {
	all := g.Nodes()
	var next uint32
	for _, n := range all {
		if m, ok := n.Meta.(*Meta); ok {
			next = max(next, m.ID)
		}
	}

	doc := &Document{Version: Version, Name: name, Nodes: make([]Node, 0, len(all))}
	ids := make(map[graph.NodeID]uint32, len(all))
	used := make(map[uint32]bool, len(all))
	for _, n := range all {
		if _, ok := nodes.Lookup(n.Type); !ok {
			return nil, fmt.Errorf("document: node %d: %q is not a catalog node type", n.ID, n.Type)
		}
		dn := Node{Type: n.Type}
		if m, ok := n.Meta.(*Meta); ok && m.ID != 0 && !used[m.ID] {
			dn.ID, dn.Params, dn.Position = m.ID, m.Params, m.Position
		} else {
			next++
			dn.ID = next
			dn.Params = paramsOf(g, n)
		}
		used[dn.ID] = true
		ids[n.ID] = dn.ID

		defaults, err := overrides(g, n, dn.Params)
		if err != nil {
			return nil, fmt.Errorf("document: node %d: %w", n.ID, err)
		}
		dn.Defaults = defaults
		doc.Nodes = append(doc.Nodes, dn)
	}

	for _, c := range g.Connections() {
		doc.Connections = append(doc.Connections, Connection{
			From: Endpoint{Node: ids[c.SourceNode], Pin: g.Pin(c.Source).Name},
			To:   Endpoint{Node: ids[c.TargetNode], Pin: g.Pin(c.Target).Name},
		})
	}
	return doc, nil
}

// overrides returns the input defaults of n that differ from what the
// catalog builds for params.
func overrides(g *graph.Graph, n *graph.Node, params nodes.Params) (map[string]Literal, error) {
	spec, err := nodes.Build(n.Type, params)
	if err != nil {
		return nil, err
	}
	var out map[string]Literal
	for _, pid := range n.Inputs {
		p := g.Pin(pid)
		i := pinIndex(spec.Inputs, p.Name)
		if i >= 0 && spec.Inputs[i].Default == p.Default {
			continue
		}
		if p.Default.IsZero() {
			continue
		}
		if out == nil {
			out = make(map[string]Literal)
		}
		out[p.Name] = literalOf(p.Default)
	}
	return out, nil
}

// paramsOf recovers catalog parameters from a node built without a
// document.
func paramsOf(g *graph.Graph, n *graph.Node) nodes.Params {
	var p nodes.Params
	firstOut := func() *graph.Pin {
		if len(n.Outputs) == 0 {
			return nil
		}
		return g.Pin(n.Outputs[0])
	}

	switch k := n.Kind.(type) {
	case graph.Constant:
		if o := firstOut(); o != nil {
			p.Type, p.Value = o.Declared, o.Default.Values()
		}
	case graph.InputNode:
		p.Semantic = k.Semantic
		if o := firstOut(); o != nil {
			p.Type = o.Declared
		}
	case graph.Property:
		p.Resource, p.Slot = k.Buffer, slotParam(k.Slot)
		if o := firstOut(); o != nil {
			p.Type = o.Declared
			if !o.Default.IsZero() {
				p.Value = o.Default.Values()
			}
		}
	case graph.TextureSample:
		p.Resource, p.Sampler = k.Texture, k.Sampler
		p.Slot, p.SamplerSlot = slotParam(k.TextureSlot), slotParam(k.SamplerSlot)
		switch k.Dimension {
		case graph.TextureCube:
			p.Dimension = "cube"
		case graph.Texture3D:
			p.Dimension = "3d"
		}
		if o := firstOut(); o != nil && o.Declared != types.Float4 {
			p.Type = o.Declared
		}
	case graph.StorageLoad:
		p.Resource, p.View, p.Slot = k.Buffer, viewParam(k.View), slotParam(k.Slot)
		if o := firstOut(); o != nil {
			p.Type = o.Declared
		}
	case graph.StorageStore:
		p.Resource, p.View, p.Slot = k.Buffer, viewParam(k.View), slotParam(k.Slot)
		if v := g.PinByName(n.ID, "Value"); v != nil {
			p.Type = v.Declared
		}
	case graph.Swizzle:
		p.Mask = k.Mask
	}

	if spec, err := nodes.Build(n.Type, p); err == nil && spec.Name != n.Name {
		p.Name = n.Name
	}
	return p
}

func slotParam(slot int) *int {
	if slot == graph.AutoSlot {
		return nil
	}
	return &slot
}

func viewParam(v graph.ViewType) string {
	switch v {
	case graph.RWStructuredBuffer:
		return "structured"
	case graph.RWTexture2D:
		return "texture2d"
	}
	return ""
}
