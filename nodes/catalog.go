// Package nodes is the built-in node library.
//
// Every entry turns a small set of parameters into a graph.NodeSpec ready
// for graph.AddNode. Entries are registered by name; Build is the entry
// point used by graph documents and tools:
//
//	spec, err := nodes.Build("Add", nodes.Params{})
//	add := g.AddNode(spec)
package nodes

import (
	"fmt"
	"sort"

	"github.com/gogpu/matgraph/graph"
	"github.com/gogpu/matgraph/types"
)

// Categories group entries for listing.
const (
	CategoryMath      = "Math"
	CategoryIntrinsic = "Intrinsic"
	CategorySource    = "Source"
	CategoryTexture   = "Texture"
	CategoryStorage   = "Storage"
	CategoryVector    = "Vector"
	CategoryMethod    = "Method"
	CategoryOutput    = "Output"
)

// Params are the static parameters of a node. Each entry reads the
// fields it needs and ignores the rest.
type Params struct {
	// Name overrides the display name.
	Name string `yaml:"name,omitempty" json:"name,omitempty"`

	// Type is the value type of constants, inputs, properties and storage
	// nodes.
	Type types.PinType `yaml:"type,omitempty" json:"type,omitempty"`

	// Value holds the components of a constant or property default.
	Value []float64 `yaml:"value,omitempty" json:"value,omitempty" validate:"max=4"`

	// Semantic binds an input node to a pixel input semantic.
	Semantic string `yaml:"semantic,omitempty" json:"semantic,omitempty"`

	// Resource names the texture, buffer or constant buffer.
	Resource string `yaml:"resource,omitempty" json:"resource,omitempty"`

	// Sampler names the sampler state of a texture sample.
	Sampler string `yaml:"sampler,omitempty" json:"sampler,omitempty"`

	// Slot and SamplerSlot request explicit registers.
	Slot        *int `yaml:"slot,omitempty" json:"slot,omitempty" validate:"omitempty,min=0"`
	SamplerSlot *int `yaml:"sampler_slot,omitempty" json:"sampler_slot,omitempty" validate:"omitempty,min=0"`

	// Mask is the component selection of a swizzle.
	Mask string `yaml:"mask,omitempty" json:"mask,omitempty" validate:"omitempty,max=4"`

	// Dimension is the texture type: 2d (default), cube or 3d.
	Dimension string `yaml:"dimension,omitempty" json:"dimension,omitempty" validate:"omitempty,oneof=2d cube 3d"`

	// View is the unordered access view wrapper: buffer (default),
	// structured or texture2d.
	View string `yaml:"view,omitempty" json:"view,omitempty" validate:"omitempty,oneof=buffer structured texture2d"`
}

// slot returns the requested register or graph.AutoSlot.
func slot(s *int) int {
	if s == nil || *s < 0 {
		return graph.AutoSlot
	}
	return *s
}

// Entry describes one node type.
type Entry struct {
	Name        string
	Category    string
	Description string

	// New builds the node from its parameters.
	New func(Params) (graph.NodeSpec, error)
}

var registry = map[string]Entry{}

func register(e Entry) {
	if _, dup := registry[e.Name]; dup {
		panic("nodes: duplicate entry " + e.Name)
	}
	registry[e.Name] = e
}

// Lookup returns the entry registered under name.
func Lookup(name string) (Entry, bool) {
	e, ok := registry[name]
	return e, ok
}

// Names returns the registered entry names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns the registered entries sorted by category, then name.
func All() []Entry {
	out := make([]Entry, 0, len(registry))
	for _, e := range registry {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Build creates the spec of the named entry.
func Build(name string, p Params) (graph.NodeSpec, error) {
	e, ok := registry[name]
	if !ok {
		return graph.NodeSpec{}, &Error{Node: name, Message: "unknown node type"}
	}
	spec, err := e.New(p)
	if err != nil {
		return graph.NodeSpec{}, err
	}
	spec.Type = e.Name
	if p.Name != "" {
		spec.Name = p.Name
	}
	if spec.Name == "" {
		spec.Name = e.Name
	}
	return spec, nil
}

// Error reports an unknown node type or an unusable parameter.
type Error struct {
	Node    string
	Param   string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("nodes: %s: parameter %s: %s", e.Node, e.Param, e.Message)
	}
	return fmt.Sprintf("nodes: %s: %s", e.Node, e.Message)
}

func paramError(node, param, format string, args ...any) *Error {
	return &Error{Node: node, Param: param, Message: fmt.Sprintf(format, args...)}
}

// Pin helpers.

func in(name string, t types.PinType) graph.PinSpec {
	return graph.PinSpec{Name: name, Kind: graph.Input, Type: t}
}

// inferred returns an input that takes the promoted type of its peers,
// defaulting to the scalar def when unconnected.
func inferred(name string, def float64) graph.PinSpec {
	return graph.PinSpec{
		Name:    name,
		Kind:    graph.Input,
		Flags:   graph.FlagInferType,
		Default: types.Scalar(types.KindFloat, def),
	}
}

func out(name string, t types.PinType) graph.PinSpec {
	return graph.PinSpec{Name: name, Kind: graph.Output, Type: t}
}

func inferredOut(name string) graph.PinSpec {
	return graph.PinSpec{Name: name, Kind: graph.Output, Flags: graph.FlagInferType}
}
