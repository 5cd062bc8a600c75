package nodes

import (
	"github.com/gogpu/matgraph/graph"
	"github.com/gogpu/matgraph/types"
)

func init() {
	register(Entry{
		Name:        "Constant",
		Category:    CategorySource,
		Description: "A literal value.",
		New:         newConstant,
	})
	register(Entry{
		Name:        "Input",
		Category:    CategorySource,
		Description: "A member of the pixel input structure.",
		New:         newInput,
	})
	register(Entry{
		Name:        "Property",
		Category:    CategorySource,
		Description: "A constant buffer field set by the application.",
		New:         newProperty,
	})
	register(Entry{
		Name:        "TextureSample",
		Category:    CategoryTexture,
		Description: "Samples a texture at UV.",
		New:         newTextureSample,
	})
	register(Entry{
		Name:        "StorageLoad",
		Category:    CategoryStorage,
		Description: "Reads an element of an unordered access view.",
		New:         newStorageLoad,
	})
	register(Entry{
		Name:        "StorageStore",
		Category:    CategoryStorage,
		Description: "Writes an element of an unordered access view.",
		New:         newStorageStore,
	})
}

// valueType returns p.Type, or the arity implied by p.Value with kind
// float when no type is given.
func valueType(node string, p Params) (types.PinType, error) {
	if !p.Type.IsUnknown() {
		return p.Type, nil
	}
	if n := len(p.Value); n > 0 {
		if n > types.MaxArity {
			return types.Unknown, paramError(node, "value", "%d components, at most %d", n, types.MaxArity)
		}
		return types.New(types.KindFloat, uint8(n)), nil
	}
	return types.Float, nil
}

// literal converts the value components to t.
func literal(node string, t types.PinType, value []float64) (types.Value, error) {
	if len(value) == 0 {
		return types.Zero(t), nil
	}
	if len(value) != 1 && len(value) != int(t.Arity) {
		return types.Value{}, paramError(node, "value", "%d components for %s", len(value), t)
	}
	v := types.Vector(t.Kind, value...)
	return v.Convert(t), nil
}

func newConstant(p Params) (graph.NodeSpec, error) {
	t, err := valueType("Constant", p)
	if err != nil {
		return graph.NodeSpec{}, err
	}
	v, err := literal("Constant", t, p.Value)
	if err != nil {
		return graph.NodeSpec{}, err
	}
	o := out("Value", t)
	o.Default = v
	return graph.NodeSpec{
		Kind:    graph.Constant{},
		Outputs: []graph.PinSpec{o},
	}, nil
}

func newInput(p Params) (graph.NodeSpec, error) {
	t, err := valueType("Input", p)
	if err != nil {
		return graph.NodeSpec{}, err
	}
	return graph.NodeSpec{
		Kind:    graph.InputNode{Semantic: p.Semantic},
		Outputs: []graph.PinSpec{out("Value", t)},
	}, nil
}

func newProperty(p Params) (graph.NodeSpec, error) {
	t, err := valueType("Property", p)
	if err != nil {
		return graph.NodeSpec{}, err
	}
	v, err := literal("Property", t, p.Value)
	if err != nil {
		return graph.NodeSpec{}, err
	}
	o := out("Value", t)
	o.Default = v
	o.Flags = graph.FlagSlider
	if t.Arity >= 3 && t.Kind.IsFloat() {
		o.Flags = graph.FlagColorEdit
	}
	return graph.NodeSpec{
		Kind:    graph.Property{Buffer: p.Resource, Slot: slot(p.Slot)},
		Outputs: []graph.PinSpec{o},
	}, nil
}

func textureDimension(s string) (graph.TextureDimension, types.PinType, error) {
	switch s {
	case "", "2d":
		return graph.Texture2D, types.Float2, nil
	case "cube":
		return graph.TextureCube, types.Float3, nil
	case "3d":
		return graph.Texture3D, types.Float3, nil
	}
	return 0, types.Unknown, paramError("TextureSample", "dimension", "unknown dimension %q", s)
}

func newTextureSample(p Params) (graph.NodeSpec, error) {
	if p.Resource == "" {
		return graph.NodeSpec{}, paramError("TextureSample", "resource", "texture name is required")
	}
	dim, uv, err := textureDimension(p.Dimension)
	if err != nil {
		return graph.NodeSpec{}, err
	}
	texel := types.Float4
	if !p.Type.IsUnknown() {
		texel = p.Type
	}
	return graph.NodeSpec{
		Name: p.Resource,
		Kind: graph.TextureSample{
			Texture:     p.Resource,
			Sampler:     p.Sampler,
			TextureSlot: slot(p.Slot),
			SamplerSlot: slot(p.SamplerSlot),
			Dimension:   dim,
		},
		Inputs:  []graph.PinSpec{in("UV", uv)},
		Outputs: []graph.PinSpec{out("Color", texel)},
	}, nil
}

func viewType(node, s string) (graph.ViewType, types.PinType, error) {
	switch s {
	case "", "buffer":
		return graph.RWBuffer, types.UInt, nil
	case "structured":
		return graph.RWStructuredBuffer, types.UInt, nil
	case "texture2d":
		return graph.RWTexture2D, types.UInt2, nil
	}
	return 0, types.Unknown, paramError(node, "view", "unknown view %q", s)
}

func newStorageLoad(p Params) (graph.NodeSpec, error) {
	if p.Resource == "" {
		return graph.NodeSpec{}, paramError("StorageLoad", "resource", "buffer name is required")
	}
	view, index, err := viewType("StorageLoad", p.View)
	if err != nil {
		return graph.NodeSpec{}, err
	}
	t, err := valueType("StorageLoad", p)
	if err != nil {
		return graph.NodeSpec{}, err
	}
	return graph.NodeSpec{
		Kind:    graph.StorageLoad{Buffer: p.Resource, View: view, Slot: slot(p.Slot)},
		Inputs:  []graph.PinSpec{in("Index", index)},
		Outputs: []graph.PinSpec{out("Value", t)},
	}, nil
}

func newStorageStore(p Params) (graph.NodeSpec, error) {
	if p.Resource == "" {
		return graph.NodeSpec{}, paramError("StorageStore", "resource", "buffer name is required")
	}
	view, index, err := viewType("StorageStore", p.View)
	if err != nil {
		return graph.NodeSpec{}, err
	}
	t, err := valueType("StorageStore", p)
	if err != nil {
		return graph.NodeSpec{}, err
	}
	return graph.NodeSpec{
		Kind: graph.StorageStore{Buffer: p.Resource, View: view, Slot: slot(p.Slot)},
		Inputs: []graph.PinSpec{
			in("Index", index),
			in("Value", t),
		},
	}, nil
}
