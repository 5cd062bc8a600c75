package nodes

import (
	"strings"

	"github.com/gogpu/matgraph/graph"
	"github.com/gogpu/matgraph/types"
)

func init() {
	register(Entry{
		Name:        "Swizzle",
		Category:    CategoryVector,
		Description: "Selects and reorders components.",
		New:         newSwizzle,
	})
	register(Entry{
		Name:        "Split",
		Category:    CategoryVector,
		Description: "Exposes each component as a scalar.",
		New: func(Params) (graph.NodeSpec, error) {
			return graph.NodeSpec{
				Kind:   graph.Split{},
				Inputs: []graph.PinSpec{inferred("Vector", 0)},
				Outputs: []graph.PinSpec{
					inferredOut("X"),
					inferredOut("Y"),
					inferredOut("Z"),
					inferredOut("W"),
				},
			}, nil
		},
	})
	register(Entry{
		Name:        "Pack",
		Category:    CategoryVector,
		Description: "Builds a float4 from four scalars.",
		New: func(Params) (graph.NodeSpec, error) {
			return graph.NodeSpec{
				Kind: graph.FunctionCall{Func: "float4"},
				Inputs: []graph.PinSpec{
					in("X", types.Float),
					in("Y", types.Float),
					in("Z", types.Float),
					withDefault(in("W", types.Float), types.Scalar(types.KindFloat, 1)),
				},
				Outputs: []graph.PinSpec{out("Vector", types.Float4)},
			}, nil
		},
	})
	register(Entry{
		Name:        "Output",
		Category:    CategoryOutput,
		Description: "The pixel color written to the render target.",
		New: func(Params) (graph.NodeSpec, error) {
			return graph.NodeSpec{
				Name:   "Output",
				Kind:   graph.OutputNode{},
				Inputs: []graph.PinSpec{in("Color", types.Float4)},
				Static: true,
				Pinned: true,
			}, nil
		},
	})
	register(Entry{
		Name:        "BRDF",
		Category:    CategoryOutput,
		Description: "Surface parameters of the lit shading model, one render target each.",
		New: func(Params) (graph.NodeSpec, error) {
			return graph.NodeSpec{
				Name:   "BRDF",
				Kind:   graph.OutputNode{},
				Inputs: brdfInputs(),
				Static: true,
				Pinned: true,
			}, nil
		},
	})
}

// brdfInputs are the BRDF render targets in SV_TARGET order. Unconnected
// pins write the default material.
func brdfInputs() []graph.PinSpec {
	return []graph.PinSpec{
		withDefault(in("BaseColor", types.Float4), types.Vector(types.KindFloat, 1, 1, 1, 1)),
		withDefault(in("Normal", types.Float3), types.Vector(types.KindFloat, 0, 0, 1)),
		withDefault(in("Roughness", types.Float), types.Scalar(types.KindFloat, 0.4)),
		in("Metallic", types.Float),
		withDefault(in("Reflectance", types.Float), types.Scalar(types.KindFloat, 0.5)),
		withDefault(in("AO", types.Float), types.Scalar(types.KindFloat, 1)),
		in("Emissive", types.Float3),
	}
}

func withDefault(p graph.PinSpec, v types.Value) graph.PinSpec {
	p.Default = v
	return p
}

func newSwizzle(p Params) (graph.NodeSpec, error) {
	mask := strings.ToLower(p.Mask)
	if mask == "" || len(mask) > types.MaxArity {
		return graph.NodeSpec{}, paramError("Swizzle", "mask", "want 1 to 4 components, got %q", p.Mask)
	}
	set := "xyzw"
	if strings.ContainsRune("rgba", rune(mask[0])) {
		set = "rgba"
	}
	for _, c := range mask {
		if !strings.ContainsRune(set, c) {
			return graph.NodeSpec{}, paramError("Swizzle", "mask", "invalid component %q in %q", c, p.Mask)
		}
	}
	return graph.NodeSpec{
		Name:    "Swizzle." + mask,
		Kind:    graph.Swizzle{Mask: mask},
		Inputs:  []graph.PinSpec{inferred("Vector", 0)},
		Outputs: []graph.PinSpec{inferredOut("Result")},
	}, nil
}
