package nodes

import (
	"github.com/gogpu/matgraph/graph"
	"github.com/gogpu/matgraph/types"
)

// method is a helper function node. The body is emitted once per shader
// that uses it.
type method struct {
	name        string
	description string
	inputs      []graph.PinSpec
	result      types.PinType
	definition  string
}

var methods = []method{
	{
		name:        "FlipUV",
		description: "Mirrors texture coordinates on the selected axes.",
		inputs: []graph.PinSpec{
			in("UV", types.Float2),
			withDefault(in("Axes", types.Float2), types.Vector(types.KindFloat, 0, 1)),
		},
		result: types.Float2,
		definition: `float2 FlipUV(float2 uv, float2 axes)
{
    return lerp(uv, 1.0 - uv, axes);
}`,
	},
	{
		name:        "RotateUV",
		description: "Rotates texture coordinates around a pivot.",
		inputs: []graph.PinSpec{
			in("UV", types.Float2),
			withDefault(in("Pivot", types.Float2), types.Vector(types.KindFloat, 0.5, 0.5)),
			in("Angle", types.Float),
		},
		result: types.Float2,
		definition: `float2 RotateUV(float2 uv, float2 pivot, float angle)
{
    float s = sin(angle);
    float c = cos(angle);
    float2 d = uv - pivot;
    return float2(d.x * c - d.y * s, d.x * s + d.y * c) + pivot;
}`,
	},
	{
		name:        "NormalMap",
		description: "Unpacks a tangent-space normal map sample and scales its strength.",
		inputs: []graph.PinSpec{
			in("Sample", types.Float4),
			withDefault(in("Strength", types.Float), types.Scalar(types.KindFloat, 1)),
		},
		result: types.Float3,
		definition: `float3 NormalMap(float4 packed, float strength)
{
    float3 n = packed.xyz * 2.0 - 1.0;
    n.xy *= strength;
    return normalize(n);
}`,
	},
}

func init() {
	for _, m := range methods {
		register(m.entry())
	}
}

func (m method) entry() Entry {
	return Entry{
		Name:        m.name,
		Category:    CategoryMethod,
		Description: m.description,
		New: func(Params) (graph.NodeSpec, error) {
			inputs := make([]graph.PinSpec, len(m.inputs))
			copy(inputs, m.inputs)
			return graph.NodeSpec{
				Kind:    graph.Method{Name: m.name, Definition: m.definition},
				Inputs:  inputs,
				Outputs: []graph.PinSpec{out("Result", m.result)},
			}, nil
		},
	}
}
