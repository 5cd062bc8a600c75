package nodes

import (
	"github.com/gogpu/matgraph/graph"
	"github.com/gogpu/matgraph/types"
)

func init() {
	for _, op := range operators {
		register(op.entry())
	}
	register(Entry{
		Name:        "Negate",
		Category:    CategoryMath,
		Description: "Component-wise negation.",
		New: func(Params) (graph.NodeSpec, error) {
			return graph.NodeSpec{
				Kind:    graph.Operator{Symbol: "-"},
				Inputs:  []graph.PinSpec{inferred("X", 0)},
				Outputs: []graph.PinSpec{inferredOut("Result")},
			}, nil
		},
	})
	for _, fn := range intrinsics {
		register(fn.entry())
	}
	register(Entry{
		Name:        "Clip",
		Category:    CategoryIntrinsic,
		Description: "Discards the pixel when any component of X is negative.",
		New: func(Params) (graph.NodeSpec, error) {
			return graph.NodeSpec{
				Kind:   graph.VoidEffect{Func: "clip"},
				Inputs: []graph.PinSpec{inferred("X", 0)},
			}, nil
		},
	})
}

// operator is a binary infix node whose inputs join symmetrically.
type operator struct {
	name, symbol string
	identity     float64
}

var operators = []operator{
	{"Add", "+", 0},
	{"Subtract", "-", 0},
	{"Multiply", "*", 1},
	{"Divide", "/", 1},
}

func (o operator) entry() Entry {
	return Entry{
		Name:        o.name,
		Category:    CategoryMath,
		Description: "A " + o.symbol + " B, component-wise with scalar broadcast.",
		New: func(Params) (graph.NodeSpec, error) {
			return graph.NodeSpec{
				Kind: graph.Operator{Symbol: o.symbol},
				Inputs: []graph.PinSpec{
					inferred("A", o.identity),
					inferred("B", o.identity),
				},
				Outputs: []graph.PinSpec{inferredOut("Result")},
			}, nil
		},
	}
}

// intrinsic describes an HLSL intrinsic node.
type intrinsic struct {
	name string
	fn   string
	args []string

	// reduce yields the scalar of the joined input type.
	reduce bool

	// fixed, when set, types every pin.
	fixed types.PinType

	// overwrite, when set, forces the output type.
	overwrite types.PinType

	description string
}

// intrinsics maps node names to HLSL intrinsics.
var intrinsics = []intrinsic{
	{name: "Abs", fn: "abs", args: []string{"X"}, description: "Absolute value."},
	{name: "Acos", fn: "acos", args: []string{"X"}, description: "Arccosine."},
	{name: "All", fn: "all", args: []string{"X"}, overwrite: types.Bool, description: "True when every component is non-zero."},
	{name: "Any", fn: "any", args: []string{"X"}, overwrite: types.Bool, description: "True when any component is non-zero."},
	{name: "Asin", fn: "asin", args: []string{"X"}, description: "Arcsine."},
	{name: "Atan", fn: "atan", args: []string{"X"}, description: "Arctangent."},
	{name: "Atan2", fn: "atan2", args: []string{"Y", "X"}, description: "Arctangent of Y/X."},
	{name: "Ceil", fn: "ceil", args: []string{"X"}, description: "Rounds up."},
	{name: "Clamp", fn: "clamp", args: []string{"X", "Min", "Max"}, description: "Clamps X to [Min, Max]."},
	{name: "Cos", fn: "cos", args: []string{"X"}, description: "Cosine."},
	{name: "Cosh", fn: "cosh", args: []string{"X"}, description: "Hyperbolic cosine."},
	{name: "Cross", fn: "cross", args: []string{"A", "B"}, fixed: types.Float3, description: "Cross product."},
	{name: "Ddx", fn: "ddx", args: []string{"X"}, description: "Screen-space derivative along x."},
	{name: "Ddy", fn: "ddy", args: []string{"X"}, description: "Screen-space derivative along y."},
	{name: "Degrees", fn: "degrees", args: []string{"X"}, description: "Radians to degrees."},
	{name: "Distance", fn: "distance", args: []string{"A", "B"}, reduce: true, description: "Distance between two points."},
	{name: "Dot", fn: "dot", args: []string{"A", "B"}, reduce: true, description: "Dot product."},
	{name: "Exp", fn: "exp", args: []string{"X"}, description: "Base-e exponential."},
	{name: "Exp2", fn: "exp2", args: []string{"X"}, description: "Base-2 exponential."},
	{name: "Floor", fn: "floor", args: []string{"X"}, description: "Rounds down."},
	{name: "Fmod", fn: "fmod", args: []string{"X", "Y"}, description: "Floating-point remainder."},
	{name: "Frac", fn: "frac", args: []string{"X"}, description: "Fractional part."},
	{name: "Fwidth", fn: "fwidth", args: []string{"X"}, description: "abs(ddx(X)) + abs(ddy(X))."},
	{name: "Length", fn: "length", args: []string{"X"}, reduce: true, description: "Vector length."},
	{name: "Lerp", fn: "lerp", args: []string{"A", "B", "T"}, description: "Linear interpolation."},
	{name: "Lit", fn: "lit", args: []string{"NdotL", "NdotH", "M"}, fixed: types.Float, overwrite: types.Float4, description: "Ambient, diffuse and specular lighting coefficients."},
	{name: "Log", fn: "log", args: []string{"X"}, description: "Natural logarithm."},
	{name: "Log10", fn: "log10", args: []string{"X"}, description: "Base-10 logarithm."},
	{name: "Log2", fn: "log2", args: []string{"X"}, description: "Base-2 logarithm."},
	{name: "Max", fn: "max", args: []string{"A", "B"}, description: "Component-wise maximum."},
	{name: "Min", fn: "min", args: []string{"A", "B"}, description: "Component-wise minimum."},
	{name: "Normalize", fn: "normalize", args: []string{"X"}, description: "Unit vector."},
	{name: "Pow", fn: "pow", args: []string{"X", "Y"}, description: "X raised to Y."},
	{name: "Radians", fn: "radians", args: []string{"X"}, description: "Degrees to radians."},
	{name: "Rcp", fn: "rcp", args: []string{"X"}, description: "Reciprocal."},
	{name: "Reflect", fn: "reflect", args: []string{"I", "N"}, description: "Reflection of I about N."},
	{name: "Refract", fn: "refract", args: []string{"I", "N", "Eta"}, description: "Refraction of I through N."},
	{name: "Round", fn: "round", args: []string{"X"}, description: "Rounds to nearest."},
	{name: "Rsqrt", fn: "rsqrt", args: []string{"X"}, description: "Reciprocal square root."},
	{name: "Saturate", fn: "saturate", args: []string{"X"}, description: "Clamps to [0, 1]."},
	{name: "Sin", fn: "sin", args: []string{"X"}, description: "Sine."},
	{name: "Sinh", fn: "sinh", args: []string{"X"}, description: "Hyperbolic sine."},
	{name: "Smoothstep", fn: "smoothstep", args: []string{"Min", "Max", "X"}, description: "Hermite interpolation between Min and Max."},
	{name: "Sqrt", fn: "sqrt", args: []string{"X"}, description: "Square root."},
	{name: "Step", fn: "step", args: []string{"Edge", "X"}, description: "1 where X >= Edge, else 0."},
	{name: "Tan", fn: "tan", args: []string{"X"}, description: "Tangent."},
	{name: "Tanh", fn: "tanh", args: []string{"X"}, description: "Hyperbolic tangent."},
}

func (f intrinsic) entry() Entry {
	return Entry{
		Name:        f.name,
		Category:    CategoryIntrinsic,
		Description: f.description,
		New: func(Params) (graph.NodeSpec, error) {
			spec := graph.NodeSpec{
				Kind: graph.FunctionCall{Func: f.fn, Reduce: f.reduce},
			}
			for _, name := range f.args {
				if f.fixed.IsUnknown() {
					spec.Inputs = append(spec.Inputs, inferred(name, 0))
				} else {
					spec.Inputs = append(spec.Inputs, in(name, f.fixed))
				}
			}
			switch {
			case !f.overwrite.IsUnknown():
				spec.OverwriteMode = true
				spec.Overwrite = f.overwrite
				spec.Outputs = []graph.PinSpec{inferredOut("Result")}
			case !f.fixed.IsUnknown():
				spec.Outputs = []graph.PinSpec{out("Result", f.fixed)}
			default:
				spec.Outputs = []graph.PinSpec{inferredOut("Result")}
			}
			return spec, nil
		},
	}
}
