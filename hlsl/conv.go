// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gogpu/matgraph/graph"
	"github.com/gogpu/matgraph/types"
)

// ScalarToHLSL returns the HLSL type name for a scalar kind.
// Ref: https://docs.microsoft.com/en-us/windows/win32/direct3dhlsl/dx-graphics-hlsl-scalar
func ScalarToHLSL(k types.ScalarKind) string {
	switch k {
	case types.KindBool:
		return "bool"
	case types.KindInt:
		return "int"
	case types.KindUInt:
		return "uint"
	case types.KindHalf:
		return "half"
	case types.KindDouble:
		return "double"
	default:
		return "float"
	}
}

// TypeToHLSL returns the HLSL type name for a pin type.
// HLSL uses TypeN syntax for vectors (e.g., float4, int3).
func TypeToHLSL(t types.PinType) string {
	if t.Arity <= 1 {
		return ScalarToHLSL(t.Kind)
	}
	return fmt.Sprintf("%s%d", ScalarToHLSL(t.Kind), t.Arity)
}

// LiteralToHLSL writes a literal of v's type, e.g. "1.0", "3u" or
// "float2(0.5, 1.0)".
func LiteralToHLSL(v types.Value) string {
	if v.Type.IsUnknown() {
		return "0"
	}
	if v.Type.Arity == 1 {
		return scalarLiteral(v.Type.Kind, v.Components[0])
	}
	parts := make([]string, v.Type.Arity)
	for i := range parts {
		parts[i] = scalarLiteral(v.Type.Kind, v.Components[i])
	}
	return TypeToHLSL(v.Type) + "(" + strings.Join(parts, ", ") + ")"
}

func scalarLiteral(k types.ScalarKind, c float64) string {
	switch k {
	case types.KindBool:
		if c != 0 {
			return "true"
		}
		return "false"
	case types.KindInt:
		return strconv.FormatInt(int64(c), 10)
	case types.KindUInt:
		if c < 0 {
			c = 0
		}
		return strconv.FormatUint(uint64(c), 10) + "u"
	case types.KindDouble:
		return floatLiteral(c) + "L"
	default:
		return floatLiteral(c)
	}
}

// floatLiteral formats c so HLSL parses it as floating point.
func floatLiteral(c float64) string {
	switch {
	case math.IsNaN(c):
		return "asfloat(0x7fc00000u)"
	case math.IsInf(c, 1):
		return "asfloat(0x7f800000u)"
	case math.IsInf(c, -1):
		return "asfloat(0xff800000u)"
	}
	s := strconv.FormatFloat(c, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// TextureToHLSL returns the object type of a sampled texture.
func TextureToHLSL(dim graph.TextureDimension) string {
	return dim.String()
}

// ViewToHLSL returns the object type of an unordered access view, e.g.
// "RWBuffer<float4>".
func ViewToHLSL(view graph.ViewType, element types.PinType) string {
	return fmt.Sprintf("%s<%s>", view, TypeToHLSL(element))
}

// castTo wraps expr in a C-style cast.
func castTo(t types.PinType, expr string) string {
	return "(" + TypeToHLSL(t) + ")" + expr
}
