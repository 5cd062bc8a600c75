// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"strings"
	"unicode"
)

// UnnamedIdentifier replaces names that sanitize to nothing.
const UnnamedIdentifier = "_unnamed"

// Names the generator itself declares. User-derived identifiers never
// take them.
const (
	DefaultEntryPoint   = "main"
	DefaultInputStruct  = "PixelInput"
	DefaultOutputStruct = "PixelOutput"
	InputVar            = "input"
	OutputVar           = "output"
	LocalPrefix         = "tmp"
)

// reservedKeywords lists HLSL keywords, object types and the intrinsics a
// material graph can call. Generated identifiers must not shadow any of them.
var reservedKeywords = func() map[string]struct{} {
	words := []string{
		// Language keywords.
		"AppendStructuredBuffer", "BlendState", "Buffer", "ByteAddressBuffer",
		"CompileShader", "ComputeShader", "ConsumeStructuredBuffer",
		"DepthStencilState", "DepthStencilView", "DomainShader",
		"GeometryShader", "Hullshader", "InputPatch", "LineStream",
		"OutputPatch", "PixelShader", "PointStream", "RasterizerState",
		"RenderTargetView", "RWBuffer", "RWByteAddressBuffer",
		"RWStructuredBuffer", "RWTexture1D", "RWTexture1DArray",
		"RWTexture2D", "RWTexture2DArray", "RWTexture3D", "SamplerState",
		"SamplerComparisonState", "StructuredBuffer", "Texture1D",
		"Texture1DArray", "Texture2D", "Texture2DArray", "Texture2DMS",
		"Texture2DMSArray", "Texture3D", "TextureCube", "TextureCubeArray",
		"TriangleStream", "VertexShader", "break", "case", "cbuffer",
		"centroid", "class", "column_major", "compile", "const", "continue",
		"default", "discard", "do", "else", "export", "extern", "false", "for",
		"groupshared", "if", "in", "inline", "inout", "interface", "linear",
		"matrix", "namespace", "nointerpolation", "noperspective", "out",
		"packoffset", "precise", "register", "return", "row_major", "sample",
		"sampler", "shared", "snorm", "static", "string", "struct", "switch",
		"tbuffer", "template", "texture", "true", "typedef", "uniform",
		"unorm", "unsigned", "vector", "void", "volatile", "while",
		// Intrinsics.
		"abs", "acos", "all", "any", "asfloat", "asin", "asint", "asuint",
		"atan", "atan2", "ceil", "clamp", "clip", "cos", "cosh", "countbits",
		"cross", "ddx", "ddx_coarse", "ddx_fine", "ddy", "ddy_coarse",
		"ddy_fine", "degrees", "determinant", "distance", "dot", "exp",
		"exp2", "faceforward", "firstbithigh", "firstbitlow", "floor", "fma",
		"fmod", "frac", "frexp", "fwidth", "isfinite", "isinf", "isnan",
		"ldexp", "length", "lerp", "lit", "log", "log10", "log2", "mad",
		"max", "min", "modf", "mul", "normalize", "pow", "radians", "rcp",
		"reflect", "refract", "reversebits", "round", "rsqrt", "saturate",
		"sign", "sin", "sincos", "sinh", "smoothstep", "sqrt", "step", "tan",
		"tanh", "transpose", "trunc",
	}
	m := make(map[string]struct{}, len(words)+len(typeShorthands()))
	for _, w := range words {
		m[w] = struct{}{}
	}
	for _, w := range typeShorthands() {
		m[w] = struct{}{}
	}
	return m
}()

// typeShorthands returns the scalar, vector and matrix type names.
func typeShorthands() []string {
	bases := []string{
		"bool", "int", "uint", "dword", "half", "float", "double",
		"min16float", "min10float", "min16int", "min12int", "min16uint",
	}
	var out []string
	for _, b := range bases {
		out = append(out, b)
		for r := 1; r <= 4; r++ {
			out = append(out, b+string(rune('0'+r)))
			for c := 1; c <= 4; c++ {
				out = append(out, b+string(rune('0'+r))+"x"+string(rune('0'+c)))
			}
		}
	}
	return out
}

// Legacy keywords HLSL matches regardless of case.
var caseInsensitiveKeywords = map[string]struct{}{
	"asm":         {},
	"decl":        {},
	"pass":        {},
	"technique":   {},
	"texture1d":   {},
	"texture2d":   {},
	"texture3d":   {},
	"texturecube": {},
}

// IsReserved reports whether name is an HLSL keyword, type or intrinsic.
func IsReserved(name string) bool {
	if _, ok := reservedKeywords[name]; ok {
		return true
	}
	_, ok := caseInsensitiveKeywords[strings.ToLower(name)]
	return ok
}

// Escape returns a safe identifier name.
// If the name is reserved or empty, it's prefixed with underscore.
func Escape(name string) string {
	if name == "" {
		return UnnamedIdentifier
	}
	if IsReserved(name) {
		return "_" + name
	}
	return name
}

// Sanitize turns a display name into an identifier: characters outside
// [A-Za-z0-9_] become underscores, runs of underscores collapse, and a
// leading digit gets an underscore prefix. Case is preserved.
func Sanitize(name string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.TrimSpace(name) {
		ok := r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r))
		if !ok {
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
			}
			lastUnderscore = true
			continue
		}
		if b.Len() == 0 && unicode.IsDigit(r) {
			b.WriteByte('_')
		}
		b.WriteRune(r)
		lastUnderscore = false
	}
	s := strings.TrimRight(b.String(), "_")
	if s == "" {
		return UnnamedIdentifier
	}
	return s
}
