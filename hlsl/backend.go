// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"fmt"

	"github.com/gogpu/matgraph/graph"
	"github.com/gogpu/matgraph/types"
)

// DefaultConstantBuffer holds properties that name no buffer.
const DefaultConstantBuffer = "Material"

// Options configures HLSL code generation.
type Options struct {
	// ShaderModel specifies the target shader model.
	// Defaults to ShaderModel5_1 for maximum compatibility.
	ShaderModel ShaderModel

	// EntryPoint names the generated pixel shader function.
	EntryPoint string

	// InlineSingleUse substitutes operations consumed exactly once at
	// their use site instead of binding them to a local.
	InlineSingleUse bool

	// SlotHints assigns registers to resources that request automatic
	// placement, so variants compiled from different graphs share one
	// binding layout. Explicit node slots take precedence.
	SlotHints map[ResourceKey]uint32

	// Space is the register space of every declared resource.
	// Ignored below Shader Model 5.1.
	Space uint8

	// InputStruct and OutputStruct name the entry point structures.
	InputStruct  string
	OutputStruct string
}

// DefaultOptions returns sensible default options for HLSL generation.
func DefaultOptions() *Options {
	return &Options{
		ShaderModel:     ShaderModel5_1,
		EntryPoint:      DefaultEntryPoint,
		InlineSingleUse: true,
		SlotHints:       make(map[ResourceKey]uint32),
		InputStruct:     DefaultInputStruct,
		OutputStruct:    DefaultOutputStruct,
	}
}

// withDefaults fills empty names.
func (o Options) withDefaults() Options {
	if o.EntryPoint == "" {
		o.EntryPoint = DefaultEntryPoint
	}
	if o.InputStruct == "" {
		o.InputStruct = DefaultInputStruct
	}
	if o.OutputStruct == "" {
		o.OutputStruct = DefaultOutputStruct
	}
	return o
}

// FeatureFlags indicates which HLSL features the generated code uses.
type FeatureFlags uint32

const (
	// FeatureNone indicates no special features are used.
	FeatureNone FeatureFlags = 0

	// FeatureDiscard indicates clip or discard.
	FeatureDiscard FeatureFlags = 1 << iota

	// FeatureDerivatives indicates implicit or explicit screen-space
	// derivatives (ddx, ddy, fwidth, Sample).
	FeatureDerivatives

	// FeatureUnorderedAccess indicates UAV reads or writes.
	FeatureUnorderedAccess

	// FeatureDoubles indicates double precision arithmetic.
	FeatureDoubles

	// FeatureFloat16 indicates half precision types.
	FeatureFloat16
)

// Has returns true if the flags contain the specified feature.
func (f FeatureFlags) Has(feature FeatureFlags) bool {
	return f&feature != 0
}

// String returns a human-readable list of enabled features.
func (f FeatureFlags) String() string {
	names := []struct {
		flag FeatureFlags
		name string
	}{
		{FeatureDiscard, "Discard"},
		{FeatureDerivatives, "Derivatives"},
		{FeatureUnorderedAccess, "UnorderedAccess"},
		{FeatureDoubles, "Doubles"},
		{FeatureFloat16, "Float16"},
	}
	result := ""
	for _, n := range names {
		if !f.Has(n.flag) {
			continue
		}
		if result != "" {
			result += ", "
		}
		result += n.name
	}
	if result == "" {
		return "none"
	}
	return result
}

// Field is a member of a constant buffer. Offset follows the HLSL packing
// rule: 16-byte registers, no member straddles a register boundary.
type Field struct {
	Name   string
	Type   types.PinType
	Offset uint32
}

// Resource is one entry of the resource manifest.
type Resource struct {
	Category Category

	// Name is the identifier declared in the source.
	Name string

	Target BindTarget

	// ElementType is the texel or element type; unset for samplers and
	// constant buffers.
	ElementType types.PinType

	// Object is the declared HLSL object type, e.g. "Texture2D" or
	// "RWBuffer". Empty for constant buffers and samplers.
	Object string

	// Fields lists constant buffer members in declaration order.
	Fields []Field

	// Size is the constant buffer size in bytes, rounded up to 16.
	Size uint32
}

// Register returns the register clause of the resource, e.g. "t0".
func (r Resource) Register() string {
	return fmt.Sprintf("%s%d", r.Category.RegisterType(), r.Target.Register)
}

// TranslationInfo contains metadata about the HLSL translation.
type TranslationInfo struct {
	// EntryPoint is the generated function name.
	EntryPoint string

	// Profile is the target profile, e.g. "ps_5_1".
	Profile string

	// Resources is the resource manifest: constant buffers, textures,
	// samplers and unordered access views, each group by ascending register.
	Resources []Resource

	// HelperFunctions lists helper functions called by the entry point.
	HelperFunctions []string

	// UsedFeatures indicates which shader features are used.
	UsedFeatures FeatureFlags

	// Operation statistics. Operations counts every record built during
	// the walk; the other three partition it. Materialized covers named
	// locals, side effects and the terminal write.
	Operations   int
	Materialized int
	Inlined      int
	Eliminated   int
}

// Compile generates HLSL source code from a type-resolved graph.
// Returns the HLSL source, translation info, or an error. No source is
// returned when any error occurs.
func Compile(g *graph.Graph, options *Options) (string, *TranslationInfo, error) {
	if g == nil {
		return "", nil, &Error{
			Kind:    ErrInternalError,
			Message: "graph is nil",
		}
	}

	// Apply defaults for nil options
	if options == nil {
		options = DefaultOptions()
	}

	w := newWriter(g, options.withDefaults())
	if err := w.writeModule(); err != nil {
		return "", nil, fmt.Errorf("hlsl: %w", err)
	}

	return w.String(), w.info(), nil
}
