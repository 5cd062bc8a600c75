// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import "fmt"

// BindTarget specifies the HLSL register binding for a resource.
// HLSL uses register(x#, space#) syntax for resource binding.
type BindTarget struct {
	// Space is the register space (0-based).
	Space uint8

	// Register is the register index within the space.
	Register uint32
}

// RegisterType represents the HLSL register type.
type RegisterType uint8

const (
	// RegisterTypeB is for constant buffers (cbuffer).
	RegisterTypeB RegisterType = iota

	// RegisterTypeT is for textures and shader resource views.
	RegisterTypeT

	// RegisterTypeS is for samplers.
	RegisterTypeS

	// RegisterTypeU is for unordered access views (UAV).
	RegisterTypeU
)

// String returns the single-character register prefix.
func (rt RegisterType) String() string {
	switch rt {
	case RegisterTypeB:
		return "b"
	case RegisterTypeT:
		return "t"
	case RegisterTypeS:
		return "s"
	case RegisterTypeU:
		return "u"
	default:
		return "b"
	}
}

// Category is the kind of resource a shader binds.
type Category uint8

const (
	CategoryConstantBuffer Category = iota
	CategoryTexture
	CategorySampler
	CategoryUnorderedAccess
)

// String returns the manifest name of the category.
func (c Category) String() string {
	switch c {
	case CategoryConstantBuffer:
		return "ConstantBuffer"
	case CategoryTexture:
		return "Texture"
	case CategorySampler:
		return "Sampler"
	case CategoryUnorderedAccess:
		return "UnorderedAccessView"
	default:
		return "Unknown"
	}
}

// RegisterType returns the register class the category binds to.
func (c Category) RegisterType() RegisterType {
	switch c {
	case CategoryTexture:
		return RegisterTypeT
	case CategorySampler:
		return RegisterTypeS
	case CategoryUnorderedAccess:
		return RegisterTypeU
	default:
		return RegisterTypeB
	}
}

// ParseCategory converts a manifest or configuration name to a Category.
func ParseCategory(s string) (Category, error) {
	switch s {
	case "ConstantBuffer", "constant_buffers", "cbuffer":
		return CategoryConstantBuffer, nil
	case "Texture", "textures":
		return CategoryTexture, nil
	case "Sampler", "samplers":
		return CategorySampler, nil
	case "UnorderedAccessView", "uavs", "uav":
		return CategoryUnorderedAccess, nil
	}
	return 0, fmt.Errorf("hlsl: unknown resource category %q", s)
}

// ResourceKey identifies a resource independently of its register.
type ResourceKey struct {
	Category Category
	Name     string
}

// registerSyntax returns the register clause for a target. Register
// spaces need Shader Model 5.1.
func registerSyntax(rt RegisterType, target BindTarget, sm ShaderModel) string {
	if sm < ShaderModel5_1 {
		return fmt.Sprintf("register(%s%d)", rt, target.Register)
	}
	return fmt.Sprintf("register(%s%d, space%d)", rt, target.Register, target.Space)
}
