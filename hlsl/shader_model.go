// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import "fmt"

// ShaderModel represents a DirectX Shader Model version.
type ShaderModel uint8

// Supported Shader Model versions.
const (
	// ShaderModel5_0 is the base SM5 version (DirectX 11).
	// Register spaces are not available.
	ShaderModel5_0 ShaderModel = iota

	// ShaderModel5_1 adds register spaces (default).
	ShaderModel5_1

	// ShaderModel6_0 introduces DXIL.
	ShaderModel6_0

	// ShaderModel6_1 adds SV_ViewID and barycentrics.
	ShaderModel6_1

	// ShaderModel6_2 adds native float16.
	ShaderModel6_2
)

// String returns a human-readable representation of the shader model.
// Example: "SM 5.1", "SM 6.0"
func (sm ShaderModel) String() string {
	major, minor := sm.version()
	return fmt.Sprintf("SM %d.%d", major, minor)
}

// ProfileSuffix returns the shader profile suffix for this model.
// Example: "5_1", "6_0"
func (sm ShaderModel) ProfileSuffix() string {
	major, minor := sm.version()
	return fmt.Sprintf("%d_%d", major, minor)
}

// PixelProfile returns the pixel shader profile, e.g. "ps_5_1".
func (sm ShaderModel) PixelProfile() string {
	return "ps_" + sm.ProfileSuffix()
}

func (sm ShaderModel) version() (major, minor uint8) {
	switch sm {
	case ShaderModel5_0:
		return 5, 0
	case ShaderModel5_1:
		return 5, 1
	case ShaderModel6_0:
		return 6, 0
	case ShaderModel6_1:
		return 6, 1
	case ShaderModel6_2:
		return 6, 2
	default:
		return 5, 1
	}
}

// ParseShaderModel parses "5_1", "5.1" or "6_0" style versions.
func ParseShaderModel(s string) (ShaderModel, error) {
	switch s {
	case "5_0", "5.0":
		return ShaderModel5_0, nil
	case "5_1", "5.1", "":
		return ShaderModel5_1, nil
	case "6_0", "6.0":
		return ShaderModel6_0, nil
	case "6_1", "6.1":
		return ShaderModel6_1, nil
	case "6_2", "6.2":
		return ShaderModel6_2, nil
	}
	return ShaderModel5_1, fmt.Errorf("hlsl: unsupported shader model %q", s)
}

// SupportsDXIL returns true if this shader model uses DXIL output.
func (sm ShaderModel) SupportsDXIL() bool {
	return sm >= ShaderModel6_0
}

// SupportsNativeHalf returns true if half maps to a 16-bit type.
// Earlier models treat half as float.
func (sm ShaderModel) SupportsNativeHalf() bool {
	return sm >= ShaderModel6_2
}
