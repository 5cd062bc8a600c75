// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import "testing"

func TestShaderModel(t *testing.T) {
	tests := []struct {
		sm      ShaderModel
		str     string
		profile string
		dxil    bool
	}{
		{ShaderModel5_0, "SM 5.0", "ps_5_0", false},
		{ShaderModel5_1, "SM 5.1", "ps_5_1", false},
		{ShaderModel6_0, "SM 6.0", "ps_6_0", true},
		{ShaderModel6_2, "SM 6.2", "ps_6_2", true},
	}
	for _, tt := range tests {
		t.Run(tt.str, func(t *testing.T) {
			if got := tt.sm.String(); got != tt.str {
				t.Errorf("String() = %q, want %q", got, tt.str)
			}
			if got := tt.sm.PixelProfile(); got != tt.profile {
				t.Errorf("PixelProfile() = %q, want %q", got, tt.profile)
			}
			if got := tt.sm.SupportsDXIL(); got != tt.dxil {
				t.Errorf("SupportsDXIL() = %v, want %v", got, tt.dxil)
			}
		})
	}
}

func TestParseShaderModel(t *testing.T) {
	tests := []struct {
		in      string
		want    ShaderModel
		wantErr bool
	}{
		{"5_0", ShaderModel5_0, false},
		{"5.1", ShaderModel5_1, false},
		{"", ShaderModel5_1, false},
		{"6_2", ShaderModel6_2, false},
		{"4_0", ShaderModel5_1, true},
	}
	for _, tt := range tests {
		got, err := ParseShaderModel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseShaderModel(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseShaderModel(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
