// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"errors"
	"testing"

	"github.com/gogpu/matgraph/graph"
	"github.com/gogpu/matgraph/types"
)

func texRequest(name string, slot int) request {
	return request{
		key:     ResourceKey{Category: CategoryTexture, Name: name},
		ident:   name,
		slot:    slot,
		element: types.Float4,
		object:  "Texture2D",
	}
}

func uavRequest(name string, slot int) request {
	return request{
		key:     ResourceKey{Category: CategoryUnorderedAccess, Name: name},
		ident:   name,
		slot:    slot,
		element: types.Float4,
		object:  "RWBuffer",
	}
}

func TestResourceTable_Allocate(t *testing.T) {
	tbl := newResourceTable()
	for _, r := range []request{
		texRequest("a", graph.AutoSlot),
		texRequest("b", 0),
		texRequest("c", graph.AutoSlot),
		texRequest("a", graph.AutoSlot), // duplicate
		{key: ResourceKey{Category: CategorySampler, Name: "s"}, ident: "s", slot: graph.AutoSlot},
	} {
		if _, err := tbl.request(r); err != nil {
			t.Fatal(err)
		}
	}

	hints := map[ResourceKey]uint32{{Category: CategoryTexture, Name: "c"}: 4}
	if err := tbl.allocate(hints, 1, 0); err != nil {
		t.Fatal(err)
	}

	got := map[string]uint32{}
	for _, r := range tbl.manifest() {
		got[r.Name] = r.Target.Register
		if r.Target.Space != 1 {
			t.Errorf("%s space = %d, want 1", r.Name, r.Target.Space)
		}
	}
	want := map[string]uint32{"a": 1, "b": 0, "c": 4, "s": 0}
	for name, reg := range want {
		if got[name] != reg {
			t.Errorf("%s register = %d, want %d", name, got[name], reg)
		}
	}
	if n := len(tbl.manifest()); n != 4 {
		t.Errorf("manifest has %d entries, want 4", n)
	}
}

func TestResourceTable_ViewsAfterRenderTargets(t *testing.T) {
	tests := []struct {
		targets uint32
		hint    bool
		want    map[string]uint32
	}{
		{targets: 0, want: map[string]uint32{"a": 0, "b": 1}},
		{targets: 1, want: map[string]uint32{"a": 1, "b": 2}},
		{targets: 3, want: map[string]uint32{"a": 3, "b": 4}},
		{targets: 1, hint: true, want: map[string]uint32{"a": 2, "b": 1}},
	}
	for _, tt := range tests {
		tbl := newResourceTable()
		for _, r := range []request{
			uavRequest("a", graph.AutoSlot),
			uavRequest("b", graph.AutoSlot),
			texRequest("t", graph.AutoSlot),
		} {
			if _, err := tbl.request(r); err != nil {
				t.Fatal(err)
			}
		}
		var hints map[ResourceKey]uint32
		if tt.hint {
			hints = map[ResourceKey]uint32{{Category: CategoryUnorderedAccess, Name: "a"}: 2}
		}
		if err := tbl.allocate(hints, 0, tt.targets); err != nil {
			t.Fatalf("targets %d: %v", tt.targets, err)
		}
		for _, r := range tbl.manifest() {
			if r.Category == CategoryTexture {
				if r.Target.Register != 0 {
					t.Errorf("targets %d: texture register = %d, want 0", tt.targets, r.Target.Register)
				}
				continue
			}
			if r.Target.Register != tt.want[r.Name] {
				t.Errorf("targets %d: %s register = %d, want %d", tt.targets, r.Name, r.Target.Register, tt.want[r.Name])
			}
		}
	}
}

func TestResourceTable_Conflicts(t *testing.T) {
	tests := []struct {
		name     string
		requests []request
		hints    map[ResourceKey]uint32
		targets  uint32
		wantReg  string
	}{
		{
			name:     "two names one slot",
			requests: []request{texRequest("a", 2), texRequest("b", 2)},
			wantReg:  "t2",
		},
		{
			name:     "one name two slots",
			requests: []request{texRequest("a", 0), texRequest("a", 1)},
			wantReg:  "t1",
		},
		{
			name:     "hint against explicit slot",
			requests: []request{texRequest("a", 3), texRequest("b", graph.AutoSlot)},
			hints:    map[ResourceKey]uint32{{Category: CategoryTexture, Name: "b"}: 3},
			wantReg:  "t3",
		},
		{
			name:     "explicit view on a render target",
			requests: []request{uavRequest("history", 0)},
			targets:  1,
			wantReg:  "u0",
		},
		{
			name:     "hinted view on a render target",
			requests: []request{uavRequest("history", graph.AutoSlot)},
			hints:    map[ResourceKey]uint32{{Category: CategoryUnorderedAccess, Name: "history"}: 1},
			targets:  2,
			wantReg:  "u1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := newResourceTable()
			var err error
			for _, r := range tt.requests {
				if _, err = tbl.request(r); err != nil {
					break
				}
			}
			if err == nil {
				err = tbl.allocate(tt.hints, 0, tt.targets)
			}

			var e *Error
			if !errors.As(err, &e) || !e.IsSlotConflict() {
				t.Fatalf("err = %v, want SlotConflict", err)
			}
			if e.Register != tt.wantReg {
				t.Errorf("Register = %q, want %q", e.Register, tt.wantReg)
			}
		})
	}
}

func TestResourceTable_TypeDisagreement(t *testing.T) {
	tbl := newResourceTable()
	if _, err := tbl.request(texRequest("a", graph.AutoSlot)); err != nil {
		t.Fatal(err)
	}
	r := texRequest("a", graph.AutoSlot)
	r.object = "TextureCube"
	_, err := tbl.request(r)

	var e *Error
	if !errors.As(err, &e) || e.Kind != ErrInvalidGraph {
		t.Fatalf("err = %v, want InvalidGraph", err)
	}
}

func TestBinding_Pack(t *testing.T) {
	b := &binding{Resource: Resource{Category: CategoryConstantBuffer, Name: "Material"}}
	fields := []struct {
		name   string
		t      types.PinType
		offset uint32
	}{
		{"roughness", types.Float, 0},
		{"tint", types.Float3, 4},
		{"emissive", types.Float3, 16},
		{"scale", types.Float2, 32},
		{"metal", types.Float, 40},
		{"weight", types.Double, 48},
	}
	for _, f := range fields {
		if err := b.addField(0, f.name, f.t); err != nil {
			t.Fatal(err)
		}
	}
	if err := b.addField(0, "tint", types.Float3); err != nil {
		t.Fatalf("re-adding an identical field: %v", err)
	}
	if err := b.addField(0, "tint", types.Float4); err == nil {
		t.Fatal("expected error for a field with a different type")
	}

	b.pack()
	for i, f := range fields {
		if got := b.Fields[i].Offset; got != f.offset {
			t.Errorf("%s offset = %d, want %d", f.name, got, f.offset)
		}
	}
	if b.Size != 64 {
		t.Errorf("Size = %d, want 64", b.Size)
	}
}
