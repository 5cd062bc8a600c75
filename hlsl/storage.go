// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"fmt"
	"sort"

	"github.com/gogpu/matgraph/graph"
	"github.com/gogpu/matgraph/types"
)

// request is a live operation's claim on a resource.
type request struct {
	key   ResourceKey
	ident string
	node  graph.NodeID

	// slot is an explicit register, or graph.AutoSlot.
	slot int

	element types.PinType
	object  string
}

// binding is a resource being collected for the manifest.
type binding struct {
	Resource

	key ResourceKey

	// explicit is the register requested by a node, or graph.AutoSlot.
	explicit     int
	explicitNode graph.NodeID
	assigned     bool
}

// resourceTable collects resources in first-use order, deduplicated by
// category and name.
type resourceTable struct {
	byKey map[ResourceKey]*binding
	order []*binding
}

func newResourceTable() *resourceTable {
	return &resourceTable{byKey: make(map[ResourceKey]*binding)}
}

// request registers r. Repeated requests for one resource must agree on
// the object type, element type and explicit register.
func (t *resourceTable) request(r request) (*binding, error) {
	b, ok := t.byKey[r.key]
	if !ok {
		b = &binding{
			Resource: Resource{
				Category:    r.key.Category,
				Name:        r.ident,
				ElementType: r.element,
				Object:      r.object,
			},
			key:      r.key,
			explicit: graph.AutoSlot,
		}
		t.byKey[r.key] = b
		t.order = append(t.order, b)
	}

	if b.Object != r.object || b.ElementType != r.element {
		return nil, nodeError(ErrInvalidGraph, r.node,
			"%s %q declared as %s and %s", b.Category, b.Name, b.describe(), describe(r.object, r.element))
	}

	if r.slot >= 0 {
		switch {
		case b.explicit == graph.AutoSlot:
			b.explicit = r.slot
			b.explicitNode = r.node
		case b.explicit != r.slot:
			rt := b.Category.RegisterType()
			return nil, &Error{
				Kind: ErrSlotConflict,
				Message: fmt.Sprintf("%s %q requested at registers %s%d (node %d) and %s%d (node %d)",
					b.Category, b.Name, rt, b.explicit, b.explicitNode, rt, r.slot, r.node),
				Node:     r.node,
				Names:    []string{b.Name},
				Register: fmt.Sprintf("%s%d", rt, r.slot),
			}
		}
	}
	return b, nil
}

func (b *binding) describe() string {
	return describe(b.Object, b.ElementType)
}

func describe(object string, element types.PinType) string {
	switch {
	case object == "" && element.IsUnknown():
		return "untyped"
	case element.IsUnknown():
		return object
	case object == "":
		return TypeToHLSL(element)
	}
	return fmt.Sprintf("%s<%s>", object, TypeToHLSL(element))
}

// addField appends a constant buffer member unless it already exists.
func (b *binding) addField(node graph.NodeID, name string, t types.PinType) error {
	for _, f := range b.Fields {
		if f.Name != name {
			continue
		}
		if f.Type != t {
			return nodeError(ErrInvalidGraph, node,
				"property %q of buffer %q declared as %s and %s", name, b.Name, f.Type, t)
		}
		return nil
	}
	b.Fields = append(b.Fields, Field{Name: name, Type: t})
	return nil
}

// allocate assigns registers: explicit node slots first, then hints, then
// the lowest free register of each category.
//
// Pixel shader render targets share the u register range, so unordered
// access views start at targets and an explicit or hinted u register
// below it is a conflict.
func (t *resourceTable) allocate(hints map[ResourceKey]uint32, space uint8, targets uint32) error {
	used := make(map[Category]map[uint32]*binding)
	claim := func(b *binding, reg uint32) error {
		if b.Category == CategoryUnorderedAccess && reg < targets {
			register := fmt.Sprintf("u%d", reg)
			return &Error{
				Kind:     ErrSlotConflict,
				Message:  fmt.Sprintf("%s %q binds register %s, which is used by render target SV_TARGET%d", b.Category, b.Name, register, reg),
				Node:     b.explicitNode,
				Names:    []string{b.Name},
				Register: register,
			}
		}
		regs := used[b.Category]
		if regs == nil {
			regs = make(map[uint32]*binding)
			used[b.Category] = regs
		}
		if other, ok := regs[reg]; ok && other != b {
			register := fmt.Sprintf("%s%d", b.Category.RegisterType(), reg)
			return &Error{
				Kind:     ErrSlotConflict,
				Message:  fmt.Sprintf("%s %q and %q both bind register %s", b.Category, other.Name, b.Name, register),
				Node:     b.explicitNode,
				Names:    []string{other.Name, b.Name},
				Register: register,
			}
		}
		regs[reg] = b
		b.Target = BindTarget{Space: space, Register: reg}
		b.assigned = true
		return nil
	}

	for _, b := range t.order {
		if b.explicit >= 0 {
			if err := claim(b, uint32(b.explicit)); err != nil {
				return err
			}
		}
	}
	for _, b := range t.order {
		if reg, ok := hints[b.key]; ok && !b.assigned {
			if err := claim(b, reg); err != nil {
				return err
			}
		}
	}
	for _, b := range t.order {
		if b.assigned {
			continue
		}
		reg := uint32(0)
		if b.Category == CategoryUnorderedAccess {
			reg = targets
		}
		for used[b.Category][reg] != nil {
			reg++
		}
		if err := claim(b, reg); err != nil {
			return err
		}
	}

	for _, b := range t.order {
		if b.Category == CategoryConstantBuffer {
			b.pack()
		}
	}
	return nil
}

// pack computes constant buffer member offsets. Members are laid out in
// 16-byte registers and never straddle one.
func (b *binding) pack() {
	offset := uint32(0)
	for i := range b.Fields {
		size := componentSize(b.Fields[i].Type.Kind) * uint32(b.Fields[i].Type.Arity)
		if offset%16+size > 16 {
			offset = (offset + 15) &^ 15
		}
		b.Fields[i].Offset = offset
		offset += size
	}
	b.Size = (offset + 15) &^ 15
}

func componentSize(k types.ScalarKind) uint32 {
	if k == types.KindDouble {
		return 8
	}
	return 4
}

// sorted returns the bindings grouped by category, each by register.
func (t *resourceTable) sorted() []*binding {
	out := make([]*binding, len(t.order))
	copy(out, t.order)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Target.Register < out[j].Target.Register
	})
	return out
}

// manifest returns the resource manifest.
func (t *resourceTable) manifest() []Resource {
	bindings := t.sorted()
	if len(bindings) == 0 {
		return nil
	}
	out := make([]Resource, len(bindings))
	for i, b := range bindings {
		out[i] = b.Resource
		out[i].Fields = append([]Field(nil), b.Fields...)
	}
	return out
}

// writeResources writes one declaration per resource.
func (w *Writer) writeResources() {
	bindings := w.resources.sorted()
	if len(bindings) == 0 {
		return
	}
	sm := w.options.ShaderModel
	for _, b := range bindings {
		reg := registerSyntax(b.Category.RegisterType(), b.Target, sm)
		switch b.Category {
		case CategoryConstantBuffer:
			_ = w.out.Declaration(fmt.Sprintf("cbuffer %s : %s", b.Name, reg), func() error {
				for _, f := range b.Fields {
					w.out.WriteLine("%s %s;", TypeToHLSL(f.Type), f.Name)
				}
				return nil
			})
		case CategorySampler:
			w.out.WriteLine("SamplerState %s : %s;", b.Name, reg)
		default:
			w.out.WriteLine("%s<%s> %s : %s;", b.Object, TypeToHLSL(b.ElementType), b.Name, reg)
		}
	}
	w.out.Blank()
}
