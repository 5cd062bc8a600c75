// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"fmt"
	"strings"

	"github.com/gogpu/matgraph/graph"
)

// lower records the operations of one node. Each kind has one template;
// kinds outside the closed set abort the compile.
func (w *Writer) lower(n *graph.Node) error {
	switch k := n.Kind.(type) {
	case graph.Operator:
		return w.lowerOperator(n, k)
	case graph.FunctionCall:
		if err := w.singleOutput(n); err != nil {
			return err
		}
		op := w.newOperation(n, w.output(n, 0), n.Inputs, call(k.Func))
		op.features = intrinsicFeatures(k.Func)
		return nil
	case graph.VoidEffect:
		op := w.newOperation(n, nil, n.Inputs, call(k.Func))
		op.effect = true
		op.features = intrinsicFeatures(k.Func)
		return nil
	case graph.Method:
		return w.lowerMethod(n, k)
	case graph.Constant:
		return w.lowerConstant(n)
	case graph.InputNode:
		return w.lowerInput(n, k)
	case graph.Property:
		return w.lowerProperty(n, k)
	case graph.TextureSample:
		return w.lowerTextureSample(n, k)
	case graph.StorageLoad:
		return w.lowerStorageLoad(n, k)
	case graph.StorageStore:
		return w.lowerStorageStore(n, k)
	case graph.Swizzle:
		return w.lowerSwizzle(n, k)
	case graph.Split:
		return w.lowerSplit(n)
	case graph.OutputNode:
		return w.lowerOutput(n)
	default:
		return nodeError(ErrUnsupportedNodeKind, n.ID,
			"node %q has kind %s with no emission template", n.Name, kindName(n.Kind))
	}
}

func kindName(k graph.Kind) string {
	if k == nil {
		return "<nil>"
	}
	return k.KindName()
}

// output returns the i-th output pin of n, or nil.
func (w *Writer) output(n *graph.Node, i int) *graph.Pin {
	if i >= len(n.Outputs) {
		return nil
	}
	return w.graph.Pin(n.Outputs[i])
}

// singleOutput rejects value nodes that declare more or fewer than one
// output.
func (w *Writer) singleOutput(n *graph.Node) error {
	if len(n.Outputs) != 1 {
		return nodeError(ErrInvalidGraph, n.ID,
			"%s node %q has %d outputs, want 1", kindName(n.Kind), n.Name, len(n.Outputs))
	}
	return nil
}

// call renders name(arg0, arg1, ...).
func call(name string) func([]expr) expr {
	return func(args []expr) expr {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = a.text
		}
		return expr{text: name + "(" + strings.Join(parts, ", ") + ")", class: exprAtom}
	}
}

func intrinsicFeatures(name string) FeatureFlags {
	switch name {
	case "clip":
		return FeatureDiscard
	case "ddx", "ddy", "fwidth", "ddx_coarse", "ddy_coarse", "ddx_fine", "ddy_fine":
		return FeatureDerivatives
	}
	return FeatureNone
}

func (w *Writer) lowerOperator(n *graph.Node, k graph.Operator) error {
	if err := w.singleOutput(n); err != nil {
		return err
	}
	var render func([]expr) expr
	switch len(n.Inputs) {
	case 1:
		render = func(args []expr) expr {
			return expr{text: k.Symbol + args[0].operand(), class: exprCompound}
		}
	case 2:
		render = func(args []expr) expr {
			return expr{
				text:  args[0].operand() + " " + k.Symbol + " " + args[1].operand(),
				class: exprCompound,
			}
		}
	default:
		return nodeError(ErrInvalidGraph, n.ID,
			"operator %q has %d inputs, want 1 or 2", k.Symbol, len(n.Inputs))
	}
	w.newOperation(n, w.output(n, 0), n.Inputs, render)
	return nil
}

// lowerMethod calls a helper function. A method without outputs is a
// statement.
func (w *Writer) lowerMethod(n *graph.Node, k graph.Method) error {
	if len(n.Outputs) > 1 {
		return nodeError(ErrInvalidGraph, n.ID,
			"method %q has %d outputs, want at most 1", k.Name, len(n.Outputs))
	}
	op := w.newOperation(n, w.output(n, 0), n.Inputs, call(k.Name))
	op.effect = len(n.Outputs) == 0
	op.onLive = func() error {
		return w.useHelper(n, k)
	}
	return nil
}

func (w *Writer) lowerConstant(n *graph.Node) error {
	if err := w.singleOutput(n); err != nil {
		return err
	}
	out := w.output(n, 0)
	op := w.newOperation(n, out, nil, func([]expr) expr {
		return literal(defaultValue(out))
	})
	op.trivial = true
	return nil
}

func (w *Writer) lowerInput(n *graph.Node, k graph.InputNode) error {
	if err := w.singleOutput(n); err != nil {
		return err
	}
	out := w.output(n, 0)
	if isPosition(k.Semantic) {
		op := w.newOperation(n, out, nil, func([]expr) expr {
			return expr{text: InputVar + "." + positionMember, class: exprAtom}
		})
		op.trivial = true
		return nil
	}
	var m *inputMember
	op := w.newOperation(n, out, nil, func([]expr) expr {
		return expr{text: InputVar + "." + m.name, class: exprAtom}
	})
	op.trivial = true
	op.onLive = func() error {
		var err error
		m, err = w.inputs.member(n, k.Semantic, out.Type)
		return err
	}
	return nil
}

func (w *Writer) lowerProperty(n *graph.Node, k graph.Property) error {
	if err := w.singleOutput(n); err != nil {
		return err
	}
	out := w.output(n, 0)
	buffer := k.Buffer
	if buffer == "" {
		buffer = DefaultConstantBuffer
	}
	key := ResourceKey{Category: CategoryConstantBuffer, Name: Sanitize(buffer)}
	bufferIdent := w.resourceIdent(key)
	field := w.fieldIdent(key, n.Name)

	op := w.newOperation(n, out, nil, func([]expr) expr {
		return expr{text: field, class: exprAtom}
	})
	op.trivial = true
	op.onLive = func() error {
		b, err := w.resources.request(request{
			key:   key,
			ident: bufferIdent,
			node:  n.ID,
			slot:  k.Slot,
		})
		if err != nil {
			return err
		}
		return b.addField(n.ID, field, out.Type)
	}
	return nil
}

// fieldIdent returns the identifier of a constant buffer member. Members
// share the global scope, so the key includes the buffer.
func (w *Writer) fieldIdent(buffer ResourceKey, name string) string {
	key := ResourceKey{Category: buffer.Category, Name: buffer.Name + "." + strings.ToLower(Sanitize(name))}
	if ident, ok := w.idents[key]; ok {
		return ident
	}
	ident := w.names.call(name)
	w.idents[key] = ident
	return ident
}

func (w *Writer) lowerTextureSample(n *graph.Node, k graph.TextureSample) error {
	if err := w.singleOutput(n); err != nil {
		return err
	}
	if len(n.Inputs) != 1 {
		return nodeError(ErrInvalidGraph, n.ID,
			"texture sample %q has %d inputs, want 1", n.Name, len(n.Inputs))
	}
	out := w.output(n, 0)
	texKey := ResourceKey{Category: CategoryTexture, Name: Sanitize(k.Texture)}
	samplerName := k.Sampler
	if samplerName == "" {
		samplerName = k.Texture + "Sampler"
	}
	sampKey := ResourceKey{Category: CategorySampler, Name: Sanitize(samplerName)}
	tex := w.resourceIdent(texKey)
	samp := w.resourceIdent(sampKey)

	op := w.newOperation(n, out, n.Inputs, func(args []expr) expr {
		return expr{text: fmt.Sprintf("%s.Sample(%s, %s)", tex, samp, args[0].text), class: exprAtom}
	})
	op.features = FeatureDerivatives
	op.onLive = func() error {
		if _, err := w.resources.request(request{
			key:     texKey,
			ident:   tex,
			node:    n.ID,
			slot:    k.TextureSlot,
			element: out.Type,
			object:  TextureToHLSL(k.Dimension),
		}); err != nil {
			return err
		}
		_, err := w.resources.request(request{
			key:   sampKey,
			ident: samp,
			node:  n.ID,
			slot:  k.SamplerSlot,
		})
		return err
	}
	return nil
}

func (w *Writer) lowerStorageLoad(n *graph.Node, k graph.StorageLoad) error {
	if err := w.singleOutput(n); err != nil {
		return err
	}
	if len(n.Inputs) != 1 {
		return nodeError(ErrInvalidGraph, n.ID,
			"storage load %q has %d inputs, want 1", n.Name, len(n.Inputs))
	}
	out := w.output(n, 0)
	key := ResourceKey{Category: CategoryUnorderedAccess, Name: Sanitize(k.Buffer)}
	buf := w.resourceIdent(key)

	op := w.newOperation(n, out, n.Inputs, func(args []expr) expr {
		return expr{text: buf + "[" + args[0].text + "]", class: exprAtom}
	})
	op.volatile = true
	op.features = FeatureUnorderedAccess
	op.onLive = func() error {
		_, err := w.resources.request(request{
			key:     key,
			ident:   buf,
			node:    n.ID,
			slot:    k.Slot,
			element: out.Type,
			object:  k.View.String(),
		})
		return err
	}
	return nil
}

func (w *Writer) lowerStorageStore(n *graph.Node, k graph.StorageStore) error {
	if len(n.Inputs) != 2 {
		return nodeError(ErrInvalidGraph, n.ID,
			"storage store %q has %d inputs, want index and value", n.Name, len(n.Inputs))
	}
	value := w.graph.Pin(n.Inputs[1])
	key := ResourceKey{Category: CategoryUnorderedAccess, Name: Sanitize(k.Buffer)}
	buf := w.resourceIdent(key)

	op := w.newOperation(n, nil, n.Inputs, func(args []expr) expr {
		return expr{text: buf + "[" + args[0].text + "] = " + args[1].text, class: exprCompound}
	})
	op.effect = true
	op.features = FeatureUnorderedAccess
	op.onLive = func() error {
		_, err := w.resources.request(request{
			key:     key,
			ident:   buf,
			node:    n.ID,
			slot:    k.Slot,
			element: value.Type,
			object:  k.View.String(),
		})
		return err
	}
	return nil
}

func (w *Writer) lowerSwizzle(n *graph.Node, k graph.Swizzle) error {
	if err := w.singleOutput(n); err != nil {
		return err
	}
	if !validMask(k.Mask) || len(n.Inputs) != 1 {
		return nodeError(ErrInvalidGraph, n.ID, "swizzle %q has invalid mask %q", n.Name, k.Mask)
	}
	w.newOperation(n, w.output(n, 0), n.Inputs, func(args []expr) expr {
		return expr{text: args[0].base() + "." + k.Mask, class: exprAtom}
	})
	return nil
}

// validMask accepts one to four components from a single set.
func validMask(mask string) bool {
	if len(mask) == 0 || len(mask) > 4 {
		return false
	}
	set := ""
	switch {
	case strings.ContainsRune("xyzw", rune(mask[0])):
		set = "xyzw"
	case strings.ContainsRune("rgba", rune(mask[0])):
		set = "rgba"
	default:
		return false
	}
	for _, c := range mask {
		if !strings.ContainsRune(set, c) {
			return false
		}
	}
	return true
}

// lowerSplit gives every component its own operation, so unused
// components are eliminated independently.
func (w *Writer) lowerSplit(n *graph.Node) error {
	if len(n.Inputs) != 1 || len(n.Outputs) > 4 {
		return nodeError(ErrInvalidGraph, n.ID,
			"split %q has %d inputs and %d outputs", n.Name, len(n.Inputs), len(n.Outputs))
	}
	for i := range n.Outputs {
		component := string("xyzw"[i])
		w.newOperation(n, w.output(n, i), n.Inputs, func(args []expr) expr {
			return expr{text: args[0].base() + "." + component, class: exprAtom}
		})
	}
	return nil
}

// lowerOutput records the terminal write. With one input the entry point
// returns it; with several each input becomes a render target.
func (w *Writer) lowerOutput(n *graph.Node) error {
	if len(n.Inputs) == 0 {
		return nil
	}
	op := w.newOperation(n, nil, n.Inputs, nil)
	op.terminal = true

	if len(n.Inputs) > 1 {
		names := newNamer()
		for i, id := range n.Inputs {
			p := w.graph.Pin(id)
			w.outputs = append(w.outputs, outputMember{
				name:     names.call(p.Name),
				typ:      p.Type,
				semantic: fmt.Sprintf("SV_TARGET%d", i),
				arg:      i,
			})
		}
	}
	return nil
}
