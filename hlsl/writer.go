// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"fmt"
	"strings"

	"github.com/gogpu/matgraph/emit"
	"github.com/gogpu/matgraph/graph"
)

// Writer generates HLSL source code from a material graph.
type Writer struct {
	out     *emit.Writer
	graph   *graph.Graph
	options Options

	names *namer

	// Operations in creation order and by output pin.
	ops   []*operation
	byPin map[graph.PinID]*operation

	terminal *graph.Node

	// idents maps resources to their declared identifiers.
	idents    map[ResourceKey]string
	resources *resourceTable

	inputs  *inputStruct
	outputs []outputMember

	helpers     []*helper
	helperNames map[string]*helper

	features FeatureFlags
}

// newWriter creates a new HLSL writer.
func newWriter(g *graph.Graph, options Options) *Writer {
	w := &Writer{
		out:         emit.New(),
		graph:       g,
		options:     options,
		byPin:       make(map[graph.PinID]*operation),
		idents:      make(map[ResourceKey]string),
		resources:   newResourceTable(),
		inputs:      newInputStruct(),
		helperNames: make(map[string]*helper),
	}
	w.names = newNamer(
		options.EntryPoint,
		options.InputStruct,
		options.OutputStruct,
		InputVar,
		OutputVar,
	)
	return w
}

// String returns the generated HLSL code.
func (w *Writer) String() string {
	return w.out.String()
}

// writeModule lowers the graph to operations, drops dead ones and writes
// declarations followed by the entry point.
func (w *Writer) writeModule() error {
	order, err := w.graph.TopologicalOrder()
	if err != nil {
		return err
	}

	terminals := w.graph.Terminals()
	if len(terminals) > 1 {
		ids := make([]string, len(terminals))
		for i, t := range terminals {
			ids[i] = fmt.Sprint(t.ID)
		}
		return NewError(ErrInvalidGraph,
			fmt.Sprintf("graph has %d terminal nodes (%s), want at most one", len(terminals), strings.Join(ids, ", ")))
	}
	if len(terminals) == 1 {
		w.terminal = terminals[0]
	}

	w.reserveHelperNames(order)

	for _, id := range order {
		if err := w.lower(w.graph.Node(id)); err != nil {
			return err
		}
	}

	w.eliminate()

	if err := w.checkTypes(); err != nil {
		return err
	}
	if err := w.plan(); err != nil {
		return err
	}
	if err := w.resources.allocate(w.hints(), w.options.Space, w.renderTargets()); err != nil {
		return err
	}
	if err := w.inputs.assignSemantics(); err != nil {
		return err
	}

	w.writeHeader()
	w.writeResources()
	if err := w.writeStructs(); err != nil {
		return err
	}
	w.writeHelpers()
	return w.writeEntryPoint()
}

// reserveHelperNames keeps user-derived identifiers off the functions the
// graph calls.
func (w *Writer) reserveHelperNames(order []graph.NodeID) {
	for _, id := range order {
		switch k := w.graph.Node(id).Kind.(type) {
		case graph.Method:
			w.names.reserve(k.Name)
		case graph.FunctionCall:
			w.names.reserve(k.Func)
		case graph.VoidEffect:
			w.names.reserve(k.Func)
		}
	}
}

// renderTargets counts the SV_TARGET outputs of the entry point.
func (w *Writer) renderTargets() uint32 {
	switch {
	case w.terminal == nil || len(w.terminal.Inputs) == 0:
		return 0
	case len(w.outputs) > 0:
		return uint32(len(w.outputs))
	}
	return 1
}

func (w *Writer) writeHeader() {
	w.out.WriteLine("// %s pixel shader generated from a material graph.", w.options.ShaderModel.PixelProfile())
	w.out.Blank()
}

// info builds the translation metadata after a successful write.
func (w *Writer) info() *TranslationInfo {
	info := &TranslationInfo{
		EntryPoint:   w.options.EntryPoint,
		Profile:      w.options.ShaderModel.PixelProfile(),
		Resources:    w.resources.manifest(),
		UsedFeatures: w.features,
		Operations:   len(w.ops),
	}
	for _, h := range w.helpers {
		info.HelperFunctions = append(info.HelperFunctions, h.name)
	}
	for _, op := range w.ops {
		switch {
		case op.dead:
			info.Eliminated++
		case op.inline:
			info.Inlined++
		default:
			info.Materialized++
		}
	}
	return info
}

// resourceIdent returns the identifier declared for key, claiming one on
// first use.
func (w *Writer) resourceIdent(key ResourceKey) string {
	if name, ok := w.idents[key]; ok {
		return name
	}
	name := w.names.call(key.Name)
	w.idents[key] = name
	return name
}

// hints returns the slot hints keyed by sanitized name.
func (w *Writer) hints() map[ResourceKey]uint32 {
	out := make(map[ResourceKey]uint32, len(w.options.SlotHints))
	for k, v := range w.options.SlotHints {
		out[ResourceKey{Category: k.Category, Name: Sanitize(k.Name)}] = v
	}
	return out
}
