// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"fmt"
	"strings"

	"github.com/gogpu/matgraph/graph"
)

// helper is a function called by method nodes. An empty definition means
// the function is provided by an included file.
type helper struct {
	name       string
	definition string
}

// useHelper registers the helper behind a live method node. Nodes naming
// the same helper must carry the same definition.
func (w *Writer) useHelper(n *graph.Node, k graph.Method) error {
	def := strings.TrimSpace(k.Definition)
	if h, ok := w.helperNames[k.Name]; ok {
		switch {
		case def == "" || def == h.definition:
		case h.definition == "":
			h.definition = def
		default:
			return nodeError(ErrInvalidGraph, n.ID,
				"method %q has conflicting definitions", k.Name)
		}
		return nil
	}
	h := &helper{name: k.Name, definition: def}
	w.helperNames[k.Name] = h
	w.helpers = append(w.helpers, h)
	return nil
}

// writeHelpers writes helper definitions in first-use order.
func (w *Writer) writeHelpers() {
	for _, h := range w.helpers {
		if h.definition == "" {
			continue
		}
		for _, line := range strings.Split(h.definition, "\n") {
			w.out.WriteRaw(strings.TrimRight(line, " \t\r"))
		}
		w.out.Blank()
	}
}

// terminalOp returns the terminal write, or nil when the graph has no
// output.
func (w *Writer) terminalOp() *operation {
	for _, op := range w.ops {
		if op.terminal {
			return op
		}
	}
	return nil
}

// writeEntryPoint writes the pixel shader function.
//
// One terminal input returns its value with SV_TARGET, several fill the
// output structure and a graph without terminal yields a void function
// run for its side effects.
func (w *Writer) writeEntryPoint() error {
	term := w.terminalOp()
	params := fmt.Sprintf("%s %s", w.options.InputStruct, InputVar)

	var signature string
	switch {
	case term == nil:
		signature = fmt.Sprintf("void %s(%s)", w.options.EntryPoint, params)
	case len(term.args) == 1:
		signature = fmt.Sprintf("%s %s(%s) : SV_TARGET",
			TypeToHLSL(term.args[0].pin.Type), w.options.EntryPoint, params)
	default:
		signature = fmt.Sprintf("%s %s(%s)", w.options.OutputStruct, w.options.EntryPoint, params)
	}

	return w.out.Block(signature, func() error {
		if term != nil && len(term.args) > 1 {
			w.out.WriteLine("%s %s;", w.options.OutputStruct, OutputVar)
		}
		if err := w.writeStatements(); err != nil {
			return err
		}
		if term == nil {
			return nil
		}
		return w.writeReturn(term)
	})
}

// writeReturn writes the terminal write and the return statement.
func (w *Writer) writeReturn(term *operation) error {
	args := w.arguments(term)
	if len(args) == 1 {
		w.out.WriteLine("return %s;", args[0].text)
		return nil
	}
	if len(args) != len(w.outputs) {
		return nodeError(ErrInternalError, term.node.ID,
			"terminal has %d inputs but %d output members", len(args), len(w.outputs))
	}
	for _, m := range w.outputs {
		w.out.WriteLine("%s.%s = %s;", OutputVar, m.name, args[m.arg].text)
	}
	w.out.WriteLine("return %s;", OutputVar)
	return nil
}
