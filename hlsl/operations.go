// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"github.com/gogpu/matgraph/graph"
	"github.com/gogpu/matgraph/types"
)

// exprClass tells consumers whether an expression needs parentheses.
type exprClass uint8

const (
	// exprAtom is a name, call, member access or index.
	exprAtom exprClass = iota

	// exprLiteral is a literal; member access on it needs parentheses.
	exprLiteral

	// exprCompound is an operator, negation or cast.
	exprCompound
)

// expr is rendered expression text.
type expr struct {
	text  string
	class exprClass
}

// operand returns the text for use as an operator operand or cast target.
func (e expr) operand() string {
	if e.class == exprCompound {
		return "(" + e.text + ")"
	}
	return e.text
}

// base returns the text for use before a member access or swizzle.
func (e expr) base() string {
	if e.class != exprAtom {
		return "(" + e.text + ")"
	}
	return e.text
}

// argument is one input of an operation.
type argument struct {
	pin *graph.Pin

	// op feeds the pin; nil when the pin is unconnected.
	op *operation
}

// operation pairs a node output with its local name, expression template
// and reference count. Effects and the terminal write have no output pin.
type operation struct {
	index int
	name  string

	node *graph.Node
	pin  *graph.Pin
	typ  types.PinType
	args []argument

	render func(args []expr) expr

	// trivial operations are always inlined.
	trivial bool

	// volatile operations read mutable resources and are never inlined.
	volatile bool

	effect   bool
	terminal bool

	// onLive declares what the operation references. It runs only for
	// operations that survive elimination.
	onLive func() error

	features FeatureFlags

	refs   int
	dead   bool
	inline bool
}

// statement reports whether the operation is written as its own
// statement rather than bound to a local.
func (op *operation) statement() bool {
	return op.effect || op.terminal
}

// newOperation records an operation for the given output pin (nil for
// effects and the terminal) taking inputs as arguments. Every connected
// input counts as a reference to the operation feeding it.
func (w *Writer) newOperation(n *graph.Node, out *graph.Pin, inputs []graph.PinID, render func([]expr) expr) *operation {
	op := &operation{
		index:  len(w.ops),
		node:   n,
		pin:    out,
		render: render,
	}
	if out != nil {
		op.typ = out.Type
		w.byPin[out.ID] = op
	}
	for _, id := range inputs {
		arg := argument{pin: w.graph.Pin(id)}
		if conn, ok := w.graph.Source(id); ok {
			arg.op = w.byPin[conn.Source]
			if arg.op != nil {
				arg.op.refs++
			}
		}
		op.args = append(op.args, arg)
	}
	w.ops = append(w.ops, op)
	return op
}

// eliminate drops operations nobody consumes. Walking backwards lets a
// dropped operation release its arguments before they are visited, so
// whole dead chains go in one pass.
func (w *Writer) eliminate() {
	for i := len(w.ops) - 1; i >= 0; i-- {
		op := w.ops[i]
		if op.refs > 0 || op.statement() {
			continue
		}
		op.dead = true
		for _, a := range op.args {
			if a.op != nil {
				a.op.refs--
			}
		}
	}
}

// checkTypes verifies every live pin is concrete.
func (w *Writer) checkTypes() error {
	for _, op := range w.live() {
		if op.pin != nil && op.typ.IsUnknown() {
			return nodeError(ErrUnresolvedType, op.node.ID,
				"output pin %q of %q has no resolved type", op.pin.Name, op.node.Name)
		}
		for _, a := range op.args {
			if a.pin.Type.IsUnknown() {
				return nodeError(ErrUnresolvedType, op.node.ID,
					"input pin %q of %q has no resolved type", a.pin.Name, op.node.Name)
			}
		}
	}
	return nil
}

// plan decides inlining, names the materialized locals and collects what
// the live operations reference.
func (w *Writer) plan() error {
	for _, op := range w.live() {
		switch {
		case op.statement():
		case op.trivial:
			op.inline = true
		case !op.volatile && w.options.InlineSingleUse && op.refs == 1:
			op.inline = true
		default:
			op.name = w.names.local(op.index)
		}
		w.features |= op.features | typeFeatures(op.typ)
		for _, a := range op.args {
			w.features |= typeFeatures(a.pin.Type)
		}
		if op.onLive != nil {
			if err := op.onLive(); err != nil {
				return err
			}
		}
	}
	return nil
}

func typeFeatures(t types.PinType) FeatureFlags {
	switch t.Kind {
	case types.KindDouble:
		return FeatureDoubles
	case types.KindHalf:
		return FeatureFloat16
	}
	return FeatureNone
}

// live returns the operations that survived elimination, in creation order.
func (w *Writer) live() []*operation {
	out := make([]*operation, 0, len(w.ops))
	for _, op := range w.ops {
		if !op.dead {
			out = append(out, op)
		}
	}
	return out
}

// value returns the expression that refers to op's result.
func (w *Writer) value(op *operation) expr {
	if op.inline {
		return op.render(w.arguments(op))
	}
	return expr{text: op.name, class: exprAtom}
}

// arguments renders the inputs of op.
func (w *Writer) arguments(op *operation) []expr {
	out := make([]expr, len(op.args))
	for i, a := range op.args {
		out[i] = w.argument(a)
	}
	return out
}

// argument renders one input: the feeding operation, cast per component
// when its vector type differs from the pin, or the pin default.
func (w *Writer) argument(a argument) expr {
	if a.op == nil {
		return literal(defaultValue(a.pin))
	}
	e := w.value(a.op)
	src := a.op.typ
	if !src.IsScalar() && src != a.pin.Type {
		return expr{text: castTo(a.pin.Type, e.operand()), class: exprCompound}
	}
	return e
}

// defaultValue returns the literal an unconnected pin evaluates to.
func defaultValue(p *graph.Pin) types.Value {
	if p.Default.IsZero() {
		return types.Zero(p.Type)
	}
	return p.Default.Convert(p.Type)
}

func literal(v types.Value) expr {
	e := expr{text: LiteralToHLSL(v), class: exprLiteral}
	if v.Type.Arity == 1 && v.Components[0] < 0 {
		e.class = exprCompound
	}
	return e
}
