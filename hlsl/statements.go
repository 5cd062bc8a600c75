// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

// writeStatements writes the materialized locals and side effects in
// creation order. Inlined operations appear inside their consumer; the
// terminal write comes last and is handled by writeReturn.
func (w *Writer) writeStatements() error {
	for _, op := range w.ops {
		if op.dead || op.inline || op.terminal {
			continue
		}
		if op.render == nil {
			return nodeError(ErrInternalError, op.node.ID, "operation %d has no template", op.index)
		}
		e := op.render(w.arguments(op))
		if op.effect {
			w.out.WriteLine("%s;", e.text)
			continue
		}
		w.out.WriteLine("%s %s = %s;", TypeToHLSL(op.typ), op.name, e.text)
	}
	return nil
}
