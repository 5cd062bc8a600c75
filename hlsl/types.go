// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"fmt"
	"strings"

	"github.com/gogpu/matgraph/graph"
	"github.com/gogpu/matgraph/types"
)

// positionMember is always present in the pixel input structure.
const positionMember = "position"

// inputMember is a field of the pixel input structure.
type inputMember struct {
	name     string
	typ      types.PinType
	semantic string
	explicit bool
	node     graph.NodeID
}

// inputStruct collects the pixel input structure.
type inputStruct struct {
	names   *namer
	byKey   map[string]*inputMember
	members []*inputMember
}

func newInputStruct() *inputStruct {
	return &inputStruct{
		names: newNamer(positionMember),
		byKey: make(map[string]*inputMember),
	}
}

// member returns the member for a live Input node, creating it on first
// use. Nodes sharing a name share the member and must agree on its type
// and semantic.
func (s *inputStruct) member(n *graph.Node, semantic string, t types.PinType) (*inputMember, error) {
	key := strings.ToLower(Sanitize(n.Name))
	m, ok := s.byKey[key]
	if !ok {
		m = &inputMember{
			name:     s.names.call(n.Name),
			typ:      t,
			semantic: strings.ToUpper(semantic),
			explicit: semantic != "",
			node:     n.ID,
		}
		s.byKey[key] = m
		s.members = append(s.members, m)
		return m, nil
	}
	if m.typ != t {
		return nil, nodeError(ErrInvalidGraph, n.ID,
			"input %q declared as %s and %s", m.name, m.typ, t)
	}
	if semantic != "" && m.explicit && !strings.EqualFold(m.semantic, semantic) {
		return nil, nodeError(ErrInvalidGraph, n.ID,
			"input %q bound to semantics %s and %s", m.name, m.semantic, strings.ToUpper(semantic))
	}
	if semantic != "" && !m.explicit {
		m.semantic = strings.ToUpper(semantic)
		m.explicit = true
	}
	return m, nil
}

// assignSemantics gives members without a semantic the lowest free
// TEXCOORDn. Two members may not share a semantic.
func (s *inputStruct) assignSemantics() error {
	taken := make(map[string]*inputMember)
	for _, m := range s.members {
		if !m.explicit {
			continue
		}
		if other, ok := taken[m.semantic]; ok {
			return nodeError(ErrInvalidGraph, m.node,
				"inputs %q and %q both use semantic %s", other.name, m.name, m.semantic)
		}
		taken[m.semantic] = m
	}
	next := 0
	for _, m := range s.members {
		if m.explicit {
			continue
		}
		for {
			semantic := fmt.Sprintf("TEXCOORD%d", next)
			next++
			if taken[semantic] == nil {
				m.semantic = semantic
				taken[semantic] = m
				break
			}
		}
	}
	return nil
}

// outputMember is a field of the pixel output structure.
type outputMember struct {
	name     string
	typ      types.PinType
	semantic string
	arg      int
}

// isPosition reports whether an Input semantic names the built-in
// position member.
func isPosition(semantic string) bool {
	return strings.EqualFold(semantic, "SV_POSITION")
}

// writeStructs writes the pixel input structure and, for graphs with
// several outputs, the pixel output structure.
func (w *Writer) writeStructs() error {
	err := w.out.Declaration("struct "+w.options.InputStruct, func() error {
		w.out.WriteLine("float4 %s : SV_POSITION;", positionMember)
		for _, m := range w.inputs.members {
			w.out.WriteLine("%s %s : %s;", TypeToHLSL(m.typ), m.name, m.semantic)
		}
		return nil
	})
	if err != nil {
		return err
	}
	w.out.Blank()

	if len(w.outputs) < 2 {
		return nil
	}
	err = w.out.Declaration("struct "+w.options.OutputStruct, func() error {
		for _, m := range w.outputs {
			w.out.WriteLine("%s %s : %s;", TypeToHLSL(m.typ), m.name, m.semantic)
		}
		return nil
	})
	w.out.Blank()
	return err
}
