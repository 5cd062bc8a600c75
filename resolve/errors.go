package resolve

import (
	"fmt"

	"github.com/gogpu/matgraph/graph"
	"github.com/gogpu/matgraph/types"
)

// ErrorKind categorizes resolution errors.
type ErrorKind uint8

const (
	// ErrTypeMismatch indicates two connected or joined pins whose types
	// cannot be reconciled.
	ErrTypeMismatch ErrorKind = iota

	// ErrResolverDefect indicates the resolution did not stabilize after
	// one pass.
	ErrResolverDefect
)

// String returns a human-readable error kind name.
func (k ErrorKind) String() string {
	switch k {
	case ErrTypeMismatch:
		return "TypeMismatch"
	case ErrResolverDefect:
		return "ResolverDefect"
	default:
		return "Unknown"
	}
}

// Error is a resolution error. For ErrTypeMismatch, Pins and Types name
// both sides of the conflict.
type Error struct {
	Kind    ErrorKind
	Message string
	Node    graph.NodeID
	Pins    [2]graph.PinID
	Types   [2]types.PinType
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Kind == ErrTypeMismatch {
		return fmt.Sprintf("resolve %s: pin %d (%s) and pin %d (%s): %s",
			e.Kind, e.Pins[0], e.Types[0], e.Pins[1], e.Types[1], e.Message)
	}
	return fmt.Sprintf("resolve %s: %s", e.Kind, e.Message)
}

// IsTypeMismatch returns true if the error is ErrTypeMismatch.
func (e *Error) IsTypeMismatch() bool {
	return e.Kind == ErrTypeMismatch
}

func mismatch(node graph.NodeID, a, b *graph.Pin, ta, tb types.PinType, format string, args ...any) *Error {
	return &Error{
		Kind:    ErrTypeMismatch,
		Message: fmt.Sprintf(format, args...),
		Node:    node,
		Pins:    [2]graph.PinID{a.ID, b.ID},
		Types:   [2]types.PinType{ta, tb},
	}
}
