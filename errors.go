package matgraph

import (
	"errors"

	"github.com/gogpu/matgraph/graph"
	"github.com/gogpu/matgraph/hlsl"
	"github.com/gogpu/matgraph/resolve"
)

// ErrorKind classifies any error returned by Compile.
type ErrorKind uint8

const (
	// KindNone is the kind of a nil error.
	KindNone ErrorKind = iota

	// KindInvalidConnection covers rejected connections, references to
	// missing nodes or pins, and graphs the generator cannot lay out.
	KindInvalidConnection

	// KindTypeMismatch covers pins whose types cannot be reconciled or
	// stay unresolved.
	KindTypeMismatch

	// KindGraphCycle indicates the connections contain a cycle.
	KindGraphCycle

	// KindSlotConflict indicates two resources claim one register.
	KindSlotConflict

	// KindUnsupportedNodeKind indicates a node kind the generator does
	// not know.
	KindUnsupportedNodeKind

	// KindInternal covers everything else, including cancellation.
	KindInternal
)

// String returns a human-readable error kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindInvalidConnection:
		return "InvalidConnection"
	case KindTypeMismatch:
		return "TypeMismatch"
	case KindGraphCycle:
		return "GraphCycle"
	case KindSlotConflict:
		return "SlotConflict"
	case KindUnsupportedNodeKind:
		return "UnsupportedNodeKind"
	case KindInternal:
		return "Internal"
	default:
		return "Unknown"
	}
}

// KindOf returns the kind of err, looking through wrapping.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}

	var ge *graph.Error
	if errors.As(err, &ge) {
		switch ge.Kind {
		case graph.ErrGraphCycle:
			return KindGraphCycle
		case graph.ErrInvalidConnection, graph.ErrNodeNotFound, graph.ErrPinNotFound:
			return KindInvalidConnection
		}
		return KindInternal
	}

	var re *resolve.Error
	if errors.As(err, &re) {
		if re.IsTypeMismatch() {
			return KindTypeMismatch
		}
		return KindInternal
	}

	var he *hlsl.Error
	if errors.As(err, &he) {
		switch he.Kind {
		case hlsl.ErrSlotConflict:
			return KindSlotConflict
		case hlsl.ErrUnsupportedNodeKind:
			return KindUnsupportedNodeKind
		case hlsl.ErrUnresolvedType:
			return KindTypeMismatch
		case hlsl.ErrInvalidGraph:
			return KindInvalidConnection
		}
		return KindInternal
	}
	return KindInternal
}
